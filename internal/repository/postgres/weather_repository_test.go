package postgres

import (
	"context"
	"testing"
	"time"

	"CapybaraPetService/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestWeatherRepositoryFindByCode(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewWeatherRepository(db)

	rows := sqlmock.NewRows([]string{"weather_id", "min_id", "max_id", "description", "message"}).
		AddRow(3, 500, 531, "Rain", "Take an umbrella")
	mock.ExpectQuery(`SELECT \* FROM "weather_assets" WHERE min_id <= \$1 AND max_id >= \$2`).
		WillReturnRows(rows)

	asset, err := repo.FindByCode(context.Background(), 501)
	if err != nil {
		t.Fatalf("FindByCode returned error: %v", err)
	}
	if asset.Description != "Rain" || !asset.Matches(501) {
		t.Errorf("Unexpected asset: %+v", asset)
	}
	expectMet(t, mock)
}

func TestWeatherRepositoryInsert(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewWeatherRepository(db)
	city := "Osaka"

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "weather_assets" .* RETURNING "weather_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"weather_id"}).AddRow(42))
	mock.ExpectCommit()

	asset := &models.WeatherAsset{Description: "Clear", Message: "Sunny day", City: &city}
	if err := repo.Insert(context.Background(), asset); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if asset.ID != 42 {
		t.Errorf("Expected id 42, got %d", asset.ID)
	}
	expectMet(t, mock)
}

func TestWeatherRepositoryLatestID(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewWeatherRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "weather_assets" ORDER BY weather_id DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"weather_id"}))

		id, err := repo.LatestID(context.Background())
		if err != nil {
			t.Fatalf("LatestID returned error: %v", err)
		}
		if id != nil {
			t.Errorf("Expected nil id, got %d", *id)
		}
		expectMet(t, mock)
	})

	t.Run("latest row", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewWeatherRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "weather_assets" ORDER BY weather_id DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"weather_id", "description", "created_at"}).AddRow(9, "Clouds", time.Now()))

		id, err := repo.LatestID(context.Background())
		if err != nil {
			t.Fatalf("LatestID returned error: %v", err)
		}
		if id == nil || *id != 9 {
			t.Errorf("Expected id 9, got %v", id)
		}
		expectMet(t, mock)
	})
}
