package postgres

import (
	"context"
	"testing"
	"time"

	"CapybaraPetService/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMetricRepositoryInsert(t *testing.T) {
	loggedAt := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	t.Run("pet action row", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewMetricRepository(db)
		petID := uint(4)

		mock.ExpectQuery(`INSERT INTO calories \(user_id, pet_id, calories, log_date\) VALUES .* RETURNING call_id`).
			WithArgs("ab12c", petID, int64(10), loggedAt).
			WillReturnRows(sqlmock.NewRows([]string{"call_id"}).AddRow(15))

		id, err := repo.Insert(context.Background(), models.MetricCalories, MetricEntry{
			UserID: "ab12c", PetID: &petID, Value: 10, LoggedAt: loggedAt,
		})
		if err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		if id != 15 {
			t.Errorf("Expected id 15, got %d", id)
		}
		expectMet(t, mock)
	})

	t.Run("weight keeps fraction", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewMetricRepository(db)

		mock.ExpectQuery(`INSERT INTO weight \(user_id, weight, log_date\) VALUES .* RETURNING weight_id`).
			WithArgs("ab12c", 61.4, loggedAt).
			WillReturnRows(sqlmock.NewRows([]string{"weight_id"}).AddRow(3))

		if _, err := repo.Insert(context.Background(), models.MetricWeight, MetricEntry{
			UserID: "ab12c", Value: 61.4, LoggedAt: loggedAt,
		}); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
		expectMet(t, mock)
	})

	t.Run("unknown metric is rejected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewMetricRepository(db)

		bogus := models.Metric{Name: "calories", Table: "user_data", Column: "password", IDColumn: "user_id"}
		if _, err := repo.Insert(context.Background(), bogus, MetricEntry{UserID: "ab12c"}); err == nil {
			t.Fatal("Expected error for unknown metric")
		}
		expectMet(t, mock)
	})
}

func TestMetricRepositoryPoints(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewMetricRepository(db)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"log_date", "value"}).
		AddRow(from.Add(8*time.Hour), 250.0).
		AddRow(from.Add(13*time.Hour), 10.0)
	mock.ExpectQuery(`SELECT log_date, steps AS value FROM "steps" WHERE user_id = \$1 AND log_date >= \$2 AND log_date < \$3 ORDER BY log_date`).
		WithArgs("ab12c", from, to).
		WillReturnRows(rows)

	points, err := repo.Points(context.Background(), models.MetricSteps, "ab12c", from, to)
	if err != nil {
		t.Fatalf("Points returned error: %v", err)
	}
	if len(points) != 2 || points[0].Value != 250 {
		t.Errorf("Unexpected points: %+v", points)
	}
	expectMet(t, mock)
}

func TestMetricRepositorySumAndLatest(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewMetricRepository(db)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(water\), 0\) FROM "water"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(30.0))
	mock.ExpectQuery(`SELECT log_date, weight AS value FROM "weight" WHERE user_id = \$1 ORDER BY log_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"log_date", "value"}))

	total, err := repo.Sum(context.Background(), models.MetricWater, "ab12c", from, to)
	if err != nil {
		t.Fatalf("Sum returned error: %v", err)
	}
	if total != 30 {
		t.Errorf("Expected 30, got %v", total)
	}

	latest, err := repo.Latest(context.Background(), models.MetricWeight, "ab12c")
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest != nil {
		t.Errorf("Expected nil latest weight, got %v", *latest)
	}
	expectMet(t, mock)
}

func TestMetricRepositorySleep(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewMetricRepository(db)

	start := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "sleep" .* RETURNING "sleep_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"sleep_id"}).AddRow(2))
	mock.ExpectCommit()

	entry := &models.SleepLog{UserID: "ab12c", SleepStart: start, SleepEnd: end, DurationMinutes: 420, LogDate: end}
	if err := repo.InsertSleep(context.Background(), entry); err != nil {
		t.Fatalf("InsertSleep returned error: %v", err)
	}
	if entry.ID != 2 {
		t.Errorf("Expected id 2, got %d", entry.ID)
	}

	mock.ExpectQuery(`SELECT \* FROM "sleep" WHERE user_id = \$1 ORDER BY sleep_end DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"sleep_id", "user_id", "sleep_start", "sleep_end", "duration_minutes"}).
			AddRow(2, "ab12c", start, end, 420))

	last, err := repo.LastSleep(context.Background(), "ab12c")
	if err != nil {
		t.Fatalf("LastSleep returned error: %v", err)
	}
	if last == nil || last.DurationMinutes != 420 {
		t.Errorf("Unexpected last sleep: %+v", last)
	}
	expectMet(t, mock)
}
