package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"CapybaraPetService/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis создает мини-Redis сервер для тестирования
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestCacheRepository_User(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCacheRepository(client)
	ctx := context.Background()

	user := &models.UserResponse{ID: "ab12c", UserName: "capy", Email: "capy@example.com", GoalCalories: 1850}
	if err := repo.SetUser(ctx, user); err != nil {
		t.Fatalf("Failed to set user in cache: %v", err)
	}

	if ttl := mr.TTL("user:ab12c:profile"); ttl != userProfileTTL {
		t.Errorf("Expected TTL %v, got %v", userProfileTTL, ttl)
	}

	cached, err := repo.GetUser(ctx, "ab12c")
	if err != nil {
		t.Fatalf("Failed to get user from cache: %v", err)
	}
	if cached.Email != user.Email || cached.GoalCalories != 1850 {
		t.Errorf("Unexpected cached user: %+v", cached)
	}

	if err := repo.DeleteUser(ctx, "ab12c"); err != nil {
		t.Fatalf("Failed to delete user from cache: %v", err)
	}
	if _, err := repo.GetUser(ctx, "ab12c"); !errors.Is(err, redis.Nil) {
		t.Errorf("Expected redis.Nil after delete, got %v", err)
	}
}

func TestCacheRepository_LatestWeatherExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCacheRepository(client)
	ctx := context.Background()

	asset := &models.WeatherAsset{ID: 7, Description: "Rain", Message: "Take an umbrella"}
	if err := repo.SetLatestWeather(ctx, asset); err != nil {
		t.Fatalf("Failed to cache weather: %v", err)
	}

	cached, err := repo.GetLatestWeather(ctx)
	if err != nil {
		t.Fatalf("Failed to get weather from cache: %v", err)
	}
	if cached.ID != 7 || cached.Description != "Rain" {
		t.Errorf("Unexpected cached weather: %+v", cached)
	}

	mr.FastForward(latestWeatherTTL + time.Second)

	if _, err := repo.GetLatestWeather(ctx); !errors.Is(err, redis.Nil) {
		t.Errorf("Expected expired weather, got %v", err)
	}
}
