package redis

import (
	"context"
	"errors"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/database"
	"CapybaraPetService/pkg/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResilientCacheRepository добавляет механизмы отказоустойчивости к кэш-репозиторию.
// Ошибки записи кэша не возвращаются, ошибки чтения возвращаются как промах.
type ResilientCacheRepository struct {
	repo          *CacheRepository
	logger        *zap.Logger
	healthChecker *database.HealthChecker
}

// NewResilientCacheRepository создает новый экземпляр отказоустойчивого кэш-репозитория
func NewResilientCacheRepository(repo *CacheRepository, healthChecker *database.HealthChecker, logger *zap.Logger) *ResilientCacheRepository {
	return &ResilientCacheRepository{
		repo:          repo,
		logger:        logger,
		healthChecker: healthChecker,
	}
}

// recordRead записывает метрику чтения и сводит сбои Redis к промаху
func (r *ResilientCacheRepository) recordRead(operation string, err error) error {
	switch {
	case err == nil:
		server.RecordCacheOperation(operation, "hit")
		return nil
	case errors.Is(err, redis.Nil):
		server.RecordCacheOperation(operation, "miss")
		return redis.Nil
	default:
		server.RecordCacheOperation(operation, "error")
		r.logger.Warn("Ошибка чтения кэша, продолжаем без кэша",
			zap.String("operation", operation),
			zap.Error(err))
		return redis.Nil
	}
}

// recordWrite записывает метрику записи; ошибка только логируется
func (r *ResilientCacheRepository) recordWrite(operation string, err error, fields ...zap.Field) {
	if err == nil {
		server.RecordCacheOperation(operation, "ok")
		return
	}
	server.RecordCacheOperation(operation, "error")
	r.logger.Warn("Ошибка записи кэша, продолжаем без кэша",
		append(fields, zap.String("operation", operation), zap.Error(err))...)
}

// SetUser кэширует профиль пользователя
func (r *ResilientCacheRepository) SetUser(ctx context.Context, user *models.UserResponse) {
	err := r.healthChecker.WithRedisResilience(ctx, "set_user_cache", func(ctx context.Context) error {
		return r.repo.SetUser(ctx, user)
	})
	r.recordWrite("set_user", err, zap.String("user_id", user.ID))
}

// GetUser получает профиль пользователя из кэша
func (r *ResilientCacheRepository) GetUser(ctx context.Context, id string) (*models.UserResponse, error) {
	var user *models.UserResponse
	err := r.healthChecker.WithRedisResilience(ctx, "get_user_cache", func(ctx context.Context) error {
		var opErr error
		user, opErr = r.repo.GetUser(ctx, id)
		return opErr
	})
	if err := r.recordRead("get_user", err); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser удаляет профиль пользователя из кэша
func (r *ResilientCacheRepository) DeleteUser(ctx context.Context, id string) {
	err := r.healthChecker.WithRedisResilience(ctx, "delete_user_cache", func(ctx context.Context) error {
		return r.repo.DeleteUser(ctx, id)
	})
	r.recordWrite("delete_user", err, zap.String("user_id", id))
}

// SetLatestWeather кэширует последнюю строку погоды
func (r *ResilientCacheRepository) SetLatestWeather(ctx context.Context, asset *models.WeatherAsset) {
	err := r.healthChecker.WithRedisResilience(ctx, "set_weather_cache", func(ctx context.Context) error {
		return r.repo.SetLatestWeather(ctx, asset)
	})
	r.recordWrite("set_latest_weather", err, zap.Uint("weather_id", asset.ID))
}

// GetLatestWeather получает последнюю строку погоды из кэша
func (r *ResilientCacheRepository) GetLatestWeather(ctx context.Context) (*models.WeatherAsset, error) {
	var asset *models.WeatherAsset
	err := r.healthChecker.WithRedisResilience(ctx, "get_weather_cache", func(ctx context.Context) error {
		var opErr error
		asset, opErr = r.repo.GetLatestWeather(ctx)
		return opErr
	})
	if err := r.recordRead("get_latest_weather", err); err != nil {
		return nil, err
	}
	return asset, nil
}
