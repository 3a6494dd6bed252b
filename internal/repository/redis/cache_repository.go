package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CapybaraPetService/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// TTL для разных типов кэша
	userProfileTTL   = 30 * time.Minute
	latestWeatherTTL = 10 * time.Minute

	latestWeatherKey = "weather:latest"
)

func userProfileKey(id string) string {
	return fmt.Sprintf("user:%s:profile", id)
}

// CacheRepository представляет репозиторий для работы с кэшем в Redis
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository создает новый экземпляр CacheRepository
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{
		client: client,
	}
}

// SetUser кэширует профиль пользователя
func (r *CacheRepository) SetUser(ctx context.Context, user *models.UserResponse) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userProfileKey(user.ID), userData, userProfileTTL).Err()
}

// GetUser получает профиль пользователя из кэша; при отсутствии ключа возвращает redis.Nil
func (r *CacheRepository) GetUser(ctx context.Context, id string) (*models.UserResponse, error) {
	userData, err := r.client.Get(ctx, userProfileKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var user models.UserResponse
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет профиль пользователя из кэша
func (r *CacheRepository) DeleteUser(ctx context.Context, id string) error {
	return r.client.Del(ctx, userProfileKey(id)).Err()
}

// SetLatestWeather кэширует последнюю строку погоды
func (r *CacheRepository) SetLatestWeather(ctx context.Context, asset *models.WeatherAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, latestWeatherKey, data, latestWeatherTTL).Err()
}

// GetLatestWeather получает последнюю строку погоды из кэша
func (r *CacheRepository) GetLatestWeather(ctx context.Context) (*models.WeatherAsset, error) {
	data, err := r.client.Get(ctx, latestWeatherKey).Bytes()
	if err != nil {
		return nil, err
	}

	var asset models.WeatherAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}
