package postgres

import (
	"context"
	"errors"

	"CapybaraPetService/internal/models"

	"gorm.io/gorm"
)

// WeatherRepository работает с таблицей weather_assets: справочные диапазоны и история
type WeatherRepository struct {
	db *gorm.DB
}

// NewWeatherRepository создает новый экземпляр WeatherRepository
func NewWeatherRepository(db *gorm.DB) *WeatherRepository {
	return &WeatherRepository{db: db}
}

// FindByCode ищет справочную строку, диапазон которой содержит код погоды
func (r *WeatherRepository) FindByCode(ctx context.Context, code int) (*models.WeatherAsset, error) {
	var asset models.WeatherAsset
	err := r.db.WithContext(ctx).
		Where("min_id <= ? AND max_id >= ?", code, code).
		Order("weather_id").
		Take(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindReferenceByDescription ищет справочную строку по описанию
func (r *WeatherRepository) FindReferenceByDescription(ctx context.Context, description string) (*models.WeatherAsset, error) {
	var asset models.WeatherAsset
	err := r.db.WithContext(ctx).
		Where("description = ? AND min_id IS NOT NULL AND max_id IS NOT NULL", description).
		Order("weather_id").
		Take(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Insert добавляет строку истории
func (r *WeatherRepository) Insert(ctx context.Context, asset *models.WeatherAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// Latest возвращает последнюю добавленную строку
func (r *WeatherRepository) Latest(ctx context.Context) (*models.WeatherAsset, error) {
	var asset models.WeatherAsset
	if err := r.db.WithContext(ctx).Order("weather_id DESC").Take(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// LatestID возвращает идентификатор последней строки или nil, если таблица пуста
func (r *WeatherRepository) LatestID(ctx context.Context) (*uint, error) {
	asset, err := r.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset.ID, nil
}
