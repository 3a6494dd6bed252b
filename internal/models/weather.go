package models

import "time"

// WeatherAsset строка weather_assets. Справочные строки задают диапазон кодов
// (min_id/max_id), строки истории хранят результат очередного получения погоды.
type WeatherAsset struct {
	ID              uint      `gorm:"column:weather_id;primaryKey" json:"weather_id"`
	MinID           *int      `gorm:"column:min_id" json:"min_id,omitempty"`
	MaxID           *int      `gorm:"column:max_id" json:"max_id,omitempty"`
	Description     string    `gorm:"column:description;size:225;index" json:"description"`
	Message         string    `gorm:"column:message;size:225" json:"message,omitempty"`
	IconsImage      string    `gorm:"column:icons_image;size:225" json:"icons_image,omitempty"`
	BackgroundImage string    `gorm:"column:background_image;size:225" json:"background_image,omitempty"`
	City            *string   `gorm:"column:city;size:100" json:"city,omitempty"`
	WeatherCode     *int      `gorm:"column:weather_code" json:"weather_code,omitempty"`
	Temperature     *float64  `gorm:"column:temperature" json:"temperature,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName задает имя таблицы
func (WeatherAsset) TableName() string { return "weather_assets" }

// IsReference сообщает, является ли строка справочным диапазоном
func (w *WeatherAsset) IsReference() bool {
	return w.MinID != nil && w.MaxID != nil
}

// Matches проверяет, попадает ли код погоды в диапазон строки
func (w *WeatherAsset) Matches(code int) bool {
	return w.IsReference() && *w.MinID <= code && *w.MaxID >= code
}

// WeatherObservation текущая погода, полученная от внешнего API
type WeatherObservation struct {
	City        string  `json:"city"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Code        int     `json:"code"`
	Main        string  `json:"main"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
}

// WeatherResult ответ на получение погоды
type WeatherResult struct {
	Message string        `json:"message"`
	Data    *WeatherAsset `json:"data"`
	// FromCache true, когда внешний API недоступен и возвращена последняя сохраненная строка
	FromCache bool `json:"from_cache"`
}
