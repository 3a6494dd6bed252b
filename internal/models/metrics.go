package models

import "time"

// Metric описывает временной ряд: таблицу, колонку значения и ключ строки
type Metric struct {
	Name     string
	Table    string
	Column   string
	IDColumn string
	// HasPet таблица хранит pet_id для действий с питомцем
	HasPet bool
	// Integral значения хранятся целыми
	Integral bool
}

// Поддерживаемые временные ряды
var (
	MetricCalories = Metric{Name: "calories", Table: "calories", Column: "calories", IDColumn: "call_id", HasPet: true, Integral: true}
	MetricWater    = Metric{Name: "water", Table: "water", Column: "water", IDColumn: "water_id", HasPet: true, Integral: true}
	MetricSteps    = Metric{Name: "steps", Table: "steps", Column: "steps", IDColumn: "step_id", Integral: true}
	MetricWeight   = Metric{Name: "weight", Table: "weight", Column: "weight", IDColumn: "weight_id"}
)

// Metrics все временные ряды, доступные для графиков
var Metrics = []Metric{MetricCalories, MetricWater, MetricSteps, MetricWeight}

// MetricByName ищет временной ряд по имени
func MetricByName(name string) (Metric, bool) {
	for _, m := range Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// SeriesMode режим группировки графика
type SeriesMode string

// Режимы графиков
const (
	ModeDay     SeriesMode = "day"
	ModeWeek    SeriesMode = "week"
	ModeMonth   SeriesMode = "month"
	Mode6Months SeriesMode = "6months"
	ModeYear    SeriesMode = "year"
)

// MetricPoint одна строка временного ряда
type MetricPoint struct {
	LogDate time.Time `gorm:"column:log_date"`
	Value   float64   `gorm:"column:value"`
}

// Series параллельные последовательности подписей и значений
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// CaloriesLog запись потребленных калорий
type CaloriesLog struct {
	ID       uint      `gorm:"column:call_id;primaryKey"`
	UserID   string    `gorm:"column:user_id;type:char(5);not null;index:idx_calories_user_date,priority:1"`
	PetID    *uint     `gorm:"column:pet_id"`
	Calories int       `gorm:"column:calories"`
	LogDate  time.Time `gorm:"column:log_date;not null;default:CURRENT_TIMESTAMP;index:idx_calories_user_date,priority:2"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
	Pet  *Pet  `gorm:"foreignKey:PetID;references:ID"`
}

// TableName задает имя таблицы
func (CaloriesLog) TableName() string { return "calories" }

// WaterLog запись выпитой воды
type WaterLog struct {
	ID      uint      `gorm:"column:water_id;primaryKey"`
	UserID  string    `gorm:"column:user_id;type:char(5);not null;index:idx_water_user_date,priority:1"`
	PetID   *uint     `gorm:"column:pet_id"`
	Water   int       `gorm:"column:water"`
	LogDate time.Time `gorm:"column:log_date;not null;default:CURRENT_TIMESTAMP;index:idx_water_user_date,priority:2"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
	Pet  *Pet  `gorm:"foreignKey:PetID;references:ID"`
}

// TableName задает имя таблицы
func (WaterLog) TableName() string { return "water" }

// StepsLog запись шагов
type StepsLog struct {
	ID      uint      `gorm:"column:step_id;primaryKey"`
	UserID  string    `gorm:"column:user_id;type:char(5);not null;index:idx_steps_user_date,priority:1"`
	Steps   int       `gorm:"column:steps"`
	LogDate time.Time `gorm:"column:log_date;not null;default:CURRENT_TIMESTAMP;index:idx_steps_user_date,priority:2"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName задает имя таблицы
func (StepsLog) TableName() string { return "steps" }

// WeightLog запись веса
type WeightLog struct {
	ID      uint      `gorm:"column:weight_id;primaryKey"`
	UserID  string    `gorm:"column:user_id;type:char(5);not null;index:idx_weight_user_date,priority:1"`
	Weight  float64   `gorm:"column:weight"`
	LogDate time.Time `gorm:"column:log_date;not null;default:CURRENT_TIMESTAMP;index:idx_weight_user_date,priority:2"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName задает имя таблицы
func (WeightLog) TableName() string { return "weight" }

// SleepLog запись сна
type SleepLog struct {
	ID              uint      `gorm:"column:sleep_id;primaryKey" json:"sleep_id"`
	UserID          string    `gorm:"column:user_id;type:char(5);not null;index" json:"user_id"`
	SleepStart      time.Time `gorm:"column:sleep_start;not null" json:"sleep_start"`
	SleepEnd        time.Time `gorm:"column:sleep_end;not null" json:"sleep_end"`
	DurationMinutes int       `gorm:"column:duration_minutes" json:"duration_minutes"`
	Quality         *string   `gorm:"column:quality;size:50" json:"quality,omitempty"`
	LogDate         time.Time `gorm:"column:log_date;not null;default:CURRENT_TIMESTAMP" json:"log_date"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// TableName задает имя таблицы
func (SleepLog) TableName() string { return "sleep" }

// DailySummary итоги дня пользователя
type DailySummary struct {
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	Calories     float64   `json:"calories"`
	Water        float64   `json:"water"`
	Steps        float64   `json:"steps"`
	LatestWeight *float64  `json:"latest_weight"`
	LastSleep    *SleepLog `json:"last_sleep"`
	Goals        Goals     `json:"goals"`
}
