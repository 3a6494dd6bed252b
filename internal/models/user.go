package models

import (
	"time"
)

// Допустимые значения пола
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User представляет профиль пользователя вместе с целями
type User struct {
	ID           string    `gorm:"column:user_id;primaryKey;type:char(5)" json:"user_id"`
	UserName     string    `gorm:"column:user_name;size:225;not null" json:"user_name"`
	Email        string    `gorm:"column:email;size:252;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password;size:225;not null" json:"-"`
	Age          int       `gorm:"column:age;not null" json:"age"`
	Gender       string    `gorm:"column:gender;size:6;not null;check:gender IN ('male','female')" json:"gender"`
	Height       float64   `gorm:"column:height;not null" json:"height"`
	Weight       float64   `gorm:"column:weight;not null" json:"weight"`
	Health       string    `gorm:"column:health;size:225" json:"health"`
	Goal         string    `gorm:"column:goal;size:255" json:"goal"`
	GoalSteps    int       `gorm:"column:goal_steps" json:"goal_steps"`
	GoalWeight   float64   `gorm:"column:goal_weight" json:"goal_weight"`
	GoalCalories int       `gorm:"column:goal_calories" json:"goal_calories"`
	GoalWater    int       `gorm:"column:goal_water" json:"goal_water"`
	WakeTime     *string   `gorm:"column:wake_time;size:8" json:"wake_time,omitempty"`
	SleepTime    *string   `gorm:"column:sleep_time;size:8" json:"sleep_time,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName задает имя таблицы пользователей
func (User) TableName() string { return "user_data" }

// Goals цели пользователя
type Goals struct {
	UserID       string  `json:"user_id"`
	GoalWeight   float64 `json:"goal_weight"`
	GoalSteps    int     `json:"goal_steps"`
	GoalCalories int     `json:"goal_calories"`
	GoalWater    int     `json:"goal_water"`
}

// GoalsOf возвращает цели пользователя
func GoalsOf(u *User) Goals {
	return Goals{
		UserID:       u.ID,
		GoalWeight:   u.GoalWeight,
		GoalSteps:    u.GoalSteps,
		GoalCalories: u.GoalCalories,
		GoalWater:    u.GoalWater,
	}
}

// UserResponse профиль пользователя без хеша пароля
type UserResponse struct {
	ID           string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	Email        string  `json:"email"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
	Health       string  `json:"health"`
	Goal         string  `json:"goal"`
	GoalSteps    int     `json:"goal_steps"`
	GoalWeight   float64 `json:"goal_weight"`
	GoalCalories int     `json:"goal_calories"`
	GoalWater    int     `json:"goal_water"`
	WakeTime     *string `json:"wake_time,omitempty"`
	SleepTime    *string `json:"sleep_time,omitempty"`
}

// ToResponse преобразует модель в ответ API
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		UserName:     u.UserName,
		Email:        u.Email,
		Age:          u.Age,
		Gender:       u.Gender,
		Height:       u.Height,
		Weight:       u.Weight,
		Health:       u.Health,
		Goal:         u.Goal,
		GoalSteps:    u.GoalSteps,
		GoalWeight:   u.GoalWeight,
		GoalCalories: u.GoalCalories,
		GoalWater:    u.GoalWater,
		WakeTime:     u.WakeTime,
		SleepTime:    u.SleepTime,
	}
}
