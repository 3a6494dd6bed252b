package models

import "time"

// CreateUserRequest запрос на регистрацию. Числовые поля приходят из формы
// и могут быть строками, поэтому принимаются как FlexFloat.
type CreateUserRequest struct {
	UserName   string     `json:"user_name"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Age        *FlexFloat `json:"age"`
	Gender     string     `json:"gender"`
	Height     *FlexFloat `json:"height"`
	Weight     *FlexFloat `json:"weight"`
	Health     string     `json:"health"`
	Goal       string     `json:"goal"`
	Steps      *FlexFloat `json:"steps"`
	GoalWeight *FlexFloat `json:"goalWeight"`
	GoalWater  *FlexFloat `json:"goal_water"`
	WakeTime   string     `json:"wake_time"`
	SleepTime  string     `json:"sleep_time"`
}

// LoginRequest запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
}

// UpdateProfileRequest частичное обновление профиля; nil означает "не менять"
type UpdateProfileRequest struct {
	UserName *string  `json:"user_name"`
	Email    *string  `json:"email"`
	Age      *int     `json:"age"`
	Gender   *string  `json:"gender"`
	Height   *float64 `json:"height"`
	Weight   *float64 `json:"weight"`
}

// IsEmpty сообщает, что ни одно поле не передано
func (r UpdateProfileRequest) IsEmpty() bool {
	return r.UserName == nil && r.Email == nil && r.Age == nil &&
		r.Gender == nil && r.Height == nil && r.Weight == nil
}

// UpdateGoalsRequest частичное обновление целей
type UpdateGoalsRequest struct {
	GoalWeight   *float64 `json:"goal_weight"`
	GoalSteps    *int     `json:"goal_steps"`
	GoalCalories *int     `json:"goal_calories"`
	GoalWater    *int     `json:"goal_water"`
}

// IsEmpty сообщает, что ни одно поле не передано
func (r UpdateGoalsRequest) IsEmpty() bool {
	return r.GoalWeight == nil && r.GoalSteps == nil && r.GoalCalories == nil && r.GoalWater == nil
}

// CreatePetRequest запрос на создание питомца: тип задается именем или идентификатором
type CreatePetRequest struct {
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	PetTypeID *uint   `json:"pet_typeid"`
	PetName   *string `json:"pet_name"`
	Gender    *string `json:"gender"`
}

// PetStatusRequest обновление эмоции питомца
type PetStatusRequest struct {
	PetID   uint   `json:"pet_id"`
	Emotion string `json:"emotion"`
}

// PetActionRequest действие с питомцем
type PetActionRequest struct {
	PetID  uint   `json:"pet_id"`
	Action string `json:"action"`
}

// EnvironmentDataRequest ручное сохранение погодных данных
type EnvironmentDataRequest struct {
	Description string `json:"description"`
}

// MetricLogRequest запись значения временного ряда
type MetricLogRequest struct {
	UserID   string     `json:"user_id"`
	Value    *float64   `json:"value"`
	LoggedAt *time.Time `json:"logged_at"`
}

// SleepLogRequest запись сна
type SleepLogRequest struct {
	UserID     string    `json:"user_id"`
	SleepStart time.Time `json:"sleep_start"`
	SleepEnd   time.Time `json:"sleep_end"`
	Quality    *string   `json:"quality"`
}

// RequestResetRequest запрос кода восстановления
type RequestResetRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest проверка кода
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest смена пароля по коду
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
