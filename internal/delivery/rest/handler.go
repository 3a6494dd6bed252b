package rest

import (
	"context"

	"CapybaraPetService/internal/models"

	"go.uber.org/zap"
)

// UserService операции с профилем и целями пользователя
type UserService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (string, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetProfile(ctx context.Context, id string) (*models.UserResponse, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.UserResponse, error)
	GetGoals(ctx context.Context, id string) (*models.Goals, error)
	UpdateGoals(ctx context.Context, id string, req *models.UpdateGoalsRequest) (*models.Goals, error)
}

// PetService операции с питомцами
type PetService interface {
	Create(ctx context.Context, req *models.CreatePetRequest) (*models.Pet, error)
	ListByUser(ctx context.Context, userID string) ([]models.PetWithType, error)
	UpdateStatus(ctx context.Context, req *models.PetStatusRequest) (uint, error)
	Status(ctx context.Context, petID uint) (*models.PetStatus, error)
	PerformAction(ctx context.Context, req *models.PetActionRequest) (uint, error)
}

// WeatherService операции с погодой
type WeatherService interface {
	Fetch(ctx context.Context, city string) (*models.WeatherResult, error)
	Latest(ctx context.Context) (*models.WeatherAsset, error)
	SaveEnvironment(ctx context.Context, req *models.EnvironmentDataRequest) (uint, error)
}

// SeriesService данные графиков
type SeriesService interface {
	GetSeries(ctx context.Context, metricName, mode, userID string) (*models.Series, error)
}

// DailyService дневные записи и итоги
type DailyService interface {
	LogMetric(ctx context.Context, metricName string, req *models.MetricLogRequest) (uint, error)
	LogSleep(ctx context.Context, req *models.SleepLogRequest) (*models.SleepLog, error)
	Summary(ctx context.Context, userID string) (*models.DailySummary, error)
}

// PasswordResetService восстановление пароля по коду из письма
type PasswordResetService interface {
	Request(ctx context.Context, req *models.RequestResetRequest) (string, error)
	Verify(ctx context.Context, req *models.VerifyOTPRequest) error
	Reset(ctx context.Context, req *models.ResetPasswordRequest) error
}

// Handler обрабатывает HTTP запросы API
type Handler struct {
	users   UserService
	pets    PetService
	weather WeatherService
	series  SeriesService
	daily   DailyService
	resets  PasswordResetService
	logger  *zap.Logger
}

// Services набор сервисов для Handler
type Services struct {
	Users   UserService
	Pets    PetService
	Weather WeatherService
	Series  SeriesService
	Daily   DailyService
	Resets  PasswordResetService
}

// NewHandler создает новый экземпляр Handler
func NewHandler(services Services, logger *zap.Logger) *Handler {
	return &Handler{
		users:   services.Users,
		pets:    services.Pets,
		weather: services.Weather,
		series:  services.Series,
		daily:   services.Daily,
		resets:  services.Resets,
		logger:  logger,
	}
}
