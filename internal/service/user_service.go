package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"CapybaraPetService/internal/auth"
	"CapybaraPetService/internal/models"
	"CapybaraPetService/internal/repository/postgres"
	"CapybaraPetService/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	userIDLength      = 5
	maxUserIDAttempts = 5
)

// UserRepositoryInterface описывает интерфейс для работы с репозиторием пользователей
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// UserCacheInterface описывает кэш профилей. Ошибки записи кэш обрабатывает сам.
type UserCacheInterface interface {
	SetUser(ctx context.Context, user *models.UserResponse)
	GetUser(ctx context.Context, id string) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, id string)
}

// TokenIssuer выпускает токен после успешного входа
type TokenIssuer interface {
	IssueLoginToken(userID, email string) (string, error)
}

// UserService представляет сервис для работы с пользователями
type UserService struct {
	userRepo UserRepositoryInterface
	cache    UserCacheInterface
	tokens   TokenIssuer
	logger   *zap.Logger
	newID    func() string
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo UserRepositoryInterface, cache UserCacheInterface, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    cache,
		tokens:   tokens,
		logger:   logger,
		newID:    randomUserID,
	}
}

func randomUserID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:userIDLength]
}

// Register регистрирует пользователя и возвращает его идентификатор
func (s *UserService) Register(ctx context.Context, req *models.CreateUserRequest) (string, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)

	if err := missingFields(map[string]string{
		"user_name": req.UserName,
		"email":     req.Email,
		"password":  req.Password,
	}, "user_name", "email", "password"); err != nil {
		return "", err
	}
	if !ValidEmail(req.Email) {
		return "", apperrors.BadRequest("Invalid email")
	}
	if !ValidGender(req.Gender) {
		return "", apperrors.BadRequest("Invalid gender: must be male or female")
	}

	age, err := positive("age", req.Age)
	if err != nil {
		return "", err
	}
	height, err := positive("height", req.Height)
	if err != nil {
		return "", err
	}
	weight, err := positive("weight", req.Weight)
	if err != nil {
		return "", err
	}

	if req.WakeTime != "" && !ValidTimeOfDay(req.WakeTime) {
		return "", apperrors.BadRequest("Invalid wake_time: expected HH:MM or HH:MM:SS")
	}
	if req.SleepTime != "" && !ValidTimeOfDay(req.SleepTime) {
		return "", apperrors.BadRequest("Invalid sleep_time: expected HH:MM or HH:MM:SS")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return "", apperrors.Internal(err)
	}

	user := &models.User{
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		Age:          int(math.Round(age)),
		Gender:       req.Gender,
		Height:       height,
		Weight:       weight,
		Health:       req.Health,
		Goal:         req.Goal,
		GoalCalories: DailyCalorieGoal(req.Gender, weight, height, int(math.Round(age))),
		GoalWater:    DefaultWaterGoal(weight),
		WakeTime:     optionalString(req.WakeTime),
		SleepTime:    optionalString(req.SleepTime),
	}
	if req.Steps != nil && req.Steps.Valid {
		user.GoalSteps = int(math.Round(req.Steps.Value))
	}
	if req.GoalWeight != nil && req.GoalWeight.Valid {
		user.GoalWeight = req.GoalWeight.Value
	}
	if req.GoalWater != nil && req.GoalWater.Valid && req.GoalWater.Value > 0 {
		user.GoalWater = int(math.Round(req.GoalWater.Value))
	}

	for attempt := 1; ; attempt++ {
		user.ID = s.newID()
		err = s.userRepo.Create(ctx, user)
		if err == nil {
			break
		}
		if errors.Is(err, postgres.ErrDuplicateID) && attempt < maxUserIDAttempts {
			s.logger.Debug("Идентификатор занят, генерируем новый", zap.String("user_id", user.ID))
			continue
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			s.logger.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		}
		return "", err
	}

	s.logger.Info("User created", zap.String("user_id", user.ID))
	return user.ID, nil
}

// Login проверяет email и пароль и выпускает токен.
// Неизвестный email и неверный пароль дают одинаковый ответ.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := missingFields(map[string]string{"email": req.Email, "password": req.Password}, "email", "password"); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.IssueLoginToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, apperrors.Internal(err)
	}

	return &models.LoginResponse{Message: "Login successful", Token: token, UserID: user.ID}, nil
}

// GetProfile возвращает профиль без хеша пароля
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.UserResponse, error) {
	if cached, err := s.cache.GetUser(ctx, id); err == nil {
		s.logger.Debug("User retrieved from cache", zap.String("user_id", id))
		return cached, nil
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.ToResponse()
	s.cache.SetUser(ctx, &profile)
	return &profile, nil
}

// UpdateProfile переписывает только переданные поля профиля
func (s *UserService) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	if req.IsEmpty() {
		return nil, apperrors.BadRequest("No fields to update")
	}

	fields := make(map[string]interface{})
	if req.UserName != nil {
		name := strings.TrimSpace(*req.UserName)
		if name == "" {
			return nil, apperrors.BadRequest("Invalid user_name")
		}
		fields["user_name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !ValidEmail(email) {
			return nil, apperrors.BadRequest("Invalid email")
		}
		taken, err := s.userRepo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("Email already exists")
		}
		fields["email"] = email
	}
	if req.Age != nil {
		if *req.Age <= 0 {
			return nil, apperrors.BadRequest("Invalid age: must be positive")
		}
		fields["age"] = *req.Age
	}
	if req.Gender != nil {
		if !ValidGender(*req.Gender) {
			return nil, apperrors.BadRequest("Invalid gender: must be male or female")
		}
		fields["gender"] = *req.Gender
	}
	if req.Height != nil {
		if *req.Height <= 0 {
			return nil, apperrors.BadRequest("Invalid height: must be positive")
		}
		fields["height"] = *req.Height
	}
	if req.Weight != nil {
		if *req.Weight <= 0 {
			return nil, apperrors.BadRequest("Invalid weight: must be positive")
		}
		fields["weight"] = *req.Weight
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}

	s.logger.Info("User profile updated", zap.String("user_id", id), zap.Int("fields", len(fields)))
	return s.GetProfile(ctx, id)
}

// GetGoals возвращает цели пользователя
func (s *UserService) GetGoals(ctx context.Context, id string) (*models.Goals, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	goals := models.GoalsOf(user)
	return &goals, nil
}

// UpdateGoals переписывает только переданные цели
func (s *UserService) UpdateGoals(ctx context.Context, id string, req *models.UpdateGoalsRequest) (*models.Goals, error) {
	if req.IsEmpty() {
		return nil, apperrors.BadRequest("No fields to update")
	}

	fields := make(map[string]interface{})
	if req.GoalWeight != nil {
		if *req.GoalWeight <= 0 {
			return nil, apperrors.BadRequest("Invalid goal_weight: must be positive")
		}
		fields["goal_weight"] = *req.GoalWeight
	}
	if req.GoalSteps != nil {
		if *req.GoalSteps < 0 {
			return nil, apperrors.BadRequest("Invalid goal_steps: must not be negative")
		}
		fields["goal_steps"] = *req.GoalSteps
	}
	if req.GoalCalories != nil {
		if *req.GoalCalories < 0 {
			return nil, apperrors.BadRequest("Invalid goal_calories: must not be negative")
		}
		fields["goal_calories"] = *req.GoalCalories
	}
	if req.GoalWater != nil {
		if *req.GoalWater < 0 {
			return nil, apperrors.BadRequest("Invalid goal_water: must not be negative")
		}
		fields["goal_water"] = *req.GoalWater
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}

	s.logger.Info("User goals updated", zap.String("user_id", id))
	return s.GetGoals(ctx, id)
}

func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found")
		}
		s.logger.Error("Failed to get user", zap.Error(err), zap.String("user_id", id))
		return nil, err
	}
	return user, nil
}

func (s *UserService) update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := s.userRepo.Update(ctx, id, fields); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("User not found")
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			s.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", id))
		}
		return err
	}
	s.cache.DeleteUser(ctx, id)
	return nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
