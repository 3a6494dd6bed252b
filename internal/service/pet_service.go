package service

import (
	"context"
	"strings"
	"time"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/internal/repository/postgres"
	"CapybaraPetService/pkg/apperrors"
	"CapybaraPetService/pkg/server"

	"go.uber.org/zap"
)

// PetRepositoryInterface описывает хранилище питомцев
type PetRepositoryInterface interface {
	CreateForUser(ctx context.Context, params postgres.CreatePetParams) (*models.Pet, error)
	ListByUser(ctx context.Context, userID string) ([]models.PetWithType, error)
	Exists(ctx context.Context, petID uint) (bool, error)
	OwnerOf(ctx context.Context, petID uint) (string, error)
	EmotionByLabel(ctx context.Context, label string) (*models.Emotion, error)
	UpdateStatus(ctx context.Context, petID, emoID uint, weatherID *uint) error
	Status(ctx context.Context, petID uint) (*models.PetStatus, error)
}

// LatestWeatherIDSource возвращает идентификатор последней строки погоды
type LatestWeatherIDSource interface {
	LatestID(ctx context.Context) (*uint, error)
}

// MetricWriter добавляет записи во временные ряды
type MetricWriter interface {
	Insert(ctx context.Context, metric models.Metric, entry postgres.MetricEntry) (uint, error)
}

// PetService управляет питомцами, их состоянием и действиями
type PetService struct {
	pets    PetRepositoryInterface
	weather LatestWeatherIDSource
	metrics MetricWriter
	logger  *zap.Logger
	now     func() time.Time
}

// NewPetService создает новый экземпляр PetService
func NewPetService(pets PetRepositoryInterface, weather LatestWeatherIDSource, metrics MetricWriter, logger *zap.Logger) *PetService {
	return &PetService{
		pets:    pets,
		weather: weather,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create создает питомца и привязывает его к пользователю
func (s *PetService) Create(ctx context.Context, req *models.CreatePetRequest) (*models.Pet, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Type = strings.TrimSpace(req.Type)

	if req.UserID == "" || (req.Type == "" && req.PetTypeID == nil) {
		return nil, apperrors.BadRequest("Missing required fields: type, user_id")
	}
	if req.Gender != nil && !ValidGender(*req.Gender) {
		return nil, apperrors.BadRequest("Invalid gender: must be male or female")
	}

	pet, err := s.pets.CreateForUser(ctx, postgres.CreatePetParams{
		UserID:    req.UserID,
		TypeName:  req.Type,
		PetTypeID: req.PetTypeID,
		Name:      req.PetName,
		Gender:    req.Gender,
	})
	if err != nil {
		if apperrors.HTTPStatus(err) >= 500 {
			s.logger.Error("Failed to create pet", zap.Error(err), zap.String("user_id", req.UserID))
		}
		return nil, err
	}

	s.logger.Info("Pet created", zap.Uint("pet_id", pet.ID), zap.String("user_id", req.UserID))
	return pet, nil
}

// ListByUser возвращает питомцев пользователя
func (s *PetService) ListByUser(ctx context.Context, userID string) ([]models.PetWithType, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.BadRequest("Missing required fields: user_id")
	}
	return s.pets.ListByUser(ctx, userID)
}

// UpdateStatus записывает эмоцию питомца и отметку последней погоды
func (s *PetService) UpdateStatus(ctx context.Context, req *models.PetStatusRequest) (uint, error) {
	label := strings.TrimSpace(req.Emotion)
	if req.PetID == 0 || label == "" {
		return 0, apperrors.BadRequest("Missing required fields: pet_id, emotion")
	}

	emotion, err := s.pets.EmotionByLabel(ctx, label)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.BadRequest("Invalid emotion")
		}
		return 0, err
	}

	exists, err := s.pets.Exists(ctx, req.PetID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.NotFound("Pet not found")
	}

	weatherID, err := s.weather.LatestID(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.pets.UpdateStatus(ctx, req.PetID, emotion.ID, weatherID); err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.NotFound("Pet not found")
		}
		s.logger.Error("Failed to update pet status", zap.Error(err), zap.Uint("pet_id", req.PetID))
		return 0, err
	}

	s.logger.Info("Pet status updated",
		zap.Uint("pet_id", req.PetID),
		zap.String("emotion", emotion.Emotion))
	return req.PetID, nil
}

// Status возвращает эмоцию и погоду питомца
func (s *PetService) Status(ctx context.Context, petID uint) (*models.PetStatus, error) {
	exists, err := s.pets.Exists(ctx, petID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("Pet not found")
	}

	status, err := s.pets.Status(ctx, petID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("Pet not found")
		}
		return nil, err
	}
	return status, nil
}

// PerformAction выполняет кормление или поение и пишет запись во временной ряд владельца
func (s *PetService) PerformAction(ctx context.Context, req *models.PetActionRequest) (uint, error) {
	action := models.PetAction(strings.TrimSpace(req.Action))
	if req.PetID == 0 || action == "" {
		return 0, apperrors.BadRequest("Missing required fields: pet_id, action")
	}

	metric, ok := action.Metric()
	if !ok {
		return 0, apperrors.BadRequest("Invalid action")
	}

	owner, err := s.pets.OwnerOf(ctx, req.PetID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.NotFound("Pet not found")
		}
		return 0, err
	}

	petID := req.PetID
	id, err := s.metrics.Insert(ctx, metric, postgres.MetricEntry{
		UserID:   owner,
		PetID:    &petID,
		Value:    models.PetActionIncrement,
		LoggedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("Failed to log pet action", zap.Error(err), zap.Uint("pet_id", req.PetID))
		return 0, err
	}

	server.RecordPetAction(string(action))
	s.logger.Info("Pet action performed",
		zap.Uint("pet_id", req.PetID),
		zap.String("action", string(action)))
	return id, nil
}
