package seed

import (
	"context"
	"fmt"

	"CapybaraPetService/internal/auth"
	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Тестовый пользователь среды разработки
const (
	DevUserID       = "dev01"
	DevUserEmail    = "dev@capybara.local"
	DevUserPassword = "capybara"
)

// PetTypes справочник типов питомцев
var PetTypes = []models.PetType{
	{ID: 1, Type: "capybara"},
	{ID: 2, Type: "cat"},
	{ID: 3, Type: "dog"},
}

// Emotions справочник эмоций; первая эмоция присваивается новым питомцам
var Emotions = []models.Emotion{
	{ID: 1, Emotion: "neutral"},
	{ID: 2, Emotion: "sleepy"},
	{ID: 3, Emotion: "sick"},
	{ID: 4, Emotion: "tired"},
	{ID: 5, Emotion: "hungry"},
	{ID: 6, Emotion: "thirsty"},
	{ID: 7, Emotion: "happy"},
	{ID: 8, Emotion: "angry"},
	{ID: 9, Emotion: "sad"},
	{ID: 10, Emotion: "bored"},
}

type weatherRange struct {
	min, max    int
	description string
	message     string
}

// диапазоны кодов OpenWeather
var weatherRanges = []weatherRange{
	{200, 232, "Thunderstorm", "Stay inside, it's stormy out there!"},
	{300, 321, "Drizzle", "A light drizzle. Grab a hood."},
	{500, 531, "Rain", "Rainy day. Perfect for a warm bath."},
	{600, 622, "Snow", "Snow is falling. Keep warm!"},
	{701, 781, "Atmosphere", "Hard to see outside. Take care."},
	{800, 800, "Clear", "Clear skies. Time for a walk!"},
	{801, 804, "Clouds", "Cloudy, but still a nice day."},
}

// Seeder заполняет справочники и данные среды разработки
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder создает новый объект для заполнения данными
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// SeedReferenceData идемпотентно заполняет типы питомцев, эмоции и диапазоны погоды
func (s *Seeder) SeedReferenceData(ctx context.Context) error {
	err := database.SafeDBOperation(ctx, s.db, s.logger, "seed_reference_data", func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&PetTypes).Error; err != nil {
			return fmt.Errorf("не удалось заполнить типы питомцев: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Emotions).Error; err != nil {
			return fmt.Errorf("не удалось заполнить эмоции: %w", err)
		}

		for _, r := range weatherRanges {
			var count int64
			err := tx.Model(&models.WeatherAsset{}).
				Where("min_id = ? AND max_id = ?", r.min, r.max).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			minID, maxID := r.min, r.max
			asset := models.WeatherAsset{
				MinID:       &minID,
				MaxID:       &maxID,
				Description: r.description,
				Message:     r.message,
			}
			if err := tx.Create(&asset).Error; err != nil {
				return fmt.Errorf("не удалось заполнить погоду %s: %w", r.description, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Справочники заполнены")
	return nil
}

// SeedTestUser создает тестового пользователя, если мы находимся в режиме разработки
func (s *Seeder) SeedTestUser(ctx context.Context, appEnv string) error {
	if appEnv != "development" {
		s.logger.Debug("Не в режиме разработки, пропускаем создание тестового пользователя")
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", DevUserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Тестовый пользователь уже существует", zap.String("user_id", DevUserID))
		return nil
	}

	hash, err := auth.HashPassword(DevUserPassword)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           DevUserID,
		UserName:     "Capy",
		Email:        DevUserEmail,
		PasswordHash: hash,
		Age:          25,
		Gender:       models.GenderFemale,
		Height:       165,
		Weight:       58,
		Health:       "good",
		Goal:         "stay active",
		GoalSteps:    8000,
		GoalWeight:   56,
		GoalCalories: 1850,
		GoalWater:    2000,
	}

	err = database.SafeDBOperation(ctx, s.db, s.logger, "seed_test_user", func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("не удалось создать тестового пользователя: %w", err)
		}

		pet := &models.Pet{PetTypeID: PetTypes[0].ID, EmoID: models.DefaultEmotionID}
		if err := tx.Create(pet).Error; err != nil {
			return fmt.Errorf("не удалось создать питомца тестового пользователя: %w", err)
		}
		return tx.Create(&models.UserPet{UserID: user.ID, PetID: pet.ID}).Error
	})
	if err != nil {
		s.logger.Error("Не удалось заполнить тестовым пользователем", zap.Error(err))
		return err
	}

	s.logger.Info("Успешно создан тестовый пользователь", zap.String("user_id", user.ID))
	return nil
}

// SeedAll заполняет справочники и, в режиме разработки, тестового пользователя
func (s *Seeder) SeedAll(ctx context.Context, appEnv string) error {
	if err := s.SeedReferenceData(ctx); err != nil {
		return err
	}
	return s.SeedTestUser(ctx, appEnv)
}
