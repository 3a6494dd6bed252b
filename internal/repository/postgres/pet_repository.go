package postgres

import (
	"context"
	"errors"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"

	"gorm.io/gorm"
)

// CreatePetParams параметры создания питомца: тип задается именем или идентификатором
type CreatePetParams struct {
	UserID    string
	TypeName  string
	PetTypeID *uint
	Name      *string
	Gender    *string
}

// PetRepository работает с питомцами, справочниками типов и эмоций
type PetRepository struct {
	db *gorm.DB
}

// NewPetRepository создает новый экземпляр PetRepository
func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

// CreateForUser создает питомца и связь с владельцем в одной транзакции.
// Пользователь проверяется до типа: отсутствующий пользователь дает 404, неизвестный тип 400.
func (r *PetRepository) CreateForUser(ctx context.Context, params CreatePetParams) (*models.Pet, error) {
	var pet *models.Pet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if err := tx.Model(&models.User{}).Where("user_id = ?", params.UserID).Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			return apperrors.NotFound("User not found")
		}

		var petType models.PetType
		query := tx.Model(&models.PetType{})
		if params.PetTypeID != nil {
			query = query.Where("pet_typeid = ?", *params.PetTypeID)
		} else {
			query = query.Where("type = ?", params.TypeName)
		}
		if err := query.Take(&petType).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.BadRequest("Invalid pet type")
			}
			return err
		}

		pet = &models.Pet{
			PetTypeID: petType.ID,
			Name:      params.Name,
			Gender:    params.Gender,
			EmoID:     models.DefaultEmotionID,
		}
		if err := tx.Create(pet).Error; err != nil {
			return err
		}

		return tx.Create(&models.UserPet{UserID: params.UserID, PetID: pet.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	return pet, nil
}

// ListByUser возвращает всех питомцев пользователя с названием типа
func (r *PetRepository) ListByUser(ctx context.Context, userID string) ([]models.PetWithType, error) {
	pets := make([]models.PetWithType, 0)
	err := r.db.WithContext(ctx).
		Table("pet_data AS pd").
		Select("pd.pet_id, pd.pet_typeid, pd.pet_name, pd.gender, pd.emo_id, pd.weather_id, pt.type").
		Joins("JOIN pet_type pt ON pd.pet_typeid = pt.pet_typeid").
		Joins("JOIN user_pet up ON pd.pet_id = up.pet_id").
		Where("up.user_id = ?", userID).
		Order("pd.pet_id").
		Scan(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

// Exists проверяет существование питомца
func (r *PetRepository) Exists(ctx context.Context, petID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Pet{}).Where("pet_id = ?", petID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// OwnerOf возвращает владельца питомца
func (r *PetRepository) OwnerOf(ctx context.Context, petID uint) (string, error) {
	var link models.UserPet
	if err := r.db.WithContext(ctx).Where("pet_id = ?", petID).Take(&link).Error; err != nil {
		return "", err
	}
	return link.UserID, nil
}

// EmotionByLabel ищет эмоцию по названию
func (r *PetRepository) EmotionByLabel(ctx context.Context, label string) (*models.Emotion, error) {
	var emotion models.Emotion
	if err := r.db.WithContext(ctx).Where("emotion = ?", label).Take(&emotion).Error; err != nil {
		return nil, err
	}
	return &emotion, nil
}

// UpdateStatus записывает эмоцию и погоду питомца
func (r *PetRepository) UpdateStatus(ctx context.Context, petID, emoID uint, weatherID *uint) error {
	result := r.db.WithContext(ctx).Model(&models.Pet{}).
		Where("pet_id = ?", petID).
		Updates(map[string]interface{}{"emo_id": emoID, "weather_id": weatherID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Status возвращает питомца с эмоцией и описанием погоды
func (r *PetRepository) Status(ctx context.Context, petID uint) (*models.PetStatus, error) {
	var statuses []models.PetStatus
	err := r.db.WithContext(ctx).
		Table("pet_data AS pd").
		Select("pd.pet_id, pd.pet_typeid, pd.pet_name, pd.gender, pd.emo_id, pd.weather_id, e.emotion, w.description AS weather_description, w.message AS weather_message").
		Joins("LEFT JOIN emotions e ON pd.emo_id = e.emo_id").
		Joins("LEFT JOIN weather_assets w ON pd.weather_id = w.weather_id").
		Where("pd.pet_id = ?", petID).
		Limit(1).
		Scan(&statuses).Error
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &statuses[0], nil
}
