package postgres

import (
	"context"
	"time"

	"CapybaraPetService/internal/models"

	"gorm.io/gorm"
)

// PasswordResetRepository хранит коды восстановления пароля
type PasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository создает новый экземпляр PasswordResetRepository
func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Issue удаляет прежние коды пользователя, сохраняет новый и вызывает deliver.
// Ошибка доставки откатывает транзакцию.
func (r *PasswordResetRepository) Issue(ctx context.Context, otp *models.PasswordResetOTP, deliver func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", otp.UserID).Delete(&models.PasswordResetOTP{}).Error; err != nil {
			return err
		}
		if err := tx.Create(otp).Error; err != nil {
			return err
		}
		if deliver == nil {
			return nil
		}
		return deliver(ctx)
	})
}

// FindValid ищет действующий код пользователя
func (r *PasswordResetRepository) FindValid(ctx context.Context, userID, token string, now time.Time) (*models.PasswordResetOTP, error) {
	var otp models.PasswordResetOTP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ? AND expires_at > ?", userID, token, now).
		Order("id DESC").
		Take(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// ConsumeAndSetPassword перепроверяет код, записывает новый хеш и удаляет коды пользователя
func (r *PasswordResetRepository) ConsumeAndSetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var otp models.PasswordResetOTP
		err := tx.Where("user_id = ? AND token = ? AND expires_at > ?", userID, token, now).
			Take(&otp).Error
		if err != nil {
			return err
		}

		result := tx.Model(&models.User{}).
			Where("user_id = ?", userID).
			Update("password", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("user_id = ?", userID).Delete(&models.PasswordResetOTP{}).Error
	})
}
