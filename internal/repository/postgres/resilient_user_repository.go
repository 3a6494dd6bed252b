package postgres

import (
	"context"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/database"
)

// ResilientUserRepository добавляет circuit breaker, таймауты, повторы чтений и метрики
// к репозиторию пользователей
type ResilientUserRepository struct {
	repo          *UserRepository
	healthChecker *database.HealthChecker
}

// NewResilientUserRepository создает новый экземпляр отказоустойчивого репозитория
func NewResilientUserRepository(repo *UserRepository, healthChecker *database.HealthChecker) *ResilientUserRepository {
	return &ResilientUserRepository{
		repo:          repo,
		healthChecker: healthChecker,
	}
}

// Create создает пользователя без повторов: вставка не идемпотентна
func (r *ResilientUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.healthChecker.WithDatabaseResilience(ctx, "create_user", func(ctx context.Context) error {
		return r.repo.Create(ctx, user)
	})
}

// GetByID получает пользователя по идентификатору с повторами
func (r *ResilientUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := r.healthChecker.WithDatabaseRetry(ctx, "get_user_by_id", func(ctx context.Context) error {
		var err error
		user, err = r.repo.GetByID(ctx, id)
		return err
	})
	return user, err
}

// GetByEmail получает пользователя по email с повторами
func (r *ResilientUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := r.healthChecker.WithDatabaseRetry(ctx, "get_user_by_email", func(ctx context.Context) error {
		var err error
		user, err = r.repo.GetByEmail(ctx, email)
		return err
	})
	return user, err
}

// Exists проверяет существование пользователя
func (r *ResilientUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.healthChecker.WithDatabaseRetry(ctx, "user_exists", func(ctx context.Context) error {
		var err error
		exists, err = r.repo.Exists(ctx, id)
		return err
	})
	return exists, err
}

// EmailTaken проверяет, занят ли email другим пользователем
func (r *ResilientUserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var taken bool
	err := r.healthChecker.WithDatabaseRetry(ctx, "email_taken", func(ctx context.Context) error {
		var err error
		taken, err = r.repo.EmailTaken(ctx, email, exceptID)
		return err
	})
	return taken, err
}

// Update обновляет колонки пользователя
func (r *ResilientUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.healthChecker.WithDatabaseResilience(ctx, "update_user", func(ctx context.Context) error {
		return r.repo.Update(ctx, id, fields)
	})
}
