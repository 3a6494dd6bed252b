package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"CapybaraPetService/config"
	"CapybaraPetService/pkg/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupChecker(t *testing.T) (*HealthChecker, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := config.DefaultResilienceConfig()
	cfg.CircuitBreaker.FailureThreshold = 3

	return NewDatabaseHealthChecker(db, client, cfg, zap.NewNop()), mock, mr
}

func TestHealthChecker_IsDatabaseHealthy(t *testing.T) {
	checker, mock, _ := setupChecker(t)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	if !checker.IsDatabaseHealthy(context.Background()) {
		t.Error("Expected database to be healthy")
	}

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))
	if checker.IsDatabaseHealthy(context.Background()) {
		t.Error("Expected database to be unhealthy")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestHealthChecker_IsRedisHealthy(t *testing.T) {
	checker, _, _ := setupChecker(t)

	if !checker.IsRedisHealthy(context.Background()) {
		t.Error("Expected Redis to be healthy")
	}

	badClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer badClient.Close()
	badChecker := NewDatabaseHealthChecker(checker.db, badClient, config.DefaultResilienceConfig(), zap.NewNop())
	if badChecker.IsRedisHealthy(context.Background()) {
		t.Error("Expected unreachable Redis to be unhealthy")
	}

	nilChecker := &HealthChecker{}
	if nilChecker.IsRedisHealthy(context.Background()) {
		t.Error("Expected nil client to be unhealthy")
	}
}

func TestHealthChecker_WithDatabaseResilience(t *testing.T) {
	checker, _, _ := setupChecker(t)
	ctx := context.Background()

	t.Run("NotFoundDoesNotOpenCircuit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			err := checker.WithDatabaseResilience(ctx, "get_user", func(ctx context.Context) error {
				return gorm.ErrRecordNotFound
			})
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				t.Fatalf("Expected not found, got %v", err)
			}
		}
		called := false
		_ = checker.WithDatabaseResilience(ctx, "get_user", func(ctx context.Context) error {
			called = true
			return nil
		})
		if !called {
			t.Error("Circuit must stay closed for not-found errors")
		}
	})

	t.Run("ConflictDoesNotOpenCircuit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_ = checker.WithDatabaseResilience(ctx, "create_user", func(ctx context.Context) error {
				return apperrors.Conflict("Email already exists")
			})
		}
		if err := checker.WithDatabaseResilience(ctx, "create_user", func(ctx context.Context) error { return nil }); err != nil {
			t.Errorf("Expected closed circuit, got %v", err)
		}
	})

	t.Run("CommandTimeout", func(t *testing.T) {
		var deadline time.Time
		_ = checker.WithDatabaseResilience(ctx, "timed", func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		})
		if deadline.IsZero() {
			t.Error("Expected command timeout to be applied")
		}
	})

	t.Run("FailuresOpenCircuit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_ = checker.WithDatabaseResilience(ctx, "update_user", func(ctx context.Context) error {
				return errors.New("connection reset")
			})
		}
		called := false
		err := checker.WithDatabaseResilience(ctx, "update_user", func(ctx context.Context) error {
			called = true
			return nil
		})
		if called || err == nil {
			t.Errorf("Expected open circuit to reject call, called=%v err=%v", called, err)
		}
	})
}

func TestHealthChecker_WithDatabaseRetry(t *testing.T) {
	checker, _, _ := setupChecker(t)

	attempts := 0
	err := checker.WithDatabaseRetry(context.Background(), "get_user", func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || attempts != 2 {
		t.Errorf("Expected success on second attempt, got err=%v attempts=%d", err, attempts)
	}

	attempts = 0
	err = checker.WithDatabaseRetry(context.Background(), "get_user", func(ctx context.Context) error {
		attempts++
		return gorm.ErrRecordNotFound
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) || attempts != 1 {
		t.Errorf("Expected no retry for not found, got attempts=%d", attempts)
	}
}

func TestSafeDBOperation(t *testing.T) {
	checker, mock, _ := setupChecker(t)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := SafeDBOperation(context.Background(), checker.db, zap.NewNop(), "ok", func(tx *gorm.DB) error {
		return nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	wantErr := apperrors.NotFound("User not found")
	err = SafeDBOperation(context.Background(), checker.db, zap.NewNop(), "rollback", func(tx *gorm.DB) error {
		return wantErr
	})
	if err != wantErr {
		t.Errorf("Expected original error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
