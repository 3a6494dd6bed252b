package database

import (
	"context"
	"errors"
	"time"

	"CapybaraPetService/config"
	"CapybaraPetService/pkg/apperrors"
	"CapybaraPetService/pkg/resilience"
	"CapybaraPetService/pkg/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthChecker проверяет состояние PostgreSQL и Redis и оборачивает операции с ними
// в circuit breaker с таймаутом команды
type HealthChecker struct {
	db           *gorm.DB
	redisClient  *redis.Client
	logger       *zap.Logger
	cfg          config.ResilienceConfig
	pgCircuit    *resilience.CircuitBreaker
	redisCircuit *resilience.CircuitBreaker
}

// NewDatabaseHealthChecker создает HealthChecker; redisClient может быть nil
func NewDatabaseHealthChecker(db *gorm.DB, redisClient *redis.Client, cfg config.ResilienceConfig, logger *zap.Logger) *HealthChecker {
	settings := func() resilience.BreakerSettings {
		return resilience.BreakerSettings{
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			ResetTimeout:     cfg.CircuitBreaker.ResetTimeout,
			IgnoredErrors:    apperrors.IgnoredErrors,
			OnStateChange:    RecordBreakerState,
		}
	}

	return &HealthChecker{
		db:           db,
		redisClient:  redisClient,
		logger:       logger,
		cfg:          cfg,
		pgCircuit:    resilience.NewCircuitBreaker("postgres", settings(), logger),
		redisCircuit: resilience.NewCircuitBreaker("redis", settings(), logger),
	}
}

// RecordBreakerState передает переход состояния circuit breaker в метрики
func RecordBreakerState(name string, _, to resilience.CircuitState) {
	server.RecordCircuitBreakerStateChange(name, int(to))
}

// IsDatabaseHealthy проверяет здоровье PostgreSQL
func (c *HealthChecker) IsDatabaseHealthy(ctx context.Context) bool {
	var result int
	err := c.pgCircuit.Execute(ctx, "postgres_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}

		return sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	})

	return err == nil && result == 1
}

// IsRedisHealthy проверяет здоровье Redis
func (c *HealthChecker) IsRedisHealthy(ctx context.Context) bool {
	if c.redisClient == nil {
		return false
	}
	err := c.redisCircuit.Execute(ctx, "redis_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return c.redisClient.Ping(ctx).Err()
	})

	return err == nil
}

// WithDatabaseResilience выполняет операцию в PostgreSQL через circuit breaker, ограничивая ее таймаутом
// и записывая метрику. Ошибки "не найдено" и ошибки валидации не открывают breaker.
func (c *HealthChecker) WithDatabaseResilience(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := c.pgCircuit.Execute(ctx, operation, func(ctx context.Context) error {
		ctx, cancel := withDefaultTimeout(ctx, c.cfg.Database.CommandTimeout)
		defer cancel()
		return fn(ctx)
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.logger.Debug("Запись не найдена", zap.String("operation", operation))
		server.RecordDBOperation(operation, time.Since(start), nil)
		return err
	}

	server.RecordDBOperation(operation, time.Since(start), unexpected(err))
	return err
}

// WithDatabaseRetry то же, что WithDatabaseResilience, но с повторами для идемпотентных чтений
func (c *HealthChecker) WithDatabaseRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	retryOptions := resilience.DefaultRetryOptions()
	retryOptions.MaxRetries = 2
	retryOptions.RetryIf = resilience.SkipErrors(apperrors.IgnoredErrors...)

	return c.WithDatabaseResilience(ctx, operation, func(ctx context.Context) error {
		return resilience.WithRetry(ctx, c.logger, operation, retryOptions, fn)
	})
}

// WithRedisResilience выполняет операцию в Redis через circuit breaker с коротким таймаутом
func (c *HealthChecker) WithRedisResilience(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	err := c.redisCircuit.Execute(ctx, operation, func(ctx context.Context) error {
		ctx, cancel := withDefaultTimeout(ctx, c.cfg.Redis.CommandTimeout)
		defer cancel()
		return fn(ctx)
	})

	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Ключ не найден в Redis", zap.String("operation", operation))
	}

	return err
}

// SafeDBOperation выполняет функцию в транзакции и логирует ошибки хранилища.
// Ошибки предметной области (не найдено, конфликт, валидация) не логируются как сбои.
func SafeDBOperation(ctx context.Context, db *gorm.DB, logger *zap.Logger, operation string, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}

	if unexpected(err) != nil {
		logger.Error("Database operation failed",
			zap.String("operation", operation),
			zap.Error(err))
	}

	return err
}

// unexpected возвращает nil для ожидаемых ошибок предметной области
func unexpected(err error) error {
	if err == nil {
		return nil
	}
	for _, ignored := range apperrors.IgnoredErrors {
		if errors.Is(err, ignored) {
			return nil
		}
	}
	return err
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
