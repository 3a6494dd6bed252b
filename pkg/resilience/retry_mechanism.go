package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryOptions настройки для механизма повторных попыток
type RetryOptions struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Jitter         float64
	// RetryIf решает, стоит ли повторять; nil означает "повторять все, кроме открытого breaker"
	RetryIf func(error) bool
}

// DefaultRetryOptions возвращает настройки по умолчанию
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.2,
	}
}

// RetryOnlyOn возвращает предикат, разрешающий повтор только для перечисленных ошибок
func RetryOnlyOn(retryable ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range retryable {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// SkipErrors возвращает предикат, запрещающий повтор для перечисленных ошибок
func SkipErrors(permanent ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range permanent {
			if errors.Is(err, target) {
				return false
			}
		}
		return true
	}
}

// WithRetry выполняет функцию с повторными попытками при ошибках
func WithRetry(ctx context.Context, logger *zap.Logger, operation string, options RetryOptions, fn func(context.Context) error) error {
	var err error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		err = fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("Operation succeeded after retries",
					zap.String("operation", operation),
					zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !shouldRetry(err, options) {
			logger.Debug("Non-retryable error occurred",
				zap.String("operation", operation),
				zap.Error(err))
			return err
		}

		if attempt == options.MaxRetries {
			break
		}

		backoff := calculateBackoff(attempt, options)
		logger.Info("Retrying operation after error",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.Warn("Context cancelled during retry",
				zap.String("operation", operation),
				zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}

	logger.Warn("All retry attempts failed",
		zap.String("operation", operation),
		zap.Int("attempts", options.MaxRetries+1),
		zap.Error(err))
	return err
}

func shouldRetry(err error, options RetryOptions) bool {
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	if options.RetryIf == nil {
		return true
	}
	return options.RetryIf(err)
}

// calculateBackoff вычисляет время ожидания с экспоненциальной задержкой
func calculateBackoff(attempt int, options RetryOptions) time.Duration {
	backoff := float64(options.InitialBackoff) * math.Pow(options.BackoffFactor, float64(attempt))

	if options.Jitter > 0 {
		jitter := (rand.Float64()*2 - 1) * options.Jitter
		backoff = backoff * (1 + jitter)
	}

	if backoff > float64(options.MaxBackoff) {
		backoff = float64(options.MaxBackoff)
	}

	return time.Duration(backoff)
}
