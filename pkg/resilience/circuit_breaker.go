package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen возвращается, когда circuit breaker не пропускает вызов
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState представляет состояние circuit breaker
type CircuitState int

const (
	// CircuitClosed нормальное состояние, вызовы проходят
	CircuitClosed CircuitState = iota
	// CircuitOpen вызовы отклоняются до истечения ResetTimeout
	CircuitOpen
	// CircuitHalfOpen пробное состояние после паузы
	CircuitHalfOpen
)

// String возвращает строковое представление состояния
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitOpen:
		return "OPEN"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// BreakerSettings параметры circuit breaker
type BreakerSettings struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	// IgnoredErrors не учитываются как сбои (например, "не найдено")
	IgnoredErrors []error
	// OnStateChange вызывается при каждом переходе состояния
	OnStateChange func(name string, from, to CircuitState)
}

// DefaultBreakerSettings возвращает рекомендуемые настройки: 5 ошибок, сброс через 30 секунд
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker защищает вызовы хранилища и внешних API от каскадных сбоев
type CircuitBreaker struct {
	name            string
	settings        BreakerSettings
	state           CircuitState
	failureCount    int
	lastStateChange time.Time
	mutex           sync.Mutex
	logger          *zap.Logger
}

// NewCircuitBreaker создает именованный circuit breaker
func NewCircuitBreaker(name string, settings BreakerSettings, logger *zap.Logger) *CircuitBreaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = DefaultBreakerSettings().FailureThreshold
	}
	if settings.ResetTimeout <= 0 {
		settings.ResetTimeout = DefaultBreakerSettings().ResetTimeout
	}
	return &CircuitBreaker{
		name:            name,
		settings:        settings,
		state:           CircuitClosed,
		lastStateChange: time.Now(),
		logger:          logger.With(zap.String("breaker", name)),
	}
}

// Name возвращает имя circuit breaker
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute выполняет функцию с учетом состояния circuit breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if !cb.allowRequest(operation) {
		cb.logger.Warn("Circuit breaker preventing operation execution",
			zap.String("operation", operation))
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.handleResult(operation, err)

	return err
}

// allowRequest проверяет состояние и при истечении паузы переводит breaker в HALF_OPEN
func (cb *CircuitBreaker) allowRequest(operation string) bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.state {
	case CircuitOpen:
		if time.Since(cb.lastStateChange) > cb.settings.ResetTimeout {
			cb.transition(operation, CircuitHalfOpen)
			return true
		}
		return false
	default:
		return true
	}
}

// handleResult обрабатывает результат выполнения функции
func (cb *CircuitBreaker) handleResult(operation string, err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err != nil && cb.isIgnoredError(err) {
		cb.logger.Debug("Игнорируем ошибку для circuit breaker",
			zap.String("operation", operation),
			zap.Error(err))
		return
	}

	if err != nil {
		switch cb.state {
		case CircuitClosed:
			cb.failureCount++
			if cb.failureCount >= cb.settings.FailureThreshold {
				cb.transition(operation, CircuitOpen)
			}
		case CircuitHalfOpen:
			cb.transition(operation, CircuitOpen)
		}
		return
	}

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.transition(operation, CircuitClosed)
	}
}

func (cb *CircuitBreaker) isIgnoredError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	for _, ignoredErr := range cb.settings.IgnoredErrors {
		if errors.Is(err, ignoredErr) {
			return true
		}
	}
	return false
}

// transition меняет состояние; вызывается под мьютексом
func (cb *CircuitBreaker) transition(operation string, to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.lastStateChange = time.Now()
	if to == CircuitClosed {
		cb.failureCount = 0
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	}
	if to == CircuitOpen {
		cb.logger.Warn("Circuit breaker opened",
			append(fields, zap.Int("failures", cb.failureCount), zap.Duration("reset_timeout", cb.settings.ResetTimeout))...)
	} else {
		cb.logger.Info("Circuit breaker state changed", fields...)
	}

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.name, from, to)
	}
}

// GetState возвращает текущее состояние circuit breaker
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}
