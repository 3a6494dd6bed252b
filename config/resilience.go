package config

import (
	"time"
)

// ResilienceConfig содержит настройки для механизмов отказоустойчивости
type ResilienceConfig struct {
	CircuitBreaker struct {
		// FailureThreshold количество ошибок, после которого circuit breaker откроется
		FailureThreshold int
		// ResetTimeout время до перехода в полуоткрытое состояние
		ResetTimeout time.Duration
	}

	Retry struct {
		MaxRetries     int
		InitialBackoff time.Duration
		MaxBackoff     time.Duration
		BackoffFactor  float64
		Jitter         float64
	}

	// Database таймаут одной команды PostgreSQL
	Database struct {
		CommandTimeout time.Duration
	}

	// Redis таймаут одной команды Redis
	Redis struct {
		CommandTimeout time.Duration
	}

	// External таймаут одного обращения к внешнему API (погода, почта)
	External struct {
		CallTimeout time.Duration
		MaxRetries  int
	}
}

// DefaultResilienceConfig возвращает конфигурацию отказоустойчивости по умолчанию
func DefaultResilienceConfig() ResilienceConfig {
	config := ResilienceConfig{}

	config.CircuitBreaker.FailureThreshold = 5
	config.CircuitBreaker.ResetTimeout = 30 * time.Second

	config.Retry.MaxRetries = 3
	config.Retry.InitialBackoff = 100 * time.Millisecond
	config.Retry.MaxBackoff = 2 * time.Second
	config.Retry.BackoffFactor = 2.0
	config.Retry.Jitter = 0.2

	config.Database.CommandTimeout = 3 * time.Second
	config.Redis.CommandTimeout = 1 * time.Second

	config.External.CallTimeout = 10 * time.Second
	config.External.MaxRetries = 2

	return config
}
