package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheckerInterface проверяет доступность зависимостей сервиса
type HealthCheckerInterface interface {
	// IsDatabaseHealthy проверяет здоровье PostgreSQL
	IsDatabaseHealthy(ctx context.Context) bool

	// IsRedisHealthy проверяет здоровье Redis
	IsRedisHealthy(ctx context.Context) bool
}

// HealthCheck хранит последние статусы зависимостей и отдает их по HTTP
type HealthCheck struct {
	checker       HealthCheckerInterface
	logger        *zap.Logger
	interval      time.Duration
	version       string
	statusMutex   sync.RWMutex
	serviceStatus map[string]string
}

// HealthResponse представляет ответ эндпоинта проверки здоровья
type HealthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
}

// NewHealthCheck создает сервис проверки здоровья
func NewHealthCheck(checker HealthCheckerInterface, logger *zap.Logger, version string, interval time.Duration) *HealthCheck {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthCheck{
		checker:  checker,
		logger:   logger,
		interval: interval,
		version:  version,
		serviceStatus: map[string]string{
			"service":  "up",
			"postgres": "unknown",
			"redis":    "unknown",
		},
	}
}

// RegisterRoutes регистрирует /health, /health/live и /health/ready
func (h *HealthCheck) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.healthHandler)
	r.GET("/health/live", h.livenessHandler)
	r.GET("/health/ready", h.readinessHandler)
}

// Start выполняет первую проверку и запускает фоновый мониторинг до отмены контекста
func (h *HealthCheck) Start(ctx context.Context) {
	h.checkServicesHealth(ctx)
	go h.monitorHealth(ctx)
}

func (h *HealthCheck) livenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "up"})
}

func (h *HealthCheck) readinessHandler(c *gin.Context) {
	h.statusMutex.RLock()
	pgStatus := h.serviceStatus["postgres"]
	h.statusMutex.RUnlock()

	// Без PostgreSQL сервис не готов к работе
	if pgStatus != "up" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "down",
			"message": "PostgreSQL is not available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "up"})
}

func (h *HealthCheck) healthHandler(c *gin.Context) {
	h.statusMutex.RLock()
	services := make(map[string]string, len(h.serviceStatus))
	for k, v := range h.serviceStatus {
		services[k] = v
	}
	h.statusMutex.RUnlock()

	status := "up"
	code := http.StatusOK
	if services["postgres"] != "up" {
		status = "down"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Services:  services,
		Timestamp: time.Now(),
		Version:   h.version,
	})
}

func (h *HealthCheck) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.checkServicesHealth(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// checkServicesHealth обновляет статусы; недоступный Redis означает деградацию, а не отказ
func (h *HealthCheck) checkServicesHealth(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	pgStatus := "up"
	if !h.checker.IsDatabaseHealthy(ctx) {
		pgStatus = "down"
		h.logger.Warn("PostgreSQL health check failed")
	}

	redisStatus := "up"
	if !h.checker.IsRedisHealthy(ctx) {
		redisStatus = "degraded"
		h.logger.Warn("Redis health check failed")
	}

	h.statusMutex.Lock()
	h.serviceStatus["postgres"] = pgStatus
	h.serviceStatus["redis"] = redisStatus
	h.statusMutex.Unlock()
}
