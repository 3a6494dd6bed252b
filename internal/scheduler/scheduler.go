package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CapybaraPetService/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 30 * time.Second

// WeatherRefresher вызывает /fetch_weather от имени служебного токена
type WeatherRefresher struct {
	client  *http.Client
	baseURL string
	token   string
	city    string
	logger  *zap.Logger
}

// NewWeatherRefresher создает WeatherRefresher
func NewWeatherRefresher(cfg config.SchedulerConfig, token string, logger *zap.Logger) *WeatherRefresher {
	return &WeatherRefresher{
		client:  &http.Client{Timeout: refreshTimeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		city:    cfg.City,
		logger:  logger,
	}
}

// Refresh выполняет один запрос обновления погоды
func (r *WeatherRefresher) Refresh(ctx context.Context) error {
	endpoint := r.baseURL + "/fetch_weather"
	if r.city != "" {
		endpoint += "?city=" + url.QueryEscape(r.city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch_weather returned status %d", resp.StatusCode)
	}
	return nil
}

// Run обновляет погоду; ошибки только логируются
func (r *WeatherRefresher) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("Плановое обновление погоды не удалось", zap.Error(err), zap.String("city", r.city))
		return
	}
	r.logger.Info("Погода обновлена по расписанию",
		zap.String("city", r.city),
		zap.Duration("duration", time.Since(start)))
}

// Scheduler периодически запускает обновление погоды
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New регистрирует задачу обновления погоды по cron-выражению spec
func New(spec string, job cron.Job, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Планировщик запущен", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop останавливает планировщик и ждет завершения выполняющейся задачи
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
