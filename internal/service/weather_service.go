package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"CapybaraPetService/config"
	"CapybaraPetService/internal/clients/openweather"
	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"
	"CapybaraPetService/pkg/database"
	"CapybaraPetService/pkg/resilience"
	"CapybaraPetService/pkg/server"

	"go.uber.org/zap"
)

// Исходы получения погоды для метрик
const (
	weatherOutcomeLive     = "live"
	weatherOutcomeCache    = "cache"
	weatherOutcomeNotFound = "not_found"
	weatherOutcomeError    = "error"
)

// WeatherObserver получает текущую погоду для города
type WeatherObserver interface {
	Observe(ctx context.Context, city string) (models.WeatherObservation, error)
}

// WeatherRepositoryInterface описывает хранилище погодных строк
type WeatherRepositoryInterface interface {
	FindByCode(ctx context.Context, code int) (*models.WeatherAsset, error)
	FindReferenceByDescription(ctx context.Context, description string) (*models.WeatherAsset, error)
	Insert(ctx context.Context, asset *models.WeatherAsset) error
	Latest(ctx context.Context) (*models.WeatherAsset, error)
}

// WeatherCacheInterface кэш последней строки погоды
type WeatherCacheInterface interface {
	SetLatestWeather(ctx context.Context, asset *models.WeatherAsset)
	GetLatestWeather(ctx context.Context) (*models.WeatherAsset, error)
}

// WeatherService получает погоду, сопоставляет код со справочником и ведет историю
type WeatherService struct {
	observer    WeatherObserver
	repo        WeatherRepositoryInterface
	cache       WeatherCacheInterface
	breaker     *resilience.CircuitBreaker
	retry       resilience.RetryOptions
	callTimeout time.Duration
	defaultCity string
	logger      *zap.Logger
}

// NewWeatherService создает новый экземпляр WeatherService
func NewWeatherService(
	observer WeatherObserver,
	repo WeatherRepositoryInterface,
	cache WeatherCacheInterface,
	weatherCfg config.WeatherConfig,
	resilienceCfg config.ResilienceConfig,
	logger *zap.Logger,
) *WeatherService {
	breaker := resilience.NewCircuitBreaker("openweather", resilience.BreakerSettings{
		FailureThreshold: resilienceCfg.CircuitBreaker.FailureThreshold,
		ResetTimeout:     resilienceCfg.CircuitBreaker.ResetTimeout,
		IgnoredErrors:    []error{openweather.ErrCityNotFound},
		OnStateChange:    database.RecordBreakerState,
	}, logger)

	retry := resilience.DefaultRetryOptions()
	retry.MaxRetries = resilienceCfg.External.MaxRetries
	retry.RetryIf = func(err error) bool { return !permanentWeatherError(err) }

	callTimeout := resilienceCfg.External.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}

	defaultCity := weatherCfg.DefaultCity
	if defaultCity == "" {
		defaultCity = "Osaka"
	}

	return &WeatherService{
		observer:    observer,
		repo:        repo,
		cache:       cache,
		breaker:     breaker,
		retry:       retry,
		callTimeout: callTimeout,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

// permanentWeatherError ошибки, которые повтор не исправит
func permanentWeatherError(err error) bool {
	if errors.Is(err, openweather.ErrCityNotFound) {
		return true
	}
	var statusErr *openweather.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// Fetch получает погоду для города и сохраняет строку истории.
// При сбое внешнего API возвращает последнюю сохраненную строку.
func (s *WeatherService) Fetch(ctx context.Context, city string) (*models.WeatherResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = s.defaultCity
	}

	observation, err := s.observe(ctx, city)
	if errors.Is(err, openweather.ErrCityNotFound) {
		server.RecordWeatherFetch(weatherOutcomeNotFound)
		return nil, apperrors.NotFound("City " + city + " not found")
	}
	if err != nil {
		s.logger.Warn("Не удалось получить погоду, используем последнюю сохраненную",
			zap.String("city", city),
			zap.Error(err))
		return s.fallback(ctx)
	}

	reference, err := s.repo.FindByCode(ctx, observation.Code)
	if err != nil {
		if apperrors.IsNotFound(err) {
			server.RecordWeatherFetch(weatherOutcomeError)
			return nil, apperrors.BadRequest("No matching weather condition found")
		}
		return nil, err
	}

	code := observation.Code
	temperature := observation.Temperature
	row := &models.WeatherAsset{
		Description:     reference.Description,
		Message:         reference.Message,
		IconsImage:      reference.IconsImage,
		BackgroundImage: reference.BackgroundImage,
		City:            &city,
		WeatherCode:     &code,
		Temperature:     &temperature,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.logger.Error("Failed to save weather data", zap.Error(err), zap.String("city", city))
		return nil, err
	}
	s.cache.SetLatestWeather(ctx, row)

	server.RecordWeatherFetch(weatherOutcomeLive)
	s.logger.Info("Weather data saved",
		zap.String("city", city),
		zap.Int("code", code),
		zap.String("description", row.Description))
	return &models.WeatherResult{Message: "Weather data saved", Data: row}, nil
}

func (s *WeatherService) observe(ctx context.Context, city string) (models.WeatherObservation, error) {
	var observation models.WeatherObservation
	err := s.breaker.Execute(ctx, "observe", func(ctx context.Context) error {
		return resilience.WithRetry(ctx, s.logger, "observe_weather", s.retry, func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			var err error
			observation, err = s.observer.Observe(callCtx, city)
			return err
		})
	})
	return observation, err
}

func (s *WeatherService) fallback(ctx context.Context) (*models.WeatherResult, error) {
	latest, err := s.latest(ctx)
	if err != nil {
		server.RecordWeatherFetch(weatherOutcomeError)
		if !apperrors.IsNotFound(err) {
			s.logger.Error("Failed to read cached weather", zap.Error(err))
		}
		return nil, apperrors.Internal(errors.New("Error fetching weather data and no fallback available"))
	}

	server.RecordWeatherFetch(weatherOutcomeCache)
	return &models.WeatherResult{Message: "Weather data fetched from cache", Data: latest, FromCache: true}, nil
}

// Latest возвращает последнюю сохраненную строку погоды
func (s *WeatherService) Latest(ctx context.Context) (*models.WeatherAsset, error) {
	latest, err := s.latest(ctx)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("No environment data found")
		}
		return nil, err
	}
	return latest, nil
}

func (s *WeatherService) latest(ctx context.Context) (*models.WeatherAsset, error) {
	if cached, err := s.cache.GetLatestWeather(ctx); err == nil {
		return cached, nil
	}

	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetLatestWeather(ctx, latest)
	return latest, nil
}

// SaveEnvironment сохраняет строку истории по описанию из справочника
func (s *WeatherService) SaveEnvironment(ctx context.Context, req *models.EnvironmentDataRequest) (uint, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return 0, apperrors.BadRequest("Missing required fields: description")
	}

	reference, err := s.repo.FindReferenceByDescription(ctx, description)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, apperrors.BadRequest("Invalid weather description")
		}
		return 0, err
	}

	row := &models.WeatherAsset{
		Description:     reference.Description,
		Message:         reference.Message,
		IconsImage:      reference.IconsImage,
		BackgroundImage: reference.BackgroundImage,
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.logger.Error("Failed to save environment data", zap.Error(err))
		return 0, err
	}
	s.cache.SetLatestWeather(ctx, row)

	s.logger.Info("Environment data saved", zap.Uint("weather_id", row.ID))
	return row.ID, nil
}
