package service

import (
	"context"
	"strings"
	"time"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/internal/repository/postgres"
	"CapybaraPetService/pkg/apperrors"

	"go.uber.org/zap"
)

// DailyRepository пишет и агрегирует дневные записи
type DailyRepository interface {
	Insert(ctx context.Context, metric models.Metric, entry postgres.MetricEntry) (uint, error)
	Sum(ctx context.Context, metric models.Metric, userID string, from, to time.Time) (float64, error)
	Latest(ctx context.Context, metric models.Metric, userID string) (*float64, error)
	InsertSleep(ctx context.Context, entry *models.SleepLog) error
	LastSleep(ctx context.Context, userID string) (*models.SleepLog, error)
}

// DailyService принимает дневные записи и собирает итоги дня
type DailyService struct {
	repo     DailyRepository
	users    UserRepositoryInterface
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewDailyService создает новый экземпляр DailyService
func NewDailyService(repo DailyRepository, users UserRepositoryInterface, location *time.Location, logger *zap.Logger) *DailyService {
	if location == nil {
		location = time.Local
	}
	return &DailyService{
		repo:     repo,
		users:    users,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// LogMetric добавляет значение во временной ряд пользователя
func (s *DailyService) LogMetric(ctx context.Context, metricName string, req *models.MetricLogRequest) (uint, error) {
	metric, ok := models.MetricByName(metricName)
	if !ok {
		return 0, apperrors.BadRequest("Invalid metric")
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.Value == nil {
		return 0, apperrors.BadRequest("Missing required fields: user_id, value")
	}
	if *req.Value < 0 || (metric == models.MetricWeight && *req.Value == 0) {
		return 0, apperrors.BadRequest("Invalid value")
	}

	if err := s.requireUser(ctx, req.UserID); err != nil {
		return 0, err
	}

	loggedAt := s.now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	id, err := s.repo.Insert(ctx, metric, postgres.MetricEntry{
		UserID:   req.UserID,
		Value:    *req.Value,
		LoggedAt: loggedAt,
	})
	if err != nil {
		s.logger.Error("Failed to log metric", zap.Error(err), zap.String("metric", metric.Name), zap.String("user_id", req.UserID))
		return 0, err
	}

	s.logger.Debug("Metric logged", zap.String("metric", metric.Name), zap.String("user_id", req.UserID))
	return id, nil
}

// LogSleep добавляет запись сна; длительность считается по границам
func (s *DailyService) LogSleep(ctx context.Context, req *models.SleepLogRequest) (*models.SleepLog, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.SleepStart.IsZero() || req.SleepEnd.IsZero() {
		return nil, apperrors.BadRequest("Missing required fields: user_id, sleep_start, sleep_end")
	}
	if !req.SleepEnd.After(req.SleepStart) {
		return nil, apperrors.BadRequest("sleep_end must be after sleep_start")
	}

	if err := s.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	entry := &models.SleepLog{
		UserID:          req.UserID,
		SleepStart:      req.SleepStart,
		SleepEnd:        req.SleepEnd,
		DurationMinutes: int(req.SleepEnd.Sub(req.SleepStart).Minutes()),
		Quality:         req.Quality,
		LogDate:         req.SleepEnd,
	}
	if err := s.repo.InsertSleep(ctx, entry); err != nil {
		s.logger.Error("Failed to log sleep", zap.Error(err), zap.String("user_id", req.UserID))
		return nil, err
	}
	return entry, nil
}

// Summary собирает итоги текущего дня и цели пользователя
func (s *DailyService) Summary(ctx context.Context, userID string) (*models.DailySummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}

	from, to, err := SeriesWindow(models.ModeDay, s.now(), s.location)
	if err != nil {
		return nil, err
	}

	summary := &models.DailySummary{
		UserID: userID,
		Date:   from.Format("2006-01-02"),
		Goals:  models.GoalsOf(user),
	}

	totals := []struct {
		metric models.Metric
		dst    *float64
	}{
		{models.MetricCalories, &summary.Calories},
		{models.MetricWater, &summary.Water},
		{models.MetricSteps, &summary.Steps},
	}
	for _, total := range totals {
		value, err := s.repo.Sum(ctx, total.metric, userID, from, to)
		if err != nil {
			return nil, err
		}
		*total.dst = value
	}

	if summary.LatestWeight, err = s.repo.Latest(ctx, models.MetricWeight, userID); err != nil {
		return nil, err
	}
	if summary.LastSleep, err = s.repo.LastSleep(ctx, userID); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *DailyService) requireUser(ctx context.Context, userID string) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("User not found")
	}
	return nil
}
