package service

import (
	"context"
	"strings"
	"time"

	"CapybaraPetService/internal/models"
	"CapybaraPetService/pkg/apperrors"

	"go.uber.org/zap"
)

// SeriesReader читает записи временного ряда за период
type SeriesReader interface {
	Points(ctx context.Context, metric models.Metric, userID string, from, to time.Time) ([]models.MetricPoint, error)
}

// SeriesService строит данные графиков для всех временных рядов
type SeriesService struct {
	reader   SeriesReader
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewSeriesService создает новый экземпляр SeriesService; окна считаются в часовом поясе location
func NewSeriesService(reader SeriesReader, location *time.Location, logger *zap.Logger) *SeriesService {
	if location == nil {
		location = time.Local
	}
	return &SeriesService{
		reader:   reader,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSeries возвращает подписи и значения ряда metricName для режима mode
func (s *SeriesService) GetSeries(ctx context.Context, metricName, mode, userID string) (*models.Series, error) {
	metric, ok := models.MetricByName(metricName)
	if !ok {
		return nil, apperrors.BadRequest("Invalid metric")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.BadRequest("Missing required fields: user_id")
	}

	seriesMode := models.SeriesMode(mode)
	from, to, err := SeriesWindow(seriesMode, s.now(), s.location)
	if err != nil {
		return nil, err
	}

	points, err := s.reader.Points(ctx, metric, userID, from, to)
	if err != nil {
		s.logger.Error("Failed to read series",
			zap.Error(err),
			zap.String("metric", metric.Name),
			zap.String("mode", mode),
			zap.String("user_id", userID))
		return nil, err
	}

	series := BuildSeries(seriesMode, points, s.location)
	return &series, nil
}

// SeriesWindow возвращает полуинтервал [from, to) для режима.
// day текущие сутки, week текущая ISO-неделя, month текущий месяц,
// 6months и year последние 6 и 12 календарных месяцев вместе с текущим.
func SeriesWindow(mode models.SeriesMode, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	switch mode {
	case models.ModeDay:
		return today, today.AddDate(0, 0, 1), nil
	case models.ModeWeek:
		// понедельник = 0
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), nil
	case models.ModeMonth:
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	case models.Mode6Months:
		return monthStart.AddDate(0, -5, 0), monthStart.AddDate(0, 1, 0), nil
	case models.ModeYear:
		return monthStart.AddDate(0, -11, 0), monthStart.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, apperrors.BadRequest("Invalid mode")
	}
}

// BuildSeries превращает записи в подписи и значения.
// Для day, week и month каждая запись дает одну точку; для 6months и year записи
// суммируются по календарным месяцам, пустые месяцы пропускаются.
func BuildSeries(mode models.SeriesMode, points []models.MetricPoint, loc *time.Location) models.Series {
	series := models.Series{Labels: make([]string, 0, len(points)), Data: make([]float64, 0, len(points))}

	switch mode {
	case models.ModeDay:
		for _, p := range points {
			series.Labels = append(series.Labels, p.LogDate.In(loc).Format("15:04"))
			series.Data = append(series.Data, p.Value)
		}
	case models.ModeWeek, models.ModeMonth:
		for _, p := range points {
			series.Labels = append(series.Labels, p.LogDate.In(loc).Format("2006-01-02"))
			series.Data = append(series.Data, p.Value)
		}
	case models.Mode6Months, models.ModeYear:
		// записи приходят по возрастанию, поэтому месяцы тоже
		for _, p := range points {
			label := p.LogDate.In(loc).Format("2006-01")
			last := len(series.Labels) - 1
			if last >= 0 && series.Labels[last] == label {
				series.Data[last] += p.Value
				continue
			}
			series.Labels = append(series.Labels, label)
			series.Data = append(series.Data, p.Value)
		}
	}

	return series
}
