package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"CapybaraPetService/internal/models"

	"gorm.io/gorm"
)

// MetricEntry одна запись временного ряда
type MetricEntry struct {
	UserID   string
	PetID    *uint
	Value    float64
	LoggedAt time.Time
}

// MetricRepository работает с таблицами временных рядов calories, water, steps, weight и sleep.
// Имена таблиц и колонок берутся только из models.Metrics.
type MetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository создает новый экземпляр MetricRepository
func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func checkMetric(metric models.Metric) error {
	known, ok := models.MetricByName(metric.Name)
	if !ok || known != metric {
		return fmt.Errorf("неизвестный временной ряд: %q", metric.Name)
	}
	return nil
}

// Insert добавляет запись и возвращает ее идентификатор
func (r *MetricRepository) Insert(ctx context.Context, metric models.Metric, entry MetricEntry) (uint, error) {
	if err := checkMetric(metric); err != nil {
		return 0, err
	}

	var value interface{} = entry.Value
	if metric.Integral {
		value = int64(math.Round(entry.Value))
	}

	var (
		query string
		args  []interface{}
	)
	if metric.HasPet {
		query = fmt.Sprintf("INSERT INTO %s (user_id, pet_id, %s, log_date) VALUES (?, ?, ?, ?) RETURNING %s",
			metric.Table, metric.Column, metric.IDColumn)
		args = []interface{}{entry.UserID, entry.PetID, value, entry.LoggedAt}
	} else {
		query = fmt.Sprintf("INSERT INTO %s (user_id, %s, log_date) VALUES (?, ?, ?) RETURNING %s",
			metric.Table, metric.Column, metric.IDColumn)
		args = []interface{}{entry.UserID, value, entry.LoggedAt}
	}

	var id uint
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

// Points возвращает записи пользователя в полуинтервале [from, to) по возрастанию времени
func (r *MetricRepository) Points(ctx context.Context, metric models.Metric, userID string, from, to time.Time) ([]models.MetricPoint, error) {
	if err := checkMetric(metric); err != nil {
		return nil, err
	}

	points := make([]models.MetricPoint, 0)
	err := r.db.WithContext(ctx).
		Table(metric.Table).
		Select(fmt.Sprintf("log_date, %s AS value", metric.Column)).
		Where("user_id = ? AND log_date >= ? AND log_date < ?", userID, from, to).
		Order("log_date").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Sum возвращает сумму значений пользователя в полуинтервале [from, to)
func (r *MetricRepository) Sum(ctx context.Context, metric models.Metric, userID string, from, to time.Time) (float64, error) {
	if err := checkMetric(metric); err != nil {
		return 0, err
	}

	var total float64
	err := r.db.WithContext(ctx).
		Table(metric.Table).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", metric.Column)).
		Where("user_id = ? AND log_date >= ? AND log_date < ?", userID, from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Latest возвращает последнее значение пользователя или nil, если записей нет
func (r *MetricRepository) Latest(ctx context.Context, metric models.Metric, userID string) (*float64, error) {
	if err := checkMetric(metric); err != nil {
		return nil, err
	}

	var points []models.MetricPoint
	err := r.db.WithContext(ctx).
		Table(metric.Table).
		Select(fmt.Sprintf("log_date, %s AS value", metric.Column)).
		Where("user_id = ?", userID).
		Order("log_date DESC").
		Limit(1).
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	return &points[0].Value, nil
}

// InsertSleep добавляет запись сна
func (r *MetricRepository) InsertSleep(ctx context.Context, entry *models.SleepLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LastSleep возвращает последнюю запись сна или nil
func (r *MetricRepository) LastSleep(ctx context.Context, userID string) (*models.SleepLog, error) {
	var entries []models.SleepLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sleep_end DESC").
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
