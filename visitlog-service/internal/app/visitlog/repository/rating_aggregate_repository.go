package repository

import (
	"context"
	"fmt"

	"eduhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingAggregateRepository struct {
	db *gorm.DB
}

// NewRatingAggregateRepository создает репозиторий агрегатов рейтинга
// поверх БД courses-service
func NewRatingAggregateRepository(db *gorm.DB) RatingAggregateRepository {
	return &ratingAggregateRepository{db: db}
}

// StoredAggregates читает агрегаты, записанные в карточках курсов
func (r *ratingAggregateRepository) StoredAggregates(ctx context.Context) ([]CourseAggregate, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "courses")
	defer timer.ObserveDuration()

	var aggregates []CourseAggregate
	err := r.db.WithContext(ctx).
		Raw(`SELECT id AS course_id, rating_sum, rating_num FROM courses`).
		Scan(&aggregates).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to read stored aggregates: %w", err)
	}

	return aggregates, nil
}

// ActualAggregates пересчитывает агрегаты из таблицы отзывов
func (r *ratingAggregateRepository) ActualAggregates(ctx context.Context) ([]CourseAggregate, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var aggregates []CourseAggregate
	err := r.db.WithContext(ctx).
		Raw(`SELECT course_id, COALESCE(SUM(rating), 0) AS rating_sum, COUNT(*) AS rating_num FROM reviews GROUP BY course_id`).
		Scan(&aggregates).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to recompute aggregates: %w", err)
	}

	return aggregates, nil
}

// FixAggregate записывает пересчитанный агрегат в карточку курса
func (r *ratingAggregateRepository) FixAggregate(ctx context.Context, courseID uuid.UUID, ratingSum, ratingNum int64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "courses")
	defer timer.ObserveDuration()

	err := r.db.WithContext(ctx).
		Exec(`UPDATE courses SET rating_sum = ?, rating_num = ? WHERE id = ?`, ratingSum, ratingNum, courseID).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to fix aggregate for course %s: %w", courseID, err)
	}

	return nil
}
