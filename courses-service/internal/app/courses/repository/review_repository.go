package repository

import (
	"context"
	"errors"
	"time"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Submit принимает отзыв: вставка для первого отзыва пользователя о курсе,
// правка на месте для повторного. Запись отзыва и сдвиг агрегата курса
// выполняются в одной транзакции, сами сдвиги - атомарными SQL-выражениями
// (rating_sum = rating_sum + ?), поэтому параллельные отправки не теряют
// вкладов, а упавшая транзакция не оставляет расхождения между таблицами.
func (r *reviewRepository) Submit(ctx context.Context, review *entity.Review) (SubmitOutcome, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpUpdate, "reviews")
	defer timer.ObserveDuration()

	var outcome SubmitOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Review
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND user_id = ?", review.CourseID, review.UserID).
			First(&existing).Error

		switch {
		case err == nil:
			// Повторный отзыв: rating_num не меняется,
			// rating_sum сдвигается на разницу оценок
			now := time.Now()
			if err := tx.Model(&entity.Review{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"rating":     review.Rating,
					"text":       review.Text,
					"user_name":  review.UserName,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}

			if delta := review.Rating - existing.Rating; delta != 0 {
				result := tx.Model(&entity.Course{}).
					Where("id = ?", review.CourseID).
					Update("rating_sum", gorm.Expr("rating_sum + ?", delta))
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return ErrCourseNotFound
				}
			}

			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			review.UpdatedAt = now
			outcome = OutcomeUpdated
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now()
			review.CreatedAt = now
			review.UpdatedAt = now
			if err := tx.Create(review).Error; err != nil {
				return err
			}

			result := tx.Model(&entity.Course{}).
				Where("id = ?", review.CourseID).
				Updates(map[string]interface{}{
					"rating_sum": gorm.Expr("rating_sum + ?", review.Rating),
					"rating_num": gorm.Expr("rating_num + 1"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrCourseNotFound
			}

			outcome = OutcomeAdded
			return nil

		default:
			return err
		}
	})

	if err != nil {
		metrics.RecordDbError("courses-service", metrics.DbOpUpdate)
		return "", err
	}

	return outcome, nil
}

func (r *reviewRepository) GetByCourseAndUser(ctx context.Context, courseID, userID uuid.UUID) (*entity.Review, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var review entity.Review
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&review)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// Latest возвращает последние отзывы о курсе.
// id DESC - устойчивый порядок при равных created_at.
func (r *reviewRepository) Latest(ctx context.Context, courseID uuid.UUID, limit int) ([]entity.Review, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// Paged возвращает страницу отзывов и общее количество.
// Страница за пределами диапазона - пустой список без ошибки.
func (r *reviewRepository) Paged(ctx context.Context, courseID uuid.UUID, sortBy string, page, perPage int) ([]entity.Review, int64, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var order string
	switch sortBy {
	case entity.SortPositive:
		order = "rating DESC, created_at DESC, id DESC"
	case entity.SortNegative:
		order = "rating ASC, created_at DESC, id DESC"
	default:
		order = "created_at DESC, id DESC"
	}

	offset := (page - 1) * perPage

	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(order).
		Limit(perPage).
		Offset(offset).
		Find(&reviews)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return reviews, total, nil
}
