package repository

import (
	"context"
	"errors"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository создает новый репозиторий курсов
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpInsert, "courses")
	defer timer.ObserveDuration()

	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "courses")
	defer timer.ObserveDuration()

	var course entity.Course
	result := r.db.WithContext(ctx).First(&course, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, result.Error
	}

	return &course, nil
}

func (r *courseRepository) GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "courses")
	defer timer.ObserveDuration()

	var course entity.Course
	result := r.db.WithContext(ctx).Preload("Category").First(&course, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, result.Error
	}

	return &course, nil
}

// List возвращает страницу курсов и общее количество под фильтром.
// Фильтр по имени - подстрока без учёта регистра, по категории - точное совпадение.
func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]entity.Course, int64, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "courses")
	defer timer.ObserveDuration()

	applyFilter := func(q *gorm.DB) *gorm.DB {
		if filter.Name != "" {
			q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
		}
		if filter.CategoryID != uuid.Nil {
			q = q.Where("category_id = ?", filter.CategoryID)
		}
		return q
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&entity.Course{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage

	var courses []entity.Course
	result := applyFilter(r.db.WithContext(ctx)).
		Preload("Category").
		Order("created_at DESC, id DESC").
		Limit(filter.PerPage).
		Offset(offset).
		Find(&courses)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return courses, total, nil
}

// Update обновляет описательные поля курса.
// Агрегат рейтинга здесь не трогаем: его меняет только транзакция отзыва.
func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpUpdate, "courses")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"name":        course.Name,
			"short_desc":  course.ShortDesc,
			"full_desc":   course.FullDesc,
			"category_id": course.CategoryID,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}

	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpDelete, "courses")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Course{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}

	return nil
}
