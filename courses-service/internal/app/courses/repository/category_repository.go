package repository

import (
	"context"
	"errors"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}

	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpSelect, "categories")
	defer timer.ObserveDuration()

	var categories []entity.Category
	result := r.db.WithContext(ctx).Order("name ASC").Find(&categories)

	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpUpdate, "categories")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer("courses-service", metrics.DbOpDelete, "categories")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
