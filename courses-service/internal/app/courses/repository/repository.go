package repository

import (
	"context"
	"errors"

	"eduhub/courses-service/internal/app/courses/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound = errors.New("category not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrReviewNotFound   = errors.New("review not found")
)

// SubmitOutcome - исход приёма отзыва
type SubmitOutcome string

const (
	OutcomeAdded   SubmitOutcome = "added"   // первый отзыв пользователя о курсе
	OutcomeUpdated SubmitOutcome = "updated" // правка существующего отзыва
)

// CourseFilter - фильтры и пагинация списка курсов
type CourseFilter struct {
	Name       string    // подстрока названия, без учёта регистра
	CategoryID uuid.UUID // uuid.Nil - без фильтра
	Page       int
	PerPage    int
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]entity.Course, int64, error)
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewRepository interface {
	// Submit выполняет upsert отзыва и изменение агрегата курса
	// в одной транзакции
	Submit(ctx context.Context, review *entity.Review) (SubmitOutcome, error)
	GetByCourseAndUser(ctx context.Context, courseID, userID uuid.UUID) (*entity.Review, error)
	Latest(ctx context.Context, courseID uuid.UUID, limit int) ([]entity.Review, error)
	Paged(ctx context.Context, courseID uuid.UUID, sortBy string, page, perPage int) ([]entity.Review, int64, error)
}
