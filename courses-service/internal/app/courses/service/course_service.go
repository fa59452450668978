package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/repository"
	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
)

const latestReviewsOnCoursePage = 5

// CourseCache - кеш категорий и карточек курсов (реализуется util.RedisCache)
type CourseCache interface {
	GetCategories(ctx context.Context) ([]entity.Category, error)
	SetCategories(ctx context.Context, categories []entity.Category) error
	DeleteCategories(ctx context.Context) error
	GetCourse(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	SetCourse(ctx context.Context, course *entity.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

// CourseService обрабатывает бизнес-логику курсов и категорий.
// Координирует работу репозиториев и Redis кеша.
type CourseService struct {
	categoryRepo repository.CategoryRepository
	courseRepo   repository.CourseRepository
	reviewRepo   repository.ReviewRepository
	cache        CourseCache
}

// NewCourseService создает новый сервис курсов с внедрением зависимостей
func NewCourseService(
	categoryRepo repository.CategoryRepository,
	courseRepo repository.CourseRepository,
	reviewRepo repository.ReviewRepository,
	cache CourseCache,
) *CourseService {
	return &CourseService{
		categoryRepo: categoryRepo,
		courseRepo:   courseRepo,
		reviewRepo:   reviewRepo,
		cache:        cache,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию и инвалидирует кеш
func (s *CourseService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategories(ctx)

	return category, nil
}

// GetAllCategories получает все категории с кешированием в Redis.
// Сначала проверяет кеш, при промахе загружает из БД и кеширует на час.
func (s *CourseService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && categories != nil {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	// Данные получены из БД, проблемы с кешем не критичны
	if err := s.cache.SetCategories(ctx, categories); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache categories")
	}

	return categories, nil
}

// UpdateCategory обновляет категорию и инвалидирует кеш
func (s *CourseService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.Name = req.Name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategories(ctx)

	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
func (s *CourseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategories(ctx)

	return nil
}

// === COURSES ===

// CreateCourse создает новый курс от имени аутентифицированного автора
func (s *CourseService) CreateCourse(ctx context.Context, identity *access.Identity, req *entity.CreateCourseRequest) (*entity.Course, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	course := &entity.Course{
		ID:         uuid.New(),
		Name:       req.Name,
		ShortDesc:  req.ShortDesc,
		FullDesc:   req.FullDesc,
		AuthorID:   identity.ID,
		AuthorName: identity.Name,
		CategoryID: req.CategoryID,
		CreatedAt:  time.Now(),
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	metrics.CoursesCreated.Inc()

	return course, nil
}

// GetCourse возвращает страницу курса: курс со средним рейтингом
// и последними отзывами. Если передан userID, добавляет отзыв
// этого пользователя для предзаполнения формы.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*entity.CourseDetailResponse, error) {
	course, err := s.getCourseCached(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.Latest(ctx, id, latestReviewsOnCoursePage)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reviews: %w", err)
	}

	detail := &entity.CourseDetailResponse{
		Course:  *course,
		Rating:  course.Rating(),
		Reviews: reviews,
	}

	if userID != nil {
		myReview, err := s.reviewRepo.GetByCourseAndUser(ctx, id, *userID)
		if err == nil {
			detail.MyReview = myReview
		} else if !errors.Is(err, repository.ErrReviewNotFound) {
			return nil, fmt.Errorf("failed to get own review: %w", err)
		}
	}

	return detail, nil
}

// ListCourses возвращает страницу курсов под фильтрами
func (s *CourseService) ListCourses(ctx context.Context, filter repository.CourseFilter) (*entity.CourseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	courses, total, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	items := make([]entity.CourseResponse, 0, len(courses))
	for _, c := range courses {
		items = append(items, entity.CourseResponse{Course: c, Rating: c.Rating()})
	}

	totalPages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))

	return &entity.CourseListResponse{
		Courses: items,
		Meta: entity.PageMeta{
			Page:       filter.Page,
			PerPage:    filter.PerPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		},
	}, nil
}

// UpdateCourse частично обновляет курс и инвалидирует его кеш
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, req *entity.UpdateCourseRequest) (*entity.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.ShortDesc != "" {
		course.ShortDesc = req.ShortDesc
	}
	if req.FullDesc != "" {
		course.FullDesc = req.FullDesc
	}
	if req.CategoryID != uuid.Nil {
		if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		course.CategoryID = req.CategoryID
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidateCourse(ctx, id)

	return course, nil
}

// DeleteCourse удаляет курс и инвалидирует его кеш
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.invalidateCourse(ctx, id)

	return nil
}

// getCourseCached возвращает курс из кеша либо из БД с записью в кеш
func (s *CourseService) getCourseCached(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	course, err := s.cache.GetCourse(ctx, id)
	if err == nil && course != nil {
		return course, nil
	}

	course, err = s.courseRepo.GetWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.cache.SetCourse(ctx, course); err != nil {
		logger.Warn().Err(err).Str("course_id", id.String()).Msg("Failed to cache course")
	}

	return course, nil
}

func (s *CourseService) invalidateCategories(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}

func (s *CourseService) invalidateCourse(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeleteCourse(ctx, id); err != nil {
		logger.Warn().Err(err).Str("course_id", id.String()).Msg("Failed to invalidate course cache")
	}
}
