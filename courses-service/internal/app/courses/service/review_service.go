package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/repository"
	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
)

const minReviewTextLen = 10

// MessagePublisher отправляет события об отзывах в брокер
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}

// CourseCacheInvalidator сбрасывает кеш карточки курса.
// Нужен сервису отзывов: принятый отзыв меняет агрегат рейтинга курса.
type CourseCacheInvalidator interface {
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

// ReviewService обрабатывает приём и выдачу отзывов
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	courseRepo    repository.CourseRepository
	kafkaProducer MessagePublisher
	cache         CourseCacheInvalidator
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	courseRepo repository.CourseRepository,
	kafkaProducer MessagePublisher,
	cache CourseCacheInvalidator,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		courseRepo:    courseRepo,
		kafkaProducer: kafkaProducer,
		cache:         cache,
	}
}

// SubmitReview принимает отзыв о курсе.
// Первый отзыв пользователя вставляется и увеличивает rating_sum и rating_num,
// повторный правит оценку и текст на месте и сдвигает rating_sum на разницу.
// Отзыв, не прошедший проверки, отклоняется до любого обращения к хранилищу.
func (s *ReviewService) SubmitReview(
	ctx context.Context,
	courseID uuid.UUID,
	identity *access.Identity,
	req *entity.SubmitReviewRequest,
) (*entity.SubmitReviewResponse, error) {
	if req.Rating == nil || *req.Rating < 0 || *req.Rating > 5 {
		metrics.ReviewsRejected.WithLabelValues("rating").Inc()
		return nil, ErrInvalidRating
	}

	text := strings.TrimSpace(req.Text)
	if len([]rune(text)) < minReviewTextLen {
		metrics.ReviewsRejected.WithLabelValues("text").Inc()
		return nil, ErrTextTooShort
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	review := &entity.Review{
		ID:       uuid.New(),
		CourseID: courseID,
		UserID:   identity.ID,
		UserName: identity.Name,
		Rating:   *req.Rating,
		Text:     text,
	}

	outcome, err := s.reviewRepo.Submit(ctx, review)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	metrics.ReviewsSubmitted.WithLabelValues(string(outcome)).Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	// Карточка курса кеширует агрегат рейтинга - сбрасываем
	if err := s.cache.DeleteCourse(ctx, courseID); err != nil {
		logger.Warn().Err(err).Str("course_id", courseID.String()).
			Msg("Failed to invalidate course cache")
	}

	eventType := entity.EventReviewCreated
	if outcome == repository.OutcomeUpdated {
		eventType = entity.EventReviewUpdated
	}

	event := entity.ReviewEvent{
		EventType: eventType,
		ReviewID:  review.ID,
		CourseID:  review.CourseID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}

	// Отзыв уже зафиксирован, проблемы с Kafka не критичны
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", review.ID.String()).
			Msg("Failed to publish review event")
	}

	return &entity.SubmitReviewResponse{
		Review:  *review,
		Outcome: string(outcome),
	}, nil
}

// LatestReviews возвращает последние отзывы о курсе
func (s *ReviewService) LatestReviews(ctx context.Context, courseID uuid.UUID, limit int) ([]entity.Review, error) {
	if limit < 1 {
		limit = 5
	}

	reviews, err := s.reviewRepo.Latest(ctx, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reviews: %w", err)
	}

	return reviews, nil
}

// PagedReviews возвращает страницу отзывов с метаданными пагинации.
// Страница за пределами диапазона - пустой список и has_next=false без ошибки.
func (s *ReviewService) PagedReviews(
	ctx context.Context,
	courseID uuid.UUID,
	page, perPage int,
	sortBy string,
) (*entity.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 5
	}

	switch sortBy {
	case entity.SortPositive, entity.SortNegative:
	default:
		sortBy = entity.SortNewest
	}

	reviews, total, err := s.reviewRepo.Paged(ctx, courseID, sortBy, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &entity.ReviewListResponse{
		Reviews: reviews,
		Meta: entity.PageMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// GetMyReview возвращает отзыв пользователя о курсе
func (s *ReviewService) GetMyReview(ctx context.Context, courseID, userID uuid.UUID) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByCourseAndUser(ctx, courseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
