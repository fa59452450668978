package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/service"
	"eduhub/pkg/access"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Сообщения об отклонённом отзыве
const (
	MsgChooseRating = "Выберите оценку от 0 до 5."
	MsgTextTooShort = "Текст отзыва должен содержать не менее 10 символов."
)

type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, courseID uuid.UUID, identity *access.Identity, req *entity.SubmitReviewRequest) (*entity.SubmitReviewResponse, error)
	LatestReviews(ctx context.Context, courseID uuid.UUID, limit int) ([]entity.Review, error)
	PagedReviews(ctx context.Context, courseID uuid.UUID, page, perPage int, sortBy string) (*entity.ReviewListResponse, error)
	GetMyReview(ctx context.Context, courseID, userID uuid.UUID) (*entity.Review, error)
}

// ReviewHandler обрабатывает HTTP запросы к отзывам
type ReviewHandler struct {
	reviewService ReviewServiceInterface
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview обрабатывает POST /courses/:course_id/reviews.
// Повторная отправка редактирует существующий отзыв пользователя.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}

	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	var req entity.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	response, err := h.reviewService.SubmitReview(c.Request.Context(), courseID, identity, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{
				Error:   "Bad Request",
				Message: MsgChooseRating,
			})
		case errors.Is(err, service.ErrTextTooShort):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{
				Error:   "Bad Request",
				Message: MsgTextTooShort,
			})
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Course not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to submit review"})
		}
		return
	}

	status := http.StatusCreated
	if response.Outcome == "updated" {
		status = http.StatusOK
	}

	c.JSON(status, response)
}

// ListReviews обрабатывает GET /courses/:course_id/reviews
// с пагинацией и сортировкой (newest | positive | negative)
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 5)
	sortBy := c.DefaultQuery("sort_by", entity.SortNewest)

	response, err := h.reviewService.PagedReviews(c.Request.Context(), courseID, page, perPage, sortBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMyReview обрабатывает GET /courses/:course_id/reviews/my
func (h *ReviewHandler) GetMyReview(c *gin.Context) {
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}

	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	review, err := h.reviewService.GetMyReview(c.Request.Context(), courseID, identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func courseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid course ID"})
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}
