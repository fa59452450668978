package handler

import (
	"context"
	"errors"
	"net/http"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/courses-service/internal/app/courses/repository"
	"eduhub/courses-service/internal/app/courses/service"
	"eduhub/pkg/access"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CourseServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateCourse(ctx context.Context, identity *access.Identity, req *entity.CreateCourseRequest) (*entity.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*entity.CourseDetailResponse, error)
	ListCourses(ctx context.Context, filter repository.CourseFilter) (*entity.CourseListResponse, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req *entity.UpdateCourseRequest) (*entity.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

// CourseHandler обрабатывает HTTP запросы к курсам и категориям
type CourseHandler struct {
	courseService CourseServiceInterface
	validator     *validator.Validate
}

func NewCourseHandler(courseService CourseServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validator:     validator.New(),
	}
}

// === CATEGORIES ===

// CreateCategory обрабатывает POST /categories
func (h *CourseHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	category, err := h.courseService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetAllCategories обрабатывает GET /categories (с кешированием)
func (h *CourseHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.courseService.GetAllCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get categories"})
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// UpdateCategory обрабатывает PUT /categories/:category_id
func (h *CourseHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	category, err := h.courseService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory обрабатывает DELETE /categories/:category_id
func (h *CourseHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	if err := h.courseService.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Категория успешно удалена."})
}

// === COURSES ===

// CreateCourse обрабатывает POST /courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	var req entity.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), identity, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse обрабатывает GET /courses/:course_id.
// Для аутентифицированного пользователя дополнительно возвращает
// его собственный отзыв для предзаполнения формы.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		return
	}

	var userID *uuid.UUID
	if identity := access.IdentityFromContext(c); identity != nil {
		userID = &identity.ID
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get course"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses обрабатывает GET /courses с фильтрами по названию и категории
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filter := repository.CourseFilter{
		Name:    c.Query("name"),
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 10),
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
			return
		}
		filter.CategoryID = categoryID
	}

	response, err := h.courseService.ListCourses(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list courses"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCourse обрабатывает PUT /courses/:course_id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		return
	}

	var req entity.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Course not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Category not found"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update course"})
		}
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse обрабатывает DELETE /courses/:course_id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete course"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Курс успешно удален."})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
