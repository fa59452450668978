package entity

import "github.com/google/uuid"

// CreateCategoryRequest - запрос на создание категории
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateCategoryRequest - запрос на обновление категории
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateCourseRequest - запрос на создание курса
type CreateCourseRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=200"`
	ShortDesc  string    `json:"short_desc" validate:"required,max=500"`
	FullDesc   string    `json:"full_desc"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
}

// UpdateCourseRequest - запрос на частичное обновление курса
type UpdateCourseRequest struct {
	Name       string    `json:"name" validate:"omitempty,min=2,max=200"`
	ShortDesc  string    `json:"short_desc" validate:"omitempty,max=500"`
	FullDesc   string    `json:"full_desc"`
	CategoryID uuid.UUID `json:"category_id"`
}

// SubmitReviewRequest - запрос на отправку отзыва.
// Rating - указатель, чтобы отличать отсутствующую оценку от нулевой.
type SubmitReviewRequest struct {
	Rating *int   `json:"rating"`
	Text   string `json:"text"`
}

// PageMeta - метаданные пагинации
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CourseResponse - курс со средним рейтингом
type CourseResponse struct {
	Course
	Rating float64 `json:"rating"`
}

// CourseDetailResponse - страница курса: курс, рейтинг и последние отзывы
type CourseDetailResponse struct {
	Course   Course   `json:"course"`
	Rating   float64  `json:"rating"`
	Reviews  []Review `json:"reviews"`
	MyReview *Review  `json:"my_review,omitempty"`
}

// CourseListResponse - список курсов с пагинацией
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Meta    PageMeta         `json:"meta"`
}

// CategoryListResponse - список категорий
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

// ReviewListResponse - страница отзывов с метаданными
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Meta    PageMeta `json:"meta"`
}

// SubmitReviewResponse - результат приёма отзыва
type SubmitReviewResponse struct {
	Review  Review `json:"review"`
	Outcome string `json:"outcome"` // added, updated
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// SuccessResponse - стандартный успешный ответ
type SuccessResponse struct {
	Message string `json:"message"`
}
