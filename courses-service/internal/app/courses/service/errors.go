package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrReviewNotFound   = errors.New("review not found")

	// Ограничения отзыва. Отклонённый отзыв не меняет состояния:
	// проверки выполняются до обращения к хранилищу.
	ErrInvalidRating = errors.New("rating must be an integer from 0 to 5")
	ErrTextTooShort  = errors.New("review text must be at least 10 characters")
)
