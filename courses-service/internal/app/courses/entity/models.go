package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию курсов
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Course представляет курс платформы.
// RatingSum и RatingNum - денормализованный агрегат отзывов:
// средний рейтинг вычисляется как sum/num без обхода таблицы отзывов.
// Эти колонки меняет только транзакция приёма отзыва.
type Course struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	ShortDesc  string    `json:"short_desc"`
	FullDesc   string    `json:"full_desc"`
	AuthorID   uuid.UUID `json:"author_id" gorm:"type:uuid"`
	AuthorName string    `json:"author_name"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RatingSum  int       `json:"rating_sum"`
	RatingNum  int       `json:"rating_num"`
	CreatedAt  time.Time `json:"created_at"`
}

// Rating возвращает средний рейтинг курса.
// Для курса без отзывов рейтинг равен нулю.
func (c *Course) Rating() float64 {
	if c.RatingNum == 0 {
		return 0
	}
	return float64(c.RatingSum) / float64(c.RatingNum)
}

// Review представляет отзыв пользователя о курсе.
// Пара (course_id, user_id) уникальна: повторная отправка
// редактирует существующий отзыв, а не создаёт новый.
// UserName дублирует ФИО автора из токена, чтобы не ходить в auth-service.
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID  uuid.UUID `json:"course_id" gorm:"type:uuid;uniqueIndex:idx_reviews_course_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_reviews_course_user"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Варианты сортировки отзывов
const (
	SortNewest   = "newest"   // по умолчанию: новые сверху
	SortPositive = "positive" // сначала высокие оценки
	SortNegative = "negative" // сначала низкие оценки
)

// Типы событий об отзывах для Kafka
const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
)

// ReviewEvent представляет событие об отзыве для Kafka
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED, REVIEW_UPDATED
	ReviewID  uuid.UUID `json:"review_id"`
	CourseID  uuid.UUID `json:"course_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
