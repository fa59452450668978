package repository

import (
	"context"
	"errors"

	"eduhub/visitlog-service/internal/app/visitlog/entity"

	"github.com/google/uuid"
)

var (
	ErrVisitLogNotFound = errors.New("visit log entry not found")
)

// VisitFilter - параметры выборки журнала посещений.
// UserID == nil означает весь журнал (доступно только администратору).
type VisitFilter struct {
	UserID  *uuid.UUID
	Page    int
	PerPage int
}

// VisitLogRepository - доступ к журналу посещений в MongoDB
type VisitLogRepository interface {
	Insert(ctx context.Context, log *entity.VisitLog) error
	List(ctx context.Context, filter VisitFilter) ([]entity.VisitLog, int64, error)
	CountByPage(ctx context.Context) ([]entity.PageVisits, error)
	CountByUser(ctx context.Context) ([]entity.UserVisits, error)
}

// CourseAggregate - агрегат рейтинга одного курса
type CourseAggregate struct {
	CourseID  uuid.UUID `gorm:"column:course_id"`
	RatingSum int64     `gorm:"column:rating_sum"`
	RatingNum int64     `gorm:"column:rating_num"`
}

// RatingAggregateRepository - чтение и правка агрегатов рейтинга
// в БД courses-service. Используется только cron-сверкой.
type RatingAggregateRepository interface {
	StoredAggregates(ctx context.Context) ([]CourseAggregate, error)
	ActualAggregates(ctx context.Context) ([]CourseAggregate, error)
	FixAggregate(ctx context.Context, courseID uuid.UUID, ratingSum, ratingNum int64) error
}
