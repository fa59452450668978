package mocks

import (
	"context"

	"eduhub/visitlog-service/internal/app/visitlog/entity"
	"eduhub/visitlog-service/internal/app/visitlog/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockVisitLogRepository мок для VisitLogRepository
type MockVisitLogRepository struct {
	mock.Mock
}

func (m *MockVisitLogRepository) Insert(ctx context.Context, log *entity.VisitLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockVisitLogRepository) List(ctx context.Context, filter repository.VisitFilter) ([]entity.VisitLog, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.VisitLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockVisitLogRepository) CountByPage(ctx context.Context) ([]entity.PageVisits, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PageVisits), args.Error(1)
}

func (m *MockVisitLogRepository) CountByUser(ctx context.Context) ([]entity.UserVisits, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserVisits), args.Error(1)
}

// MockRatingAggregateRepository мок для RatingAggregateRepository
type MockRatingAggregateRepository struct {
	mock.Mock
}

func (m *MockRatingAggregateRepository) StoredAggregates(ctx context.Context) ([]repository.CourseAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CourseAggregate), args.Error(1)
}

func (m *MockRatingAggregateRepository) ActualAggregates(ctx context.Context) ([]repository.CourseAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CourseAggregate), args.Error(1)
}

func (m *MockRatingAggregateRepository) FixAggregate(ctx context.Context, courseID uuid.UUID, ratingSum, ratingNum int64) error {
	args := m.Called(ctx, courseID, ratingSum, ratingNum)
	return args.Error(0)
}
