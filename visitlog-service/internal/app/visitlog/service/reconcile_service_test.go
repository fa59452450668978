package service

import (
	"context"
	"errors"
	"testing"

	"eduhub/visitlog-service/internal/app/visitlog/repository"
	"eduhub/visitlog-service/internal/app/visitlog/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcileService_CleanRun(t *testing.T) {
	ratingRepo := new(mocks.MockRatingAggregateRepository)
	svc := NewReconcileService(ratingRepo)

	courseID := uuid.New()

	ratingRepo.On("StoredAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: courseID, RatingSum: 9, RatingNum: 2},
	}, nil)
	ratingRepo.On("ActualAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: courseID, RatingSum: 9, RatingNum: 2},
	}, nil)

	corrected, err := svc.ReconcileRatings(context.Background())

	require.NoError(t, err)
	assert.Zero(t, corrected)
	ratingRepo.AssertNotCalled(t, "FixAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileService_FixesDriftedAggregate(t *testing.T) {
	ratingRepo := new(mocks.MockRatingAggregateRepository)
	svc := NewReconcileService(ratingRepo)

	drifted := uuid.New()
	healthy := uuid.New()

	ratingRepo.On("StoredAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: drifted, RatingSum: 14, RatingNum: 3},
		{CourseID: healthy, RatingSum: 4, RatingNum: 1},
	}, nil)
	ratingRepo.On("ActualAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: drifted, RatingSum: 9, RatingNum: 2},
		{CourseID: healthy, RatingSum: 4, RatingNum: 1},
	}, nil)
	ratingRepo.On("FixAggregate", mock.Anything, drifted, int64(9), int64(2)).Return(nil)

	corrected, err := svc.ReconcileRatings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
	ratingRepo.AssertExpectations(t)
}

func TestReconcileService_CourseWithoutReviewsResetToZero(t *testing.T) {
	ratingRepo := new(mocks.MockRatingAggregateRepository)
	svc := NewReconcileService(ratingRepo)

	courseID := uuid.New()

	// Все отзывы курса удалены, но агрегат остался ненулевым
	ratingRepo.On("StoredAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: courseID, RatingSum: 5, RatingNum: 1},
	}, nil)
	ratingRepo.On("ActualAggregates", mock.Anything).Return([]repository.CourseAggregate{}, nil)
	ratingRepo.On("FixAggregate", mock.Anything, courseID, int64(0), int64(0)).Return(nil)

	corrected, err := svc.ReconcileRatings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
	ratingRepo.AssertExpectations(t)
}

func TestReconcileService_StoredReadFails(t *testing.T) {
	ratingRepo := new(mocks.MockRatingAggregateRepository)
	svc := NewReconcileService(ratingRepo)

	ratingRepo.On("StoredAggregates", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.ReconcileRatings(context.Background())

	assert.Error(t, err)
	ratingRepo.AssertNotCalled(t, "ActualAggregates", mock.Anything)
}

func TestReconcileService_FixFailureStopsRun(t *testing.T) {
	ratingRepo := new(mocks.MockRatingAggregateRepository)
	svc := NewReconcileService(ratingRepo)

	courseID := uuid.New()

	ratingRepo.On("StoredAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: courseID, RatingSum: 10, RatingNum: 2},
	}, nil)
	ratingRepo.On("ActualAggregates", mock.Anything).Return([]repository.CourseAggregate{
		{CourseID: courseID, RatingSum: 7, RatingNum: 2},
	}, nil)
	ratingRepo.On("FixAggregate", mock.Anything, courseID, int64(7), int64(2)).
		Return(errors.New("update failed"))

	corrected, err := svc.ReconcileRatings(context.Background())

	assert.Error(t, err)
	assert.Zero(t, corrected)
}
