package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRatingReconciler мок для RatingReconciler
type MockRatingReconciler struct {
	mock.Mock
}

func (m *MockRatingReconciler) ReconcileRatings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestCronScheduler_Start_RunsInitialReconciliation(t *testing.T) {
	reconcileSvc := new(MockRatingReconciler)
	scheduler := NewCronScheduler(reconcileSvc)

	reconcileSvc.On("ReconcileRatings", mock.Anything).Return(0, nil)

	err := scheduler.Start(context.Background(), "@hourly")
	defer scheduler.Stop()

	assert.NoError(t, err)
	// Первый прогон выполняется сразу, не дожидаясь расписания
	reconcileSvc.AssertNumberOfCalls(t, "ReconcileRatings", 1)
	assert.Len(t, scheduler.GetEntries(), 1)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	reconcileSvc := new(MockRatingReconciler)
	scheduler := NewCronScheduler(reconcileSvc)

	err := scheduler.Start(context.Background(), "not a schedule")

	assert.Error(t, err)
	reconcileSvc.AssertNotCalled(t, "ReconcileRatings", mock.Anything)
}

func TestCronScheduler_Start_InitialRunFailureDoesNotAbort(t *testing.T) {
	reconcileSvc := new(MockRatingReconciler)
	scheduler := NewCronScheduler(reconcileSvc)

	reconcileSvc.On("ReconcileRatings", mock.Anything).Return(0, errors.New("db down"))

	err := scheduler.Start(context.Background(), "@hourly")
	defer scheduler.Stop()

	// Сбой первого прогона не мешает запуску планировщика
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)
}
