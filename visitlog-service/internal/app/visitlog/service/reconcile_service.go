package service

import (
	"context"

	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
	"eduhub/visitlog-service/internal/app/visitlog/repository"
)

// ReconcileService сверяет инкрементальные агрегаты рейтинга курсов
// с пересчётом по таблице отзывов и правит расхождения.
// Расхождение возможно после сбоя между записью отзыва и коммитом.
type ReconcileService struct {
	ratingRepo repository.RatingAggregateRepository
}

func NewReconcileService(ratingRepo repository.RatingAggregateRepository) *ReconcileService {
	return &ReconcileService{ratingRepo: ratingRepo}
}

// ReconcileRatings выполняет один прогон сверки.
// Возвращает число исправленных курсов.
func (s *ReconcileService) ReconcileRatings(ctx context.Context) (int, error) {
	stored, err := s.ratingRepo.StoredAggregates(ctx)
	if err != nil {
		metrics.RatingReconciliations.WithLabelValues("failed").Inc()
		return 0, err
	}

	actual, err := s.ratingRepo.ActualAggregates(ctx)
	if err != nil {
		metrics.RatingReconciliations.WithLabelValues("failed").Inc()
		return 0, err
	}

	// Курс без единого отзыва не попадает в GROUP BY,
	// его корректный агрегат - нули
	actualByCourse := make(map[string]repository.CourseAggregate, len(actual))
	for _, agg := range actual {
		actualByCourse[agg.CourseID.String()] = agg
	}

	corrected := 0
	for _, storedAgg := range stored {
		expected := actualByCourse[storedAgg.CourseID.String()]

		if storedAgg.RatingSum == expected.RatingSum && storedAgg.RatingNum == expected.RatingNum {
			continue
		}

		if err := s.ratingRepo.FixAggregate(ctx, storedAgg.CourseID, expected.RatingSum, expected.RatingNum); err != nil {
			metrics.RatingReconciliations.WithLabelValues("failed").Inc()
			return corrected, err
		}

		logger.Warn().
			Str("course_id", storedAgg.CourseID.String()).
			Int64("stored_sum", storedAgg.RatingSum).
			Int64("stored_num", storedAgg.RatingNum).
			Int64("actual_sum", expected.RatingSum).
			Int64("actual_num", expected.RatingNum).
			Msg("Corrected drifted rating aggregate")

		corrected++
	}

	if corrected > 0 {
		metrics.RatingReconciliations.WithLabelValues("corrected").Inc()
	} else {
		metrics.RatingReconciliations.WithLabelValues("clean").Inc()
	}

	return corrected, nil
}
