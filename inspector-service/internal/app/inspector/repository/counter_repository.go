package repository

import (
	"context"
	"fmt"

	"eduhub/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const serviceName = "inspector-service"

// CounterRepository - счётчики посещений по сессиям
type CounterRepository interface {
	Increment(ctx context.Context, sessionID string) (int64, error)
}

type counterRepository struct {
	client *redis.Client
}

// NewCounterRepository создает репозиторий счётчиков поверх Redis
func NewCounterRepository(client *redis.Client) CounterRepository {
	return &counterRepository{client: client}
}

// Increment увеличивает счётчик сессии и возвращает новое значение.
// Счётчик живёт, пока живёт Redis: лабораторной персистентность не нужна.
func (r *counterRepository) Increment(ctx context.Context, sessionID string) (int64, error) {
	count, err := r.client.Incr(ctx, counterKey(sessionID)).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, "incr")
		return 0, fmt.Errorf("failed to increment visit counter: %w", err)
	}
	return count, nil
}

func counterKey(sessionID string) string {
	return "counter:" + sessionID
}
