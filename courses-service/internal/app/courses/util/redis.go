package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eduhub/courses-service/internal/app/courses/entity"
	"eduhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	categoriesCacheKey = "categories:all"
	courseCachePrefix  = "course:"

	categoriesCacheTTL = time.Hour
	courseCacheTTL     = 5 * time.Minute
)

// RedisCache кеширует список категорий и карточки курсов.
// Карточка курса включает денормализованный агрегат рейтинга,
// поэтому приём отзыва обязан инвалидировать её.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (r *RedisCache) SetCategories(ctx context.Context, categories []entity.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := r.client.Set(ctx, categoriesCacheKey, data, categoriesCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("courses-service", "set")
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	data, err := r.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("courses-service", "categories")
			return nil, nil
		}
		metrics.RecordRedisError("courses-service", "get")
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit("courses-service", "categories")
	return categories, nil
}

func (r *RedisCache) DeleteCategories(ctx context.Context) error {
	if err := r.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError("courses-service", "del")
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) SetCourse(ctx context.Context, course *entity.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	if err := r.client.Set(ctx, courseKey(course.ID), data, courseCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("courses-service", "set")
		return fmt.Errorf("failed to set course in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetCourse(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	data, err := r.client.Get(ctx, courseKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("courses-service", "course")
			return nil, nil
		}
		metrics.RecordRedisError("courses-service", "get")
		return nil, fmt.Errorf("failed to get course from cache: %w", err)
	}

	var course entity.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course: %w", err)
	}

	metrics.RecordCacheHit("courses-service", "course")
	return &course, nil
}

func (r *RedisCache) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, courseKey(id)).Err(); err != nil {
		metrics.RecordRedisError("courses-service", "del")
		return fmt.Errorf("failed to delete course from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func courseKey(id uuid.UUID) string {
	return courseCachePrefix + id.String()
}
