package repository

import (
	"context"
	"fmt"
	"time"

	"eduhub/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis-репозиторий для токенов.
// Refresh токены и черный список access токенов живут в Redis с TTL,
// поэтому протухшие записи удаляются сами.
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен с TTL до его истечения
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	key := refreshTokenKey(token)

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	if err := r.client.Set(ctx, key, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	// Множество токенов пользователя нужно для logout со всех устройств
	userTokensKey := userTokensKey(userID)
	if err := r.client.SAdd(ctx, userTokensKey, token).Err(); err != nil {
		return fmt.Errorf("failed to add token to user tokens set: %w", err)
	}
	r.client.Expire(ctx, userTokensKey, ttl)

	return nil
}

// GetRefreshToken получает информацию о refresh токене
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	key := refreshTokenKey(token)

	userIDStr, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token record: %w", err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get token ttl: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// DeleteRefreshToken удаляет refresh токен
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, refreshTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteUserRefreshTokens удаляет все refresh токены пользователя
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	key := userTokensKey(userID)

	tokens, err := r.client.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	for _, token := range tokens {
		if err := r.client.Del(ctx, refreshTokenKey(token)).Err(); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete user tokens set: %w", err)
	}

	return nil
}

// AddToBlacklist помещает access токен в черный список до его истечения
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, в черный список добавлять нечего
		return nil
	}

	if err := r.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// IsBlacklisted проверяет, отозван ли access токен
func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	result, err := r.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return result > 0, nil
}

func refreshTokenKey(token string) string {
	return fmt.Sprintf("refresh_token:%s", token)
}

func userTokensKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_tokens:%s", userID.String())
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}
