package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepo(t *testing.T) (TokenRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisTokenRepository(client), mr
}

func TestRedisTokenRepository_SaveAndGetRefreshToken(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	userID := uuid.New()
	token := "refresh-token-1"
	expiresAt := time.Now().Add(time.Hour)

	err := repo.SaveRefreshToken(context.Background(), userID, token, expiresAt)
	require.NoError(t, err)

	stored, err := repo.GetRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, token, stored.Token)
	assert.WithinDuration(t, expiresAt, stored.ExpiresAt, time.Minute)
}

func TestRedisTokenRepository_SaveRefreshToken_AlreadyExpired(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	err := repo.SaveRefreshToken(context.Background(), uuid.New(), "stale", time.Now().Add(-time.Minute))
	assert.Error(t, err)
}

func TestRedisTokenRepository_GetRefreshToken_NotFound(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	_, err := repo.GetRefreshToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisTokenRepository_DeleteRefreshToken(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	token := "refresh-token-2"
	require.NoError(t, repo.SaveRefreshToken(context.Background(), uuid.New(), token, time.Now().Add(time.Hour)))

	require.NoError(t, repo.DeleteRefreshToken(context.Background(), token))

	_, err := repo.GetRefreshToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisTokenRepository_DeleteUserRefreshTokens(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	userID := uuid.New()
	otherID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	// Logout со всех устройств снимает только токены этого пользователя
	require.NoError(t, repo.SaveRefreshToken(context.Background(), userID, "device-1", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(context.Background(), userID, "device-2", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(context.Background(), otherID, "other-device", expiresAt))

	require.NoError(t, repo.DeleteUserRefreshTokens(context.Background(), userID))

	_, err := repo.GetRefreshToken(context.Background(), "device-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetRefreshToken(context.Background(), "device-2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetRefreshToken(context.Background(), "other-device")
	assert.NoError(t, err)
}

func TestRedisTokenRepository_Blacklist(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	token := "access-token-1"

	blacklisted, err := repo.IsBlacklisted(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, repo.AddToBlacklist(context.Background(), token, time.Now().Add(time.Minute)))

	blacklisted, err = repo.IsBlacklisted(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestRedisTokenRepository_Blacklist_ExpiredTokenSkipped(t *testing.T) {
	repo, _ := setupTokenRepo(t)

	// Истекший access токен и так невалиден, запись не нужна
	require.NoError(t, repo.AddToBlacklist(context.Background(), "expired", time.Now().Add(-time.Minute)))

	blacklisted, err := repo.IsBlacklisted(context.Background(), "expired")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestRedisTokenRepository_RefreshTokenTTLExpires(t *testing.T) {
	repo, mr := setupTokenRepo(t)

	token := "short-lived"
	require.NoError(t, repo.SaveRefreshToken(context.Background(), uuid.New(), token, time.Now().Add(time.Second)))

	mr.FastForward(2 * time.Second)

	_, err := repo.GetRefreshToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotFound)
}
