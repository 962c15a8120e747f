package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"garage/internal/cache"
)

func TestTokenStore_DisabledCacheRevokesNothing(t *testing.T) {
	store := NewTokenStore(cache.New("", "", 0))
	ctx := context.Background()

	assert.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	assert.False(t, store.IsRevoked(ctx, "jti-1"))
	assert.False(t, store.IsRevoked(ctx, ""))
}

func TestRemainingTTL(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	noExpiry := &Claims{}
	assert.Equal(t, time.Duration(0), RemainingTTL(noExpiry, now))

	live := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute))}}
	assert.Equal(t, 30*time.Minute, RemainingTTL(live, now))

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second))}}
	assert.Negative(t, RemainingTTL(expired, now))
}
