package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_DisabledCacheNeverRevokes(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Hour))

	revoked, err := store.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_ExpiredTokenIsNotStored(t *testing.T) {
	store := NewTokenStore(nil)

	assert.NoError(t, store.RevokeToken(context.Background(), "jti-1", 0))
}
