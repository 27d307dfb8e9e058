package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionCache(client, ttl), mr
}

func TestSessionCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetPreAuthAmount(ctx, "sess_1", domain.MethodCreditCard, 5099))

	amount, ok, err := cache.GetPreAuthAmount(ctx, "sess_1", domain.MethodCreditCard)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(5099), amount)
}

func TestSessionCache_MissReturnsNotOK(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	_, ok, err := cache.GetPreAuthAmount(context.Background(), "sess_unknown", domain.MethodCreditCard)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionCache_KeyedPerMethod(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetPreAuthAmount(ctx, "sess_1", domain.MethodCreditCard, 5099))
	require.NoError(t, cache.SetPreAuthAmount(ctx, "sess_1", domain.MethodDirectDebit, 4999))

	amount, ok, err := cache.GetPreAuthAmount(ctx, "sess_1", domain.MethodDirectDebit)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(4999), amount)
}

func TestSessionCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetPreAuthAmount(ctx, "sess_1", domain.MethodCreditCard, 5099))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.GetPreAuthAmount(ctx, "sess_1", domain.MethodCreditCard)
	require.NoError(t, err)
	assert.False(t, ok)
}
