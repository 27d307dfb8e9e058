// Package redis provides the Redis-backed checkout session cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commercekit/paymill-bridge/internal/domain"
)

// SessionCache implements ports.SessionCache on Redis. It holds the
// tolerance-adjusted pre-authorization amount for one checkout session,
// keyed per session and payment method, with a TTL so abandoned sessions
// expire on their own.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the given TTL
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionCache{client: client, ttl: ttl}
}

func sessionKey(sessionID string, method domain.PaymentMethod) string {
	return fmt.Sprintf("paymill:preauth:%s:%s", sessionID, method)
}

// SetPreAuthAmount stores the pre-auth amount for the session
func (c *SessionCache) SetPreAuthAmount(ctx context.Context, sessionID string, method domain.PaymentMethod, amountCents int64) error {
	if err := c.client.Set(ctx, sessionKey(sessionID, method), amountCents, c.ttl).Err(); err != nil {
		return fmt.Errorf("set preauth amount: %w", err)
	}
	return nil
}

// GetPreAuthAmount returns the cached pre-auth amount for the session.
// ok is false when no amount has been cached yet.
func (c *SessionCache) GetPreAuthAmount(ctx context.Context, sessionID string, method domain.PaymentMethod) (int64, bool, error) {
	val, err := c.client.Get(ctx, sessionKey(sessionID, method)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get preauth amount: %w", err)
	}

	amount, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse preauth amount: %w", err)
	}
	return amount, true, nil
}
