package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simpledough/storefront/internal/core/ports"
)

// TokenRevocations records invalidated provider sessions.
// Key format: <prefix>revoked:<token_id>
type TokenRevocations struct {
	client *redis.Client
	prefix string
}

func NewTokenRevocations(client *redis.Client, cfg Config) *TokenRevocations {
	return &TokenRevocations{client: client, prefix: cfg.prefix()}
}

// Revoke marks tokenID as invalid for ttl, the token's remaining lifetime.
// A non-positive ttl means the token already expired and nothing is stored.
func (r *TokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *TokenRevocations) key(tokenID string) string {
	return fmt.Sprintf("%srevoked:%s", r.prefix, tokenID)
}

var _ ports.TokenRevocations = (*TokenRevocations)(nil)
