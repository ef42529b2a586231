package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/simpledough/storefront/internal/core/ports"
)

// KVStore is the durable local store for carts and the persisted session
// token. Values never expire.
type KVStore struct {
	client *redis.Client
	prefix string
}

func NewKVStore(client *redis.Client, cfg Config) *KVStore {
	return &KVStore{client: client, prefix: cfg.prefix()}
}

func (s *KVStore) key(k string) string {
	return s.prefix + k
}

// Read returns ok=false for a missing key.
func (s *KVStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv read %s: %w", key, err)
	}
	return val, true, nil
}

func (s *KVStore) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kv write %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

var _ ports.KVStore = (*KVStore)(nil)
