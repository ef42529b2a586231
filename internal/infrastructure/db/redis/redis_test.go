package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	kv := NewKVStore(client, Config{})
	if got := kv.key("cart:user-1"); got != "storefront:cart:user-1" {
		t.Errorf("default prefix: got %q", got)
	}

	kv = NewKVStore(client, Config{KeyPrefix: "test:"})
	if got := kv.key("session:token"); got != "test:session:token" {
		t.Errorf("custom prefix: got %q", got)
	}

	rev := NewTokenRevocations(client, Config{KeyPrefix: "test:"})
	if got := rev.key("abc"); got != "test:revoked:abc" {
		t.Errorf("revocation key: got %q", got)
	}
}

func TestRevoke_ExpiredTokenIsNoop(t *testing.T) {
	// No server is listening; a non-positive TTL must return before any call.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	rev := NewTokenRevocations(client, Config{})
	if err := rev.Revoke(context.Background(), "abc", -time.Second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
