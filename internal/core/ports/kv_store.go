package ports

import "context"

// KVStore is the durable key-value store local to the running client.
type KVStore interface {
	// Read returns ok=false when the key is absent.
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
