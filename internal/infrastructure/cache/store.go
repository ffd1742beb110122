package cache

import (
	"context"
	"time"
)

// Store is a key-value store with per-key expiration. It backs OAuth
// state tokens and the analysis result cache.
type Store interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	// Take reads and deletes a key atomically
	Take(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
