package services

import (
	"context"
	"time"
)

// CacheService is the slice of the cache the dashboard path needs: a
// read-through for hot tow records and invalidation on write.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
