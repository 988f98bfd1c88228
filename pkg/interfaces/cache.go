package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the minimal cache contract consumed by the resolver and the
// cached registry. Entries expire after the supplied TTL; a zero TTL stores
// the value without expiry.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
