package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// RedisProvider stores cache values in Redis. Values must be []byte; callers
// serialize before Set and deserialize after Get.
type RedisProvider struct {
	client *redis.Client
	prefix string
}

var _ interfaces.CacheProvider = (*RedisProvider)(nil)

// NewRedisProvider creates a Redis-backed cache. Prefix may be empty.
func NewRedisProvider(client *redis.Client, prefix string) *RedisProvider {
	if prefix == "" {
		prefix = "catalog:"
	}
	return &RedisProvider{client: client, prefix: prefix}
}

func (p *RedisProvider) key(key string) string {
	return p.prefix + key
}

func (p *RedisProvider) Get(ctx context.Context, key string) (any, error) {
	b, err := p.client.Get(ctx, p.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, err
	}
	return b, nil
}

func (p *RedisProvider) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return p.client.Set(ctx, p.key(key), value, ttl).Err()
}

func (p *RedisProvider) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, p.key(key)).Err()
}

func (p *RedisProvider) Clear(ctx context.Context) error {
	iter := p.client.Scan(ctx, 0, p.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := p.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
