package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-catalog/internal/cache"
)

func newRedisProvider(t *testing.T) (*cache.RedisProvider, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewRedisProvider(client, "catalog:"), mr
}

func TestRedisProviderSetGetDelete(t *testing.T) {
	p, _ := newRedisProvider(t)
	ctx := context.Background()

	if _, err := p.Get(ctx, "missing"); !cache.IsMiss(err) {
		t.Fatalf("expected miss, got %v", err)
	}

	if err := p.Set(ctx, "k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := p.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, ok := value.([]byte)
	if !ok || string(b) != "payload" {
		t.Fatalf("unexpected value %v", value)
	}

	if err := p.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Get(ctx, "k"); !cache.IsMiss(err) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestRedisProviderExpiry(t *testing.T) {
	p, mr := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := p.Get(ctx, "k"); !cache.IsMiss(err) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestRedisProviderKeysArePrefixed(t *testing.T) {
	p, mr := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Set(ctx, "resolve:abc", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("catalog:resolve:abc") {
		t.Fatalf("expected prefixed key stored, have %v", mr.Keys())
	}
}

func TestRedisProviderClearRemovesOnlyOwnKeys(t *testing.T) {
	p, mr := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Set(ctx, "a", []byte("1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}

	if err := p.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("catalog:a") || mr.Exists("catalog:b") {
		t.Fatal("expected prefixed keys removed")
	}
	if !mr.Exists("other:key") {
		t.Fatal("clear must not touch keys outside its prefix")
	}
}
