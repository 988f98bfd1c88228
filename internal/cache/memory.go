package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryProvider is an in-process TTL cache. Expired entries are dropped
// lazily on read.
type MemoryProvider struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ interfaces.CacheProvider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an empty in-process cache.
func NewMemoryProvider(opts ...MemoryOption) *MemoryProvider {
	p := &MemoryProvider{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// MemoryOption configures a MemoryProvider.
type MemoryOption func(*MemoryProvider)

// WithMemoryClock overrides the time source, used by expiry tests.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(p *MemoryProvider) {
		if now != nil {
			p.now = now
		}
	}
}

func (p *MemoryProvider) Get(_ context.Context, key string) (any, error) {
	p.mu.RLock()
	entry, ok := p.entries[key]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !p.now().Before(entry.expiresAt) {
		p.mu.Lock()
		delete(p.entries, key)
		p.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.value, nil
}

func (p *MemoryProvider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = p.now().Add(ttl)
	}
	p.mu.Lock()
	p.entries[key] = entry
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.entries, key)
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Clear(_ context.Context) error {
	p.mu.Lock()
	p.entries = make(map[string]memoryEntry)
	p.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including not-yet-collected
// expired ones.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
