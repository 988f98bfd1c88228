package site

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory override store for scaffolding and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	overrides map[uuid.UUID]*Overrides
	audit     map[uuid.UUID][]*AuditEntry
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		overrides: make(map[uuid.UUID]*Overrides),
		audit:     make(map[uuid.UUID][]*AuditEntry),
	}
}

// Get retrieves override state by site, returning NotFoundError when absent.
func (m *MemoryRepository) Get(_ context.Context, siteID uuid.UUID) (*Overrides, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.overrides[siteID]
	if !ok {
		return nil, &NotFoundError{Resource: "site_overrides", Key: siteID.String()}
	}
	return rec.Clone(), nil
}

// Save stores the state and appends the audit entry together.
func (m *MemoryRepository) Save(_ context.Context, overrides *Overrides, entry *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overrides[overrides.SiteID] = overrides.Clone()
	if entry != nil {
		copied := *entry
		m.audit[overrides.SiteID] = append(m.audit[overrides.SiteID], &copied)
	}
	return nil
}

// AuditLog returns the site's audit entries in recording order.
func (m *MemoryRepository) AuditLog(_ context.Context, siteID uuid.UUID) ([]*AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.audit[siteID]
	out := make([]*AuditEntry, 0, len(entries))
	for _, entry := range entries {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}
