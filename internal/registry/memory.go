package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/google/uuid"
)

// MemoryRegistry is an in-memory listing index for scaffolding and tests.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*interfaces.RegistryEntry
}

var _ interfaces.Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[uuid.UUID]*interfaces.RegistryEntry),
	}
}

// Upsert inserts or replaces the entry.
func (m *MemoryRegistry) Upsert(_ context.Context, entry *interfaces.RegistryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.DocumentID] = &copied
	return nil
}

// Remove drops the entry; removing an unknown id is a no-op.
func (m *MemoryRegistry) Remove(_ context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, documentID)
	return nil
}

// Get returns a single entry, or NotFoundError.
func (m *MemoryRegistry) Get(_ context.Context, documentID uuid.UUID) (*interfaces.RegistryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[documentID]
	if !ok {
		return nil, &NotFoundError{Resource: "registry_entry", Key: documentID.String()}
	}
	copied := *entry
	return &copied, nil
}

// ListByKind returns non-archived entries for the organization and kind,
// ordered by document id for deterministic resolution.
func (m *MemoryRegistry) ListByKind(_ context.Context, orgID uuid.UUID, kind string) ([]*interfaces.RegistryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*interfaces.RegistryEntry, 0)
	for _, entry := range m.entries {
		if entry.OrgID != orgID || entry.Kind != kind || entry.IsArchived {
			continue
		}
		copied := *entry
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DocumentID.String() < out[j].DocumentID.String()
	})
	return out, nil
}
