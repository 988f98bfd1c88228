package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryEventStore is an in-memory event log for scaffolding and tests.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[uuid.UUID][]*Event
}

// NewMemoryEventStore creates an empty in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events: make(map[uuid.UUID][]*Event),
	}
}

// Append records the event, enforcing contiguous per-document sequences.
func (m *MemoryEventStore) Append(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.events[event.DocumentID]
	want := int64(len(log)) + 1
	if event.Seq != want {
		return fmt.Errorf("document: event seq %d out of order, want %d", event.Seq, want)
	}
	copied := *event
	m.events[event.DocumentID] = append(log, &copied)
	return nil
}

// Load returns the ordered event sequence for a document. An unknown document
// yields an empty log, not an error; callers distinguish uninitialized state
// from the fold result.
func (m *MemoryEventStore) Load(_ context.Context, documentID uuid.UUID) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.events[documentID]
	out := make([]*Event, 0, len(log))
	for _, event := range log {
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}
