package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// RegistryEntry is the denormalized listing record kept per document. It is a
// secondary index: callers update it best-effort after each document mutation
// and it is allowed to lag behind the authoritative event log.
type RegistryEntry struct {
	DocumentID uuid.UUID
	OrgID      uuid.UUID
	Kind       string
	Name       string
	Price      int64
	CategoryID *uuid.UUID
	HasDraft   bool
	IsArchived bool
}

// Registry lists candidate documents for resolution. Implementations are
// eventually consistent and never authoritative for content.
type Registry interface {
	Upsert(ctx context.Context, entry *RegistryEntry) error
	Remove(ctx context.Context, documentID uuid.UUID) error
	Get(ctx context.Context, documentID uuid.UUID) (*RegistryEntry, error)
	// ListByKind returns non-archived entries for the organization and kind.
	ListByKind(ctx context.Context, orgID uuid.UUID, kind string) ([]*RegistryEntry, error)
}
