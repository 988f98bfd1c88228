package document

import (
	"context"

	"github.com/google/uuid"
)

// EventStore is the durable append-only log backing every document. Append
// must reject sequence gaps or reuse so replay stays deterministic.
type EventStore interface {
	Append(ctx context.Context, event *Event) error
	Load(ctx context.Context, documentID uuid.UUID) ([]*Event, error)
}
