package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventRecord is the persisted shape of one log entry.
type EventRecord struct {
	bun.BaseModel `bun:"table:document_events,alias:de"`

	ID         uuid.UUID       `bun:",pk,type:uuid"`
	DocumentID uuid.UUID       `bun:"document_id,notnull,type:uuid"`
	Seq        int64           `bun:"seq,notnull"`
	Type       string          `bun:"type,notnull"`
	Actor      uuid.UUID       `bun:"actor,type:uuid"`
	RecordedAt time.Time       `bun:"recorded_at,notnull"`
	Data       json.RawMessage `bun:"data,type:jsonb,notnull"`
}

// BunEventStore persists document events through bun. The (document_id, seq)
// unique index is what turns concurrent double-appends into errors instead of
// silent forks.
type BunEventStore struct {
	db *bun.DB
}

// NewBunEventStore constructs the store.
func NewBunEventStore(db *bun.DB) *BunEventStore {
	return &BunEventStore{db: db}
}

// EnsureSchema creates the events table and its sequence index.
func (s *BunEventStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*EventRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("document: create events table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*EventRecord)(nil)).
		Index("idx_document_events_doc_seq").
		Unique().
		Column("document_id", "seq").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("document: create events index: %w", err)
	}
	return nil
}

// Append durably records one event.
func (s *BunEventStore) Append(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "encode document event")
	}

	record := &EventRecord{
		ID:         event.ID,
		DocumentID: event.DocumentID,
		Seq:        event.Seq,
		Type:       string(event.Type),
		Actor:      event.Actor,
		RecordedAt: event.RecordedAt,
		Data:       data,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "append document event")
	}
	return nil
}

// Load returns the ordered event sequence for a document.
func (s *BunEventStore) Load(ctx context.Context, documentID uuid.UUID) ([]*Event, error) {
	var records []*EventRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("de.document_id = ?", documentID).
		Order("de.seq ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load document events")
	}

	out := make([]*Event, 0, len(records))
	for _, record := range records {
		event := &Event{
			ID:         record.ID,
			DocumentID: record.DocumentID,
			Seq:        record.Seq,
			Type:       EventType(record.Type),
			Actor:      record.Actor,
			RecordedAt: record.RecordedAt,
		}
		if len(record.Data) > 0 {
			if err := json.Unmarshal(record.Data, &event.Data); err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "decode document event")
			}
		}
		out = append(out, event)
	}
	return out, nil
}
