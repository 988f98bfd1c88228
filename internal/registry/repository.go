package registry

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntryRepository creates a repository for registry Entry records.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.DocumentID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.DocumentID = id
		},
		GetIdentifier: func() string {
			return "document_id"
		},
		GetIdentifierValue: func(e *Entry) string {
			return e.DocumentID.String()
		},
	})
}
