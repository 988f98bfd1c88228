package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is the denormalized listing row kept per document. It is refreshed
// best-effort after document mutations and may lag the event log.
type Entry struct {
	bun.BaseModel `bun:"table:registry_entries,alias:re"`

	DocumentID uuid.UUID  `bun:",pk,type:uuid" json:"document_id"`
	OrgID      uuid.UUID  `bun:"org_id,notnull,type:uuid" json:"org_id"`
	Kind       string     `bun:"kind,notnull" json:"kind"`
	Name       string     `bun:"name" json:"name"`
	Price      int64      `bun:"price" json:"price"`
	CategoryID *uuid.UUID `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	HasDraft   bool       `bun:"has_draft,notnull,default:false" json:"has_draft"`
	IsArchived bool       `bun:"is_archived,notnull,default:false" json:"is_archived"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
