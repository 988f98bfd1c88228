package site

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

// OverrideRecord is the persisted shape of one site's override state. The
// full state travels as one JSON document so Save stays a single-row upsert.
type OverrideRecord struct {
	bun.BaseModel `bun:"table:site_override_states,alias:sos"`

	SiteID    uuid.UUID       `bun:",pk,type:uuid"`
	OrgID     uuid.UUID       `bun:"org_id,notnull,type:uuid"`
	State     json.RawMessage `bun:"state,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull"`
	UpdatedAt time.Time       `bun:"updated_at,notnull"`
}

// AuditRecord is one persisted audit-log entry.
type AuditRecord struct {
	bun.BaseModel `bun:"table:site_audit_entries,alias:sae"`

	ID         uuid.UUID `bun:",pk,type:uuid"`
	SiteID     uuid.UUID `bun:"site_id,notnull,type:uuid"`
	Action     string    `bun:"action,notnull"`
	Actor      uuid.UUID `bun:"actor,type:uuid"`
	Note       string    `bun:"note"`
	RecordedAt time.Time `bun:"recorded_at,notnull"`
}

// BunRepository persists override state and audit entries through bun,
// writing both in one transaction.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs the repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// EnsureSchema creates the override tables.
func (r *BunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*OverrideRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("site: create override table: %w", err)
	}
	if _, err := r.db.NewCreateTable().Model((*AuditRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("site: create audit table: %w", err)
	}
	return nil
}

// Get retrieves override state by site, returning NotFoundError when absent.
func (r *BunRepository) Get(ctx context.Context, siteID uuid.UUID) (*Overrides, error) {
	record := &OverrideRecord{}
	err := r.db.NewSelect().Model(record).Where("sos.site_id = ?", siteID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "site_overrides", Key: siteID.String()}
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load site overrides")
	}

	overrides := &Overrides{}
	if err := json.Unmarshal(record.State, overrides); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "decode site overrides")
	}
	return overrides, nil
}

// Save upserts the state row and inserts the audit entry in one transaction.
func (r *BunRepository) Save(ctx context.Context, overrides *Overrides, entry *AuditEntry) error {
	state, err := json.Marshal(overrides)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "encode site overrides")
	}

	record := &OverrideRecord{
		SiteID:    overrides.SiteID,
		OrgID:     overrides.OrgID,
		State:     state,
		CreatedAt: overrides.CreatedAt,
		UpdatedAt: overrides.UpdatedAt,
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(record).
			On("CONFLICT (site_id) DO UPDATE").
			Set("state = EXCLUDED.state").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "save site overrides")
		}
		if entry != nil {
			audit := &AuditRecord{
				ID:         entry.ID,
				SiteID:     entry.SiteID,
				Action:     entry.Action,
				Actor:      entry.Actor,
				Note:       entry.Note,
				RecordedAt: entry.RecordedAt,
			}
			if _, err := tx.NewInsert().Model(audit).Exec(ctx); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "append site audit entry")
			}
		}
		return nil
	})
}

// AuditLog returns the site's audit entries in recording order.
func (r *BunRepository) AuditLog(ctx context.Context, siteID uuid.UUID) ([]*AuditEntry, error) {
	var records []*AuditRecord
	err := r.db.NewSelect().
		Model(&records).
		Where("sae.site_id = ?", siteID).
		Order("sae.recorded_at ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load site audit log")
	}

	out := make([]*AuditEntry, 0, len(records))
	for _, record := range records {
		out = append(out, &AuditEntry{
			ID:         record.ID,
			SiteID:     record.SiteID,
			Action:     record.Action,
			Actor:      record.Actor,
			Note:       record.Note,
			RecordedAt: record.RecordedAt,
		})
	}
	return out, nil
}
