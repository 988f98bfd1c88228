package site

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/pkg/testsupport"
)

func newRepositoryDB(t *testing.T) *BunRepository {
	t.Helper()

	db, err := testsupport.NewBunDB("site_overrides_test")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewBunRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func TestBunRepositoryGetMissing(t *testing.T) {
	repo := newRepositoryDB(t)

	_, err := repo.Get(context.Background(), uuid.New())
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get() error = %v, want NotFoundError", err)
	}
	if notFound.Resource != "site_overrides" {
		t.Fatalf("NotFoundError resource = %q", notFound.Resource)
	}
}

func TestBunRepositorySaveRoundTripsState(t *testing.T) {
	repo := newRepositoryDB(t)
	ctx := context.Background()

	siteID := uuid.New()
	itemID := uuid.New()
	actor := uuid.New()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	until := now.Add(2 * time.Hour)

	overrides := &Overrides{
		OrgID:       uuid.New(),
		SiteID:      siteID,
		HiddenItems: []uuid.UUID{itemID},
		PriceOverrides: []*PriceOverride{{
			ItemID:     itemID,
			PriceCents: 750,
			Reason:     "happy hour",
			CreatedAt:  now,
			CreatedBy:  actor,
		}},
		Snoozes: map[uuid.UUID]*SnoozeEntry{
			itemID: {Until: &until, SnoozedAt: now, SnoozedBy: actor},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry := &AuditEntry{
		ID:         uuid.New(),
		SiteID:     siteID,
		Action:     "item.hide",
		Actor:      actor,
		Note:       "86 until dinner",
		RecordedAt: now,
	}
	if err := repo.Save(ctx, overrides, entry); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Get(ctx, siteID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.OrgID != overrides.OrgID || loaded.SiteID != siteID {
		t.Fatalf("loaded identity = %+v", loaded)
	}
	if len(loaded.HiddenItems) != 1 || loaded.HiddenItems[0] != itemID {
		t.Fatalf("hidden items = %v", loaded.HiddenItems)
	}
	if len(loaded.PriceOverrides) != 1 {
		t.Fatalf("price overrides = %+v", loaded.PriceOverrides)
	}
	if po := loaded.PriceOverrides[0]; po.PriceCents != 750 || po.Reason != "happy hour" {
		t.Fatalf("price override = %+v", po)
	}
	snooze := loaded.Snoozes[itemID]
	if snooze == nil || snooze.Until == nil || !snooze.Until.Equal(until) {
		t.Fatalf("snooze = %+v", snooze)
	}
}

func TestBunRepositorySaveUpsertsSingleRow(t *testing.T) {
	repo := newRepositoryDB(t)
	ctx := context.Background()

	siteID := uuid.New()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	state := &Overrides{
		OrgID:     uuid.New(),
		SiteID:    siteID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Save(ctx, state, nil); err != nil {
		t.Fatalf("Save() first write error = %v", err)
	}

	state.HiddenItems = []uuid.UUID{uuid.New()}
	state.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(ctx, state, nil); err != nil {
		t.Fatalf("Save() second write error = %v", err)
	}

	loaded, err := repo.Get(ctx, siteID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(loaded.HiddenItems) != 1 {
		t.Fatalf("hidden items after upsert = %v", loaded.HiddenItems)
	}
	if !loaded.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("updated_at after upsert = %v", loaded.UpdatedAt)
	}
}

func TestBunRepositoryAuditLogInRecordingOrder(t *testing.T) {
	repo := newRepositoryDB(t)
	ctx := context.Background()

	siteID := uuid.New()
	actor := uuid.New()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	state := &Overrides{OrgID: uuid.New(), SiteID: siteID, CreatedAt: now, UpdatedAt: now}

	actions := []string{"item.hide", "price_override.set", "item.unhide"}
	for i, action := range actions {
		entry := &AuditEntry{
			ID:         uuid.New(),
			SiteID:     siteID,
			Action:     action,
			Actor:      actor,
			RecordedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(ctx, state, entry); err != nil {
			t.Fatalf("Save() %q error = %v", action, err)
		}
	}

	log, err := repo.AuditLog(ctx, siteID)
	if err != nil {
		t.Fatalf("AuditLog() error = %v", err)
	}
	if len(log) != len(actions) {
		t.Fatalf("AuditLog() returned %d entries, want %d", len(log), len(actions))
	}
	for i, entry := range log {
		if entry.Action != actions[i] {
			t.Fatalf("entry %d action = %q, want %q", i, entry.Action, actions[i])
		}
		if entry.Actor != actor || entry.SiteID != siteID {
			t.Fatalf("entry %d metadata = %+v", i, entry)
		}
	}

	other, err := repo.AuditLog(ctx, uuid.New())
	if err != nil {
		t.Fatalf("AuditLog() unknown site error = %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("AuditLog() unknown site returned %d entries", len(other))
	}
}
