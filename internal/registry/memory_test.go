package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-catalog/internal/registry"
	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/google/uuid"
)

var testOrg = uuid.MustParse("7b0c3a2e-4d1f-4b6a-9c8e-2f5a1d3e6b7c")

func entry(orgID uuid.UUID, kind, name string) *interfaces.RegistryEntry {
	return &interfaces.RegistryEntry{
		DocumentID: uuid.New(),
		OrgID:      orgID,
		Kind:       kind,
		Name:       name,
	}
}

func TestMemoryRegistryUpsertAndGet(t *testing.T) {
	r := registry.NewMemoryRegistry()
	ctx := context.Background()

	e := entry(testOrg, "menu_item", "Espresso")
	e.Price = 900
	if err := r.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := r.Get(ctx, e.DocumentID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Espresso" || got.Price != 900 {
		t.Fatalf("unexpected entry %+v", got)
	}

	// Upsert replaces wholesale.
	e.Name = "Doppio"
	e.HasDraft = true
	if err := r.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	got, err = r.Get(ctx, e.DocumentID)
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Name != "Doppio" || !got.HasDraft {
		t.Fatalf("expected replaced entry, got %+v", got)
	}

	_, err = r.Get(ctx, uuid.New())
	var notFound *registry.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMemoryRegistryRemove(t *testing.T) {
	r := registry.NewMemoryRegistry()
	ctx := context.Background()

	e := entry(testOrg, "menu_item", "Espresso")
	if err := r.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := r.Remove(ctx, e.DocumentID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := r.Get(ctx, e.DocumentID); err == nil {
		t.Fatal("expected entry removed")
	}
	// Removing an unknown id is a no-op.
	if err := r.Remove(ctx, uuid.New()); err != nil {
		t.Fatalf("remove unknown: %v", err)
	}
}

func TestMemoryRegistryListByKind(t *testing.T) {
	r := registry.NewMemoryRegistry()
	ctx := context.Background()
	otherOrg := uuid.New()

	a := entry(testOrg, "menu_item", "A")
	b := entry(testOrg, "menu_item", "B")
	archived := entry(testOrg, "menu_item", "C")
	archived.IsArchived = true
	category := entry(testOrg, "menu_category", "Drinks")
	foreign := entry(otherOrg, "menu_item", "D")

	for _, e := range []*interfaces.RegistryEntry{a, b, archived, category, foreign} {
		if err := r.Upsert(ctx, e); err != nil {
			t.Fatalf("upsert %s: %v", e.Name, err)
		}
	}

	listed, err := r.ListByKind(ctx, testOrg, "menu_item")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listed))
	}
	for _, e := range listed {
		if e.IsArchived {
			t.Fatal("archived entries must not be listed")
		}
		if e.OrgID != testOrg || e.Kind != "menu_item" {
			t.Fatalf("unexpected entry in listing: %+v", e)
		}
	}
	// Listing order is deterministic across calls.
	again, err := r.ListByKind(ctx, testOrg, "menu_item")
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	for i := range listed {
		if listed[i].DocumentID != again[i].DocumentID {
			t.Fatal("expected stable listing order")
		}
	}
}

func TestMemoryRegistryReturnsCopies(t *testing.T) {
	r := registry.NewMemoryRegistry()
	ctx := context.Background()

	e := entry(testOrg, "menu_item", "Espresso")
	if err := r.Upsert(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := r.Get(ctx, e.DocumentID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Name = "Mutated"

	fresh, err := r.Get(ctx, e.DocumentID)
	if err != nil {
		t.Fatalf("get fresh: %v", err)
	}
	if fresh.Name != "Espresso" {
		t.Fatal("stored entry must not share memory with returned copies")
	}
}
