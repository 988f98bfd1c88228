package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	catalog "github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/internal/commands/documentcmd"
	"github.com/goliatone/go-catalog/internal/commands/sitecmd"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/resolver"
	"github.com/goliatone/go-catalog/internal/site"
	"github.com/google/uuid"
)

var (
	orgID  = uuid.MustParse("7b0c3a2e-4d1f-4b6a-9c8e-2f5a1d3e6b7c")
	siteID = uuid.MustParse("1f2e3d4c-5b6a-4789-8abc-def012345678")
	actor  = uuid.MustParse("c1a2b3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.DefaultLocale = ""
	if _, err := catalog.New(cfg); !errors.Is(err, catalog.ErrDefaultLocaleRequired) {
		t.Fatalf("expected ErrDefaultLocaleRequired, got %v", err)
	}
}

func TestModuleEndToEndInMemory(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	cfg := catalog.DefaultConfig()
	cfg.Storage.Provider = "memory"

	module, err := catalog.New(cfg, catalog.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	ctx := context.Background()

	category, err := module.Documents().Create(ctx, document.CreateRequest{
		OrgID:         orgID,
		Kind:          catalog.KindMenuCategory,
		Code:          "drinks",
		DefaultLocale: "en",
		Translations:  document.Translations{"en": {Name: "Drinks"}},
		Payload:       &document.MenuCategoryPayload{SortOrder: 1},
		Actor:         actor,
		PublishNow:    true,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	item, err := module.Documents().Create(ctx, document.CreateRequest{
		OrgID:         orgID,
		Kind:          catalog.KindMenuItem,
		Code:          "espresso",
		DefaultLocale: "en",
		Translations:  document.Translations{"en": {Name: "Espresso"}},
		Payload: &document.MenuItemPayload{
			PriceCents: 900,
			CategoryID: &category.ID,
			Active:     true,
		},
		Actor:      actor,
		PublishNow: true,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	// Registry follows document mutations best-effort.
	entry, err := module.Registry().Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("registry get: %v", err)
	}
	if entry.Name != "Espresso" || entry.Price != 900 {
		t.Fatalf("unexpected registry entry %+v", entry)
	}

	if _, err := module.Sites().SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID:      orgID,
		SiteID:     siteID,
		ItemID:     item.ID,
		PriceCents: 750,
		Actor:      actor,
	}); err != nil {
		t.Fatalf("set price override: %v", err)
	}

	result, err := module.Resolver().Resolve(ctx, resolver.Context{
		OrgID:   orgID,
		SiteID:  siteID,
		Channel: "pos",
		Locale:  "en",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Categories) != 1 || result.Categories[0].Name != "Drinks" {
		t.Fatalf("unexpected categories %+v", result.Categories)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	resolved := result.Items[0]
	if resolved.PriceCents != 750 || !resolved.PriceOverridden || resolved.BasePriceCents != 900 {
		t.Fatalf("expected site override applied, got %+v", resolved)
	}
	if result.Fingerprint == "" {
		t.Fatal("expected fingerprint")
	}

	// The default config enables the resolver cache; a repeat resolution is
	// served from it.
	again, err := module.Resolver().Resolve(ctx, resolver.Context{
		OrgID:   orgID,
		SiteID:  siteID,
		Channel: "pos",
		Locale:  "en",
	})
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again.Fingerprint != result.Fingerprint {
		t.Fatal("expected identical cached resolution")
	}

	if err := module.Resolver().InvalidateCache(ctx, siteID); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
}

func TestModuleDraftWorkflowThroughFacade(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Cache.Enabled = false

	module, err := catalog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	ctx := context.Background()

	doc, err := module.Documents().Create(ctx, document.CreateRequest{
		OrgID:         orgID,
		Kind:          catalog.KindMenuItem,
		Code:          "latte",
		DefaultLocale: "en",
		Translations:  document.Translations{"en": {Name: "Latte"}},
		Payload:       &document.MenuItemPayload{PriceCents: 1200, Active: true},
		Actor:         actor,
		PublishNow:    true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := module.Documents().CreateDraft(ctx, document.CreateDraftRequest{
		DocumentID: doc.ID,
		Payload:    &document.MenuItemPayload{PriceCents: 1300, Active: true},
		Actor:      actor,
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := module.Documents().PublishDraft(ctx, document.PublishDraftRequest{DocumentID: doc.ID, Actor: actor}); err != nil {
		t.Fatalf("publish draft: %v", err)
	}

	published, err := module.Documents().GetPublished(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if published.Number != 2 {
		t.Fatalf("expected version 2 published, got %d", published.Number)
	}
	if published.Payload.(*document.MenuItemPayload).PriceCents != 1300 {
		t.Fatal("expected draft payload published")
	}
}

func TestModuleCommandsOperateOnServices(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Cache.Enabled = false

	module, err := catalog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	ctx := context.Background()

	doc, err := module.Documents().Create(ctx, document.CreateRequest{
		OrgID:         orgID,
		Kind:          catalog.KindMenuItem,
		Code:          "flat-white",
		DefaultLocale: "en",
		Translations:  document.Translations{"en": {Name: "Flat White"}},
		Payload:       &document.MenuItemPayload{PriceCents: 1000, Active: true},
		Actor:         actor,
		PublishNow:    true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := module.Documents().CreateDraft(ctx, document.CreateDraftRequest{
		DocumentID: doc.ID,
		Payload:    &document.MenuItemPayload{PriceCents: 1100, Active: true},
		Actor:      actor,
	}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	cmds := module.Commands()
	if got := len(cmds.Handlers()); got != 10 {
		t.Fatalf("Handlers() returned %d handlers, want 10", got)
	}

	if err := cmds.PublishDraft.Execute(ctx, documentcmd.PublishDraftCommand{
		DocumentID: doc.ID,
		Actor:      actor,
	}); err != nil {
		t.Fatalf("publish command: %v", err)
	}
	published, err := module.Documents().GetPublished(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if published.Number != 2 {
		t.Fatalf("expected version 2 published, got %d", published.Number)
	}

	if err := cmds.SetPriceOverride.Execute(ctx, sitecmd.SetPriceOverrideCommand{
		OrgID:      orgID,
		SiteID:     siteID,
		ItemID:     doc.ID,
		PriceCents: 950,
		Actor:      actor,
	}); err != nil {
		t.Fatalf("price override command: %v", err)
	}
	overrides, err := module.Sites().GetOverrides(ctx, siteID)
	if err != nil {
		t.Fatalf("get overrides: %v", err)
	}
	if len(overrides.PriceOverrides) != 1 || overrides.PriceOverrides[0].PriceCents != 950 {
		t.Fatalf("unexpected overrides %+v", overrides.PriceOverrides)
	}
}

func TestModuleBunStorageSurvivesRestart(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:catalog_module_test?mode=memory&cache=shared&_fk=1"
	cfg.Cache.Enabled = false

	module, err := catalog.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	ctx := context.Background()

	doc, err := module.Documents().Create(ctx, document.CreateRequest{
		OrgID:         orgID,
		Kind:          catalog.KindMenuItem,
		Code:          "cortado",
		DefaultLocale: "en",
		Translations:  document.Translations{"en": {Name: "Cortado"}},
		Payload:       &document.MenuItemPayload{PriceCents: 850, Active: true},
		Actor:         actor,
		PublishNow:    true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A second module over the same database replays the stored event log.
	reopened, err := catalog.New(cfg)
	if err != nil {
		t.Fatalf("reopen module: %v", err)
	}
	published, err := reopened.Documents().GetPublished(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get published after reopen: %v", err)
	}
	if published.Number != 1 {
		t.Fatalf("expected version 1 published, got %d", published.Number)
	}
	if published.Payload.(*document.MenuItemPayload).PriceCents != 850 {
		t.Fatalf("unexpected payload %+v", published.Payload)
	}

	entry, err := reopened.Registry().Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("registry get after reopen: %v", err)
	}
	if entry.Name != "Cortado" || entry.Price != 850 {
		t.Fatalf("unexpected registry entry %+v", entry)
	}
}
