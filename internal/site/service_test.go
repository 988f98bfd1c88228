package site_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-catalog/internal/site"
	"github.com/google/uuid"
)

var (
	orgID  = uuid.MustParse("7b0c3a2e-4d1f-4b6a-9c8e-2f5a1d3e6b7c")
	siteID = uuid.MustParse("1f2e3d4c-5b6a-4789-8abc-def012345678")
	actor  = uuid.MustParse("c1a2b3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	epoch  = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (site.Service, *time.Time) {
	t.Helper()
	now := epoch
	svc := site.NewService(site.NewMemoryRepository(),
		site.WithClock(func() time.Time { return now }),
	)
	return svc, &now
}

func TestOverridesCreatedLazily(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// No mutation yet: the site has no stored state.
	_, err := svc.GetOverrides(ctx, siteID)
	var notFound *site.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError before first mutation, got %v", err)
	}

	item := uuid.New()
	overrides, err := svc.HideItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor})
	if err != nil {
		t.Fatalf("hide item: %v", err)
	}
	if overrides.OrgID != orgID || overrides.SiteID != siteID {
		t.Fatalf("unexpected identity on lazily created state: %+v", overrides)
	}
	if !overrides.IsItemHidden(item) {
		t.Fatal("expected item hidden")
	}

	overrides, err = svc.GetOverrides(ctx, siteID)
	if err != nil {
		t.Fatalf("get overrides after mutation: %v", err)
	}
	if !overrides.IsItemHidden(item) {
		t.Fatal("expected hidden item persisted")
	}
}

func TestPriceOverrideWindowAndLatestWins(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()
	item := uuid.New()

	from := epoch.Add(time.Hour)
	until := epoch.Add(3 * time.Hour)
	if _, err := svc.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID:          orgID,
		SiteID:         siteID,
		ItemID:         item,
		PriceCents:     750,
		EffectiveFrom:  &from,
		EffectiveUntil: &until,
		Reason:         "happy hour",
		Actor:          actor,
	}); err != nil {
		t.Fatalf("set windowed override: %v", err)
	}

	// Before the window the override is stored but inert.
	po, err := svc.GetPriceOverride(ctx, siteID, item, epoch)
	if err != nil {
		t.Fatalf("get override before window: %v", err)
	}
	if po != nil {
		t.Fatalf("override should not apply before its window, got %+v", po)
	}

	po, err = svc.GetPriceOverride(ctx, siteID, item, from.Add(time.Minute))
	if err != nil {
		t.Fatalf("get override inside window: %v", err)
	}
	if po == nil || po.PriceCents != 750 {
		t.Fatalf("expected 750 inside window, got %+v", po)
	}

	// The until bound is exclusive.
	po, _ = svc.GetPriceOverride(ctx, siteID, item, until)
	if po != nil {
		t.Fatalf("override must expire at its until bound, got %+v", po)
	}

	// A later unbounded override wins while both are in effect.
	*clock = epoch.Add(time.Minute)
	if _, err := svc.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID:      orgID,
		SiteID:     siteID,
		ItemID:     item,
		PriceCents: 800,
		Actor:      actor,
	}); err != nil {
		t.Fatalf("set second override: %v", err)
	}
	po, err = svc.GetPriceOverride(ctx, siteID, item, from.Add(time.Minute))
	if err != nil {
		t.Fatalf("get override with overlap: %v", err)
	}
	if po == nil || po.PriceCents != 800 {
		t.Fatalf("most recently created override must win, got %+v", po)
	}

	if _, err := svc.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID:      orgID,
		SiteID:     siteID,
		ItemID:     item,
		PriceCents: -10,
		Actor:      actor,
	}); !errors.Is(err, site.ErrPriceNegative) {
		t.Fatalf("expected ErrPriceNegative, got %v", err)
	}
}

func TestRemovePriceOverride(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	item := uuid.New()

	_, err := svc.RemovePriceOverride(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor})
	if !errors.Is(err, site.ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound, got %v", err)
	}

	if _, err := svc.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID: orgID, SiteID: siteID, ItemID: item, PriceCents: 500, Actor: actor,
	}); err != nil {
		t.Fatalf("set override: %v", err)
	}
	overrides, err := svc.RemovePriceOverride(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor})
	if err != nil {
		t.Fatalf("remove override: %v", err)
	}
	if len(overrides.PriceOverrides) != 0 {
		t.Fatalf("expected overrides cleared, got %d", len(overrides.PriceOverrides))
	}
}

func TestSnoozeLifecycle(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()
	item := uuid.New()

	past := epoch.Add(-time.Hour)
	_, err := svc.SnoozeItem(ctx, site.SnoozeItemRequest{
		OrgID: orgID, SiteID: siteID, ItemID: item, Until: &past, Actor: actor,
	})
	if !errors.Is(err, site.ErrSnoozeExpiryPassed) {
		t.Fatalf("expected ErrSnoozeExpiryPassed, got %v", err)
	}

	until := epoch.Add(2 * time.Hour)
	if _, err := svc.SnoozeItem(ctx, site.SnoozeItemRequest{
		OrgID: orgID, SiteID: siteID, ItemID: item, Until: &until, Reason: "86 oat milk", Actor: actor,
	}); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	snoozed, err := svc.IsItemSnoozed(ctx, siteID, item, epoch.Add(time.Hour))
	if err != nil {
		t.Fatalf("is snoozed: %v", err)
	}
	if !snoozed {
		t.Fatal("expected item snoozed before expiry")
	}

	// Expiry needs no write: the entry simply stops applying.
	snoozed, err = svc.IsItemSnoozed(ctx, siteID, item, until.Add(time.Minute))
	if err != nil {
		t.Fatalf("is snoozed after expiry: %v", err)
	}
	if snoozed {
		t.Fatal("expired snooze must behave like no snooze")
	}

	// An indefinite snooze holds until explicitly lifted.
	*clock = epoch.Add(time.Minute)
	if _, err := svc.SnoozeItem(ctx, site.SnoozeItemRequest{
		OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor,
	}); err != nil {
		t.Fatalf("indefinite snooze: %v", err)
	}
	snoozed, _ = svc.IsItemSnoozed(ctx, siteID, item, epoch.Add(1000*time.Hour))
	if !snoozed {
		t.Fatal("indefinite snooze must not expire")
	}

	overrides, err := svc.UnsnoozeItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor})
	if err != nil {
		t.Fatalf("unsnooze: %v", err)
	}
	if overrides.IsItemSnoozed(item, epoch) {
		t.Fatal("expected snooze lifted")
	}
}

func TestAvailabilityWindows(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	item := uuid.New()

	_, err := svc.AddAvailabilityWindow(ctx, site.AvailabilityWindowRequest{
		OrgID: orgID, SiteID: siteID, TargetID: item,
		StartMinute: 600, EndMinute: 500, Actor: actor,
	})
	if !errors.Is(err, site.ErrWindowInvalid) {
		t.Fatalf("expected ErrWindowInvalid for inverted bounds, got %v", err)
	}

	// Breakfast window: weekdays 07:00 to 11:00.
	overrides, err := svc.AddAvailabilityWindow(ctx, site.AvailabilityWindowRequest{
		OrgID: orgID, SiteID: siteID, TargetID: item,
		Days:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartMinute: 7 * 60,
		EndMinute:   11 * 60,
		Actor:       actor,
	})
	if err != nil {
		t.Fatalf("add window: %v", err)
	}
	if len(overrides.Windows) != 1 {
		t.Fatalf("expected one window, got %d", len(overrides.Windows))
	}
	windowID := overrides.Windows[0].ID

	monday9am := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	if !overrides.AvailableAt(item, monday9am) {
		t.Fatal("expected available inside window")
	}
	monday1pm := time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)
	if overrides.AvailableAt(item, monday1pm) {
		t.Fatal("expected unavailable outside window")
	}
	saturday9am := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	if overrides.AvailableAt(item, saturday9am) {
		t.Fatal("expected unavailable on an unlisted day")
	}
	// Targets with no windows stay always available.
	if !overrides.AvailableAt(uuid.New(), monday1pm) {
		t.Fatal("unbound target must be always available")
	}

	overrides, err = svc.UpdateAvailabilityWindow(ctx, site.AvailabilityWindowRequest{
		OrgID: orgID, SiteID: siteID, WindowID: windowID, TargetID: item,
		StartMinute: 12 * 60,
		EndMinute:   15 * 60,
		Actor:       actor,
	})
	if err != nil {
		t.Fatalf("update window: %v", err)
	}
	if !overrides.AvailableAt(item, monday1pm) {
		t.Fatal("expected updated window to cover 13:00")
	}

	_, err = svc.UpdateAvailabilityWindow(ctx, site.AvailabilityWindowRequest{
		OrgID: orgID, SiteID: siteID, WindowID: uuid.New(), TargetID: item,
		StartMinute: 0, EndMinute: 60, Actor: actor,
	})
	if !errors.Is(err, site.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}

	overrides, err = svc.RemoveAvailabilityWindow(ctx, site.RemoveWindowRequest{
		OrgID: orgID, SiteID: siteID, WindowID: windowID, Actor: actor,
	})
	if err != nil {
		t.Fatalf("remove window: %v", err)
	}
	if len(overrides.Windows) != 0 {
		t.Fatalf("expected windows cleared, got %d", len(overrides.Windows))
	}
}

func TestHiddenCategoriesAndLocalContent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	category := uuid.New()
	localItem := uuid.New()

	overrides, err := svc.HideCategory(ctx, site.CategoryRequest{OrgID: orgID, SiteID: siteID, CategoryID: category, Actor: actor})
	if err != nil {
		t.Fatalf("hide category: %v", err)
	}
	if !overrides.IsCategoryHidden(category) {
		t.Fatal("expected category hidden")
	}
	// Hiding twice does not duplicate the entry.
	overrides, err = svc.HideCategory(ctx, site.CategoryRequest{OrgID: orgID, SiteID: siteID, CategoryID: category, Actor: actor})
	if err != nil {
		t.Fatalf("hide category again: %v", err)
	}
	if len(overrides.HiddenCategories) != 1 {
		t.Fatalf("expected one hidden entry, got %d", len(overrides.HiddenCategories))
	}

	overrides, err = svc.UnhideCategory(ctx, site.CategoryRequest{OrgID: orgID, SiteID: siteID, CategoryID: category, Actor: actor})
	if err != nil {
		t.Fatalf("unhide category: %v", err)
	}
	if overrides.IsCategoryHidden(category) {
		t.Fatal("expected category visible again")
	}

	overrides, err = svc.AddLocalItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: localItem, Actor: actor})
	if err != nil {
		t.Fatalf("add local item: %v", err)
	}
	if len(overrides.LocalItems) != 1 || overrides.LocalItems[0] != localItem {
		t.Fatalf("expected local item registered, got %v", overrides.LocalItems)
	}
	overrides, err = svc.RemoveLocalItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: localItem, Actor: actor})
	if err != nil {
		t.Fatalf("remove local item: %v", err)
	}
	if len(overrides.LocalItems) != 0 {
		t.Fatalf("expected local item removed, got %v", overrides.LocalItems)
	}
}

func TestAuditLogRecordsEveryMutation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	item := uuid.New()

	if _, err := svc.HideItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor, Note: "seasonal"}); err != nil {
		t.Fatalf("hide item: %v", err)
	}
	if _, err := svc.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
		OrgID: orgID, SiteID: siteID, ItemID: item, PriceCents: 500, Reason: "promo", Actor: actor,
	}); err != nil {
		t.Fatalf("set override: %v", err)
	}
	if _, err := svc.UnhideItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, ItemID: item, Actor: actor}); err != nil {
		t.Fatalf("unhide item: %v", err)
	}

	entries, err := svc.GetAuditLog(ctx, siteID)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}
	wantActions := []string{"item.hide", "price_override.set", "item.unhide"}
	for i, entry := range entries {
		if entry.Action != wantActions[i] {
			t.Fatalf("entry %d action %q, want %q", i, entry.Action, wantActions[i])
		}
		if entry.Actor != actor {
			t.Fatalf("entry %d missing actor", i)
		}
		if entry.RecordedAt.IsZero() {
			t.Fatalf("entry %d missing timestamp", i)
		}
	}
	if entries[0].Note != "seasonal" {
		t.Fatalf("expected note carried into audit entry, got %q", entries[0].Note)
	}
	if entries[1].Note != "promo" {
		t.Fatalf("expected reason carried into audit entry, got %q", entries[1].Note)
	}
}

func TestSiteIDRequired(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.HideItem(ctx, site.ItemRequest{OrgID: orgID, ItemID: uuid.New(), Actor: actor})
	if !errors.Is(err, site.ErrSiteRequired) {
		t.Fatalf("expected ErrSiteRequired, got %v", err)
	}
	_, err = svc.HideItem(ctx, site.ItemRequest{OrgID: orgID, SiteID: siteID, Actor: actor})
	if !errors.Is(err, site.ErrItemRequired) {
		t.Fatalf("expected ErrItemRequired, got %v", err)
	}
	_, err = svc.GetOverrides(ctx, uuid.Nil)
	if !errors.Is(err, site.ErrSiteRequired) {
		t.Fatalf("expected ErrSiteRequired on query, got %v", err)
	}
}
