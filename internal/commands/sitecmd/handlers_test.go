package sitecmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/site"
)

type stubSiteService struct {
	priceRequests    []site.SetPriceOverrideRequest
	removeRequests   []site.ItemRequest
	hideRequests     []site.ItemRequest
	unhideRequests   []site.ItemRequest
	snoozeRequests   []site.SnoozeItemRequest
	unsnoozeRequests []site.ItemRequest

	priceErr  error
	snoozeErr error
}

func (s *stubSiteService) SetPriceOverride(_ context.Context, req site.SetPriceOverrideRequest) (*site.Overrides, error) {
	s.priceRequests = append(s.priceRequests, req)
	if s.priceErr != nil {
		return nil, s.priceErr
	}
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) RemovePriceOverride(_ context.Context, req site.ItemRequest) (*site.Overrides, error) {
	s.removeRequests = append(s.removeRequests, req)
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) HideItem(_ context.Context, req site.ItemRequest) (*site.Overrides, error) {
	s.hideRequests = append(s.hideRequests, req)
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) UnhideItem(_ context.Context, req site.ItemRequest) (*site.Overrides, error) {
	s.unhideRequests = append(s.unhideRequests, req)
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) HideCategory(context.Context, site.CategoryRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) UnhideCategory(context.Context, site.CategoryRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) AddLocalItem(context.Context, site.ItemRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) RemoveLocalItem(context.Context, site.ItemRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) AddLocalCategory(context.Context, site.CategoryRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) RemoveLocalCategory(context.Context, site.CategoryRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) AddAvailabilityWindow(context.Context, site.AvailabilityWindowRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) UpdateAvailabilityWindow(context.Context, site.AvailabilityWindowRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) RemoveAvailabilityWindow(context.Context, site.RemoveWindowRequest) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) SnoozeItem(_ context.Context, req site.SnoozeItemRequest) (*site.Overrides, error) {
	s.snoozeRequests = append(s.snoozeRequests, req)
	if s.snoozeErr != nil {
		return nil, s.snoozeErr
	}
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) UnsnoozeItem(_ context.Context, req site.ItemRequest) (*site.Overrides, error) {
	s.unsnoozeRequests = append(s.unsnoozeRequests, req)
	return &site.Overrides{OrgID: req.OrgID, SiteID: req.SiteID}, nil
}

func (s *stubSiteService) GetOverrides(context.Context, uuid.UUID) (*site.Overrides, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) GetPriceOverride(context.Context, uuid.UUID, uuid.UUID, time.Time) (*site.PriceOverride, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSiteService) IsItemSnoozed(context.Context, uuid.UUID, uuid.UUID, time.Time) (bool, error) {
	return false, errors.New("not implemented")
}

func (s *stubSiteService) GetAuditLog(context.Context, uuid.UUID) ([]*site.AuditEntry, error) {
	return nil, errors.New("not implemented")
}

type recordingInvalidator struct {
	sites []uuid.UUID
	err   error
}

func (r *recordingInvalidator) fn() CacheInvalidator {
	return func(_ context.Context, siteID uuid.UUID) error {
		r.sites = append(r.sites, siteID)
		return r.err
	}
}

func TestSetPriceOverrideHandlerDelegatesAndInvalidates(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{}
	h := NewSetPriceOverrideHandler(svc, nil, inv.fn())

	orgID := uuid.New()
	siteID := uuid.New()
	itemID := uuid.New()
	err := h.Execute(context.Background(), SetPriceOverrideCommand{
		OrgID:      orgID,
		SiteID:     siteID,
		ItemID:     itemID,
		PriceCents: 750,
		Reason:     "happy hour",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.priceRequests) != 1 {
		t.Fatalf("expected one override request, got %d", len(svc.priceRequests))
	}
	req := svc.priceRequests[0]
	if req.SiteID != siteID || req.ItemID != itemID || req.PriceCents != 750 {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(inv.sites) != 1 || inv.sites[0] != siteID {
		t.Fatalf("expected cache invalidated for the site, got %v", inv.sites)
	}
}

func TestSetPriceOverrideHandlerValidatesWindow(t *testing.T) {
	svc := &stubSiteService{}
	h := NewSetPriceOverrideHandler(svc, nil, nil)

	from := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	until := from.Add(-time.Hour)
	err := h.Execute(context.Background(), SetPriceOverrideCommand{
		OrgID:          uuid.New(),
		SiteID:         uuid.New(),
		ItemID:         uuid.New(),
		PriceCents:     500,
		EffectiveFrom:  &from,
		EffectiveUntil: &until,
	})
	if err == nil {
		t.Fatal("expected window validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(svc.priceRequests) != 0 {
		t.Fatal("expected service untouched for an invalid window")
	}
}

func TestSetPriceOverrideHandlerSkipsInvalidationOnFailure(t *testing.T) {
	svc := &stubSiteService{priceErr: site.ErrPriceNegative}
	inv := &recordingInvalidator{}
	h := NewSetPriceOverrideHandler(svc, nil, inv.fn())

	err := h.Execute(context.Background(), SetPriceOverrideCommand{
		OrgID:      uuid.New(),
		SiteID:     uuid.New(),
		ItemID:     uuid.New(),
		PriceCents: 100,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(inv.sites) != 0 {
		t.Fatal("cache must not be invalidated when the mutation fails")
	}
}

func TestSetPriceOverrideHandlerToleratesInvalidationFailure(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{err: errors.New("cache down")}
	h := NewSetPriceOverrideHandler(svc, nil, inv.fn())

	err := h.Execute(context.Background(), SetPriceOverrideCommand{
		OrgID:      uuid.New(),
		SiteID:     uuid.New(),
		ItemID:     uuid.New(),
		PriceCents: 100,
	})
	if err != nil {
		t.Fatalf("invalidation failure must not fail the command, got %v", err)
	}
	if len(inv.sites) != 1 {
		t.Fatal("expected invalidation attempted")
	}
}

func TestRemovePriceOverrideHandlerDelegates(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{}
	h := NewRemovePriceOverrideHandler(svc, nil, inv.fn())

	siteID := uuid.New()
	itemID := uuid.New()
	if err := h.Execute(context.Background(), RemovePriceOverrideCommand{
		OrgID:  uuid.New(),
		SiteID: siteID,
		ItemID: itemID,
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.removeRequests) != 1 || svc.removeRequests[0].ItemID != itemID {
		t.Fatalf("unexpected remove requests %+v", svc.removeRequests)
	}
	if len(inv.sites) != 1 {
		t.Fatal("expected cache invalidated")
	}
}

func TestSetItemVisibilityHandlerRoutesByFlag(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{}
	h := NewSetItemVisibilityHandler(svc, nil, inv.fn())

	siteID := uuid.New()
	itemID := uuid.New()
	if err := h.Execute(context.Background(), SetItemVisibilityCommand{
		OrgID: uuid.New(), SiteID: siteID, ItemID: itemID, Hide: true,
	}); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if len(svc.hideRequests) != 1 || len(svc.unhideRequests) != 0 {
		t.Fatalf("expected hide path, got hide=%d unhide=%d", len(svc.hideRequests), len(svc.unhideRequests))
	}

	if err := h.Execute(context.Background(), SetItemVisibilityCommand{
		OrgID: uuid.New(), SiteID: siteID, ItemID: itemID,
	}); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if len(svc.unhideRequests) != 1 {
		t.Fatalf("expected unhide path used, got %d", len(svc.unhideRequests))
	}
	if len(inv.sites) != 2 {
		t.Fatalf("expected invalidation per mutation, got %d", len(inv.sites))
	}
}

func TestSnoozeItemHandlerDelegates(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{}
	h := NewSnoozeItemHandler(svc, nil, inv.fn())

	siteID := uuid.New()
	itemID := uuid.New()
	until := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	if err := h.Execute(context.Background(), SnoozeItemCommand{
		OrgID: uuid.New(), SiteID: siteID, ItemID: itemID, Until: &until, Reason: "86 oat milk",
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.snoozeRequests) != 1 {
		t.Fatalf("expected one snooze request, got %d", len(svc.snoozeRequests))
	}
	req := svc.snoozeRequests[0]
	if req.ItemID != itemID || req.Until == nil || !req.Until.Equal(until) {
		t.Fatalf("unexpected request %+v", req)
	}

	if err := h.Execute(context.Background(), SnoozeItemCommand{OrgID: uuid.New(), ItemID: itemID}); err == nil {
		t.Fatal("expected validation error without site_id")
	}
}

func TestUnsnoozeItemHandlerDelegates(t *testing.T) {
	svc := &stubSiteService{}
	inv := &recordingInvalidator{}
	h := NewUnsnoozeItemHandler(svc, nil, inv.fn())

	itemID := uuid.New()
	if err := h.Execute(context.Background(), UnsnoozeItemCommand{
		OrgID: uuid.New(), SiteID: uuid.New(), ItemID: itemID,
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.unsnoozeRequests) != 1 || svc.unsnoozeRequests[0].ItemID != itemID {
		t.Fatalf("unexpected unsnooze requests %+v", svc.unsnoozeRequests)
	}
	if len(inv.sites) != 1 {
		t.Fatal("expected cache invalidated")
	}
}
