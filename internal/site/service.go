package site

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-catalog/internal/executor"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes per-site override management. All commands and queries for
// one site are serialized through a single executor.
type Service interface {
	SetPriceOverride(ctx context.Context, req SetPriceOverrideRequest) (*Overrides, error)
	RemovePriceOverride(ctx context.Context, req ItemRequest) (*Overrides, error)
	HideItem(ctx context.Context, req ItemRequest) (*Overrides, error)
	UnhideItem(ctx context.Context, req ItemRequest) (*Overrides, error)
	HideCategory(ctx context.Context, req CategoryRequest) (*Overrides, error)
	UnhideCategory(ctx context.Context, req CategoryRequest) (*Overrides, error)
	AddLocalItem(ctx context.Context, req ItemRequest) (*Overrides, error)
	RemoveLocalItem(ctx context.Context, req ItemRequest) (*Overrides, error)
	AddLocalCategory(ctx context.Context, req CategoryRequest) (*Overrides, error)
	RemoveLocalCategory(ctx context.Context, req CategoryRequest) (*Overrides, error)
	AddAvailabilityWindow(ctx context.Context, req AvailabilityWindowRequest) (*Overrides, error)
	UpdateAvailabilityWindow(ctx context.Context, req AvailabilityWindowRequest) (*Overrides, error)
	RemoveAvailabilityWindow(ctx context.Context, req RemoveWindowRequest) (*Overrides, error)
	SnoozeItem(ctx context.Context, req SnoozeItemRequest) (*Overrides, error)
	UnsnoozeItem(ctx context.Context, req ItemRequest) (*Overrides, error)

	GetOverrides(ctx context.Context, siteID uuid.UUID) (*Overrides, error)
	GetPriceOverride(ctx context.Context, siteID, itemID uuid.UUID, asOf time.Time) (*PriceOverride, error)
	IsItemSnoozed(ctx context.Context, siteID, itemID uuid.UUID, asOf time.Time) (bool, error)
	GetAuditLog(ctx context.Context, siteID uuid.UUID) ([]*AuditEntry, error)
}

// Repository persists override state. Save must write the state and the audit
// entry atomically.
type Repository interface {
	Get(ctx context.Context, siteID uuid.UUID) (*Overrides, error)
	Save(ctx context.Context, overrides *Overrides, entry *AuditEntry) error
	AuditLog(ctx context.Context, siteID uuid.UUID) ([]*AuditEntry, error)
}

// SetPriceOverrideRequest pins a site-local price for an item.
type SetPriceOverrideRequest struct {
	OrgID          uuid.UUID
	SiteID         uuid.UUID
	ItemID         uuid.UUID
	PriceCents     int64
	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time
	Reason         string
	Actor          uuid.UUID
}

// ItemRequest targets one item at one site.
type ItemRequest struct {
	OrgID  uuid.UUID
	SiteID uuid.UUID
	ItemID uuid.UUID
	Actor  uuid.UUID
	Note   string
}

// CategoryRequest targets one category at one site.
type CategoryRequest struct {
	OrgID      uuid.UUID
	SiteID     uuid.UUID
	CategoryID uuid.UUID
	Actor      uuid.UUID
	Note       string
}

// AvailabilityWindowRequest adds or updates a window bound to an item or
// category.
type AvailabilityWindowRequest struct {
	OrgID       uuid.UUID
	SiteID      uuid.UUID
	WindowID    uuid.UUID
	TargetID    uuid.UUID
	Days        []time.Weekday
	StartMinute int
	EndMinute   int
	Actor       uuid.UUID
}

// RemoveWindowRequest removes a window by id.
type RemoveWindowRequest struct {
	OrgID    uuid.UUID
	SiteID   uuid.UUID
	WindowID uuid.UUID
	Actor    uuid.UUID
}

// SnoozeItemRequest marks an item unavailable, optionally until an expiry.
type SnoozeItemRequest struct {
	OrgID  uuid.UUID
	SiteID uuid.UUID
	ItemID uuid.UUID
	Until  *time.Time
	Reason string
	Actor  uuid.UUID
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp state and audit entries.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the id generator for windows and audit entries.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   Repository
	router *executor.Directory
	logger interfaces.Logger
	now    func() time.Time
	id     func() uuid.UUID
}

// NewService constructs the override service with the required dependencies.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		router: executor.NewDirectory(),
		logger: logging.NoOp(),
		now:    time.Now,
		id:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) SetPriceOverride(ctx context.Context, req SetPriceOverrideRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	if req.PriceCents < 0 {
		return nil, ErrPriceNegative
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "price_override.set", req.Actor, req.Reason, func(o *Overrides) error {
		o.PriceOverrides = append(o.PriceOverrides, &PriceOverride{
			ItemID:         req.ItemID,
			PriceCents:     req.PriceCents,
			EffectiveFrom:  cloneTimePtr(req.EffectiveFrom),
			EffectiveUntil: cloneTimePtr(req.EffectiveUntil),
			Reason:         req.Reason,
			CreatedAt:      s.now().UTC(),
			CreatedBy:      req.Actor,
		})
		return nil
	})
}

func (s *service) RemovePriceOverride(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "price_override.remove", req.Actor, req.Note, func(o *Overrides) error {
		kept := o.PriceOverrides[:0]
		found := false
		for _, po := range o.PriceOverrides {
			if po != nil && po.ItemID == req.ItemID {
				found = true
				continue
			}
			kept = append(kept, po)
		}
		if !found {
			return ErrOverrideNotFound
		}
		o.PriceOverrides = kept
		return nil
	})
}

func (s *service) HideItem(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "item.hide", req.Actor, req.Note, func(o *Overrides) error {
		if !containsUUID(o.HiddenItems, req.ItemID) {
			o.HiddenItems = append(o.HiddenItems, req.ItemID)
		}
		return nil
	})
}

func (s *service) UnhideItem(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "item.unhide", req.Actor, req.Note, func(o *Overrides) error {
		o.HiddenItems = removeUUID(o.HiddenItems, req.ItemID)
		return nil
	})
}

func (s *service) HideCategory(ctx context.Context, req CategoryRequest) (*Overrides, error) {
	if req.CategoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "category.hide", req.Actor, req.Note, func(o *Overrides) error {
		if !containsUUID(o.HiddenCategories, req.CategoryID) {
			o.HiddenCategories = append(o.HiddenCategories, req.CategoryID)
		}
		return nil
	})
}

func (s *service) UnhideCategory(ctx context.Context, req CategoryRequest) (*Overrides, error) {
	if req.CategoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "category.unhide", req.Actor, req.Note, func(o *Overrides) error {
		o.HiddenCategories = removeUUID(o.HiddenCategories, req.CategoryID)
		return nil
	})
}

func (s *service) AddLocalItem(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "local_item.add", req.Actor, req.Note, func(o *Overrides) error {
		if !containsUUID(o.LocalItems, req.ItemID) {
			o.LocalItems = append(o.LocalItems, req.ItemID)
		}
		return nil
	})
}

func (s *service) RemoveLocalItem(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "local_item.remove", req.Actor, req.Note, func(o *Overrides) error {
		o.LocalItems = removeUUID(o.LocalItems, req.ItemID)
		return nil
	})
}

func (s *service) AddLocalCategory(ctx context.Context, req CategoryRequest) (*Overrides, error) {
	if req.CategoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "local_category.add", req.Actor, req.Note, func(o *Overrides) error {
		if !containsUUID(o.LocalCategories, req.CategoryID) {
			o.LocalCategories = append(o.LocalCategories, req.CategoryID)
		}
		return nil
	})
}

func (s *service) RemoveLocalCategory(ctx context.Context, req CategoryRequest) (*Overrides, error) {
	if req.CategoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "local_category.remove", req.Actor, req.Note, func(o *Overrides) error {
		o.LocalCategories = removeUUID(o.LocalCategories, req.CategoryID)
		return nil
	})
}

func (s *service) AddAvailabilityWindow(ctx context.Context, req AvailabilityWindowRequest) (*Overrides, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "window.add", req.Actor, "", func(o *Overrides) error {
		id := req.WindowID
		if id == uuid.Nil {
			id = s.id()
		}
		o.Windows = append(o.Windows, &AvailabilityWindow{
			ID:          id,
			TargetID:    req.TargetID,
			Days:        append([]time.Weekday(nil), req.Days...),
			StartMinute: req.StartMinute,
			EndMinute:   req.EndMinute,
		})
		return nil
	})
}

func (s *service) UpdateAvailabilityWindow(ctx context.Context, req AvailabilityWindowRequest) (*Overrides, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "window.update", req.Actor, "", func(o *Overrides) error {
		for _, w := range o.Windows {
			if w != nil && w.ID == req.WindowID {
				w.TargetID = req.TargetID
				w.Days = append([]time.Weekday(nil), req.Days...)
				w.StartMinute = req.StartMinute
				w.EndMinute = req.EndMinute
				return nil
			}
		}
		return ErrWindowNotFound
	})
}

func (s *service) RemoveAvailabilityWindow(ctx context.Context, req RemoveWindowRequest) (*Overrides, error) {
	return s.mutate(ctx, req.OrgID, req.SiteID, "window.remove", req.Actor, "", func(o *Overrides) error {
		kept := o.Windows[:0]
		found := false
		for _, w := range o.Windows {
			if w != nil && w.ID == req.WindowID {
				found = true
				continue
			}
			kept = append(kept, w)
		}
		if !found {
			return ErrWindowNotFound
		}
		o.Windows = kept
		return nil
	})
}

func (s *service) SnoozeItem(ctx context.Context, req SnoozeItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	if req.Until != nil && !req.Until.After(s.now()) {
		return nil, ErrSnoozeExpiryPassed
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "item.snooze", req.Actor, req.Reason, func(o *Overrides) error {
		if o.Snoozes == nil {
			o.Snoozes = make(map[uuid.UUID]*SnoozeEntry)
		}
		o.Snoozes[req.ItemID] = &SnoozeEntry{
			Until:     cloneTimePtr(req.Until),
			Reason:    req.Reason,
			SnoozedAt: s.now().UTC(),
			SnoozedBy: req.Actor,
		}
		return nil
	})
}

func (s *service) UnsnoozeItem(ctx context.Context, req ItemRequest) (*Overrides, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemRequired
	}
	return s.mutate(ctx, req.OrgID, req.SiteID, "item.unsnooze", req.Actor, req.Note, func(o *Overrides) error {
		delete(o.Snoozes, req.ItemID)
		return nil
	})
}

func (s *service) GetOverrides(ctx context.Context, siteID uuid.UUID) (*Overrides, error) {
	if siteID == uuid.Nil {
		return nil, ErrSiteRequired
	}
	var out *Overrides
	err := s.router.Do(ctx, siteID.String(), func(ctx context.Context) error {
		overrides, err := s.repo.Get(ctx, siteID)
		if err != nil {
			return err
		}
		out = overrides.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) GetPriceOverride(ctx context.Context, siteID, itemID uuid.UUID, asOf time.Time) (*PriceOverride, error) {
	overrides, err := s.GetOverrides(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return overrides.PriceOverrideFor(itemID, asOf), nil
}

func (s *service) IsItemSnoozed(ctx context.Context, siteID, itemID uuid.UUID, asOf time.Time) (bool, error) {
	overrides, err := s.GetOverrides(ctx, siteID)
	if err != nil {
		return false, err
	}
	return overrides.IsItemSnoozed(itemID, asOf), nil
}

func (s *service) GetAuditLog(ctx context.Context, siteID uuid.UUID) ([]*AuditEntry, error) {
	if siteID == uuid.Nil {
		return nil, ErrSiteRequired
	}
	var out []*AuditEntry
	err := s.router.Do(ctx, siteID.String(), func(ctx context.Context) error {
		entries, err := s.repo.AuditLog(ctx, siteID)
		if err != nil {
			return err
		}
		out = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mutate serializes the site's commands: load (or lazily create) the state,
// apply the change, persist state and audit entry atomically, return a
// snapshot.
func (s *service) mutate(ctx context.Context, orgID, siteID uuid.UUID, action string, actor uuid.UUID, note string, fn func(*Overrides) error) (*Overrides, error) {
	if siteID == uuid.Nil {
		return nil, ErrSiteRequired
	}

	var snapshot *Overrides
	err := s.router.Do(ctx, siteID.String(), func(ctx context.Context) error {
		overrides, err := s.loadOrCreate(ctx, orgID, siteID)
		if err != nil {
			return err
		}

		if err := fn(overrides); err != nil {
			return err
		}

		now := s.now().UTC()
		overrides.UpdatedAt = now
		entry := &AuditEntry{
			ID:         s.id(),
			SiteID:     siteID,
			Action:     action,
			Actor:      actor,
			Note:       note,
			RecordedAt: now,
		}
		if err := s.repo.Save(ctx, overrides, entry); err != nil {
			return err
		}
		snapshot = overrides.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) loadOrCreate(ctx context.Context, orgID, siteID uuid.UUID) (*Overrides, error) {
	overrides, err := s.repo.Get(ctx, siteID)
	if err == nil {
		return overrides, nil
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	now := s.now().UTC()
	return &Overrides{
		OrgID:     orgID,
		SiteID:    siteID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateWindow(req AvailabilityWindowRequest) error {
	if req.TargetID == uuid.Nil {
		return ErrItemRequired
	}
	if req.StartMinute < 0 || req.EndMinute > 24*60 || req.StartMinute >= req.EndMinute {
		return ErrWindowInvalid
	}
	return nil
}
