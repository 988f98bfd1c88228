package site

import (
	"time"

	"github.com/google/uuid"
)

// PriceOverride pins a site-local price for an item, optionally bounded to an
// effective window. Expired overrides stay stored and are filtered at read
// time.
type PriceOverride struct {
	ItemID         uuid.UUID  `json:"item_id"`
	PriceCents     int64      `json:"price_cents"`
	EffectiveFrom  *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedBy      uuid.UUID  `json:"created_by"`
}

// InEffect reports whether the override applies at the instant.
func (o *PriceOverride) InEffect(at time.Time) bool {
	if o == nil {
		return false
	}
	if o.EffectiveFrom != nil && o.EffectiveFrom.After(at) {
		return false
	}
	if o.EffectiveUntil != nil && !o.EffectiveUntil.After(at) {
		return false
	}
	return true
}

// AvailabilityWindow restricts when an item or category is offered. Minutes
// are counted from midnight in the instant's location.
type AvailabilityWindow struct {
	ID          uuid.UUID      `json:"id"`
	TargetID    uuid.UUID      `json:"target_id"`
	Days        []time.Weekday `json:"days,omitempty"`
	StartMinute int            `json:"start_minute"`
	EndMinute   int            `json:"end_minute"`
}

// Contains reports whether the instant falls inside the window. An empty Days
// list means every day.
func (w *AvailabilityWindow) Contains(at time.Time) bool {
	if w == nil {
		return false
	}
	if len(w.Days) > 0 {
		match := false
		for _, day := range w.Days {
			if at.Weekday() == day {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	minute := at.Hour()*60 + at.Minute()
	return minute >= w.StartMinute && minute < w.EndMinute
}

// SnoozeEntry marks an item unavailable until the expiry; a nil Until snoozes
// indefinitely.
type SnoozeEntry struct {
	Until     *time.Time `json:"until,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	SnoozedAt time.Time  `json:"snoozed_at"`
	SnoozedBy uuid.UUID  `json:"snoozed_by"`
}

// ActiveAt reports whether the snooze is still in force. An expired snooze
// behaves exactly like no snooze, without requiring a write to clear it.
func (s *SnoozeEntry) ActiveAt(at time.Time) bool {
	if s == nil {
		return false
	}
	return s.Until == nil || s.Until.After(at)
}

// AuditEntry records one override mutation.
type AuditEntry struct {
	ID         uuid.UUID `json:"id"`
	SiteID     uuid.UUID `json:"site_id"`
	Action     string    `json:"action"`
	Actor      uuid.UUID `json:"actor"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Overrides is the per-site customization layered on top of org-level
// published content. Created lazily on first mutation, never deleted.
type Overrides struct {
	OrgID            uuid.UUID                  `json:"org_id"`
	SiteID           uuid.UUID                  `json:"site_id"`
	PriceOverrides   []*PriceOverride           `json:"price_overrides,omitempty"`
	HiddenItems      []uuid.UUID                `json:"hidden_items,omitempty"`
	HiddenCategories []uuid.UUID                `json:"hidden_categories,omitempty"`
	LocalItems       []uuid.UUID                `json:"local_items,omitempty"`
	LocalCategories  []uuid.UUID                `json:"local_categories,omitempty"`
	Windows          []*AvailabilityWindow      `json:"windows,omitempty"`
	Snoozes          map[uuid.UUID]*SnoozeEntry `json:"snoozes,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// Clone deep-copies the override state.
func (o *Overrides) Clone() *Overrides {
	if o == nil {
		return nil
	}
	out := *o
	out.PriceOverrides = make([]*PriceOverride, 0, len(o.PriceOverrides))
	for _, po := range o.PriceOverrides {
		copied := *po
		copied.EffectiveFrom = cloneTimePtr(po.EffectiveFrom)
		copied.EffectiveUntil = cloneTimePtr(po.EffectiveUntil)
		out.PriceOverrides = append(out.PriceOverrides, &copied)
	}
	out.HiddenItems = cloneUUIDs(o.HiddenItems)
	out.HiddenCategories = cloneUUIDs(o.HiddenCategories)
	out.LocalItems = cloneUUIDs(o.LocalItems)
	out.LocalCategories = cloneUUIDs(o.LocalCategories)
	out.Windows = make([]*AvailabilityWindow, 0, len(o.Windows))
	for _, w := range o.Windows {
		copied := *w
		copied.Days = append([]time.Weekday(nil), w.Days...)
		out.Windows = append(out.Windows, &copied)
	}
	if o.Snoozes != nil {
		out.Snoozes = make(map[uuid.UUID]*SnoozeEntry, len(o.Snoozes))
		for id, entry := range o.Snoozes {
			copied := *entry
			copied.Until = cloneTimePtr(entry.Until)
			out.Snoozes[id] = &copied
		}
	}
	return &out
}

// PriceOverrideFor returns the override in effect for the item at the
// instant. When overlapping overrides apply, the most recently created wins.
func (o *Overrides) PriceOverrideFor(itemID uuid.UUID, at time.Time) *PriceOverride {
	var winner *PriceOverride
	for _, po := range o.PriceOverrides {
		if po == nil || po.ItemID != itemID || !po.InEffect(at) {
			continue
		}
		if winner == nil || po.CreatedAt.After(winner.CreatedAt) {
			winner = po
		}
	}
	return winner
}

// IsItemHidden reports whether the item is hidden at this site.
func (o *Overrides) IsItemHidden(itemID uuid.UUID) bool {
	return containsUUID(o.HiddenItems, itemID)
}

// IsCategoryHidden reports whether the category is hidden at this site.
func (o *Overrides) IsCategoryHidden(categoryID uuid.UUID) bool {
	return containsUUID(o.HiddenCategories, categoryID)
}

// IsItemSnoozed reports whether a snooze is in force for the item at the
// instant.
func (o *Overrides) IsItemSnoozed(itemID uuid.UUID, at time.Time) bool {
	return o.Snoozes[itemID].ActiveAt(at)
}

// AvailableAt reports whether the target is offered at the instant. Targets
// with no windows are always available; with windows, at least one must
// contain the instant.
func (o *Overrides) AvailableAt(targetID uuid.UUID, at time.Time) bool {
	bound := false
	for _, w := range o.Windows {
		if w == nil || w.TargetID != targetID {
			continue
		}
		bound = true
		if w.Contains(at) {
			return true
		}
	}
	return !bound
}

func containsUUID(list []uuid.UUID, id uuid.UUID) bool {
	for _, entry := range list {
		if entry == id {
			return true
		}
	}
	return false
}

func removeUUID(list []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := list[:0]
	for _, entry := range list {
		if entry != id {
			out = append(out, entry)
		}
	}
	return out
}

func cloneUUIDs(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return nil
	}
	out := make([]uuid.UUID, len(in))
	copy(out, in)
	return out
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
