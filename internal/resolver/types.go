package resolver

import (
	"time"

	"github.com/google/uuid"
)

// Context identifies one resolution request: which site's effective content
// to produce, for which channel and locale, at which instant.
type Context struct {
	OrgID          uuid.UUID
	SiteID         uuid.UUID
	Channel        string
	Locale         string
	AsOf           time.Time
	IncludeDraft   bool
	IncludeHidden  bool
	IncludeSnoozed bool
}

// PreviewOptions force the authoring-tool flags on for Preview.
type PreviewOptions struct {
	IncludeDraft   bool
	IncludeHidden  bool
	IncludeSnoozed bool
}

// Tag is the published content of one tag reference, supplied by the host's
// TagLookup. Names maps locale to display name.
type Tag struct {
	ID     uuid.UUID         `json:"id"`
	Code   string            `json:"code,omitempty"`
	Active bool              `json:"active"`
	Names  map[string]string `json:"names,omitempty"`
}

// ResolvedTag is a tag reference resolved to its published content. Inactive
// and unresolvable tags are filtered out during resolution.
type ResolvedTag struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code,omitempty"`
	Name string    `json:"name"`
}

// ResolvedOption is one selectable option of a resolved modifier block.
// Inactive options are filtered out during resolution.
type ResolvedOption struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	PriceDeltaCents int64     `json:"price_delta_cents"`
}

// ResolvedModifierBlock is a modifier block reference resolved to its
// published content.
type ResolvedModifierBlock struct {
	DocumentID uuid.UUID        `json:"document_id"`
	Version    int              `json:"version"`
	Name       string           `json:"name"`
	MinSelect  int              `json:"min_select"`
	MaxSelect  int              `json:"max_select"`
	Options    []ResolvedOption `json:"options,omitempty"`
}

// ResolvedCategory is one category of the effective menu.
type ResolvedCategory struct {
	DocumentID  uuid.UUID  `json:"document_id"`
	Version     int        `json:"version"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SortOrder   int        `json:"sort_order"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Hidden      bool       `json:"hidden,omitempty"`
}

// ResolvedItem is one sellable item of the effective menu. PriceCents carries
// the site override when one is in effect; BasePriceCents always carries the
// version's own price.
type ResolvedItem struct {
	DocumentID      uuid.UUID               `json:"document_id"`
	Version         int                     `json:"version"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	KitchenName     string                  `json:"kitchen_name,omitempty"`
	SKU             string                  `json:"sku,omitempty"`
	CategoryID      *uuid.UUID              `json:"category_id,omitempty"`
	PriceCents      int64                   `json:"price_cents"`
	BasePriceCents  int64                   `json:"base_price_cents"`
	PriceOverridden bool                    `json:"price_overridden,omitempty"`
	Snoozed         bool                    `json:"snoozed,omitempty"`
	Hidden          bool                    `json:"hidden,omitempty"`
	Tags            []ResolvedTag           `json:"tags,omitempty"`
	ModifierBlocks  []ResolvedModifierBlock `json:"modifier_blocks,omitempty"`
}

// Result is one fully resolved, localized, price-adjusted content tree for a
// site at an instant, plus the cache metadata downstream consumers use for
// conditional requests.
type Result struct {
	OrgID       uuid.UUID          `json:"org_id"`
	SiteID      uuid.UUID          `json:"site_id"`
	Channel     string             `json:"channel,omitempty"`
	Locale      string             `json:"locale"`
	AsOf        time.Time          `json:"as_of"`
	Categories  []ResolvedCategory `json:"categories"`
	Items       []ResolvedItem     `json:"items"`
	Fingerprint string             `json:"fingerprint"`
	ResolvedAt  time.Time          `json:"resolved_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}
