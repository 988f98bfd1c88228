package document

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/google/uuid"
)

// Payload carries the kind-specific content of a version. Implementations are
// value-style structs; Clone must return an independent deep copy.
type Payload interface {
	Kind() domain.Kind
	Clone() Payload
	Validate() error
}

// MenuItemPayload is the sellable-item content of a menu item version. Prices
// are integer cents.
type MenuItemPayload struct {
	PriceCents       int64       `json:"price_cents"`
	SKU              string      `json:"sku,omitempty"`
	CategoryID       *uuid.UUID  `json:"category_id,omitempty"`
	ModifierBlockIDs []uuid.UUID `json:"modifier_block_ids,omitempty"`
	TagIDs           []uuid.UUID `json:"tag_ids,omitempty"`
	Active           bool        `json:"active"`
}

func (p *MenuItemPayload) Kind() domain.Kind { return domain.KindMenuItem }

func (p *MenuItemPayload) Clone() Payload {
	out := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	out.ModifierBlockIDs = cloneUUIDs(p.ModifierBlockIDs)
	out.TagIDs = cloneUUIDs(p.TagIDs)
	return &out
}

func (p *MenuItemPayload) Validate() error {
	if p.PriceCents < 0 {
		return ErrPriceNegative
	}
	return nil
}

// MenuCategoryPayload groups menu items for display.
type MenuCategoryPayload struct {
	SortOrder int        `json:"sort_order"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
}

func (p *MenuCategoryPayload) Kind() domain.Kind { return domain.KindMenuCategory }

func (p *MenuCategoryPayload) Clone() Payload {
	out := *p
	if p.ParentID != nil {
		id := *p.ParentID
		out.ParentID = &id
	}
	return &out
}

func (p *MenuCategoryPayload) Validate() error { return nil }

// ModifierOption is a single selectable option inside a modifier block.
type ModifierOption struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	PriceDeltaCents int64     `json:"price_delta_cents"`
	Active          bool      `json:"active"`
}

// ModifierBlockPayload is a reusable block of options referenced by menu items.
type ModifierBlockPayload struct {
	MinSelect int              `json:"min_select"`
	MaxSelect int              `json:"max_select"`
	Options   []ModifierOption `json:"options,omitempty"`
}

func (p *ModifierBlockPayload) Kind() domain.Kind { return domain.KindModifierBlock }

func (p *ModifierBlockPayload) Clone() Payload {
	out := *p
	if p.Options != nil {
		out.Options = make([]ModifierOption, len(p.Options))
		copy(out.Options, p.Options)
	}
	return &out
}

func (p *ModifierBlockPayload) Validate() error {
	if p.MinSelect < 0 || (p.MaxSelect > 0 && p.MaxSelect < p.MinSelect) {
		return ErrSelectionBoundsInvalid
	}
	seen := map[uuid.UUID]struct{}{}
	for _, opt := range p.Options {
		if _, ok := seen[opt.ID]; ok {
			return ErrDuplicateOption
		}
		seen[opt.ID] = struct{}{}
	}
	return nil
}

// Option returns the option with the given id, or nil.
func (p *ModifierBlockPayload) Option(id uuid.UUID) *ModifierOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// Ingredient is one line of a recipe. UnitCostCents is the only field the cost
// recalculation op may rewrite on an already-appended version.
type Ingredient struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit,omitempty"`
	UnitCostCents int64     `json:"unit_cost_cents"`
}

// RecipePayload is the kitchen-facing content of a recipe version.
type RecipePayload struct {
	CategoryID   *uuid.UUID   `json:"category_id,omitempty"`
	Yield        float64      `json:"yield,omitempty"`
	AllergenTags []string     `json:"allergen_tags,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
}

func (p *RecipePayload) Kind() domain.Kind { return domain.KindRecipe }

func (p *RecipePayload) Clone() Payload {
	out := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	if p.AllergenTags != nil {
		out.AllergenTags = make([]string, len(p.AllergenTags))
		copy(out.AllergenTags, p.AllergenTags)
	}
	if p.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(p.Ingredients))
		copy(out.Ingredients, p.Ingredients)
	}
	return &out
}

func (p *RecipePayload) Validate() error {
	seen := map[uuid.UUID]struct{}{}
	for _, ing := range p.Ingredients {
		if _, ok := seen[ing.ID]; ok {
			return ErrDuplicateIngredient
		}
		seen[ing.ID] = struct{}{}
		if ing.Quantity < 0 || ing.UnitCostCents < 0 {
			return ErrIngredientInvalid
		}
	}
	return nil
}

// CostCents returns the derived recipe cost: the sum of quantity times unit
// cost across ingredients, rounded to cents.
func (p *RecipePayload) CostCents() int64 {
	var total float64
	for _, ing := range p.Ingredients {
		total += ing.Quantity * float64(ing.UnitCostCents)
	}
	return int64(total + 0.5)
}

// RecipeCategoryPayload groups recipes for the kitchen book.
type RecipeCategoryPayload struct {
	SortOrder int `json:"sort_order"`
}

func (p *RecipeCategoryPayload) Kind() domain.Kind { return domain.KindRecipeCategory }

func (p *RecipeCategoryPayload) Clone() Payload {
	out := *p
	return &out
}

func (p *RecipeCategoryPayload) Validate() error { return nil }

// NewPayload returns the zero payload for a kind, used when decoding stored
// events back into typed state.
func NewPayload(kind domain.Kind) (Payload, error) {
	switch kind {
	case domain.KindMenuItem:
		return &MenuItemPayload{}, nil
	case domain.KindMenuCategory:
		return &MenuCategoryPayload{}, nil
	case domain.KindModifierBlock:
		return &ModifierBlockPayload{}, nil
	case domain.KindRecipe:
		return &RecipePayload{}, nil
	case domain.KindRecipeCategory:
		return &RecipeCategoryPayload{}, nil
	default:
		return nil, fmt.Errorf("document: unknown kind %q", kind)
	}
}

// EncodePayload serializes a payload for event storage.
func EncodePayload(payload Payload) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	return json.Marshal(payload)
}

// DecodePayload deserializes a stored payload for the given kind.
func DecodePayload(kind domain.Kind, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	payload, err := NewPayload(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("document: decode %s payload: %w", kind, err)
	}
	return payload, nil
}

func cloneUUIDs(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return nil
	}
	out := make([]uuid.UUID, len(in))
	copy(out, in)
	return out
}
