package sitecmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/site"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const setPriceOverrideMessageType = "catalog.site.price_override.set"

// SetPriceOverrideCommand pins a site-local price for an item, optionally
// bounded to an effective window.
type SetPriceOverrideCommand struct {
	OrgID          uuid.UUID  `json:"org_id"`
	SiteID         uuid.UUID  `json:"site_id"`
	ItemID         uuid.UUID  `json:"item_id"`
	PriceCents     int64      `json:"price_cents"`
	EffectiveFrom  *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Actor          uuid.UUID  `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SetPriceOverrideCommand) Type() string { return setPriceOverrideMessageType }

// Validate ensures the message carries the required identifiers and a
// coherent window.
func (m SetPriceOverrideCommand) Validate() error {
	errs := validation.Errors{}
	if m.OrgID == uuid.Nil {
		errs["org_id"] = validation.NewError("catalog.site.price_override.org_id_required", "org_id is required")
	}
	if m.SiteID == uuid.Nil {
		errs["site_id"] = validation.NewError("catalog.site.price_override.site_id_required", "site_id is required")
	}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("catalog.site.price_override.item_id_required", "item_id is required")
	}
	if m.PriceCents < 0 {
		errs["price_cents"] = validation.NewError("catalog.site.price_override.price_invalid", "price_cents must not be negative")
	}
	if m.EffectiveFrom != nil && m.EffectiveUntil != nil && !m.EffectiveUntil.After(*m.EffectiveFrom) {
		errs["effective_until"] = validation.NewError("catalog.site.price_override.window_invalid", "effective_until must be after effective_from")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetPriceOverrideHandler applies price overrides via the site service and
// invalidates the resolver cache for the site.
type SetPriceOverrideHandler struct {
	inner *commands.Handler[SetPriceOverrideCommand]
}

// NewSetPriceOverrideHandler constructs a handler wired to the provided site
// service.
func NewSetPriceOverrideHandler(service site.Service, logger interfaces.Logger, invalidator CacheInvalidator, opts ...commands.HandlerOption[SetPriceOverrideCommand]) *SetPriceOverrideHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SetPriceOverrideCommand) error {
		_, err := service.SetPriceOverride(ctx, site.SetPriceOverrideRequest{
			OrgID:          msg.OrgID,
			SiteID:         msg.SiteID,
			ItemID:         msg.ItemID,
			PriceCents:     msg.PriceCents,
			EffectiveFrom:  msg.EffectiveFrom,
			EffectiveUntil: msg.EffectiveUntil,
			Reason:         msg.Reason,
			Actor:          msg.Actor,
		})
		if err != nil {
			return err
		}
		invalidate(ctx, invalidator, msg.SiteID, baseLogger)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SetPriceOverrideCommand]{
		commands.WithLogger[SetPriceOverrideCommand](baseLogger),
		commands.WithOperation[SetPriceOverrideCommand]("site.price_override.set"),
		commands.WithMessageFields(func(msg SetPriceOverrideCommand) map[string]any {
			fields := map[string]any{}
			if msg.SiteID != uuid.Nil {
				fields["site_id"] = msg.SiteID
			}
			if msg.ItemID != uuid.Nil {
				fields["item_id"] = msg.ItemID
			}
			fields["price_cents"] = msg.PriceCents
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SetPriceOverrideCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SetPriceOverrideHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SetPriceOverrideCommand].Execute.
func (h *SetPriceOverrideHandler) Execute(ctx context.Context, msg SetPriceOverrideCommand) error {
	return h.inner.Execute(ctx, msg)
}

const removePriceOverrideMessageType = "catalog.site.price_override.remove"

// RemovePriceOverrideCommand drops all price overrides for an item at a site.
type RemovePriceOverrideCommand struct {
	OrgID  uuid.UUID `json:"org_id"`
	SiteID uuid.UUID `json:"site_id"`
	ItemID uuid.UUID `json:"item_id"`
	Actor  uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (RemovePriceOverrideCommand) Type() string { return removePriceOverrideMessageType }

// Validate ensures the message carries the required identifiers.
func (m RemovePriceOverrideCommand) Validate() error {
	errs := validation.Errors{}
	if m.OrgID == uuid.Nil {
		errs["org_id"] = validation.NewError("catalog.site.price_override.org_id_required", "org_id is required")
	}
	if m.SiteID == uuid.Nil {
		errs["site_id"] = validation.NewError("catalog.site.price_override.site_id_required", "site_id is required")
	}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("catalog.site.price_override.item_id_required", "item_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RemovePriceOverrideHandler removes price overrides via the site service.
type RemovePriceOverrideHandler struct {
	inner *commands.Handler[RemovePriceOverrideCommand]
}

// NewRemovePriceOverrideHandler constructs a handler wired to the provided
// site service.
func NewRemovePriceOverrideHandler(service site.Service, logger interfaces.Logger, invalidator CacheInvalidator, opts ...commands.HandlerOption[RemovePriceOverrideCommand]) *RemovePriceOverrideHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RemovePriceOverrideCommand) error {
		_, err := service.RemovePriceOverride(ctx, site.ItemRequest{
			OrgID:  msg.OrgID,
			SiteID: msg.SiteID,
			ItemID: msg.ItemID,
			Actor:  msg.Actor,
		})
		if err != nil {
			return err
		}
		invalidate(ctx, invalidator, msg.SiteID, baseLogger)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RemovePriceOverrideCommand]{
		commands.WithLogger[RemovePriceOverrideCommand](baseLogger),
		commands.WithOperation[RemovePriceOverrideCommand]("site.price_override.remove"),
		commands.WithTelemetry(commands.DefaultTelemetry[RemovePriceOverrideCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RemovePriceOverrideHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RemovePriceOverrideCommand].Execute.
func (h *RemovePriceOverrideHandler) Execute(ctx context.Context, msg RemovePriceOverrideCommand) error {
	return h.inner.Execute(ctx, msg)
}
