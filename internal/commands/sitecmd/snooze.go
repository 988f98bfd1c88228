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

const snoozeItemMessageType = "catalog.site.item.snooze"

// SnoozeItemCommand marks an item unavailable at a site, optionally until an
// expiry. A nil Until snoozes indefinitely.
type SnoozeItemCommand struct {
	OrgID  uuid.UUID  `json:"org_id"`
	SiteID uuid.UUID  `json:"site_id"`
	ItemID uuid.UUID  `json:"item_id"`
	Until  *time.Time `json:"until,omitempty"`
	Reason string     `json:"reason,omitempty"`
	Actor  uuid.UUID  `json:"actor,omitempty"`
}

// Type implements command.Message.
func (SnoozeItemCommand) Type() string { return snoozeItemMessageType }

// Validate ensures the message carries the required identifiers.
func (m SnoozeItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.OrgID == uuid.Nil {
		errs["org_id"] = validation.NewError("catalog.site.item.snooze.org_id_required", "org_id is required")
	}
	if m.SiteID == uuid.Nil {
		errs["site_id"] = validation.NewError("catalog.site.item.snooze.site_id_required", "site_id is required")
	}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("catalog.site.item.snooze.item_id_required", "item_id is required")
	}
	if m.Until != nil && m.Until.IsZero() {
		errs["until"] = validation.NewError("catalog.site.item.snooze.until_invalid", "until must be a valid timestamp when provided")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SnoozeItemHandler snoozes items via the site service.
type SnoozeItemHandler struct {
	inner *commands.Handler[SnoozeItemCommand]
}

// NewSnoozeItemHandler constructs a handler wired to the provided site
// service.
func NewSnoozeItemHandler(service site.Service, logger interfaces.Logger, invalidator CacheInvalidator, opts ...commands.HandlerOption[SnoozeItemCommand]) *SnoozeItemHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SnoozeItemCommand) error {
		_, err := service.SnoozeItem(ctx, site.SnoozeItemRequest{
			OrgID:  msg.OrgID,
			SiteID: msg.SiteID,
			ItemID: msg.ItemID,
			Until:  msg.Until,
			Reason: msg.Reason,
			Actor:  msg.Actor,
		})
		if err != nil {
			return err
		}
		invalidate(ctx, invalidator, msg.SiteID, baseLogger)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SnoozeItemCommand]{
		commands.WithLogger[SnoozeItemCommand](baseLogger),
		commands.WithOperation[SnoozeItemCommand]("site.item.snooze"),
		commands.WithMessageFields(func(msg SnoozeItemCommand) map[string]any {
			fields := map[string]any{}
			if msg.SiteID != uuid.Nil {
				fields["site_id"] = msg.SiteID
			}
			if msg.ItemID != uuid.Nil {
				fields["item_id"] = msg.ItemID
			}
			if msg.Until != nil && !msg.Until.IsZero() {
				fields["until"] = msg.Until
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SnoozeItemCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SnoozeItemHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SnoozeItemCommand].Execute.
func (h *SnoozeItemHandler) Execute(ctx context.Context, msg SnoozeItemCommand) error {
	return h.inner.Execute(ctx, msg)
}

const unsnoozeItemMessageType = "catalog.site.item.unsnooze"

// UnsnoozeItemCommand clears an item's snooze at a site.
type UnsnoozeItemCommand struct {
	OrgID  uuid.UUID `json:"org_id"`
	SiteID uuid.UUID `json:"site_id"`
	ItemID uuid.UUID `json:"item_id"`
	Actor  uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (UnsnoozeItemCommand) Type() string { return unsnoozeItemMessageType }

// Validate ensures the message carries the required identifiers.
func (m UnsnoozeItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.OrgID == uuid.Nil {
		errs["org_id"] = validation.NewError("catalog.site.item.unsnooze.org_id_required", "org_id is required")
	}
	if m.SiteID == uuid.Nil {
		errs["site_id"] = validation.NewError("catalog.site.item.unsnooze.site_id_required", "site_id is required")
	}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("catalog.site.item.unsnooze.item_id_required", "item_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnsnoozeItemHandler clears snoozes via the site service.
type UnsnoozeItemHandler struct {
	inner *commands.Handler[UnsnoozeItemCommand]
}

// NewUnsnoozeItemHandler constructs a handler wired to the provided site
// service.
func NewUnsnoozeItemHandler(service site.Service, logger interfaces.Logger, invalidator CacheInvalidator, opts ...commands.HandlerOption[UnsnoozeItemCommand]) *UnsnoozeItemHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg UnsnoozeItemCommand) error {
		_, err := service.UnsnoozeItem(ctx, site.ItemRequest{
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

	handlerOpts := []commands.HandlerOption[UnsnoozeItemCommand]{
		commands.WithLogger[UnsnoozeItemCommand](baseLogger),
		commands.WithOperation[UnsnoozeItemCommand]("site.item.unsnooze"),
		commands.WithTelemetry(commands.DefaultTelemetry[UnsnoozeItemCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UnsnoozeItemHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UnsnoozeItemCommand].Execute.
func (h *UnsnoozeItemHandler) Execute(ctx context.Context, msg UnsnoozeItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
