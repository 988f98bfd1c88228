package sitecmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/site"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	hideItemMessageType   = "catalog.site.item.hide"
	unhideItemMessageType = "catalog.site.item.unhide"
)

// SetItemVisibilityCommand hides or unhides one item at one site.
type SetItemVisibilityCommand struct {
	OrgID  uuid.UUID `json:"org_id"`
	SiteID uuid.UUID `json:"site_id"`
	ItemID uuid.UUID `json:"item_id"`
	Hide   bool      `json:"hide"`
	Actor  uuid.UUID `json:"actor,omitempty"`
	Note   string    `json:"note,omitempty"`
}

// Type implements command.Message.
func (m SetItemVisibilityCommand) Type() string {
	if m.Hide {
		return hideItemMessageType
	}
	return unhideItemMessageType
}

// Validate ensures the message carries the required identifiers.
func (m SetItemVisibilityCommand) Validate() error {
	errs := validation.Errors{}
	if m.OrgID == uuid.Nil {
		errs["org_id"] = validation.NewError("catalog.site.item.visibility.org_id_required", "org_id is required")
	}
	if m.SiteID == uuid.Nil {
		errs["site_id"] = validation.NewError("catalog.site.item.visibility.site_id_required", "site_id is required")
	}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("catalog.site.item.visibility.item_id_required", "item_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetItemVisibilityHandler hides and unhides items via the site service.
type SetItemVisibilityHandler struct {
	inner *commands.Handler[SetItemVisibilityCommand]
}

// NewSetItemVisibilityHandler constructs a handler wired to the provided site
// service.
func NewSetItemVisibilityHandler(service site.Service, logger interfaces.Logger, invalidator CacheInvalidator, opts ...commands.HandlerOption[SetItemVisibilityCommand]) *SetItemVisibilityHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SetItemVisibilityCommand) error {
		req := site.ItemRequest{
			OrgID:  msg.OrgID,
			SiteID: msg.SiteID,
			ItemID: msg.ItemID,
			Actor:  msg.Actor,
			Note:   msg.Note,
		}
		var err error
		if msg.Hide {
			_, err = service.HideItem(ctx, req)
		} else {
			_, err = service.UnhideItem(ctx, req)
		}
		if err != nil {
			return err
		}
		invalidate(ctx, invalidator, msg.SiteID, baseLogger)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SetItemVisibilityCommand]{
		commands.WithLogger[SetItemVisibilityCommand](baseLogger),
		commands.WithOperation[SetItemVisibilityCommand]("site.item.visibility"),
		commands.WithMessageFields(func(msg SetItemVisibilityCommand) map[string]any {
			fields := map[string]any{
				"hide": msg.Hide,
			}
			if msg.SiteID != uuid.Nil {
				fields["site_id"] = msg.SiteID
			}
			if msg.ItemID != uuid.Nil {
				fields["item_id"] = msg.ItemID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SetItemVisibilityCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SetItemVisibilityHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SetItemVisibilityCommand].Execute.
func (h *SetItemVisibilityHandler) Execute(ctx context.Context, msg SetItemVisibilityCommand) error {
	return h.inner.Execute(ctx, msg)
}
