package documentcmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrVersioningDisabled rejects draft workflow commands when the feature is
// off.
var ErrVersioningDisabled = errors.New("documentcmd: versioning disabled")

// ErrSchedulingDisabled rejects scheduling commands when the feature is off.
var ErrSchedulingDisabled = errors.New("documentcmd: scheduling disabled")

const publishDraftMessageType = "catalog.document.publish"

// PublishDraftCommand promotes a document's pending draft.
type PublishDraftCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	Actor      uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (PublishDraftCommand) Type() string { return publishDraftMessageType }

// Validate ensures the command captures the required identifiers before
// reaching handlers.
func (m PublishDraftCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("catalog.document.publish.document_id_required", "document_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishDraftHandler publishes drafts via the document service using the
// shared command handler foundation.
type PublishDraftHandler struct {
	inner *commands.Handler[PublishDraftCommand]
}

// NewPublishDraftHandler constructs a handler wired to the provided document
// service.
func NewPublishDraftHandler(service document.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[PublishDraftCommand]) *PublishDraftHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishDraftCommand) error {
		if !gates.versioningEnabled() {
			return ErrVersioningDisabled
		}
		_, err := service.PublishDraft(ctx, document.PublishDraftRequest{
			DocumentID: msg.DocumentID,
			Actor:      msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishDraftCommand]{
		commands.WithLogger[PublishDraftCommand](baseLogger),
		commands.WithOperation[PublishDraftCommand]("document.publish"),
		commands.WithMessageFields(func(msg PublishDraftCommand) map[string]any {
			fields := map[string]any{}
			if msg.DocumentID != uuid.Nil {
				fields["document_id"] = msg.DocumentID
			}
			if msg.Actor != uuid.Nil {
				fields["actor"] = msg.Actor
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishDraftCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishDraftHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishDraftCommand].Execute.
func (h *PublishDraftHandler) Execute(ctx context.Context, msg PublishDraftCommand) error {
	return h.inner.Execute(ctx, msg)
}

const discardDraftMessageType = "catalog.document.discard"

// DiscardDraftCommand removes a document's pending draft.
type DiscardDraftCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	Actor      uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (DiscardDraftCommand) Type() string { return discardDraftMessageType }

// Validate ensures the message carries the required identifiers.
func (m DiscardDraftCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("catalog.document.discard.document_id_required", "document_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DiscardDraftHandler discards drafts via the document service.
type DiscardDraftHandler struct {
	inner *commands.Handler[DiscardDraftCommand]
}

// NewDiscardDraftHandler constructs a handler wired to the provided document
// service.
func NewDiscardDraftHandler(service document.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[DiscardDraftCommand]) *DiscardDraftHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg DiscardDraftCommand) error {
		if !gates.versioningEnabled() {
			return ErrVersioningDisabled
		}
		_, err := service.DiscardDraft(ctx, document.ActorRequest{
			DocumentID: msg.DocumentID,
			Actor:      msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[DiscardDraftCommand]{
		commands.WithLogger[DiscardDraftCommand](baseLogger),
		commands.WithOperation[DiscardDraftCommand]("document.discard"),
		commands.WithTelemetry(commands.DefaultTelemetry[DiscardDraftCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DiscardDraftHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DiscardDraftCommand].Execute.
func (h *DiscardDraftHandler) Execute(ctx context.Context, msg DiscardDraftCommand) error {
	return h.inner.Execute(ctx, msg)
}
