package documentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const revertMessageType = "catalog.document.revert"

// RevertCommand publishes a fresh copy of a prior version.
type RevertCommand struct {
	DocumentID    uuid.UUID `json:"document_id"`
	TargetVersion int       `json:"target_version"`
	Note          string    `json:"note,omitempty"`
	Actor         uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (RevertCommand) Type() string { return revertMessageType }

// Validate ensures the message carries the required identifiers.
func (m RevertCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("catalog.document.revert.document_id_required", "document_id is required")
	}
	if m.TargetVersion <= 0 {
		errs["target_version"] = validation.NewError("catalog.document.revert.version_invalid", "target_version must be greater than zero")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RevertHandler reverts documents via the document service.
type RevertHandler struct {
	inner *commands.Handler[RevertCommand]
}

// NewRevertHandler constructs a handler wired to the provided document
// service.
func NewRevertHandler(service document.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RevertCommand]) *RevertHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RevertCommand) error {
		if !gates.versioningEnabled() {
			return ErrVersioningDisabled
		}
		_, err := service.RevertToVersion(ctx, document.RevertRequest{
			DocumentID:    msg.DocumentID,
			TargetVersion: msg.TargetVersion,
			Note:          msg.Note,
			Actor:         msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[RevertCommand]{
		commands.WithLogger[RevertCommand](baseLogger),
		commands.WithOperation[RevertCommand]("document.revert"),
		commands.WithMessageFields(func(msg RevertCommand) map[string]any {
			fields := map[string]any{}
			if msg.DocumentID != uuid.Nil {
				fields["document_id"] = msg.DocumentID
			}
			if msg.TargetVersion > 0 {
				fields["target_version"] = msg.TargetVersion
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RevertCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RevertHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RevertCommand].Execute.
func (h *RevertHandler) Execute(ctx context.Context, msg RevertCommand) error {
	return h.inner.Execute(ctx, msg)
}
