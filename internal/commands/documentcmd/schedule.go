package documentcmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const scheduleChangeMessageType = "catalog.document.schedule"

// ScheduleChangeCommand registers a time-bounded version activation.
type ScheduleChangeCommand struct {
	DocumentID    uuid.UUID  `json:"document_id"`
	TargetVersion int        `json:"target_version"`
	Name          string     `json:"name,omitempty"`
	ActivateAt    time.Time  `json:"activate_at"`
	DeactivateAt  *time.Time `json:"deactivate_at,omitempty"`
	Actor         uuid.UUID  `json:"actor,omitempty"`
}

// Type implements command.Message.
func (ScheduleChangeCommand) Type() string { return scheduleChangeMessageType }

// Validate rejects malformed windows before the service sees them. A
// deactivation at or before the activation is refused rather than stored
// inert.
func (m ScheduleChangeCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("catalog.document.schedule.document_id_required", "document_id is required")
	}
	if m.TargetVersion <= 0 {
		errs["target_version"] = validation.NewError("catalog.document.schedule.version_invalid", "target_version must be greater than zero")
	}
	if m.ActivateAt.IsZero() {
		errs["activate_at"] = validation.NewError("catalog.document.schedule.activate_at_required", "activate_at is required")
	}
	if m.DeactivateAt != nil && !m.DeactivateAt.After(m.ActivateAt) {
		errs["deactivate_at"] = validation.NewError("catalog.document.schedule.window_invalid", "deactivate_at must be after activate_at")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScheduleChangeHandler registers scheduled activations via the document
// service.
type ScheduleChangeHandler struct {
	inner *commands.Handler[ScheduleChangeCommand]
}

// NewScheduleChangeHandler constructs a handler wired to the provided
// document service.
func NewScheduleChangeHandler(service document.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ScheduleChangeCommand]) *ScheduleChangeHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ScheduleChangeCommand) error {
		if !gates.schedulingEnabled() {
			return ErrSchedulingDisabled
		}
		_, err := service.ScheduleChange(ctx, document.ScheduleChangeRequest{
			DocumentID:    msg.DocumentID,
			TargetVersion: msg.TargetVersion,
			Name:          msg.Name,
			ActivateAt:    msg.ActivateAt,
			DeactivateAt:  msg.DeactivateAt,
			Actor:         msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[ScheduleChangeCommand]{
		commands.WithLogger[ScheduleChangeCommand](baseLogger),
		commands.WithOperation[ScheduleChangeCommand]("document.schedule"),
		commands.WithMessageFields(func(msg ScheduleChangeCommand) map[string]any {
			fields := map[string]any{}
			if msg.DocumentID != uuid.Nil {
				fields["document_id"] = msg.DocumentID
			}
			if msg.TargetVersion > 0 {
				fields["target_version"] = msg.TargetVersion
			}
			if !msg.ActivateAt.IsZero() {
				fields["activate_at"] = msg.ActivateAt
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ScheduleChangeCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScheduleChangeHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScheduleChangeCommand].Execute.
func (h *ScheduleChangeHandler) Execute(ctx context.Context, msg ScheduleChangeCommand) error {
	return h.inner.Execute(ctx, msg)
}

const cancelScheduleMessageType = "catalog.document.schedule.cancel"

// CancelScheduleCommand removes a scheduled change. Cancelling an unknown
// schedule id succeeds without effect.
type CancelScheduleCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Actor      uuid.UUID `json:"actor,omitempty"`
}

// Type implements command.Message.
func (CancelScheduleCommand) Type() string { return cancelScheduleMessageType }

// Validate ensures the message carries the required identifiers.
func (m CancelScheduleCommand) Validate() error {
	errs := validation.Errors{}
	if m.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("catalog.document.schedule.cancel.document_id_required", "document_id is required")
	}
	if m.ScheduleID == uuid.Nil {
		errs["schedule_id"] = validation.NewError("catalog.document.schedule.cancel.schedule_id_required", "schedule_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CancelScheduleHandler cancels scheduled activations via the document
// service.
type CancelScheduleHandler struct {
	inner *commands.Handler[CancelScheduleCommand]
}

// NewCancelScheduleHandler constructs a handler wired to the provided
// document service.
func NewCancelScheduleHandler(service document.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CancelScheduleCommand]) *CancelScheduleHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CancelScheduleCommand) error {
		if !gates.schedulingEnabled() {
			return ErrSchedulingDisabled
		}
		_, err := service.CancelSchedule(ctx, document.CancelScheduleRequest{
			DocumentID: msg.DocumentID,
			ScheduleID: msg.ScheduleID,
			Actor:      msg.Actor,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CancelScheduleCommand]{
		commands.WithLogger[CancelScheduleCommand](baseLogger),
		commands.WithOperation[CancelScheduleCommand]("document.schedule.cancel"),
		commands.WithTelemetry(commands.DefaultTelemetry[CancelScheduleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CancelScheduleHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CancelScheduleCommand].Execute.
func (h *CancelScheduleHandler) Execute(ctx context.Context, msg CancelScheduleCommand) error {
	return h.inner.Execute(ctx, msg)
}
