package catalog

import (
	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/commands/documentcmd"
	"github.com/goliatone/go-catalog/internal/commands/sitecmd"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Commands bundles the command handlers the module exposes so hosts can
// register them with a dispatcher, CLI, or cron runner.
type Commands struct {
	PublishDraft        *documentcmd.PublishDraftHandler
	DiscardDraft        *documentcmd.DiscardDraftHandler
	Revert              *documentcmd.RevertHandler
	ScheduleChange      *documentcmd.ScheduleChangeHandler
	CancelSchedule      *documentcmd.CancelScheduleHandler
	SetPriceOverride    *sitecmd.SetPriceOverrideHandler
	RemovePriceOverride *sitecmd.RemovePriceOverrideHandler
	SetItemVisibility   *sitecmd.SetItemVisibilityHandler
	SnoozeItem          *sitecmd.SnoozeItemHandler
	UnsnoozeItem        *sitecmd.UnsnoozeItemHandler
}

// Handlers returns every handler in registration order.
func (c *Commands) Handlers() []any {
	return []any{
		c.PublishDraft,
		c.DiscardDraft,
		c.Revert,
		c.ScheduleChange,
		c.CancelSchedule,
		c.SetPriceOverride,
		c.RemovePriceOverride,
		c.SetItemVisibility,
		c.SnoozeItem,
		c.UnsnoozeItem,
	}
}

// Commands constructs the command layer over the module's services. Site
// mutations invalidate the resolver cache for the affected site.
func (m *Module) Commands() *Commands {
	gates := documentcmd.FeatureGates{
		VersioningEnabled: func() bool { return m.cfg.Features.Versioning },
		SchedulingEnabled: func() bool { return m.cfg.Features.Scheduling },
	}
	invalidator := sitecmd.CacheInvalidator(m.resolver.InvalidateCache)

	docLogger := m.commandLogger("catalog.commands.document")
	siteLogger := m.commandLogger("catalog.commands.site")
	timeout := m.cfg.Commands.Timeout
	if timeout <= 0 {
		timeout = commands.DefaultCommandTimeout
	}

	return &Commands{
		PublishDraft: documentcmd.NewPublishDraftHandler(m.documents, docLogger, gates,
			commands.WithTimeout[documentcmd.PublishDraftCommand](timeout)),
		DiscardDraft: documentcmd.NewDiscardDraftHandler(m.documents, docLogger, gates,
			commands.WithTimeout[documentcmd.DiscardDraftCommand](timeout)),
		Revert: documentcmd.NewRevertHandler(m.documents, docLogger, gates,
			commands.WithTimeout[documentcmd.RevertCommand](timeout)),
		ScheduleChange: documentcmd.NewScheduleChangeHandler(m.documents, docLogger, gates,
			commands.WithTimeout[documentcmd.ScheduleChangeCommand](timeout)),
		CancelSchedule: documentcmd.NewCancelScheduleHandler(m.documents, docLogger, gates,
			commands.WithTimeout[documentcmd.CancelScheduleCommand](timeout)),
		SetPriceOverride: sitecmd.NewSetPriceOverrideHandler(m.sites, siteLogger, invalidator,
			commands.WithTimeout[sitecmd.SetPriceOverrideCommand](timeout)),
		RemovePriceOverride: sitecmd.NewRemovePriceOverrideHandler(m.sites, siteLogger, invalidator,
			commands.WithTimeout[sitecmd.RemovePriceOverrideCommand](timeout)),
		SetItemVisibility: sitecmd.NewSetItemVisibilityHandler(m.sites, siteLogger, invalidator,
			commands.WithTimeout[sitecmd.SetItemVisibilityCommand](timeout)),
		SnoozeItem: sitecmd.NewSnoozeItemHandler(m.sites, siteLogger, invalidator,
			commands.WithTimeout[sitecmd.SnoozeItemCommand](timeout)),
		UnsnoozeItem: sitecmd.NewUnsnoozeItemHandler(m.sites, siteLogger, invalidator,
			commands.WithTimeout[sitecmd.UnsnoozeItemCommand](timeout)),
	}
}

func (m *Module) commandLogger(name string) interfaces.Logger {
	if m.loggerProvider == nil {
		return logging.NoOp()
	}
	return logging.ModuleLogger(m.loggerProvider, name)
}
