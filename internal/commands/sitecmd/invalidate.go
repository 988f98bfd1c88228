package sitecmd

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// CacheInvalidator drops cached resolutions for a site after a successful
// override mutation. Wire it to the resolver's InvalidateCache so site edits
// surface before the TTL elapses. Invalidation failures are logged, not
// returned; the override state is the source of truth.
type CacheInvalidator func(ctx context.Context, siteID uuid.UUID) error

func invalidate(ctx context.Context, fn CacheInvalidator, siteID uuid.UUID, logger interfaces.Logger) {
	if fn == nil {
		return
	}
	if err := fn(ctx, siteID); err != nil {
		logger.Warn("resolver cache invalidation failed", "site_id", siteID, "error", err)
	}
}
