package document

import (
	"time"

	"github.com/goliatone/go-catalog/internal/schedule"
)

// EffectiveAt returns the version in force at the instant, honoring active
// scheduled activations and falling back to the published version. Nil when
// the document has no effective version.
func (d *Document) EffectiveAt(at time.Time) *Version {
	number, ok := schedule.EffectiveVersion(scheduleCandidates(d), d.PublishedVersion, at)
	if !ok {
		return nil
	}
	return d.Version(number)
}

// WouldBeActiveAt reports whether the given version would be the effective one
// at the instant.
func (d *Document) WouldBeActiveAt(version int, at time.Time) bool {
	return schedule.WouldBeActiveAt(scheduleCandidates(d), d.PublishedVersion, version, at)
}
