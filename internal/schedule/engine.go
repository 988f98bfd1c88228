// Package schedule decides which version of a document is effective at a
// given instant. The computation is pure and derives entirely from persisted
// state, which is what makes "preview at time T" and live resolution agree.
package schedule

import "time"

// Candidate is one scheduled activation considered by the engine.
type Candidate struct {
	TargetVersion int
	ActivateAt    time.Time
	DeactivateAt  *time.Time
	Active        bool
	ScheduledAt   time.Time
}

// EffectiveVersion returns the version in force at the instant.
//
// Among candidates that are active, already activated, and not yet
// deactivated, the one with the latest ActivateAt wins; ties go to the most
// recently scheduled. With no matching candidate the published version
// applies; if that too is absent the document has no effective version and
// ok is false.
func EffectiveVersion(candidates []Candidate, published *int, at time.Time) (version int, ok bool) {
	var winner *Candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.Active {
			continue
		}
		if c.ActivateAt.After(at) {
			continue
		}
		if c.DeactivateAt != nil && !c.DeactivateAt.After(at) {
			continue
		}
		if winner == nil || wins(c, winner) {
			winner = c
		}
	}
	if winner != nil {
		return winner.TargetVersion, true
	}
	if published != nil {
		return *published, true
	}
	return 0, false
}

// WouldBeActiveAt reports whether the given version would be the effective
// one at the instant, used to validate scheduling before committing it.
func WouldBeActiveAt(candidates []Candidate, published *int, version int, at time.Time) bool {
	effective, ok := EffectiveVersion(candidates, published, at)
	return ok && effective == version
}

func wins(c, current *Candidate) bool {
	if c.ActivateAt.After(current.ActivateAt) {
		return true
	}
	if c.ActivateAt.Equal(current.ActivateAt) {
		return !c.ScheduledAt.Before(current.ScheduledAt)
	}
	return false
}
