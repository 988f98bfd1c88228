package documentcmd

// FeatureGates exposes runtime feature toggles required by document command
// handlers. Callers can inject closures wired to catalog.Config.Features to
// avoid tight coupling.
type FeatureGates struct {
	// VersioningEnabled should return true when draft/publish workflows are
	// enabled.
	VersioningEnabled func() bool
	// SchedulingEnabled should return true when scheduled activation
	// workflows are enabled.
	SchedulingEnabled func() bool
}

func (g FeatureGates) versioningEnabled() bool {
	if g.VersioningEnabled == nil {
		return true
	}
	return g.VersioningEnabled()
}

func (g FeatureGates) schedulingEnabled() bool {
	if g.SchedulingEnabled == nil {
		return true
	}
	return g.SchedulingEnabled()
}
