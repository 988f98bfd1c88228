package document

import (
	"time"

	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/google/uuid"
)

// LocalizedText holds the translatable strings attached to a version.
type LocalizedText struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	KitchenName string `json:"kitchen_name,omitempty"`
}

// Translations maps locale codes to localized strings.
type Translations map[string]LocalizedText

// Clone returns a deep copy of the translation map.
func (t Translations) Clone() Translations {
	if t == nil {
		return nil
	}
	out := make(Translations, len(t))
	for code, text := range t {
		out[code] = text
	}
	return out
}

// Version is an immutable numbered snapshot of a document's content. The only
// sanctioned mutations are draft removal (DiscardDraft) and the in-place
// ingredient cost refresh on the editable-or-published recipe version.
type Version struct {
	Number       int          `json:"number"`
	Author       uuid.UUID    `json:"author"`
	Note         string       `json:"note,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	Translations Translations `json:"translations,omitempty"`
	Payload      Payload      `json:"-"`
}

// Clone deep-copies the version including its payload.
func (v *Version) Clone() *Version {
	if v == nil {
		return nil
	}
	out := *v
	out.Translations = v.Translations.Clone()
	if v.Payload != nil {
		out.Payload = v.Payload.Clone()
	}
	return &out
}

// ScheduledChange instructs the schedule engine to treat a specific version as
// effective during a time window.
type ScheduledChange struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name,omitempty"`
	TargetVersion int        `json:"target_version"`
	ActivateAt    time.Time  `json:"activate_at"`
	DeactivateAt  *time.Time `json:"deactivate_at,omitempty"`
	Active        bool       `json:"active"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	ScheduledBy   uuid.UUID  `json:"scheduled_by"`
}

// Clone returns a copy of the scheduled change.
func (sc *ScheduledChange) Clone() *ScheduledChange {
	if sc == nil {
		return nil
	}
	out := *sc
	if sc.DeactivateAt != nil {
		deactivate := *sc.DeactivateAt
		out.DeactivateAt = &deactivate
	}
	return &out
}

// Document is the folded state of one versioned content entity. It is rebuilt
// by replaying the event log; applyEvent is the only place mutation logic
// lives.
type Document struct {
	ID             uuid.UUID
	OrgID          uuid.UUID
	Kind           domain.Kind
	Code           string
	IsCreated      bool
	DefaultLocale  string
	CurrentVersion int
	// HighestVersion never decreases; discarded numbers are not reissued.
	HighestVersion   int
	PublishedVersion *int
	DraftVersion     *int
	Versions         []*Version
	Schedules        []*ScheduledChange
	IsArchived       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Version returns the version with the given number, or nil.
func (d *Document) Version(number int) *Version {
	for _, v := range d.Versions {
		if v != nil && v.Number == number {
			return v
		}
	}
	return nil
}

// Published returns the currently published version, or nil.
func (d *Document) Published() *Version {
	if d.PublishedVersion == nil {
		return nil
	}
	return d.Version(*d.PublishedVersion)
}

// Draft returns the pending draft version, or nil.
func (d *Document) Draft() *Version {
	if d.DraftVersion == nil {
		return nil
	}
	return d.Version(*d.DraftVersion)
}

// Editable returns the version translation and cost mutations target: the
// draft when one exists, otherwise the published version.
func (d *Document) Editable() *Version {
	if draft := d.Draft(); draft != nil {
		return draft
	}
	return d.Published()
}

// Clone deep-copies the document state so callers can hold snapshots without
// racing the fold.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.PublishedVersion = cloneIntPtr(d.PublishedVersion)
	out.DraftVersion = cloneIntPtr(d.DraftVersion)
	out.Versions = make([]*Version, 0, len(d.Versions))
	for _, v := range d.Versions {
		out.Versions = append(out.Versions, v.Clone())
	}
	out.Schedules = make([]*ScheduledChange, 0, len(d.Schedules))
	for _, sc := range d.Schedules {
		out.Schedules = append(out.Schedules, sc.Clone())
	}
	return &out
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64Ptr(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneBoolPtr(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
