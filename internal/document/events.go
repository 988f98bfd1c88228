package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/google/uuid"
)

// EventType discriminates the domain events recorded per document.
type EventType string

const (
	EventCreated           EventType = "document.created"
	EventDraftCreated      EventType = "document.draft_created"
	EventDraftPublished    EventType = "document.draft_published"
	EventDraftDiscarded    EventType = "document.draft_discarded"
	EventReverted          EventType = "document.reverted"
	EventTranslationAdded  EventType = "document.translation_added"
	EventTranslationRemove EventType = "document.translation_removed"
	EventChangeScheduled   EventType = "document.change_scheduled"
	EventScheduleCancelled EventType = "document.schedule_cancelled"
	EventArchived          EventType = "document.archived"
	EventRestored          EventType = "document.restored"
	EventOptionUpdated     EventType = "document.option_updated"
	EventCostsRecalculated EventType = "document.costs_recalculated"
)

// EventData is the flat union of per-event payload fields. Unused fields stay
// zero and are omitted from the stored JSON.
type EventData struct {
	OrgID         uuid.UUID        `json:"org_id,omitempty"`
	Kind          domain.Kind      `json:"kind,omitempty"`
	Code          string           `json:"code,omitempty"`
	DefaultLocale string           `json:"default_locale,omitempty"`
	Version       int              `json:"version,omitempty"`
	TargetVersion int              `json:"target_version,omitempty"`
	Note          string           `json:"note,omitempty"`
	PublishNow    bool             `json:"publish_now,omitempty"`
	Translations  Translations     `json:"translations,omitempty"`
	Locale        string           `json:"locale,omitempty"`
	Text          *LocalizedText   `json:"text,omitempty"`
	Payload       json.RawMessage  `json:"payload,omitempty"`
	OptionID      uuid.UUID        `json:"option_id,omitempty"`
	PriceDelta    *int64           `json:"price_delta,omitempty"`
	Active        *bool            `json:"active,omitempty"`
	ScheduleID    uuid.UUID        `json:"schedule_id,omitempty"`
	ScheduleName  string           `json:"schedule_name,omitempty"`
	ActivateAt    *time.Time       `json:"activate_at,omitempty"`
	DeactivateAt  *time.Time       `json:"deactivate_at,omitempty"`
	UnitCosts     map[string]int64 `json:"unit_costs,omitempty"`
}

// Event is one append-only entry of a document's log. Seq is contiguous and
// starts at 1 per document.
type Event struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Seq        int64     `json:"seq"`
	Type       EventType `json:"type"`
	Actor      uuid.UUID `json:"actor,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Data       EventData `json:"data"`
}

// Fold rebuilds document state by replaying the event sequence in order.
func Fold(events []*Event) (*Document, error) {
	doc := &Document{}
	for _, event := range events {
		if err := applyEvent(doc, event); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// applyEvent mutates the folded state for one event. It is the single place
// state transitions live; commands validate, then emit events that must apply
// cleanly here both live and on replay.
func applyEvent(doc *Document, event *Event) error {
	if event == nil {
		return nil
	}
	switch event.Type {
	case EventCreated:
		payload, err := DecodePayload(event.Data.Kind, event.Data.Payload)
		if err != nil {
			return err
		}
		doc.ID = event.DocumentID
		doc.OrgID = event.Data.OrgID
		doc.Kind = event.Data.Kind
		doc.Code = event.Data.Code
		doc.DefaultLocale = event.Data.DefaultLocale
		doc.IsCreated = true
		doc.CreatedAt = event.RecordedAt
		doc.CurrentVersion = event.Data.Version
		doc.Versions = append(doc.Versions, &Version{
			Number:       event.Data.Version,
			Author:       event.Actor,
			Note:         event.Data.Note,
			CreatedAt:    event.RecordedAt,
			Translations: event.Data.Translations.Clone(),
			Payload:      payload,
		})
		number := event.Data.Version
		doc.HighestVersion = number
		if event.Data.PublishNow {
			doc.PublishedVersion = &number
		} else {
			doc.DraftVersion = &number
		}

	case EventDraftCreated:
		payload, err := DecodePayload(doc.Kind, event.Data.Payload)
		if err != nil {
			return err
		}
		// An existing draft is replaced wholesale, never merged.
		if doc.DraftVersion != nil {
			doc.removeVersion(*doc.DraftVersion)
		}
		doc.Versions = append(doc.Versions, &Version{
			Number:       event.Data.Version,
			Author:       event.Actor,
			Note:         event.Data.Note,
			CreatedAt:    event.RecordedAt,
			Translations: event.Data.Translations.Clone(),
			Payload:      payload,
		})
		number := event.Data.Version
		doc.DraftVersion = &number
		doc.CurrentVersion = number
		if number > doc.HighestVersion {
			doc.HighestVersion = number
		}

	case EventDraftPublished:
		number := event.Data.Version
		doc.PublishedVersion = &number
		doc.DraftVersion = nil

	case EventDraftDiscarded:
		doc.removeVersion(event.Data.Version)
		doc.DraftVersion = nil
		doc.CurrentVersion = doc.maxVersionNumber()

	case EventReverted:
		source := doc.Version(event.Data.TargetVersion)
		if source == nil {
			return fmt.Errorf("document: revert replay references missing version %d", event.Data.TargetVersion)
		}
		restored := source.Clone()
		restored.Number = event.Data.Version
		restored.Author = event.Actor
		restored.Note = event.Data.Note
		restored.CreatedAt = event.RecordedAt
		doc.Versions = append(doc.Versions, restored)
		number := event.Data.Version
		doc.PublishedVersion = &number
		doc.CurrentVersion = number
		if number > doc.HighestVersion {
			doc.HighestVersion = number
		}

	case EventTranslationAdded:
		target := doc.Version(event.Data.Version)
		if target == nil {
			return fmt.Errorf("document: translation replay references missing version %d", event.Data.Version)
		}
		if target.Translations == nil {
			target.Translations = Translations{}
		}
		if event.Data.Text != nil {
			target.Translations[event.Data.Locale] = *event.Data.Text
		}

	case EventTranslationRemove:
		target := doc.Version(event.Data.Version)
		if target == nil {
			return fmt.Errorf("document: translation replay references missing version %d", event.Data.Version)
		}
		delete(target.Translations, event.Data.Locale)

	case EventChangeScheduled:
		if event.Data.ActivateAt == nil {
			return fmt.Errorf("document: schedule replay missing activate_at")
		}
		doc.Schedules = append(doc.Schedules, &ScheduledChange{
			ID:            event.Data.ScheduleID,
			Name:          event.Data.ScheduleName,
			TargetVersion: event.Data.TargetVersion,
			ActivateAt:    *event.Data.ActivateAt,
			DeactivateAt:  cloneTimePtr(event.Data.DeactivateAt),
			Active:        true,
			ScheduledAt:   event.RecordedAt,
			ScheduledBy:   event.Actor,
		})

	case EventScheduleCancelled:
		doc.removeSchedule(event.Data.ScheduleID)

	case EventArchived:
		doc.IsArchived = true

	case EventRestored:
		doc.IsArchived = false

	case EventOptionUpdated:
		target := doc.Version(event.Data.Version)
		if target == nil {
			return fmt.Errorf("document: option replay references missing version %d", event.Data.Version)
		}
		block, ok := target.Payload.(*ModifierBlockPayload)
		if !ok {
			return fmt.Errorf("document: option replay requires a modifier block payload")
		}
		option := block.Option(event.Data.OptionID)
		if option == nil {
			return fmt.Errorf("document: option replay references missing option %s", event.Data.OptionID)
		}
		if event.Data.PriceDelta != nil {
			option.PriceDeltaCents = *event.Data.PriceDelta
		}
		if event.Data.Active != nil {
			option.Active = *event.Data.Active
		}

	case EventCostsRecalculated:
		target := doc.Version(event.Data.Version)
		if target == nil {
			return fmt.Errorf("document: cost replay references missing version %d", event.Data.Version)
		}
		recipe, ok := target.Payload.(*RecipePayload)
		if !ok {
			return fmt.Errorf("document: cost replay requires a recipe payload")
		}
		for i := range recipe.Ingredients {
			if cost, ok := event.Data.UnitCosts[recipe.Ingredients[i].ID.String()]; ok {
				recipe.Ingredients[i].UnitCostCents = cost
			}
		}

	default:
		return fmt.Errorf("document: unknown event type %q", event.Type)
	}

	doc.UpdatedAt = event.RecordedAt
	return nil
}

func (d *Document) removeVersion(number int) {
	kept := d.Versions[:0]
	for _, v := range d.Versions {
		if v != nil && v.Number != number {
			kept = append(kept, v)
		}
	}
	d.Versions = kept
}

func (d *Document) removeSchedule(id uuid.UUID) {
	kept := d.Schedules[:0]
	for _, sc := range d.Schedules {
		if sc != nil && sc.ID != id {
			kept = append(kept, sc)
		}
	}
	d.Schedules = kept
}

func (d *Document) maxVersionNumber() int {
	max := 0
	for _, v := range d.Versions {
		if v != nil && v.Number > max {
			max = v.Number
		}
	}
	return max
}
