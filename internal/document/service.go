package document

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/goliatone/go-catalog/internal/executor"
	"github.com/goliatone/go-catalog/internal/identity"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/schedule"
	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the versioned-document workflow, instantiated identically
// for every content kind.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Document, error)
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*Document, error)
	PublishDraft(ctx context.Context, req PublishDraftRequest) (*Document, error)
	DiscardDraft(ctx context.Context, req ActorRequest) (*Document, error)
	RevertToVersion(ctx context.Context, req RevertRequest) (*Document, error)
	AddTranslation(ctx context.Context, req AddTranslationRequest) (*Document, error)
	RemoveTranslation(ctx context.Context, req RemoveTranslationRequest) (*Document, error)
	ScheduleChange(ctx context.Context, req ScheduleChangeRequest) (*Document, error)
	CancelSchedule(ctx context.Context, req CancelScheduleRequest) (*Document, error)
	Archive(ctx context.Context, req ActorRequest) (*Document, error)
	Restore(ctx context.Context, req ActorRequest) (*Document, error)
	UpdateModifierOption(ctx context.Context, req UpdateModifierOptionRequest) (*Document, error)
	RecalculateIngredientCosts(ctx context.Context, req RecalculateCostsRequest) (*Document, error)

	GetSnapshot(ctx context.Context, documentID uuid.UUID) (*Document, error)
	GetVersion(ctx context.Context, documentID uuid.UUID, number int) (*Version, error)
	GetPublished(ctx context.Context, documentID uuid.UUID) (*Version, error)
	GetDraft(ctx context.Context, documentID uuid.UUID) (*Version, error)
	GetVersionHistory(ctx context.Context, documentID uuid.UUID) ([]*Version, error)
	GetEventHistory(ctx context.Context, documentID uuid.UUID) ([]*Event, error)
	PreviewAt(ctx context.Context, documentID uuid.UUID, at time.Time) (*Version, error)
}

// CreateRequest captures the information required to create a document. The
// document identifier derives deterministically from (org, kind, code).
type CreateRequest struct {
	OrgID         uuid.UUID
	Kind          domain.Kind
	Code          string
	DefaultLocale string
	Translations  Translations
	Payload       Payload
	Note          string
	Actor         uuid.UUID
	PublishNow    bool
}

// CreateDraftRequest stages a new draft version; an existing draft is replaced
// wholesale.
type CreateDraftRequest struct {
	DocumentID   uuid.UUID
	Translations Translations
	Payload      Payload
	Note         string
	Actor        uuid.UUID
}

// PublishDraftRequest promotes the pending draft.
type PublishDraftRequest struct {
	DocumentID uuid.UUID
	Actor      uuid.UUID
}

// ActorRequest carries the common identity pair for single-argument commands.
type ActorRequest struct {
	DocumentID uuid.UUID
	Actor      uuid.UUID
}

// RevertRequest publishes a fresh copy of a prior version.
type RevertRequest struct {
	DocumentID    uuid.UUID
	TargetVersion int
	Note          string
	Actor         uuid.UUID
}

// AddTranslationRequest upserts localized strings on the editable version.
type AddTranslationRequest struct {
	DocumentID uuid.UUID
	Locale     string
	Text       LocalizedText
	Actor      uuid.UUID
}

// RemoveTranslationRequest drops a locale from the editable version.
type RemoveTranslationRequest struct {
	DocumentID uuid.UUID
	Locale     string
	Actor      uuid.UUID
}

// ScheduleChangeRequest registers a time-bounded version activation.
type ScheduleChangeRequest struct {
	DocumentID    uuid.UUID
	TargetVersion int
	Name          string
	ActivateAt    time.Time
	DeactivateAt  *time.Time
	Actor         uuid.UUID
}

// CancelScheduleRequest removes a scheduled change. Cancelling an unknown
// schedule id succeeds without effect.
type CancelScheduleRequest struct {
	DocumentID uuid.UUID
	ScheduleID uuid.UUID
	Actor      uuid.UUID
}

// UpdateModifierOptionRequest targets one option of the pending modifier
// block draft. Nil fields leave the option's current value in place.
type UpdateModifierOptionRequest struct {
	DocumentID      uuid.UUID
	OptionID        uuid.UUID
	PriceDeltaCents *int64
	Active          *bool
	Actor           uuid.UUID
}

// RecalculateCostsRequest rewrites ingredient unit costs in place on the
// editable-or-published recipe version.
type RecalculateCostsRequest struct {
	DocumentID uuid.UUID
	// UnitCosts maps ingredient id to the refreshed unit cost in cents.
	UnitCosts map[uuid.UUID]int64
	Actor     uuid.UUID
}

// ReferenceChecker reports which documents still reference a modifier block.
// Archiving a referenced block is rejected.
type ReferenceChecker interface {
	References(ctx context.Context, blockID uuid.UUID) ([]uuid.UUID, error)
}

// IDGenerator supplies identifiers for events and schedules.
type IDGenerator func() uuid.UUID

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp events.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the event/schedule id generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry attaches the secondary listing index. Registry updates run
// best-effort after each successful mutation; failures are logged and the
// index is allowed to lag.
func WithRegistry(registry interfaces.Registry) ServiceOption {
	return func(s *service) {
		s.registry = registry
	}
}

// WithReferenceChecker installs the referential-integrity guard consulted when
// archiving modifier blocks.
func WithReferenceChecker(checker ReferenceChecker) ServiceOption {
	return func(s *service) {
		s.refs = checker
	}
}

type service struct {
	store    EventStore
	registry interfaces.Registry
	refs     ReferenceChecker
	router   *executor.Directory
	logger   interfaces.Logger
	now      func() time.Time
	id       IDGenerator

	docs *stateCache
}

// NewService constructs the workflow engine on top of an event store.
func NewService(store EventStore, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		router: executor.NewDirectory(),
		logger: logging.NoOp(),
		now:    time.Now,
		id:     uuid.New,
		docs:   newStateCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create initializes a document with its first version.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Document, error) {
	if !req.Kind.IsValid() {
		return nil, ErrKindInvalid
	}
	code := strings.TrimSpace(req.Code)
	if code == "" || !identity.IsValidCode(code) {
		return nil, ErrCodeInvalid
	}
	if req.Payload == nil {
		return nil, ErrPayloadRequired
	}
	if req.Payload.Kind() != req.Kind {
		return nil, ErrPayloadKindMismatch
	}
	if err := req.Payload.Validate(); err != nil {
		return nil, err
	}

	documentID := identity.DocumentUUID(req.OrgID, string(req.Kind), code)

	return s.execute(ctx, documentID, func(doc *Document) (*Event, error) {
		if doc.IsCreated {
			return nil, ErrAlreadyExists
		}
		payload, err := EncodePayload(req.Payload)
		if err != nil {
			return nil, err
		}
		return &Event{
			Type:  EventCreated,
			Actor: req.Actor,
			Data: EventData{
				OrgID:         req.OrgID,
				Kind:          req.Kind,
				Code:          code,
				DefaultLocale: defaultLocale(req.DefaultLocale),
				Version:       1,
				Note:          req.Note,
				PublishNow:    req.PublishNow,
				Translations:  req.Translations.Clone(),
				Payload:       payload,
			},
		}, nil
	})
}

// CreateDraft stages a draft version; any pending draft is replaced, not
// merged.
func (s *service) CreateDraft(ctx context.Context, req CreateDraftRequest) (*Document, error) {
	if req.Payload != nil {
		if err := req.Payload.Validate(); err != nil {
			return nil, err
		}
	}

	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		payloadValue := req.Payload
		if payloadValue == nil {
			// Draft starts from the published content when no payload is given.
			published := doc.Published()
			if published == nil || published.Payload == nil {
				return nil, ErrPayloadRequired
			}
			payloadValue = published.Payload.Clone()
		}
		if payloadValue.Kind() != doc.Kind {
			return nil, ErrPayloadKindMismatch
		}
		payload, err := EncodePayload(payloadValue)
		if err != nil {
			return nil, err
		}
		translations := req.Translations
		if translations == nil {
			if published := doc.Published(); published != nil {
				translations = published.Translations
			}
		}
		return &Event{
			Type:  EventDraftCreated,
			Actor: req.Actor,
			Data: EventData{
				Version:      doc.HighestVersion + 1,
				Note:         req.Note,
				Translations: translations.Clone(),
				Payload:      payload,
			},
		}, nil
	})
}

// PublishDraft promotes the pending draft to published.
func (s *service) PublishDraft(ctx context.Context, req PublishDraftRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.DraftVersion == nil {
			return nil, ErrNoDraft
		}
		return &Event{
			Type:  EventDraftPublished,
			Actor: req.Actor,
			Data:  EventData{Version: *doc.DraftVersion},
		}, nil
	})
}

// DiscardDraft removes the pending draft version wholesale. The initial
// draft of a never-published document cannot be discarded: the document
// always retains a published or draft version.
func (s *service) DiscardDraft(ctx context.Context, req ActorRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.DraftVersion == nil {
			return nil, ErrNoDraft
		}
		if doc.PublishedVersion == nil {
			return nil, ErrNoPublishedVersion
		}
		return &Event{
			Type:  EventDraftDiscarded,
			Actor: req.Actor,
			Data:  EventData{Version: *doc.DraftVersion},
		}, nil
	})
}

// RevertToVersion publishes a new version copied from the target; history is
// never rewritten.
func (s *service) RevertToVersion(ctx context.Context, req RevertRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.Version(req.TargetVersion) == nil {
			return nil, ErrVersionNotFound
		}
		return &Event{
			Type:  EventReverted,
			Actor: req.Actor,
			Data: EventData{
				Version:       doc.HighestVersion + 1,
				TargetVersion: req.TargetVersion,
				Note:          req.Note,
			},
		}, nil
	})
}

// AddTranslation upserts localized strings on the draft when present,
// otherwise on the published version.
func (s *service) AddTranslation(ctx context.Context, req AddTranslationRequest) (*Document, error) {
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		target := doc.Editable()
		if target == nil {
			return nil, ErrNoEditableVersion
		}
		text := req.Text
		return &Event{
			Type:  EventTranslationAdded,
			Actor: req.Actor,
			Data: EventData{
				Version: target.Number,
				Locale:  locale,
				Text:    &text,
			},
		}, nil
	})
}

// RemoveTranslation drops a locale from the editable version. The default
// locale is protected.
func (s *service) RemoveTranslation(ctx context.Context, req RemoveTranslationRequest) (*Document, error) {
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if strings.EqualFold(locale, doc.DefaultLocale) {
			return nil, ErrDefaultLocaleProtected
		}
		target := doc.Editable()
		if target == nil {
			return nil, ErrNoEditableVersion
		}
		if _, ok := target.Translations[locale]; !ok {
			return nil, ErrTranslationNotFound
		}
		return &Event{
			Type:  EventTranslationRemove,
			Actor: req.Actor,
			Data: EventData{
				Version: target.Number,
				Locale:  locale,
			},
		}, nil
	})
}

// ScheduleChange registers a time-bounded activation of an existing version.
func (s *service) ScheduleChange(ctx context.Context, req ScheduleChangeRequest) (*Document, error) {
	if req.ActivateAt.IsZero() {
		return nil, ErrScheduleWindowInvalid
	}
	if req.DeactivateAt != nil && !req.DeactivateAt.After(req.ActivateAt) {
		return nil, ErrScheduleWindowInvalid
	}

	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.Version(req.TargetVersion) == nil {
			return nil, ErrVersionNotFound
		}
		activateAt := req.ActivateAt
		return &Event{
			Type:  EventChangeScheduled,
			Actor: req.Actor,
			Data: EventData{
				ScheduleID:    s.id(),
				ScheduleName:  strings.TrimSpace(req.Name),
				TargetVersion: req.TargetVersion,
				ActivateAt:    &activateAt,
				DeactivateAt:  cloneTimePtr(req.DeactivateAt),
			},
		}, nil
	})
}

// CancelSchedule removes a scheduled change. An unknown schedule id is an
// idempotent success: the desired end state already holds.
func (s *service) CancelSchedule(ctx context.Context, req CancelScheduleRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		known := false
		for _, sc := range doc.Schedules {
			if sc != nil && sc.ID == req.ScheduleID {
				known = true
				break
			}
		}
		if !known {
			return nil, nil
		}
		return &Event{
			Type:  EventScheduleCancelled,
			Actor: req.Actor,
			Data:  EventData{ScheduleID: req.ScheduleID},
		}, nil
	})
}

// Archive retires the document from resolution. Modifier blocks still
// referenced by other documents cannot be archived.
func (s *service) Archive(ctx context.Context, req ActorRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.IsArchived {
			return nil, nil
		}
		if doc.Kind == domain.KindModifierBlock && s.refs != nil {
			refs, err := s.refs.References(ctx, doc.ID)
			if err != nil {
				return nil, err
			}
			if len(refs) > 0 {
				return nil, &ReferencedError{DocumentID: doc.ID, ReferencedBy: refs}
			}
		}
		return &Event{Type: EventArchived, Actor: req.Actor}, nil
	})
}

// Restore brings an archived document back.
func (s *service) Restore(ctx context.Context, req ActorRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if !doc.IsArchived {
			return nil, nil
		}
		return &Event{Type: EventRestored, Actor: req.Actor}, nil
	})
}

// UpdateModifierOption edits one option of the pending modifier block draft.
// Published and historical versions stay untouched.
func (s *service) UpdateModifierOption(ctx context.Context, req UpdateModifierOptionRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.Kind != domain.KindModifierBlock {
			return nil, ErrNotModifierBlock
		}
		draft := doc.Draft()
		if draft == nil {
			return nil, ErrNoDraft
		}
		block, ok := draft.Payload.(*ModifierBlockPayload)
		if !ok {
			return nil, ErrNotModifierBlock
		}
		if block.Option(req.OptionID) == nil {
			return nil, ErrOptionNotFound
		}
		if req.PriceDeltaCents == nil && req.Active == nil {
			return nil, nil
		}
		return &Event{
			Type:  EventOptionUpdated,
			Actor: req.Actor,
			Data: EventData{
				Version:    draft.Number,
				OptionID:   req.OptionID,
				PriceDelta: cloneInt64Ptr(req.PriceDeltaCents),
				Active:     cloneBoolPtr(req.Active),
			},
		}, nil
	})
}

// RecalculateIngredientCosts rewrites unit costs in place on the editable or
// published recipe version; every other version stays untouched.
func (s *service) RecalculateIngredientCosts(ctx context.Context, req RecalculateCostsRequest) (*Document, error) {
	return s.execute(ctx, req.DocumentID, func(doc *Document) (*Event, error) {
		if !doc.IsCreated {
			return nil, ErrNotInitialized
		}
		if doc.Kind != domain.KindRecipe {
			return nil, ErrNotRecipe
		}
		target := doc.Editable()
		if target == nil {
			return nil, ErrNoEditableVersion
		}
		recipe, ok := target.Payload.(*RecipePayload)
		if !ok {
			return nil, ErrNotRecipe
		}
		costs := make(map[string]int64, len(req.UnitCosts))
		for id, cost := range req.UnitCosts {
			if recipeIngredient(recipe, id) == nil {
				return nil, ErrIngredientInvalid
			}
			if cost < 0 {
				return nil, ErrIngredientInvalid
			}
			costs[id.String()] = cost
		}
		if len(costs) == 0 {
			return nil, nil
		}
		return &Event{
			Type:  EventCostsRecalculated,
			Actor: req.Actor,
			Data: EventData{
				Version:   target.Number,
				UnitCosts: costs,
			},
		}, nil
	})
}

// GetSnapshot returns the full folded state of the document.
func (s *service) GetSnapshot(ctx context.Context, documentID uuid.UUID) (*Document, error) {
	return s.query(ctx, documentID, func(doc *Document) (*Document, error) {
		return doc.Clone(), nil
	})
}

// GetVersion returns a single version by number.
func (s *service) GetVersion(ctx context.Context, documentID uuid.UUID, number int) (*Version, error) {
	return s.queryVersion(ctx, documentID, func(doc *Document) *Version {
		return doc.Version(number)
	})
}

// GetPublished returns the currently published version.
func (s *service) GetPublished(ctx context.Context, documentID uuid.UUID) (*Version, error) {
	return s.queryVersion(ctx, documentID, func(doc *Document) *Version {
		return doc.Published()
	})
}

// GetDraft returns the pending draft version.
func (s *service) GetDraft(ctx context.Context, documentID uuid.UUID) (*Version, error) {
	return s.queryVersion(ctx, documentID, func(doc *Document) *Version {
		return doc.Draft()
	})
}

// GetVersionHistory lists every retained version in order.
func (s *service) GetVersionHistory(ctx context.Context, documentID uuid.UUID) ([]*Version, error) {
	var out []*Version
	_, err := s.query(ctx, documentID, func(doc *Document) (*Document, error) {
		out = make([]*Version, 0, len(doc.Versions))
		for _, v := range doc.Versions {
			out = append(out, v.Clone())
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetEventHistory returns the raw event sequence for audit.
func (s *service) GetEventHistory(ctx context.Context, documentID uuid.UUID) ([]*Event, error) {
	var out []*Event
	err := s.router.Do(ctx, documentID.String(), func(ctx context.Context) error {
		events, err := s.store.Load(ctx, documentID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return ErrNotInitialized
		}
		out = events
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewAt returns the version that would be effective at the given instant,
// honoring scheduled activations.
func (s *service) PreviewAt(ctx context.Context, documentID uuid.UUID, at time.Time) (*Version, error) {
	return s.queryVersion(ctx, documentID, func(doc *Document) *Version {
		number, ok := schedule.EffectiveVersion(scheduleCandidates(doc), doc.PublishedVersion, at)
		if !ok {
			return nil
		}
		return doc.Version(number)
	})
}

// execute routes a command through the document's serial executor: fold state,
// validate, append exactly one event, apply it, return a snapshot. A nil
// event with nil error is an accepted no-op.
func (s *service) execute(ctx context.Context, documentID uuid.UUID, decide func(*Document) (*Event, error)) (*Document, error) {
	if documentID == uuid.Nil {
		return nil, &NotFoundError{Resource: "document"}
	}

	var snapshot *Document
	err := s.router.Do(ctx, documentID.String(), func(ctx context.Context) error {
		doc, err := s.load(ctx, documentID)
		if err != nil {
			return err
		}

		event, err := decide(doc)
		if err != nil {
			return err
		}
		if event == nil {
			snapshot = doc.Clone()
			return nil
		}

		event.ID = s.id()
		event.DocumentID = documentID
		event.Seq = s.docs.seq(documentID) + 1
		event.RecordedAt = s.now().UTC()

		if err := s.store.Append(ctx, event); err != nil {
			// The fold may no longer match the log; drop the cached state.
			s.docs.invalidate(documentID)
			return err
		}
		if err := applyEvent(doc, event); err != nil {
			s.docs.invalidate(documentID)
			return err
		}
		s.docs.put(documentID, doc, event.Seq)
		snapshot = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.updateRegistry(ctx, snapshot)
	return snapshot, nil
}

func (s *service) query(ctx context.Context, documentID uuid.UUID, fn func(*Document) (*Document, error)) (*Document, error) {
	if documentID == uuid.Nil {
		return nil, &NotFoundError{Resource: "document"}
	}

	var out *Document
	err := s.router.Do(ctx, documentID.String(), func(ctx context.Context) error {
		doc, err := s.load(ctx, documentID)
		if err != nil {
			return err
		}
		if !doc.IsCreated {
			return ErrNotInitialized
		}
		out, err = fn(doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) queryVersion(ctx context.Context, documentID uuid.UUID, pick func(*Document) *Version) (*Version, error) {
	var out *Version
	_, err := s.query(ctx, documentID, func(doc *Document) (*Document, error) {
		found := pick(doc)
		if found == nil {
			return nil, ErrVersionNotFound
		}
		out = found.Clone()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// load returns the cached fold for the document, replaying the stored log on
// first use. Must run inside the document's executor.
func (s *service) load(ctx context.Context, documentID uuid.UUID) (*Document, error) {
	if doc, ok := s.docs.get(documentID); ok {
		return doc, nil
	}

	events, err := s.store.Load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc, err := Fold(events)
	if err != nil {
		return nil, err
	}
	s.docs.put(documentID, doc, int64(len(events)))
	return doc, nil
}

// updateRegistry refreshes the secondary listing after a mutation. The
// registry is not authoritative; failures leave it stale until the next
// successful write.
func (s *service) updateRegistry(ctx context.Context, doc *Document) {
	if s.registry == nil || doc == nil || !doc.IsCreated {
		return
	}
	entry := registryEntry(doc)
	if err := s.registry.Upsert(ctx, entry); err != nil {
		s.logger.Warn("registry update failed, index is stale",
			"document_id", doc.ID.String(), "error", err)
	}
}

func registryEntry(doc *Document) *interfaces.RegistryEntry {
	entry := &interfaces.RegistryEntry{
		DocumentID: doc.ID,
		OrgID:      doc.OrgID,
		Kind:       string(doc.Kind),
		HasDraft:   doc.DraftVersion != nil,
		IsArchived: doc.IsArchived,
	}

	version := doc.Published()
	if version == nil {
		version = doc.Draft()
	}
	if version == nil {
		return entry
	}
	if text, ok := version.Translations[doc.DefaultLocale]; ok {
		entry.Name = text.Name
	}
	if item, ok := version.Payload.(*MenuItemPayload); ok {
		entry.Price = item.PriceCents
		entry.CategoryID = item.CategoryID
	}
	return entry
}

func scheduleCandidates(doc *Document) []schedule.Candidate {
	out := make([]schedule.Candidate, 0, len(doc.Schedules))
	for _, sc := range doc.Schedules {
		if sc == nil {
			continue
		}
		out = append(out, schedule.Candidate{
			TargetVersion: sc.TargetVersion,
			ActivateAt:    sc.ActivateAt,
			DeactivateAt:  sc.DeactivateAt,
			Active:        sc.Active,
			ScheduledAt:   sc.ScheduledAt,
		})
	}
	return out
}

func recipeIngredient(recipe *RecipePayload, id uuid.UUID) *Ingredient {
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == id {
			return &recipe.Ingredients[i]
		}
	}
	return nil
}

func defaultLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "en"
	}
	return strings.ToLower(locale)
}
