// Package resolver merges org-level published and scheduled content with
// site-level overrides into one consistent, cacheable, localized result per
// (site, channel, locale, instant). It is stateless apart from its TTL cache;
// every resolution derives entirely from the document log, the site override
// state, and the registry listing.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/cache"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/site"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// DefaultTTL is the live-resolution cache expiry when none is configured.
const DefaultTTL = 30 * time.Second

// Service produces the effective content tree for a site at an instant.
type Service interface {
	Resolve(ctx context.Context, rctx Context) (*Result, error)
	Preview(ctx context.Context, rctx Context, opts PreviewOptions) (*Result, error)
	ResolveItem(ctx context.Context, rctx Context, itemID uuid.UUID) (*ResolvedItem, error)
	InvalidateCache(ctx context.Context, siteID uuid.UUID) error
	WouldBeActiveAt(ctx context.Context, documentID uuid.UUID, version int, when time.Time) (bool, error)
}

// TagLookup is the read-only source of published tag content consulted when
// resolving item tag references. Implementations must never return draft
// content; a nil tag with nil error means the id does not resolve.
type TagLookup interface {
	PublishedTag(ctx context.Context, tagID uuid.UUID) (*Tag, error)
}

// ServiceOption configures the resolver.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCache installs a cache provider for live resolutions. Without one every
// Resolve recomputes.
func WithCache(provider interfaces.CacheProvider, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = provider
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTagLookup installs the tag content source. Without one items resolve
// with no tags.
func WithTagLookup(lookup TagLookup) ServiceOption {
	return func(s *service) {
		s.tags = lookup
	}
}

// WithLogger installs a logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	documents document.Service
	sites     site.Service
	registry  interfaces.Registry
	tags      TagLookup
	cache     interfaces.CacheProvider
	ttl       time.Duration
	now       func() time.Time
	logger    interfaces.Logger

	mu       sync.Mutex
	siteKeys map[uuid.UUID]map[string]struct{}
}

// NewService wires a resolver over its collaborators.
func NewService(documents document.Service, sites site.Service, registry interfaces.Registry, opts ...ServiceOption) Service {
	s := &service{
		documents: documents,
		sites:     sites,
		registry:  registry,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    logging.NoOp(),
		siteKeys:  make(map[uuid.UUID]map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Resolve(ctx context.Context, rctx Context) (*Result, error) {
	live := rctx.AsOf.IsZero()
	if err := s.normalize(&rctx); err != nil {
		return nil, err
	}

	// Only live, unflagged resolutions go through the cache; explicit AsOf
	// lookups and authoring views always recompute.
	cacheable := s.cache != nil && live &&
		!rctx.IncludeDraft && !rctx.IncludeHidden && !rctx.IncludeSnoozed
	key := cacheKey(rctx)
	if cacheable {
		if cached := s.cached(ctx, key); cached != nil {
			return cached, nil
		}
	}

	result, err := s.resolve(ctx, rctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.store(ctx, rctx.SiteID, key, result)
	}
	return result, nil
}

// Preview runs the same algorithm with the authoring flags forced on per
// opts. Preview results are never cached and never served from cache.
func (s *service) Preview(ctx context.Context, rctx Context, opts PreviewOptions) (*Result, error) {
	rctx.IncludeDraft = opts.IncludeDraft
	rctx.IncludeHidden = opts.IncludeHidden
	rctx.IncludeSnoozed = opts.IncludeSnoozed
	if err := s.normalize(&rctx); err != nil {
		return nil, err
	}
	return s.resolve(ctx, rctx)
}

// ResolveItem resolves a single item outside the cached tree, for item detail
// lookups.
func (s *service) ResolveItem(ctx context.Context, rctx Context, itemID uuid.UUID) (*ResolvedItem, error) {
	if err := s.normalize(&rctx); err != nil {
		return nil, err
	}
	overrides, err := s.overrides(ctx, rctx)
	if err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, rctx, overrides, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotResolvable
	}
	return item, nil
}

// InvalidateCache drops every cached resolution for the site. Mutation paths
// call this so site edits surface before the TTL elapses.
func (s *service) InvalidateCache(ctx context.Context, siteID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	s.mu.Lock()
	keys := s.siteKeys[siteID]
	delete(s.siteKeys, siteID)
	s.mu.Unlock()

	for key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// WouldBeActiveAt answers whether the version would be the effective one at
// the instant, used to validate scheduling before committing it.
func (s *service) WouldBeActiveAt(ctx context.Context, documentID uuid.UUID, version int, when time.Time) (bool, error) {
	doc, err := s.documents.GetSnapshot(ctx, documentID)
	if err != nil {
		return false, err
	}
	return doc.WouldBeActiveAt(version, when), nil
}

func (s *service) normalize(rctx *Context) error {
	if rctx.OrgID == uuid.Nil {
		return ErrOrgRequired
	}
	if rctx.SiteID == uuid.Nil {
		return ErrSiteRequired
	}
	if rctx.AsOf.IsZero() {
		rctx.AsOf = s.now()
	}
	rctx.AsOf = rctx.AsOf.UTC()
	return nil
}

func (s *service) resolve(ctx context.Context, rctx Context) (*Result, error) {
	overrides, err := s.overrides(ctx, rctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, rctx, overrides)
	if err != nil {
		return nil, err
	}
	items, err := s.resolveItems(ctx, rctx, overrides)
	if err != nil {
		return nil, err
	}

	resolvedAt := s.now().UTC()
	return &Result{
		OrgID:       rctx.OrgID,
		SiteID:      rctx.SiteID,
		Channel:     rctx.Channel,
		Locale:      rctx.Locale,
		AsOf:        rctx.AsOf,
		Categories:  categories,
		Items:       items,
		Fingerprint: fingerprint(categories, items),
		ResolvedAt:  resolvedAt,
		ExpiresAt:   resolvedAt.Add(s.ttl),
	}, nil
}

// overrides loads the site's override state. A site that was never customized
// has none stored; that reads as an empty override set, not an error.
func (s *service) overrides(ctx context.Context, rctx Context) (*site.Overrides, error) {
	overrides, err := s.sites.GetOverrides(ctx, rctx.SiteID)
	if err != nil {
		var notFound *site.NotFoundError
		if errors.As(err, &notFound) {
			return &site.Overrides{OrgID: rctx.OrgID, SiteID: rctx.SiteID}, nil
		}
		return nil, err
	}
	return overrides, nil
}

func (s *service) resolveCategories(ctx context.Context, rctx Context, overrides *site.Overrides) ([]ResolvedCategory, error) {
	ids, err := s.candidates(ctx, rctx.OrgID, domain.KindMenuCategory, overrides.LocalCategories)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedCategory, 0, len(ids))
	for _, id := range ids {
		hidden := overrides.IsCategoryHidden(id)
		if hidden && !rctx.IncludeHidden {
			continue
		}
		if !overrides.AvailableAt(id, rctx.AsOf) {
			continue
		}

		doc, version := s.effective(ctx, rctx, id, domain.KindMenuCategory)
		if version == nil {
			continue
		}
		payload, ok := version.Payload.(*document.MenuCategoryPayload)
		if !ok {
			continue
		}

		text := localize(version.Translations, rctx.Locale, doc.DefaultLocale)
		out = append(out, ResolvedCategory{
			DocumentID:  id,
			Version:     version.Number,
			Name:        text.Name,
			Description: text.Description,
			SortOrder:   payload.SortOrder,
			ParentID:    payload.ParentID,
			Hidden:      hidden,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].DocumentID.String() < out[j].DocumentID.String()
	})
	return out, nil
}

func (s *service) resolveItems(ctx context.Context, rctx Context, overrides *site.Overrides) ([]ResolvedItem, error) {
	ids, err := s.candidates(ctx, rctx.OrgID, domain.KindMenuItem, overrides.LocalItems)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedItem, 0, len(ids))
	for _, id := range ids {
		item, err := s.resolveItem(ctx, rctx, overrides, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, *item)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DocumentID.String() < out[j].DocumentID.String()
	})
	return out, nil
}

// resolveItem applies the full per-item pipeline: visibility, snooze,
// availability, effective version, price override, nested published-only
// modifier references. A nil item with nil error means excluded.
func (s *service) resolveItem(ctx context.Context, rctx Context, overrides *site.Overrides, id uuid.UUID) (*ResolvedItem, error) {
	hidden := overrides.IsItemHidden(id)
	if hidden && !rctx.IncludeHidden {
		return nil, nil
	}
	snoozed := overrides.IsItemSnoozed(id, rctx.AsOf)
	if snoozed && !rctx.IncludeSnoozed {
		return nil, nil
	}
	if !overrides.AvailableAt(id, rctx.AsOf) {
		return nil, nil
	}

	doc, version := s.effective(ctx, rctx, id, domain.KindMenuItem)
	if version == nil {
		return nil, nil
	}
	payload, ok := version.Payload.(*document.MenuItemPayload)
	if !ok {
		return nil, nil
	}
	if !payload.Active && !rctx.IncludeHidden {
		return nil, nil
	}

	text := localize(version.Translations, rctx.Locale, doc.DefaultLocale)
	item := &ResolvedItem{
		DocumentID:     id,
		Version:        version.Number,
		Name:           text.Name,
		Description:    text.Description,
		KitchenName:    text.KitchenName,
		SKU:            payload.SKU,
		CategoryID:     payload.CategoryID,
		PriceCents:     payload.PriceCents,
		BasePriceCents: payload.PriceCents,
		Snoozed:        snoozed,
		Hidden:         hidden,
	}

	for _, tagID := range payload.TagIDs {
		tag := s.resolveTag(ctx, rctx, doc, tagID)
		if tag != nil {
			item.Tags = append(item.Tags, *tag)
		}
	}

	if po := overrides.PriceOverrideFor(id, rctx.AsOf); po != nil {
		item.PriceCents = po.PriceCents
		item.PriceOverridden = true
	}

	for _, blockID := range payload.ModifierBlockIDs {
		block := s.resolveModifierBlock(ctx, rctx, blockID)
		if block != nil {
			item.ModifierBlocks = append(item.ModifierBlocks, *block)
		}
	}
	return item, nil
}

// resolveTag fetches a referenced tag's published content and keeps active,
// resolvable tags only. Dangling ids never reach the output.
func (s *service) resolveTag(ctx context.Context, rctx Context, doc *document.Document, tagID uuid.UUID) *ResolvedTag {
	if s.tags == nil {
		return nil
	}
	tag, err := s.tags.PublishedTag(ctx, tagID)
	if err != nil {
		s.logger.Warn("tag lookup failed", "tag_id", tagID, "error", err)
		return nil
	}
	if tag == nil || !tag.Active {
		return nil
	}
	return &ResolvedTag{
		ID:   tag.ID,
		Code: tag.Code,
		Name: localizeName(tag.Names, rctx.Locale, doc.DefaultLocale),
	}
}

// resolveModifierBlock fetches a referenced block's published content, never
// its draft, and keeps active options only.
func (s *service) resolveModifierBlock(ctx context.Context, rctx Context, blockID uuid.UUID) *ResolvedModifierBlock {
	doc, err := s.documents.GetSnapshot(ctx, blockID)
	if err != nil {
		s.logger.Warn("modifier block lookup failed", "block_id", blockID, "error", err)
		return nil
	}
	if doc.IsArchived {
		return nil
	}
	version := doc.Published()
	if version == nil {
		return nil
	}
	payload, ok := version.Payload.(*document.ModifierBlockPayload)
	if !ok {
		return nil
	}

	text := localize(version.Translations, rctx.Locale, doc.DefaultLocale)
	block := &ResolvedModifierBlock{
		DocumentID: blockID,
		Version:    version.Number,
		Name:       text.Name,
		MinSelect:  payload.MinSelect,
		MaxSelect:  payload.MaxSelect,
	}
	for _, opt := range payload.Options {
		if !opt.Active {
			continue
		}
		block.Options = append(block.Options, ResolvedOption{
			ID:              opt.ID,
			Code:            opt.Code,
			PriceDeltaCents: opt.PriceDeltaCents,
		})
	}
	return block
}

// effective fetches a document and picks the version the context asks for:
// draft-or-published when drafts are included, otherwise the schedule-aware
// effective version at the instant. Registry staleness surfaces here as
// missing or mismatched documents; those are skipped, not failed.
func (s *service) effective(ctx context.Context, rctx Context, id uuid.UUID, kind domain.Kind) (*document.Document, *document.Version) {
	doc, err := s.documents.GetSnapshot(ctx, id)
	if err != nil {
		s.logger.Debug("candidate lookup failed", "document_id", id, "error", err)
		return nil, nil
	}
	if doc.Kind != kind {
		return nil, nil
	}
	if doc.IsArchived && !rctx.IncludeHidden {
		return nil, nil
	}

	var version *document.Version
	if rctx.IncludeDraft {
		version = doc.Editable()
	} else {
		version = doc.EffectiveAt(rctx.AsOf)
	}
	return doc, version
}

// candidates merges the registry listing with the site's locally added ids,
// deduplicated, in listing order with local additions appended.
func (s *service) candidates(ctx context.Context, orgID uuid.UUID, kind domain.Kind, local []uuid.UUID) ([]uuid.UUID, error) {
	entries, err := s.registry.ListByKind(ctx, orgID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("resolver: list %s candidates: %w", kind, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(entries)+len(local))
	ids := make([]uuid.UUID, 0, len(entries)+len(local))
	for _, entry := range entries {
		if _, ok := seen[entry.DocumentID]; ok {
			continue
		}
		seen[entry.DocumentID] = struct{}{}
		ids = append(ids, entry.DocumentID)
	}
	for _, id := range local {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *service) cached(ctx context.Context, key string) *Result {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !cache.IsMiss(err) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var result Result
	switch v := value.(type) {
	case []byte:
		if err := json.Unmarshal(v, &result); err != nil {
			s.logger.Warn("cache entry corrupt", "key", key, "error", err)
			return nil
		}
	default:
		return nil
	}
	if !result.ExpiresAt.After(s.now()) {
		return nil
	}
	return &result
}

func (s *service) store(ctx context.Context, siteID uuid.UUID, key string, result *Result) {
	encoded, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}

	s.mu.Lock()
	keys := s.siteKeys[siteID]
	if keys == nil {
		keys = make(map[string]struct{})
		s.siteKeys[siteID] = keys
	}
	keys[key] = struct{}{}
	s.mu.Unlock()
}

func cacheKey(rctx Context) string {
	return fmt.Sprintf("resolve:%s:%s:%s:%s", rctx.OrgID, rctx.SiteID, rctx.Channel, rctx.Locale)
}
