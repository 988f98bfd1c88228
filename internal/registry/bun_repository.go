package registry

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// BunRegistry implements the registry contract on bun with optional caching.
type BunRegistry struct {
	db           *bun.DB
	repo         repository.Repository[*Entry]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const entryNamespace = "registry_entry"

var _ interfaces.Registry = (*BunRegistry)(nil)

// NewBunRegistry creates a registry without caching.
func NewBunRegistry(db *bun.DB) *BunRegistry {
	return NewBunRegistryWithCache(db, nil, nil)
}

// NewBunRegistryWithCache creates a registry with caching services.
func NewBunRegistryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRegistry {
	base := NewEntryRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(entryNamespace)
	}
	return &BunRegistry{
		db:           db,
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		now:          time.Now,
	}
}

// EnsureSchema creates the registry table.
func (r *BunRegistry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("registry: create entries table: %w", err)
	}
	return nil
}

func (r *BunRegistry) Upsert(ctx context.Context, entry *interfaces.RegistryEntry) error {
	record := &Entry{
		DocumentID: entry.DocumentID,
		OrgID:      entry.OrgID,
		Kind:       entry.Kind,
		Name:       entry.Name,
		Price:      entry.Price,
		CategoryID: entry.CategoryID,
		HasDraft:   entry.HasDraft,
		IsArchived: entry.IsArchived,
		UpdatedAt:  r.now().UTC(),
	}
	if _, err := r.repo.Upsert(ctx, record); err != nil {
		return mapRepositoryError(err, "registry_entry", entry.DocumentID.String())
	}
	return nil
}

func (r *BunRegistry) Remove(ctx context.Context, documentID uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Entry{DocumentID: documentID}); err != nil {
		return mapRepositoryError(err, "registry_entry", documentID.String())
	}
	return nil
}

func (r *BunRegistry) Get(ctx context.Context, documentID uuid.UUID) (*interfaces.RegistryEntry, error) {
	record, err := r.repo.GetByID(ctx, documentID.String())
	if err != nil {
		return nil, mapRepositoryError(err, "registry_entry", documentID.String())
	}
	return toInterface(record), nil
}

func (r *BunRegistry) ListByKind(ctx context.Context, orgID uuid.UUID, kind string) ([]*interfaces.RegistryEntry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.org_id = ?", orgID).
				Where("?TableAlias.kind = ?", kind).
				Where("?TableAlias.is_archived = ?", false).
				OrderExpr("?TableAlias.document_id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "registry_entry", kind)
	}

	out := make([]*interfaces.RegistryEntry, 0, len(records))
	for _, record := range records {
		out = append(out, toInterface(record))
	}
	return out, nil
}

// InvalidateCache clears cached registry reads, when caching is configured.
func (r *BunRegistry) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func toInterface(record *Entry) *interfaces.RegistryEntry {
	return &interfaces.RegistryEntry{
		DocumentID: record.DocumentID,
		OrgID:      record.OrgID,
		Kind:       record.Kind,
		Name:       record.Name,
		Price:      record.Price,
		CategoryID: record.CategoryID,
		HasDraft:   record.HasDraft,
		IsArchived: record.IsArchived,
	}
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
