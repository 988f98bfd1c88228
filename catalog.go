// Package catalog is the top level facade over the versioned-document engine
// and the effective-content resolver. Hosts construct a Module from a Config,
// optionally injecting storage, cache, registry, and logging implementations;
// everything defaults to in-memory backends.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog/internal/cache"
	"github.com/goliatone/go-catalog/internal/document"
	"github.com/goliatone/go-catalog/internal/domain"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/logging/gologger"
	"github.com/goliatone/go-catalog/internal/registry"
	"github.com/goliatone/go-catalog/internal/resolver"
	"github.com/goliatone/go-catalog/internal/site"
	"github.com/goliatone/go-catalog/pkg/interfaces"
	"github.com/goliatone/go-catalog/pkg/storage"
)

// Service contracts re-exported for consumers of the catalog package.
type (
	DocumentService = document.Service
	SiteService     = site.Service
	ResolverService = resolver.Service
	TagLookup       = resolver.TagLookup
	Registry        = interfaces.Registry
	RegistryEntry   = interfaces.RegistryEntry
	CacheProvider   = interfaces.CacheProvider
	Logger          = interfaces.Logger
	LoggerProvider  = interfaces.LoggerProvider
)

// Content kinds managed by the engine.
const (
	KindMenuItem       = domain.KindMenuItem
	KindMenuCategory   = domain.KindMenuCategory
	KindModifierBlock  = domain.KindModifierBlock
	KindRecipe         = domain.KindRecipe
	KindRecipeCategory = domain.KindRecipeCategory
)

// Module is the wired catalog runtime.
type Module struct {
	cfg            Config
	documents      document.Service
	sites          site.Service
	registry       interfaces.Registry
	resolver       resolver.Service
	loggerProvider interfaces.LoggerProvider
}

// Option overrides a default collaborator during construction.
type Option func(*moduleDeps)

type moduleDeps struct {
	db             *bun.DB
	eventStore     document.EventStore
	siteRepo       site.Repository
	registry       interfaces.Registry
	cacheProvider  interfaces.CacheProvider
	loggerProvider interfaces.LoggerProvider
	refChecker     document.ReferenceChecker
	tagLookup      resolver.TagLookup
	clock          func() time.Time
}

// WithDB installs a bun database; the event log, override state, and registry
// are stored there instead of in memory.
func WithDB(db *bun.DB) Option {
	return func(d *moduleDeps) { d.db = db }
}

// WithEventStore overrides the document event store.
func WithEventStore(store document.EventStore) Option {
	return func(d *moduleDeps) { d.eventStore = store }
}

// WithSiteRepository overrides the site override repository.
func WithSiteRepository(repo site.Repository) Option {
	return func(d *moduleDeps) { d.siteRepo = repo }
}

// WithRegistry overrides the listing registry.
func WithRegistry(reg interfaces.Registry) Option {
	return func(d *moduleDeps) { d.registry = reg }
}

// WithCacheProvider overrides the resolver cache backend.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(d *moduleDeps) { d.cacheProvider = provider }
}

// WithLoggerProvider installs the logging backend.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *moduleDeps) { d.loggerProvider = provider }
}

// WithReferenceChecker installs the referential-integrity guard consulted
// when archiving modifier blocks.
func WithReferenceChecker(checker document.ReferenceChecker) Option {
	return func(d *moduleDeps) { d.refChecker = checker }
}

// WithTagLookup installs the published tag content source consulted when the
// resolver expands item tag references.
func WithTagLookup(lookup resolver.TagLookup) Option {
	return func(d *moduleDeps) { d.tagLookup = lookup }
}

// WithClock overrides the time source for every service, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(d *moduleDeps) { d.clock = clock }
}

func usesBunStorage(cfg Config) bool {
	return strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) == "bun"
}

func needsBackingStore(deps *moduleDeps) bool {
	return deps.eventStore == nil || deps.siteRepo == nil || deps.registry == nil
}

// New constructs a catalog module from the configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := &moduleDeps{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(deps)
		}
	}

	if deps.db == nil && usesBunStorage(cfg) && needsBackingStore(deps) {
		db, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
		if err != nil {
			return nil, fmt.Errorf("catalog: open storage: %w", err)
		}
		deps.db = db
	}

	ctx := context.Background()
	if deps.registry == nil {
		if deps.db != nil {
			reg := registry.NewBunRegistry(deps.db)
			if err := reg.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			deps.registry = reg
		} else {
			deps.registry = registry.NewMemoryRegistry()
		}
	}
	if deps.eventStore == nil {
		if deps.db != nil {
			store := document.NewBunEventStore(deps.db)
			if err := store.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			deps.eventStore = store
		} else {
			deps.eventStore = document.NewMemoryEventStore()
		}
	}
	if deps.siteRepo == nil {
		if deps.db != nil {
			repo := site.NewBunRepository(deps.db)
			if err := repo.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			deps.siteRepo = repo
		} else {
			deps.siteRepo = site.NewMemoryRepository()
		}
	}
	if deps.cacheProvider == nil && cfg.Cache.Enabled {
		if strings.EqualFold(strings.TrimSpace(cfg.Cache.Provider), "redis") {
			client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
			deps.cacheProvider = cache.NewRedisProvider(client, "")
		} else {
			deps.cacheProvider = cache.NewMemoryProvider()
		}
	}

	if deps.loggerProvider == nil && cfg.Features.Logger {
		format := cfg.Logging.Format
		if format == "" && strings.EqualFold(strings.TrimSpace(cfg.Logging.Provider), "console") {
			format = "console"
		}
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		deps.loggerProvider = provider
	}

	docLogger := logging.NoOp()
	siteLogger := logging.NoOp()
	resolverLogger := logging.NoOp()
	if deps.loggerProvider != nil {
		docLogger = logging.DocumentLogger(deps.loggerProvider)
		siteLogger = logging.SiteLogger(deps.loggerProvider)
		resolverLogger = logging.ResolverLogger(deps.loggerProvider)
	}

	docOpts := []document.ServiceOption{
		document.WithClock(deps.clock),
		document.WithLogger(docLogger),
		document.WithRegistry(deps.registry),
	}
	if deps.refChecker != nil {
		docOpts = append(docOpts, document.WithReferenceChecker(deps.refChecker))
	}
	documents := document.NewService(deps.eventStore, docOpts...)

	sites := site.NewService(deps.siteRepo,
		site.WithClock(deps.clock),
		site.WithLogger(siteLogger),
	)

	resolverOpts := []resolver.ServiceOption{
		resolver.WithClock(deps.clock),
		resolver.WithLogger(resolverLogger),
	}
	if deps.tagLookup != nil {
		resolverOpts = append(resolverOpts, resolver.WithTagLookup(deps.tagLookup))
	}
	if deps.cacheProvider != nil {
		resolverOpts = append(resolverOpts, resolver.WithCache(deps.cacheProvider, cfg.Cache.DefaultTTL))
	}
	contentResolver := resolver.NewService(documents, sites, deps.registry, resolverOpts...)

	return &Module{
		cfg:            cfg,
		documents:      documents,
		sites:          sites,
		registry:       deps.registry,
		resolver:       contentResolver,
		loggerProvider: deps.loggerProvider,
	}, nil
}

// Documents returns the versioned document service.
func (m *Module) Documents() DocumentService {
	return m.documents
}

// Sites returns the per-site override service.
func (m *Module) Sites() SiteService {
	return m.sites
}

// Resolver returns the effective-content resolver.
func (m *Module) Resolver() ResolverService {
	return m.resolver
}

// Registry returns the listing registry the module maintains best-effort
// after document mutations.
func (m *Module) Registry() Registry {
	return m.registry
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}
