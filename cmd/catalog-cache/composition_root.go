package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-catalog-cache/internal/audit"
	"go-catalog-cache/internal/cache"
	"go-catalog-cache/internal/cache/lru"
	"go-catalog-cache/internal/cache/noop"
	"go-catalog-cache/internal/cache/readthrough"
	"go-catalog-cache/internal/catalog"
	"go-catalog-cache/internal/config"
	"go-catalog-cache/internal/httpserver"
	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/metrics"
	"go-catalog-cache/internal/models"
	"go-catalog-cache/internal/repository/memory"
	"go-catalog-cache/internal/repository/postgres"
)

const startupTimeout = 10 * time.Second

// CompositionRoot holds all application dependencies and is the single place
// where they are created and wired together.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Data and audit
	Repository  interfaces.ProductRepository
	AuditLogger interfaces.AuditLogger
	AuditReader interfaces.AuditReader // nil for the log sink

	// Cache components
	KeyBuilder    interfaces.KeyBuilder
	ProductsCache *readthrough.Coordinator[[]models.Product]
	FacetsCache   *readthrough.Coordinator[[]string]
	Reporters     []*metrics.Reporter

	// Services
	CatalogService *catalog.Service
	HTTPServer     *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Repository and audit sink
// 4. Caches, coordinators and metrics reporters
// 5. Catalog service
// 6. HTTP Server
func NewCompositionRoot(configPath string, debug bool) (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(configPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := root.initRepository(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	root.initAuditLogger()

	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger(debug bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig(configPath string) error {
	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

// initRepository opens the configured product store and seeds it when asked
func (r *CompositionRoot) initRepository(ctx context.Context) error {
	switch r.Config.Storage.Driver {
	case "postgres":
		repo, err := postgres.NewRepository(ctx, GetDatabaseURL(r.Logger), r.Logger)
		if err != nil {
			return err
		}
		r.Repository = repo
	default:
		r.Repository = memory.NewRepository()
		r.Logger.Info("Using in-memory product repository")
	}

	if !r.Config.Storage.Seed {
		return nil
	}

	count, err := r.Repository.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		r.Logger.Info("Skipping seed, repository is not empty", zap.Int("products", count))
		return nil
	}

	for _, product := range memory.DemoProducts() {
		if _, err := r.Repository.Add(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}
	}
	r.Logger.Info("Seeded demo catalog", zap.Int("products", len(memory.DemoProducts())))
	return nil
}

// initAuditLogger initializes the audit sink; KeyDB failures fall back to the log sink
func (r *CompositionRoot) initAuditLogger() {
	if r.Config.Audit.Sink != "keydb" {
		r.AuditLogger = audit.NewLogAuditLogger(r.Logger)
		r.Logger.Info("Audit records go to the application log")
		return
	}

	keydbURL := GetKeyDBURL(r.Logger)
	client, err := audit.NewRedisKeyDbClient(r.Config.Audit.KeyDB, keydbURL, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to connect to KeyDB, falling back to log audit sink",
			zap.String("keydb_url", keydbURL),
			zap.Error(err))
		r.AuditLogger = audit.NewLogAuditLogger(r.Logger)
		return
	}

	keydbAudit := audit.NewKeyDBAuditLogger(r.Config.Audit.KeyDB, client, r.Logger)
	r.AuditLogger = keydbAudit
	r.AuditReader = keydbAudit
	r.Logger.Info("KeyDB audit sink initialized",
		zap.String("keydb_url", keydbURL),
		zap.String("list_key", r.Config.Audit.KeyDB.ListKey))
}

// initCacheComponents builds both query caches, their coordinators and reporters
func (r *CompositionRoot) initCacheComponents() error {
	r.KeyBuilder = cache.NewKeyBuilder()

	productsCache, err := newCache("products", r.Config.Cache, models.CloneProducts, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to create products cache: %w", err)
	}
	facetsCache, err := newCache("facets", r.Config.Cache, models.CloneStrings, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to create facets cache: %w", err)
	}

	r.ProductsCache = readthrough.New("products", productsCache, r.Logger)
	r.FacetsCache = readthrough.New("facets", facetsCache, r.Logger)

	r.Reporters = []*metrics.Reporter{
		metrics.NewReporter(r.ProductsCache.Name(), r.ProductsCache),
		metrics.NewReporter(r.FacetsCache.Name(), r.FacetsCache),
	}
	for _, reporter := range r.Reporters {
		if err := prometheus.Register(reporter.Collector()); err != nil {
			return fmt.Errorf("failed to register %s cache collector: %w", reporter.Name(), err)
		}
	}

	return nil
}

// newCache returns a bounded TTL/LRU store, or a no-op cache when caching is disabled
func newCache[V any](name string, cfg config.CacheConfig, clone func(V) V, logger *zap.Logger) (interfaces.Cache[V], error) {
	if !cfg.IsEnabled() {
		logger.Info("Cache disabled", zap.String("cache", name))
		return noop.NewNoOpCache[V](), nil
	}

	store, err := lru.New(cfg.GetCapacity(), cfg.GetTTL(),
		lru.WithCloner(clone),
		lru.WithEvictionHook[V](func(key string, reason models.EvictionReason) {
			metrics.RecordCacheEviction(name, string(reason))
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("Cache initialized",
		zap.String("cache", name),
		zap.Int("capacity", cfg.GetCapacity()),
		zap.Duration("ttl", cfg.GetTTL()))
	return store, nil
}

// initServices initializes application services
func (r *CompositionRoot) initServices() error {
	service, err := catalog.NewService(
		r.Repository,
		r.ProductsCache,
		r.FacetsCache,
		r.KeyBuilder,
		r.AuditLogger,
		r.Logger,
	)
	if err != nil {
		return err
	}
	r.CatalogService = service
	return nil
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(
		r.CatalogService,
		r.AuditReader,
		r.Reporters,
		r.Config.Server,
		r.Logger,
	)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Close KeyDB audit sink
	if keydbAudit, ok := r.AuditLogger.(*audit.KeyDBAuditLogger); ok {
		if err := keydbAudit.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close audit sink: %w", err))
		}
	}

	// Close PostgreSQL pool
	if pgRepo, ok := r.Repository.(*postgres.Repository); ok {
		if err := pgRepo.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close repository: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
