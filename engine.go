// Package diagramengine wires the diagram subsystem together from
// configuration: schema introspection, model descriptors, result caching, and
// the diagram data service. Embedding applications construct an Engine once at
// startup and hand it their session storage.
package diagramengine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
	_ "github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource/mssql"    // Register mssql schema source
	_ "github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource/postgres" // Register postgres schema source
	"github.com/ekaya-inc/diagram-engine/pkg/cache"
	"github.com/ekaya-inc/diagram-engine/pkg/config"
	"github.com/ekaya-inc/diagram-engine/pkg/diagrams"
	"github.com/ekaya-inc/diagram-engine/pkg/logging"
	"github.com/ekaya-inc/diagram-engine/pkg/services"
)

// Options carries the pieces the embedding application provides. Sessions is
// required; everything else has a config-driven default.
type Options struct {
	// Sessions loads recorded sessions for session-scoped diagrams.
	Sessions services.SessionProvider

	// ModelProvider overrides the descriptor file configured under
	// models.descriptor_path. Applications with live model metadata
	// implement diagrams.ModelProvider directly.
	ModelProvider diagrams.ModelProvider

	// SchemaSource overrides the introspector built from the schema config.
	// The caller keeps ownership and closes it.
	SchemaSource schemasource.SchemaIntrospector

	// Store overrides the cache built from the cache and redis config. The
	// caller keeps ownership and closes it.
	Store cache.Store

	// Logger overrides the logger built for cfg.Env.
	Logger *zap.Logger
}

// Engine is the assembled diagram subsystem.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger

	store        cache.Store
	introspector schemasource.SchemaIntrospector
	generator    *diagrams.Generator
	service      services.DiagramDataService

	ownLogger bool
	ownStore  bool
	ownSchema bool
}

// New assembles an Engine from configuration. The context bounds connection
// checks against the schema database and Redis.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if opts.Sessions == nil {
		return nil, errors.New("a session provider is required")
	}

	logger := opts.Logger
	ownLogger := false
	if logger == nil {
		l, err := logging.NewLogger(cfg.Env)
		if err != nil {
			return nil, err
		}
		logger = l
		ownLogger = true
	}

	store, ownStore, err := buildStore(cfg, opts, logger)
	if err != nil {
		return nil, err
	}

	introspector, ownSchema, err := buildSchemaSource(ctx, cfg, opts, logger)
	if err != nil {
		if ownStore && store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	provider := opts.ModelProvider
	if provider == nil && cfg.Models.DescriptorPath != "" {
		provider = diagrams.NewFileModelProvider(cfg.Models.DescriptorPath)
	}

	registry := diagrams.NewRegistry(diagrams.RegistryDeps{
		SchemaSource:  introspector,
		ModelProvider: provider,
		BuilderConfig: diagrams.BuilderConfig{
			Direction:       cfg.Diagrams.Direction,
			ShowAttributes:  cfg.Diagrams.ShowAttributes,
			ShowMethods:     cfg.Diagrams.ShowMethods,
			ShowCardinality: cfg.Diagrams.ShowCardinality,
		},
		DefaultType: cfg.Diagrams.DefaultType,
		Logger:      logger,
	})
	generator := diagrams.NewGenerator(registry, logger)

	service := services.NewDiagramDataService(generator, opts.Sessions, store, services.DiagramDataOptions{
		CacheTTL:       cfg.Cache.TTLFor,
		ExcludedTables: cfg.Diagrams.ExcludedTables,
	}, logger)

	logger.Info("diagram engine ready",
		zap.String("default_type", registry.DefaultType()),
		zap.Bool("schema_source", introspector != nil),
		zap.Bool("model_provider", provider != nil),
		zap.Bool("cache", store != nil))

	return &Engine{
		cfg:          cfg,
		logger:       logger,
		store:        store,
		introspector: introspector,
		generator:    generator,
		service:      service,
		ownLogger:    ownLogger,
		ownStore:     ownStore,
		ownSchema:    ownSchema,
	}, nil
}

// Diagrams returns the diagram data service.
func (e *Engine) Diagrams() services.DiagramDataService {
	return e.service
}

// Generator returns the underlying generator for callers that manage their
// own scoping and caching.
func (e *Engine) Generator() *diagrams.Generator {
	return e.generator
}

// Close releases the resources the engine created. Injected dependencies stay
// open.
func (e *Engine) Close() error {
	var firstErr error
	if e.ownSchema && e.introspector != nil {
		if err := e.introspector.Close(); err != nil {
			firstErr = fmt.Errorf("closing schema source: %w", err)
		}
	}
	if e.ownStore && e.store != nil {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing cache: %w", err)
		}
	}
	if e.ownLogger {
		_ = e.logger.Sync()
	}
	return firstErr
}

func buildStore(cfg *config.Config, opts Options, logger *zap.Logger) (cache.Store, bool, error) {
	if opts.Store != nil {
		return opts.Store, false, nil
	}
	if !cfg.Cache.Enabled {
		return nil, false, nil
	}

	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, false, err
		}
		logger.Info("using Redis diagram cache", zap.String("addr", cfg.Redis.Addr()))
		return cache.NewRedisStore(client), true, nil
	}

	store := cache.NewMemoryStore(cfg.Cache.MaxEntries)
	store.StartCleanup(cfg.Cache.CleanupInterval())
	return store, true, nil
}

func buildSchemaSource(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (schemasource.SchemaIntrospector, bool, error) {
	if opts.SchemaSource != nil {
		return schemasource.Instrument(opts.SchemaSource), false, nil
	}
	if !cfg.Schema.Configured() {
		logger.Info("no schema database configured, table diagram types are unavailable")
		return nil, false, nil
	}

	introspector, err := schemasource.NewIntrospector(ctx, cfg.Schema.Driver, cfg.Schema.ConnectionConfig(), logger)
	if err != nil {
		return nil, false, fmt.Errorf("building %s schema source: %w", cfg.Schema.Driver, err)
	}
	return schemasource.Instrument(introspector), true, nil
}
