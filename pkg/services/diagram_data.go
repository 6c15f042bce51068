package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/cache"
	"github.com/ekaya-inc/diagram-engine/pkg/diagrams"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
	"github.com/ekaya-inc/diagram-engine/pkg/observability"
)

// SessionProvider hands recorded sessions to the diagram data service. The
// embedding application implements this over wherever it keeps its change
// logs.
type SessionProvider interface {
	// Session returns the recorded session with the given id, or
	// apperrors.ErrNotFound when no such session exists.
	Session(ctx context.Context, sessionID string) (*models.Session, error)
}

// DiagramDataService is the entry point for diagram retrieval: it loads the
// session, derives the analysis scope, runs the generator, and caches the
// rendered result.
type DiagramDataService interface {
	// GetDiagram returns the diagram of the given type for a recorded
	// session, served from cache when possible. refresh drops every cached
	// diagram for the session before regenerating.
	GetDiagram(ctx context.Context, sessionID, diagramType string, refresh bool) (*models.DiagramResult, error)

	// GetGlobalDiagram renders the whole schema without session scoping.
	// Global diagrams are never cached.
	GetGlobalDiagram(ctx context.Context, diagramType string) *models.DiagramResult

	// ListDiagramTypes describes the registered diagram types.
	ListDiagramTypes() models.DiagramTypeList

	// ValidateDiagramType returns apperrors.ErrUnknownDiagramType, naming
	// the valid types, when the given type is not registered. An empty type
	// is valid and resolves to the default.
	ValidateDiagramType(diagramType string) error

	// InvalidateSession drops every cached diagram for a session.
	InvalidateSession(ctx context.Context, sessionID string) error
}

// DiagramDataOptions tunes caching and scope filtering.
type DiagramDataOptions struct {
	// CacheTTL returns the cache TTL for one diagram type. Nil applies
	// DefaultCacheTTL to every type.
	CacheTTL func(diagramType string) time.Duration

	// ExcludedTables are glob patterns for tables dropped from session
	// scopes, typically framework bookkeeping tables.
	ExcludedTables []string
}

// DefaultCacheTTL applies when no per-type TTL is configured.
const DefaultCacheTTL = 5 * time.Minute

type diagramDataService struct {
	generator *diagrams.Generator
	sessions  SessionProvider
	store     cache.Store
	cacheTTL  func(diagramType string) time.Duration
	excluded  []glob.Glob
	logger    *zap.Logger
}

// NewDiagramDataService creates a DiagramDataService. A nil store disables
// caching.
func NewDiagramDataService(generator *diagrams.Generator, sessions SessionProvider, store cache.Store, opts DiagramDataOptions, logger *zap.Logger) DiagramDataService {
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := opts.CacheTTL
	if ttl == nil {
		ttl = func(string) time.Duration { return DefaultCacheTTL }
	}

	var excluded []glob.Glob
	for _, pattern := range opts.ExcludedTables {
		g, err := glob.Compile(pattern)
		if err != nil {
			logger.Warn("ignoring invalid table exclusion pattern",
				zap.String("pattern", pattern),
				zap.Error(err))
			continue
		}
		excluded = append(excluded, g)
	}

	return &diagramDataService{
		generator: generator,
		sessions:  sessions,
		store:     store,
		cacheTTL:  ttl,
		excluded:  excluded,
		logger:    logger.Named("diagram-data"),
	}
}

var _ DiagramDataService = (*diagramDataService)(nil)

func (s *diagramDataService) GetDiagram(ctx context.Context, sessionID, diagramType string, refresh bool) (*models.DiagramResult, error) {
	// The generator resolves unknown types itself; the normalized name is
	// only needed here so cache keys and metrics use the type that runs.
	effective := s.generator.NormalizeType(diagramType)

	session, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}

	if refresh {
		if err := s.InvalidateSession(ctx, sessionID); err != nil {
			s.logger.Warn("failed to invalidate session cache",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}

	key := diagramCacheKey(sessionID, effective)
	if cached, ok := s.cacheLookup(ctx, key, refresh); ok {
		return cached, nil
	}

	result := s.generate(ctx, diagramType, effective, s.sessionScope(session))
	result.SetMetadata("session_id", sessionID)
	s.describeTypes(result)
	s.describeRefresh(result)
	s.cacheResult(ctx, key, effective, refresh, result)
	return result, nil
}

func (s *diagramDataService) GetGlobalDiagram(ctx context.Context, diagramType string) *models.DiagramResult {
	effective := s.generator.NormalizeType(diagramType)
	result := s.generate(ctx, diagramType, effective, diagrams.GlobalScope())
	s.describeTypes(result)
	return result
}

func (s *diagramDataService) ListDiagramTypes() models.DiagramTypeList {
	return s.generator.Types()
}

// ValidateDiagramType rejects unregistered types with an error naming the
// valid set. The generator itself falls back to the default type instead of
// failing, so this is the only place a caller gets told what it mistyped.
func (s *diagramDataService) ValidateDiagramType(diagramType string) error {
	if diagramType == "" {
		return nil
	}

	types := s.generator.Types()
	names := make([]string, 0, len(types.Types))
	for _, t := range types.Types {
		if t.Name == diagramType {
			return nil
		}
		names = append(names, t.Name)
	}
	return fmt.Errorf("%w %q, valid types: %s", apperrors.ErrUnknownDiagramType, diagramType, strings.Join(names, ", "))
}

func (s *diagramDataService) InvalidateSession(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return nil
	}
	return s.store.DeletePrefix(ctx, sessionCachePrefix(sessionID))
}

// generate runs the generator with timing and outcome metrics. Metrics are
// labeled with the effective type so typos cannot mint new label values.
func (s *diagramDataService) generate(ctx context.Context, diagramType, effective string, scope diagrams.Scope) *models.DiagramResult {
	start := time.Now()
	result := s.generator.Generate(ctx, diagramType, scope)
	observability.GenerationDuration.WithLabelValues(effective).Observe(time.Since(start).Seconds())
	observability.GenerationsTotal.WithLabelValues(effective, generationStatus(result)).Inc()
	return result
}

// describeTypes records the type catalog on a result so consumers can offer
// the alternatives without a second call.
func (s *diagramDataService) describeTypes(result *models.DiagramResult) {
	types := s.generator.Types()
	names := make([]string, 0, len(types.Types))
	for _, t := range types.Types {
		names = append(names, t.Name)
	}
	result.SetMetadata("available_types", names)
	result.SetMetadata("default_type", types.DefaultType)
}

// describeRefresh records whether a caller can force regeneration. Refresh
// only has an effect when a cache store is configured, and no throttle
// policy exists, so allowed mirrors supported.
func (s *diagramDataService) describeRefresh(result *models.DiagramResult) {
	supported := s.store != nil
	result.SetMetadata("refresh_supported", supported)
	result.SetMetadata("refresh_allowed", supported)
}

// cacheLookup returns a cached result for key if caching applies.
func (s *diagramDataService) cacheLookup(ctx context.Context, key string, refresh bool) (*models.DiagramResult, bool) {
	if s.store == nil || refresh {
		observability.CacheRequestsTotal.WithLabelValues(observability.CacheBypass).Inc()
		return nil, false
	}

	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		observability.CacheRequestsTotal.WithLabelValues(observability.CacheError).Inc()
		s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		observability.CacheRequestsTotal.WithLabelValues(observability.CacheMiss).Inc()
		return nil, false
	}

	var result models.DiagramResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		observability.CacheRequestsTotal.WithLabelValues(observability.CacheError).Inc()
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to drop cache entry", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	observability.CacheRequestsTotal.WithLabelValues(observability.CacheHit).Inc()
	result.SetMetadata("cache", "hit")
	return &result, true
}

// cacheResult stamps cache metadata on the result and stores it when it is a
// success. Error results are never cached.
func (s *diagramDataService) cacheResult(ctx context.Context, key, effective string, refresh bool, result *models.DiagramResult) {
	if s.store == nil {
		result.SetMetadata("cache", "bypass")
		return
	}

	ttl := s.cacheTTL(effective)
	if refresh {
		result.SetMetadata("cache", "refreshed")
	} else {
		result.SetMetadata("cache", "miss")
	}
	result.SetMetadata("cache_key", key)
	result.SetMetadata("cache_ttl_seconds", ttl.Seconds())

	if !result.OK() {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode diagram for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, string(raw), ttl); err != nil {
		s.logger.Warn("failed to cache diagram", zap.String("key", key), zap.Error(err))
	}
}

// sessionScope derives the analysis scope from the tables a session touched,
// dropping excluded tables.
func (s *diagramDataService) sessionScope(session *models.Session) diagrams.Scope {
	tables := session.TablesTouched()
	if len(s.excluded) == 0 {
		return diagrams.NewScope(tables)
	}

	kept := make([]string, 0, len(tables))
	for _, table := range tables {
		if s.excludedTable(table) {
			s.logger.Debug("excluding table from diagram scope",
				zap.String("session_id", session.ID),
				zap.String("table", table))
			continue
		}
		kept = append(kept, table)
	}
	return diagrams.NewScope(kept)
}

func (s *diagramDataService) excludedTable(name string) bool {
	for _, g := range s.excluded {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func generationStatus(result *models.DiagramResult) string {
	switch {
	case !result.OK():
		return observability.StatusError
	case result.Metadata["empty"] == true:
		return observability.StatusEmpty
	default:
		return observability.StatusSuccess
	}
}

func diagramCacheKey(sessionID, diagramType string) string {
	return sessionCachePrefix(sessionID) + diagramType
}

func sessionCachePrefix(sessionID string) string {
	return "diagram:" + sessionID + ":"
}
