package diagrams

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/logging"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// Generator runs registered strategies and always hands back a result: on any
// failure, analyzer error or panic alike, callers get a DiagramResult
// carrying the error message instead of a Go error.
type Generator struct {
	registry *Registry
	logger   *zap.Logger
}

// NewGenerator creates a generator over the given registry. If logger is
// nil, a no-op logger is used.
func NewGenerator(registry *Registry, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{registry: registry, logger: logger}
}

// Types describes the registered diagram types.
func (g *Generator) Types() models.DiagramTypeList {
	return g.registry.TypeList()
}

// NormalizeType maps an empty or unknown diagram type to the default type,
// so callers can build cache keys from the type that will actually run.
func (g *Generator) NormalizeType(diagramType string) string {
	return g.registry.Normalize(diagramType)
}

// Generate runs the strategy for the given diagram type against the scope.
// An empty or unknown type falls back to the default type; the requested
// name is kept in the result metadata so callers can see the remap.
func (g *Generator) Generate(ctx context.Context, diagramType string, scope Scope) *models.DiagramResult {
	normalized := g.registry.Normalize(diagramType)
	strategy, ok := g.registry.Resolve(normalized)
	if !ok {
		g.logger.Error("no diagram strategies registered")
		return models.NewDiagramError(diagramType, "no diagram strategies registered")
	}
	if diagramType != "" && diagramType != normalized {
		fields := []zap.Field{
			zap.String("requested", diagramType),
			zap.String("using", normalized),
		}
		if suggestion, ok := g.registry.Suggest(diagramType); ok && suggestion != normalized {
			fields = append(fields, zap.String("closest", suggestion))
		}
		g.logger.Warn("unknown diagram type, using default", fields...)
	}

	result := g.run(ctx, strategy, scope)
	if diagramType != "" && diagramType != normalized {
		result.SetMetadata("requested_type", diagramType)
	}
	result.SetMetadata("generation_id", uuid.NewString())
	return result
}

func (g *Generator) run(ctx context.Context, strategy Strategy, scope Scope) (result *models.DiagramResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("diagram generation panicked",
				zap.String("type", strategy.Name),
				zap.Any("panic", r),
				zap.Stack("stack"))
			result = models.NewDiagramError(strategy.Name, "diagram generation failed")
		}
	}()

	dataset, err := strategy.Analyzer.Analyze(ctx, scope)
	if err != nil {
		g.logger.Error("diagram analysis failed",
			zap.String("type", strategy.Name),
			zap.String("analyzer", strategy.Analyzer.Name()),
			zap.Error(err))
		return models.NewDiagramError(strategy.Name, logging.SanitizeError(err))
	}

	if dataset.Empty() {
		result := models.NewDiagramResult(strategy.Name, strategy.Builder.BuildEmpty(emptyMessage(scope)))
		result.MergeMetadata(dataset.Metadata)
		result.SetMetadata("empty", true)
		return result
	}

	content, err := strategy.Builder.BuildFromDataset(dataset)
	if err != nil {
		g.logger.Error("diagram build failed",
			zap.String("type", strategy.Name),
			zap.String("builder", strategy.Builder.Name()),
			zap.Error(err))
		return models.NewDiagramError(strategy.Name, logging.SanitizeError(err))
	}

	result = models.NewDiagramResult(strategy.Name, content)
	result.MergeMetadata(dataset.Metadata)
	result.SetMetadata("entity_count", len(dataset.Entities))
	result.SetMetadata("relationship_count", dataset.RelationshipCount())
	return result
}

func emptyMessage(scope Scope) string {
	if scope.Global() {
		return "No tables found"
	}
	return "No database changes captured in this session"
}
