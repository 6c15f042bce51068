package diagrams

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// suggestionDistance is the largest edit distance still offered as a
// did-you-mean candidate for an unknown diagram type.
const suggestionDistance = 5

// RegistryDeps carries everything the standard strategies need. SchemaSource
// and ModelProvider may each be nil; the strategies that need the missing
// dependency then fail at analysis time rather than registration time.
type RegistryDeps struct {
	SchemaSource  schemasource.SchemaIntrospector
	ModelProvider ModelProvider
	BuilderConfig BuilderConfig
	DefaultType   string
	Logger        *zap.Logger
}

// Registry holds the registered diagram strategies. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	strategies  map[string]Strategy
	ordered     []string
	defaultType string
	logger      *zap.Logger
}

// NewRegistry builds the standard four-strategy registry: er diagrams from
// declared and inferred schema relationships, class diagrams and flowcharts
// from model associations.
func NewRegistry(deps RegistryDeps) *Registry {
	config := deps.BuilderConfig
	if config == (BuilderConfig{}) {
		config = DefaultBuilderConfig()
	}

	fkAnalyzer := NewForeignKeyAnalyzer(deps.SchemaSource, deps.Logger)
	inferredAnalyzer := NewInferredRelationshipAnalyzer(deps.SchemaSource, deps.Logger)
	modelAnalyzer := NewModelAssociationAnalyzer(deps.ModelProvider, config.ShowMethods, deps.Logger)

	return NewRegistryWithStrategies(deps.DefaultType, deps.Logger,
		Strategy{
			Name:        TypeDatabaseTables,
			DisplayName: "Database Tables",
			Description: "Entity relationship diagram from declared foreign keys",
			Analyzer:    fkAnalyzer,
			Builder:     NewERDBuilder(config),
		},
		Strategy{
			Name:        TypeDatabaseTablesInferred,
			DisplayName: "Database Tables (Inferred)",
			Description: "Entity relationship diagram inferred from column naming",
			Analyzer:    inferredAnalyzer,
			Builder:     NewERDBuilder(config),
		},
		Strategy{
			Name:        TypeModelAssociations,
			DisplayName: "Model Associations",
			Description: "Class diagram of model associations",
			Analyzer:    modelAnalyzer,
			Builder:     NewClassDiagramBuilder(config),
		},
		Strategy{
			Name:        TypeModelAssociationsFlowchart,
			DisplayName: "Model Associations (Flowchart)",
			Description: "Compact flowchart of model associations",
			Analyzer:    modelAnalyzer,
			Builder:     NewFlowchartBuilder(config),
		},
	)
}

// NewRegistryWithStrategies builds a registry from explicit strategies,
// keeping registration order. An empty or unknown defaultType falls back to
// the first strategy.
func NewRegistryWithStrategies(defaultType string, logger *zap.Logger, strategies ...Strategy) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		strategies: make(map[string]Strategy, len(strategies)),
		logger:     logger,
	}
	for _, s := range strategies {
		if _, dup := r.strategies[s.Name]; dup {
			logger.Warn("duplicate diagram strategy, keeping first", zap.String("type", s.Name))
			continue
		}
		r.strategies[s.Name] = s
		r.ordered = append(r.ordered, s.Name)
	}

	if _, ok := r.strategies[defaultType]; ok {
		r.defaultType = defaultType
	} else if len(r.ordered) > 0 {
		r.defaultType = r.ordered[0]
	}
	return r
}

// Resolve looks up a strategy by diagram type name.
func (r *Registry) Resolve(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Normalize maps an empty or unknown diagram type to the default type.
func (r *Registry) Normalize(name string) string {
	if _, ok := r.strategies[name]; ok {
		return name
	}
	return r.defaultType
}

// DefaultType returns the fallback diagram type.
func (r *Registry) DefaultType() string {
	return r.defaultType
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// TypeList describes the registered types for listing endpoints.
func (r *Registry) TypeList() models.DiagramTypeList {
	list := models.DiagramTypeList{DefaultType: r.defaultType}
	for _, name := range r.ordered {
		s := r.strategies[name]
		list.Types = append(list.Types, models.DiagramTypeInfo{
			Name:        s.Name,
			DisplayName: s.DisplayName,
			Description: s.Description,
			Default:     s.Name == r.defaultType,
		})
	}
	return list
}

// Suggest returns the registered type name closest to the given unknown name,
// when one is close enough to look like a typo.
func (r *Registry) Suggest(name string) (string, bool) {
	best := ""
	bestDistance := suggestionDistance + 1
	for _, candidate := range r.ordered {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(candidate), levenshtein.DefaultOptions)
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best, best != ""
}
