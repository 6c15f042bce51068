package diagrams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// AnalyzerModelAssociation names the declared-association analyzer.
const AnalyzerModelAssociation = "model_association"

// ModelAssociationAnalyzer builds a dataset from model descriptors: one
// entity per model class, one relationship per resolvable association.
type ModelAssociationAnalyzer struct {
	provider       ModelProvider
	includeMethods bool
	logger         *zap.Logger
}

// NewModelAssociationAnalyzer creates an analyzer reading from the given
// model provider. When includeMethods is set, entities carry the model's
// hand-written methods alongside its attributes. If logger is nil, a no-op
// logger is used.
func NewModelAssociationAnalyzer(provider ModelProvider, includeMethods bool, logger *zap.Logger) *ModelAssociationAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelAssociationAnalyzer{provider: provider, includeMethods: includeMethods, logger: logger}
}

// Name returns the analyzer name.
func (a *ModelAssociationAnalyzer) Name() string {
	return AnalyzerModelAssociation
}

// Analyze maps in-scope model descriptors to entities and their associations
// to relationships. Polymorphic associations and associations whose target
// cannot be resolved to an in-scope model are skipped; a model whose
// associations all drop out keeps a placeholder so the node still renders.
func (a *ModelAssociationAnalyzer) Analyze(ctx context.Context, scope Scope) (*models.Dataset, error) {
	if a.provider == nil {
		return nil, errors.New("no model provider configured")
	}

	descriptors, err := a.provider.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading model descriptors: %w", err)
	}
	if len(descriptors) == 0 {
		return nil, apperrors.ErrNoModels
	}

	var inScope []models.ModelDescriptor
	seen := make(map[string]bool, len(descriptors))
	for _, m := range descriptors {
		if m.TableName == "" {
			a.logger.Warn("skipping model descriptor without table name",
				zap.String("class", m.ClassName))
			continue
		}
		if !scope.Includes(m.TableName) {
			continue
		}
		if seen[m.TableName] {
			a.logger.Debug("skipping duplicate model table",
				zap.String("table", m.TableName),
				zap.String("class", m.ClassName))
			continue
		}
		seen[m.TableName] = true
		inScope = append(inScope, m)
	}

	dataset := models.NewDataset()
	var relationships []models.Relationship
	for _, m := range inScope {
		dataset.AddEntity(a.buildEntity(m))

		rels := a.extractAssociations(m, seen)
		if len(rels) == 0 {
			rels = []models.Relationship{{
				SourceID: m.TableName,
				Type:     models.RelationshipTypeNodeOnly,
			}}
		}
		relationships = append(relationships, rels...)
	}

	for _, r := range relationships {
		dataset.AddRelationship(r)
	}

	dataset.Stamp(AnalyzerModelAssociation, time.Now())
	dataset.SetMetadata(models.MetaTotalModels, len(dataset.Entities))
	dataset.SetMetadata(models.MetaTotalRelationships, dataset.RelationshipCount())

	a.logger.Debug("model association analysis complete",
		zap.Int("models", len(dataset.Entities)),
		zap.Int("relationships", dataset.RelationshipCount()))
	return dataset, nil
}

func (a *ModelAssociationAnalyzer) buildEntity(m models.ModelDescriptor) models.Entity {
	primaryKey := m.PrimaryKeyColumn()

	entity := models.Entity{
		ID:       m.TableName,
		Name:     m.ClassName,
		Kind:     models.EntityKindModel,
		Metadata: map[string]any{"table_name": m.TableName},
	}
	for _, c := range m.Columns {
		entity.Attributes = append(entity.Attributes, models.Attribute{
			Name:       c.Name,
			Type:       c.Type,
			Nullable:   c.Nullable,
			Default:    c.Default,
			PrimaryKey: c.Name == primaryKey,
		})
	}
	if a.includeMethods {
		entity.Methods = filterMethods(m)
	}
	return entity
}

// extractAssociations turns one model's associations into relationships. A
// failure here degrades to an edge-less model instead of aborting the whole
// diagram.
func (a *ModelAssociationAnalyzer) extractAssociations(m models.ModelDescriptor, inScope map[string]bool) (rels []models.Relationship) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("association extraction failed, keeping model without edges",
				zap.String("class", m.ClassName),
				zap.Any("panic", r))
			rels = nil
		}
	}()

	for _, assoc := range m.Associations {
		if assoc.Polymorphic {
			a.logger.Debug("skipping polymorphic association",
				zap.String("class", m.ClassName),
				zap.String("association", assoc.Name))
			continue
		}
		if assoc.TargetTable == "" {
			a.logger.Debug("skipping association without target table",
				zap.String("class", m.ClassName),
				zap.String("association", assoc.Name))
			continue
		}
		if !inScope[assoc.TargetTable] {
			continue
		}
		rels = append(rels, models.Relationship{
			SourceID:        m.TableName,
			TargetID:        assoc.TargetTable,
			Type:            assoc.RelationshipType(),
			Label:           assoc.Name,
			Cardinality:     assoc.Cardinality(),
			SelfReferential: assoc.TargetTable == m.TableName,
			Metadata:        map[string]any{"association_kind": assoc.Kind},
		})
	}
	return rels
}

// filterMethods drops accessors the framework generates for columns and
// associations, leaving only methods the model defines itself.
func filterMethods(m models.ModelDescriptor) []models.Method {
	generated := make(map[string]bool, len(m.Columns)+len(m.Associations))
	for _, c := range m.Columns {
		generated[c.Name] = true
	}
	for _, assoc := range m.Associations {
		if assoc.Name != "" {
			generated[assoc.Name] = true
		}
	}

	var out []models.Method
	for _, method := range m.Methods {
		base := strings.TrimSuffix(method.Name, "=")
		if base == "" || generated[base] {
			continue
		}
		// post_ids readers belong to the posts association
		if strings.HasSuffix(base, "_ids") {
			stem := strings.TrimSuffix(base, "_ids")
			if generated[inflection.Plural(stem)] {
				continue
			}
		}
		out = append(out, method)
	}
	return out
}

var _ Analyzer = (*ModelAssociationAnalyzer)(nil)
