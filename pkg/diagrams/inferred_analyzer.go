package diagrams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// AnalyzerInferred names the column-name-heuristic analyzer.
const AnalyzerInferred = "inferred_relationship"

// selfRefColumns are generic hierarchy terms that imply a self-reference on
// whatever table they appear in.
var selfRefColumns = map[string]struct{}{
	"parent_id":      {},
	"ancestor_id":    {},
	"child_id":       {},
	"reply_to_id":    {},
	"manager_id":     {},
	"supervisor_id":  {},
	"predecessor_id": {},
	"successor_id":   {},
}

var (
	hierarchyPrefixes   = []string{"parent_", "child_", "ancestor_", "superior_", "manager_"}
	relationPrefixes    = []string{"related_", "linked_", "connected_", "associated_"}
	directionalPrefixes = []string{"previous_", "next_", "original_", "copy_"}
)

// IsSelfReferential classifies a column name as a self-referential foreign
// key on the given table. The pattern families, in match order:
//
//  1. generic hierarchy terms (parent_id, manager_id, ...)
//  2. the table's own singular plus _id (comment_id on comments)
//  3. hierarchy prefixes combined with an _id suffix, and descendant-of
//     style columns ending in _of_id
//  4. relationship verbs (related_, linked_, connected_, associated_)
//  5. directional or versioning prefixes (previous_, next_, original_, copy_)
//
// The primary key column itself is never self-referential, and ordinary
// foreign keys pointing at other tables (user_id on posts) never match.
func IsSelfReferential(column, table, primaryKey string) bool {
	col := strings.ToLower(strings.TrimSpace(column))
	if col == "" || col == strings.ToLower(primaryKey) {
		return false
	}

	if _, ok := selfRefColumns[col]; ok {
		return true
	}

	if singular := inflection.Singular(strings.ToLower(table)); singular != "" && col == singular+"_id" {
		return true
	}

	if strings.HasSuffix(col, "_of_id") {
		return true
	}

	if strings.HasSuffix(col, "_id") {
		for _, prefix := range hierarchyPrefixes {
			if strings.HasPrefix(col, prefix) {
				return true
			}
		}
		for _, prefix := range relationPrefixes {
			if strings.HasPrefix(col, prefix) {
				return true
			}
		}
		for _, prefix := range directionalPrefixes {
			if strings.HasPrefix(col, prefix) {
				return true
			}
		}
	}

	return false
}

// InferredRelationshipAnalyzer builds a dataset without declared constraints
// by classifying column names: a <singular>_id column pointing at a known
// table becomes an inferred relationship, and self-referential naming
// patterns become self-loops.
type InferredRelationshipAnalyzer struct {
	source schemasource.SchemaIntrospector
	logger *zap.Logger
}

// NewInferredRelationshipAnalyzer creates an analyzer reading from the given
// schema source. If logger is nil, a no-op logger is used.
func NewInferredRelationshipAnalyzer(source schemasource.SchemaIntrospector, logger *zap.Logger) *InferredRelationshipAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InferredRelationshipAnalyzer{source: source, logger: logger}
}

// Name returns the analyzer name.
func (a *InferredRelationshipAnalyzer) Name() string {
	return AnalyzerInferred
}

// Analyze discovers in-scope tables and infers relationships from column
// naming alone.
func (a *InferredRelationshipAnalyzer) Analyze(ctx context.Context, scope Scope) (*models.Dataset, error) {
	if a.source == nil {
		return nil, errors.New("no schema source configured")
	}

	tables, err := a.source.DiscoverTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}

	type tableInfo struct {
		meta    schemasource.TableMetadata
		columns []schemasource.ColumnMetadata
	}

	var inScope []tableInfo
	seen := make(map[string]bool, len(tables))
	// singular form of each in-scope table, for <singular>_id matching
	bySingular := make(map[string]string)
	for _, t := range tables {
		if !scope.Includes(t.TableName) || seen[t.TableName] {
			continue
		}
		seen[t.TableName] = true

		columns, err := a.source.DiscoverColumns(ctx, t.SchemaName, t.TableName)
		if err != nil {
			return nil, fmt.Errorf("discover columns for %s: %w", t.TableName, err)
		}
		inScope = append(inScope, tableInfo{meta: t, columns: columns})
		bySingular[inflection.Singular(strings.ToLower(t.TableName))] = t.TableName
	}

	dataset := models.NewDataset()
	var relationships []models.Relationship
	for _, t := range inScope {
		tableName := t.meta.TableName
		primaryKey := schemasource.PrimaryKeyColumn(t.columns)

		entity := models.Entity{
			ID:   tableName,
			Name: tableName,
			Kind: models.EntityKindTable,
		}

		for _, c := range t.columns {
			attr := models.Attribute{
				Name:       c.ColumnName,
				Type:       c.DataType,
				Nullable:   c.IsNullable,
				Default:    c.DefaultValue,
				PrimaryKey: c.IsPrimaryKey,
			}

			col := strings.ToLower(c.ColumnName)
			switch {
			case IsSelfReferential(col, tableName, primaryKey):
				attr.ForeignKey = true
				relationships = append(relationships, models.Relationship{
					SourceID:        tableName,
					TargetID:        tableName,
					Type:            models.RelationshipTypeInferred,
					Label:           col,
					Cardinality:     models.CardinalityManyToOne,
					SelfReferential: true,
					Metadata:        map[string]any{"source_column": col},
				})
			case strings.HasSuffix(col, "_id"):
				target, ok := bySingular[strings.TrimSuffix(col, "_id")]
				if !ok || target == tableName {
					break
				}
				attr.ForeignKey = true
				relationships = append(relationships, models.Relationship{
					SourceID:    tableName,
					TargetID:    target,
					Type:        models.RelationshipTypeInferred,
					Label:       col,
					Cardinality: models.CardinalityManyToOne,
					Metadata:    map[string]any{"source_column": col},
				})
			}

			entity.Attributes = append(entity.Attributes, attr)
		}

		dataset.AddEntity(entity)
	}

	for _, r := range relationships {
		dataset.AddRelationship(r)
	}

	dataset.Stamp(AnalyzerInferred, time.Now())
	dataset.SetMetadata(models.MetaTotalTables, len(dataset.Entities))
	dataset.SetMetadata(models.MetaTotalRelationships, dataset.RelationshipCount())

	a.logger.Debug("inferred relationship analysis complete",
		zap.Int("tables", len(dataset.Entities)),
		zap.Int("relationships", dataset.RelationshipCount()))
	return dataset, nil
}

var _ Analyzer = (*InferredRelationshipAnalyzer)(nil)
