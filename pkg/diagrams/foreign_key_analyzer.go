package diagrams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// AnalyzerForeignKey names the declared-constraint analyzer.
const AnalyzerForeignKey = "foreign_key"

// ForeignKeyAnalyzer builds a dataset from declared schema constraints: one
// entity per table, one relationship per foreign key whose endpoints are both
// in scope.
type ForeignKeyAnalyzer struct {
	source schemasource.SchemaIntrospector
	logger *zap.Logger
}

// NewForeignKeyAnalyzer creates an analyzer reading from the given schema
// source. If logger is nil, a no-op logger is used.
func NewForeignKeyAnalyzer(source schemasource.SchemaIntrospector, logger *zap.Logger) *ForeignKeyAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForeignKeyAnalyzer{source: source, logger: logger}
}

// Name returns the analyzer name.
func (a *ForeignKeyAnalyzer) Name() string {
	return AnalyzerForeignKey
}

// Analyze discovers in-scope tables, their columns, and their declared
// foreign keys. A table's FK pointing at its own primary key is flagged
// self-referential.
func (a *ForeignKeyAnalyzer) Analyze(ctx context.Context, scope Scope) (*models.Dataset, error) {
	if a.source == nil {
		return nil, errors.New("no schema source configured")
	}

	tables, err := a.source.DiscoverTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}

	var fks []schemasource.ForeignKeyMetadata
	if a.source.SupportsForeignKeys() {
		fks, err = a.source.DiscoverForeignKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover foreign keys: %w", err)
		}
	}

	// FK columns per table, so attributes can carry the FK flag
	fkColumns := make(map[string]map[string]bool)
	for _, fk := range fks {
		if fkColumns[fk.SourceTable] == nil {
			fkColumns[fk.SourceTable] = make(map[string]bool)
		}
		fkColumns[fk.SourceTable][fk.SourceColumn] = true
	}

	dataset := models.NewDataset()
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if !scope.Includes(t.TableName) {
			continue
		}
		if seen[t.TableName] {
			a.logger.Debug("skipping duplicate table name across schemas",
				zap.String("schema", t.SchemaName),
				zap.String("table", t.TableName))
			continue
		}
		seen[t.TableName] = true

		columns, err := a.source.DiscoverColumns(ctx, t.SchemaName, t.TableName)
		if err != nil {
			return nil, fmt.Errorf("discover columns for %s: %w", t.TableName, err)
		}

		entity := models.Entity{
			ID:   t.TableName,
			Name: t.TableName,
			Kind: models.EntityKindTable,
		}
		for _, c := range columns {
			entity.Attributes = append(entity.Attributes, models.Attribute{
				Name:       c.ColumnName,
				Type:       c.DataType,
				Nullable:   c.IsNullable,
				Default:    c.DefaultValue,
				PrimaryKey: c.IsPrimaryKey,
				ForeignKey: fkColumns[t.TableName][c.ColumnName],
			})
		}
		dataset.AddEntity(entity)
	}

	for _, fk := range fks {
		if !seen[fk.SourceTable] || !seen[fk.TargetTable] {
			continue
		}
		dataset.AddRelationship(models.Relationship{
			SourceID:        fk.SourceTable,
			TargetID:        fk.TargetTable,
			Type:            models.RelationshipTypeForeignKey,
			Label:           fk.SourceColumn,
			Cardinality:     models.CardinalityManyToOne,
			SelfReferential: fk.SourceTable == fk.TargetTable,
			Metadata: map[string]any{
				"constraint":    fk.ConstraintName,
				"source_column": fk.SourceColumn,
				"target_column": fk.TargetColumn,
			},
		})
	}

	dataset.Stamp(AnalyzerForeignKey, time.Now())
	dataset.SetMetadata(models.MetaTotalTables, len(dataset.Entities))
	dataset.SetMetadata(models.MetaTotalRelationships, dataset.RelationshipCount())

	a.logger.Debug("foreign key analysis complete",
		zap.Int("tables", len(dataset.Entities)),
		zap.Int("relationships", dataset.RelationshipCount()))
	return dataset, nil
}

var _ Analyzer = (*ForeignKeyAnalyzer)(nil)
