package models

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Association kinds understood by the model-association analyzer.
const (
	AssociationBelongsTo       = "belongs_to"
	AssociationHasOne          = "has_one"
	AssociationHasMany         = "has_many"
	AssociationHasAndBelongsTo = "has_and_belongs_to_many"
	AssociationHasOneAttached  = "has_one_attached"
	AssociationHasManyAttached = "has_many_attached"
)

// ColumnDescriptor describes one column of a model's backing table.
type ColumnDescriptor struct {
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type" yaml:"type"`
	Nullable bool    `json:"nullable" yaml:"nullable"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// AssociationDescriptor describes one declared association on a model.
// Through marks a has_many that routes through a join model, which renders as
// many-to-many.
type AssociationDescriptor struct {
	Kind        string `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"`
	TargetTable string `json:"target_table,omitempty" yaml:"target_table,omitempty"`
	Through     string `json:"through,omitempty" yaml:"through,omitempty"`
	Polymorphic bool   `json:"polymorphic,omitempty" yaml:"polymorphic,omitempty"`
}

// Cardinality maps the association kind to a cardinality tag. Unrecognized
// kinds get the one-to-many default, matching the notation mapper's fallback
// row.
func (a AssociationDescriptor) Cardinality() string {
	switch a.Kind {
	case AssociationBelongsTo:
		return CardinalityManyToOne
	case AssociationHasOne, AssociationHasOneAttached:
		return CardinalityOneToOne
	case AssociationHasAndBelongsTo:
		return CardinalityManyToMany
	case AssociationHasMany, AssociationHasManyAttached:
		if a.Through != "" {
			return CardinalityManyToMany
		}
		return CardinalityOneToMany
	default:
		return CardinalityOneToMany
	}
}

// RelationshipType maps the association kind to a relationship type tag.
func (a AssociationDescriptor) RelationshipType() string {
	switch a.Kind {
	case AssociationBelongsTo:
		return RelationshipTypeBelongsTo
	case AssociationHasOne, AssociationHasOneAttached:
		return RelationshipTypeHasOne
	case AssociationHasAndBelongsTo:
		return RelationshipTypeManyToMany
	case AssociationHasMany, AssociationHasManyAttached:
		if a.Through != "" {
			return RelationshipTypeManyToMany
		}
		return RelationshipTypeHasMany
	default:
		return RelationshipTypeHasMany
	}
}

// ModelDescriptor is the reflection contract handed in by the embedding
// application: one entry per model class, either built programmatically or
// loaded from a YAML descriptor file.
type ModelDescriptor struct {
	ClassName    string                  `json:"class_name" yaml:"class_name"`
	TableName    string                  `json:"table_name" yaml:"table_name"`
	PrimaryKey   string                  `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Columns      []ColumnDescriptor      `json:"columns,omitempty" yaml:"columns,omitempty"`
	Associations []AssociationDescriptor `json:"associations,omitempty" yaml:"associations,omitempty"`
	Methods      []Method                `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// PrimaryKeyColumn returns the declared primary key, defaulting to "id".
func (m ModelDescriptor) PrimaryKeyColumn() string {
	if m.PrimaryKey == "" {
		return "id"
	}
	return m.PrimaryKey
}

type descriptorFile struct {
	Models []ModelDescriptor `yaml:"models"`
}

// ParseModelDescriptors reads a YAML descriptor document from r. The document
// carries a top-level "models" list; every entry needs at least a class name
// and a table name.
func ParseModelDescriptors(r io.Reader) ([]ModelDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read descriptors: %w", err)
	}

	var file descriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse descriptors: %w", err)
	}

	for i, m := range file.Models {
		if m.ClassName == "" {
			return nil, fmt.Errorf("descriptor %d: class_name is required", i)
		}
		if m.TableName == "" {
			return nil, fmt.Errorf("descriptor %q: table_name is required", m.ClassName)
		}
	}
	return file.Models, nil
}

// LoadModelDescriptors reads a YAML descriptor file from disk.
func LoadModelDescriptors(path string) ([]ModelDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor file: %w", err)
	}
	defer f.Close()
	return ParseModelDescriptors(f)
}
