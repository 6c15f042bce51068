package models

import "time"

// Cardinality tags carried on relationships. The mermaid package maps these to
// dialect-specific notation.
const (
	CardinalityOneToMany  = "one_to_many"
	CardinalityManyToOne  = "many_to_one"
	CardinalityOneToOne   = "one_to_one"
	CardinalityManyToMany = "many_to_many"
)

// Relationship type tags.
const (
	RelationshipTypeForeignKey = "foreign_key"
	RelationshipTypeInferred   = "inferred"
	RelationshipTypeBelongsTo  = "belongs_to"
	RelationshipTypeHasOne     = "has_one"
	RelationshipTypeHasMany    = "has_many"
	RelationshipTypeManyToMany = "many_to_many"

	// RelationshipTypeNodeOnly marks a placeholder kept for a model with no
	// usable associations so its entity still appears in diagrams. Placeholders
	// never become relationship lines and are excluded from relationship counts.
	RelationshipTypeNodeOnly = "node_only"
)

// Entity kind tags.
const (
	EntityKindTable   = "table"
	EntityKindModel   = "model"
	EntityKindDefault = "default"
)

// Visibility markers used on attributes and methods in class diagrams.
const (
	VisibilityPublic    = "+"
	VisibilityPrivate   = "-"
	VisibilityProtected = "#"
)

// Dataset metadata keys shared by all analyzers.
const (
	MetaAnalyzer           = "analyzer"
	MetaDiagramType        = "diagram_type"
	MetaGeneratedAt        = "generated_at"
	MetaTotalTables        = "total_tables"
	MetaTotalModels        = "total_models"
	MetaTotalRelationships = "total_relationships"
)

// Attribute is a single column or field on an Entity.
type Attribute struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Nullable   bool           `json:"nullable"`
	Default    *string        `json:"default,omitempty"`
	PrimaryKey bool           `json:"primary_key"`
	ForeignKey bool           `json:"foreign_key"`
	Visibility string         `json:"visibility,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// VisibilityMarker returns the attribute's visibility marker, defaulting to
// public when unset.
func (a Attribute) VisibilityMarker() string {
	return NormalizeVisibility(a.Visibility)
}

// Method is a callable listed on a class-diagram entity.
type Method struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility,omitempty"`
}

// VisibilityMarker returns the method's visibility marker, defaulting to
// public when unset.
func (m Method) VisibilityMarker() string {
	return NormalizeVisibility(m.Visibility)
}

// NormalizeVisibility maps visibility words to their class-diagram markers.
// Already-normalized markers pass through; anything unrecognized is public.
func NormalizeVisibility(v string) string {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityProtected:
		return v
	case "public", "":
		return VisibilityPublic
	case "private":
		return VisibilityPrivate
	case "protected":
		return VisibilityProtected
	default:
		return VisibilityPublic
	}
}

// Entity is a node in a diagram dataset. ID must be unique within a Dataset
// and is typically a table name; Name is the human-facing name, typically a
// model class name.
type Entity struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Attributes []Attribute    `json:"attributes,omitempty"`
	Methods    []Method       `json:"methods,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Relationship is a directed edge between two entities, identified by their
// Dataset ids. Cardinality holds one of the Cardinality* tags.
type Relationship struct {
	SourceID        string         `json:"source_id"`
	TargetID        string         `json:"target_id"`
	Type            string         `json:"type"`
	Label           string         `json:"label,omitempty"`
	Cardinality     string         `json:"cardinality"`
	SelfReferential bool           `json:"self_referential,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Dataset is the analyzer output consumed by builders: ordered entities and
// relationships plus free-form metadata. Insertion order is preserved and
// nothing is deduplicated here; analyzers are responsible for unique entity
// ids and for only referencing ids they added.
type Dataset struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewDataset returns an empty dataset with initialized metadata.
func NewDataset() *Dataset {
	return &Dataset{Metadata: map[string]any{}}
}

// AddEntity appends an entity in insertion order.
func (d *Dataset) AddEntity(e Entity) {
	d.Entities = append(d.Entities, e)
}

// AddRelationship appends a relationship in insertion order.
func (d *Dataset) AddRelationship(r Relationship) {
	d.Relationships = append(d.Relationships, r)
}

// EntityByID returns the first entity with the given id.
func (d *Dataset) EntityByID(id string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// HasEntity reports whether an entity with the given id exists.
func (d *Dataset) HasEntity(id string) bool {
	_, ok := d.EntityByID(id)
	return ok
}

// Empty reports whether the dataset has no entities.
func (d *Dataset) Empty() bool {
	return len(d.Entities) == 0
}

// SetMetadata stores a metadata value, allocating the map if needed.
func (d *Dataset) SetMetadata(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	d.Metadata[key] = value
}

// Stamp records the producing analyzer and generation time along with the
// standard count keys.
func (d *Dataset) Stamp(analyzer string, now time.Time) {
	d.SetMetadata(MetaAnalyzer, analyzer)
	d.SetMetadata(MetaGeneratedAt, now.UTC().Format(time.RFC3339))
}

// RelationshipCount returns the number of non-placeholder relationships.
func (d *Dataset) RelationshipCount() int {
	n := 0
	for _, r := range d.Relationships {
		if r.Type != RelationshipTypeNodeOnly {
			n++
		}
	}
	return n
}
