package diagrams

import (
	"strings"

	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// Builder names.
const (
	BuilderEntityRelationship = "entity_relationship"
	BuilderClassDiagram       = "class_diagram"
	BuilderFlowchart          = "flowchart"
)

// Builder renders a dataset into Mermaid markup.
type Builder interface {
	// Name returns the builder name.
	Name() string
	// BuildFromDataset renders the dataset. A non-placeholder relationship
	// referencing an entity the dataset does not contain is an error.
	BuildFromDataset(dataset *models.Dataset) (string, error)
	// BuildEmpty renders a placeholder diagram carrying the given message.
	BuildEmpty(message string) string
}

// BuilderConfig carries the rendering options shared by all builders.
type BuilderConfig struct {
	Direction       string
	ShowAttributes  bool
	ShowMethods     bool
	ShowCardinality bool
}

// DefaultBuilderConfig returns the standard options: left-to-right flow,
// attributes and cardinality labels on, methods off.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Direction:       "LR",
		ShowAttributes:  true,
		ShowMethods:     false,
		ShowCardinality: true,
	}
}

var validDirections = map[string]struct{}{
	"LR": {}, "RL": {}, "TB": {}, "TD": {}, "BT": {},
}

// NormalizeDirection uppercases and validates a flow direction token, falling
// back to left-to-right for anything Mermaid would reject.
func NormalizeDirection(direction string) string {
	d := strings.ToUpper(strings.TrimSpace(direction))
	if _, ok := validDirections[d]; ok {
		return d
	}
	return "LR"
}

func (c BuilderConfig) normalized() BuilderConfig {
	c.Direction = NormalizeDirection(c.Direction)
	return c
}
