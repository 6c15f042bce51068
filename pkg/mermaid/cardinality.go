package mermaid

import "github.com/ekaya-inc/diagram-engine/pkg/models"

// ERDNotation returns the er-diagram connector for a cardinality tag.
// Unknown tags render as one-to-many, the most common shape, so a bad tag
// still produces parseable markup.
func ERDNotation(cardinality string) string {
	switch cardinality {
	case models.CardinalityManyToOne:
		return "}o--||"
	case models.CardinalityOneToOne:
		return "||--||"
	case models.CardinalityManyToMany:
		return "}o--o{"
	default:
		return "||--o{"
	}
}

// ClassNotation returns the class-diagram multiplicity for a cardinality tag.
func ClassNotation(cardinality string) string {
	switch cardinality {
	case models.CardinalityManyToOne, models.CardinalityManyToMany:
		return "*..*"
	case models.CardinalityOneToOne:
		return "1..1"
	default:
		return "1..*"
	}
}

// FlowNotation returns the compact ratio used in flowchart edge labels.
func FlowNotation(cardinality string) string {
	switch cardinality {
	case models.CardinalityManyToOne:
		return "N:1"
	case models.CardinalityOneToOne:
		return "1:1"
	case models.CardinalityManyToMany:
		return "N:N"
	default:
		return "1:N"
	}
}
