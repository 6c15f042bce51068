package mermaid

import (
	"testing"

	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

func TestCardinalityNotation(t *testing.T) {
	tests := []struct {
		name        string
		cardinality string
		erd         string
		class       string
		flow        string
	}{
		{
			name:        "one to many",
			cardinality: models.CardinalityOneToMany,
			erd:         "||--o{",
			class:       "1..*",
			flow:        "1:N",
		},
		{
			name:        "many to one",
			cardinality: models.CardinalityManyToOne,
			erd:         "}o--||",
			class:       "*..*",
			flow:        "N:1",
		},
		{
			name:        "one to one",
			cardinality: models.CardinalityOneToOne,
			erd:         "||--||",
			class:       "1..1",
			flow:        "1:1",
		},
		{
			name:        "many to many",
			cardinality: models.CardinalityManyToMany,
			erd:         "}o--o{",
			class:       "*..*",
			flow:        "N:N",
		},
		{
			name:        "unknown tag maps to one to many",
			cardinality: "bogus",
			erd:         "||--o{",
			class:       "1..*",
			flow:        "1:N",
		},
		{
			name:        "empty tag maps to one to many",
			cardinality: "",
			erd:         "||--o{",
			class:       "1..*",
			flow:        "1:N",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ERDNotation(tt.cardinality); got != tt.erd {
				t.Errorf("ERDNotation(%q) = %q, want %q", tt.cardinality, got, tt.erd)
			}
			if got := ClassNotation(tt.cardinality); got != tt.class {
				t.Errorf("ClassNotation(%q) = %q, want %q", tt.cardinality, got, tt.class)
			}
			if got := FlowNotation(tt.cardinality); got != tt.flow {
				t.Errorf("FlowNotation(%q) = %q, want %q", tt.cardinality, got, tt.flow)
			}
		})
	}
}
