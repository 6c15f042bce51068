// Package diagrams turns recorded database activity and model metadata into
// Mermaid diagram markup. Analyzers read a schema or model source and produce
// a normalized dataset; builders render a dataset into one Mermaid dialect; a
// strategy binds one analyzer to one builder under a named diagram type; the
// generator runs the pipeline and never lets a failure escape as a panic.
package diagrams

import (
	"context"

	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// Analyzer produces a dataset from some source of schema or model metadata.
type Analyzer interface {
	// Name identifies the analyzer in dataset and result metadata.
	Name() string

	// Analyze inspects the source and returns the entities and relationships
	// visible within scope.
	Analyze(ctx context.Context, scope Scope) (*models.Dataset, error)
}
