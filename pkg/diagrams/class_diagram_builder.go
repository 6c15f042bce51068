package diagrams

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/mermaid"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

const classHeader = "classDiagram"

// ClassDiagramBuilder renders datasets as Mermaid class diagrams: one class
// per model with attribute and method sections, association arrows between
// them.
type ClassDiagramBuilder struct {
	config BuilderConfig
}

// NewClassDiagramBuilder creates a class-diagram builder with the given
// options.
func NewClassDiagramBuilder(config BuilderConfig) *ClassDiagramBuilder {
	return &ClassDiagramBuilder{config: config.normalized()}
}

// Name returns the builder name.
func (b *ClassDiagramBuilder) Name() string {
	return BuilderClassDiagram
}

func (b *ClassDiagramBuilder) header() []string {
	return []string{classHeader, indent + "direction " + b.config.Direction}
}

// BuildFromDataset renders the dataset. Class ids come from sanitized entity
// names, so namespaced models keep unique nodes.
func (b *ClassDiagramBuilder) BuildFromDataset(dataset *models.Dataset) (string, error) {
	lines := b.header()
	if dataset == nil {
		return strings.Join(lines, "\n"), nil
	}

	classIDs := make(map[string]string, len(dataset.Entities))
	for _, e := range dataset.Entities {
		classIDs[e.ID] = mermaid.ClassName(e.Name)
		lines = append(lines, b.classLines(e)...)
	}

	for _, r := range dataset.Relationships {
		if r.Type == models.RelationshipTypeNodeOnly {
			continue
		}
		source, okSource := classIDs[r.SourceID]
		target, okTarget := classIDs[r.TargetID]
		if !okSource || !okTarget {
			return "", fmt.Errorf("%w: %s -> %s", apperrors.ErrMissingEntity, r.SourceID, r.TargetID)
		}

		line := indent + source + " --> "
		if b.config.ShowCardinality {
			line += "\"" + mermaid.ClassNotation(r.Cardinality) + "\" "
		}
		line += target
		if label := mermaid.Label(r.Label); label != "" {
			line += " : " + label
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func (b *ClassDiagramBuilder) classLines(e models.Entity) []string {
	classID := mermaid.ClassName(e.Name)

	var body []string
	var stats []string
	if b.config.ShowAttributes {
		if len(e.Attributes) > 0 {
			body = append(body, bodyIndent+"%% Attributes")
			for _, attr := range e.Attributes {
				body = append(body, bodyIndent+attr.VisibilityMarker()+mermaid.AttributeType(attr.Type)+" "+mermaid.TableName(attr.Name))
			}
		}
		stats = append(stats, fmt.Sprintf("%d attributes", len(e.Attributes)))
	}
	if b.config.ShowMethods {
		if len(e.Methods) > 0 {
			body = append(body, bodyIndent+"%% Methods")
			for _, m := range e.Methods {
				body = append(body, bodyIndent+m.VisibilityMarker()+mermaid.MethodName(m.Name))
			}
		}
		stats = append(stats, fmt.Sprintf("%d methods", len(e.Methods)))
	}
	if len(stats) > 0 {
		body = append(body, bodyIndent+"%% "+strings.Join(stats, ", "))
	}

	if len(body) == 0 {
		return []string{indent + "class " + classID}
	}

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, indent+"class "+classID+" {")
	lines = append(lines, body...)
	lines = append(lines, indent+"}")
	return lines
}

// BuildEmpty renders a note carrying the message.
func (b *ClassDiagramBuilder) BuildEmpty(message string) string {
	msg := mermaid.Label(message)
	if msg == "" {
		msg = "No data available"
	}
	lines := append(b.header(), indent+"note \""+msg+"\"")
	return strings.Join(lines, "\n")
}

var _ Builder = (*ClassDiagramBuilder)(nil)
