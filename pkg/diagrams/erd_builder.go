package diagrams

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/mermaid"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

const (
	erdHeader = "erDiagram"

	indent     = "    "
	bodyIndent = indent + indent
)

// ERDBuilder renders datasets as Mermaid er diagrams: one entity block per
// table, one relationship line per foreign key.
type ERDBuilder struct {
	config BuilderConfig
}

// NewERDBuilder creates an er-diagram builder with the given options.
func NewERDBuilder(config BuilderConfig) *ERDBuilder {
	return &ERDBuilder{config: config.normalized()}
}

// Name returns the builder name.
func (b *ERDBuilder) Name() string {
	return BuilderEntityRelationship
}

// BuildFromDataset renders the dataset. Entity blocks come first in dataset
// order, then a blank line, then the relationship lines.
func (b *ERDBuilder) BuildFromDataset(dataset *models.Dataset) (string, error) {
	lines := []string{erdHeader}
	if dataset == nil {
		return erdHeader, nil
	}

	for _, e := range dataset.Entities {
		lines = append(lines, b.entityLines(e)...)
	}

	var relLines []string
	for _, r := range dataset.Relationships {
		if r.Type == models.RelationshipTypeNodeOnly {
			continue
		}
		if !dataset.HasEntity(r.SourceID) || !dataset.HasEntity(r.TargetID) {
			return "", fmt.Errorf("%w: %s -> %s", apperrors.ErrMissingEntity, r.SourceID, r.TargetID)
		}
		relLines = append(relLines, fmt.Sprintf("%s%s %s %s : \"%s\"",
			indent,
			mermaid.TableName(r.SourceID),
			mermaid.ERDNotation(r.Cardinality),
			mermaid.TableName(r.TargetID),
			mermaid.Label(r.Label)))
	}
	if len(relLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, relLines...)
	}

	return strings.Join(lines, "\n"), nil
}

func (b *ERDBuilder) entityLines(e models.Entity) []string {
	name := mermaid.TableName(e.ID)
	if !b.config.ShowAttributes || len(e.Attributes) == 0 {
		return []string{indent + name}
	}

	lines := make([]string, 0, len(e.Attributes)+2)
	lines = append(lines, indent+name+" {")
	for _, attr := range e.Attributes {
		line := bodyIndent + mermaid.AttributeType(attr.Type) + " " + mermaid.TableName(attr.Name)
		if tags := attributeTags(attr); tags != "" {
			line += " " + tags
		}
		lines = append(lines, line)
	}
	lines = append(lines, indent+"}")
	return lines
}

func attributeTags(attr models.Attribute) string {
	var tags []string
	if attr.PrimaryKey {
		tags = append(tags, "PK")
	}
	if attr.ForeignKey {
		tags = append(tags, "FK")
	}
	return strings.Join(tags, ",")
}

// BuildEmpty renders a single placeholder entity carrying the message, so an
// empty session still produces a valid diagram.
func (b *ERDBuilder) BuildEmpty(message string) string {
	msg := mermaid.Label(message)
	if msg == "" {
		msg = "No data available"
	}
	lines := []string{
		erdHeader,
		indent + "EMPTY_STATE {",
		bodyIndent + "string message \"" + msg + "\"",
		indent + "}",
	}
	return strings.Join(lines, "\n")
}

var _ Builder = (*ERDBuilder)(nil)
