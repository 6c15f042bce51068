package diagrams

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/mermaid"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// FlowchartBuilder renders datasets as Mermaid flowcharts: one labeled node
// per entity, one edge per relationship. The compact form used when attribute
// detail is not wanted.
type FlowchartBuilder struct {
	config BuilderConfig
}

// NewFlowchartBuilder creates a flowchart builder with the given options.
func NewFlowchartBuilder(config BuilderConfig) *FlowchartBuilder {
	return &FlowchartBuilder{config: config.normalized()}
}

// Name returns the builder name.
func (b *FlowchartBuilder) Name() string {
	return BuilderFlowchart
}

func (b *FlowchartBuilder) header() string {
	return "flowchart " + b.config.Direction
}

// BuildFromDataset renders the dataset. Node ids come from sanitized entity
// ids; display labels keep the entity name as-is, namespaces included.
func (b *FlowchartBuilder) BuildFromDataset(dataset *models.Dataset) (string, error) {
	lines := []string{b.header()}
	if dataset == nil {
		return b.header(), nil
	}

	nodeIDs := make(map[string]string, len(dataset.Entities))
	for _, e := range dataset.Entities {
		id := mermaid.NodeName(e.ID)
		nodeIDs[e.ID] = id
		lines = append(lines, fmt.Sprintf("%s%s[\"%s\"]", indent, id, mermaid.DisplayName(e.Name)))
	}

	for _, r := range dataset.Relationships {
		if r.Type == models.RelationshipTypeNodeOnly {
			continue
		}
		source, okSource := nodeIDs[r.SourceID]
		target, okTarget := nodeIDs[r.TargetID]
		if !okSource || !okTarget {
			return "", fmt.Errorf("%w: %s -> %s", apperrors.ErrMissingEntity, r.SourceID, r.TargetID)
		}

		label := mermaid.Label(r.Label)
		if b.config.ShowCardinality {
			notation := mermaid.FlowNotation(r.Cardinality)
			if label != "" {
				label += " (" + notation + ")"
			} else {
				label = notation
			}
		}
		if label == "" {
			lines = append(lines, fmt.Sprintf("%s%s --> %s", indent, source, target))
		} else {
			lines = append(lines, fmt.Sprintf("%s%s -->|\"%s\"| %s", indent, source, label, target))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// BuildEmpty renders a single node carrying the message.
func (b *FlowchartBuilder) BuildEmpty(message string) string {
	msg := mermaid.Label(message)
	if msg == "" {
		msg = "No data available"
	}
	return b.header() + "\n" + indent + "empty[\"" + msg + "\"]"
}

var _ Builder = (*FlowchartBuilder)(nil)
