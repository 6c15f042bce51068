package diagrams

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

// ModelProvider hands model descriptors to the model-association analyzer.
// The embedding application implements this over its own reflection data, or
// uses one of the providers below.
type ModelProvider interface {
	Models(ctx context.Context) ([]models.ModelDescriptor, error)
}

// StaticModelProvider serves a fixed descriptor list.
type StaticModelProvider struct {
	descriptors []models.ModelDescriptor
}

// NewStaticModelProvider wraps a descriptor slice.
func NewStaticModelProvider(descriptors []models.ModelDescriptor) *StaticModelProvider {
	return &StaticModelProvider{descriptors: descriptors}
}

// Models returns a copy of the descriptor list.
func (p *StaticModelProvider) Models(_ context.Context) ([]models.ModelDescriptor, error) {
	out := make([]models.ModelDescriptor, len(p.descriptors))
	copy(out, p.descriptors)
	return out, nil
}

// FileModelProvider loads descriptors from a YAML file on every call, so
// edits to the file show up without a restart.
type FileModelProvider struct {
	path string
}

// NewFileModelProvider reads descriptors from the given YAML file.
func NewFileModelProvider(path string) *FileModelProvider {
	return &FileModelProvider{path: path}
}

// Models loads and validates the descriptor file.
func (p *FileModelProvider) Models(_ context.Context) ([]models.ModelDescriptor, error) {
	descriptors, err := models.LoadModelDescriptors(p.path)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w in %s", apperrors.ErrNoModels, p.path)
	}
	return descriptors, nil
}

var (
	_ ModelProvider = (*StaticModelProvider)(nil)
	_ ModelProvider = (*FileModelProvider)(nil)
)
