package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownDiagramType = errors.New("unknown diagram type")
	ErrUnknownDriver      = errors.New("unknown schema source driver")
	ErrMissingEntity      = errors.New("relationship references an entity not in the dataset")
	ErrNoModels           = errors.New("no model descriptors available")
)
