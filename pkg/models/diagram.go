package models

import "time"

// DiagramResult is the outcome of one generation run. Exactly one of Content
// and Error is set; Metadata is always present. Failures travel in Error so
// callers never have to guard against panics or partial markup.
type DiagramResult struct {
	DiagramType string         `json:"diagram_type"`
	Content     *string        `json:"content"`
	Error       *string        `json:"error"`
	Metadata    map[string]any `json:"metadata"`
}

// NewDiagramResult builds a success result.
func NewDiagramResult(diagramType, content string) *DiagramResult {
	return &DiagramResult{
		DiagramType: diagramType,
		Content:     &content,
		Metadata:    resultMetadata(diagramType),
	}
}

// NewDiagramError builds a failure result.
func NewDiagramError(diagramType, message string) *DiagramResult {
	return &DiagramResult{
		DiagramType: diagramType,
		Error:       &message,
		Metadata:    resultMetadata(diagramType),
	}
}

// resultMetadata seeds the keys every result carries, so error results are as
// well-formed as successes.
func resultMetadata(diagramType string) map[string]any {
	return map[string]any{
		MetaDiagramType: diagramType,
		MetaGeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// OK reports whether the run produced markup.
func (r *DiagramResult) OK() bool {
	return r.Error == nil
}

// SetMetadata stores a metadata value, allocating the map if needed.
func (r *DiagramResult) SetMetadata(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata[key] = value
}

// MergeMetadata copies all entries from src into the result's metadata.
func (r *DiagramResult) MergeMetadata(src map[string]any) {
	for k, v := range src {
		r.SetMetadata(k, v)
	}
}

// DiagramTypeInfo describes one registered diagram type for listing to
// embedding applications.
type DiagramTypeInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// DiagramTypeList is the full catalog of registered diagram types.
type DiagramTypeList struct {
	Types       []DiagramTypeInfo `json:"types"`
	DefaultType string            `json:"default_type"`
}
