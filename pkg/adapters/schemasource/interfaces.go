// Package schemasource abstracts where schema metadata comes from. Drivers
// register themselves by type; the analyzers only see the SchemaIntrospector
// interface.
package schemasource

import "context"

// SchemaIntrospector discovers tables, columns, and declared foreign keys.
// Each implementation owns its connection and must be closed when done.
type SchemaIntrospector interface {
	// DiscoverTables returns all user tables (system schemas excluded).
	DiscoverTables(ctx context.Context) ([]TableMetadata, error)

	// DiscoverColumns returns columns for a specific table.
	DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]ColumnMetadata, error)

	// DiscoverForeignKeys returns all declared foreign key relationships.
	DiscoverForeignKeys(ctx context.Context) ([]ForeignKeyMetadata, error)

	// SupportsForeignKeys reports whether the source declares foreign keys at
	// all. Sources without FK support still work with the inferred analyzer.
	SupportsForeignKeys() bool

	// Close releases the underlying connection.
	Close() error
}
