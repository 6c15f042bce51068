package schemasource

import "context"

// Memory is an in-process SchemaIntrospector for embedding applications that
// already hold schema metadata, and for tests. Populate it with AddTable and
// AddForeignKey; discovery then just reads the stored slices.
type Memory struct {
	tables      []TableMetadata
	columns     map[string][]ColumnMetadata
	foreignKeys []ForeignKeyMetadata
	supportsFKs bool
}

// NewMemory returns an empty in-memory schema source.
func NewMemory() *Memory {
	return &Memory{
		columns:     make(map[string][]ColumnMetadata),
		supportsFKs: true,
	}
}

// WithoutForeignKeySupport marks the source as unable to declare foreign
// keys, mirroring engines where only the inferred analyzer applies.
func (m *Memory) WithoutForeignKeySupport() *Memory {
	m.supportsFKs = false
	return m
}

// AddTable registers a table with its columns. Returns the receiver for
// chaining.
func (m *Memory) AddTable(name string, columns ...ColumnMetadata) *Memory {
	m.tables = append(m.tables, TableMetadata{TableName: name, RowCount: 0})
	for i := range columns {
		columns[i].OrdinalPosition = i + 1
	}
	m.columns[name] = columns
	return m
}

// AddForeignKey registers a declared foreign key between stored tables.
func (m *Memory) AddForeignKey(constraint, sourceTable, sourceColumn, targetTable, targetColumn string) *Memory {
	m.foreignKeys = append(m.foreignKeys, ForeignKeyMetadata{
		ConstraintName: constraint,
		SourceTable:    sourceTable,
		SourceColumn:   sourceColumn,
		TargetTable:    targetTable,
		TargetColumn:   targetColumn,
	})
	return m
}

// DiscoverTables returns the registered tables.
func (m *Memory) DiscoverTables(_ context.Context) ([]TableMetadata, error) {
	out := make([]TableMetadata, len(m.tables))
	copy(out, m.tables)
	return out, nil
}

// DiscoverColumns returns the registered columns for a table. The schema name
// is ignored; in-memory sources are single-schema.
func (m *Memory) DiscoverColumns(_ context.Context, _ string, tableName string) ([]ColumnMetadata, error) {
	cols := m.columns[tableName]
	out := make([]ColumnMetadata, len(cols))
	copy(out, cols)
	return out, nil
}

// DiscoverForeignKeys returns the registered foreign keys.
func (m *Memory) DiscoverForeignKeys(_ context.Context) ([]ForeignKeyMetadata, error) {
	out := make([]ForeignKeyMetadata, len(m.foreignKeys))
	copy(out, m.foreignKeys)
	return out, nil
}

// SupportsForeignKeys reports whether AddForeignKey data should be trusted.
func (m *Memory) SupportsForeignKeys() bool {
	return m.supportsFKs
}

// Close is a no-op for in-memory sources.
func (m *Memory) Close() error {
	return nil
}

// Column builds a plain nullable column.
func Column(name, dataType string) ColumnMetadata {
	return ColumnMetadata{ColumnName: name, DataType: dataType, IsNullable: true}
}

// PrimaryKey builds a primary key column.
func PrimaryKey(name, dataType string) ColumnMetadata {
	return ColumnMetadata{ColumnName: name, DataType: dataType, IsPrimaryKey: true}
}

var _ SchemaIntrospector = (*Memory)(nil)
