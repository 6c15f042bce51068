package schemasource

// TableMetadata describes a discovered table.
type TableMetadata struct {
	SchemaName string `json:"schema_name"`
	TableName  string `json:"table_name"`
	RowCount   int64  `json:"row_count"`
}

// ColumnMetadata describes a discovered column.
type ColumnMetadata struct {
	ColumnName      string  `json:"column_name"`
	DataType        string  `json:"data_type"`
	IsNullable      bool    `json:"is_nullable"`
	IsPrimaryKey    bool    `json:"is_primary_key"`
	IsUnique        bool    `json:"is_unique"`
	OrdinalPosition int     `json:"ordinal_position"`
	DefaultValue    *string `json:"default_value,omitempty"`
}

// ForeignKeyMetadata describes a declared foreign key constraint.
type ForeignKeyMetadata struct {
	ConstraintName string `json:"constraint_name"`
	SourceSchema   string `json:"source_schema"`
	SourceTable    string `json:"source_table"`
	SourceColumn   string `json:"source_column"`
	TargetSchema   string `json:"target_schema"`
	TargetTable    string `json:"target_table"`
	TargetColumn   string `json:"target_column"`
}

// PrimaryKeyColumn returns the primary key column name from a column list,
// defaulting to "id" when none is flagged.
func PrimaryKeyColumn(columns []ColumnMetadata) string {
	for _, c := range columns {
		if c.IsPrimaryKey {
			return c.ColumnName
		}
	}
	return "id"
}
