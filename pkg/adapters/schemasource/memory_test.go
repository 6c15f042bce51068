package schemasource

import (
	"context"
	"testing"
)

func TestMemory_Discovery(t *testing.T) {
	src := NewMemory().
		AddTable("users",
			PrimaryKey("id", "bigint"),
			Column("email", "varchar"),
		).
		AddTable("posts",
			PrimaryKey("id", "bigint"),
			Column("user_id", "bigint"),
		).
		AddForeignKey("fk_posts_user", "posts", "user_id", "users", "id")

	ctx := context.Background()

	tables, err := src.DiscoverTables(ctx)
	if err != nil {
		t.Fatalf("DiscoverTables() error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("table count = %d, want 2", len(tables))
	}
	if tables[0].TableName != "users" || tables[1].TableName != "posts" {
		t.Errorf("tables = %v, want [users posts]", tables)
	}

	columns, err := src.DiscoverColumns(ctx, "", "users")
	if err != nil {
		t.Fatalf("DiscoverColumns() error: %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("column count = %d, want 2", len(columns))
	}
	if columns[0].OrdinalPosition != 1 || columns[1].OrdinalPosition != 2 {
		t.Errorf("ordinal positions = %d,%d, want 1,2", columns[0].OrdinalPosition, columns[1].OrdinalPosition)
	}
	if !columns[0].IsPrimaryKey {
		t.Error("id should be primary key")
	}

	fks, err := src.DiscoverForeignKeys(ctx)
	if err != nil {
		t.Fatalf("DiscoverForeignKeys() error: %v", err)
	}
	if len(fks) != 1 {
		t.Fatalf("foreign key count = %d, want 1", len(fks))
	}
	if fks[0].SourceTable != "posts" || fks[0].TargetTable != "users" {
		t.Errorf("fk = %+v, want posts -> users", fks[0])
	}

	if !src.SupportsForeignKeys() {
		t.Error("SupportsForeignKeys() = false, want true")
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestMemory_WithoutForeignKeySupport(t *testing.T) {
	src := NewMemory().WithoutForeignKeySupport()
	if src.SupportsForeignKeys() {
		t.Error("SupportsForeignKeys() = true, want false")
	}
}

func TestMemory_UnknownTableHasNoColumns(t *testing.T) {
	src := NewMemory()
	columns, err := src.DiscoverColumns(context.Background(), "", "missing")
	if err != nil {
		t.Fatalf("DiscoverColumns() error: %v", err)
	}
	if len(columns) != 0 {
		t.Errorf("column count = %d, want 0", len(columns))
	}
}

func TestPrimaryKeyColumn(t *testing.T) {
	tests := []struct {
		name     string
		columns  []ColumnMetadata
		expected string
	}{
		{
			name: "flagged primary key",
			columns: []ColumnMetadata{
				Column("email", "varchar"),
				PrimaryKey("user_uuid", "uuid"),
			},
			expected: "user_uuid",
		},
		{
			name:     "no primary key defaults to id",
			columns:  []ColumnMetadata{Column("email", "varchar")},
			expected: "id",
		},
		{
			name:     "empty defaults to id",
			expected: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryKeyColumn(tt.columns); got != tt.expected {
				t.Errorf("PrimaryKeyColumn() = %q, want %q", got, tt.expected)
			}
		})
	}
}
