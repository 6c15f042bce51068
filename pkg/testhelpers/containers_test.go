//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_Connection(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	// Verify the seeded schema is present
	var tableCount int
	err := testDB.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public'").
		Scan(&tableCount)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}

	if tableCount != 3 {
		t.Errorf("expected 3 tables in sample schema, got %d", tableCount)
	}
}

func TestTestDB_ForeignKeysSeeded(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	var fkCount int
	err := testDB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE constraint_type = 'FOREIGN KEY' AND table_schema = 'public'`).
		Scan(&fkCount)
	if err != nil {
		t.Fatalf("failed to count foreign keys: %v", err)
	}

	if fkCount != 3 {
		t.Errorf("expected 3 foreign keys in sample schema, got %d", fkCount)
	}
}
