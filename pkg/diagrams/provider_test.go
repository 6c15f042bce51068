package diagrams

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

func TestStaticModelProviderCopies(t *testing.T) {
	descriptors := []models.ModelDescriptor{{ClassName: "User", TableName: "users"}}
	provider := NewStaticModelProvider(descriptors)

	got, err := provider.Models(context.Background())
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	got[0].ClassName = "Mutated"

	again, _ := provider.Models(context.Background())
	if again[0].ClassName != "User" {
		t.Error("provider should hand out copies, not the backing slice")
	}
}

func TestFileModelProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yml")
	content := `models:
  - class_name: User
    table_name: users
    columns:
      - name: id
        type: bigint
    associations:
      - kind: has_many
        name: posts
        target_table: posts
  - class_name: Post
    table_name: posts
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	provider := NewFileModelProvider(path)
	descriptors, err := provider.Models(context.Background())
	if err != nil {
		t.Fatalf("Models failed: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}
	if descriptors[0].ClassName != "User" {
		t.Errorf("class = %q, want User", descriptors[0].ClassName)
	}
	if len(descriptors[0].Associations) != 1 {
		t.Errorf("associations = %d, want 1", len(descriptors[0].Associations))
	}
}

func TestFileModelProviderEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yml")
	if err := os.WriteFile(path, []byte("models: []\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := NewFileModelProvider(path).Models(context.Background())
	if !errors.Is(err, apperrors.ErrNoModels) {
		t.Errorf("expected ErrNoModels, got %v", err)
	}
}

func TestFileModelProviderMissingFile(t *testing.T) {
	provider := NewFileModelProvider(filepath.Join(t.TempDir(), "absent.yml"))

	if _, err := provider.Models(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
