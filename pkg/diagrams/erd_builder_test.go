package diagrams

import (
	"errors"
	"strings"
	"testing"

	"github.com/ekaya-inc/diagram-engine/pkg/apperrors"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

func erdDataset() *models.Dataset {
	dataset := models.NewDataset()
	dataset.AddEntity(models.Entity{
		ID:   "users",
		Name: "users",
		Kind: models.EntityKindTable,
		Attributes: []models.Attribute{
			{Name: "id", Type: "bigint", PrimaryKey: true},
			{Name: "email", Type: "varchar(255)"},
		},
	})
	dataset.AddEntity(models.Entity{
		ID:   "posts",
		Name: "posts",
		Kind: models.EntityKindTable,
		Attributes: []models.Attribute{
			{Name: "id", Type: "bigint", PrimaryKey: true},
			{Name: "user_id", Type: "bigint", ForeignKey: true},
		},
	})
	dataset.AddRelationship(models.Relationship{
		SourceID:    "posts",
		TargetID:    "users",
		Type:        models.RelationshipTypeForeignKey,
		Label:       "user_id",
		Cardinality: models.CardinalityManyToOne,
	})
	return dataset
}

func TestERDBuilder(t *testing.T) {
	builder := NewERDBuilder(DefaultBuilderConfig())

	if builder.Name() != BuilderEntityRelationship {
		t.Errorf("Name() = %q, want %q", builder.Name(), BuilderEntityRelationship)
	}

	got, err := builder.BuildFromDataset(erdDataset())
	if err != nil {
		t.Fatalf("BuildFromDataset failed: %v", err)
	}

	want := strings.Join([]string{
		"erDiagram",
		"    users {",
		"        bigint id PK",
		"        varchar_255 email",
		"    }",
		"    posts {",
		"        bigint id PK",
		"        bigint user_id FK",
		"    }",
		"",
		"    posts }o--|| users : \"user_id\"",
	}, "\n")
	if got != want {
		t.Errorf("diagram mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestERDBuilderCombinedKeys(t *testing.T) {
	dataset := models.NewDataset()
	dataset.AddEntity(models.Entity{
		ID: "memberships",
		Attributes: []models.Attribute{
			{Name: "user_id", Type: "bigint", PrimaryKey: true, ForeignKey: true},
		},
	})

	got, err := NewERDBuilder(DefaultBuilderConfig()).BuildFromDataset(dataset)
	if err != nil {
		t.Fatalf("BuildFromDataset failed: %v", err)
	}
	if !strings.Contains(got, "bigint user_id PK,FK") {
		t.Errorf("expected combined PK,FK tag, got:\n%s", got)
	}
}

func TestERDBuilderWithoutAttributes(t *testing.T) {
	config := DefaultBuilderConfig()
	config.ShowAttributes = false

	got, err := NewERDBuilder(config).BuildFromDataset(erdDataset())
	if err != nil {
		t.Fatalf("BuildFromDataset failed: %v", err)
	}

	want := strings.Join([]string{
		"erDiagram",
		"    users",
		"    posts",
		"",
		"    posts }o--|| users : \"user_id\"",
	}, "\n")
	if got != want {
		t.Errorf("diagram mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestERDBuilderSkipsPlaceholders(t *testing.T) {
	dataset := models.NewDataset()
	dataset.AddEntity(models.Entity{ID: "audit_logs"})
	dataset.AddRelationship(models.Relationship{
		SourceID: "audit_logs",
		Type:     models.RelationshipTypeNodeOnly,
	})

	got, err := NewERDBuilder(DefaultBuilderConfig()).BuildFromDataset(dataset)
	if err != nil {
		t.Fatalf("BuildFromDataset failed: %v", err)
	}
	want := "erDiagram\n    audit_logs"
	if got != want {
		t.Errorf("diagram mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestERDBuilderEmptyDataset(t *testing.T) {
	builder := NewERDBuilder(DefaultBuilderConfig())

	got, err := builder.BuildFromDataset(models.NewDataset())
	if err != nil {
		t.Fatalf("BuildFromDataset failed: %v", err)
	}
	if got != "erDiagram" {
		t.Errorf("got %q, want bare header", got)
	}

	got, err = builder.BuildFromDataset(nil)
	if err != nil {
		t.Fatalf("BuildFromDataset(nil) failed: %v", err)
	}
	if got != "erDiagram" {
		t.Errorf("got %q, want bare header", got)
	}
}

func TestERDBuilderDanglingRelationship(t *testing.T) {
	dataset := models.NewDataset()
	dataset.AddEntity(models.Entity{ID: "posts"})
	dataset.AddRelationship(models.Relationship{
		SourceID:    "posts",
		TargetID:    "users",
		Type:        models.RelationshipTypeForeignKey,
		Cardinality: models.CardinalityManyToOne,
	})

	_, err := NewERDBuilder(DefaultBuilderConfig()).BuildFromDataset(dataset)
	if !errors.Is(err, apperrors.ErrMissingEntity) {
		t.Errorf("expected ErrMissingEntity, got %v", err)
	}
}

func TestERDBuilderBuildEmpty(t *testing.T) {
	builder := NewERDBuilder(DefaultBuilderConfig())

	want := strings.Join([]string{
		"erDiagram",
		"    EMPTY_STATE {",
		"        string message \"No tables found\"",
		"    }",
	}, "\n")
	if got := builder.BuildEmpty("No tables found"); got != want {
		t.Errorf("BuildEmpty mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}

	if got := builder.BuildEmpty(""); !strings.Contains(got, "No data available") {
		t.Errorf("blank message should fall back to a default, got:\n%s", got)
	}

	// a double quote in the message must arrive escaped, not bare
	if got := builder.BuildEmpty(`session "42" is empty`); !strings.Contains(got, `session \"42\" is empty`) {
		t.Errorf("message quotes should be escaped, got:\n%s", got)
	}
}
