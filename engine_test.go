package diagramengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
	"github.com/ekaya-inc/diagram-engine/pkg/cache"
	"github.com/ekaya-inc/diagram-engine/pkg/config"
	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

const descriptorYAML = `models:
  - class_name: User
    table_name: users
    columns:
      - name: id
        type: bigint
      - name: name
        type: string
    associations:
      - kind: has_many
        name: posts
        target_table: posts
  - class_name: Post
    table_name: posts
    associations:
      - kind: belongs_to
        name: user
        target_table: users
`

type mapSessions map[string]*models.Session

func (m mapSessions) Session(_ context.Context, id string) (*models.Session, error) {
	return m[id], nil
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "test")
	require.NoError(t, err)
	return cfg
}

func blogSchemaSource() *schemasource.Memory {
	return schemasource.NewMemory().
		AddTable("users",
			schemasource.PrimaryKey("id", "bigint"),
			schemasource.Column("name", "character varying")).
		AddTable("posts",
			schemasource.PrimaryKey("id", "bigint"),
			schemasource.Column("user_id", "bigint")).
		AddForeignKey("fk_posts_user", "posts", "user_id", "users", "id")
}

func TestNewValidatesInputs(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, nil, Options{Sessions: mapSessions{}})
	require.Error(t, err)

	_, err = New(ctx, defaultConfig(t), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session provider")
}

func TestEngineEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig(t)

	descriptorPath := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(descriptorPath, []byte(descriptorYAML), 0o644))
	cfg.Models.DescriptorPath = descriptorPath

	sessions := mapSessions{"s1": {ID: "s1", Changes: []models.ChangeRecord{
		{TableName: "users", Operation: models.OperationInsert, Timestamp: time.Now()},
		{TableName: "posts", Operation: models.OperationUpdate, Timestamp: time.Now()},
	}}}

	engine, err := New(ctx, cfg, Options{
		Sessions:     sessions,
		SchemaSource: blogSchemaSource(),
		Logger:       zap.NewNop(),
	})
	require.NoError(t, err)

	svc := engine.Diagrams()

	result, err := svc.GetDiagram(ctx, "s1", "", false)
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Contains(t, *result.Content, "erDiagram")
	assert.Contains(t, *result.Content, "posts }o--|| users")
	assert.Equal(t, "miss", result.Metadata["cache"])

	again, err := svc.GetDiagram(ctx, "s1", "", false)
	require.NoError(t, err)
	assert.Equal(t, "hit", again.Metadata["cache"], "default config caches in memory")

	classes := svc.GetGlobalDiagram(ctx, "model_associations")
	require.True(t, classes.OK())
	assert.Contains(t, *classes.Content, "classDiagram")
	assert.Contains(t, *classes.Content, "class User")

	types := svc.ListDiagramTypes()
	assert.Equal(t, "database_tables", types.DefaultType)
	assert.Len(t, types.Types, 4)

	require.NoError(t, engine.Close())
}

type closeCountingStore struct {
	cache.Store
	closed int
}

func (s *closeCountingStore) Close() error {
	s.closed++
	return s.Store.Close()
}

func TestEngineKeepsInjectedDepsOpen(t *testing.T) {
	ctx := context.Background()
	store := &closeCountingStore{Store: cache.NewMemoryStore(0)}

	engine, err := New(ctx, defaultConfig(t), Options{
		Sessions:     mapSessions{},
		SchemaSource: blogSchemaSource(),
		Store:        store,
		Logger:       zap.NewNop(),
	})
	require.NoError(t, err)

	require.NoError(t, engine.Close())
	assert.Zero(t, store.closed, "the caller owns injected stores")
}
