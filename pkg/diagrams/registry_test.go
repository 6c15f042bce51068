package diagrams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(RegistryDeps{
		SchemaSource:  blogSchema(),
		ModelProvider: NewStaticModelProvider(blogModels()),
	})
}

func TestNewRegistry(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Equal(t, []string{
		TypeDatabaseTables,
		TypeDatabaseTablesInferred,
		TypeModelAssociations,
		TypeModelAssociationsFlowchart,
	}, registry.Names())
	assert.Equal(t, TypeDatabaseTables, registry.DefaultType())

	for _, name := range registry.Names() {
		s, ok := registry.Resolve(name)
		require.True(t, ok, name)
		assert.Equal(t, name, s.Name)
		assert.NotNil(t, s.Analyzer, name)
		assert.NotNil(t, s.Builder, name)
		assert.NotEmpty(t, s.DisplayName, name)
		assert.NotEmpty(t, s.Description, name)
	}

	_, ok := registry.Resolve("unknown")
	assert.False(t, ok)
}

func TestNewRegistryDefaultType(t *testing.T) {
	registry := NewRegistry(RegistryDeps{
		SchemaSource: schemasource.NewMemory(),
		DefaultType:  TypeModelAssociations,
	})
	assert.Equal(t, TypeModelAssociations, registry.DefaultType())

	// unknown default falls back to the first strategy
	registry = NewRegistry(RegistryDeps{
		SchemaSource: schemasource.NewMemory(),
		DefaultType:  "bogus",
	})
	assert.Equal(t, TypeDatabaseTables, registry.DefaultType())
}

func TestRegistryNormalize(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Equal(t, TypeModelAssociations, registry.Normalize(TypeModelAssociations))
	assert.Equal(t, TypeDatabaseTables, registry.Normalize(""))
	assert.Equal(t, TypeDatabaseTables, registry.Normalize("no_such_diagram"))
}

func TestRegistryTypeList(t *testing.T) {
	registry := newTestRegistry(t)

	list := registry.TypeList()
	require.Len(t, list.Types, 4)
	assert.Equal(t, TypeDatabaseTables, list.DefaultType)

	defaults := 0
	for _, info := range list.Types {
		if info.Default {
			defaults++
			assert.Equal(t, TypeDatabaseTables, info.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestRegistrySuggest(t *testing.T) {
	registry := newTestRegistry(t)

	suggestion, ok := registry.Suggest("database_table")
	require.True(t, ok)
	assert.Equal(t, TypeDatabaseTables, suggestion)

	suggestion, ok = registry.Suggest("model_assocations")
	require.True(t, ok)
	assert.Equal(t, TypeModelAssociations, suggestion)

	_, ok = registry.Suggest("completely unrelated")
	assert.False(t, ok)
}

func TestNewRegistryWithStrategies(t *testing.T) {
	registry := NewRegistryWithStrategies("", nil,
		Strategy{Name: "first"},
		Strategy{Name: "second"},
		Strategy{Name: "first"},
	)

	assert.Equal(t, []string{"first", "second"}, registry.Names())
	assert.Equal(t, "first", registry.DefaultType())
	assert.Equal(t, "first", registry.Normalize("missing"))
}
