package schemasource

import (
	"context"

	"go.uber.org/zap"
)

func init() {
	Register(DriverRegistration{
		Info: DriverInfo{
			Type:        "memory",
			DisplayName: "In-Memory",
			Description: "Schema metadata held by the embedding application; no database connection",
		},
		Factory: func(_ context.Context, _ map[string]any, _ *zap.Logger) (SchemaIntrospector, error) {
			// The factory hands out an empty source; applications that
			// want seeded tables construct NewMemory directly and inject
			// it instead of going through the registry.
			return NewMemory(), nil
		},
	})
}
