package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
)

func init() {
	schemasource.Register(schemasource.DriverRegistration{
		Info: schemasource.DriverInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "Schema introspection for PostgreSQL 12+, Aurora PostgreSQL, Supabase",
		},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (schemasource.SchemaIntrospector, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewIntrospector(ctx, cfg, logger)
		},
	})
}
