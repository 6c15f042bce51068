package mssql

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/diagram-engine/pkg/adapters/schemasource"
)

func init() {
	schemasource.Register(schemasource.DriverRegistration{
		Info: schemasource.DriverInfo{
			Type:        "mssql",
			DisplayName: "Microsoft SQL Server",
			Description: "Schema introspection for SQL Server 2017+ and Azure SQL",
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
