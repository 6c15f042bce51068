package schemasource

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ekaya-inc/diagram-engine/pkg/observability"
)

// Instrument wraps a SchemaIntrospector so every discovery call is timed in
// Prometheus, labeled by operation.
func Instrument(next SchemaIntrospector) SchemaIntrospector {
	return &instrumentedIntrospector{next: next}
}

type instrumentedIntrospector struct {
	next SchemaIntrospector
}

func (i *instrumentedIntrospector) DiscoverTables(ctx context.Context) ([]TableMetadata, error) {
	timer := prometheus.NewTimer(observability.SchemaDiscoveryDuration.WithLabelValues("tables"))
	defer timer.ObserveDuration()
	return i.next.DiscoverTables(ctx)
}

func (i *instrumentedIntrospector) DiscoverColumns(ctx context.Context, schemaName, tableName string) ([]ColumnMetadata, error) {
	timer := prometheus.NewTimer(observability.SchemaDiscoveryDuration.WithLabelValues("columns"))
	defer timer.ObserveDuration()
	return i.next.DiscoverColumns(ctx, schemaName, tableName)
}

func (i *instrumentedIntrospector) DiscoverForeignKeys(ctx context.Context) ([]ForeignKeyMetadata, error) {
	timer := prometheus.NewTimer(observability.SchemaDiscoveryDuration.WithLabelValues("foreign_keys"))
	defer timer.ObserveDuration()
	return i.next.DiscoverForeignKeys(ctx)
}

func (i *instrumentedIntrospector) SupportsForeignKeys() bool {
	return i.next.SupportsForeignKeys()
}

func (i *instrumentedIntrospector) Close() error {
	return i.next.Close()
}

var _ SchemaIntrospector = (*instrumentedIntrospector)(nil)
