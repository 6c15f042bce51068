package diagrams

// Diagram type names. Each names one registered strategy.
const (
	TypeDatabaseTables             = "database_tables"
	TypeDatabaseTablesInferred     = "database_tables_inferred"
	TypeModelAssociations          = "model_associations"
	TypeModelAssociationsFlowchart = "model_associations_flowchart"
)

// Strategy pairs an analyzer with the builder that renders its output, under
// a stable diagram type name.
type Strategy struct {
	Name        string
	DisplayName string
	Description string
	Analyzer    Analyzer
	Builder     Builder
}
