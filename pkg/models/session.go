package models

import "time"

// Change operations recorded by the tracking layer.
const (
	OperationInsert = "INSERT"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// ValidOperations contains all valid change operation values.
var ValidOperations = []string{
	OperationInsert,
	OperationUpdate,
	OperationDelete,
}

// IsValidOperation checks if an operation tag is valid.
func IsValidOperation(op string) bool {
	for _, v := range ValidOperations {
		if op == v {
			return true
		}
	}
	return false
}

// ChangeRecord is one recorded database mutation.
type ChangeRecord struct {
	TableName      string         `json:"table_name"`
	Operation      string         `json:"operation"`
	Timestamp      time.Time      `json:"timestamp"`
	RecordSnapshot map[string]any `json:"record_snapshot,omitempty"`
}

// Session is the recorded input this subsystem reads: an identifier plus the
// ordered list of changes captured while the session was active. Recording
// sessions is the tracking layer's job; here they are only consumed.
type Session struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Changes   []ChangeRecord `json:"changes"`
}

// TablesTouched returns the distinct table names in first-touch order.
func (s *Session) TablesTouched() []string {
	seen := make(map[string]struct{}, len(s.Changes))
	var tables []string
	for _, c := range s.Changes {
		if c.TableName == "" {
			continue
		}
		if _, ok := seen[c.TableName]; ok {
			continue
		}
		seen[c.TableName] = struct{}{}
		tables = append(tables, c.TableName)
	}
	return tables
}

// TableActivity summarizes a session's changes against one table.
type TableActivity struct {
	TableName  string         `json:"table_name"`
	Operations map[string]int `json:"operations"`
	Total      int            `json:"total"`
}

// TableSummary returns per-table operation counts in first-touch order.
func (s *Session) TableSummary() []TableActivity {
	index := make(map[string]int, len(s.Changes))
	var summary []TableActivity
	for _, c := range s.Changes {
		if c.TableName == "" {
			continue
		}
		i, ok := index[c.TableName]
		if !ok {
			i = len(summary)
			index[c.TableName] = i
			summary = append(summary, TableActivity{
				TableName:  c.TableName,
				Operations: map[string]int{},
			})
		}
		summary[i].Operations[c.Operation]++
		summary[i].Total++
	}
	return summary
}
