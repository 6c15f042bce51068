package diagrams

import "github.com/ekaya-inc/diagram-engine/pkg/models"

// Scope restricts an analyzer to a set of table names. The zero value is an
// empty scope that includes nothing; use GlobalScope for unrestricted
// analysis. A session that touched no tables yields an empty scope, which
// analyzers turn into an empty dataset rather than an error.
type Scope struct {
	global  bool
	tables  map[string]struct{}
	ordered []string
}

// GlobalScope includes every table.
func GlobalScope() Scope {
	return Scope{global: true}
}

// NewScope builds a scope from table names, deduplicating while preserving
// first-seen order.
func NewScope(tables []string) Scope {
	s := Scope{tables: make(map[string]struct{}, len(tables))}
	for _, t := range tables {
		if t == "" {
			continue
		}
		if _, ok := s.tables[t]; ok {
			continue
		}
		s.tables[t] = struct{}{}
		s.ordered = append(s.ordered, t)
	}
	return s
}

// ScopeFromSession builds a scope from the tables a session touched.
func ScopeFromSession(session *models.Session) Scope {
	if session == nil {
		return NewScope(nil)
	}
	return NewScope(session.TablesTouched())
}

// Global reports whether the scope includes every table.
func (s Scope) Global() bool {
	return s.global
}

// Includes reports whether a table is in scope.
func (s Scope) Includes(table string) bool {
	if s.global {
		return true
	}
	_, ok := s.tables[table]
	return ok
}

// Tables returns the scoped table names in first-seen order. Global scopes
// return nil.
func (s Scope) Tables() []string {
	if s.global {
		return nil
	}
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Empty reports whether a non-global scope includes no tables at all.
func (s Scope) Empty() bool {
	return !s.global && len(s.ordered) == 0
}
