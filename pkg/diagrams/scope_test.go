package diagrams

import (
	"reflect"
	"testing"
	"time"

	"github.com/ekaya-inc/diagram-engine/pkg/models"
)

func TestGlobalScope(t *testing.T) {
	s := GlobalScope()

	if !s.Global() {
		t.Error("expected Global() to be true")
	}
	if s.Empty() {
		t.Error("global scope should not be empty")
	}
	if !s.Includes("anything") {
		t.Error("global scope should include any table")
	}
	if s.Tables() != nil {
		t.Errorf("expected nil table list, got %v", s.Tables())
	}
}

func TestNewScope(t *testing.T) {
	s := NewScope([]string{"users", "posts", "users", "", "comments"})

	want := []string{"users", "posts", "comments"}
	if got := s.Tables(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tables() = %v, want %v", got, want)
	}
	if s.Global() {
		t.Error("explicit scope should not be global")
	}
	if !s.Includes("posts") {
		t.Error("expected posts in scope")
	}
	if s.Includes("orders") {
		t.Error("orders should not be in scope")
	}
}

func TestScopeZeroValue(t *testing.T) {
	var s Scope

	if s.Global() {
		t.Error("zero scope should not be global")
	}
	if !s.Empty() {
		t.Error("zero scope should be empty")
	}
	if s.Includes("users") {
		t.Error("zero scope should include nothing")
	}
}

func TestScopeFromSession(t *testing.T) {
	session := &models.Session{
		ID:        "sess-1",
		StartedAt: time.Now(),
		Changes: []models.ChangeRecord{
			{TableName: "posts", Operation: models.OperationInsert},
			{TableName: "users", Operation: models.OperationUpdate},
			{TableName: "posts", Operation: models.OperationDelete},
		},
	}

	s := ScopeFromSession(session)
	want := []string{"posts", "users"}
	if got := s.Tables(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tables() = %v, want %v", got, want)
	}

	empty := ScopeFromSession(&models.Session{ID: "sess-2", StartedAt: time.Now()})
	if !empty.Empty() {
		t.Error("session without changes should yield an empty scope")
	}

	if !ScopeFromSession(nil).Empty() {
		t.Error("nil session should yield an empty scope")
	}
}
