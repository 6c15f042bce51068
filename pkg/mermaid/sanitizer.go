// Package mermaid provides pure string helpers for emitting Mermaid markup:
// identifier sanitization and cardinality notation lookup. Everything here is
// total; no function errors or panics on any input.
package mermaid

import (
	"strings"
)

const (
	// FallbackClassName is returned for empty class, display, and node names.
	FallbackClassName = "UnknownClass"
	// FallbackTableName is returned for empty table names.
	FallbackTableName = "unknown_table"
	// FallbackMethodName is the identifier used for empty method names.
	FallbackMethodName = "method"
	// FallbackAttributeType is returned when a type token sanitizes to nothing.
	FallbackAttributeType = "string"
)

// ClassName converts a possibly namespaced class name into an identifier that
// is safe as a diagram node id: every character outside [A-Za-z0-9_] becomes
// an underscore, so the "::" separator in Admin::User renders as Admin__User.
// Already-sanitized input passes through unchanged.
func ClassName(raw string) string {
	s := underscoreNonWord(strings.TrimSpace(raw))
	if s == "" {
		return FallbackClassName
	}
	return s
}

// DisplayName returns the human-facing label for a class. Unlike ClassName
// the name is kept intact, namespace separators included; only an empty name
// falls back.
func DisplayName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return FallbackClassName
	}
	return raw
}

// NodeName is ClassName under a name that reads naturally in flowchart node
// contexts.
func NodeName(raw string) string {
	return ClassName(raw)
}

// TableName keeps a table name's case (tables are case-sensitive identifiers
// in the diagram) and replaces anything outside [A-Za-z0-9_] with an
// underscore.
func TableName(raw string) string {
	s := underscoreNonWord(strings.TrimSpace(raw))
	if s == "" {
		return FallbackTableName
	}
	return s
}

// Label makes free text safe inside a quoted Mermaid edge or relationship
// label: backslashes are doubled, embedded double quotes get a backslash
// escape, and newlines collapse to single spaces. Empty input stays empty.
func Label(raw string) string {
	s := strings.ReplaceAll(raw, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// MethodName sanitizes a method name with the same character rule as
// ClassName and guarantees a trailing call marker: save! becomes save_(),
// save() stays save().
func MethodName(raw string) string {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "()")
	s = underscoreNonWord(s)
	if s == "" {
		s = FallbackMethodName
	}
	return s + "()"
}

// AttributeType flattens a column type into a bare identifier for ER
// attribute lines. Precision and scale move into the name, so numeric(10,2)
// becomes numeric_10_2; trailing underscores left by closing punctuation are
// stripped.
func AttributeType(raw string) string {
	s := underscoreNonWord(strings.TrimSpace(raw))
	s = strings.TrimRight(s, "_")
	if s == "" {
		return FallbackAttributeType
	}
	return s
}

func underscoreNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
