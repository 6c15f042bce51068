package mermaid

import "testing"

func TestClassName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain class", input: "User", expected: "User"},
		{name: "namespaced class", input: "Admin::User", expected: "Admin__User"},
		{name: "deeply namespaced", input: "A::B::C", expected: "A__B__C"},
		{name: "special characters underscored", input: "User<Record>", expected: "User_Record_"},
		{name: "space underscored", input: "My Class", expected: "My_Class"},
		{name: "symbols only keep their width", input: "!!!", expected: "___"},
		{name: "empty falls back", input: "", expected: "UnknownClass"},
		{name: "blank falls back", input: "   ", expected: "UnknownClass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassName(tt.input); got != tt.expected {
				t.Errorf("ClassName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClassNameIdempotent(t *testing.T) {
	inputs := []string{"User", "Admin::User", "My Class", "save!", "!!!", ""}
	for _, input := range inputs {
		once := ClassName(input)
		if twice := ClassName(once); twice != once {
			t.Errorf("ClassName(ClassName(%q)) = %q, want fixed point %q", input, twice, once)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain class", input: "User", expected: "User"},
		{name: "namespace preserved", input: "Admin::User", expected: "Admin::User"},
		{name: "deep namespace preserved", input: "A::B::C", expected: "A::B::C"},
		{name: "punctuation preserved", input: "User!", expected: "User!"},
		{name: "empty falls back", input: "", expected: "UnknownClass"},
		{name: "blank falls back", input: "   ", expected: "UnknownClass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNodeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "case preserved", input: "Users", expected: "Users"},
		{name: "namespace to double underscore", input: "Admin::User", expected: "Admin__User"},
		{name: "dash underscored", input: "my-node", expected: "my_node"},
		{name: "empty falls back", input: "", expected: "UnknownClass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NodeName(tt.input); got != tt.expected {
				t.Errorf("NodeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already clean", input: "users", expected: "users"},
		{name: "case preserved", input: "Users", expected: "Users"},
		{name: "trimmed", input: "  Users  ", expected: "Users"},
		{name: "quotes underscored", input: `"users"`, expected: "_users_"},
		{name: "dash underscored", input: "user-accounts", expected: "user_accounts"},
		{name: "empty falls back", input: "", expected: "unknown_table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TableName(tt.input); got != tt.expected {
				t.Errorf("TableName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain label", input: "has many", expected: "has many"},
		{name: "double quotes escaped", input: `say "hi"`, expected: `say \"hi\"`},
		{name: "backslash doubled", input: `C:\tmp`, expected: `C:\\tmp`},
		{name: "backslash before quote", input: `\"`, expected: `\\\"`},
		{name: "newlines become spaces", input: "line1\nline2", expected: "line1 line2"},
		{name: "crlf becomes one space", input: "line1\r\nline2", expected: "line1 line2"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.input); got != tt.expected {
				t.Errorf("Label(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "parens appended", input: "full_name", expected: "full_name()"},
		{name: "existing parens kept", input: "full_name()", expected: "full_name()"},
		{name: "predicate marker underscored", input: "valid?", expected: "valid_()"},
		{name: "bang marker underscored", input: "save!", expected: "save_()"},
		{name: "empty falls back", input: "", expected: "method()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MethodName(tt.input); got != tt.expected {
				t.Errorf("MethodName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAttributeType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain type", input: "bigint", expected: "bigint"},
		{name: "size flattened", input: "varchar(255)", expected: "varchar_255"},
		{name: "precision and scale flattened", input: "numeric(10,2)", expected: "numeric_10_2"},
		{name: "spaces underscored", input: "timestamp without time zone", expected: "timestamp_without_time_zone"},
		{name: "empty falls back", input: "", expected: "string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttributeType(tt.input); got != tt.expected {
				t.Errorf("AttributeType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
