package sql

import "testing"

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantSQL  string
		wantOK   bool
	}{
		{
			name:     "bare select",
			response: "SELECT * FROM workspace.claude.customers",
			wantSQL:  "SELECT * FROM workspace.claude.customers",
			wantOK:   true,
		},
		{
			name:     "lowercase select",
			response: "select name from workspace.claude.customers",
			wantSQL:  "select name from workspace.claude.customers",
			wantOK:   true,
		},
		{
			name:     "fenced sql block",
			response: "```sql\nSELECT name, total FROM workspace.claude.sales LIMIT 5\n```",
			wantSQL:  "SELECT name, total FROM workspace.claude.sales LIMIT 5",
			wantOK:   true,
		},
		{
			name:     "plain fence without language tag",
			response: "```\nSELECT 1\n```",
			wantSQL:  "SELECT 1",
			wantOK:   true,
		},
		{
			name:     "trailing semicolon stripped",
			response: "SELECT count(*) FROM workspace.claude.sales;",
			wantSQL:  "SELECT count(*) FROM workspace.claude.sales",
			wantOK:   true,
		},
		{
			name:     "cte query",
			response: "WITH ranked AS (SELECT 1 AS n) SELECT n FROM ranked",
			wantSQL:  "WITH ranked AS (SELECT 1 AS n) SELECT n FROM ranked",
			wantOK:   true,
		},
		{
			name:     "parenthesized select",
			response: "(SELECT 1)",
			wantSQL:  "(SELECT 1)",
			wantOK:   true,
		},
		{
			name:     "semicolon inside string literal allowed",
			response: "SELECT * FROM workspace.claude.products WHERE name = 'a;b'",
			wantSQL:  "SELECT * FROM workspace.claude.products WHERE name = 'a;b'",
			wantOK:   true,
		},
		{
			name:     "plain explanation",
			response: "I cannot answer that with the available data.",
			wantOK:   false,
		},
		{
			name:     "empty response",
			response: "",
			wantOK:   false,
		},
		{
			name:     "prose mentioning select mid-sentence",
			response: "To do that you would select the sales table and join it with customers.",
			wantOK:   false,
		},
		{
			name:     "multiple statements rejected",
			response: "SELECT 1; SELECT 2",
			wantOK:   false,
		},
		{
			name:     "non-select statement rejected",
			response: "DELETE FROM workspace.claude.sales WHERE sale_id IN (SELECT sale_id FROM workspace.claude.sales)",
			wantOK:   false,
		},
		{
			name:     "fence markers only",
			response: "```sql\n```SELECT", // degenerate, still starts with SELECT after stripping
			wantSQL:  "SELECT",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractQuery(tt.response)
			if ok != tt.wantOK {
				t.Fatalf("ExtractQuery(%q) ok = %v, want %v", tt.response, ok, tt.wantOK)
			}
			if ok && got != tt.wantSQL {
				t.Errorf("ExtractQuery(%q) = %q, want %q", tt.response, got, tt.wantSQL)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"no fence", " SELECT 1 ", "SELECT 1"},
		{"fence mid-text", "before ```sql inner``` after", "before  inner after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasSemicolonOutsideStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"no semicolon", "SELECT 1", false},
		{"bare semicolon", "SELECT 1; SELECT 2", true},
		{"inside single quotes", "SELECT 'a;b'", false},
		{"inside double quotes", `SELECT ";" FROM t`, false},
		{"after closed string", "SELECT 'a'; SELECT 2", true},
		{"doubled quote escape", "SELECT 'it''s;fine'", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasSemicolonOutsideStrings(tt.input); got != tt.want {
				t.Errorf("hasSemicolonOutsideStrings(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
