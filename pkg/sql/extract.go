// Package sql classifies LLM responses as SQL or prose and normalizes
// extracted statements.
package sql

import "strings"

// ExtractQuery inspects a raw LLM response and, when it looks like a SQL
// query, returns the normalized statement ready for execution.
//
// Classification happens in two steps:
//  1. The response must contain the case-insensitive substring "SELECT".
//     This mirrors the prompt contract (the model is instructed to return
//     bare SQL), so prose that merely mentions "select" can pass this step.
//  2. After stripping markdown code fences, the remainder must be a single
//     statement whose first keyword is SELECT or WITH. Responses that
//     contain "SELECT" buried in explanatory text fail here and are
//     treated as prose.
//
// The second return value is false when the response should be shown to
// the user as an explanatory answer instead of being executed.
func ExtractQuery(response string) (string, bool) {
	if !strings.Contains(strings.ToUpper(response), "SELECT") {
		return "", false
	}

	normalized := stripTrailingSemicolon(StripFences(response))
	if normalized == "" {
		return "", false
	}

	// A second statement means this is not the bare single query the
	// prompt asks for.
	if hasSemicolonOutsideStrings(normalized) {
		return "", false
	}

	if !startsWithSelect(normalized) {
		return "", false
	}

	return normalized, true
}

// StripFences removes markdown code-fence markers from a response.
// Removal is substring-based, matching literal ```sql and ``` markers,
// not a structural markdown parse.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// startsWithSelect reports whether the first keyword of the statement is
// SELECT, or WITH for CTE-prefixed queries.
func startsWithSelect(sqlQuery string) bool {
	fields := strings.Fields(sqlQuery)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "WITH":
		return true
	}
	return false
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handles both backslash escape (\') and SQL standard escape ('').
			// For a doubled quote this exits and immediately re-enters on the
			// next quote, which correctly keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimSpace(sqlQuery)
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
