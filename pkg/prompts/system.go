// Package prompts builds the system and repair prompts sent to the LLM.
package prompts

import (
	"fmt"
	"time"
)

// BuildSystemPrompt creates the system prompt that tells the model how to
// behave. It embeds the warehouse schema description, the target SQL
// dialect, the catalog.schema prefix for fully qualified names, and the
// current date.
//
// The numbered rules are a contract with the model, not code: rule 6
// (no markdown wrapper) is what the downstream extraction step depends on,
// so changing it requires a matching change in pkg/sql.
func BuildSystemPrompt(schemaContext, dialect, tablePrefix string, now time.Time) string {
	return fmt.Sprintf(`You are a data analytics assistant with access to a retail analytics database.

%s

Your task is to help users query and analyze this data by generating SQL queries.

IMPORTANT RULES:
1. Generate ONLY valid SQL queries for %s
2. Use fully qualified table names: %s.tablename
3. When results are empty (0 rows), explain what might be missing rather than suggesting to check the database
4. For follow-up questions like "filter those" or "show their average", use context from previous queries
5. Always use proper SQL syntax with appropriate JOINs when querying multiple tables
6. Return ONLY the SQL query, no explanations or markdown formatting
7. If the question cannot be answered with the available data, explain why

Current date: %s
`, schemaContext, dialect, tablePrefix, now.Format("2006-01-02"))
}

// BuildRepairPrompt creates the one-shot correction request for a failed
// query. It includes the failed SQL verbatim, the original question, and a
// short list of known dialect gotchas as repair hints.
func BuildRepairPrompt(failedSQL, originalQuestion, dialect string) string {
	return fmt.Sprintf("The following SQL query failed to execute:\n"+
		"```sql\n%s\n```\n\n"+
		"Original question: %q\n\n"+
		"Common issues in %s:\n"+
		"- DATE_TRUNC() syntax differs between dialects\n"+
		"- Some aggregate functions have different parameter orders\n"+
		"- String functions may have different names\n\n"+
		"Please provide a CORRECTED SQL query that will work in %s.\n"+
		"Return ONLY the corrected SQL query, no explanations.",
		failedSQL, originalQuestion, dialect, dialect)
}
