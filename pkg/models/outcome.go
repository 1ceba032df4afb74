package models

import "github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"

// AttemptOutcome is the terminal result of one question-answering cycle.
// Every path through the agent workflow ends in one of these; no error
// escapes the workflow boundary.
type AttemptOutcome struct {
	// Success is true when SQL executed and produced at least one column,
	// even if zero rows matched.
	Success bool `json:"success"`

	// SQL is the statement that was executed (or attempted), nil when the
	// LLM answered with prose instead of a query.
	SQL *string `json:"sql,omitempty"`

	// Data holds the tabular result for successful executions.
	Data *warehouse.QueryResult `json:"data,omitempty"`

	// Message is the human-readable summary shown to the user.
	Message string `json:"message"`

	// Retried is true when the one-shot repair cycle ran, regardless of
	// whether it succeeded.
	Retried bool `json:"retried"`
}
