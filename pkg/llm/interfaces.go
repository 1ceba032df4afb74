// Package llm provides clients for hosted LLM chat-completion endpoints.
package llm

import "context"

// Role identifies the author of an LLM message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message sent to the LLM.
type Message struct {
	Role    Role
	Content string
}

// Client defines the interface for LLM completion calls.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete sends the system prompt and ordered messages to the model
	// and returns the raw response text. The call blocks until the model
	// responds or the context is done.
	Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error)

	// Model returns the configured model name.
	Model() string
}
