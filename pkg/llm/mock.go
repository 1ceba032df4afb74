package llm

import "context"

// CompleteCall records a single Complete invocation for test verification.
type CompleteCall struct {
	SystemPrompt string
	Messages     []Message
}

// MockClient is a configurable mock for testing LLM functionality.
// Set the function fields to control behavior in tests.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns an empty string and nil error.
	CompleteFunc func(ctx context.Context, systemPrompt string, messages []Message) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	CompleteCalls []CompleteCall
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ModelName: "mock-model",
	}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	m.CompleteCalls = append(m.CompleteCalls, CompleteCall{
		SystemPrompt: systemPrompt,
		Messages:     messages,
	})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, messages)
	}
	return "", nil
}

// Model implements Client.
func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Reset clears call tracking.
func (m *MockClient) Reset() {
	m.CompleteCalls = nil
}

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
