package models

// ChatRole identifies the author of a conversation message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Message is a single conversation turn. Ordering is chronological and
// messages are never mutated after they are appended to a conversation.
type Message struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
