package models

// Chat message roles as the server reports them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one line of the assistant conversation transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
