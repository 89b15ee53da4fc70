package ai

import "context"

// AI is an LLM backend. It knows nothing about templates or transports.
type AI interface {
	GetReply(ctx context.Context, req ChatRequest) (string, error)
}

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant" | "context"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleContext   = "context"
)

// wireRole maps template-only roles onto roles both vendors accept.
func wireRole(role string) string {
	if role == RoleContext || role == "" {
		return RoleSystem
	}
	return role
}
