package chat

import (
	"context"

	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

// EmptyReply stands in for a backend reply with no text.
const EmptyReply = "（空回复）"

// Templates serves the current prompt spec.
type Templates interface {
	Load() (*prompt.Spec, error)
}

// Service answers one chat turn. payload is nil when the input was plain text;
// raw is the input as received.
type Service interface {
	Reply(ctx context.Context, payload prompt.Payload, raw string) (string, error)
}

type replyBody struct {
	Reply string `json:"reply"`
}
