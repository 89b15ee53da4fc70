package ai

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidRequest marks a ChatRequest that failed validation.
var ErrInvalidRequest = errors.New("invalid chat request")

// ChatRequest is the backend-agnostic request shape. Build it with
// NewChatRequest; the zero value is not valid.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

type RequestOption func(*ChatRequest)

func WithTemperature(t float64) RequestOption {
	return func(r *ChatRequest) { r.Temperature = &t }
}

func WithMaxTokens(n int) RequestOption {
	return func(r *ChatRequest) { r.MaxTokens = &n }
}

// NewChatRequest copies messages, applies opts and validates the result.
func NewChatRequest(model string, messages []Message, opts ...RequestOption) (ChatRequest, error) {
	req := ChatRequest{
		Model:    strings.TrimSpace(model),
		Messages: append([]Message(nil), messages...),
	}
	for _, opt := range opts {
		opt(&req)
	}

	if req.Model == "" {
		return ChatRequest{}, errors.Wrap(ErrInvalidRequest, "model is empty")
	}
	if len(req.Messages) == 0 {
		return ChatRequest{}, errors.Wrap(ErrInvalidRequest, "no messages")
	}
	for i, m := range req.Messages {
		if m.Role == "" {
			return ChatRequest{}, errors.Wrapf(ErrInvalidRequest, "message %d has no role", i)
		}
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return ChatRequest{}, errors.Wrapf(ErrInvalidRequest, "temperature %v out of range [0,2]", *req.Temperature)
	}
	if req.MaxTokens != nil && *req.MaxTokens <= 0 {
		return ChatRequest{}, errors.Wrapf(ErrInvalidRequest, "max tokens %d must be positive", *req.MaxTokens)
	}

	return req, nil
}

// withModel returns a copy of r targeting model.
func (r ChatRequest) withModel(model string) ChatRequest {
	r.Model = model
	return r
}
