package summary

import (
	"context"

	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

// EmptyReply marks an article the model never produced.
const EmptyReply = "（空回复）"

// Result is the summarization output contract.
type Result struct {
	Article        string `json:"article"`
	MoodKeywords   string `json:"moodKeywords"`
	ActionKeywords string `json:"actionKeywords"`
	ArticleTitle   string `json:"articleTitle"`
	Model          string `json:"model"`
	TokenUsageJSON string `json:"tokenUsageJson"`
}

// Templates serves the current prompt spec.
type Templates interface {
	Load() (*prompt.Spec, error)
}

// Service is the summarization pipeline.
type Service interface {
	Summarize(ctx context.Context, payload prompt.Payload) (Result, error)
}
