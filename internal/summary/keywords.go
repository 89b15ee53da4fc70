package summary

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
)

const maxKeywords = 3

var keywordDelims = regexp.MustCompile(`[,，/|\s]+`)

// CleanKeywords keeps at most three tokens of s, comma-joined.
func CleanKeywords(s string) string {
	tokens := lo.Map(keywordDelims.Split(cleanText(s, true), -1), func(t string, _ int) string {
		return strings.Trim(t, "\"'“”‘’。.、;；:：")
	})
	tokens = lo.Compact(tokens)
	if len(tokens) > maxKeywords {
		tokens = tokens[:maxKeywords]
	}
	return strings.Join(tokens, ",")
}

// Backfiller asks the model for keywords the summary came back without.
type Backfiller struct {
	ai     ai.AI
	logger *log.Logger
}

func NewBackfiller(aiClient ai.AI, logger *log.Logger) *Backfiller {
	return &Backfiller{ai: aiClient, logger: logger}
}

var keywordKinds = map[string]string{
	FieldMoodKeywords:   "情绪",
	FieldActionKeywords: "行动",
}

const keywordSystemPrompt = "你是关键词提取助手。只输出关键词，不要解释。"

// Keywords makes one minimal call for field. Failures are logged and give "".
func (b *Backfiller) Keywords(ctx context.Context, model, field, article string) string {
	kind, ok := keywordKinds[field]
	if !ok || strings.TrimSpace(article) == "" {
		return ""
	}

	req, err := ai.NewChatRequest(model, []ai.Message{
		{Role: ai.RoleSystem, Content: keywordSystemPrompt},
		{Role: ai.RoleUser, Content: fmt.Sprintf(
			"请根据下面的内容给出恰好三个%s关键词，用逗号分隔：\n%s", kind, truncateRunes(article, 800),
		)},
	}, ai.WithTemperature(0.2), ai.WithMaxTokens(32))
	if err != nil {
		b.logger.Warn("[summary] keyword request invalid", "field", field, "err", err)
		return ""
	}

	raw, err := b.ai.GetReply(ctx, req)
	if err != nil {
		b.logger.Warn("[summary] keyword backfill failed", "field", field, "err", err)
		return ""
	}
	return CleanKeywords(raw)
}
