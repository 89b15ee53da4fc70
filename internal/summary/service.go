package summary

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

const (
	summaryType        = "daily_summary"
	defaultTemperature = 0.3
)

var styleNotes = map[string]string{
	"brief":  "以不超过 8 行的精炼段落概括关键信息与结论。",
	"bullet": "使用有序要点输出：1) 关键结论 2) 证据/细节 3) 风险或分歧 4) 待办与责任人。",
	"action": "仅输出行动清单（谁在何时做什么，成功判定标准）。",
	"daily":  "以日报格式输出：今日进展/问题/明日计划/需协助。",
}

type service struct {
	templates    Templates
	ai           ai.AI
	backfill     *Backfiller
	defaultModel string
	logger       *log.Logger
}

// NewService wires the pipeline. backfill may be nil to disable keyword
// backfill.
func NewService(templates Templates, aiClient ai.AI, backfill *Backfiller, defaultModel string, logger *log.Logger) Service {
	return &service{
		templates:    templates,
		ai:           aiClient,
		backfill:     backfill,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (s *service) Summarize(ctx context.Context, payload prompt.Payload) (Result, error) {
	if err := validate(payload); err != nil {
		return Result{}, err
	}

	spec, err := s.templates.Load()
	if err != nil {
		s.logger.Error("[summary] prompt spec unavailable", "err", err)
		return Result{}, apperr.Internal("prompt spec unavailable")
	}

	msgs := prompt.Assemble(spec, withStyle(payload))
	if len(msgs) == 0 {
		return Result{}, apperr.BadRequest("no prompt messages rendered")
	}

	model := s.defaultModel
	if m, ok := payload.Text("model"); ok {
		model = m
	}

	temperature := defaultTemperature
	if t, ok := payload.Number("temperature"); ok {
		temperature = t
	}
	opts := []ai.RequestOption{ai.WithTemperature(temperature)}
	if n, ok := maxTokens(payload); ok {
		opts = append(opts, ai.WithMaxTokens(n))
	}

	req, err := ai.NewChatRequest(model, msgs, opts...)
	if err != nil {
		return Result{}, apperr.BadRequest("%v", err)
	}

	openid, _ := payload.Text("openid")
	s.logger.Info("[summary] request", "openid", openid, "model", model, "messages", len(msgs))

	raw, err := s.ai.GetReply(ctx, req)
	if err != nil {
		return Result{}, err
	}

	rec := Parse(raw, SummarySchema)
	if len(rec) == 0 {
		s.logger.Warn("[summary] nothing recovered from reply", "raw", short(raw))
	}

	res := withDefaults(rec, model)
	if s.backfill != nil && res.Article != EmptyReply {
		if res.MoodKeywords == "" {
			res.MoodKeywords = s.backfill.Keywords(ctx, model, FieldMoodKeywords, res.Article)
		}
		if res.ActionKeywords == "" {
			res.ActionKeywords = s.backfill.Keywords(ctx, model, FieldActionKeywords, res.Article)
		}
	}
	return res, nil
}

func validate(p prompt.Payload) error {
	if p == nil {
		return apperr.BadRequest("payload must be a JSON object")
	}
	if t, ok := p["type"]; ok && t != nil && t != summaryType {
		return apperr.BadRequest("type must be %q", summaryType)
	}
	if _, ok := p.Text("text"); ok {
		return nil
	}
	for _, key := range []string{"messages", "records"} {
		if _, ok := p.List(key); ok {
			return nil
		}
	}
	return apperr.BadRequest("text or messages is required")
}

// withStyle exposes the style instruction to templates as {styleNote}.
func withStyle(p prompt.Payload) prompt.Payload {
	style, _ := p.Text("style")
	note, ok := styleNotes[style]
	if !ok {
		note = styleNotes["brief"]
	}
	return p.With(map[string]any{"styleNote": note})
}

func maxTokens(p prompt.Payload) (int, bool) {
	if n, ok := p.Integer("max_completion_tokens"); ok {
		return n, true
	}
	return p.Integer("max_tokens")
}

// withDefaults fills what the normalizer could not recover. Keywords stay
// empty; only the article gets the EmptyReply marker. Model is always the
// one the request was sent to, whatever the reply claims.
func withDefaults(rec map[string]string, model string) Result {
	res := Result{
		Article:        rec[FieldArticle],
		MoodKeywords:   rec[FieldMoodKeywords],
		ActionKeywords: rec[FieldActionKeywords],
		ArticleTitle:   rec[FieldArticleTitle],
		Model:          model,
		TokenUsageJSON: rec[FieldTokenUsageJSON],
	}
	if strings.TrimSpace(res.Article) == "" {
		res.Article = EmptyReply
	}
	return res
}

func short(s string) string {
	r := []rune(s)
	if len(r) > 180 {
		return string(r[:180]) + "..."
	}
	return s
}
