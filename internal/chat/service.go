package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

type service struct {
	templates    Templates
	ai           ai.AI
	defaultModel string
	logger       *log.Logger
}

func NewService(templates Templates, aiClient ai.AI, defaultModel string, logger *log.Logger) Service {
	return &service{
		templates:    templates,
		ai:           aiClient,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (s *service) Reply(ctx context.Context, payload prompt.Payload, raw string) (string, error) {
	view, passThrough, err := chatView(payload, raw)
	if err != nil {
		return "", err
	}

	spec, err := s.templates.Load()
	if err != nil {
		s.logger.Error("[chat] prompt spec unavailable", "err", err)
		return "", apperr.Internal("prompt spec unavailable")
	}

	msgs := append(prompt.Assemble(spec, view), passThrough...)

	req, err := s.buildRequest(view, msgs)
	if err != nil {
		return "", apperr.BadRequest("%v", err)
	}

	reply, err := s.ai.GetReply(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply, nil
	}
	return reply, nil
}

func (s *service) buildRequest(p prompt.Payload, msgs []ai.Message) (ai.ChatRequest, error) {
	model := s.defaultModel
	if m, ok := p.Text("model"); ok {
		model = m
	}

	var opts []ai.RequestOption
	if t, ok := p.Number("temperature"); ok {
		opts = append(opts, ai.WithTemperature(t))
	}
	if n, ok := p.Integer("max_completion_tokens"); ok {
		opts = append(opts, ai.WithMaxTokens(n))
	} else if n, ok := p.Integer("max_tokens"); ok {
		opts = append(opts, ai.WithMaxTokens(n))
	}

	return ai.NewChatRequest(model, msgs, opts...)
}

// chatView derives the template payload. A non-empty messages list is
// passed through as the conversation and no {message} is exposed. Otherwise
// the user turn is exposed as {message}, taken from message, then prompt,
// then the raw text when the input was not a JSON object.
func chatView(payload prompt.Payload, raw string) (prompt.Payload, []ai.Message, error) {
	if payload == nil {
		text := strings.TrimSpace(raw)
		if text == "" {
			return nil, nil, apperr.BadRequest("empty message")
		}
		return prompt.Payload{"message": text}, nil, nil
	}

	if list, ok := payload.List("messages"); ok {
		msgs := passThroughMessages(list)
		if len(msgs) > 0 {
			view := payload
			if _, ok := payload["message"]; ok {
				view = payload.With(map[string]any{"message": nil})
			}
			return view, msgs, nil
		}
	}

	if _, ok := payload.Text("message"); ok {
		return payload, nil, nil
	}
	if p, ok := payload.Text("prompt"); ok {
		return payload.With(map[string]any{"message": p}), nil, nil
	}
	return nil, nil, apperr.BadRequest("message is required")
}

func passThroughMessages(list []any) []ai.Message {
	msgs := lo.FilterMap(list, func(item any, _ int) (ai.Message, bool) {
		m, ok := item.(map[string]any)
		if !ok {
			return ai.Message{}, false
		}
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		return ai.Message{Role: strings.TrimSpace(role), Content: content}, true
	})
	return lo.Filter(msgs, func(m ai.Message, _ int) bool {
		return m.Role != "" && strings.TrimSpace(m.Content) != ""
	})
}
