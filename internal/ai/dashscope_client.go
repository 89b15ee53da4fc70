package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

const VendorDashScope = "dashscope"

// DashScopeClient talks to the DashScope text-generation endpoint.
type DashScopeClient struct {
	url    string
	apiKey string
	client *http.Client
	logger *log.Logger
}

func NewDashScopeClient(url, apiKey string, connect, overall time.Duration, logger *log.Logger) *DashScopeClient {
	return &DashScopeClient{
		url:    url,
		apiKey: apiKey,
		client: newHTTPClient(connect, overall),
		logger: logger,
	}
}

type dashScopeRequest struct {
	Model      string              `json:"model"`
	Input      dashScopeInput      `json:"input"`
	Parameters dashScopeParameters `json:"parameters"`
}

type dashScopeInput struct {
	Messages []Message `json:"messages"`
}

type dashScopeParameters struct {
	ResultFormat string   `json:"result_format"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
}

func (c *DashScopeClient) GetReply(ctx context.Context, req ChatRequest) (string, error) {
	raw, err := postJSON(ctx, c.client, VendorDashScope, c.url, c.apiKey, dashScopeBody(req))
	if err != nil {
		c.logger.Error("[ai] dashscope call failed", "model", req.Model, "err", err)
		return "", err
	}

	reply := ExtractReply(raw)
	c.logger.Debug("[ai] dashscope raw response", "model", req.Model, "reply", short(reply))
	return reply, nil
}

func dashScopeBody(req ChatRequest) dashScopeRequest {
	return dashScopeRequest{
		Model: req.Model,
		Input: dashScopeInput{
			Messages: lo.Map(req.Messages, func(m Message, _ int) Message {
				return Message{Role: wireRole(m.Role), Content: m.Content}
			}),
		},
		Parameters: dashScopeParameters{
			ResultFormat: "text",
			Temperature:  req.Temperature,
			MaxTokens:    req.MaxTokens,
		},
	}
}
