package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

const VendorOpenAI = "openai"

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	url    string
	apiKey string
	client *http.Client
	logger *log.Logger
}

func NewOpenAIClient(url, apiKey string, connect, overall time.Duration, logger *log.Logger) *OpenAIClient {
	return &OpenAIClient{
		url:    url,
		apiKey: apiKey,
		client: newHTTPClient(connect, overall),
		logger: logger,
	}
}

func (c *OpenAIClient) GetReply(ctx context.Context, req ChatRequest) (string, error) {
	raw, err := postJSON(ctx, c.client, VendorOpenAI, c.url, c.apiKey, openAIBody(req))
	if err != nil {
		c.logger.Error("[ai] openai call failed", "model", req.Model, "err", err)
		return "", err
	}

	reply := ExtractReply(raw)
	c.logger.Debug("[ai] openai raw response", "model", req.Model, "reply", short(reply))
	return reply, nil
}

// openAIBody is the flat chat completions shape: messages plus top-level
// sampling parameters.
func openAIBody(req ChatRequest) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    wireRole(m.Role),
			Content: m.Content,
		})
	}

	body := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}
	if req.Temperature != nil {
		body.Temperature = float32(*req.Temperature)
	}
	if req.MaxTokens != nil {
		body.MaxCompletionTokens = *req.MaxTokens
	}
	return body
}
