package ai

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

const openAIModelPrefix = "gpt-"

// Dispatcher routes each request to the vendor that serves its model.
type Dispatcher struct {
	openAI       AI
	dashScope    AI
	defaultModel string
	logger       *log.Logger
}

func NewDispatcher(openAI, dashScope AI, defaultModel string, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		openAI:       openAI,
		dashScope:    dashScope,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// Route names the vendor for model. DashScope is the default backend.
func (d *Dispatcher) Route(model string) string {
	if strings.HasPrefix(strings.ToLower(d.modelOrDefault(model)), openAIModelPrefix) {
		return VendorOpenAI
	}
	return VendorDashScope
}

func (d *Dispatcher) GetReply(ctx context.Context, req ChatRequest) (string, error) {
	req = req.withModel(d.modelOrDefault(req.Model))
	vendor := d.Route(req.Model)

	d.logger.Info("[ai] dispatch", "vendor", vendor, "model", req.Model, "messages", len(req.Messages))

	if vendor == VendorOpenAI {
		return d.openAI.GetReply(ctx, req)
	}
	return d.dashScope.GetReply(ctx, req)
}

func (d *Dispatcher) modelOrDefault(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return d.defaultModel
}
