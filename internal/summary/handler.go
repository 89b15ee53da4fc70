package summary

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/httpx"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

const maxBodyBytes = 4 << 20

type Handler struct {
	svc    Service
	logger *log.Logger
}

func NewHandler(svc Service, logger *log.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// HandleSummary serves POST /api/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", uuid.NewString())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, apperr.BadRequest("read body: %v", err))
		return
	}

	payload := prompt.DecodePayload(body)
	if payload == nil {
		httpx.WriteError(w, apperr.BadRequest("invalid json"))
		return
	}

	res, err := h.svc.Summarize(r.Context(), payload)
	if err != nil {
		if apperr.Canceled(err) {
			return
		}
		logger.Warn("[summary] failed", "status", apperr.StatusOf(err), "err", err)
		httpx.WriteError(w, err)
		return
	}

	logger.Info("[summary] done", "model", res.Model, "article_len", len([]rune(res.Article)))
	httpx.WriteJSON(w, http.StatusOK, res)
}
