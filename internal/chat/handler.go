package chat

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/httpx"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

const maxBodyBytes = 4 << 20

type Handler struct {
	svc      Service
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewHandler(svc Service, logger *log.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleChat serves POST /api/chat, one turn per request.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", uuid.NewString())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, apperr.BadRequest("read body: %v", err))
		return
	}

	reply, err := h.svc.Reply(r.Context(), prompt.DecodePayload(body), string(body))
	if err != nil {
		if apperr.Canceled(err) {
			return
		}
		logger.Warn("[chat] failed", "status", apperr.StatusOf(err), "err", err)
		httpx.WriteError(w, err)
		return
	}

	logger.Info("[chat] replied", "reply_len", len([]rune(reply)))
	httpx.WriteJSON(w, http.StatusOK, replyBody{Reply: reply})
}
