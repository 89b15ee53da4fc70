package chat

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/httpx"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

type frame struct {
	kind int
	data []byte
}

// HandleWS serves GET /ws/chat. Frames on one connection are answered strictly
// in order; when the client goes away the in-flight backend call is
// abandoned.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("[ws] upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With("conn_id", connID)
	logger.Info("[ws] connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	frames := make(chan frame)
	go func() {
		defer close(frames)
		defer cancel()
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("[ws] read failed", "err", err)
				}
				return
			}
			select {
			case frames <- frame{kind: kind, data: data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for f := range frames {
		raw := string(f.data)
		if f.kind == websocket.BinaryMessage {
			raw = strings.ToValidUTF8(raw, "\uFFFD")
		}

		msgLogger := logger.With("request_id", uuid.NewString())
		reply, err := h.svc.Reply(ctx, prompt.DecodePayload([]byte(raw)), raw)
		if err != nil {
			if apperr.Canceled(err) || ctx.Err() != nil {
				msgLogger.Info("[ws] client gone, reply dropped")
				return
			}
			msgLogger.Warn("[ws] failed", "status", apperr.StatusOf(err), "err", err)
			if err := conn.WriteJSON(httpx.ErrorBodyOf(err)); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(replyBody{Reply: reply}); err != nil {
			msgLogger.Warn("[ws] write failed", "err", err)
			return
		}
	}
	logger.Info("[ws] disconnected")
}
