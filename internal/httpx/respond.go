package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
)

// ErrorBody is the wire shape of every reported failure.
type ErrorBody struct {
	Error  bool   `json:"error"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func ErrorBodyOf(err error) ErrorBody {
	return ErrorBody{Error: true, Status: apperr.StatusOf(err), Detail: apperr.DetailOf(err)}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, err error) {
	body := ErrorBodyOf(err)
	WriteJSON(w, body.Status, body)
}
