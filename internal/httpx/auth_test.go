package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireTokenDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireToken("")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireToken(t *testing.T) {
	h := RequireToken("secret")(okHandler())

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		want   int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") }, "/api/chat", http.StatusNoContent},
		{"api key", func(r *http.Request) { r.Header.Set("X-Api-Key", "secret") }, "/api/chat", http.StatusNoContent},
		{"ws query", func(r *http.Request) { r.Header.Set("Upgrade", "websocket") }, "/ws/chat?token=secret", http.StatusNoContent},
		{"query without upgrade", func(r *http.Request) {}, "/api/chat?token=secret", http.StatusUnauthorized},
		{"wrong", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "/api/chat", http.StatusUnauthorized},
		{"missing", func(r *http.Request) {}, "/api/chat", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestUnauthorizedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireToken("secret")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/summary", nil))

	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorBody{Error: true, Status: http.StatusUnauthorized, Detail: "unauthorized"}, body)
}
