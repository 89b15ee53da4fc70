package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
	"github.com/Vovarama1992/prompt-gateway/internal/apperr"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
)

type staticTemplates struct {
	spec *prompt.Spec
	err  error
}

func (s staticTemplates) Load() (*prompt.Spec, error) { return s.spec, s.err }

var summarySpec = &prompt.Spec{
	SystemMessages: []prompt.MessageTemplate{
		{Role: "system", Content: "写日记。{styleNote}", NeedArgs: []string{"styleNote"}},
	},
	ContextMessages: []prompt.MessageTemplate{
		{Role: "system", Content: "历史：\n{history}", NeedArgs: []string{"history"}},
	},
	UserMessages: []prompt.MessageTemplate{
		{Role: "user", Content: "{text}", NeedArgs: []string{"text"}},
	},
}

func newTestService(stub *stubAI, backfill bool) Service {
	logger := log.New(io.Discard)
	var b *Backfiller
	if backfill {
		b = NewBackfiller(stub, logger)
	}
	return NewService(staticTemplates{spec: summarySpec}, stub, b, "qwen-plus", logger)
}

func TestSummarize(t *testing.T) {
	stub := &stubAI{replies: []string{"```json\n" +
		`{"article":"今天很充实。\n晚上散步。","moodKeywords":"平静,专注,期待","actionKeywords":"散步","articleTitle":"充实的一天"}` +
		"\n```"}}
	svc := newTestService(stub, false)

	res, err := svc.Summarize(context.Background(), prompt.Payload{
		"type":  "daily_summary",
		"text":  "今天写了代码，晚上散步",
		"style": "daily",
		"history": []any{
			map[string]any{"role": "user", "content": "早上好"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Result{
		Article:        "今天很充实。 晚上散步。",
		MoodKeywords:   "平静,专注,期待",
		ActionKeywords: "散步",
		ArticleTitle:   "充实的一天",
		Model:          "qwen-plus",
	}, res)

	require.Len(t, stub.got, 1)
	req := stub.got[0]
	require.Len(t, req.Messages, 3)
	assert.Contains(t, req.Messages[0].Content, styleNotes["daily"])
	assert.Equal(t, "历史：\nUSER:早上好", req.Messages[1].Content)
	assert.Equal(t, "今天写了代码，晚上散步", req.Messages[2].Content)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, defaultTemperature, *req.Temperature)
}

func TestSummarizeDefaultsOnUnparsableReply(t *testing.T) {
	stub := &stubAI{replies: []string{"   "}}
	svc := newTestService(stub, false)

	res, err := svc.Summarize(context.Background(), prompt.Payload{"text": "x", "model": "gpt-4o"})
	require.NoError(t, err)

	assert.Equal(t, Result{Article: EmptyReply, Model: "gpt-4o"}, res)
}

func TestSummarizeReportsDispatchedModel(t *testing.T) {
	stub := &stubAI{replies: []string{`{"article":"ok","model":"gpt-4-turbo"}`}}
	svc := newTestService(stub, false)

	res, err := svc.Summarize(context.Background(), prompt.Payload{"text": "x"})
	require.NoError(t, err)

	assert.Equal(t, "qwen-plus", res.Model)
	assert.Equal(t, "qwen-plus", stub.got[0].Model)
}

func TestSummarizeBackfillsMissingKeywords(t *testing.T) {
	stub := &stubAI{replies: []string{
		`{"article":"爬山","moodKeywords":"","actionKeywords":"徒步"}`,
		"开心 放松 满足",
	}}
	svc := newTestService(stub, true)

	res, err := svc.Summarize(context.Background(), prompt.Payload{"text": "爬山"})
	require.NoError(t, err)

	assert.Equal(t, "开心,放松,满足", res.MoodKeywords)
	assert.Equal(t, "徒步", res.ActionKeywords)
	assert.Len(t, stub.got, 2)
}

func TestSummarizeBadRequests(t *testing.T) {
	svc := newTestService(&stubAI{}, false)

	for name, p := range map[string]prompt.Payload{
		"nil payload":  nil,
		"wrong type":   {"type": "weekly", "text": "x"},
		"nothing":      {"text": "   "},
		"empty list":   {"messages": []any{}},
		"bad sampling": {"text": "x", "temperature": json.Number("9")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Summarize(context.Background(), p)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
		})
	}
}

func TestSummarizeSurfacesBackendError(t *testing.T) {
	stub := &stubAI{err: &ai.BackendError{Vendor: "dashscope", Status: 401, Detail: `{"code":"InvalidApiKey"}`}}
	svc := newTestService(stub, false)

	_, err := svc.Summarize(context.Background(), prompt.Payload{"records": []any{map[string]any{"content": "x"}}})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.StatusOf(err))
	assert.Equal(t, `{"code":"InvalidApiKey"}`, apperr.DetailOf(err))
}

func TestSummarizeTemplateFailure(t *testing.T) {
	svc := NewService(staticTemplates{err: errors.New("gone")}, &stubAI{}, nil, "qwen-plus", log.New(io.Discard))

	_, err := svc.Summarize(context.Background(), prompt.Payload{"text": "x"})
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(err))
}

func TestHandleSummary(t *testing.T) {
	stub := &stubAI{replies: []string{`{"article":"ok","articleTitle":"t"}`}}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(newTestService(stub, false), log.New(io.Discard)))
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/summary", "application/json",
		bytes.NewBufferString(`{"type":"daily_summary","openid":"o1","text":"hello"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, map[string]string{
		"article":        "ok",
		"moodKeywords":   "",
		"actionKeywords": "",
		"articleTitle":   "t",
		"model":          "qwen-plus",
		"tokenUsageJson": "",
	}, got)

	bad, err := http.Post(srv.URL+"/api/summary", "application/json", bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(bad.Body).Decode(&body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, float64(400), body["status"])
}
