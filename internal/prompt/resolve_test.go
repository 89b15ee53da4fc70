package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	p := Payload{
		"top":  "a",
		"null": nil,
		"args": map[string]any{"null": "from-args", "inner": 1},
	}

	v, ok := Resolve(p, "top")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = Resolve(p, "null")
	assert.True(t, ok)
	assert.Equal(t, "from-args", v)

	_, ok = Resolve(p, "inner")
	assert.True(t, ok)

	_, ok = Resolve(p, "missing")
	assert.False(t, ok)

	_, ok = Resolve(nil, "top")
	assert.False(t, ok)

	_, ok = Resolve(Payload{"args": []any{"not", "a", "map"}}, "x")
	assert.False(t, ok)
}

func TestRenderScalars(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, "text", r.Render("text"))
	assert.Equal(t, "12", r.Render(json.Number("12")))
	assert.Equal(t, "0.5", r.Render(0.5))
	assert.Equal(t, "3", r.Render(3))
	assert.Equal(t, "false", r.Render(false))
	assert.Equal(t, `{"lat":30.2,"lng":120.1}`, r.Render(map[string]any{"lat": 30.2, "lng": 120.1}))
	assert.Equal(t, `["a","b"]`, r.Render([]any{"a", "b"}))
	assert.Equal(t, "", r.Render(func() {}))
}

func TestRenderConversationKeepsOrderWithoutPivot(t *testing.T) {
	r := NewResolver(Payload{})

	got := r.Render([]any{
		map[string]any{"role": "user", "content": "first", "ts": 1700000000},
		map[string]any{"role": "assistant", "content": "   "},
		map[string]any{"role": "assistant", "content": "second\nline", "ts": 1700003600},
		map[string]any{"content": "third"},
	})

	assert.Equal(t, strings.Join([]string{
		"[2023-11-14 22:13] USER:first",
		"[2023-11-14 23:13] ASSISTANT:second line",
		"USER:third",
	}, "\n"), got)
}

func TestRenderConversationPivotSort(t *testing.T) {
	r := NewResolver(Payload{"currentTime": 12})

	got := r.Render([]any{
		map[string]any{"role": "user", "content": "ten", "ts": 10},
		map[string]any{"role": "user", "content": "none"},
		map[string]any{"role": "user", "content": "five", "ts": 5},
		map[string]any{"role": "user", "content": "twenty", "ts": 20},
	})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "USER:ten"))
	assert.True(t, strings.HasSuffix(lines[1], "USER:five"))
	assert.True(t, strings.HasSuffix(lines[2], "USER:twenty"))
	assert.Equal(t, "USER:none", lines[3])
}

func TestRenderNestedContainer(t *testing.T) {
	r := NewResolver(nil)

	got := r.Render(map[string]any{
		"messages": []any{map[string]any{"role": "user", "content": "hello"}},
	})
	assert.Equal(t, "USER:hello", got)
}

func TestRenderSummaries(t *testing.T) {
	r := NewResolver(nil)
	long := strings.Repeat("长", 200)

	got := r.Render(map[string]any{"summaries": []any{
		map[string]any{"summaryDate": "2024-03-01", "title": "Old", "article": "old day"},
		map[string]any{"summaryDate": "2024-03-03", "memoryPoint": "", "analyzeResult": long},
		map[string]any{"summaryDate": "2024-03-02", "articleTitle": "Mid", "summary": "mid\n day"},
		map[string]any{"article": "undated"},
	}})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[2024-03-03] "+strings.Repeat("长", 160)+"…", lines[0])
	assert.Equal(t, "[2024-03-02] Mid: mid day", lines[1])
	assert.Equal(t, "[2024-03-01] Old: old day", lines[2])
	assert.Equal(t, "undated", lines[3])
}

func TestRenderSummariesPivot(t *testing.T) {
	r := NewResolver(Payload{"args": map[string]any{"currentTime": "2024-03-02T08:00:00Z"}})
	require.NotNil(t, r.Pivot())

	got := r.Render([]any{
		map[string]any{"summaryDate": "2024-02-01", "article": "far"},
		map[string]any{"summaryDate": "2024-03-02", "article": "same day"},
		map[string]any{"summaryDate": "2024-03-04", "article": "near"},
	})

	assert.Equal(t, "[2024-03-02] same day\n[2024-03-04] near\n[2024-02-01] far", got)
}
