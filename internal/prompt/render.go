package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const summaryBodyLimit = 160

var (
	listContainerKeys = []string{"messages", "items", "list", "summaries"}
	summaryBodyKeys   = []string{"memoryPoint", "analyzeResult", "article", "summary"}
	summaryDateKeys   = []string{"summaryDate", "summary_date", "date"}
	summaryTitleKeys  = []string{"title", "articleTitle"}
)

// Render turns a resolved value into prompt text. It never fails; values it
// cannot render become "".
func (r *Resolver) Render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		return r.renderList(x)
	case []map[string]any:
		return r.renderRecords(x, x)
	case map[string]any:
		for _, key := range listContainerKeys {
			if list, ok := x[key].([]any); ok {
				return r.renderList(list)
			}
		}
		return toJSON(x)
	}
	return toJSON(v)
}

func (r *Resolver) renderList(items []any) string {
	records := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			records = append(records, m)
		}
	}
	if len(records) == 0 {
		if len(items) == 0 {
			return ""
		}
		return toJSON(items)
	}
	return r.renderRecords(records, items)
}

// renderRecords picks summary or conversation rendering; fallback is what
// gets stringified when the records are neither.
func (r *Resolver) renderRecords(records []map[string]any, fallback any) string {
	switch {
	case lo.SomeBy(records, isSummaryRecord):
		return r.renderSummaries(records)
	case lo.SomeBy(records, isConversationRecord):
		return r.renderConversation(records)
	}
	return toJSON(fallback)
}

func isSummaryRecord(m map[string]any) bool {
	return hasAnyKey(m, summaryBodyKeys) || hasAnyKey(m, []string{"summaryDate", "summary_date"})
}

func isConversationRecord(m map[string]any) bool {
	return hasAnyKey(m, []string{"role", "content"})
}

// renderConversation emits "[time] ROLE:content" lines. Supplied order is
// kept unless a pivot time is set.
func (r *Resolver) renderConversation(records []map[string]any) string {
	if r.pivot != nil {
		records = OrderHistory(records, r.pivot)
	}

	lines := make([]string, 0, len(records))
	for _, m := range records {
		content := oneLine(r.scalarField(m, "content", "text"))
		if content == "" {
			continue
		}

		role, _ := m["role"].(string)
		role = strings.ToUpper(strings.TrimSpace(role))
		if role == "" {
			role = "USER"
		}

		line := role + ":" + content
		if ts, ok := ItemTimestamp(m); ok {
			line = "[" + ts.Format("2006-01-02 15:04") + "] " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderSummaries emits one "[date] title: body" line per record, newest
// first unless a pivot time is set.
func (r *Resolver) renderSummaries(records []map[string]any) string {
	records = OrderHistory(records, r.pivot)

	lines := make([]string, 0, len(records))
	for _, m := range records {
		date := summaryDate(m)
		title := oneLine(r.scalarField(m, summaryTitleKeys...))
		body := truncateRunes(oneLine(r.scalarField(m, summaryBodyKeys...)), summaryBodyLimit)

		var header string
		switch {
		case date != "" && title != "":
			header = "[" + date + "] " + title
		case date != "":
			header = "[" + date + "]"
		default:
			header = title
		}

		switch {
		case header == "" && body == "":
			continue
		case body == "":
			lines = append(lines, header)
		case header == "":
			lines = append(lines, body)
		case title != "":
			lines = append(lines, header+": "+body)
		default:
			lines = append(lines, header+" "+body)
		}
	}
	return strings.Join(lines, "\n")
}

// scalarField returns the first non-blank scalar among keys.
func (r *Resolver) scalarField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil, map[string]any, []any:
			continue
		default:
			if s := strings.TrimSpace(r.Render(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// summaryDate prefers a date string as written; numeric dates and other
// timestamp fields are formatted.
func summaryDate(m map[string]any) string {
	for _, k := range summaryDateKeys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if ts, ok := ItemTimestamp(m); ok {
		return ts.Format("2006-01-02")
	}
	return ""
}

func hasAnyKey(m map[string]any, keys []string) bool {
	return lo.SomeBy(keys, func(k string) bool {
		_, ok := m[k]
		return ok
	})
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
