package prompt

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var timestampFields = []string{
	"time", "timestamp", "ts", "createdAt", "created_at",
	"date", "datetime", "summaryDate", "summary_date",
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006年01月02日 15:04",
	"2006年01月02日",
	"2006年1月2日",
}

// ParseTimestamp accepts an epoch (seconds, or milliseconds above 1e12),
// an ISO-8601 string or one of the fixed layouts. Offset-less layouts are
// read as UTC.
func ParseTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return fromEpoch(f)
		}
		return time.Time{}, false
	case float64:
		return fromEpoch(x)
	case float32:
		return fromEpoch(float64(x))
	case int:
		return fromEpoch(float64(x))
	case int64:
		return fromEpoch(float64(x))
	case string:
		return parseTimeString(x)
	}
	return time.Time{}, false
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if isCompactDate(s) {
		if t, err := time.Parse(compactDateLayout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const compactDateLayout = "20060102"

// isCompactDate reports an eight-digit string, read as yyyymmdd rather than
// as an epoch.
func isCompactDate(s string) bool {
	if len(s) != len(compactDateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func fromEpoch(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if math.Abs(f) > 1e12 {
		f /= 1000
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// ItemTimestamp returns the first parseable timestamp field of item.
func ItemTimestamp(item map[string]any) (time.Time, bool) {
	for _, field := range timestampFields {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		if t, ok := ParseTimestamp(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// OrderHistory returns items sorted closest-to-pivot first, or newest first
// when pivot is nil. Items without a timestamp keep their relative order at
// the end. The input slice is not modified.
func OrderHistory(items []map[string]any, pivot *time.Time) []map[string]any {
	type stamped struct {
		item map[string]any
		ts   time.Time
		ok   bool
	}

	s := make([]stamped, len(items))
	for i, it := range items {
		ts, ok := ItemTimestamp(it)
		s[i] = stamped{item: it, ts: ts, ok: ok}
	}

	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		if pivot != nil {
			as, an := distance(a.ts, *pivot)
			bs, bn := distance(b.ts, *pivot)
			return as < bs || as == bs && an < bn
		}
		return a.ts.After(b.ts)
	})

	out := make([]map[string]any, len(s))
	for i := range s {
		out[i] = s[i].item
	}
	return out
}

// distance is |t - pivot| as whole seconds plus nanoseconds. time.Sub
// saturates past ~292 years, so the span is computed from Unix parts.
func distance(t, pivot time.Time) (int64, int64) {
	sec := t.Unix() - pivot.Unix()
	nsec := int64(t.Nanosecond() - pivot.Nanosecond())
	if sec < 0 || sec == 0 && nsec < 0 {
		sec, nsec = -sec, -nsec
	}
	if nsec < 0 {
		sec--
		nsec += 1e9
	}
	return sec, nsec
}
