package summary

import (
	"regexp"
	"strings"
)

var (
	literalEscapes = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\n", `\t`, "\t", `\"`, `"`)
	horizontalRun  = regexp.MustCompile(`[ \t\f\v]+`)
	newlineRun     = regexp.MustCompile(`\s*\n\s*`)
)

// cleanText unescapes literal escape sequences left by double encoding and
// collapses horizontal whitespace. flatten also joins lines with a space.
func cleanText(s string, flatten bool) string {
	s = literalEscapes.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalRun.ReplaceAllString(s, " ")
	if flatten {
		s = newlineRun.ReplaceAllString(s, " ")
	}
	return strings.TrimSpace(s)
}

// stripFence removes a surrounding ``` fence and its language tag.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || !strings.ContainsAny(tag, "{[\"") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
