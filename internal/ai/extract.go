package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractReply pulls the reply text out of an OpenAI or DashScope response
// envelope. It never fails: unknown shapes come back as the body itself.
func ExtractReply(body []byte) string {
	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil || data == nil {
		return strings.TrimSpace(string(body))
	}

	if text := textFromChoices(data["choices"]); text != "" {
		return text
	}

	if out, ok := data["output"].(map[string]any); ok {
		if text, ok := out["text"].(string); ok && text != "" {
			return text
		}
		if text := textFromChoices(out["choices"]); text != "" {
			return text
		}
	}

	compact, err := json.Marshal(data)
	if err != nil {
		return string(body)
	}
	return string(compact)
}

func textFromChoices(v any) string {
	choices, ok := v.([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	first, _ := choices[0].(map[string]any)
	if first == nil {
		return ""
	}

	if msg, ok := first["message"].(map[string]any); ok {
		switch content := msg["content"].(type) {
		case string:
			if content != "" {
				return content
			}
		case []any:
			var sb strings.Builder
			for _, p := range content {
				part, ok := p.(map[string]any)
				if !ok || part["type"] != "text" {
					continue
				}
				if t, ok := part["text"].(string); ok {
					sb.WriteString(t)
				}
			}
			if sb.Len() > 0 {
				return sb.String()
			}
		}
	}

	if text, ok := first["text"].(string); ok {
		return text
	}
	return ""
}
