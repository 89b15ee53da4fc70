package summary

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

const maxNestedDepth = 3

var headingLine = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*(.*?)[ \t]*$`)

// Parse recovers a schema record from raw LLM output. It never fails: blank
// input yields an empty map, and any other input gets a primary field, at
// worst a bounded prefix of the text itself. Other fields that cannot be
// recovered are absent.
func Parse(raw string, schema Schema) map[string]string {
	out := map[string]string{}

	text := stripFence(raw)
	if text == "" {
		return out
	}

	obj, found := decodeObject(text)
	found = found && hasSchemaField(obj, schema)
	if !found {
		obj, found = embeddedObject(text)
		found = found && hasSchemaField(obj, schema)
	}
	if !found {
		obj, found = repairObject(text)
		found = found && hasSchemaField(obj, schema)
	}

	if found {
		for _, f := range schema.Fields {
			if s, ok := stringify(obj[f.Name]); ok {
				out[f.Name] = s
			}
		}
		recoverNested(out, schema)
	} else {
		for k, v := range extractFields(text, schema) {
			out[k] = v
		}
	}

	if strings.TrimSpace(out[schema.Primary]) == "" {
		if section := headingSection(text, schema.SectionLabels); section != "" {
			out[schema.Primary] = section
		} else {
			out[schema.Primary] = truncateRunes(text, schema.PrefixLimit)
		}
	}

	for _, f := range schema.Fields {
		if v, ok := out[f.Name]; ok {
			out[f.Name] = cleanText(v, f.Paragraph)
		}
	}
	return out
}

// hasSchemaField reports whether obj carries any field of schema. Objects
// without one are incidental braces in prose, not a record.
func hasSchemaField(obj map[string]any, schema Schema) bool {
	for _, f := range schema.Fields {
		if _, ok := obj[f.Name]; ok {
			return true
		}
	}
	return false
}

// decodeJSON is a strict single-value decode.
func decodeJSON(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// decodeObject parses s as an object, unwrapping one level of string
// encoding when s is a JSON string that holds JSON.
func decodeObject(s string) (map[string]any, bool) {
	v, ok := decodeJSON(s)
	if !ok {
		return nil, false
	}
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case string:
		if inner, ok := decodeJSON(stripFence(x)); ok {
			if m, ok := inner.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// embeddedObject finds an object inside surrounding prose.
func embeddedObject(s string) (map[string]any, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	if start == 0 && end == len(s)-1 {
		return nil, false
	}
	return decodeObject(s[start : end+1])
}

// repairObject lets json-repair close truncated or sloppy objects.
func repairObject(s string) (map[string]any, bool) {
	if !strings.Contains(s, "{") {
		return nil, false
	}
	repaired, err := jsonrepair.RepairJSON(s[strings.IndexByte(s, '{'):])
	if err != nil {
		return nil, false
	}
	m, ok := decodeObject(repaired)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}

// recoverNested handles a primary field that itself carries the JSON
// record. The inner primary replaces the wrapper; other inner fields only
// fill gaps.
func recoverNested(out map[string]string, schema Schema) {
	for depth := 0; depth < maxNestedDepth; depth++ {
		wrapped := stripFence(out[schema.Primary])
		if !looksNested(wrapped, schema) {
			return
		}

		inner := map[string]string{}
		if obj, ok := decodeObject(wrapped); ok {
			for _, f := range schema.Fields {
				if s, ok := stringify(obj[f.Name]); ok {
					inner[f.Name] = s
				}
			}
		} else if obj, ok := embeddedObject(wrapped); ok {
			for _, f := range schema.Fields {
				if s, ok := stringify(obj[f.Name]); ok {
					inner[f.Name] = s
				}
			}
		} else {
			inner = extractFields(wrapped, schema)
		}

		primary, ok := inner[schema.Primary]
		if !ok && len(inner) == 0 {
			return
		}
		for name, v := range inner {
			if name == schema.Primary {
				continue
			}
			if strings.TrimSpace(out[name]) == "" {
				out[name] = v
			}
		}
		if !ok {
			return
		}
		out[schema.Primary] = primary
	}
}

func looksNested(s string, schema Schema) bool {
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, `"{`) {
		return true
	}
	p := schema.patterns[schema.Primary]
	return p != nil && p.MatchString(s)
}

// extractFields pulls "field": "value" pairs out of text that is not valid
// JSON.
func extractFields(text string, schema Schema) map[string]string {
	out := map[string]string{}
	for _, f := range schema.Fields {
		p := schema.patterns[f.Name]
		if p == nil {
			continue
		}
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var v string
		if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &v); err != nil {
			v = m[1]
		}
		out[f.Name] = v
	}
	return out
}

// headingSection returns the body under the first "# <label>" heading,
// up to the next heading.
func headingSection(text string, labels []string) string {
	locs := headingLine.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		title := strings.ToLower(strings.Trim(text[loc[2]:loc[3]], " \t:：*"))
		if !hasLabelPrefix(title, labels) {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if body := strings.TrimSpace(text[loc[1]:end]); body != "" {
			return body
		}
	}
	return ""
}

func hasLabelPrefix(title string, labels []string) bool {
	for _, l := range labels {
		if strings.HasPrefix(title, strings.ToLower(l)) {
			return true
		}
	}
	return false
}

// stringify flattens a decoded JSON value into field text. Null is absent.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := stringify(e); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ","), true
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimSpace(buf.String()), true
}
