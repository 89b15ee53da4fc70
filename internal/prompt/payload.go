package prompt

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// DecodePayload parses raw as a JSON object. Anything else, including
// valid JSON that is not an object, yields nil: the input is plain text.
func DecodePayload(raw []byte) Payload {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var p map[string]any
	if err := dec.Decode(&p); err != nil || p == nil {
		return nil
	}
	if dec.More() {
		return nil
	}
	return Payload(p)
}

// With returns a shallow copy of p with extra keys set. p is untouched.
func (p Payload) With(extra map[string]any) Payload {
	out := make(Payload, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Text returns a trimmed non-empty string value of key.
func (p Payload) Text(key string) (string, bool) {
	s, ok := p[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number returns a numeric value of key.
func (p Payload) Number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Integer returns key when it holds an integral number.
func (p Payload) Integer(key string) (int, bool) {
	switch v := p[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case int:
		return v, true
	}
	return 0, false
}

// List returns key when it holds a non-empty JSON array.
func (p Payload) List(key string) ([]any, bool) {
	l, ok := p[key].([]any)
	return l, ok && len(l) > 0
}
