package prompt

import (
	"time"
)

// Payload is the caller-supplied runtime context of one request.
// The pipeline only reads it.
type Payload map[string]any

// Resolve looks key up in p, then in p["args"]. Null values count as absent.
func Resolve(p Payload, key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	if v, ok := p[key]; ok && v != nil {
		return v, true
	}
	if args, ok := p["args"].(map[string]any); ok {
		if v, ok := args[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Resolver resolves and renders template arguments against one payload.
type Resolver struct {
	payload Payload
	pivot   *time.Time
}

// NewResolver takes the pivot time from the payload's currentTime, if it
// parses.
func NewResolver(p Payload) *Resolver {
	r := &Resolver{payload: p}
	if v, ok := Resolve(p, "currentTime"); ok {
		if t, ok := ParseTimestamp(v); ok {
			r.pivot = &t
		}
	}
	return r
}

// Pivot is the reference time for history ordering, nil when absent.
func (r *Resolver) Pivot() *time.Time { return r.pivot }

// Lookup resolves key and renders it to text.
func (r *Resolver) Lookup(key string) (string, bool) {
	v, ok := Resolve(r.payload, key)
	if !ok {
		return "", false
	}
	return r.Render(v), true
}
