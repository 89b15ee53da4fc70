package prompt

import (
	"crypto/sha256"
	"encoding/json"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MessageTemplate is one role-tagged prompt fragment. It renders only when
// every name in NeedArgs resolves.
type MessageTemplate struct {
	Role     string   `json:"role"`
	Content  string   `json:"content"`
	NeedArgs []string `json:"needArgs"`
}

// Spec groups templates by priority bucket. A loaded Spec is shared between
// requests and must be treated as read-only.
type Spec struct {
	SystemMessages  []MessageTemplate `json:"systemMessages"`
	ContextMessages []MessageTemplate `json:"contextMessages"`
	UserMessages    []MessageTemplate `json:"userMessages"`
}

// ParseSpec decodes a template resource. Plain JSON is accepted, and so is
// hjson, so hand-edited files may carry comments and trailing commas.
func ParseSpec(data []byte) (*Spec, error) {
	var doc any
	if err := hjson.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse prompt spec")
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, errors.New("parse prompt spec: top level must be an object")
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "normalize prompt spec")
	}

	var spec Spec
	if err := json.Unmarshal(normalized, &spec); err != nil {
		return nil, errors.Wrap(err, "decode prompt spec")
	}

	fill := func(ts []MessageTemplate, role string) {
		for i := range ts {
			if ts[i].Role == "" {
				ts[i].Role = role
			}
			ts[i].NeedArgs = lo.Uniq(lo.Compact(ts[i].NeedArgs))
		}
	}
	fill(spec.SystemMessages, "system")
	fill(spec.ContextMessages, "context")
	fill(spec.UserMessages, "user")

	return &spec, nil
}

// Store serves the template resource at path. The file is read on every
// Load so edits apply to the next request; the parse is reused while the
// content hash is unchanged.
type Store struct {
	path   string
	logger *log.Logger

	mu   sync.RWMutex
	sum  [sha256.Size]byte
	spec *Spec
}

func NewStore(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Load() (*Spec, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read prompt spec %s", s.path)
	}
	sum := sha256.Sum256(data)

	s.mu.RLock()
	if s.spec != nil && s.sum == sum {
		spec := s.spec
		s.mu.RUnlock()
		return spec, nil
	}
	s.mu.RUnlock()

	spec, err := ParseSpec(data)
	if err != nil {
		return nil, errors.Wrap(err, s.path)
	}

	s.mu.Lock()
	s.sum, s.spec = sum, spec
	s.mu.Unlock()

	s.logger.Info("[prompt] loaded", "path", s.path,
		"system", len(spec.SystemMessages),
		"context", len(spec.ContextMessages),
		"user", len(spec.UserMessages),
	)
	return spec, nil
}
