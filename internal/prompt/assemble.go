package prompt

import (
	"strings"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
)

// Assemble renders spec against payload in system, context, user order,
// keeping declaration order inside each bucket. A template whose arguments
// do not all resolve is skipped whole.
func Assemble(spec *Spec, payload Payload) []ai.Message {
	if spec == nil {
		return nil
	}

	r := NewResolver(payload)
	buckets := []struct {
		role      string
		templates []MessageTemplate
	}{
		{ai.RoleSystem, spec.SystemMessages},
		{ai.RoleContext, spec.ContextMessages},
		{ai.RoleUser, spec.UserMessages},
	}

	var out []ai.Message
	for _, b := range buckets {
		for _, t := range b.templates {
			content, ok := r.renderTemplate(t)
			if !ok {
				continue
			}
			role := t.Role
			if role == "" {
				role = b.role
			}
			out = append(out, ai.Message{Role: role, Content: content})
		}
	}
	return out
}

func (r *Resolver) renderTemplate(t MessageTemplate) (string, bool) {
	if len(t.NeedArgs) == 0 {
		return t.Content, true
	}

	pairs := make([]string, 0, 2*len(t.NeedArgs))
	for _, name := range t.NeedArgs {
		v, ok := r.Lookup(name)
		if !ok {
			return "", false
		}
		pairs = append(pairs, "{"+name+"}", v)
	}
	// One pass, so a substituted value is never substituted again.
	return strings.NewReplacer(pairs...).Replace(t.Content), true
}
