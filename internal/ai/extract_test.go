package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReply(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"openai message", `{"choices":[{"message":{"content":"hello"}}]}`, "hello"},
		{"openai parts", `{"choices":[{"message":{"content":[{"type":"text","text":"he"},{"type":"image_url"},{"type":"text","text":"llo"}]}}]}`, "hello"},
		{"openai legacy text", `{"choices":[{"text":"legacy"}]}`, "legacy"},
		{"dashscope text", `{"output":{"text":"world"}}`, "world"},
		{"dashscope choices", `{"output":{"choices":[{"message":{"content":"nested"}}]}}`, "nested"},
		{"empty content falls through", `{"choices":[{"message":{"content":""}}],"output":{"text":"fallback"}}`, "fallback"},
		{"unknown shape", `{"foo":1}`, `{"foo":1}`},
		{"not json", `upstream exploded`, "upstream exploded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractReply([]byte(tc.body)))
		})
	}
}
