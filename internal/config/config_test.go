package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"OPEN_API_KEY":      "sk-a",
		"DASHSCOPE_API_KEY": "sk-b",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultOpenAIURL, cfg.OpenAIURL)
	assert.Equal(t, DefaultDashScopeURL, cfg.DashScopeURL)
	assert.Equal(t, "qwen-plus", cfg.DefaultModel)
	assert.Equal(t, 20*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 300*time.Second, cfg.DashScopeTimeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.False(t, cfg.KeywordBackfill)
	assert.Empty(t, cfg.GatewayToken)
}

func TestLoadMissingCredentials(t *testing.T) {
	_, err := LoadFrom(envOf(map[string]string{"DASHSCOPE_API_KEY": "sk-b"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPEN_API_KEY")

	_, err = LoadFrom(envOf(map[string]string{"OPEN_API_KEY": "sk-a"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DASHSCOPE_API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"OPEN_API_KEY":      "sk-a",
		"DASHSCOPE_API_KEY": "sk-b",
		"DASH_URL":          "http://localhost:9000/gen",
		"DASHSCOPE_TIMEOUT": "45s",
		"KEYWORD_BACKFILL":  "true",
		"GATEWAY_TOKEN":     " secret ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/gen", cfg.DashScopeURL)
	assert.Equal(t, 45*time.Second, cfg.DashScopeTimeout)
	assert.True(t, cfg.KeywordBackfill)
	assert.Equal(t, "secret", cfg.GatewayToken)
}

func TestLoadRejectsBadValues(t *testing.T) {
	base := map[string]string{"OPEN_API_KEY": "a", "DASHSCOPE_API_KEY": "b"}

	for key, val := range map[string]string{
		"OPENAI_TIMEOUT":   "soon",
		"CONNECT_TIMEOUT":  "-1s",
		"KEYWORD_BACKFILL": "maybe",
	} {
		env := map[string]string{key: val}
		for k, v := range base {
			env[k] = v
		}
		_, err := LoadFrom(envOf(env))
		assert.Error(t, err, key)
	}
}
