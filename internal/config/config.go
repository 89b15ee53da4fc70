package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultOpenAIURL    = "https://api.openai.com/v1/chat/completions"
	DefaultDashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	DefaultModel        = "qwen-plus"
)

// Config is resolved once at startup and read-only afterwards.
type Config struct {
	Port string

	OpenAIKey    string
	OpenAIURL    string
	DashScopeKey string
	DashScopeURL string
	DefaultModel string

	OpenAITimeout    time.Duration
	DashScopeTimeout time.Duration
	ConnectTimeout   time.Duration

	ChatPromptPath    string
	SummaryPromptPath string

	// GatewayToken enables caller authentication when non-empty.
	GatewayToken    string
	KeywordBackfill bool
	LogLevel        string
}

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds a Config from getenv, failing on missing credentials or
// malformed values.
func LoadFrom(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:              get("PORT", "8080"),
		OpenAIKey:         get("OPEN_API_KEY", ""),
		OpenAIURL:         get("OPEN_URL", DefaultOpenAIURL),
		DashScopeKey:      get("DASHSCOPE_API_KEY", ""),
		DashScopeURL:      get("DASH_URL", DefaultDashScopeURL),
		DefaultModel:      get("DEFAULT_MODEL", DefaultModel),
		ChatPromptPath:    get("CHAT_PROMPT_PATH", "prompts/chat.json"),
		SummaryPromptPath: get("SUMMARY_PROMPT_PATH", "prompts/summary.json"),
		GatewayToken:      get("GATEWAY_TOKEN", ""),
		LogLevel:          get("LOG_LEVEL", "info"),
	}

	if cfg.OpenAIKey == "" {
		return Config{}, errors.New("OPEN_API_KEY is not set")
	}
	if cfg.DashScopeKey == "" {
		return Config{}, errors.New("DASHSCOPE_API_KEY is not set")
	}

	var err error
	if cfg.OpenAITimeout, err = duration(get("OPENAI_TIMEOUT", "20s")); err != nil {
		return Config{}, errors.Wrap(err, "OPENAI_TIMEOUT")
	}
	if cfg.DashScopeTimeout, err = duration(get("DASHSCOPE_TIMEOUT", "300s")); err != nil {
		return Config{}, errors.Wrap(err, "DASHSCOPE_TIMEOUT")
	}
	if cfg.ConnectTimeout, err = duration(get("CONNECT_TIMEOUT", "10s")); err != nil {
		return Config{}, errors.Wrap(err, "CONNECT_TIMEOUT")
	}
	if cfg.KeywordBackfill, err = strconv.ParseBool(get("KEYWORD_BACKFILL", "false")); err != nil {
		return Config{}, errors.Wrap(err, "KEYWORD_BACKFILL")
	}

	return cfg, nil
}

func duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}
