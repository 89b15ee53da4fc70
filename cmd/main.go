package main

import (
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/Vovarama1992/prompt-gateway/internal/ai"
	"github.com/Vovarama1992/prompt-gateway/internal/chat"
	"github.com/Vovarama1992/prompt-gateway/internal/config"
	"github.com/Vovarama1992/prompt-gateway/internal/httpx"
	"github.com/Vovarama1992/prompt-gateway/internal/prompt"
	"github.com/Vovarama1992/prompt-gateway/internal/summary"
)

func main() {
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown LOG_LEVEL, using info", "value", cfg.LogLevel)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
	}))

	// --- Backends ---
	openAI := ai.NewOpenAIClient(cfg.OpenAIURL, cfg.OpenAIKey, cfg.ConnectTimeout, cfg.OpenAITimeout, logger)
	dashScope := ai.NewDashScopeClient(cfg.DashScopeURL, cfg.DashScopeKey, cfg.ConnectTimeout, cfg.DashScopeTimeout, logger)
	dispatcher := ai.NewDispatcher(openAI, dashScope, cfg.DefaultModel, logger)

	// --- Templates ---
	chatPrompts := prompt.NewStore(cfg.ChatPromptPath, logger)
	summaryPrompts := prompt.NewStore(cfg.SummaryPromptPath, logger)
	for _, s := range []*prompt.Store{chatPrompts, summaryPrompts} {
		if _, err := s.Load(); err != nil {
			logger.Warn("prompt file not usable yet", "path", s.Path(), "err", err)
		}
	}

	// --- Chat module wiring ---
	chatService := chat.NewService(chatPrompts, dispatcher, cfg.DefaultModel, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	// --- Summary module wiring ---
	var backfill *summary.Backfiller
	if cfg.KeywordBackfill {
		backfill = summary.NewBackfiller(dispatcher, logger)
	}
	summaryService := summary.NewService(summaryPrompts, dispatcher, backfill, cfg.DefaultModel, logger)
	summaryHandler := summary.NewHandler(summaryService, logger)

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireToken(cfg.GatewayToken))
		chat.RegisterRoutes(r, chatHandler)
		summary.RegisterRoutes(r, summaryHandler)
	})

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"ok": "health !"})
	})

	logger.Info("listening", "port", cfg.Port, "default_model", cfg.DefaultModel, "auth", cfg.GatewayToken != "")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
