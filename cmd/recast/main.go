package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/recast/api"
	"github.com/use-agent/recast/config"
	"github.com/use-agent/recast/extractor"
	"github.com/use-agent/recast/generator"
	"github.com/use-agent/recast/pipeline"
	"github.com/use-agent/recast/prompt"
	"github.com/use-agent/recast/renderer"
	"github.com/use-agent/recast/sanitizer"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("recast starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxPages", cfg.Browser.MaxPages,
		"model", cfg.LLM.Model,
	)

	if cfg.LLM.APIKey == "" {
		slog.Warn("RECAST_LLM_API_KEY is not set; clone requests will fail at the generation stage")
	}

	// ── 3. Initialise renderer (launches browser) ───────────────────
	rd, err := renderer.New(cfg.Browser, cfg.Renderer)
	if err != nil {
		slog.Error("failed to initialise renderer", "error", err)
		os.Exit(1)
	}
	defer rd.Close()

	// ── 4. Wire the clone pipeline ──────────────────────────────────
	ex := extractor.New(cfg.LLM.MaxPromptChars)
	pb := prompt.NewBuilder(cfg.LLM.MaxPromptChars)
	gen := generator.NewClient(cfg.LLM, nil)

	var san pipeline.Sanitizer
	if cfg.Sanitize.Enabled {
		san = sanitizer.New()
		slog.Info("output sanitization enabled")
	}

	pipe := pipeline.New(rd, ex, pb, gen, san, cfg.Renderer.AllowPrivateHosts)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(pipe, rd, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// rd.Close() runs via defer — kills Chrome.
	slog.Info("recast stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
