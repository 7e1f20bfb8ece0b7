// Blueprint - guided-conversation lead capture server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/madcapvc/blueprint/internal/api"
	"github.com/madcapvc/blueprint/internal/config"
	"github.com/madcapvc/blueprint/internal/flow"
	"github.com/madcapvc/blueprint/internal/llm"
	"github.com/madcapvc/blueprint/internal/middleware"
	"github.com/madcapvc/blueprint/internal/store"
	"github.com/madcapvc/blueprint/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	rows, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize lead store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("Failed to close lead store", "error", closeErr)
		}
	}()

	if err := rows.Ping(context.Background()); err != nil {
		slog.Error("Lead store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Lead store connected", "path", cfg.DBPath, "email_fold", cfg.EmailCaseInsensitive)

	leads := store.NewLeads(rows, cfg.EmailCaseInsensitive)

	if cfg.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, chat turns will fail until it is configured")
	}
	completer := llm.NewClient(cfg.OpenAI)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services.
	registry := flow.NewRegistry()
	intake := flow.NewIntake(leads, registry)
	relay := flow.NewRelay(completer)
	converter := flow.NewConverter(leads)

	// Abandoned interviews are swept from memory; their lead rows persist.
	flow.StartTTLWorker(ctx, registry, cfg.SessionTTL)

	// Initialize handlers.
	handler := api.NewHandler(registry, intake, relay, converter, leads, cfg)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	handler.RegisterRoutes(r)

	// WebSocket chat endpoint.
	r.Get("/ws/chat", handler.HandleWS)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Note: SSE streaming requires no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
