// Entry point for the inkscore manuscript analysis service: chi router
// over the analysis pipeline, optional MCP stdio mode.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foliograph/inkscore/analysis"
	"github.com/foliograph/inkscore/audit"
	"github.com/foliograph/inkscore/gemini"
)

func main() {
	configPath := flag.String("config", env("CONFIG", ""), "path to YAML config file")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := os.Stdout
	if *mcpMode {
		// stdout belongs to the MCP transport.
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Config: file first, env overrides on top.
	cfg := analysis.DefaultConfig()
	if *configPath != "" {
		loaded, err := analysis.LoadConfig(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + strings.TrimPrefix(port, ":")
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}
	if db := os.Getenv("AUDIT_DB"); db != "" {
		cfg.AuditDB = db
	}

	client := gemini.New(gemini.Config{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Logger: logger,
	})

	var opts []analysis.ServiceOption
	if cfg.AuditDB != "" && cfg.AuditDB != "off" {
		db, err := audit.Open(cfg.AuditDB)
		if err != nil {
			slog.Error("audit db", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		auditLogger := audit.NewSQLiteLogger(db)
		if err := auditLogger.Init(); err != nil {
			slog.Error("audit init", "error", err)
			os.Exit(1)
		}
		opts = append(opts, analysis.WithAudit(auditLogger))
	}

	svc, err := analysis.New(cfg, client, logger, opts...)
	if err != nil {
		slog.Error("init service", "error", err)
		os.Exit(1)
	}

	if *mcpMode {
		slog.Info("serving MCP over stdio")
		if err := svc.ServeMCP(ctx); err != nil && ctx.Err() == nil {
			slog.Error("mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           newRouter(svc, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
