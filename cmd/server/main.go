// Package main is the entry point for the snippet vault server.
//
// main stays minimal by design: read configuration, build the logger, hand
// both to the server package. All actual behaviour lives in internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/snippetvault/internal/config"
	"github.com/sakif/snippetvault/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger isn't built yet; fall back to a bare stderr line.
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	if !cfg.GitHubEnabled() {
		logger.Info("GitHub sign-in disabled (GITHUB_CLIENT_ID/SECRET not set)")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
