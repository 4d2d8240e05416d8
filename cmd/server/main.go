package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/carmasy/internal/config"
	"github.com/nfrund/carmasy/internal/logging"
	"github.com/nfrund/carmasy/internal/server"
)

func main() {
	logging.New()

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	s := server.New(cfg)

	ctx := context.Background()
	if err := s.RegisterRoutes(ctx); err != nil {
		slog.Error("Failed to register routes", "error", err)
		os.Exit(1)
	}

	if err := s.Start(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
