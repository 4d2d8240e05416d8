package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterRoutes sets up the framework routes and boots every module.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{s.metrics, prometheus.DefaultGatherer},
	}))
	s.E.StaticFS("/static", staticFS(s.Cfg))

	for _, m := range s.modules {
		if err := m.Register(s.injector); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}

	if s.Cfg.IsDevelopment() {
		if err := s.Manifest.Watch(ctx); err != nil {
			slog.Debug("Asset manifest hot reload disabled", "error", err)
		}
	}
	return nil
}
