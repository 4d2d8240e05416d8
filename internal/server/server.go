package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/carmasy/internal/app"
	"github.com/nfrund/carmasy/internal/assets"
	"github.com/nfrund/carmasy/internal/config"
	"github.com/nfrund/carmasy/internal/middleware"
	"github.com/nfrund/carmasy/internal/module"
	"github.com/nfrund/carmasy/internal/pubsub"
	"github.com/nfrund/carmasy/internal/rendering"
	"github.com/nfrund/carmasy/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Bus      *pubsub.WatermillBridge
	Manifest *assets.Manifest

	metrics  *prometheus.Registry
	injector *do.RootScope
	modules  []module.Module
}

// New creates a new Server instance. The configuration must already be
// validated.
func New(cfg config.Provider) *Server {
	e := echo.New()
	e.HideBanner = true
	setupErrorHandling(e)

	// HTTP metrics get their own registry so several servers can coexist in
	// one process. /metrics also serves the default registry.
	reg := prometheus.NewRegistry()

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "carmasy",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.GetSessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.DashboardSession(store.Options.MaxAge))
	e.Use(middleware.Logger)

	renderer := rendering.NewUniversalRenderer()
	e.Renderer = renderer

	manifest := newManifest(cfg)
	if err := manifest.Load(); err != nil {
		slog.Warn("Asset manifest unusable, serving fallback assets", "error", err)
	}

	bus := pubsub.NewWatermillBridge()
	deps := app.Dependencies{
		Config:     cfg,
		Publisher:  bus,
		Subscriber: bus,
		Renderer:   renderer,
		Assets:     manifest,
	}

	return &Server{
		E:        e,
		Cfg:      cfg,
		Bus:      bus,
		Manifest: manifest,
		metrics:  reg,
		injector: app.NewInjector(deps),
		modules:  app.NewModules(deps),
	}
}

// newManifest reads the build manifest from disk when assets are served from
// disk or in development, and from the embedded copy otherwise.
func newManifest(cfg config.Provider) *assets.Manifest {
	if cfg.GetAssetsDir() != "" || cfg.IsDevelopment() {
		return assets.NewManifest(afero.NewOsFs(), cfg.GetAssetsManifest())
	}
	return assets.NewManifest(afero.FromIOFS{FS: web.FS}, web.ManifestPath)
}

// staticFS returns the tree served under /static.
func staticFS(cfg config.Provider) fs.FS {
	if dir := cfg.GetAssetsDir(); dir != "" {
		return afero.NewIOFS(afero.NewBasePathFs(afero.NewOsFs(), dir))
	}
	return echo.MustSubFS(web.FS, "static")
}
