package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"golang.org/x/time/rate"

	"github.com/nfrund/carmasy/internal/config"
	core "github.com/nfrund/carmasy/internal/dashboard"
	"github.com/nfrund/carmasy/internal/dashboard/views"
	"github.com/nfrund/carmasy/internal/middleware"
	"github.com/nfrund/carmasy/internal/module"
	"github.com/nfrund/carmasy/internal/pubsub"
	"github.com/nfrund/carmasy/internal/rendering"
	"github.com/nfrund/carmasy/internal/websocket"
)

const sweepInterval = time.Minute

// AssetResolver maps build inputs to URLs for the page head.
type AssetResolver = views.AssetResolver

// DashboardModule serves the interactive dashboard.
type DashboardModule struct {
	module.BaseModule
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	renderer   rendering.Renderer
	assets     AssetResolver

	cancel context.CancelFunc
	done   chan struct{}
}

// Dependencies holds all the services that the DashboardModule requires to operate.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Assets     AssetResolver
}

// New creates a new instance of the DashboardModule, injecting its dependencies.
func New(deps Dependencies) *DashboardModule {
	return &DashboardModule{
		publisher:  deps.Publisher,
		subscriber: deps.Subscriber,
		renderer:   deps.Renderer,
		assets:     deps.Assets,
	}
}

// Name returns the module name.
func (m *DashboardModule) Name() string {
	return "dashboard"
}

// Register provides the session store, configured from config.Provider.
func (m *DashboardModule) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*core.Store, error) {
		cfg, err := do.Invoke[config.Provider](i)
		if err != nil {
			return nil, err
		}
		return NewStore(cfg), nil
	})
	return nil
}

// NewStore builds a session store from configuration.
func NewStore(cfg config.Provider) *core.Store {
	idSource := cfg.GetIDSource()
	return core.NewStore(
		core.WithTTL(cfg.GetSessionTTL()),
		core.WithIDSource(func() core.IDSource { return core.NewIDSource(idSource) }),
	)
}

// Boot sets up the routes and starts the sweeper, the live channel and the
// bus subscribers.
func (m *DashboardModule) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	store, err := do.Invoke[*core.Store](i)
	if err != nil {
		return fmt.Errorf("resolve session store: %w", err)
	}
	cfg, err := do.Invoke[config.Provider](i)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	// Background work outlives the boot call and stops at Shutdown.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.done = make(chan struct{})

	bridge := websocket.NewBridge(&liveHandler{store: store, renderer: m.renderer})
	go func() {
		defer close(m.done)
		bridge.Run(runCtx)
	}()
	go store.Run(runCtx, sweepInterval)

	store.AddListener(&eventPublisher{publisher: m.publisher})
	if err := NewEventSubscriber(m.subscriber, store, m.renderer, bridge).Start(runCtx); err != nil {
		cancel()
		return err
	}

	slog.Info("Booting DashboardModule: Setting up routes...")
	handler := NewHandler(store, m.renderer, m.assets)
	limiter := middleware.RateLimiter(rate.Limit(cfg.GetEventRateLimit()))

	g.GET("/", handler.Page)
	g.POST("/dashboard/events/:event", handler.Event, limiter)
	g.GET("/api/dashboard", handler.State)
	g.POST("/api/dashboard/events/:event", handler.APIEvent, limiter)
	g.GET(views.WebSocketPath, bridge.Handler())

	return nil
}

// Shutdown stops background work and closes live connections.
func (m *DashboardModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down DashboardModule...")
	if m.cancel == nil {
		return nil
	}
	m.cancel()
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
