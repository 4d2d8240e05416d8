package app

import (
	"github.com/samber/do/v2"

	"github.com/nfrund/carmasy/internal/config"
	"github.com/nfrund/carmasy/internal/module"
	"github.com/nfrund/carmasy/internal/modules/dashboard"
	"github.com/nfrund/carmasy/internal/pubsub"
	"github.com/nfrund/carmasy/internal/rendering"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Config     config.Provider
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Assets     dashboard.AssetResolver
}

// NewInjector creates the root scope holding the core services, so modules
// can resolve them during Register and Boot.
func NewInjector(deps Dependencies) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, deps.Config)
	do.ProvideValue(injector, deps.Publisher)
	do.ProvideValue(injector, deps.Subscriber)
	do.ProvideValue(injector, deps.Renderer)
	return injector
}

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		dashboard.New(dashboardDeps(deps)),
	}
}

func dashboardDeps(deps Dependencies) dashboard.Dependencies {
	return dashboard.Dependencies{
		Publisher:  deps.Publisher,
		Subscriber: deps.Subscriber,
		Renderer:   deps.Renderer,
		Assets:     deps.Assets,
	}
}
