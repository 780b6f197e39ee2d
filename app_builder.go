package titan

import (
	"time"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		config: DefaultConfig(),
		logger: NewNopLogger(),
		now:    time.Now,
	}}
}

// UseConfig replaces the default configuration. Modules read it while
// installing, so call it before Build.
func (b *AppBuilder) UseConfig(cfg Config) *AppBuilder {
	b.app.config = cfg
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in order. The app is returned even when a
// module failed, together with the joined setup errors.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app
	for _, module := range b.modules {
		module.Install(app)
	}
	return app, app.setupErr
}

// DefaultModules derives the standard module list from cfg: logging, the
// window unless headless, the asset system and a graphics context.
func DefaultModules(cfg Config, backend AssetBackend, g *GraphicsContext) []Module {
	mods := []Module{LoggingModule{Prefix: cfg.LogPrefix, Debug: cfg.Debug}}
	if !cfg.Window.Headless {
		mods = append(mods, PlatformWindowModule{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Title:  cfg.Window.Title,
			VSync:  cfg.Window.VSync,
		})
	}
	return append(mods,
		AssetModule{Root: cfg.AssetRoot, Backend: backend},
		GraphicsModule{Context: g},
	)
}

// GraphicsModule hands the app the context its scenes draw with.
type GraphicsModule struct {
	Context *GraphicsContext
}

func (m GraphicsModule) Install(app *App) {
	app.graphics = m.Context
}
