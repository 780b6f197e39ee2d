package titan

import (
	"errors"
	"slices"
	"time"
)

// Module configures an app while it is built. A module that cannot set up
// records the failure with App.fail and Build returns it.
type Module interface {
	Install(app *App)
}

// App owns the window, input, asset system and the list of scenes, and
// drives every scene once per frame.
type App struct {
	config   Config
	logger   Logger
	window   *Window
	keys     KeySource
	input    Input
	clock    Time
	now      func() time.Time
	assets   *AssetSystem
	graphics *GraphicsContext

	scenes []*Scene
	frames uint64
	quit   bool

	setupErr error
}

func (app *App) Config() Config                 { return app.config }
func (app *App) Logger() Logger                 { return app.logger }
func (app *App) Window() *Window                { return app.window }
func (app *App) Input() *Input                  { return &app.input }
func (app *App) Time() Time                     { return app.clock }
func (app *App) Assets() *AssetSystem           { return app.assets }
func (app *App) Graphics() *GraphicsContext     { return app.graphics }
func (app *App) Scenes() []*Scene               { return slices.Clone(app.scenes) }
func (app *App) FrameCount() uint64             { return app.frames }
func (app *App) SetKeySource(src KeySource)     { app.keys = src }
func (app *App) SetGraphics(g *GraphicsContext) { app.graphics = g }

func (app *App) fail(err error) {
	app.logger.Errorf("setup: %v", err)
	app.setupErr = errors.Join(app.setupErr, err)
}

// NewScene creates a scene sharing the app's graphics context, logger and
// physics settings. It is not added to the app.
func (app *App) NewScene(name string) *Scene {
	s := NewSceneWithPhysics(app.graphics, scopedLogger(app.logger, "scene:"+name), app.config.Physics.CollisionConfiguration())
	s.Name = name
	return s
}

// AddScene appends s to the frame loop and runs its OnInit hook. Scenes run
// in the order they were added.
func (app *App) AddScene(s *Scene) {
	if s == nil || slices.Contains(app.scenes, s) {
		return
	}
	app.scenes = append(app.scenes, s)
	s.Init()
}

// RemoveScene takes s out of the frame loop without unloading it.
func (app *App) RemoveScene(s *Scene) {
	app.scenes = slices.DeleteFunc(app.scenes, func(o *Scene) bool { return o == s })
}

// Frame runs one frame of dt seconds: one background asset, input polling,
// then for every scene that should render its input hooks, OnUpdate,
// Update, Render, OnRender, PostRender and OnPostRender.
func (app *App) Frame(dt float32) {
	if app.assets != nil {
		if err := app.assets.Update(); err != nil {
			app.logger.Warnf("background asset load: %v", err)
		}
	}

	app.input.Poll(app.keys)

	for _, s := range slices.Clone(app.scenes) {
		if !s.ShouldRender() {
			continue
		}
		app.input.dispatch(s)

		s.hooks.OnUpdate(s, dt)
		s.Update(dt)

		s.Render()
		s.hooks.OnRender(s)

		s.PostRender()
		s.hooks.OnPostRender(s)
	}

	app.input.Reset()
	app.frames++
}

// Quit ends Run after the current frame.
func (app *App) Quit() { app.quit = true }

// Run loops until Quit is called or the window is closed, then unloads
// every scene and closes the window.
func (app *App) Run() {
	app.logger.Infof("running with %d scene(s)", len(app.scenes))
	for !app.quit {
		if app.window != nil {
			if app.window.ShouldClose() {
				break
			}
			app.window.PollEvents()
		}

		app.Frame(app.clock.Tick(app.now()))

		if app.window != nil {
			app.window.SwapBuffers()
		}
	}
	app.close()
}

// RunFrames runs n frames of a fixed dt, stopping early on Quit. It does not
// close the app.
func (app *App) RunFrames(n int, dt float32) {
	for i := 0; i < n && !app.quit; i++ {
		if app.window != nil {
			app.window.PollEvents()
		}
		app.Frame(dt)
		if app.window != nil {
			app.window.SwapBuffers()
		}
	}
}

// Close unloads every scene and closes the window.
func (app *App) Close() { app.close() }

func (app *App) close() {
	for _, s := range app.scenes {
		s.Unload()
	}
	app.scenes = nil
	if app.window != nil {
		app.window.Destroy()
		app.window = nil
		app.keys = nil
	}
	app.logger.Infof("closed after %d frames", app.frames)
}
