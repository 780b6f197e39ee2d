package titan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingModule struct{ err error }

func (m failingModule) Install(app *App) { app.fail(m.err) }

type countingModule struct{ n *int }

func (m countingModule) Install(*App) { *m.n++ }

func TestAppBuilder_Defaults(t *testing.T) {
	app, err := NewAppBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), app.Config())
	assert.NotNil(t, app.Logger())
	assert.Nil(t, app.Window())
	assert.Nil(t, app.Assets())
}

func TestAppBuilder_InstallsModulesInOrder(t *testing.T) {
	n := 0
	_, err := NewAppBuilder().UseModule(countingModule{&n}, countingModule{&n}).UseModule(countingModule{&n}).Build()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAppBuilder_JoinsSetupErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	app, err := NewAppBuilder().UseModule(failingModule{first}, failingModule{second}).Build()
	require.Error(t, err)
	assert.NotNil(t, app)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestDefaultModules_Headless(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Headless = true
	cfg.AssetRoot = t.TempDir()
	g := &GraphicsContext{}

	mods := DefaultModules(cfg, nil, g)
	for _, m := range mods {
		_, isWindow := m.(PlatformWindowModule)
		assert.False(t, isWindow)
	}

	app, err := NewAppBuilder().UseConfig(cfg).UseModule(mods...).Build()
	require.NoError(t, err)
	assert.Same(t, g, app.Graphics())
	require.NotNil(t, app.Assets())
	assert.IsType(t, &DefaultLogger{}, app.Logger())
}

func TestDefaultModules_WithWindow(t *testing.T) {
	mods := DefaultModules(DefaultConfig(), nil, nil)
	require.Len(t, mods, 4)
	w, ok := mods[1].(PlatformWindowModule)
	require.True(t, ok)
	assert.Equal(t, 1280, w.Width)
	assert.Equal(t, "Titan", w.Title)
}
