package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atlasx/titan"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
)

type demoHooks struct {
	titan.BaseHooks
	log      titan.Logger
	input    *titan.Input
	contacts int
}

func (h *demoHooks) OnUpdate(s *titan.Scene, dt float32) {
	titan.UpdateFlyingCameras(s, h.input, dt)
}

func (h *demoHooks) OnInit(s *titan.Scene) {
	h.log.Infof("scene %q ready with %d entities", s.Name, s.EntityCount())
}

func (h *demoHooks) OnKeyDown(s *titan.Scene, key titan.Key) {
	if key == titan.KeyP {
		s.SetPaused(!s.Paused())
	}
}

func (h *demoHooks) OnPostRender(s *titan.Scene) {
	if n := len(s.Collisions()); n != h.contacts {
		h.log.Infof("%d collision(s)", n)
		for _, c := range s.Collisions() {
			h.log.Debugf("  %d <-> %d", c.Body1, c.Body2)
		}
		h.contacts = n
	}
}

func main() {
	configPath := flag.String("config", "", "engine config YAML")
	scenePath := flag.String("scene", "", "scene YAML; a built-in scene is used when empty")
	frames := flag.Int("frames", 300, "frames to run headless")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per headless frame")
	headless := flag.Bool("headless", false, "run without a window")
	profileMode := flag.String("profile", "", "cpu or mem")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	if err := run(*configPath, *scenePath, *frames, float32(*dt), *headless); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, scenePath string, frames int, dt float32, headless bool) error {
	cfg := titan.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = titan.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if headless {
		cfg.Window.Headless = true
	}

	app, err := titan.NewAppBuilder().
		UseConfig(cfg).
		UseModule(titan.DefaultModules(cfg, nil, nil)...).
		Build()
	if err != nil {
		return err
	}
	log := app.Logger()

	scene := app.NewScene("demo")
	scene.SetHooks(&demoHooks{log: log, input: app.Input()})
	if scenePath != "" {
		def, err := titan.LoadSceneDef(scenePath)
		if err != nil {
			return err
		}
		if err := loadSceneAssets(app.Assets()); err != nil {
			return err
		}
		if _, err := titan.SpawnScene(scene, app.Assets(), def); err != nil {
			return err
		}
	} else if err := buildDefaultScene(scene); err != nil {
		return err
	}
	app.AddScene(scene)

	if cfg.Window.Headless {
		app.RunFrames(frames, dt)
		app.Close()
		return nil
	}
	app.Run()
	return nil
}

// loadSceneAssets registers the built-in shaders every scene file may name.
func loadSceneAssets(assets *titan.AssetSystem) error {
	shaders := []struct {
		name       string
		vert, frag titan.DefaultShader
	}{
		{"lit", titan.VertNoColor, titan.FragBlinnPhongNoTexture},
		{"lit_albedo", titan.VertNoColor, titan.FragBlinnPhongAlbedoOnly},
		{"lit_specular", titan.VertNoColor, titan.FragBlinnPhongAlbedoAndSpecular},
		{"skybox", titan.VertSkybox, titan.FragSkybox},
		{"morph", titan.VertMorphAnimationNoColor, titan.FragBlinnPhongNoTexture},
	}
	for _, sh := range shaders {
		if _, err := assets.AddDefaultShaderToBeLoaded(sh.name, sh.vert, sh.frag, 0); err != nil {
			return err
		}
	}
	return assets.LoadSetNow(0)
}

func buildDefaultScene(s *titan.Scene) error {
	s.SetGravity(mgl32.Vec3{0, -9.8, 0})

	cam := s.CreateEntity(titan.Tag{Name: "camera"}, titan.NewPerspectiveCamera(60, 16.0/9.0, 0.01, 1000), titan.NewFlyingCamera())
	s.AttachTransform(cam, mgl32.Vec3{0, 4, 12}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	s.SetCamera(cam)

	light := s.CreateEntity(titan.Tag{Name: "sun"})
	s.AttachTransform(light, mgl32.Vec3{0, 10, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	sun := titan.NewLight()
	sun.AmbientStrength, sun.SpecularStrength, sun.ConstantAttenuation = 0.2, 0.5, 1
	s.Attach(light, sun)

	ground := s.CreateEntity(titan.Tag{Name: "ground"})
	groundScale := mgl32.Vec3{20, 1, 20}
	s.AttachTransform(ground, mgl32.Vec3{}, mgl32.QuatIdent(), groundScale)
	s.Attach(ground, titan.NewPhysicsBody(mgl32.Vec3{}, mgl32.Vec3{}, groundScale, ground, titan.BodyStatic, 0))

	for i := range 4 {
		pos := mgl32.Vec3{float32(i) - 1.5, 3 + float32(i)*1.5, 0}
		box := s.CreateEntity(titan.Tag{Name: fmt.Sprintf("box%d", i)})
		s.AttachTransform(box, pos, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
		s.Attach(box, titan.NewPhysicsBody(pos, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, box, titan.BodyDynamic, 1))
	}

	cfg := titan.DefaultParticleSystemConfig()
	cfg.MaxParticles = 500
	cfg.EmissionRate = 30
	cfg.Random = titan.NewRandom(7)
	cfg.Template.SetStartColors(mgl32.Vec4{1, 0.6, 0.1, 1}, mgl32.Vec4{1, 0.9, 0.3, 1})
	cfg.Template.SetEndColors(mgl32.Vec4{0.3, 0.3, 0.3, 0}, mgl32.Vec4{0.3, 0.3, 0.3, 0})
	cfg.Template.SetLifetimes(0.8, 1.6)
	ps, err := titan.NewParticleSystem(s.Graphics(), cfg)
	if err != nil {
		return err
	}
	ps.MakeConeEmitter(20, mgl32.Vec3{})
	if fn, ok := titan.EaseByName("out_quad"); ok {
		ps.SetVelocityCurve(fn)
	}
	fire := s.CreateEntity(titan.Tag{Name: "fire"}, titan.ParticleSystemComponent{System: ps})
	s.AttachTransform(fire, mgl32.Vec3{4, 0.5, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	return nil
}
