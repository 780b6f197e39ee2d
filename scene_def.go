package titan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef is the YAML form of a scene: global settings plus a flat list of
// named objects. Parents are referenced by name and may appear later in the
// list.
type SceneDef struct {
	Name    string      `yaml:"name"`
	Ambient AmbientDef  `yaml:"ambient"`
	Gravity mgl32.Vec3  `yaml:"gravity"`
	Camera  string      `yaml:"camera"`
	Objects []ObjectDef `yaml:"objects"`
}

type AmbientDef struct {
	Color    mgl32.Vec3 `yaml:"color"`
	Strength float32    `yaml:"strength"`
}

type ObjectDef struct {
	Name     string     `yaml:"name"`
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"` // euler degrees
	Scale    mgl32.Vec3 `yaml:"scale"`
	Parent   string     `yaml:"parent"`

	Renderer  *RendererDef  `yaml:"renderer"`
	Sprite    *SpriteDef    `yaml:"sprite"`
	Physics   *PhysicsDef   `yaml:"physics"`
	Light     *Light        `yaml:"light"`
	Camera    *CameraDef    `yaml:"camera"`
	Animator  *AnimatorDef  `yaml:"animator"`
	Particles *ParticlesDef `yaml:"particles"`
}

type RendererDef struct {
	Mesh     string `yaml:"mesh"`
	Shader   string `yaml:"shader"`
	Material string `yaml:"material"`
	Layer    int    `yaml:"layer"`
}

type SpriteDef struct {
	Texture string     `yaml:"texture"`
	Color   mgl32.Vec4 `yaml:"color"`
	Layer   int        `yaml:"layer"`
}

type PhysicsDef struct {
	Type      string   `yaml:"type"`
	Mass      *float32 `yaml:"mass"`
	NoGravity bool     `yaml:"no_gravity"`
}

// CameraDef is perspective unless Ortho holds left, right, bottom, top.
type CameraDef struct {
	Fov    float32     `yaml:"fov"`
	Aspect float32     `yaml:"aspect"`
	Near   float32     `yaml:"near"`
	Far    float32     `yaml:"far"`
	Ortho  *mgl32.Vec4 `yaml:"ortho"`
}

type AnimatorDef struct {
	Active int       `yaml:"active"`
	Clips  []ClipDef `yaml:"clips"`
}

type ClipDef struct {
	Frames    []int     `yaml:"frames"`
	Durations []float32 `yaml:"durations"`
	Loop      bool      `yaml:"loop"`
	Speed     float32   `yaml:"speed"`
}

type ParticlesDef struct {
	Max        int        `yaml:"max"`
	Rate       float32    `yaml:"rate"`
	Duration   float32    `yaml:"duration"`
	Loop       bool       `yaml:"loop"`
	SingleRate bool       `yaml:"single_rate"`
	Seed       uint64     `yaml:"seed"`
	Shape      string     `yaml:"shape"`
	Angle      float32    `yaml:"angle"`
	Rotation   mgl32.Vec3 `yaml:"rotation"`
	Extent     mgl32.Vec3 `yaml:"extent"`
	Mesh       string     `yaml:"mesh"`
	Material   string     `yaml:"material"`

	VelocityCurve string `yaml:"velocity_curve"`
	ColorCurve    string `yaml:"color_curve"`
	ScaleCurve    string `yaml:"scale_curve"`

	StartColor [2]mgl32.Vec4 `yaml:"start_color"`
	EndColor   [2]mgl32.Vec4 `yaml:"end_color"`
	StartSize  [2]float32    `yaml:"start_size"`
	EndSize    [2]float32    `yaml:"end_size"`
	StartSpeed [2]float32    `yaml:"start_speed"`
	EndSpeed   [2]float32    `yaml:"end_speed"`
	Lifetime   [2]float32    `yaml:"lifetime"`
}

func LoadSceneDef(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %v: %w", err, ErrFatalSetup)
	}
	def, err := ParseSceneDef(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func ParseSceneDef(data []byte) (*SceneDef, error) {
	def := &SceneDef{Ambient: AmbientDef{Color: mgl32.Vec3{1, 1, 1}, Strength: 1}}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scene: %v: %w", err, ErrConfig)
	}
	seen := make(map[string]bool, len(def.Objects))
	for i, o := range def.Objects {
		if o.Name == "" {
			return nil, fmt.Errorf("object %d has no name: %w", i, ErrConfig)
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("duplicate object %q: %w", o.Name, ErrConfig)
		}
		seen[o.Name] = true
	}
	for _, o := range def.Objects {
		if o.Parent != "" && !seen[o.Parent] {
			return nil, fmt.Errorf("object %q: unknown parent %q: %w", o.Name, o.Parent, ErrConfig)
		}
	}
	if def.Camera != "" && !seen[def.Camera] {
		return nil, fmt.Errorf("unknown camera object %q: %w", def.Camera, ErrConfig)
	}
	return def, nil
}

// SpawnScene creates the objects of def in s, resolving asset names through
// assets, and returns the entity of every object by name. Objects spawned
// before an error stay in the scene.
func SpawnScene(s *Scene, assets *AssetSystem, def *SceneDef) (map[string]EntityId, error) {
	if s.Name == "" {
		s.Name = def.Name
	}
	s.SetAmbientColor(def.Ambient.Color)
	s.SetAmbientStrength(def.Ambient.Strength)
	s.SetGravity(def.Gravity)

	entities := make(map[string]EntityId, len(def.Objects))
	for _, o := range def.Objects {
		e, err := spawnObject(s, assets, o)
		if err != nil {
			return entities, fmt.Errorf("object %q: %w", o.Name, err)
		}
		entities[o.Name] = e
	}
	for _, o := range def.Objects {
		if o.Parent == "" {
			continue
		}
		if err := s.SetParent(entities[o.Name], entities[o.Parent]); err != nil {
			return entities, fmt.Errorf("object %q: %w", o.Name, err)
		}
	}
	if def.Camera != "" {
		s.SetCamera(entities[def.Camera])
	}
	return entities, nil
}

func spawnObject(s *Scene, assets *AssetSystem, o ObjectDef) (EntityId, error) {
	scale := o.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}

	e := s.CreateEntity(Tag{Name: o.Name})
	s.AttachTransform(e, o.Position, EulerDegrees(o.Rotation.X(), o.Rotation.Y(), o.Rotation.Z()), scale)

	if r := o.Renderer; r != nil {
		renderer, err := rendererFromDef(assets, r)
		if err != nil {
			return e, err
		}
		s.Attach(e, renderer)
	}

	if sp := o.Sprite; sp != nil {
		tex, ok := assets.Texture2D(sp.Texture)
		if !ok {
			return e, fmt.Errorf("unknown texture %q: %w", sp.Texture, ErrConfig)
		}
		color := sp.Color
		if color == (mgl32.Vec4{}) {
			color = mgl32.Vec4{1, 1, 1, 1}
		}
		s.Attach(e, NewRenderer2D(tex, color, sp.Layer))
	}

	if p := o.Physics; p != nil {
		bodyType, err := ParseBodyType(p.Type)
		if err != nil {
			return e, err
		}
		mass := float32(1)
		if p.Mass != nil {
			mass = *p.Mass
		}
		pb := NewPhysicsBody(o.Position, o.Rotation, scale, e, bodyType, mass)
		if p.NoGravity {
			pb.SetHasGravity(false)
		}
		s.Attach(e, pb)
	}

	if o.Light != nil {
		s.Attach(e, *o.Light)
	}

	if c := o.Camera; c != nil {
		s.Attach(e, cameraFromDef(c))
	}

	if a := o.Animator; a != nil {
		var anim MorphAnimator
		for i, clip := range a.Clips {
			speed := clip.Speed
			if speed == 0 {
				speed = 1
			}
			m, err := NewMorphAnimationWithFrames(clip.Frames, clip.Durations, clip.Loop, speed)
			if err != nil {
				return e, fmt.Errorf("clip %d: %w", i, err)
			}
			anim.AddAnim(m)
		}
		if len(a.Clips) > 0 {
			if err := anim.SetActiveAnim(a.Active); err != nil {
				return e, err
			}
		}
		s.Attach(e, anim)
	}

	if p := o.Particles; p != nil {
		ps, err := particlesFromDef(s.Graphics(), assets, p)
		if err != nil {
			return e, err
		}
		s.Attach(e, ParticleSystemComponent{System: ps})
	}

	return e, nil
}

func rendererFromDef(assets *AssetSystem, r *RendererDef) (Renderer, error) {
	mesh, ok := assets.Mesh(r.Mesh)
	if !ok {
		return Renderer{}, fmt.Errorf("unknown mesh %q: %w", r.Mesh, ErrConfig)
	}
	shader, ok := assets.Shader(r.Shader)
	if !ok {
		return Renderer{}, fmt.Errorf("unknown shader %q: %w", r.Shader, ErrConfig)
	}
	var mat *Material
	if r.Material != "" {
		if mat, ok = assets.Material(r.Material); !ok {
			return Renderer{}, fmt.Errorf("unknown material %q: %w", r.Material, ErrConfig)
		}
	}
	return NewRenderer(mesh, shader, mat, r.Layer), nil
}

func cameraFromDef(c *CameraDef) Camera {
	near, far := c.Near, c.Far
	if near == 0 {
		near = 0.01
	}
	if far == 0 {
		far = 1000
	}
	if c.Ortho != nil {
		o := *c.Ortho
		return NewOrthographicCamera(o[0], o[1], o[2], o[3], near, far)
	}
	fov, aspect := c.Fov, c.Aspect
	if fov == 0 {
		fov = 60
	}
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}
	return NewPerspectiveCamera(fov, aspect, near, far)
}

func particlesFromDef(g *GraphicsContext, assets *AssetSystem, p *ParticlesDef) (*ParticleSystem, error) {
	cfg := DefaultParticleSystemConfig()
	if p.Max > 0 {
		cfg.MaxParticles = p.Max
	}
	if p.Rate != 0 {
		cfg.EmissionRate = p.Rate
	}
	if p.Duration != 0 {
		cfg.Duration = p.Duration
	}
	cfg.Loop = p.Loop
	cfg.SingleRateEmission = p.SingleRate
	if p.Seed != 0 {
		cfg.Random = NewRandom(p.Seed)
	}

	t := NewParticleTemplate()
	if p.StartColor != [2]mgl32.Vec4{} {
		t.SetStartColors(p.StartColor[0], p.StartColor[1])
	}
	if p.EndColor != [2]mgl32.Vec4{} {
		t.SetEndColors(p.EndColor[0], p.EndColor[1])
	}
	if p.StartSize != [2]float32{} {
		t.SetStartSizes(p.StartSize[0], p.StartSize[1])
	}
	if p.EndSize != [2]float32{} {
		t.SetEndSizes(p.EndSize[0], p.EndSize[1])
	}
	if p.StartSpeed != [2]float32{} {
		t.SetStartSpeeds(p.StartSpeed[0], p.StartSpeed[1])
	}
	if p.EndSpeed != [2]float32{} {
		t.SetEndSpeeds(p.EndSpeed[0], p.EndSpeed[1])
	}
	if p.Lifetime != [2]float32{} {
		t.SetLifetimes(p.Lifetime[0], p.Lifetime[1])
	}
	if p.Mesh != "" {
		mesh, ok := assets.Mesh(p.Mesh)
		if !ok {
			return nil, fmt.Errorf("unknown particle mesh %q: %w", p.Mesh, ErrConfig)
		}
		t.Mesh = mesh
	}
	if p.Material != "" {
		mat, ok := assets.Material(p.Material)
		if !ok {
			return nil, fmt.Errorf("unknown particle material %q: %w", p.Material, ErrConfig)
		}
		t.Material = mat
	}
	cfg.Template = t

	ps, err := NewParticleSystem(g, cfg)
	if err != nil {
		return nil, err
	}
	switch p.Shape {
	case "", "sphere":
		ps.MakeSphereEmitter()
	case "cone":
		angle := p.Angle
		if angle == 0 {
			angle = 15
		}
		ps.MakeConeEmitter(angle, p.Rotation)
	case "circle":
		ps.MakeCircleEmitter(p.Rotation)
	case "cube":
		extent := p.Extent
		if extent == (mgl32.Vec3{}) {
			extent = mgl32.Vec3{1, 1, 1}
		}
		ps.MakeCubeEmitter(extent, p.Rotation)
	default:
		return nil, fmt.Errorf("unknown emitter shape %q: %w", p.Shape, ErrConfig)
	}

	curves := []struct {
		name string
		set  func(EaseFunc)
	}{
		{p.VelocityCurve, ps.SetVelocityCurve},
		{p.ColorCurve, ps.SetColorCurve},
		{p.ScaleCurve, ps.SetScaleCurve},
	}
	for _, c := range curves {
		if c.name == "" {
			continue
		}
		fn, ok := EaseByName(c.name)
		if !ok {
			return nil, fmt.Errorf("unknown curve %q: %w", c.name, ErrConfig)
		}
		c.set(fn)
	}
	return ps, nil
}
