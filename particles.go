package titan

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

type EmitterShape int

const (
	EmitterCone EmitterShape = iota
	EmitterSphere
	EmitterCircle
	EmitterCube
)

func (s EmitterShape) String() string {
	switch s {
	case EmitterCone:
		return "cone"
	case EmitterSphere:
		return "sphere"
	case EmitterCircle:
		return "circle"
	case EmitterCube:
		return "cube"
	}
	return fmt.Sprintf("EmitterShape(%d)", int(s))
}

// EaseFunc maps normalized particle age in [0, 1] to a blend factor.
type EaseFunc func(t float32) float32

func Linear(t float32) float32 { return t }

// EaseFrom adapts a gween tween curve, e.g. EaseFrom(ease.OutQuad).
func EaseFrom(fn ease.TweenFunc) EaseFunc {
	return func(t float32) float32 { return fn(t, 0, 1, 1) }
}

var easeByName = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"out_elastic":  ease.OutElastic,
	"out_bounce":   ease.OutBounce,
}

// EaseByName looks up a curve by snake case name, e.g. "out_quad".
func EaseByName(name string) (EaseFunc, bool) {
	fn, ok := easeByName[name]
	if !ok {
		return nil, false
	}
	return EaseFrom(fn), true
}

// ParticleTemplate holds the ranges every emitted particle is sampled from.
// Each pair is (min, max); equal values give a fixed attribute.
type ParticleTemplate struct {
	StartColor, StartColor2 mgl32.Vec4
	EndColor, EndColor2     mgl32.Vec4
	StartSize, StartSize2   float32
	EndSize, EndSize2       float32
	StartSpeed, StartSpeed2 float32
	EndSpeed, EndSpeed2     float32
	Lifetime, Lifetime2     float32

	// Mesh is the geometry instanced per particle; Material.Albedo textures it.
	Mesh     Mesh
	Material *Material
}

// NewParticleTemplate returns white, unit sized, unit speed particles living
// one second.
func NewParticleTemplate() ParticleTemplate {
	white := mgl32.Vec4{1, 1, 1, 1}
	return ParticleTemplate{
		StartColor: white, StartColor2: white,
		EndColor: white, EndColor2: white,
		StartSize: 1, StartSize2: 1,
		EndSize: 1, EndSize2: 1,
		StartSpeed: 1, StartSpeed2: 1,
		EndSpeed: 1, EndSpeed2: 1,
		Lifetime: 1, Lifetime2: 1,
	}
}

func (t *ParticleTemplate) SetStartColors(a, b mgl32.Vec4) { t.StartColor, t.StartColor2 = a, b }
func (t *ParticleTemplate) SetEndColors(a, b mgl32.Vec4)   { t.EndColor, t.EndColor2 = a, b }
func (t *ParticleTemplate) SetStartSizes(a, b float32)     { t.StartSize, t.StartSize2 = a, b }
func (t *ParticleTemplate) SetEndSizes(a, b float32)       { t.EndSize, t.EndSize2 = a, b }
func (t *ParticleTemplate) SetStartSpeeds(a, b float32)    { t.StartSpeed, t.StartSpeed2 = a, b }
func (t *ParticleTemplate) SetEndSpeeds(a, b float32)      { t.EndSpeed, t.EndSpeed2 = a, b }
func (t *ParticleTemplate) SetLifetimes(a, b float32)      { t.Lifetime, t.Lifetime2 = a, b }

type ParticleSystemConfig struct {
	MaxParticles int
	EmissionRate float32 // particles per second
	Template     ParticleTemplate
	Duration     float32 // seconds of emission per cycle
	Loop         bool

	// Update emits once per 1/EmissionRate interval and then again
	// EmissionRate*dt times, roughly doubling the configured rate. Existing
	// effects are tuned against that; SingleRateEmission drops the second
	// batch.
	SingleRateEmission bool

	// Random defaults to a time seeded source.
	Random *Random
}

func DefaultParticleSystemConfig() ParticleSystemConfig {
	return ParticleSystemConfig{
		MaxParticles: 1000,
		EmissionRate: 5,
		Template:     NewParticleTemplate(),
		Duration:     5,
		Loop:         true,
	}
}

// ParticleSystem simulates a fixed pool of particles on the CPU and draws
// them with one instanced call. Emission always overwrites the slot under
// the cursor, live or not, and moves the cursor down, wrapping at zero.
type ParticleSystem struct {
	positions       []mgl32.Vec3
	startColors     []mgl32.Vec4
	endColors       []mgl32.Vec4
	startVelocities []mgl32.Vec3
	endVelocities   []mgl32.Vec3
	startScales     []float32
	endScales       []float32
	timeAlive       []float32
	lifetimes       []float32
	active          []bool

	outPositions []mgl32.Vec3
	outColors    []mgl32.Vec4
	outScales    []float32

	cursor int

	shape        EmitterShape
	angle        float32
	emitterScale mgl32.Vec3
	rotation     mgl32.Vec3 // degrees
	rotationQuat mgl32.Quat

	emissionRate      float32
	emissionTimer     float32
	duration          float32
	durationRemaining float32
	loop              bool
	paused            bool
	singleRate        bool

	template ParticleTemplate

	velocityCurve EaseFunc
	colorCurve    EaseFunc
	scaleCurve    EaseFunc

	rng      *Random
	graphics *GraphicsContext
	buffers  InstanceBuffers
}

// NewParticleSystem allocates the pool. The graphics context may be nil for
// a system that only simulates.
func NewParticleSystem(g *GraphicsContext, cfg ParticleSystemConfig) (*ParticleSystem, error) {
	if cfg.MaxParticles <= 0 {
		return nil, fmt.Errorf("particle capacity %d: %w", cfg.MaxParticles, ErrConfig)
	}
	n := cfg.MaxParticles
	rng := cfg.Random
	if rng == nil {
		rng = NewTimeSeededRandom()
	}

	p := &ParticleSystem{
		positions:       make([]mgl32.Vec3, n),
		startColors:     make([]mgl32.Vec4, n),
		endColors:       make([]mgl32.Vec4, n),
		startVelocities: make([]mgl32.Vec3, n),
		endVelocities:   make([]mgl32.Vec3, n),
		startScales:     make([]float32, n),
		endScales:       make([]float32, n),
		timeAlive:       make([]float32, n),
		lifetimes:       make([]float32, n),
		active:          make([]bool, n),
		outPositions:    make([]mgl32.Vec3, n),
		outColors:       make([]mgl32.Vec4, n),
		outScales:       make([]float32, n),

		cursor: n - 1,

		shape:        EmitterSphere,
		angle:        15,
		emitterScale: mgl32.Vec3{1, 1, 1},
		rotationQuat: mgl32.QuatIdent(),

		emissionRate:      cfg.EmissionRate,
		duration:          cfg.Duration,
		durationRemaining: cfg.Duration,
		loop:              cfg.Loop,
		singleRate:        cfg.SingleRateEmission,

		velocityCurve: Linear,
		colorCurve:    Linear,
		scaleCurve:    Linear,

		rng:      rng,
		graphics: g,
		buffers:  g.instanceBuffers(),
	}
	p.SetTemplate(cfg.Template)
	return p, nil
}

// MakeConeEmitter shoots particles up the emitter's Y axis, deflected by up
// to angle degrees about X and Z.
func (p *ParticleSystem) MakeConeEmitter(angle float32, rotationDegrees mgl32.Vec3) {
	p.angle = angle
	p.SetEmitterRotation(rotationDegrees)
	p.shape = EmitterCone
}

// MakeCircleEmitter shoots particles outwards in the emitter's XY plane.
func (p *ParticleSystem) MakeCircleEmitter(rotationDegrees mgl32.Vec3) {
	p.SetEmitterRotation(rotationDegrees)
	p.shape = EmitterCircle
}

func (p *ParticleSystem) MakeSphereEmitter() {
	p.shape = EmitterSphere
}

// MakeCubeEmitter spawns particles anywhere inside a box of the given size
// and shoots them up its Y axis.
func (p *ParticleSystem) MakeCubeEmitter(scale, rotationDegrees mgl32.Vec3) {
	p.emitterScale = scale
	p.SetEmitterRotation(rotationDegrees)
	p.shape = EmitterCube
}

func (p *ParticleSystem) SetEmitterRotation(degrees mgl32.Vec3) {
	p.rotation = degrees
	p.rotationQuat = EulerDegrees(degrees.X(), degrees.Y(), degrees.Z())
}

// SetTemplate swaps the particle template and uploads its mesh geometry.
// Live particles keep the attributes they were emitted with.
func (p *ParticleSystem) SetTemplate(t ParticleTemplate) {
	p.template = t
	if p.buffers != nil && t.Mesh != nil {
		p.buffers.SetTemplate(t.Mesh.Positions(0), t.Mesh.Normals(0), t.Mesh.UVs())
	}
}

func (p *ParticleSystem) SetEmitterAngle(angle float32)       { p.angle = angle }
func (p *ParticleSystem) SetEmitterScale(scale mgl32.Vec3)    { p.emitterScale = scale }
func (p *ParticleSystem) SetDuration(duration float32)        { p.duration = duration }
func (p *ParticleSystem) SetLoop(loop bool)                   { p.loop = loop }
func (p *ParticleSystem) SetEmissionRate(rate float32)        { p.emissionRate = rate }
func (p *ParticleSystem) SetPaused(paused bool)               { p.paused = paused }
func (p *ParticleSystem) SetSingleRateEmission(single bool)   { p.singleRate = single }
func (p *ParticleSystem) SetVelocityCurve(fn EaseFunc)        { p.velocityCurve = curveOrLinear(fn) }
func (p *ParticleSystem) SetColorCurve(fn EaseFunc)           { p.colorCurve = curveOrLinear(fn) }
func (p *ParticleSystem) SetScaleCurve(fn EaseFunc)           { p.scaleCurve = curveOrLinear(fn) }
func (p *ParticleSystem) Shape() EmitterShape                 { return p.shape }
func (p *ParticleSystem) EmitterAngle() float32               { return p.angle }
func (p *ParticleSystem) EmitterScale() mgl32.Vec3            { return p.emitterScale }
func (p *ParticleSystem) EmitterRotation() mgl32.Vec3         { return p.rotation }
func (p *ParticleSystem) Duration() float32                   { return p.duration }
func (p *ParticleSystem) Loop() bool                          { return p.loop }
func (p *ParticleSystem) EmissionRate() float32               { return p.emissionRate }
func (p *ParticleSystem) Paused() bool                        { return p.paused }
func (p *ParticleSystem) Template() ParticleTemplate          { return p.template }
func (p *ParticleSystem) Capacity() int                       { return len(p.active) }
func (p *ParticleSystem) Cursor() int                         { return p.cursor }

func curveOrLinear(fn EaseFunc) EaseFunc {
	if fn == nil {
		return Linear
	}
	return fn
}

// ActiveCount counts live particles.
func (p *ParticleSystem) ActiveCount() int {
	n := 0
	for _, a := range p.active {
		if a {
			n++
		}
	}
	return n
}

func (p *ParticleSystem) Update(dt float32) {
	if p.paused {
		return
	}

	if p.durationRemaining > 0 || p.loop {
		if p.emissionRate > 0 {
			interval := 1 / p.emissionRate
			p.emissionTimer += dt
			for p.emissionTimer > interval {
				p.Emit()
				p.emissionTimer -= interval
			}
			if !p.singleRate {
				p.Burst(int(p.emissionRate * dt))
			}
		}
		p.durationRemaining -= dt
	}
	if p.durationRemaining <= 0 && p.loop {
		p.durationRemaining = p.duration
	}

	for i := range p.active {
		if !p.active[i] {
			continue
		}
		if p.timeAlive[i] >= p.lifetimes[i] {
			p.active[i] = false
			continue
		}
		p.timeAlive[i] = min(p.timeAlive[i]+dt, p.lifetimes[i])
		t := p.age(i)
		velocity := LerpVec3(p.startVelocities[i], p.endVelocities[i], p.velocityCurve(t))
		p.positions[i] = p.positions[i].Add(velocity.Mul(dt))
	}
}

// Emit populates the slot under the cursor.
func (p *ParticleSystem) Emit() {
	i := p.cursor
	tpl := &p.template

	if p.shape == EmitterCube {
		half := p.emitterScale.Mul(0.5)
		p.positions[i] = p.rng.Vec3(half.Mul(-1), half)
	} else {
		p.positions[i] = mgl32.Vec3{}
	}

	p.startColors[i] = p.rng.Vec4(tpl.StartColor, tpl.StartColor2)
	p.endColors[i] = p.rng.Vec4(tpl.EndColor, tpl.EndColor2)

	dir := p.direction()
	p.startVelocities[i] = dir.Mul(p.rng.Float(tpl.StartSpeed, tpl.StartSpeed2))
	p.endVelocities[i] = dir.Mul(p.rng.Float(tpl.EndSpeed, tpl.EndSpeed2))

	p.startScales[i] = p.rng.Float(tpl.StartSize, tpl.StartSize2)
	p.endScales[i] = p.rng.Float(tpl.EndSize, tpl.EndSize2)

	p.timeAlive[i] = 0
	p.lifetimes[i] = p.rng.Float(tpl.Lifetime, tpl.Lifetime2)
	p.active[i] = true

	p.cursor--
	if p.cursor < 0 {
		p.cursor = len(p.active) - 1
	}
}

// Burst emits n particles at once.
func (p *ParticleSystem) Burst(n int) {
	for ; n > 0; n-- {
		p.Emit()
	}
}

func (p *ParticleSystem) direction() mgl32.Vec3 {
	up := mgl32.Vec3{0, 1, 0}
	switch p.shape {
	case EmitterSphere:
		for {
			d := p.rng.Vec3(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
			if d.LenSqr() > 1e-6 {
				return d.Normalize()
			}
		}
	case EmitterCircle:
		for {
			d := mgl32.Vec3{p.rng.Float(-1, 1), p.rng.Float(-1, 1), 0}
			if d.LenSqr() > 1e-6 {
				return p.rotationQuat.Rotate(d.Normalize())
			}
		}
	case EmitterCone:
		deflect := EulerDegrees(p.rng.Float(-p.angle, p.angle), 0, p.rng.Float(-p.angle, p.angle))
		return p.rotationQuat.Rotate(deflect.Rotate(up))
	case EmitterCube:
		return p.rotationQuat.Rotate(up)
	}
	return up
}

func (p *ParticleSystem) age(i int) float32 {
	if p.lifetimes[i] <= 0 {
		return 1
	}
	return mgl32.Clamp(p.timeAlive[i]/p.lifetimes[i], 0, 1)
}

// ParticleBatch is the compacted instance data of one frame. The slices
// alias the system's scratch storage until the next Render or Batch call.
type ParticleBatch struct {
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec4
	Scales    []float32
}

func (b ParticleBatch) Len() int { return len(b.Positions) }

// Batch compacts the live particles relative to parentPosition.
func (p *ParticleSystem) Batch(parentPosition mgl32.Vec3) ParticleBatch {
	n := 0
	for i := range p.active {
		if !p.active[i] {
			continue
		}
		t := p.age(i)
		p.outPositions[n] = parentPosition.Add(p.positions[i])
		p.outColors[n] = mixVec4(p.startColors[i], p.endColors[i], p.colorCurve(t))
		p.outScales[n] = Lerp(p.startScales[i], p.endScales[i], p.scaleCurve(t))
		n++
	}
	return ParticleBatch{
		Positions: p.outPositions[:n],
		Colors:    p.outColors[:n],
		Scales:    p.outScales[:n],
	}
}

// Render draws every live particle with one instanced call. Nothing is drawn
// while the pool is empty or the system has no graphics context.
func (p *ParticleSystem) Render(parentPosition mgl32.Vec3, view, projection mgl32.Mat4) {
	batch := p.Batch(parentPosition)
	g := p.graphics
	if g == nil || g.ParticleShader == nil || p.buffers == nil {
		return
	}

	shader := g.ParticleShader
	shader.Bind()
	model := mgl32.Translate3D(parentPosition.X(), parentPosition.Y(), parentPosition.Z())
	shader.SetUniform("u_model", model)
	shader.SetUniform("u_mvp", projection.Mul4(view).Mul4(model))
	shader.SetUniform("u_normalMat", normalMatrix(model))

	if mat := p.template.Material; mat != nil && mat.Albedo != nil {
		mat.Albedo.Bind(0)
	} else if g.WhiteTexture != nil {
		g.WhiteTexture.Bind(0)
	}

	if batch.Len() > 0 {
		vertexCount := 0
		if p.template.Mesh != nil {
			vertexCount = p.template.Mesh.VertexCount()
		}
		p.buffers.Upload(batch.Positions, batch.Colors, batch.Scales)
		p.buffers.DrawInstanced(batch.Len(), vertexCount)
	}
	shader.Unbind()
}

func mixVec4(a, b mgl32.Vec4, t float32) mgl32.Vec4 { return a.Add(b.Sub(a).Mul(t)) }

// ParticleSystemComponent attaches a particle system to an entity; particles
// are drawn relative to the entity's global position.
type ParticleSystemComponent struct {
	System *ParticleSystem
}
