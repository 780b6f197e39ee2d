package physics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrBodyInWorld    = errors.New("physics: body already in a world")
	ErrBodyNotInWorld = errors.New("physics: body not in this world")
)

// Logger is the subset of the engine logger the world reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// CollisionConfiguration tunes the world and its collaborators.
type CollisionConfiguration struct {
	// ContactMargin keeps contacts this far apart in the manifolds.
	ContactMargin float32
	// CellSize is the edge of a broadphase grid cell.
	CellSize float32
	// FixedTimeStep is the length of one internal step. With MaxSubSteps 0
	// the world takes a single variable step per StepSimulation instead.
	FixedTimeStep float32
	MaxSubSteps   int

	SolverIterations int
}

func DefaultCollisionConfiguration() CollisionConfiguration {
	return CollisionConfiguration{
		ContactMargin:    0.02,
		CellSize:         2,
		FixedTimeStep:    1.0 / 60.0,
		MaxSubSteps:      1,
		SolverIterations: 10,
	}
}

// DynamicsWorld owns the broadphase, dispatcher and solver and steps every
// body added to it.
type DynamicsWorld struct {
	cfg        CollisionConfiguration
	gravity    mgl32.Vec3
	bodies     []*RigidBody
	broadphase *SpatialHashBroadphase
	dispatcher *Dispatcher
	solver     *SequentialImpulseSolver

	accumulator float32
	log         Logger
}

// NewDynamicsWorld builds an empty world with zero gravity. A nil logger
// discards output.
func NewDynamicsWorld(cfg CollisionConfiguration, log Logger) *DynamicsWorld {
	if log == nil {
		log = nopLogger{}
	}
	if cfg.SolverIterations <= 0 {
		cfg.SolverIterations = 10
	}
	if cfg.FixedTimeStep <= 0 {
		cfg.FixedTimeStep = 1.0 / 60.0
	}
	return &DynamicsWorld{
		cfg:        cfg,
		broadphase: NewSpatialHashBroadphase(cfg.CellSize),
		dispatcher: NewDispatcher(cfg),
		solver:     NewSequentialImpulseSolver(cfg),
		log:        log,
	}
}

func (w *DynamicsWorld) Gravity() mgl32.Vec3           { return w.gravity }
func (w *DynamicsWorld) SetGravity(gravity mgl32.Vec3) { w.gravity = gravity }
func (w *DynamicsWorld) Dispatcher() *Dispatcher       { return w.dispatcher }
func (w *DynamicsWorld) Config() CollisionConfiguration {
	return w.cfg
}

func (w *DynamicsWorld) AddRigidBody(body *RigidBody) error {
	if body == nil {
		return fmt.Errorf("add nil body: %w", ErrBodyNotInWorld)
	}
	if body.InWorld() {
		return ErrBodyInWorld
	}
	body.worldIndex = len(w.bodies)
	w.bodies = append(w.bodies, body)
	w.log.Debugf("physics: added body %d (mass %.3g)", body.worldIndex, body.mass)
	return nil
}

// RemoveRigidBody drops the body and every manifold that refers to it.
func (w *DynamicsWorld) RemoveRigidBody(body *RigidBody) error {
	if body == nil || body.worldIndex < 0 || body.worldIndex >= len(w.bodies) || w.bodies[body.worldIndex] != body {
		return ErrBodyNotInWorld
	}
	i := body.worldIndex
	w.bodies = slices.Delete(w.bodies, i, i+1)
	for j := i; j < len(w.bodies); j++ {
		w.bodies[j].worldIndex = j
	}
	body.worldIndex = -1

	w.dispatcher.manifolds = slices.DeleteFunc(w.dispatcher.manifolds, func(m *ContactManifold) bool {
		return m.body0 == body || m.body1 == body
	})
	return nil
}

func (w *DynamicsWorld) NumCollisionObjects() int { return len(w.bodies) }

func (w *DynamicsWorld) CollisionObject(i int) *RigidBody { return w.bodies[i] }

// StepSimulation advances the world by dt and returns the number of internal
// steps taken. Forces are cleared afterwards even when no step ran.
func (w *DynamicsWorld) StepSimulation(dt float32) int {
	steps := 0
	if w.cfg.MaxSubSteps <= 0 {
		if dt > 0 {
			w.saveKinematicState()
			w.internalStep(dt)
			steps = 1
		}
	} else {
		w.accumulator += dt
		steps = int(w.accumulator / w.cfg.FixedTimeStep)
		w.accumulator -= float32(steps) * w.cfg.FixedTimeStep
		if steps > w.cfg.MaxSubSteps {
			w.log.Debugf("physics: dropping %d of %d sub steps", steps-w.cfg.MaxSubSteps, steps)
			steps = w.cfg.MaxSubSteps
		}
		if steps > 0 {
			w.saveKinematicState()
		}
		for i := 0; i < steps; i++ {
			w.internalStep(w.cfg.FixedTimeStep)
		}
	}

	w.synchronizeMotionStates()
	for _, b := range w.bodies {
		b.ClearForces()
	}
	return steps
}

// Destroy removes every body, last added first, and forgets their motion
// states.
func (w *DynamicsWorld) Destroy() {
	for i := len(w.bodies) - 1; i >= 0; i-- {
		b := w.bodies[i]
		if err := w.RemoveRigidBody(b); err != nil {
			w.log.Warnf("physics: removing body %d: %v", i, err)
		}
		b.motionState = nil
	}
	w.dispatcher.clear()
	w.broadphase.Clear()
}

func (w *DynamicsWorld) saveKinematicState() {
	for _, b := range w.bodies {
		if b.IsKinematicObject() && b.motionState != nil && b.activationState != IslandSleeping {
			b.transform = b.motionState.WorldTransform()
		}
	}
}

func (w *DynamicsWorld) internalStep(dt float32) {
	for _, b := range w.bodies {
		b.integrateVelocities(w.gravity, dt)
	}

	w.broadphase.Clear()
	for i, b := range w.bodies {
		w.broadphase.Insert(i, b.AABB().Expand(w.cfg.ContactMargin))
	}
	w.dispatcher.dispatchPairs(w.bodies, w.broadphase.Pairs())

	w.solver.Solve(w.dispatcher.manifolds, dt)

	for _, b := range w.bodies {
		b.integrateTransform(dt)
		b.updateDeactivation(dt)
	}
}

func (w *DynamicsWorld) synchronizeMotionStates() {
	for _, b := range w.bodies {
		if b.motionState == nil || b.IsStaticOrKinematic() {
			continue
		}
		b.motionState.SetWorldTransform(b.transform)
	}
}
