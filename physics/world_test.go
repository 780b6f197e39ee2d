package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBox(t *testing.T, w *DynamicsWorld, mass float32, pos mgl32.Vec3, half mgl32.Vec3) (*RigidBody, *DefaultMotionState) {
	t.Helper()
	ms := NewDefaultMotionState(Transform{Origin: pos, Rotation: mgl32.QuatIdent()})
	body := NewRigidBody(NewRigidBodyConstructionInfo(mass, ms, NewBoxShape(half), mgl32.Vec3{}))
	require.NoError(t, w.AddRigidBody(body))
	return body, ms
}

func TestDynamicsWorld_NoDriftWithoutGravity(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	start := mgl32.Vec3{1, 2, 3}
	body, ms := newBox(t, w, 1, start, mgl32.Vec3{0.5, 0.5, 0.5})

	for i := 0; i < 600; i++ {
		w.StepSimulation(1.0 / 60.0)
	}

	assert.Equal(t, start, body.WorldTransform().Origin)
	assert.Equal(t, start, ms.WorldTransform().Origin)
}

func TestDynamicsWorld_StaticBodyNeverMoves(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	w.SetGravity(mgl32.Vec3{0, -9.81, 0})
	ground, ms := newBox(t, w, 0, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{5, 0.5, 5})
	newBox(t, w, 1, mgl32.Vec3{0, 0.2, 0}, mgl32.Vec3{0.5, 0.5, 0.5})

	require.True(t, ground.IsStaticObject())
	for i := 0; i < 120; i++ {
		w.StepSimulation(1.0 / 60.0)
	}

	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ground.WorldTransform().Origin)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, ms.WorldTransform().Origin)
}

func TestDynamicsWorld_GravityAccelerates(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	w.SetGravity(mgl32.Vec3{0, -10, 0})
	body, _ := newBox(t, w, 2, mgl32.Vec3{0, 100, 0}, mgl32.Vec3{0.5, 0.5, 0.5})

	for i := 0; i < 60; i++ {
		w.StepSimulation(1.0 / 60.0)
	}

	assert.InDelta(t, -10, body.LinearVelocity().Y(), 0.01)
	assert.Less(t, body.WorldTransform().Origin.Y(), float32(96))
}

func TestDynamicsWorld_DisableWorldGravity(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	w.SetGravity(mgl32.Vec3{0, -10, 0})
	body, _ := newBox(t, w, 1, mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5})
	body.SetFlags(body.Flags() | FlagDisableWorldGravity)

	w.StepSimulation(1.0 / 60.0)

	assert.Equal(t, mgl32.Vec3{}, body.LinearVelocity())
}

func TestDynamicsWorld_ForcesLastOneStep(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	body, _ := newBox(t, w, 1, mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5})

	body.ApplyCentralForce(mgl32.Vec3{60, 0, 0})
	w.StepSimulation(1.0 / 60.0)
	assert.InDelta(t, 1, body.LinearVelocity().X(), 1e-4)
	assert.Equal(t, mgl32.Vec3{}, body.TotalForce())

	w.StepSimulation(1.0 / 60.0)
	assert.InDelta(t, 1, body.LinearVelocity().X(), 1e-4)
}

func TestDynamicsWorld_BoxRestsOnGround(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	w.SetGravity(mgl32.Vec3{0, -9.81, 0})
	newBox(t, w, 0, mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{5, 0.5, 5})
	box, _ := newBox(t, w, 1, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	box.ForceActivationState(DisableDeactivation)

	for i := 0; i < 240; i++ {
		w.StepSimulation(1.0 / 60.0)
	}

	assert.InDelta(t, 0.5, box.WorldTransform().Origin.Y(), 0.05)
	assert.InDelta(t, 0, box.LinearVelocity().Y(), 0.1)

	require.Equal(t, 1, w.Dispatcher().NumManifolds())
	m := w.Dispatcher().ManifoldByIndex(0)
	assert.ElementsMatch(t, []*RigidBody{w.CollisionObject(0), box}, []*RigidBody{m.Body0(), m.Body1()})
	assert.Positive(t, m.NumContacts())
}

func TestDynamicsWorld_SpheresBounceApart(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	shape := NewSphereShape(0.5)
	a := NewRigidBody(RigidBodyConstructionInfo{Mass: 1, Shape: shape, StartTransform: at(-0.45, 0, 0)})
	b := NewRigidBody(RigidBodyConstructionInfo{Mass: 1, Shape: shape, StartTransform: at(0.45, 0, 0)})
	a.SetLinearVelocity(mgl32.Vec3{1, 0, 0})
	b.SetLinearVelocity(mgl32.Vec3{-1, 0, 0})
	require.NoError(t, w.AddRigidBody(a))
	require.NoError(t, w.AddRigidBody(b))

	w.StepSimulation(1.0 / 60.0)

	assert.LessOrEqual(t, a.LinearVelocity().X(), float32(0))
	assert.GreaterOrEqual(t, b.LinearVelocity().X(), float32(0))
}

func TestDynamicsWorld_KinematicFollowsMotionState(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	body, ms := newBox(t, w, 0, mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5})
	body.SetFlags(body.Flags() | FlagKinematicObject)

	ms.SetWorldTransform(at(3, 0, 0))
	w.StepSimulation(1.0 / 60.0)

	assert.Equal(t, mgl32.Vec3{3, 0, 0}, body.WorldTransform().Origin)
}

func TestDynamicsWorld_AddRemove(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	a, _ := newBox(t, w, 1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	b, _ := newBox(t, w, 1, mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 1, 1})

	assert.ErrorIs(t, w.AddRigidBody(a), ErrBodyInWorld)
	assert.Equal(t, 2, w.NumCollisionObjects())

	require.NoError(t, w.RemoveRigidBody(a))
	assert.False(t, a.InWorld())
	assert.Equal(t, 1, w.NumCollisionObjects())
	assert.Same(t, b, w.CollisionObject(0))
	assert.ErrorIs(t, w.RemoveRigidBody(a), ErrBodyNotInWorld)

	w.Destroy()
	assert.Equal(t, 0, w.NumCollisionObjects())
	assert.Nil(t, b.MotionState())
}

func TestDynamicsWorld_SubSteps(t *testing.T) {
	cfg := DefaultCollisionConfiguration()
	cfg.MaxSubSteps = 3
	w := NewDynamicsWorld(cfg, nil)

	assert.Equal(t, 0, w.StepSimulation(cfg.FixedTimeStep/2))
	assert.Equal(t, 1, w.StepSimulation(cfg.FixedTimeStep*0.75))
	assert.Equal(t, 3, w.StepSimulation(cfg.FixedTimeStep*10))
}

func TestRigidBody_Activation(t *testing.T) {
	body := NewRigidBody(NewRigidBodyConstructionInfo(1, nil, NewBoxShape(mgl32.Vec3{1, 1, 1}), mgl32.Vec3{}))
	body.ForceActivationState(DisableDeactivation)

	body.SetActivationState(ActiveTag)
	assert.Equal(t, DisableDeactivation, body.ActivationState())

	body.ForceActivationState(IslandSleeping)
	assert.False(t, body.IsActive())
	body.ApplyCentralImpulse(mgl32.Vec3{1, 0, 0})
	assert.True(t, body.IsActive())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, body.LinearVelocity())
}

func TestRigidBody_SleepsWhenIdle(t *testing.T) {
	w := NewDynamicsWorld(DefaultCollisionConfiguration(), nil)
	body, _ := newBox(t, w, 1, mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5})

	for i := 0; i < 180; i++ {
		w.StepSimulation(1.0 / 60.0)
	}

	assert.Equal(t, IslandSleeping, body.ActivationState())
}
