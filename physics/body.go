package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CollisionFlags uint32

const (
	FlagStaticObject CollisionFlags = 1 << iota
	FlagKinematicObject
	// FlagDisableWorldGravity keeps the world gravity off a dynamic body.
	FlagDisableWorldGravity
)

type ActivationState int

const (
	ActiveTag ActivationState = iota + 1
	IslandSleeping
	WantsDeactivation
	DisableDeactivation
	DisableSimulation
)

const (
	sleepLinearThreshold  = 0.8
	sleepAngularThreshold = 1.0
	timeToSleep           = 2.0
)

type RigidBodyConstructionInfo struct {
	Mass           float32
	MotionState    MotionState
	Shape          Shape
	LocalInertia   mgl32.Vec3
	StartTransform Transform
	Friction       float32
	Restitution    float32
	LinearDamping  float32
	AngularDamping float32
}

// NewRigidBodyConstructionInfo fills in friction 0.5 and no restitution or
// damping. A zero local inertia gives a body that contacts never spin.
func NewRigidBodyConstructionInfo(mass float32, motionState MotionState, shape Shape, localInertia mgl32.Vec3) RigidBodyConstructionInfo {
	return RigidBodyConstructionInfo{
		Mass:           mass,
		MotionState:    motionState,
		Shape:          shape,
		LocalInertia:   localInertia,
		StartTransform: IdentityTransform(),
		Friction:       0.5,
	}
}

type RigidBody struct {
	shape       Shape
	motionState MotionState
	transform   Transform

	mass            float32
	invMass         float32
	invInertiaLocal mgl32.Vec3

	linearVelocity  mgl32.Vec3
	angularVelocity mgl32.Vec3
	totalForce      mgl32.Vec3
	totalTorque     mgl32.Vec3

	friction       float32
	restitution    float32
	linearDamping  float32
	angularDamping float32

	flags            CollisionFlags
	activationState  ActivationState
	deactivationTime float32

	worldIndex int
}

// NewRigidBody builds a body from info. With a motion state the start pose is
// read from it, otherwise info.StartTransform is used.
func NewRigidBody(info RigidBodyConstructionInfo) *RigidBody {
	b := &RigidBody{
		shape:           info.Shape,
		motionState:     info.MotionState,
		transform:       info.StartTransform,
		friction:        info.Friction,
		restitution:     info.Restitution,
		linearDamping:   info.LinearDamping,
		angularDamping:  info.AngularDamping,
		activationState: ActiveTag,
		worldIndex:      -1,
	}
	if b.motionState != nil {
		b.transform = b.motionState.WorldTransform()
	}
	if b.transform.Rotation == (mgl32.Quat{}) {
		b.transform.Rotation = mgl32.QuatIdent()
	}
	b.SetMassProps(info.Mass, info.LocalInertia)
	return b
}

// SetMassProps changes mass and inertia. A zero mass turns the body static.
func (b *RigidBody) SetMassProps(mass float32, localInertia mgl32.Vec3) {
	b.mass = mass
	if mass == 0 {
		b.flags |= FlagStaticObject
		b.invMass = 0
	} else {
		b.flags &^= FlagStaticObject
		b.invMass = 1 / mass
	}
	for i := 0; i < 3; i++ {
		if localInertia[i] != 0 {
			b.invInertiaLocal[i] = 1 / localInertia[i]
		} else {
			b.invInertiaLocal[i] = 0
		}
	}
}

func (b *RigidBody) Mass() float32            { return b.mass }
func (b *RigidBody) InvMass() float32         { return b.invMass }
func (b *RigidBody) Shape() Shape             { return b.shape }
func (b *RigidBody) MotionState() MotionState { return b.motionState }
func (b *RigidBody) Flags() CollisionFlags    { return b.flags }
func (b *RigidBody) Friction() float32        { return b.friction }
func (b *RigidBody) Restitution() float32     { return b.restitution }
func (b *RigidBody) InWorld() bool            { return b.worldIndex >= 0 }

func (b *RigidBody) SetFlags(flags CollisionFlags)  { b.flags = flags }
func (b *RigidBody) SetFriction(friction float32)   { b.friction = friction }
func (b *RigidBody) SetRestitution(r float32)       { b.restitution = r }
func (b *RigidBody) SetDamping(linear, ang float32) { b.linearDamping, b.angularDamping = linear, ang }

func (b *RigidBody) IsStaticObject() bool    { return b.flags&FlagStaticObject != 0 }
func (b *RigidBody) IsKinematicObject() bool { return b.flags&FlagKinematicObject != 0 }

func (b *RigidBody) IsStaticOrKinematic() bool {
	return b.flags&(FlagStaticObject|FlagKinematicObject) != 0
}

// isDynamic reports whether the solver may move the body.
func (b *RigidBody) isDynamic() bool {
	return !b.IsStaticOrKinematic() && b.invMass > 0
}

func (b *RigidBody) WorldTransform() Transform { return b.transform }

// SetWorldTransform teleports the body. The motion state is left alone.
func (b *RigidBody) SetWorldTransform(t Transform) { b.transform = t }

func (b *RigidBody) LinearVelocity() mgl32.Vec3  { return b.linearVelocity }
func (b *RigidBody) AngularVelocity() mgl32.Vec3 { return b.angularVelocity }

func (b *RigidBody) SetLinearVelocity(v mgl32.Vec3)  { b.linearVelocity = v }
func (b *RigidBody) SetAngularVelocity(v mgl32.Vec3) { b.angularVelocity = v }

// ApplyCentralForce accumulates a force until the end of the next step.
func (b *RigidBody) ApplyCentralForce(force mgl32.Vec3) {
	b.totalForce = b.totalForce.Add(force)
}

func (b *RigidBody) ApplyTorque(torque mgl32.Vec3) {
	b.totalTorque = b.totalTorque.Add(torque)
}

// ApplyCentralImpulse changes velocity immediately and wakes the body.
func (b *RigidBody) ApplyCentralImpulse(impulse mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.Activate(false)
}

func (b *RigidBody) ClearForces() {
	b.totalForce = mgl32.Vec3{}
	b.totalTorque = mgl32.Vec3{}
}

func (b *RigidBody) TotalForce() mgl32.Vec3 { return b.totalForce }

func (b *RigidBody) ActivationState() ActivationState { return b.activationState }

// SetActivationState is ignored while deactivation or simulation is disabled.
func (b *RigidBody) SetActivationState(s ActivationState) {
	if b.activationState != DisableDeactivation && b.activationState != DisableSimulation {
		b.activationState = s
	}
}

func (b *RigidBody) ForceActivationState(s ActivationState) {
	b.activationState = s
}

// Activate wakes a sleeping body. Static and kinematic bodies only wake when
// forced.
func (b *RigidBody) Activate(force bool) {
	if force || !b.IsStaticOrKinematic() {
		b.SetActivationState(ActiveTag)
		b.deactivationTime = 0
	}
}

func (b *RigidBody) IsActive() bool {
	return b.activationState != IslandSleeping && b.activationState != DisableSimulation
}

func (b *RigidBody) AABB() AABB {
	if b.shape == nil {
		return AABB{Min: b.transform.Origin, Max: b.transform.Origin}
	}
	return b.shape.AABB(b.transform)
}

// invInertiaWorld rotates the diagonal local inverse inertia into world space.
func (b *RigidBody) invInertiaWorld() mgl32.Mat3 {
	r := b.transform.Rotation.Normalize().Mat4().Mat3()
	d := mgl32.Diag3(b.invInertiaLocal)
	return r.Mul3(d).Mul3(r.Transpose())
}

func (b *RigidBody) integrateVelocities(gravity mgl32.Vec3, dt float32) {
	if !b.isDynamic() || !b.IsActive() {
		return
	}
	accel := b.totalForce.Mul(b.invMass)
	if b.flags&FlagDisableWorldGravity == 0 {
		accel = accel.Add(gravity)
	}
	b.linearVelocity = b.linearVelocity.Add(accel.Mul(dt))
	b.angularVelocity = b.angularVelocity.Add(b.invInertiaWorld().Mul3x1(b.totalTorque).Mul(dt))

	b.linearVelocity = b.linearVelocity.Mul(dampingFactor(b.linearDamping, dt))
	b.angularVelocity = b.angularVelocity.Mul(dampingFactor(b.angularDamping, dt))
}

func (b *RigidBody) integrateTransform(dt float32) {
	if b.IsStaticOrKinematic() || !b.IsActive() {
		return
	}
	b.transform.Origin = b.transform.Origin.Add(b.linearVelocity.Mul(dt))
	if b.angularVelocity.LenSqr() > 0 {
		spin := mgl32.Quat{W: 0, V: b.angularVelocity.Mul(0.5 * dt)}
		b.transform.Rotation = b.transform.Rotation.Add(spin.Mul(b.transform.Rotation)).Normalize()
	}
}

func (b *RigidBody) updateDeactivation(dt float32) {
	if b.IsStaticOrKinematic() {
		return
	}
	if b.activationState == IslandSleeping || b.activationState == DisableDeactivation || b.activationState == DisableSimulation {
		return
	}
	if b.linearVelocity.Len() < sleepLinearThreshold && b.angularVelocity.Len() < sleepAngularThreshold {
		b.deactivationTime += dt
	} else {
		b.deactivationTime = 0
		b.activationState = ActiveTag
		return
	}
	if b.deactivationTime > timeToSleep {
		b.activationState = IslandSleeping
		b.linearVelocity = mgl32.Vec3{}
		b.angularVelocity = mgl32.Vec3{}
	}
}

func dampingFactor(damping, dt float32) float32 {
	if damping <= 0 {
		return 1
	}
	return float32(math.Pow(float64(1-mgl32.Clamp(damping, 0, 1)), float64(dt)))
}
