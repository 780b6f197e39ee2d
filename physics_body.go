package titan

import (
	"fmt"

	"github.com/atlasx/titan/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type BodyType int

const (
	BodyStatic BodyType = iota
	BodyDynamic
	BodyKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	}
	return fmt.Sprintf("BodyType(%d)", int(t))
}

// ParseBodyType accepts the names produced by String.
func ParseBodyType(name string) (BodyType, error) {
	switch name {
	case "static":
		return BodyStatic, nil
	case "dynamic", "":
		return BodyDynamic, nil
	case "kinematic":
		return BodyKinematic, nil
	}
	return BodyDynamic, fmt.Errorf("body type %q: %w", name, ErrConfig)
}

// PhysicsBody is the component binding an entity to a rigid body. The body
// is a box sized to the entity scale. Static and kinematic bodies always
// have zero mass. Bodies never deactivate, so their pose is refreshed every
// frame.
type PhysicsBody struct {
	mass       float32
	bodyType   BodyType
	hasGravity bool
	inWorld    bool
	entity     EntityId

	shape       *physics.BoxShape
	motionState *physics.DefaultMotionState
	body        *physics.RigidBody

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

// NewDefaultPhysicsBody is a unit box at the origin, dynamic with mass 1.
func NewDefaultPhysicsBody() PhysicsBody {
	return newPhysicsBody(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}, NullEntity, BodyDynamic, 1)
}

// NewPhysicsBody builds a box of the given scale posed at position, rotated
// by Euler angles in degrees.
func NewPhysicsBody(position, rotationDegrees, scale mgl32.Vec3, entity EntityId, bodyType BodyType, mass float32) PhysicsBody {
	rot := EulerDegrees(rotationDegrees.X(), rotationDegrees.Y(), rotationDegrees.Z())
	return newPhysicsBody(position, rot, scale, entity, bodyType, mass)
}

func newPhysicsBody(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3, entity EntityId, bodyType BodyType, mass float32) PhysicsBody {
	if bodyType != BodyDynamic {
		mass = 0
	}
	start := physics.Transform{Origin: position, Rotation: rotation}

	p := PhysicsBody{
		mass:        mass,
		bodyType:    bodyType,
		hasGravity:  true,
		entity:      entity,
		shape:       physics.NewBoxShape(scale.Mul(0.5)),
		motionState: physics.NewDefaultMotionState(start),
		position:    position,
		rotation:    rotation,
		scale:       scale,
	}
	p.body = physics.NewRigidBody(physics.NewRigidBodyConstructionInfo(mass, p.motionState, p.shape, mgl32.Vec3{}))
	p.applyTypeFlags()
	p.body.ForceActivationState(physics.DisableDeactivation)
	return p
}

func (p *PhysicsBody) applyTypeFlags() {
	switch p.bodyType {
	case BodyKinematic:
		p.body.SetFlags(p.body.Flags() | physics.FlagKinematicObject)
	case BodyStatic:
		p.body.SetFlags(p.body.Flags() | physics.FlagStaticObject)
	}
}

// Update copies the simulated pose into the cached pose. Bodies without a
// motion state are read directly.
func (p *PhysicsBody) Update() {
	if p.body == nil {
		return
	}
	var t physics.Transform
	if ms := p.body.MotionState(); ms != nil {
		t = ms.WorldTransform()
	} else {
		t = p.body.WorldTransform()
	}
	p.position = t.Origin
	p.rotation = t.Rotation
}

// Position is the pose cached by the last Update.
func (p *PhysicsBody) Position() mgl32.Vec3  { return p.position }
func (p *PhysicsBody) Rotation() mgl32.Quat  { return p.rotation }
func (p *PhysicsBody) Scale() mgl32.Vec3     { return p.scale }
func (p *PhysicsBody) Mass() float32         { return p.mass }
func (p *PhysicsBody) BodyType() BodyType    { return p.bodyType }
func (p *PhysicsBody) IsStatic() bool        { return p.bodyType == BodyStatic }
func (p *PhysicsBody) IsDynamic() bool       { return p.bodyType == BodyDynamic }
func (p *PhysicsBody) IsKinematic() bool     { return p.bodyType == BodyKinematic }
func (p *PhysicsBody) HasGravity() bool      { return p.hasGravity }
func (p *PhysicsBody) InWorld() bool         { return p.inWorld }
func (p *PhysicsBody) Entity() EntityId      { return p.entity }

func (p *PhysicsBody) RigidBody() *physics.RigidBody { return p.body }

// WorldPosition reads the live position from the motion state.
func (p *PhysicsBody) WorldPosition() mgl32.Vec3 {
	if p.motionState == nil {
		return p.position
	}
	return p.motionState.WorldTransform().Origin
}

func (p *PhysicsBody) LinearVelocity() mgl32.Vec3 {
	if p.body == nil {
		return mgl32.Vec3{}
	}
	return p.body.LinearVelocity()
}

func (p *PhysicsBody) AngularVelocity() mgl32.Vec3 {
	if p.body == nil {
		return mgl32.Vec3{}
	}
	return p.body.AngularVelocity()
}

// SetMass changes the mass of a dynamic body. Velocities survive only while
// the body keeps a nonzero mass; dropping to zero leaves it at rest. Static
// and kinematic bodies stay massless and the call fails with ErrConfig.
func (p *PhysicsBody) SetMass(mass float32) error {
	if p.body == nil {
		return nil
	}
	if p.bodyType != BodyDynamic && mass != 0 {
		return fmt.Errorf("mass %g on %s body: %w", mass, p.bodyType, ErrConfig)
	}
	p.mass = mass
	linear, angular := p.body.LinearVelocity(), p.body.AngularVelocity()
	p.body.SetLinearVelocity(mgl32.Vec3{})
	p.body.SetAngularVelocity(mgl32.Vec3{})
	p.body.SetMassProps(mass, mgl32.Vec3{})
	p.applyTypeFlags()
	if mass != 0 {
		p.body.SetLinearVelocity(linear)
		p.body.SetAngularVelocity(angular)
	}
	return nil
}

func (p *PhysicsBody) SetLinearVelocity(v mgl32.Vec3) {
	if p.body != nil {
		p.body.SetLinearVelocity(v)
	}
}

func (p *PhysicsBody) SetAngularVelocity(v mgl32.Vec3) {
	if p.body != nil {
		p.body.SetAngularVelocity(v)
	}
}

// SetPosition teleports the body, keeping its rotation.
func (p *PhysicsBody) SetPosition(position mgl32.Vec3) {
	p.position = position
	if p.motionState != nil {
		t := p.motionState.WorldTransform()
		t.Origin = position
		p.motionState.SetWorldTransform(t)
	}
	if p.body != nil {
		t := p.body.WorldTransform()
		t.Origin = position
		p.body.SetWorldTransform(t)
	}
}

// SetHasGravity takes the body in or out of the world gravity.
func (p *PhysicsBody) SetHasGravity(hasGravity bool) {
	p.hasGravity = hasGravity
	if p.body == nil {
		return
	}
	if hasGravity {
		p.body.SetFlags(p.body.Flags() &^ physics.FlagDisableWorldGravity)
	} else {
		p.body.SetFlags(p.body.Flags() | physics.FlagDisableWorldGravity)
	}
}

func (p *PhysicsBody) AddForce(force mgl32.Vec3) {
	if p.body != nil {
		p.body.ApplyCentralForce(force)
	}
}

func (p *PhysicsBody) AddImpulse(impulse mgl32.Vec3) {
	if p.body != nil {
		p.body.ApplyCentralImpulse(impulse)
	}
}

func (p *PhysicsBody) ClearForces() {
	if p.body != nil {
		p.body.ClearForces()
	}
}

func (p *PhysicsBody) SetEntity(entity EntityId) { p.entity = entity }

func (p *PhysicsBody) setInWorld(inWorld bool) { p.inWorld = inWorld }
