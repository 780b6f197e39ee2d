package titan

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformId addresses a node in a TransformArena. The generation changes
// every time a slot is released, so a handle to a released node never
// resolves to the node that later reuses its slot.
type TransformId struct {
	Index      uint32
	Generation uint32
}

// NullTransform is never issued by an arena.
var NullTransform = TransformId{}

func (id TransformId) IsNull() bool { return id.Generation == 0 }

func (id TransformId) String() string {
	if id.IsNull() {
		return "transform(null)"
	}
	return fmt.Sprintf("transform(%d@%d)", id.Index, id.Generation)
}

// Transform is a node of the scene graph. Global is always Parent.Global *
// Local, or Local for a root.
type Transform struct {
	position mgl32.Vec3
	scale    mgl32.Vec3
	rotation mgl32.Quat

	local  mgl32.Mat4
	global mgl32.Mat4

	parent   TransformId
	children []TransformId

	owner        EntityId
	parentEntity EntityId
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }
func (t *Transform) Local() mgl32.Mat4    { return t.local }
func (t *Transform) Global() mgl32.Mat4   { return t.global }
func (t *Transform) Parent() TransformId  { return t.parent }
func (t *Transform) Owner() EntityId      { return t.owner }

// ParentEntity is the entity the node should hang under. It survives the
// parent's transform being released and is what hierarchy reconstruction
// resolves.
func (t *Transform) ParentEntity() EntityId { return t.parentEntity }

func (t *Transform) Children() []TransformId { return slices.Clone(t.children) }

func (t *Transform) GlobalPosition() mgl32.Vec3 { return t.global.Col(3).Vec3() }

type transformSlot struct {
	generation uint32
	alive      bool
	node       Transform
}

// TransformArena owns every transform node of a scene.
type TransformArena struct {
	slots []transformSlot
	free  []uint32
	log   Logger
}

func NewTransformArena(log Logger) *TransformArena {
	return &TransformArena{log: orNop(log)}
}

// Create allocates a root node.
func (a *TransformArena) Create(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) TransformId {
	var id TransformId
	if n := len(a.free); n > 0 {
		id.Index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id.Index = uint32(len(a.slots))
		a.slots = append(a.slots, transformSlot{})
	}

	slot := &a.slots[id.Index]
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	slot.alive = true
	slot.node = Transform{
		position: position,
		scale:    scale,
		rotation: rotation,
	}
	id.Generation = slot.generation

	a.recompute(id)
	return id
}

// Get resolves a handle. The pointer stays valid until the next Create.
func (a *TransformArena) Get(id TransformId) (*Transform, bool) {
	if id.IsNull() || int(id.Index) >= len(a.slots) {
		return nil, false
	}
	slot := &a.slots[id.Index]
	if !slot.alive || slot.generation != id.Generation {
		a.log.Debugf("stale %s (slot generation %d)", id, slot.generation)
		return nil, false
	}
	return &slot.node, true
}

func (a *TransformArena) Valid(id TransformId) bool {
	_, ok := a.Get(id)
	return ok
}

// Len reports the number of live nodes.
func (a *TransformArena) Len() int {
	return len(a.slots) - len(a.free)
}

// Release frees a node. It leaves its parent's child list, and its children
// become roots that keep their parent entity for later reconstruction.
func (a *TransformArena) Release(id TransformId) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("release %s: %w", id, ErrStaleHandle)
	}

	if parent, ok := a.Get(node.parent); ok {
		parent.children = removeHandle(parent.children, id)
	}
	children := node.children
	node.children = nil
	for _, child := range children {
		if c, ok := a.Get(child); ok {
			c.parent = NullTransform
			a.recomputeGlobal(child)
		}
	}

	slot := &a.slots[id.Index]
	slot.alive = false
	slot.node = Transform{}
	a.free = append(a.free, id.Index)
	return nil
}

// Reset drops every node and invalidates every handle issued so far.
func (a *TransformArena) Reset() {
	for i := range a.slots {
		if a.slots[i].alive {
			a.slots[i].alive = false
			a.slots[i].node = Transform{}
			a.free = append(a.free, uint32(i))
		}
	}
}

func (a *TransformArena) SetPosition(id TransformId, position mgl32.Vec3) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("set position on %s: %w", id, ErrStaleHandle)
	}
	node.position = position
	a.recompute(id)
	return nil
}

func (a *TransformArena) SetScale(id TransformId, scale mgl32.Vec3) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("set scale on %s: %w", id, ErrStaleHandle)
	}
	node.scale = scale
	a.recompute(id)
	return nil
}

func (a *TransformArena) SetRotation(id TransformId, rotation mgl32.Quat) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("set rotation on %s: %w", id, ErrStaleHandle)
	}
	node.rotation = rotation
	a.recompute(id)
	return nil
}

// RotateRelative applies delta in the node's own frame.
func (a *TransformArena) RotateRelative(id TransformId, delta mgl32.Quat) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("rotate %s: %w", id, ErrStaleHandle)
	}
	return a.SetRotation(id, node.rotation.Mul(delta).Normalize())
}

// RotateFixed applies delta in the parent frame.
func (a *TransformArena) RotateFixed(id TransformId, delta mgl32.Quat) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("rotate %s: %w", id, ErrStaleHandle)
	}
	return a.SetRotation(id, delta.Mul(node.rotation).Normalize())
}

// LookAt turns the node so its -Z axis points at target.
func (a *TransformArena) LookAt(id TransformId, target, up mgl32.Vec3) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("look at from %s: %w", id, ErrStaleHandle)
	}
	return a.SetRotation(id, quatLookAt(target.Sub(node.position), up))
}

// LookAlong turns the node so its -Z axis points along direction.
func (a *TransformArena) LookAlong(id TransformId, direction, up mgl32.Vec3) error {
	if !a.Valid(id) {
		return fmt.Errorf("look along from %s: %w", id, ErrStaleHandle)
	}
	return a.SetRotation(id, quatLookAt(direction, up))
}

// SetParent moves the node under parent, or makes it a root when parent is
// NullTransform. Parenting a node under itself or one of its descendants is
// rejected.
func (a *TransformArena) SetParent(id TransformId, parent TransformId) error {
	node, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("set parent of %s: %w", id, ErrStaleHandle)
	}
	if !parent.IsNull() {
		if !a.Valid(parent) {
			return fmt.Errorf("set parent of %s to %s: %w", id, parent, ErrStaleHandle)
		}
		for cur := parent; !cur.IsNull(); {
			if cur == id {
				return fmt.Errorf("set parent of %s to %s would form a cycle: %w", id, parent, ErrConfig)
			}
			p, ok := a.Get(cur)
			if !ok {
				break
			}
			cur = p.parent
		}
	}

	if old, ok := a.Get(node.parent); ok {
		old.children = removeHandle(old.children, id)
	}
	node.parent = parent
	if p, ok := a.Get(parent); ok {
		p.children = append(p.children, id)
	}

	a.recomputeGlobal(id)
	return nil
}

// Recompute rebuilds the local matrix of the node and the global matrices of
// its whole subtree.
func (a *TransformArena) Recompute(id TransformId) {
	if a.Valid(id) {
		a.recompute(id)
	}
}

func (a *TransformArena) GlobalPosition(id TransformId) (mgl32.Vec3, bool) {
	node, ok := a.Get(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return node.GlobalPosition(), true
}

func (a *TransformArena) setOwner(id TransformId, owner EntityId) {
	if node, ok := a.Get(id); ok {
		node.owner = owner
	}
}

func (a *TransformArena) setParentEntity(id TransformId, parent EntityId) {
	if node, ok := a.Get(id); ok {
		node.parentEntity = parent
	}
}

func (a *TransformArena) recompute(id TransformId) {
	node := &a.slots[id.Index].node
	node.local = composeTRS(node.position, node.rotation, node.scale)
	a.recomputeGlobal(id)
}

func (a *TransformArena) recomputeGlobal(id TransformId) {
	node := &a.slots[id.Index].node
	if parent, ok := a.Get(node.parent); ok {
		node.global = parent.global.Mul4(node.local)
	} else {
		node.global = node.local
	}
	for _, child := range node.children {
		if a.Valid(child) {
			a.recomputeGlobal(child)
		}
	}
}

func composeTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

func removeHandle(handles []TransformId, id TransformId) []TransformId {
	if i := slices.Index(handles, id); i >= 0 {
		return slices.Delete(handles, i, i+1)
	}
	return handles
}

// EulerDegrees builds a rotation from angles in degrees applied about X,
// then Y, then Z.
func EulerDegrees(x, y, z float32) mgl32.Quat {
	return EulerRadians(mgl32.Vec3{mgl32.DegToRad(x), mgl32.DegToRad(y), mgl32.DegToRad(z)})
}

func EulerRadians(angles mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(angles.X(), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(angles.Y(), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(angles.Z(), mgl32.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

func quatLookAt(direction, up mgl32.Vec3) mgl32.Quat {
	if direction.LenSqr() < 1e-12 {
		return mgl32.QuatIdent()
	}
	back := direction.Normalize().Mul(-1)
	right := up.Cross(back)
	if right.LenSqr() < 1e-12 {
		// direction parallel to up
		right = mgl32.Vec3{1, 0, 0}.Cross(back)
		if right.LenSqr() < 1e-12 {
			right = mgl32.Vec3{0, 0, 1}.Cross(back)
		}
	}
	right = right.Normalize()
	realUp := back.Cross(right)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(right, realUp, back).Mat4()).Normalize()
}
