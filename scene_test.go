package titan

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Health struct{ HP int }

func unitScale() mgl32.Vec3 { return mgl32.Vec3{1, 1, 1} }

func TestScene_CreateAttachGetRemove(t *testing.T) {
	s := NewScene(nil, nil)
	e := s.CreateEntity(Health{HP: 3})

	require.True(t, s.HasEntity(e))
	h, ok := Get[Health](s, e)
	require.True(t, ok)
	assert.Equal(t, 3, h.HP)

	h.HP = 7
	h, _ = Get[Health](s, e)
	assert.Equal(t, 7, h.HP)

	s.Attach(e, Tag{Name: "hero"})
	assert.True(t, Has[Tag](s, e))
	assert.True(t, Has[Health](s, e))

	Remove[Health](s, e)
	assert.False(t, Has[Health](s, e))
	assert.True(t, Has[Tag](s, e))
}

func TestScene_AttachToUnknownEntityIsIgnored(t *testing.T) {
	s := NewScene(nil, nil)
	s.Attach(EntityId(42), Health{})
	assert.False(t, s.HasEntity(42))
	assert.Equal(t, 0, s.EntityCount())
}

func TestScene_LightsRegisterOnAttach(t *testing.T) {
	s := NewScene(nil, nil)
	a := s.CreateEntity(NewLight())
	b := s.CreateEntity()
	s.Attach(b, NewLight())
	s.Attach(b, NewLight())

	assert.Equal(t, []EntityId{a, b}, s.Lights())

	Remove[Light](s, a)
	assert.Equal(t, []EntityId{b}, s.Lights())
}

func TestScene_DeleteEntity(t *testing.T) {
	s := NewScene(nil, nil)
	e := s.CreateEntity(NewLight(), NewPhysicsBody(mgl32.Vec3{}, mgl32.Vec3{}, unitScale(), NullEntity, BodyDynamic, 1))
	node := s.AttachTransform(e, mgl32.Vec3{}, mgl32.QuatIdent(), unitScale())
	s.Attach(e, NewPerspectiveCamera(60, 1, 0.1, 100))
	s.SetCamera(e)

	s.Update(0.1)
	require.Equal(t, 1, s.World().NumCollisionObjects())

	s.DeleteEntity(e)
	assert.False(t, s.HasEntity(e))
	assert.Equal(t, 0, s.World().NumCollisionObjects())
	assert.False(t, s.Transforms().Valid(node))
	assert.Empty(t, s.Lights())
	assert.Equal(t, NullEntity, s.Camera())

	s.DeleteEntity(e)
}

func TestScene_DeletingParentOrphansChildren(t *testing.T) {
	s := NewScene(nil, nil)
	parent := s.CreateEntity()
	s.AttachTransform(parent, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), unitScale())
	child := s.CreateEntity()
	s.AttachTransform(child, mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), unitScale())
	require.NoError(t, s.SetParent(child, parent))

	s.DeleteEntity(parent)
	node, ok := s.TransformOf(child)
	require.True(t, ok)
	assert.True(t, node.Parent().IsNull())
	assert.InDeltaSlice(t, []float32{1, 0, 0}, vec3s(node.GlobalPosition()), 1e-5)
}

func TestScene_SetParentErrors(t *testing.T) {
	s := NewScene(nil, nil)
	bare := s.CreateEntity()
	placed := s.CreateEntity()
	s.AttachTransform(placed, mgl32.Vec3{}, mgl32.QuatIdent(), unitScale())

	assert.ErrorIs(t, s.SetParent(bare, placed), ErrConfig)
	assert.ErrorIs(t, s.SetParent(placed, bare), ErrConfig)
	assert.ErrorIs(t, s.SetParent(placed, placed), ErrConfig)
	assert.NoError(t, s.SetParent(placed, NullEntity))
}

func TestScene_ReconstructScenegraphRelinksNewParentTransform(t *testing.T) {
	s := NewScene(nil, nil)
	parent := s.CreateEntity()
	s.AttachTransform(parent, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), unitScale())
	child := s.CreateEntity()
	s.AttachTransform(child, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), unitScale())
	require.NoError(t, s.SetParent(child, parent))

	fresh := s.AttachTransform(parent, mgl32.Vec3{0, 0, 3}, mgl32.QuatIdent(), unitScale())
	node, _ := s.TransformOf(child)
	assert.True(t, node.Parent().IsNull())

	s.ReconstructScenegraph()
	node, _ = s.TransformOf(child)
	assert.Equal(t, fresh, node.Parent())
	assert.InDeltaSlice(t, []float32{0, 1, 3}, vec3s(node.GlobalPosition()), 1e-5)
}

func addBox(s *Scene, pos mgl32.Vec3, bodyType BodyType) EntityId {
	e := s.CreateEntity(NewPhysicsBody(pos, mgl32.Vec3{}, unitScale(), NullEntity, bodyType, 1))
	s.AttachTransform(e, pos, mgl32.QuatIdent(), unitScale())
	return e
}

func TestScene_UpdateWithoutGravityKeepsBodiesInPlace(t *testing.T) {
	s := NewScene(nil, nil)
	e := addBox(s, mgl32.Vec3{1, 2, 3}, BodyDynamic)

	for range 10 {
		s.Update(0.1)
	}
	node, _ := s.TransformOf(e)
	assert.InDeltaSlice(t, []float32{1, 2, 3}, vec3s(node.Position()), 1e-5)

	pb, _ := Get[PhysicsBody](s, e)
	assert.True(t, pb.InWorld())
	assert.Equal(t, e, pb.Entity())
}

func TestScene_GravityMovesDynamicBodiesOnly(t *testing.T) {
	s := NewScene(nil, nil)
	s.SetGravity(mgl32.Vec3{0, -9.8, 0})
	falling := addBox(s, mgl32.Vec3{0, 10, 0}, BodyDynamic)
	ground := addBox(s, mgl32.Vec3{20, 0, 0}, BodyStatic)

	require.NoError(t, s.Transforms().SetPosition(s.TransformIdOf(ground), mgl32.Vec3{20, 5, 0}))

	for range 10 {
		s.Update(0.1)
	}

	node, _ := s.TransformOf(falling)
	assert.Less(t, node.Position().Y(), float32(10))

	groundNode, _ := s.TransformOf(ground)
	assert.InDeltaSlice(t, []float32{20, 5, 0}, vec3s(groundNode.Position()), 1e-5)
}

func TestScene_BodyWithoutGravityFloats(t *testing.T) {
	s := NewScene(nil, nil)
	s.SetGravity(mgl32.Vec3{0, -9.8, 0})
	e := addBox(s, mgl32.Vec3{0, 10, 0}, BodyDynamic)
	pb, _ := Get[PhysicsBody](s, e)
	pb.SetHasGravity(false)

	for range 10 {
		s.Update(0.1)
	}
	node, _ := s.TransformOf(e)
	assert.InDelta(t, 10, node.Position().Y(), 1e-5)
}

func TestScene_OverlappingBoxesCollide(t *testing.T) {
	s := NewScene(nil, nil)
	a := addBox(s, mgl32.Vec3{0, 0, 0}, BodyDynamic)
	b := addBox(s, mgl32.Vec3{0.5, 0, 0}, BodyDynamic)
	far := addBox(s, mgl32.Vec3{50, 0, 0}, BodyDynamic)

	s.Update(0.1)
	s.Update(0.1)

	require.Len(t, s.Collisions(), 1)
	c := s.Collisions()[0]
	assert.True(t, c.Involves(a))
	assert.True(t, c.Involves(b))
	assert.Equal(t, b, c.Other(a))
	assert.False(t, c.Involves(far))
}

func TestScene_PausedSceneDoesNothing(t *testing.T) {
	s := NewScene(nil, nil)
	s.SetGravity(mgl32.Vec3{0, -9.8, 0})
	e := addBox(s, mgl32.Vec3{0, 10, 0}, BodyDynamic)
	s.SetPaused(true)

	for range 5 {
		s.Update(0.1)
	}
	assert.Equal(t, 0, s.World().NumCollisionObjects())
	node, _ := s.TransformOf(e)
	assert.Equal(t, float32(10), node.Position().Y())
}

func TestScene_UpdateAdvancesAnimatorsAndParticles(t *testing.T) {
	s := NewScene(nil, nil)

	clip, err := NewMorphAnimationWithFrames([]int{0, 1}, []float32{1, 1}, true, 1)
	require.NoError(t, err)
	var anim MorphAnimator
	anim.AddAnim(clip)

	cfg := DefaultParticleSystemConfig()
	cfg.MaxParticles = 16
	cfg.EmissionRate = 10
	cfg.SingleRateEmission = true
	cfg.Random = NewRandom(3)
	ps, err := NewParticleSystem(nil, cfg)
	require.NoError(t, err)

	e := s.CreateEntity(anim, ParticleSystemComponent{System: ps})
	s.Update(0.5)

	got, _ := Get[MorphAnimator](s, e)
	assert.InDelta(t, 0.5, got.ActiveAnim().InterpolationParameter(), 1e-5)
	assert.Positive(t, ps.ActiveCount())
}

func TestScene_UnloadLeavesSceneUsable(t *testing.T) {
	s := NewScene(nil, nil)
	a := addBox(s, mgl32.Vec3{}, BodyDynamic)
	s.Attach(a, NewLight())
	s.SetCamera(a)
	s.Update(0.1)

	s.Unload()
	assert.Equal(t, 0, s.EntityCount())
	assert.Equal(t, 0, s.World().NumCollisionObjects())
	assert.Equal(t, 0, s.Transforms().Len())
	assert.Empty(t, s.Lights())
	assert.Empty(t, s.Collisions())
	assert.Equal(t, NullEntity, s.Camera())

	b := addBox(s, mgl32.Vec3{}, BodyDynamic)
	s.Update(0.1)
	assert.True(t, s.HasEntity(b))
	assert.Equal(t, 1, s.World().NumCollisionObjects())
}

type recordingHooks struct {
	BaseHooks
	calls []string
}

func (h *recordingHooks) OnInit(*Scene) { h.calls = append(h.calls, "init") }

func TestScene_HooksDefaultAndInit(t *testing.T) {
	s := NewScene(nil, nil)
	assert.IsType(t, BaseHooks{}, s.Hooks())

	h := &recordingHooks{}
	s.SetHooks(h)
	s.Init()
	assert.Equal(t, []string{"init"}, h.calls)

	s.SetHooks(nil)
	assert.IsType(t, BaseHooks{}, s.Hooks())
}

func TestScene_ReattachingOwnTransformKeepsNode(t *testing.T) {
	s := NewScene(nil, nil)
	e := s.CreateEntity()
	id := s.AttachTransform(e, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), unitScale())

	tc, _ := Get[TransformComponent](s, e)
	s.Attach(e, *tc, Tag{Name: "kept"})

	node, ok := s.TransformOf(e)
	require.True(t, ok)
	assert.Equal(t, e, node.Owner())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, node.Position())
	assert.True(t, s.Transforms().Valid(id))
	assert.Equal(t, 1, s.Transforms().Len())
}

func TestScene_RenderRebuildsScenegraphOnlyAfterChanges(t *testing.T) {
	var log []string
	s, _ := newTestScene(&log)
	parent := s.CreateEntity()
	s.AttachTransform(parent, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), unitScale())
	child := s.CreateEntity()
	s.AttachTransform(child, mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), unitScale())
	require.NoError(t, s.SetParent(child, parent))

	s.Render()
	assert.Equal(t, s.registry.version, s.graphVersion)
	built := s.graphVersion
	s.Render()
	assert.Equal(t, built, s.graphVersion)

	fresh := s.AttachTransform(parent, mgl32.Vec3{0, 0, 3}, mgl32.QuatIdent(), unitScale())
	assert.NotEqual(t, built, s.registry.version)
	s.Render()

	node, _ := s.TransformOf(child)
	assert.Equal(t, fresh, node.Parent())
	assert.InDeltaSlice(t, []float32{0, 1, 3}, vec3s(node.GlobalPosition()), 1e-5)
}
