package titan

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/atlasx/titan/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent links an entity to its node in the scene's transform
// arena. Attach it with Scene.AttachTransform.
type TransformComponent struct {
	Id TransformId
}

// Scene owns an entity registry, the transform hierarchy of those entities
// and a physics world, and drives them through Update, Render and
// PostRender once per frame.
type Scene struct {
	Name string

	registry   Ecs
	transforms *TransformArena

	world      *physics.DynamicsWorld
	bodyOwners map[*physics.RigidBody]EntityId
	collisions []Collision

	camera          EntityId
	lights          []EntityId
	ambientColor    mgl32.Vec3
	ambientStrength float32

	paused       bool
	shouldRender bool

	// registry version the scenegraph was last rebuilt against
	graphVersion uint64

	hooks    SceneHooks
	graphics *GraphicsContext
	log      Logger

	lightData   lightUniforms
	renderQueue []renderItem
	spriteQueue []spriteItem
}

// NewScene creates an empty scene with white ambient light and no gravity.
// g may be nil for a scene that never draws.
func NewScene(g *GraphicsContext, log Logger) *Scene {
	return NewSceneWithPhysics(g, log, physics.DefaultCollisionConfiguration())
}

func NewSceneWithPhysics(g *GraphicsContext, log Logger, cfg physics.CollisionConfiguration) *Scene {
	log = orNop(log)
	s := &Scene{
		registry:        MakeEcs(),
		transforms:      NewTransformArena(log),
		world:           physics.NewDynamicsWorld(cfg, log),
		bodyOwners:      make(map[*physics.RigidBody]EntityId),
		ambientColor:    mgl32.Vec3{1, 1, 1},
		ambientStrength: 1,
		shouldRender:    true,
		hooks:           BaseHooks{},
		graphics:        g,
		log:             log,
		lightData:       newLightUniforms(),
	}
	s.world.SetGravity(mgl32.Vec3{})
	return s
}

// SetHooks installs per-scene callbacks; nil restores the no-op hooks.
func (s *Scene) SetHooks(h SceneHooks) {
	if h == nil {
		h = BaseHooks{}
	}
	s.hooks = h
}

func (s *Scene) Hooks() SceneHooks { return s.hooks }

// Init runs the OnInit hook.
func (s *Scene) Init() { s.hooks.OnInit(s) }

func (s *Scene) Graphics() *GraphicsContext     { return s.graphics }
func (s *Scene) Logger() Logger                 { return s.log }
func (s *Scene) Transforms() *TransformArena    { return s.transforms }
func (s *Scene) World() *physics.DynamicsWorld  { return s.world }
func (s *Scene) Paused() bool                   { return s.paused }
func (s *Scene) SetPaused(paused bool)          { s.paused = paused }
func (s *Scene) ShouldRender() bool             { return s.shouldRender }
func (s *Scene) SetShouldRender(render bool)    { s.shouldRender = render }
func (s *Scene) AmbientColor() mgl32.Vec3       { return s.ambientColor }
func (s *Scene) SetAmbientColor(c mgl32.Vec3)   { s.ambientColor = c }
func (s *Scene) AmbientStrength() float32       { return s.ambientStrength }
func (s *Scene) SetAmbientStrength(st float32)  { s.ambientStrength = st }
func (s *Scene) Camera() EntityId               { return s.camera }
func (s *Scene) SetCamera(entity EntityId)      { s.camera = entity }
func (s *Scene) Gravity() mgl32.Vec3            { return s.world.Gravity() }
func (s *Scene) SetGravity(gravity mgl32.Vec3)  { s.world.SetGravity(gravity) }
func (s *Scene) EntityCount() int               { return s.registry.entityCount() }
func (s *Scene) HasEntity(entity EntityId) bool { return s.registry.hasEntity(entity) }

// Lights lists the entities whose Light is fed to lit shaders, in the
// order they were attached.
func (s *Scene) Lights() []EntityId { return slices.Clone(s.lights) }

// Collisions returns the contacts found by the last Update.
func (s *Scene) Collisions() []Collision { return s.collisions }

// CreateEntity adds an entity with the given components.
func (s *Scene) CreateEntity(components ...any) EntityId {
	e := s.registry.addEntity()
	if len(components) > 0 {
		s.Attach(e, components...)
	}
	return e
}

// DeleteEntity removes the entity's rigid body from the world, releases its
// transform and then drops the entity. Children of its transform become
// roots.
func (s *Scene) DeleteEntity(entity EntityId) {
	if !s.registry.hasEntity(entity) {
		return
	}
	if pb, ok := Get[PhysicsBody](s, entity); ok {
		s.removeBody(pb)
	}
	if tc, ok := Get[TransformComponent](s, entity); ok {
		if err := s.transforms.Release(tc.Id); err != nil {
			s.log.Debugf("delete entity %d: %v", entity, err)
		}
	}
	s.lights = slices.DeleteFunc(s.lights, func(e EntityId) bool { return e == entity })
	if s.camera == entity {
		s.camera = NullEntity
	}
	s.registry.removeEntity(entity)
	s.ReconstructScenegraph()
}

var (
	typeOfPhysicsBody        = reflect.TypeFor[PhysicsBody]()
	typeOfTransformComponent = reflect.TypeFor[TransformComponent]()
	typeOfLight              = reflect.TypeFor[Light]()
)

// Attach adds components to an entity, replacing components of the same
// type. Replacing a registered PhysicsBody with a different rigid body takes
// the old one out of the world, and replacing a TransformComponent with a
// different node releases the old node. Attaching a Light registers the
// entity as a light source.
func (s *Scene) Attach(entity EntityId, components ...any) {
	if !s.registry.hasEntity(entity) {
		s.log.Warnf("attach to unknown entity %d", entity)
		return
	}
	for _, c := range components {
		t := reflect.TypeOf(c)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		switch t {
		case typeOfPhysicsBody:
			next := componentValue[PhysicsBody](c)
			if old, ok := Get[PhysicsBody](s, entity); ok && old.RigidBody() != next.RigidBody() {
				s.removeBody(old)
			}
		case typeOfTransformComponent:
			if old, ok := Get[TransformComponent](s, entity); ok && old.Id != componentValue[TransformComponent](c).Id {
				_ = s.transforms.Release(old.Id)
			}
		case typeOfLight:
			if !slices.Contains(s.lights, entity) {
				s.lights = append(s.lights, entity)
			}
		}
	}
	s.registry.addComponents(entity, components...)
	for _, c := range components {
		switch tc := c.(type) {
		case TransformComponent:
			s.transforms.setOwner(tc.Id, entity)
		case *TransformComponent:
			s.transforms.setOwner(tc.Id, entity)
		}
	}
	if pb, ok := Get[PhysicsBody](s, entity); ok && pb.RigidBody() != nil {
		pb.setInWorld(pb.RigidBody().InWorld())
	}
}

func componentValue[T any](c any) T {
	switch v := c.(type) {
	case T:
		return v
	case *T:
		return *v
	}
	var zero T
	return zero
}

// Get returns the entity's component of type T. The pointer is valid until
// the next structural change to the scene.
func Get[T any](s *Scene, entity EntityId) (*T, bool) {
	v := s.registry.component(entity, reflect.TypeFor[T]())
	if !v.IsValid() {
		return nil, false
	}
	return v.Addr().Interface().(*T), true
}

func Has[T any](s *Scene, entity EntityId) bool {
	_, ok := Get[T](s, entity)
	return ok
}

// Remove detaches the component of type T. Removing a PhysicsBody takes its
// body out of the world; removing a TransformComponent releases the node.
func Remove[T any](s *Scene, entity EntityId) {
	t := reflect.TypeFor[T]()
	switch t {
	case typeOfPhysicsBody:
		if pb, ok := Get[PhysicsBody](s, entity); ok {
			s.removeBody(pb)
		}
	case typeOfTransformComponent:
		if tc, ok := Get[TransformComponent](s, entity); ok {
			_ = s.transforms.Release(tc.Id)
		}
	case typeOfLight:
		s.lights = slices.DeleteFunc(s.lights, func(e EntityId) bool { return e == entity })
	}
	s.registry.removeComponentTypes(entity, t)
}

// AttachTransform creates a root transform node for the entity.
func (s *Scene) AttachTransform(entity EntityId, position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) TransformId {
	id := s.transforms.Create(position, rotation, scale)
	s.Attach(entity, TransformComponent{Id: id})
	return id
}

// TransformOf resolves the entity's transform node.
func (s *Scene) TransformOf(entity EntityId) (*Transform, bool) {
	tc, ok := Get[TransformComponent](s, entity)
	if !ok {
		return nil, false
	}
	return s.transforms.Get(tc.Id)
}

// TransformIdOf returns the entity's node handle, or NullTransform.
func (s *Scene) TransformIdOf(entity EntityId) TransformId {
	if tc, ok := Get[TransformComponent](s, entity); ok {
		return tc.Id
	}
	return NullTransform
}

// SetParent hangs child's transform under parent's, or makes it a root when
// parent is NullEntity. The link is remembered by entity id, so it is
// restored by ReconstructScenegraph if parent gets a new transform.
func (s *Scene) SetParent(child, parent EntityId) error {
	childId := s.TransformIdOf(child)
	if childId.IsNull() {
		return fmt.Errorf("entity %d has no transform: %w", child, ErrConfig)
	}
	parentId := NullTransform
	if parent != NullEntity {
		parentId = s.TransformIdOf(parent)
		if parentId.IsNull() {
			return fmt.Errorf("parent entity %d has no transform: %w", parent, ErrConfig)
		}
	}
	if err := s.transforms.SetParent(childId, parentId); err != nil {
		return err
	}
	s.transforms.setParentEntity(childId, parent)
	return nil
}

// refreshScenegraph rebuilds the scenegraph only when the registry changed
// since the last rebuild.
func (s *Scene) refreshScenegraph() {
	if s.graphVersion == s.registry.version {
		return
	}
	s.ReconstructScenegraph()
}

// ReconstructScenegraph re-links every transform whose parent entity is
// known to that entity's current transform node.
func (s *Scene) ReconstructScenegraph() {
	s.graphVersion = s.registry.version
	type link struct {
		child, parent TransformId
	}
	var relink []link
	MakeQuery1[TransformComponent](s).Map(func(entity EntityId, tc *TransformComponent) bool {
		node, ok := s.transforms.Get(tc.Id)
		if !ok || node.ParentEntity() == NullEntity {
			return true
		}
		parentId := s.TransformIdOf(node.ParentEntity())
		if parentId.IsNull() || node.Parent() == parentId {
			return true
		}
		relink = append(relink, link{child: tc.Id, parent: parentId})
		return true
	})
	for _, l := range relink {
		if err := s.transforms.SetParent(l.child, l.parent); err != nil {
			s.log.Debugf("reconstruct scenegraph: %v", err)
		}
	}
}

// Update advances the scene by dt seconds: physics, then animators, then
// particle systems. Nothing happens while the scene is paused.
func (s *Scene) Update(dt float32) {
	if s.paused {
		return
	}

	s.world.StepSimulation(dt)

	MakeQuery1[PhysicsBody](s).Map(func(entity EntityId, pb *PhysicsBody) bool {
		body := pb.RigidBody()
		if body == nil {
			return true
		}
		if !pb.InWorld() {
			pb.SetEntity(entity)
			if err := s.world.AddRigidBody(body); err != nil {
				s.log.Warnf("entity %d: %v", entity, err)
				return true
			}
			s.bodyOwners[body] = entity
			pb.setInWorld(true)
		}
		body.SetActivationState(physics.ActiveTag)
		pb.Update()
		return true
	})

	s.ConstructCollisions()

	MakeQuery2[TransformComponent, PhysicsBody](s).Map(func(entity EntityId, tc *TransformComponent, pb *PhysicsBody) bool {
		if !pb.IsStatic() {
			_ = s.transforms.SetPosition(tc.Id, pb.Position())
		}
		return true
	})

	MakeQuery1[MorphAnimator](s).Map(func(entity EntityId, a *MorphAnimator) bool {
		a.Update(dt)
		return true
	})

	MakeQuery1[ParticleSystemComponent](s).Map(func(entity EntityId, ps *ParticleSystemComponent) bool {
		if ps.System != nil {
			ps.System.Update(dt)
		}
		return true
	})
}

// ConstructCollisions rebuilds the collision list from the world's current
// contact manifolds.
func (s *Scene) ConstructCollisions() {
	s.collisions = ConstructCollisions(s.world.Dispatcher(), s.bodyOwners)
}

// Unload removes every body from the physics world and drops all entities
// and transforms. The scene is empty but usable afterwards.
func (s *Scene) Unload() {
	s.world.Destroy()
	clear(s.bodyOwners)
	s.collisions = nil
	s.registry = MakeEcs()
	s.graphVersion = s.registry.version
	s.transforms.Reset()
	s.lights = nil
	s.camera = NullEntity
	s.renderQueue = nil
	s.spriteQueue = nil
}

func (s *Scene) removeBody(pb *PhysicsBody) {
	body := pb.RigidBody()
	if body == nil || !pb.InWorld() {
		return
	}
	if err := s.world.RemoveRigidBody(body); err != nil {
		s.log.Debugf("remove body of entity %d: %v", pb.Entity(), err)
	}
	delete(s.bodyOwners, body)
	pb.setInWorld(false)
}
