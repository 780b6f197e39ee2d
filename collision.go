package titan

import (
	"github.com/atlasx/titan/physics"
)

// Collision is a contact between two entities during the last update. Two
// collisions are the same when they name the same entities in either order.
type Collision struct {
	Body1 EntityId
	Body2 EntityId
}

func (c Collision) Equal(other Collision) bool {
	return c.key() == other.key()
}

// Involves reports whether entity is one of the pair.
func (c Collision) Involves(entity EntityId) bool {
	return c.Body1 == entity || c.Body2 == entity
}

// Other returns the entity paired with entity, or NullEntity.
func (c Collision) Other(entity EntityId) EntityId {
	switch entity {
	case c.Body1:
		return c.Body2
	case c.Body2:
		return c.Body1
	}
	return NullEntity
}

type collisionKey struct {
	lo, hi EntityId
}

func (c Collision) key() collisionKey {
	if c.Body1 <= c.Body2 {
		return collisionKey{c.Body1, c.Body2}
	}
	return collisionKey{c.Body2, c.Body1}
}

// ManifoldSource lists the contact manifolds of the last physics step.
type ManifoldSource interface {
	NumManifolds() int
	ManifoldByIndex(i int) *physics.ContactManifold
}

// ConstructCollisions collects one Collision per entity pair with at least
// one penetrating contact. Bodies missing from owners are ignored.
func ConstructCollisions(src ManifoldSource, owners map[*physics.RigidBody]EntityId) []Collision {
	var collisions []Collision
	seen := make(map[collisionKey]struct{})

	for i := 0; i < src.NumManifolds(); i++ {
		m := src.ManifoldByIndex(i)
		e1, ok1 := owners[m.Body0()]
		e2, ok2 := owners[m.Body1()]
		if !ok1 || !ok2 {
			continue
		}
		for j := 0; j < m.NumContacts(); j++ {
			if m.ContactPoint(j).Distance >= 0 {
				continue
			}
			c := Collision{Body1: e1, Body2: e2}
			if _, dup := seen[c.key()]; !dup {
				seen[c.key()] = struct{}{}
				collisions = append(collisions, c)
			}
			break
		}
	}
	return collisions
}
