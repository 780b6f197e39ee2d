package physics

// Dispatcher runs the narrowphase over broadphase pairs and keeps the
// resulting manifolds until the next step.
type Dispatcher struct {
	contactMargin float32
	manifolds     []*ContactManifold
}

func NewDispatcher(cfg CollisionConfiguration) *Dispatcher {
	return &Dispatcher{contactMargin: cfg.ContactMargin}
}

func (d *Dispatcher) NumManifolds() int { return len(d.manifolds) }

func (d *Dispatcher) ManifoldByIndex(i int) *ContactManifold { return d.manifolds[i] }

func (d *Dispatcher) clear() {
	clear(d.manifolds)
	d.manifolds = d.manifolds[:0]
}

// dispatchPairs replaces the manifold list with the contacts of every pair
// in which at least one body can move.
func (d *Dispatcher) dispatchPairs(bodies []*RigidBody, pairs []BroadphasePair) {
	d.clear()
	for _, p := range pairs {
		a, b := bodies[p.A], bodies[p.B]
		if !needsCollision(a, b) {
			continue
		}
		points := collide(a, b, d.contactMargin)
		if len(points) == 0 {
			continue
		}
		d.manifolds = append(d.manifolds, NewContactManifold(a, b, points...))
	}
}

func needsCollision(a, b *RigidBody) bool {
	if a.IsStaticOrKinematic() && b.IsStaticOrKinematic() {
		return false
	}
	return a.IsActive() || b.IsActive()
}
