package physics

import "github.com/go-gl/mathgl/mgl32"

// SequentialImpulseSolver resolves contacts by applying clamped impulses at
// each contact point, iterating over all contacts several times.
type SequentialImpulseSolver struct {
	Iterations int
	// Baumgarte is the share of penetration corrected per step.
	Baumgarte float32
	// Slop is the penetration left uncorrected to keep resting contacts stable.
	Slop float32
	// RestitutionThreshold is the approach speed below which bodies do not
	// bounce.
	RestitutionThreshold float32
}

func NewSequentialImpulseSolver(cfg CollisionConfiguration) *SequentialImpulseSolver {
	return &SequentialImpulseSolver{
		Iterations:           cfg.SolverIterations,
		Baumgarte:            0.2,
		Slop:                 0.01,
		RestitutionThreshold: 1,
	}
}

type contactConstraint struct {
	a, b    *RigidBody
	point   *ManifoldPoint
	normal  mgl32.Vec3
	rA, rB  mgl32.Vec3
	invIA   mgl32.Mat3
	invIB   mgl32.Mat3
	kNormal float32
	bias    float32

	normalImpulse  float32
	tangentImpulse [2]float32
	tangents       [2]mgl32.Vec3
	kTangent       [2]float32
	friction       float32
}

// Solve applies contact impulses to the dynamic bodies of every manifold.
func (s *SequentialImpulseSolver) Solve(manifolds []*ContactManifold, dt float32) {
	if dt <= 0 {
		return
	}
	var constraints []contactConstraint
	for _, m := range manifolds {
		if m.body0.isDynamic() {
			m.body0.Activate(false)
		}
		if m.body1.isDynamic() {
			m.body1.Activate(false)
		}
		for i := range m.points {
			p := &m.points[i]
			if p.Distance > 0 {
				continue
			}
			constraints = append(constraints, s.setup(m.body0, m.body1, p, dt))
		}
	}

	for it := 0; it < s.Iterations; it++ {
		for i := range constraints {
			s.solveContact(&constraints[i])
		}
	}

	for i := range constraints {
		constraints[i].point.appliedImpulse = constraints[i].normalImpulse
	}
}

func (s *SequentialImpulseSolver) setup(a, b *RigidBody, p *ManifoldPoint, dt float32) contactConstraint {
	c := contactConstraint{
		a:        a,
		b:        b,
		point:    p,
		normal:   p.NormalWorldOnB,
		rA:       p.PositionWorldOnA.Sub(a.transform.Origin),
		rB:       p.PositionWorldOnB.Sub(b.transform.Origin),
		friction: (a.friction + b.friction) * 0.5,
	}
	if a.isDynamic() {
		c.invIA = a.invInertiaWorld()
	}
	if b.isDynamic() {
		c.invIB = b.invInertiaWorld()
	}
	c.kNormal = c.effectiveMass(c.normal)

	c.tangents[0], c.tangents[1] = planeSpace(c.normal)
	for k := 0; k < 2; k++ {
		c.kTangent[k] = c.effectiveMass(c.tangents[k])
	}

	approach := c.relativeVelocity().Dot(c.normal)
	restitution := (a.restitution + b.restitution) * 0.5
	if -approach > s.RestitutionThreshold {
		c.bias = -restitution * approach
	}
	if pen := -p.Distance - s.Slop; pen > 0 {
		c.bias = max(c.bias, s.Baumgarte/dt*pen)
	}
	return c
}

func (c *contactConstraint) effectiveMass(dir mgl32.Vec3) float32 {
	k := float32(0)
	if c.a.isDynamic() {
		rn := c.rA.Cross(dir)
		k += c.a.invMass + c.invIA.Mul3x1(rn).Cross(c.rA).Dot(dir)
	}
	if c.b.isDynamic() {
		rn := c.rB.Cross(dir)
		k += c.b.invMass + c.invIB.Mul3x1(rn).Cross(c.rB).Dot(dir)
	}
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func (c *contactConstraint) relativeVelocity() mgl32.Vec3 {
	vA := c.a.linearVelocity.Add(c.a.angularVelocity.Cross(c.rA))
	vB := c.b.linearVelocity.Add(c.b.angularVelocity.Cross(c.rB))
	return vA.Sub(vB)
}

func (c *contactConstraint) apply(impulse mgl32.Vec3) {
	if c.a.isDynamic() {
		c.a.linearVelocity = c.a.linearVelocity.Add(impulse.Mul(c.a.invMass))
		c.a.angularVelocity = c.a.angularVelocity.Add(c.invIA.Mul3x1(c.rA.Cross(impulse)))
	}
	if c.b.isDynamic() {
		c.b.linearVelocity = c.b.linearVelocity.Sub(impulse.Mul(c.b.invMass))
		c.b.angularVelocity = c.b.angularVelocity.Sub(c.invIB.Mul3x1(c.rB.Cross(impulse)))
	}
}

func (s *SequentialImpulseSolver) solveContact(c *contactConstraint) {
	if c.kNormal == 0 {
		return
	}

	vn := c.relativeVelocity().Dot(c.normal)
	delta := (c.bias - vn) * c.kNormal
	old := c.normalImpulse
	c.normalImpulse = max(old+delta, 0)
	c.apply(c.normal.Mul(c.normalImpulse - old))

	limit := c.friction * c.normalImpulse
	for k := 0; k < 2; k++ {
		if c.kTangent[k] == 0 {
			continue
		}
		vt := c.relativeVelocity().Dot(c.tangents[k])
		delta := -vt * c.kTangent[k]
		old := c.tangentImpulse[k]
		c.tangentImpulse[k] = mgl32.Clamp(old+delta, -limit, limit)
		c.apply(c.tangents[k].Mul(c.tangentImpulse[k] - old))
	}
}

// planeSpace returns two unit vectors orthogonal to n and to each other.
func planeSpace(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := mgl32.Vec3{1, 0, 0}
	if absf(n.X()) > 0.7 {
		ref = mgl32.Vec3{0, 1, 0}
	}
	t1 := n.Cross(ref).Normalize()
	return t1, n.Cross(t1)
}
