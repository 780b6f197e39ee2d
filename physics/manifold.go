package physics

import "github.com/go-gl/mathgl/mgl32"

// MaxManifoldPoints caps the contacts kept per body pair.
const MaxManifoldPoints = 4

// ManifoldPoint is one contact between two bodies. NormalWorldOnB points
// from B towards A; a negative Distance is penetration depth.
type ManifoldPoint struct {
	PositionWorldOnA mgl32.Vec3
	PositionWorldOnB mgl32.Vec3
	NormalWorldOnB   mgl32.Vec3
	Distance         float32

	appliedImpulse float32
}

// NewManifoldPoint derives the point on A from the point on B.
func NewManifoldPoint(pointOnB, normalOnB mgl32.Vec3, distance float32) ManifoldPoint {
	return ManifoldPoint{
		PositionWorldOnA: pointOnB.Add(normalOnB.Mul(distance)),
		PositionWorldOnB: pointOnB,
		NormalWorldOnB:   normalOnB,
		Distance:         distance,
	}
}

func (p ManifoldPoint) AppliedImpulse() float32 { return p.appliedImpulse }

// ContactManifold holds the contacts between two bodies found by the last
// step.
type ContactManifold struct {
	body0, body1 *RigidBody
	points       []ManifoldPoint
}

func NewContactManifold(body0, body1 *RigidBody, points ...ManifoldPoint) *ContactManifold {
	m := &ContactManifold{body0: body0, body1: body1}
	for _, p := range points {
		m.AddContactPoint(p)
	}
	return m
}

func (m *ContactManifold) Body0() *RigidBody { return m.body0 }
func (m *ContactManifold) Body1() *RigidBody { return m.body1 }
func (m *ContactManifold) NumContacts() int  { return len(m.points) }

func (m *ContactManifold) ContactPoint(i int) ManifoldPoint { return m.points[i] }

// AddContactPoint keeps at most MaxManifoldPoints, replacing the shallowest
// contact when full.
func (m *ContactManifold) AddContactPoint(p ManifoldPoint) {
	if len(m.points) < MaxManifoldPoints {
		m.points = append(m.points, p)
		return
	}
	shallowest := 0
	for i := range m.points {
		if m.points[i].Distance > m.points[shallowest].Distance {
			shallowest = i
		}
	}
	if p.Distance < m.points[shallowest].Distance {
		m.points[shallowest] = p
	}
}
