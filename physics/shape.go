// Package physics is a small rigid-body simulation: boxes and spheres,
// impulse based contact resolution and a spatial hash broadphase.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid pose without scale.
type Transform struct {
	Origin   mgl32.Vec3
	Rotation mgl32.Quat
}

func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Basis returns the world space directions of the local X, Y and Z axes.
func (t Transform) Basis() [3]mgl32.Vec3 {
	m := t.Rotation.Normalize().Mat4()
	return [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
}

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
)

// Shape is collision geometry centred on the body origin.
type Shape interface {
	Kind() ShapeKind
	AABB(t Transform) AABB
}

type BoxShape struct {
	HalfExtents mgl32.Vec3
}

func NewBoxShape(halfExtents mgl32.Vec3) *BoxShape {
	return &BoxShape{HalfExtents: absVec3(halfExtents)}
}

func (s *BoxShape) Kind() ShapeKind { return ShapeBox }

func (s *BoxShape) AABB(t Transform) AABB {
	axes := t.Basis()
	var e mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			e[i] += absf(axes[j][i]) * s.HalfExtents[j]
		}
	}
	return AABB{Min: t.Origin.Sub(e), Max: t.Origin.Add(e)}
}

type SphereShape struct {
	Radius float32
}

func NewSphereShape(radius float32) *SphereShape {
	return &SphereShape{Radius: absf(radius)}
}

func (s *SphereShape) Kind() ShapeKind { return ShapeSphere }

func (s *SphereShape) AABB(t Transform) AABB {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: t.Origin.Sub(r), Max: t.Origin.Add(r)}
}

func absf(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func absVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{absf(v.X()), absf(v.Y()), absf(v.Z())}
}
