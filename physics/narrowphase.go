package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// collide returns the contacts between a and b closer than margin, with
// normals pointing from b towards a.
func collide(a, b *RigidBody, margin float32) []ManifoldPoint {
	if a.shape == nil || b.shape == nil {
		return nil
	}
	switch {
	case a.shape.Kind() == ShapeBox && b.shape.Kind() == ShapeBox:
		return collideBoxBox(a.transform, a.shape.(*BoxShape), b.transform, b.shape.(*BoxShape), margin)
	case a.shape.Kind() == ShapeSphere && b.shape.Kind() == ShapeSphere:
		return collideSphereSphere(a.transform.Origin, a.shape.(*SphereShape).Radius, b.transform.Origin, b.shape.(*SphereShape).Radius, margin)
	case a.shape.Kind() == ShapeSphere && b.shape.Kind() == ShapeBox:
		return collideSphereBox(a.transform.Origin, a.shape.(*SphereShape).Radius, b.transform, b.shape.(*BoxShape), margin)
	case a.shape.Kind() == ShapeBox && b.shape.Kind() == ShapeSphere:
		return swapContacts(collideSphereBox(b.transform.Origin, b.shape.(*SphereShape).Radius, a.transform, a.shape.(*BoxShape), margin))
	}
	return nil
}

// swapContacts turns contacts of (b, a) into contacts of (a, b).
func swapContacts(points []ManifoldPoint) []ManifoldPoint {
	for i, p := range points {
		points[i] = ManifoldPoint{
			PositionWorldOnA: p.PositionWorldOnB,
			PositionWorldOnB: p.PositionWorldOnA,
			NormalWorldOnB:   p.NormalWorldOnB.Mul(-1),
			Distance:         p.Distance,
		}
	}
	return points
}

func collideSphereSphere(posA mgl32.Vec3, radiusA float32, posB mgl32.Vec3, radiusB float32, margin float32) []ManifoldPoint {
	d := posA.Sub(posB)
	dist := d.Len()
	distance := dist - radiusA - radiusB
	if distance > margin {
		return nil
	}
	normal := mgl32.Vec3{0, 1, 0}
	if dist > 1e-6 {
		normal = d.Mul(1 / dist)
	}
	return []ManifoldPoint{NewManifoldPoint(posB.Add(normal.Mul(radiusB)), normal, distance)}
}

func collideSphereBox(center mgl32.Vec3, radius float32, boxTrans Transform, box *BoxShape, margin float32) []ManifoldPoint {
	axes := boxTrans.Basis()
	local := center.Sub(boxTrans.Origin)

	var closest mgl32.Vec3
	inside := true
	for i := 0; i < 3; i++ {
		c := local.Dot(axes[i])
		h := box.HalfExtents[i]
		if c > h {
			c, inside = h, false
		} else if c < -h {
			c, inside = -h, false
		}
		closest = closest.Add(axes[i].Mul(c))
	}

	if !inside {
		pointOnB := boxTrans.Origin.Add(closest)
		d := center.Sub(pointOnB)
		dist := d.Len()
		distance := dist - radius
		if distance > margin || dist < 1e-6 {
			return nil
		}
		normal := d.Mul(1 / dist)
		return []ManifoldPoint{NewManifoldPoint(pointOnB, normal, distance)}
	}

	// Centre inside the box: push out through the nearest face.
	best := float32(math.MaxFloat32)
	var normal mgl32.Vec3
	var pointOnB mgl32.Vec3
	for i := 0; i < 3; i++ {
		c := local.Dot(axes[i])
		h := box.HalfExtents[i]
		for _, sign := range [2]float32{1, -1} {
			depth := h - sign*c
			if depth < best {
				best = depth
				normal = axes[i].Mul(sign)
				pointOnB = center.Add(normal.Mul(depth))
			}
		}
	}
	return []ManifoldPoint{NewManifoldPoint(pointOnB, normal, -best-radius)}
}

// collideBoxBox tests the separating axes of two oriented boxes and keeps
// the corners of each box that sit inside the other as contacts.
func collideBoxBox(ta Transform, a *BoxShape, tb Transform, b *BoxShape, margin float32) []ManifoldPoint {
	axesA := ta.Basis()
	axesB := tb.Basis()
	l := tb.Origin.Sub(ta.Origin)

	testAxes := make([]mgl32.Vec3, 0, 15)
	for i := 0; i < 3; i++ {
		testAxes = append(testAxes, axesA[i], axesB[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cross := axesA[i].Cross(axesB[j])
			if cross.LenSqr() > 0.0001 {
				testAxes = append(testAxes, cross.Normalize())
			}
		}
	}

	minOverlap := float32(math.MaxFloat32)
	var normal mgl32.Vec3
	for _, axis := range testAxes {
		overlap := boxOverlap(axesA, a.HalfExtents, axesB, b.HalfExtents, axis, l)
		if overlap < -margin {
			return nil
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = axis
		}
	}

	// normal points from B to A
	if l.Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}
	distance := -minOverlap

	var points []ManifoldPoint
	for _, p := range boxCorners(ta.Origin, axesA, a.HalfExtents) {
		if pointInBox(p, tb.Origin, axesB, b.HalfExtents, margin) {
			points = append(points, ManifoldPoint{
				PositionWorldOnA: p,
				PositionWorldOnB: p.Sub(normal.Mul(distance)),
				NormalWorldOnB:   normal,
				Distance:         distance,
			})
		}
	}
	for _, p := range boxCorners(tb.Origin, axesB, b.HalfExtents) {
		if pointInBox(p, ta.Origin, axesA, a.HalfExtents, margin) {
			points = append(points, NewManifoldPoint(p, normal, distance))
		}
	}

	if len(points) == 0 {
		// edge on edge: fall back to the midpoint
		mid := ta.Origin.Add(tb.Origin).Mul(0.5)
		return []ManifoldPoint{NewManifoldPoint(mid, normal, distance)}
	}
	if len(points) > MaxManifoldPoints {
		points = reduceContacts(points)
	}
	return points
}

// reduceContacts keeps the contact furthest from the centroid and then,
// greedily, the ones furthest from those already kept.
func reduceContacts(points []ManifoldPoint) []ManifoldPoint {
	var centroid mgl32.Vec3
	for _, p := range points {
		centroid = centroid.Add(p.PositionWorldOnB)
	}
	centroid = centroid.Mul(1 / float32(len(points)))

	kept := make([]ManifoldPoint, 0, MaxManifoldPoints)
	used := make([]bool, len(points))
	for len(kept) < MaxManifoldPoints {
		best, bestScore := -1, float32(-1)
		for i, p := range points {
			if used[i] {
				continue
			}
			score := p.PositionWorldOnB.Sub(centroid).LenSqr()
			for _, k := range kept {
				score = min(score, p.PositionWorldOnB.Sub(k.PositionWorldOnB).LenSqr())
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		kept = append(kept, points[best])
	}
	return kept
}

func boxOverlap(axesA [3]mgl32.Vec3, halfA mgl32.Vec3, axesB [3]mgl32.Vec3, halfB mgl32.Vec3, axis, l mgl32.Vec3) float32 {
	var projectionA, projectionB float32
	for i := 0; i < 3; i++ {
		projectionA += absf(axesA[i].Dot(axis)) * halfA[i]
		projectionB += absf(axesB[i].Dot(axis)) * halfB[i]
	}
	return projectionA + projectionB - absf(l.Dot(axis))
}

func boxCorners(pos mgl32.Vec3, axes [3]mgl32.Vec3, halfExtents mgl32.Vec3) [8]mgl32.Vec3 {
	var corners [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		p := pos
		for k := 0; k < 3; k++ {
			offset := axes[k].Mul(halfExtents[k])
			if i&(1<<k) != 0 {
				p = p.Add(offset)
			} else {
				p = p.Sub(offset)
			}
		}
		corners[i] = p
	}
	return corners
}

func pointInBox(p, pos mgl32.Vec3, axes [3]mgl32.Vec3, halfExtents mgl32.Vec3, margin float32) bool {
	d := p.Sub(pos)
	for i := 0; i < 3; i++ {
		if absf(d.Dot(axes[i])) > halfExtents[i]+margin {
			return false
		}
	}
	return true
}
