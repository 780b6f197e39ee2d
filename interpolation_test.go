package titan

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestLerpAndInverse(t *testing.T) {
	assert.InDelta(t, 2.5, Lerp[float32](2, 4, 0.25), 1e-6)
	assert.InDelta(t, 0.25, InverseLerp[float32](2, 4, 2.5), 1e-6)
	assert.InDelta(t, 1.5, InverseLerp(2.0, 4.0, 5.0), 1e-9)
	assert.Zero(t, InverseLerp[float32](3, 3, 7))
}

func TestCatmullRom_PassesThroughInnerPoints(t *testing.T) {
	assert.InDelta(t, 1, CatmullRom[float32](0, 1, 3, 4, 0), 1e-6)
	assert.InDelta(t, 3, CatmullRom[float32](0, 1, 3, 4, 1), 1e-6)
	// evenly spaced points give a straight line
	assert.InDelta(t, 1.5, CatmullRom[float32](0, 1, 2, 3, 0.5), 1e-6)

	v := CatmullRomVec3(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 2, 0}, mgl32.Vec3{3, 2, 0}, 1)
	assert.InDeltaSlice(t, []float32{2, 2, 0}, vec3s(v), 1e-6)
}

func TestBezier(t *testing.T) {
	assert.InDelta(t, 0.5, QuadraticBezier[float32](0, 1, 0, 0.5), 1e-6)
	assert.InDelta(t, 0, CubicBezier[float32](0, 1, 1, 0, 0), 1e-6)
	assert.InDelta(t, 0.75, CubicBezier[float32](0, 1, 1, 0, 0.5), 1e-6)

	p0, p1, p2, p3 := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{1, 0, 0}
	for _, tt := range []float32{0, 0.3, 0.5, 1} {
		want := CubicBezierVec3(p0, p1, p2, p3, tt)
		got := mgl32.Vec3{
			CubicBezier(p0[0], p1[0], p2[0], p3[0], tt),
			CubicBezier(p0[1], p1[1], p2[1], p3[1], tt),
			CubicBezier(p0[2], p1[2], p2[2], p3[2], tt),
		}
		assert.InDeltaSlice(t, vec3s(want), vec3s(got), 1e-5)
	}
	assert.InDeltaSlice(t, []float32{0.25, 0.75, 0}, vec3s(QuadraticBezierVec3(p0, p1, p2, 0.5)), 1e-6)
	assert.InDeltaSlice(t, []float32{1, 2, 3}, vec3s(LerpVec3(mgl32.Vec3{}, mgl32.Vec3{2, 4, 6}, 0.5)), 1e-6)
}
