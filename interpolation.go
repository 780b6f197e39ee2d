package titan

import "github.com/go-gl/mathgl/mgl32"

type scalar interface {
	~float32 | ~float64
}

func Lerp[T scalar](a, b, t T) T {
	return (1-t)*a + t*b
}

// InverseLerp returns the t for which Lerp(a, b, t) == v. It returns 0 when
// a == b.
func InverseLerp[T scalar](a, b, v T) T {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// CatmullRom interpolates between p1 and p2, with p0 and p3 shaping the
// tangents.
func CatmullRom[T scalar](p0, p1, p2, p3, t T) T {
	t2, t3 := t*t, t*t*t
	return 0.5 * (2*p1 +
		t*(p2-p0) +
		t2*(2*p0-5*p1+4*p2-p3) +
		t3*(-p0+3*p1-3*p2+p3))
}

// QuadraticBezier evaluates the curve through p0 and p2 pulled by p1.
func QuadraticBezier[T scalar](p0, p1, p2, t T) T {
	return Lerp(Lerp(p0, p1, t), Lerp(p1, p2, t), t)
}

// CubicBezier evaluates the curve through p0 and p3 pulled by p1 and p2.
func CubicBezier[T scalar](p0, p1, p2, p3, t T) T {
	return Lerp(QuadraticBezier(p0, p1, p2, t), QuadraticBezier(p1, p2, p3, t), t)
}

func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func CatmullRomVec3(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range out {
		out[i] = CatmullRom(p0[i], p1[i], p2[i], p3[i], t)
	}
	return out
}

func QuadraticBezierVec3(p0, p1, p2 mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.QuadraticBezierCurve3D(t, p0, p1, p2)
}

func CubicBezierVec3(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.CubicBezierCurve3D(t, p0, p1, p2, p3)
}
