package titan

import "github.com/go-gl/mathgl/mgl32"

// Camera only owns a projection. Its pose is the global transform of its
// entity, and the view matrix is the inverse of that transform.
type Camera struct {
	projection mgl32.Mat4
}

func NewPerspectiveCamera(fovDegrees, aspect, near, far float32) Camera {
	var c Camera
	c.CalcPerspective(fovDegrees, aspect, near, far)
	return c
}

func NewOrthographicCamera(left, right, bottom, top, near, far float32) Camera {
	var c Camera
	c.CalcOrtho(left, right, bottom, top, near, far)
	return c
}

func (c *Camera) CalcPerspective(fovDegrees, aspect, near, far float32) {
	c.projection = mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, near, far)
}

func (c *Camera) CalcOrtho(left, right, bottom, top, near, far float32) {
	c.projection = mgl32.Ortho(left, right, bottom, top, near, far)
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

func (c *Camera) View(global mgl32.Mat4) mgl32.Mat4 { return global.Inv() }

func (c *Camera) ViewProjection(global mgl32.Mat4) mgl32.Mat4 {
	return c.projection.Mul4(c.View(global))
}
