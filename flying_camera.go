package titan

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCamera steers its entity's transform from keyboard and mouse input:
// WASD moves in the view plane, Space and Control move up and down, and the
// mouse turns the view while the right button is held.
type FlyingCamera struct {
	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel
	Yaw, Pitch  float32 // degrees
}

func NewFlyingCamera() FlyingCamera {
	return FlyingCamera{Speed: 5, Sensitivity: 0.1}
}

// Forward is the unit view direction for the current yaw and pitch. Zero
// yaw and pitch look down -Z.
func (f *FlyingCamera) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(f.Yaw))
	pitch := float64(mgl32.DegToRad(f.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// UpdateFlyingCameras applies one frame of input to every entity with a
// FlyingCamera and a transform.
func UpdateFlyingCameras(s *Scene, in *Input, dt float32) {
	if dt <= 0 || in == nil {
		return
	}
	up := mgl32.Vec3{0, 1, 0}

	MakeQuery2[TransformComponent, FlyingCamera](s).Map(func(entity EntityId, tc *TransformComponent, fly *FlyingCamera) bool {
		node, ok := s.transforms.Get(tc.Id)
		if !ok {
			return true
		}

		if in.Key(MouseButtonRight) {
			fly.Yaw += float32(in.MouseDeltaX) * fly.Sensitivity
			fly.Pitch -= float32(in.MouseDeltaY) * fly.Sensitivity
			fly.Pitch = mgl32.Clamp(fly.Pitch, -89, 89)
		}

		forward := fly.Forward()
		right := forward.Cross(up).Normalize()

		var move mgl32.Vec3
		if in.Key(KeyW) {
			move = move.Add(forward)
		}
		if in.Key(KeyS) {
			move = move.Sub(forward)
		}
		if in.Key(KeyD) {
			move = move.Add(right)
		}
		if in.Key(KeyA) {
			move = move.Sub(right)
		}
		if in.Key(KeySpace) {
			move = move.Add(up)
		}
		if in.Key(KeyControl) {
			move = move.Sub(up)
		}

		pos := node.Position()
		if move.LenSqr() > 0 {
			pos = pos.Add(move.Normalize().Mul(fly.Speed * dt))
			_ = s.transforms.SetPosition(tc.Id, pos)
		}
		_ = s.transforms.LookAlong(tc.Id, forward, up)
		return true
	})
}
