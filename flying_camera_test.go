package titan

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlyingCamera_MovesAlongView(t *testing.T) {
	s := NewScene(nil, nil)
	e := s.CreateEntity(NewFlyingCamera())
	s.AttachTransform(e, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	var in Input
	in.Poll(&fakeKeys{down: map[Key]bool{KeyW: true}})
	UpdateFlyingCameras(s, &in, 0.5)

	node, ok := s.TransformOf(e)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{0, 0, -2.5}, vec3s(node.Position()), 1e-5)
}

func TestFlyingCamera_MouseLookNeedsRightButton(t *testing.T) {
	s := NewScene(nil, nil)
	e := s.CreateEntity(NewFlyingCamera())
	s.AttachTransform(e, mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	keys := &fakeKeys{down: map[Key]bool{}, x: 900}
	var in Input
	in.Poll(keys)
	UpdateFlyingCameras(s, &in, 0.1)
	fly, _ := Get[FlyingCamera](s, e)
	assert.Equal(t, float32(0), fly.Yaw)

	keys.down[MouseButtonRight] = true
	keys.x = 1800
	keys.y = 5000
	in.Poll(keys)
	UpdateFlyingCameras(s, &in, 0.1)

	fly, _ = Get[FlyingCamera](s, e)
	assert.InDelta(t, 90, fly.Yaw, 1e-4)
	assert.Equal(t, float32(-89), fly.Pitch)

	node, _ := s.TransformOf(e)
	forward := node.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
	assert.InDeltaSlice(t, vec3s(fly.Forward()), vec3s(forward), 1e-4)
}
