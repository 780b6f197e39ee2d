package titan

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is the CPU side of a mesh: one position and normal stream per
// morph frame plus shared uvs and optional vertex colors. Backend meshes
// embed it and upload the streams.
type MeshData struct {
	frames  [][]mgl32.Vec3
	normals [][]mgl32.Vec3
	uvs     []mgl32.Vec2
	colors  []mgl32.Vec3
}

// AddFrame appends a morph frame. Every frame must have the vertex count of
// the first one.
func (m *MeshData) AddFrame(positions, normals []mgl32.Vec3) error {
	if len(positions) != len(normals) {
		return fmt.Errorf("frame has %d positions and %d normals: %w", len(positions), len(normals), ErrConfig)
	}
	if len(m.frames) > 0 && len(positions) != len(m.frames[0]) {
		return fmt.Errorf("frame has %d vertices, mesh has %d: %w", len(positions), len(m.frames[0]), ErrConfig)
	}
	m.frames = append(m.frames, positions)
	m.normals = append(m.normals, normals)
	return nil
}

func (m *MeshData) SetUVs(uvs []mgl32.Vec2) {
	m.uvs = uvs
}

// SetColors attaches per-vertex colors; a count that differs from the vertex
// count is rejected and the previous colors are kept.
func (m *MeshData) SetColors(colors []mgl32.Vec3) error {
	if len(colors) != m.VertexCount() {
		return fmt.Errorf("%d colors for %d vertices: %w", len(colors), m.VertexCount(), ErrConfig)
	}
	m.colors = colors
	return nil
}

func (m *MeshData) HasColors() bool { return len(m.colors) > 0 }

func (m *MeshData) Colors() []mgl32.Vec3 { return m.colors }

func (m *MeshData) FrameCount() int { return len(m.frames) }

func (m *MeshData) VertexCount() int {
	if len(m.frames) == 0 {
		return 0
	}
	return len(m.frames[0])
}

// Positions returns nil for a frame that does not exist.
func (m *MeshData) Positions(frame int) []mgl32.Vec3 {
	if frame < 0 || frame >= len(m.frames) {
		return nil
	}
	return m.frames[frame]
}

func (m *MeshData) Normals(frame int) []mgl32.Vec3 {
	if frame < 0 || frame >= len(m.normals) {
		return nil
	}
	return m.normals[frame]
}

func (m *MeshData) UVs() []mgl32.Vec2 { return m.uvs }

// clampFrame maps an out of range frame to the first one, so a stale
// animator never indexes past the uploaded streams.
func (m *MeshData) clampFrame(frame int) int {
	if frame < 0 || frame >= len(m.frames) {
		return 0
	}
	return frame
}

// HeadlessMesh is a Mesh without GPU storage. It tracks the frames it was set
// up with and has no vertex array, so renderers skip it.
type HeadlessMesh struct {
	MeshData
	current, next int
}

func NewHeadlessMesh(data *MeshData) *HeadlessMesh {
	m := &HeadlessMesh{}
	if data != nil {
		m.MeshData = *data
	}
	return m
}

func (m *HeadlessMesh) SetUpVao(currentFrame, nextFrame int) {
	m.current = m.clampFrame(currentFrame)
	m.next = m.clampFrame(nextFrame)
}

func (m *HeadlessMesh) VertexArray() VertexArray { return nil }

func (m *HeadlessMesh) BoundFrames() (current, next int) { return m.current, m.next }
