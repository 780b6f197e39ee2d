package titan

import (
	"github.com/go-gl/mathgl/mgl32"
)

type fakeShader struct {
	vert, frag DefaultShader
	handle     uint32
	uniforms   map[string]any
	binds      int
}

func newFakeShader(vert, frag DefaultShader, handle uint32) *fakeShader {
	return &fakeShader{vert: vert, frag: frag, handle: handle, uniforms: make(map[string]any)}
}

func (s *fakeShader) Bind()                          { s.binds++ }
func (s *fakeShader) Unbind()                        {}
func (s *fakeShader) SetUniform(name string, v any)  { s.uniforms[name] = v }
func (s *fakeShader) VertexVariant() DefaultShader   { return s.vert }
func (s *fakeShader) FragmentVariant() DefaultShader { return s.frag }
func (s *fakeShader) Handle() uint32                 { return s.handle }

// fakeVAO appends its name to a shared draw log on every Render.
type fakeVAO struct {
	name string
	log  *[]string
}

func (v *fakeVAO) Render() { *v.log = append(*v.log, v.name) }

type fakeMesh struct {
	*HeadlessMesh
	vao    *fakeVAO
	setups [][2]int
}

func newFakeMesh(name string, log *[]string) *fakeMesh {
	data := &MeshData{}
	_ = data.AddFrame([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	_ = data.AddFrame([]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}}, []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	return &fakeMesh{HeadlessMesh: NewHeadlessMesh(data), vao: &fakeVAO{name: name, log: log}}
}

func (m *fakeMesh) SetUpVao(current, next int) {
	m.setups = append(m.setups, [2]int{current, next})
	m.HeadlessMesh.SetUpVao(current, next)
}

func (m *fakeMesh) VertexArray() VertexArray { return m.vao }

type fakeTexture struct {
	name  string
	log   *[]string
	slots []int
}

func (t *fakeTexture) Bind(slot int) {
	t.slots = append(t.slots, slot)
	if t.log != nil {
		*t.log = append(*t.log, t.name)
	}
}

type fakeCubeMap struct {
	slots []int
}

func (c *fakeCubeMap) Bind(slot int) { c.slots = append(c.slots, slot) }

type fakeInstanceBuffers struct {
	templateVertices int
	uploaded         int
	draws            [][2]int
}

func (b *fakeInstanceBuffers) SetTemplate(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) {
	b.templateVertices = len(positions)
}

func (b *fakeInstanceBuffers) Upload(positions []mgl32.Vec3, colors []mgl32.Vec4, scales []float32) {
	b.uploaded = len(positions)
}

func (b *fakeInstanceBuffers) DrawInstanced(instances, vertexCount int) {
	b.draws = append(b.draws, [2]int{instances, vertexCount})
}

// newTestScene returns a scene with a camera at (0, 0, 10) and a graphics
// context whose sprite quad writes to log.
func newTestScene(log *[]string) (*Scene, *GraphicsContext) {
	g := &GraphicsContext{
		SpriteShader: newFakeShader(NotDefault, NotDefault, 100),
		SpriteQuad:   &fakeVAO{name: "quad", log: log},
	}
	s := NewScene(g, nil)
	cam := s.CreateEntity(NewPerspectiveCamera(60, 1, 0.1, 100))
	s.AttachTransform(cam, mgl32.Vec3{0, 0, 10}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	s.SetCamera(cam)
	return s, g
}

func vec3s(v mgl32.Vec3) []float32 { return v[:] }
