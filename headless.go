package titan

import (
	"fmt"
	"image"
	"sync/atomic"
)

// HeadlessBackend builds CPU-only assets. Scenes built from them update
// normally and skip every draw, which is how the demo runs without a
// window and how asset loading is exercised in tests.
type HeadlessBackend struct {
	nextHandle atomic.Uint32
}

func NewHeadlessBackend() *HeadlessBackend { return &HeadlessBackend{} }

type HeadlessTexture struct {
	Width, Height int
}

func (*HeadlessTexture) Bind(int) {}

type HeadlessCubeMap struct {
	Size int
}

func (*HeadlessCubeMap) Bind(int) {}

// HeadlessShader keeps the last value set for every uniform.
type HeadlessShader struct {
	vertex, fragment DefaultShader
	handle           uint32
	Uniforms         map[string]any
}

func (s *HeadlessShader) Bind()                          {}
func (s *HeadlessShader) Unbind()                        {}
func (s *HeadlessShader) SetUniform(name string, v any)  { s.Uniforms[name] = v }
func (s *HeadlessShader) VertexVariant() DefaultShader   { return s.vertex }
func (s *HeadlessShader) FragmentVariant() DefaultShader { return s.fragment }
func (s *HeadlessShader) Handle() uint32                 { return s.handle }

func (b *HeadlessBackend) NewTexture2D(img image.Image) (Texture2D, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image: %w", ErrFatalSetup)
	}
	r := img.Bounds()
	return &HeadlessTexture{Width: r.Dx(), Height: r.Dy()}, nil
}

func (b *HeadlessBackend) NewTextureCubeMap(faces [6]image.Image) (TextureCubeMap, error) {
	if faces[0] == nil {
		return nil, fmt.Errorf("missing cube face: %w", ErrFatalSetup)
	}
	return &HeadlessCubeMap{Size: faces[0].Bounds().Dx()}, nil
}

func (b *HeadlessBackend) NewMesh(data *MeshData) (Mesh, error) {
	return NewHeadlessMesh(data), nil
}

func (b *HeadlessBackend) NewShader(vertexSource, fragmentSource string) (Shader, error) {
	if vertexSource == "" || fragmentSource == "" {
		return nil, fmt.Errorf("empty shader stage: %w", ErrFatalSetup)
	}
	return b.newShader(NotDefault, NotDefault), nil
}

func (b *HeadlessBackend) NewDefaultShader(vertex, fragment DefaultShader) (Shader, error) {
	return b.newShader(vertex, fragment), nil
}

func (b *HeadlessBackend) newShader(vertex, fragment DefaultShader) *HeadlessShader {
	return &HeadlessShader{
		vertex:   vertex,
		fragment: fragment,
		handle:   b.nextHandle.Add(1),
		Uniforms: make(map[string]any),
	}
}
