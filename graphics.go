package titan

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultShader identifies the built-in shader stage a Shader was built from.
// The numbering matches the shader asset names shipped with the engine.
type DefaultShader int

const (
	NotDefault DefaultShader = iota
	VertNoColor
	VertColor
	FragBlinnPhongNoTexture
	FragBlinnPhongAlbedoOnly
	FragBlinnPhongAlbedoAndSpecular
	VertColorHeightmap
	VertNoColorHeightmap
	VertSkybox
	FragSkybox
	VertMorphAnimationNoColor
	VertMorphAnimationColor
)

var defaultShaderNames = [...]string{
	"not_default",
	"vert_no_color",
	"vert_color",
	"frag_blinn_phong_no_texture",
	"frag_blinn_phong_albedo_only",
	"frag_blinn_phong_albedo_and_specular",
	"vert_color_heightmap",
	"vert_no_color_heightmap",
	"vert_skybox",
	"frag_skybox",
	"vert_morph_animation_no_color",
	"vert_morph_animation_color",
}

func (d DefaultShader) String() string {
	if d < 0 || int(d) >= len(defaultShaderNames) {
		return "unknown"
	}
	return defaultShaderNames[d]
}

// ParseDefaultShader is the inverse of String.
func ParseDefaultShader(name string) (DefaultShader, bool) {
	for i, n := range defaultShaderNames {
		if n == name {
			return DefaultShader(i), true
		}
	}
	return NotDefault, false
}

func (d DefaultShader) isLitFragment() bool {
	return d == FragBlinnPhongNoTexture || d == FragBlinnPhongAlbedoOnly || d == FragBlinnPhongAlbedoAndSpecular
}

func (d DefaultShader) isHeightmapVertex() bool {
	return d == VertColorHeightmap || d == VertNoColorHeightmap
}

func (d DefaultShader) isMorphVertex() bool {
	return d == VertMorphAnimationNoColor || d == VertMorphAnimationColor
}

// Shader is a linked GPU program. SetUniform silently ignores names the
// program does not declare. Values are mgl32 vectors and matrices, scalars,
// or slices of those for array uniforms.
type Shader interface {
	Bind()
	Unbind()
	SetUniform(name string, value any)
	VertexVariant() DefaultShader
	FragmentVariant() DefaultShader
	// Handle is the backend program name; it orders draws by shader.
	Handle() uint32
}

type VertexArray interface {
	Render()
}

type Texture2D interface {
	Bind(slot int)
}

type TextureCubeMap interface {
	Bind(slot int)
}

// Mesh is geometry with one or more morph frames.
type Mesh interface {
	// SetUpVao rebinds the vertex array to blend currentFrame into nextFrame.
	SetUpVao(currentFrame, nextFrame int)
	// VertexArray is nil until the mesh has been uploaded.
	VertexArray() VertexArray
	FrameCount() int
	VertexCount() int
	Positions(frame int) []mgl32.Vec3
	Normals(frame int) []mgl32.Vec3
	UVs() []mgl32.Vec2
}

// InstanceBuffers holds the per-instance attribute streams of one particle
// system plus the template geometry every instance shares.
type InstanceBuffers interface {
	SetTemplate(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2)
	Upload(positions []mgl32.Vec3, colors []mgl32.Vec4, scales []float32)
	DrawInstanced(instances, vertexCount int)
}

// GraphicsContext holds the GPU resources shared by every scene. The backend
// builds it once at startup; a nil context makes every draw a no-op, which is
// how scenes run headless.
type GraphicsContext struct {
	ParticleShader Shader
	WhiteTexture   Texture2D
	SpriteShader   Shader
	SpriteQuad     VertexArray

	NewInstanceBuffers func() InstanceBuffers
}

func (g *GraphicsContext) instanceBuffers() InstanceBuffers {
	if g == nil || g.NewInstanceBuffers == nil {
		return nil
	}
	return g.NewInstanceBuffers()
}

// skyboxEnvironmentRotation flips cube map lookups upside down to match the
// face layout of the skybox assets.
var skyboxEnvironmentRotation = mgl32.HomogRotate3DX(mgl32.DegToRad(180)).Mat3()

func normalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Inv().Transpose().Mat3()
}
