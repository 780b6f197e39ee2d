package titan

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRenderable(s *Scene, mesh Mesh, shader Shader, mat *Material, layer int, pos mgl32.Vec3) EntityId {
	e := s.CreateEntity(NewRenderer(mesh, shader, mat, layer))
	s.AttachTransform(e, pos, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	return e
}

func TestRender_SortsByLayer(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	shader := newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1)

	for _, r := range []struct {
		name  string
		layer int
	}{{"a", 2}, {"b", 0}, {"c", 1}, {"d", 0}} {
		addRenderable(s, newFakeMesh(r.name, &draws), shader, nil, r.layer, mgl32.Vec3{})
	}

	s.Render()
	assert.Equal(t, []string{"b", "d", "c", "a"}, draws)
}

func TestRender_SortsByShaderThenMaterial(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	sh1 := newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1)
	sh2 := newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 2)
	m1, m2 := NewMaterial(), NewMaterial()

	addRenderable(s, newFakeMesh("sh2-m1", &draws), sh2, m1, 0, mgl32.Vec3{})
	addRenderable(s, newFakeMesh("sh1-m2", &draws), sh1, m2, 0, mgl32.Vec3{})
	addRenderable(s, newFakeMesh("sh1-m1", &draws), sh1, m1, 0, mgl32.Vec3{})

	s.Render()
	assert.Equal(t, []string{"sh1-m1", "sh1-m2", "sh2-m1"}, draws)
}

func TestRender_WithoutCameraDrawsNothing(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	s.SetCamera(NullEntity)
	addRenderable(s, newFakeMesh("a", &draws), newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1), nil, 0, mgl32.Vec3{})

	s.Render()
	assert.Empty(t, draws)
}

func TestRender_SpritesBackToFront(t *testing.T) {
	var draws, binds []string
	s, _ := newTestScene(&draws)

	for _, z := range []struct {
		name string
		z    float32
	}{{"z3", 3}, {"z1", 1}, {"z2", 2}} {
		e := s.CreateEntity(NewRenderer2D(&fakeTexture{name: z.name, log: &binds}, mgl32.Vec4{1, 1, 1, 1}, 0))
		s.AttachTransform(e, mgl32.Vec3{0, 0, z.z}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	}

	s.Render()
	assert.Equal(t, []string{"z3", "z2", "z1"}, binds)
	assert.Equal(t, []string{"quad", "quad", "quad"}, draws)
}

func TestRender_LitUniforms(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	s.SetAmbientColor(mgl32.Vec3{0.1, 0.2, 0.3})
	s.SetAmbientStrength(0.5)

	parent := s.CreateEntity()
	s.AttachTransform(parent, mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	lamp := s.CreateEntity()
	s.AttachTransform(lamp, mgl32.Vec3{0, 2, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	light := NewLight()
	light.LinearAttenuation = 0.25
	s.Attach(lamp, light)
	require.NoError(t, s.SetParent(lamp, parent))

	shader := newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1)
	addRenderable(s, newFakeMesh("a", &draws), shader, nil, 0, mgl32.Vec3{})

	s.Render()

	u := shader.uniforms
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0.3}, u["u_AmbientCol"])
	assert.Equal(t, float32(0.5), u["u_AmbientStrength"])
	assert.Equal(t, 1, u["u_NumOfLights"])
	assert.Equal(t, DefaultShininess, u["u_Shininess"])
	camPos := u["u_CamPos"].(mgl32.Vec3)
	assert.InDeltaSlice(t, []float32{0, 0, 10}, camPos[:], 1e-5)

	positions := u["u_LightPos"].([]mgl32.Vec3)
	assert.InDeltaSlice(t, []float32{5, 2, 0}, positions[0][:], 1e-5)
	assert.Equal(t, float32(0.25), u["u_LightAttenuationLinear"].([]float32)[0])

	assert.Contains(t, u, "MVP")
	assert.Contains(t, u, "NormalMat")
}

func TestRender_LightCountIsCapped(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	for i := range MaxLights + 4 {
		e := s.CreateEntity(NewLight())
		s.AttachTransform(e, mgl32.Vec3{float32(i), 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	}
	shader := newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1)
	addRenderable(s, newFakeMesh("a", &draws), shader, nil, 0, mgl32.Vec3{})

	s.Render()
	assert.Equal(t, MaxLights, shader.uniforms["u_NumOfLights"])
}

func TestRender_UnlitShaderGetsNoLightUniforms(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	shader := newFakeShader(VertNoColor, NotDefault, 1)
	addRenderable(s, newFakeMesh("a", &draws), shader, nil, 0, mgl32.Vec3{})

	s.Render()
	assert.NotContains(t, shader.uniforms, "u_NumOfLights")
	assert.NotContains(t, shader.uniforms, "u_CamPos")
}

func TestRender_TextureSlots(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)

	height, albedo, specular := &fakeTexture{}, &fakeTexture{}, &fakeTexture{}
	mat := NewMaterial()
	mat.Height, mat.Albedo, mat.Specular = height, albedo, specular
	mat.HeightInfluence = 0.3
	mat.Shininess = 32

	shader := newFakeShader(VertNoColorHeightmap, FragBlinnPhongAlbedoAndSpecular, 1)
	addRenderable(s, newFakeMesh("terrain", &draws), shader, mat, 0, mgl32.Vec3{})

	s.Render()
	assert.Equal(t, []int{0}, height.slots)
	assert.Equal(t, []int{1}, albedo.slots)
	assert.Equal(t, []int{2}, specular.slots)
	assert.Equal(t, float32(0.3), shader.uniforms["u_influence"])
	assert.Equal(t, float32(32), shader.uniforms["u_Shininess"])
}

func TestRender_Skybox(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)

	cube := &fakeCubeMap{}
	mat := NewMaterial()
	mat.Skybox = cube
	shader := newFakeShader(VertSkybox, FragSkybox, 1)
	addRenderable(s, newFakeMesh("sky", &draws), shader, mat, 0, mgl32.Vec3{})

	s.Render()
	assert.Equal(t, []int{0}, cube.slots)
	assert.Equal(t, skyboxEnvironmentRotation, shader.uniforms["u_EnvironmentRotation"])
	assert.Contains(t, shader.uniforms, "u_SkyboxMatrix")
	assert.NotContains(t, shader.uniforms, "MVP")
}

func TestRender_MorphFramesAndBlend(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)

	shader := newFakeShader(VertMorphAnimationNoColor, FragBlinnPhongNoTexture, 1)
	mesh := newFakeMesh("blob", &draws)
	e := addRenderable(s, mesh, shader, nil, 0, mgl32.Vec3{})

	clip, err := NewMorphAnimationWithFrames([]int{0, 1}, []float32{1, 1}, true, 1)
	require.NoError(t, err)
	var anim MorphAnimator
	anim.AddAnim(clip)
	s.Attach(e, anim)

	s.Update(0.25)
	s.Render()

	require.NotEmpty(t, mesh.setups)
	assert.Equal(t, [2]int{0, 1}, mesh.setups[len(mesh.setups)-1])
	assert.InDelta(t, 0.25, shader.uniforms["t"], 1e-5)
}

func TestRender_StaticMeshUsesFirstFrame(t *testing.T) {
	var draws []string
	s, _ := newTestScene(&draws)
	mesh := newFakeMesh("a", &draws)
	addRenderable(s, mesh, newFakeShader(VertNoColor, FragBlinnPhongNoTexture, 1), nil, 0, mgl32.Vec3{})

	s.Render()
	assert.Equal(t, [][2]int{{0, 0}}, mesh.setups)
}

func TestPostRender_DrawsParticlesAtEntity(t *testing.T) {
	var draws []string
	s, g := newTestScene(&draws)
	buffers := &fakeInstanceBuffers{}
	g.ParticleShader = newFakeShader(NotDefault, NotDefault, 50)
	g.NewInstanceBuffers = func() InstanceBuffers { return buffers }

	cfg := DefaultParticleSystemConfig()
	cfg.MaxParticles = 8
	cfg.Random = NewRandom(1)
	ps, err := NewParticleSystem(g, cfg)
	require.NoError(t, err)
	ps.Burst(3)

	e := s.CreateEntity(ParticleSystemComponent{System: ps})
	s.AttachTransform(e, mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})

	s.PostRender()
	require.Len(t, buffers.draws, 1)
	assert.Equal(t, 3, buffers.draws[0][0])

	batch := ps.Batch(mgl32.Vec3{1, 2, 3})
	for _, p := range batch.Positions {
		assert.InDeltaSlice(t, []float32{1, 2, 3}, p[:], 1e-5)
	}
}
