package titan

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the number of lights the built-in lit shaders accept. Further
// lights in a scene are ignored by the render pass.
const MaxLights = 16

// Light is a point light; its position is the global position of the
// entity's transform.
type Light struct {
	Color                mgl32.Vec3 `yaml:"color"`
	AmbientStrength      float32    `yaml:"ambient_strength"`
	SpecularStrength     float32    `yaml:"specular_strength"`
	ConstantAttenuation  float32    `yaml:"constant_attenuation"`
	LinearAttenuation    float32    `yaml:"linear_attenuation"`
	QuadraticAttenuation float32    `yaml:"quadratic_attenuation"`
}

// NewLight returns a white light with every strength and attenuation term
// zeroed.
func NewLight() Light {
	return Light{Color: mgl32.Vec3{1, 1, 1}}
}

// lightUniforms is the array form the lit shaders expect.
type lightUniforms struct {
	positions    []mgl32.Vec3
	colors       []mgl32.Vec3
	ambient      []float32
	specular     []float32
	attConstant  []float32
	attLinear    []float32
	attQuadratic []float32
}

func newLightUniforms() lightUniforms {
	return lightUniforms{
		positions:    make([]mgl32.Vec3, MaxLights),
		colors:       make([]mgl32.Vec3, MaxLights),
		ambient:      make([]float32, MaxLights),
		specular:     make([]float32, MaxLights),
		attConstant:  make([]float32, MaxLights),
		attLinear:    make([]float32, MaxLights),
		attQuadratic: make([]float32, MaxLights),
	}
}

func (u *lightUniforms) set(i int, position mgl32.Vec3, l *Light) {
	u.positions[i] = position
	u.colors[i] = l.Color
	u.ambient[i] = l.AmbientStrength
	u.specular[i] = l.SpecularStrength
	u.attConstant[i] = l.ConstantAttenuation
	u.attLinear[i] = l.LinearAttenuation
	u.attQuadratic[i] = l.QuadraticAttenuation
}

func (u *lightUniforms) push(shader Shader, count int) {
	shader.SetUniform("u_LightPos", u.positions)
	shader.SetUniform("u_LightCol", u.colors)
	shader.SetUniform("u_AmbientLightStrength", u.ambient)
	shader.SetUniform("u_SpecularLightStrength", u.specular)
	shader.SetUniform("u_LightAttenuationConstant", u.attConstant)
	shader.SetUniform("u_LightAttenuationLinear", u.attLinear)
	shader.SetUniform("u_LightAttenuationQuadratic", u.attQuadratic)
	shader.SetUniform("u_NumOfLights", count)
}
