package titan

import "sync/atomic"

// DefaultShininess is used by lit shaders on renderers without a material.
const DefaultShininess float32 = 128

var materialIdCounter atomic.Uint64

// Material bundles the textures and scalars the built-in shaders read.
// Every field is optional.
type Material struct {
	id uint64

	Albedo          Texture2D
	Specular        Texture2D
	Height          Texture2D
	Skybox          TextureCubeMap
	Shininess       float32
	HeightInfluence float32
}

func NewMaterial() *Material {
	return &Material{
		id:              materialIdCounter.Add(1),
		Shininess:       DefaultShininess,
		HeightInfluence: 1,
	}
}

// Id orders draws by material; it is unique per process.
func (m *Material) Id() uint64 {
	if m == nil {
		return 0
	}
	return m.id
}
