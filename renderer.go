package titan

import "github.com/go-gl/mathgl/mgl32"

// Renderer draws a mesh with a shader. Draw order across renderers is
// (Layer, shader, material).
type Renderer struct {
	Mesh     Mesh
	Shader   Shader
	Material *Material
	Layer    int
}

func NewRenderer(mesh Mesh, shader Shader, material *Material, layer int) Renderer {
	return Renderer{Mesh: mesh, Shader: shader, Material: material, Layer: layer}
}

// Render pushes the model matrices and draws. Skybox and custom vertex
// stages compute their own positions and get no matrices.
func (r *Renderer) Render(model, viewProjection mgl32.Mat4) {
	if r.Mesh == nil || r.Shader == nil {
		return
	}
	vao := r.Mesh.VertexArray()
	if vao == nil {
		return
	}

	r.Shader.Bind()
	if v := r.Shader.VertexVariant(); v != VertSkybox && v != NotDefault {
		r.Shader.SetUniform("MVP", viewProjection.Mul4(model))
		r.Shader.SetUniform("Model", model)
		r.Shader.SetUniform("NormalMat", normalMatrix(model))
	}
	vao.Render()
	r.Shader.Unbind()
}

func (r *Renderer) shaderHandle() uint32 {
	if r.Shader == nil {
		return 0
	}
	return r.Shader.Handle()
}

// Renderer2D draws a textured unit quad through the context's sprite shader.
type Renderer2D struct {
	Sprite Texture2D
	Color  mgl32.Vec4
	Layer  int
}

func NewRenderer2D(sprite Texture2D, color mgl32.Vec4, layer int) Renderer2D {
	return Renderer2D{Sprite: sprite, Color: color, Layer: layer}
}

func (r *Renderer2D) Render(g *GraphicsContext, model, viewProjection mgl32.Mat4) {
	if r.Sprite == nil || g == nil || g.SpriteShader == nil || g.SpriteQuad == nil {
		return
	}
	g.SpriteShader.Bind()
	g.SpriteShader.SetUniform("MVP", viewProjection.Mul4(model))
	g.SpriteShader.SetUniform("u_Color", r.Color)
	r.Sprite.Bind(0)
	g.SpriteQuad.Render()
	g.SpriteShader.Unbind()
}
