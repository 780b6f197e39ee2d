package titan

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type renderItem struct {
	entity   EntityId
	node     TransformId
	renderer *Renderer
}

type spriteItem struct {
	entity EntityId
	z      float32
	model  mgl32.Mat4
	sprite *Renderer2D
}

// cameraMatrices returns the camera's view and projection, or false when the
// camera entity lacks a Camera or a transform.
func (s *Scene) cameraMatrices() (view, projection mgl32.Mat4, camPos mgl32.Vec3, ok bool) {
	cam, ok := Get[Camera](s, s.camera)
	if !ok {
		return view, projection, camPos, false
	}
	node, ok := s.TransformOf(s.camera)
	if !ok {
		return view, projection, camPos, false
	}
	return cam.View(node.Global()), cam.Projection(), node.GlobalPosition(), true
}

// Render draws every (transform, Renderer) entity ordered by layer, shader
// and material, then every (transform, Renderer2D) entity back to front.
func (s *Scene) Render() {
	view, projection, camPos, ok := s.cameraMatrices()
	if !ok {
		s.log.Debugf("scene %q: no camera, skipping render", s.Name)
		return
	}
	vp := projection.Mul4(view)

	s.renderQueue = s.renderQueue[:0]
	MakeQuery2[TransformComponent, Renderer](s).Map(func(entity EntityId, tc *TransformComponent, r *Renderer) bool {
		s.renderQueue = append(s.renderQueue, renderItem{entity: entity, node: tc.Id, renderer: r})
		return true
	})
	slices.SortStableFunc(s.renderQueue, func(a, b renderItem) int {
		if c := cmp.Compare(a.renderer.Layer, b.renderer.Layer); c != 0 {
			return c
		}
		if c := cmp.Compare(a.renderer.shaderHandle(), b.renderer.shaderHandle()); c != 0 {
			return c
		}
		return cmp.Compare(a.renderer.Material.Id(), b.renderer.Material.Id())
	})

	s.refreshScenegraph()
	lightCount := s.collectLights()

	for _, item := range s.renderQueue {
		node, ok := s.transforms.Get(item.node)
		if !ok {
			continue
		}
		r := item.renderer
		if r.Shader == nil || r.Mesh == nil {
			continue
		}

		r.Shader.Bind()
		s.pushUniforms(item.entity, r, lightCount, camPos, view, projection)

		if anim, ok := Get[MorphAnimator](s, item.entity); ok {
			cur, next, _ := anim.frames()
			r.Mesh.SetUpVao(cur, next)
		} else {
			r.Mesh.SetUpVao(0, 0)
		}
		r.Render(node.Global(), vp)
	}

	s.renderSprites(vp)
}

// collectLights fills the light uniform arrays and returns how many are set.
func (s *Scene) collectLights() int {
	n := 0
	for _, e := range s.lights {
		if n == MaxLights {
			break
		}
		light, ok := Get[Light](s, e)
		if !ok {
			continue
		}
		node, ok := s.TransformOf(e)
		if !ok {
			continue
		}
		s.lightData.set(n, node.GlobalPosition(), light)
		n++
	}
	return n
}

func (s *Scene) pushUniforms(entity EntityId, r *Renderer, lightCount int, camPos mgl32.Vec3, view, projection mgl32.Mat4) {
	shader := r.Shader
	frag := shader.FragmentVariant()
	vert := shader.VertexVariant()
	mat := r.Material

	if frag.isLitFragment() {
		shader.SetUniform("u_AmbientCol", s.ambientColor)
		shader.SetUniform("u_AmbientStrength", s.ambientStrength)
		s.lightData.push(shader, lightCount)
		shader.SetUniform("u_CamPos", camPos)
		if mat != nil {
			shader.SetUniform("u_Shininess", mat.Shininess)
		} else {
			shader.SetUniform("u_Shininess", DefaultShininess)
		}
	}

	if vert.isMorphVertex() {
		var t float32
		if anim, ok := Get[MorphAnimator](s, entity); ok {
			_, _, t = anim.frames()
		}
		shader.SetUniform("t", t)
	}

	if mat == nil {
		return
	}

	slot := 0
	if vert.isHeightmapVertex() && mat.Height != nil {
		mat.Height.Bind(slot)
		slot++
		shader.SetUniform("u_influence", mat.HeightInfluence)
	}
	if (frag == FragBlinnPhongAlbedoOnly || frag == FragBlinnPhongAlbedoAndSpecular) && mat.Albedo != nil {
		mat.Albedo.Bind(slot)
		slot++
	}
	if frag == FragBlinnPhongAlbedoAndSpecular && mat.Specular != nil {
		mat.Specular.Bind(slot)
		slot++
	}
	if frag == FragSkybox && mat.Skybox != nil {
		mat.Skybox.Bind(slot)
		shader.SetUniform("u_EnvironmentRotation", skyboxEnvironmentRotation)
		shader.SetUniform("u_SkyboxMatrix", projection.Mul4(view.Mat3().Mat4()))
	}
}

// renderSprites draws 2D renderers sorted by global Z, furthest first.
func (s *Scene) renderSprites(vp mgl32.Mat4) {
	s.spriteQueue = s.spriteQueue[:0]
	MakeQuery2[TransformComponent, Renderer2D](s).Map(func(entity EntityId, tc *TransformComponent, r *Renderer2D) bool {
		node, ok := s.transforms.Get(tc.Id)
		if !ok {
			return true
		}
		s.spriteQueue = append(s.spriteQueue, spriteItem{
			entity: entity,
			z:      node.GlobalPosition().Z(),
			model:  node.Global(),
			sprite: r,
		})
		return true
	})

	slices.SortStableFunc(s.spriteQueue, func(a, b spriteItem) int {
		return cmp.Compare(a.z, b.z)
	})
	for i := len(s.spriteQueue) - 1; i >= 0; i-- {
		item := s.spriteQueue[i]
		item.sprite.Render(s.graphics, item.model, vp)
	}
}

// PostRender draws every particle system at its entity's global position.
func (s *Scene) PostRender() {
	view, projection, _, ok := s.cameraMatrices()
	if !ok {
		return
	}
	MakeQuery2[ParticleSystemComponent, TransformComponent](s).Map(func(entity EntityId, ps *ParticleSystemComponent, tc *TransformComponent) bool {
		if ps.System == nil {
			return true
		}
		pos, ok := s.transforms.GlobalPosition(tc.Id)
		if !ok {
			return true
		}
		ps.System.Render(pos, view, projection)
		return true
	})
}
