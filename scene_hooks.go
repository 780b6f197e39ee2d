package titan

// SceneHooks lets a game customise a scene without wrapping it. The app
// calls the input hooks first, then OnUpdate, and the render hooks after
// the matching scene pass.
type SceneHooks interface {
	OnInit(s *Scene)
	OnUpdate(s *Scene, dt float32)
	OnRender(s *Scene)
	OnPostRender(s *Scene)

	OnKeyDown(s *Scene, key Key)
	OnKey(s *Scene, key Key)
	OnKeyUp(s *Scene, key Key)
	OnMouseDown(s *Scene, button Key)
	OnMouse(s *Scene, button Key)
	OnMouseUp(s *Scene, button Key)
}

// BaseHooks implements every hook as a no-op. Embed it and override what
// you need.
type BaseHooks struct{}

func (BaseHooks) OnInit(*Scene)            {}
func (BaseHooks) OnUpdate(*Scene, float32) {}
func (BaseHooks) OnRender(*Scene)          {}
func (BaseHooks) OnPostRender(*Scene)      {}
func (BaseHooks) OnKeyDown(*Scene, Key)    {}
func (BaseHooks) OnKey(*Scene, Key)        {}
func (BaseHooks) OnKeyUp(*Scene, Key)      {}
func (BaseHooks) OnMouseDown(*Scene, Key)  {}
func (BaseHooks) OnMouse(*Scene, Key)      {}
func (BaseHooks) OnMouseUp(*Scene, Key)    {}
