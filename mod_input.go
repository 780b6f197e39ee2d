package titan

// Key names a keyboard key or a mouse button. Mouse buttons share the key
// space so hooks and Input treat both alike.
type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	keyCount
)

// IsMouseButton reports whether k names a mouse button.
func (k Key) IsMouseButton() bool {
	return k >= MouseButtonLeft && k <= MouseButtonMiddle
}

// KeySource reports the raw up/down state of keys and buttons. Window
// implements it over glfw.
type KeySource interface {
	KeyPressed(k Key) bool
	CursorPos() (x, y float64)
}

// Input holds per-frame key state. Poll once per frame before the scenes
// run; the edge flags stay set for that whole frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
}

// Poll samples src and derives the press and release edges against the
// previous frame.
func (in *Input) Poll(src KeySource) {
	if src == nil {
		return
	}
	for k := Key(0); k < keyCount; k++ {
		down := src.KeyPressed(k)
		in.JustPressed[k] = down && !in.Pressed[k]
		in.JustReleased[k] = !down && in.Pressed[k]
		in.Pressed[k] = down
	}

	mx, my := src.CursorPos()
	in.MouseDeltaX = mx - in.MouseX
	in.MouseDeltaY = my - in.MouseY
	in.MouseX = mx
	in.MouseY = my
}

// Reset clears the edge flags at the end of a frame.
func (in *Input) Reset() {
	clear(in.JustPressed[:])
	clear(in.JustReleased[:])
}

func (in *Input) Key(k Key) bool     { return in.valid(k) && in.Pressed[k] }
func (in *Input) KeyDown(k Key) bool { return in.valid(k) && in.JustPressed[k] }
func (in *Input) KeyUp(k Key) bool   { return in.valid(k) && in.JustReleased[k] }

func (in *Input) valid(k Key) bool { return k >= 0 && k < keyCount }

// dispatch feeds the frame's key state to a scene's hooks: press edges,
// held keys, release edges, then the same for mouse buttons.
func (in *Input) dispatch(s *Scene) {
	h := s.hooks
	for k := Key(0); k < MouseButtonLeft; k++ {
		if in.JustPressed[k] {
			h.OnKeyDown(s, k)
		}
	}
	for k := Key(0); k < MouseButtonLeft; k++ {
		if in.Pressed[k] {
			h.OnKey(s, k)
		}
	}
	for k := Key(0); k < MouseButtonLeft; k++ {
		if in.JustReleased[k] {
			h.OnKeyUp(s, k)
		}
	}
	for k := MouseButtonLeft; k <= MouseButtonMiddle; k++ {
		if in.JustPressed[k] {
			h.OnMouseDown(s, k)
		}
	}
	for k := MouseButtonLeft; k <= MouseButtonMiddle; k++ {
		if in.Pressed[k] {
			h.OnMouse(s, k)
		}
	}
	for k := MouseButtonLeft; k <= MouseButtonMiddle; k++ {
		if in.JustReleased[k] {
			h.OnMouseUp(s, k)
		}
	}
}
