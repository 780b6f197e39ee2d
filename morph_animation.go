package titan

import (
	"fmt"
	"math"
)

// MorphAnimation steps through mesh frames and reports the pair of frames to
// blend plus the blend factor. Current and next are indices into Frames and
// always stay in range.
type MorphAnimation struct {
	Name string

	frames    []int
	durations []float32
	totalTime float32

	timer   float32
	current int
	next    int
	t       float32
	done    bool

	loop   bool
	paused bool
	speed  float32
}

func NewMorphAnimation() MorphAnimation {
	return MorphAnimation{loop: true, speed: 1}
}

// NewMorphAnimationWithFrames plays frames[i] for durations[i] seconds each.
func NewMorphAnimationWithFrames(frames []int, durations []float32, loop bool, speed float32) (MorphAnimation, error) {
	a := MorphAnimation{loop: loop, speed: speed}
	if err := a.SetFrames(frames, durations); err != nil {
		return a, err
	}
	a.t = 1
	return a, nil
}

// SetFrames replaces the frame sequence and restarts. Both slices must have
// the same length; otherwise nothing changes.
func (a *MorphAnimation) SetFrames(frames []int, durations []float32) error {
	if len(frames) != len(durations) {
		return fmt.Errorf("%d frames with %d durations: %w", len(frames), len(durations), ErrConfig)
	}
	a.frames = append([]int(nil), frames...)
	a.durations = append([]float32(nil), durations...)
	a.totalTime = 0
	for _, d := range a.durations {
		a.totalTime += d
	}
	a.Restart()
	return nil
}

func (a *MorphAnimation) Update(dt float32) {
	if a.paused {
		return
	}
	if a.totalTime == 0 {
		a.t = 0
		return
	}

	switch n := len(a.frames); {
	case n == 0:
		return
	case n == 1:
		a.current, a.next = 0, 0
		a.t = 0
		a.done = true
		return
	}

	a.done = false
	a.timer += dt * a.speed
	if a.timer > a.durations[a.current] {
		a.current++
		if a.current > len(a.frames)-1 {
			a.done = true
			a.current = a.step(a.current)
		}
		a.next = a.step(a.current + 1)
	}

	d := a.durations[a.current]
	if d <= 0 {
		a.timer, a.t = 0, 0
		return
	}
	a.timer = float32(math.Mod(float64(a.timer), float64(d)))
	a.t = a.timer / d
}

// step wraps an index past the end when looping, else clamps it.
func (a *MorphAnimation) step(i int) int {
	if i <= len(a.frames)-1 {
		return i
	}
	if a.loop {
		return 0
	}
	return len(a.frames) - 1
}

func (a *MorphAnimation) Restart() {
	a.current = 0
	if len(a.frames) > 1 {
		a.next = 1
	} else {
		a.next = 0
	}
	a.t = 0
	a.timer = 0
	a.done = false
}

func (a *MorphAnimation) SetPaused(paused bool)  { a.paused = paused }
func (a *MorphAnimation) SetLoop(loop bool)      { a.loop = loop }
func (a *MorphAnimation) SetSpeed(speed float32) { a.speed = speed }
func (a *MorphAnimation) Paused() bool           { return a.paused }
func (a *MorphAnimation) Loop() bool             { return a.loop }
func (a *MorphAnimation) Speed() float32         { return a.speed }
func (a *MorphAnimation) TotalTime() float32     { return a.totalTime }
func (a *MorphAnimation) CurrentIndex() int      { return a.current }
func (a *MorphAnimation) NextIndex() int         { return a.next }

func (a *MorphAnimation) Frames() []int        { return append([]int(nil), a.frames...) }
func (a *MorphAnimation) Durations() []float32 { return append([]float32(nil), a.durations...) }

func (a *MorphAnimation) InterpolationParameter() float32 { return a.t }

// Done reports that the last update wrapped past, or clamped at, the end.
func (a *MorphAnimation) Done() bool { return a.done }

// CurrentFrame is the mesh frame to blend from, 0 without frames.
func (a *MorphAnimation) CurrentFrame() int {
	if len(a.frames) == 0 {
		return 0
	}
	return a.frames[a.current]
}

// NextFrame is the mesh frame to blend towards, 0 without frames.
func (a *MorphAnimation) NextFrame() int {
	if len(a.frames) == 0 {
		return 0
	}
	return a.frames[a.next]
}
