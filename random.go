package titan

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Random is an explicitly seeded source for gameplay and particle noise.
// It is never reseeded behind the caller's back; seed it once and reuse it.
type Random struct {
	r *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededRandom seeds from the wall clock.
func NewTimeSeededRandom() *Random {
	return NewRandom(uint64(time.Now().UnixNano()))
}

// Float returns a value in [min, max), or exactly min for an empty range.
func (r *Random) Float(min, max float32) float32 {
	if max == min {
		return min
	}
	return min + r.r.Float32()*(max-min)
}

// Int returns a value in [min, max], or min when max <= min.
func (r *Random) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.r.IntN(max-min+1)
}

// Vec3 samples every component independently.
func (r *Random) Vec3(min, max mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{r.Float(min[0], max[0]), r.Float(min[1], max[1]), r.Float(min[2], max[2])}
}

func (r *Random) Vec4(min, max mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{
		r.Float(min[0], max[0]),
		r.Float(min[1], max[1]),
		r.Float(min[2], max[2]),
		r.Float(min[3], max[3]),
	}
}
