package titan

import (
	"time"
)

// Time tracks the wall clock between frames.
type Time struct {
	Time time.Time
	Dt   time.Duration
}

// Tick advances to now and returns the elapsed time in seconds. The first
// tick after a zero Time reports 0.
func (t *Time) Tick(now time.Time) float32 {
	if t.Time.IsZero() {
		t.Time = now
		t.Dt = 0
		return 0
	}
	t.Dt = now.Sub(t.Time)
	t.Time = now
	return float32(t.Dt.Seconds())
}
