// Package clock supplies the render clock: monotonic elapsed time and the
// delta since the previous sample.
package clock

import "time"

// Sample is one reading of the clock, taken once per tick.
type Sample struct {
	Elapsed float64 // Seconds since start
	Delta   float64 // Seconds since previous sample
}

// Source is anything the frame scheduler can sample.
type Source interface {
	Sample() Sample
}

// Wall is a Source backed by the monotonic system clock.
type Wall struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewWall starts a wall clock now.
func NewWall() *Wall {
	return newWallAt(time.Now)
}

func newWallAt(now func() time.Time) *Wall {
	t := now()
	return &Wall{now: now, start: t, last: t}
}

// Sample reads elapsed time and the delta since the previous Sample.
func (w *Wall) Sample() Sample {
	t := w.now()
	d := t.Sub(w.last)
	if d < 0 {
		d = 0
	}
	w.last = t
	return Sample{
		Elapsed: t.Sub(w.start).Seconds(),
		Delta:   d.Seconds(),
	}
}

// Restart resets elapsed time to zero.
func (w *Wall) Restart() {
	t := w.now()
	w.start = t
	w.last = t
}

// Manual is a Source advanced explicitly. Used by tests and headless runs.
type Manual struct {
	elapsed float64
	pending float64
}

// NewManual returns a manual clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Advance moves the clock forward by dt seconds. The next Sample reports the
// sum of all advances since the previous Sample as its delta.
func (m *Manual) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	m.elapsed += dt
	m.pending += dt
}

// Sample reports the current reading and clears the pending delta.
func (m *Manual) Sample() Sample {
	s := Sample{Elapsed: m.elapsed, Delta: m.pending}
	m.pending = 0
	return s
}
