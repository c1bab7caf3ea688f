// Package scheduler drives the per-frame animation of the vignette.
//
// Each Tick samples the clock, applies the orbit to the group node, applies
// spin and float to the character once it has arrived, then asks for a
// redraw. A failed redraw never stops the loop.
package scheduler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/animation"
	"github.com/Faultbox/orbit-vignette/internal/engine/clock"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
)

// State is the scheduler's lifecycle state.
type State int

const (
	// WaitingForAssets runs the orbit only.
	WaitingForAssets State = iota
	// Running also spins and floats the character.
	Running
)

func (s State) String() string {
	switch s {
	case WaitingForAssets:
		return "waiting-for-assets"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Redrawer renders one frame.
type Redrawer interface {
	Redraw(sample clock.Sample) error
}

// RedrawFunc adapts a function to Redrawer.
type RedrawFunc func(sample clock.Sample) error

// Redraw calls f.
func (f RedrawFunc) Redraw(sample clock.Sample) error {
	return f(sample)
}

// FrameError reports a redraw that failed or panicked. The tick it belongs
// to still completed its animation step.
type FrameError struct {
	Tick  uint64
	Err   error
	Panic any
}

func (e *FrameError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("frame %d: redraw panicked: %v", e.Tick, e.Panic)
	}
	return fmt.Sprintf("frame %d: redraw: %v", e.Tick, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Stats counts what the scheduler has done so far.
type Stats struct {
	Ticks          uint64
	Redraws        uint64
	FailedRedraws  uint64
	CharacterTicks uint64
}

// Scheduler owns the orbit group, the character node and their animation
// state. It must only be used from the frame goroutine.
type Scheduler struct {
	clock     clock.Source
	animators animation.Animators
	redrawer  Redrawer
	log       *zap.Logger

	// Orbit
	group *scene.Node
	orbit animation.OrbitState

	// Character, nil until AttachCharacter
	character      *scene.Node
	characterState *animation.CharacterState

	state State
	stats Stats
	last  clock.Sample
}

// New creates a scheduler in WaitingForAssets. group is the node the orbit
// rotates; it may be nil for a headless run. log may be nil.
func New(src clock.Source, animators animation.Animators, group *scene.Node, redrawer Redrawer, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if redrawer == nil {
		redrawer = RedrawFunc(func(clock.Sample) error { return nil })
	}
	return &Scheduler{
		clock:     src,
		animators: animators,
		redrawer:  redrawer,
		log:       log,
		group:     group,
	}
}

// AttachCharacter hands the loaded character to the scheduler and switches to
// Running. The node's current height becomes the float base height. Only the
// first call has an effect; it reports whether the node was accepted.
func (s *Scheduler) AttachCharacter(node *scene.Node) bool {
	if node == nil {
		s.log.Warn("ignoring nil character")
		return false
	}
	if s.state == Running {
		s.log.Warn("character already attached, ignoring",
			zap.String("node", node.Name))
		return false
	}

	s.character = node
	s.characterState = animation.NewCharacterState(float64(node.Position.Y), float64(node.RotationY))
	s.state = Running

	s.log.Info("character attached",
		zap.String("node", node.Name),
		zap.Float64("base_height", s.characterState.BaseHeight),
		zap.Uint64("tick", s.stats.Ticks))
	return true
}

// Tick advances one frame. The returned error is a *FrameError when the
// redraw failed; animation state is updated either way.
func (s *Scheduler) Tick() error {
	sample := s.clock.Sample()
	s.last = sample
	s.stats.Ticks++

	s.animators.Orbit.Apply(&s.orbit, sample.Elapsed)
	if s.group != nil {
		s.group.RotationY = float32(s.orbit.GroupRotationY)
	}

	if s.state == Running {
		s.animators.Spin.Apply(s.characterState, sample.Delta)
		s.animators.Float.Apply(s.characterState, sample.Elapsed)
		s.character.RotationY = float32(s.characterState.SelfRotationY)
		s.character.Position.Y = float32(s.characterState.CurrentHeight)
		s.stats.CharacterTicks++
	}

	if err := s.redraw(sample); err != nil {
		s.stats.FailedRedraws++
		s.log.Warn("frame failed", zap.Error(err), zap.Uint64("failed", s.stats.FailedRedraws))
		return err
	}
	s.stats.Redraws++
	return nil
}

func (s *Scheduler) redraw(sample clock.Sample) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FrameError{Tick: s.stats.Ticks, Panic: r}
		}
	}()
	if rerr := s.redrawer.Redraw(sample); rerr != nil {
		return &FrameError{Tick: s.stats.Ticks, Err: rerr}
	}
	return nil
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// Stats returns the counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// LastSample returns the clock reading of the most recent tick.
func (s *Scheduler) LastSample() clock.Sample {
	return s.last
}

// Orbit returns the current orbit state.
func (s *Scheduler) Orbit() animation.OrbitState {
	return s.orbit
}

// Character returns a copy of the character state and whether a character
// is attached.
func (s *Scheduler) Character() (animation.CharacterState, bool) {
	if s.characterState == nil {
		return animation.CharacterState{}, false
	}
	return *s.characterState, true
}
