// Package animation holds the time-driven animators of the vignette: the
// orbit of the character group around the planet, the character's spin about
// its own axis and its vertical float.
//
// Orbit and float are pure functions of elapsed time. Spin is the only
// integrator and uses the real frame delta, so variable frame pacing never
// corrupts state.
package animation

import (
	"fmt"
	"math"

	vmath "github.com/Faultbox/orbit-vignette/pkg/math"
)

// Config holds animator rates.
type Config struct {
	// OrbitRate is the group's angular rate in radians per second.
	OrbitRate float64 `yaml:"orbit_rate"`
	// SpinRate is the character's self-rotation rate in radians per second.
	SpinRate float64 `yaml:"spin_rate"`
	// FloatFrequency is the vertical bob frequency in Hz.
	FloatFrequency float64 `yaml:"float_frequency"`
	// FloatAmplitude is the peak vertical displacement in scene units.
	FloatAmplitude float64 `yaml:"float_amplitude"`
}

// DefaultConfig returns the rates of the vignette.
func DefaultConfig() Config {
	return Config{
		OrbitRate:      0.2,
		SpinRate:       math.Pi * 0.5,
		FloatFrequency: 0.2,
		FloatAmplitude: 10,
	}
}

// OrbitState is owned by the orbiting group node.
type OrbitState struct {
	GroupRotationY float64
}

// CharacterState is owned by the scheduler once the character has arrived.
type CharacterState struct {
	SelfRotationY float64
	BaseHeight    float64
	CurrentHeight float64
}

// NewCharacterState captures the base height of a freshly loaded character.
func NewCharacterState(baseHeight, rotationY float64) *CharacterState {
	return &CharacterState{
		SelfRotationY: vmath.WrapAngle(rotationY),
		BaseHeight:    baseHeight,
		CurrentHeight: baseHeight,
	}
}

// OrbitAngle returns the group rotation for elapsed seconds, wrapped into
// [0, 2π). It is recomputed from scratch on every call.
func OrbitAngle(elapsed, rate float64) float64 {
	return vmath.WrapAngle(elapsed * rate)
}

// SpinAngle advances a rotation by rate*delta and wraps it into [0, 2π).
// Negative or non-finite deltas leave the angle unchanged.
func SpinAngle(current, rate, delta float64) float64 {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return current
	}
	return vmath.WrapAngle(current + rate*delta)
}

// FloatHeight returns base + amplitude*sin(2π*frequency*elapsed).
func FloatHeight(elapsed, base, frequency, amplitude float64) float64 {
	return base + amplitude*math.Sin(elapsed*2*math.Pi*frequency)
}

// Orbit animates the group rotation.
type Orbit struct {
	Rate float64
}

// Apply writes the rotation for elapsed into s.
func (o Orbit) Apply(s *OrbitState, elapsed float64) {
	s.GroupRotationY = OrbitAngle(elapsed, o.Rate)
}

// Spin animates the character's self rotation.
type Spin struct {
	Rate float64
}

// Apply integrates delta into c. A nil state is a no-op.
func (sp Spin) Apply(c *CharacterState, delta float64) {
	if c == nil {
		return
	}
	c.SelfRotationY = SpinAngle(c.SelfRotationY, sp.Rate, delta)
}

// Float animates the character's height around its captured base.
type Float struct {
	Frequency float64
	Amplitude float64
}

// Apply recomputes c.CurrentHeight. A nil state is a no-op, so a character
// that arrives late starts exactly at its float curve instead of snapping
// from zero.
func (f Float) Apply(c *CharacterState, elapsed float64) {
	if c == nil {
		return
	}
	c.CurrentHeight = FloatHeight(elapsed, c.BaseHeight, f.Frequency, f.Amplitude)
}

// Animators bundles the three animators built from one Config.
type Animators struct {
	Orbit Orbit
	Spin  Spin
	Float Float
}

// New builds animators from cfg.
func New(cfg Config) Animators {
	return Animators{
		Orbit: Orbit{Rate: cfg.OrbitRate},
		Spin:  Spin{Rate: cfg.SpinRate},
		Float: Float{Frequency: cfg.FloatFrequency, Amplitude: cfg.FloatAmplitude},
	}
}

// Validate rejects non-finite rates and negative float parameters.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"orbit_rate", c.OrbitRate},
		{"spin_rate", c.SpinRate},
		{"float_frequency", c.FloatFrequency},
		{"float_amplitude", c.FloatAmplitude},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("animation: %s must be finite, got %v", f.name, f.v)
		}
	}
	if c.FloatFrequency < 0 {
		return fmt.Errorf("animation: float_frequency must not be negative, got %v", c.FloatFrequency)
	}
	if c.FloatAmplitude < 0 {
		return fmt.Errorf("animation: float_amplitude must not be negative, got %v", c.FloatAmplitude)
	}
	return nil
}
