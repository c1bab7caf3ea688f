// Package shading implements the planet surface gradient: a stylized darkness
// falloff along a fixed illumination axis, softened with smoothstep so the
// terminator has no hard edge.
//
// The model is a pure function of its inputs. The renderer runs the same
// algorithm as a GLSL fragment program; this package is the reference used by
// tests, the terminal preview and the uniform setup.
package shading

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/orbit-vignette/pkg/math"
)

const (
	// LitAlpha is the alpha of a fully lit fragment.
	LitAlpha = 0.7

	// ShadowStrength is how far a fully dark fragment blends toward black.
	ShadowStrength = 0.8
)

// Uniform names expected by the gradient fragment program.
const (
	UniformMap       = "map"
	UniformGradAxis  = "gradAxis"
	UniformDarkStart = "darkStart"
	UniformDarkEnd   = "darkEnd"
	UniformMinAlpha  = "minAlpha"
)

// Params controls the falloff curve.
type Params struct {
	DarkStart float32 `yaml:"dark_start"`
	DarkEnd   float32 `yaml:"dark_end"`
	MinAlpha  float32 `yaml:"min_alpha"`
}

// DefaultParams returns the falloff used by the vignette.
func DefaultParams() Params {
	return Params{
		DarkStart: 0.1,
		DarkEnd:   0.6,
		MinAlpha:  0.56,
	}
}

// ConfigError reports shading parameters that cannot produce a valid gradient.
type ConfigError struct {
	Field  string
	Value  float32
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("shading: invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

// Validate checks ranges and ordering.
func (p Params) Validate() error {
	check := func(name string, v float32) error {
		if gomath.IsNaN(float64(v)) || v < 0 || v > 1 {
			return &ConfigError{Field: name, Value: v, Reason: "must be within [0, 1]"}
		}
		return nil
	}
	if err := check("dark_start", p.DarkStart); err != nil {
		return err
	}
	if err := check("dark_end", p.DarkEnd); err != nil {
		return err
	}
	if err := check("min_alpha", p.MinAlpha); err != nil {
		return err
	}
	if p.DarkStart >= p.DarkEnd {
		return &ConfigError{Field: "dark_start", Value: p.DarkStart, Reason: fmt.Sprintf("must be below dark_end (%g)", p.DarkEnd)}
	}
	if p.MinAlpha > LitAlpha {
		return &ConfigError{Field: "min_alpha", Value: p.MinAlpha, Reason: fmt.Sprintf("must not exceed lit alpha %g", LitAlpha)}
	}
	return nil
}

// Axis builds the illumination axis from a rotation about Y (radians) and a
// vertical tilt: normalize(sin θ, tilt, cos θ).
func Axis(angle float64, tilt float32) math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Sin(angle)),
		Y: tilt,
		Z: float32(gomath.Cos(angle)),
	}.Normalize()
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the base color used before a surface texture is available.
var White = Color{1, 1, 1, 1}

// Sample is the per-fragment input produced by the rasterizer.
type Sample struct {
	Normal    math.Vec3
	UV        math.Vec2
	BaseColor Color
}

// Model evaluates the gradient for a fixed axis and parameter set.
type Model struct {
	axis   math.Vec3
	params Params
}

// New validates params and returns a model. The axis is normalized; a zero
// axis is rejected.
func New(axis math.Vec3, params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	l := axis.Length()
	if l == 0 || gomath.IsNaN(float64(l)) || gomath.IsInf(float64(l), 0) {
		return nil, &ConfigError{Field: "axis", Value: l, Reason: "must be a finite non-zero vector"}
	}
	return &Model{axis: axis.Normalize(), params: params}, nil
}

// Axis returns the unit illumination axis.
func (m *Model) Axis() math.Vec3 {
	return m.axis
}

// Params returns the falloff parameters.
func (m *Model) Params() Params {
	return m.params
}

// Darkness maps a surface normal to [0, 1]: 0 when the normal points along the
// axis, 1 when it points against it.
func (m *Model) Darkness(normal math.Vec3) float32 {
	dotA := math.Clamp(normal.Normalize().Dot(m.axis), -1, 1)
	return (1 - dotA) * 0.5
}

// Mask returns the eased darkness factor for d.
func (m *Model) Mask(d float32) float32 {
	return math.Smoothstep(m.params.DarkStart, m.params.DarkEnd, d)
}

// Alpha returns the output alpha for mask value mk. The endpoints are exact.
func (m *Model) Alpha(mk float32) float32 {
	switch {
	case mk <= 0:
		return LitAlpha
	case mk >= 1:
		return m.params.MinAlpha
	}
	return math.Clamp(math.Mix(LitAlpha, m.params.MinAlpha, mk), m.params.MinAlpha, LitAlpha)
}

// Shade evaluates one fragment.
func (m *Model) Shade(s Sample) Color {
	mk := m.Mask(m.Darkness(s.Normal))
	k := mk * ShadowStrength
	return Color{
		R: math.Mix(s.BaseColor.R, 0, k),
		G: math.Mix(s.BaseColor.G, 0, k),
		B: math.Mix(s.BaseColor.B, 0, k),
		A: m.Alpha(mk),
	}
}

// Uniforms holds the values uploaded to the gradient program.
type Uniforms struct {
	GradAxis  [3]float32
	DarkStart float32
	DarkEnd   float32
	MinAlpha  float32
}

// Uniforms returns the program inputs for this model.
func (m *Model) Uniforms() Uniforms {
	return Uniforms{
		GradAxis:  m.axis.Array(),
		DarkStart: m.params.DarkStart,
		DarkEnd:   m.params.DarkEnd,
		MinAlpha:  m.params.MinAlpha,
	}
}
