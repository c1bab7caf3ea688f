// Package lighting describes the light rig shared by the lit shaders.
package lighting

import (
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// MaxDirectionalLights is the number of directional lights the lit shader supports.
const MaxDirectionalLights = 4

// HemisphereConfig is a sky/ground ambient light.
type HemisphereConfig struct {
	Sky       uint32  `yaml:"sky"`
	Ground    uint32  `yaml:"ground"`
	Intensity float32 `yaml:"intensity"`
}

// DirectionalConfig is a light shining from Position towards the origin.
type DirectionalConfig struct {
	Color     uint32     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
}

// PointConfig is a point light. A zero Range means no cutoff.
type PointConfig struct {
	Color     uint32     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
	Range     float32    `yaml:"range"`
	Decay     float32    `yaml:"decay"`
}

// Config is the lights section of the config file.
type Config struct {
	Hemisphere  HemisphereConfig    `yaml:"hemisphere"`
	Directional []DirectionalConfig `yaml:"directional"`
	Point       []PointConfig       `yaml:"point"`
	// Exposure feeds the tone mapping of lit materials.
	Exposure float32 `yaml:"exposure"`
}

// DefaultConfig returns the vignette rig: a bright hemisphere, an orange key
// light, a yellow fill light and a white rim light behind the planet.
func DefaultConfig() Config {
	return Config{
		Hemisphere: HemisphereConfig{Sky: 0xffffff, Ground: 0x444444, Intensity: 3.5},
		Directional: []DirectionalConfig{
			{Color: 0xfc9003, Intensity: 0.7, Position: [3]float32{-1000, 300, 500}},
			{Color: 0xfcdb03, Intensity: 0.6, Position: [3]float32{1000, -200, -400}},
		},
		Point: []PointConfig{
			{Color: 0xffffff, Intensity: 3, Position: [3]float32{-500, 100, -200}, Decay: 2},
		},
		Exposure: 1,
	}
}

// Hemisphere is an ambient light blending from Sky (normal up) to Ground.
type Hemisphere struct {
	Sky       [3]float32
	Ground    [3]float32
	Intensity float32
}

// DirectionalLight is a light at infinity. Direction points towards the light.
type DirectionalLight struct {
	Direction [3]float32
	Color     [3]float32
	Intensity float32
}

// Rig is every light in the scene.
type Rig struct {
	Hemisphere  Hemisphere
	Directional []DirectionalLight
	Points      *PointLightBuffer
	Exposure    float32
}

// NewRig builds a rig from cfg.
func NewRig(cfg Config) *Rig {
	r := &Rig{
		Hemisphere: Hemisphere{
			Sky:       math.RGBFromHex(cfg.Hemisphere.Sky),
			Ground:    math.RGBFromHex(cfg.Hemisphere.Ground),
			Intensity: cfg.Hemisphere.Intensity,
		},
		Points:   NewPointLightBuffer(),
		Exposure: cfg.Exposure,
	}
	if r.Exposure <= 0 {
		r.Exposure = 1
	}
	for _, d := range cfg.Directional {
		r.AddDirectional(DirectionalLight{
			Direction: DirectionFromPosition(d.Position),
			Color:     math.RGBFromHex(d.Color),
			Intensity: d.Intensity,
		})
	}
	for _, p := range cfg.Point {
		r.Points.AddLight(PointLight{
			Position:  p.Position,
			Color:     math.RGBFromHex(p.Color),
			Range:     p.Range,
			Intensity: p.Intensity,
			Decay:     p.Decay,
		})
	}
	return r
}

// AddDirectional appends a directional light. Returns false if the rig is full.
func (r *Rig) AddDirectional(l DirectionalLight) bool {
	if len(r.Directional) >= MaxDirectionalLights {
		return false
	}
	r.Directional = append(r.Directional, l)
	return true
}

// DirectionFromPosition returns the unit vector from the origin to pos, the
// direction a light placed at pos shines from. A zero position yields +Y.
func DirectionFromPosition(pos [3]float32) [3]float32 {
	v := math.Vec3FromArray(pos)
	if v.Length() == 0 {
		return [3]float32{0, 1, 0}
	}
	return v.Normalize().Array()
}
