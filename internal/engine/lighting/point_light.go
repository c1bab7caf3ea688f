package lighting

import (
	"github.com/Faultbox/orbit-vignette/internal/engine/model"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// PointLight represents a point light source for GPU upload.
type PointLight struct {
	Position  [3]float32 // World position
	Color     [3]float32 // RGB color (0-1 range)
	Range     float32    // Cutoff distance, 0 for none
	Intensity float32    // Light intensity multiplier
	Decay     float32    // Distance falloff exponent
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// ExtractFromModel converts the punctual lights of a scene descriptor.
// Spot lights are approximated as point lights.
func ExtractFromModel(m *model.Model) ([]PointLight, []DirectionalLight) {
	if m == nil || len(m.Lights) == 0 {
		return nil, nil
	}

	var points []PointLight
	var dirs []DirectionalLight
	for _, l := range m.Lights {
		color := l.Color
		// Clamp color values to 0-1 range
		for i := 0; i < 3; i++ {
			if color[i] > 1.0 {
				color[i] = 1.0
			}
			if color[i] < 0.0 {
				color[i] = 0.0
			}
		}

		switch l.Type {
		case model.LightDirectional:
			dirs = append(dirs, DirectionalLight{
				Direction: l.Direction.Neg().Normalize().Array(),
				Color:     color,
				Intensity: l.Intensity,
			})
		case model.LightPoint, model.LightSpot:
			points = append(points, PointLight{
				Position:  l.Position.Array(),
				Color:     color,
				Range:     max(l.Range, 0),
				Intensity: l.Intensity,
				Decay:     2,
			})
		}
	}

	return points, dirs
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if b.Count >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Position[0]
		result[i*3+1] = light.Position[1]
		result[i*3+2] = light.Position[2]
	}
	return result
}

// Colors returns colors premultiplied by intensity as a flat float32 slice.
func (b *PointLightBuffer) Colors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Color[0] * light.Intensity
		result[i*3+1] = light.Color[1] * light.Intensity
		result[i*3+2] = light.Color[2] * light.Intensity
	}
	return result
}

// Ranges returns ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Ranges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// Decays returns decay exponents as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Decays() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Decay
	}
	return result
}
