// Package model holds CPU-side mesh data: procedural spheres for the planet
// and sky, and meshes extracted from glTF documents.
package model

import (
	"image"

	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds indexed triangle data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Part is one drawable piece of a model: a mesh with its base color and an
// optional decoded base-color texture.
type Part struct {
	Name      string
	Mesh      *Mesh
	BaseColor [4]float32
	Texture   *image.RGBA
}

// LightType mirrors the KHR_lights_punctual light types.
type LightType string

// Punctual light types.
const (
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
)

// Light is a light embedded in a scene descriptor, already placed in model space.
type Light struct {
	Name      string
	Type      LightType
	Color     [3]float32
	Intensity float32
	Range     float32
	Position  math.Vec3
	Direction math.Vec3
}

// Model is everything extracted from one glTF document.
type Model struct {
	Name   string
	Parts  []Part
	Lights []Light
	Bounds Bounds
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns bounds that any point will extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Merge grows b to contain other.
func (b *Bounds) Merge(other Bounds) {
	if other.Empty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
