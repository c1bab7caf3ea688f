// Package vignette assembles the planet, sky, orbiting character and audio
// into a running scene.
package vignette

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/engine/lighting"
	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
	"github.com/Faultbox/orbit-vignette/internal/engine/texture"
	"github.com/Faultbox/orbit-vignette/internal/shading"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Node names in the scene graph.
const (
	NodePlanet     = "planet"
	NodeSky        = "sky"
	NodeOrbit      = "orbit"
	NodeCharacter  = "character"
	NodeDescriptor = "descriptor"
)

// World is the scene graph plus the handles the stage mutates as assets
// arrive.
type World struct {
	Scene *scene.Scene

	Planet *scene.Node
	Sky    *scene.Node
	Orbit  *scene.Node

	PlanetTexture *scene.Texture
	SkyTexture    *scene.Texture

	Shading *shading.Model
	Lights  *lighting.Rig
}

// BuildWorld creates everything that does not depend on a loaded asset.
// It fails only on invalid shading parameters.
func BuildWorld(cfg *config.Config) (*World, error) {
	axis := shading.Axis(math.Radians(cfg.Shading.AxisAngle), cfg.Shading.AxisTilt)
	gradient, err := shading.New(axis, cfg.Shading.Params)
	if err != nil {
		return nil, fmt.Errorf("planet shading: %w", err)
	}

	w := &World{
		Scene:   scene.New(math.RGBFromHex(cfg.Graphics.ClearColor)),
		Shading: gradient,
		Lights:  lighting.NewRig(cfg.Lights),
	}

	// White until the surface texture arrives.
	w.PlanetTexture = scene.NewTexture("planet", texture.Solid(color.RGBA{255, 255, 255, 255}))
	w.Planet = scene.NewNode(NodePlanet)
	w.Planet.Meshes = []*scene.Mesh{{
		Geometry: model.Sphere(cfg.Scene.PlanetRadius, cfg.Scene.PlanetSegments, cfg.Scene.PlanetSegments),
		Material: &scene.Material{
			Kind:        scene.MaterialGradient,
			Color:       [4]float32{1, 1, 1, 1},
			Texture:     w.PlanetTexture,
			Transparent: true,
			Side:        scene.FrontSide,
			Gradient:    gradient,
		},
	}}

	// Hidden until the star field arrives.
	w.SkyTexture = scene.NewTexture("sky", nil)
	w.Sky = scene.NewNode(NodeSky)
	w.Sky.Visible = false
	w.Sky.Meshes = []*scene.Mesh{{
		Geometry: model.Sphere(cfg.Scene.SkyRadius, cfg.Scene.SkySegments, cfg.Scene.SkySegments),
		Material: &scene.Material{
			Kind:        scene.MaterialSky,
			Color:       [4]float32{1, 1, 1, 1},
			Texture:     w.SkyTexture,
			Opacity:     cfg.Scene.SkyOpacity,
			Transparent: true,
			Side:        scene.BackSide,
		},
	}}

	w.Orbit = scene.NewNode(NodeOrbit)

	w.Scene.Add(w.Sky)
	w.Scene.Add(w.Planet)
	w.Scene.Add(w.Orbit)
	return w, nil
}
