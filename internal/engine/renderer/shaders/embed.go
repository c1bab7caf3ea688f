// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader is the vertex shader for lit meshes (character, descriptor).
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader applies hemisphere, directional and point lighting.
//
//go:embed lit.frag
var LitFragmentShader string

// GradientVertexShader is the vertex shader for the planet.
//
//go:embed gradient.vert
var GradientVertexShader string

// GradientFragmentShader darkens and fades the planet away from the illumination axis.
//
//go:embed gradient.frag
var GradientFragmentShader string

// SkyVertexShader is the vertex shader for the sky sphere.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader samples the star field.
//
//go:embed sky.frag
var SkyFragmentShader string
