// Package config handles vignette configuration loading and management.
package config

import (
	"github.com/Faultbox/orbit-vignette/internal/animation"
	"github.com/Faultbox/orbit-vignette/internal/engine/camera"
	"github.com/Faultbox/orbit-vignette/internal/engine/lighting"
	"github.com/Faultbox/orbit-vignette/internal/shading"
)

// Config holds all vignette settings.
type Config struct {
	Graphics  GraphicsConfig   `yaml:"graphics"`
	Camera    camera.Config    `yaml:"camera"`
	Scene     SceneConfig      `yaml:"scene"`
	Shading   ShadingConfig    `yaml:"shading"`
	Animation animation.Config `yaml:"animation"`
	Lights    lighting.Config  `yaml:"lights"`
	Assets    AssetsConfig     `yaml:"assets"`
	Audio     AudioConfig      `yaml:"audio"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	FPSLimit      int    `yaml:"fps_limit"`
	MSAA          int    `yaml:"msaa"`
	ClearColor    uint32 `yaml:"clear_color"`
	ShowFPS       bool   `yaml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig holds the layout of the planet, character and sky.
type SceneConfig struct {
	PlanetRadius   float32 `yaml:"planet_radius"`
	PlanetSegments int     `yaml:"planet_segments"`
	// CharacterGap is the distance between the planet surface and the
	// character's orbit.
	CharacterGap   float32 `yaml:"character_gap"`
	CharacterScale float32 `yaml:"character_scale"`
	SkyRadius      float32 `yaml:"sky_radius"`
	SkySegments    int     `yaml:"sky_segments"`
	SkyOpacity     float32 `yaml:"sky_opacity"`
}

// OrbitRadius returns the distance of the character from the planet center.
func (s SceneConfig) OrbitRadius() float32 {
	return s.PlanetRadius + s.CharacterGap
}

// ShadingConfig holds the planet's gradient shading settings.
type ShadingConfig struct {
	// AxisAngle rotates the illumination axis around Y, in degrees.
	AxisAngle float64 `yaml:"axis_angle"`
	// AxisTilt is the vertical component of the axis before normalization.
	AxisTilt float32 `yaml:"axis_tilt"`

	shading.Params `yaml:",inline"`
}

// AssetsConfig holds asset paths, relative to Root.
type AssetsConfig struct {
	Root          string `yaml:"root"`
	Character     string `yaml:"character"`
	Descriptor    string `yaml:"descriptor"`
	PlanetTexture string `yaml:"planet_texture"`
	SkyTexture    string `yaml:"sky_texture"`
	Music         string `yaml:"music"`

	Workers        int `yaml:"workers"`
	MaxTextureSize int `yaml:"max_texture_size"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	Loop         bool    `yaml:"loop"`
	Muted        bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config reproducing the vignette as designed.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			MSAA:       4,
			ClearColor: 0x050505,
		},
		Camera: camera.DefaultConfig(),
		Scene: SceneConfig{
			PlanetRadius:   42,
			PlanetSegments: 64,
			CharacterGap:   28,
			CharacterScale: 1.5,
			SkyRadius:      1000,
			SkySegments:    128,
			SkyOpacity:     0.65,
		},
		Shading: ShadingConfig{
			AxisAngle: 45,
			AxisTilt:  0.6,
			Params:    shading.DefaultParams(),
		},
		Animation: animation.DefaultConfig(),
		Lights:    lighting.DefaultConfig(),
		Assets: AssetsConfig{
			Root:          "assets",
			Character:     "models/scene.gltf",
			Descriptor:    "FP.gltf",
			PlanetTexture: "p1.png",
			SkyTexture:    "space.jpg",
			Music:         "bksound.mp3",
		},
		Audio: AudioConfig{
			MasterVolume: 1.0,
			MusicVolume:  0.3,
			Loop:         true,
			Muted:        false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
