package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/orbit-vignette/internal/shading"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics
	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.ClearColor != 0x050505 {
		t.Errorf("expected clear color 0x050505, got %#x", cfg.Graphics.ClearColor)
	}

	// Scene layout
	if cfg.Scene.PlanetRadius != 42 {
		t.Errorf("expected planet radius 42, got %v", cfg.Scene.PlanetRadius)
	}
	if cfg.Scene.OrbitRadius() != 70 {
		t.Errorf("expected orbit radius 70, got %v", cfg.Scene.OrbitRadius())
	}
	if cfg.Scene.SkyOpacity != 0.65 {
		t.Errorf("expected sky opacity 0.65, got %v", cfg.Scene.SkyOpacity)
	}

	// Shading
	if cfg.Shading.DarkStart != 0.1 || cfg.Shading.DarkEnd != 0.6 || cfg.Shading.MinAlpha != 0.56 {
		t.Errorf("unexpected shading params %+v", cfg.Shading.Params)
	}
	if cfg.Shading.AxisAngle != 45 || cfg.Shading.AxisTilt != 0.6 {
		t.Errorf("unexpected axis %v/%v", cfg.Shading.AxisAngle, cfg.Shading.AxisTilt)
	}

	// Animation
	if cfg.Animation.OrbitRate != 0.2 || cfg.Animation.FloatAmplitude != 10 {
		t.Errorf("unexpected animation %+v", cfg.Animation)
	}
	if math.Abs(cfg.Animation.SpinRate-math.Pi/2) > 1e-12 {
		t.Errorf("expected spin rate π/2, got %v", cfg.Animation.SpinRate)
	}

	// Camera
	if cfg.Camera.MaxDistance != 1250 || cfg.Camera.FOV != 60 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}

	// Audio
	if cfg.Audio.MusicVolume != 0.3 || !cfg.Audio.Loop {
		t.Errorf("unexpected audio %+v", cfg.Audio)
	}

	// Assets
	if cfg.Assets.Character != "models/scene.gltf" || cfg.Assets.Music != "bksound.mp3" {
		t.Errorf("unexpected assets %+v", cfg.Assets)
	}

	// Logging
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  clear_color: 0x101010

scene:
  planet_radius: 50
  character_gap: 30

shading:
  axis_angle: 90
  dark_start: 0.2
  dark_end: 0.7
  min_alpha: 0.5

animation:
  orbit_rate: 0.5

lights:
  directional:
    - color: 0xff0000
      intensity: 2
      position: [1, 2, 3]

assets:
  root: /srv/vignette
  sky_texture: ""

audio:
  music_volume: 0.5
  muted: true

logging:
  level: debug
  log_file: vignette.log
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Graphics.ClearColor != 0x101010 {
		t.Errorf("expected clear color 0x101010, got %#x", cfg.Graphics.ClearColor)
	}
	if cfg.Scene.OrbitRadius() != 80 {
		t.Errorf("expected orbit radius 80, got %v", cfg.Scene.OrbitRadius())
	}
	// Unset fields keep their defaults.
	if cfg.Scene.CharacterScale != 1.5 {
		t.Errorf("expected default character scale, got %v", cfg.Scene.CharacterScale)
	}
	if cfg.Shading.AxisAngle != 90 || cfg.Shading.DarkStart != 0.2 || cfg.Shading.MinAlpha != 0.5 {
		t.Errorf("shading not loaded: %+v", cfg.Shading)
	}
	if cfg.Animation.OrbitRate != 0.5 || cfg.Animation.FloatFrequency != 0.2 {
		t.Errorf("animation not merged: %+v", cfg.Animation)
	}
	if len(cfg.Lights.Directional) != 1 || cfg.Lights.Directional[0].Color != 0xff0000 {
		t.Errorf("lights not loaded: %+v", cfg.Lights.Directional)
	}
	if cfg.Lights.Hemisphere.Intensity != 3.5 {
		t.Errorf("hemisphere default lost: %+v", cfg.Lights.Hemisphere)
	}
	if cfg.Assets.Root != "/srv/vignette" || cfg.Assets.SkyTexture != "" {
		t.Errorf("assets not loaded: %+v", cfg.Assets)
	}
	if !cfg.Audio.Muted || cfg.Audio.MusicVolume != 0.5 {
		t.Errorf("audio not loaded: %+v", cfg.Audio)
	}
	if cfg.Logging.LogFile != "vignette.log" {
		t.Errorf("expected log file 'vignette.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }, "camera"},
		{"negative planet", func(c *Config) { c.Scene.PlanetRadius = -1 }, "scene.planet_radius"},
		{"sky inside orbit", func(c *Config) { c.Scene.SkyRadius = 60 }, "scene.sky_radius"},
		{"sky opacity", func(c *Config) { c.Scene.SkyOpacity = 1.5 }, "scene.sky_opacity"},
		{"axis angle NaN", func(c *Config) { c.Shading.AxisAngle = math.NaN() }, "shading.axis_angle"},
		{"dark range inverted", func(c *Config) { c.Shading.DarkStart = 0.7 }, "shading"},
		{"min alpha above lit alpha", func(c *Config) { c.Shading.MinAlpha = 0.8 }, "shading"},
		{"orbit rate inf", func(c *Config) { c.Animation.OrbitRate = math.Inf(1) }, "animation"},
		{"no character", func(c *Config) { c.Assets.Character = "" }, "assets.character"},
		{"loud music", func(c *Config) { c.Audio.MusicVolume = 2 }, "audio.music_volume"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", ve.Field, tt.field, err)
			}
		})
	}
}

func TestValidateShadingErrorUnwraps(t *testing.T) {
	cfg := Default()
	cfg.Shading.MinAlpha = 0.9

	var se *shading.ConfigError
	if !errors.As(cfg.Validate(), &se) {
		t.Error("expected shading.ConfigError in the chain")
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Audio.MusicVolume = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("expected two joined errors, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.PlanetRadius = 55
	cfg.Shading.MinAlpha = 0.4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.PlanetRadius != 55 || loaded.Shading.MinAlpha != 0.4 {
		t.Errorf("round trip lost values: %+v %+v", loaded.Scene, loaded.Shading)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "assets flag",
			setup: func() { *flagAssets = "/tmp/assets" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Root != "/tmp/assets" {
					t.Errorf("expected asset root /tmp/assets, got %s", cfg.Assets.Root)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
		{
			name:  "mute flag",
			setup: func() { *flagMute = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Audio.Muted {
					t.Error("expected audio to be muted")
				}
			},
			teardown: func() { *flagMute = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("shading:\n  dark_start: 0.9\n  dark_end: 0.1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error from Load")
	}
}
