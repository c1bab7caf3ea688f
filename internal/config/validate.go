package config

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError reports a setting that cannot be used. The vignette
// refuses to start on any ValidationError.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every section. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field, reason string, args ...any) {
		if !ok {
			errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf(reason, args...)})
		}
	}
	wrap := func(field string, err error) {
		if err != nil {
			errs = append(errs, &ValidationError{Field: field, Err: err})
		}
	}

	g := c.Graphics
	check(g.Width > 0 && g.Height > 0, "graphics", "window size %dx%d must be positive", g.Width, g.Height)
	check(g.FPSLimit >= 0, "graphics.fps_limit", "must not be negative, got %d", g.FPSLimit)
	check(g.MSAA >= 0 && g.MSAA <= 16, "graphics.msaa", "must be in [0, 16], got %d", g.MSAA)
	check(g.ClearColor <= 0xffffff, "graphics.clear_color", "must be 0xRRGGBB, got %#x", g.ClearColor)

	cam := c.Camera
	check(cam.FOV > 0 && cam.FOV < 180, "camera.fov", "must be in (0, 180), got %v", cam.FOV)
	check(cam.Near > 0 && cam.Far > cam.Near, "camera", "need 0 < near < far, got near=%v far=%v", cam.Near, cam.Far)
	check(cam.MinDistance >= 0 && cam.MaxDistance >= cam.MinDistance, "camera", "need 0 <= min_distance <= max_distance, got %v and %v", cam.MinDistance, cam.MaxDistance)
	check(cam.DampingFactor >= 0 && cam.DampingFactor <= 1, "camera.damping_factor", "must be in [0, 1], got %v", cam.DampingFactor)

	s := c.Scene
	check(s.PlanetRadius > 0, "scene.planet_radius", "must be positive, got %v", s.PlanetRadius)
	check(s.PlanetSegments >= 3, "scene.planet_segments", "must be at least 3, got %d", s.PlanetSegments)
	check(s.CharacterGap >= 0, "scene.character_gap", "must not be negative, got %v", s.CharacterGap)
	check(s.CharacterScale > 0, "scene.character_scale", "must be positive, got %v", s.CharacterScale)
	check(s.SkyRadius > s.OrbitRadius(), "scene.sky_radius", "must enclose the orbit (%v), got %v", s.OrbitRadius(), s.SkyRadius)
	check(s.SkySegments >= 3, "scene.sky_segments", "must be at least 3, got %d", s.SkySegments)
	check(s.SkyOpacity >= 0 && s.SkyOpacity <= 1, "scene.sky_opacity", "must be in [0, 1], got %v", s.SkyOpacity)

	sh := c.Shading
	check(!math.IsNaN(sh.AxisAngle) && !math.IsInf(sh.AxisAngle, 0), "shading.axis_angle", "must be finite")
	check(!math.IsNaN(float64(sh.AxisTilt)) && !math.IsInf(float64(sh.AxisTilt), 0), "shading.axis_tilt", "must be finite")
	wrap("shading", sh.Params.Validate())

	wrap("animation", c.Animation.Validate())

	a := c.Assets
	check(a.Character != "", "assets.character", "must be set")
	check(a.PlanetTexture != "", "assets.planet_texture", "must be set")
	check(a.Workers >= 0, "assets.workers", "must not be negative, got %d", a.Workers)

	au := c.Audio
	check(au.MasterVolume >= 0 && au.MasterVolume <= 1, "audio.master_volume", "must be in [0, 1], got %v", au.MasterVolume)
	check(au.MusicVolume >= 0 && au.MusicVolume <= 1, "audio.music_volume", "must be in [0, 1], got %v", au.MusicVolume)

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level", "unknown level %q", c.Logging.Level)
	}

	return errors.Join(errs...)
}
