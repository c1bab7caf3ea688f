package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/orbit-vignette/pkg/math"
)

func near(a, b, eps float32) bool {
	return gomath.Abs(float64(a-b)) <= float64(eps)
}

func TestDefaultPositionRoundTrip(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	p := c.Position()
	if !near(p.X, 200, 1e-3) || !near(p.Y, 150, 1e-3) || !near(p.Z, -200, 1e-3) {
		t.Errorf("Position = %+v, want (200, 150, -200)", p)
	}
	want := float32(gomath.Sqrt(200*200 + 150*150 + 200*200))
	if !near(c.Distance, want, 1e-3) {
		t.Errorf("Distance = %f, want %f", c.Distance, want)
	}
}

func TestAutoRotateOneTurnPerMinute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotateSpeed = 1
	cfg.DampingFactor = 0
	c := NewOrbitCamera(cfg)
	start := c.RotationY

	// 15 seconds is a quarter turn.
	for i := 0; i < 15*60; i++ {
		c.Update(1.0 / 60)
	}
	turned := float64(start - c.RotationY)
	turned = math.WrapAngle(turned)
	if gomath.Abs(turned-gomath.Pi/2) > 1e-3 {
		t.Errorf("turned %f rad in 15s, want π/2", turned)
	}
}

func TestAutoRotationAngle(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	got := c.AutoRotationAngle(1)
	want := float32(2 * gomath.Pi / 60 * 0.7)
	if !near(got, want, 1e-6) {
		t.Errorf("AutoRotationAngle(1) = %f, want %f", got, want)
	}
}

func TestDampedDrag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotate = false
	c := NewOrbitCamera(cfg)
	start := c.RotationX

	c.HandleDrag(0, 100) // +0.5 rad pending
	c.Update(1.0 / 60)
	if got := c.RotationX - start; !near(got, 0.5*0.05, 1e-5) {
		t.Errorf("first damped step = %f, want %f", got, 0.5*0.05)
	}

	for i := 0; i < 600; i++ {
		c.Update(1.0 / 60)
	}
	if got := c.RotationX - start; !near(got, 0.5, 1e-4) {
		t.Errorf("settled rotation = %f, want 0.5", got)
	}
}

// Damping converges to the same place whatever the frame rate.
func TestDampingFrameRateIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotate = false

	a := NewOrbitCamera(cfg)
	b := NewOrbitCamera(cfg)
	a.HandleDrag(80, 0)
	b.HandleDrag(80, 0)

	for i := 0; i < 30; i++ {
		a.Update(1.0 / 30)
	}
	for i := 0; i < 120; i++ {
		b.Update(1.0 / 120)
	}
	if !near(a.RotationY, b.RotationY, 1e-4) {
		t.Errorf("yaw after 1s: %f at 30fps vs %f at 120fps", a.RotationY, b.RotationY)
	}
}

func TestUndampedDragIsImmediate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DampingFactor = 0
	c := NewOrbitCamera(cfg)
	start := c.RotationX
	c.HandleDrag(0, 20)
	if !near(c.RotationX-start, 0.1, 1e-5) {
		t.Errorf("pitch change = %f, want 0.1", c.RotationX-start)
	}
}

func TestPitchClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DampingFactor = 0
	c := NewOrbitCamera(cfg)
	c.HandleDrag(0, 1e6)
	if c.RotationX > maxPitch {
		t.Errorf("pitch %f above limit %f", c.RotationX, maxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX < minPitch {
		t.Errorf("pitch %f below limit %f", c.RotationX, minPitch)
	}
}

func TestZoomClampedToMaxDistance(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != 1250 {
		t.Errorf("Distance = %f, want 1250", c.Distance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %f, want %f", c.Distance, c.MinDistance)
	}
}

func TestSetViewport(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	c.SetViewport(800, 400)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %f, want 2", c.Aspect)
	}
	c.SetViewport(800, 0)
	if c.Aspect != 2 {
		t.Errorf("zero height changed aspect to %f", c.Aspect)
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	p := c.ViewMatrix().TransformVec3(c.Target)
	if !near(p.X, 0, 1e-3) || !near(p.Y, 0, 1e-3) {
		t.Errorf("target in view space = %+v, want on -Z axis", p)
	}
	if p.Z >= 0 {
		t.Errorf("target should be in front of camera, z = %f", p.Z)
	}
}

func TestUpdateIgnoresBadDelta(t *testing.T) {
	c := NewOrbitCamera(DefaultConfig())
	before := c.RotationY
	c.Update(-1)
	c.Update(gomath.NaN())
	c.Update(gomath.Inf(1))
	if c.RotationY != before {
		t.Error("bad deltas must not move the camera")
	}
}
