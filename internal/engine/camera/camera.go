// Package camera provides the orbit camera used to view the vignette.
package camera

import (
	gomath "math"

	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Config holds the camera settings loaded from the config file.
type Config struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`

	// Projection
	FOV  float32 `yaml:"fov"` // vertical, degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// Controls
	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float32 `yaml:"auto_rotate_speed"` // 1.0 = one turn per 60s
	DampingFactor   float32 `yaml:"damping_factor"`    // 0 disables damping
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
}

// DefaultConfig returns the vignette's camera: looking at the origin from
// (200, 150, -200), slowly auto-rotating.
func DefaultConfig() Config {
	return Config{
		Position:        [3]float32{200, 150, -200},
		FOV:             60,
		Near:            0.1,
		Far:             10000,
		AutoRotate:      true,
		AutoRotateSpeed: 0.7,
		DampingFactor:   0.05,
		MinDistance:     50,
		MaxDistance:     1250,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Pitch limits keep the camera off the poles, where LookAt degenerates.
const (
	minPitch = -gomath.Pi/2 + 0.01
	maxPitch = gomath.Pi/2 - 0.01
)

// referenceFrameRate is the rate DampingFactor is expressed at.
const referenceFrameRate = 60

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from target
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Auto rotation, in turns per minute
	AutoRotate      bool
	AutoRotateSpeed float32

	// Damping: pending rotation decays by this fraction per 1/60 s.
	DampingFactor float32
	pendingYaw    float32
	pendingPitch  float32

	// Projection
	FOV    float32 // degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewOrbitCamera creates a camera from cfg.
func NewOrbitCamera(cfg Config) *OrbitCamera {
	c := &OrbitCamera{
		Target:          math.Vec3FromArray(cfg.Target),
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		DragSensitivity: cfg.DragSensitivity,
		ZoomSensitivity: cfg.ZoomSensitivity,
		AutoRotate:      cfg.AutoRotate,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
		DampingFactor:   cfg.DampingFactor,
		FOV:             cfg.FOV,
		Aspect:          16.0 / 9.0,
		Near:            cfg.Near,
		Far:             cfg.Far,
	}
	c.SetPosition(math.Vec3FromArray(cfg.Position))
	return c
}

// SetPosition places the camera at p, keeping the target.
func (c *OrbitCamera) SetPosition(p math.Vec3) {
	off := p.Sub(c.Target)
	c.Distance = off.Length()
	if c.Distance == 0 {
		c.RotationX, c.RotationY = 0, 0
		return
	}
	c.RotationX = float32(gomath.Asin(float64(off.Y / c.Distance)))
	c.RotationY = float32(gomath.Atan2(float64(off.X), float64(off.Z)))
	c.clamp()
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Target, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(float32(math.Radians(float64(c.FOV))), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// SetViewport updates the aspect ratio. Degenerate sizes are ignored.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleDrag queues a rotation from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.pendingYaw -= deltaX * c.DragSensitivity
	c.pendingPitch += deltaY * c.DragSensitivity
	if c.DampingFactor <= 0 {
		c.applyPending(1)
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

// Update advances auto rotation and damping by dt seconds.
func (c *OrbitCamera) Update(dt float64) {
	if !(dt > 0) || gomath.IsInf(dt, 0) {
		return
	}

	if c.AutoRotate {
		c.pendingYaw -= c.AutoRotationAngle(dt)
	}

	if c.DampingFactor <= 0 || c.DampingFactor >= 1 {
		c.applyPending(1)
		return
	}
	keep := gomath.Pow(float64(1-c.DampingFactor), dt*referenceFrameRate)
	c.applyPending(float32(1 - keep))
}

// AutoRotationAngle returns the yaw auto rotation covers in dt seconds.
func (c *OrbitCamera) AutoRotationAngle(dt float64) float32 {
	return float32(2 * gomath.Pi / 60 * float64(c.AutoRotateSpeed) * dt)
}

func (c *OrbitCamera) applyPending(fraction float32) {
	c.RotationY += c.pendingYaw * fraction
	c.RotationX += c.pendingPitch * fraction
	c.pendingYaw -= c.pendingYaw * fraction
	c.pendingPitch -= c.pendingPitch * fraction
	c.RotationY = float32(math.WrapAngle(float64(c.RotationY)))
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.RotationX = math.Clamp(c.RotationX, minPitch, maxPitch)
	if c.MaxDistance > 0 && c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
}
