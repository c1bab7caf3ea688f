package termview

import (
	gomath "math"

	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// cellAspect is the height of a terminal cell over its width.
const cellAspect = 2

// projector maps world space onto terminal cells with an orthographic view
// along the camera direction.
type projector struct {
	target          math.Vec3
	right, up, back math.Vec3

	cx, cy      float32 // Screen center in cells
	unitsPerCol float32
	unitsPerRow float32
}

// newProjector frames a square of half-size extent around target, seen from eye.
func newProjector(eye, target math.Vec3, cols, rows int, extent float32) projector {
	back := eye.Sub(target).Normalize()
	right := math.Vec3{Y: 1}.Cross(back)
	if right.Length() < 1e-6 {
		right = math.Vec3{X: 1}
	}
	right = right.Normalize()
	up := back.Cross(right)

	span := float32(min(rows, cols/cellAspect))
	if span < 1 {
		span = 1
	}
	perRow := 2 * extent / span

	return projector{
		target:      target,
		right:       right,
		up:          up,
		back:        back,
		cx:          float32(cols) / 2,
		cy:          float32(rows) / 2,
		unitsPerRow: perRow,
		unitsPerCol: perRow / cellAspect,
	}
}

// plane returns the view-plane coordinates of the center of a cell.
func (p projector) plane(col, row int) (u, v float32) {
	u = (float32(col) + 0.5 - p.cx) * p.unitsPerCol
	v = (p.cy - float32(row) - 0.5) * p.unitsPerRow
	return u, v
}

// project returns the cell holding w and its depth towards the viewer.
func (p projector) project(w math.Vec3) (col, row int, depth float32) {
	rel := w.Sub(p.target)
	u := rel.Dot(p.right)
	v := rel.Dot(p.up)
	col = int(gomath.Floor(float64(p.cx + u/p.unitsPerCol)))
	row = int(gomath.Floor(float64(p.cy - v/p.unitsPerRow)))
	return col, row, rel.Dot(p.back)
}

// sphereNormal returns the outward unit normal of the visible hemisphere of
// a sphere of the given radius centred on target, at view-plane (u, v).
func (p projector) sphereNormal(u, v, radius float32) (math.Vec3, bool) {
	h2 := radius*radius - u*u - v*v
	if h2 < 0 {
		return math.Vec3{}, false
	}
	h := float32(gomath.Sqrt(float64(h2)))
	n := p.right.Scale(u).Add(p.up.Scale(v)).Add(p.back.Scale(h))
	return n.Scale(1 / radius), true
}

// occluded reports whether a point at (u, v, depth) is hidden behind the
// sphere.
func occluded(u, v, depth, radius float32) bool {
	return depth < 0 && u*u+v*v < radius*radius
}

// planeCoords returns the view-plane coordinates and depth of w.
func (p projector) planeCoords(w math.Vec3) (u, v, depth float32) {
	rel := w.Sub(p.target)
	return rel.Dot(p.right), rel.Dot(p.up), rel.Dot(p.back)
}
