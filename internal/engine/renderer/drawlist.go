package renderer

import (
	"sort"

	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// drawItem is one mesh instance with its resolved world transform.
type drawItem struct {
	Mesh  *scene.Mesh
	World math.Mat4
	Depth float32 // Distance from the eye to the world-space bounds center
}

// drawList is the visible scene split into passes, in draw order.
type drawList struct {
	Sky         []drawItem
	Opaque      []drawItem
	Transparent []drawItem
}

// Len returns the total number of items.
func (d drawList) Len() int {
	return len(d.Sky) + len(d.Opaque) + len(d.Transparent)
}

// buildDrawList walks the visible graph under root. Sky meshes come first,
// then opaque meshes, then transparent meshes sorted back to front.
func buildDrawList(root *scene.Node, eye math.Vec3) drawList {
	var list drawList
	if root == nil {
		return list
	}

	root.Traverse(func(n *scene.Node, world math.Mat4) {
		for _, m := range n.Meshes {
			if m == nil || m.Material == nil || m.Geometry == nil || len(m.Geometry.Indices) == 0 {
				continue
			}
			center := world.TransformPoint(m.Geometry.Bounds.Center().Array())
			item := drawItem{
				Mesh:  m,
				World: world,
				Depth: math.Vec3FromArray(center).Distance(eye),
			}
			switch {
			case m.Material.Kind == scene.MaterialSky:
				list.Sky = append(list.Sky, item)
			case m.Material.Transparent:
				list.Transparent = append(list.Transparent, item)
			default:
				list.Opaque = append(list.Opaque, item)
			}
		}
	})

	sort.SliceStable(list.Transparent, func(i, j int) bool {
		return list.Transparent[i].Depth > list.Transparent[j].Depth
	})
	return list
}
