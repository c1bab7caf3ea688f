// Package scene provides the retained scene graph drawn by the renderer:
// nodes with a translate/rotate-Y/scale transform, meshes and materials.
//
// The graph is owned by the frame goroutine. Nothing here is safe for
// concurrent use.
package scene

import (
	"image"

	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/shading"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Side selects which triangle faces a material draws.
type Side int

// Face culling modes.
const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// MaterialKind selects the GPU program used for a mesh.
type MaterialKind int

// Material kinds.
const (
	// MaterialLit is a textured surface lit by the light rig.
	MaterialLit MaterialKind = iota
	// MaterialGradient is the planet's surface-gradient shading.
	MaterialGradient
	// MaterialSky is an unlit textured backdrop.
	MaterialSky
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialLit:
		return "lit"
	case MaterialGradient:
		return "gradient"
	case MaterialSky:
		return "sky"
	default:
		return "unknown"
	}
}

// Texture is a CPU-side image the renderer uploads lazily. Replacing the
// image bumps the version so the GPU copy is refreshed on the next draw.
type Texture struct {
	Name    string
	image   *image.RGBA
	version int
}

// NewTexture wraps img. img may be nil for a texture that arrives later.
func NewTexture(name string, img *image.RGBA) *Texture {
	t := &Texture{Name: name}
	if img != nil {
		t.SetImage(img)
	}
	return t
}

// SetImage replaces the image.
func (t *Texture) SetImage(img *image.RGBA) {
	t.image = img
	t.version++
}

// Image returns the current image, or nil.
func (t *Texture) Image() *image.RGBA {
	return t.image
}

// Version increases every time the image changes.
func (t *Texture) Version() int {
	return t.version
}

// Material describes how a mesh is shaded.
type Material struct {
	Kind MaterialKind

	// Base color, multiplied with the texture when one is bound.
	Color   [4]float32
	Texture *Texture

	// Opacity multiplies the output alpha. Zero is treated as 1.
	Opacity     float32
	Transparent bool
	Side        Side

	// ToneMapped applies ACES filmic tone mapping to the output.
	ToneMapped bool

	// Gradient is required for MaterialGradient.
	Gradient *shading.Model
}

// Mesh pairs geometry with a material.
type Mesh struct {
	Geometry *model.Mesh
	Material *Material
}

// Node is an element of the scene graph.
type Node struct {
	Name      string
	Position  math.Vec3
	RotationY float32
	Scale     math.Vec3
	Visible   bool

	Meshes []*Mesh

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with unit scale.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   math.Vec3{X: 1, Y: 1, Z: 1},
		Visible: true,
	}
}

// Add attaches child to n, detaching it from any previous parent.
// Adding n to itself or to one of its descendants is ignored.
func (n *Node) Add(child *Node) {
	if child == nil || child == n || child.isAncestorOf(n) {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the attached children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// LocalMatrix returns translate * rotateY * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.RotationY, n.Scale)
}

// WorldMatrix composes the local matrices from the root down.
func (n *Node) WorldMatrix() math.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul(n.LocalMatrix())
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() math.Vec3 {
	return n.WorldMatrix().TransformVec3(math.Vec3{})
}

// Traverse calls fn for n and every visible descendant, depth first, with the
// node's world matrix. Hidden nodes are skipped together with their subtree.
func (n *Node) Traverse(fn func(node *Node, world math.Mat4)) {
	n.traverse(math.Identity(), fn)
}

func (n *Node) traverse(parent math.Mat4, fn func(*Node, math.Mat4)) {
	if !n.Visible {
		return
	}
	world := parent.Mul(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.children {
		c.traverse(world, fn)
	}
}

// Find returns the first node named name in n's subtree.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FromModel builds a node holding one lit mesh per model part.
func FromModel(name string, m *model.Model) *Node {
	node := NewNode(name)
	if m == nil {
		return node
	}
	for _, part := range m.Parts {
		mat := &Material{
			Kind:       MaterialLit,
			Color:      part.BaseColor,
			Opacity:    1,
			ToneMapped: true,
		}
		if part.BaseColor[3] < 1 {
			mat.Transparent = true
		}
		if part.Texture != nil {
			mat.Texture = NewTexture(part.Name, part.Texture)
		}
		node.Meshes = append(node.Meshes, &Mesh{Geometry: part.Mesh, Material: mat})
	}
	return node
}

// Scene is the root of a drawable world.
type Scene struct {
	Root       *Node
	ClearColor [3]float32
}

// New creates an empty scene with the given clear color.
func New(clear [3]float32) *Scene {
	return &Scene{Root: NewNode("root"), ClearColor: clear}
}

// Add attaches a node to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}
