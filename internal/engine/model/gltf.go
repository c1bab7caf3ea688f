package model

import (
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/orbit-vignette/internal/engine/texture"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

const lightsExtension = "KHR_lights_punctual"

// LoadGLTF opens a .gltf/.glb file and flattens its default scene: every
// mesh primitive is baked into model space using its node's world transform.
// Base-color textures referenced by URI or data URI are decoded as well;
// a texture that fails to decode is dropped and the part falls back to its
// base color.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return FromDocument(doc, filepath.Dir(path), filepath.Base(path))
}

// FromDocument flattens an already parsed document. baseDir resolves
// relative image URIs.
func FromDocument(doc *gltf.Document, baseDir, name string) (*Model, error) {
	m := &Model{Name: name, Bounds: EmptyBounds()}
	b := &builder{
		doc:      doc,
		baseDir:  baseDir,
		model:    m,
		textures: make(map[int]*image.RGBA),
		lights:   parsePunctualLights(doc.Extensions[lightsExtension]),
	}

	for _, root := range sceneRoots(doc) {
		if err := b.visit(root, math.Identity(), 0); err != nil {
			return nil, err
		}
	}

	if len(m.Parts) == 0 && len(m.Lights) == 0 {
		return nil, fmt.Errorf("%s: no triangle meshes or lights", name)
	}
	return m, nil
}

// maxNodeDepth guards against cyclic node graphs in malformed files.
const maxNodeDepth = 64

type builder struct {
	doc      *gltf.Document
	baseDir  string
	model    *Model
	textures map[int]*image.RGBA
	lights   []punctualLight
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		roots := make([]int, len(doc.Nodes))
		for i := range roots {
			roots[i] = i
		}
		return roots
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	return doc.Scenes[idx].Nodes
}

func (b *builder) visit(nodeIdx int, parent math.Mat4, depth int) error {
	if depth > maxNodeDepth || nodeIdx < 0 || nodeIdx >= len(b.doc.Nodes) {
		return nil
	}
	node := b.doc.Nodes[nodeIdx]
	world := parent.Mul(localMatrix(node))

	if node.Mesh != nil && *node.Mesh < len(b.doc.Meshes) {
		if err := b.addMesh(b.doc.Meshes[*node.Mesh], world); err != nil {
			return err
		}
	}
	if l, ok := b.nodeLight(node, world); ok {
		b.model.Lights = append(b.model.Lights, l)
	}

	for _, child := range node.Children {
		if err := b.visit(child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localMatrix returns the node's matrix, or T*R*S when no matrix is given.
func localMatrix(node *gltf.Node) math.Mat4 {
	mtx := math.Mat4FromFloat64(node.Matrix)
	if !mtx.IsZero() && mtx != math.Identity() {
		return mtx
	}

	t := node.Translation
	r := node.Rotation
	s := node.Scale
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	q := math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
	if r == [4]float64{} {
		q = math.QuatIdentity()
	}

	return math.Translate(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul(q.ToMat4()).
		Mul(math.Scale(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (b *builder) addMesh(mesh *gltf.Mesh, world math.Mat4) error {
	for i, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		if posIdx < 0 || posIdx >= len(b.doc.Accessors) {
			return fmt.Errorf("mesh %q primitive %d: position accessor %d out of range", mesh.Name, i, posIdx)
		}
		positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d positions: %w", mesh.Name, i, err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok && idx < len(b.doc.Accessors) {
			normals, err = modeler.ReadNormal(b.doc, b.doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d normals: %w", mesh.Name, i, err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && idx < len(b.doc.Accessors) {
			uvs, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d uvs: %w", mesh.Name, i, err)
			}
		}

		var indices []uint32
		if prim.Indices != nil && *prim.Indices < len(b.doc.Accessors) {
			indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d indices: %w", mesh.Name, i, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for j := range indices {
				indices[j] = uint32(j)
			}
		}

		out := bakeMesh(positions, normals, uvs, indices, world)
		if out == nil {
			continue
		}

		part := Part{
			Name:      fmt.Sprintf("%s/%d", mesh.Name, i),
			Mesh:      out,
			BaseColor: [4]float32{1, 1, 1, 1},
		}
		if prim.Material != nil && *prim.Material < len(b.doc.Materials) {
			b.applyMaterial(&part, b.doc.Materials[*prim.Material])
		}

		b.model.Parts = append(b.model.Parts, part)
		b.model.Bounds.Merge(out.Bounds)
	}
	return nil
}

// bakeMesh transforms vertices into model space. Missing normals are
// generated per face; out-of-range indices drop the triangle.
func bakeMesh(positions, normals [][3]float32, uvs [][2]float32, indices []uint32, world math.Mat4) *Mesh {
	if len(positions) == 0 || len(indices) < 3 {
		return nil
	}

	m := &Mesh{
		Vertices: make([]Vertex, len(positions)),
		Bounds:   EmptyBounds(),
	}
	for i, p := range positions {
		v := Vertex{Position: world.TransformPoint(p)}
		if i < len(normals) {
			v.Normal = math.Vec3FromArray(world.TransformDirection(normals[i])).Normalize().Array()
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		m.Vertices[i] = v
		m.Bounds.Extend(v.Position)
	}

	n := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		m.Indices = append(m.Indices, a, b, c)
	}
	if len(m.Indices) == 0 {
		return nil
	}

	if len(normals) < len(positions) {
		generateNormals(m)
	}
	return m
}

// generateNormals accumulates area-weighted face normals per vertex.
func generateNormals(m *Mesh) {
	acc := make([]math.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := math.Vec3FromArray(m.Vertices[a].Position)
		p1 := math.Vec3FromArray(m.Vertices[b].Position)
		p2 := math.Vec3FromArray(m.Vertices[c].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range m.Vertices {
		n := acc[i].Normalize()
		if n.Length() == 0 {
			n = math.Vec3{Y: 1}
		}
		m.Vertices[i].Normal = n.Array()
	}
}

func (b *builder) applyMaterial(part *Part, mat *gltf.Material) {
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		part.BaseColor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
	}
	if pbr.BaseColorTexture != nil {
		part.Texture = b.texture(pbr.BaseColorTexture.Index)
	}
}

func (b *builder) texture(texIdx int) *image.RGBA {
	if img, ok := b.textures[texIdx]; ok {
		return img
	}
	var img *image.RGBA
	defer func() { b.textures[texIdx] = img }()

	if texIdx < 0 || texIdx >= len(b.doc.Textures) {
		return nil
	}
	src := b.doc.Textures[texIdx].Source
	if src == nil || *src >= len(b.doc.Images) {
		return nil
	}
	gimg := b.doc.Images[*src]

	switch {
	case strings.HasPrefix(gimg.URI, "data:"):
		data, err := gimg.MarshalData()
		if err != nil {
			return nil
		}
		img, _ = texture.Decode(data, gimg.Name)
	case gimg.URI != "":
		img, _ = texture.DecodeFile(filepath.Join(b.baseDir, filepath.FromSlash(gimg.URI)))
	}
	return img
}

// punctualLight is the JSON shape of one KHR_lights_punctual entry.
type punctualLight struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Color     *[3]float32 `json:"color"`
	Intensity *float32    `json:"intensity"`
	Range     *float32    `json:"range"`
}

// parsePunctualLights decodes the document-level light list. The extension
// value may be raw JSON or an already decoded value; both round-trip through
// encoding/json.
func parsePunctualLights(ext any) []punctualLight {
	if ext == nil {
		return nil
	}
	raw, err := json.Marshal(ext)
	if err != nil {
		return nil
	}
	var doc struct {
		Lights []punctualLight `json:"lights"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc.Lights
}

func (b *builder) nodeLight(node *gltf.Node, world math.Mat4) (Light, bool) {
	ext, ok := node.Extensions[lightsExtension]
	if !ok || len(b.lights) == 0 {
		return Light{}, false
	}
	raw, err := json.Marshal(ext)
	if err != nil {
		return Light{}, false
	}
	var ref struct {
		Light *int `json:"light"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Light == nil || *ref.Light < 0 || *ref.Light >= len(b.lights) {
		return Light{}, false
	}

	src := b.lights[*ref.Light]
	l := Light{
		Name:      src.Name,
		Type:      LightType(src.Type),
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
		Position:  world.TransformVec3(math.Vec3{}),
		// Punctual lights shine down their local -Z axis.
		Direction: math.Vec3FromArray(world.TransformDirection([3]float32{0, 0, -1})).Normalize(),
	}
	if src.Color != nil {
		l.Color = *src.Color
	}
	if src.Intensity != nil {
		l.Intensity = *src.Intensity
	}
	if src.Range != nil {
		l.Range = *src.Range
	}
	return l, true
}
