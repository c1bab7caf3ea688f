package renderer

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
)

// gpuMesh is the uploaded form of a model.Mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// gpuTexture is the uploaded form of a scene.Texture at a given version.
type gpuTexture struct {
	id      uint32
	version int
}

const vertexStride = int32(unsafe.Sizeof(model.Vertex{}))

// mesh returns the GPU copy of m, uploading it on first use.
func (r *Renderer) mesh(m *model.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}

	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexStride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	r.meshes[m] = g
	return g
}

// texture returns the GL texture for t, re-uploading when its image changed.
// A nil texture or one without an image yet resolves to the white texture.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || t.Image() == nil {
		return r.white
	}

	g, ok := r.textures[t]
	if ok && g.version == t.Version() {
		return g.id
	}
	if !ok {
		g = &gpuTexture{}
		gl.GenTextures(1, &g.id)
		r.textures[t] = g
	}

	uploadTexture(g.id, t.Image())
	g.version = t.Version()
	r.log.Debug("texture uploaded",
		zap.String("name", t.Name),
		zap.Int("version", g.version),
	)
	return g.id
}

// uploadTexture fills id with img and builds mipmaps for trilinear filtering.
func uploadTexture(id uint32, img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func createWhiteTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	white := []uint8{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&white[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return id
}

// releaseResources deletes every uploaded mesh and texture.
func (r *Renderer) releaseResources() {
	for m, g := range r.meshes {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		delete(r.meshes, m)
	}
	for t, g := range r.textures {
		gl.DeleteTextures(1, &g.id)
		delete(r.textures, t)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
		r.white = 0
	}
}
