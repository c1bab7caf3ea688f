// Package renderer draws the scene graph with OpenGL 4.1.
package renderer

import (
	"fmt"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/engine/camera"
	"github.com/Faultbox/orbit-vignette/internal/engine/lighting"
	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/engine/renderer/shaders"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
	"github.com/Faultbox/orbit-vignette/internal/engine/shader"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	MSAA   int
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	DrawCalls int
	Triangles int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	lit      *shader.Program
	gradient *shader.Program
	sky      *shader.Program

	meshes   map[*model.Mesh]*gpuMesh
	textures map[*scene.Texture]*gpuTexture
	white    uint32

	stats FrameStats
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config:   cfg,
		log:      log,
		meshes:   make(map[*model.Mesh]*gpuMesh),
		textures: make(map[*scene.Texture]*gpuTexture),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	if cfg.MSAA > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	defines := map[string]string{
		"MAX_DIR_LIGHTS":   strconv.Itoa(lighting.MaxDirectionalLights),
		"MAX_POINT_LIGHTS": strconv.Itoa(lighting.MaxPointLights),
	}

	var err error
	r.lit, err = shader.NewProgram("lit",
		shaders.LitVertexShader,
		shader.WithDefines(shaders.LitFragmentShader, defines))
	if err != nil {
		return nil, err
	}
	r.gradient, err = shader.NewProgram("gradient", shaders.GradientVertexShader, shaders.GradientFragmentShader)
	if err != nil {
		r.lit.Delete()
		return nil, err
	}
	r.sky, err = shader.NewProgram("sky", shaders.SkyVertexShader, shaders.SkyFragmentShader)
	if err != nil {
		r.lit.Delete()
		r.gradient.Delete()
		return nil, err
	}

	r.white = createWhiteTexture()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.releaseResources()
	for _, p := range []*shader.Program{r.lit, r.gradient, r.sky} {
		if p != nil {
			p.Delete()
		}
	}
}

// Resize handles window resize. Sizes are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Stats returns statistics for the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Render clears the frame and draws s as seen by cam under rig.
// Returns an error if GL reported one during the frame.
func (r *Renderer) Render(s *scene.Scene, cam *camera.OrbitCamera, rig *lighting.Rig) error {
	r.stats = FrameStats{}

	gl.ClearColor(s.ClearColor[0], s.ClearColor[1], s.ClearColor[2], 1.0)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	eye := cam.Position()
	viewProj := cam.ViewProjection()
	list := buildDrawList(s.Root, eye)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	// The sky sits behind everything and never occludes.
	gl.DepthMask(false)
	for _, item := range list.Sky {
		r.drawSky(item, viewProj)
	}
	gl.DepthMask(true)

	r.lit.Use()
	r.applyLights(rig)
	for _, item := range list.Opaque {
		r.draw(item, viewProj, rig)
	}
	for _, item := range list.Transparent {
		r.draw(item, viewProj, rig)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// draw dispatches an opaque or transparent item to its program.
func (r *Renderer) draw(item drawItem, viewProj math.Mat4, rig *lighting.Rig) {
	mat := item.Mesh.Material
	switch mat.Kind {
	case scene.MaterialGradient:
		r.drawGradient(item, viewProj)
		// drawGradient switched programs; restore the lit program.
		r.lit.Use()
		r.applyLights(rig)
	case scene.MaterialSky:
		r.drawSky(item, viewProj)
		r.lit.Use()
		r.applyLights(rig)
	default:
		r.drawLit(item, viewProj, rig)
	}
}

func (r *Renderer) drawLit(item drawItem, viewProj math.Mat4, rig *lighting.Rig) {
	mat := item.Mesh.Material
	p := r.lit

	p.SetMat4("uModel", item.World)
	p.SetMat4("uViewProj", viewProj)
	p.SetVec4("uColor", mat.Color)
	p.SetFloat("uOpacity", opacity(mat))
	toneMapped := int32(0)
	if mat.ToneMapped {
		toneMapped = 1
	}
	p.SetInt("uToneMapped", toneMapped)
	exposure := float32(1)
	if rig != nil {
		exposure = rig.Exposure
	}
	p.SetFloat("uExposure", exposure)

	r.bindTexture(p, "uTexture", mat.Texture)
	r.submit(item, mat.Side)
}

func (r *Renderer) drawGradient(item drawItem, viewProj math.Mat4) {
	mat := item.Mesh.Material
	if mat.Gradient == nil {
		return
	}
	p := r.gradient
	p.Use()

	u := mat.Gradient.Uniforms()
	p.SetMat4("uModel", item.World)
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("gradAxis", u.GradAxis)
	p.SetFloat("darkStart", u.DarkStart)
	p.SetFloat("darkEnd", u.DarkEnd)
	p.SetFloat("minAlpha", u.MinAlpha)

	r.bindTexture(p, "map", mat.Texture)
	r.submit(item, mat.Side)
}

func (r *Renderer) drawSky(item drawItem, viewProj math.Mat4) {
	mat := item.Mesh.Material
	p := r.sky
	p.Use()

	p.SetMat4("uModel", item.World)
	p.SetMat4("uViewProj", viewProj)
	p.SetVec4("uColor", mat.Color)
	p.SetFloat("uOpacity", opacity(mat))

	r.bindTexture(p, "uTexture", mat.Texture)
	r.submit(item, mat.Side)
}

func (r *Renderer) applyLights(rig *lighting.Rig) {
	p := r.lit
	if rig == nil {
		p.SetFloat("uHemiIntensity", 1)
		p.SetVec3("uHemiSky", [3]float32{1, 1, 1})
		p.SetVec3("uHemiGround", [3]float32{1, 1, 1})
		p.SetInt("uDirCount", 0)
		p.SetInt("uPointCount", 0)
		return
	}

	p.SetVec3("uHemiSky", rig.Hemisphere.Sky)
	p.SetVec3("uHemiGround", rig.Hemisphere.Ground)
	p.SetFloat("uHemiIntensity", rig.Hemisphere.Intensity)

	dirs := make([]float32, 0, len(rig.Directional)*3)
	colors := make([]float32, 0, len(rig.Directional)*3)
	for _, d := range rig.Directional {
		dirs = append(dirs, d.Direction[:]...)
		colors = append(colors,
			d.Color[0]*d.Intensity,
			d.Color[1]*d.Intensity,
			d.Color[2]*d.Intensity,
		)
	}
	p.SetInt("uDirCount", int32(len(rig.Directional)))
	p.SetVec3Array("uDirDirection", dirs)
	p.SetVec3Array("uDirColor", colors)

	pts := rig.Points
	p.SetInt("uPointCount", int32(pts.Count))
	p.SetVec3Array("uPointPosition", pts.Positions())
	p.SetVec3Array("uPointColor", pts.Colors())
	p.SetFloatArray("uPointRange", pts.Ranges())
	p.SetFloatArray("uPointDecay", pts.Decays())
}

func (r *Renderer) bindTexture(p *shader.Program, uniform string, t *scene.Texture) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture(t))
	p.SetInt(uniform, 0)
}

// submit sets face culling for side and issues the indexed draw.
func (r *Renderer) submit(item drawItem, side scene.Side) {
	switch side {
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case scene.DoubleSide:
		gl.Disable(gl.CULL_FACE)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	g := r.mesh(item.Mesh.Geometry)
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)

	r.stats.DrawCalls++
	r.stats.Triangles += int(g.indexCount) / 3
}

// ReadPixels returns the back buffer as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func opacity(m *scene.Material) float32 {
	if m.Opacity <= 0 {
		return 1
	}
	return m.Opacity
}
