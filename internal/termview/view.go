// Package termview renders the vignette into a terminal: the gradient-shaded
// planet and the orbiting character as a marker, driven by the same
// scheduler and shading model as the windowed renderer.
package termview

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/animation"
	"github.com/Faultbox/orbit-vignette/internal/assets"
	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/engine/camera"
	"github.com/Faultbox/orbit-vignette/internal/engine/clock"
	"github.com/Faultbox/orbit-vignette/internal/engine/model"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
	"github.com/Faultbox/orbit-vignette/internal/scheduler"
	"github.com/Faultbox/orbit-vignette/internal/shading"
	"github.com/Faultbox/orbit-vignette/pkg/math"
)

// Asset names the terminal view loads.
const (
	AssetCharacter = "character"
	AssetPlanet    = "planet"
)

// CharacterRune marks the character on screen.
const CharacterRune = '@'

// margin is the world-space padding around the character's orbit.
const margin = 15

// Requests lists the loads the terminal view needs.
func Requests(cfg *config.Config) []assets.Request {
	return []assets.Request{
		{Kind: assets.KindCharacter, Name: AssetCharacter, Path: cfg.Assets.Character},
		{Kind: assets.KindTexture, Name: AssetPlanet, Path: cfg.Assets.PlanetTexture},
	}
}

// View draws the vignette on a tcell screen.
type View struct {
	screen tcell.Screen
	cfg    *config.Config
	log    *zap.Logger

	shading *shading.Model
	camera  *camera.OrbitCamera
	sched   *scheduler.Scheduler

	orbit     *scene.Node
	character *scene.Node
	planetTex *image.RGBA

	background [3]float32
	markerFg   tcell.Color
	extent     float32
	baseDist   float32
}

// New creates a view drawing to screen. The screen must already be
// initialized. log may be nil.
func New(screen tcell.Screen, cfg *config.Config, src clock.Source, log *zap.Logger) (*View, error) {
	if log == nil {
		log = zap.NewNop()
	}
	axis := shading.Axis(math.Radians(cfg.Shading.AxisAngle), cfg.Shading.AxisTilt)
	gradient, err := shading.New(axis, cfg.Shading.Params)
	if err != nil {
		return nil, fmt.Errorf("planet shading: %w", err)
	}

	v := &View{
		screen:     screen,
		cfg:        cfg,
		log:        log,
		shading:    gradient,
		camera:     camera.NewOrbitCamera(cfg.Camera),
		orbit:      scene.NewNode("orbit"),
		background: math.RGBFromHex(cfg.Graphics.ClearColor),
		markerFg:   tcell.NewHexColor(0xfc9003),
		extent:     cfg.Scene.OrbitRadius() + margin,
	}
	v.baseDist = v.camera.Distance
	v.sched = scheduler.New(src, animation.New(cfg.Animation), v.orbit, v, log.Named("scheduler"))
	return v, nil
}

// Scheduler returns the frame scheduler.
func (v *View) Scheduler() *scheduler.Scheduler {
	return v.sched
}

// Apply handles one load completion.
func (v *View) Apply(res assets.Result) {
	if res.Err != nil {
		v.log.Warn("asset unavailable, continuing without it",
			zap.String("asset", res.Request.Name), zap.Error(res.Err))
		return
	}
	switch res.Request.Name {
	case AssetCharacter:
		node := scene.FromModel("character", res.Model)
		s := v.cfg.Scene.CharacterScale
		node.Scale = math.Vec3{X: s, Y: s, Z: s}
		node.Position.X = -v.cfg.Scene.OrbitRadius()
		if v.sched.AttachCharacter(node) {
			v.orbit.Add(node)
			v.character = node
		}
	case AssetPlanet:
		v.planetTex = res.Image
	}
}

// Redraw implements scheduler.Redrawer.
func (v *View) Redraw(sample clock.Sample) error {
	v.camera.Update(sample.Delta)
	v.draw(sample)
	return nil
}

func (v *View) draw(sample clock.Sample) {
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}

	extent := v.extent
	if v.baseDist > 0 {
		extent *= v.camera.Distance / v.baseDist
	}
	p := newProjector(v.camera.Position(), v.camera.Target, cols, rows-1, extent)
	radius := v.cfg.Scene.PlanetRadius
	bg := rgbColor(v.background)

	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols; col++ {
			u, w := p.plane(col, row)
			if n, hit := p.sphereNormal(u, w, radius); hit {
				c := v.shading.Shade(shading.Sample{Normal: n, BaseColor: v.baseColor(n)})
				rgb := [3]float32{
					math.Mix(v.background[0], c.R, c.A),
					math.Mix(v.background[1], c.G, c.A),
					math.Mix(v.background[2], c.B, c.A),
				}
				v.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(rgbColor(rgb)))
				continue
			}
			style := tcell.StyleDefault.Background(bg)
			ch := ' '
			if star(col, row) {
				level := int32(220 * v.cfg.Scene.SkyOpacity)
				style = style.Foreground(tcell.NewRGBColor(level, level, level))
				ch = '.'
			}
			v.screen.SetContent(col, row, ch, nil, style)
		}
	}

	if v.character != nil {
		pos := v.character.WorldPosition()
		u, w, depth := p.planeCoords(pos)
		if !occluded(u, w, depth, radius) {
			col, row, _ := p.project(pos)
			if col >= 0 && col < cols && row >= 0 && row < rows-1 {
				_, _, style, _ := v.screen.GetContent(col, row)
				v.screen.SetContent(col, row, CharacterRune, nil, style.Foreground(v.markerFg).Bold(true))
			}
		}
	}

	v.drawStatus(sample, cols, rows)
	v.screen.Show()
}

func (v *View) drawStatus(sample clock.Sample, cols, rows int) {
	status := fmt.Sprintf(" %s  t=%.1fs  orbit=%.2f rad", v.sched.State(), sample.Elapsed, v.sched.Orbit().GroupRotationY)
	if cs, ok := v.sched.Character(); ok {
		status += fmt.Sprintf("  height=%+.1f", cs.CurrentHeight)
	}
	status += "  [arrows] rotate  [+/-] zoom  [q] quit"

	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	row := rows - 1
	i := 0
	for _, r := range status {
		if i >= cols {
			break
		}
		v.screen.SetContent(i, row, r, nil, style)
		i++
	}
	for ; i < cols; i++ {
		v.screen.SetContent(i, row, ' ', nil, style)
	}
}

// baseColor samples the planet texture at the surface point with normal n.
func (v *View) baseColor(n math.Vec3) shading.Color {
	if v.planetTex == nil {
		return shading.White
	}
	b := v.planetTex.Bounds()
	if b.Empty() {
		return shading.White
	}
	uv := model.SphereUV(n.Array())
	x := min(int(uv[0]*float32(b.Dx())), b.Dx()-1)
	y := min(int((1-uv[1])*float32(b.Dy())), b.Dy()-1)
	c := v.planetTex.RGBAAt(b.Min.X+max(x, 0), b.Min.Y+max(y, 0))
	return shading.Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// HandleEvent applies one terminal event. It returns false when the view
// should quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.camera.HandleDrag(-40, 0)
		case tcell.KeyRight:
			v.camera.HandleDrag(40, 0)
		case tcell.KeyUp:
			v.camera.HandleDrag(0, -40)
		case tcell.KeyDown:
			v.camera.HandleDrag(0, 40)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				v.camera.HandleZoom(1)
			case '-':
				v.camera.HandleZoom(-1)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Run drives the view from a ticker at fps until ctx is done or the user
// quits. Completions from src are applied between ticks.
func (v *View) Run(ctx context.Context, src interface{ Poll() []assets.Result }, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if src != nil {
				for _, res := range src.Poll() {
					v.Apply(res)
				}
			}
			_ = v.sched.Tick()
		}
	}
}

func rgbColor(c [3]float32) tcell.Color {
	return tcell.NewRGBColor(
		int32(math.Clamp(c[0], 0, 1)*255+0.5),
		int32(math.Clamp(c[1], 0, 1)*255+0.5),
		int32(math.Clamp(c[2], 0, 1)*255+0.5),
	)
}

// star reports whether a background cell shows a star.
func star(col, row int) bool {
	h := uint32(col)*73856093 ^ uint32(row)*19349663
	h ^= h >> 13
	return h%53 == 0
}
