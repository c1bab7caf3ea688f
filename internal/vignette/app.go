package vignette

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/assets"
	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/engine/audio"
	"github.com/Faultbox/orbit-vignette/internal/engine/camera"
	"github.com/Faultbox/orbit-vignette/internal/engine/clock"
	"github.com/Faultbox/orbit-vignette/internal/engine/debug"
	"github.com/Faultbox/orbit-vignette/internal/engine/input"
	"github.com/Faultbox/orbit-vignette/internal/engine/renderer"
	"github.com/Faultbox/orbit-vignette/internal/engine/window"
	"github.com/Faultbox/orbit-vignette/internal/logger"
	"github.com/Faultbox/orbit-vignette/internal/scheduler"
)

// Title is the window title.
const Title = "Orbit Vignette"

// App is the windowed vignette: SDL window, GL renderer, audio and the stage.
type App struct {
	config *config.Config
	log    *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	music    *audio.Manager
	loader   *assets.Loader
	clock    *clock.Wall
	stage    *Stage
	shots    *debug.ScreenshotCapture

	running  bool
	dragging bool
}

// New creates the window, GL context, renderer and stage, and queues every
// asset load.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("vignette")
	log.Info("initializing vignette",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{
		config: cfg,
		log:    log,
		input:  input.New(),
		camera: camera.NewOrbitCamera(cfg.Camera),
		clock:  clock.NewWall(),
		shots:  debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "vignette"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, since the OpenGL context must exist.
	width, height := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		MSAA:   a.window.MSAA(),
	}, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.camera.SetViewport(width, height)

	if !cfg.Audio.Muted {
		a.music = audio.New()
		if err := a.music.Init(); err != nil {
			// The vignette runs silent rather than not at all.
			log.Warn("audio unavailable", zap.Error(err))
			a.music = nil
		}
	}

	a.stage, err = NewStage(cfg, a.clock, scheduler.RedrawFunc(a.redraw), a.music, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.bindControls()
	a.stage.ArmAudioUnlock(&a.input.Registry)

	a.loader = assets.NewLoader(assets.Options{
		Root:           cfg.Assets.Root,
		Workers:        cfg.Assets.Workers,
		MaxTextureSize: cfg.Assets.MaxTextureSize,
		Logger:         logger.Named("assets"),
	})
	a.stage.Start(a.loader)

	log.Info("vignette initialized")
	return a, nil
}

// bindControls registers the camera and keyboard listeners.
func (a *App) bindControls() {
	reg := &a.input.Registry

	reg.On(input.EventMouseDown, func(e input.Event) {
		if e.Button == sdl.BUTTON_LEFT {
			a.dragging = true
		}
	})
	reg.On(input.EventMouseUp, func(e input.Event) {
		if e.Button == sdl.BUTTON_LEFT {
			a.dragging = false
		}
	})
	reg.On(input.EventMouseMove, func(e input.Event) {
		if a.dragging {
			a.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		}
	})
	reg.On(input.EventMouseWheel, func(e input.Event) {
		a.camera.HandleZoom(e.WheelY)
	})
	reg.On(input.EventWindowResize, func(input.Event) {
		w, h := a.window.GetDrawableSize()
		a.renderer.Resize(w, h)
		a.camera.SetViewport(w, h)
	})
	reg.On(input.EventKeyDown, func(e input.Event) {
		switch e.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_F12:
			a.screenshot()
		}
	})
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true
	a.clock.Restart()

	var minFrame time.Duration
	if a.config.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.config.Graphics.FPSLimit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		frameStart := time.Now()

		// 1. Input; listeners run inside Update.
		if a.input.Update() {
			a.running = false
			break
		}

		// 2. Asset completions, with no tick in flight.
		a.stage.Drain(a.loader)

		// 3. Animate and draw. Frame errors are logged by the scheduler.
		_ = a.stage.Tick()

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.config.Graphics.ShowFPS {
				stats := a.renderer.Stats()
				a.window.SetTitle(fmt.Sprintf("%s - %d FPS, %d draws, %d tris",
					Title, frameCount, stats.DrawCalls, stats.Triangles))
			}
			a.log.Debug("fps", zap.Int("count", frameCount),
				zap.Int("pending_assets", a.loader.Pending()))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if elapsed := time.Since(frameStart); elapsed < minFrame {
				time.Sleep(minFrame - elapsed)
			}
		}
	}

	stats := a.stage.Scheduler().Stats()
	a.log.Info("main loop stopped",
		zap.Uint64("ticks", stats.Ticks),
		zap.Uint64("failed_redraws", stats.FailedRedraws),
	)
	return nil
}

// redraw is the scheduler's redraw step: camera controls, then the frame.
func (a *App) redraw(sample clock.Sample) error {
	a.camera.Update(sample.Delta)
	w := a.stage.World()
	return a.renderer.Render(w.Scene, a.camera, w.Lights)
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up resources.
func (a *App) Close() {
	a.log.Info("closing vignette")

	if a.loader != nil {
		a.loader.Close()
	}
	if a.music != nil {
		a.music.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
