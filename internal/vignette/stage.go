package vignette

import (
	"go.uber.org/zap"

	"github.com/Faultbox/orbit-vignette/internal/animation"
	"github.com/Faultbox/orbit-vignette/internal/assets"
	"github.com/Faultbox/orbit-vignette/internal/config"
	"github.com/Faultbox/orbit-vignette/internal/engine/audio"
	"github.com/Faultbox/orbit-vignette/internal/engine/clock"
	"github.com/Faultbox/orbit-vignette/internal/engine/input"
	"github.com/Faultbox/orbit-vignette/internal/engine/lighting"
	"github.com/Faultbox/orbit-vignette/internal/engine/scene"
	"github.com/Faultbox/orbit-vignette/internal/engine/texture"
	"github.com/Faultbox/orbit-vignette/internal/scheduler"
)

// Logical asset names, used to route load results.
const (
	AssetDescriptor = "descriptor"
	AssetCharacter  = "character"
	AssetPlanet     = "planet"
	AssetSky        = "sky"
	AssetMusic      = "music"
)

// Requests lists the loads the vignette issues at startup. The music request
// is omitted when audio is muted.
func Requests(cfg *config.Config) []assets.Request {
	reqs := []assets.Request{
		{Kind: assets.KindDescriptor, Name: AssetDescriptor, Path: cfg.Assets.Descriptor},
		{Kind: assets.KindCharacter, Name: AssetCharacter, Path: cfg.Assets.Character},
		{Kind: assets.KindTexture, Name: AssetPlanet, Path: cfg.Assets.PlanetTexture},
		{Kind: assets.KindTexture, Name: AssetSky, Path: cfg.Assets.SkyTexture},
	}
	if !cfg.Audio.Muted {
		reqs = append(reqs, assets.Request{Kind: assets.KindAudio, Name: AssetMusic, Path: cfg.Assets.Music})
	}
	return reqs
}

// ResultSource yields completed loads without blocking.
type ResultSource interface {
	Poll() []assets.Result
}

// Stage owns the world, the frame scheduler and the background music, and
// applies asset completions to them. All methods run on the frame goroutine.
type Stage struct {
	cfg   *config.Config
	log   *zap.Logger
	world *World
	sched *scheduler.Scheduler

	music    *audio.Manager
	unlocker *audio.Unlocker

	failed []assets.Result
}

// NewStage builds the world and its scheduler. music may be nil when audio
// is unavailable.
func NewStage(cfg *config.Config, src clock.Source, redrawer scheduler.Redrawer, music *audio.Manager, log *zap.Logger) (*Stage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	world, err := BuildWorld(cfg)
	if err != nil {
		return nil, err
	}

	s := &Stage{
		cfg:   cfg,
		log:   log,
		world: world,
		music: music,
	}
	s.sched = scheduler.New(src, animation.New(cfg.Animation), world.Orbit, redrawer, log.Named("scheduler"))

	if music != nil {
		music.SetLoop(cfg.Audio.Loop)
		music.SetMasterVolume(cfg.Audio.MasterVolume)
		music.SetVolume(cfg.Audio.MusicVolume)
	}
	return s, nil
}

// World returns the scene and its handles.
func (s *Stage) World() *World {
	return s.world
}

// Scheduler returns the frame scheduler.
func (s *Stage) Scheduler() *scheduler.Scheduler {
	return s.sched
}

// Failed returns the loads that failed so far.
func (s *Stage) Failed() []assets.Result {
	return s.failed
}

// Start issues every startup load.
func (s *Stage) Start(l *assets.Loader) {
	for _, req := range Requests(s.cfg) {
		l.Load(req)
	}
}

// ArmAudioUnlock registers a pointer-down listener that starts the music on
// the first gesture after the track is ready, then removes itself. It is a
// no-op without a music manager or when muted.
func (s *Stage) ArmAudioUnlock(reg *input.Registry) {
	if s.music == nil || s.cfg.Audio.Muted || s.unlocker != nil {
		return
	}
	s.unlocker = audio.NewUnlocker(s.music, nil, s.log.Named("audio"))
	id := reg.OnPointerDown(func(input.Event) {
		s.unlocker.OnGesture()
	})
	s.unlocker.SetUnregister(func() { reg.Off(id) })
}

// AudioUnlocked reports whether the unlock listener has fired.
func (s *Stage) AudioUnlocked() bool {
	return s.unlocker != nil && s.unlocker.Fired()
}

// Drain applies every completion available from src.
func (s *Stage) Drain(src ResultSource) int {
	results := src.Poll()
	for _, res := range results {
		s.Apply(res)
	}
	return len(results)
}

// Apply routes one completion to the part of the world it feeds. A failed
// load leaves that feature absent.
func (s *Stage) Apply(res assets.Result) {
	if res.Err != nil {
		s.failed = append(s.failed, res)
		s.log.Warn("asset unavailable, continuing without it",
			zap.String("asset", res.Request.Name),
			zap.Error(res.Err))
		return
	}

	switch res.Request.Name {
	case AssetDescriptor:
		s.applyDescriptor(res)
	case AssetCharacter:
		s.applyCharacter(res)
	case AssetPlanet:
		if res.Image != nil {
			// Sphere UVs put v=1 at the top of the image.
			s.world.PlanetTexture.SetImage(texture.FlipVertical(res.Image))
		}
	case AssetSky:
		if res.Image != nil {
			s.world.SkyTexture.SetImage(texture.FlipVertical(res.Image))
			s.world.Sky.Visible = true
		}
	case AssetMusic:
		if s.music != nil && res.Audio != nil {
			s.music.SetBuffer(res.Audio)
		}
	default:
		s.log.Warn("unexpected asset result", zap.String("asset", res.Request.Name))
	}
}

func (s *Stage) applyDescriptor(res assets.Result) {
	if res.Model == nil {
		return
	}
	node := scene.FromModel(NodeDescriptor, res.Model)
	s.world.Scene.Add(node)

	points, dirs := lighting.ExtractFromModel(res.Model)
	rig := s.world.Lights
	for _, p := range points {
		if !rig.Points.AddLight(p) {
			s.log.Warn("point light limit reached, dropping light",
				zap.Int("max", lighting.MaxPointLights))
			break
		}
	}
	for _, d := range dirs {
		if !rig.AddDirectional(d) {
			s.log.Warn("directional light limit reached, dropping light",
				zap.Int("max", lighting.MaxDirectionalLights))
			break
		}
	}

	s.log.Info("scene descriptor added",
		zap.Int("meshes", len(node.Meshes)),
		zap.Int("point_lights", len(points)),
		zap.Int("directional_lights", len(dirs)))
}

func (s *Stage) applyCharacter(res assets.Result) {
	if res.Model == nil {
		return
	}
	node := scene.FromModel(NodeCharacter, res.Model)
	scale := s.cfg.Scene.CharacterScale
	node.Scale.X, node.Scale.Y, node.Scale.Z = scale, scale, scale
	node.Position.X = -s.cfg.Scene.OrbitRadius()

	if !s.sched.AttachCharacter(node) {
		return
	}
	s.world.Orbit.Add(node)
}

// Tick advances one frame. Frame errors are already logged and counted by
// the scheduler.
func (s *Stage) Tick() error {
	return s.sched.Tick()
}
