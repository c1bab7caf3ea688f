// Package audio plays the looping background track.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// DefaultVolume is the background track volume.
const DefaultVolume = 0.3

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// ErrNoBuffer is returned when playing before a buffer is set.
var ErrNoBuffer = errors.New("no audio buffer")

// Manager owns the speaker and one background track.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate

	// Track
	buffer  *Buffer
	loop    bool
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	playing atomic.Bool

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	trackVolume  float64
}

// New creates a new audio manager with a looping track at DefaultVolume.
func New() *Manager {
	return &Manager{
		loop:         true,
		masterVolume: 1.0,
		trackVolume:  DefaultVolume,
	}
}

// Init initializes the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.initialized = true
	return nil
}

// Close stops playback and shuts the speaker down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopInternal()
	if m.initialized {
		speaker.Close()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetBuffer sets the track to play. It does not start playback.
func (m *Manager) SetBuffer(b *Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffer = b
}

// Ready reports whether a buffer has been set.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buffer != nil
}

// SetLoop controls whether the next Play loops forever.
func (m *Manager) SetLoop(loop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = loop
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateVolume()
}

// SetVolume sets the track volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackVolume = clamp(vol, 0, 1)
	m.updateVolume()
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// Volume returns the track volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackVolume
}

func (m *Manager) updateVolume() {
	if m.volume == nil {
		return
	}
	vol := m.masterVolume * m.trackVolume
	speaker.Lock()
	m.volume.Silent = vol <= 0
	m.volume.Volume = gainExponent(vol)
	speaker.Unlock()
}

// gainExponent converts a 0-1 volume to the base-2 exponent used by
// effects.Volume, so the resulting amplitude gain equals vol.
func gainExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Play starts the track. Calling Play while the track is playing does nothing.
func (m *Manager) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	if m.buffer == nil {
		return ErrNoBuffer
	}
	if m.playing.Load() {
		return nil
	}

	m.stopInternal()

	source := m.buffer.Streamer()
	var stream beep.Streamer = source
	if m.loop {
		stream = &loopStreamer{source: source}
	}
	if rate := m.buffer.Format().SampleRate; rate != m.sampleRate {
		stream = beep.Resample(4, rate, m.sampleRate, stream)
	}

	m.ctrl = &beep.Ctrl{Streamer: stream}
	m.volume = &effects.Volume{
		Streamer: m.ctrl,
		Base:     2,
	}
	m.playing.Store(true)
	m.updateVolume()

	// The callback runs under the speaker lock, so it must not take m.mu.
	speaker.Play(beep.Seq(m.volume, beep.Callback(func() {
		m.playing.Store(false)
	})))

	return nil
}

// Stop stops the track.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopInternal()
}

func (m *Manager) stopInternal() {
	if m.initialized {
		speaker.Clear()
	}
	m.playing.Store(false)
	m.ctrl = nil
	m.volume = nil
}

// Pause pauses the track.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl != nil {
		speaker.Lock()
		m.ctrl.Paused = true
		speaker.Unlock()
		m.playing.Store(false)
	}
}

// Resume resumes a paused track.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl != nil {
		speaker.Lock()
		m.ctrl.Paused = false
		speaker.Unlock()
		m.playing.Store(true)
	}
}

// IsPlaying returns whether the track is playing.
func (m *Manager) IsPlaying() bool {
	return m.playing.Load()
}

// loopStreamer rewinds its source whenever it drains.
type loopStreamer struct {
	source beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.source.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if l.source.Len() == 0 {
				return filled, filled > 0
			}
			if err := l.source.Seek(0); err != nil {
				return filled, false
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
