package audio

import "go.uber.org/zap"

// Playback is the part of Manager the Unlocker drives.
type Playback interface {
	Ready() bool
	IsPlaying() bool
	Play() error
}

// Unlocker starts playback on the first user gesture after the track is
// ready, then unregisters itself. Gestures before the track is ready are
// ignored and keep the listener registered.
type Unlocker struct {
	playback   Playback
	unregister func()
	log        *zap.Logger
	fired      bool
}

// NewUnlocker creates an unlocker. unregister is called once, right after
// the unlocker fires; it may be nil. log may be nil.
func NewUnlocker(p Playback, unregister func(), log *zap.Logger) *Unlocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Unlocker{playback: p, unregister: unregister, log: log}
}

// SetUnregister replaces the unregister callback. It lets the caller create
// the unlocker before the listener it is registered with exists.
func (u *Unlocker) SetUnregister(fn func()) {
	u.unregister = fn
}

// OnGesture handles one pointer-down. It reports whether playback was
// started by this call.
func (u *Unlocker) OnGesture() bool {
	if u.fired || !u.playback.Ready() {
		return false
	}
	u.fired = true

	started := false
	if !u.playback.IsPlaying() {
		if err := u.playback.Play(); err != nil {
			u.log.Warn("background audio failed to start", zap.Error(err))
		} else {
			started = true
			u.log.Info("background audio playing")
		}
	}

	if u.unregister != nil {
		u.unregister()
		u.unregister = nil
	}
	return started
}

// Fired reports whether the unlocker has run.
func (u *Unlocker) Fired() bool {
	return u.fired
}
