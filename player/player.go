// Package player implements the single-clip audio state machine.
//
// A Player tracks which clip is active and the callback to run when that
// clip finishes. Starting a different clip silently preempts the active one;
// starting the same clip again is ignored. All methods must be called from
// one goroutine.
package player

import (
	"github.com/d1nch8g/quizvoice/logger"
)

// Player drives one Device.
type Player struct {
	device  Device
	locator func(id string) string

	active  string
	pending *completion
}

// Option configures a Player.
type Option func(*Player)

// WithLocator overrides the identifier to URI mapping.
func WithLocator(fn func(id string) string) Option {
	return func(p *Player) {
		p.locator = fn
	}
}

// New creates a Player bound to device.
func New(device Device, opts ...Option) *Player {
	p := &Player{
		device:  device,
		locator: Locator,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play starts the clip identified by id and runs onFinish once it ends.
//
// A sentinel id runs onFinish immediately. Asking for the clip that is
// already active does nothing, and onFinish is dropped. Any other id
// preempts the active clip without running its callback.
func (p *Player) Play(id string, onFinish func()) {
	if IsSentinel(id) {
		if onFinish != nil {
			onFinish()
		}
		return
	}

	if id == p.active {
		logger.Log.Debug("duplicate play ignored", "id", id)
		return
	}

	if p.active != "" {
		logger.Log.Debug("preempting clip", "previous", p.active, "next", id)
		p.device.Stop()
		p.pending.cancel()
	}

	p.active = id
	p.pending = newCompletion(onFinish)

	if err := p.device.Load(p.locator(id)); err != nil {
		logger.Log.Warn("failed to load clip", "id", id, "error", err)
		p.OnEnded()
		return
	}
	if err := p.device.Start(); err != nil {
		logger.Log.Warn("playback refused", "id", id, "error", err)
		p.OnEnded()
	}
}

// OnEnded finishes the active session. State is cleared before the callback
// runs, so the callback may call Play again.
func (p *Player) OnEnded() {
	if p.active == "" {
		return
	}
	c := p.pending
	p.active = ""
	p.pending = nil
	c.fire()
}

// HandleSignal feeds a device notification into the state machine. Signals
// left over from a stopped or rewound playback are dropped.
func (p *Player) HandleSignal(sig Signal) {
	if sig.Seq != p.device.Seq() {
		logger.Log.Debug("stale device signal dropped", "seq", sig.Seq)
		return
	}
	if sig.Err != nil {
		logger.Log.Warn("playback failed", "id", p.active, "error", sig.Err)
	}
	p.OnEnded()
}

// Replay restarts the loaded clip from the beginning. The active session,
// if any, is left as is.
func (p *Player) Replay() {
	if p.device.Source() == "" {
		return
	}
	if err := p.device.Rewind(); err != nil {
		logger.Log.Debug("rewind failed", "error", err)
		return
	}
	if err := p.device.Start(); err != nil {
		logger.Log.Debug("replay refused", "error", err)
	}
}

// Active returns the identifier of the clip being played.
func (p *Player) Active() (string, bool) {
	return p.active, p.active != ""
}
