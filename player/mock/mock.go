// Package mock provides an in-memory [player.Device] for unit tests.
//
// The device records every call so tests can assert on counts and loaded
// URIs. Set LoadError or StartError to make it refuse; call Finish or Fail
// to emit a completion signal for the current playback.
package mock

import (
	"sync"

	"github.com/d1nch8g/quizvoice/player"
)

// Device is a mock implementation of [player.Device].
type Device struct {
	mu sync.Mutex

	// LoadError is returned by Load.
	LoadError error

	// StartError is returned by Start.
	StartError error

	// RewindError is returned by Rewind.
	RewindError error

	// Loaded records every URI passed to Load, in order.
	Loaded []string

	CallCountLoad   int
	CallCountStart  int
	CallCountStop   int
	CallCountRewind int

	source  string
	seq     uint64
	playing bool
	signals chan player.Signal
}

// NewDevice returns a Device whose signal channel holds up to 16 pending
// notifications. Further signals are dropped until the channel is drained.
func NewDevice() *Device {
	return &Device{signals: make(chan player.Signal, 16)}
}

var _ player.Device = (*Device)(nil)

// Load implements [player.Device].
func (d *Device) Load(uri string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountLoad++
	d.Loaded = append(d.Loaded, uri)
	if d.LoadError != nil {
		return d.LoadError
	}
	d.seq++
	d.source = uri
	d.playing = false
	return nil
}

// Start implements [player.Device].
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountStart++
	if d.StartError != nil {
		return d.StartError
	}
	d.seq++
	d.playing = true
	return nil
}

// Stop implements [player.Device].
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountStop++
	d.seq++
	d.playing = false
}

// Rewind implements [player.Device].
func (d *Device) Rewind() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountRewind++
	if d.RewindError != nil {
		return d.RewindError
	}
	d.seq++
	return nil
}

// Source implements [player.Device].
func (d *Device) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

// Seq implements [player.Device].
func (d *Device) Seq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Signals implements [player.Device].
func (d *Device) Signals() <-chan player.Signal {
	return d.signals
}

// Playing reports whether Start succeeded and no Stop or Finish followed.
func (d *Device) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

// Finish emits an ended signal for the current playback and returns it.
func (d *Device) Finish() player.Signal {
	return d.emit(nil)
}

// Fail emits an error signal for the current playback and returns it.
func (d *Device) Fail(err error) player.Signal {
	return d.emit(err)
}

func (d *Device) emit(err error) player.Signal {
	d.mu.Lock()
	sig := player.Signal{Seq: d.seq, Err: err}
	d.playing = false
	d.mu.Unlock()
	select {
	case d.signals <- sig:
	default:
	}
	return sig
}

// LoadedURIs returns a copy of Loaded.
func (d *Device) LoadedURIs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Loaded...)
}

// Interactions returns the total number of device calls made so far.
func (d *Device) Interactions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.CallCountLoad + d.CallCountStart + d.CallCountStop + d.CallCountRewind
}
