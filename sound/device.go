package sound

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/d1nch8g/quizvoice/logger"
	"github.com/d1nch8g/quizvoice/player"
)

// Device plays one clip at a time from a Source on an Output. Start returns
// immediately; the outcome arrives on Signals.
type Device struct {
	source Source
	output Output

	mu      sync.Mutex
	uri     string
	seq     uint64
	cancel  context.CancelFunc
	signals chan player.Signal
	done    chan struct{}
	closed  bool
}

var _ player.Device = (*Device)(nil)

func NewDevice(source Source, output Output) *Device {
	return &Device{
		source:  source,
		output:  output,
		signals: make(chan player.Signal, 1),
		done:    make(chan struct{}),
	}
}

func (d *Device) Load(uri string) error {
	if uri == "" {
		return errors.New("empty clip locator")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haltLocked()
	d.uri = uri
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("device closed")
	}
	if d.uri == "" {
		return ErrNotLoaded
	}
	if !d.output.Ready() {
		return ErrNotInitialized
	}

	d.haltLocked()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	go d.run(ctx, d.seq, d.uri)
	return nil
}

func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haltLocked()
}

// Rewind stops the clip; the next Start plays it from the beginning.
func (d *Device) Rewind() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uri == "" {
		return ErrNotLoaded
	}
	d.haltLocked()
	return nil
}

func (d *Device) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uri
}

func (d *Device) Seq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

func (d *Device) Signals() <-chan player.Signal {
	return d.signals
}

// Close stops playback and releases goroutines waiting to report.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.haltLocked()
	d.closed = true
	close(d.done)
	return nil
}

// haltLocked cancels the in-flight playback and moves to a new sequence
// number so its signal, if already queued, is recognised as stale.
func (d *Device) haltLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}

func (d *Device) run(ctx context.Context, seq uint64, uri string) {
	err := d.render(ctx, uri)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Log.Debug("clip failed", "uri", uri, "error", err)
	}

	select {
	case d.signals <- player.Signal{Seq: seq, Err: err}:
	case <-d.done:
	}
}

func (d *Device) render(ctx context.Context, uri string) error {
	rc, err := d.source.Open(ctx, uri)
	if err != nil {
		return err
	}
	defer rc.Close()

	clip, err := Decode(rc, uri)
	if err != nil {
		return err
	}
	if err := d.output.Play(ctx, clip); err != nil {
		return fmt.Errorf("failed to play %s: %w", uri, err)
	}
	return nil
}
