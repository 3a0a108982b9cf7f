package sound

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

type PlayerConfig struct {
	FramesPerBuffer int
}

func GetDefaultConfig() PlayerConfig {
	return PlayerConfig{
		FramesPerBuffer: 1024,
	}
}

// PortaudioOutput renders clips on the default output device. A stream is
// opened per clip so each clip plays at its own rate and channel count.
type PortaudioOutput struct {
	config PlayerConfig

	streamMu    sync.Mutex // serializes streams
	initialized atomic.Bool
}

var _ Output = (*PortaudioOutput)(nil)

func NewPortaudioOutput(config PlayerConfig) *PortaudioOutput {
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = GetDefaultConfig().FramesPerBuffer
	}
	return &PortaudioOutput{config: config}
}

func (p *PortaudioOutput) Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	p.initialized.Store(true)
	return nil
}

// Terminate waits for the current stream to close before releasing
// PortAudio.
func (p *PortaudioOutput) Terminate() {
	if !p.initialized.CompareAndSwap(true, false) {
		return
	}
	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	portaudio.Terminate()
}

// Ready never waits on a playing stream.
func (p *PortaudioOutput) Ready() bool {
	return p.initialized.Load()
}

func (p *PortaudioOutput) Play(ctx context.Context, clip *Clip) error {
	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	if !p.initialized.Load() {
		return ErrNotInitialized
	}

	buffer := make([]int16, p.config.FramesPerBuffer*clip.Channels)
	stream, err := portaudio.OpenDefaultStream(0, clip.Channels, float64(clip.SampleRate), p.config.FramesPerBuffer, buffer)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(clip.Samples); off += len(buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buffer, clip.Samples[off:])
		clear(buffer[n:])
		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
	}
	return nil
}
