// Package sound plays quiz clips: it fetches a clip by locator, decodes it
// and renders it on an audio output, reporting completion as
// [player.Signal] values.
package sound

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotLoaded is returned by Start when no clip is loaded.
	ErrNotLoaded = errors.New("no clip loaded")

	// ErrNotInitialized is returned when the audio output is not ready.
	ErrNotInitialized = errors.New("audio output not initialized")

	// ErrClipNotFound is returned by sources that do not have the clip.
	ErrClipNotFound = errors.New("clip not found")
)

// Source opens clips by locator
type Source interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Output renders decoded audio
type Output interface {
	// Ready reports whether Play can be called.
	Ready() bool

	// Play blocks until clip has been rendered or ctx is done.
	Play(ctx context.Context, clip *Clip) error
}

// Clip is decoded, interleaved 16-bit PCM.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}
