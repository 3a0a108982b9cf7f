// Package mock provides an in-memory [tts.Synthesizer] for unit tests.
package mock

import (
	"context"
	"sync"

	"github.com/d1nch8g/quizvoice/tts"
)

// Synthesizer is a mock implementation of [tts.Synthesizer]. It sends
// Chunks for every request, or returns Err.
type Synthesizer struct {
	mu sync.Mutex

	// Chunks are sent to the audio channel in order.
	Chunks [][]byte

	// Err is returned after the chunks are sent.
	Err error

	// Texts records every text passed to SynthesizeToStreamWithContext.
	Texts []string

	// Options records the options of every request.
	Options []tts.SynthesisOptions

	CallCountClose int
}

var _ tts.Synthesizer = (*Synthesizer)(nil)

// SynthesizeToStreamWithContext implements [tts.Synthesizer].
func (s *Synthesizer) SynthesizeToStreamWithContext(ctx context.Context, text string, options tts.SynthesisOptions, audioData chan<- []byte) error {
	s.mu.Lock()
	s.Texts = append(s.Texts, text)
	s.Options = append(s.Options, options)
	chunks, err := s.Chunks, s.Err
	s.mu.Unlock()

	for _, c := range chunks {
		select {
		case audioData <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Close implements [tts.Synthesizer].
func (s *Synthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallCountClose++
	return nil
}

// Calls returns how many synthesis requests were made.
func (s *Synthesizer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Texts)
}
