// Package tts turns quiz sentences into cached speech clips.
package tts

import "context"

// Synthesizer defines the interface for text-to-speech synthesis
type Synthesizer interface {
	// SynthesizeToStreamWithContext sends audio chunks for text to audioData
	// and returns when synthesis is complete. The caller closes audioData.
	SynthesizeToStreamWithContext(ctx context.Context, text string, options SynthesisOptions, audioData chan<- []byte) error
	Close() error
}

// SynthesisOptions selects voice and output format. Format and
// LoudnessNormalization hold backend specific enum values; zero values pick
// the backend default.
type SynthesisOptions struct {
	Voice                 string
	Speed                 float64
	Volume                float64
	Model                 string
	Format                any
	LoudnessNormalization any
}
