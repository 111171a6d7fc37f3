// Package speech turns response text into audio. Playback itself belongs to
// the shell; the core only produces bytes, and a synthesis failure is never
// fatal to an interaction.
package speech

import "context"

// Synthesizer produces raw audio for a piece of text. A nil byte slice with
// a nil error means synthesis is unavailable (for example no API key); the
// caller falls back to text-only output.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// NullSynthesizer is the no-audio fallback used when speech is disabled.
type NullSynthesizer struct{}

func (NullSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return nil, nil
}
