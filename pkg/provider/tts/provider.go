// Package tts defines the Synthesizer interface for text-to-speech backends.
//
// Backends produce raw PCM rather than playing audio themselves, so the same
// synthesis path serves both live playback and the response cache.
package tts

import "context"

// Audio is the result of one synthesis: 16-bit signed little-endian mono PCM
// at the stated sample rate.
type Audio struct {
	PCM        []byte
	SampleRate int
}

// Synthesizer is the abstraction over any text-to-speech backend.
//
// Implementations must be safe for concurrent use; cache prewarming
// synthesizes several phrases in parallel.
type Synthesizer interface {
	// Synthesize renders text to speech. It blocks until synthesis finishes
	// or ctx is done; cancellation must terminate any spawned subprocess.
	Synthesize(ctx context.Context, text string) (Audio, error)

	// Name identifies the backend in logs and metrics (e.g. "piper").
	Name() string

	// Close releases backend resources.
	Close() error
}
