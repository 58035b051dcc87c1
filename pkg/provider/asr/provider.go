// Package asr defines the Transcriber interface for speech-recognition
// backends.
//
// Unlike a streaming recognizer, a Transcriber works on complete turns: the
// segmenter hands it one bounded utterance at a time and it returns a single
// authoritative result. This keeps backends simple (no partial/final channel
// plumbing) and matches a push-to-talk style command pipeline where nothing
// downstream can act on an interim hypothesis anyway.
package asr

import (
	"context"
	"time"
)

// Request describes one utterance to transcribe.
type Request struct {
	// PCM is 16-bit signed little-endian mono audio.
	PCM []byte

	// SampleRate in Hz. Backends that require a fixed rate must reject
	// mismatches rather than resample silently.
	SampleRate int

	// Language is the language code to force for recognition (e.g. "hi").
	// Empty lets the backend apply its configured default or auto-detect.
	Language string
}

// Segment is one time-aligned span of a recognition result.
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Result is the authoritative transcription of one turn.
type Result struct {
	// Text is the full transcript with segments joined by single spaces.
	Text string

	// Language is the language the backend recognized in, as a language
	// code. Backends that cannot detect report the language they were
	// configured for.
	Language string

	// LanguageConfidence is the backend's confidence (0.0 to 1.0) that
	// Language is correct. Backends without detection report 1.0 for their
	// configured language.
	LanguageConfidence float64

	// Segments holds per-segment timing when the backend provides it.
	Segments []Segment
}

// Transcriber is the abstraction over any speech-recognition backend.
//
// Implementations must be safe for concurrent use; the pipeline may overlap
// a transcription with playback of the previous reply.
type Transcriber interface {
	// Transcribe runs recognition on one complete utterance. It blocks until
	// inference finishes or ctx is done.
	Transcribe(ctx context.Context, req Request) (Result, error)

	// Close releases backend resources such as loaded model weights.
	Close() error
}
