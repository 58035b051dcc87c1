// Package vad defines the Engine interface for Voice Activity Detection
// backends.
//
// A VAD engine wraps a frame-level speech detector (e.g. WebRTC VAD or a pure
// energy detector) and surfaces it as a stateful per-stream session. Each
// session maintains its own internal state so that independent capture streams
// can be processed without interference.
//
// VAD is synchronous by design: IsSpeech returns immediately with a boolean
// decision, making it suitable for the low-latency frame loop that gates the
// turn segmenter.
//
// Implementations must be safe for concurrent use across different sessions.
// A single SessionHandle must not be shared across goroutines.
package vad

// Config holds the parameters for a VAD session.
type Config struct {
	// SampleRate is the audio sample rate in Hz. Must match the rate of the
	// PCM frames passed to IsSpeech. Supported values depend on the engine;
	// the pipeline runs at 16000.
	SampleRate int

	// FrameSizeMs is the duration of each audio frame in milliseconds. Frame
	// detectors operate on fixed frame sizes (10, 20, or 30 ms).
	FrameSizeMs int
}

// SessionHandle represents an active VAD session for a single capture stream.
// It is an interface so test code can supply scripted decisions without a
// live engine. Reset clears accumulated state without closing the session.
type SessionHandle interface {
	// IsSpeech classifies a single frame of raw little-endian mono PCM at the
	// configured SampleRate and FrameSizeMs. It must not block; engines that
	// cannot judge a frame (wrong size, internal failure) fall back to their
	// documented secondary heuristic rather than returning an error.
	IsSpeech(frame []byte) bool

	// Reset clears all accumulated detection state without closing the
	// session. Call when a new listening cycle begins so stale smoothing
	// state from the previous turn cannot leak into the next one.
	Reset()

	// Close releases all resources associated with the session. Calling
	// Close more than once is safe and returns nil.
	Close() error
}

// Engine is the factory for VAD sessions, implemented by each backend.
//
// Implementations must be safe for concurrent use: multiple goroutines may
// call NewSession simultaneously to create independent sessions.
type Engine interface {
	// NewSession creates a new VAD session with the given configuration.
	// Returns an error if the configuration is invalid (unsupported sample
	// rate or frame size) or the engine cannot allocate resources.
	NewSession(cfg Config) (SessionHandle, error)
}
