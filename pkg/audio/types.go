// Package audio defines the frame types, PCM helpers, and device interfaces
// for the Dhvani capture/playback path.
//
// The two primary abstractions are:
//
//   - [Source] — a microphone-like device that delivers fixed-size PCM frames.
//   - [Player] — a speaker-like device that plays raw PCM at a given rate.
//
// Implementations live in platform adapter packages (e.g. audio/portaudio);
// test doubles live in audio/mock. The interfaces are intentionally narrow so
// the interaction loop stays decoupled from device details.
package audio

import (
	"context"
	"time"
)

// Frame is a single fixed-size chunk of captured audio. Frames are the atomic
// unit of the listening path: produced by a [Source], judged by the VAD, and
// accumulated into turns by the segmenter. A Frame is immutable once produced.
type Frame struct {
	// PCM is 16-bit signed little-endian mono audio data.
	PCM []byte

	// SampleRate in Hz. The capture path runs at 16000 throughout.
	SampleRate int

	// Timestamp marks when this frame was captured, relative to stream start.
	Timestamp time.Duration
}

// Duration returns the play time of the frame's PCM payload.
func (f Frame) Duration() time.Duration {
	return PCMDuration(f.PCM, f.SampleRate, 1)
}

// Source is a capture device delivering fixed-size mono PCM frames.
//
// A Source is not safe for concurrent use: exactly one segmenting cycle owns
// the capture stream at a time. ReadFrame blocks until a full frame is
// available, the context is cancelled, or the device fails.
type Source interface {
	// ReadFrame returns the next captured frame. Device overflows and
	// transient read failures are the caller's to handle (log and continue);
	// a returned error does not invalidate the Source unless it is permanent.
	ReadFrame(ctx context.Context) (Frame, error)

	// Close releases the capture device. Calling Close more than once is safe.
	Close() error
}

// Player plays raw 16-bit signed little-endian mono PCM at the given sample
// rate, blocking until playback completes or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, pcm []byte, sampleRate int) error

	// Close releases the playback device. Calling Close more than once is safe.
	Close() error
}
