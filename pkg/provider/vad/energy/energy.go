// Package energy implements the vad.Engine interface with a pure RMS energy
// detector plus hangover smoothing. It has no native dependencies and serves
// as the exact-only strategy when the WebRTC detector is unavailable.
package energy

import (
	"fmt"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
)

const (
	// defaultSpeechThreshold is the RMS level (raw 16-bit sample units) at or
	// above which a frame counts as speech.
	defaultSpeechThreshold = 500.0

	// defaultHangoverFrames keeps a session in the speech state for this many
	// consecutive sub-threshold frames, bridging short intra-word dips.
	defaultHangoverFrames = 3
)

// Engine creates energy VAD sessions. It implements [vad.Engine].
type Engine struct {
	speechThreshold float64
	hangoverFrames  int
}

var _ vad.Engine = (*Engine)(nil)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithSpeechThreshold sets the RMS speech threshold. Default: 500.
func WithSpeechThreshold(threshold float64) Option {
	return func(e *Engine) { e.speechThreshold = threshold }
}

// WithHangoverFrames sets the number of sub-threshold frames tolerated before
// the session leaves the speech state. Default: 3.
func WithHangoverFrames(n int) Option {
	return func(e *Engine) { e.hangoverFrames = n }
}

// New returns an energy VAD engine with the supplied options.
func New(opts ...Option) *Engine {
	e := &Engine{
		speechThreshold: defaultSpeechThreshold,
		hangoverFrames:  defaultHangoverFrames,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewSession creates a detector session for one capture stream.
func (e *Engine) NewSession(cfg vad.Config) (vad.SessionHandle, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("energy: invalid sample rate %d", cfg.SampleRate)
	}
	return &session{
		speechThreshold: e.speechThreshold,
		hangoverFrames:  e.hangoverFrames,
	}, nil
}

// session is a live energy VAD session. Not safe for concurrent use.
type session struct {
	speechThreshold float64
	hangoverFrames  int

	inSpeech     bool
	silenceCount int
}

var _ vad.SessionHandle = (*session)(nil)

// IsSpeech classifies one frame by RMS energy with hangover smoothing.
func (s *session) IsSpeech(frame []byte) bool {
	level := audio.RMS(frame)
	if level >= s.speechThreshold {
		s.inSpeech = true
		s.silenceCount = 0
		return true
	}
	if s.inSpeech {
		s.silenceCount++
		if s.silenceCount <= s.hangoverFrames {
			return true
		}
		s.inSpeech = false
		s.silenceCount = 0
	}
	return false
}

// Reset clears the smoothing state.
func (s *session) Reset() {
	s.inSpeech = false
	s.silenceCount = 0
}

// Close is a no-op for the energy detector.
func (s *session) Close() error { return nil }
