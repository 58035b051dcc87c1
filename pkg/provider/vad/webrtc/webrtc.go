// Package webrtc implements the vad.Engine interface using the WebRTC voice
// activity detector. When a frame cannot be judged by the detector (wrong
// size or an internal error) the session falls back to an RMS energy check so
// the frame loop never stalls on a single bad frame.
package webrtc

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
)

const (
	// defaultMode is the detector aggressiveness (0–3, 3 = most aggressive).
	// Mode 2 is the tuned value for close-microphone Hindi speech.
	defaultMode = 2

	// defaultRMSThreshold is the energy fallback threshold in raw 16-bit
	// sample units, used only when the detector cannot process a frame.
	defaultRMSThreshold = 500.0
)

// Engine creates WebRTC VAD sessions. It implements [vad.Engine].
type Engine struct {
	mode         int
	rmsThreshold float64
}

var _ vad.Engine = (*Engine)(nil)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithMode sets the detector aggressiveness (0–3). Default: 2.
func WithMode(mode int) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithRMSThreshold sets the energy fallback threshold in raw 16-bit sample
// units. Default: 500.
func WithRMSThreshold(threshold float64) Option {
	return func(e *Engine) { e.rmsThreshold = threshold }
}

// New returns a WebRTC VAD engine with the supplied options.
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:         defaultMode,
		rmsThreshold: defaultRMSThreshold,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewSession creates a detector session for one capture stream.
func (e *Engine) NewSession(cfg vad.Config) (vad.SessionHandle, error) {
	switch cfg.SampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("webrtc: unsupported sample rate %d", cfg.SampleRate)
	}
	switch cfg.FrameSizeMs {
	case 10, 20, 30:
	default:
		return nil, fmt.Errorf("webrtc: unsupported frame size %d ms", cfg.FrameSizeMs)
	}

	detector, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("webrtc: create detector: %w", err)
	}
	detector.SetMode(e.mode)

	return &session{
		detector:     detector,
		sampleRate:   cfg.SampleRate,
		frameBytes:   cfg.SampleRate * cfg.FrameSizeMs / 1000 * 2,
		rmsThreshold: e.rmsThreshold,
	}, nil
}

// session is a live WebRTC VAD session. Not safe for concurrent use.
type session struct {
	detector     *webrtcvad.VAD
	sampleRate   int
	frameBytes   int
	rmsThreshold float64
	closed       bool
}

var _ vad.SessionHandle = (*session)(nil)

// IsSpeech classifies one frame. Frames of the wrong size, and detector
// errors, fall back to the RMS energy check.
func (s *session) IsSpeech(frame []byte) bool {
	if s.closed {
		return false
	}
	if len(frame) != s.frameBytes {
		return audio.RMS(frame) > s.rmsThreshold
	}
	speech, err := s.detector.Process(s.sampleRate, frame)
	if err != nil {
		return audio.RMS(frame) > s.rmsThreshold
	}
	return speech
}

// Reset is a no-op: the WebRTC detector carries no cross-frame state that
// outlives a frame.
func (s *session) Reset() {}

// Close releases the detector. Safe to call more than once.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.detector.Close()
	return nil
}
