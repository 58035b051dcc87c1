// Package mock provides test doubles for the vad.Engine and vad.SessionHandle
// interfaces. The session replays a scripted sequence of per-frame decisions.
package mock

import "github.com/dhvani-ai/dhvani/pkg/provider/vad"

// Engine is a mock implementation of vad.Engine.
type Engine struct {
	// Session is returned by every NewSession call. When nil, a fresh empty
	// Session is returned instead.
	Session *Session

	// NewSessionErr, if non-nil, is returned by NewSession.
	NewSessionErr error

	// NewSessionCalls counts NewSession invocations.
	NewSessionCalls int
}

var _ vad.Engine = (*Engine)(nil)

// NewSession returns the configured Session or error.
func (e *Engine) NewSession(cfg vad.Config) (vad.SessionHandle, error) {
	e.NewSessionCalls++
	if e.NewSessionErr != nil {
		return nil, e.NewSessionErr
	}
	if e.Session != nil {
		return e.Session, nil
	}
	return &Session{}, nil
}

// Session is a mock implementation of vad.SessionHandle that replays the
// Decisions slice in order. Once exhausted, IsSpeech returns false.
type Session struct {
	// Decisions is the scripted per-frame decision sequence.
	Decisions []bool

	// ResetCalls counts Reset invocations.
	ResetCalls int

	pos int
}

var _ vad.SessionHandle = (*Session)(nil)

// IsSpeech returns the next scripted decision (false once exhausted).
func (s *Session) IsSpeech(frame []byte) bool {
	if s.pos >= len(s.Decisions) {
		return false
	}
	d := s.Decisions[s.pos]
	s.pos++
	return d
}

// Reset records the call without rewinding the script, so tests can drive
// multi-cycle scenarios with one decision sequence.
func (s *Session) Reset() { s.ResetCalls++ }

// Close is a no-op.
func (s *Session) Close() error { return nil }
