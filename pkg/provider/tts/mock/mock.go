// Package mock provides a test double for the tts.Synthesizer interface.
package mock

import (
	"context"
	"sync"

	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
)

// Synthesizer records every synthesis request and returns deterministic
// audio derived from the input text.
type Synthesizer struct {
	mu sync.Mutex

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	// SampleRate of the returned audio. Defaults to 22050.
	SampleRate int

	// Err, if non-nil, is returned by every Synthesize call.
	Err error

	// Texts records all Synthesize invocations in order.
	Texts []string

	// CloseCalls counts Close invocations.
	CloseCalls int
}

var _ tts.Synthesizer = (*Synthesizer)(nil)

// Synthesize records the text and returns its UTF-8 bytes as fake PCM, so
// tests can trace which phrase produced which audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	if err := ctx.Err(); err != nil {
		return tts.Audio{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Texts = append(s.Texts, text)
	if s.Err != nil {
		return tts.Audio{}, s.Err
	}
	rate := s.SampleRate
	if rate == 0 {
		rate = 22050
	}
	return tts.Audio{PCM: []byte(text), SampleRate: rate}, nil
}

// Name implements tts.Synthesizer.
func (s *Synthesizer) Name() string {
	if s.NameValue == "" {
		return "mock"
	}
	return s.NameValue
}

// Close counts the call.
func (s *Synthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCalls++
	return nil
}

// Count returns the number of recorded Synthesize calls.
func (s *Synthesizer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Texts)
}
