// Package mock provides test doubles for the audio.Source and audio.Player
// interfaces.
//
// Source replays a scripted sequence of frames; Player records everything it
// is asked to play. Both are safe for single-goroutine test use.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/dhvani-ai/dhvani/pkg/audio"
)

// Source is a mock implementation of [audio.Source] that replays Frames in
// order and returns io.EOF once exhausted.
type Source struct {
	// Frames is the scripted frame sequence.
	Frames []audio.Frame

	// ReadErr, if non-nil, is returned by every ReadFrame call instead of a
	// frame.
	ReadErr error

	pos    int
	closed bool
}

var _ audio.Source = (*Source)(nil)

// ReadFrame returns the next scripted frame, or io.EOF when the script is
// exhausted or the source has been closed.
func (s *Source) ReadFrame(ctx context.Context) (audio.Frame, error) {
	if err := ctx.Err(); err != nil {
		return audio.Frame{}, err
	}
	if s.ReadErr != nil {
		return audio.Frame{}, s.ReadErr
	}
	if s.closed || s.pos >= len(s.Frames) {
		return audio.Frame{}, io.EOF
	}
	f := s.Frames[s.pos]
	s.pos++
	return f, nil
}

// Close marks the source as exhausted.
func (s *Source) Close() error {
	s.closed = true
	return nil
}

// PlayCall records a single invocation of Play.
type PlayCall struct {
	PCM        []byte
	SampleRate int
}

// Player is a mock implementation of [audio.Player] that records calls.
type Player struct {
	mu sync.Mutex

	// PlayErr, if non-nil, is returned by every Play call.
	PlayErr error

	// PlayCalls records all Play invocations in order.
	PlayCalls []PlayCall
}

var _ audio.Player = (*Player)(nil)

// Play records the call and returns PlayErr.
func (p *Player) Play(ctx context.Context, pcm []byte, sampleRate int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	p.PlayCalls = append(p.PlayCalls, PlayCall{PCM: buf, SampleRate: sampleRate})
	return p.PlayErr
}

// Close is a no-op.
func (p *Player) Close() error { return nil }

// Played returns the number of recorded Play calls.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.PlayCalls)
}
