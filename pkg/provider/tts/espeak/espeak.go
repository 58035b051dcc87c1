// Package espeak implements tts.Synthesizer on the espeak-ng formant
// synthesizer. Quality is robotic next to a neural voice, but espeak-ng is a
// tiny apt-installable dependency with solid Hindi support, which makes it
// the standing fallback when the primary voice is missing or broken.
package espeak

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
)

const (
	defaultBinary  = "espeak-ng"
	defaultVoice   = "hi"
	defaultTimeout = 10 * time.Second

	// espeak-ng --stdout emits WAV at this fixed rate.
	outputSampleRate = 22050

	// riffHeaderSize is the canonical WAV header length espeak-ng writes
	// before the PCM payload.
	riffHeaderSize = 44
)

// Compile-time assertion that Synthesizer satisfies tts.Synthesizer.
var _ tts.Synthesizer = (*Synthesizer)(nil)

// Synthesizer invokes espeak-ng once per synthesis.
type Synthesizer struct {
	binary  string
	voice   string
	timeout time.Duration
}

// Option is a functional option for configuring a Synthesizer.
type Option func(*Synthesizer)

// WithBinary overrides the espeak-ng executable path.
func WithBinary(path string) Option {
	return func(s *Synthesizer) { s.binary = path }
}

// WithVoice sets the espeak-ng voice identifier. Defaults to "hi".
func WithVoice(voice string) Option {
	return func(s *Synthesizer) { s.voice = voice }
}

// WithTimeout caps a single synthesis run. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) { s.timeout = d }
}

// New returns a Synthesizer with defaults applied.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		binary:  defaultBinary,
		voice:   defaultVoice,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize runs espeak-ng with --stdout and strips the WAV header from its
// output, returning the bare PCM payload.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tts.Audio{}, errors.New("espeak: empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, "-v", s.voice, "--stdout", text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tts.Audio{}, fmt.Errorf("espeak: synthesis timed out: %w", ctxErr)
		}
		return tts.Audio{}, fmt.Errorf("espeak: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	raw := stdout.Bytes()
	if len(raw) <= riffHeaderSize {
		return tts.Audio{}, errors.New("espeak: produced no audio")
	}
	return tts.Audio{PCM: raw[riffHeaderSize:], SampleRate: outputSampleRate}, nil
}

// Name implements tts.Synthesizer.
func (s *Synthesizer) Name() string { return "espeak-ng" }

// Close is a no-op; each synthesis runs in its own subprocess.
func (s *Synthesizer) Close() error { return nil }
