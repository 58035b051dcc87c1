// Package piper implements tts.Synthesizer by shelling out to the piper
// neural TTS binary. Piper reads text on stdin and, with --output-raw, writes
// 16-bit mono PCM to stdout at the voice model's native sample rate.
package piper

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
	defaultBinary     = "piper"
	defaultSampleRate = 22050
	defaultTimeout    = 10 * time.Second
)

// Compile-time assertion that Synthesizer satisfies tts.Synthesizer.
var _ tts.Synthesizer = (*Synthesizer)(nil)

// Synthesizer invokes the piper binary once per synthesis. The voice model
// stays on disk between calls; piper's own startup cost dominates, which is
// why frequent phrases are pre-synthesized into the response cache instead of
// rendered live.
type Synthesizer struct {
	binary     string
	modelPath  string
	sampleRate int
	timeout    time.Duration
}

// Option is a functional option for configuring a Synthesizer.
type Option func(*Synthesizer)

// WithBinary overrides the piper executable path. Defaults to "piper" on
// PATH.
func WithBinary(path string) Option {
	return func(s *Synthesizer) { s.binary = path }
}

// WithSampleRate declares the voice model's native output rate. Defaults to
// 22050 Hz.
func WithSampleRate(rate int) Option {
	return func(s *Synthesizer) { s.sampleRate = rate }
}

// WithTimeout caps a single synthesis run. On expiry the subprocess is
// killed. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) { s.timeout = d }
}

// New returns a Synthesizer using the given piper voice model (.onnx file).
func New(modelPath string, opts ...Option) (*Synthesizer, error) {
	if modelPath == "" {
		return nil, errors.New("piper: modelPath must not be empty")
	}
	s := &Synthesizer{
		binary:     defaultBinary,
		modelPath:  modelPath,
		sampleRate: defaultSampleRate,
		timeout:    defaultTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Synthesize runs piper with the text on stdin and returns the raw PCM it
// writes to stdout. exec.CommandContext kills the subprocess when the
// deadline expires or ctx is cancelled.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tts.Audio{}, errors.New("piper: empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, "--model", s.modelPath, "--output-raw")
	cmd.Stdin = strings.NewReader(text + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tts.Audio{}, fmt.Errorf("piper: synthesis timed out: %w", ctxErr)
		}
		return tts.Audio{}, fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return tts.Audio{}, errors.New("piper: produced no audio")
	}
	return tts.Audio{PCM: stdout.Bytes(), SampleRate: s.sampleRate}, nil
}

// Name implements tts.Synthesizer.
func (s *Synthesizer) Name() string { return "piper" }

// Close is a no-op; each synthesis runs in its own subprocess.
func (s *Synthesizer) Close() error { return nil }
