// Package whisper implements asr.Transcriber backed by the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
)

const (
	defaultLanguage   = "hi"
	defaultSampleRate = 16000

	// minSamples pads very short turns; whisper.cpp rejects inputs under
	// roughly one second of audio.
	minSamples = defaultSampleRate
)

// Compile-time assertion that Transcriber satisfies asr.Transcriber.
var _ asr.Transcriber = (*Transcriber)(nil)

// Transcriber runs whisper.cpp inference on complete turns. The model is
// loaded once and shared; each Transcribe call creates its own whisper
// context, so concurrent calls do not interfere.
type Transcriber struct {
	model      whisperlib.Model
	language   string
	sampleRate int

	closeOnce sync.Once
	closeErr  error
}

// Option is a functional option for configuring a Transcriber.
type Option func(*Transcriber)

// WithLanguage sets the default language code forced during recognition
// (e.g. "hi", "en"). Defaults to "hi".
func WithLanguage(lang string) Option {
	return func(t *Transcriber) { t.language = lang }
}

// WithSampleRate sets the expected input sample rate in Hz. Requests with a
// different rate are rejected. Defaults to 16000.
func WithSampleRate(rate int) Option {
	return func(t *Transcriber) { t.sampleRate = rate }
}

// New loads the whisper.cpp model from the given file path. The caller must
// call Close when the transcriber is no longer needed.
func New(modelPath string, opts ...Option) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	t := &Transcriber{
		model:      model,
		language:   defaultLanguage,
		sampleRate: defaultSampleRate,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Close releases the whisper model. Safe to call more than once.
func (t *Transcriber) Close() error {
	t.closeOnce.Do(func() {
		if t.model != nil {
			t.closeErr = t.model.Close()
		}
	})
	return t.closeErr
}

// Transcribe runs inference on one utterance and returns the joined segment
// text. The reported language is the one recognition was forced to, at full
// confidence: the binding surface does not expose whisper's own detection
// probabilities, so a detection-aware wrapper cannot be layered on this
// backend alone.
func (t *Transcriber) Transcribe(ctx context.Context, req asr.Request) (asr.Result, error) {
	if err := ctx.Err(); err != nil {
		return asr.Result{}, fmt.Errorf("whisper: context already cancelled: %w", err)
	}
	if req.SampleRate != 0 && req.SampleRate != t.sampleRate {
		return asr.Result{}, fmt.Errorf("whisper: sample rate %d not supported, want %d", req.SampleRate, t.sampleRate)
	}

	lang := req.Language
	if lang == "" {
		lang = t.language
	}

	samples := audio.PCMToFloat32(req.PCM)
	if len(samples) < minSamples {
		samples = append(samples, make([]float32, minSamples-len(samples))...)
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return asr.Result{}, fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(lang); err != nil {
		slog.Warn("whisper: failed to set language, using model default", "language", lang, "error", err)
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return asr.Result{}, fmt.Errorf("whisper: process audio: %w", err)
	}

	var (
		parts    []string
		segments []asr.Segment
	)
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return asr.Result{}, fmt.Errorf("whisper: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		segments = append(segments, asr.Segment{
			Text:  text,
			Start: segment.Start,
			End:   segment.End,
		})
	}

	return asr.Result{
		Text:               strings.Join(parts, " "),
		Language:           lang,
		LanguageConfidence: 1.0,
		Segments:           segments,
	}, nil
}
