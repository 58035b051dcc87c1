// Package app wires all Dhvani subsystems into a running assistant.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run executes the listen → transcribe → correct → classify →
// respond loop until a session-ending intent or context cancellation, and
// Shutdown tears everything down in order.
//
// For testing, inject mock providers via the Providers struct and test
// doubles via functional options. When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dhvani-ai/dhvani/internal/config"
	"github.com/dhvani-ai/dhvani/internal/intent"
	"github.com/dhvani-ai/dhvani/internal/observe"
	"github.com/dhvani-ai/dhvani/internal/respond"
	"github.com/dhvani-ai/dhvani/internal/speech"
	"github.com/dhvani-ai/dhvani/internal/text/correct"
	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/audio/segmenter"
	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
)

// Providers holds one interface value per provider slot. Nil means the
// provider is not configured; the pipeline degrades per stage rather than
// refusing to start. Populated by main.go via the config registry.
type Providers struct {
	ASR    asr.Transcriber
	VAD    vad.Engine
	Intent intentmodel.Classifier
	TTS    tts.Synthesizer
	Source audio.Source
	Player audio.Player
}

// App owns all subsystem lifetimes and orchestrates the voice pipeline.
type App struct {
	cfg       *config.Config
	providers *Providers

	// Subsystems — initialised in New, torn down in Shutdown.
	corrector *correct.Corrector
	resolver  *intent.Resolver
	generator *respond.Generator
	session   vad.SessionHandle
	metrics   *observe.Metrics
	segCfg    segmenter.Config

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
	stopErr  error
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithMetrics injects a metrics set instead of using the process-wide default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithGenerator injects a response generator, letting tests pin the clock.
func WithGenerator(g *respond.Generator) Option {
	return func(a *App) { a.generator = g }
}

// New creates an App by wiring all subsystems together. The providers struct
// comes from main.go (populated via the config registry).
func New(cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	a := &App{
		cfg:       cfg,
		providers: providers,
	}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	if a.generator == nil {
		a.generator = respond.NewGenerator()
	}

	if err := a.initCorrector(); err != nil {
		return nil, fmt.Errorf("app: init corrector: %w", err)
	}
	a.initResolver()
	a.initSegmenter()

	if err := a.initVAD(); err != nil {
		return nil, fmt.Errorf("app: init vad: %w", err)
	}

	a.collectClosers()
	return a, nil
}

// initCorrector builds the text-correction cascade from config, with an
// observer that counts applied corrections.
func (a *App) initCorrector() error {
	opts := []correct.Option{
		correct.WithObserver(func(before, after string) {
			a.metrics.Corrections.Add(context.Background(), 1)
			slog.Debug("transcript corrected", "before", before, "after", after)
		}),
	}
	if a.cfg.Correct.FuzzyThreshold > 0 {
		opts = append(opts, correct.WithFuzzyThreshold(float64(a.cfg.Correct.FuzzyThreshold)))
	}
	if a.cfg.Correct.ExactOnly {
		opts = append(opts, correct.WithExactOnly())
	}
	c, err := correct.New(opts...)
	if err != nil {
		return err
	}
	a.corrector = c
	return nil
}

// initResolver builds the intent cascade. A nil classifier is allowed; the
// resolver then runs on guardrails and the keyword table alone.
func (a *App) initResolver() {
	a.resolver = intent.NewResolver(a.providers.Intent, intent.WithThresholds(intent.Thresholds{
		ModelAccept:        a.cfg.Intent.ModelAccept,
		StopStrict:         a.cfg.Intent.StopStrict,
		FallbackConfidence: a.cfg.Intent.FallbackConfidence,
		FallbackFuzzy:      float64(a.cfg.Intent.KeywordFuzzy),
		MinKeywordRunes:    a.cfg.Intent.MinKeywordRunes,
	}))
}

// initSegmenter translates the config's millisecond fields into the
// segmenter's duration-based thresholds. Zero fields keep the tuned defaults.
func (a *App) initSegmenter() {
	a.segCfg = segmenter.Config{
		RingFrames:    a.cfg.Segmenter.RingFrames,
		TriggerRatio:  a.cfg.Segmenter.TriggerRatio,
		Silence:       time.Duration(a.cfg.Segmenter.SilenceMs) * time.Millisecond,
		MinSpeech:     time.Duration(a.cfg.Segmenter.MinSpeechMs) * time.Millisecond,
		MaxTurn:       time.Duration(a.cfg.Segmenter.MaxTurnMs) * time.Millisecond,
		FrameDuration: time.Duration(a.cfg.Audio.FrameMs) * time.Millisecond,
	}
}

// initVAD opens a detection session for the capture stream.
func (a *App) initVAD() error {
	if a.providers.VAD == nil {
		return errors.New("a VAD engine is required")
	}
	sampleRate := a.cfg.Audio.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	frameMs := a.cfg.Audio.FrameMs
	if frameMs == 0 {
		frameMs = 30
	}
	sess, err := a.providers.VAD.NewSession(vad.Config{
		SampleRate:  sampleRate,
		FrameSizeMs: frameMs,
	})
	if err != nil {
		return err
	}
	a.session = sess
	return nil
}

// collectClosers registers every owned resource for Shutdown, in close order.
func (a *App) collectClosers() {
	if a.session != nil {
		a.closers = append(a.closers, a.session.Close)
	}
	if a.providers.Source != nil {
		a.closers = append(a.closers, a.providers.Source.Close)
	}
	if a.providers.Player != nil {
		a.closers = append(a.closers, a.providers.Player.Close)
	}
	if a.providers.ASR != nil {
		a.closers = append(a.closers, a.providers.ASR.Close)
	}
	if a.providers.Intent != nil {
		a.closers = append(a.closers, a.providers.Intent.Close)
	}
	if a.providers.TTS != nil {
		a.closers = append(a.closers, a.providers.TTS.Close)
	}
}

// Run executes the interaction loop until a session-ending intent is spoken,
// the capture stream ends, or ctx is cancelled. End-of-stream and a
// session-ending intent return nil; cancellation returns the context error.
func (a *App) Run(ctx context.Context) error {
	if a.providers.Source == nil {
		return errors.New("an audio source is required")
	}

	speaker := a.buildSpeaker(ctx)

	for {
		turn, err := segmenter.Record(ctx, a.providers.Source, a.session, a.segCfg)
		if err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("capture stream ended")
				return nil
			}
			return err
		}
		a.metrics.TurnDuration.Record(ctx, turn.Elapsed.Seconds())

		text, ok := a.transcribe(ctx, turn)
		if !ok {
			continue
		}

		corrected := a.corrector.Correct(text)

		start := time.Now()
		res := a.resolver.Resolve(ctx, corrected)
		a.metrics.ClassifyDuration.Record(ctx, time.Since(start).Seconds())
		a.metrics.RecordIntent(ctx, res.Intent, string(res.Source))
		slog.Info("turn resolved",
			"text", corrected,
			"intent", res.Intent,
			"confidence", res.Confidence,
			"source", res.Source,
		)

		reply := a.generator.Reply(res.Intent)
		if speaker != nil {
			if err := speaker.Speak(ctx, reply.Text, !reply.Templated); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("reply playback failed", "error", err)
			}
		} else {
			slog.Info("reply (unspoken)", "text", reply.Text)
		}

		if reply.EndSession {
			slog.Info("session ended by user", "intent", res.Intent)
			return nil
		}
	}
}

// buildSpeaker prewarms the response cache and assembles the output path.
// Without a synthesizer or playback device the assistant runs silently.
func (a *App) buildSpeaker(ctx context.Context) *speech.Speaker {
	if a.providers.TTS == nil || a.providers.Player == nil {
		return nil
	}
	var opts []speech.PrewarmOption
	if a.cfg.Cache.Concurrency > 0 {
		opts = append(opts, speech.WithConcurrency(a.cfg.Cache.Concurrency))
	}
	if a.cfg.Cache.ItemTimeoutMs > 0 {
		opts = append(opts, speech.WithItemTimeout(time.Duration(a.cfg.Cache.ItemTimeoutMs)*time.Millisecond))
	}
	cache := speech.Prewarm(ctx, a.providers.TTS, respond.CachedReplies(), opts...)
	return speech.NewSpeaker(cache, a.providers.TTS, a.providers.Player, speech.WithMetrics(a.metrics))
}

// transcribe runs the turn through the ASR provider. A transcription failure
// or empty result drops the turn; the loop keeps listening.
func (a *App) transcribe(ctx context.Context, turn *segmenter.Turn) (string, bool) {
	if a.providers.ASR == nil {
		slog.Warn("dropping turn: no ASR provider configured")
		return "", false
	}
	start := time.Now()
	res, err := a.providers.ASR.Transcribe(ctx, asr.Request{
		PCM:        turn.PCM,
		SampleRate: turn.SampleRate,
	})
	a.metrics.ASRDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		a.metrics.RecordProviderError(ctx, "asr", "transcription")
		slog.Warn("dropping turn: transcription failed", "error", err)
		return "", false
	}
	if res.Text == "" {
		slog.Debug("dropping turn: empty transcript")
		return "", false
	}
	return res.Text, true
}

// Shutdown closes all owned resources in order. Safe to call more than once;
// later calls return the first result.
func (a *App) Shutdown(ctx context.Context) error {
	a.stopOnce.Do(func() {
		done := make(chan error, 1)
		go func() {
			var errs []error
			for _, closeFn := range a.closers {
				if err := closeFn(); err != nil {
					errs = append(errs, err)
				}
			}
			done <- errors.Join(errs...)
		}()
		select {
		case err := <-done:
			a.stopErr = err
		case <-ctx.Done():
			a.stopErr = fmt.Errorf("app: shutdown: %w", ctx.Err())
		}
	})
	return a.stopErr
}
