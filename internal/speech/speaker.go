package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/dhvani-ai/dhvani/internal/observe"
	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
)

// The synthesis budget spans the whole fallback chain, so it must exceed a
// single backend's subprocess timeout or the fallback engine inherits an
// already-expired context.
const defaultSynthesisTimeout = 15 * time.Second

// Speaker plays reply text through the audio device, serving cacheable
// phrases from the prewarmed cache and synthesizing everything else on
// demand. The cache is never populated at runtime.
type Speaker struct {
	cache   *Cache
	synth   tts.Synthesizer
	player  audio.Player
	timeout time.Duration
	metrics *observe.Metrics
}

// SpeakerOption is a functional option for configuring a Speaker.
type SpeakerOption func(*Speaker)

// WithSynthesisTimeout caps on-demand synthesis per reply. Default: 10s.
func WithSynthesisTimeout(d time.Duration) SpeakerOption {
	return func(s *Speaker) { s.timeout = d }
}

// WithMetrics overrides the metric instruments, for tests.
func WithMetrics(m *observe.Metrics) SpeakerOption {
	return func(s *Speaker) { s.metrics = m }
}

// NewSpeaker builds a Speaker over the given cache, synthesizer, and output
// device.
func NewSpeaker(cache *Cache, synth tts.Synthesizer, player audio.Player, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		cache:   cache,
		synth:   synth,
		player:  player,
		timeout: defaultSynthesisTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Speak renders and plays text. Cacheable text is served from the cache when
// present; templated text (cacheable=false) always synthesizes, since its
// content varies per call.
func (s *Speaker) Speak(ctx context.Context, text string, cacheable bool) error {
	if Canonical(text) == "" {
		return nil
	}

	if cacheable {
		if a, ok := s.cache.Get(text); ok {
			s.metrics.CacheHits.Add(ctx, 1)
			return s.play(ctx, a)
		}
		s.metrics.CacheMisses.Add(ctx, 1)
	}

	synthCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	a, err := s.synth.Synthesize(synthCtx, text)
	s.metrics.SynthesisDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordProviderError(ctx, s.synth.Name(), "synthesis")
		return fmt.Errorf("speech: synthesize reply: %w", err)
	}
	return s.play(ctx, a)
}

func (s *Speaker) play(ctx context.Context, a tts.Audio) error {
	if err := s.player.Play(ctx, a.PCM, a.SampleRate); err != nil {
		return fmt.Errorf("speech: play reply: %w", err)
	}
	return nil
}
