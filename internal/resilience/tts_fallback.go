package resilience

import (
	"context"
	"strings"

	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
)

// SpeechFallback implements [tts.Synthesizer] with automatic failover across
// multiple speech backends. The usual arrangement is a neural voice first and
// espeak-ng last: a robotic reply beats a silent assistant.
type SpeechFallback struct {
	group *FallbackGroup[tts.Synthesizer]
	names []string
}

var _ tts.Synthesizer = (*SpeechFallback)(nil)

// NewSpeechFallback creates a SpeechFallback with primary as the preferred
// backend.
func NewSpeechFallback(primary tts.Synthesizer, cfg FallbackConfig) *SpeechFallback {
	return &SpeechFallback{
		group: NewFallbackGroup(primary, primary.Name(), cfg),
		names: []string{primary.Name()},
	}
}

// AddFallback registers an additional synthesizer, tried after all earlier
// ones.
func (f *SpeechFallback) AddFallback(s tts.Synthesizer) {
	f.group.AddFallback(s.Name(), s)
	f.names = append(f.names, s.Name())
}

// Synthesize renders text with the first healthy backend.
func (f *SpeechFallback) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	return DoWithResult(f.group, func(_ string, s tts.Synthesizer) (tts.Audio, error) {
		return s.Synthesize(ctx, text)
	})
}

// Name lists the chained backend names, e.g. "piper+espeak-ng".
func (f *SpeechFallback) Name() string { return strings.Join(f.names, "+") }

// Close closes every registered backend, returning the first error.
func (f *SpeechFallback) Close() error {
	var firstErr error
	for i := range f.group.entries {
		if err := f.group.entries[i].value.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
