package resilience

import (
	"context"

	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
)

// TranscriberFallback implements [asr.Transcriber] with automatic failover
// across recognition backends.
type TranscriberFallback struct {
	group *FallbackGroup[asr.Transcriber]
}

var _ asr.Transcriber = (*TranscriberFallback)(nil)

// NewTranscriberFallback creates a TranscriberFallback with primary as the
// preferred backend.
func NewTranscriberFallback(primary asr.Transcriber, primaryName string, cfg FallbackConfig) *TranscriberFallback {
	return &TranscriberFallback{group: NewFallbackGroup(primary, primaryName, cfg)}
}

// AddFallback registers an additional transcriber.
func (f *TranscriberFallback) AddFallback(name string, t asr.Transcriber) {
	f.group.AddFallback(name, t)
}

// Transcribe runs recognition with the first healthy backend.
func (f *TranscriberFallback) Transcribe(ctx context.Context, req asr.Request) (asr.Result, error) {
	return DoWithResult(f.group, func(_ string, t asr.Transcriber) (asr.Result, error) {
		return t.Transcribe(ctx, req)
	})
}

// Close closes every registered backend, returning the first error.
func (f *TranscriberFallback) Close() error {
	var firstErr error
	for i := range f.group.entries {
		if err := f.group.entries[i].value.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
