package asr

import (
	"context"
	"log/slog"
)

// defaultRetryFloor is the language confidence below which a mismatched
// detection is not trusted and recognition is re-run with the target language
// forced.
const defaultRetryFloor = 0.8

// LanguageRetry wraps a Transcriber and re-runs recognition once with a
// forced target language when the backend detected a different language at
// low confidence. Noisy far-field Hindi audio is routinely misdetected as a
// neighbouring language; forcing the expected language on the retry recovers
// those turns without touching confident detections.
type LanguageRetry struct {
	next   Transcriber
	target string
	floor  float64
}

var _ Transcriber = (*LanguageRetry)(nil)

// RetryOption configures a LanguageRetry.
type RetryOption func(*LanguageRetry)

// WithRetryFloor sets the confidence floor below which a mismatched language
// detection triggers the forced retry. Defaults to 0.8.
func WithRetryFloor(floor float64) RetryOption {
	return func(r *LanguageRetry) { r.floor = floor }
}

// WithLanguageRetry wraps next so that low-confidence detections of languages
// other than target are retried once with target forced.
func WithLanguageRetry(next Transcriber, target string, opts ...RetryOption) *LanguageRetry {
	r := &LanguageRetry{
		next:   next,
		target: target,
		floor:  defaultRetryFloor,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Transcribe delegates to the wrapped backend, retrying at most once.
//
// A request that already forces a language is passed through untouched; the
// retry only applies when the backend was left to choose and chose badly.
func (r *LanguageRetry) Transcribe(ctx context.Context, req Request) (Result, error) {
	res, err := r.next.Transcribe(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if req.Language != "" || r.target == "" {
		return res, nil
	}
	if res.Language == r.target || res.LanguageConfidence >= r.floor {
		return res, nil
	}

	slog.Debug("retrying transcription with forced language",
		"detected", res.Language,
		"confidence", res.LanguageConfidence,
		"forced", r.target)

	forced := req
	forced.Language = r.target
	retried, err := r.next.Transcribe(ctx, forced)
	if err != nil {
		// The first pass succeeded; keep its result rather than failing the
		// whole turn on the retry.
		slog.Warn("forced-language retry failed, keeping first result", "error", err)
		return res, nil
	}
	return retried, nil
}

// Close closes the wrapped backend.
func (r *LanguageRetry) Close() error { return r.next.Close() }
