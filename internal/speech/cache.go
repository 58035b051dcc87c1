// Package speech holds the response cache and the speaker that plays replies.
//
// A fixed set of canned reply phrases is synthesized once at startup and kept
// in memory, so the common interaction path never pays synthesis latency.
// The cache is read-only after prewarming; runtime misses synthesize on
// demand and are deliberately not inserted, since anything missing from the
// prewarmed set is either templated (varies per call) or rare.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
)

const (
	defaultPrewarmConcurrency = 2
	defaultItemTimeout        = 15 * time.Second
)

// Canonical normalizes text to the single Unicode form used as a cache key.
// Devanagari has composed and decomposed spellings of the same word; NFC
// makes them collide the way a human reader would expect.
func Canonical(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// Cache maps canonical reply text to pre-synthesized audio. Read-only after
// Prewarm returns.
type Cache struct {
	entries map[string]tts.Audio
}

// PrewarmOption configures Prewarm.
type PrewarmOption func(*prewarmSettings)

type prewarmSettings struct {
	concurrency int
	itemTimeout time.Duration
}

// WithConcurrency bounds parallel synthesis during prewarming. Default: 2,
// low enough not to starve CPU on memory-constrained targets.
func WithConcurrency(n int) PrewarmOption {
	return func(s *prewarmSettings) { s.concurrency = n }
}

// WithItemTimeout caps synthesis time per phrase. Default: 15s.
func WithItemTimeout(d time.Duration) PrewarmOption {
	return func(s *prewarmSettings) { s.itemTimeout = d }
}

// Prewarm synthesizes every phrase with bounded concurrency and returns the
// cache of successes. Failures are logged and skipped: a missing entry just
// means on-demand synthesis later, never a startup failure. Prewarm returns
// once every phrase has completed or timed out.
func Prewarm(ctx context.Context, synth tts.Synthesizer, phrases []string, opts ...PrewarmOption) *Cache {
	cfg := prewarmSettings{
		concurrency: defaultPrewarmConcurrency,
		itemTimeout: defaultItemTimeout,
	}
	for _, o := range opts {
		o(&cfg)
	}

	var (
		mu      sync.Mutex
		entries = make(map[string]tts.Audio, len(phrases))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	start := time.Now()
	for _, phrase := range phrases {
		key := Canonical(phrase)
		if key == "" {
			continue
		}
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, cfg.itemTimeout)
			defer cancel()

			audio, err := synth.Synthesize(itemCtx, key)
			if err != nil {
				slog.Warn("skipping cache entry, synthesis failed",
					"phrase", key, "error", err)
				return nil
			}
			mu.Lock()
			entries[key] = audio
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are logged and skipped

	slog.Info("response cache prewarmed",
		"entries", len(entries),
		"requested", len(phrases),
		"elapsed", time.Since(start))
	return &Cache{entries: entries}
}

// Get looks up pre-synthesized audio for text, canonicalizing the key.
func (c *Cache) Get(text string) (tts.Audio, bool) {
	a, ok := c.entries[Canonical(text)]
	return a, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }
