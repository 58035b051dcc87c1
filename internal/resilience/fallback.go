package resilience

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllBackendsFailed is returned when every entry in a [FallbackGroup]
// fails or has an open breaker.
var ErrAllBackendsFailed = errors.New("all backends failed")

// FallbackConfig configures the per-entry breaker created for each backend
// in a [FallbackGroup].
type FallbackConfig struct {
	Breaker BreakerConfig
}

type fallbackEntry[T any] struct {
	name    string
	value   T
	breaker *Breaker
}

// FallbackGroup wraps a primary and zero or more fallback backends of the
// same type. A failing entry (or one with an open breaker) is bypassed in
// favour of the next in registration order.
//
// FallbackGroup is safe for concurrent use once fully registered; AddFallback
// must finish before the first Do call.
type FallbackGroup[T any] struct {
	entries []fallbackEntry[T]
	cfg     FallbackConfig
}

// NewFallbackGroup creates a group with primary as the first entry.
func NewFallbackGroup[T any](primary T, primaryName string, cfg FallbackConfig) *FallbackGroup[T] {
	g := &FallbackGroup[T]{cfg: cfg}
	g.add(primaryName, primary)
	return g
}

// AddFallback appends a fallback backend, tried after all earlier entries.
func (g *FallbackGroup[T]) AddFallback(name string, fallback T) {
	g.add(name, fallback)
}

func (g *FallbackGroup[T]) add(name string, value T) {
	bc := g.cfg.Breaker
	bc.Name = name
	g.entries = append(g.entries, fallbackEntry[T]{
		name:    name,
		value:   value,
		breaker: NewBreaker(bc),
	})
}

// Do tries fn against each entry in order until one succeeds. Entries with
// open breakers are skipped. Returns [ErrAllBackendsFailed] wrapping the last
// error when nothing succeeds.
func (g *FallbackGroup[T]) Do(fn func(name string, v T) error) error {
	var lastErr error
	for i := range g.entries {
		e := &g.entries[i]
		err := e.breaker.Do(func() error { return fn(e.name, e.value) })
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrBreakerOpen) {
			slog.Debug("skipping backend, breaker open", "backend", e.name)
		} else {
			slog.Warn("backend failed, trying next", "backend", e.name, "error", err)
		}
	}
	return fmt.Errorf("%w: %v", ErrAllBackendsFailed, lastErr)
}

// DoWithResult tries fn against each entry until one succeeds, returning the
// result. A package-level function because Go has no method-level type
// parameters.
func DoWithResult[T, R any](g *FallbackGroup[T], fn func(name string, v T) (R, error)) (R, error) {
	var (
		result R
		zero   R
	)
	err := g.Do(func(name string, v T) error {
		r, err := fn(name, v)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
