// Package resilience provides circuit breaker and backend failover
// primitives.
//
// The pipeline leans on subprocess and native-library backends (piper,
// whisper.cpp, onnxruntime) that fail in bursts: a missing model file or a
// crashed runtime makes every call fail until an operator intervenes.
// [Breaker] stops the pipeline from paying a full timeout on every turn while
// a backend is down, and [FallbackGroup] routes around the broken backend to
// the next registered one.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by [Breaker.Do] while the breaker is open and
// the cooldown has not elapsed.
var ErrBreakerOpen = errors.New("breaker is open")

// breakerState is the operating mode of a Breaker.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds tuning knobs for a [Breaker]. Zero-value fields get
// defaults.
type BreakerConfig struct {
	// Name labels the breaker in log messages.
	Name string

	// Threshold is the number of consecutive failures that opens the
	// breaker. Default: 3.
	Threshold int

	// Cooldown is how long the breaker stays open before allowing a probe
	// call. Default: 15s.
	Cooldown time.Duration
}

// Breaker is a three-state circuit breaker (closed, open, half-open). After
// Threshold consecutive failures it rejects calls for Cooldown, then lets a
// single probe through: a successful probe closes it, a failed one re-opens
// it for another cooldown.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a Breaker with defaults applied on top of cfg.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	return &Breaker{
		name:      cfg.Name,
		threshold: cfg.Threshold,
		cooldown:  cfg.Cooldown,
	}
}

// Do runs fn if the breaker allows it, recording the outcome. While open it
// returns [ErrBreakerOpen] without calling fn.
func (b *Breaker) Do(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}

// admit decides whether a call may proceed, transitioning open to half-open
// when the cooldown has elapsed.
func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if time.Since(b.openedAt) < b.cooldown {
			return ErrBreakerOpen
		}
		b.state = stateHalfOpen
		b.probing = false
		slog.Info("breaker half-open, probing backend", "name", b.name)
		fallthrough
	case stateHalfOpen:
		if b.probing {
			// One probe at a time.
			return ErrBreakerOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

// record books the outcome of an admitted call.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state == stateHalfOpen {
			slog.Info("breaker closed after successful probe", "name", b.name)
		}
		b.state = stateClosed
		b.failures = 0
		b.probing = false
		return
	}

	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = time.Now()
		b.probing = false
		slog.Warn("breaker re-opened after failed probe", "name", b.name)
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = stateOpen
		b.openedAt = time.Now()
		slog.Warn("breaker opened", "name", b.name, "consecutive_failures", b.failures)
	}
}

// Open reports whether the breaker is currently rejecting calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == stateOpen && time.Since(b.openedAt) < b.cooldown
}

// Reset forces the breaker back to closed, clearing failure counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = stateClosed
	b.failures = 0
	b.probing = false
}
