// Package segmenter implements voice-activity turn segmentation: deciding
// when a spoken utterance begins and ends on a continuous frame stream.
//
// The segmenter is a small state machine driven by per-frame voice-activity
// decisions. While idle it keeps a short ring buffer of recent frames; when
// the voiced fraction of that buffer exceeds the trigger ratio it starts
// recording, seeding the turn with the buffered pre-roll so the utterance
// onset is not clipped. While recording it tracks consecutive silence and
// stops on either a silence threshold or a hard duration cap, bounding both
// user-perceived latency and worst-case memory. A finished recording is only
// emitted as a turn if enough actual speech was captured; otherwise it is
// discarded and the segmenter returns to idle.
package segmenter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
)

const (
	defaultRingFrames    = 10
	defaultTriggerRatio  = 0.6
	defaultSilence       = time.Second
	defaultMinSpeech     = 500 * time.Millisecond
	defaultMaxTurn       = 10 * time.Second
	defaultFrameDuration = 30 * time.Millisecond
)

// Config holds the segmentation thresholds. The zero value is usable: every
// field defaults to the tuned production value.
type Config struct {
	// RingFrames is the pre-trigger ring buffer capacity in frames. Default: 10.
	RingFrames int

	// TriggerRatio is the voiced fraction of the ring buffer that must be
	// exceeded to start recording. Default: 0.6.
	TriggerRatio float64

	// Silence is the consecutive-silence duration that ends a recording.
	// Default: 1s.
	Silence time.Duration

	// MinSpeech is the minimum captured speech duration for a recording to be
	// emitted as a turn rather than discarded. Default: 500ms.
	MinSpeech time.Duration

	// MaxTurn is the hard cap on recording duration. It always fires
	// regardless of silence state. Default: 10s.
	MaxTurn time.Duration

	// FrameDuration is the nominal duration of one frame. Default: 30ms.
	FrameDuration time.Duration
}

func (c Config) withDefaults() Config {
	if c.RingFrames <= 0 {
		c.RingFrames = defaultRingFrames
	}
	if c.TriggerRatio <= 0 {
		c.TriggerRatio = defaultTriggerRatio
	}
	if c.Silence <= 0 {
		c.Silence = defaultSilence
	}
	if c.MinSpeech <= 0 {
		c.MinSpeech = defaultMinSpeech
	}
	if c.MaxTurn <= 0 {
		c.MaxTurn = defaultMaxTurn
	}
	if c.FrameDuration <= 0 {
		c.FrameDuration = defaultFrameDuration
	}
	return c
}

// Turn is one bounded span of captured audio judged to contain a single
// utterance.
type Turn struct {
	// PCM is the accumulated 16-bit signed little-endian mono audio,
	// including the pre-trigger ring buffer contents.
	PCM []byte

	// SampleRate in Hz, taken from the first frame of the turn.
	SampleRate int

	// Speech is the voiced duration captured within the turn.
	Speech time.Duration

	// Elapsed is the total recording duration from trigger to cut-off.
	Elapsed time.Duration
}

// ringEntry pairs a frame with its voice-activity decision.
type ringEntry struct {
	pcm    []byte
	speech bool
}

// Segmenter is the turn-segmentation state machine. It is owned by exactly
// one listening cycle at a time and is not safe for concurrent use. State is
// cleared automatically when a cycle ends (emit or discard).
type Segmenter struct {
	cfg Config

	ring    []ringEntry
	ringPos int
	ringLen int

	triggered     bool
	frames        [][]byte
	sampleRate    int
	totalFrames   int
	voicedFrames  int
	silenceFrames int
}

// New returns a Segmenter in the idle state with defaults applied on top of
// cfg.
func New(cfg Config) *Segmenter {
	cfg = cfg.withDefaults()
	return &Segmenter{
		cfg:  cfg,
		ring: make([]ringEntry, cfg.RingFrames),
	}
}

// Reset returns the segmenter to the idle state, clearing the ring buffer and
// any accumulated recording.
func (s *Segmenter) Reset() {
	for i := range s.ring {
		s.ring[i] = ringEntry{}
	}
	s.ringPos = 0
	s.ringLen = 0
	s.triggered = false
	s.frames = nil
	s.sampleRate = 0
	s.totalFrames = 0
	s.voicedFrames = 0
	s.silenceFrames = 0
}

// Push advances the state machine by one frame.
//
// The return values are (turn, finished): finished reports that the current
// listening cycle ended with this frame; turn is non-nil only when the cycle
// ended in an emitted turn (a nil turn with finished=true is a discard — the
// recording was too short to count as speech). The segmenter resets itself
// when a cycle finishes, so the caller may keep pushing frames to start the
// next cycle immediately.
func (s *Segmenter) Push(f audio.Frame, isSpeech bool) (*Turn, bool) {
	if !s.triggered {
		s.pushRing(f, isSpeech)
		if s.ringVoicedRatio() > s.cfg.TriggerRatio {
			s.trigger()
		}
		return nil, false
	}

	s.appendFrame(f.PCM, isSpeech)

	silence := time.Duration(s.silenceFrames) * s.cfg.FrameDuration
	elapsed := time.Duration(s.totalFrames) * s.cfg.FrameDuration

	if silence >= s.cfg.Silence || elapsed > s.cfg.MaxTurn {
		turn := s.finish(elapsed)
		s.Reset()
		return turn, true
	}
	return nil, false
}

// Triggered reports whether the segmenter is currently recording.
func (s *Segmenter) Triggered() bool { return s.triggered }

// pushRing appends to the fixed-capacity ring buffer, evicting the oldest
// entry on overflow.
func (s *Segmenter) pushRing(f audio.Frame, isSpeech bool) {
	s.ring[s.ringPos] = ringEntry{pcm: f.PCM, speech: isSpeech}
	s.ringPos = (s.ringPos + 1) % len(s.ring)
	if s.ringLen < len(s.ring) {
		s.ringLen++
	}
	if s.sampleRate == 0 {
		s.sampleRate = f.SampleRate
	}
}

func (s *Segmenter) ringVoicedRatio() float64 {
	if s.ringLen == 0 {
		return 0
	}
	voiced := 0
	for i := range s.ringLen {
		if s.ring[(s.ringPos+len(s.ring)-s.ringLen+i)%len(s.ring)].speech {
			voiced++
		}
	}
	return float64(voiced) / float64(len(s.ring))
}

// trigger transitions to the recording state, seeding the accumulated frame
// sequence with the ring buffer contents (oldest first) so the utterance
// onset is preserved.
func (s *Segmenter) trigger() {
	s.triggered = true
	start := (s.ringPos + len(s.ring) - s.ringLen) % len(s.ring)
	for i := range s.ringLen {
		e := s.ring[(start+i)%len(s.ring)]
		s.frames = append(s.frames, e.pcm)
		s.totalFrames++
		if e.speech {
			s.voicedFrames++
		}
	}
	s.ringPos = 0
	s.ringLen = 0
}

func (s *Segmenter) appendFrame(pcm []byte, isSpeech bool) {
	s.frames = append(s.frames, pcm)
	s.totalFrames++
	if isSpeech {
		s.voicedFrames++
		s.silenceFrames = 0
	} else {
		s.silenceFrames++
	}
}

// finish builds the emitted turn, or returns nil when the captured speech is
// shorter than the configured minimum.
func (s *Segmenter) finish(elapsed time.Duration) *Turn {
	speech := time.Duration(s.voicedFrames) * s.cfg.FrameDuration
	if speech < s.cfg.MinSpeech {
		return nil
	}
	var size int
	for _, f := range s.frames {
		size += len(f)
	}
	pcm := make([]byte, 0, size)
	for _, f := range s.frames {
		pcm = append(pcm, f...)
	}
	return &Turn{
		PCM:        pcm,
		SampleRate: s.sampleRate,
		Speech:     speech,
		Elapsed:    elapsed,
	}
}

// Record runs one or more listening cycles against src until a turn is
// emitted. Discarded cycles restart listening transparently. Capture errors
// are logged and the frame dropped, per the pipeline's error taxonomy; only
// end-of-stream and context cancellation terminate the loop without a turn.
//
// Record blocks on frame reads and holds exclusive ownership of src and sess
// for its duration.
func Record(ctx context.Context, src audio.Source, sess vad.SessionHandle, cfg Config) (*Turn, error) {
	seg := New(cfg)
	sess.Reset()
	for {
		f, err := src.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			slog.Warn("segmenter: dropping frame after capture error", "error", err)
			continue
		}
		turn, finished := seg.Push(f, sess.IsSpeech(f.PCM))
		if !finished {
			continue
		}
		if turn != nil {
			return turn, nil
		}
		// Too short to be speech: back to listening.
		sess.Reset()
	}
}
