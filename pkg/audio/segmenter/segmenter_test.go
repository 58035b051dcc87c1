package segmenter_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	audiomock "github.com/dhvani-ai/dhvani/pkg/audio/mock"
	"github.com/dhvani-ai/dhvani/pkg/audio/segmenter"
	vadmock "github.com/dhvani-ai/dhvani/pkg/provider/vad/mock"
)

// frame returns a 30 ms 16 kHz mono frame filled with the given sample value.
func frame(sample int16) audio.Frame {
	samples := make([]int16, 480)
	for i := range samples {
		samples[i] = sample
	}
	return audio.Frame{PCM: audio.Int16ToPCM(samples), SampleRate: 16000}
}

// pushAll drives seg with n frames of constant voice activity and returns the
// first emitted turn, if any.
func pushAll(seg *segmenter.Segmenter, n int, speech bool) (*segmenter.Turn, bool) {
	for range n {
		if turn, finished := seg.Push(frame(1000), speech); finished {
			return turn, true
		}
	}
	return nil, false
}

func TestSegmenter_EmitsAfterSpeechThenSilence(t *testing.T) {
	t.Parallel()

	seg := segmenter.New(segmenter.Config{})

	// 10 voiced frames: trigger fires once >60% of the ring is voiced.
	if turn, finished := pushAll(seg, 10, true); finished {
		t.Fatalf("unexpected cycle end during trigger, turn=%v", turn)
	}
	if !seg.Triggered() {
		t.Fatal("segmenter not triggered after 10 voiced frames")
	}

	// 20 more voiced frames (~600 ms speech in total), then silence.
	if turn, finished := pushAll(seg, 20, true); finished {
		t.Fatalf("unexpected cycle end during speech, turn=%v", turn)
	}
	turn, finished := pushAll(seg, 40, false)
	if !finished {
		t.Fatal("cycle did not end after 1.2 s of silence")
	}
	if turn == nil {
		t.Fatal("turn discarded, want emitted")
	}
	if turn.Speech < 500*time.Millisecond {
		t.Errorf("Speech = %v, want >= 500ms", turn.Speech)
	}
	if turn.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", turn.SampleRate)
	}
	if len(turn.PCM) == 0 {
		t.Error("turn has no audio")
	}

	// Exactly one turn: the remaining silence must not produce another.
	if turn, finished := pushAll(seg, 100, false); finished {
		t.Errorf("second cycle ended on silence alone, turn=%v", turn)
	}
}

func TestSegmenter_DiscardsShortSpeech(t *testing.T) {
	t.Parallel()

	seg := segmenter.New(segmenter.Config{})

	// Trigger with 10 voiced frames (300 ms), then go silent immediately:
	// total speech stays under the 500 ms minimum.
	pushAll(seg, 10, true)
	turn, finished := pushAll(seg, 40, false)
	if !finished {
		t.Fatal("cycle did not end after silence")
	}
	if turn != nil {
		t.Fatalf("turn emitted with %v speech, want discard", turn.Speech)
	}
}

func TestSegmenter_NeverTriggersOnSilence(t *testing.T) {
	t.Parallel()

	seg := segmenter.New(segmenter.Config{})
	if turn, finished := pushAll(seg, 1000, false); finished {
		t.Fatalf("cycle ended without any speech, turn=%v", turn)
	}
	if seg.Triggered() {
		t.Error("segmenter triggered on pure silence")
	}
}

func TestSegmenter_HardCapBoundsUnbrokenSpeech(t *testing.T) {
	t.Parallel()

	seg := segmenter.New(segmenter.Config{})

	// Voice activity true forever: the 10 s hard cap must still cut the turn.
	var turn *segmenter.Turn
	finished := false
	for i := 0; i < 2000 && !finished; i++ {
		turn, finished = seg.Push(frame(1000), true)
	}
	if !finished {
		t.Fatal("hard cap never fired on unbroken speech")
	}
	if turn == nil {
		t.Fatal("hard-capped turn was discarded, want emitted")
	}
	if turn.Elapsed > 10*time.Second+30*time.Millisecond {
		t.Errorf("Elapsed = %v, want capped near 10s", turn.Elapsed)
	}
}

func TestSegmenter_PreRollPreserved(t *testing.T) {
	t.Parallel()

	seg := segmenter.New(segmenter.Config{})

	// 3 silent frames enter the ring before speech starts.
	pushAll(seg, 3, false)
	pushAll(seg, 7, true) // exactly at the >60% trigger point
	if !seg.Triggered() {
		t.Fatal("not triggered at 7/10 voiced ring")
	}
	pushAll(seg, 20, true)
	turn, _ := pushAll(seg, 40, false)
	if turn == nil {
		t.Fatal("turn discarded")
	}

	// Pre-roll (3 silent + 7 voiced) + 20 voiced + 34 silence frames to the
	// 1 s threshold, each 960 bytes.
	wantFrames := 3 + 7 + 20 + 34
	if got := len(turn.PCM) / 960; got != wantFrames {
		t.Errorf("turn holds %d frames, want %d (pre-roll must be included)", got, wantFrames)
	}
}

func TestRecord_EmitsSingleTurn(t *testing.T) {
	t.Parallel()

	var frames []audio.Frame
	var decisions []bool
	add := func(n int, speech bool) {
		for range n {
			frames = append(frames, frame(1000))
			decisions = append(decisions, speech)
		}
	}
	add(30, true)
	add(40, false)

	src := &audiomock.Source{Frames: frames}
	sess := &vadmock.Session{Decisions: decisions}

	turn, err := segmenter.Record(context.Background(), src, sess, segmenter.Config{})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if turn == nil {
		t.Fatal("Record returned nil turn")
	}

	// The source is exhausted: a second Record call sees EOF, no turn.
	if _, err := segmenter.Record(context.Background(), src, sess, segmenter.Config{}); !errors.Is(err, io.EOF) {
		t.Errorf("second Record error = %v, want io.EOF", err)
	}
}

func TestRecord_ShortBurstYieldsNoTurn(t *testing.T) {
	t.Parallel()

	var frames []audio.Frame
	var decisions []bool
	add := func(n int, speech bool) {
		for range n {
			frames = append(frames, frame(1000))
			decisions = append(decisions, speech)
		}
	}
	add(8, true) // triggers, but only ~240 ms of speech
	add(60, false)

	src := &audiomock.Source{Frames: frames}
	sess := &vadmock.Session{Decisions: decisions}

	_, err := segmenter.Record(context.Background(), src, sess, segmenter.Config{})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Record error = %v, want io.EOF after discarded cycle", err)
	}
}

func TestRecord_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &audiomock.Source{Frames: []audio.Frame{frame(1000)}}
	sess := &vadmock.Session{Decisions: []bool{true}}

	_, err := segmenter.Record(ctx, src, sess, segmenter.Config{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Record error = %v, want context.Canceled", err)
	}
}
