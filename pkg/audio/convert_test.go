package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/dhvani-ai/dhvani/pkg/audio"
)

func TestPCMToFloat32(t *testing.T) {
	t.Parallel()

	pcm := audio.Int16ToPCM([]int16{0, 16384, -16384, 32767, -32768})
	samples := audio.PCMToFloat32(pcm)

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1.0}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if math.Abs(float64(samples[i]-w)) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, samples[i], w)
		}
	}
}

func TestPCMToFloat32_OddTrailingByte(t *testing.T) {
	t.Parallel()

	pcm := append(audio.Int16ToPCM([]int16{100, 200}), 0x7f)
	if got := len(audio.PCMToFloat32(pcm)); got != 2 {
		t.Errorf("got %d samples, want 2 (trailing byte ignored)", got)
	}
}

func TestInt16RoundTrip(t *testing.T) {
	t.Parallel()

	in := []int16{0, 1, -1, 12345, -12345, 32767, -32768}
	out := audio.PCMToInt16(audio.Int16ToPCM(in))
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestRMS(t *testing.T) {
	t.Parallel()

	if got := audio.RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %f, want 0", got)
	}

	// Constant-amplitude signal has RMS equal to that amplitude.
	samples := make([]int16, 160)
	for i := range samples {
		samples[i] = 1000
	}
	got := audio.RMS(audio.Int16ToPCM(samples))
	if math.Abs(got-1000) > 1e-9 {
		t.Errorf("RMS = %f, want 1000", got)
	}
}

func TestPCMDuration(t *testing.T) {
	t.Parallel()

	// 480 mono samples at 16 kHz = 30 ms.
	pcm := make([]byte, 480*2)
	if got := audio.PCMDuration(pcm, 16000, 1); got != 30*time.Millisecond {
		t.Errorf("PCMDuration = %v, want 30ms", got)
	}
	if got := audio.PCMDuration(pcm, 0, 1); got != 0 {
		t.Errorf("PCMDuration with zero rate = %v, want 0", got)
	}
}

func TestFrameDuration(t *testing.T) {
	t.Parallel()

	f := audio.Frame{PCM: make([]byte, 480*2), SampleRate: 16000}
	if got := f.Duration(); got != 30*time.Millisecond {
		t.Errorf("Frame.Duration = %v, want 30ms", got)
	}
}
