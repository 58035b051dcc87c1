package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// bitsPerSample is fixed at 16 for the signed little-endian PCM audio used
// across the entire pipeline.
const bitsPerSample = 16

// PCMToFloat32 converts 16-bit signed little-endian PCM audio to float32
// samples normalised to the range [-1.0, 1.0]. The input length should be
// even (two bytes per sample); any trailing odd byte is silently ignored.
func PCMToFloat32(pcm []byte) []float32 {
	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := range n {
		sample := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		samples[i] = float32(sample) / 32768.0
	}
	return samples
}

// Int16ToPCM converts a slice of int16 samples to 16-bit signed little-endian
// PCM bytes.
func Int16ToPCM(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:i*2+2], uint16(s))
	}
	return pcm
}

// PCMToInt16 converts 16-bit signed little-endian PCM bytes to int16 samples.
// Any trailing odd byte is silently ignored.
func PCMToInt16(pcm []byte) []int16 {
	n := len(pcm) / 2
	samples := make([]int16, n)
	for i := range n {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}
	return samples
}

// RMS computes the root-mean-square energy of 16-bit signed little-endian PCM
// audio, in raw sample units (0–32767). Returns 0 for empty input.
func RMS(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := range n {
		s := float64(int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// PCMDuration returns the play time of a PCM byte buffer at the given sample
// rate and channel count. Returns 0 when rate or channels are non-positive.
func PCMDuration(pcm []byte, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := len(pcm) / (channels * bitsPerSample / 8)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
