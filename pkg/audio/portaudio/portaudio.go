// Package portaudio implements the audio.Source and audio.Player interfaces
// on top of the PortAudio default devices. It is the only package that talks
// to real audio hardware.
//
// PortAudio's global state is initialised lazily on first use and torn down
// when the last open device is closed.
package portaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	palib "github.com/gordonklaus/portaudio"

	"github.com/dhvani-ai/dhvani/pkg/audio"
)

var (
	initMu   sync.Mutex
	initRefs int
)

func acquire() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initRefs == 0 {
		if err := palib.Initialize(); err != nil {
			return fmt.Errorf("portaudio: initialize: %w", err)
		}
	}
	initRefs++
	return nil
}

func release() {
	initMu.Lock()
	defer initMu.Unlock()
	initRefs--
	if initRefs == 0 {
		palib.Terminate()
	}
}

// Source captures mono 16-bit PCM frames from the default input device.
// It implements [audio.Source]. Not safe for concurrent use.
type Source struct {
	stream     *palib.Stream
	buf        []int16
	sampleRate int
	start      time.Time

	closeOnce sync.Once
	closeErr  error
}

var _ audio.Source = (*Source)(nil)

// NewSource opens the default capture device at the given sample rate with a
// fixed frame size of framesPerBuffer samples (e.g. 480 for 30 ms at 16 kHz).
func NewSource(sampleRate, framesPerBuffer int) (*Source, error) {
	if err := acquire(); err != nil {
		return nil, err
	}
	buf := make([]int16, framesPerBuffer)
	stream, err := palib.OpenDefaultStream(1, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		release()
		return nil, fmt.Errorf("portaudio: open capture stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		release()
		return nil, fmt.Errorf("portaudio: start capture stream: %w", err)
	}
	return &Source{
		stream:     stream,
		buf:        buf,
		sampleRate: sampleRate,
		start:      time.Now(),
	}, nil
}

// ReadFrame blocks until a full frame has been captured. Overflow errors from
// the device are returned to the caller, which should log and keep reading;
// the stream itself stays usable.
func (s *Source) ReadFrame(ctx context.Context) (audio.Frame, error) {
	if err := ctx.Err(); err != nil {
		return audio.Frame{}, err
	}
	if err := s.stream.Read(); err != nil {
		return audio.Frame{}, fmt.Errorf("portaudio: read frame: %w", err)
	}
	return audio.Frame{
		PCM:        audio.Int16ToPCM(s.buf),
		SampleRate: s.sampleRate,
		Timestamp:  time.Since(s.start),
	}, nil
}

// Close stops and releases the capture stream. Safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.stream.Stop()
		s.closeErr = s.stream.Close()
		release()
	})
	return s.closeErr
}

// Player plays mono 16-bit PCM through the default output device.
// It implements [audio.Player]. Not safe for concurrent use.
type Player struct {
	closeOnce sync.Once
	acquired  bool
}

var _ audio.Player = (*Player)(nil)

// playChunk is the number of samples written to the device per call.
const playChunk = 1024

// NewPlayer prepares the default output device for playback.
func NewPlayer() (*Player, error) {
	if err := acquire(); err != nil {
		return nil, err
	}
	return &Player{acquired: true}, nil
}

// Play writes the PCM buffer to the default output device at sampleRate,
// blocking until playback completes or ctx is cancelled. Each call opens a
// short-lived stream because consecutive responses may use different sample
// rates (primary vs. fallback synthesizer).
func (p *Player) Play(ctx context.Context, pcm []byte, sampleRate int) error {
	if len(pcm) == 0 {
		return nil
	}
	samples := audio.PCMToInt16(pcm)

	buf := make([]int16, playChunk)
	stream, err := palib.OpenDefaultStream(0, 1, float64(sampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("portaudio: open playback stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start playback stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(samples); off += playChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buf, samples[off:])
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("portaudio: write frame: %w", err)
		}
	}
	return nil
}

// Close releases the playback device. Safe to call more than once.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		if p.acquired {
			release()
		}
	})
	return nil
}
