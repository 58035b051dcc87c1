package config_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhvani-ai/dhvani/internal/config"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
	ttsmock "github.com/dhvani-ai/dhvani/pkg/provider/tts/mock"
)

const fullConfig = `
server:
  log_level: debug
  metrics_addr: ":9090"
audio:
  sample_rate: 16000
  frame_ms: 30
segmenter:
  ring_frames: 10
  trigger_ratio: 0.6
  silence_ms: 1000
  min_speech_ms: 500
  max_turn_ms: 10000
correct:
  fuzzy_threshold: 75
intent:
  model_accept: 0.82
  stop_strict: 0.97
  fallback_confidence: 0.9
  keyword_fuzzy: 85
  min_keyword_runes: 3
cache:
  concurrency: 2
  item_timeout_ms: 15000
providers:
  asr:
    name: whisper
    model: /models/ggml-small.bin
    language: hi
  vad:
    name: webrtc
  intent:
    name: onnx
    model: /models/intent.onnx
    vocab: /models/vocab.txt
    labels: /models/labels.json
  tts:
    name: piper
    model: /models/hi-voice.onnx
  tts_fallback:
    name: espeak-ng
  audio:
    name: portaudio
`

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(fullConfig))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Intent.StopStrict != 0.97 {
		t.Errorf("StopStrict = %v, want 0.97", cfg.Intent.StopStrict)
	}
	if cfg.Providers.ASR.Language != "hi" {
		t.Errorf("ASR.Language = %q, want hi", cfg.Providers.ASR.Language)
	}
	if cfg.Providers.TTSFallback.Name != "espeak-ng" {
		t.Errorf("TTSFallback.Name = %q, want espeak-ng", cfg.Providers.TTSFallback.Name)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: info
  listen_port: 8080
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: verbose
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_InvalidFrameSize(t *testing.T) {
	t.Parallel()
	yaml := `
audio:
  frame_ms: 25
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for frame_ms 25, got nil")
	}
	if !strings.Contains(err.Error(), "frame_ms") {
		t.Errorf("error should mention frame_ms, got: %v", err)
	}
}

func TestValidate_TriggerRatioOutOfRange(t *testing.T) {
	t.Parallel()
	yaml := `
segmenter:
  trigger_ratio: 1.5
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for trigger_ratio 1.5, got nil")
	}
	if !strings.Contains(err.Error(), "trigger_ratio") {
		t.Errorf("error should mention trigger_ratio, got: %v", err)
	}
}

func TestValidate_ConfidenceGatesOutOfRange(t *testing.T) {
	t.Parallel()
	yaml := `
intent:
  model_accept: 1.2
  fallback_confidence: -0.1
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for out-of-range gates, got nil")
	}
	if !strings.Contains(err.Error(), "model_accept") {
		t.Errorf("error should mention model_accept, got: %v", err)
	}
	if !strings.Contains(err.Error(), "fallback_confidence") {
		t.Errorf("error should mention fallback_confidence, got: %v", err)
	}
}

func TestValidate_WhisperRequiresModelPath(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  asr:
    name: whisper
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for whisper without model path, got nil")
	}
	if !strings.Contains(err.Error(), "model path") {
		t.Errorf("error should mention model path, got: %v", err)
	}
}

func TestValidate_OnnxRequiresAllPaths(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  intent:
    name: onnx
    model: /models/intent.onnx
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for onnx without vocab/labels, got nil")
	}
	if !strings.Contains(err.Error(), "vocab") {
		t.Errorf("error should mention vocab, got: %v", err)
	}
	if !strings.Contains(err.Error(), "labels") {
		t.Errorf("error should mention labels, got: %v", err)
	}
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	t.Parallel()
	if err := config.Validate(&config.Config{}); err != nil {
		t.Fatalf("Validate(empty) error = %v", err)
	}
}

func TestRegistry_CreateTTS(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	reg.RegisterTTS("mock", func(entry config.ProviderEntry) (tts.Synthesizer, error) {
		return &ttsmock.Synthesizer{NameValue: entry.Name}, nil
	})

	synth, err := reg.CreateTTS(config.ProviderEntry{Name: "mock"})
	if err != nil {
		t.Fatalf("CreateTTS() error = %v", err)
	}
	if synth.Name() != "mock" {
		t.Errorf("Name() = %q, want mock", synth.Name())
	}
}

func TestRegistry_UnregisteredName(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	_, err := reg.CreateASR(config.ProviderEntry{Name: "nope"})
	if !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Fatalf("CreateASR() error = %v, want ErrProviderNotRegistered", err)
	}
	if _, err := reg.CreateAudio(config.ProviderEntry{Name: "nope"}); !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Fatalf("CreateAudio() error = %v, want ErrProviderNotRegistered", err)
	}
}

func TestRegistry_OverwriteKeepsLatest(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	reg.RegisterTTS("voice", func(config.ProviderEntry) (tts.Synthesizer, error) {
		return &ttsmock.Synthesizer{NameValue: "first"}, nil
	})
	reg.RegisterTTS("voice", func(config.ProviderEntry) (tts.Synthesizer, error) {
		return &ttsmock.Synthesizer{NameValue: "second"}, nil
	})

	synth, err := reg.CreateTTS(config.ProviderEntry{Name: "voice"})
	if err != nil {
		t.Fatalf("CreateTTS() error = %v", err)
	}
	if synth.Name() != "second" {
		t.Errorf("Name() = %q, want second", synth.Name())
	}
}
