package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"asr":    {"whisper"},
	"vad":    {"webrtc", "energy"},
	"intent": {"onnx"},
	"tts":    {"piper", "espeak-ng"},
	"audio":  {"portaudio"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Audio
	if cfg.Audio.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d must not be negative", cfg.Audio.SampleRate))
	}
	switch cfg.Audio.FrameMs {
	case 0, 10, 20, 30:
	default:
		errs = append(errs, fmt.Errorf("audio.frame_ms %d is invalid; valid values: 10, 20, 30", cfg.Audio.FrameMs))
	}

	// Segmenter
	if cfg.Segmenter.RingFrames < 0 {
		errs = append(errs, fmt.Errorf("segmenter.ring_frames %d must not be negative", cfg.Segmenter.RingFrames))
	}
	if r := cfg.Segmenter.TriggerRatio; r != 0 && (r <= 0 || r > 1) {
		errs = append(errs, fmt.Errorf("segmenter.trigger_ratio %.2f is out of range (0, 1]", r))
	}
	if cfg.Segmenter.SilenceMs < 0 || cfg.Segmenter.MinSpeechMs < 0 || cfg.Segmenter.MaxTurnMs < 0 {
		errs = append(errs, errors.New("segmenter durations must not be negative"))
	}
	if cfg.Segmenter.MaxTurnMs != 0 && cfg.Segmenter.MinSpeechMs > cfg.Segmenter.MaxTurnMs {
		errs = append(errs, fmt.Errorf("segmenter.min_speech_ms %d exceeds segmenter.max_turn_ms %d", cfg.Segmenter.MinSpeechMs, cfg.Segmenter.MaxTurnMs))
	}

	// Correction
	if t := cfg.Correct.FuzzyThreshold; t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("correct.fuzzy_threshold %d is out of range [0, 100]", t))
	}

	// Intent cascade gates
	if v := cfg.Intent.ModelAccept; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("intent.model_accept %.2f is out of range [0, 1]", v))
	}
	if v := cfg.Intent.StopStrict; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("intent.stop_strict %.2f is out of range [0, 1]", v))
	}
	if v := cfg.Intent.FallbackConfidence; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("intent.fallback_confidence %.2f is out of range [0, 1]", v))
	}
	if t := cfg.Intent.KeywordFuzzy; t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("intent.keyword_fuzzy %d is out of range [0, 100]", t))
	}
	if cfg.Intent.StopStrict != 0 && cfg.Intent.ModelAccept != 0 && cfg.Intent.StopStrict < cfg.Intent.ModelAccept {
		slog.Warn("intent.stop_strict is below intent.model_accept; the strict stop gate will never be the deciding check",
			"stop_strict", cfg.Intent.StopStrict,
			"model_accept", cfg.Intent.ModelAccept,
		)
	}

	// Cache
	if cfg.Cache.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("cache.concurrency %d must not be negative", cfg.Cache.Concurrency))
	}
	if cfg.Cache.ItemTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("cache.item_timeout_ms %d must not be negative", cfg.Cache.ItemTimeoutMs))
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("asr", cfg.Providers.ASR.Name)
	validateProviderName("asr", cfg.Providers.ASRFallback.Name)
	validateProviderName("vad", cfg.Providers.VAD.Name)
	validateProviderName("intent", cfg.Providers.Intent.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)
	validateProviderName("tts", cfg.Providers.TTSFallback.Name)
	validateProviderName("audio", cfg.Providers.Audio.Name)

	// Model path requirements for the local providers that load one.
	if cfg.Providers.ASR.Name == "whisper" && cfg.Providers.ASR.Model == "" {
		errs = append(errs, errors.New("providers.asr: whisper requires a model path"))
	}
	if cfg.Providers.ASRFallback.Name == "whisper" && cfg.Providers.ASRFallback.Model == "" {
		errs = append(errs, errors.New("providers.asr_fallback: whisper requires a model path"))
	}
	if cfg.Providers.Intent.Name == "onnx" {
		if cfg.Providers.Intent.Model == "" {
			errs = append(errs, errors.New("providers.intent: onnx requires a model path"))
		}
		if cfg.Providers.Intent.Vocab == "" {
			errs = append(errs, errors.New("providers.intent: onnx requires a vocab path"))
		}
		if cfg.Providers.Intent.Labels == "" {
			errs = append(errs, errors.New("providers.intent: onnx requires a labels path"))
		}
	}
	if cfg.Providers.TTS.Name == "piper" && cfg.Providers.TTS.Model == "" {
		errs = append(errs, errors.New("providers.tts: piper requires a model path"))
	}
	if cfg.Providers.TTSFallback.Name == "piper" && cfg.Providers.TTSFallback.Model == "" {
		errs = append(errs, errors.New("providers.tts_fallback: piper requires a model path"))
	}

	// Degradation warnings — the assistant still runs without these stages.
	if cfg.Providers.Intent.Name == "" {
		slog.Warn("providers.intent is not configured; classification will rely on guardrails and the keyword table only")
	}
	if cfg.Providers.TTS.Name == "" {
		slog.Warn("providers.tts is not configured; replies will be logged but not spoken")
	}
	if cfg.Providers.ASRFallback.Name != "" &&
		cfg.Providers.ASRFallback.Name == cfg.Providers.ASR.Name &&
		cfg.Providers.ASRFallback.Model == cfg.Providers.ASR.Model {
		slog.Warn("providers.asr_fallback duplicates providers.asr; the fallback adds no redundancy",
			"name", cfg.Providers.ASR.Name,
		)
	}
	if cfg.Providers.TTSFallback.Name != "" && cfg.Providers.TTSFallback.Name == cfg.Providers.TTS.Name {
		slog.Warn("providers.tts_fallback names the same provider as providers.tts; the fallback adds no redundancy",
			"name", cfg.Providers.TTS.Name,
		)
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
