// Package config provides the configuration schema, loader, and provider
// registry for the Dhvani voice assistant.
package config

// LogLevel controls log verbosity for the assistant.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Dhvani.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Audio     AudioConfig     `yaml:"audio"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Correct   CorrectConfig   `yaml:"correct"`
	Intent    IntentConfig    `yaml:"intent"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig holds logging and telemetry settings.
type ServerConfig struct {
	// LogLevel controls verbosity. Defaults to "info" when empty.
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr is the TCP address the Prometheus scrape endpoint listens
	// on (e.g., ":9090"). When empty, no metrics endpoint is started.
	MetricsAddr string `yaml:"metrics_addr"`
}

// AudioConfig holds capture-path parameters. The whole pipeline assumes a
// single fixed rate and frame size, so these apply to the VAD and the
// segmenter as well.
type AudioConfig struct {
	// SampleRate in Hz. Defaults to 16000.
	SampleRate int `yaml:"sample_rate"`

	// FrameMs is the capture frame duration in milliseconds. Frame-level
	// detectors accept 10, 20, or 30. Defaults to 30.
	FrameMs int `yaml:"frame_ms"`
}

// SegmenterConfig holds the turn-segmentation thresholds. Zero fields fall
// back to the segmenter package defaults.
type SegmenterConfig struct {
	// RingFrames is the pre-trigger ring buffer capacity in frames.
	RingFrames int `yaml:"ring_frames"`

	// TriggerRatio is the voiced fraction of the ring buffer that starts a
	// recording. Must lie in (0, 1].
	TriggerRatio float64 `yaml:"trigger_ratio"`

	// SilenceMs is the consecutive-silence duration that ends a recording,
	// in milliseconds.
	SilenceMs int `yaml:"silence_ms"`

	// MinSpeechMs is the minimum captured speech for a recording to count as
	// a turn, in milliseconds.
	MinSpeechMs int `yaml:"min_speech_ms"`

	// MaxTurnMs is the hard cap on recording duration, in milliseconds.
	MaxTurnMs int `yaml:"max_turn_ms"`
}

// CorrectConfig holds text-correction settings.
type CorrectConfig struct {
	// FuzzyThreshold is the minimum similarity score (0–100) for a word to
	// snap to a vocabulary form. Defaults to 75.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// ExactOnly disables fuzzy vocabulary matching, keeping only the exact
	// form lookup. Useful on constrained hardware.
	ExactOnly bool `yaml:"exact_only"`
}

// IntentConfig holds the confidence gates of the intent cascade. Zero fields
// fall back to the intent package defaults.
type IntentConfig struct {
	// ModelAccept is the minimum model confidence for a prediction to be
	// accepted without corroboration. Range [0, 1].
	ModelAccept float64 `yaml:"model_accept"`

	// StopStrict is the confidence above which a stop prediction is accepted
	// even without a stop keyword in the text. Range [0, 1].
	StopStrict float64 `yaml:"stop_strict"`

	// FallbackConfidence is the confidence assigned to keyword-table matches.
	// Range [0, 1].
	FallbackConfidence float64 `yaml:"fallback_confidence"`

	// KeywordFuzzy is the minimum partial-ratio score (0–100) for a fuzzy
	// keyword match in the fallback table.
	KeywordFuzzy int `yaml:"keyword_fuzzy"`

	// MinKeywordRunes is the minimum keyword length, in runes, considered for
	// fuzzy matching.
	MinKeywordRunes int `yaml:"min_keyword_runes"`
}

// CacheConfig holds response-cache prewarm settings.
type CacheConfig struct {
	// Concurrency bounds parallel synthesis during prewarm. Defaults to 2.
	Concurrency int `yaml:"concurrency"`

	// ItemTimeoutMs bounds the synthesis of a single phrase during prewarm,
	// in milliseconds.
	ItemTimeoutMs int `yaml:"item_timeout_ms"`
}

// ProvidersConfig declares which provider implementation to use for each
// pipeline stage. Each entry selects a named provider registered in the
// [Registry].
type ProvidersConfig struct {
	ASR         ProviderEntry `yaml:"asr"`
	ASRFallback ProviderEntry `yaml:"asr_fallback"`
	VAD         ProviderEntry `yaml:"vad"`
	Intent      ProviderEntry `yaml:"intent"`
	TTS         ProviderEntry `yaml:"tts"`
	TTSFallback ProviderEntry `yaml:"tts_fallback"`
	Audio       ProviderEntry `yaml:"audio"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
// Every provider runs locally, so the block carries file paths rather than
// endpoints or keys.
type ProviderEntry struct {
	// Name selects the registered provider implementation
	// (e.g., "whisper", "onnx", "piper").
	Name string `yaml:"name"`

	// Model is the path to the provider's model file, for providers that
	// load one (Whisper GGML, ONNX graph, Piper voice).
	Model string `yaml:"model"`

	// Vocab is the path to the tokenizer vocabulary, for the ONNX intent
	// classifier.
	Vocab string `yaml:"vocab"`

	// Labels is the path to the label-map JSON, for the ONNX intent
	// classifier.
	Labels string `yaml:"labels"`

	// Library is the path to a native shared library required by the
	// provider (e.g., libonnxruntime.so). Leave empty to use the loader's
	// default search path.
	Library string `yaml:"library"`

	// Binary overrides the provider's external executable path, for
	// subprocess-backed providers (piper, espeak-ng).
	Binary string `yaml:"binary"`

	// Language is the language hint passed to the provider (BCP-47-ish short
	// code, e.g., "hi").
	Language string `yaml:"language"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}
