// Command dhvani is the main entry point for the Dhvani offline Hindi voice
// assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhvani-ai/dhvani/internal/app"
	"github.com/dhvani-ai/dhvani/internal/config"
	"github.com/dhvani-ai/dhvani/internal/observe"
	"github.com/dhvani-ai/dhvani/internal/resilience"
	"github.com/dhvani-ai/dhvani/pkg/audio/portaudio"
	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
	"github.com/dhvani-ai/dhvani/pkg/provider/asr/whisper"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel/onnx"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts/espeak"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts/piper"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad/energy"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad/webrtc"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "dhvani: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "dhvani: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("dhvani starting",
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(flushCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	if cfg.Server.MetricsAddr != "" {
		go serveMetrics(cfg.Server.MetricsAddr)
	}

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg, cfg)

	// ── Instantiate providers ─────────────────────────────────────────────────
	providers, err := buildProviders(cfg, reg)
	if err != nil {
		slog.Error("failed to build providers", "err", err)
		return 1
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg)

	application, err := app.New(cfg, providers)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	slog.Info("assistant ready — press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("stopping…")
	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// serveMetrics exposes the Prometheus scrape endpoint. The OTel exporter
// registers with the default registry, which promhttp serves.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("metrics endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Warn("metrics endpoint stopped", "err", err)
	}
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the appropriate
// provider from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry, cfg *config.Config) {
	sampleRate := cfg.Audio.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	frameMs := cfg.Audio.FrameMs
	if frameMs == 0 {
		frameMs = 30
	}

	// ── ASR ───────────────────────────────────────────────────────────────────
	// The native Whisper transcriber, wrapped in the language-retry pass: a
	// low-confidence detection of the wrong language forces one retry with
	// the target language pinned.
	reg.RegisterASR("whisper", func(entry config.ProviderEntry) (asr.Transcriber, error) {
		lang := entry.Language
		if lang == "" {
			lang = "hi"
		}
		t, err := whisper.New(entry.Model,
			whisper.WithLanguage(lang),
			whisper.WithSampleRate(sampleRate),
		)
		if err != nil {
			return nil, err
		}
		return asr.WithLanguageRetry(t, lang), nil
	})

	// ── VAD ───────────────────────────────────────────────────────────────────
	reg.RegisterVAD("webrtc", func(entry config.ProviderEntry) (vad.Engine, error) {
		var opts []webrtc.Option
		if mode := optInt(entry.Options, "mode"); mode != 0 {
			opts = append(opts, webrtc.WithMode(mode))
		}
		return webrtc.New(opts...), nil
	})

	reg.RegisterVAD("energy", func(entry config.ProviderEntry) (vad.Engine, error) {
		return energy.New(), nil
	})

	// ── Intent ────────────────────────────────────────────────────────────────
	reg.RegisterIntent("onnx", func(entry config.ProviderEntry) (intentmodel.Classifier, error) {
		var opts []onnx.Option
		if entry.Library != "" {
			opts = append(opts, onnx.WithLibraryPath(entry.Library))
		}
		if n := optInt(entry.Options, "max_sequence_length"); n > 0 {
			opts = append(opts, onnx.WithMaxSequenceLength(n))
		}
		return onnx.New(entry.Model, entry.Vocab, entry.Labels, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────
	reg.RegisterTTS("piper", func(entry config.ProviderEntry) (tts.Synthesizer, error) {
		var opts []piper.Option
		if entry.Binary != "" {
			opts = append(opts, piper.WithBinary(entry.Binary))
		}
		return piper.New(entry.Model, opts...)
	})

	reg.RegisterTTS("espeak-ng", func(entry config.ProviderEntry) (tts.Synthesizer, error) {
		var opts []espeak.Option
		if entry.Binary != "" {
			opts = append(opts, espeak.WithBinary(entry.Binary))
		}
		if entry.Language != "" {
			opts = append(opts, espeak.WithVoice(entry.Language))
		}
		return espeak.New(opts...), nil
	})

	// ── Audio ─────────────────────────────────────────────────────────────────
	reg.RegisterAudio("portaudio", func(entry config.ProviderEntry) (config.Devices, error) {
		src, err := portaudio.NewSource(sampleRate, sampleRate*frameMs/1000)
		if err != nil {
			return config.Devices{}, err
		}
		player, err := portaudio.NewPlayer()
		if err != nil {
			src.Close()
			return config.Devices{}, err
		}
		return config.Devices{Source: src, Player: player}, nil
	})
}

// buildProviders instantiates all providers named in cfg using the registry
// and returns them in an [app.Providers] struct for the application to consume.
func buildProviders(cfg *config.Config, reg *config.Registry) (*app.Providers, error) {
	ps := &app.Providers{}

	if name := cfg.Providers.ASR.Name; name != "" {
		p, err := reg.CreateASR(cfg.Providers.ASR)
		if err != nil {
			return nil, fmt.Errorf("create asr provider %q: %w", name, err)
		}
		ps.ASR = p
		slog.Info("provider created", "kind", "asr", "name", name)
	}

	// A secondary recognizer (typically a smaller Whisper model) forms an
	// ordered failover chain behind the primary.
	if name := cfg.Providers.ASRFallback.Name; name != "" && ps.ASR != nil {
		fb, err := reg.CreateASR(cfg.Providers.ASRFallback)
		if err != nil {
			return nil, fmt.Errorf("create asr fallback provider %q: %w", name, err)
		}
		chain := resilience.NewTranscriberFallback(ps.ASR, cfg.Providers.ASR.Name, resilience.FallbackConfig{})
		chain.AddFallback(name, fb)
		ps.ASR = chain
		slog.Info("provider created", "kind", "asr_fallback", "name", name)
	}

	if name := cfg.Providers.VAD.Name; name != "" {
		p, err := reg.CreateVAD(cfg.Providers.VAD)
		if err != nil {
			return nil, fmt.Errorf("create vad provider %q: %w", name, err)
		}
		ps.VAD = p
		slog.Info("provider created", "kind", "vad", "name", name)
	}

	if name := cfg.Providers.Intent.Name; name != "" {
		p, err := reg.CreateIntent(cfg.Providers.Intent)
		if err != nil {
			return nil, fmt.Errorf("create intent provider %q: %w", name, err)
		}
		ps.Intent = p
		slog.Info("provider created", "kind", "intent", "name", name)
	}

	if name := cfg.Providers.TTS.Name; name != "" {
		p, err := reg.CreateTTS(cfg.Providers.TTS)
		if err != nil {
			return nil, fmt.Errorf("create tts provider %q: %w", name, err)
		}
		ps.TTS = p
		slog.Info("provider created", "kind", "tts", "name", name)
	}

	// Wrap the primary synthesizer in the circuit-broken fallback chain when
	// a secondary voice is configured.
	if name := cfg.Providers.TTSFallback.Name; name != "" && ps.TTS != nil {
		fb, err := reg.CreateTTS(cfg.Providers.TTSFallback)
		if err != nil {
			return nil, fmt.Errorf("create tts fallback provider %q: %w", name, err)
		}
		chain := resilience.NewSpeechFallback(ps.TTS, resilience.FallbackConfig{})
		chain.AddFallback(fb)
		ps.TTS = chain
		slog.Info("provider created", "kind", "tts_fallback", "name", name)
	}

	if name := cfg.Providers.Audio.Name; name != "" {
		devices, err := reg.CreateAudio(cfg.Providers.Audio)
		if err != nil {
			return nil, fmt.Errorf("create audio provider %q: %w", name, err)
		}
		ps.Source = devices.Source
		ps.Player = devices.Player
		slog.Info("provider created", "kind", "audio", "name", name)
	}

	return ps, nil
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║          Dhvani — startup summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("ASR", cfg.Providers.ASR.Name, cfg.Providers.ASR.Model)
	printProvider("ASR fallback", cfg.Providers.ASRFallback.Name, cfg.Providers.ASRFallback.Model)
	printProvider("VAD", cfg.Providers.VAD.Name, "")
	printProvider("Intent", cfg.Providers.Intent.Name, cfg.Providers.Intent.Model)
	printProvider("TTS", cfg.Providers.TTS.Name, cfg.Providers.TTS.Model)
	printProvider("TTS fallback", cfg.Providers.TTSFallback.Name, "")
	printProvider("Audio", cfg.Providers.Audio.Name, "")
	if cfg.Server.MetricsAddr != "" {
		fmt.Printf("║  Metrics addr    : %-19s ║\n", cfg.Server.MetricsAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optInt extracts an integer value from a provider Options map[string]any.
// Returns 0 if the map is nil, the key is absent, or the value is not an int.
func optInt(opts map[string]any, key string) int {
	if opts == nil {
		return 0
	}
	v, ok := opts[key]
	if !ok {
		return 0
	}
	n, ok := v.(int)
	if !ok {
		return 0
	}
	return n
}
