package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dhvani-ai/dhvani/pkg/audio"
	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
	"github.com/dhvani-ai/dhvani/pkg/provider/tts"
	"github.com/dhvani-ai/dhvani/pkg/provider/vad"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Devices bundles the capture and playback halves of an audio backend. Both
// come from the same provider so they share device initialisation.
type Devices struct {
	Source audio.Source
	Player audio.Player
}

// Registry maps provider names to their constructor functions for each
// provider type. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	asr    map[string]func(ProviderEntry) (asr.Transcriber, error)
	vad    map[string]func(ProviderEntry) (vad.Engine, error)
	intent map[string]func(ProviderEntry) (intentmodel.Classifier, error)
	tts    map[string]func(ProviderEntry) (tts.Synthesizer, error)
	audio  map[string]func(ProviderEntry) (Devices, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		asr:    make(map[string]func(ProviderEntry) (asr.Transcriber, error)),
		vad:    make(map[string]func(ProviderEntry) (vad.Engine, error)),
		intent: make(map[string]func(ProviderEntry) (intentmodel.Classifier, error)),
		tts:    make(map[string]func(ProviderEntry) (tts.Synthesizer, error)),
		audio:  make(map[string]func(ProviderEntry) (Devices, error)),
	}
}

// RegisterASR registers a speech-recognition provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterASR(name string, factory func(ProviderEntry) (asr.Transcriber, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asr[name] = factory
}

// RegisterVAD registers a VAD engine factory under name.
func (r *Registry) RegisterVAD(name string, factory func(ProviderEntry) (vad.Engine, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vad[name] = factory
}

// RegisterIntent registers an intent classifier factory under name.
func (r *Registry) RegisterIntent(name string, factory func(ProviderEntry) (intentmodel.Classifier, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intent[name] = factory
}

// RegisterTTS registers a speech synthesis provider factory under name.
func (r *Registry) RegisterTTS(name string, factory func(ProviderEntry) (tts.Synthesizer, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts[name] = factory
}

// RegisterAudio registers an audio device factory under name.
func (r *Registry) RegisterAudio(name string, factory func(ProviderEntry) (Devices, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audio[name] = factory
}

// CreateASR instantiates a transcriber using the factory registered under entry.Name.
// Returns [ErrProviderNotRegistered] if no factory has been registered for that name.
func (r *Registry) CreateASR(entry ProviderEntry) (asr.Transcriber, error) {
	r.mu.RLock()
	factory, ok := r.asr[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: asr/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateVAD instantiates a VAD engine using the factory registered under entry.Name.
func (r *Registry) CreateVAD(entry ProviderEntry) (vad.Engine, error) {
	r.mu.RLock()
	factory, ok := r.vad[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: vad/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateIntent instantiates an intent classifier using the factory registered under entry.Name.
func (r *Registry) CreateIntent(entry ProviderEntry) (intentmodel.Classifier, error) {
	r.mu.RLock()
	factory, ok := r.intent[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: intent/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateTTS instantiates a synthesizer using the factory registered under entry.Name.
func (r *Registry) CreateTTS(entry ProviderEntry) (tts.Synthesizer, error) {
	r.mu.RLock()
	factory, ok := r.tts[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: tts/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateAudio instantiates the capture and playback devices using the factory
// registered under entry.Name.
func (r *Registry) CreateAudio(entry ProviderEntry) (Devices, error) {
	r.mu.RLock()
	factory, ok := r.audio[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return Devices{}, fmt.Errorf("%w: audio/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
