package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dhvani-ai/dhvani/internal/text/fuzzy"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
)

// Thresholds are the tuned confidence gates of the cascade. These moved
// repeatedly during field tuning, so they are configuration, not law; the
// zero value gets the current production numbers.
type Thresholds struct {
	// ModelAccept is the minimum model confidence for acceptance.
	// Default: 0.82.
	ModelAccept float64

	// StopStrict is the model confidence at which a stop prediction is
	// accepted without keyword corroboration. Default: 0.97.
	StopStrict float64

	// FallbackConfidence is reported for fallback-sourced results.
	// Default: 0.90.
	FallbackConfidence float64

	// FallbackFuzzy is the minimum 0–100 set-fuzzy score in the second
	// fallback pass. Default: 85.
	FallbackFuzzy float64

	// MinKeywordRunes excludes short keywords from fuzzy fallback matching;
	// common short substrings otherwise cause spurious hits. Default: 3.
	MinKeywordRunes int
}

func (t Thresholds) withDefaults() Thresholds {
	if t.ModelAccept <= 0 {
		t.ModelAccept = 0.82
	}
	if t.StopStrict <= 0 {
		t.StopStrict = 0.97
	}
	if t.FallbackConfidence <= 0 {
		t.FallbackConfidence = 0.90
	}
	if t.FallbackFuzzy <= 0 {
		t.FallbackFuzzy = 85
	}
	if t.MinKeywordRunes <= 0 {
		t.MinKeywordRunes = 3
	}
	return t
}

// Resolver runs the classification cascade. Immutable after construction and
// safe for concurrent use.
type Resolver struct {
	classifier intentmodel.Classifier
	thresholds Thresholds
}

// Option is a functional option for configuring a Resolver.
type Option func(*Resolver)

// WithThresholds overrides the default confidence gates.
func WithThresholds(t Thresholds) Option {
	return func(r *Resolver) { r.thresholds = t }
}

// NewResolver builds a Resolver around the given model. A nil classifier is
// allowed: the resolver then runs guardrail and fallback stages only.
func NewResolver(classifier intentmodel.Classifier, opts ...Option) *Resolver {
	r := &Resolver{classifier: classifier}
	for _, o := range opts {
		o(r)
	}
	r.thresholds = r.thresholds.withDefaults()
	return r
}

// Resolve maps normalized text to an intent. It never fails: model errors
// degrade to the keyword stages and absence of any match yields Unknown.
func (r *Resolver) Resolve(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Intent: Unknown, Confidence: 0, Source: SourceModel}
	}

	tokens := tokenize(text)

	if res, ok := r.guardrail(tokens); ok {
		return res
	}

	modelConf := 0.0
	if r.classifier != nil {
		scores, err := r.classifier.Classify(ctx, text)
		switch {
		case err != nil:
			slog.Warn("intent model unavailable, using fallback only", "error", err)
		case len(scores) > 0:
			top := scores[0]
			modelConf = top.Score
			if res, ok := r.acceptModel(top, text, tokens); ok {
				return res
			}
		}
	}

	if res, ok := r.fallback(text, tokens); ok {
		return res
	}

	return Result{Intent: Unknown, Confidence: modelConf, Source: SourceModel}
}

// guardrail returns a deterministic override when any guardrail keyword is
// present as a whole token.
func (r *Resolver) guardrail(tokens map[string]struct{}) (Result, bool) {
	for _, g := range guardrails {
		for _, kw := range g.keywords {
			if _, ok := tokens[fuzzy.Fold(kw)]; ok {
				return Result{Intent: g.intent, Confidence: MaxConfidence, Source: SourceGuardrail}, true
			}
		}
	}
	return Result{}, false
}

// acceptModel gates the model's arg-max label. Stop needs corroboration: a
// literal stop keyword in the text, or confidence at the strict threshold.
func (r *Resolver) acceptModel(top intentmodel.LabelScore, text string, tokens map[string]struct{}) (Result, bool) {
	if top.Score < r.thresholds.ModelAccept {
		return Result{}, false
	}
	if top.Label == Stop && top.Score < r.thresholds.StopStrict && !hasStopKeyword(text, tokens) {
		slog.Debug("rejecting uncorroborated stop prediction", "confidence", top.Score)
		return Result{}, false
	}
	return Result{Intent: top.Label, Confidence: top.Score, Source: SourceModel}, true
}

// fallback runs the two keyword fallback passes: exact whole-token
// membership first, then set-fuzzy matching of the full text against longer
// keywords.
func (r *Resolver) fallback(text string, tokens map[string]struct{}) (Result, bool) {
	for _, f := range fallbackTable {
		for _, kw := range f.keywords {
			if _, ok := tokens[fuzzy.Fold(kw)]; ok {
				return Result{Intent: f.intent, Confidence: r.thresholds.FallbackConfidence, Source: SourceFallback}, true
			}
		}
	}

	folded := fuzzy.Fold(text)
	bestIntent := ""
	bestScore := 0.0
	for _, f := range fallbackTable {
		for _, kw := range f.keywords {
			if len([]rune(kw)) < r.thresholds.MinKeywordRunes {
				continue
			}
			if s := fuzzy.PartialRatio(folded, fuzzy.Fold(kw)); s > bestScore {
				bestScore = s
				bestIntent = f.intent
			}
		}
	}
	if bestScore >= r.thresholds.FallbackFuzzy {
		return Result{Intent: bestIntent, Confidence: r.thresholds.FallbackConfidence, Source: SourceFallback}, true
	}
	return Result{}, false
}

// hasStopKeyword reports whether the text corroborates a stop intent, by
// whole token or substring.
func hasStopKeyword(text string, tokens map[string]struct{}) bool {
	folded := fuzzy.Fold(text)
	for _, kw := range stopKeywords {
		k := fuzzy.Fold(kw)
		if _, ok := tokens[k]; ok {
			return true
		}
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// tokenize splits text into a set of folded whitespace-delimited words,
// trimming clinging punctuation.
func tokenize(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		w = strings.Trim(fuzzy.Fold(w), ".,!?;:।\"'")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
