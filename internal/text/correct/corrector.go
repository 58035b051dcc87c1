// Package correct implements the lexical correction cascade that turns noisy
// transcribed text into the normalized Hindi the intent resolver expects.
//
// The cascade runs strictly ordered passes, each consuming the previous
// pass's full output: script bridging, whitespace normalization, noise-token
// and elongation repair, ordered regex rules, and per-word vocabulary-anchored
// fuzzy correction. Applying the cascade to already-canonical text leaves it
// unchanged.
package correct

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhvani-ai/dhvani/internal/text/fuzzy"
	"github.com/dhvani-ai/dhvani/internal/text/script"
)

// defaultFuzzyThreshold is the minimum 0–100 similarity for a vocabulary
// replacement in the per-word pass.
const defaultFuzzyThreshold = 75

// Observer receives a before/after pair whenever the cascade changed the
// text.
type Observer func(before, after string)

// wordMatcher is the per-word correction strategy. Exactly one is selected
// at construction, so the cascade itself never branches on capability.
type wordMatcher interface {
	correctWord(word string) string
}

// Corrector applies the full cascade. It is immutable after New and safe for
// concurrent use.
type Corrector struct {
	rules    []compiledRule
	noise    map[string]struct{}
	matcher  wordMatcher
	observer Observer
}

type compiledRule struct {
	re   *regexp.Regexp
	repl string
}

// Option is a functional option for configuring a Corrector.
type Option func(*settings)

type settings struct {
	rules     []Rule
	noise     []string
	vocab     []VocabularyEntry
	threshold float64
	exactOnly bool
	observer  Observer
}

// WithRules replaces the default rule set.
func WithRules(rules []Rule) Option {
	return func(s *settings) { s.rules = rules }
}

// WithNoiseTokens replaces the default filler-token set.
func WithNoiseTokens(tokens []string) Option {
	return func(s *settings) { s.noise = tokens }
}

// WithVocabulary replaces the default vocabulary table.
func WithVocabulary(vocab []VocabularyEntry) Option {
	return func(s *settings) { s.vocab = vocab }
}

// WithFuzzyThreshold overrides the 0–100 acceptance threshold for the
// per-word pass. Defaults to 75.
func WithFuzzyThreshold(t float64) Option {
	return func(s *settings) { s.threshold = t }
}

// WithExactOnly disables fuzzy word replacement, keeping only exact
// vocabulary recognition. Words then pass through unchanged unless a regex
// rule rewrote them.
func WithExactOnly() Option {
	return func(s *settings) { s.exactOnly = true }
}

// WithObserver registers a callback invoked whenever Correct changes its
// input.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// New builds a Corrector, compiling every rule pattern. A malformed pattern
// is a construction error, not a runtime one.
func New(opts ...Option) (*Corrector, error) {
	cfg := settings{
		rules:     DefaultRules(),
		noise:     DefaultNoiseTokens(),
		vocab:     DefaultVocabulary(),
		threshold: defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Corrector{
		noise:    make(map[string]struct{}, len(cfg.noise)),
		observer: cfg.observer,
	}
	for _, r := range cfg.rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("correct: compile rule %q: %w", r.Pattern, err)
		}
		c.rules = append(c.rules, compiledRule{re: re, repl: r.Replacement})
	}
	for _, tok := range cfg.noise {
		c.noise[fuzzy.Fold(tok)] = struct{}{}
	}

	if cfg.exactOnly {
		c.matcher = exactMatcher{vocab: cfg.vocab}
	} else {
		c.matcher = fuzzyMatcher{vocab: cfg.vocab, threshold: cfg.threshold}
	}
	return c, nil
}

// Correct runs the cascade. Empty or whitespace-only input returns an empty
// string; no input is an error.
func (c *Corrector) Correct(text string) string {
	original := text

	text = script.Bridge(text)
	text = collapseWhitespace(text)
	text = c.stripNoise(text)
	text = collapseRuns(text)
	for _, r := range c.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	text = collapseWhitespace(text)
	text = c.correctWords(text)

	if text != original && c.observer != nil {
		c.observer(original, text)
	}
	return text
}

// collapseWhitespace shrinks whitespace runs to single spaces and trims the
// ends.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// stripNoise removes filler tokens as whole words, case-insensitive, along
// with any punctuation clinging to them.
func (c *Corrector) stripNoise(text string) string {
	var kept []string
	for _, w := range strings.Fields(text) {
		bare := strings.Trim(fuzzy.Fold(w), ".,!?;:")
		if _, drop := c.noise[bare]; !drop && bare != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// collapseRuns shortens any run of 3+ identical consecutive runes to 2,
// repairing the recognizer's phoneme-elongation stutter.
func collapseRuns(text string) string {
	var (
		b     strings.Builder
		prev  rune = -1
		count int
	)
	b.Grow(len(text))
	for _, r := range text {
		if r == prev {
			count++
		} else {
			prev = r
			count = 1
		}
		if count <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// correctWords applies the selected per-word strategy to every
// whitespace-delimited word.
func (c *Corrector) correctWords(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = c.matcher.correctWord(w)
	}
	return strings.Join(words, " ")
}

// fuzzyMatcher replaces a word with its best-scoring vocabulary form when
// similarity clears the threshold. An exact (case-insensitive) hit against
// any form short-circuits, protecting already-correct longer words from
// over-eager replacement.
type fuzzyMatcher struct {
	vocab     []VocabularyEntry
	threshold float64
}

func (m fuzzyMatcher) correctWord(word string) string {
	if len([]rune(word)) < 2 {
		return word
	}
	folded := fuzzy.Fold(word)

	for _, entry := range m.vocab {
		for _, form := range entry.Forms {
			if folded == fuzzy.Fold(form) {
				return word
			}
		}
	}

	best := ""
	bestScore := 0.0
	for _, entry := range m.vocab {
		for _, form := range entry.Forms {
			if s := fuzzy.Ratio(folded, fuzzy.Fold(form)); s > bestScore {
				bestScore = s
				best = form
			}
		}
	}
	if bestScore >= m.threshold {
		return best
	}
	return word
}

// exactMatcher is the exact-only strategy: it never rewrites, it only exists
// so the cascade shape is identical whichever strategy startup negotiation
// picked.
type exactMatcher struct {
	vocab []VocabularyEntry
}

func (m exactMatcher) correctWord(word string) string { return word }
