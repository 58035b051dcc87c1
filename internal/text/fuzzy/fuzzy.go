// Package fuzzy provides the 0–100 edit-similarity scores used by lexical
// correction and intent fallback matching.
package fuzzy

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Ratio returns a normalized Levenshtein similarity between a and b on a
// 0–100 scale: 100 means identical, 0 means nothing in common. Lengths are
// counted in runes so Devanagari scores the same as ASCII.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := matchr.Levenshtein(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// PartialRatio returns the best Ratio between needle and any rune window of
// the same length inside haystack. It answers "does this keyword appear,
// possibly misspelled, anywhere in the text" for needles shorter than the
// text. When the needle is not shorter, it degrades to plain Ratio.
func PartialRatio(haystack, needle string) float64 {
	h, n := []rune(haystack), []rune(needle)
	if len(n) == 0 || len(h) == 0 {
		return Ratio(haystack, needle)
	}
	if len(n) >= len(h) {
		return Ratio(haystack, needle)
	}

	best := 0.0
	for i := 0; i+len(n) <= len(h); i++ {
		if s := Ratio(string(h[i:i+len(n)]), needle); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Fold lower-cases text for case-insensitive comparison. Devanagari is
// unaffected; Romanized noise is not.
func Fold(s string) string { return strings.ToLower(s) }
