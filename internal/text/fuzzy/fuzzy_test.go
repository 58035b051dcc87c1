package fuzzy_test

import (
	"testing"

	"github.com/dhvani-ai/dhvani/internal/text/fuzzy"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"समय", "समय", 100, 100},
		{"", "", 100, 100},
		{"समये", "समय", 75, 99},
		{"नमस्त", "नमस्ते", 75, 99},
		{"stop", "stap", 75, 99},
		{"समय", "दरवाज़ा", 0, 30},
		{"abc", "xyz", 0, 0},
	}
	for _, tc := range cases {
		got := fuzzy.Ratio(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Errorf("Ratio(%q, %q) = %v, want in [%v, %v]", tc.a, tc.b, got, tc.min, tc.max)
		}
	}
}

func TestRatio_Symmetric(t *testing.T) {
	t.Parallel()

	if a, b := fuzzy.Ratio("बंद", "बन्द"), fuzzy.Ratio("बन्द", "बंद"); a != b {
		t.Errorf("Ratio asymmetric: %v vs %v", a, b)
	}
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	// The keyword appears verbatim inside a longer text.
	if got := fuzzy.PartialRatio("अभी समय क्या है", "समय"); got != 100 {
		t.Errorf("PartialRatio embedded exact = %v, want 100", got)
	}
	// A slightly misspelled embedded keyword still scores high.
	if got := fuzzy.PartialRatio("अभी समये बताओ", "समय"); got < 60 {
		t.Errorf("PartialRatio embedded misspelling = %v, want >= 60", got)
	}
	// Unrelated text scores low.
	if got := fuzzy.PartialRatio("दरवाज़ा खोलो", "समाचार"); got > 50 {
		t.Errorf("PartialRatio unrelated = %v, want <= 50", got)
	}
	// Needle longer than haystack degrades to Ratio.
	if got := fuzzy.PartialRatio("समय", "समय क्या है"); got >= 100 {
		t.Errorf("PartialRatio long needle = %v, want < 100", got)
	}
}
