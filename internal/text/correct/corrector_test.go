package correct_test

import (
	"strings"
	"testing"

	"github.com/dhvani-ai/dhvani/internal/text/correct"
)

func newCorrector(t *testing.T, opts ...correct.Option) *correct.Corrector {
	t.Helper()
	c, err := correct.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCorrect_RegexRepairs(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	cases := []struct {
		in, want string
	}{
		{"बन करो", "बंद करो"},
		{"वन करो", "बंद करो"},
		{"बंदकरो", "बंद करो"},
		{"समये क्य", "समय क्या"},
		{"नमस्त", "नमस्ते"},
		{"पलीज हेल्थ", "please help"},
		{"तारीक", "तारीख"},
		{"करदो", "कर दो"},
	}
	for _, tc := range cases {
		if got := c.Correct(tc.in); got != tc.want {
			t.Errorf("Correct(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCorrect_RomanizedBridging(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	got := c.Correct("abhi samay kya hai")
	if !strings.Contains(got, "समय") || !strings.Contains(got, "क्या") {
		t.Errorf("Correct(%q) = %q, want समय and क्या present", "abhi samay kya hai", got)
	}

	if got := c.Correct("tym kya hai"); !strings.Contains(got, "time") {
		t.Errorf("Correct shorthand = %q, want time present", got)
	}
}

func TestCorrect_JoinedPhrases(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	cases := []struct {
		in       string
		wantPart string
	}{
		{"Samayakya hai", "समय क्या"},
		{"bandkaro", "बंद करो"},
		{"Banthkaru Banthkaru", "बंद करो"},
		{"Bantujao bye", "बंद हो जाओ"},
	}
	for _, tc := range cases {
		if got := c.Correct(tc.in); !strings.Contains(got, tc.wantPart) {
			t.Errorf("Correct(%q) = %q, want %q present", tc.in, got, tc.wantPart)
		}
	}
}

func TestCorrect_NoiseAndElongation(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	// Fillers vanish, the command survives.
	got := c.Correct("TK bhai band karo")
	if strings.Contains(strings.ToLower(got), "tk") || strings.Contains(got, "bhai") {
		t.Errorf("noise tokens survived: %q", got)
	}
	if !strings.Contains(got, "बंद") {
		t.Errorf("command lost during noise strip: %q", got)
	}

	// Triple-letter stutter collapses to a double.
	if got := c.Correct("heeelp"); strings.Contains(got, "eee") {
		t.Errorf("elongation not collapsed: %q", got)
	}
}

func TestCorrect_UrduScriptInput(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	got := c.Correct("آپ میری مدد کر سکتے ہیں")
	if !strings.Contains(got, "मदद") {
		t.Errorf("Correct(urdu) = %q, want मदद present", got)
	}
	for _, r := range got {
		if r >= 0x0600 && r <= 0x06FF {
			t.Fatalf("Perso-Arabic residue in %q", got)
		}
	}
}

func TestCorrect_FuzzyVocabulary(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	// One-off misspellings snap to the vocabulary form.
	if got := c.Correct("सहयता चाहिए"); !strings.Contains(got, "सहायता") {
		t.Errorf("Correct = %q, want सहायता present", got)
	}
	// Exact vocabulary words must never be rewritten.
	if got := c.Correct("बन्द करो"); !strings.Contains(got, "बन्द") {
		t.Errorf("exact vocabulary form rewritten: %q", got)
	}
}

func TestCorrect_Idempotent(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	for _, canonical := range []string{
		"बंद करो",
		"समय क्या है",
		"नमस्ते",
		"आज की तारीख बताओ",
		"please help",
		"मौसम कैसा है",
	} {
		once := c.Correct(canonical)
		if once != canonical {
			t.Errorf("Correct(%q) = %q, want unchanged", canonical, once)
			continue
		}
		if twice := c.Correct(once); twice != once {
			t.Errorf("Correct not idempotent: %q -> %q", once, twice)
		}
	}
}

func TestCorrect_EmptyInput(t *testing.T) {
	t.Parallel()
	c := newCorrector(t)

	if got := c.Correct(""); got != "" {
		t.Errorf("Correct(\"\") = %q, want empty", got)
	}
	if got := c.Correct("   \t "); got != "" {
		t.Errorf("Correct(whitespace) = %q, want empty", got)
	}
}

func TestCorrect_ObserverFiresOnChange(t *testing.T) {
	t.Parallel()

	var events [][2]string
	c := newCorrector(t, correct.WithObserver(func(before, after string) {
		events = append(events, [2]string{before, after})
	}))

	c.Correct("बन करो")
	if len(events) != 1 {
		t.Fatalf("observer fired %d times, want 1", len(events))
	}
	if events[0][0] != "बन करो" || events[0][1] != "बंद करो" {
		t.Errorf("observer event = %v", events[0])
	}

	events = nil
	c.Correct("बंद करो")
	if len(events) != 0 {
		t.Errorf("observer fired on unchanged text: %v", events)
	}
}

func TestCorrect_ExactOnlyStrategy(t *testing.T) {
	t.Parallel()
	c := newCorrector(t, correct.WithExactOnly())

	// Regex rules still apply; fuzzy word replacement does not.
	if got := c.Correct("बन करो"); got != "बंद करो" {
		t.Errorf("Correct = %q, want regex repair to survive exact-only mode", got)
	}
	if got := c.Correct("सहयता"); got != "सहयता" {
		t.Errorf("Correct = %q, want no fuzzy rewrite in exact-only mode", got)
	}
}

func TestCorrect_RejectsBadRule(t *testing.T) {
	t.Parallel()

	_, err := correct.New(correct.WithRules([]correct.Rule{{Pattern: "(", Replacement: "x"}}))
	if err == nil {
		t.Error("New accepted an invalid pattern")
	}
}
