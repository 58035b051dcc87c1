package script_test

import (
	"strings"
	"testing"

	"github.com/dhvani-ai/dhvani/internal/text/script"
)

func TestBridge_UrduHelpPhrase(t *testing.T) {
	t.Parallel()

	// "aap meri madad kar sakte hain" in Urdu script. The bridge only has
	// to recover the keywords, not produce polished Hindi.
	got := script.Bridge("آپ میری مدد کر سکتے ہیں")
	if !strings.Contains(got, "मदद") {
		t.Errorf("Bridge output %q does not contain मदद", got)
	}
	if !strings.Contains(got, "कर") {
		t.Errorf("Bridge output %q does not contain कर", got)
	}
}

func TestBridge_DropsUnmappedPersoArabic(t *testing.T) {
	t.Parallel()

	// U+061F ARABIC QUESTION MARK has no table entry and must vanish.
	got := script.Bridge("مدد؟")
	if strings.ContainsRune(got, '؟') {
		t.Errorf("unmapped Perso-Arabic rune survived: %q", got)
	}
	if got != "मदद" {
		t.Errorf("Bridge = %q, want मदद", got)
	}
}

func TestBridge_PassThrough(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"समय क्या है",
		"what time is it",
		"बंद करो 123!",
	} {
		if got := script.Bridge(text); got != text {
			t.Errorf("Bridge(%q) = %q, want unchanged", text, got)
		}
	}
}

func TestBridge_Deterministic(t *testing.T) {
	t.Parallel()

	in := "آج کا سماچار"
	first := script.Bridge(in)
	if second := script.Bridge(in); second != first {
		t.Errorf("Bridge not deterministic: %q vs %q", first, second)
	}
	// Output must be free of Perso-Arabic entirely.
	for _, r := range first {
		if r >= 0x0600 && r <= 0x06FF {
			t.Errorf("Perso-Arabic rune %U left in output %q", r, first)
		}
	}
}
