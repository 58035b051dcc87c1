package intent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dhvani-ai/dhvani/internal/intent"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel/mock"
)

func dist(label string, score float64) []intentmodel.LabelScore {
	rest := (1 - score) / 2
	return []intentmodel.LabelScore{
		{Label: label, Score: score},
		{Label: "hello", Score: rest},
		{Label: "time", Score: rest},
	}
}

func TestResolve_GuardrailPrecedence(t *testing.T) {
	t.Parallel()

	// The model confidently disagrees; the guardrail must win anyway.
	clf := &mock.Classifier{Default: dist("time", 0.99)}
	r := intent.NewResolver(clf)

	cases := []struct {
		text string
		want string
	}{
		{"आज की तारीख बताओ", intent.Date},
		{"गाना बजाओ", intent.Music},
		{"मजाक सुनाओ", intent.Joke},
		{"बहुत धन्यवाद", intent.ThankYou},
		{"समाचार बताओ", intent.News},
		{"नाचो जरा", intent.Dance},
	}
	for _, tc := range cases {
		got := r.Resolve(context.Background(), tc.text)
		if got.Intent != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.text, got.Intent, tc.want)
		}
		if got.Source != intent.SourceGuardrail {
			t.Errorf("Resolve(%q) source = %q, want guardrail", tc.text, got.Source)
		}
		if got.Confidence != intent.MaxConfidence {
			t.Errorf("Resolve(%q) confidence = %v, want max", tc.text, got.Confidence)
		}
	}
}

func TestResolve_ModelAcceptance(t *testing.T) {
	t.Parallel()

	clf := &mock.Classifier{Default: dist("weather", 0.91)}
	r := intent.NewResolver(clf)

	got := r.Resolve(context.Background(), "कैसा रहेगा कल")
	if got.Intent != intent.Weather || got.Source != intent.SourceModel {
		t.Errorf("Resolve = %+v, want weather from model", got)
	}
	if got.Confidence != 0.91 {
		t.Errorf("Confidence = %v, want model score passed through", got.Confidence)
	}
}

func TestResolve_StopCorroboration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		text  string
		score float64
		want  string
	}{
		// Confident but uncorroborated: must not terminate the session.
		{"mid confidence no keyword", "चुप रहो", 0.90, intent.Unknown},
		// Same confidence with a stop keyword present: accepted.
		{"mid confidence with keyword", "बंद हो जाओ", 0.90, intent.Stop},
		// Substring corroboration counts too.
		{"keyword inside word", "बंदकर", 0.90, intent.Stop},
		// At the strict threshold no keyword is needed.
		{"strict confidence", "चुप रहो", 0.98, intent.Stop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			clf := &mock.Classifier{Default: dist("stop", tc.score)}
			r := intent.NewResolver(clf)
			got := r.Resolve(context.Background(), tc.text)
			if got.Intent != tc.want {
				t.Errorf("Resolve(%q, score %v) = %q, want %q", tc.text, tc.score, got.Intent, tc.want)
			}
		})
	}
}

func TestResolve_FallbackExactToken(t *testing.T) {
	t.Parallel()

	// Model is unsure; exact fallback tokens decide.
	clf := &mock.Classifier{Default: dist("hello", 0.40)}
	r := intent.NewResolver(clf)

	got := r.Resolve(context.Background(), "बंद करो")
	if got.Intent != intent.Stop {
		t.Fatalf("Resolve = %q, want stop", got.Intent)
	}
	if got.Source != intent.SourceFallback {
		t.Errorf("source = %q, want fallback", got.Source)
	}
	if got.Confidence != 0.90 {
		t.Errorf("confidence = %v, want fallback confidence", got.Confidence)
	}
}

func TestResolve_FallbackFuzzy(t *testing.T) {
	t.Parallel()

	clf := &mock.Classifier{Default: dist("hello", 0.30)}
	r := intent.NewResolver(clf)

	// Misspelled keyword, no exact token: the set-fuzzy pass catches it.
	got := r.Resolve(context.Background(), "समये बताना")
	if got.Intent != intent.Time || got.Source != intent.SourceFallback {
		t.Errorf("Resolve = %+v, want time from fallback", got)
	}
}

func TestResolve_LoneFillerIsUnknown(t *testing.T) {
	t.Parallel()

	clf := &mock.Classifier{Default: dist("hello", 0.35)}
	r := intent.NewResolver(clf)

	got := r.Resolve(context.Background(), "अभी")
	if got.Intent != intent.Unknown {
		t.Fatalf("Resolve(अभी) = %q, want unknown", got.Intent)
	}
	if got.Confidence != 0.35 {
		t.Errorf("unknown confidence = %v, want sub-threshold model score", got.Confidence)
	}
}

func TestResolve_ModelUnavailable(t *testing.T) {
	t.Parallel()

	// A nil classifier degrades to keyword stages.
	r := intent.NewResolver(nil)
	if got := r.Resolve(context.Background(), "समय क्या है"); got.Intent != intent.Time {
		t.Errorf("Resolve without model = %q, want time via fallback", got.Intent)
	}

	// A failing classifier does the same, never erroring out.
	clf := &mock.Classifier{Err: errors.New("onnx session crashed")}
	r = intent.NewResolver(clf)
	if got := r.Resolve(context.Background(), "नमस्ते"); got.Intent != intent.Hello {
		t.Errorf("Resolve with failing model = %q, want hello via fallback", got.Intent)
	}
}

func TestResolve_EmptyText(t *testing.T) {
	t.Parallel()

	r := intent.NewResolver(nil)
	got := r.Resolve(context.Background(), "   ")
	if got.Intent != intent.Unknown || got.Confidence != 0 {
		t.Errorf("Resolve(empty) = %+v, want unknown at zero confidence", got)
	}
}

func TestResolve_PunctuationTolerantTokens(t *testing.T) {
	t.Parallel()

	r := intent.NewResolver(nil)
	got := r.Resolve(context.Background(), "मजाक, सुनाओ!")
	if got.Intent != intent.Joke || got.Source != intent.SourceGuardrail {
		t.Errorf("Resolve = %+v, want joke via guardrail despite punctuation", got)
	}
}

func TestResolve_CustomThresholds(t *testing.T) {
	t.Parallel()

	clf := &mock.Classifier{Default: dist("weather", 0.75)}
	r := intent.NewResolver(clf, intent.WithThresholds(intent.Thresholds{ModelAccept: 0.70}))

	got := r.Resolve(context.Background(), "बारिश होगी क्या कल")
	if got.Intent != intent.Weather || got.Source != intent.SourceModel {
		t.Errorf("Resolve = %+v, want weather accepted at lowered threshold", got)
	}
}
