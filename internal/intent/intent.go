// Package intent maps normalized text to one discrete intent with a
// confidence and provenance.
//
// Resolution is a short-circuiting cascade: deterministic keyword guardrails
// first, then model inference gated by confidence thresholds, then a fuzzy
// keyword fallback, and finally unknown. The cascade never returns an error
// to the caller; a missing or failing model degrades to the keyword paths.
package intent

// Intent labels form a fixed closed set plus Unknown.
const (
	Time     = "time"
	Date     = "date"
	Hello    = "hello"
	Goodbye  = "goodbye"
	ThankYou = "thank_you"
	Help     = "help"
	Stop     = "stop"
	Dance    = "dance"
	Weather  = "weather"
	Joke     = "joke"
	Music    = "music"
	Alarm    = "alarm"
	News     = "news"
	Unknown  = "unknown"
)

// Source identifies which cascade stage produced a result.
type Source string

const (
	// SourceGuardrail marks a deterministic keyword override.
	SourceGuardrail Source = "guardrail"

	// SourceModel marks an accepted model inference.
	SourceModel Source = "model"

	// SourceFallback marks a fuzzy keyword fallback match.
	SourceFallback Source = "fallback"
)

// MaxConfidence is the confidence assigned to guardrail results; the
// guardrail is authoritative and bypasses the model.
const MaxConfidence = 1.0

// Result is one classification outcome. Never mutated after creation.
type Result struct {
	Intent     string
	Confidence float64
	Source     Source
}

// keywordSet pairs a category with its anchor keywords.
type keywordSet struct {
	intent   string
	keywords []string
}

// guardrails are the unambiguous lexical anchors, in fixed priority order.
// Disagreement between these keywords and the model is more likely model
// error than ambiguity, so a whole-token hit is authoritative. Stop is
// deliberately absent: terminating the session needs the corroboration
// logic in Resolve, not a hair trigger.
var guardrails = []keywordSet{
	{Date, []string{"तारीख", "तिथि", "डेट"}},
	{Music, []string{"गाना", "संगीत", "गीत"}},
	{Joke, []string{"मजाक", "चुटकुला", "joke"}},
	{ThankYou, []string{"धन्यवाद", "शुक्रिया", "thanks", "thank"}},
	{News, []string{"समाचार", "खबर", "news"}},
	{Dance, []string{"नाचो", "नाच", "डांस", "dance"}},
}

// fallbackTable is broader and more redundant than the guardrails, covering
// every intent. Stop leads so that termination keywords win ties.
var fallbackTable = []keywordSet{
	{Stop, []string{"बंद", "स्टॉप", "stop", "रुको", "रूको", "exit", "quit", "close", "बन्द", "समाप्त", "खत्म"}},
	{Time, []string{"समय", "टाइम", "time", "बजे", "घड़ी", "वक्त", "घंटा", "घंटे"}},
	{Date, []string{"तारीख", "तिथि", "डेट", "date", "आज", "दिन", "कैलेंडर"}},
	{Hello, []string{"नमस्ते", "नमस्कार", "हैलो", "हेलो", "hello", "hi", "हाय", "प्रणाम"}},
	{Goodbye, []string{"अलविदा", "अलवीदा", "बाय", "bye", "टाटा", "गुडबाय", "चलता", "जाता"}},
	{ThankYou, []string{"धन्यवाद", "शुक्रिया", "thanks", "thank", "थैंक", "आभार", "शुक्रीया"}},
	{Help, []string{"मदद", "हेल्प", "help", "सहायता", "सहायत"}},
	{Dance, []string{"नाचो", "नाच", "डांस", "dance"}},
	{Weather, []string{"मौसम", "weather", "बारिश", "धूप"}},
	{Joke, []string{"मजाक", "चुटकुला", "joke"}},
	{Music, []string{"गाना", "संगीत", "music", "गीत"}},
	{Alarm, []string{"अलार्म", "alarm"}},
	{News, []string{"समाचार", "खबर", "news", "खबरें"}},
}

// stopKeywords corroborate a model-predicted stop intent. Matching is by
// whole token or substring; an accidental session exit costs more than a
// missed one, so the model alone is not trusted below the strict threshold.
var stopKeywords = []string{"बंद", "बन्द", "स्टॉप", "stop", "रुको", "रूको", "exit", "quit", "close", "समाप्त", "खत्म"}
