// Package respond turns a resolved intent into Hindi reply text.
//
// Most intents map to fixed canned phrases that the speech cache
// pre-synthesizes at startup. Time and date replies interpolate the current
// clock and are marked templated so the cache never stores them.
package respond

import (
	"fmt"
	"sync"
	"time"

	"github.com/dhvani-ai/dhvani/internal/intent"
)

// Reply is one generated response.
type Reply struct {
	// Text is the Hindi reply to synthesize.
	Text string

	// Templated marks replies that vary per call (clock time, rotating
	// jokes). Templated replies are synthesized on demand, never cached.
	Templated bool

	// EndSession marks replies after which the interaction loop exits.
	EndSession bool
}

// UnknownReply is spoken for unresolved intents; failure is always a polite
// prompt to repeat, never silence.
const UnknownReply = "माफ़ करें, मैं समझ नहीं पाया। कृपया फिर से बोलें।"

// hindiMonths maps time.Month to the Hindi month name.
var hindiMonths = [...]string{
	"जनवरी", "फ़रवरी", "मार्च", "अप्रैल", "मई", "जून",
	"जुलाई", "अगस्त", "सितंबर", "अक्टूबर", "नवंबर", "दिसंबर",
}

// canned maps intents to their fixed replies.
var canned = map[string]Reply{
	intent.Hello:    {Text: "नमस्ते! मैं आपकी क्या मदद कर सकता हूँ?"},
	intent.Goodbye:  {Text: "अलविदा! फिर मिलेंगे।", EndSession: true},
	intent.ThankYou: {Text: "आपका स्वागत है!"},
	intent.Help:     {Text: "मैं समय, तारीख, मौसम, समाचार बता सकता हूँ और गाने या चुटकुले सुना सकता हूँ।"},
	intent.Stop:     {Text: "ठीक है, बंद कर रहा हूँ। अलविदा!", EndSession: true},
	intent.Dance:    {Text: "मैं नाच तो नहीं सकता, लेकिन आपके लिए ताल ज़रूर बजा सकता हूँ!"},
	intent.Weather:  {Text: "माफ़ करें, मौसम की जानकारी के लिए मुझे इंटरनेट चाहिए।"},
	intent.Music:    {Text: "माफ़ करें, अभी मैं गाने नहीं चला सकता।"},
	intent.Alarm:    {Text: "माफ़ करें, अलार्म की सुविधा अभी उपलब्ध नहीं है।"},
	intent.News:     {Text: "माफ़ करें, समाचार के लिए मुझे इंटरनेट चाहिए।"},
}

// jokes rotate so repeated requests do not repeat the same line.
var jokes = []string{
	"अध्यापक: तुम स्कूल देर से क्यों आए? छात्र: सर, सपने में मैच देख रहा था, एक्स्ट्रा टाइम हो गया!",
	"डॉक्टर: आप रोज़ सुबह दौड़ते हैं? मरीज़: हाँ, बस पकड़ने के लिए!",
	"पति: मैं तुम्हारे बिना जी नहीं सकता। पत्नी: वादा करो, खाना भी खुद बनाओगे!",
}

// Generator produces replies. The rotating joke index is the only mutable
// state; a mutex keeps it safe even though only one turn runs at a time.
type Generator struct {
	now func() time.Time

	mu        sync.Mutex
	jokeIndex int
}

// Option is a functional option for configuring a Generator.
type Option func(*Generator)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator returns a Generator using the system clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Reply maps a resolved intent to reply text. Unresolved intents produce
// UnknownReply.
func (g *Generator) Reply(intentLabel string) Reply {
	switch intentLabel {
	case intent.Time:
		t := g.now()
		return Reply{
			Text:      fmt.Sprintf("अभी %d बजकर %d मिनट हुए हैं।", hour12(t), t.Minute()),
			Templated: true,
		}
	case intent.Date:
		t := g.now()
		return Reply{
			Text:      fmt.Sprintf("आज %d %s %d है।", t.Day(), hindiMonths[t.Month()-1], t.Year()),
			Templated: true,
		}
	case intent.Joke:
		g.mu.Lock()
		joke := jokes[g.jokeIndex%len(jokes)]
		g.jokeIndex++
		g.mu.Unlock()
		return Reply{Text: joke, Templated: true}
	}
	if r, ok := canned[intentLabel]; ok {
		return r
	}
	return Reply{Text: UnknownReply}
}

// CachedReplies lists every fixed reply text, for cache prewarming. The
// unknown reply is included; it is spoken often.
func CachedReplies() []string {
	out := make([]string, 0, len(canned)+1)
	for _, r := range canned {
		out = append(out, r.Text)
	}
	out = append(out, UnknownReply)
	return out
}

// hour12 converts to a 12-hour clock, with 12 instead of 0.
func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}
