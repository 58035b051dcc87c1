package correct

// Rule is one ordered correction: a regular expression pattern and its
// replacement. Rules run in declaration order on the cumulative result, and
// the order is load-bearing: Romanized-word bridging must run before the
// joined-phrase rules that expect Devanagari substrings, and specific phrase
// repairs must run before the single-word rules that would eat their anchors.
//
// Go's \b is ASCII-only, so Devanagari word boundaries are expressed as
// (^|\s)…($|\s) groups echoed back via ${n}.
type Rule struct {
	Pattern     string
	Replacement string
}

// DefaultRules is the tuned production rule set. It accreted over many field
// iterations; each block repairs one recurring recognizer failure mode.
func DefaultRules() []Rule {
	return []Rule{
		// Devanagari phonetic misspellings.
		{`(^|\s)बन($|\s)`, `${1}बंद${2}`},
		{`वन करो`, `बंद करो`},
		{`बंदकरो`, `बंद करो`},
		{`समये`, `समय`},
		{`बतओ`, `बताओ`},
		{`क्य($|\s)`, `क्या${1}`},
		{`कितन($|\s)`, `कितने${1}`},
		{`मुझ($|\s)`, `मुझे${1}`},
		{`तिथ($|\s)`, `तिथि${1}`},
		{`तारिख|तारीक`, `तारीख`},
		{`करदो`, `कर दो`},
		{`होजाओ`, `हो जाओ`},
		{`कोन($|\s)`, `कौन${1}`},
		{`काउन`, `कौन`},
		{`नमसते`, `नमस्ते`},
		{`नमस्त($|\s)`, `नमस्ते${1}`},
		{`पलीज`, `please`},
		{`हेल्थ|हेल्प`, `help`},
		{`समचार`, `समाचार`},

		// Romanized shorthand.
		{`(?i)\bwat\b`, `what`},
		{`(?i)\btym\b`, `time`},
		{`(?i)\bplz\b`, `please`},
		{`(?i)\bstap\b`, `stop`},

		// Joined Romanized phrases, before the single-word bridges below.
		{`(?i)samayakya`, `समय क्या`},
		{`(?i)samaybatau`, `समय बताओ`},
		{`(?i)bandkaro|banthkaru`, `बंद करो`},
		{`(?i)mandojao|bantujao`, `बंद हो जाओ`},

		// Romanized-Hindi word bridges.
		{`(?i)\bsamay\b|\bsamae\b|\bsame\b`, `समय`},
		{`(?i)\bkya\b|\bkiya\b`, `क्या`},
		{`(?i)\babhi\b`, `अभी`},
		{`(?i)\bhai\b`, `है`},
		{`(?i)\bbatao\b|\bbatau\b`, `बताओ`},
		{`(?i)\bbandho\b`, `बंद हो`},
		{`(?i)\bband\b`, `बंद`},
		{`(?i)\bkaro\b|\bkarob\b`, `करो`},
		{`(?i)\bsukriya\b|\bshukriya\b`, `शुक्रिया`},
		{`(?i)\bmadad\b`, `मदद`},
		{`(?i)nathke|natchke`, `नाच के`},
		{`(?i)\bnath\b|\bnaach\b`, `नाच`},
		{`(?i)\bnatho\b|\bnaacho\b|\bnacho\b`, `नाचो`},
		{`(?i)\bdhikhao\b|\bdikhao\b`, `दिखाओ`},
		{`(?i)\bmazaq\b|\bmazak\b`, `मजाक`},
		{`(?i)\bgana\b|\bgaana\b`, `गाना`},
		{`(?i)\bmonsam\b|\bmausam\b`, `मौसम`},
		{`(?i)\bvither\b`, `weather`},
		{`(?i)\balum\b|\balaram\b`, `अलार्म`},
		{`(?i)\bsamacar\b|\bsamachar\b`, `समाचार`},

		// Recognizer hallucination artifacts that reliably mean a news query.
		{`(?i)\btoday'?s\s+(topic|social|society)\b`, `समाचार`},
	}
}

// DefaultNoiseTokens are filler tokens stripped as whole words before the
// rule pass: hesitation markers, acknowledgement interjections, and address
// particles the recognizer injects around real commands.
func DefaultNoiseTokens() []string {
	return []string{"tk", "teeke", "ok", "okay", "hmm", "umm", "um", "uh", "bhai", "yaar"}
}
