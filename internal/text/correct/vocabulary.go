package correct

// VocabularyEntry groups the canonical and variant surface forms of one
// intent category. The same surface form may appear in several categories;
// membership is not exclusive.
type VocabularyEntry struct {
	Category string
	Forms    []string
}

// DefaultVocabulary anchors per-word fuzzy correction. Order matters: when
// two forms tie on similarity the earlier category wins, so the destructive
// categories (stop) sit first.
func DefaultVocabulary() []VocabularyEntry {
	return []VocabularyEntry{
		{Category: "stop", Forms: []string{"बंद", "बन्द", "स्टॉप", "स्टप", "stop", "रुको", "रूको", "रुक"}},
		{Category: "command_stop", Forms: []string{"करो", "करदो", "कर", "हो", "जाओ"}},
		{Category: "time", Forms: []string{"समय", "टाइम", "time", "बजे", "घड़ी", "वक्त", "घंटा", "घंटे"}},
		{Category: "time_query", Forms: []string{"क्या", "कितने", "कितना", "बताओ", "बतओ", "what", "कैसा"}},
		{Category: "date", Forms: []string{"तारीख", "तिथि", "डेट", "date", "दिन", "आज"}},
		{Category: "hello", Forms: []string{"नमस्ते", "नमस्कार", "हैलो", "हेलो", "hello", "hi", "हाय", "प्रणाम"}},
		{Category: "goodbye", Forms: []string{"अलविदा", "अलवीदा", "बाय", "bye", "टाटा", "गुडबाय", "चलता", "जाता"}},
		{Category: "thank_you", Forms: []string{"धन्यवाद", "शुक्रिया", "thanks", "thank", "थैंक", "आभार"}},
		{Category: "help", Forms: []string{"मदद", "हेल्प", "help", "सहायता", "सहायत"}},
		{Category: "dance", Forms: []string{"नाचो", "नाच", "डांस", "dance"}},
		{Category: "weather", Forms: []string{"मौसम", "weather", "बारिश", "धूप"}},
		{Category: "joke", Forms: []string{"मजाक", "चुटकुला", "joke"}},
		{Category: "music", Forms: []string{"गाना", "संगीत", "music", "गीत"}},
		{Category: "alarm", Forms: []string{"अलार्म", "alarm"}},
		{Category: "news", Forms: []string{"समाचार", "खबर", "news", "खबरें"}},
	}
}
