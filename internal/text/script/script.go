// Package script bridges Perso-Arabic text into Devanagari approximations.
//
// The recognizer occasionally hallucinates Urdu-script output for Hindi
// speech. Urdu and Hindi are close enough phonetically that a per-code-point
// substitution recovers most keywords (مدد becomes मदद, کرو becomes करो),
// which is all the downstream Devanagari-keyed matching needs. The mapping is
// deliberately lossy: it targets keyword recovery, not transliteration
// fidelity.
package script

// bridge maps Perso-Arabic code points to Devanagari phonetic counterparts.
// One rune in, one string out; a few Urdu letters need a consonant plus
// nukta.
var bridge = map[rune]string{
	'آ': "आ",
	'ا': "ा",
	'أ': "अ",
	'ب': "ब",
	'پ': "प",
	'ت': "त",
	'ٹ': "ट",
	'ث': "स",
	'ج': "ज",
	'چ': "च",
	'ح': "ह",
	'خ': "ख",
	'د': "द",
	'ڈ': "ड",
	'ذ': "ज",
	'ر': "र",
	'ڑ': "ड़",
	'ز': "ज़",
	'ژ': "ज़",
	'س': "स",
	'ش': "श",
	'ص': "स",
	'ض': "ज",
	'ط': "त",
	'ظ': "ज",
	'ع': "अ",
	'غ': "ग",
	'ف': "फ",
	'ق': "क",
	'ک': "क",
	'ك': "क",
	'گ': "ग",
	'ل': "ल",
	'م': "म",
	'ن': "न",
	'ں': "ं",
	'و': "ो",
	'ہ': "ह",
	'ه': "ह",
	'ھ': "ह",
	'ی': "ी",
	'ي': "ी",
	'ے': "े",
	'ۓ': "े",
	// Harakat vowel marks.
	'َ': "ा", // fatha
	'ِ': "ि", // kasra
	'ُ': "ु", // damma
}

// persoArabic reports whether r falls in one of the Perso-Arabic Unicode
// blocks (Arabic, Arabic Supplement, Arabic Presentation Forms).
func persoArabic(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// Bridge replaces every Perso-Arabic code point with its Devanagari
// counterpart from the substitution table. Perso-Arabic runes without a table
// entry are dropped rather than passed through, so no Arabic-block residue
// survives into downstream matching. All other runes pass through unchanged.
func Bridge(text string) string {
	changed := false
	for _, r := range text {
		if persoArabic(r) {
			changed = true
			break
		}
	}
	if !changed {
		return text
	}

	var out []byte
	for _, r := range text {
		if !persoArabic(r) {
			out = append(out, string(r)...)
			continue
		}
		if dev, ok := bridge[r]; ok {
			out = append(out, dev...)
		}
	}
	return string(out)
}
