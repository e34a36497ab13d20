package phonetic

import (
	"strings"
	"unicode"
)

// ipaPair maps one IPA symbol to its ARPABET base.
type ipaPair struct {
	ipa      string
	arpabet  string
}

// ipaToARPABET maps IPA labels produced by the alternate alignment
// backend onto ARPABET bases. Order matters: multi-character diphthongs
// must be checked before their single-character prefixes.
var ipaToARPABET = []ipaPair{
	// Diphthongs first (multi-char).
	{"aɪ", "AY"}, {"aʊ", "AW"}, {"eɪ", "EY"}, {"oʊ", "OW"}, {"ɔɪ", "OY"},
	// Vowels.
	{"i", "IY"}, {"ɪ", "IH"}, {"e", "EY"}, {"ɛ", "EH"}, {"æ", "AE"},
	{"ɑ", "AA"}, {"ɒ", "AA"}, {"ɔ", "AO"}, {"o", "OW"}, {"ʊ", "UH"},
	{"u", "UW"}, {"ə", "AH"}, {"ɜ", "ER"}, {"ɐ", "AH"}, {"ʌ", "AH"},
	{"a", "AA"},
	// Stops.
	{"p", "P"}, {"b", "B"}, {"t", "T"}, {"d", "D"}, {"k", "K"}, {"g", "G"},
	// Nasals.
	{"m", "M"}, {"n", "N"}, {"ŋ", "NG"}, {"ɲ", "N"}, {"ɴ", "NG"},
	// Fricatives.
	{"f", "F"}, {"v", "V"}, {"θ", "TH"}, {"ð", "DH"}, {"s", "S"},
	{"z", "Z"}, {"ʃ", "SH"}, {"ʒ", "ZH"}, {"h", "HH"}, {"ɦ", "HH"},
	{"ç", "HH"}, {"x", "HH"}, {"ɣ", "G"},
	// Liquids and rhotics.
	{"l", "L"}, {"ɫ", "L"}, {"ɬ", "L"}, {"ɮ", "L"},
	{"r", "R"}, {"ɹ", "R"}, {"ɾ", "R"}, {"ɽ", "R"}, {"ʁ", "R"}, {"ʀ", "R"},
	// Glides.
	{"j", "Y"}, {"w", "W"}, {"ɥ", "W"},
}

// isARPABET reports whether a stress-stripped label is already an
// ARPABET base symbol: non-empty, ASCII, all uppercase.
func isARPABET(base string) bool {
	if base == "" {
		return false
	}
	for _, r := range base {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Normalize converts an IPA phoneme label to its ARPABET base symbol.
// Labels already in ARPABET form (uppercase ASCII, optional stress digit)
// pass through unchanged, as do labels with no known correspondence.
func Normalize(phoneme string) string {
	if phoneme == "" {
		return phoneme
	}

	if isARPABET(StripStress(phoneme)) {
		return phoneme
	}

	cleaned := strings.TrimRight(phoneme, "ːˑ")
	for _, p := range ipaToARPABET {
		if strings.HasPrefix(cleaned, p.ipa) {
			return p.arpabet
		}
	}

	return phoneme
}
