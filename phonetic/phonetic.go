// Package phonetic provides the ARPABET articulatory feature table and
// distance calculations between phoneme symbols and syllables.
package phonetic

import "strings"

// features describes one phoneme by its articulatory feature vector.
// Index 0 is the type tag ("consonant" or "vowel"); the remaining
// positions are manner/place/voicing for consonants and
// height/backness/roundness/tenseness for vowels.
type features [5]string

// CrossTypeDistance is the distance between a consonant and a vowel,
// and the fallback for symbols outside the feature table.
const CrossTypeDistance = 5

var featureTable = map[string]features{
	// Consonants: type, manner, place, voicing.
	"P":  {"consonant", "stop", "bilabial", "voiceless"},
	"B":  {"consonant", "stop", "bilabial", "voiced"},
	"T":  {"consonant", "stop", "alveolar", "voiceless"},
	"D":  {"consonant", "stop", "alveolar", "voiced"},
	"K":  {"consonant", "stop", "velar", "voiceless"},
	"G":  {"consonant", "stop", "velar", "voiced"},
	"F":  {"consonant", "fricative", "labiodental", "voiceless"},
	"V":  {"consonant", "fricative", "labiodental", "voiced"},
	"TH": {"consonant", "fricative", "dental", "voiceless"},
	"DH": {"consonant", "fricative", "dental", "voiced"},
	"S":  {"consonant", "fricative", "alveolar", "voiceless"},
	"Z":  {"consonant", "fricative", "alveolar", "voiced"},
	"SH": {"consonant", "fricative", "postalveolar", "voiceless"},
	"ZH": {"consonant", "fricative", "postalveolar", "voiced"},
	"HH": {"consonant", "fricative", "glottal", "voiceless"},
	"CH": {"consonant", "affricate", "postalveolar", "voiceless"},
	"JH": {"consonant", "affricate", "postalveolar", "voiced"},
	"M":  {"consonant", "nasal", "bilabial", "voiced"},
	"N":  {"consonant", "nasal", "alveolar", "voiced"},
	"NG": {"consonant", "nasal", "velar", "voiced"},
	"L":  {"consonant", "liquid", "alveolar", "voiced"},
	"R":  {"consonant", "liquid", "postalveolar", "voiced"},
	"W":  {"consonant", "glide", "bilabial", "voiced"},
	"Y":  {"consonant", "glide", "palatal", "voiced"},

	// Vowels: type, height, backness, roundness, tenseness.
	"IY": {"vowel", "high", "front", "unrounded", "tense"},
	"IH": {"vowel", "high", "front", "unrounded", "lax"},
	"EY": {"vowel", "mid", "front", "unrounded", "tense"},
	"EH": {"vowel", "mid", "front", "unrounded", "lax"},
	"AE": {"vowel", "low", "front", "unrounded", "lax"},
	"AA": {"vowel", "low", "back", "unrounded", "tense"},
	"AH": {"vowel", "mid", "central", "unrounded", "lax"},
	"AO": {"vowel", "mid", "back", "rounded", "tense"},
	"OW": {"vowel", "mid", "back", "rounded", "tense"},
	"UH": {"vowel", "high", "back", "rounded", "lax"},
	"UW": {"vowel", "high", "back", "rounded", "tense"},
	"AW": {"vowel", "low", "central", "unrounded", "tense"},
	"AY": {"vowel", "low", "central", "unrounded", "tense"},
	"OY": {"vowel", "mid", "back", "rounded", "tense"},
	"ER": {"vowel", "mid", "central", "rounded", "tense"},
}

// StripStress removes a trailing stress digit (0, 1, 2) from an ARPABET
// phoneme label.
func StripStress(phoneme string) string {
	return strings.TrimRight(phoneme, "0123456789")
}

// PhonemeDistance computes the articulatory feature distance between two
// ARPABET phonemes. Stress digits are ignored. Identical phonemes score 0;
// phonemes of the same type score the count of differing features (1-4);
// a consonant against a vowel, or any symbol outside the feature table,
// scores CrossTypeDistance. This function never fails: unknown symbols
// degrade to the cross-type distance because upstream aligners may emit
// labels outside the table.
func PhonemeDistance(a, b string) int {
	aBase := StripStress(a)
	bBase := StripStress(b)

	if aBase == bBase {
		return 0
	}

	fa, okA := featureTable[aBase]
	fb, okB := featureTable[bBase]
	if !okA || !okB {
		return CrossTypeDistance
	}
	if fa[0] != fb[0] {
		return CrossTypeDistance
	}

	n := 0
	for i := 1; i < len(fa); i++ {
		if fa[i] != fb[i] {
			n++
		}
	}
	return n
}

// SyllableDistance computes the distance between two syllables given as
// lists of ARPABET phonemes. Phonemes are compared position by position
// over max(len(a), len(b)) positions; a position present in only one
// syllable contributes the full cross-type distance. This is a positional
// alignment, not an edit distance.
func SyllableDistance(a, b []string) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	total := 0
	for i := 0; i < maxLen; i++ {
		if i >= len(a) || i >= len(b) {
			total += CrossTypeDistance
			continue
		}
		total += PhonemeDistance(a[i], b[i])
	}
	return total
}
