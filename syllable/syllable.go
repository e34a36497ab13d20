// Package syllable splits ARPABET phoneme sequences into syllables using
// the Maximum Onset Principle.
package syllable

import (
	"errors"
	"fmt"

	"github.com/patchvox/patchvox/phonetic"
)

// Parts is one syllable decomposed into onset, nucleus, and coda.
type Parts struct {
	Onset   []string
	Nucleus []string
	Coda    []string
}

// Phonemes returns the syllable's phonemes in order.
func (p Parts) Phonemes() []string {
	out := make([]string, 0, len(p.Onset)+len(p.Nucleus)+len(p.Coda))
	out = append(out, p.Onset...)
	out = append(out, p.Nucleus...)
	out = append(out, p.Coda...)
	return out
}

// ErrNoNucleus is returned when a phoneme sequence contains no vowel.
// Callers typically fall back to treating the whole word as one syllable.
var ErrNoNucleus = errors.New("no nucleus found")

// slax lists the stressed lax vowels that trigger /s/-retraction.
var slax = map[string]bool{
	"IH1": true, "IH2": true, "EH1": true, "EH2": true,
	"AE1": true, "AE2": true, "AH1": true, "AH2": true,
	"UH1": true, "UH2": true,
}

// vowels lists every nucleus-bearing ARPABET symbol, stressed and bare.
var vowels = map[string]bool{
	"IY1": true, "IY2": true, "IY0": true, "EY1": true, "EY2": true, "EY0": true,
	"AA1": true, "AA2": true, "AA0": true, "ER1": true, "ER2": true, "ER0": true,
	"AW1": true, "AW2": true, "AW0": true, "AO1": true, "AO2": true, "AO0": true,
	"AY1": true, "AY2": true, "AY0": true, "OW1": true, "OW2": true, "OW0": true,
	"OY1": true, "OY2": true, "OY0": true, "IH0": true, "EH0": true, "AE0": true,
	"AH0": true, "UH0": true, "UW1": true, "UW2": true, "UW0": true,
	"IY": true, "EY": true, "AA": true, "ER": true, "AW": true, "AO": true,
	"AY": true, "OW": true, "OY": true, "UH": true, "IH": true, "EH": true,
	"AE": true, "AH": true, "UW": true,
	// Stressed lax vowels are nuclei too.
	"IH1": true, "IH2": true, "EH1": true, "EH2": true,
	"AE1": true, "AE2": true, "AH1": true, "AH2": true,
	"UH1": true, "UH2": true,
}

type pair struct{ a, b string }
type triple struct{ a, b, c string }

// Licit 2-consonant onsets.
var onsets2 = map[pair]bool{
	{"P", "R"}: true, {"T", "R"}: true, {"K", "R"}: true, {"B", "R"}: true,
	{"D", "R"}: true, {"G", "R"}: true, {"F", "R"}: true, {"TH", "R"}: true,
	{"P", "L"}: true, {"K", "L"}: true, {"B", "L"}: true, {"G", "L"}: true,
	{"F", "L"}: true, {"S", "L"}: true,
	{"K", "W"}: true, {"G", "W"}: true, {"S", "W"}: true,
	{"S", "P"}: true, {"S", "T"}: true, {"S", "K"}: true,
	{"HH", "Y"}: true,
	{"R", "W"}:  true,
}

// Licit 3-consonant onsets.
var onsets3 = map[triple]bool{
	{"S", "T", "R"}: true, {"S", "K", "L"}: true, {"T", "R", "W"}: true,
}

// Syllabify splits an ARPABET pronunciation into (onset, nucleus, coda)
// syllables following the Maximum Onset Principle. Interludes between
// nuclei are resolved left to right: R-coloring, then Y-gliding, then
// the optional lax-vowel /s/-retraction (alaskaRule), then onset
// maximization against the licit cluster tables.
//
// Returns ErrNoNucleus when the pronunciation has no vowel. A failed
// concatenation invariant indicates a bug in the rules, never bad input,
// and is returned as a distinct error.
func Syllabify(pron []string, alaskaRule bool) ([]Parts, error) {
	if len(pron) == 0 {
		return nil, nil
	}

	// Find nuclei and the interlude preceding each one.
	var nuclei [][]string
	var onsets [][]string
	lastVowel := -1

	for j, seg := range pron {
		if vowels[seg] {
			nuclei = append(nuclei, []string{seg})
			interlude := make([]string, j-(lastVowel+1))
			copy(interlude, pron[lastVowel+1:j])
			onsets = append(onsets, interlude)
			lastVowel = j
		}
	}

	if len(nuclei) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoNucleus, pron)
	}

	// Everything after the last vowel is the final coda.
	finalCoda := make([]string, len(pron)-(lastVowel+1))
	copy(finalCoda, pron[lastVowel+1:])

	codas := make([][]string, 0, len(nuclei))

	// Resolve each inter-syllable interlude into coda[i-1] and onset[i].
	for i := 1; i < len(onsets); i++ {
		var coda []string

		// R-coloring: R at the head of a cluster colors the previous nucleus.
		if len(onsets[i]) > 1 && onsets[i][0] == "R" {
			nuclei[i-1] = append(nuclei[i-1], "R")
			onsets[i] = onsets[i][1:]
		}

		// Y-gliding: Y at the tail of a long cluster glides into this nucleus.
		if len(onsets[i]) > 2 && onsets[i][len(onsets[i])-1] == "Y" {
			nuclei[i] = append([]string{"Y"}, nuclei[i]...)
			onsets[i] = onsets[i][:len(onsets[i])-1]
		}

		// Alaska rule: /s/ after a stressed lax vowel retracts into the coda.
		if alaskaRule && len(onsets[i]) > 1 && onsets[i][0] == "S" &&
			len(nuclei[i-1]) > 0 && slax[nuclei[i-1][len(nuclei[i-1])-1]] {
			coda = append(coda, "S")
			onsets[i] = onsets[i][1:]
		}

		// Onset maximization: keep the longest licit cluster at the right
		// edge of the interlude; everything to its left becomes coda.
		depth := 1
		n := len(onsets[i])
		if n > 1 {
			if onsets2[pair{onsets[i][n-2], onsets[i][n-1]}] {
				depth = 2
				if n >= 3 && onsets3[triple{onsets[i][n-3], onsets[i][n-2], onsets[i][n-1]}] {
					depth = 3
				}
			}
		}

		for len(onsets[i]) > depth {
			coda = append(coda, onsets[i][0])
			onsets[i] = onsets[i][1:]
		}

		codas = append(codas, coda)
	}

	codas = append(codas, finalCoda)

	out := make([]Parts, len(nuclei))
	for i := range nuclei {
		out[i] = Parts{Onset: onsets[i], Nucleus: nuclei[i], Coda: codas[i]}
	}

	// Invariant: the decomposition must reproduce the input exactly.
	var flat []string
	for _, p := range out {
		flat = append(flat, p.Phonemes()...)
	}
	if len(flat) != len(pron) {
		return nil, fmt.Errorf("internal: syllabification of %v produced %v", pron, flat)
	}
	for i := range flat {
		if flat[i] != pron[i] {
			return nil, fmt.Errorf("internal: syllabification of %v produced %v", pron, flat)
		}
	}

	return out, nil
}

// Destress strips stress digits from the nuclei of a syllabification.
func Destress(syllables []Parts) []Parts {
	out := make([]Parts, len(syllables))
	for i, p := range syllables {
		nuke := make([]string, len(p.Nucleus))
		for j, seg := range p.Nucleus {
			nuke[j] = phonetic.StripStress(seg)
		}
		out[i] = Parts{Onset: p.Onset, Nucleus: nuke, Coda: p.Coda}
	}
	return out
}
