// Package align bridges word-level aligner output to the syllable-level
// timestamps the bank builder consumes. The upstream recognizer produces
// (word, start, end) triples; this package expands them with G2P and the
// syllabifier, distributing word time across syllables in proportion to
// phoneme counts.
package align

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"

	"github.com/patchvox/patchvox/bank"
	"github.com/patchvox/patchvox/lexicon"
	"github.com/patchvox/patchvox/syllable"
)

// Word is one word-level timestamp from the external aligner.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// LoadWords reads word-level timestamps from their JSON interchange form:
// an array of {"word", "start", "end"} objects.
func LoadWords(r io.Reader) ([]Word, error) {
	var words []Word
	dec := json.NewDecoder(r)
	if err := dec.Decode(&words); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadWordsFile is a convenience wrapper that opens a file path.
func LoadWordsFile(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWords(f)
}

// SyllabifyWord splits one word's phonemes into syllables with estimated
// timestamps. Word time is split proportionally to each syllable's
// phoneme count, and phoneme times spread evenly within each syllable.
// Words the syllabifier cannot segment become a single syllable.
func SyllabifyWord(phonemes []string, wordStart, wordEnd float64, word string, wordIndex int) []bank.Syllable {
	if len(phonemes) == 0 {
		return nil
	}

	parts, err := syllable.Syllabify(phonemes, true)
	if err != nil || len(parts) == 0 {
		// Fallback: the whole word as one syllable.
		parts = []syllable.Parts{{Nucleus: phonemes}}
	}

	total := 0
	lists := make([][]string, len(parts))
	for i, p := range parts {
		lists[i] = p.Phonemes()
		total += len(lists[i])
	}
	if total == 0 {
		total = 1
	}

	wordDur := wordEnd - wordStart
	cursor := wordStart
	syllables := make([]bank.Syllable, 0, len(lists))

	for _, phones := range lists {
		dur := wordDur * float64(len(phones)) / float64(total)
		end := cursor + dur

		var objs []bank.Phoneme
		if len(phones) > 0 {
			phDur := dur / float64(len(phones))
			t := cursor
			for _, label := range phones {
				objs = append(objs, bank.Phoneme{
					Label: label,
					Start: round4(t),
					End:   round4(t + phDur),
				})
				t += phDur
			}
		}

		syllables = append(syllables, bank.Syllable{
			Phonemes:  objs,
			Start:     round4(cursor),
			End:       round4(end),
			Word:      word,
			WordIndex: wordIndex,
		})
		cursor = end
	}

	return syllables
}

// SyllabifyWords converts word-level timestamps to a flat syllable list
// across all words, using the dictionary for G2P.
func SyllabifyWords(words []Word, dict *lexicon.Dictionary) []bank.Syllable {
	var all []bank.Syllable
	for i, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		phonemes := dict.ToPhonemes(text)
		if len(phonemes) == 0 {
			continue
		}
		all = append(all, SyllabifyWord(phonemes, w.Start, w.End, text, i)...)
	}
	return all
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
