// Package lexicon provides grapheme-to-phoneme conversion backed by a
// CMU Pronouncing Dictionary with a rule-based fallback for unknown words.
package lexicon

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Entry represents a single pronunciation for a word.
type Entry struct {
	Word     string
	Phonemes []string // ARPABET labels with stress digits
}

// Dictionary holds word-to-pronunciation mappings.
type Dictionary struct {
	Entries map[string][]Entry // uppercased word -> alternative pronunciations
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Entries: make(map[string][]Entry),
	}
}

// Add adds a pronunciation entry to the dictionary.
func (d *Dictionary) Add(word string, phonemes []string) {
	key := strings.ToUpper(word)
	d.Entries[key] = append(d.Entries[key], Entry{
		Word:     key,
		Phonemes: phonemes,
	})
}

// Load reads a pronunciation dictionary in CMU dict format.
// Format: WORD  PH1 PH2 PH3 ...
// Alternative pronunciations carry a variant marker: WORD(2) PH1 ...
// Lines starting with ";;;" are comments.
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		// Strip variant marker: WORD(2) -> WORD.
		word := fields[0]
		if i := strings.IndexByte(word, '('); i >= 0 {
			word = word[:i]
		}

		d.Add(word, fields[1:])
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns all pronunciation variants for a word.
func (d *Dictionary) Lookup(word string) []Entry {
	return d.Entries[strings.ToUpper(word)]
}

// PhonemeSequence returns the phoneme sequence for a word (first
// pronunciation variant).
func (d *Dictionary) PhonemeSequence(word string) ([]string, bool) {
	entries := d.Entries[strings.ToUpper(word)]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].Phonemes, true
}

// Words returns all words in the dictionary.
func (d *Dictionary) Words() []string {
	words := make([]string, 0, len(d.Entries))
	for w := range d.Entries {
		words = append(words, w)
	}
	return words
}

// ToPhonemes converts a word to ARPABET phonemes, consulting the
// dictionary first and falling back to rule-based conversion for
// out-of-vocabulary words. A nil dictionary always uses the fallback.
func (d *Dictionary) ToPhonemes(word string) []string {
	if d != nil {
		if phonemes, ok := d.PhonemeSequence(word); ok {
			return phonemes
		}
	}
	return FallbackG2P(word)
}

// IsVowel reports whether an ARPABET phoneme is a vowel.
func IsVowel(phoneme string) bool {
	base := strings.TrimRight(phoneme, "0123456789")
	switch base {
	case "AA", "AE", "AH", "AO", "AW", "AY", "EH", "ER", "EY",
		"IH", "IY", "OW", "OY", "UH", "UW":
		return true
	}
	return false
}
