// Package bank builds an indexed bank of source syllables for matching.
package bank

import (
	"math"
	"unicode"

	"github.com/patchvox/patchvox/phonetic"
)

// Phoneme is one aligned phoneme within a source recording.
type Phoneme struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Syllable is one aligned syllable within a source recording, as produced
// by the upstream aligner after syllabification.
type Syllable struct {
	Phonemes  []Phoneme `json:"phonemes"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Word      string    `json:"word"`
	WordIndex int       `json:"word_index"`
}

// NoStress marks an Entry whose labels carry no stress digit.
const NoStress = -1

// Entry is a source syllable with the metadata needed for matching.
// Entries are immutable once built; Index is the syllable's position in
// the original, pre-filter syllable list for its source, so gaps from
// skipped syllables are preserved.
type Entry struct {
	PhonemeLabels []string // normalized ARPABET labels (with stress)
	Start         float64  // seconds in source audio
	End           float64  // seconds in source audio
	Word          string   // parent word text
	Stress        int      // 0, 1, 2, or NoStress
	SourcePath    string   // source audio file path
	Index         int      // position in the original syllable list
}

// Duration returns the entry's length in seconds.
func (e *Entry) Duration() float64 {
	return e.End - e.Start
}

// Record is the JSON form of an Entry for the syllable-bank audit file.
type Record struct {
	Phonemes []string `json:"phonemes"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Duration float64  `json:"duration"`
	Word     string   `json:"word"`
	Stress   *int     `json:"stress"`
	Source   string   `json:"source"`
	Index    int      `json:"index"`
}

// Record serializes the entry with times rounded to 4 decimals.
func (e *Entry) Record() Record {
	r := Record{
		Phonemes: e.PhonemeLabels,
		Start:    round4(e.Start),
		End:      round4(e.End),
		Duration: round4(e.Duration()),
		Word:     e.Word,
		Source:   e.SourcePath,
		Index:    e.Index,
	}
	if e.Stress != NoStress {
		s := e.Stress
		r.Stress = &s
	}
	return r
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// isPhoneme reports whether a label is a real phoneme rather than an
// alignment-backend punctuation placeholder.
func isPhoneme(label string) bool {
	for _, r := range label {
		return unicode.IsLetter(r)
	}
	return false
}

// ExtractStress returns the stress digit of the first label that carries
// one, or NoStress.
func ExtractStress(labels []string) int {
	for _, label := range labels {
		if label == "" {
			continue
		}
		last := label[len(label)-1]
		if last >= '0' && last <= '9' {
			return int(last - '0')
		}
	}
	return NoStress
}

// Build constructs a syllable bank from aligned source syllables.
// Punctuation labels are filtered from each syllable's phoneme list and
// the survivors normalized to ARPABET; syllables left with no real
// phonemes are skipped without renumbering, so Index values keep their
// gaps and adjacency checks against the original stream stay correct.
func Build(syllables []Syllable, sourcePath string) []Entry {
	var entries []Entry
	for i, syl := range syllables {
		var labels []string
		for _, p := range syl.Phonemes {
			if isPhoneme(p.Label) {
				labels = append(labels, phonetic.Normalize(p.Label))
			}
		}
		if len(labels) == 0 {
			continue
		}
		entries = append(entries, Entry{
			PhonemeLabels: labels,
			Start:         syl.Start,
			End:           syl.End,
			Word:          syl.Word,
			Stress:        ExtractStress(labels),
			SourcePath:    sourcePath,
			Index:         i,
		})
	}
	return entries
}

// Adjacent reports whether b immediately follows a in the same source.
func Adjacent(a, b *Entry) bool {
	return a.SourcePath == b.SourcePath && b.Index == a.Index+1
}

// sourcePos identifies one syllable position within one source.
type sourcePos struct {
	source string
	index  int
}

// Index maps (source, index) to bank position, making contiguous
// predecessor lookup O(1). Built once per bank; read-only afterward.
type Index struct {
	pos map[sourcePos]int
}

// NewIndex builds the adjacency index for a bank.
func NewIndex(entries []Entry) *Index {
	pos := make(map[sourcePos]int, len(entries))
	for i, e := range entries {
		pos[sourcePos{e.SourcePath, e.Index}] = i
	}
	return &Index{pos: pos}
}

// Predecessor returns the bank position of the entry that immediately
// precedes entries[j] in its source, or -1 if there is none.
func (ix *Index) Predecessor(entries []Entry, j int) int {
	k, ok := ix.pos[sourcePos{entries[j].SourcePath, entries[j].Index - 1}]
	if !ok {
		return -1
	}
	return k
}
