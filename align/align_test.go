package align

import (
	"strings"
	"testing"

	"github.com/patchvox/patchvox/lexicon"
)

func TestSyllabifyWordSingle(t *testing.T) {
	syls := SyllabifyWord([]string{"K", "AE1", "T"}, 1.0, 1.4, "cat", 0)
	if len(syls) != 1 {
		t.Fatalf("syllables = %d, want 1", len(syls))
	}
	s := syls[0]
	if s.Start != 1.0 || s.End != 1.4 {
		t.Errorf("times = %v-%v, want 1.0-1.4", s.Start, s.End)
	}
	if len(s.Phonemes) != 3 {
		t.Fatalf("phonemes = %d, want 3", len(s.Phonemes))
	}
	if s.Word != "cat" {
		t.Errorf("word = %q, want cat", s.Word)
	}
}

func TestSyllabifyWordProportional(t *testing.T) {
	// BANANA: three syllables of 2 phonemes each split the word evenly.
	syls := SyllabifyWord([]string{"B", "AH0", "N", "AE1", "N", "AH0"}, 0.0, 0.6, "banana", 0)
	if len(syls) != 3 {
		t.Fatalf("syllables = %d, want 3", len(syls))
	}
	for i, s := range syls {
		wantStart := float64(i) * 0.2
		if diff := s.Start - wantStart; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("syllable %d start = %v, want %v", i, s.Start, wantStart)
		}
	}
	if syls[2].End != 0.6 {
		t.Errorf("last end = %v, want 0.6", syls[2].End)
	}
}

func TestSyllabifyWordNoVowelFallback(t *testing.T) {
	// Vowel-less input collapses to one whole-word syllable.
	syls := SyllabifyWord([]string{"S", "T"}, 0.0, 0.2, "st", 0)
	if len(syls) != 1 {
		t.Fatalf("syllables = %d, want 1", len(syls))
	}
	if len(syls[0].Phonemes) != 2 {
		t.Errorf("phonemes = %d, want 2", len(syls[0].Phonemes))
	}
}

func TestSyllabifyWords(t *testing.T) {
	dict, err := lexicon.Load(strings.NewReader("CAT  K AE1 T\nBANANA  B AH0 N AE1 N AH0\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	words := []Word{
		{Text: "cat", Start: 0.0, End: 0.4},
		{Text: "banana", Start: 0.5, End: 1.1},
	}
	syls := SyllabifyWords(words, dict)
	if len(syls) != 4 {
		t.Fatalf("syllables = %d, want 4", len(syls))
	}
	if syls[0].WordIndex != 0 || syls[1].WordIndex != 1 {
		t.Errorf("word indices = %d, %d", syls[0].WordIndex, syls[1].WordIndex)
	}
	if syls[1].Start != 0.5 {
		t.Errorf("banana first syllable start = %v, want 0.5", syls[1].Start)
	}
}

func TestLoadWords(t *testing.T) {
	data := `[{"word": "hello", "start": 0.1, "end": 0.6}, {"word": "world", "start": 0.7, "end": 1.2}]`
	words, err := LoadWords(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWords error: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	if words[1].Text != "world" || words[1].Start != 0.7 {
		t.Errorf("words[1] = %+v", words[1])
	}
}
