package syllable

import (
	"errors"
	"strings"
	"testing"
)

func pron(s string) []string {
	return strings.Fields(s)
}

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSyllabifyCat(t *testing.T) {
	// CAT: K AE1 T -> one syllable.
	syls, err := Syllabify(pron("K AE1 T"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 1 {
		t.Fatalf("syllables = %d, want 1", len(syls))
	}
	if !eq(syls[0].Onset, pron("K")) {
		t.Errorf("onset = %v, want [K]", syls[0].Onset)
	}
	if !eq(syls[0].Nucleus, pron("AE1")) {
		t.Errorf("nucleus = %v, want [AE1]", syls[0].Nucleus)
	}
	if !eq(syls[0].Coda, pron("T")) {
		t.Errorf("coda = %v, want [T]", syls[0].Coda)
	}
}

func TestSyllabifyStreet(t *testing.T) {
	// STREET: S T R IY1 T -> one syllable with a 3-consonant onset.
	syls, err := Syllabify(pron("S T R IY1 T"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 1 {
		t.Fatalf("syllables = %d, want 1", len(syls))
	}
	if !eq(syls[0].Onset, pron("S T R")) {
		t.Errorf("onset = %v, want [S T R]", syls[0].Onset)
	}
}

func TestSyllabifyBanana(t *testing.T) {
	// BANANA: B AH0 N AE1 N AH0 -> three syllables.
	syls, err := Syllabify(pron("B AH0 N AE1 N AH0"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 3 {
		t.Fatalf("syllables = %d, want 3", len(syls))
	}
}

func TestSyllabifyCamel(t *testing.T) {
	syls, err := Syllabify(pron("K AE1 M AH0 L"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 2 {
		t.Fatalf("syllables = %d, want 2", len(syls))
	}
}

func TestSyllabifyConstruct(t *testing.T) {
	// CONSTRUCT: K AH0 N S T R AH1 K T -> two syllables; the S T R
	// cluster maximizes into the second onset.
	syls, err := Syllabify(pron("K AH0 N S T R AH1 K T"), false)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 2 {
		t.Fatalf("syllables = %d, want 2", len(syls))
	}
	if !eq(syls[1].Onset, pron("S T R")) {
		t.Errorf("second onset = %v, want [S T R]", syls[1].Onset)
	}
	if !eq(syls[0].Coda, pron("N")) {
		t.Errorf("first coda = %v, want [N]", syls[0].Coda)
	}
}

func TestSyllabifyRColoring(t *testing.T) {
	// PORTION: P AO1 R SH AH0 N. R in a multi-consonant interlude
	// colors the preceding nucleus.
	syls, err := Syllabify(pron("P AO1 R SH AH0 N"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 2 {
		t.Fatalf("syllables = %d, want 2", len(syls))
	}
	if !eq(syls[0].Nucleus, pron("AO1 R")) {
		t.Errorf("nucleus = %v, want [AO1 R]", syls[0].Nucleus)
	}
}

func TestSyllabifyYGliding(t *testing.T) {
	// COMPUTER: K AH0 M P Y UW1 T ER0. Y at the tail of the M P Y
	// interlude glides onto the following nucleus.
	syls, err := Syllabify(pron("K AH0 M P Y UW1 T ER0"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 3 {
		t.Fatalf("syllables = %d, want 3", len(syls))
	}
	if !eq(syls[1].Nucleus, pron("Y UW1")) {
		t.Errorf("second nucleus = %v, want [Y UW1]", syls[1].Nucleus)
	}
	if !eq(syls[0].Coda, pron("M")) {
		t.Errorf("first coda = %v, want [M]", syls[0].Coda)
	}
}

func TestSyllabifyAlaskaRule(t *testing.T) {
	// ALASKA: AH0 L AE1 S K AH0. With the rule on, S retracts into the
	// coda after the stressed lax AE1; with it off, S K stays the onset.
	on, err := Syllabify(pron("AH0 L AE1 S K AH0"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if !eq(on[1].Coda, pron("S")) {
		t.Errorf("with rule: second coda = %v, want [S]", on[1].Coda)
	}
	if !eq(on[2].Onset, pron("K")) {
		t.Errorf("with rule: third onset = %v, want [K]", on[2].Onset)
	}

	off, err := Syllabify(pron("AH0 L AE1 S K AH0"), false)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if !eq(off[2].Onset, pron("S K")) {
		t.Errorf("without rule: third onset = %v, want [S K]", off[2].Onset)
	}
}

func TestSyllabifyNoVowels(t *testing.T) {
	_, err := Syllabify(pron("S T R"), true)
	if err == nil {
		t.Fatal("expected error for vowel-less input")
	}
	if !errors.Is(err, ErrNoNucleus) {
		t.Errorf("error = %v, want ErrNoNucleus", err)
	}
}

func TestSyllabifyEmpty(t *testing.T) {
	syls, err := Syllabify(nil, true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	if len(syls) != 0 {
		t.Errorf("syllables = %d, want 0", len(syls))
	}
}

func TestSyllabifyRoundTrip(t *testing.T) {
	// Concatenating onset+nucleus+coda across syllables must reproduce
	// the input exactly.
	words := []string{
		"K AE1 T",
		"S T R IY1 T",
		"B AH0 N AE1 N AH0",
		"K AH0 N S T R AH1 K T",
		"P AO1 R SH AH0 N",
		"AH0 L AE1 S K AH0",
		"M Y UW1 Z IH0 K",
		"EH1 K S T R AH0",
		"K AH0 M P Y UW1 T ER0",
	}
	for _, w := range words {
		in := pron(w)
		for _, rule := range []bool{true, false} {
			syls, err := Syllabify(in, rule)
			if err != nil {
				t.Fatalf("Syllabify(%q, %v) error: %v", w, rule, err)
			}
			var flat []string
			for _, s := range syls {
				flat = append(flat, s.Phonemes()...)
			}
			if !eq(flat, in) {
				t.Errorf("Syllabify(%q, %v) round trip = %v", w, rule, flat)
			}
		}
	}
}

func TestDestress(t *testing.T) {
	syls, err := Syllabify(pron("K AE1 M AH0 L"), true)
	if err != nil {
		t.Fatalf("Syllabify error: %v", err)
	}
	for _, s := range Destress(syls) {
		for _, p := range s.Nucleus {
			last := p[len(p)-1]
			if last >= '0' && last <= '9' {
				t.Errorf("nucleus %q still carries stress", p)
			}
		}
	}
}
