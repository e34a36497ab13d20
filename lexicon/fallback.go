package lexicon

import "strings"

// digraphs maps two-letter spellings to phonemes, checked before the
// single-letter rules.
var digraphs = map[string]string{
	"th": "TH",
	"sh": "SH",
	"ch": "CH",
	"ng": "NG",
	"ph": "F",
	"wh": "W",
	"ck": "K",
	"ee": "IY1",
	"ea": "IY1",
	"oo": "UW1",
	"ou": "AW1",
	"ow": "OW1",
	"ai": "EY1",
	"ay": "EY1",
	"oi": "OY1",
	"oy": "OY1",
}

// FallbackG2P converts an out-of-vocabulary word to ARPABET phonemes
// with simple spelling rules. It is a best-effort approximation for
// words the dictionary does not cover.
func FallbackG2P(word string) []string {
	chars := []rune(strings.ToLower(word))
	var phonemes []string

	for i := 0; i < len(chars); i++ {
		if i+1 < len(chars) {
			if p, ok := digraphs[string(chars[i:i+2])]; ok {
				phonemes = append(phonemes, p)
				i++
				continue
			}
		}

		switch chars[i] {
		case 'a':
			phonemes = append(phonemes, "AE1")
		case 'b':
			phonemes = append(phonemes, "B")
		case 'c':
			// Soft c before e/i/y, hard otherwise.
			if i+1 < len(chars) && (chars[i+1] == 'e' || chars[i+1] == 'i' || chars[i+1] == 'y') {
				phonemes = append(phonemes, "S")
			} else {
				phonemes = append(phonemes, "K")
			}
		case 'd':
			phonemes = append(phonemes, "D")
		case 'e':
			// Silent final e.
			if i == len(chars)-1 && len(phonemes) > 0 {
				continue
			}
			phonemes = append(phonemes, "EH1")
		case 'f':
			phonemes = append(phonemes, "F")
		case 'g':
			phonemes = append(phonemes, "G")
		case 'h':
			phonemes = append(phonemes, "HH")
		case 'i':
			phonemes = append(phonemes, "IH1")
		case 'j':
			phonemes = append(phonemes, "JH")
		case 'k':
			phonemes = append(phonemes, "K")
		case 'l':
			phonemes = append(phonemes, "L")
		case 'm':
			phonemes = append(phonemes, "M")
		case 'n':
			phonemes = append(phonemes, "N")
		case 'o':
			phonemes = append(phonemes, "AA1")
		case 'p':
			phonemes = append(phonemes, "P")
		case 'q':
			phonemes = append(phonemes, "K")
		case 'r':
			phonemes = append(phonemes, "R")
		case 's':
			phonemes = append(phonemes, "S")
		case 't':
			phonemes = append(phonemes, "T")
		case 'u':
			phonemes = append(phonemes, "AH1")
		case 'v':
			phonemes = append(phonemes, "V")
		case 'w':
			phonemes = append(phonemes, "W")
		case 'x':
			phonemes = append(phonemes, "K", "S")
		case 'y':
			// Glide word-initially, vowel elsewhere.
			if len(phonemes) == 0 {
				phonemes = append(phonemes, "Y")
			} else {
				phonemes = append(phonemes, "IY1")
			}
		case 'z':
			phonemes = append(phonemes, "Z")
		}
	}

	if len(phonemes) == 0 {
		phonemes = []string{"AH0"}
	}

	return phonemes
}
