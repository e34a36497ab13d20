// Package patchvox resynthesizes speech as a collage of syllables cut
// from source recordings. A target utterance, given as text or as a
// reference recording, is matched against a bank of aligned source
// syllables and the matched spans are cut, timed, and concatenated
// into a new signal.
package patchvox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patchvox/patchvox/align"
	"github.com/patchvox/patchvox/assemble"
	"github.com/patchvox/patchvox/audio"
	"github.com/patchvox/patchvox/bank"
	"github.com/patchvox/patchvox/lexicon"
	"github.com/patchvox/patchvox/matcher"
	"github.com/patchvox/patchvox/target"
)

// Matching units.
const (
	UnitSyllable = "syllable"
	UnitPhoneme  = "phoneme"
)

// roomToneDB is the level of the room-tone bed under the output.
const roomToneDB = -40.0

// Synthesizer is the top-level syllable-collage synthesizer.
type Synthesizer struct {
	Dict       *lexicon.Dictionary
	MatchCfg   matcher.Config
	AsmCfg     assemble.Config
	Unit       string  // UnitSyllable or UnitPhoneme
	Strictness float64 // reference timing strictness in [0, 1]
	RoomTone   bool    // lay a room-tone bed under the output

	sources map[string]assemble.Source
	entries []bank.Entry
	// first source added, used for the room-tone bed
	firstSource string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMatcherConfig sets custom matcher parameters.
func WithMatcherConfig(cfg matcher.Config) Option {
	return func(s *Synthesizer) {
		s.MatchCfg = cfg
	}
}

// WithAssembleConfig sets custom assembly parameters.
func WithAssembleConfig(cfg assemble.Config) Option {
	return func(s *Synthesizer) {
		s.AsmCfg = cfg
	}
}

// WithUnit sets the matching unit.
func WithUnit(unit string) Option {
	return func(s *Synthesizer) {
		s.Unit = unit
	}
}

// WithStrictness sets how closely reference timing is followed.
func WithStrictness(strictness float64) Option {
	return func(s *Synthesizer) {
		s.Strictness = strictness
	}
}

// WithRoomTone enables or disables the room-tone bed.
func WithRoomTone(enabled bool) Option {
	return func(s *Synthesizer) {
		s.RoomTone = enabled
	}
}

// NewSynthesizer creates a Synthesizer. dictPath may be empty, in which
// case every word goes through the fallback grapheme-to-phoneme rules.
func NewSynthesizer(dictPath string, opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		MatchCfg:   matcher.DefaultConfig(),
		AsmCfg:     assemble.DefaultConfig(),
		Unit:       UnitSyllable,
		Strictness: 1.0,
		RoomTone:   true,
		sources:    make(map[string]assemble.Source),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dictPath != "" {
		dict, err := lexicon.LoadFile(dictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		s.Dict = dict
	}

	return s, nil
}

// AddSource loads a source recording and its word-level alignment and
// adds its syllables to the bank. wordsPath is a JSON list of words with
// start and end times.
func (s *Synthesizer) AddSource(wavPath, wordsPath string) error {
	samples, header, err := audio.ReadWAVFile(wavPath)
	if err != nil {
		return fmt.Errorf("read source %s: %w", wavPath, err)
	}

	words, err := align.LoadWordsFile(wordsPath)
	if err != nil {
		return fmt.Errorf("load word timings %s: %w", wordsPath, err)
	}

	syllables := align.SyllabifyWords(words, s.Dict)
	entries := bank.Build(syllables, wavPath)
	if len(entries) == 0 {
		return fmt.Errorf("source %s: no usable syllables", wavPath)
	}

	s.sources[wavPath] = assemble.Source{
		Samples:    samples,
		SampleRate: header.SampleRate,
	}
	if s.firstSource == "" {
		s.firstSource = wavPath
	}
	s.entries = append(s.entries, entries...)
	return nil
}

// Bank returns the current syllable bank.
func (s *Synthesizer) Bank() []bank.Entry {
	return s.entries
}

// Result is one finished synthesis.
type Result struct {
	Samples    []float64
	SampleRate uint32
	Matches    []matcher.Result
	Clips      []assemble.Clip
	TargetText string
}

// SynthesizeText renders the given text from the bank, timing each
// syllable by its source duration.
func (s *Synthesizer) SynthesizeText(text string) (*Result, error) {
	targets := target.TextToSyllables(text, s.Dict)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target syllables in %q", text)
	}
	boundaries := target.WordBoundaries(targets)
	return s.synthesize(text, targets, boundaries, nil)
}

// SynthesizeReference renders the words of a reference recording,
// blending output timing toward the reference by the configured
// strictness. The reference audio itself is never sampled; only its
// word annotations and timings are used.
func (s *Synthesizer) SynthesizeReference(refWordsPath string) (*Result, error) {
	words, err := align.LoadWordsFile(refWordsPath)
	if err != nil {
		return nil, fmt.Errorf("load reference timings: %w", err)
	}
	refSyllables := align.SyllabifyWords(words, s.Dict)
	if len(refSyllables) == 0 {
		return nil, fmt.Errorf("no syllables in reference %s", refWordsPath)
	}

	targets := make([]target.Syllable, len(refSyllables))
	refs := make([]assemble.RefSpan, len(refSyllables))
	for i, rs := range refSyllables {
		labels := make([]string, len(rs.Phonemes))
		for j, p := range rs.Phonemes {
			labels[j] = p.Label
		}
		targets[i] = target.Syllable{
			Phonemes:  labels,
			Word:      rs.Word,
			WordIndex: rs.WordIndex,
			Stress:    bank.ExtractStress(labels),
		}
		refs[i] = assemble.RefSpan{Start: rs.Start, End: rs.End}
	}
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	boundaries := target.WordBoundaries(targets)
	return s.synthesize(strings.Join(texts, " "), targets, boundaries, refs)
}

func (s *Synthesizer) synthesize(text string, targets []target.Syllable, boundaries []int, refs []assemble.RefSpan) (*Result, error) {
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("empty syllable bank: add a source first")
	}

	var matches []matcher.Result
	switch s.Unit {
	case UnitPhoneme:
		var phonemes []string
		for _, t := range targets {
			phonemes = append(phonemes, t.Phonemes...)
		}
		matches = matcher.MatchPhonemes(phonemes, s.entries)
		// Phoneme targets have no word structure to pause at.
		boundaries = nil
		refs = nil
	default:
		seqs := make([][]string, len(targets))
		stresses := make([]int, len(targets))
		for i, t := range targets {
			seqs[i] = t.Phonemes
			stresses[i] = t.Stress
		}
		matches = matcher.MatchSyllables(seqs, stresses, s.entries, s.MatchCfg)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matches found")
	}

	plans := assemble.PlanTiming(matches, boundaries, s.avgSyllableDur(), refs, s.Strictness)
	out, rate, clips, err := assemble.Assemble(matches, plans, s.sources, s.AsmCfg)
	if err != nil {
		return nil, err
	}

	if s.RoomTone {
		out = s.mixRoomTone(out, rate)
	}

	return &Result{
		Samples:    out,
		SampleRate: rate,
		Matches:    matches,
		Clips:      clips,
		TargetText: text,
	}, nil
}

// avgSyllableDur is the mean entry duration, used when a matched span
// has no usable length of its own.
func (s *Synthesizer) avgSyllableDur() float64 {
	if len(s.entries) == 0 {
		return 0.2
	}
	sum := 0.0
	for i := range s.entries {
		sum += s.entries[i].Duration()
	}
	return sum / float64(len(s.entries))
}

// mixRoomTone lays a quiet bed of room tone from the first source under
// the output. Failure to find room tone is not an error; the output is
// returned unchanged.
func (s *Synthesizer) mixRoomTone(out []float64, rate uint32) []float64 {
	src, ok := s.sources[s.firstSource]
	if !ok {
		return out
	}
	start, end, found := audio.FindRoomTone(src.Samples, src.SampleRate, 400)
	if !found {
		return out
	}
	tone := audio.CutClip(src.Samples, src.SampleRate, start, end, 0, 10)
	if src.SampleRate != rate {
		tone = audio.Resample(tone, float64(src.SampleRate)/float64(rate))
	}
	if len(tone) == 0 {
		return out
	}
	return audio.Mix(out, tone, roomToneDB)
}

// WriteOutputs writes the rendered audio and the audit files to outDir:
// speak.wav, syllable-bank.json, and match-log.json. It returns the
// path of the written WAV.
func (s *Synthesizer) WriteOutputs(res *Result, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	wavPath := filepath.Join(outDir, "speak.wav")
	if err := audio.WriteWAVFile(wavPath, res.Samples, res.SampleRate); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}

	bankRecords := make([]bank.Record, len(s.entries))
	for i := range s.entries {
		bankRecords[i] = s.entries[i].Record()
	}
	bankLog := struct {
		Entries []bank.Record `json:"entries"`
	}{Entries: bankRecords}
	if err := writeJSON(filepath.Join(outDir, "syllable-bank.json"), bankLog); err != nil {
		return "", err
	}

	matchRecords := make([]matcher.Record, len(res.Matches))
	for i := range res.Matches {
		matchRecords[i] = res.Matches[i].Record()
	}
	matchLog := struct {
		TargetText string           `json:"target_text"`
		MatchUnit  string           `json:"match_unit"`
		Matches    []matcher.Record `json:"matches"`
		Clips      []assemble.Clip  `json:"clips"`
	}{
		TargetText: res.TargetText,
		MatchUnit:  s.Unit,
		Matches:    matchRecords,
		Clips:      res.Clips,
	}
	if err := writeJSON(filepath.Join(outDir, "match-log.json"), matchLog); err != nil {
		return "", err
	}

	return wavPath, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
