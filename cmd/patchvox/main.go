package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	patchvox "github.com/patchvox/patchvox"
	"github.com/patchvox/patchvox/assemble"
	"github.com/patchvox/patchvox/matcher"
)

// manifest records one synthesis run for later inspection.
type manifest struct {
	RunID      string   `json:"run_id"`
	CreatedAt  string   `json:"created_at"`
	Mode       string   `json:"mode"`
	Target     string   `json:"target"`
	Unit       string   `json:"unit"`
	Strictness float64  `json:"strictness"`
	Sources    []string `json:"sources"`
	Output     string   `json:"output"`
	Matches    int      `json:"matches"`
	Clips      int      `json:"clips"`
}

func main() {
	text := flag.String("text", "", "target text to synthesize")
	ref := flag.String("ref", "", "reference recording or its word-timing JSON (alternative to -text)")
	dictPath := flag.String("dict", "", "pronunciation dictionary (CMU format, optional)")
	outDir := flag.String("out", "out", "output directory")
	unit := flag.String("unit", patchvox.UnitSyllable, "matching unit: syllable or phoneme")
	strictness := flag.Float64("strictness", 1.0, "reference timing strictness, 0 to 1")
	bonus := flag.Float64("bonus", matcher.DefaultContinuityBonus, "continuity bonus for adjacent source syllables")
	crossfade := flag.Float64("crossfade", 40.0, "crossfade at clip joins (ms)")
	normalize := flag.Bool("normalize", true, "normalize clip volume to the median RMS")
	pitchCorrect := flag.Bool("pitch-correct", true, "normalize clip pitch to the median F0")
	roomTone := flag.Bool("room-tone", true, "lay a room-tone bed under the output")
	verbose := flag.Bool("v", false, "verbose output")

	flag.Parse()

	sources := flag.Args()
	if (*text == "") == (*ref == "") || len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: patchvox (-text TEXT | -ref WORDS.json) [flags] SOURCE.wav [SOURCE2.wav ...]")
		fmt.Fprintln(os.Stderr, "Each SOURCE.wav needs a word-timing sidecar SOURCE.json.")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *unit != patchvox.UnitSyllable && *unit != patchvox.UnitPhoneme {
		fmt.Fprintf(os.Stderr, "Error: unknown unit %q\n", *unit)
		os.Exit(1)
	}
	if *strictness < 0 || *strictness > 1 {
		fmt.Fprintf(os.Stderr, "Error: strictness %v out of range [0, 1]\n", *strictness)
		os.Exit(1)
	}

	matchCfg := matcher.DefaultConfig()
	matchCfg.ContinuityBonus = *bonus

	asmCfg := assemble.DefaultConfig()
	asmCfg.CrossfadeMs = *crossfade
	asmCfg.NormalizeVolume = *normalize
	asmCfg.NormalizePitch = *pitchCorrect

	synth, err := patchvox.NewSynthesizer(*dictPath,
		patchvox.WithMatcherConfig(matchCfg),
		patchvox.WithAssembleConfig(asmCfg),
		patchvox.WithUnit(*unit),
		patchvox.WithStrictness(*strictness),
		patchvox.WithRoomTone(*roomTone),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, wav := range sources {
		words := strings.TrimSuffix(wav, filepath.Ext(wav)) + ".json"
		if err := synth.AddSource(wav, words); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "loaded %s: bank now %d syllables\n", wav, len(synth.Bank()))
		}
	}

	var (
		res     *patchvox.Result
		mode    string
		targetD string
	)
	if *text != "" {
		mode, targetD = "text", *text
		res, err = synth.SynthesizeText(*text)
	} else {
		// A reference WAV uses its word-timing sidecar; only the
		// timings are read, never the reference audio.
		refWords := *ref
		if strings.EqualFold(filepath.Ext(refWords), ".wav") {
			refWords = strings.TrimSuffix(refWords, filepath.Ext(refWords)) + ".json"
		}
		mode, targetD = "reference", refWords
		res, err = synth.SynthesizeReference(refWords)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wavPath, err := synth.WriteOutputs(res, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := manifest{
		RunID:      uuid.New().String(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Mode:       mode,
		Target:     targetD,
		Unit:       *unit,
		Strictness: *strictness,
		Sources:    sources,
		Output:     wavPath,
		Matches:    len(res.Matches),
		Clips:      len(res.Clips),
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(*outDir, "manifest.json"), append(data, '\n'), 0o644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: write manifest: %v\n", err)
	}

	fmt.Println(wavPath)

	if *verbose {
		for _, c := range res.Clips {
			fmt.Fprintf(os.Stderr, "  [%.3f-%.3f] %s x%d stretch %.2f\n",
				c.SourceStart, c.SourceEnd, c.SourcePath, c.Syllables, c.Stretch)
		}
	}
}
