// Package assemble turns match results into output timing and audio:
// grouping contiguous source runs, planning per-syllable start/duration,
// and cutting, stretching, and concatenating source spans.
package assemble

import (
	"fmt"
	"math"
	"sort"

	"github.com/patchvox/patchvox/audio"
	"github.com/patchvox/patchvox/matcher"
)

// WordPauseS is the pause inserted before the first syllable of a new word.
const WordPauseS = 0.12

// stretchTolerance is the run-level stretch ratio deviation below which
// no time-stretching is applied.
const stretchTolerance = 0.05

// TimingPlan is the planned output timing for one target position.
type TimingPlan struct {
	TargetStart    float64 // desired start time in the output (seconds)
	TargetDuration float64 // desired duration in the output (seconds)
	StretchFactor  float64 // target duration / source duration, 1.0 if unknown
}

// RefSpan is one reference syllable's timing.
type RefSpan struct {
	Start float64
	End   float64
}

// PlanTiming computes output timing for matched syllables, walking a
// cursor through the output. Without reference timings each syllable
// keeps its source duration (or avgSyllableDur when the source span is
// empty). With reference timings, duration and start are blended toward
// the reference by strictness in [0, 1]: 0 ignores the reference
// entirely, 1 follows it exactly. Positions beyond the reference fall
// back to source timing. A fixed pause is inserted before each new word.
func PlanTiming(matches []matcher.Result, wordBoundaries []int, avgSyllableDur float64, refTimings []RefSpan, strictness float64) []TimingPlan {
	wordStarts := make(map[int]bool, len(wordBoundaries))
	for _, b := range wordBoundaries {
		wordStarts[b] = true
	}

	plans := make([]TimingPlan, 0, len(matches))
	cursor := 0.0

	for i, m := range matches {
		sourceDur := m.Entry.Duration()

		var targetStart, targetDur float64
		if refTimings != nil && i < len(refTimings) {
			refDur := refTimings[i].End - refTimings[i].Start
			targetDur = sourceDur + strictness*(refDur-sourceDur)
			targetStart = cursor + strictness*(refTimings[i].Start-cursor)
		} else {
			targetDur = sourceDur
			if sourceDur <= 0 {
				targetDur = avgSyllableDur
			}
			targetStart = cursor
		}

		if i > 0 && wordStarts[i] {
			targetStart += WordPauseS
		}

		stretch := 1.0
		if sourceDur > 0 {
			stretch = targetDur / sourceDur
		}

		plans = append(plans, TimingPlan{
			TargetStart:    targetStart,
			TargetDuration: targetDur,
			StretchFactor:  stretch,
		})
		cursor = targetStart + targetDur
	}

	return plans
}

// GroupRuns splits matches into runs of contiguous source syllables.
// Each run is a list of indices into matches; a new run starts whenever
// a match's entry is not the immediate successor (same source, index+1)
// of the previous match's entry.
func GroupRuns(matches []matcher.Result) [][]int {
	if len(matches) == 0 {
		return nil
	}

	runs := [][]int{{0}}
	for i := 1; i < len(matches); i++ {
		last := runs[len(runs)-1]
		prev := &matches[last[len(last)-1]].Entry
		curr := &matches[i].Entry
		if curr.SourcePath == prev.SourcePath && curr.Index == prev.Index+1 {
			runs[len(runs)-1] = append(runs[len(runs)-1], i)
		} else {
			runs = append(runs, []int{i})
		}
	}

	return runs
}

// Source is one loaded source recording.
type Source struct {
	Samples    []float64
	SampleRate uint32
}

// Clip describes one rendered run in the final output.
type Clip struct {
	SourcePath  string  `json:"source"`
	SourceStart float64 `json:"source_start"`
	SourceEnd   float64 `json:"source_end"`
	Syllables   int     `json:"syllables"`
	Stretch     float64 `json:"stretch"`
}

// Config holds assembly parameters.
type Config struct {
	CrossfadeMs         float64   // crossfade at every join
	PitchShifts         []float64 // optional per-position shifts (semitones)
	NormalizeVolume     bool
	NormalizePitch      bool
	PitchRangeSemitones float64 // clamp for pitch normalization shifts
}

// DefaultConfig returns the default assembly parameters.
func DefaultConfig() Config {
	return Config{
		CrossfadeMs:         40,
		NormalizeVolume:     true,
		NormalizePitch:      true,
		PitchRangeSemitones: 5,
	}
}

// Assemble cuts, stretches, and concatenates matched syllables into one
// output signal. Consecutive matches from adjacent positions in the same
// source are cut as a single span to preserve natural coarticulation.
// Every source path referenced by a run must be present in sources;
// a missing one aborts the whole call, since skipping a run would
// desynchronize all later timing.
func Assemble(matches []matcher.Result, timing []TimingPlan, sources map[string]Source, cfg Config) ([]float64, uint32, []Clip, error) {
	runs := GroupRuns(matches)
	if len(runs) == 0 {
		return nil, 0, nil, nil
	}

	var (
		clips      [][]float64
		clipInfo   []Clip
		gapsMs     []float64
		sampleRate uint32
	)

	for runIdx, run := range runs {
		first := run[0]
		last := run[len(run)-1]

		sourcePath := matches[first].Entry.SourcePath
		src, ok := sources[sourcePath]
		if !ok {
			return nil, 0, nil, fmt.Errorf("source audio not loaded for %s", sourcePath)
		}
		if sampleRate == 0 {
			sampleRate = src.SampleRate
		}

		// One cut per run, not per syllable.
		clip := audio.CutClip(src.Samples, src.SampleRate,
			matches[first].Entry.Start, matches[last].Entry.End, 5.0, 3.0)

		// Sources at a different rate are resampled to the output rate.
		if src.SampleRate != sampleRate {
			clip = audio.Resample(clip, float64(src.SampleRate)/float64(sampleRate))
		}

		// Run-level stretch: total source span vs total planned duration.
		sourceDur := matches[last].Entry.End - matches[first].Entry.Start
		targetDur := 0.0
		for _, i := range run {
			targetDur += timing[i].TargetDuration
		}
		stretch := 1.0
		if sourceDur > 0 {
			stretch = targetDur / sourceDur
		}
		if math.Abs(stretch-1.0) > stretchTolerance {
			clip = audio.TimeStretch(clip, sampleRate, stretch)
		}

		// Pitch-shift by the mean of the run's significant shifts.
		if cfg.PitchShifts != nil {
			sum, n := 0.0, 0
			for _, i := range run {
				if i < len(cfg.PitchShifts) && math.Abs(cfg.PitchShifts[i]) > 0.1 {
					sum += cfg.PitchShifts[i]
					n++
				}
			}
			if n > 0 {
				clip = audio.PitchShift(clip, sampleRate, sum/float64(n))
			}
		}

		clips = append(clips, clip)
		clipInfo = append(clipInfo, Clip{
			SourcePath:  sourcePath,
			SourceStart: matches[first].Entry.Start,
			SourceEnd:   matches[last].Entry.End,
			Syllables:   len(run),
			Stretch:     stretch,
		})

		// Silence gap to the next run, from the planned timeline.
		if runIdx < len(runs)-1 {
			thisEnd := timing[last].TargetStart + timing[last].TargetDuration
			nextStart := timing[runs[runIdx+1][0]].TargetStart
			gapsMs = append(gapsMs, math.Max(nextStart-thisEnd, 0)*1000)
		}
	}

	if cfg.NormalizeVolume {
		normalizeVolume(clips)
	}
	if cfg.NormalizePitch {
		pitchRange := cfg.PitchRangeSemitones
		if pitchRange <= 0 {
			pitchRange = 5
		}
		normalizePitch(clips, sampleRate, pitchRange)
	}

	var out []float64
	if len(gapsMs) > 0 {
		out = audio.ConcatenateWithGaps(clips, gapsMs, cfg.CrossfadeMs, sampleRate)
	} else {
		cfSamples := int(math.Round(cfg.CrossfadeMs / 1000.0 * float64(sampleRate)))
		out = audio.Concatenate(clips, cfSamples)
	}

	return out, sampleRate, clipInfo, nil
}

// normalizeVolume adjusts each clip toward the median RMS across clips.
// Adjustments are clamped to +/-20 dB and skipped when under 0.5 dB.
func normalizeVolume(clips [][]float64) {
	var rmsValues []float64
	for _, c := range clips {
		if r := audio.RMS(c); r > 1e-6 {
			rmsValues = append(rmsValues, r)
		}
	}
	if len(rmsValues) == 0 {
		return
	}

	sort.Float64s(rmsValues)
	target := rmsValues[len(rmsValues)/2]
	if target < 1e-6 {
		return
	}

	for _, clip := range clips {
		r := audio.RMS(clip)
		if r < 1e-6 {
			continue
		}
		db := 20 * math.Log10(target/r)
		db = math.Max(-20, math.Min(20, db))
		if math.Abs(db) >= 0.5 {
			audio.AdjustVolume(clip, db)
		}
	}
}

// normalizePitch shifts voiced clips toward the median F0 across clips,
// clamped to +/-pitchRange semitones.
func normalizePitch(clips [][]float64, sr uint32, pitchRange float64) {
	type voiced struct {
		index int
		f0    float64
	}
	var voicedClips []voiced
	for i, c := range clips {
		if f0, ok := audio.EstimateF0(c, sr, 80, 600); ok {
			voicedClips = append(voicedClips, voiced{i, f0})
		}
	}
	if len(voicedClips) == 0 {
		return
	}

	f0s := make([]float64, len(voicedClips))
	for i, v := range voicedClips {
		f0s[i] = v.f0
	}
	sort.Float64s(f0s)
	target := f0s[len(f0s)/2]

	for _, v := range voicedClips {
		semitones := 12 * math.Log2(target/v.f0)
		semitones = math.Max(-pitchRange, math.Min(pitchRange, semitones))
		if math.Abs(semitones) >= 0.1 {
			clips[v.index] = audio.PitchShift(clips[v.index], sr, semitones)
		}
	}
}
