// Package matcher selects source syllables for each target position.
//
// Syllable mode runs a Viterbi-style dynamic program with a continuity
// bonus that rewards reusing physically adjacent source syllables, since
// adjacent syllables keep their natural coarticulation and splices across
// unrelated units sound stitched. Phoneme mode is a flat per-symbol scan
// with no continuity modeling.
package matcher

import (
	"math"
	"runtime"
	"sync"

	"github.com/patchvox/patchvox/bank"
	"github.com/patchvox/patchvox/internal/mathutil"
	"github.com/patchvox/patchvox/phonetic"
)

// DefaultContinuityBonus is the cost discount applied when a target
// position matches the contiguous successor of the previous position's
// source syllable. A value of 7 means the DP prefers a contiguous
// candidate whose phonetic distance is up to 7 worse than the best
// non-contiguous alternative.
const DefaultContinuityBonus = 7.0

// stressPenalty nudges ties toward entries whose stress matches the
// target's stress hint. Small enough to never outweigh a feature.
const stressPenalty = 0.1

// Config holds matching parameters.
type Config struct {
	ContinuityBonus float64 // cost discount for contiguous source runs
	Workers         int     // distance-matrix fill workers; <=0 means NumCPU
}

// DefaultConfig returns the default matching parameters.
func DefaultConfig() Config {
	return Config{
		ContinuityBonus: DefaultContinuityBonus,
	}
}

// Result is the match decision for one target position.
type Result struct {
	TargetPhonemes []string   // the phonemes that were sought
	Entry          bank.Entry // the chosen source syllable
	Distance       int        // phonetic distance achieved
	TargetIndex    int        // position in the target sequence
}

// Record is the JSON form of a Result for the match-log audit file.
type Record struct {
	TargetIndex int      `json:"target_index"`
	Target      []string `json:"target"`
	Matched     []string `json:"matched"`
	MatchedWord string   `json:"matched_word"`
	SourceIndex int      `json:"source_index"`
	Distance    int      `json:"distance"`
}

// Record serializes the result for the audit trail.
func (r *Result) Record() Record {
	return Record{
		TargetIndex: r.TargetIndex,
		Target:      r.TargetPhonemes,
		Matched:     r.Entry.PhonemeLabels,
		MatchedWord: r.Entry.Word,
		SourceIndex: r.Entry.Index,
		Distance:    r.Distance,
	}
}

// distanceMatrix fills the N x B cost matrix concurrently across target
// rows. The bank and targets are read-only, so rows share no state.
func distanceMatrix(targets [][]string, stresses []int, entries []bank.Entry, workers int) mathutil.Mat {
	n := len(targets)
	b := len(entries)
	dists := mathutil.NewMat(n, b)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				stress := bank.NoStress
				if stresses != nil && i < len(stresses) {
					stress = stresses[i]
				}
				row := dists[i]
				for j := range entries {
					d := float64(phonetic.SyllableDistance(targets[i], entries[j].PhonemeLabels))
					if stress != bank.NoStress && entries[j].Stress != stress {
						d += stressPenalty
					}
					row[j] = d
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return dists
}

// MatchSyllables matches each target syllable to a source syllable,
// minimizing total phonetic distance while rewarding contiguous source
// runs. Returns one Result per target position.
//
// An empty target sequence or an empty bank yields an empty result and
// no error: there is nothing to match. When several bank entries are
// equally cheap, the lowest bank index wins; callers must not rely on a
// different tie-break.
func MatchSyllables(targets [][]string, stresses []int, entries []bank.Entry, cfg Config) []Result {
	n := len(targets)
	b := len(entries)
	if n == 0 || b == 0 {
		return nil
	}

	bonus := cfg.ContinuityBonus

	dists := distanceMatrix(targets, stresses, entries, cfg.Workers)

	// pred[j] = bank position of entries[j]'s contiguous predecessor.
	ix := bank.NewIndex(entries)
	pred := make([]int, b)
	for j := 0; j < b; j++ {
		pred[j] = ix.Predecessor(entries, j)
	}

	// Forward pass over two row buffers. The backtrace table is kept in
	// full: parents[i][j] is the bank position chosen for target i-1 on
	// the best path ending at (i, j).
	dp := mathutil.NewVec(b)
	next := mathutil.NewVec(b)
	copy(dp, dists[0])
	parents := mathutil.NewIntMat(n, b)

	for i := 1; i < n; i++ {
		minK, minPrev := mathutil.ArgMin(dp)

		for j := 0; j < b; j++ {
			cost := dists[i][j]

			// Non-contiguous: best of any previous bank entry.
			best := minPrev + cost
			bestK := minK

			// Contiguous: the same-source predecessor, discounted.
			if k := pred[j]; k >= 0 {
				if contiguous := dp[k] + cost - bonus; contiguous < best {
					best = contiguous
					bestK = k
				}
			}

			next[j] = best
			parents[i][j] = bestK
		}

		dp, next = next, dp
	}

	// Backtrace from the cheapest final position.
	path := make([]int, n)
	last, _ := mathutil.ArgMin(dp)
	path[n-1] = last
	for i := n - 1; i >= 1; i-- {
		path[i-1] = parents[i][path[i]]
	}

	results := make([]Result, n)
	for i := 0; i < n; i++ {
		j := path[i]
		results[i] = Result{
			TargetPhonemes: targets[i],
			Entry:          entries[j],
			Distance:       int(dists[i][j]),
			TargetIndex:    i,
		}
	}
	return results
}

// MatchPhonemes matches each individual target phoneme to the closest
// single source phoneme anywhere in the bank. No continuity bonus is
// applied; this trades naturalness for per-symbol accuracy and suits
// short target units. The scan for a target stops at the first exact hit.
func MatchPhonemes(phonemes []string, entries []bank.Entry) []Result {
	if len(phonemes) == 0 || len(entries) == 0 {
		return nil
	}

	// Flatten the bank into (label, owning entry) pairs.
	type flatPhoneme struct {
		label string
		entry int
	}
	var flat []flatPhoneme
	for ei := range entries {
		for _, label := range entries[ei].PhonemeLabels {
			flat = append(flat, flatPhoneme{label, ei})
		}
	}

	results := make([]Result, len(phonemes))
	for i, ph := range phonemes {
		bestEntry := 0
		bestDist := math.MaxInt
		for _, fp := range flat {
			d := phonetic.PhonemeDistance(ph, fp.label)
			if d < bestDist {
				bestDist = d
				bestEntry = fp.entry
			}
			if d == 0 {
				break
			}
		}
		results[i] = Result{
			TargetPhonemes: []string{ph},
			Entry:          entries[bestEntry],
			Distance:       bestDist,
			TargetIndex:    i,
		}
	}
	return results
}
