package audio

import "math"

// RMS computes the root-mean-square energy of the entire signal.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, s := range samples {
		sumSq += s * s
	}
	return math.Sqrt(sumSq / float64(len(samples)))
}

// WindowedRMS computes RMS energy in sliding windows, one value per hop.
func WindowedRMS(samples []float64, sr uint32, windowMs, hopMs int) []float64 {
	windowSamples := int(sr) * windowMs / 1000
	hopSamples := int(sr) * hopMs / 1000

	if len(samples) < windowSamples || windowSamples == 0 || hopSamples == 0 {
		return nil
	}

	nFrames := (len(samples)-windowSamples)/hopSamples + 1
	rms := make([]float64, 0, nFrames)

	for i := 0; i < nFrames; i++ {
		start := i * hopSamples
		frame := samples[start : start+windowSamples]
		sumSq := 0.0
		for _, s := range frame {
			sumSq += s * s
		}
		rms = append(rms, math.Sqrt(sumSq/float64(windowSamples)))
	}

	return rms
}

// FindRoomTone locates the quietest continuous region at least
// minDurationMs long: the longest run of windowed-RMS frames below 10%
// of the mean RMS. Returns start and end in seconds, and false if no
// suitable region exists.
func FindRoomTone(samples []float64, sr uint32, minDurationMs int) (float64, float64, bool) {
	minSamples := int(sr) * minDurationMs / 1000
	if len(samples) < minSamples {
		return 0, 0, false
	}

	const (
		windowMs = 25
		hopMs    = 12
	)
	rms := WindowedRMS(samples, sr, windowMs, hopMs)
	if len(rms) == 0 {
		return 0, 0, false
	}

	mean := 0.0
	for _, v := range rms {
		mean += v
	}
	mean /= float64(len(rms))

	if mean < 1e-10 {
		// The whole signal is silence.
		return 0, float64(len(samples)) / float64(sr), true
	}

	threshold := mean * 0.1

	bestStart, bestLen := 0, 0
	curStart, curLen := 0, 0
	for i, v := range rms {
		if v < threshold {
			if curLen == 0 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestLen = curLen
				bestStart = curStart
			}
		} else {
			curLen = 0
		}
	}

	if bestLen == 0 {
		return 0, 0, false
	}

	hopSamples := int(sr) * hopMs / 1000
	startS := float64(bestStart*hopSamples) / float64(sr)
	endS := float64((bestStart+bestLen)*hopSamples) / float64(sr)

	if endS-startS < float64(minDurationMs)/1000.0 {
		return 0, 0, false
	}

	return startS, endS, true
}

// EstimateF0 estimates the fundamental frequency by normalized
// autocorrelation, taking the first peak at or above a periodicity
// threshold searching from the shortest lag to avoid octave errors.
// Returns false for silence, noise, or weak periodicity.
func EstimateF0(samples []float64, sr uint32, f0Min, f0Max int) (float64, bool) {
	if len(samples) == 0 || f0Min <= 0 || f0Max <= 0 {
		return 0, false
	}
	if RMS(samples) < 1e-6 {
		return 0, false
	}

	lagMin := int(sr) / f0Max
	lagMax := int(sr) / f0Min
	if lagMax > len(samples)-1 {
		lagMax = len(samples) - 1
	}
	if lagMin >= lagMax {
		return 0, false
	}

	// Remove DC offset.
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))
	x := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = s - mean
	}

	energy := 0.0
	for _, v := range x {
		energy += v * v
	}
	if energy < 1e-12 {
		return 0, false
	}

	autocorr := make([]float64, 0, lagMax-lagMin+1)
	for lag := lagMin; lag <= lagMax; lag++ {
		sum := 0.0
		for i := 0; i < len(x)-lag; i++ {
			sum += x[i] * x[i+lag]
		}
		autocorr = append(autocorr, sum/energy)
	}

	const threshold = 0.3

	// Left boundary counts as a peak if it dominates its neighbor.
	if len(autocorr) >= 2 && autocorr[0] >= threshold && autocorr[0] >= autocorr[1] {
		return float64(sr) / float64(lagMin), true
	}

	for i := 1; i < len(autocorr)-1; i++ {
		if autocorr[i] >= threshold && autocorr[i] >= autocorr[i-1] && autocorr[i] >= autocorr[i+1] {
			return float64(sr) / float64(lagMin+i), true
		}
	}

	return 0, false
}
