package audio

import "math"

// CutClip extracts [start, end] seconds from samples with padding on both
// sides and half-sine fades at the edges. Padding and fade lengths are in
// milliseconds; the clip is clamped to the signal bounds.
func CutClip(samples []float64, sr uint32, start, end, paddingMs, fadeMs float64) []float64 {
	fileDur := float64(len(samples)) / float64(sr)
	paddingS := paddingMs / 1000.0
	fadeS := fadeMs / 1000.0

	actualStart := math.Max(start-paddingS, 0)
	actualEnd := math.Min(end+paddingS, fileDur)

	startIdx := int(math.Round(actualStart * float64(sr)))
	endIdx := int(math.Round(actualEnd * float64(sr)))
	if startIdx > len(samples) {
		startIdx = len(samples)
	}
	if endIdx > len(samples) {
		endIdx = len(samples)
	}
	if startIdx >= endIdx {
		return nil
	}

	clip := make([]float64, endIdx-startIdx)
	copy(clip, samples[startIdx:endIdx])
	duration := float64(len(clip)) / float64(sr)

	if fadeS > 0 && duration > fadeS*2 {
		fadeSamples := int(math.Round(fadeS * float64(sr)))

		n := fadeSamples
		if n > len(clip) {
			n = len(clip)
		}
		for i := 0; i < n; i++ {
			t := float64(i) / float64(fadeSamples)
			clip[i] *= math.Sin(t * math.Pi / 2)
		}

		outStart := len(clip) - fadeSamples
		if outStart < 0 {
			outStart = 0
		}
		fadeLen := len(clip) - outStart
		for i := 0; i < fadeLen; i++ {
			t := float64(i) / float64(fadeLen)
			clip[outStart+i] *= math.Sin((1 - t) * math.Pi / 2)
		}
	}

	return clip
}

// Silence generates duration milliseconds of silence.
func Silence(durationMs float64, sr uint32) []float64 {
	n := int(math.Round(durationMs / 1000.0 * float64(sr)))
	return make([]float64, n)
}

// Concatenate joins clips with a linear crossfade of crossfadeSamples
// overlapping samples between adjacent clips.
func Concatenate(clips [][]float64, crossfadeSamples int) []float64 {
	if len(clips) == 0 {
		return nil
	}
	if len(clips) == 1 {
		out := make([]float64, len(clips[0]))
		copy(out, clips[0])
		return out
	}

	if crossfadeSamples == 0 {
		total := 0
		for _, c := range clips {
			total += len(c)
		}
		result := make([]float64, 0, total)
		for _, c := range clips {
			result = append(result, c...)
		}
		return result
	}

	result := make([]float64, len(clips[0]))
	copy(result, clips[0])

	for _, clip := range clips[1:] {
		cf := crossfadeSamples
		if cf > len(result) {
			cf = len(result)
		}
		if cf > len(clip) {
			cf = len(clip)
		}
		if cf == 0 {
			result = append(result, clip...)
			continue
		}

		// Fade out the tail of result while fading in the head of clip.
		start := len(result) - cf
		for i := 0; i < cf; i++ {
			t := float64(i) / float64(cf)
			result[start+i] = result[start+i]*(1-t) + clip[i]*t
		}
		result = append(result, clip[cf:]...)
	}

	return result
}

// ConcatenateWithGaps joins clips with silence of the given durations
// between them, crossfading all joins.
func ConcatenateWithGaps(clips [][]float64, gapDurationsMs []float64, crossfadeMs float64, sr uint32) []float64 {
	if len(clips) == 0 {
		return nil
	}

	var all [][]float64
	for i, clip := range clips {
		all = append(all, clip)
		if i < len(clips)-1 {
			gapMs := 0.0
			if i < len(gapDurationsMs) {
				gapMs = gapDurationsMs[i]
			}
			if gapMs > 0 {
				all = append(all, Silence(gapMs, sr))
			}
		}
	}

	cfSamples := int(math.Round(crossfadeMs / 1000.0 * float64(sr)))
	return Concatenate(all, cfSamples)
}

// Resample changes playback speed by the given factor using linear
// interpolation. A factor > 1.0 makes the audio faster (shorter, higher
// pitch); < 1.0 slower (longer, lower pitch). The sample rate is
// unchanged; the result has length int(len(samples)/factor).
func Resample(samples []float64, factor float64) []float64 {
	if len(samples) == 0 || factor <= 0 {
		return nil
	}

	origLen := len(samples)
	newLen := int(float64(origLen) / factor)
	if newLen == 0 {
		return nil
	}

	result := make([]float64, newLen)
	for i := 0; i < newLen; i++ {
		srcIdx := float64(i) * factor
		idx0 := int(srcIdx)
		frac := srcIdx - float64(idx0)

		if idx0+1 < origLen {
			result[i] = samples[idx0]*(1.0-frac) + samples[idx0+1]*frac
		} else if idx0 < origLen {
			result[i] = samples[idx0]
		}
	}

	return result
}

// TimeStretch changes duration by the given factor while roughly
// preserving pitch, using granular overlap-add of short windows.
// factor > 1.0 lengthens, < 1.0 shortens.
func TimeStretch(samples []float64, sr uint32, factor float64) []float64 {
	if math.Abs(factor-1.0) < 0.01 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}
	if len(samples) == 0 || factor <= 0 {
		return nil
	}

	// 40 ms grains with 50% overlap, repositioned by 1/factor.
	grain := int(0.040 * float64(sr))
	if grain < 2 {
		grain = 2
	}
	if grain > len(samples) {
		grain = len(samples)
	}
	hopOut := grain / 2
	hopIn := float64(hopOut) / factor

	outLen := int(math.Round(float64(len(samples)) * factor))
	out := make([]float64, outLen)
	norm := make([]float64, outLen)

	win := make([]float64, grain)
	for i := range win {
		win[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(grain-1))
	}

	for outPos, inPos := 0, 0.0; outPos < outLen; outPos, inPos = outPos+hopOut, inPos+hopIn {
		start := int(inPos)
		if start+grain > len(samples) {
			start = len(samples) - grain
		}
		for i := 0; i < grain && outPos+i < outLen; i++ {
			out[outPos+i] += samples[start+i] * win[i]
			norm[outPos+i] += win[i]
		}
	}

	for i := range out {
		if norm[i] > 1e-9 {
			out[i] /= norm[i]
		}
	}

	return out
}

// PitchShift shifts pitch by semitones while preserving duration:
// resample to change pitch, then stretch back to the original length.
func PitchShift(samples []float64, sr uint32, semitones float64) []float64 {
	if math.Abs(semitones) < 0.01 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := math.Pow(2, semitones/12.0)
	shifted := Resample(samples, ratio)
	if len(shifted) == 0 {
		return nil
	}
	return TimeStretch(shifted, sr, float64(len(samples))/float64(len(shifted)))
}

// AdjustVolume scales samples in place by a dB amount.
func AdjustVolume(samples []float64, db float64) {
	if math.Abs(db) < 0.01 {
		return
	}
	gain := math.Pow(10, db/20.0)
	for i := range samples {
		samples[i] *= gain
	}
}

// Mix overlays secondary (attenuated by secondaryVolumeDB) onto primary.
// The result has the length of primary; the secondary loops if shorter.
func Mix(primary, secondary []float64, secondaryVolumeDB float64) []float64 {
	out := make([]float64, len(primary))
	copy(out, primary)
	if len(secondary) == 0 {
		return out
	}

	gain := math.Pow(10, secondaryVolumeDB/20.0)
	for i := range out {
		out[i] += secondary[i%len(secondary)] * gain
	}
	return out
}
