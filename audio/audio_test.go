package audio

import (
	"bytes"
	"math"
	"testing"
)

func sine(freq float64, sr uint32, durS float64) []float64 {
	n := int(durS * float64(sr))
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
	}
	return out
}

func TestWAVRoundTrip(t *testing.T) {
	in := sine(440, 16000, 0.1)

	var buf bytes.Buffer
	if err := WriteWAV(&buf, in, 16000); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}

	out, header, err := ReadWAV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if header.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", header.SampleRate)
	}
	if header.NumChannels != 1 || header.BitsPerSample != 16 {
		t.Errorf("format = %d ch / %d bit", header.NumChannels, header.BitsPerSample)
	}
	if len(out) != len(in) {
		t.Fatalf("samples = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if diff := math.Abs(out[i] - in[i]); diff > 1.0/32000 {
			t.Fatalf("sample %d: %v vs %v", i, out[i], in[i])
		}
	}
}

func TestWAVArbitrarySampleRate(t *testing.T) {
	in := sine(440, 44100, 0.01)

	var buf bytes.Buffer
	if err := WriteWAV(&buf, in, 44100); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}
	_, header, err := ReadWAV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if header.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", header.SampleRate)
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	if _, _, err := ReadWAV(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Error("expected error for non-RIFF input")
	}
}

func TestCutClip(t *testing.T) {
	samples := make([]float64, 16000) // 1 s at 16 kHz
	for i := range samples {
		samples[i] = 1.0
	}

	clip := CutClip(samples, 16000, 0.25, 0.5, 0, 0)
	if len(clip) != 4000 {
		t.Errorf("clip length = %d, want 4000", len(clip))
	}

	// Padding extends, clamped to the file bounds.
	clip = CutClip(samples, 16000, 0.0, 0.5, 5, 0)
	if len(clip) != 8080 {
		t.Errorf("padded clip length = %d, want 8080", len(clip))
	}

	// Inverted range yields nothing.
	if clip = CutClip(samples, 16000, 0.9, 0.2, 0, 0); clip != nil {
		t.Errorf("inverted cut = %d samples, want none", len(clip))
	}
}

func TestCutClipFades(t *testing.T) {
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 1.0
	}
	clip := CutClip(samples, 16000, 0.0, 1.0, 0, 10)
	if clip[0] != 0 {
		t.Errorf("first sample = %v, want 0 (faded in)", clip[0])
	}
	mid := clip[len(clip)/2]
	if math.Abs(mid-1.0) > 1e-9 {
		t.Errorf("middle sample = %v, want 1.0", mid)
	}
	if last := clip[len(clip)-1]; last > 0.05 {
		t.Errorf("last sample = %v, want near 0 (faded out)", last)
	}
}

func TestConcatenate(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{0.5, 0.5, 0.5, 0.5}

	out := Concatenate([][]float64{a, b}, 0)
	if len(out) != 8 {
		t.Errorf("length = %d, want 8", len(out))
	}

	out = Concatenate([][]float64{a, b}, 2)
	if len(out) != 6 {
		t.Errorf("crossfaded length = %d, want 6", len(out))
	}

	if out := Concatenate(nil, 0); out != nil {
		t.Error("empty input should yield nil")
	}
}

func TestConcatenateWithGaps(t *testing.T) {
	a := []float64{1, 1}
	b := []float64{1, 1}
	// 1 ms gap at 16 kHz = 16 samples of silence, no crossfade.
	out := ConcatenateWithGaps([][]float64{a, b}, []float64{1}, 0, 16000)
	if len(out) != 2+16+2 {
		t.Errorf("length = %d, want 20", len(out))
	}
}

func TestResample(t *testing.T) {
	samples := sine(440, 16000, 0.5)

	faster := Resample(samples, 2.0)
	if got, want := len(faster), len(samples)/2; got != want {
		t.Errorf("2x length = %d, want %d", got, want)
	}

	slower := Resample(samples, 0.5)
	if got, want := len(slower), len(samples)*2; got != want {
		t.Errorf("0.5x length = %d, want %d", got, want)
	}
}

func TestTimeStretch(t *testing.T) {
	samples := sine(220, 16000, 0.5)

	longer := TimeStretch(samples, 16000, 1.5)
	want := int(math.Round(float64(len(samples)) * 1.5))
	if math.Abs(float64(len(longer)-want)) > 1 {
		t.Errorf("1.5x length = %d, want ~%d", len(longer), want)
	}

	// Near-unity factors pass through.
	same := TimeStretch(samples, 16000, 1.0)
	if len(same) != len(samples) {
		t.Errorf("1.0x length = %d, want %d", len(same), len(samples))
	}
}

func TestPitchShiftPreservesLength(t *testing.T) {
	samples := sine(220, 16000, 0.25)
	shifted := PitchShift(samples, 16000, 3.0)
	if math.Abs(float64(len(shifted)-len(samples))) > float64(len(samples))/50 {
		t.Errorf("shifted length = %d, want ~%d", len(shifted), len(samples))
	}
}

func TestAdjustVolume(t *testing.T) {
	samples := []float64{0.1, -0.1}
	AdjustVolume(samples, 20) // +20 dB = 10x
	if math.Abs(samples[0]-1.0) > 1e-9 {
		t.Errorf("sample = %v, want 1.0", samples[0])
	}
}

func TestRMS(t *testing.T) {
	if r := RMS(nil); r != 0 {
		t.Errorf("RMS(nil) = %v, want 0", r)
	}
	samples := []float64{0.5, -0.5, 0.5, -0.5}
	if r := RMS(samples); math.Abs(r-0.5) > 1e-9 {
		t.Errorf("RMS = %v, want 0.5", r)
	}
}

func TestEstimateF0(t *testing.T) {
	samples := sine(200, 16000, 0.2)
	f0, ok := EstimateF0(samples, 16000, 80, 600)
	if !ok {
		t.Fatal("no F0 found for a 200 Hz sine")
	}
	if math.Abs(f0-200) > 10 {
		t.Errorf("f0 = %v, want ~200", f0)
	}

	if _, ok := EstimateF0(make([]float64, 1600), 16000, 80, 600); ok {
		t.Error("silence should yield no F0")
	}
}

func TestFindRoomTone(t *testing.T) {
	sr := uint32(16000)
	loud := sine(200, sr, 1.0)
	quiet := make([]float64, sr/2) // 0.5 s of silence
	signal := append(append(append([]float64{}, loud...), quiet...), loud...)

	start, end, ok := FindRoomTone(signal, sr, 400)
	if !ok {
		t.Fatal("no room tone found")
	}
	if start < 0.9 || end > 1.6 {
		t.Errorf("room tone = %v-%v, want within the quiet middle", start, end)
	}

	if _, _, ok := FindRoomTone(loud, sr, 400); ok {
		t.Error("pure tone should have no room tone region")
	}
}

func TestMix(t *testing.T) {
	primary := []float64{0, 0, 0, 0}
	secondary := []float64{1, 1}
	out := Mix(primary, secondary, -20) // 0.1x
	if math.Abs(out[0]-0.1) > 1e-9 || math.Abs(out[3]-0.1) > 1e-9 {
		t.Errorf("mix = %v, want 0.1 everywhere (looped)", out)
	}
}
