// Package audio provides WAV I/O and the DSP primitives the assembler
// calls by contract: cutting, crossfade concatenation, time-stretching,
// pitch-shifting, volume adjustment, and signal analysis.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WAVHeader holds the parsed RIFF/WAV header fields.
type WAVHeader struct {
	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16
	NumSamples    int
}

// ReadWAV reads a WAV stream and returns normalized float64 samples in
// [-1.0, 1.0]. Only 16-bit PCM mono is supported; any sample rate is
// accepted and reported in the header.
func ReadWAV(r io.ReadSeeker) ([]float64, WAVHeader, error) {
	var header WAVHeader

	var riffID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &riffID); err != nil {
		return nil, header, fmt.Errorf("read RIFF ID: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return nil, header, errors.New("not a RIFF file")
	}

	var fileSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return nil, header, fmt.Errorf("read file size: %w", err)
	}

	var waveID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &waveID); err != nil {
		return nil, header, fmt.Errorf("read WAVE ID: %w", err)
	}
	if string(waveID[:]) != "WAVE" {
		return nil, header, errors.New("not a WAVE file")
	}

	var fmtFound, dataFound bool
	var samples []float64

	for {
		var chunkID [4]byte
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, header, fmt.Errorf("read chunk ID: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, header, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if err := readFmtChunk(r, chunkSize, &header); err != nil {
				return nil, header, err
			}
			fmtFound = true

		case "data":
			if !fmtFound {
				return nil, header, errors.New("data chunk before fmt chunk")
			}
			var err error
			samples, err = readDataChunk(r, chunkSize, &header)
			if err != nil {
				return nil, header, err
			}
			dataFound = true

		default:
			// Skip unknown chunks; align to even boundary.
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return nil, header, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}

		if fmtFound && dataFound {
			break
		}
	}

	if !fmtFound {
		return nil, header, errors.New("missing fmt chunk")
	}
	if !dataFound {
		return nil, header, errors.New("missing data chunk")
	}

	return samples, header, nil
}

// ReadWAVFile is a convenience wrapper that opens a file path.
func ReadWAVFile(path string) ([]float64, WAVHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WAVHeader{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}

func readFmtChunk(r io.ReadSeeker, size uint32, h *WAVHeader) error {
	var audioFormat uint16
	if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
		return fmt.Errorf("read audio format: %w", err)
	}
	if audioFormat != 1 {
		return fmt.Errorf("unsupported audio format %d (only PCM=1 supported)", audioFormat)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.NumChannels); err != nil {
		return fmt.Errorf("read num channels: %w", err)
	}
	if h.NumChannels != 1 {
		return fmt.Errorf("unsupported channel count %d (only mono supported)", h.NumChannels)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.SampleRate); err != nil {
		return fmt.Errorf("read sample rate: %w", err)
	}

	// Skip byteRate (4 bytes) and blockAlign (2 bytes).
	if _, err := r.Seek(6, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip byte rate / block align: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.BitsPerSample); err != nil {
		return fmt.Errorf("read bits per sample: %w", err)
	}
	if h.BitsPerSample != 16 {
		return fmt.Errorf("unsupported bits per sample %d (only 16 supported)", h.BitsPerSample)
	}

	// Skip any extra fmt bytes.
	consumed := uint32(16)
	if size > consumed {
		if _, err := r.Seek(int64(size-consumed), io.SeekCurrent); err != nil {
			return fmt.Errorf("skip extra fmt bytes: %w", err)
		}
	}

	return nil
}

func readDataChunk(r io.Reader, size uint32, h *WAVHeader) ([]float64, error) {
	bytesPerSample := int(h.BitsPerSample) / 8
	numSamples := int(size) / bytesPerSample
	h.NumSamples = numSamples

	raw := make([]int16, numSamples)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}

	samples := make([]float64, numSamples)
	for i, s := range raw {
		samples[i] = float64(s) / 32768.0
	}

	return samples, nil
}

// WriteWAV writes float64 samples in [-1.0, 1.0] as 16-bit PCM mono.
// Samples outside the range are clipped.
func WriteWAV(w io.Writer, samples []float64, sampleRate uint32) error {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(samples) * 2)

	// RIFF header.
	if _, err := w.Write([]byte("RIFF")); err != nil {
		return fmt.Errorf("write RIFF ID: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(36+dataSize)); err != nil {
		return fmt.Errorf("write file size: %w", err)
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return fmt.Errorf("write WAVE ID: %w", err)
	}

	// fmt chunk.
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return fmt.Errorf("write fmt ID: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(16)); err != nil {
		return fmt.Errorf("write fmt size: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil {
		return fmt.Errorf("write audio format: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(numChannels)); err != nil {
		return fmt.Errorf("write num channels: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, sampleRate); err != nil {
		return fmt.Errorf("write sample rate: %w", err)
	}
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	if err := binary.Write(w, binary.LittleEndian, byteRate); err != nil {
		return fmt.Errorf("write byte rate: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(numChannels*bitsPerSample/8)); err != nil {
		return fmt.Errorf("write block align: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(bitsPerSample)); err != nil {
		return fmt.Errorf("write bits per sample: %w", err)
	}

	// data chunk.
	if _, err := w.Write([]byte("data")); err != nil {
		return fmt.Errorf("write data ID: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, dataSize); err != nil {
		return fmt.Errorf("write data size: %w", err)
	}

	raw := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		raw[i] = int16(s * 32767.0)
	}
	if err := binary.Write(w, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("write PCM data: %w", err)
	}

	return nil
}

// WriteWAVFile is a convenience wrapper that creates a file path.
func WriteWAVFile(path string, samples []float64, sampleRate uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteWAV(f, samples, sampleRate)
}
