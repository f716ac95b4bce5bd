// Package wavio reads mono PCM recordings and writes per-frame pitch tracks.
package wavio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned for files the decoder does not recognise.
	ErrInvalidWAV = errors.New("wavio: invalid WAV file")
	// ErrMultiChannel is returned for recordings with more than one channel.
	ErrMultiChannel = errors.New("wavio: multi-channel audio is not supported")
)

// Recording is a decoded mono PCM file. Samples keep the integer amplitude
// scale of the source.
type Recording struct {
	Path       string
	SampleRate float64
	BitDepth   int
	Samples    []float64
}

// Duration returns the length of the recording in seconds.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(len(r.Samples)) / r.SampleRate
}

// Read decodes the WAV file at path.
func Read(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec.Path = path

	return rec, nil
}

// Decode reads a WAV stream.
func Decode(r io.ReadSeeker) (*Recording, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: read PCM buffer: %w", err)
	}
	if buf.Format == nil {
		return nil, ErrInvalidWAV
	}
	if buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrMultiChannel, buf.Format.NumChannels)
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v)
	}

	return &Recording{
		SampleRate: float64(buf.Format.SampleRate),
		BitDepth:   int(buf.SourceBitDepth),
		Samples:    samples,
	}, nil
}

// Write encodes integer PCM samples as a WAV file at path.
func Write(path string, samples []int, sampleRate, bitDepth, channels int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wavio: close %s: %w", path, cerr)
		}
	}()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("wavio: write %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}

	return nil
}

// FormatF0 renders one estimate the way track files store it: the shortest
// decimal that round-trips, "0" for unvoiced frames.
func FormatF0(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeF0 writes one estimate per line.
func EncodeF0(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		if _, err := bw.WriteString(FormatF0(v)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteF0 writes a pitch track file, replacing any existing one.
func WriteF0(path string, values []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wavio: close %s: %w", path, cerr)
		}
	}()

	if err := EncodeF0(f, values); err != nil {
		return fmt.Errorf("wavio: write %s: %w", path, err)
	}

	return nil
}

// WriteMarker records the method name that produced a directory's tracks.
func WriteMarker(path, method string) error {
	if err := os.WriteFile(path, []byte(method+"\n"), 0o644); err != nil {
		return fmt.Errorf("wavio: write marker %s: %w", path, err)
	}
	return nil
}

// ReadF0 parses a whitespace-separated pitch track, as written by WriteF0 or
// supplied as a reference.
func ReadF0(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	values, err := DecodeF0(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return values, nil
}

// DecodeF0 reads whitespace-separated decimal values. Parsing stops at the
// first token that is not a number, mirroring stream extraction.
func DecodeF0(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var out []float64
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			break
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wavio: read pitch track: %w", err)
	}

	return out, nil
}
