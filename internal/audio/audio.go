// Package audio reads and writes audio files as signal buffers.
// WAV, MP3 and FLAC are decoded; WAV is the only write target.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"

	"github.com/cwbudde/algo-esig/dsp/signal"
)

// ReadFile decodes an audio file into an interleaved buffer, picking the
// decoder from the file extension.
func ReadFile(path string) (signal.Buffer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return readWAV(path)
	case ".mp3":
		return readMP3(path)
	case ".flac":
		return readFLAC(path)
	default:
		return signal.Buffer{}, fmt.Errorf("audio: unsupported file type %q", filepath.Ext(path))
	}
}

func readWAV(path string) (signal.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Buffer{}, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return signal.Buffer{}, fmt.Errorf("audio: %s: not a valid WAV file", path)
	}

	intBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: reading %s: %w", path, err)
	}

	maxVal := float64(goaudio.IntMaxSignedValue(int(decoder.BitDepth)))
	data := make([]float64, len(intBuf.Data))
	for i, v := range intBuf.Data {
		data[i] = float64(v) / maxVal
	}

	buf, err := signal.NewBuffer(data, float64(decoder.SampleRate), int(decoder.NumChans))
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: %s: %w", path, err)
	}
	buf.Label = filepath.Base(path)
	return buf, nil
}

func readFLAC(path string) (signal.Buffer, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: opening %s: %w", path, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var data []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return signal.Buffer{}, fmt.Errorf("audio: decoding %s: %w", path, err)
		}

		// Subframes hold one channel each; interleave them.
		frames := len(frame.Subframes[0].Samples)
		for i := 0; i < frames; i++ {
			for _, sub := range frame.Subframes {
				data = append(data, float64(sub.Samples[i])/scale)
			}
		}
	}

	buf, err := signal.NewBuffer(data, float64(stream.Info.SampleRate), channels)
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: %s: %w", path, err)
	}
	buf.Label = filepath.Base(path)
	return buf, nil
}

func readMP3(path string) (signal.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Buffer{}, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: opening %s: %w", path, err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: decoding %s: %w", path, err)
	}

	// The MP3 decoder always emits interleaved 16-bit stereo.
	frames := len(raw) / 4
	data := make([]float64, 0, frames*2)
	for i := 0; i < frames; i++ {
		left := int16(raw[i*4]) | int16(raw[i*4+1])<<8
		right := int16(raw[i*4+2]) | int16(raw[i*4+3])<<8
		data = append(data, float64(left)/32768.0, float64(right)/32768.0)
	}

	buf, err := signal.NewBuffer(data, float64(decoder.SampleRate()), 2)
	if err != nil {
		return signal.Buffer{}, fmt.Errorf("audio: %s: %w", path, err)
	}
	buf.Label = filepath.Base(path)
	return buf, nil
}

// WriteWAV writes a buffer as 16-bit PCM WAV.
func WriteWAV(path string, buf signal.Buffer) error {
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return fmt.Errorf("audio: writing %s: invalid buffer", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitDepth = 16
	enc := wav.NewEncoder(f, int(buf.SampleRate), bitDepth, buf.Channels, 1)

	maxVal := float64(goaudio.IntMaxSignedValue(bitDepth))
	intBuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: buf.Channels,
			SampleRate:  int(buf.SampleRate),
		},
		Data:           make([]int, len(buf.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range buf.Data {
		s := math.Round(v * maxVal)
		if s > maxVal {
			s = maxVal
		}
		if s < -maxVal-1 {
			s = -maxVal - 1
		}
		intBuf.Data[i] = int(s)
	}

	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("audio: writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: finalizing %s: %w", path, err)
	}
	return nil
}
