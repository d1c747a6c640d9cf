package signal

import (
	"fmt"

	"github.com/cwbudde/algo-esig/dsp/core"
)

// Buffer holds an in-memory audio signal as frame-major interleaved
// float64 samples together with its sample rate and channel layout.
//
// Buffer is treated as a value: consumers that need to mutate samples
// work on a Clone, never on a caller's buffer.
type Buffer struct {
	Data       []float64
	SampleRate float64
	Channels   int
	Label      string
}

// NewBuffer constructs a buffer and validates its layout.
func NewBuffer(data []float64, sampleRate float64, channels int) (Buffer, error) {
	if sampleRate <= 0 {
		return Buffer{}, fmt.Errorf("signal: sample rate must be > 0: %f", sampleRate)
	}
	if channels <= 0 {
		return Buffer{}, fmt.Errorf("signal: channel count must be > 0: %d", channels)
	}
	if len(data)%channels != 0 {
		return Buffer{}, fmt.Errorf("signal: data length %d is not a multiple of %d channels", len(data), channels)
	}

	return Buffer{
		Data:       data,
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}

// NewMonoBuffer constructs a single-channel buffer.
func NewMonoBuffer(data []float64, sampleRate float64) (Buffer, error) {
	return NewBuffer(data, sampleRate, 1)
}

// Clone returns a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := b
	out.Data = make([]float64, len(b.Data))
	core.CopyInto(out.Data, b.Data)
	return out
}

// Frames returns the number of sample frames.
func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration returns the signal length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.SampleRate
}

// Channel returns a copy of one channel's samples.
func (b Buffer) Channel(c int) []float64 {
	if c < 0 || c >= b.Channels {
		return nil
	}

	frames := b.Frames()
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		out[i] = b.Data[i*b.Channels+c]
	}
	return out
}

// FromChannels interleaves per-channel sample slices into a buffer.
// All channels must have equal length.
func FromChannels(chans [][]float64, sampleRate float64) (Buffer, error) {
	if len(chans) == 0 {
		return Buffer{}, fmt.Errorf("signal: at least one channel required")
	}

	frames := len(chans[0])
	for c, ch := range chans {
		if len(ch) != frames {
			return Buffer{}, fmt.Errorf("signal: channel %d length %d != %d", c, len(ch), frames)
		}
	}

	data := make([]float64, frames*len(chans))
	for i := 0; i < frames; i++ {
		for c := range chans {
			data[i*len(chans)+c] = chans[c][i]
		}
	}
	return NewBuffer(data, sampleRate, len(chans))
}

// Mono returns a single-channel copy, averaging channels when needed.
func (b Buffer) Mono() []float64 {
	if b.Channels == 1 {
		out := make([]float64, len(b.Data))
		core.CopyInto(out, b.Data)
		return out
	}

	frames := b.Frames()
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < b.Channels; c++ {
			sum += b.Data[i*b.Channels+c]
		}
		out[i] = sum / float64(b.Channels)
	}
	return out
}
