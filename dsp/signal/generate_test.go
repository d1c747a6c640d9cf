package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-esig/dsp/core"
)

func TestGeneratorSine(t *testing.T) {
	gen := NewGenerator(core.WithSampleRate(48000))

	buf, err := gen.Sine(1000, 0.5, 4800)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	if buf.SampleRate != 48000 || buf.Channels != 1 {
		t.Fatalf("format = %v Hz, %d ch; want 48000 Hz mono", buf.SampleRate, buf.Channels)
	}
	if buf.Data[0] != 0 {
		t.Fatalf("sine must start at zero phase, got %v", buf.Data[0])
	}

	// Peak at a quarter period: 48000/1000/4 = 12 samples.
	if math.Abs(buf.Data[12]-0.5) > 1e-9 {
		t.Fatalf("quarter-period sample = %v, want 0.5", buf.Data[12])
	}
}

func TestGeneratorSineValidation(t *testing.T) {
	gen := NewGenerator()
	if _, err := gen.Sine(440, 0.5, 0); err == nil {
		t.Fatalf("expected error for zero samples")
	}
	if _, err := gen.Sine(0, 0.5, 100); err == nil {
		t.Fatalf("expected error for zero frequency")
	}
}

func TestGeneratorVibratoSineStaysBounded(t *testing.T) {
	gen := NewGenerator()

	buf, err := gen.VibratoSine(220, 0.8, 5, 50, 44100)
	if err != nil {
		t.Fatalf("VibratoSine: %v", err)
	}
	for i, v := range buf.Data {
		if math.Abs(v) > 0.8+1e-9 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, v)
		}
	}
}

func TestGeneratorWhiteNoiseDeterministic(t *testing.T) {
	a, err := NewGeneratorWithOptions(nil, WithSeed(7)).WhiteNoise(1.0, 256)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	b, _ := NewGeneratorWithOptions(nil, WithSeed(7)).WhiteNoise(1.0, 256)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("same seed diverged at %d", i)
		}
	}

	c, _ := NewGeneratorWithOptions(nil, WithSeed(8)).WhiteNoise(1.0, 256)
	same := true
	for i := range a.Data {
		if a.Data[i] != c.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical noise")
	}
}

func TestGeneratorSilence(t *testing.T) {
	buf, err := NewGenerator().Silence(100)
	if err != nil {
		t.Fatalf("Silence: %v", err)
	}
	for i, v := range buf.Data {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.1, -0.2, 0.05}, 1.0)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.Abs(out[1]+1.0) > 1e-12 {
		t.Fatalf("peak sample = %v, want -1.0", out[1])
	}
	if math.Abs(out[0]-0.5) > 1e-12 {
		t.Fatalf("scaled sample = %v, want 0.5", out[0])
	}

	zeros, err := Normalize(make([]float64, 8), 1.0)
	if err != nil {
		t.Fatalf("Normalize zeros: %v", err)
	}
	for _, v := range zeros {
		if v != 0 {
			t.Fatalf("normalizing silence must stay silent")
		}
	}

	if _, err := Normalize(nil, 1.0); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
