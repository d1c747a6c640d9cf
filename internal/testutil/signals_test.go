package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 100)
	b := DeterministicNoise(42, 0.5, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}

func TestStepContour(t *testing.T) {
	c := StepContour([2]float64{220, 3}, [2]float64{440, 2})
	want := []float64{220, 220, 220, 440, 440}
	if len(c) != len(want) {
		t.Fatalf("len = %d, want %d", len(c), len(want))
	}
	for i := range want {
		if c[i] != want[i] {
			t.Fatalf("c[%d] = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestVibratoContourBounds(t *testing.T) {
	c := VibratoContour(220, 30, 5, 100, 200)
	lo := 220 * math.Pow(2, -30.0/1200)
	hi := 220 * math.Pow(2, 30.0/1200)
	for i, v := range c {
		if v < lo-1e-9 || v > hi+1e-9 {
			t.Fatalf("c[%d] = %v outside vibrato bounds [%v, %v]", i, v, lo, hi)
		}
	}
}
