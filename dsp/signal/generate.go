package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-esig/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave buffer.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) (Buffer, error) {
	if samples <= 0 {
		return Buffer{}, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz <= 0 {
		return Buffer{}, fmt.Errorf("sine frequency must be > 0: %f", freqHz)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return NewMonoBuffer(out, g.cfg.SampleRate)
}

// VibratoSine generates a sine wave whose frequency wobbles sinusoidally
// around freqHz: rateHz cycles per second, extentCents peak deviation.
func (g *Generator) VibratoSine(freqHz, amplitude, rateHz, extentCents float64, samples int) (Buffer, error) {
	if samples <= 0 {
		return Buffer{}, fmt.Errorf("vibrato samples must be > 0: %d", samples)
	}
	if freqHz <= 0 || rateHz <= 0 {
		return Buffer{}, fmt.Errorf("vibrato frequencies must be > 0: carrier %f, rate %f", freqHz, rateHz)
	}

	out := make([]float64, samples)
	phase := 0.0
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		cents := extentCents * math.Sin(2*math.Pi*rateHz*t)
		inst := freqHz * core.CentsToRatio(cents)
		phase += 2 * math.Pi * inst / g.cfg.SampleRate
		out[i] = amplitude * math.Sin(phase)
	}
	return NewMonoBuffer(out, g.cfg.SampleRate)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) (Buffer, error) {
	if samples <= 0 {
		return Buffer{}, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return Buffer{}, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return NewMonoBuffer(out, g.cfg.SampleRate)
}

// Silence generates an all-zero buffer.
func (g *Generator) Silence(samples int) (Buffer, error) {
	if samples <= 0 {
		return Buffer{}, fmt.Errorf("silence samples must be > 0: %d", samples)
	}
	return NewMonoBuffer(make([]float64, samples), g.cfg.SampleRate)
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
