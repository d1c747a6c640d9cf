package pitchtrack

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-esig/dsp/core"
	"github.com/cwbudde/algo-esig/dsp/window"
)

const (
	defaultFrameMs = 30.0
	defaultHopMs   = 10.0
	defaultMinFreq = 60.0
	defaultMaxFreq = 600.0

	// Minimum normalized autocorrelation peak for a frame to count as voiced.
	defaultClarityThreshold = 0.5
	// Frames quieter than this RMS are always unvoiced.
	defaultSilenceFloor = 1e-4

	// Local peaks within this fraction of the best peak are eligible; the
	// earliest eligible peak wins, guarding against subharmonic errors.
	octaveGuardRatio = 0.9
)

// Tracker estimates a fundamental-frequency contour from mono samples.
type Tracker struct {
	sampleRate float64

	frameMs          float64
	hopMs            float64
	minFreq          float64
	maxFreq          float64
	clarityThreshold float64
	silenceFloor     float64

	frameLen int
	hopLen   int
	fftSize  int

	plan    *algofft.Plan[complex128]
	coeffs  []float64
	taper   []float64
	freqBuf []complex128
	timeBuf []complex128
	acfBuf  []float64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithFrameLength sets the analysis frame length in milliseconds.
func WithFrameLength(ms float64) Option {
	return func(t *Tracker) {
		if ms > 0 {
			t.frameMs = ms
		}
	}
}

// WithHop sets the analysis hop in milliseconds; the contour rate is
// 1000/hop frames per second.
func WithHop(ms float64) Option {
	return func(t *Tracker) {
		if ms > 0 {
			t.hopMs = ms
		}
	}
}

// WithFreqRange restricts the analyzable fundamental range in Hz.
func WithFreqRange(minHz, maxHz float64) Option {
	return func(t *Tracker) {
		if minHz > 0 && maxHz > minHz {
			t.minFreq = minHz
			t.maxFreq = maxHz
		}
	}
}

// WithClarityThreshold sets the minimum normalized autocorrelation peak
// for a voiced decision.
func WithClarityThreshold(v float64) Option {
	return func(t *Tracker) {
		if v > 0 && v < 1 {
			t.clarityThreshold = v
		}
	}
}

// WithSilenceFloor sets the frame RMS below which frames are unvoiced.
func WithSilenceFloor(rms float64) Option {
	return func(t *Tracker) {
		if rms >= 0 {
			t.silenceFloor = rms
		}
	}
}

// New constructs a tracker for the given audio sample rate.
func New(sampleRate float64, opts ...Option) (*Tracker, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitchtrack: sample rate must be positive and finite: %f", sampleRate)
	}

	t := &Tracker{
		sampleRate:       sampleRate,
		frameMs:          defaultFrameMs,
		hopMs:            defaultHopMs,
		minFreq:          defaultMinFreq,
		maxFreq:          defaultMaxFreq,
		clarityThreshold: defaultClarityThreshold,
		silenceFloor:     defaultSilenceFloor,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	t.frameLen = int(math.Round(t.frameMs / 1000 * sampleRate))
	t.hopLen = int(math.Round(t.hopMs / 1000 * sampleRate))
	if t.frameLen < 4 || t.hopLen < 1 {
		return nil, fmt.Errorf("pitchtrack: frame %f ms / hop %f ms too short at %f Hz",
			t.frameMs, t.hopMs, sampleRate)
	}

	maxLag := int(math.Ceil(sampleRate / t.minFreq))
	if maxLag >= t.frameLen {
		return nil, fmt.Errorf("pitchtrack: frame %f ms too short for min frequency %f Hz",
			t.frameMs, t.minFreq)
	}

	t.fftSize = nextPowerOf2(2 * t.frameLen)
	plan, err := algofft.NewPlan64(t.fftSize)
	if err != nil {
		return nil, fmt.Errorf("pitchtrack: FFT plan: %w", err)
	}
	t.plan = plan
	t.coeffs = window.Generate(window.TypeHann, t.frameLen, window.WithPeriodic())
	t.taper = windowTaper(t.coeffs)
	t.freqBuf = make([]complex128, t.fftSize)
	t.timeBuf = make([]complex128, t.fftSize)

	return t, nil
}

// windowTaper returns the normalized autocorrelation of the analysis
// window itself. Dividing frame autocorrelations by it undoes the lag
// attenuation the window introduces, keeping low fundamentals comparable
// to high ones.
func windowTaper(coeffs []float64) []float64 {
	n := len(coeffs)
	taper := make([]float64, n)

	r0 := 0.0
	for _, w := range coeffs {
		r0 += w * w
	}
	if r0 == 0 {
		return taper
	}

	for lag := 0; lag < n; lag++ {
		sum := 0.0
		for i := 0; i+lag < n; i++ {
			sum += coeffs[i] * coeffs[i+lag]
		}
		taper[lag] = sum / r0
	}
	return taper
}

// SampleRate returns the audio sample rate the tracker was built for.
func (t *Tracker) SampleRate() float64 { return t.sampleRate }

// ContourRate returns the contour sampling rate in frames per second.
func (t *Tracker) ContourRate() float64 { return 1000 / t.hopMs }

// Track estimates the F0 contour of samples. Unvoiced frames report 0.
// Signals shorter than one frame yield an empty contour.
func (t *Tracker) Track(samples []float64) ([]float64, float64, error) {
	rate := t.ContourRate()
	if len(samples) < t.frameLen {
		return nil, rate, nil
	}

	frames := 1 + (len(samples)-t.frameLen)/t.hopLen
	contour := make([]float64, frames)

	minLag := int(math.Floor(t.sampleRate / t.maxFreq))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Ceil(t.sampleRate / t.minFreq))

	for f := 0; f < frames; f++ {
		frame := samples[f*t.hopLen : f*t.hopLen+t.frameLen]

		if core.RMS(frame) < t.silenceFloor {
			continue
		}

		acf, err := t.autocorrelate(frame)
		if err != nil {
			return nil, rate, err
		}

		lag, clarity := pickPeak(acf, minLag, maxLag)
		if lag <= 0 || clarity < t.clarityThreshold {
			continue
		}

		contour[f] = t.sampleRate / lag
	}

	return contour, rate, nil
}

// autocorrelate computes the mean-removed, Hann-windowed autocorrelation
// of frame, normalized by the zero-lag value. The returned slice is
// reused and only valid until the next call.
func (t *Tracker) autocorrelate(frame []float64) ([]float64, error) {
	mean := core.Mean(frame)

	for i := range t.freqBuf {
		t.freqBuf[i] = 0
	}
	for i, v := range frame {
		t.freqBuf[i] = complex((v-mean)*t.coeffs[i], 0)
	}

	if err := t.plan.Forward(t.freqBuf, t.freqBuf); err != nil {
		return nil, fmt.Errorf("pitchtrack: forward FFT: %w", err)
	}

	for i, v := range t.freqBuf {
		re := real(v)
		im := imag(v)
		t.freqBuf[i] = complex(re*re+im*im, 0)
	}

	if err := t.plan.Inverse(t.timeBuf, t.freqBuf); err != nil {
		return nil, fmt.Errorf("pitchtrack: inverse FFT: %w", err)
	}

	r0 := real(t.timeBuf[0])
	t.acfBuf = core.EnsureLen(t.acfBuf, t.frameLen)
	core.Zero(t.acfBuf)
	acf := t.acfBuf
	if r0 <= 0 {
		return acf, nil
	}

	// Taper values near zero carry no usable correlation mass; those lags
	// stay at 0 and are never picked.
	const minTaper = 0.05
	for i := range acf {
		if t.taper[i] < minTaper {
			break
		}
		acf[i] = real(t.timeBuf[i]) / r0 / t.taper[i]
	}
	return acf, nil
}

// pickPeak locates the fundamental lag in the normalized autocorrelation.
// It collects local maxima in [minLag, maxLag], then takes the earliest
// one within octaveGuardRatio of the strongest, refined parabolically.
// Returns (0, 0) when no local maximum exists.
func pickPeak(acf []float64, minLag, maxLag int) (float64, float64) {
	if maxLag > len(acf)-2 {
		maxLag = len(acf) - 2
	}
	if minLag < 1 {
		minLag = 1
	}
	if minLag >= maxLag {
		return 0, 0
	}

	best := 0.0
	bestLag := 0
	for lag := minLag; lag <= maxLag; lag++ {
		if acf[lag] > acf[lag-1] && acf[lag] >= acf[lag+1] && acf[lag] > best {
			best = acf[lag]
			bestLag = lag
		}
	}
	if bestLag == 0 || best <= 0 {
		return 0, 0
	}

	chosen := bestLag
	for lag := minLag; lag < bestLag; lag++ {
		if acf[lag] > acf[lag-1] && acf[lag] >= acf[lag+1] && acf[lag] >= octaveGuardRatio*best {
			chosen = lag
			break
		}
	}

	refined, clarity := refineParabolic(acf, chosen)
	return refined, clarity
}

// refineParabolic fits a parabola through the peak and its neighbors to
// recover a fractional lag and peak height.
func refineParabolic(acf []float64, lag int) (float64, float64) {
	if lag <= 0 || lag >= len(acf)-1 {
		return float64(lag), acf[lag]
	}

	ym1 := acf[lag-1]
	y0 := acf[lag]
	y1 := acf[lag+1]

	denom := ym1 - 2*y0 + y1
	if denom == 0 {
		return float64(lag), y0
	}

	delta := 0.5 * (ym1 - y1) / denom
	delta = core.Clamp(delta, -0.5, 0.5)

	peak := y0 - 0.25*(ym1-y1)*delta
	return float64(lag) + delta, peak
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
