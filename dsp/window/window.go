package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeGauss
)

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{
		alpha: 1,
	}
}

// WithAlpha configures the alpha parameter for parametric windows.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x, cfg)
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Gaussian returns Gaussian window coefficients.
//
// Alpha is the half-width at half-maximum parameter: the window reaches
// 0.5 where (2x-1)*alpha = 1.
func Gaussian(size int, alpha float64, opts ...Option) ([]float64, error) {
	if size <= 0 || alpha <= 0 {
		return nil, validateGauss(size, alpha)
	}

	return Generate(TypeGauss, size, append(opts, WithAlpha(alpha))...), nil
}

// GaussianKernel returns a unit-sum smoothing kernel equal to a sampled
// Gaussian with the given standard deviation in samples, truncated at
// radius samples on both sides.
func GaussianKernel(sigma float64, radius int) ([]float64, error) {
	if sigma <= 0 {
		return nil, validateGauss(2*radius+1, sigma)
	}
	if radius < 0 {
		return nil, validateLength(radius)
	}

	size := 2*radius + 1
	if size == 1 {
		return []float64{1}, nil
	}

	// Map exp(-ln2 ((2x-1) alpha)^2) onto exp(-n^2 / (2 sigma^2)) with
	// n = i - radius: alpha = (size-1) / (2 sigma sqrt(2 ln 2)).
	alpha := float64(size-1) / (2 * sigma * math.Sqrt(2*math.Ln2))
	coeffs, err := Gaussian(size, alpha)
	if err != nil {
		return nil, err
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	for i := range coeffs {
		coeffs[i] /= sum
	}
	return coeffs, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

var hannCoeffs = []float64{0.5, -0.5}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeGauss:
		v := (2*x - 1) * cfg.alpha
		return math.Exp(-math.Ln2 * v * v)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
