package esig

import (
	"fmt"

	"github.com/cwbudde/algo-esig/dsp/pitchtrack"
	"github.com/cwbudde/algo-esig/dsp/signal"
)

// Supported algorithm names.
const (
	// AlgorithmYAAPT selects the autocorrelation pitch tracker with
	// YAAPT-style analysis constants.
	AlgorithmYAAPT = "yaapt"
	// AlgorithmTDPSOLA selects time-domain pitch-synchronous overlap-add
	// for pitch modification.
	AlgorithmTDPSOLA = "tdpsola"
)

// Pitch-estimation constants, fixed for reproducibility across edits.
const (
	estimatorFrameMs = 30.0
	estimatorHopMs   = 20.0
	estimatorMinFreq = 60.0
	estimatorMaxFreq = 600.0
)

const (
	defaultMaxVibratoExtent     = 40.0
	defaultMaxVibratoInaccuracy = 0.5
	defaultMinEventLength       = 0.1
)

// Esig is an editable audio signal. It owns an immutable copy of the
// source signal, an append-only edit log, and a cache holding the edited
// working signal with its derived pitch contour and events.
//
// An Esig is not safe for concurrent use; callers serialize access.
type Esig struct {
	original signal.Buffer

	algorithm            string
	maxVibratoExtent     float64
	maxVibratoInaccuracy float64
	minEventLength       float64

	edits []Edit
	cache *Cache
}

// Option configures an Esig.
type Option func(*Esig)

// WithAlgorithm sets the pitch-estimation algorithm (default "yaapt").
func WithAlgorithm(name string) Option {
	return func(e *Esig) {
		e.algorithm = name
	}
}

// WithMaxVibratoExtent sets the maximum difference between an event's
// average pitch and any pitch inside it, in cents of a semitone
// (default 40). Voice vibrato usually stays below 100.
func WithMaxVibratoExtent(cents float64) Option {
	return func(e *Esig) {
		if cents > 0 {
			e.maxVibratoExtent = cents
		}
	}
}

// WithMaxVibratoInaccuracy sets how far the smoothed pitch may drift
// from the event average, as a fraction of the vibrato extent bound
// (default 0.5). Values near 0 demand very even vibrato.
func WithMaxVibratoInaccuracy(ratio float64) Option {
	return func(e *Esig) {
		if ratio > 0 {
			e.maxVibratoInaccuracy = ratio
		}
	}
}

// WithMinEventLength sets the minimum event duration in seconds
// (default 0.1); shorter candidates are discarded.
func WithMinEventLength(seconds float64) Option {
	return func(e *Esig) {
		if seconds > 0 {
			e.minEventLength = seconds
		}
	}
}

// New creates an editable signal from a source buffer. The buffer is
// deep-copied and never mutated; all editing happens on a cached working
// copy. Construction estimates the initial contour and events eagerly.
func New(buf signal.Buffer, opts ...Option) (*Esig, error) {
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return nil, fmt.Errorf("%w: sample rate %f, channels %d",
			ErrInvalidSignal, buf.SampleRate, buf.Channels)
	}

	e := &Esig{
		original:             buf.Clone(),
		algorithm:            AlgorithmYAAPT,
		maxVibratoExtent:     defaultMaxVibratoExtent,
		maxVibratoInaccuracy: defaultMaxVibratoInaccuracy,
		minEventLength:       defaultMinEventLength,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.algorithm != AlgorithmYAAPT {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, e.algorithm)
	}

	cache, err := newCache(e)
	if err != nil {
		return nil, err
	}
	e.cache = cache
	return e, nil
}

// EditOption configures a single edit request.
type EditOption func(*editConfig)

type editConfig struct {
	algorithm string
}

// WithEditAlgorithm sets the pitch-modification algorithm for one edit
// (default "tdpsola").
func WithEditAlgorithm(name string) EditOption {
	return func(cfg *editConfig) {
		cfg.algorithm = name
	}
}

// ChangePitch appends a pitch-shift edit over the contour range
// [start, end) and applies it immediately. shiftFactor is multiplicative
// (1.0 = no change). On error nothing is appended and the cache keeps
// its last consistent state.
func (e *Esig) ChangePitch(start, end int, shiftFactor float64, opts ...EditOption) error {
	cfg := editConfig{algorithm: AlgorithmTDPSOLA}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	edit, err := NewPitchChange(start, end, shiftFactor, cfg.algorithm)
	if err != nil {
		return err
	}
	if end > e.cache.contourLen() {
		return fmt.Errorf("%w: [%d, %d) exceeds contour length %d",
			ErrInvalidRange, start, end, e.cache.contourLen())
	}

	if err := e.cache.apply(edit); err != nil {
		return err
	}
	e.edits = append(e.edits, edit)
	return nil
}

// PitchPlot is a consistent snapshot of the cache's contour and events
// for inspection or rendering.
type PitchPlot struct {
	Pitch     []float64
	PitchRate float64
	Events    []Event
}

// PitchPlot refreshes the cache from the current working signal and
// returns a snapshot of the contour and events. It does not modify the
// edit log.
func (e *Esig) PitchPlot() (PitchPlot, error) {
	if err := e.cache.Update(); err != nil {
		return PitchPlot{}, err
	}

	pitch, rate := e.cache.Pitch()
	return PitchPlot{
		Pitch:     pitch,
		PitchRate: rate,
		Events:    e.cache.Events(),
	}, nil
}

// Signal returns a deep copy of the edited signal as it currently
// stands.
func (e *Esig) Signal() signal.Buffer { return e.cache.Signal() }

// Original returns a deep copy of the untouched source signal.
func (e *Esig) Original() signal.Buffer { return e.original.Clone() }

// Edits returns the edit log in application order.
func (e *Esig) Edits() []Edit { return append([]Edit(nil), e.edits...) }

// Cache exposes the cache for replay and inspection.
func (e *Esig) Cache() *Cache { return e.cache }

// estimate runs the configured pitch estimator on a signal snapshot.
func (e *Esig) estimate(buf signal.Buffer) ([]float64, float64, error) {
	switch e.algorithm {
	case AlgorithmYAAPT:
		tracker, err := pitchtrack.New(buf.SampleRate,
			pitchtrack.WithFrameLength(estimatorFrameMs),
			pitchtrack.WithHop(estimatorHopMs),
			pitchtrack.WithFreqRange(estimatorMinFreq, estimatorMaxFreq),
		)
		if err != nil {
			return nil, 0, err
		}
		return tracker.Track(buf.Mono())
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, e.algorithm)
	}
}
