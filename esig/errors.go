package esig

import "errors"

var (
	// ErrInvalidAlgorithm indicates an unrecognized pitch-estimation or
	// pitch-modification algorithm name.
	ErrInvalidAlgorithm = errors.New("esig: invalid algorithm")
	// ErrInvalidRange indicates an inverted or out-of-bounds sample range.
	ErrInvalidRange = errors.New("esig: invalid sample range")
	// ErrInvalidShift indicates a non-positive pitch shift factor.
	ErrInvalidShift = errors.New("esig: shift factor must be > 0")
	// ErrInvalidSignal indicates a signal buffer without samples or layout.
	ErrInvalidSignal = errors.New("esig: invalid signal buffer")
)
