// Package esig provides non-destructive pitch editing of audio signals.
//
// An Esig wraps an immutable source signal and an append-only log of
// edits. Each edit is applied eagerly to a cached working copy; the
// original signal is never touched, and the full log can be replayed
// from scratch at any time. Alongside the edited signal the cache keeps
// a fundamental-frequency contour and a segmentation of that contour
// into events: maximal regions of quasi-stable, vibrato-tolerant pitch.
package esig
