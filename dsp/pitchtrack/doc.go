// Package pitchtrack estimates fundamental-frequency contours of audio
// signals using windowed FFT autocorrelation with parabolic peak
// refinement and a clarity-based voicing decision.
//
// Contours are dense per-frame F0 sequences at a coarser rate than the
// audio sample rate; unvoiced frames are reported as 0.
package pitchtrack
