// Package tdpsola resynthesizes a signal so its pitch follows a target
// contour, using time-domain pitch-synchronous overlap-add.
//
// The caller supplies the source contour (as estimated from the input)
// and a target contour of the same length; duration is preserved while
// local periodicity is rebuilt at the target pitch. Output sample counts
// may differ slightly from the input and must not be relied upon.
package tdpsola
