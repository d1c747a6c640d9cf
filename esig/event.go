package esig

// Event is a half-open range [Start, End) of pitch-contour frames with
// one quasi-stable pitch. Events are immutable once produced; a contour's
// event list is ordered by Start with non-overlapping ranges, possibly
// leaving gaps for silence or unstable pitch.
type Event struct {
	Start int
	End   int
}

// Len returns the event length in contour frames.
func (e Event) Len() int { return e.End - e.Start }

// Seconds returns the event duration at the given contour rate.
func (e Event) Seconds(contourRate float64) float64 {
	if contourRate <= 0 {
		return 0
	}
	return float64(e.Len()) / contourRate
}
