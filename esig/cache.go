package esig

import (
	"fmt"

	"github.com/cwbudde/algo-esig/dsp/signal"
)

// Cache owns the one mutable working copy of an Esig's signal together
// with the pitch contour and event list derived from it. After any
// apply/Reapply/Update call the triple (working signal, contour, events)
// is mutually consistent.
type Cache struct {
	owner *Esig

	buf       signal.Buffer
	pitch     []float64
	pitchRate float64
	events    []Event
}

func newCache(owner *Esig) (*Cache, error) {
	c := &Cache{
		owner: owner,
		buf:   owner.original.Clone(),
	}
	if err := c.Update(); err != nil {
		return nil, err
	}
	return c, nil
}

// apply applies one edit on top of the cache's current state. Edits that
// need pitch see a contour estimated from the working signal as it
// stands immediately before them, so log order is causally meaningful.
func (c *Cache) apply(e Edit) error {
	if e.NeedsPitch() {
		if err := c.Update(); err != nil {
			return err
		}
	}

	return e.apply(&c.buf, c.pitch, c.pitchRate)
}

// Reapply resets the working signal to a fresh copy of the original and
// replays the owning Esig's full edit log in order. The contour keeps
// the cache's last-known snapshot until the first pitch-dependent edit
// re-estimates it.
func (c *Cache) Reapply() error {
	c.buf = c.owner.original.Clone()
	c.pitch = append([]float64(nil), c.pitch...)

	for i, e := range c.owner.edits {
		if err := c.apply(e); err != nil {
			return fmt.Errorf("esig: replaying edit %d: %w", i, err)
		}
	}
	return nil
}

// Update recomputes the contour and events from the current working
// signal without applying an edit. Calling it twice in a row without an
// intervening edit is idempotent.
func (c *Cache) Update() error {
	pitch, rate, err := c.owner.estimate(c.buf)
	if err != nil {
		return err
	}

	c.pitch = pitch
	c.pitchRate = rate
	c.events = SegmentEvents(pitch, rate,
		c.owner.maxVibratoExtent, c.owner.maxVibratoInaccuracy, c.owner.minEventLength)
	return nil
}

// Signal returns a deep copy of the current working signal.
func (c *Cache) Signal() signal.Buffer { return c.buf.Clone() }

// Pitch returns a copy of the current contour and its rate.
func (c *Cache) Pitch() ([]float64, float64) {
	return append([]float64(nil), c.pitch...), c.pitchRate
}

// Events returns a copy of the current event list.
func (c *Cache) Events() []Event {
	return append([]Event(nil), c.events...)
}

// contourLen reports the current contour length, used for fail-fast
// range validation before an edit mutates anything.
func (c *Cache) contourLen() int { return len(c.pitch) }
