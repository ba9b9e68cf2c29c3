package session

import "time"

const firstFrameDelta = 1.0 / 60

// FrameClock turns wall-clock frame times into simulation deltas. The first
// frame reports a nominal 1/60 s since there is nothing to measure against.
type FrameClock struct {
	last    time.Time
	started bool
}

func (c *FrameClock) Delta(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return firstFrameDelta
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	return dt
}

// Reset makes the next Delta behave like the first frame, e.g. after a pause.
func (c *FrameClock) Reset() {
	c.started = false
}
