package gtimer

import "time"

// monotonicClock anchors NowUS to the process-local monotonic clock reading
// taken at construction, matching the original's get_tick_us() semantics:
// callers only ever rely on the difference between two NowUS readings.
type monotonicClock struct {
	anchor time.Time
}

// NewClock returns a Clock backed by the runtime's monotonic clock.
func NewClock() Clock {
	return &monotonicClock{anchor: time.Now()}
}

func (c *monotonicClock) NowUS() uint64 {
	return uint64(time.Since(c.anchor) / time.Microsecond)
}
