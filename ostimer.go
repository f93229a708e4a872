package gtimer

import (
	"sync"
	"time"
)

// systemOSTimer is the default OSTimer implementation, backed by
// time.AfterFunc. Firing always posts through the owning strand rather than
// invoking onFire from the Go runtime's own timer goroutine, so the
// TimerCore it drives only ever runs on its strand.
type systemOSTimer struct {
	strand *SerialStrand

	mu    sync.Mutex
	timer *time.Timer
}

func newSystemOSTimer(s *SerialStrand) *systemOSTimer {
	return &systemOSTimer{strand: s}
}

// Arm implements OSTimer.
func (t *systemOSTimer) Arm(d time.Duration, gen uint32, onFire func(uint32)) {
	if d < 0 {
		d = 0
	}
	if d >= 1<<62 {
		d = 1<<62 - 1
	}
	fire := func() {
		t.strand.Post(func() { onFire(gen) })
	}
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fire)
	t.mu.Unlock()
}

// Cancel implements OSTimer.
func (t *systemOSTimer) Cancel() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()
}

// Close implements OSTimer.
func (t *systemOSTimer) Close() {
	t.Cancel()
}
