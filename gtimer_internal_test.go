package gtimer

import "time"

// fakeClock is a manually driven Clock used by deterministic tests.
type fakeClock struct {
	us uint64
}

func (c *fakeClock) NowUS() uint64 { return c.us }

func (c *fakeClock) advance(us uint64) { c.us += us }

func (c *fakeClock) advanceTo(us uint64) {
	if us > c.us {
		c.us = us
	}
}

// fakeOSTimer is an OSTimer whose firing is driven explicitly by a test via
// fire(), rather than by a real clock.
type fakeOSTimer struct {
	armed bool
	gen   uint32
	us    uint64
	fn    func(uint32)
}

func (t *fakeOSTimer) Arm(d time.Duration, gen uint32, onFire func(uint32)) {
	t.armed = true
	t.gen = gen
	t.us = uint64(d / time.Microsecond)
	t.fn = onFire
}

func (t *fakeOSTimer) Cancel() { t.armed = false }
func (t *fakeOSTimer) Close()  { t.armed = false }

// fire invokes the currently armed callback as if it had actually expired.
func (t *fakeOSTimer) fire() {
	if !t.armed || t.fn == nil {
		return
	}
	fn, gen := t.fn, t.gen
	t.armed, t.fn = false, nil
	fn(gen)
}

// fakeStrand is a synchronous, single-goroutine-simulating Strand: the
// calling test goroutine plays the role of the strand's own execution
// thread, so Post runs its task inline and RunningInThisThread is always
// true.
type fakeStrand struct {
	timer    *fakeOSTimer
	refs     int
	onStrand bool
}

func newFakeStrand() *fakeStrand {
	return &fakeStrand{timer: &fakeOSTimer{}, onStrand: true}
}

func (s *fakeStrand) Post(task func())          { task() }
func (s *fakeStrand) RunningInThisThread() bool { return s.onStrand }
func (s *fakeStrand) NewTimer() OSTimer         { return s.timer }
func (s *fakeStrand) Ref() bool                 { s.refs++; return true }
func (s *fakeStrand) Deref()                    { s.refs-- }

// recordingHandler appends its name to a shared, ordered log when fired.
type recordingHandler struct {
	name string
	log  *[]string
}

func (h *recordingHandler) OnTimeout() { *h.log = append(*h.log, h.name) }

// driveUntilIdle repeatedly advances clock to the core's next armed
// deadline and fires it, simulating a real OS timer delivering exactly the
// completions it was armed for, until the core has no more pending work.
func driveUntilIdle(core *TimerCore, strand *fakeStrand, clock *fakeClock) {
	for core.Len() > 0 || strand.timer.armed {
		if !strand.timer.armed {
			return
		}
		clock.advanceTo(clock.us + strand.timer.us)
		strand.timer.fire()
	}
}
