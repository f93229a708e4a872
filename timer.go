package gtimer

import (
	"time"

	"github.com/godyy/glog"
)

// DefaultQuantumUS is the default deadline quantization granularity.
// Deadlines are rounded down to a multiple of it, so a handler can fire up
// to DefaultQuantumUS-1 µs before its requested time.
const DefaultQuantumUS = 256

// DefaultSlackUS is the default rearm slack window: a sweep also fires
// buckets due within DefaultSlackUS µs of its current time, so a handler
// can fire up to DefaultSlackUS µs before its bucket's deadline.
const DefaultSlackUS = 500

// TimerHandle identifies one scheduled, not-yet-fired or not-yet-cancelled
// timeout. It is returned by Schedule and consumed by Cancel. Cancel nulls
// the handle, so cancelling it twice is a no-op. Firing does not null it:
// a handle whose timeout has fired stays non-null until Reset is called.
type TimerHandle struct {
	bucket *Bucket
	node   *bucketNode
}

// IsNone reports whether h refers to nothing (nil, zero-valued, cancelled
// or Reset). A handle whose timeout has fired is not None unless it has
// been Reset.
func (h *TimerHandle) IsNone() bool {
	return h == nil || h.bucket == nil
}

// Reset nulls h without touching the timer, so a later Cancel(h) is a no-op.
func (h *TimerHandle) Reset() {
	h.bucket = nil
	h.node = nil
}

// TimerCore is the C5 component: the per-strand timer service itself. Every
// method must be called from the strand it was constructed with, except
// Close which may be called from anywhere once the strand has no more
// outstanding work for it.
type TimerCore struct {
	strand Strand
	clock  Clock
	index  *DeadlineIndex
	pool   *bucketPool

	quantumMask uint64
	slackUS     uint64
	poolCap     int
	logger      glog.Logger

	generation      uint32
	supersededCount uint32
	looping         bool
	maxTick         uint64
	finishTime      uint64
	osTimer         OSTimer
	strongRef       bool
}

// NewTimerCore builds a TimerCore bound to strand, reading deadlines off
// clock.
func NewTimerCore(strand Strand, clock Clock, opts ...Option) *TimerCore {
	c := &TimerCore{
		strand:      strand,
		clock:       clock,
		quantumMask: ^(uint64(DefaultQuantumUS) - 1),
		slackUS:     DefaultSlackUS,
		poolCap:     DefaultBucketPoolCap,
		maxTick:     ^uint64(0),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = newDefaultLogger(glog.DebugLevel)
	}
	c.pool = newBucketPool(c.poolCap)
	c.index = newDeadlineIndex(c.pool)
	c.osTimer = strand.NewTimer()
	return c
}

// Schedule requests that h.OnTimeout() be invoked d from now. The deadline
// is rounded down to the core's quantum, and a sweep also fires buckets due
// within the slack window of its current time, so a handler can fire up to
// one quantum plus the slack before d has elapsed. It must be called from
// the core's strand.
func (c *TimerCore) Schedule(d time.Duration, h Handler) *TimerHandle {
	c.assertOnStrand("Schedule")
	if d < 0 {
		panic(newPreconditionError("Schedule", "negative duration"))
	}
	if d >= 1<<62 {
		panic(newPreconditionError("Schedule", "duration out of range"))
	}
	if h == nil {
		panic(newPreconditionError("Schedule", "nil handler"))
	}

	us := uint64(d / time.Microsecond)
	deadline := (c.clock.NowUS() + us) & c.quantumMask

	var bucket *Bucket
	if c.index.Empty() || deadline >= c.maxTick {
		bucket, _ = c.index.InsertAtEndHint(deadline)
		c.maxTick = deadline
	} else {
		bucket, _ = c.index.GetOrInsert(deadline)
	}

	node := bucket.pushFront(h)
	handle := &TimerHandle{bucket: bucket, node: node}

	switch {
	case !c.looping:
		c.acquireStrongRef()
		c.looping = true
		c.finishTime = deadline
		c.generation++
		c.armFor(deadline)
	case deadline < c.finishTime:
		c.osTimer.Cancel()
		c.generation++
		c.finishTime = deadline
		c.armFor(deadline)
	}

	return handle
}

// Cancel withdraws a previously scheduled timeout. It is a no-op if h is
// nil, zero-valued, already cancelled or Reset. The core does not null a
// handle when its timeout fires, and Cancel does not detect such a handle:
// it unlinks a node that the sweep has already released. It must be called
// from the core's strand.
func (c *TimerCore) Cancel(h *TimerHandle) {
	c.assertOnStrand("Cancel")
	if h.IsNone() {
		return
	}

	bucket, node := h.bucket, h.node
	h.Reset()
	bucket.erase(node)
	if !bucket.Empty() {
		return
	}

	key := bucket.key
	switch {
	case c.index.Len() == 1:
		c.index.Erase(key)
		c.maxTick = ^uint64(0)
		c.osTimer.Cancel()
		c.generation++
		c.looping = false
		c.releaseStrongRef()
	case key == c.maxTick:
		newMax, ok := c.index.Predecessor(key)
		c.index.Erase(key)
		if ok {
			c.maxTick = newMax
		} else {
			c.maxTick = ^uint64(0)
		}
	default:
		c.index.Erase(key)
	}
}

// Close releases the core's OS timer. It panics if the core still has
// pending deadlines or an outstanding strand reference; callers must drain
// (cancel or let fire) everything first.
func (c *TimerCore) Close() {
	if !c.index.Empty() || c.looping || c.strongRef {
		panic(newPreconditionError("Close", "timer core has outstanding work"))
	}
	c.osTimer.Close()
}

// Len reports the number of distinct pending deadlines.
func (c *TimerCore) Len() int { return c.index.Len() }

// SupersededCount reports how many OS-timer completions have arrived for a
// generation immediately superseded by a later rearm, for observability
// into rearm churn.
func (c *TimerCore) SupersededCount() uint32 { return c.supersededCount }

func (c *TimerCore) armFor(deadline uint64) {
	now := c.clock.NowUS()
	var waitUS uint64
	if deadline > now {
		waitUS = deadline - now
	}
	c.osTimer.Arm(time.Duration(waitUS)*time.Microsecond, c.generation, c.onFire)
}

// onFire is the OSTimer completion callback, always delivered on the
// strand. gen disambiguates an authoritative completion (matches the
// current generation) from one superseded by a later rearm.
func (c *TimerCore) onFire(gen uint32) {
	switch {
	case gen == c.generation:
		c.sweep()
	case gen+1 == c.generation:
		// Belongs to the immediately superseded arm; the current arm
		// (gen == c.generation) is already outstanding and owns the
		// strand keepalive, so there is nothing further to release here.
		c.supersededCount++
	default:
		// Stale by more than one generation: drop silently.
	}
}

// sweep fires every bucket due at or before now+slack, rearming for the
// next pending deadline (if any) once it finds one still in the future.
func (c *TimerCore) sweep() {
	c.finishTime = 0
	now := c.clock.NowUS()
	for {
		key, _, ok := c.index.Begin()
		if !ok {
			c.looping = false
			c.releaseStrongRef()
			return
		}
		if key > now+c.slackUS {
			c.finishTime = key
			c.armFor(key)
			return
		}
		_, bucket, _ := c.index.PopFront()
		c.fireBucket(bucket)
	}
}

func (c *TimerCore) fireBucket(b *Bucket) {
	b.forEach(c.safeFire)
	b.clear()
	c.pool.release(b)
}

func (c *TimerCore) safeFire(h Handler) {
	defer recoverAndLog("gtimer: handler panic during sweep", c.logger, nil)
	h.OnTimeout()
}

func (c *TimerCore) acquireStrongRef() {
	if c.strongRef {
		return
	}
	if !c.strand.Ref() {
		panic(newPreconditionError("Schedule", "strand is shutting down"))
	}
	c.strongRef = true
}

func (c *TimerCore) releaseStrongRef() {
	if !c.strongRef {
		return
	}
	c.strand.Deref()
	c.strongRef = false
}

func (c *TimerCore) assertOnStrand(op string) {
	if !c.strand.RunningInThisThread() {
		panic(newPreconditionError(op, "called off the owning strand"))
	}
}
