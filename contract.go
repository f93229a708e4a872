package gtimer

import "time"

// Clock abstracts the monotonic time source a TimerCore reads deadlines
// against. NowUS returns microseconds since some unspecified but fixed
// epoch; only differences between calls are meaningful.
type Clock interface {
	NowUS() uint64
}

// Strand is the serial execution context a TimerCore is bound to: all calls
// into a TimerCore (Schedule, Cancel, and the internal fire callback) must
// happen on the same Strand.
type Strand interface {
	// Post schedules task to run on the strand. Safe to call from any
	// goroutine.
	Post(task func())

	// RunningInThisThread reports whether the calling goroutine is the
	// strand's own execution goroutine.
	RunningInThisThread() bool

	// NewTimer returns a fresh OSTimer bound to this strand; its
	// completions are always delivered via Post.
	NewTimer() OSTimer

	// Ref attempts to take a keepalive reference on the strand, preventing
	// it from finishing shutdown until a matching Deref. It returns false
	// if the strand is already shutting down.
	Ref() bool

	// Deref releases a reference taken by Ref.
	Deref()
}

// OSTimer is a single rearmable one-shot timer bound to a Strand. Arm
// replaces any previously armed wait. onFire is invoked on the owning
// strand, never synchronously from within Arm.
type OSTimer interface {
	Arm(d time.Duration, gen uint32, onFire func(gen uint32))
	Cancel()
	Close()
}

// Handler is the callback contract fired when a scheduled deadline expires.
type Handler interface {
	OnTimeout()
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func()

func (f HandlerFunc) OnTimeout() { f() }
