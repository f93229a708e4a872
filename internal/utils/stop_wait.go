package utils

import "sync"

// StopWait coordinates a single shutdown signal with the goroutines that
// must drain before the caller can consider the shutdown complete. C is
// closed exactly once, and any number of goroutines may select on it; W
// is a plain WaitGroup the owner Adds to before starting each goroutine
// and Dones when that goroutine returns.
//
// SerialStrand uses it to let Close() block until its single execution
// goroutine has drained the task queue and exited.
type StopWait struct {
	C chan struct{}
	W sync.WaitGroup
}

func NewStopWait() *StopWait {
	return &StopWait{
		C: make(chan struct{}),
	}
}

// Stop closes C, waking every goroutine selecting on it, then waits for W
// to reach zero. wait is currently always true for SerialStrand's one
// caller; it is kept as a parameter rather than dropped so a future
// caller can request a non-blocking stop without changing the signature.
func (s *StopWait) Stop(wait bool) {
	close(s.C)
	if wait {
		s.W.Wait()
	}
}
