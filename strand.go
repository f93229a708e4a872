package gtimer

import (
	"runtime"
	"strconv"
	"sync"

	"github.com/godyy/glog"
	"github.com/godyy/gtimer/internal/utils"
	"github.com/pkg/errors"
)

// SerialStrand is the default Strand implementation: a single goroutine
// draining a task channel, modeled on the teacher's actorLoop. Embedding
// runtimes with their own single-goroutine executor (an actor's own
// message loop, say) are expected to implement Strand directly instead and
// skip SerialStrand entirely.
type SerialStrand struct {
	tasks chan func()
	sw    *utils.StopWait

	loopGID int64

	mu       sync.Mutex
	refCount int32
	closing  bool

	logger glog.Logger
}

// NewSerialStrand starts a new SerialStrand with the given task queue
// depth and logger, and returns it once its execution goroutine is
// running.
func NewSerialStrand(queueSize int, logger glog.Logger) (*SerialStrand, error) {
	if queueSize <= 0 {
		return nil, errors.Wrap(newPreconditionError("NewSerialStrand", "queueSize must be positive"), "gtimer")
	}
	if logger == nil {
		logger = newDefaultLogger(glog.DebugLevel)
	}
	s := &SerialStrand{
		tasks:  make(chan func(), queueSize),
		sw:     utils.NewStopWait(),
		logger: logger,
	}
	ready := make(chan struct{})
	s.sw.W.Add(1)
	go s.loop(ready)
	<-ready
	return s, nil
}

func (s *SerialStrand) loop(ready chan struct{}) {
	defer s.sw.W.Done()
	s.loopGID = goroutineID()
	close(ready)
	for {
		select {
		case task := <-s.tasks:
			s.runTask(task)
		case <-s.sw.C:
			s.drain()
			return
		}
	}
}

// drain runs every task already queued before stop was signaled, so a
// Schedule/Cancel posted just before shutdown still completes.
func (s *SerialStrand) drain() {
	for {
		select {
		case task := <-s.tasks:
			s.runTask(task)
		default:
			return
		}
	}
}

func (s *SerialStrand) runTask(task func()) {
	defer recoverAndLog("gtimer: strand task panic", s.logger, nil)
	task()
}

// Post implements Strand.
func (s *SerialStrand) Post(task func()) {
	select {
	case s.tasks <- task:
	case <-s.sw.C:
	}
}

// RunningInThisThread implements Strand.
func (s *SerialStrand) RunningInThisThread() bool {
	return goroutineID() == s.loopGID
}

// NewTimer implements Strand.
func (s *SerialStrand) NewTimer() OSTimer {
	return newSystemOSTimer(s)
}

// Ref implements Strand.
func (s *SerialStrand) Ref() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.refCount++
	return true
}

// Deref implements Strand.
func (s *SerialStrand) Deref() {
	s.mu.Lock()
	s.refCount--
	s.mu.Unlock()
}

// Close signals the strand to stop accepting new tasks and blocks until its
// goroutine has drained and exited. It panics if a TimerCore (or anything
// else) still holds an outstanding Ref.
func (s *SerialStrand) Close() {
	s.mu.Lock()
	s.closing = true
	refs := s.refCount
	s.mu.Unlock()
	if refs != 0 {
		panic(newPreconditionError("SerialStrand.Close", "strand has outstanding refs"))
	}
	s.sw.Stop(true)
}

// goroutineID parses the calling goroutine's id out of a runtime.Stack
// dump, mirroring fixkme-gokit's util.GoroutineID.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if len(b) > len(prefix) {
		b = b[len(prefix):]
	}
	i := 0
	for i < len(b) && b[i] != ' ' {
		i++
	}
	id, _ := strconv.ParseInt(string(b[:i]), 10, 64)
	return id
}
