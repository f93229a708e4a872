// Command timerdemo wires a SerialStrand and a TimerCore together and
// schedules a handful of overlapping timeouts, logging each as it fires.
// It exists to exercise gtimer end to end; it is not part of the package's
// public contract.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godyy/glog"
	"github.com/godyy/gtimer"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type printHandler struct {
	id   uuid.UUID
	name string
}

func (h *printHandler) OnTimeout() {
	fmt.Printf("[%s] %s fired at %s\n", h.id, h.name, time.Now().Format(time.RFC3339Nano))
}

func run() error {
	logger := glog.NewLogger(&glog.Config{
		Level:        glog.DebugLevel,
		EnableCaller: true,
		Development:  true,
		Cores:        []glog.CoreConfig{glog.NewStdCoreConfig()},
	})

	strand, err := gtimer.NewSerialStrand(64, logger)
	if err != nil {
		return errors.Wrap(err, "timerdemo: create strand")
	}

	done := make(chan struct{})
	strand.Post(func() {
		core := gtimer.NewTimerCore(strand, gtimer.NewClock(), gtimer.WithLogger(logger))

		core.Schedule(50*time.Millisecond, &printHandler{id: uuid.New(), name: "alpha"})
		h := core.Schedule(200*time.Millisecond, &printHandler{id: uuid.New(), name: "beta"})
		core.Schedule(120*time.Millisecond, &printHandler{id: uuid.New(), name: "gamma"})

		// beta is withdrawn before it ever fires.
		core.Cancel(h)

		time.AfterFunc(300*time.Millisecond, func() { close(done) })
	})

	<-done

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-time.After(10 * time.Millisecond):
	}

	strand.Close()
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
