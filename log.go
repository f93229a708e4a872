package gtimer

import (
	"github.com/godyy/glog"
	"github.com/godyy/gutils/debug"
	"go.uber.org/zap"
)

// newDefaultLogger builds a standard console logger at the given level,
// mirroring the teacher's own createStdLogger.
func newDefaultLogger(level glog.Level) glog.Logger {
	return glog.NewLogger(&glog.Config{
		Level:        level,
		EnableCaller: true,
		CallerSkip:   0,
		Development:  false,
		Cores:        []glog.CoreConfig{glog.NewStdCoreConfig()},
	}).Named("gtimer")
}

func lfdGeneration(gen uint32) zap.Field { return zap.Uint32("generation", gen) }
func lfdDeadlineUS(us uint64) zap.Field  { return zap.Uint64("deadline_us", us) }
func lfdOp(op string) zap.Field          { return zap.String("op", op) }

// recoverAndLog recovers a panic if one is in flight, logs it with a stack
// trace, and invokes callback. Mirrors the teacher's utils.recoverAndLog.
func recoverAndLog(msg string, logger glog.Logger, callback func()) {
	if err := recover(); err != nil {
		stack := debug.StackTrace(1, 0)
		logger.Errorf("[%s] %v\n%s\n", msg, err, stack)
		if callback != nil {
			callback()
		}
	}
}
