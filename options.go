package gtimer

import "github.com/godyy/glog"

// Option configures a TimerCore at construction time.
type Option func(*TimerCore)

// WithLogger overrides the structured logger used for sweep-panic
// reporting. Defaults to a standard console logger at debug level.
func WithLogger(l glog.Logger) Option {
	return func(c *TimerCore) { c.logger = l }
}

// WithQuantumUS overrides the deadline quantization granularity, in
// microseconds. q must be a power of two; deadlines are rounded down to the
// nearest multiple of q. Defaults to DefaultQuantumUS.
func WithQuantumUS(q uint64) Option {
	return func(c *TimerCore) { c.quantumMask = ^(q - 1) }
}

// WithSlackUS overrides the rearm slack window: a bucket due within slackUS
// of "now" fires immediately rather than forcing a rearm for a few
// microseconds out. Defaults to DefaultSlackUS.
func WithSlackUS(s uint64) Option {
	return func(c *TimerCore) { c.slackUS = s }
}

// WithBucketPoolCap overrides the soft cap on retained, recyclable buckets.
// Defaults to DefaultBucketPoolCap.
func WithBucketPoolCap(n int) Option {
	return func(c *TimerCore) { c.poolCap = n }
}
