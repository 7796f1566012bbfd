package flock

import (
	"github.com/tochemey/goakt/v3/log"
)

// Option configures a Flock.
type Option func(*Flock)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(f *Flock) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWorkers spreads per-agent rule evaluation over n goroutines.
// Rules still run one after the other; n <= 1 keeps everything on the caller's goroutine.
func WithWorkers(n int) Option {
	return func(f *Flock) {
		if n < 1 {
			n = 1
		}
		f.workers = n
	}
}

// WithSeed makes initial headings reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Flock) {
		f.seed = seed
		f.seeded = true
	}
}

// WithManualSteering enables or disables the manual steering rule. Enabled by default.
func WithManualSteering(enabled bool) Option {
	return func(f *Flock) {
		f.manual = enabled
	}
}

// WithDebugTargets records every rule's target so a renderer can draw them.
func WithDebugTargets(enabled bool) Option {
	return func(f *Flock) {
		f.debug = enabled
	}
}
