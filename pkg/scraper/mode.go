// Package scraper drives the search pagination and the enrichment phase,
// including the one-way degradation to sequential fetching once the source
// starts rate limiting.
package scraper

import "sync/atomic"

// Mode is the enrichment fetch strategy for the current session.
type Mode int

const (
	// ModeParallel uses the bounded worker pool on the direct channel.
	ModeParallel Mode = iota
	// ModeSequentialFallback processes one listing at a time through the
	// guest API. Entered at most once per session, never left.
	ModeSequentialFallback
)

func (m Mode) String() string {
	if m == ModeSequentialFallback {
		return "sequential-fallback"
	}
	return "parallel"
}

// ModeSwitch is the single piece of state shared across enrichment workers.
// The transition is a compare-and-set: safe under concurrent rate-limit
// observations, applied exactly once.
type ModeSwitch struct {
	tripped atomic.Bool
}

// TripSequential flips the session into sequential fallback. Returns true
// only for the caller that performed the transition; concurrent observers
// get false and must not repeat the transition's side effects.
func (s *ModeSwitch) TripSequential() bool {
	return s.tripped.CompareAndSwap(false, true)
}

// Sequential reports whether the session has degraded.
func (s *ModeSwitch) Sequential() bool {
	return s.tripped.Load()
}

// Mode returns the current mode.
func (s *ModeSwitch) Mode() Mode {
	if s.Sequential() {
		return ModeSequentialFallback
	}
	return ModeParallel
}
