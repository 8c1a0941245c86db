package fabrik

import (
	"log"
	"time"
)

// Logf is the package diagnostic logger. It defaults to log.Printf and is only
// used when a Solver or Gait has debug output enabled.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// debugStats holds per-solve timing and iteration counts.
// Only populated when Solver.debug is true.
type debugStats struct {
	setupTime  time.Duration
	relaxTime  time.Duration
	commitTime time.Duration
	joints     int
	result     Result
}

// debugLog prints solve stats through Logf.
func (s *Solver) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.setupTime + stats.relaxTime + stats.commitTime
	Logf("[fabrik] setup: %v | relax: %v | commit: %v | total: %v",
		stats.setupTime, stats.relaxTime, stats.commitTime, total)
	r := stats.result
	Logf("[fabrik] joints: %d | reachable: %t | iterations: %d | distance: %.6g",
		stats.joints, r.Reachable, r.Iterations, r.Distance)
	if r.Reachable && !r.Converged {
		Logf("[fabrik] warning: not converged after %d iterations (distance %.6g)",
			r.Iterations, r.Distance)
	}
}

// debugMaxChainLength warns when a chain is longer than a leg-style solver is
// tuned for.
const debugMaxChainLength = 64

func (s *Solver) debugCheckChainLength(n int) {
	if s.debug && n > debugMaxChainLength {
		Logf("[fabrik] warning: chain has %d joints (threshold %d)", n, debugMaxChainLength)
	}
}
