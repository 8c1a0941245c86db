package fabrik

import "errors"

// Precondition failures reported by Solver.Solve, NewPoseCache and the rig
// loader. They are returned wrapped with context; test with errors.Is.
var (
	ErrChainTooShort  = errors.New("fabrik: chain needs at least 2 joints")
	ErrDegenerateLink = errors.New("fabrik: link length is zero or not finite")
	ErrNonFinite      = errors.New("fabrik: non-finite position")
	ErrBoundsMismatch = errors.New("fabrik: constraint bounds do not cover every link")
	ErrInvalidBound   = errors.New("fabrik: negative limit exceeds positive limit")
	ErrInvalidBudget  = errors.New("fabrik: iterations and tolerance must not be negative")
	ErrEmptyChain     = errors.New("fabrik: chain has no joints")
)
