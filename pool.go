package fabrik

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// SolverPool hands out Solver contexts to goroutines. Each checked-out solver
// has its own scratch buffers, so solves on different goroutines never share
// state. The zero value is ready to use.
type SolverPool struct {
	pool  sync.Pool
	debug bool
}

// NewSolverPool returns a pool whose solvers log through Logf when debug is
// true.
func NewSolverPool(debug bool) *SolverPool {
	return &SolverPool{debug: debug}
}

// Get checks a solver out of the pool, creating one if none is idle.
func (p *SolverPool) Get() *Solver {
	if s, ok := p.pool.Get().(*Solver); ok {
		return s
	}
	s := NewSolver()
	s.SetDebug(p.debug)
	return s
}

// Put returns a solver to the pool. The caller must not use it afterwards.
func (p *SolverPool) Put(s *Solver) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}

// Solve checks out a solver, runs Solver.Solve and returns the solver to the
// pool. It is safe to call from multiple goroutines as long as each call works
// on a different joint slice.
func (p *SolverPool) Solve(joints []Joint, target r3.Vec, bounds []ConstraintBound, opts SolveOptions) (Result, error) {
	s := p.Get()
	defer p.Put(s)
	return s.Solve(joints, target, bounds, opts)
}
