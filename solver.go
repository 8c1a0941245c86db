package fabrik

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultIterations is the relaxation budget used when SolveOptions.Iterations is 0.
	DefaultIterations = 10
	// DefaultTolerance is the end-effector distance used when SolveOptions.Tolerance is 0.
	DefaultTolerance = 1e-4
	// MinLinkLength is the shortest link the solver accepts.
	MinLinkLength = 1e-9
)

// SolveOptions configures a single Solve call. The zero value is usable.
type SolveOptions struct {
	// Iterations caps the number of backward/forward passes (default 10).
	Iterations int
	// Tolerance is the end-effector to target distance that counts as
	// converged (default 1e-4). Must be finite. Compared squared.
	Tolerance float64
	// ConstrainForward also clamps link directions on the forward pass, so
	// a reachable solve commits a pose within the bounds. Off by default: only
	// the backward pass clamps.
	ConstrainForward bool
	// OnIteration, if set, is called after every relaxation pass with the
	// 1-based pass number and the end-effector distance to the target.
	OnIteration func(iteration int, distance float64)
}

func (o SolveOptions) iterations() int {
	if o.Iterations == 0 {
		return DefaultIterations
	}
	return o.Iterations
}

func (o SolveOptions) tolerance() float64 {
	if o.Tolerance == 0 {
		return DefaultTolerance
	}
	return o.Tolerance
}

// Result describes the outcome of a Solve call.
type Result struct {
	// Reachable is false when the target lay beyond the chain length and the
	// chain was stretched straight toward it.
	Reachable bool
	// Converged is true when the end effector ended within tolerance of the
	// target. It is always false for an unreachable target.
	Converged bool
	// Iterations is the number of relaxation passes run (0 when unreachable).
	Iterations int
	// Distance is the final end-effector to target distance.
	Distance float64
}

// Solver solves joint chains toward targets. It owns the scratch buffers of
// the solve and grows them to the longest chain it has seen, so reusing one
// Solver across frames and chains does not allocate.
//
// A Solver is not safe for concurrent use. Give each goroutine its own or
// check them out of a SolverPool.
type Solver struct {
	positions []r3.Vec  // scratch joint positions
	restDirs  []r3.Vec  // unit rest direction per link
	lengths   []float64 // rest length per link

	debug bool
}

// NewSolver returns a solver with empty scratch buffers.
func NewSolver() *Solver {
	return &Solver{}
}

// SetDebug enables per-solve timing and convergence logging through Logf.
func (s *Solver) SetDebug(enabled bool) {
	s.debug = enabled
}

// Capacity returns the number of joints the scratch buffers can hold without
// growing.
func (s *Solver) Capacity() int {
	return cap(s.positions)
}

// grow sizes the scratch buffers for n joints, keeping the high-water mark.
func (s *Solver) grow(n int) {
	if cap(s.positions) < n {
		s.positions = make([]r3.Vec, n)
		s.restDirs = make([]r3.Vec, n-1)
		s.lengths = make([]float64, n-1)
	}
	s.positions = s.positions[:n]
	s.restDirs = s.restDirs[:n-1]
	s.lengths = s.lengths[:n-1]
}

// Solve moves joints so the last one reaches target, or gets as close as the
// chain, its bounds and the iteration budget allow. Positions and rotations
// are updated in place.
//
// joints must be at their rest pose: restore them (PoseCache.RestoreDefaults)
// before every call. The current positions define link lengths, rest
// directions and the root anchor, and rotations are composed onto the current
// ones.
//
// bounds is indexed by joint: bounds[i] limits link i -> i+1, and an entry for
// the end effector is ignored. A nil or empty bounds leaves the chain free.
func (s *Solver) Solve(joints []Joint, target r3.Vec, bounds []ConstraintBound, opts SolveOptions) (Result, error) {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if err := validate(joints, target, bounds, opts); err != nil {
		return Result{}, err
	}
	n := len(joints)
	end := n - 1
	s.debugCheckChainLength(n)
	s.grow(n)

	var chainLength float64
	for i := 0; i < end; i++ {
		link := r3.Sub(joints[i+1].Position, joints[i].Position)
		l := r3.Norm(link)
		if l < MinLinkLength || math.IsInf(l, 0) {
			return Result{}, fmt.Errorf("solve: link %d (%s -> %s) length %v: %w",
				i, joints[i].Name, joints[i+1].Name, l, ErrDegenerateLink)
		}
		s.lengths[i] = l
		s.restDirs[i] = r3.Scale(1/l, link)
		chainLength += l
	}
	for i := range joints {
		s.positions[i] = joints[i].Position
	}
	anchor := joints[0].Position

	if s.debug {
		t1 := time.Now()
		stats.setupTime = t1.Sub(t0)
		t0 = t1
	}

	var res Result
	toTarget := r3.Sub(target, anchor)
	if r3.Norm2(toTarget) > chainLength*chainLength {
		s.stretch(anchor, r3.Unit(toTarget))
		res.Distance = r3.Norm(r3.Sub(s.positions[end], target))
	} else {
		res = s.relax(anchor, target, bounds, opts)
		res.Reachable = true
	}

	if s.debug {
		t1 := time.Now()
		stats.relaxTime = t1.Sub(t0)
		t0 = t1
	}

	s.commit(joints)

	if s.debug {
		stats.commitTime = time.Since(t0)
		stats.joints = n
		stats.result = res
		s.debugLog(stats)
	}
	return res, nil
}

// stretch lays every joint along the ray from anchor in direction dir at its
// cumulative rest length.
func (s *Solver) stretch(anchor, dir r3.Vec) {
	s.positions[0] = anchor
	for i := 1; i < len(s.positions); i++ {
		s.positions[i] = r3.Add(s.positions[i-1], r3.Scale(s.lengths[i-1], dir))
	}
}

// relax runs backward/forward passes until the end effector is within
// tolerance of target or the budget runs out.
func (s *Solver) relax(anchor, target r3.Vec, bounds []ConstraintBound, opts SolveOptions) Result {
	end := len(s.positions) - 1
	tol := opts.tolerance()
	tolSq := tol * tol
	iterations := opts.iterations()

	var res Result
	for iter := 1; iter <= iterations; iter++ {
		res.Iterations = iter

		// Backward: pin the end effector on the target and pull each joint
		// toward its child.
		s.positions[end] = target
		for i := end - 1; i >= 0; i-- {
			link := r3.Sub(s.positions[i+1], s.positions[i])
			var dir r3.Vec
			if r3.Norm2(link) < epsilon {
				dir = s.bentRest(i)
			} else {
				dir = r3.Unit(link)
			}
			if len(bounds) > 0 {
				dir = constrain(dir, s.restDirs[i], bounds[i])
			}
			s.positions[i] = r3.Sub(s.positions[i+1], r3.Scale(s.lengths[i], dir))
		}

		// Forward: re-anchor the root and push each joint toward its old spot.
		s.positions[0] = anchor
		for i := 0; i < end; i++ {
			dir := unitOr(r3.Sub(s.positions[i+1], s.positions[i]), s.restDirs[i])
			if opts.ConstrainForward && len(bounds) > 0 {
				dir = constrain(dir, s.restDirs[i], bounds[i])
			}
			s.positions[i+1] = r3.Add(s.positions[i], r3.Scale(s.lengths[i], dir))
		}

		distSq := r3.Norm2(r3.Sub(s.positions[end], target))
		res.Distance = math.Sqrt(distSq)
		if opts.OnIteration != nil {
			opts.OnIteration(iter, res.Distance)
		}
		if distSq < tolSq {
			res.Converged = true
			break
		}
	}
	return res
}

// bentRest is the direction used for link i when its two joints coincide
// during the backward pass: the rest direction tilted 45 degrees about X, so
// a straight chain folded onto itself can still bend.
func (s *Solver) bentRest(i int) r3.Vec {
	rest := s.restDirs[i]
	bend := r3.Cross(AxisX.Vector(), rest)
	if r3.Norm2(bend) < epsilon {
		return rest
	}
	return r3.Unit(r3.Add(rest, r3.Unit(bend)))
}

// constrain clamps the unit direction dir against bound. The swing from rest
// to dir is split into its rotation-vector components about X, Y and Z; each
// is clamped to its limit and the direction rebuilt by rotating rest by the
// clamped vector.
func constrain(dir, rest r3.Vec, bound ConstraintBound) r3.Vec {
	swing := swingVector(rest, dir)
	var cx, cy, cz bool
	swing.X, cx = bound.X.clampRadians(swing.X)
	swing.Y, cy = bound.Y.clampRadians(swing.Y)
	swing.Z, cz = bound.Z.clampRadians(swing.Z)
	if !cx && !cy && !cz {
		return dir
	}
	angle := r3.Norm(swing)
	if angle < epsilon {
		return rest
	}
	return r3.Unit(rotateAbout(rest, r3.Scale(1/angle, swing), angle))
}

// commit writes the scratch positions onto joints and composes each link's
// rest-to-solved rotation onto its joint.
func (s *Solver) commit(joints []Joint) {
	end := len(joints) - 1
	joints[end].Position = s.positions[end]
	for i := 0; i < end; i++ {
		solved := unitOr(r3.Sub(s.positions[i+1], s.positions[i]), s.restDirs[i])
		delta := fromToRotation(s.restDirs[i], solved)
		joints[i].Rotation = quat.Mul(joints[i].Rotation, delta)
		joints[i].Position = s.positions[i]
	}
}

// validate checks the preconditions of Solve that do not need the scratch
// buffers.
func validate(joints []Joint, target r3.Vec, bounds []ConstraintBound, opts SolveOptions) error {
	n := len(joints)
	if n < 2 {
		return fmt.Errorf("solve: %d joints: %w", n, ErrChainTooShort)
	}
	if !finite(target) {
		return fmt.Errorf("solve: target %v: %w", target, ErrNonFinite)
	}
	for i := range joints {
		if !finite(joints[i].Position) {
			return fmt.Errorf("solve: joint %d (%s) %v: %w", i, joints[i].Name, joints[i].Position, ErrNonFinite)
		}
	}
	if len(bounds) > 0 {
		if len(bounds) < n-1 {
			return fmt.Errorf("solve: %d bounds for %d links: %w", len(bounds), n-1, ErrBoundsMismatch)
		}
		for i := 0; i < n-1; i++ {
			if err := bounds[i].Validate(); err != nil {
				return fmt.Errorf("solve: bound %d: %w", i, err)
			}
		}
	}
	if opts.Iterations < 0 || opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) || math.IsInf(opts.Tolerance, 0) {
		return fmt.Errorf("solve: iterations %d tolerance %v: %w", opts.Iterations, opts.Tolerance, ErrInvalidBudget)
	}
	return nil
}
