package fabrik

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// LegIterations is the relaxation budget a Leg uses unless its Options say
// otherwise.
const LegIterations = 30

// Leg drives one IK chain: it owns the joints, their rest pose, the per-joint
// bounds and the current target. Solve always restores the rest pose first.
type Leg struct {
	Name string

	// Target is the point the end effector reaches for, in the chain's parent
	// frame. Set it (or tween it) before calling Solve.
	Target r3.Vec

	// Options is passed to the solver. Iterations defaults to LegIterations.
	Options SolveOptions

	joints []Joint
	bounds []ConstraintBound
	cache  *PoseCache
	last   Result
}

// NewLeg creates a leg over joints, which must be at rest. The leg takes
// ownership of joints. bounds may be nil for a free chain. The target starts
// at the rest end effector.
func NewLeg(name string, joints []Joint, bounds []ConstraintBound) (*Leg, error) {
	if len(joints) < 2 {
		return nil, fmt.Errorf("new leg %q: %d joints: %w", name, len(joints), ErrChainTooShort)
	}
	if len(bounds) > 0 && len(bounds) < len(joints)-1 {
		return nil, fmt.Errorf("new leg %q: %d bounds for %d links: %w",
			name, len(bounds), len(joints)-1, ErrBoundsMismatch)
	}
	cache, err := NewPoseCache(joints)
	if err != nil {
		return nil, fmt.Errorf("new leg %q: %w", name, err)
	}
	return &Leg{
		Name:    name,
		Target:  EndEffector(joints),
		Options: SolveOptions{Iterations: LegIterations},
		joints:  joints,
		bounds:  bounds,
		cache:   cache,
	}, nil
}

// Solve restores the rest pose and solves the chain toward Target with s.
func (l *Leg) Solve(s *Solver) (Result, error) {
	l.cache.RestoreDefaults()
	res, err := s.Solve(l.joints, l.Target, l.bounds, l.Options)
	if err != nil {
		return Result{}, fmt.Errorf("leg %q: %w", l.Name, err)
	}
	l.last = res
	return res, nil
}

// Reset restores the rest pose and moves the target back to the rest end
// effector.
func (l *Leg) Reset() {
	l.cache.RestoreDefaults()
	l.Target = l.RestEndEffector()
	l.last = Result{}
}

// Joints returns the live joints. Renderers read them after Solve.
func (l *Leg) Joints() []Joint {
	return l.joints
}

// Bounds returns the per-joint bounds.
func (l *Leg) Bounds() []ConstraintBound {
	return l.bounds
}

// Cache returns the leg's rest-pose cache.
func (l *Leg) Cache() *PoseCache {
	return l.cache
}

// EndEffector returns the current end-effector position.
func (l *Leg) EndEffector() r3.Vec {
	return EndEffector(l.joints)
}

// RestEndEffector returns the end-effector position of the rest pose.
func (l *Leg) RestEndEffector() r3.Vec {
	return l.cache.rest[len(l.cache.rest)-1].Position
}

// Hip returns the current local rotation of the root joint.
func (l *Leg) Hip() quat.Number {
	return l.joints[0].Rotation
}

// Last returns the result of the most recent successful Solve.
func (l *Leg) Last() Result {
	return l.last
}
