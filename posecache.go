package fabrik

import "fmt"

// PoseCache holds the rest pose of one chain. It is captured once when the
// chain is set up and never changes afterwards.
//
// Call RestoreDefaults before every Solver.Solve on the chain. The solver
// composes rotations onto the live joints and measures constraint angles
// against whatever pose it is handed, so skipping the restore lets rotation
// and position error compound frame after frame.
type PoseCache struct {
	joints []Joint
	rest   []Pose
}

// NewPoseCache captures the current local transform of every joint as the
// rest pose. The cache keeps joints as its handle: RestoreDefaults writes into
// the same backing array.
func NewPoseCache(joints []Joint) (*PoseCache, error) {
	if len(joints) == 0 {
		return nil, fmt.Errorf("new pose cache: %w", ErrEmptyChain)
	}
	c := &PoseCache{joints: joints, rest: make([]Pose, len(joints))}
	for i := range joints {
		c.rest[i] = joints[i].Pose()
	}
	return c, nil
}

// RestoreDefaults writes the rest pose back onto every joint. Calling it
// twice in a row is the same as calling it once.
func (c *PoseCache) RestoreDefaults() {
	for i := range c.joints {
		c.joints[i].SetPose(c.rest[i])
	}
}

// Joints returns the live chain the cache restores.
func (c *PoseCache) Joints() []Joint {
	return c.joints
}

// Rest returns a copy of the captured rest pose.
func (c *PoseCache) Rest() []Pose {
	out := make([]Pose, len(c.rest))
	copy(out, c.rest)
	return out
}

// Len returns the number of joints in the cached chain.
func (c *PoseCache) Len() int {
	return len(c.rest)
}

// AtRest reports whether every live joint matches its rest pose exactly.
func (c *PoseCache) AtRest() bool {
	for i := range c.joints {
		if c.joints[i].Pose() != c.rest[i] {
			return false
		}
	}
	return true
}
