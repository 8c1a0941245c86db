package fabrik

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// IdentityRotation is the rotation that leaves vectors unchanged.
var IdentityRotation = quat.Number{Real: 1}

// Joint is one element of a chain. Position and Rotation are local to the
// chain's parent frame; the solver reads and writes them in place.
type Joint struct {
	Name     string
	Position r3.Vec
	Rotation quat.Number
}

// NewJoint creates a joint at the given local position with no rotation.
func NewJoint(name string, pos r3.Vec) Joint {
	return Joint{Name: name, Position: pos, Rotation: IdentityRotation}
}

func (j Joint) String() string {
	return fmt.Sprintf("%s(%.4g, %.4g, %.4g)", j.Name, j.Position.X, j.Position.Y, j.Position.Z)
}

// Pose is the local position and rotation of a joint at one instant.
type Pose struct {
	Position r3.Vec
	Rotation quat.Number
}

// Pose returns the joint's current local transform.
func (j Joint) Pose() Pose {
	return Pose{Position: j.Position, Rotation: j.Rotation}
}

// SetPose overwrites the joint's local transform.
func (j *Joint) SetPose(p Pose) {
	j.Position = p.Position
	j.Rotation = p.Rotation
}

// NewStraightChain builds a chain of len(lengths)+1 joints starting at root and
// extending along dir (normalized), one link per entry in lengths. Joint names
// are "j0", "j1", ... Useful for tests and quick rigs.
func NewStraightChain(root, dir r3.Vec, lengths ...float64) []Joint {
	dir = r3.Unit(dir)
	joints := make([]Joint, len(lengths)+1)
	joints[0] = NewJoint("j0", root)
	p := root
	for i, l := range lengths {
		p = r3.Add(p, r3.Scale(l, dir))
		joints[i+1] = NewJoint(fmt.Sprintf("j%d", i+1), p)
	}
	return joints
}

// ChainLength returns the sum of distances between consecutive joints.
func ChainLength(joints []Joint) float64 {
	var total float64
	for i := 0; i+1 < len(joints); i++ {
		total += r3.Norm(r3.Sub(joints[i+1].Position, joints[i].Position))
	}
	return total
}

// EndEffector returns the position of the last joint. It panics on an empty
// chain.
func EndEffector(joints []Joint) r3.Vec {
	return joints[len(joints)-1].Position
}
