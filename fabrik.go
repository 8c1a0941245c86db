package fabrik

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis identifies one of the three axes of the chain's parent frame.
type Axis uint8

const (
	AxisX Axis = iota // bend axis of a leg (knee / hip swing)
	AxisY             // yaw
	AxisZ             // roll around a forward-pointing link
)

// axisVectors holds the unit vector for each Axis.
var axisVectors = [3]r3.Vec{
	{X: 1},
	{Y: 1},
	{Z: 1},
}

// Vector returns the unit vector of the axis.
func (a Axis) Vector() r3.Vec {
	return axisVectors[a]
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Limit is a signed angle range in degrees. Neg is the most negative deviation
// allowed and Pos the most positive, so Neg <= Pos.
type Limit struct {
	Pos, Neg float64
}

// ConstraintBound holds the per-axis angle limits of one link, in degrees,
// relative to the link's rest direction. The swing from the rest direction to
// the solved one is taken as a rotation vector and each of its X, Y and Z
// components is held within the matching Limit (see Deviation). The zero value
// locks the link to its rest direction; use Unconstrained for a free link.
type ConstraintBound struct {
	X, Y, Z Limit
}

// Unconstrained is a bound that never clamps.
var Unconstrained = ConstraintBound{
	X: Limit{Pos: 180, Neg: -180},
	Y: Limit{Pos: 180, Neg: -180},
	Z: Limit{Pos: 180, Neg: -180},
}

// NewConstraintBound builds a bound from the six-scalar layout used by rig
// files: xPos, xNeg, yPos, yNeg, zPos, zNeg.
func NewConstraintBound(xPos, xNeg, yPos, yNeg, zPos, zNeg float64) ConstraintBound {
	return ConstraintBound{
		X: Limit{Pos: xPos, Neg: xNeg},
		Y: Limit{Pos: yPos, Neg: yNeg},
		Z: Limit{Pos: zPos, Neg: zNeg},
	}
}

// PlanarBound allows bending about X within [neg, pos] degrees and locks the
// Y and Z axes. This is the usual bound for a knee or hip.
func PlanarBound(pos, neg float64) ConstraintBound {
	return ConstraintBound{X: Limit{Pos: pos, Neg: neg}}
}

// Limit returns the limit for the given axis.
func (b ConstraintBound) Limit(a Axis) Limit {
	switch a {
	case AxisY:
		return b.Y
	case AxisZ:
		return b.Z
	default:
		return b.X
	}
}

// Validate reports ErrInvalidBound if any axis has Neg > Pos or a NaN limit.
func (b ConstraintBound) Validate() error {
	for a := AxisX; a <= AxisZ; a++ {
		l := b.Limit(a)
		if math.IsNaN(l.Pos) || math.IsNaN(l.Neg) || l.Neg > l.Pos {
			return fmt.Errorf("axis %s [%v, %v]: %w", a, l.Neg, l.Pos, ErrInvalidBound)
		}
	}
	return nil
}

// clampRadians clamps angle (radians) into the limit. It reports whether the
// angle was outside the limit.
func (l Limit) clampRadians(angle float64) (float64, bool) {
	pos := Radians(l.Pos)
	neg := Radians(l.Neg)
	switch {
	case angle > pos:
		return pos, true
	case angle < neg:
		return neg, true
	}
	return angle, false
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
