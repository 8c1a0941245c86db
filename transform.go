package fabrik

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon is the length below which a vector is treated as zero.
const epsilon = 1e-12

// unitOr returns v normalized, or fallback when v is (nearly) zero.
func unitOr(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < epsilon || math.IsNaN(n) {
		return fallback
	}
	return r3.Scale(1/n, v)
}

// finite reports whether every component of v is finite.
func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// swingVector returns the rotation vector (unit axis scaled by angle in
// radians) of the shortest-arc rotation taking unit vector from onto unit
// vector to. Opposite vectors turn by pi about halfTurnAxis(from).
func swingVector(from, to r3.Vec) r3.Vec {
	c := r3.Cross(from, to)
	sin := r3.Norm(c)
	cos := r3.Dot(from, to)
	if sin < epsilon {
		if cos > 0 {
			return r3.Vec{}
		}
		return r3.Scale(math.Pi, halfTurnAxis(from))
	}
	return r3.Scale(math.Atan2(sin, cos)/sin, c)
}

// rotateAbout rotates v by angle radians about the unit axis.
func rotateAbout(v, axis r3.Vec, angle float64) r3.Vec {
	if angle == 0 {
		return v
	}
	return r3.NewRotation(angle, axis).Rotate(v)
}

// perpendicular returns a unit vector orthogonal to the unit vector v.
func perpendicular(v r3.Vec) r3.Vec {
	ref := r3.Vec{X: 1}
	if math.Abs(v.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	return r3.Unit(r3.Cross(v, ref))
}

// halfTurnAxis returns the axis used to reverse the unit vector v: the X axis
// with its v component removed. Vectors close to X fall back to perpendicular.
func halfTurnAxis(v r3.Vec) r3.Vec {
	p := r3.Sub(AxisX.Vector(), r3.Scale(v.X, v))
	if r3.Norm(p) > 0.1 {
		return r3.Unit(p)
	}
	return perpendicular(v)
}

// fromToRotation returns the shortest-arc rotation taking unit vector from
// onto unit vector to.
func fromToRotation(from, to r3.Vec) quat.Number {
	d := r3.Dot(from, to)
	if d < -1+1e-9 {
		axis := halfTurnAxis(from)
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}
	c := r3.Cross(from, to)
	q := quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z}
	return quat.Scale(1/quat.Abs(q), q)
}

// RotateVec applies the unit quaternion q to v.
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Deviation returns how far the solved link direction has swung away from the
// rest direction, as a rotation vector in degrees: each component is the
// share of the swing about that axis of the chain's parent frame. These are
// the values ConstraintBound limits.
func Deviation(rest, solved r3.Vec) r3.Vec {
	return r3.Scale(180/math.Pi, swingVector(r3.Unit(rest), r3.Unit(solved)))
}
