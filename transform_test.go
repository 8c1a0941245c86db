package fabrik

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const testEpsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > testEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want r3.Vec) {
	t.Helper()
	if r3.Norm(r3.Sub(got, want)) > testEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- swingVector / Deviation ---

func TestSwingVectorQuarterTurn(t *testing.T) {
	// Rotating +Z by -90° about +X yields +Y.
	got := swingVector(r3.Vec{Z: 1}, r3.Vec{Y: 1})
	assertVec(t, "swing", got, r3.Vec{X: -math.Pi / 2})
}

func TestSwingVectorSameDirection(t *testing.T) {
	v := r3.Unit(r3.Vec{X: 1, Y: -2, Z: 0.5})
	assertVec(t, "swing", swingVector(v, v), r3.Vec{})
}

func TestSwingVectorOpposite(t *testing.T) {
	got := swingVector(r3.Vec{X: 1}, r3.Vec{X: -1})
	assertNear(t, "angle", r3.Norm(got), math.Pi)
	assertNear(t, "axis.x", got.X, 0)
}

func TestDeviationPlanarBend(t *testing.T) {
	// (0,-1,0) rotated +45° about X is (0,-cos45,-sin45).
	got := Deviation(r3.Vec{Y: -1}, r3.Vec{Y: -1, Z: -1})
	assertVec(t, "deviation", got, r3.Vec{X: 45})
}

func TestDeviationReversalBendsAboutX(t *testing.T) {
	for _, rest := range []r3.Vec{{Z: 1}, {Y: -1}, {Z: -1}} {
		got := Deviation(rest, r3.Scale(-1, rest))
		assertVec(t, "deviation", got, r3.Vec{X: 180})
	}
}

func TestHalfTurnAxisNearX(t *testing.T) {
	for _, v := range []r3.Vec{{X: 1}, {X: -1}, r3.Unit(r3.Vec{X: 1, Y: 0.05})} {
		axis := halfTurnAxis(v)
		assertNear(t, "axis.v", r3.Dot(axis, v), 0)
		assertNear(t, "|axis|", r3.Norm(axis), 1)
	}
}

func TestDeviationSplitsAcrossAxes(t *testing.T) {
	// A swing about the diagonal of X and Y has equal X and Y shares.
	rest := r3.Vec{Z: 1}
	axis := r3.Unit(r3.Vec{X: 1, Y: 1})
	solved := rotateAbout(rest, axis, Radians(30))
	got := Deviation(rest, solved)
	share := 30 / math.Sqrt2
	assertVec(t, "deviation", got, r3.Vec{X: share, Y: share})
}

// --- rotateAbout ---

func TestRotateAbout(t *testing.T) {
	got := rotateAbout(r3.Vec{Y: 1}, r3.Vec{X: 1}, math.Pi/2)
	assertVec(t, "rotated", got, r3.Vec{Z: 1})
}

func TestRotateAboutZeroAngle(t *testing.T) {
	v := r3.Vec{X: 0.3, Y: -2, Z: 7}
	if got := rotateAbout(v, r3.Vec{Y: 1}, 0); got != v {
		t.Errorf("rotated = %v, want %v unchanged", got, v)
	}
}

// --- fromToRotation / RotateVec ---

func TestFromToRotationMapsVectors(t *testing.T) {
	cases := []struct {
		name     string
		from, to r3.Vec
	}{
		{"quarter", r3.Vec{Z: 1}, r3.Vec{Y: 1}},
		{"oblique", r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3}), r3.Unit(r3.Vec{X: -2, Y: 0.5, Z: 1})},
		{"opposite", r3.Vec{X: 1}, r3.Vec{X: -1}},
		{"opposite-z", r3.Vec{Z: 1}, r3.Vec{Z: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := fromToRotation(c.from, c.to)
			assertNear(t, "|q|", quat.Abs(q), 1)
			assertVec(t, "rotated", RotateVec(q, c.from), c.to)
		})
	}
}

func TestFromToRotationIdentity(t *testing.T) {
	v := r3.Unit(r3.Vec{X: 1, Y: 1})
	q := fromToRotation(v, v)
	assertNear(t, "real", q.Real, 1)
	assertNear(t, "imag", q.Imag, 0)
	assertNear(t, "jmag", q.Jmag, 0)
	assertNear(t, "kmag", q.Kmag, 0)
}

// --- helpers ---

func TestUnitOrFallback(t *testing.T) {
	fb := r3.Vec{Y: 1}
	assertVec(t, "zero", unitOr(r3.Vec{}, fb), fb)
	assertVec(t, "nonzero", unitOr(r3.Vec{X: 3}, fb), r3.Vec{X: 1})
}

func TestPerpendicular(t *testing.T) {
	for _, v := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})} {
		p := perpendicular(v)
		assertNear(t, "dot", r3.Dot(p, v), 0)
		assertNear(t, "norm", r3.Norm(p), 1)
	}
}

func TestFinite(t *testing.T) {
	if !finite(r3.Vec{X: 1, Y: -2, Z: 3}) {
		t.Error("finite vector reported non-finite")
	}
	if finite(r3.Vec{X: math.NaN()}) || finite(r3.Vec{Z: math.Inf(1)}) {
		t.Error("non-finite vector reported finite")
	}
}
