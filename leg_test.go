package fabrik

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewLegValidates(t *testing.T) {
	_, err := NewLeg("stub", []Joint{NewJoint("a", r3.Vec{})}, nil)
	assert.ErrorIs(t, err, ErrChainTooShort)

	_, err = NewLeg("short", bentLeg(), []ConstraintBound{Unconstrained})
	assert.ErrorIs(t, err, ErrBoundsMismatch)
}

func TestNewLegDefaults(t *testing.T) {
	leg, err := NewLeg("left", bentLeg(), nil)
	require.NoError(t, err)

	assert.Equal(t, "left", leg.Name)
	assert.Equal(t, r3.Vec{Y: -2}, leg.Target)
	assert.Equal(t, r3.Vec{Y: -2}, leg.RestEndEffector())
	assert.Equal(t, LegIterations, leg.Options.Iterations)
	assert.Equal(t, IdentityRotation, leg.Hip())
	assert.Equal(t, Result{}, leg.Last())
	assert.Equal(t, 3, leg.Cache().Len())
}

func TestLegSolveRestoresFirst(t *testing.T) {
	leg, err := NewLeg("left", bentLeg(), []ConstraintBound{PlanarBound(60, -75), PlanarBound(130, -10)})
	require.NoError(t, err)
	s := NewSolver()

	leg.Target = r3.Vec{Y: -1.4, Z: 0.6}
	res, err := leg.Solve(s)
	require.NoError(t, err)
	assert.True(t, res.Reachable)
	assert.Equal(t, res, leg.Last())
	first := append([]Joint(nil), leg.Joints()...)

	// Move somewhere else, then come back: the pose must match exactly.
	leg.Target = r3.Vec{Y: -1.9, Z: -0.2}
	_, err = leg.Solve(s)
	require.NoError(t, err)
	leg.Target = r3.Vec{Y: -1.4, Z: 0.6}
	_, err = leg.Solve(s)
	require.NoError(t, err)

	assert.Equal(t, first, leg.Joints())
	assert.InDelta(t, res.Distance, r3.Norm(r3.Sub(leg.EndEffector(), leg.Target)), 1e-12)
}

func TestLegSolveWrapsErrors(t *testing.T) {
	leg, err := NewLeg("broken", bentLeg(), nil)
	require.NoError(t, err)
	leg.Options.Iterations = -1

	_, err = leg.Solve(NewSolver())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBudget)
	assert.Contains(t, err.Error(), `leg "broken"`)
}

func TestLegReset(t *testing.T) {
	leg, err := NewLeg("left", bentLeg(), nil)
	require.NoError(t, err)

	leg.Target = r3.Vec{Y: -1.5, Z: 0.5}
	_, err = leg.Solve(NewSolver())
	require.NoError(t, err)
	require.False(t, leg.Cache().AtRest())

	leg.Reset()
	assert.True(t, leg.Cache().AtRest())
	assert.Equal(t, leg.RestEndEffector(), leg.Target)
	assert.Equal(t, Result{}, leg.Last())
}
