package newton

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// circleLine: x² + y² = 1, y = x. Roots at ±(1/√2, 1/√2).
func circleLine() Problem {
	return Problem{
		Dim: 2,
		Func: func(dst, x []float64) {
			dst[0] = x[0]*x[0] + x[1]*x[1] - 1
			dst[1] = x[1] - x[0]
		},
		Jac: func(dst *mat.Dense, x []float64) {
			dst.Set(0, 0, 2*x[0])
			dst.Set(0, 1, 2*x[1])
			dst.Set(1, 0, -1)
			dst.Set(1, 1, 1)
		},
	}
}

func TestSolve_CircleLine(t *testing.T) {
	res, err := Solve(circleLine(), []float64{1, 0.5}, nil)
	require.NoError(t, err)

	want := 1 / math.Sqrt2
	assert.InDelta(t, want, res.X[0], 1e-12)
	assert.InDelta(t, want, res.X[1], 1e-12)
	assert.LessOrEqual(t, res.Residual, DefaultTolerance)
	assert.Greater(t, res.Iterations, 0)
	assert.False(t, math.IsInf(res.Cond, 0), "cond should be finite at a simple root")
}

func TestSolve_PicksRootByBasin(t *testing.T) {
	res, err := Solve(circleLine(), []float64{-1, -0.5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, -1/math.Sqrt2, res.X[0], 1e-12)
}

func TestSolve_DoesNotModifyStart(t *testing.T) {
	x0 := []float64{1, 0.5}
	_, err := Solve(circleLine(), x0, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, x0)
}

func TestSolve_StartAtRoot(t *testing.T) {
	x0 := []float64{1 / math.Sqrt2, 1 / math.Sqrt2}
	res, err := Solve(circleLine(), x0, &Settings{Tolerance: 1e-9})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations, "one correcting step")
	assert.InDelta(t, x0[0], res.X[0], 1e-15)
	assert.InDelta(t, x0[1], res.X[1], 1e-15)
}

func TestSolve_FiniteDifferenceJacobian(t *testing.T) {
	p := circleLine()
	p.Jac = nil
	res, err := Solve(p, []float64{1, 0.5}, &Settings{Tolerance: 1e-10})
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, res.X[0], 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, res.X[1], 1e-9)
}

func TestSolve_IterationBudget(t *testing.T) {
	_, err := Solve(circleLine(), []float64{1, 0.5}, &Settings{MaxIterations: 1})
	require.Error(t, err)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce), "want *ConvergenceError, got %T", err)
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Equal(t, 1, ce.Iterations)
	assert.Len(t, ce.X, 2)
	assert.Contains(t, err.Error(), "no convergence after 1 iterations")
}

func TestSolve_SingularJacobian(t *testing.T) {
	// x² + 1 = 0 has no real root; J = 2x vanishes at the start.
	p := Problem{
		Dim:  1,
		Func: func(dst, x []float64) { dst[0] = x[0]*x[0] + 1 },
		Jac:  func(dst *mat.Dense, x []float64) { dst.Set(0, 0, 2*x[0]) },
	}
	_, err := Solve(p, []float64{0}, nil)
	assert.ErrorIs(t, err, ErrSingularJacobian)
}

func TestSolve_NonFinite(t *testing.T) {
	p := Problem{
		Dim:  1,
		Func: func(dst, x []float64) { dst[0] = math.Log(x[0]) },
		Jac:  func(dst *mat.Dense, x []float64) { dst.Set(0, 0, 1/x[0]) },
	}
	_, err := Solve(p, []float64{-1}, nil)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestSolve_BadInput(t *testing.T) {
	cases := []struct {
		name string
		p    Problem
		x0   []float64
	}{
		{"zero dim", Problem{Dim: 0, Func: circleLine().Func}, nil},
		{"x0 length", circleLine(), []float64{1}},
		{"nil func", Problem{Dim: 2}, []float64{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Solve(tc.p, tc.x0, nil)
			require.Error(t, err)
			var ce *ConvergenceError
			assert.False(t, errors.As(err, &ce), "input errors are not convergence errors")
		})
	}
}

func TestSettings_Normalized(t *testing.T) {
	var nilSettings *Settings
	assert.Equal(t, Settings{DefaultTolerance, DefaultStepTolerance, DefaultMaxIterations}, nilSettings.normalized())
	assert.Equal(t, Settings{1e-6, DefaultStepTolerance, DefaultMaxIterations}, (&Settings{Tolerance: 1e-6}).normalized())
	assert.Equal(t, Settings{DefaultTolerance, 1e-8, 7}, (&Settings{Tolerance: -1, StepTolerance: 1e-8, MaxIterations: 7}).normalized())
}

// x² = 1e-14 from x0 = 1: |F| drops below 1e-12 once x ≲ 1e-6, ten times the
// root. Convergence must wait for the step to vanish too.
func TestSolve_TinyRootNeedsStepTest(t *testing.T) {
	const root = 1e-7
	p := Problem{
		Dim:  1,
		Func: func(dst, x []float64) { dst[0] = x[0]*x[0] - root*root },
		Jac:  func(dst *mat.Dense, x []float64) { dst.Set(0, 0, 2*x[0]) },
	}
	res, err := Solve(p, []float64{1}, nil)
	require.NoError(t, err)
	assert.InEpsilon(t, root, res.X[0], 1e-9)
	assert.LessOrEqual(t, res.Residual, DefaultTolerance)
}

// With an unreachable step tolerance the iteration still ends once steps stop
// shrinking, instead of spending the whole budget on rounding noise.
func TestSolve_StopsAtRoundingFloor(t *testing.T) {
	p := Problem{
		Dim:  1,
		Func: func(dst, x []float64) { dst[0] = x[0]*x[0] - 2 },
		Jac:  func(dst *mat.Dense, x []float64) { dst.Set(0, 0, 2*x[0]) },
	}
	res, err := Solve(p, []float64{1}, &Settings{StepTolerance: 1e-300})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X[0], 1e-15)
	assert.Less(t, res.Iterations, 20)
}

// Unlike a singular Jacobian on the way, one at an accepted residual is a
// degenerate root, reported through Cond.
func TestSolve_SingularAtRoot(t *testing.T) {
	p := Problem{
		Dim:  1,
		Func: func(dst, x []float64) { dst[0] = x[0] * x[0] },
		Jac:  func(dst *mat.Dense, x []float64) { dst.Set(0, 0, 2*x[0]) },
	}
	res, err := Solve(p, []float64{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.True(t, math.IsInf(res.Cond, 1), "cond = %g", res.Cond)
}
