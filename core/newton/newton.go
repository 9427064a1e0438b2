// core/newton/newton.go
// Dense Newton–Raphson for square nonlinear systems F(x) = 0.
//
// Steps (per iteration):
//  1) Evaluate F(x) and J(x) (analytic, or forward differences when Jac is nil).
//  2) LU-factorise J and solve J·dx = −F.
//  3) x ← x + dx, unless max|F| ≤ Tolerance already and dx stopped shrinking
//     (rounding floor): then stop at x.
//  4) Stop after the step when max|F| ≤ Tolerance held before it and
//     max|dx| ≤ StepTolerance·(1+max|x|).
//
// A small residual alone is not convergence: when the unknowns are tiny, F can
// be below Tolerance while x is still far from the root.
//
// The method is local: it reaches at most one root, the one whose basin holds x0.
// This package has no app/output deps.

package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultTolerance     = 1e-12
	DefaultStepTolerance = 1e-12
	DefaultMaxIterations = 100
)

var (
	ErrMaxIterations    = errors.New("iteration budget exhausted")
	ErrSingularJacobian = errors.New("singular Jacobian")
	ErrNonFinite        = errors.New("non-finite residual")
)

// ConvergenceError reports a solve that stopped without reaching Tolerance.
// Err is one of ErrMaxIterations, ErrSingularJacobian or ErrNonFinite.
type ConvergenceError struct {
	Iterations int
	Residual   float64   // max|F| at the last iterate
	X          []float64 // last iterate
	Err        error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("newton: no convergence after %d iterations (max|F| = %.3g): %v",
		e.Iterations, e.Residual, e.Err)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }

// Problem is a square system of Dim equations in Dim unknowns.
// Func writes F(x) into dst; Jac writes ∂F/∂x into dst (Dim×Dim).
type Problem struct {
	Dim  int
	Func func(dst, x []float64)
	Jac  func(dst *mat.Dense, x []float64)
}

func (p Problem) jacobian(dst *mat.Dense, x []float64) {
	if p.Jac != nil {
		p.Jac(dst, x)
		return
	}
	fd.Jacobian(dst, p.Func, x, nil)
}

// Settings tunes the iteration. Zero fields take the defaults.
type Settings struct {
	Tolerance     float64 // max|F| at an accepted root
	StepTolerance float64 // max|dx| ≤ StepTolerance·(1+max|x|) at an accepted root
	MaxIterations int     // Newton steps allowed
}

func (s *Settings) normalized() Settings {
	out := Settings{
		Tolerance:     DefaultTolerance,
		StepTolerance: DefaultStepTolerance,
		MaxIterations: DefaultMaxIterations,
	}
	if s == nil {
		return out
	}
	if s.Tolerance > 0 {
		out.Tolerance = s.Tolerance
	}
	if s.StepTolerance > 0 {
		out.StepTolerance = s.StepTolerance
	}
	if s.MaxIterations > 0 {
		out.MaxIterations = s.MaxIterations
	}
	return out
}

// Result is a converged iterate.
type Result struct {
	X          []float64
	F          []float64 // F(X)
	Iterations int       // Newton steps taken
	Residual   float64   // max|F(X)|
	Cond       float64   // 1-norm condition number of J at the last factorised iterate; +Inf if singular
}

// Solve runs Newton's method from x0. x0 is not modified.
func Solve(p Problem, x0 []float64, settings *Settings) (Result, error) {
	n := p.Dim
	if n <= 0 {
		return Result{}, errors.New("newton: Dim must be > 0")
	}
	if len(x0) != n {
		return Result{}, fmt.Errorf("newton: len(x0) = %d, want %d", len(x0), n)
	}
	if p.Func == nil {
		return Result{}, errors.New("newton: nil Func")
	}
	s := settings.normalized()

	x := append([]float64(nil), x0...)
	f := make([]float64, n)
	jac := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	dx := mat.NewVecDense(n, nil)
	var lu mat.LU

	prevStep := -1.0 // last step taken with max|F| ≤ Tolerance; <0 when none
	for it := 0; ; it++ {
		p.Func(f, x)
		res := floats.Norm(f, math.Inf(1))
		if floats.HasNaN(f) || math.IsInf(res, 0) {
			return Result{}, &ConvergenceError{Iterations: it, Residual: res, X: x, Err: ErrNonFinite}
		}
		small := res <= s.Tolerance

		p.jacobian(jac, x)
		lu.Factorize(jac)
		done := func() (Result, error) {
			return Result{X: x, F: f, Iterations: it, Residual: res, Cond: lu.Cond()}, nil
		}

		for i, v := range f {
			rhs.SetVec(i, -v)
		}
		if err := lu.SolveVecTo(dx, false, rhs); err != nil {
			if small {
				return done() // degenerate root; Cond reports it
			}
			return Result{}, &ConvergenceError{
				Iterations: it, Residual: res, X: x,
				Err: fmt.Errorf("%w (%v)", ErrSingularJacobian, err),
			}
		}

		step := floats.Norm(dx.RawVector().Data, math.Inf(1))
		final := false
		if small {
			if prevStep >= 0 && step >= prevStep {
				return done()
			}
			final = step <= s.StepTolerance*(1+floats.Norm(x, math.Inf(1)))
			prevStep = step
		} else {
			prevStep = -1
		}

		if it == s.MaxIterations {
			return Result{}, &ConvergenceError{Iterations: it, Residual: res, X: x, Err: ErrMaxIterations}
		}
		floats.Add(x, dx.RawVector().Data)

		if final {
			p.Func(f, x)
			res = floats.Norm(f, math.Inf(1))
			it++
			return done()
		}
	}
}
