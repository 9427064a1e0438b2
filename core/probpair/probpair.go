// core/probpair/probpair.go
// Probability pair (p, q) for a target r.
//
// System (s = 2r − r², g = 2q − q²):
//
//	F1(p,q) = p·s + (1−p)·g − r = 0
//	F2(p,q) = p·g − q           = 0
//
// Solved locally with Newton from a fixed guess and filtered to the open box
// (0,1)×(0,1). For q ≠ 0, F2 gives p = 1/(2−q) and F1 reduces to the cubic
// q³ − 3q² + (2+r)q − r² = 0, which has exactly one root in (0,1) for 0 < r < 1.
// At r = 1 that root merges into the triple root q = 1; at r = 0 the roots are
// the line q = 0 and the point (1,1). (1/(2−r), 0) is a root for every r.
//
// F2 = q·(p(2−q) − 1): a root either has p(2−q) = 1 (interior branch) or q = 0
// (edge branch). Newton only pins q = 0 to rounding noise, which can be a tiny
// positive q, so the branch is read off the vanishing factor, not the sign of q.
//
// For small r the interior root is q ≈ r²/2, p ≈ 1/2, next to the edge root
// (1/(2−r), 0); the Jacobian condition number grows like 1/r² and passes
// DefaultMaxCondition below r ≈ 3e-5.

package probpair

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"sumone/core/newton"
)

// DefaultGuess is the Newton starting point. Changing it may change which root
// the local solver reaches when more than one exists.
var DefaultGuess = Pair{P: 0.5, Q: 0.2}

// DefaultMaxCondition bounds the Jacobian condition number at an accepted root.
// Past it sit the degenerate roots at r = 0 and r = 1, where Newton stalls
// short of (1,1) at a point that looks interior, and the interior roots for r
// below about 3e-5.
const DefaultMaxCondition = 1e9

var (
	ErrNoValidSolution   = errors.New("no valid solution in (0,1)×(0,1)")
	ErrAmbiguousSolution = errors.New("more than one valid solution")
)

// Pair is a candidate (p, q).
type Pair struct {
	P float64
	Q float64
}

// Interior reports 0 < p < 1 ∧ 0 < q < 1.
func (pr Pair) Interior() bool { return pr.Inside(0) }

// Inside reports whether both coordinates lie in (margin, 1−margin).
func (pr Pair) Inside(margin float64) bool {
	lo, hi := margin, 1-margin
	return pr.P > lo && pr.P < hi && pr.Q > lo && pr.Q < hi
}

// OnEdgeBranch reports whether the pair solves F2 through its q = 0 factor
// rather than p(2−q) = 1.
func (pr Pair) OnEdgeBranch() bool {
	return math.Abs(pr.P*(2-pr.Q)-1) >= math.Abs(pr.Q)
}

// Options tunes the solve. Zero fields take the defaults.
type Options struct {
	Guess         *Pair   // nil = DefaultGuess
	Tolerance     float64 // max|F| at the root
	StepTolerance float64 // last Newton step, relative to 1+max(|p|,|q|)
	MaxIterations int
	MaxCondition  float64
	Margin        float64 // extra band kept clear of the box edges; 0 = open box
}

func (o Options) guess() Pair {
	if o.Guess == nil {
		return DefaultGuess
	}
	return *o.Guess
}

func (o Options) maxCondition() float64 {
	if o.MaxCondition > 0 {
		return o.MaxCondition
	}
	return DefaultMaxCondition
}

// Solution is the accepted pair plus solver diagnostics.
type Solution struct {
	Pair
	R          float64
	Guess      Pair
	Iterations int
	Residual   float64 // max|F| at the root
	Cond       float64 // 1-norm condition number of the Jacobian at the root
}

// System holds the equations for one r.
type System struct {
	R float64
}

// Residual returns (F1, F2) at (p, q).
func (sys System) Residual(p, q float64) (f1, f2 float64) {
	r := sys.R
	s := 2*r - r*r
	g := 2*q - q*q
	return p*s + (1-p)*g - r, p*g - q
}

// Jacobian returns ∂(F1,F2)/∂(p,q) row-major.
func (sys System) Jacobian(p, q float64) [2][2]float64 {
	r := sys.R
	s := 2*r - r*r
	g := 2*q - q*q
	dg := 2 - 2*q
	return [2][2]float64{
		{s - g, (1 - p) * dg},
		{g, p*dg - 1},
	}
}

func (sys System) problem() newton.Problem {
	return newton.Problem{
		Dim: 2,
		Func: func(dst, x []float64) {
			dst[0], dst[1] = sys.Residual(x[0], x[1])
		},
		Jac: func(dst *mat.Dense, x []float64) {
			j := sys.Jacobian(x[0], x[1])
			dst.Set(0, 0, j[0][0])
			dst.Set(0, 1, j[0][1])
			dst.Set(1, 0, j[1][0])
			dst.Set(1, 1, j[1][1])
		},
	}
}

// root runs Newton and classifies the result. ok is false when the root is
// outside the box (less Margin), on the edge branch, or degenerate.
func root(r float64, o Options) (sol Solution, ok bool, err error) {
	g := o.guess()
	res, err := newton.Solve(System{R: r}.problem(), []float64{g.P, g.Q}, &newton.Settings{
		Tolerance:     o.Tolerance,
		StepTolerance: o.StepTolerance,
		MaxIterations: o.MaxIterations,
	})
	if err != nil {
		return Solution{}, false, fmt.Errorf("r=%g: %w", r, err)
	}
	sol = Solution{
		Pair:       Pair{P: res.X[0], Q: res.X[1]},
		R:          r,
		Guess:      g,
		Iterations: res.Iterations,
		Residual:   res.Residual,
		Cond:       res.Cond,
	}
	ok = sol.Inside(o.Margin) && !sol.OnEdgeBranch() && sol.Cond <= o.maxCondition()
	return sol, ok, nil
}

// Solve returns the roots found from the guess that satisfy the box
// constraint: zero or one pairs. The only error is a *newton.ConvergenceError.
func Solve(r float64, o Options) ([]Pair, error) {
	sol, ok, err := root(r, o)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []Pair{sol.Pair}, nil
}

// SolvePair requires exactly one valid root. It returns ErrNoValidSolution when
// the root lies outside the box, is an edge root, or is degenerate, and a wrapped
// *newton.ConvergenceError when Newton fails.
func SolvePair(r float64, o Options) (Solution, error) {
	sol, ok, err := root(r, o)
	if err != nil {
		return Solution{}, err
	}
	var pairs []Pair
	if ok {
		pairs = append(pairs, sol.Pair)
	}
	if _, err := ExactlyOne(pairs); err != nil {
		return Solution{}, fmt.Errorf("r=%g: root (%g, %g) cond %.3g: %w", r, sol.P, sol.Q, sol.Cond, err)
	}
	return sol, nil
}

// ExactlyOne unpacks a single pair.
func ExactlyOne(pairs []Pair) (Pair, error) {
	switch len(pairs) {
	case 1:
		return pairs[0], nil
	case 0:
		return Pair{}, ErrNoValidSolution
	default:
		return Pair{}, fmt.Errorf("%w: got %d", ErrAmbiguousSolution, len(pairs))
	}
}
