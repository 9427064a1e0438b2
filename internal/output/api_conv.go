// internal/output/api_conv.go
package output

import (
	"sumone/core/probpair"
	"sumone/pkg/api"
)

// ToAPISolution converts a solution into the public wire type.
func ToAPISolution(s probpair.Solution) api.SolutionV1 {
	return api.SolutionV1{
		R:          s.R,
		P:          s.P,
		Q:          s.Q,
		Iterations: s.Iterations,
		Residual:   s.Residual,
		Condition:  s.Cond,
		GuessP:     s.Guess.P,
		GuessQ:     s.Guess.Q,
	}
}
