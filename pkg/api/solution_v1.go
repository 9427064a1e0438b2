// pkg/api/solution_v1.go
package api

// SolutionV1 is the stable JSON schema for one solved (p, q).
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SolutionV1 struct {
	R          float64 `json:"r"`
	P          float64 `json:"p"`
	Q          float64 `json:"q"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`  // max|F| at the root
	Condition  float64 `json:"condition"` // 1-norm condition number of the Jacobian
	GuessP     float64 `json:"guess_p"`
	GuessQ     float64 `json:"guess_q"`
}
