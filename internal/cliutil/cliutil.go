// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultTarget is the r used when none is given.
const DefaultTarget = "1/2"

// ParseTarget reads r as a decimal ("0.5", "5e-1"), an exact fraction ("1/2")
// or a percentage ("50%"). Fractions are reduced exactly before rounding to
// float64, so "1/3" gives the nearest float64 to one third.
func ParseTarget(spec string) (float64, error) {
	s := strings.TrimSpace(spec)
	scale := big.NewRat(1, 1)
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		scale = big.NewRat(1, 100)
	}
	if s == "" {
		return 0, fmt.Errorf("empty target %q", spec)
	}
	var rat big.Rat
	if _, ok := rat.SetString(s); !ok {
		return 0, fmt.Errorf("bad target %q (want decimal, fraction like 1/2, or percent like 50%%)", spec)
	}
	f, _ := rat.Mul(&rat, scale).Float64()
	return f, nil
}
