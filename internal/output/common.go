package output

import "strconv"

// Text labels, one per output line. Keep in step with the reference printout.
const (
	LabelP = "Probability p: "
	LabelQ = "Probability of zero-sum path exists: "
)

// DefaultDigits matches the 15 significant digits of the reference printout.
const DefaultDigits = 15

// FormatFloat renders v with digits significant digits (shortest form when digits ≤ 0).
func FormatFloat(v float64, digits int) string {
	if digits <= 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', digits, 64)
}
