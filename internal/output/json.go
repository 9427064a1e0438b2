// internal/output/json.go
package output

import (
	"io"

	"sumone/core/probpair"
	"sumone/internal/jsonutil"
)

// WriteJSON writes one SolutionV1 object, indented when pretty.
func WriteJSON(w io.Writer, s probpair.Solution, pretty bool) error {
	return jsonutil.Encode(w, ToAPISolution(s), pretty)
}
