// internal/output/text.go
package output

import (
	"io"

	"sumone/core/probpair"
	"sumone/internal/pretty"
)

// WriteText prints the two reference lines: p, then q.
func WriteText(w io.Writer, s probpair.Solution, digits int) error {
	if _, err := io.WriteString(w, LabelP+FormatFloat(s.P, digits)+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, LabelQ+FormatFloat(s.Q, digits)+"\n")
	return err
}

// WritePrettyText is WriteText followed by the commented diagnostics block.
func WritePrettyText(w io.Writer, s probpair.Solution, digits int) error {
	if err := WriteText(w, s, digits); err != nil {
		return err
	}
	_, err := io.WriteString(w, pretty.RenderSolution(s))
	return err
}
