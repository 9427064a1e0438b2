// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"sumone/core/probpair"
	"sumone/internal/output"
)

// Options carries the presentation knobs a writer may use.
type Options struct {
	Digits int
	Pretty bool // json: indent; text: append the diagnostics block
}

// WriteFunc serializes one solution.
type WriteFunc func(w io.Writer, s probpair.Solution, o Options) error

// Writer registry (format → handler). Register in init() blocks.
var solutionWriters = map[string]WriteFunc{}

// Register installs fn for format (last wins).
func Register(format string, fn WriteFunc) { solutionWriters[format] = fn }

// Formats lists the registered formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(solutionWriters))
	for f := range solutionWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, s probpair.Solution, o Options) error {
	fn, ok := solutionWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, s, o)
}

func init() {
	Register("text", func(w io.Writer, s probpair.Solution, o Options) error {
		if o.Pretty {
			return output.WritePrettyText(w, s, o.Digits)
		}
		return output.WriteText(w, s, o.Digits)
	})
	Register("json", func(w io.Writer, s probpair.Solution, o Options) error {
		return output.WriteJSON(w, s, o.Pretty)
	})
}
