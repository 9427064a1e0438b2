package pretty

import (
	"fmt"
	"strings"

	"sumone/core/probpair"
)

// Options control the ASCII rendering.
type Options struct {
	// Gauge cells between the "0" and "1" ends. If <=1, use default (50).
	Width int

	// Glyphs
	DotGlyph  string // default "."
	MarkGlyph string // default "|"
}

// DefaultOptions is the look used by `--output text --pretty`.
var DefaultOptions = Options{
	Width:     50,
	DotGlyph:  ".",
	MarkGlyph: "|",
}

const linePrefix = "# "

// scale v in [0,1] onto a gauge cell; out-of-range and NaN clamp to the ends
func scalePos(v float64, width int) int {
	if width <= 1 || !(v > 0) {
		return 0
	}
	cell := int(v * float64(width))
	if cell > width-1 {
		cell = width - 1
	}
	return cell
}

func gauge(v float64, opt Options) string {
	cell := scalePos(v, opt.Width)
	return strings.Repeat(opt.DotGlyph, cell) + opt.MarkGlyph + strings.Repeat(opt.DotGlyph, opt.Width-1-cell)
}

// RenderSolutionWithOptions prints a commented diagnostics block: the solve
// summary, then one gauge per probability showing where it sits in (0,1).
func RenderSolutionWithOptions(s probpair.Solution, opt Options) string {
	if opt.Width <= 1 {
		opt.Width = DefaultOptions.Width
	}
	if opt.DotGlyph == "" {
		opt.DotGlyph = DefaultOptions.DotGlyph
	}
	if opt.MarkGlyph == "" {
		opt.MarkGlyph = DefaultOptions.MarkGlyph
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sr=%g guess=(%g, %g) iterations=%d max|F|=%.3g cond=%.3g\n",
		linePrefix, s.R, s.Guess.P, s.Guess.Q, s.Iterations, s.Residual, s.Cond)
	fmt.Fprintf(&b, "%sp 0 %s 1\n", linePrefix, gauge(s.P, opt))
	fmt.Fprintf(&b, "%sq 0 %s 1\n", linePrefix, gauge(s.Q, opt))
	b.WriteString("\n")
	return b.String()
}

// RenderSolution uses DefaultOptions.
func RenderSolution(s probpair.Solution) string {
	return RenderSolutionWithOptions(s, DefaultOptions)
}
