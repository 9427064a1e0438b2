// internal/solvecli/options.go
package solvecli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sumone/internal/appshell"
	"sumone/internal/cliutil"
	"sumone/internal/config"
	"sumone/internal/version"
)

// ErrHelp is returned by ParseArgs after help was printed.
var ErrHelp = errors.New("help requested")

// Options holds everything the command line can say.
type Options struct {
	Target     string // r as typed; DefaultTarget when absent
	ConfigFile string

	// Solver
	GuessP  float64
	GuessQ  float64
	Tol     float64
	XTol    float64
	MaxIter int
	MaxCond float64
	Margin  float64

	// Output
	Output             string // text|json
	Pretty             bool
	Digits             int
	NoSolutionExitCode int

	// Misc
	Quiet   bool
	Verbose bool
	Version bool

	set map[string]bool // flags given explicitly
}

// flags that overlay config values when given
var overlayFlags = []string{
	"guess-p", "guess-q", "tol", "xtol", "max-iter", "max-cond", "margin",
	"output", "pretty", "digits",
}

// NewCommand builds the root command. onRun receives positional args after
// flag parsing.
func NewCommand(name string, o *Options, onRun func(cmd *cobra.Command, args []string)) *cobra.Command {
	def := config.Default()
	cmd := &cobra.Command{
		Use:   name + " [flags] [r]",
		Short: "Solve for probabilities p, q in (0,1) given a target r",
		Long: fmt.Sprintf(`%s – probability pair solver
Version: %s

Solves, for p and q strictly inside (0,1),
  r = p·(2r − r²) + (1−p)·(2q − q²)
  q = p·(2q − q²)
with Newton's method from a fixed guess. r defaults to %s and may be
written as 0.5, 1/2 or 50%%. Pass negative r after "--".

Settings come from defaults, then --config FILE (YAML), then %s* environment
variables, then flags.`, name, version.Version, cliutil.DefaultTarget, config.EnvPrefix),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           onRun,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&o.ConfigFile, "config", "", "YAML settings file")

	fs.Float64Var(&o.GuessP, "guess-p", def.Solver.InitialP, "initial guess for p")
	fs.Float64Var(&o.GuessQ, "guess-q", def.Solver.InitialQ, "initial guess for q")
	fs.Float64Var(&o.Tol, "tol", def.Solver.Tolerance, "stop when max|F| ≤ tol")
	fs.Float64Var(&o.XTol, "xtol", def.Solver.StepTolerance, "also require the last Newton step ≤ xtol·(1+max(|p|,|q|))")
	fs.IntVar(&o.MaxIter, "max-iter", def.Solver.MaxIterations, "Newton step budget")
	fs.Float64Var(&o.MaxCond, "max-cond", def.Solver.MaxCondition, "reject roots whose Jacobian condition number exceeds this")
	fs.Float64Var(&o.Margin, "margin", def.Solver.Margin, "keep accepted roots this far inside (0,1); 0 = open interval")

	fs.StringVarP(&o.Output, "output", "o", def.Output.Format, "output: text | json")
	fs.BoolVar(&o.Pretty, "pretty", def.Output.Pretty, "indent JSON (default when stdout is a terminal)")
	fs.IntVar(&o.Digits, "digits", def.Output.Digits, "significant digits in text output")
	fs.IntVar(&o.NoSolutionExitCode, "no-solution-exit-code", appshell.ExitNoSolution, "exit code when no valid solution exists")

	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "suppress warnings")
	fs.BoolVar(&o.Verbose, "verbose", false, "log solver diagnostics to stderr")
	fs.BoolVarP(&o.Version, "version", "v", false, "print version and exit")
	return cmd
}

// ParseArgs parses argv. Help goes to out and yields ErrHelp.
func ParseArgs(name string, argv []string, out io.Writer) (Options, error) {
	var o Options
	ran := false
	cmd := NewCommand(name, &o, func(cmd *cobra.Command, args []string) {
		ran = true
		o.Target = cliutil.DefaultTarget
		if len(args) == 1 {
			o.Target = args[0]
		}
		o.set = make(map[string]bool)
		for _, f := range overlayFlags {
			if cmd.Flags().Changed(f) {
				o.set[f] = true
			}
		}
	})
	if argv == nil {
		argv = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(argv)
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := cmd.Execute(); err != nil {
		return o, err
	}
	if !ran {
		return o, ErrHelp
	}
	if o.NoSolutionExitCode < 0 || o.NoSolutionExitCode > 255 {
		return o, errors.New("--no-solution-exit-code must be between 0 and 255")
	}
	return o, nil
}

// Explicit reports whether flag was given on the command line.
func (o Options) Explicit(flag string) bool { return o.set[flag] }

// Apply overlays explicitly given flags onto cfg.
func (o Options) Apply(cfg *config.Config) {
	if o.Explicit("guess-p") {
		cfg.Solver.InitialP = o.GuessP
	}
	if o.Explicit("guess-q") {
		cfg.Solver.InitialQ = o.GuessQ
	}
	if o.Explicit("tol") {
		cfg.Solver.Tolerance = o.Tol
	}
	if o.Explicit("xtol") {
		cfg.Solver.StepTolerance = o.XTol
	}
	if o.Explicit("max-iter") {
		cfg.Solver.MaxIterations = o.MaxIter
	}
	if o.Explicit("max-cond") {
		cfg.Solver.MaxCondition = o.MaxCond
	}
	if o.Explicit("margin") {
		cfg.Solver.Margin = o.Margin
	}
	if o.Explicit("output") {
		cfg.Output.Format = o.Output
	}
	if o.Explicit("pretty") {
		cfg.Output.Pretty = o.Pretty
	}
	if o.Explicit("digits") {
		cfg.Output.Digits = o.Digits
	}
}
