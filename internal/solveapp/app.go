// internal/solveapp/app.go
package solveapp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"sumone/core/newton"
	"sumone/core/probpair"

	"sumone/internal/appshell"
	"sumone/internal/cliutil"
	"sumone/internal/cmdutil"
	"sumone/internal/config"
	"sumone/internal/solvecli"
	"sumone/internal/version"
	"sumone/internal/writers"
)

const name = "sumone"

// loadConfig layers defaults, file, environment and flags, then validates.
// A nil environ reads the process environment.
func loadConfig(opts solvecli.Options, environ map[string]string) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		if err := config.LoadFile(opts.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg, environ); err != nil {
		return cfg, err
	}
	opts.Apply(&cfg)
	return cfg, cfg.Validate()
}

// RunContext is the sumone entry point. The returned value is the process
// exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return runEnv(parent, argv, nil, stdout, stderr)
}

func runEnv(parent context.Context, argv []string, environ map[string]string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	code := run(parent, argv, environ, outw, stdout, stderr)
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if code == appshell.ExitOK {
			return appshell.ExitIO
		}
	}
	return code
}

func run(parent context.Context, argv []string, environ map[string]string, outw *bufio.Writer, stdout, stderr io.Writer) int {
	opts, err := solvecli.ParseArgs(name, argv, outw)
	if err != nil {
		if errors.Is(err, solvecli.ErrHelp) {
			return appshell.ExitOK
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", name)
		return appshell.ExitUsage
	}

	// Version
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return appshell.ExitOK
	}

	logger := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose)

	cfg, err := loadConfig(opts, environ)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appshell.ExitUsage
	}

	r, err := cliutil.ParseTarget(opts.Target)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appshell.ExitUsage
	}
	if r < 0 || r > 1 {
		cmdutil.Warnf(stderr, opts.Quiet, "r=%g is outside [0,1]; no probability pair can match it", r)
	}

	if parent.Err() != nil {
		return appshell.ExitInterrupted
	}

	logger.Debug("solving",
		"r", r,
		"guess_p", cfg.Solver.InitialP,
		"guess_q", cfg.Solver.InitialQ,
		"tolerance", cfg.Solver.Tolerance,
		"max_iterations", cfg.Solver.MaxIterations,
	)
	sol, err := probpair.SolvePair(r, cfg.SolverOptions())

	var ce *newton.ConvergenceError
	switch {
	case errors.As(err, &ce):
		logger.Debug("newton stopped", "iterations", ce.Iterations, "residual", ce.Residual, "x", ce.X)
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appshell.ExitConvergence
	case errors.Is(err, probpair.ErrNoValidSolution):
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return opts.NoSolutionExitCode
	case err != nil:
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	logger.Debug("solved",
		"p", sol.P,
		"q", sol.Q,
		"iterations", sol.Iterations,
		"residual", sol.Residual,
		"cond", sol.Cond,
	)

	// JSON is indented on a terminal; text stays two lines unless asked.
	wo := writers.Options{
		Digits: cfg.Output.Digits,
		Pretty: cfg.Output.Pretty || (cfg.Output.Format == "json" && writers.IsTerminal(stdout)),
	}
	if err := writers.Write(cfg.Output.Format, outw, sol, wo); err != nil {
		if writers.IsBrokenPipe(err) {
			return appshell.ExitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		return appshell.ExitIO
	}
	return appshell.ExitOK
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
