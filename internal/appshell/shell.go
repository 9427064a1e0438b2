package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Process exit codes shared by the tools.
const (
	ExitOK          = 0
	ExitNoSolution  = 1 // default; overridable with --no-solution-exit-code
	ExitUsage       = 2
	ExitIO          = 3
	ExitConvergence = 4
	ExitInterrupted = 130
)

// Main runs an app entry point under a SIGINT/SIGTERM-aware context and exits
// with its code. An interrupted run never exits 0.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == ExitOK {
		code = ExitInterrupted
	}

	stop()
	os.Exit(code)
}
