package solveapp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sumone/internal/config"
	"sumone/internal/solvecli"
)

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

var noEnv = map[string]string{}

func TestRun_WriteFailure_Exit3(t *testing.T) {
	var errb bytes.Buffer
	code := runEnv(context.Background(), []string{"0.5"}, noEnv, failWriter{errors.New("disk full")}, &errb)
	assert.Equal(t, 3, code)
	assert.Contains(t, errb.String(), "disk full")
}

func TestRun_BrokenPipe_Exit0(t *testing.T) {
	var errb bytes.Buffer
	code := runEnv(context.Background(), []string{"0.5"}, noEnv, failWriter{syscall.EPIPE}, &errb)
	assert.Equal(t, 0, code)
	assert.Empty(t, errb.String())
}

func TestRun_BrokenPipeKeepsFailureCode(t *testing.T) {
	code := runEnv(context.Background(), []string{"0"}, noEnv, failWriter{io.ErrClosedPipe}, io.Discard)
	assert.Equal(t, 1, code)
}

func TestRun_HermeticEnv(t *testing.T) {
	t.Setenv("SUMONE_OUTPUT_FORMAT", "json")
	var out bytes.Buffer
	code := runEnv(context.Background(), nil, noEnv, &out, io.Discard)
	require.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Probability p: ", "an explicit environ hides the process env")
}

func TestLoadConfig_Layers(t *testing.T) {
	opts, err := solvecli.ParseArgs("sumone", []string{"--digits", "8"}, io.Discard)
	require.NoError(t, err)

	cfg, err := loadConfig(opts, map[string]string{
		"SUMONE_OUTPUT_DIGITS":    "5",
		"SUMONE_SOLVER_INITIAL_Q": "0.3",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Output.Digits, "flag beats env")
	assert.Equal(t, 0.3, cfg.Solver.InitialQ, "env beats default")
	assert.Equal(t, config.Default().Solver.InitialP, cfg.Solver.InitialP)
}

func TestLoadConfig_Invalid(t *testing.T) {
	opts, err := solvecli.ParseArgs("sumone", []string{"--margin", "0.7"}, io.Discard)
	require.NoError(t, err)
	_, err = loadConfig(opts, noEnv)
	assert.ErrorContains(t, err, "Margin")
}
