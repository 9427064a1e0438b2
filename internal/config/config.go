// internal/config/config.go
//
// Settings are layered: Default() < YAML file < SUMONE_* environment < flags.
// Flags are applied by the CLI layer; this package owns the first three and
// the final validation.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"sumone/core/newton"
	"sumone/core/probpair"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUMONE_"

// Config is the full tool configuration.
type Config struct {
	Solver SolverConfig `yaml:"solver" envPrefix:"SOLVER_"`
	Output OutputConfig `yaml:"output" envPrefix:"OUTPUT_"`
}

// SolverConfig mirrors probpair.Options.
type SolverConfig struct {
	InitialP      float64 `yaml:"initial_p" env:"INITIAL_P" validate:"gt=0,lt=1"`
	InitialQ      float64 `yaml:"initial_q" env:"INITIAL_Q" validate:"gt=0,lt=1"`
	Tolerance     float64 `yaml:"tolerance" env:"TOLERANCE" validate:"gt=0,lt=1"`
	StepTolerance float64 `yaml:"step_tolerance" env:"STEP_TOLERANCE" validate:"gt=0,lt=1"`
	MaxIterations int     `yaml:"max_iterations" env:"MAX_ITERATIONS" validate:"min=1,max=100000"`
	MaxCondition  float64 `yaml:"max_condition" env:"MAX_CONDITION" validate:"gt=1"`
	Margin        float64 `yaml:"margin" env:"MARGIN" validate:"gte=0,lt=0.5"`
}

// OutputConfig controls how a solution is printed.
type OutputConfig struct {
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json"`
	Digits int    `yaml:"digits" env:"DIGITS" validate:"min=1,max=17"`
	Pretty bool   `yaml:"pretty" env:"PRETTY"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			InitialP:      probpair.DefaultGuess.P,
			InitialQ:      probpair.DefaultGuess.Q,
			Tolerance:     newton.DefaultTolerance,
			StepTolerance: newton.DefaultStepTolerance,
			MaxIterations: newton.DefaultMaxIterations,
			MaxCondition:  probpair.DefaultMaxCondition,
		},
		Output: OutputConfig{
			Format: "text",
			Digits: 15,
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. Unknown keys are errors.
func LoadFile(path string, cfg *Config) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() { _ = fh.Close() }()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays SUMONE_* variables onto cfg. A nil environ reads the
// process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s=%v violates %s", fe.Namespace(), fe.Value(), rule))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// SolverOptions converts the solver section for probpair.
func (c Config) SolverOptions() probpair.Options {
	return probpair.Options{
		Guess:         &probpair.Pair{P: c.Solver.InitialP, Q: c.Solver.InitialQ},
		Tolerance:     c.Solver.Tolerance,
		StepTolerance: c.Solver.StepTolerance,
		MaxIterations: c.Solver.MaxIterations,
		MaxCondition:  c.Solver.MaxCondition,
		Margin:        c.Solver.Margin,
	}
}
