package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level options for the simsvc command. Environment
// variables are read first and flags override them.
type Settings struct {
	Scenario     string `env:"SIMSVC_SCENARIO"      envDefault:"assets/duel.yaml"`
	Out          string `env:"SIMSVC_OUT"           envDefault:"out.json"`
	Seed         uint64 `env:"SIMSVC_SEED"`
	Runs         int    `env:"SIMSVC_RUNS"`
	Replay       bool   `env:"SIMSVC_REPLAY"`
	Workers      int    `env:"SIMSVC_WORKERS"`
	BatchSize    int    `env:"SIMSVC_BATCH_SIZE"    envDefault:"100"`
	LogLevel     string `env:"SIMSVC_LOG_LEVEL"     envDefault:"info"`
	LogFormat    string `env:"SIMSVC_LOG_FORMAT"    envDefault:"console"`
	OTelEndpoint string `env:"SIMSVC_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseSettings reads the environment, then flags from args.
func ParseSettings(fs *flag.FlagSet, args []string) (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	fs.StringVar(&s.Scenario, "config", s.Scenario, "scenario yaml file")
	fs.StringVar(&s.Out, "out", s.Out, "output file (replay log or aggregate result)")
	fs.Uint64Var(&s.Seed, "seed", s.Seed, "base seed, 0 for random (overrides the scenario)")
	fs.IntVar(&s.Runs, "n", s.Runs, "number of simulations, 0 uses the scenario")
	fs.BoolVar(&s.Replay, "log", s.Replay, "run a single battle and save its full event log")
	fs.IntVar(&s.Workers, "workers", s.Workers, "worker goroutines, 0 for GOMAXPROCS")
	fs.IntVar(&s.BatchSize, "batch", s.BatchSize, "battles per progress batch")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Exitf prints a formatted error and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
