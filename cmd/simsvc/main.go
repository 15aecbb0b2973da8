package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"combatsim/internal/combat"
	"combatsim/internal/config"
	"combatsim/internal/montecarlo"
	"combatsim/internal/telemetry"
	"combatsim/internal/util"
)

func main() {
	s, err := config.ParseSettings(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func run(ctx context.Context, s config.Settings, out, errOut io.Writer) error {
	log, err := telemetry.NewLogger(errOut, s.LogLevel, s.LogFormat)
	if err != nil {
		return err
	}
	shutdown, err := telemetry.Setup(ctx, "simsvc", s.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	sc, err := config.LoadScenario(s.Scenario)
	if err != nil {
		return err
	}
	team1, err := sc.Combatants(1)
	if err != nil {
		return err
	}
	team2, err := sc.Combatants(2)
	if err != nil {
		return err
	}
	seed := sc.Seed
	if s.Seed != 0 {
		seed = s.Seed
	}
	runs := sc.Runs
	if s.Runs > 0 {
		runs = s.Runs
	}

	if s.Replay {
		return replay(sc, team1, team2, seed, s.Out, out)
	}

	opts := montecarlo.Options{
		Runs:              runs,
		Config:            sc.Battle.BattleConfig,
		SaveSampleBattles: sc.SaveSampleBattles,
		Seed:              seed,
		Workers:           s.Workers,
		BatchSize:         s.BatchSize,
		Logger:            &log,
		OnProgress:        progressLogger(log),
	}

	var result any
	var summary string
	switch sc.Mode {
	case combat.ModeTeam:
		res, err := montecarlo.RunTeamSimulation(ctx, team1, team2, runs, sc.Battle, opts)
		if err != nil {
			return err
		}
		result = res
		summary = fmt.Sprintf("team1 %.1f%% team2 %.1f%% draws %.1f%%, avg T=%.2fs",
			100*res.Team1WinRate, 100*res.Team2WinRate, 100*res.DrawRate, res.Duration.Avg)
	default:
		res, err := montecarlo.RunSimulation(ctx, team1[0].Stats, team2[0].Stats, team1[0].Skills, team2[0].Skills, opts)
		if err != nil {
			return err
		}
		result = res
		summary = fmt.Sprintf("%s %.1f%% [%.3f, %.3f] vs %s %.1f%%, draws %.1f%%, avg T=%.2fs",
			res.Unit1.Name, 100*res.Unit1WinRate, res.Unit1CI.Lower, res.Unit1CI.Upper,
			res.Unit2.Name, 100*res.Unit2WinRate, 100*res.DrawRate, res.Duration.Avg)
	}

	if err := os.WriteFile(s.Out, combat.MarshalPretty(result), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Fprintf(out, "Batch %d done: %s -> %s\n", runs, summary, filepath.Base(s.Out))
	return nil
}

// replay runs one battle with the full event log.
func replay(sc *config.Scenario, team1, team2 []combat.Combatant, seed uint64, path string, out io.Writer) error {
	var setup *combat.Setup
	var err error
	if sc.Mode == combat.ModeTeam {
		setup, err = combat.NewTeamBattle(team1, team2, sc.Battle)
	} else {
		setup, err = combat.NewDuel(team1[0], team2[0], sc.Battle.BattleConfig)
	}
	if err != nil {
		return err
	}
	if seed == 0 {
		if seed, err = util.NewSeed(); err != nil {
			return err
		}
	}

	rec := setup.Run(util.New(seed, 0), true)
	if err := os.WriteFile(path, combat.MarshalPretty(rec), 0o644); err != nil {
		return fmt.Errorf("write replay: %w", err)
	}
	fmt.Fprintf(out, "Single simsvc finished (%s). Winner=%d, T=%.2fs, events=%d, seed=%d -> %s\n",
		setup.Mode(), rec.Winner, rec.Duration, len(rec.Log), seed, path)
	return nil
}

func progressLogger(log zerolog.Logger) func(float64) {
	next := 10.0
	return func(p float64) {
		if p < next && p < 100 {
			return
		}
		for next <= p {
			next += 10
		}
		log.Info().Float64("percent", p).Msg("progress")
	}
}

func init() {
	flag.CommandLine.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: simsvc -config scenario.yaml [-n runs] [-seed n] [-log] [-out file]\n")
		flag.PrintDefaults()
	}
}
