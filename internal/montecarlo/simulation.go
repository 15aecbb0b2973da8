// Package montecarlo runs many independent battles in parallel and folds
// their records into win rates, distributions and breakdowns.
package montecarlo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"combatsim/internal/combat"
	"combatsim/internal/stats"
)

const tracerName = "combatsim/montecarlo"

// RunSimulation plays unit1 against unit2 opts.Runs times. Invalid input is
// rejected before any battle starts with an error matching
// combat.ErrInvalidInput. A cancelled ctx yields the partial aggregate with
// Cancelled set and a nil error.
func RunSimulation(ctx context.Context, unit1, unit2 combat.UnitStats, skills1, skills2 []combat.Skill, opts Options) (*SimulationResult, error) {
	if err := checkRuns(opts.Runs); err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == (combat.BattleConfig{}) {
		cfg = combat.DefaultBattleConfig()
	}
	setup, err := combat.NewDuel(
		combat.Combatant{Stats: unit1, Skills: skills1},
		combat.Combatant{Stats: unit2, Skills: skills2},
		cfg,
	)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "montecarlo.RunSimulation",
		trace.WithAttributes(attribute.Int("runs", opts.Runs), attribute.Int("workers", opts.Workers)))
	defer span.End()

	started := time.Now()
	r, err := newRunner(setup, opts.Runs, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	opts.Logger.Info().Int("runs", opts.Runs).Uint64("seed", r.seed).Int("workers", opts.Workers).Msg("starting duel simulation")
	acc, cancelled := r.execute(ctx)

	res := &SimulationResult{
		RunInfo:       r.info(uuid.NewString(), acc, cancelled, started),
		Unit1Wins:     acc.wins[1],
		Unit2Wins:     acc.wins[2],
		Draws:         acc.wins[0],
		Unit1WinRate:  stats.Ratio(float64(acc.wins[1]), float64(acc.runs)),
		Unit2WinRate:  stats.Ratio(float64(acc.wins[2]), float64(acc.runs)),
		DrawRate:      stats.Ratio(float64(acc.wins[0]), float64(acc.runs)),
		Unit1CI:       stats.Wilson(acc.wins[1], acc.runs),
		Unit2CI:       stats.Wilson(acc.wins[2], acc.runs),
		Duration:      durationStats(acc),
		Skills:        skillStats(acc, setup),
		Healing:       healingStats(acc),
		Reversals:     reversalStats(acc),
		SampleBattles: acc.samples,
	}
	units := unitSummaries(acc, setup)
	res.Unit1, res.Unit2 = units[0], units[1]

	span.SetAttributes(
		attribute.Int("runs.completed", res.TotalRuns),
		attribute.Int("runs.skipped", res.SkippedRuns),
		attribute.Bool("cancelled", res.Cancelled),
		attribute.Float64("unit1.win_rate", res.Unit1WinRate),
	)
	opts.Logger.Info().Str("id", res.ID).Int("completed", res.TotalRuns).Float64("unit1WinRate", res.Unit1WinRate).
		Float64("elapsed", res.ElapsedSecs).Msg("duel simulation finished")
	return res, nil
}

// RunTeamSimulation plays team1 against team2 runs times. opts.Runs and
// opts.Config are ignored.
func RunTeamSimulation(ctx context.Context, team1, team2 []combat.Combatant, runs int, cfg combat.TeamBattleConfig, opts Options) (*TeamResult, error) {
	if err := checkRuns(runs); err != nil {
		return nil, err
	}
	if cfg.BattleConfig == (combat.BattleConfig{}) {
		cfg.BattleConfig = combat.DefaultBattleConfig()
	}
	setup, err := combat.NewTeamBattle(team1, team2, cfg)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	opts.Runs = runs

	ctx, span := otel.Tracer(tracerName).Start(ctx, "montecarlo.RunTeamSimulation",
		trace.WithAttributes(
			attribute.Int("runs", runs),
			attribute.Int("workers", opts.Workers),
			attribute.Int("team1.size", len(team1)),
			attribute.Int("team2.size", len(team2)),
		))
	defer span.End()

	started := time.Now()
	r, err := newRunner(setup, runs, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	opts.Logger.Info().Int("runs", runs).Uint64("seed", r.seed).Int("workers", opts.Workers).Msg("starting team simulation")
	acc, cancelled := r.execute(ctx)

	res := &TeamResult{
		RunInfo:       r.info(uuid.NewString(), acc, cancelled, started),
		Team1Wins:     acc.wins[1],
		Team2Wins:     acc.wins[2],
		Draws:         acc.wins[0],
		Team1WinRate:  stats.Ratio(float64(acc.wins[1]), float64(acc.runs)),
		Team2WinRate:  stats.Ratio(float64(acc.wins[2]), float64(acc.runs)),
		DrawRate:      stats.Ratio(float64(acc.wins[0]), float64(acc.runs)),
		Team1CI:       stats.Wilson(acc.wins[1], acc.runs),
		Team2CI:       stats.Wilson(acc.wins[2], acc.runs),
		Duration:      durationStats(acc),
		Skills:        skillStats(acc, setup),
		Healing:       healingStats(acc),
		Reversals:     reversalStats(acc),
		SampleBattles: acc.samples,
	}
	n := float64(acc.runs)
	for i, u := range unitSummaries(acc, setup) {
		ua := acc.units[i]
		res.Units = append(res.Units, TeamUnitSummary{
			UnitSummary:  u,
			SurvivalRate: stats.Ratio(float64(ua.survived), n),
			AvgKills:     stats.Ratio(float64(ua.kills), n),
			MVPCount:     ua.mvp,
		})
	}

	span.SetAttributes(
		attribute.Int("runs.completed", res.TotalRuns),
		attribute.Int("runs.skipped", res.SkippedRuns),
		attribute.Bool("cancelled", res.Cancelled),
		attribute.Float64("team1.win_rate", res.Team1WinRate),
	)
	opts.Logger.Info().Str("id", res.ID).Int("completed", res.TotalRuns).Float64("team1WinRate", res.Team1WinRate).
		Float64("elapsed", res.ElapsedSecs).Msg("team simulation finished")
	return res, nil
}
