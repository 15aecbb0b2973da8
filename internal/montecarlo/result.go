package montecarlo

import (
	"combatsim/internal/combat"
	"combatsim/internal/stats"
)

// ConfidenceInterval is a 95% Wilson interval on a win rate.
type ConfidenceInterval = stats.Interval

// HistogramBin is one bucket of a duration or damage distribution.
type HistogramBin = stats.Bin

// RunInfo describes how a Monte Carlo invocation went.
type RunInfo struct {
	ID            string  `json:"id"`
	Seed          uint64  `json:"seed"`
	RequestedRuns int     `json:"requestedRuns"`
	TotalRuns     int     `json:"totalRuns"`
	SkippedRuns   int     `json:"skippedRuns"`
	Cancelled     bool    `json:"cancelled"`
	ElapsedSecs   float64 `json:"elapsedSeconds"`
}

// DurationStats summarises battle lengths over every counted run.
type DurationStats struct {
	Avg       float64        `json:"avg"`
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	Histogram []HistogramBin `json:"histogram"`
}

// TTKStats is time to kill over the runs a unit won. HasWins is false and
// the figures are zero when it never won.
type TTKStats struct {
	HasWins bool    `json:"hasWins"`
	Avg     float64 `json:"avg"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type CritStats struct {
	TotalHits   int     `json:"totalHits"`
	TotalCrits  int     `json:"totalCrits"`
	TotalMisses int     `json:"totalMisses"`
	AvgCritRate float64 `json:"avgCritRate"`
}

type HealingStats struct {
	TotalHealing        float64 `json:"totalHealing"`
	AvgHealingPerBattle float64 `json:"avgHealingPerBattle"`
	HPS                 float64 `json:"hps"`
}

// ReversalStats counts comebacks and close finishes.
type ReversalStats struct {
	Reversals           int     `json:"reversals"`
	CritCausedReversals int     `json:"critCausedReversals"`
	CloseMatches        int     `json:"closeMatches"`
	ReversalRate        float64 `json:"reversalRate"`
	CloseMatchRate      float64 `json:"closeMatchRate"`
}

// SkillStats aggregates one unit's skill.
type SkillStats struct {
	Unit             string           `json:"unit"`
	SkillID          string           `json:"skillId"`
	Name             string           `json:"name"`
	Type             combat.SkillType `json:"type"`
	Uses             int              `json:"uses"`
	AvgUsesPerBattle float64          `json:"avgUsesPerBattle"`
	TotalDamage      float64          `json:"totalDamage"`
	TotalHealing     float64          `json:"totalHealing"`
	AvgDamagePerUse  float64          `json:"avgDamagePerUse"`
}

// UnitSummary aggregates one unit across all counted runs.
type UnitSummary struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Side            int                `json:"side"`
	Wins            int                `json:"wins"`
	WinRate         float64            `json:"winRate"`
	CI              ConfidenceInterval `json:"ci"`
	AvgDamageDealt  float64            `json:"avgDamageDealt"`
	AvgDamageTaken  float64            `json:"avgDamageTaken"`
	AvgRemainingHP  float64            `json:"avgRemainingHp"`
	AvgHealing      float64            `json:"avgHealing"`
	DamageHistogram []HistogramBin     `json:"damageHistogram"`
	TTK             TTKStats           `json:"ttk"`
	AvgDPS          float64            `json:"avgDps"`
	TheoreticalDPS  float64            `json:"theoreticalDps"`
	// EfficiencyLoss is set when AvgDPS falls below 90% of TheoreticalDPS.
	EfficiencyLoss bool      `json:"efficiencyLoss"`
	Crit           CritStats `json:"crit"`
	Revives        int       `json:"revives"`
}

// TeamUnitSummary adds team-battle figures to a UnitSummary.
type TeamUnitSummary struct {
	UnitSummary
	SurvivalRate float64 `json:"survivalRate"`
	AvgKills     float64 `json:"avgKills"`
	MVPCount     int     `json:"mvpCount"`
}

// BattleSample is the full log of one sampled run.
type BattleSample struct {
	Run      int               `json:"run"`
	Winner   int               `json:"winner"`
	Duration float64           `json:"duration"`
	Log      []combat.LogEntry `json:"log"`
}

// SimulationResult is the aggregate of a 1v1 Monte Carlo invocation.
type SimulationResult struct {
	RunInfo

	Unit1Wins    int                `json:"unit1Wins"`
	Unit2Wins    int                `json:"unit2Wins"`
	Draws        int                `json:"draws"`
	Unit1WinRate float64            `json:"unit1WinRate"`
	Unit2WinRate float64            `json:"unit2WinRate"`
	DrawRate     float64            `json:"drawRate"`
	Unit1CI      ConfidenceInterval `json:"unit1Ci"`
	Unit2CI      ConfidenceInterval `json:"unit2Ci"`

	Duration DurationStats `json:"duration"`
	Unit1    UnitSummary   `json:"unit1"`
	Unit2    UnitSummary   `json:"unit2"`

	Skills        []SkillStats   `json:"skills"`
	Healing       HealingStats   `json:"healing"`
	Reversals     ReversalStats  `json:"reversals"`
	SampleBattles []BattleSample `json:"sampleBattles"`
}

// TeamResult is the aggregate of a team Monte Carlo invocation.
type TeamResult struct {
	RunInfo

	Team1Wins    int                `json:"team1Wins"`
	Team2Wins    int                `json:"team2Wins"`
	Draws        int                `json:"draws"`
	Team1WinRate float64            `json:"team1WinRate"`
	Team2WinRate float64            `json:"team2WinRate"`
	DrawRate     float64            `json:"drawRate"`
	Team1CI      ConfidenceInterval `json:"team1Ci"`
	Team2CI      ConfidenceInterval `json:"team2Ci"`

	Duration DurationStats     `json:"duration"`
	Units    []TeamUnitSummary `json:"units"`

	Skills        []SkillStats   `json:"skills"`
	Healing       HealingStats   `json:"healing"`
	Reversals     ReversalStats  `json:"reversals"`
	SampleBattles []BattleSample `json:"sampleBattles"`
}
