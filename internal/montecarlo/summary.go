package montecarlo

import (
	"combatsim/internal/combat"
	"combatsim/internal/stats"
)

// efficiencyFloor is the AvgDPS/TheoreticalDPS ratio below which a unit is
// flagged as losing efficiency.
const efficiencyFloor = 0.9

func durationStats(acc *accumulator) DurationStats {
	return DurationStats{
		Avg:       acc.duration.Mean(),
		Min:       acc.duration.Min,
		Max:       acc.duration.Max,
		Histogram: stats.Histogram(acc.durations, stats.DefaultBins),
	}
}

func unitSummaries(acc *accumulator, setup *combat.Setup) []UnitSummary {
	formula := setup.Config().Formula()
	n := float64(acc.runs)
	var out []UnitSummary
	i := 0
	for side := 1; side <= 2; side++ {
		enemies := setup.Side(3 - side)
		for _, c := range setup.Side(side) {
			ua := acc.units[i]
			i++
			wins := acc.wins[side]

			var theory float64
			for _, e := range enemies {
				theory += formula.TheoreticalDPS(c.Stats, e.Stats)
			}
			theory /= float64(len(enemies))
			avgDPS := stats.Ratio(ua.dps, n)

			u := UnitSummary{
				ID:              c.Stats.ID,
				Name:            c.Stats.Name,
				Side:            side,
				Wins:            wins,
				WinRate:         stats.Ratio(float64(wins), n),
				CI:              stats.Wilson(wins, acc.runs),
				AvgDamageDealt:  stats.Ratio(ua.dealt, n),
				AvgDamageTaken:  stats.Ratio(ua.taken, n),
				AvgRemainingHP:  stats.Ratio(ua.remaining, n),
				AvgHealing:      stats.Ratio(ua.healing, n),
				DamageHistogram: stats.Histogram(ua.damage, stats.DefaultBins),
				AvgDPS:          avgDPS,
				TheoreticalDPS:  theory,
				EfficiencyLoss:  acc.runs > 0 && theory > 0 && avgDPS < efficiencyFloor*theory,
				Crit: CritStats{
					TotalHits:   ua.hits,
					TotalCrits:  ua.crits,
					TotalMisses: ua.misses,
					AvgCritRate: stats.Ratio(float64(ua.crits), float64(ua.hits)),
				},
				Revives: ua.revived,
			}
			if ua.ttk.N > 0 {
				u.TTK = TTKStats{HasWins: true, Avg: ua.ttk.Mean(), Min: ua.ttk.Min, Max: ua.ttk.Max}
			}
			out = append(out, u)
		}
	}
	return out
}

func skillStats(acc *accumulator, setup *combat.Setup) []SkillStats {
	n := float64(acc.runs)
	var out []SkillStats
	i := 0
	for side := 1; side <= 2; side++ {
		for _, c := range setup.Side(side) {
			for _, sk := range c.Skills {
				sa := acc.skills[i]
				i++
				out = append(out, SkillStats{
					Unit:             c.Stats.ID,
					SkillID:          sk.ID,
					Name:             sk.Name,
					Type:             sk.Type(),
					Uses:             sa.uses,
					AvgUsesPerBattle: stats.Ratio(float64(sa.uses), n),
					TotalDamage:      sa.damage,
					TotalHealing:     sa.healing,
					AvgDamagePerUse:  stats.Ratio(sa.damage, float64(sa.uses)),
				})
			}
		}
	}
	return out
}

func healingStats(acc *accumulator) HealingStats {
	var total float64
	for _, ua := range acc.units {
		total += ua.healing
	}
	return HealingStats{
		TotalHealing:        total,
		AvgHealingPerBattle: stats.Ratio(total, float64(acc.runs)),
		HPS:                 stats.Ratio(total, acc.duration.Sum),
	}
}

func reversalStats(acc *accumulator) ReversalStats {
	decided := float64(acc.wins[1] + acc.wins[2])
	return ReversalStats{
		Reversals:           acc.reversals,
		CritCausedReversals: acc.critReversals,
		CloseMatches:        acc.closeMatches,
		ReversalRate:        stats.Ratio(float64(acc.reversals), decided),
		CloseMatchRate:      stats.Ratio(float64(acc.closeMatches), float64(acc.runs)),
	}
}
