package montecarlo

import (
	"math"

	"combatsim/internal/combat"
	"combatsim/internal/stats"
)

type unitAgg struct {
	dealt, taken, remaining, healing float64
	dps                              float64
	damage                           []float64
	ttk                              stats.Running
	hits, crits, misses              int
	kills, survived, mvp, revived    int
}

type skillAgg struct {
	uses            int
	damage, healing float64
}

// accumulator folds battle records. Two accumulators over disjoint run
// ranges merge into the one a single pass over both ranges would build, as
// long as they are merged in run order.
type accumulator struct {
	lowHP, closeMatch float64
	sampleCap         int

	runs    int
	skipped int
	// wins[0] counts draws.
	wins      [3]int
	durations []float64
	duration  stats.Running

	units  []unitAgg
	skills []skillAgg

	reversals, critReversals, closeMatches int
	samples                                []BattleSample
}

func newAccumulator(opts Options, units, skills int) *accumulator {
	return &accumulator{
		lowHP:      opts.LowHPThreshold,
		closeMatch: opts.CloseMatchThreshold,
		sampleCap:  opts.SaveSampleBattles,
		units:      make([]unitAgg, units),
		skills:     make([]skillAgg, skills),
	}
}

// add folds the record of run index run.
func (a *accumulator) add(run int, rec combat.BattleRecord) {
	a.runs++
	a.wins[rec.Winner]++
	a.durations = append(a.durations, rec.Duration)
	a.duration.Add(rec.Duration)

	var best [2]int
	best[0], best[1] = -1, -1
	for i, u := range rec.Units {
		ua := &a.units[i]
		ua.dealt += u.DamageDealt
		ua.taken += u.DamageTaken
		ua.remaining += u.FinalHP
		ua.healing += u.Healing
		ua.damage = append(ua.damage, u.DamageDealt)
		if rec.Duration > 0 {
			ua.dps += u.DamageDealt / rec.Duration
		}
		ua.hits += u.Hits
		ua.crits += u.Crits
		ua.misses += u.Misses
		ua.kills += u.Kills
		if u.Alive {
			ua.survived++
		}
		if u.Revived {
			ua.revived++
		}
		if rec.Winner == u.Side {
			ua.ttk.Add(rec.Duration)
		}
		s := u.Side - 1
		if u.DamageDealt > 0 && (best[s] < 0 || u.DamageDealt > rec.Units[best[s]].DamageDealt) {
			best[s] = i
		}
	}
	for _, i := range best {
		if i >= 0 {
			a.units[i].mvp++
		}
	}

	for i, st := range rec.Skills {
		sa := &a.skills[i]
		sa.uses += st.Uses
		sa.damage += st.Damage
		sa.healing += st.Healing
	}

	if w := rec.Winner; w != 0 && rec.MinHPFraction[w-1] <= a.lowHP {
		a.reversals++
		if rec.FinalBlowCrit {
			a.critReversals++
		}
	}
	if math.Abs(rec.FinalHPFraction[0]-rec.FinalHPFraction[1]) <= a.closeMatch {
		a.closeMatches++
	}

	if run < a.sampleCap && rec.Log != nil {
		a.samples = append(a.samples, BattleSample{Run: run, Winner: rec.Winner, Duration: rec.Duration, Log: rec.Log})
	}
}

// merge folds o, which must cover later runs than a, into a.
func (a *accumulator) merge(o *accumulator) {
	a.runs += o.runs
	a.skipped += o.skipped
	for i := range a.wins {
		a.wins[i] += o.wins[i]
	}
	a.durations = append(a.durations, o.durations...)
	a.duration.Merge(o.duration)

	for i := range a.units {
		ua, ub := &a.units[i], &o.units[i]
		ua.dealt += ub.dealt
		ua.taken += ub.taken
		ua.remaining += ub.remaining
		ua.healing += ub.healing
		ua.dps += ub.dps
		ua.damage = append(ua.damage, ub.damage...)
		ua.ttk.Merge(ub.ttk)
		ua.hits += ub.hits
		ua.crits += ub.crits
		ua.misses += ub.misses
		ua.kills += ub.kills
		ua.survived += ub.survived
		ua.mvp += ub.mvp
		ua.revived += ub.revived
	}
	for i := range a.skills {
		a.skills[i].uses += o.skills[i].uses
		a.skills[i].damage += o.skills[i].damage
		a.skills[i].healing += o.skills[i].healing
	}
	a.reversals += o.reversals
	a.critReversals += o.critReversals
	a.closeMatches += o.closeMatches
	a.samples = append(a.samples, o.samples...)
	if len(a.samples) > a.sampleCap {
		a.samples = a.samples[:a.sampleCap]
	}
}
