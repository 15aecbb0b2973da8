package combat

import (
	"errors"
	"math"
	"testing"

	"combatsim/internal/util"
)

func unit(id string, hp, atk, def, speed float64) UnitStats {
	return UnitStats{ID: id, HP: hp, MaxHP: hp, Atk: atk, Def: def, Speed: speed, Accuracy: 1}
}

func mustSkill(t *testing.T, rec BattleRecord, unitID, skillID string) SkillTally {
	t.Helper()
	st, ok := rec.Skill(unitID, skillID)
	if !ok {
		t.Fatalf("no tally for %s/%s", unitID, skillID)
	}
	return st
}

func duel(t *testing.T, a, b Combatant, cfg BattleConfig) *Setup {
	t.Helper()
	s, err := NewDuel(a, b, cfg)
	if err != nil {
		t.Fatalf("NewDuel: %v", err)
	}
	return s
}

func TestDuelStrongerUnitWinsInTenSeconds(t *testing.T) {
	s := duel(t,
		Combatant{Stats: unit("a", 1000, 100, 0, 1)},
		Combatant{Stats: unit("b", 1000, 50, 0, 1)},
		DefaultBattleConfig())

	for seed := uint64(1); seed <= 20; seed++ {
		rec := s.Run(util.New(seed, 0), false)
		if rec.Winner != 1 {
			t.Fatalf("seed %d: winner = %d, want 1", seed, rec.Winner)
		}
		if math.Abs(rec.Duration-10) > 1e-6 {
			t.Fatalf("seed %d: duration = %v, want 10", seed, rec.Duration)
		}
		if got := rec.Units[0].DamageDealt; math.Abs(got-1000) > 1e-9 {
			t.Fatalf("seed %d: damage dealt = %v, want 1000", seed, got)
		}
		if rec.Units[0].Kills != 1 || rec.Units[1].Alive {
			t.Fatalf("seed %d: unexpected unit records %+v", seed, rec.Units)
		}
	}
}

func TestTimeoutIsDraw(t *testing.T) {
	cfg := DefaultBattleConfig()
	cfg.MaxDuration = 5
	s := duel(t,
		Combatant{Stats: unit("a", 1000, 10, 0, 1)},
		Combatant{Stats: unit("b", 1000, 10, 0, 1)},
		cfg)
	rec := s.Run(util.New(3, 0), false)
	if rec.Winner != 0 {
		t.Fatalf("winner = %d, want draw", rec.Winner)
	}
	if rec.Duration != 5 {
		t.Fatalf("duration = %v, want 5", rec.Duration)
	}
	if rec.FinalBlowCrit {
		t.Fatalf("draw must not report a final blow")
	}
}

func TestLogIsOrderedAndRecordedOnlyOnRequest(t *testing.T) {
	a := unit("a", 500, 60, 5, 1.3)
	a.CritRate = 0.3
	a.Evasion = 0.1
	b := unit("b", 600, 45, 10, 1.1)
	b.CritRate = 0.2
	s := duel(t, Combatant{Stats: a}, Combatant{Stats: b}, DefaultBattleConfig())

	rec := s.Run(util.New(9, 4), true)
	if len(rec.Log) == 0 {
		t.Fatalf("expected a log")
	}
	for i := 1; i < len(rec.Log); i++ {
		if rec.Log[i].Time < rec.Log[i-1].Time {
			t.Fatalf("log entry %d goes back in time: %v < %v", i, rec.Log[i].Time, rec.Log[i-1].Time)
		}
	}
	for _, e := range rec.Log {
		if e.IsMiss && e.Damage != 0 {
			t.Fatalf("miss with damage: %+v", e)
		}
	}
	if quiet := s.Run(util.New(9, 4), false); quiet.Log != nil {
		t.Fatalf("log recorded without request")
	}
}

func TestSameSeedSameBattle(t *testing.T) {
	a := unit("a", 800, 70, 10, 1.2)
	a.CritRate = 0.25
	b := unit("b", 900, 60, 15, 1.2)
	b.CritRate = 0.25
	b.Evasion = 0.15
	cfg := DefaultBattleConfig()
	cfg.DamageFormula = DamageVariance
	s := duel(t,
		Combatant{Stats: a, Skills: []Skill{{ID: "slash", Cooldown: 3, Effect: DamageEffect{Amount: 1.5, Kind: DamageMultiplier}}}},
		Combatant{Stats: b},
		cfg)

	x := s.Run(util.New(77, 12), true)
	y := s.Run(util.New(77, 12), true)
	if string(MarshalPretty(x)) != string(MarshalPretty(y)) {
		t.Fatalf("same seed produced different battles")
	}
}

func TestReviveHappensOnce(t *testing.T) {
	for _, pct := range []float64{0.3, 1} {
		revive := Skill{ID: "phoenix", Trigger: Trigger{Chance: 1}, Effect: ReviveEffect{HPPercent: pct}}
		s := duel(t,
			Combatant{Stats: unit("a", 100, 1, 0, 1), Skills: []Skill{revive}},
			Combatant{Stats: unit("b", 1000, 50, 0, 1)},
			DefaultBattleConfig())

		rec := s.Run(util.New(5, 0), true)
		if rec.Winner != 2 {
			t.Fatalf("pct %v: winner = %d, want 2", pct, rec.Winner)
		}
		revives, deaths := 0, 0
		for _, e := range rec.Log {
			switch e.Action {
			case ActionRevive:
				revives++
				if want := pct * 100; e.RemainingHP != want {
					t.Fatalf("pct %v: revived at %v hp, want %v", pct, e.RemainingHP, want)
				}
			case ActionDeath:
				deaths++
			}
		}
		if revives != 1 || deaths != 1 {
			t.Fatalf("pct %v: revives=%d deaths=%d, want 1 and 1", pct, revives, deaths)
		}
		if !rec.Units[0].Revived {
			t.Fatalf("pct %v: unit record should be marked revived", pct)
		}
		if mustSkill(t, rec, "a", "phoenix").Uses != 1 {
			t.Fatalf("pct %v: phoenix should be used once", pct)
		}
	}
}

func TestInvincibleBlocksDamage(t *testing.T) {
	shield := Skill{ID: "aegis", Cooldown: 100, Effect: InvincibleEffect{Duration: 100}}
	s := duel(t,
		Combatant{Stats: unit("a", 100, 0, 0, 1), Skills: []Skill{shield}},
		Combatant{Stats: unit("b", 100, 500, 0, 2)},
		BattleConfig{MaxDuration: 10, TimeStep: 0.1})

	rec := s.Run(util.New(2, 0), true)
	if rec.Winner != 0 {
		t.Fatalf("winner = %d, want draw", rec.Winner)
	}
	if rec.Units[0].DamageTaken != 0 || rec.Units[0].FinalHP != 100 {
		t.Fatalf("invincible unit took damage: %+v", rec.Units[0])
	}
	hits := 0
	for _, e := range rec.Log {
		if e.Action == ActionAttack && e.Target == "a" {
			hits++
			if e.Damage != 0 {
				t.Fatalf("hit on invincible target logged %v damage", e.Damage)
			}
		}
	}
	if hits == 0 {
		t.Fatalf("expected zero-damage hits to be logged")
	}
}

func TestHoTTicksAndEnds(t *testing.T) {
	regen := Skill{
		ID:       "regen",
		Cooldown: 100,
		Trigger:  Trigger{Type: TriggerHPBelow, Value: 0.9},
		Effect:   HoTEffect{Duration: 3, TickInterval: 1, Amount: 10},
	}
	s := duel(t,
		Combatant{Stats: UnitStats{ID: "a", HP: 50, MaxHP: 100, Speed: 1}, Skills: []Skill{regen}},
		Combatant{Stats: unit("b", 100, 0, 0, 1)},
		BattleConfig{MaxDuration: 10, TimeStep: 0.1})

	rec := s.Run(util.New(1, 0), true)
	ticks, ends := 0, 0
	for _, e := range rec.Log {
		switch e.Action {
		case ActionHoTTick:
			ticks++
			if e.HealAmount != 10 {
				t.Fatalf("tick healed %v, want 10", e.HealAmount)
			}
		case ActionHoTEnd:
			ends++
		}
	}
	if ticks != 3 || ends != 1 {
		t.Fatalf("ticks=%d ends=%d, want 3 and 1", ticks, ends)
	}
	if rec.Units[0].FinalHP != 80 {
		t.Fatalf("final hp = %v, want 80", rec.Units[0].FinalHP)
	}
	if got := mustSkill(t, rec, "a", "regen").Healing; got != 30 {
		t.Fatalf("regen healing = %v, want 30", got)
	}
}

func TestHarmfulHoTCanKill(t *testing.T) {
	poison := Skill{ID: "poison", Cooldown: 100, Effect: HoTEffect{Duration: 10, TickInterval: 0.5, Amount: 0.25, Kind: HealPercent, Harmful: true}}
	s := duel(t,
		Combatant{Stats: unit("a", 100, 0, 0, 1), Skills: []Skill{poison}},
		Combatant{Stats: unit("b", 100, 0, 0, 1)},
		BattleConfig{MaxDuration: 10, TimeStep: 0.1})

	rec := s.Run(util.New(1, 0), false)
	if rec.Winner != 1 {
		t.Fatalf("winner = %d, want 1", rec.Winner)
	}
	if rec.Units[0].Kills != 1 || rec.Units[0].DamageDealt != 100 {
		t.Fatalf("poisoner record %+v", rec.Units[0])
	}
}

func TestHealSkillTargetsSelf(t *testing.T) {
	mend := Skill{ID: "mend", Cooldown: 2, Trigger: Trigger{Type: TriggerHPBelow, Value: 0.5}, Effect: HealEffect{Amount: 0.2, Kind: HealPercent}}
	s := duel(t,
		Combatant{Stats: unit("a", 200, 10, 0, 1), Skills: []Skill{mend}},
		Combatant{Stats: unit("b", 400, 30, 0, 1)},
		DefaultBattleConfig())

	rec := s.Run(util.New(4, 0), true)
	healed := false
	for _, e := range rec.Log {
		if e.Action == ActionHeal {
			healed = true
			if e.Actor != "a" || e.Target != "a" {
				t.Fatalf("heal entry %+v should be self-targeted", e)
			}
		}
	}
	if !healed {
		t.Fatalf("mend never cast")
	}
	if mend := mustSkill(t, rec, "a", "mend"); rec.Units[0].Healing <= 0 || mend.Uses == 0 || mend.Healing <= 0 {
		t.Fatalf("healing not tallied: %+v %+v", rec.Units[0], mend)
	}
}

func TestMissesNeverDamage(t *testing.T) {
	a := unit("a", 100, 100, 0, 1)
	b := unit("b", 100, 0, 0, 1)
	b.Evasion = 1
	s := duel(t, Combatant{Stats: a}, Combatant{Stats: b}, BattleConfig{MaxDuration: 5, TimeStep: 0.1})

	rec := s.Run(util.New(8, 0), false)
	if rec.Units[0].Misses != 5 || rec.Units[0].Hits != 0 {
		t.Fatalf("hits=%d misses=%d, want 0 and 5", rec.Units[0].Hits, rec.Units[0].Misses)
	}
	if rec.Units[1].DamageTaken != 0 {
		t.Fatalf("evasive unit took %v damage", rec.Units[1].DamageTaken)
	}
}

func TestTeamBattleAoEAndSurvivors(t *testing.T) {
	blast := Skill{ID: "blast", Cooldown: 2, Effect: AoEDamageEffect{DamageEffect: DamageEffect{Amount: 40}}}
	team1 := []Combatant{
		{Stats: unit("mage", 300, 20, 0, 1), Skills: []Skill{blast}},
		{Stats: unit("knight", 500, 30, 10, 1)},
	}
	team2 := []Combatant{
		{Stats: unit("", 200, 10, 0, 1)},
		{Stats: unit("", 200, 10, 0, 1)},
		{Stats: unit("", 200, 10, 0, 1)},
	}
	s, err := NewTeamBattle(team1, team2, TeamBattleConfig{BattleConfig: DefaultBattleConfig()})
	if err != nil {
		t.Fatalf("NewTeamBattle: %v", err)
	}
	if got := s.Side(2)[1].Stats.ID; got != "team2-2" {
		t.Fatalf("generated id = %q", got)
	}

	rec := s.Run(util.New(11, 0), true)
	if rec.Winner != 1 {
		t.Fatalf("winner = %d, want 1", rec.Winner)
	}
	kills := 0
	for _, u := range rec.Units {
		if u.Side == 1 {
			kills += u.Kills
		}
		if u.Side == 2 && u.Alive {
			t.Fatalf("losing unit %s still alive", u.ID)
		}
	}
	if kills != 3 {
		t.Fatalf("side 1 kills = %d, want 3", kills)
	}
	if mustSkill(t, rec, "mage", "blast").Damage <= 0 {
		t.Fatalf("blast dealt no damage")
	}
	if rec.FinalHPFraction[1] != 0 || rec.MinHPFraction[1] <= 0 {
		t.Fatalf("side 2 fractions %v %v", rec.MinHPFraction, rec.FinalHPFraction)
	}
}

func TestAllyRevivesTeammate(t *testing.T) {
	raise := Skill{ID: "raise", Cooldown: 100, Effect: ReviveEffect{HPPercent: 0.5}}
	team1 := []Combatant{
		{Stats: unit("tank", 50, 0, 0, 1)},
		{Stats: unit("priest", 5000, 0, 0, 1), Skills: []Skill{raise}},
	}
	team2 := []Combatant{{Stats: unit("brute", 5000, 60, 0, 1)}}
	cfg := TeamBattleConfig{BattleConfig: BattleConfig{MaxDuration: 3, TimeStep: 0.1}, TargetingMode: TargetLowestHP}
	s, err := NewTeamBattle(team1, team2, cfg)
	if err != nil {
		t.Fatalf("NewTeamBattle: %v", err)
	}
	rec := s.Run(util.New(1, 0), true)
	found := false
	for _, e := range rec.Log {
		if e.Action == ActionRevive {
			found = true
			if e.Actor != "priest" || e.Target != "tank" || e.RemainingHP != 25 {
				t.Fatalf("revive entry %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("priest never revived the tank")
	}
}

func TestSetupRejectsInvalidInput(t *testing.T) {
	_, err := NewDuel(
		Combatant{Stats: UnitStats{ID: "a", Speed: 1}},
		Combatant{Stats: unit("b", 100, 10, 0, 1)},
		BattleConfig{MaxDuration: 10, TimeStep: 0},
	)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Problems) < 2 {
		t.Fatalf("want every problem listed, got %v", err)
	}

	_, err = NewTeamBattle(nil, []Combatant{{Stats: unit("x", 10, 1, 0, 1)}}, TeamBattleConfig{BattleConfig: DefaultBattleConfig()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty team: err = %v", err)
	}
}

func TestSymmetricSkillsTallyPerUnit(t *testing.T) {
	strike := Skill{ID: "strike", Cooldown: 2, Effect: DamageEffect{Amount: 30}}
	s := duel(t,
		Combatant{Stats: unit("a", 300, 10, 0, 1), Skills: []Skill{strike}},
		Combatant{Stats: unit("b", 300, 10, 0, 1), Skills: []Skill{strike}},
		DefaultBattleConfig())

	rec := s.Run(util.New(6, 0), false)
	if len(rec.Skills) != 2 {
		t.Fatalf("got %d tallies, want one per unit", len(rec.Skills))
	}
	for _, st := range rec.Skills {
		if st.Uses == 0 || st.Type != SkillDamage {
			t.Fatalf("tally %+v", st)
		}
	}
}

func TestDipOnDecidingTickIsNotCounted(t *testing.T) {
	// b is faster, so it strikes first in the tick where a kills it.
	s := duel(t,
		Combatant{Stats: unit("a", 100, 100, 0, 1)},
		Combatant{Stats: unit("b", 100, 95, 0, 1.0001)},
		DefaultBattleConfig())
	rec := s.Run(util.New(3, 0), false)
	if rec.Winner != 1 || rec.Duration != 1 {
		t.Fatalf("winner=%d duration=%v", rec.Winner, rec.Duration)
	}
	if math.Abs(rec.FinalHPFraction[0]-0.05) > 1e-9 {
		t.Fatalf("final fraction %v", rec.FinalHPFraction[0])
	}
	if rec.MinHPFraction[0] != 1 {
		t.Fatalf("dip on the deciding tick was recorded: %v", rec.MinHPFraction[0])
	}
}

func TestEntityStates(t *testing.T) {
	raise := Skill{ID: "raise", Effect: ReviveEffect{HPPercent: 0.5}}
	s := duel(t,
		Combatant{Stats: unit("a", 100, 10, 0, 1), Skills: []Skill{raise}},
		Combatant{Stats: unit("b", 100, 10, 0, 1)},
		DefaultBattleConfig())
	b := newBattle(s, util.New(1, 0), false)
	a := b.units[0]
	if a.State() != StateAlive {
		t.Fatalf("fresh unit state %s", a.State())
	}
	a.applyStatus(&Status{Kind: StatusInvincible, Remaining: 1})
	if a.State() != StateAliveInvincible {
		t.Fatalf("invincible state %s", a.State())
	}
	a.applyStatus(&Status{Kind: StatusHoT, Remaining: 1})
	if a.State() != StateAliveHoTInvincible {
		t.Fatalf("hot+invincible state %s", a.State())
	}
	a.Statuses = nil

	a.dying = true
	if a.State() != StateDeadPendingRevive {
		t.Fatalf("pending revive state %s", a.State())
	}
	a.dying = false

	a.HP = 0
	b.lethal(a, b.units[1], false)
	if a.State() != StateAlive || !a.HasRevived || a.HP != 50 {
		t.Fatalf("after revive: state %s hp %v", a.State(), a.HP)
	}
	a.HP = 0
	b.lethal(a, b.units[1], false)
	if a.State() != StateDead {
		t.Fatalf("second death state %s", a.State())
	}
}
