package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"combatsim/internal/combat"
)

const teamScenario = `
mode: team
runs: 500
seed: 7
save_sample_battles: 2
battle:
  max_duration: 90
  defense_formula: multiplicative
  armor_penetration:
    flat_penetration: 5
    percent_penetration: 0.2
  team_size: 2
  targeting_mode: focused
sides:
  - name: heroes
    units:
      - id: knight
        hp: 800
        atk: 60
        def: 20
        speed: 1
        crit_rate: 0.1
        skills:
          - id: cleave
            type: aoe_damage
            cooldown: 4
            damage: 1.5
            damage_type: multiplier
            aoe_target_count: 2
            aoe_target_mode: lowest_hp
      - id: priest
        hp: 500
        atk: 20
        speed: 0.8
        skills:
          - id: raise
            type: revive
            revive_hp_percent: 0.3
          - id: renew
            type: hot
            cooldown: 10
            trigger: {type: hp_below, value: 0.6, chance: 0.5}
            heal_amount: 0.05
            heal_type: percent
            hot_duration: 5
            hot_tick_interval: 1
  - units:
      - {id: ogre, hp: 1500, atk: 80, def: 10, speed: 0.7}
`

func TestParseTeamScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(teamScenario))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if sc.Mode != combat.ModeTeam || sc.Runs != 500 || sc.Seed != 7 || sc.SaveSampleBattles != 2 {
		t.Fatalf("header %+v", sc)
	}
	b := sc.Battle
	if b.MaxDuration != 90 || b.TimeStep != 0.1 || b.DefenseFormula != combat.DefenseMultiplicative || b.DamageFormula != combat.DamageSimple {
		t.Fatalf("battle config did not merge with defaults: %+v", b.BattleConfig)
	}
	if b.ArmorPenetration == nil || b.ArmorPenetration.Flat != 5 || b.TeamSize != 2 || b.TargetingMode != combat.TargetFocused {
		t.Fatalf("team config %+v", b)
	}

	heroes, err := sc.Combatants(1)
	if err != nil {
		t.Fatalf("Combatants: %v", err)
	}
	if len(heroes) != 2 || heroes[0].Stats.CritRate != 0.1 || len(heroes[1].Skills) != 2 {
		t.Fatalf("heroes %+v", heroes)
	}
	cleave, ok := heroes[0].Skills[0].Effect.(combat.AoEDamageEffect)
	if !ok || cleave.Kind != combat.DamageMultiplier || cleave.Targets.Count != 2 {
		t.Fatalf("cleave effect %#v", heroes[0].Skills[0].Effect)
	}
	renew := heroes[1].Skills[1]
	if hot, ok := renew.Effect.(combat.HoTEffect); !ok || hot.TickInterval != 1 || renew.Trigger.Chance != 0.5 {
		t.Fatalf("renew %+v", renew)
	}

	ogre, err := sc.Combatants(2)
	if err != nil {
		t.Fatalf("Combatants: %v", err)
	}
	if _, err := combat.NewTeamBattle(heroes, ogre, sc.Battle); err != nil {
		t.Fatalf("scenario should validate: %v", err)
	}
}

func TestScenarioShapeErrors(t *testing.T) {
	cases := map[string]string{
		"mode":       "mode: brawl\nsides: [{units: [{id: a}]}, {units: [{id: b}]}]",
		"sides":      "sides: [{units: [{id: a}]}]",
		"duel units": "sides: [{units: [{id: a}, {id: c}]}, {units: [{id: b}]}]",
	}
	for name, doc := range cases {
		if _, err := ParseScenario([]byte(doc)); !errors.Is(err, ErrInvalidScenario) {
			t.Fatalf("%s: err = %v, want ErrInvalidScenario", name, err)
		}
	}
}

func TestUnknownSkillType(t *testing.T) {
	_, err := SkillDef{ID: "x", Type: "summon"}.ToSkill()
	if !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.yaml")
	doc := "sides:\n  - units: [{id: a, hp: 100, atk: 10, speed: 1}]\n  - units: [{id: b, hp: 100, atk: 12, speed: 1}]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Mode != combat.ModeDuel || sc.Runs != 1000 || sc.Sides[1].Units[0].Atk != 12 {
		t.Fatalf("scenario %+v", sc)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestParseSettingsEnvThenFlags(t *testing.T) {
	t.Setenv("SIMSVC_WORKERS", "3")
	t.Setenv("SIMSVC_SEED", "99")
	t.Setenv("SIMSVC_LOG_FORMAT", "json")

	fs := flag.NewFlagSet("simsvc", flag.ContinueOnError)
	s, err := ParseSettings(fs, []string{"-seed", "5", "-n", "250", "-config", "x.yaml"})
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.Workers != 3 || s.Seed != 5 || s.Runs != 250 || s.Scenario != "x.yaml" {
		t.Fatalf("settings %+v", s)
	}
	if s.LogFormat != "json" || s.BatchSize != 100 || s.LogLevel != "info" || s.Out != "out.json" {
		t.Fatalf("defaults %+v", s)
	}
}

func TestParseSettingsRejectsBadEnv(t *testing.T) {
	t.Setenv("SIMSVC_WORKERS", "many")
	if _, err := ParseSettings(flag.NewFlagSet("simsvc", flag.ContinueOnError), nil); err == nil {
		t.Fatalf("expected env parse error")
	}
}
