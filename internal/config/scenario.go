package config

import (
	"fmt"

	"combatsim/internal/combat"
)

// Scenario is one simulation request as written in YAML.
type Scenario struct {
	Mode              combat.Mode             `yaml:"mode"`
	Runs              int                     `yaml:"runs"`
	Seed              uint64                  `yaml:"seed"`
	SaveSampleBattles int                     `yaml:"save_sample_battles"`
	Battle            combat.TeamBattleConfig `yaml:"battle"`
	Sides             []SideDef               `yaml:"sides"`
}

type SideDef struct {
	Name  string    `yaml:"name"`
	Units []UnitDef `yaml:"units"`
}

// UnitDef is a unit stat row plus its skill list.
type UnitDef struct {
	combat.UnitStats `yaml:",inline"`
	Skills           []SkillDef `yaml:"skills"`
	Note             string     `yaml:"note"`
}

func (sc *Scenario) check() error {
	switch sc.Mode {
	case combat.ModeDuel, combat.ModeTeam:
	default:
		return fmt.Errorf("%w: mode %q is not one of: duel, team", ErrInvalidScenario, sc.Mode)
	}
	if len(sc.Sides) != 2 {
		return fmt.Errorf("%w: want 2 sides, got %d", ErrInvalidScenario, len(sc.Sides))
	}
	if sc.Mode == combat.ModeDuel {
		for i, s := range sc.Sides {
			if len(s.Units) != 1 {
				return fmt.Errorf("%w: duel side %d has %d units", ErrInvalidScenario, i+1, len(s.Units))
			}
		}
	}
	return nil
}

// Combatants converts side i (1 or 2) into engine combatants.
func (sc *Scenario) Combatants(side int) ([]combat.Combatant, error) {
	def := sc.Sides[side-1]
	out := make([]combat.Combatant, 0, len(def.Units))
	for _, u := range def.Units {
		c := combat.Combatant{Stats: u.UnitStats}
		for _, sd := range u.Skills {
			sk, err := sd.ToSkill()
			if err != nil {
				return nil, fmt.Errorf("side %d unit %q: %w", side, u.ID, err)
			}
			c.Skills = append(c.Skills, sk)
		}
		out = append(out, c)
	}
	return out, nil
}
