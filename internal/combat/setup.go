package combat

import (
	"fmt"
	"math/rand/v2"
)

// Mode distinguishes 1v1 duels from team battles.
type Mode string

const (
	ModeDuel Mode = "duel"
	ModeTeam Mode = "team"
)

// Setup is a validated, normalised battle definition. It is read-only after
// construction and may be shared by concurrent Run calls.
type Setup struct {
	mode  Mode
	cfg   TeamBattleConfig
	sides [2][]Combatant
}

// NewDuel validates a 1v1 battle.
func NewDuel(a, b Combatant, cfg BattleConfig) (*Setup, error) {
	if a.Stats.ID == "" {
		a.Stats.ID = "unit1"
	}
	if b.Stats.ID == "" {
		b.Stats.ID = "unit2"
	}
	return newSetup(ModeDuel, TeamBattleConfig{BattleConfig: cfg, TeamSize: 1}, [2][]Combatant{{a}, {b}})
}

// NewTeamBattle validates a team battle. TeamSize 0 accepts any team size.
func NewTeamBattle(team1, team2 []Combatant, cfg TeamBattleConfig) (*Setup, error) {
	var sides [2][]Combatant
	for i, team := range [2][]Combatant{team1, team2} {
		sides[i] = make([]Combatant, len(team))
		copy(sides[i], team)
		for j := range sides[i] {
			if sides[i][j].Stats.ID == "" {
				sides[i][j].Stats.ID = fmt.Sprintf("team%d-%d", i+1, j+1)
			}
		}
	}
	return newSetup(ModeTeam, cfg, sides)
}

func newSetup(mode Mode, cfg TeamBattleConfig, sides [2][]Combatant) (*Setup, error) {
	var p problems
	cfg = cfg.withDefaults()
	validateConfig(cfg.BattleConfig, &p)
	if mode == ModeTeam {
		switch cfg.TargetingMode {
		case TargetRandom, TargetLowestHP, TargetHighestAtk, TargetFocused:
		default:
			p.addf("targetingMode %q is not one of: random, lowest_hp, highest_atk, focused", cfg.TargetingMode)
		}
		if cfg.TeamSize < 0 {
			p.addf("teamSize must be >= 0")
		}
	}

	seen := map[string]bool{}
	s := &Setup{mode: mode, cfg: cfg}
	for i, team := range sides {
		if len(team) == 0 {
			p.addf("team %d is empty", i+1)
		}
		if mode == ModeTeam && cfg.TeamSize > 0 && len(team) > cfg.TeamSize {
			p.addf("team %d has %d units, teamSize is %d", i+1, len(team), cfg.TeamSize)
		}
		norm := make([]Combatant, len(team))
		for j, c := range team {
			c.Stats = c.Stats.Normalized()
			where := fmt.Sprintf("team %d unit %q", i+1, c.Stats.ID)
			validateUnit(where, c.Stats, &p)
			if seen[c.Stats.ID] {
				p.addf("%s: duplicate unit id", where)
			}
			seen[c.Stats.ID] = true

			skills := make([]Skill, len(c.Skills))
			skillIDs := map[string]bool{}
			for k, sk := range c.Skills {
				sk = sk.normalized()
				validateSkill(where, sk, &p)
				if skillIDs[sk.ID] {
					p.addf("%s skill %q: duplicate skill id", where, sk.ID)
				}
				skillIDs[sk.ID] = true
				skills[k] = sk
			}
			c.Skills = skills
			norm[j] = c
		}
		s.sides[i] = norm
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Mode reports whether this is a duel or a team battle.
func (s *Setup) Mode() Mode { return s.mode }

// Config returns the normalised configuration.
func (s *Setup) Config() TeamBattleConfig { return s.cfg }

// Side returns a copy of the normalised combatants of side 1 or 2.
func (s *Setup) Side(i int) []Combatant {
	out := make([]Combatant, len(s.sides[i-1]))
	copy(out, s.sides[i-1])
	return out
}

// Run simulates one battle. All randomness is drawn from rng. When record is
// false the returned record has no log.
func (s *Setup) Run(rng *rand.Rand, record bool) BattleRecord {
	return newBattle(s, rng, record).run()
}
