package combat

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is matched by every construction-time rejection.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists every problem found in a battle setup.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func inUnit(v float64) bool {
	return !badNumber(v) && v >= 0 && v <= 1
}

func validateConfig(c BattleConfig, p *problems) {
	if badNumber(c.TimeStep) || c.TimeStep <= 0 {
		p.addf("timeStep must be > 0")
	}
	if badNumber(c.MaxDuration) || c.MaxDuration <= 0 {
		p.addf("maxDuration must be > 0")
	} else if c.TimeStep > c.MaxDuration {
		p.addf("timeStep must not exceed maxDuration")
	}
	switch c.DamageFormula {
	case DamageSimple, DamageVariance:
	default:
		p.addf("damageFormula %q is not one of: simple, variance", c.DamageFormula)
	}
	switch c.DefenseFormula {
	case DefenseSubtractive, DefenseMultiplicative, DefenseRatio:
	default:
		p.addf("defenseFormula %q is not one of: subtractive, multiplicative, ratio", c.DefenseFormula)
	}
	switch c.TieBreak {
	case TieBreakRandom, TieBreakStable:
	default:
		p.addf("tieBreak %q is not one of: random, stable", c.TieBreak)
	}
	if c.MinDamage < 0 || badNumber(c.MinDamage) {
		p.addf("minDamage must be >= 0")
	}
	if c.DefenseConstant <= 0 || badNumber(c.DefenseConstant) {
		p.addf("defenseConstant must be > 0")
	}
	if ap := c.ArmorPenetration; ap != nil {
		if ap.Flat < 0 || badNumber(ap.Flat) {
			p.addf("armorPenetration.flatPenetration must be >= 0")
		}
		if !inUnit(ap.Percent) {
			p.addf("armorPenetration.percentPenetration must be in [0,1]")
		}
	}
}

func validateUnit(where string, u UnitStats, p *problems) {
	if u.ID == "" {
		p.addf("%s: id is required", where)
	}
	if badNumber(u.MaxHP) || u.MaxHP <= 0 {
		p.addf("%s: maxHp must be > 0", where)
	} else if badNumber(u.HP) || u.HP <= 0 {
		p.addf("%s: hp must be > 0", where)
	}
	if badNumber(u.Atk) || u.Atk < 0 {
		p.addf("%s: atk must be >= 0", where)
	}
	if badNumber(u.Def) || u.Def < 0 {
		p.addf("%s: def must be >= 0", where)
	}
	if badNumber(u.Speed) || u.Speed <= 0 {
		p.addf("%s: speed must be > 0", where)
	}
	if !inUnit(u.CritRate) {
		p.addf("%s: critRate must be in [0,1]", where)
	}
	if badNumber(u.CritDamage) || u.CritDamage < 0 {
		p.addf("%s: critDamage must be >= 0", where)
	}
	if !inUnit(u.Accuracy) {
		p.addf("%s: accuracy must be in [0,1]", where)
	}
	if !inUnit(u.Evasion) {
		p.addf("%s: evasion must be in [0,1]", where)
	}
}

func validateSkill(where string, s Skill, p *problems) {
	where = fmt.Sprintf("%s skill %q", where, s.ID)
	if s.ID == "" {
		p.addf("%s: id is required", where)
	}
	if badNumber(s.Cooldown) || s.Cooldown < 0 {
		p.addf("%s: cooldown must be >= 0", where)
	}
	switch s.Trigger.Type {
	case TriggerAlways, TriggerOnHit, TriggerOnCrit:
	case TriggerHPBelow, TriggerHPAbove:
		if !inUnit(s.Trigger.Value) {
			p.addf("%s: trigger value must be an HP fraction in [0,1]", where)
		}
	default:
		p.addf("%s: trigger type %q is unknown", where, s.Trigger.Type)
	}
	if badNumber(s.Trigger.Chance) || s.Trigger.Chance <= 0 || s.Trigger.Chance > 1 {
		p.addf("%s: trigger chance must be in (0,1]", where)
	}

	switch e := s.Effect.(type) {
	case nil:
		p.addf("%s: effect is required", where)
	case DamageEffect:
		validateDamage(where, e, p)
	case HealEffect:
		validateHeal(where, e, p)
	case HoTEffect:
		if e.Duration <= 0 || badNumber(e.Duration) {
			p.addf("%s: hotDuration must be > 0", where)
		}
		if e.TickInterval <= 0 || badNumber(e.TickInterval) {
			p.addf("%s: hotTickInterval must be > 0", where)
		}
		validateHeal(where, HealEffect{Amount: e.Amount, Kind: e.Kind}, p)
	case InvincibleEffect:
		if e.Duration <= 0 || badNumber(e.Duration) {
			p.addf("%s: invincibleDuration must be > 0", where)
		}
	case ReviveEffect:
		if badNumber(e.HPPercent) || e.HPPercent <= 0 || e.HPPercent > 1 {
			p.addf("%s: reviveHpPercent must be in (0,1]", where)
		}
	case AoEDamageEffect:
		validateDamage(where, e.DamageEffect, p)
		validateAoE(where, e.Targets, p)
	case AoEHealEffect:
		validateHeal(where, e.HealEffect, p)
		validateAoE(where, e.Targets, p)
	}
}

func validateDamage(where string, e DamageEffect, p *problems) {
	if badNumber(e.Amount) || e.Amount < 0 {
		p.addf("%s: damage must be >= 0", where)
	}
	if e.Kind != DamageFlat && e.Kind != DamageMultiplier {
		p.addf("%s: damageType %q is not one of: flat, multiplier", where, e.Kind)
	}
}

func validateHeal(where string, e HealEffect, p *problems) {
	if badNumber(e.Amount) || e.Amount < 0 {
		p.addf("%s: heal amount must be >= 0", where)
	}
	if e.Kind != HealFlat && e.Kind != HealPercent {
		p.addf("%s: heal type %q is not one of: flat, percent", where, e.Kind)
	}
}

func validateAoE(where string, t AoETargeting, p *problems) {
	if t.Count < 0 {
		p.addf("%s: aoeTargetCount must be >= 0", where)
	}
	switch t.Mode {
	case AoEAll, AoERandom, AoELowestHP, AoEHighestHP:
	default:
		p.addf("%s: aoeTargetMode %q is unknown", where, t.Mode)
	}
}
