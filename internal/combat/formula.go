package combat

import "math"

// Formula resolves nominal damage into effective damage. It holds no state
// and is safe to share between battles.
type Formula struct {
	Damage          DamageFormula
	Defense         DefenseFormula
	Penetration     ArmorPenetration
	MinDamage       float64
	DefenseConstant float64
}

// EffectiveDefense applies flat then percent penetration, floored at 0.
func (f Formula) EffectiveDefense(def float64) float64 {
	d := def - f.Penetration.Flat
	if d < 0 {
		d = 0
	}
	d *= 1 - clamp01(f.Penetration.Percent)
	return d
}

// Mitigate reduces dmg by def under the configured defense formula.
func (f Formula) Mitigate(dmg, def float64) float64 {
	if dmg <= 0 {
		return 0
	}
	switch f.Defense {
	case DefenseMultiplicative:
		k := f.DefenseConstant
		if k <= 0 {
			k = 100
		}
		return dmg * k / (k + def)
	case DefenseRatio:
		return dmg * dmg / (dmg + def)
	default:
		return dmg - def
	}
}

// Resolve turns a nominal hit into effective damage. roll is a uniform
// [0,1) draw used only by the variance formula.
func (f Formula) Resolve(nominal, def, critDamage float64, crit bool, roll float64) float64 {
	dmg := nominal
	if f.Damage == DamageVariance {
		dmg *= 0.9 + 0.2*roll
	}
	dmg = f.Mitigate(dmg, f.EffectiveDefense(def))
	if dmg < f.MinDamage {
		dmg = f.MinDamage
	}
	if dmg < 0 {
		dmg = 0
	}
	if crit {
		dmg *= critDamage
	}
	return dmg
}

// Multiplier is the expected fraction of atk that survives mitigation
// against def, ignoring crits and misses.
func (f Formula) Multiplier(atk, def float64) float64 {
	if atk <= 0 {
		return 0
	}
	dmg := f.Mitigate(atk, f.EffectiveDefense(def))
	if dmg < f.MinDamage {
		dmg = f.MinDamage
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg / atk
}

// HitChance is clamp(accuracy-evasion, 0, 1).
func HitChance(accuracy, evasion float64) float64 {
	return clamp01(accuracy - evasion)
}

// NominalDamage is the pre-defense value of a damage payload.
func NominalDamage(atk float64, e DamageEffect) float64 {
	if e.Kind == DamageMultiplier {
		return atk * e.Amount
	}
	return e.Amount
}

// HealValue is the raw heal of a payload against a unit with maxHP.
func HealValue(maxHP, amount float64, kind HealKind) float64 {
	if kind == HealPercent {
		return maxHP * amount
	}
	return amount
}

// TheoreticalDPS is the closed-form expected DPS of attacker against
// defender from static stats.
func (f Formula) TheoreticalDPS(attacker, defender UnitStats) float64 {
	interval := attacker.AttackInterval()
	if interval <= 0 {
		return 0
	}
	hit := HitChance(attacker.Accuracy, defender.Evasion)
	critFactor := 1 + clamp01(attacker.CritRate)*(attacker.CritDamage-1)
	return attacker.Atk * f.Multiplier(attacker.Atk, defender.Def) * hit * critFactor / interval
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
