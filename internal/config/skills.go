package config

import (
	"fmt"

	"combatsim/internal/combat"
)

// SkillDef is the flat record skills are written as. Only the fields of the
// chosen Type are read.
type SkillDef struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Type     combat.SkillType `yaml:"type"`
	Cooldown float64          `yaml:"cooldown"`
	Trigger  TriggerDef       `yaml:"trigger"`

	Damage     float64           `yaml:"damage"`
	DamageType combat.DamageKind `yaml:"damage_type"`

	HealAmount float64         `yaml:"heal_amount"`
	HealType   combat.HealKind `yaml:"heal_type"`

	HoTDuration     float64 `yaml:"hot_duration"`
	HoTTickInterval float64 `yaml:"hot_tick_interval"`
	Harmful         bool    `yaml:"harmful"`

	InvincibleDuration float64 `yaml:"invincible_duration"`
	ReviveHPPercent    float64 `yaml:"revive_hp_percent"`

	AoETargetCount int                  `yaml:"aoe_target_count"`
	AoETargetMode  combat.AoETargetMode `yaml:"aoe_target_mode"`

	Note string `yaml:"note"`
}

type TriggerDef struct {
	Type   combat.TriggerType `yaml:"type"`
	Chance float64            `yaml:"chance"`
	Value  float64            `yaml:"value"`
}

// ToSkill builds the typed engine skill. Range checks happen when the battle
// is set up.
func (d SkillDef) ToSkill() (combat.Skill, error) {
	sk := combat.Skill{
		ID:       d.ID,
		Name:     d.Name,
		Cooldown: d.Cooldown,
		Trigger:  combat.Trigger{Type: d.Trigger.Type, Chance: d.Trigger.Chance, Value: d.Trigger.Value},
	}
	dmg := combat.DamageEffect{Amount: d.Damage, Kind: d.DamageType}
	heal := combat.HealEffect{Amount: d.HealAmount, Kind: d.HealType}
	aoe := combat.AoETargeting{Count: d.AoETargetCount, Mode: d.AoETargetMode}

	switch d.Type {
	case combat.SkillDamage:
		sk.Effect = dmg
	case combat.SkillHeal:
		sk.Effect = heal
	case combat.SkillHoT:
		sk.Effect = combat.HoTEffect{
			Duration:     d.HoTDuration,
			TickInterval: d.HoTTickInterval,
			Amount:       d.HealAmount,
			Kind:         d.HealType,
			Harmful:      d.Harmful,
		}
	case combat.SkillInvincible:
		sk.Effect = combat.InvincibleEffect{Duration: d.InvincibleDuration}
	case combat.SkillRevive:
		sk.Effect = combat.ReviveEffect{HPPercent: d.ReviveHPPercent}
	case combat.SkillAoEDamage:
		sk.Effect = combat.AoEDamageEffect{DamageEffect: dmg, Targets: aoe}
	case combat.SkillAoEHeal:
		sk.Effect = combat.AoEHealEffect{HealEffect: heal, Targets: aoe}
	default:
		return combat.Skill{}, fmt.Errorf("%w: skill %q has unknown type %q", ErrInvalidScenario, d.ID, d.Type)
	}
	return sk, nil
}
