package combat

// DefaultCritDamage is applied when a unit leaves CritDamage unset.
const DefaultCritDamage = 1.5

// Action names a battle log entry kind.
type Action string

const (
	ActionAttack        Action = "attack"
	ActionSkill         Action = "skill"
	ActionBuff          Action = "buff"
	ActionDebuff        Action = "debuff"
	ActionHeal          Action = "heal"
	ActionHoTTick       Action = "hot_tick"
	ActionHoTEnd        Action = "hot_end"
	ActionDeath         Action = "death"
	ActionInvincible    Action = "invincible"
	ActionInvincibleEnd Action = "invincible_end"
	ActionRevive        Action = "revive"
)

// LogEntry is one line of a battle replay. Entries are appended in
// non-decreasing Time order.
type LogEntry struct {
	Time        float64 `json:"time"`
	Actor       string  `json:"actor"`
	Action      Action  `json:"action"`
	Target      string  `json:"target,omitempty"`
	Damage      float64 `json:"damage,omitempty"`
	IsCrit      bool    `json:"isCrit,omitempty"`
	IsMiss      bool    `json:"isMiss,omitempty"`
	RemainingHP float64 `json:"remainingHp"`
	SkillName   string  `json:"skillName,omitempty"`
	HealAmount  float64 `json:"healAmount,omitempty"`
}

// UnitStats is the immutable stat row for one unit.
type UnitStats struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	HP         float64 `json:"hp" yaml:"hp"`
	MaxHP      float64 `json:"maxHp" yaml:"max_hp"`
	Atk        float64 `json:"atk" yaml:"atk"`
	Def        float64 `json:"def" yaml:"def"`
	Speed      float64 `json:"speed" yaml:"speed"`
	CritRate   float64 `json:"critRate" yaml:"crit_rate"`
	CritDamage float64 `json:"critDamage" yaml:"crit_damage"`
	Accuracy   float64 `json:"accuracy" yaml:"accuracy"`
	Evasion    float64 `json:"evasion" yaml:"evasion"`
}

// Normalized fills the documented defaults: MaxHP 0 falls back to HP, HP 0
// or above MaxHP starts full, CritDamage 0 means 1.5 and Accuracy 0 means 1.
// Negative values are left for validation to reject.
func (u UnitStats) Normalized() UnitStats {
	if u.MaxHP == 0 {
		u.MaxHP = u.HP
	}
	if u.HP == 0 || u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	if u.CritDamage == 0 {
		u.CritDamage = DefaultCritDamage
	}
	if u.Accuracy == 0 {
		u.Accuracy = 1
	}
	if u.Name == "" {
		u.Name = u.ID
	}
	return u
}

// AttackInterval is the number of seconds between basic attacks.
func (u UnitStats) AttackInterval() float64 {
	if u.Speed <= 0 {
		return 0
	}
	return 1 / u.Speed
}

// Combatant pairs a unit with the skills it brings into battle.
type Combatant struct {
	Stats  UnitStats
	Skills []Skill
}

// ArmorPenetration reduces the defender's def before mitigation.
type ArmorPenetration struct {
	Flat    float64 `json:"flatPenetration" yaml:"flat_penetration"`
	Percent float64 `json:"percentPenetration" yaml:"percent_penetration"`
}

// DamageFormula shapes the nominal damage before defense applies.
type DamageFormula string

const (
	DamageSimple   DamageFormula = "simple"
	DamageVariance DamageFormula = "variance"
)

// DefenseFormula selects how def mitigates incoming damage.
type DefenseFormula string

const (
	DefenseSubtractive    DefenseFormula = "subtractive"
	DefenseMultiplicative DefenseFormula = "multiplicative"
	DefenseRatio          DefenseFormula = "ratio"
)

// TieBreak orders units of equal speed within a tick.
type TieBreak string

const (
	TieBreakRandom TieBreak = "random"
	TieBreakStable TieBreak = "stable"
)

// TargetingMode picks single targets in team battles.
type TargetingMode string

const (
	TargetRandom     TargetingMode = "random"
	TargetLowestHP   TargetingMode = "lowest_hp"
	TargetHighestAtk TargetingMode = "highest_atk"
	TargetFocused    TargetingMode = "focused"
)

// BattleConfig controls one battle.
type BattleConfig struct {
	MaxDuration      float64           `json:"maxDuration" yaml:"max_duration"`
	TimeStep         float64           `json:"timeStep" yaml:"time_step"`
	DamageFormula    DamageFormula     `json:"damageFormula" yaml:"damage_formula"`
	DefenseFormula   DefenseFormula    `json:"defenseFormula" yaml:"defense_formula"`
	ArmorPenetration *ArmorPenetration `json:"armorPenetration,omitempty" yaml:"armor_penetration"`
	// MinDamage floors every resolved hit before crit.
	MinDamage float64 `json:"minDamage" yaml:"min_damage"`
	// DefenseConstant is K in dmg*K/(K+def).
	DefenseConstant float64  `json:"defenseConstant" yaml:"defense_constant"`
	TieBreak        TieBreak `json:"tieBreak" yaml:"tie_break"`
}

// TeamBattleConfig adds team-only settings.
type TeamBattleConfig struct {
	BattleConfig  `yaml:",inline"`
	TeamSize      int           `json:"teamSize" yaml:"team_size"`
	TargetingMode TargetingMode `json:"targetingMode" yaml:"targeting_mode"`
}

// DefaultBattleConfig returns a 60 second battle at 0.1s resolution.
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		MaxDuration:     60,
		TimeStep:        0.1,
		DamageFormula:   DamageSimple,
		DefenseFormula:  DefenseSubtractive,
		DefenseConstant: 100,
		TieBreak:        TieBreakRandom,
	}
}

func (c BattleConfig) withDefaults() BattleConfig {
	if c.DamageFormula == "" {
		c.DamageFormula = DamageSimple
	}
	if c.DefenseFormula == "" {
		c.DefenseFormula = DefenseSubtractive
	}
	if c.DefenseConstant == 0 {
		c.DefenseConstant = 100
	}
	if c.TieBreak == "" {
		c.TieBreak = TieBreakRandom
	}
	return c
}

func (c TeamBattleConfig) withDefaults() TeamBattleConfig {
	c.BattleConfig = c.BattleConfig.withDefaults()
	if c.TargetingMode == "" {
		c.TargetingMode = TargetLowestHP
	}
	return c
}

// Formula returns the damage resolver described by the config.
func (c BattleConfig) Formula() Formula {
	f := Formula{
		Damage:          c.DamageFormula,
		Defense:         c.DefenseFormula,
		MinDamage:       c.MinDamage,
		DefenseConstant: c.DefenseConstant,
	}
	if c.ArmorPenetration != nil {
		f.Penetration = *c.ArmorPenetration
	}
	return f
}
