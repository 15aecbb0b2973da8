package combat

// SkillType identifies the effect family of a skill.
type SkillType string

const (
	SkillDamage     SkillType = "damage"
	SkillHeal       SkillType = "heal"
	SkillHoT        SkillType = "hot"
	SkillInvincible SkillType = "invincible"
	SkillRevive     SkillType = "revive"
	SkillAoEDamage  SkillType = "aoe_damage"
	SkillAoEHeal    SkillType = "aoe_heal"
)

// TriggerType gates when a skill may fire.
type TriggerType string

const (
	TriggerAlways  TriggerType = "always"
	TriggerHPBelow TriggerType = "hp_below"
	TriggerHPAbove TriggerType = "hp_above"
	TriggerOnHit   TriggerType = "on_hit"
	TriggerOnCrit  TriggerType = "on_crit"
)

// Trigger is the condition plus chance roll evaluated before a cast.
// Value is an HP fraction and only matters for hp_below and hp_above.
type Trigger struct {
	Type   TriggerType
	Chance float64
	Value  float64
}

// DamageKind says whether Amount is flat or a multiple of atk.
type DamageKind string

const (
	DamageFlat       DamageKind = "flat"
	DamageMultiplier DamageKind = "multiplier"
)

// HealKind says whether Amount is flat or a fraction of max HP.
type HealKind string

const (
	HealFlat    HealKind = "flat"
	HealPercent HealKind = "percent"
)

// AoETargetMode picks the subset hit by an area skill.
type AoETargetMode string

const (
	AoEAll       AoETargetMode = "all"
	AoERandom    AoETargetMode = "random"
	AoELowestHP  AoETargetMode = "lowest_hp"
	AoEHighestHP AoETargetMode = "highest_hp"
)

// Effect is the closed set of skill payloads. Each variant carries only the
// fields its skill type uses.
type Effect interface {
	SkillType() SkillType
	effect()
}

type DamageEffect struct {
	Amount float64
	Kind   DamageKind
}

type HealEffect struct {
	Amount float64
	Kind   HealKind
}

// HoTEffect ticks Amount every TickInterval for Duration seconds. A harmful
// HoT lands on an enemy and deals its amount as damage instead of healing.
type HoTEffect struct {
	Duration     float64
	TickInterval float64
	Amount       float64
	Kind         HealKind
	Harmful      bool
}

type InvincibleEffect struct {
	Duration float64
}

// ReviveEffect is reactive: it fires when its owner (or, in team battles, an
// ally) drops to 0 HP.
type ReviveEffect struct {
	HPPercent float64
}

// AoETargeting bounds an area skill. Count 0 means every eligible unit.
type AoETargeting struct {
	Count int
	Mode  AoETargetMode
}

type AoEDamageEffect struct {
	DamageEffect
	Targets AoETargeting
}

type AoEHealEffect struct {
	HealEffect
	Targets AoETargeting
}

func (DamageEffect) SkillType() SkillType     { return SkillDamage }
func (HealEffect) SkillType() SkillType       { return SkillHeal }
func (HoTEffect) SkillType() SkillType        { return SkillHoT }
func (InvincibleEffect) SkillType() SkillType { return SkillInvincible }
func (ReviveEffect) SkillType() SkillType     { return SkillRevive }
func (AoEDamageEffect) SkillType() SkillType  { return SkillAoEDamage }
func (AoEHealEffect) SkillType() SkillType    { return SkillAoEHeal }

func (DamageEffect) effect()     {}
func (HealEffect) effect()       {}
func (HoTEffect) effect()        {}
func (InvincibleEffect) effect() {}
func (ReviveEffect) effect()     {}
func (AoEDamageEffect) effect()  {}
func (AoEHealEffect) effect()    {}

// Skill is an immutable skill definition.
type Skill struct {
	ID       string
	Name     string
	Cooldown float64
	Trigger  Trigger
	Effect   Effect
}

// Type reports the skill's effect family, or "" when Effect is nil.
func (s Skill) Type() SkillType {
	if s.Effect == nil {
		return ""
	}
	return s.Effect.SkillType()
}

func (s Skill) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func (s Skill) normalized() Skill {
	if s.Trigger.Type == "" {
		s.Trigger.Type = TriggerAlways
	}
	if s.Trigger.Chance == 0 {
		s.Trigger.Chance = 1
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	switch e := s.Effect.(type) {
	case DamageEffect:
		if e.Kind == "" {
			e.Kind = DamageFlat
		}
		s.Effect = e
	case HealEffect:
		if e.Kind == "" {
			e.Kind = HealFlat
		}
		s.Effect = e
	case HoTEffect:
		if e.Kind == "" {
			e.Kind = HealFlat
		}
		s.Effect = e
	case AoEDamageEffect:
		if e.Kind == "" {
			e.Kind = DamageFlat
		}
		if e.Targets.Mode == "" {
			e.Targets.Mode = AoEAll
		}
		s.Effect = e
	case AoEHealEffect:
		if e.Kind == "" {
			e.Kind = HealFlat
		}
		if e.Targets.Mode == "" {
			e.Targets.Mode = AoEAll
		}
		s.Effect = e
	}
	return s
}

// skillState is a unit's per-battle handle on one skill.
type skillState struct {
	Skill     *Skill
	Remaining float64
	tally     SkillTally
}

func (ss *skillState) Ready() bool {
	return ss.Remaining <= 0
}

func (ss *skillState) Consume() {
	ss.Remaining = ss.Skill.Cooldown
}

func (ss *skillState) Tick(dt float64) {
	ss.Remaining -= dt
	if ss.Remaining < 1e-9 {
		ss.Remaining = 0
	}
}

func (ss *skillState) IsRevive() bool {
	return ss.Skill.Type() == SkillRevive
}

func instantiate(owner string, skills []Skill) []*skillState {
	out := make([]*skillState, len(skills))
	for i := range skills {
		sk := &skills[i]
		out[i] = &skillState{Skill: sk, tally: SkillTally{Unit: owner, SkillID: sk.ID, Name: sk.label(), Type: sk.Type()}}
	}
	return out
}
