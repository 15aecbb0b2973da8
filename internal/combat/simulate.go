package combat

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"slices"
)

// timerEpsilon absorbs float drift when comparing accumulated tick time.
const timerEpsilon = 1e-9

// BattleRecord is the terminal outcome of one battle.
type BattleRecord struct {
	// Winner is 1 or 2, or 0 for a draw.
	Winner   int          `json:"winner"`
	Duration float64      `json:"duration"`
	Units    []UnitRecord `json:"units"`
	// Skills lists every skill of every unit in unit then declaration order.
	Skills []SkillTally `json:"skills,omitempty"`
	// MinHPFraction is each side's lowest pooled HP fraction over the ticks
	// before the deciding one.
	MinHPFraction   [2]float64 `json:"minHpFraction"`
	FinalHPFraction [2]float64 `json:"finalHpFraction"`
	// FinalBlowCrit is set when the killing blow that decided the battle crit.
	FinalBlowCrit bool       `json:"finalBlowCrit"`
	Log           []LogEntry `json:"log,omitempty"`
}

// UnitRecord is one unit's tallies for a battle.
type UnitRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Side        int     `json:"side"`
	DamageDealt float64 `json:"damageDealt"`
	DamageTaken float64 `json:"damageTaken"`
	Healing     float64 `json:"healing"`
	FinalHP     float64 `json:"finalHp"`
	MaxHP       float64 `json:"maxHp"`
	Alive       bool    `json:"alive"`
	Revived     bool    `json:"revived"`
	Hits        int     `json:"hits"`
	Crits       int     `json:"crits"`
	Misses      int     `json:"misses"`
	Kills       int     `json:"kills"`
}

// SkillTally counts one unit's use of one skill in a battle.
type SkillTally struct {
	Unit    string    `json:"unit"`
	SkillID string    `json:"skillId"`
	Name    string    `json:"name"`
	Type    SkillType `json:"type"`
	Uses    int       `json:"uses"`
	Damage  float64   `json:"damage"`
	Healing float64   `json:"healing"`
}

// Skill looks up the tally for one unit's skill.
func (r BattleRecord) Skill(unitID, skillID string) (SkillTally, bool) {
	for _, t := range r.Skills {
		if t.Unit == unitID && t.SkillID == skillID {
			return t, true
		}
	}
	return SkillTally{}, false
}

type battle struct {
	setup   *Setup
	cfg     TeamBattleConfig
	formula Formula
	rng     *rand.Rand
	record  bool

	sides [2]*Side
	units []*Entity
	order []*Entity

	now           float64
	log           []LogEntry
	minHP         [2]float64
	tickMin       [2]float64
	finalBlowCrit bool
}

func newBattle(s *Setup, rng *rand.Rand, record bool) *battle {
	b := &battle{
		setup:   s,
		cfg:     s.cfg,
		formula: s.cfg.Formula(),
		rng:     rng,
		record:  record,
	}
	order := 0
	for i := range s.sides {
		side := &Side{Index: i + 1}
		for j := range s.sides[i] {
			e := newEntity(&s.sides[i][j], i+1, order)
			order++
			side.Units = append(side.Units, e)
			b.units = append(b.units, e)
		}
		b.sides[i] = side
		b.minHP[i] = side.HPFraction()
	}
	if record {
		b.log = make([]LogEntry, 0, 256)
	}
	return b
}

func (b *battle) run() BattleRecord {
	dt := b.cfg.TimeStep
	ticks := int(math.Ceil(b.cfg.MaxDuration/dt - timerEpsilon))
	for tick := 1; tick <= ticks; tick++ {
		b.now = math.Min(float64(tick)*dt, b.cfg.MaxDuration)
		b.tickMin = b.minHP
		for _, u := range b.turnOrder() {
			if !u.Alive {
				continue
			}
			b.act(u, dt)
			if b.decided() {
				return b.finish(false)
			}
		}
		b.minHP = b.tickMin
	}
	return b.finish(true)
}

// turnOrder sorts living units by speed, fastest first.
func (b *battle) turnOrder() []*Entity {
	order := b.order[:0]
	for _, u := range b.units {
		if u.Alive {
			order = append(order, u)
		}
	}
	if b.cfg.TieBreak == TieBreakRandom {
		b.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	slices.SortStableFunc(order, func(x, y *Entity) int { return cmpFloat(y.Stats.Speed, x.Stats.Speed) })
	b.order = order
	return order
}

func (b *battle) decided() bool {
	return b.sides[0].Eliminated() || b.sides[1].Eliminated()
}

func (b *battle) act(u *Entity, dt float64) {
	u.tickCooldowns(dt)
	b.tickStatuses(u, dt)
	if !u.Alive || b.decided() {
		return
	}
	u.attackTimer += dt

	sk := b.pickSkill(u)
	u.wasHit, u.lastCrit = false, false
	if sk != nil {
		b.cast(u, sk)
		return
	}

	interval := u.Stats.AttackInterval()
	if u.attackTimer+timerEpsilon < interval {
		return
	}
	u.attackTimer -= interval
	if u.attackTimer < 0 {
		u.attackTimer = 0
	}
	if t := b.pickTarget(u); t != nil {
		b.strike(u, t, u.Stats.Atk, nil)
	}
}

func (b *battle) allySide(u *Entity) *Side  { return b.sides[u.Side-1] }
func (b *battle) enemySide(u *Entity) *Side { return b.sides[2-u.Side] }

func (b *battle) pickTarget(u *Entity) *Entity {
	enemies := b.enemySide(u).Living()
	if len(enemies) == 0 {
		return nil
	}
	if b.setup.mode == ModeDuel {
		return enemies[0]
	}
	return SelectTarget(b.cfg.TargetingMode, enemies, b.allySide(u), b.rng)
}

func (b *battle) cast(u *Entity, sk *skillState) {
	sk.Consume()
	sk.tally.Uses++
	name := sk.Skill.label()

	switch e := sk.Skill.Effect.(type) {
	case DamageEffect:
		if t := b.pickTarget(u); t != nil {
			b.strike(u, t, NominalDamage(u.Stats.Atk, e), sk)
		}
	case AoEDamageEffect:
		nominal := NominalDamage(u.Stats.Atk, e.DamageEffect)
		for _, t := range SelectAoE(e.Targets, b.enemySide(u).Living(), b.rng) {
			if t.Alive {
				b.strike(u, t, nominal, sk)
			}
		}
	case HealEffect:
		b.heal(u, u, HealValue(u.Stats.MaxHP, e.Amount, e.Kind), sk)
	case AoEHealEffect:
		for _, t := range SelectAoE(e.Targets, b.allySide(u).Living(), b.rng) {
			b.heal(u, t, HealValue(t.Stats.MaxHP, e.Amount, e.Kind), sk)
		}
	case HoTEffect:
		st := &Status{Kind: StatusHoT, Remaining: e.Duration, Skill: sk.Skill, Source: u, origin: sk}
		if !e.Harmful {
			u.applyStatus(st)
			b.emit(LogEntry{Time: b.now, Actor: u.Stats.Name, Action: ActionBuff, Target: u.Stats.Name, RemainingHP: u.HP, SkillName: name})
			return
		}
		t := b.pickTarget(u)
		if t == nil {
			return
		}
		t.applyStatus(st)
		b.emit(LogEntry{Time: b.now, Actor: u.Stats.Name, Action: ActionDebuff, Target: t.Stats.Name, RemainingHP: t.HP, SkillName: name})
	case InvincibleEffect:
		u.applyStatus(&Status{Kind: StatusInvincible, Remaining: e.Duration, Skill: sk.Skill, Source: u, origin: sk})
		b.emit(LogEntry{Time: b.now, Actor: u.Stats.Name, Action: ActionInvincible, Target: u.Stats.Name, RemainingHP: u.HP, SkillName: name})
	}
}

// strike rolls hit and crit and applies one instance of attack or skill
// damage. sk is nil for basic attacks.
func (b *battle) strike(att, tgt *Entity, nominal float64, sk *skillState) {
	action, name := ActionAttack, ""
	if sk != nil {
		action, name = ActionSkill, sk.Skill.label()
	}
	if b.rng.Float64() >= HitChance(att.Stats.Accuracy, tgt.Stats.Evasion) {
		att.Misses++
		b.emit(LogEntry{Time: b.now, Actor: att.Stats.Name, Action: action, Target: tgt.Stats.Name, IsMiss: true, RemainingHP: tgt.HP, SkillName: name})
		return
	}
	crit := b.rng.Float64() < att.Stats.CritRate
	roll := 0.0
	if b.formula.Damage == DamageVariance {
		roll = b.rng.Float64()
	}
	dmg := b.formula.Resolve(nominal, tgt.Stats.Def, att.Stats.CritDamage, crit, roll)
	att.Hits++
	if crit {
		att.Crits++
		att.lastCrit = true
	}
	b.damage(att, tgt, dmg, crit, action, sk)
}

// damage applies resolved damage. Invincible targets take 0 and the hit is
// still logged. sk is the originating skill, nil for basic attacks.
func (b *battle) damage(src, tgt *Entity, dmg float64, crit bool, action Action, sk *skillState) {
	if tgt.Invincible() {
		dmg = 0
	}
	dealt := math.Min(dmg, math.Max(tgt.HP, 0))
	tgt.HP -= dmg
	if tgt.HP < 0 {
		tgt.HP = 0
	}
	tgt.DamageTaken += dealt
	tgt.wasHit = true
	actor := ""
	if src != nil {
		src.DamageDealt += dealt
		actor = src.Stats.Name
	}
	skillName := ""
	if sk != nil {
		sk.tally.Damage += dealt
		skillName = sk.Skill.label()
	}
	b.emit(LogEntry{Time: b.now, Actor: actor, Action: action, Target: tgt.Stats.Name, Damage: dmg, IsCrit: crit, RemainingHP: tgt.HP, SkillName: skillName})
	b.trackHP(tgt.Side)
	if tgt.HP <= 0 {
		b.lethal(tgt, src, crit)
	}
}

func (b *battle) heal(src, tgt *Entity, amount float64, sk *skillState) {
	got := tgt.heal(amount)
	src.Healing += got
	sk.tally.Healing += got
	b.emit(LogEntry{Time: b.now, Actor: src.Stats.Name, Action: ActionHeal, Target: tgt.Stats.Name, RemainingHP: tgt.HP, SkillName: sk.Skill.label(), HealAmount: got})
}

// lethal resolves a unit reaching 0 HP: revive if one is available,
// otherwise death.
func (b *battle) lethal(victim, killer *Entity, crit bool) {
	victim.dying = true
	revived := b.tryRevive(victim)
	victim.dying = false
	if revived {
		return
	}
	victim.Alive = false
	victim.HP = 0
	b.finalBlowCrit = crit
	target := ""
	if killer != nil {
		target = killer.Stats.Name
		if killer.Side != victim.Side {
			killer.Kills++
		}
	}
	b.emit(LogEntry{Time: b.now, Actor: victim.Stats.Name, Action: ActionDeath, Target: target, RemainingHP: 0})
}

// trackHP records dips for the current tick. They count once the tick
// completes without deciding the battle.
func (b *battle) trackHP(side int) {
	if f := b.sides[side-1].HPFraction(); f < b.tickMin[side-1] {
		b.tickMin[side-1] = f
	}
}

func (b *battle) emit(e LogEntry) {
	if b.record {
		b.log = append(b.log, e)
	}
}

func (b *battle) finish(timeout bool) BattleRecord {
	rec := BattleRecord{Duration: b.now, MinHPFraction: b.minHP}
	if timeout {
		rec.Duration = b.cfg.MaxDuration
	}
	out1, out2 := b.sides[0].Eliminated(), b.sides[1].Eliminated()
	switch {
	case out2 && !out1:
		rec.Winner = 1
	case out1 && !out2:
		rec.Winner = 2
	}
	rec.FinalBlowCrit = rec.Winner != 0 && b.finalBlowCrit
	for i, s := range b.sides {
		rec.FinalHPFraction[i] = s.HPFraction()
	}

	rec.Units = make([]UnitRecord, len(b.units))
	for i, u := range b.units {
		rec.Units[i] = UnitRecord{
			ID:          u.Stats.ID,
			Name:        u.Stats.Name,
			Side:        u.Side,
			DamageDealt: u.DamageDealt,
			DamageTaken: u.DamageTaken,
			Healing:     u.Healing,
			FinalHP:     u.HP,
			MaxHP:       u.Stats.MaxHP,
			Alive:       u.Alive,
			Revived:     u.HasRevived,
			Hits:        u.Hits,
			Crits:       u.Crits,
			Misses:      u.Misses,
			Kills:       u.Kills,
		}
	}
	for _, u := range b.units {
		for _, sk := range u.skills {
			rec.Skills = append(rec.Skills, sk.tally)
		}
	}
	if b.record {
		rec.Log, b.log = b.log, nil
	}
	return rec
}

// MarshalPretty renders v as indented JSON.
func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
