package combat

// triggerHolds evaluates the condition part of a trigger for owner. The
// chance roll is separate.
func triggerHolds(owner *Entity, t Trigger) bool {
	switch t.Type {
	case TriggerHPBelow:
		return owner.HPFraction() < t.Value
	case TriggerHPAbove:
		return owner.HPFraction() > t.Value
	case TriggerOnHit:
		return owner.wasHit
	case TriggerOnCrit:
		return owner.lastCrit
	default:
		return true
	}
}

func (b *battle) roll(chance float64) bool {
	return b.rng.Float64() < chance
}

// pickSkill returns the first eligible active skill in declaration order.
// Revive skills are reactive and never picked here.
func (b *battle) pickSkill(u *Entity) *skillState {
	for _, sk := range u.skills {
		if sk.IsRevive() || !sk.Ready() {
			continue
		}
		if !triggerHolds(u, sk.Skill.Trigger) || !b.roll(sk.Skill.Trigger.Chance) {
			continue
		}
		return sk
	}
	return nil
}

// tryRevive looks for a ready revive skill on the victim, then on living
// allies in team battles. A unit is revived at most once per battle.
func (b *battle) tryRevive(victim *Entity) bool {
	if victim.HasRevived {
		return false
	}
	casters := []*Entity{victim}
	if b.setup.mode == ModeTeam {
		for _, a := range b.allySide(victim).Units {
			if a != victim && a.Alive {
				casters = append(casters, a)
			}
		}
	}
	for _, c := range casters {
		for _, sk := range c.skills {
			eff, ok := sk.Skill.Effect.(ReviveEffect)
			if !ok || !sk.Ready() {
				continue
			}
			if !triggerHolds(c, sk.Skill.Trigger) || !b.roll(sk.Skill.Trigger.Chance) {
				continue
			}
			sk.Consume()
			victim.HasRevived = true
			victim.HP = eff.HPPercent * victim.Stats.MaxHP
			c.Healing += victim.HP
			sk.tally.Uses++
			sk.tally.Healing += victim.HP
			b.emit(LogEntry{Time: b.now, Actor: c.Stats.Name, Action: ActionRevive, Target: victim.Stats.Name, RemainingHP: victim.HP, SkillName: sk.Skill.label(), HealAmount: victim.HP})
			return true
		}
	}
	return false
}
