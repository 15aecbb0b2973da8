package combat

// tickStatuses advances u's status effects by dt, firing HoT ticks and
// logging expiry.
func (b *battle) tickStatuses(u *Entity, dt float64) {
	if len(u.Statuses) == 0 {
		return
	}
	active := u.Statuses[:0]
	for _, st := range u.Statuses {
		if !u.Alive {
			active = append(active, st)
			continue
		}
		if st.Kind == StatusHoT {
			eff := st.Skill.Effect.(HoTEffect)
			st.Accum += dt
			for u.Alive && st.Accum+timerEpsilon >= eff.TickInterval {
				st.Accum -= eff.TickInterval
				b.hotTick(u, st, eff)
			}
		}
		st.Remaining -= dt
		if st.Remaining > timerEpsilon {
			active = append(active, st)
			continue
		}
		end := ActionHoTEnd
		if st.Kind == StatusInvincible {
			end = ActionInvincibleEnd
		}
		b.emit(LogEntry{Time: b.now, Actor: u.Stats.Name, Action: end, RemainingHP: u.HP, SkillName: st.Skill.label()})
	}
	u.Statuses = active
}

func (b *battle) hotTick(u *Entity, st *Status, eff HoTEffect) {
	amount := HealValue(u.Stats.MaxHP, eff.Amount, eff.Kind)
	if eff.Harmful {
		b.damage(st.Source, u, amount, false, ActionHoTTick, st.origin)
		return
	}
	got := u.heal(amount)
	src := st.Source
	if src == nil {
		src = u
	}
	src.Healing += got
	if st.origin != nil {
		st.origin.tally.Healing += got
	}
	b.emit(LogEntry{Time: b.now, Actor: src.Stats.Name, Action: ActionHoTTick, Target: u.Stats.Name, RemainingHP: u.HP, SkillName: st.Skill.label(), HealAmount: got})
}
