package combat

// Side is one of the two opposing parties in a battle.
type Side struct {
	Index int
	Units []*Entity
	// Focus is the shared target under TargetFocused.
	Focus *Entity
}

// Living returns the side's living units in stable order.
func (s *Side) Living() []*Entity {
	out := make([]*Entity, 0, len(s.Units))
	for _, u := range s.Units {
		if u.Alive {
			out = append(out, u)
		}
	}
	return out
}

// Eliminated reports whether no unit on the side is alive.
func (s *Side) Eliminated() bool {
	for _, u := range s.Units {
		if u.Alive {
			return false
		}
	}
	return true
}

// HPFraction is the side's pooled current HP over pooled max HP.
func (s *Side) HPFraction() float64 {
	var cur, max float64
	for _, u := range s.Units {
		max += u.Stats.MaxHP
		if u.Alive && u.HP > 0 {
			cur += u.HP
		}
	}
	if max <= 0 {
		return 0
	}
	return cur / max
}

// FocusTarget keeps the side's focus while it lives among enemies and
// otherwise re-designates it by lowest current HP.
func (s *Side) FocusTarget(enemies []*Entity) *Entity {
	if s.Focus != nil && s.Focus.Alive {
		for _, e := range enemies {
			if e == s.Focus {
				return e
			}
		}
	}
	s.Focus = extremal(enemies, func(a, b *Entity) bool { return a.HP < b.HP })
	return s.Focus
}
