package combat

import (
	"math/rand/v2"
	"slices"
)

// SelectTarget picks one living enemy for an attacker. enemies must be in
// stable unit order; ties keep the earliest unit. side is only consulted by
// TargetFocused.
func SelectTarget(mode TargetingMode, enemies []*Entity, side *Side, rng *rand.Rand) *Entity {
	if len(enemies) == 0 {
		return nil
	}
	switch mode {
	case TargetRandom:
		return enemies[rng.IntN(len(enemies))]
	case TargetHighestAtk:
		return extremal(enemies, func(a, b *Entity) bool { return a.Stats.Atk > b.Stats.Atk })
	case TargetFocused:
		if side == nil {
			return extremal(enemies, func(a, b *Entity) bool { return a.HP < b.HP })
		}
		return side.FocusTarget(enemies)
	default:
		return extremal(enemies, func(a, b *Entity) bool { return a.HP < b.HP })
	}
}

// SelectAoE picks up to count units from pool (0 means all).
func SelectAoE(t AoETargeting, pool []*Entity, rng *rand.Rand) []*Entity {
	n := t.Count
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}
	out := slices.Clone(pool)
	switch t.Mode {
	case AoERandom:
		if n < len(out) {
			rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		}
	case AoELowestHP:
		slices.SortStableFunc(out, func(a, b *Entity) int { return cmpFloat(a.HP, b.HP) })
	case AoEHighestHP:
		slices.SortStableFunc(out, func(a, b *Entity) int { return cmpFloat(b.HP, a.HP) })
	}
	out = out[:n]
	slices.SortFunc(out, func(a, b *Entity) int { return a.Order - b.Order })
	return out
}

// extremal returns the first unit for which no later unit is strictly better.
func extremal(units []*Entity, better func(a, b *Entity) bool) *Entity {
	var best *Entity
	for _, u := range units {
		if best == nil || better(u, best) {
			best = u
		}
	}
	return best
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
