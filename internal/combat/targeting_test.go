package combat

import (
	"testing"

	"combatsim/internal/util"
)

func entities(hps ...float64) []*Entity {
	out := make([]*Entity, len(hps))
	for i, hp := range hps {
		out[i] = &Entity{Stats: UnitStats{ID: string(rune('a' + i)), MaxHP: 100, Atk: float64(10 * (i + 1))}, HP: hp, Alive: true, Order: i}
	}
	return out
}

func TestSelectTargetModes(t *testing.T) {
	rng := util.New(1, 0)
	es := entities(50, 20, 20, 90)

	if got := SelectTarget(TargetLowestHP, es, nil, rng); got != es[1] {
		t.Fatalf("lowest_hp picked %s, want b (earliest of tie)", got.Stats.ID)
	}
	if got := SelectTarget(TargetHighestAtk, es, nil, rng); got != es[3] {
		t.Fatalf("highest_atk picked %s, want d", got.Stats.ID)
	}
	seen := map[*Entity]bool{}
	for i := 0; i < 200; i++ {
		seen[SelectTarget(TargetRandom, es, nil, rng)] = true
	}
	if len(seen) != len(es) {
		t.Fatalf("random targeting reached %d of %d units", len(seen), len(es))
	}
	if SelectTarget(TargetLowestHP, nil, nil, rng) != nil {
		t.Fatalf("no enemies should yield nil")
	}
}

func TestFocusedTargetSticksUntilDeath(t *testing.T) {
	rng := util.New(1, 0)
	es := entities(60, 30, 80)
	side := &Side{Index: 1}

	if got := SelectTarget(TargetFocused, es, side, rng); got != es[1] {
		t.Fatalf("initial focus %s, want b", got.Stats.ID)
	}
	es[1].HP = 100
	if got := SelectTarget(TargetFocused, es, side, rng); got != es[1] {
		t.Fatalf("focus moved while target alive")
	}
	es[1].Alive = false
	living := []*Entity{es[0], es[2]}
	if got := SelectTarget(TargetFocused, living, side, rng); got != es[0] {
		t.Fatalf("refocus picked %s, want a", got.Stats.ID)
	}
}

func TestSelectAoE(t *testing.T) {
	rng := util.New(2, 0)
	es := entities(40, 10, 70, 30)

	if got := SelectAoE(AoETargeting{Mode: AoEAll}, es, rng); len(got) != 4 {
		t.Fatalf("all selected %d units", len(got))
	}
	got := SelectAoE(AoETargeting{Count: 2, Mode: AoELowestHP}, es, rng)
	if len(got) != 2 || got[0] != es[1] || got[1] != es[3] {
		t.Fatalf("lowest_hp subset wrong: %v", ids(got))
	}
	got = SelectAoE(AoETargeting{Count: 1, Mode: AoEHighestHP}, es, rng)
	if len(got) != 1 || got[0] != es[2] {
		t.Fatalf("highest_hp subset wrong: %v", ids(got))
	}
	got = SelectAoE(AoETargeting{Count: 3, Mode: AoERandom}, es, rng)
	if len(got) != 3 {
		t.Fatalf("random subset size %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Order <= got[i-1].Order {
			t.Fatalf("subset not in unit order: %v", ids(got))
		}
	}
	if got := SelectAoE(AoETargeting{Count: 9, Mode: AoEAll}, es, rng); len(got) != 4 {
		t.Fatalf("count above pool size selected %d", len(got))
	}
}

func ids(es []*Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Stats.ID
	}
	return out
}
