package combat

// StatusKind is the type of an active status effect.
type StatusKind string

const (
	StatusHoT        StatusKind = "hot"
	StatusInvincible StatusKind = "invincible"
)

// Status is one active effect on a unit.
type Status struct {
	Kind      StatusKind
	Remaining float64
	// Accum collects elapsed time toward the next HoT tick.
	Accum  float64
	Skill  *Skill
	Source *Entity
	origin *skillState
}

// UnitState is the coarse state-machine view of an Entity.
type UnitState string

const (
	StateAlive              UnitState = "alive"
	StateAliveHoT           UnitState = "alive_hot"
	StateAliveInvincible    UnitState = "alive_invincible"
	StateAliveHoTInvincible UnitState = "alive_hot_invincible"
	StateDead               UnitState = "dead"
	StateDeadPendingRevive  UnitState = "dead_pending_revive"
)

// Entity is the mutable per-battle copy of a unit.
type Entity struct {
	Stats UnitStats
	Side  int
	// Order is the stable position across both sides, used for tie breaks.
	Order int

	HP         float64
	Alive      bool
	HasRevived bool
	// dying is set between HP reaching 0 and the revive check.
	dying bool

	attackTimer float64
	skills      []*skillState
	Statuses    []*Status

	wasHit   bool
	lastCrit bool

	DamageDealt float64
	DamageTaken float64
	Healing     float64
	Hits        int
	Crits       int
	Misses      int
	Kills       int
}

func newEntity(c *Combatant, side, order int) *Entity {
	return &Entity{
		Stats:  c.Stats,
		Side:   side,
		Order:  order,
		HP:     c.Stats.HP,
		Alive:  true,
		skills: instantiate(c.Stats.ID, c.Skills),
	}
}

// HPFraction is current HP over max HP, never negative.
func (e *Entity) HPFraction() float64 {
	if e.Stats.MaxHP <= 0 || e.HP <= 0 {
		return 0
	}
	return e.HP / e.Stats.MaxHP
}

// Invincible reports whether an invincibility window is active.
func (e *Entity) Invincible() bool {
	return e.hasStatus(StatusInvincible)
}

func (e *Entity) hasStatus(kind StatusKind) bool {
	for _, st := range e.Statuses {
		if st.Kind == kind {
			return true
		}
	}
	return false
}

// State reports the unit's state-machine position.
func (e *Entity) State() UnitState {
	if e.dying {
		return StateDeadPendingRevive
	}
	if !e.Alive {
		return StateDead
	}
	hot, inv := e.hasStatus(StatusHoT), e.hasStatus(StatusInvincible)
	switch {
	case hot && inv:
		return StateAliveHoTInvincible
	case hot:
		return StateAliveHoT
	case inv:
		return StateAliveInvincible
	default:
		return StateAlive
	}
}

// applyStatus adds a status or refreshes the one from the same skill.
func (e *Entity) applyStatus(st *Status) {
	for i, cur := range e.Statuses {
		if cur.Kind == st.Kind && cur.Skill == st.Skill {
			e.Statuses[i] = st
			return
		}
	}
	e.Statuses = append(e.Statuses, st)
}

func (e *Entity) tickCooldowns(dt float64) {
	for _, sk := range e.skills {
		sk.Tick(dt)
	}
}

func (e *Entity) heal(amount float64) float64 {
	if amount <= 0 || !e.Alive {
		return 0
	}
	room := e.Stats.MaxHP - e.HP
	if amount > room {
		amount = room
	}
	if amount < 0 {
		amount = 0
	}
	e.HP += amount
	return amount
}
