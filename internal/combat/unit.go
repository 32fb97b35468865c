package combat

import "sort"

// Unit wraps one participant for the duration of an encounter.
type Unit struct {
	ID        UnitID
	Kind      UnitKind
	Team      Team
	Mode      DecisionMode
	Actor     Actor
	Species   *Species
	Awareness Awareness
	Behavior  *BehaviorState

	BaseThreat       float64
	BaseAggression   float64
	StartingBoldness float64
	Accuracy         float64

	Boldness      float64
	BoldnessDrift float64 // sum of every delta applied since the start
	Threat        float64
	Aggression    float64
	Relationships map[UnitID]float64

	Alive   bool
	Engaged bool
	Fled    bool

	// Back-references, kept symmetric by the roster.
	Allies  []*Unit
	Enemies []*Unit

	// Transient, per turn.
	Dodging      bool
	Blocking     bool
	Bracing      bool
	GivingGround bool
	JustDamaged  bool
	Charging     bool

	LandedHit    bool
	TryingToFlee bool
	DamageDealt  float64
	DamageTaken  float64
	LastAction   ActionKind
}

func NewUnit(id UnitID, kind UnitKind, team Team, actor Actor) *Unit {
	u := &Unit{
		ID:               id,
		Kind:             kind,
		Team:             team,
		Actor:            actor,
		Awareness:        Engaged,
		BaseThreat:       0.5,
		BaseAggression:   0.5,
		StartingBoldness: 0.5,
		Accuracy:         0.75,
		Relationships:    map[UnitID]float64{},
		Alive:            true,
	}
	switch kind {
	case KindPlayer:
		u.Mode = ModeManual
	case KindNPC:
		u.Mode = ModeCompanion
	default:
		u.Mode = ModeBehavior
	}
	u.Boldness = u.StartingBoldness
	return u
}

// NewAnimal builds a unit from a species entry. Stalker species get a
// behavior state machine; pack species are driven by morale alone.
func NewAnimal(id UnitID, team Team, sp Species, actor Actor) *Unit {
	u := NewUnit(id, KindAnimal, team, actor)
	u.Species = &sp
	u.Mode = sp.Mode
	u.BaseThreat = sp.BaseThreat
	u.BaseAggression = sp.BaseAggression
	u.StartingBoldness = sp.StartingBoldness
	u.Boldness = clamp01(sp.StartingBoldness)
	u.Accuracy = sp.Accuracy
	if u.Mode == ModeBehavior {
		u.Behavior = NewBehaviorState(sp.RecoveryTurns)
	}
	return u
}

func (u *Unit) Name() string {
	if u.Actor == nil {
		return string(u.ID)
	}
	return u.Actor.Name()
}

// Active units can act and be targeted.
func (u *Unit) Active() bool {
	return u != nil && u.Alive && !u.Fled
}

func (u *Unit) Vitality() float64 {
	if u.Actor == nil {
		return 0
	}
	return u.Actor.Vitality()
}

func (u *Unit) Capacities() Capacities {
	if u.Actor == nil {
		return Capacities{}
	}
	return u.Actor.Capacities()
}

// Weapon never returns nil: bare hands are a weapon too.
func (u *Unit) Weapon() *Weapon {
	if u.Actor != nil {
		if w := u.Actor.Weapon(); w != nil {
			return w
		}
	}
	return Fists()
}

// AdjustBoldness applies delta and clamps to [0,1]. It returns the change
// that actually landed.
func (u *Unit) AdjustBoldness(delta float64) float64 {
	before := u.Boldness
	u.Boldness = clamp01(u.Boldness + delta)
	applied := u.Boldness - before
	u.BoldnessDrift += applied
	return applied
}

func (u *Unit) Relationship(other UnitID) float64 {
	return u.Relationships[other]
}

// Incapacitation is 0 for a healthy actor and 1 for one that cannot move
// or think.
func (u *Unit) Incapacitation() float64 {
	c := u.Capacities()
	worst := c.Moving
	if c.Consciousness < worst {
		worst = c.Consciousness
	}
	if v := u.Vitality(); v < worst {
		worst = v
	}
	return clamp01(1 - worst)
}

func (u *Unit) clearDefenses() {
	u.Dodging = false
	u.Blocking = false
	u.Bracing = false
	u.GivingGround = false
}

func containsUnit(list []*Unit, id UnitID) bool {
	for _, x := range list {
		if x.ID == id {
			return true
		}
	}
	return false
}

func withoutUnit(list []*Unit, id UnitID) []*Unit {
	out := list[:0]
	for _, x := range list {
		if x.ID != id {
			out = append(out, x)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

func activeIDs(list []*Unit) []UnitID {
	out := make([]UnitID, 0, len(list))
	for _, x := range list {
		if x.Active() {
			out = append(out, x.ID)
		}
	}
	return out
}

// sortedActive returns the active units of list ordered by ID.
func sortedActive(list []*Unit) []*Unit {
	out := make([]*Unit, 0, len(list))
	for _, x := range list {
		if x.Active() {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
