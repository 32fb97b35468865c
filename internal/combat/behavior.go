package combat

import (
	"math"

	"wildfight/internal/util"
)

type Behavior int

const (
	Circling Behavior = iota
	Approaching
	Threatening
	Attacking
	Recovering
	Retreating
	Disengaging
)

var behaviorNames = [...]string{
	"circling", "approaching", "threatening", "attacking", "recovering", "retreating", "disengaging",
}

func (b Behavior) String() string {
	if b < Circling || b > Disengaging {
		return "unknown"
	}
	return behaviorNames[b]
}

// HitMultiplier scales the chance to hit an animal in this state.
// Recovering is the opening after a lunge.
func (b Behavior) HitMultiplier() float64 {
	switch b {
	case Recovering:
		return 1.5
	case Retreating, Disengaging:
		return 1.2
	case Attacking:
		return 1.1
	case Approaching:
		return 1.0
	case Threatening:
		return 0.9
	case Circling:
		return 0.85
	default:
		return 1.0
	}
}

func (b Behavior) CritChance() float64 {
	switch b {
	case Recovering:
		return 0.25
	case Retreating, Disengaging:
		return 0.10
	case Circling, Approaching, Threatening, Attacking:
		return 0.05
	default:
		return 0.05
	}
}

// Fleeing reports whether the animal is trying to get away.
func (b Behavior) Fleeing() bool {
	return b == Retreating || b == Disengaging
}

var availableBehaviors = [...][]Behavior{
	ZoneMelee: {Threatening, Attacking, Recovering, Retreating, Disengaging},
	ZoneClose: {Circling, Approaching, Threatening, Attacking, Recovering, Retreating},
	ZoneMid:   {Circling, Approaching, Threatening, Recovering, Retreating},
	ZoneFar:   {Circling, Approaching, Threatening, Recovering, Retreating},
}

// AvailableBehaviors lists the states an animal may be in at zone z.
func AvailableBehaviors(z Zone) []Behavior {
	if z < ZoneMelee || z > ZoneFar {
		z = ZoneFar
	}
	return append([]Behavior(nil), availableBehaviors[z]...)
}

func BehaviorAvailable(b Behavior, z Zone) bool {
	if z < ZoneMelee || z > ZoneFar {
		z = ZoneFar
	}
	for _, x := range availableBehaviors[z] {
		if x == b {
			return true
		}
	}
	return false
}

type fallbackRule struct {
	from Behavior
	when func(Zone) bool
	to   Behavior
}

// fallbackRules remap a proposed state that the zone does not allow. They
// run after every transition, in order.
var fallbackRules = []fallbackRule{
	{from: Attacking, when: func(z Zone) bool { return z > ZoneClose }, to: Threatening},
	{from: Disengaging, when: func(z Zone) bool { return z != ZoneMelee }, to: Retreating},
	{from: Circling, when: func(z Zone) bool { return z == ZoneMelee }, to: Threatening},
	{from: Approaching, when: func(z Zone) bool { return z == ZoneMelee }, to: Threatening},
}

// ValidateBehavior returns want if the zone allows it, otherwise the
// fallback. The second result reports a remap.
func ValidateBehavior(want Behavior, z Zone) (Behavior, bool) {
	if BehaviorAvailable(want, z) {
		return want, false
	}
	for _, r := range fallbackRules {
		if r.from == want && r.when(z) && BehaviorAvailable(r.to, z) {
			return r.to, true
		}
	}
	// Threatening is legal everywhere.
	return Threatening, true
}

func CirclingMaxTurns(boldness float64) int {
	return maxInt(1, int(math.Floor(3*(1.5-boldness))))
}

func ThreateningMaxTurns(boldness float64) int {
	return maxInt(1, int(math.Floor(2*(1.5-boldness))))
}

// RecoveringTurns rolls how long an animal stays open after attacking.
// roll is expected in [0.8, 1.2).
func RecoveringTurns(base, vitality, roll float64) int {
	return maxInt(1, int(math.Floor(base*(2-vitality)*roll)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// BehaviorState is the per-animal state machine.
type BehaviorState struct {
	Current         Behavior
	TurnsInState    int
	RecoveryBase    float64
	RecoveringTurns int
	WeaknessStreak  int
	vitalityMarks   int
}

func NewBehaviorState(recoveryBase float64) *BehaviorState {
	if recoveryBase <= 0 {
		recoveryBase = DefaultTuning().DefaultRecovery
	}
	return &BehaviorState{Current: Circling, RecoveryBase: recoveryBase}
}

// BehaviorInput is what the animal perceives this turn.
type BehaviorInput struct {
	Zone          Zone
	Vitality      float64
	WeaknessShown bool // the player backed off or is visibly hurt
	HoldingGround bool
	Pressured     bool // the player advanced or struck
}

type BehaviorStep struct {
	From     Behavior
	Wanted   Behavior
	To       Behavior
	Remapped bool
	Cornered bool
	Boldness float64
}

func (s BehaviorStep) Changed() bool { return s.From != s.To }

// Update advances the machine one turn. Boldness lives on the unit and is
// adjusted in place.
func (bs *BehaviorState) Update(u *Unit, in BehaviorInput, t Tuning, rng Rand) BehaviorStep {
	step := BehaviorStep{From: bs.Current}

	bs.applyModifiers(u, in, t, rng)
	bs.TurnsInState++

	want, cornered := bs.propose(u, in, t, rng)
	got, remapped := ValidateBehavior(want, in.Zone)
	step.Wanted, step.To, step.Remapped, step.Cornered = want, got, remapped, cornered

	if got != bs.Current {
		bs.enter(u, got, in.Vitality, rng)
	}
	step.Boldness = u.Boldness
	return step
}

func (bs *BehaviorState) applyModifiers(u *Unit, in BehaviorInput, t Tuning, rng Rand) {
	u.AdjustBoldness(-t.BoldnessDecay)

	// Each vitality threshold bites once, the way a boss phase only fires
	// the first time health crosses it.
	if in.Vitality < 0.7 && bs.vitalityMarks < 1 {
		bs.vitalityMarks = 1
		u.AdjustBoldness(-0.05)
	}
	if in.Vitality < 0.4 && bs.vitalityMarks < 2 {
		bs.vitalityMarks = 2
		u.AdjustBoldness(-0.10)
	}

	if in.WeaknessShown {
		bs.WeaknessStreak++
		u.AdjustBoldness(util.Between(rng, t.WeaknessMin, t.WeaknessMax))
	} else {
		bs.WeaknessStreak = 0
	}
	if in.HoldingGround {
		u.AdjustBoldness(-t.HoldPenalty)
	}
}

func (bs *BehaviorState) propose(u *Unit, in BehaviorInput, t Tuning, rng Rand) (Behavior, bool) {
	b := u.Boldness
	switch bs.Current {
	case Circling:
		if b < 0.25 {
			return Retreating, false
		}
		if in.WeaknessShown && bs.WeaknessStreak >= 2 && b > 0.6 {
			return Threatening, false
		}
		if bs.TurnsInState >= CirclingMaxTurns(b) {
			if b > 0.5 {
				return Threatening, false
			}
			if b < 0.3 {
				return Retreating, false
			}
		}
		return Circling, false

	case Approaching:
		if b < 0.3 {
			return Retreating, false
		}
		if in.Zone <= ZoneMid {
			return Threatening, false
		}
		return Approaching, false

	case Threatening:
		if in.WeaknessShown {
			return Attacking, false
		}
		if (in.HoldingGround || in.Pressured) && in.Zone <= ZoneClose {
			if b < 0.3 {
				return Retreating, false
			}
			if b < 0.45 {
				return Circling, false
			}
		}
		if b > 0.7 && in.Zone <= ZoneClose {
			return Attacking, false
		}
		if bs.TurnsInState >= ThreateningMaxTurns(b) {
			if b > 0.4 {
				return Attacking, false
			}
			return Circling, false
		}
		return Threatening, false

	case Attacking:
		return Recovering, false

	case Recovering:
		if bs.TurnsInState >= bs.RecoveringTurns {
			if b < 0.3 {
				if in.Zone == ZoneMelee {
					return Disengaging, false
				}
				return Retreating, false
			}
			return Circling, false
		}
		return Recovering, false

	case Retreating, Disengaging:
		if in.Pressured && util.Chance(rng, t.CorneredBase+b*t.CorneredCoef) {
			u.AdjustBoldness(util.Between(rng, 0.15, 0.20))
			if in.Zone <= ZoneClose {
				return Attacking, true
			}
			return Threatening, true
		}
		if bs.Current == Retreating && !in.Pressured && b > 0.6 {
			return Approaching, false
		}
		return bs.Current, false

	default:
		return Circling, false
	}
}

func (bs *BehaviorState) enter(u *Unit, next Behavior, vitality float64, rng Rand) {
	bs.Current = next
	bs.TurnsInState = 0
	u.Charging = next == Attacking
	if next == Recovering {
		bs.RecoveringTurns = RecoveringTurns(bs.RecoveryBase, vitality, util.Between(rng, 0.8, 1.2))
	}
}
