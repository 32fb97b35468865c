package combat

import "wildfight/internal/util"

type DefenseKind int

const (
	DefDodge DefenseKind = iota
	DefBlock
	DefBrace
	DefGiveGround
)

func (k DefenseKind) String() string {
	switch k {
	case DefDodge:
		return "dodge"
	case DefBlock:
		return "block"
	case DefBrace:
		return "brace"
	case DefGiveGround:
		return "give_ground"
	default:
		return "unknown"
	}
}

// Energy each option costs, paid whether or not it works.
const (
	DodgeCost      = 0.05
	BlockCost      = 0.03
	BraceCost      = 0.04
	GiveGroundCost = 0.02
)

const (
	BraceCounterMultiplier = 1.5
	BraceReduction         = 0.5
	GiveGroundReduction    = 0.5
	BlockWear              = 0.02
)

func (k DefenseKind) Cost() float64 {
	switch k {
	case DefDodge:
		return DodgeCost
	case DefBlock:
		return BlockCost
	case DefBrace:
		return BraceCost
	default:
		return GiveGroundCost
	}
}

type DefenseResult struct {
	Kind            DefenseKind `json:"kind"`
	Available       bool        `json:"available"`
	Success         bool        `json:"success"`
	Chance          float64     `json:"chance"`
	DamageReduction float64     `json:"damage_reduction"`
	ZoneShift       bool        `json:"zone_shift"`
	EnergyCost      float64     `json:"energy_cost"`
	CounterDamage   float64     `json:"counter_damage"`
}

// CanDefend checks the capacity and equipment preconditions of k.
func CanDefend(k DefenseKind, u *Unit) bool {
	if u == nil || u.Actor == nil || !u.Actor.Alive() {
		return false
	}
	c := u.Capacities()
	if u.Actor.Energy() < k.Cost() {
		return false
	}
	switch k {
	case DefDodge:
		return c.Moving >= 0.3
	case DefBlock:
		return c.Manipulation >= 0.3 && u.Weapon().Armed()
	case DefBrace:
		return c.Manipulation >= 0.4 && c.Moving >= 0.2 && u.Weapon().Armed()
	case DefGiveGround:
		return c.Moving >= 0.2
	default:
		return false
	}
}

func relativeSpeed(def, att *Unit) float64 {
	if def.Actor == nil || att.Actor == nil {
		return 0
	}
	ds, as := def.Actor.Speed(), att.Actor.Speed()
	top := ds
	if as > top {
		top = as
	}
	if top <= 0 {
		return 0
	}
	return clamp((ds-as)/top, -1, 1)
}

// DefenseChance is the success probability of k for def against att.
// Brace is not a roll and reports 1 when it can land.
func DefenseChance(k DefenseKind, def, att *Unit) float64 {
	c := def.Capacities()
	switch k {
	case DefDodge:
		return clamp(0.25+0.35*c.Moving+0.25*relativeSpeed(def, att)+0.1*def.Actor.Energy(), 0.05, 0.9)
	case DefBlock:
		strength := 0.0
		if att.Actor != nil {
			strength = clamp(att.Actor.Strength()-def.Actor.Strength(), -1, 1)
		}
		return clamp(0.35+0.3*c.Manipulation+0.25*def.Weapon().Condition-0.1*strength, 0.05, 0.9)
	case DefGiveGround:
		return clamp(0.5+0.3*c.Moving+0.15*relativeSpeed(def, att), 0.05, 0.95)
	case DefBrace:
		if att.Charging {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ResolveDefense rolls one defensive option and charges its energy.
// Brace is delegated to ResolveBrace.
func ResolveDefense(k DefenseKind, def, att *Unit, rng Rand) DefenseResult {
	if k == DefBrace {
		return ResolveBrace(def, att)
	}
	r := DefenseResult{Kind: k}
	if !CanDefend(k, def) {
		return r
	}
	r.Available = true
	r.EnergyCost = k.Cost()
	def.Actor.SpendEnergy(r.EnergyCost)
	r.Chance = DefenseChance(k, def, att)
	r.Success = util.Chance(rng, r.Chance)
	if !r.Success {
		return r
	}
	switch k {
	case DefDodge:
		r.DamageReduction = 1
		r.ZoneShift = true
	case DefBlock:
		r.DamageReduction = 1
		if w := def.Actor.Weapon(); w != nil {
			w.Condition = clamp01(w.Condition - BlockWear)
		}
	case DefGiveGround:
		r.DamageReduction = GiveGroundReduction
		r.ZoneShift = true
	}
	return r
}

// ResolveBrace sets a weapon against an incoming charge. Against an attacker
// that is not charging the brace is wasted but still paid for.
func ResolveBrace(def, att *Unit) DefenseResult {
	r := DefenseResult{Kind: DefBrace}
	if !CanDefend(DefBrace, def) {
		return r
	}
	r.Available = true
	energy := def.Actor.Energy()
	r.EnergyCost = BraceCost
	def.Actor.SpendEnergy(BraceCost)
	if att == nil || !att.Charging {
		return r
	}
	r.Chance = 1
	r.Success = true
	r.DamageReduction = BraceReduction
	r.CounterDamage = def.Weapon().Damage * BraceCounterMultiplier * (0.5 + 0.5*energy) * def.Capacities().Manipulation
	return r
}
