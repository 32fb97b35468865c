package combat

import (
	"fmt"

	"wildfight/internal/util"
)

// Action is what the player chose for this turn.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target UnitID     `json:"target,omitempty"`
}

func (a Action) String() string {
	if a.Target != "" {
		return fmt.Sprintf("%s->%s", a.Kind, a.Target)
	}
	return a.Kind.String()
}

func Attack(target UnitID) Action     { return Action{Kind: ActAttack, Target: target} }
func Throw(target UnitID) Action      { return Action{Kind: ActThrow, Target: target} }
func Shove(target UnitID) Action      { return Action{Kind: ActShove, Target: target} }
func Intimidate(target UnitID) Action { return Action{Kind: ActThreaten, Target: target} }
func Advance(target UnitID) Action    { return Action{Kind: ActApproach, Target: target} }
func Dodge() Action                   { return Action{Kind: ActDodge} }
func Block() Action                   { return Action{Kind: ActBlock} }
func Brace() Action                   { return Action{Kind: ActBrace} }
func GiveGround() Action              { return Action{Kind: ActGiveGround} }
func HoldGround() Action              { return Action{Kind: ActHoldGround} }
func Retreat() Action                 { return Action{Kind: ActRetreat} }
func Disengage() Action               { return Action{Kind: ActDisengage} }
func Distract() Action                { return Action{Kind: ActDistract} }
func Wait() Action                    { return Action{Kind: ActHold} }

const (
	FoodItem = "food"
	RockItem = "rock"
)

var defenseOf = map[ActionKind]DefenseKind{
	ActDodge:      DefDodge,
	ActBlock:      DefBlock,
	ActBrace:      DefBrace,
	ActGiveGround: DefGiveGround,
}

// validate rejects bad player input before the turn starts, so a rejected
// action never half-applies.
func (e *Encounter) validate(act Action) error {
	p := e.player
	switch act.Kind {
	case ActAttack, ActThrow, ActShove, ActThreaten:
		if act.Target == "" {
			return fmt.Errorf("%w: %s", ErrNoTarget, act.Kind)
		}
		if err := e.validTarget(act.Target); err != nil {
			return err
		}
		if act.Kind == ActThrow && throwable(p) == nil {
			return fmt.Errorf("%w: nothing to throw", ErrActionUnavailable)
		}
	case ActApproach:
		if act.Target != "" {
			return e.validTarget(act.Target)
		}
	case ActDodge, ActBlock, ActBrace, ActGiveGround:
		if !CanDefend(defenseOf[act.Kind], p) {
			return fmt.Errorf("%w: cannot %s", ErrActionUnavailable, act.Kind)
		}
	case ActDistract:
		if !p.Actor.HasItem(FoodItem) {
			return fmt.Errorf("%w: no %s to throw down", ErrActionUnavailable, FoodItem)
		}
	case ActNone, ActHold, ActHoldGround, ActRetreat, ActDisengage:
	default:
		return fmt.Errorf("%w: %s is not a player action", ErrActionUnavailable, act.Kind)
	}
	return nil
}

func (e *Encounter) validTarget(id UnitID) error {
	t, ok := e.byID[id]
	if !ok || !t.Active() {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if t.Team == e.player.Team {
		return fmt.Errorf("%w: %s is not an enemy", ErrActionUnavailable, id)
	}
	return nil
}

func (e *Encounter) playerAct(act Action) {
	p := e.player
	switch act.Kind {
	case ActApproach, ActRetreat:
		target := act.Target
		if target == "" {
			n, _, ok := e.NearestEnemy(p.ID)
			if !ok {
				return
			}
			target = n.ID
		}
		e.dispatch(p, Decision{Kind: act.Kind, Target: target})
	case ActHoldGround:
		e.logLine("player", string(p.ID), "%s", e.narr.HoldGround(p))
		e.dispatch(p, Decision{Kind: act.Kind})
	default:
		e.dispatch(p, Decision{Kind: act.Kind, Target: act.Target})
	}
}

// throwable is what u would throw: a thrown-class weapon first, then a rock.
func throwable(u *Unit) *Weapon {
	if w := u.Weapon(); w.Class == WeaponThrown {
		return w
	}
	if u.Actor != nil && u.Actor.HasItem(RockItem) {
		return &Weapon{ID: RockItem, Name: RockItem, Class: WeaponThrown, Damage: RockDamage, Condition: 1, DamageType: DamageBlunt}
	}
	return nil
}

func (e *Encounter) throw(u, t *Unit) {
	w := throwable(u)
	if w == nil {
		return
	}
	if w.ID == RockItem {
		u.Actor.TakeItem(RockItem)
	}
	e.attack(u, t, w, true)
}

// ShoveChance is the chance u pushes t out of melee.
func ShoveChance(u, t *Unit) float64 {
	diff := 0.0
	if u.Actor != nil && t.Actor != nil {
		diff = u.Actor.Strength() - t.Actor.Strength()
	}
	return clamp(0.4+0.3*diff+0.1*u.Capacities().Moving, 0.1, 0.85)
}

func (e *Encounter) shove(u, t *Unit) {
	if e.ZoneTo(u.ID, t.ID) != ZoneMelee {
		e.move(u, func() float64 { return e.Grid.MoveToward(u.ID, t.ID, MoveBudget(u)) })
	}
	ok := false
	if e.ZoneTo(u.ID, t.ID) == ZoneMelee {
		ok = util.Chance(e.rng, ShoveChance(u, t))
	}
	pushed := 0.0
	if ok {
		t.Charging = false
		pushed = e.move(t, func() float64 { return e.Grid.MoveAway(t.ID, u.ID, 2*e.Grid.CellSize()) })
	}
	e.logLine("shove", string(u.ID), "%s", e.narr.Shove(u, t, ok, pushed))
	e.emit("Shove", map[string]any{"unit": u.ID, "target": t.ID, "success": ok, "pushed": pushed})
}

// IntimidateChance is a contested roll: a hurt target gives way more
// easily, an armed and healthy intimidator is more convincing.
func IntimidateChance(u, t *Unit) float64 {
	armed := 0.0
	if u.Weapon().Armed() {
		armed = 0.15
	}
	return clamp(0.35+0.3*(1-t.Vitality())+armed+0.2*(u.Vitality()-0.5), 0.05, 0.9)
}

func (e *Encounter) intimidate(u, t *Unit) {
	ok := util.Chance(e.rng, IntimidateChance(u, t))
	delta := e.applyMorale(t, MoraleEvent{Kind: Intimidated, Success: ok})
	e.logLine("intimidate", string(u.ID), "%s", e.narr.Intimidate(u, t, ok))
	e.log.Debug("intimidate", "unit", u.ID, "target", t.ID, "success", ok, "delta", delta)
}

// DisengageChance is the chance to slip away from zone z. From Far it is a
// certainty.
func DisengageChance(u *Unit, z Zone) float64 {
	m := u.Capacities().Moving
	switch z {
	case ZoneFar:
		return 1
	case ZoneMid:
		return clamp(0.2+0.5*m, 0, 0.95)
	case ZoneClose:
		return clamp(0.3*m, 0, 0.95)
	default:
		return clamp(0.1*m, 0, 0.95)
	}
}

func (e *Encounter) disengage(u *Unit) {
	n, d, ok := e.NearestEnemy(u.ID)
	if !ok {
		e.finish(Escaped)
		return
	}
	z := ZoneOf(d)
	if util.Chance(e.rng, DisengageChance(u, z)) {
		e.logLine("player", string(u.ID), "%s", e.narr.Disengage(u, z, true))
		e.finish(Escaped)
		return
	}
	e.logLine("player", string(u.ID), "%s", e.narr.Disengage(u, z, false))
	e.move(u, func() float64 { return e.Grid.MoveAway(u.ID, n.ID, MoveBudget(u)) })
}

// DistractChance is the chance an animal goes for thrown food instead of
// the thrower.
func DistractChance(t *Unit) float64 {
	c := 0.4 + 0.4*(1-t.Boldness)
	if t.Behavior != nil && t.Behavior.Current == Attacking {
		c -= 0.3
	}
	return clamp(c, 0.05, 0.9)
}

func (e *Encounter) distract(u *Unit) {
	if !u.Actor.TakeItem(FoodItem) {
		return
	}
	var target *Unit
	for _, x := range sortedActive(u.Enemies) {
		if x.Kind != KindAnimal {
			continue
		}
		if target == nil || e.Grid.Distance(u.ID, x.ID) < e.Grid.Distance(u.ID, target.ID) {
			target = x
		}
	}
	if target == nil {
		e.logLine("player", string(u.ID), "%s", e.narr.Distract(u, nil, false))
		return
	}
	ok := util.Chance(e.rng, DistractChance(target))
	e.logLine("player", string(u.ID), "%s", e.narr.Distract(u, target, ok))
	if ok {
		e.finish(Distracted)
	}
}
