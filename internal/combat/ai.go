package combat

import (
	"fmt"
	"math"
)

type ActionKind int

const (
	ActNone ActionKind = iota
	ActHold
	ActMove     // to Decision.StepTo
	ActApproach // close on Target
	ActCircle   // lateral step around Target
	ActRetreat  // back off from Target
	ActFlee
	ActAttack
	ActThrow
	ActShove
	ActThreaten
	ActDodge
	ActBlock
	ActBrace
	ActGiveGround
	ActHoldGround
	ActDisengage
	ActDistract
)

var actionNames = [...]string{
	"none", "hold", "move", "approach", "circle", "retreat", "flee", "attack", "throw",
	"shove", "threaten", "dodge", "block", "brace", "give_ground", "hold_ground",
	"disengage", "distract",
}

func (k ActionKind) String() string {
	if k < ActNone || k > ActDistract {
		return "unknown"
	}
	return actionNames[k]
}

// NeedsTarget reports whether dispatching k without a target is a bug.
func (k ActionKind) NeedsTarget() bool {
	switch k {
	case ActApproach, ActCircle, ActRetreat, ActFlee, ActAttack, ActThrow, ActShove, ActThreaten:
		return true
	default:
		return false
	}
}

type Decision struct {
	Kind      ActionKind
	Target    UnitID
	StepTo    *Position
	Clockwise bool
	Reason    string
}

func (d Decision) String() string {
	if d.Target != "" {
		return fmt.Sprintf("%s->%s", d.Kind, d.Target)
	}
	return d.Kind.String()
}

// BaseMovePerTurn is how far a unit of speed 1 with sound legs covers in a
// turn, in meters.
const BaseMovePerTurn = 4.0

// MoveBudget is the distance u may cover this turn.
func MoveBudget(u *Unit) float64 {
	speed := 1.0
	if u.Actor != nil {
		speed = u.Actor.Speed()
	}
	return BaseMovePerTurn * speed * math.Max(0.25, u.Capacities().Moving)
}

// View is everything the decision layer may look at. The grid is only
// queried, never moved.
type View struct {
	Grid   *Grid
	Self   *Unit
	Morale MoraleModel
}

// AI picks one action per unit per turn. It holds no state of its own.
type AI struct{}

func (AI) Decide(v View, rng Rand) Decision {
	u := v.Self
	switch u.Awareness {
	case Unaware:
		return decideUnaware(v, rng)
	case Alert:
		return decideAlert(v)
	}
	switch u.Mode {
	case ModeBehavior:
		if u.Behavior != nil {
			return decideBehavior(v)
		}
		return decideSquad(v, rng)
	case ModeCompanion:
		return decideCompanion(v)
	case ModeManual:
		return Decision{Kind: ActHold, Reason: "manual"}
	default:
		return decideSquad(v, rng)
	}
}

func decideUnaware(v View, rng Rand) Decision {
	if rng.Float64() < 0.6 {
		return Decision{Kind: ActHold, Reason: "idle"}
	}
	p, ok := v.Grid.PositionOf(v.Self.ID)
	if !ok {
		return Decision{Kind: ActHold, Reason: "idle"}
	}
	dst := v.Grid.Clamp(Position{X: p.X + rng.Intn(3) - 1, Y: p.Y + rng.Intn(3) - 1})
	if dst == p {
		return Decision{Kind: ActHold, Reason: "idle"}
	}
	return Decision{Kind: ActMove, StepTo: &dst, Reason: "wander"}
}

func decideAlert(v View) Decision {
	if d, ok := moveByVector(v, "reposition"); ok {
		return d
	}
	if t, _, ok := nearestEnemy(v); ok {
		return Decision{Kind: ActApproach, Target: t.ID, Reason: "reposition"}
	}
	return Decision{Kind: ActHold, Reason: "alert"}
}

// decideBehavior turns the state machine's current state into an action.
// The state was already advanced this turn by the encounter.
func decideBehavior(v View) Decision {
	u := v.Self
	t, dist, ok := nearestEnemy(v)
	if !ok {
		return Decision{Kind: ActHold, Reason: "no prey"}
	}
	z := ZoneOf(dist)
	switch u.Behavior.Current {
	case Attacking:
		return Decision{Kind: ActAttack, Target: t.ID, Reason: "lunge"}
	case Threatening:
		if z > ZoneClose {
			return Decision{Kind: ActApproach, Target: t.ID, Reason: "stalk"}
		}
		return Decision{Kind: ActThreaten, Target: t.ID, Reason: "snarl"}
	case Circling:
		// Alternate direction every few turns so a circler does not pin
		// itself against an edge.
		cw := (u.Behavior.TurnsInState/3)%2 == 0
		if v.Grid.AtEdge(u.ID) {
			cw = !cw
		}
		return Decision{Kind: ActCircle, Target: t.ID, Clockwise: cw, Reason: "circle"}
	case Approaching:
		return Decision{Kind: ActApproach, Target: t.ID, Reason: "approach"}
	case Recovering:
		return Decision{Kind: ActHold, Target: t.ID, Reason: "recover"}
	case Retreating, Disengaging:
		return Decision{Kind: ActFlee, Target: t.ID, Reason: u.Behavior.Current.String()}
	default:
		return Decision{Kind: ActHold, Reason: "unknown state"}
	}
}

// RoutBoldness is the nerve below which a pack animal stops fighting and
// runs.
const RoutBoldness = 0.15

func decideSquad(v View, rng Rand) Decision {
	u := v.Self
	t, dist, ok := nearestEnemy(v)
	if !ok {
		return Decision{Kind: ActHold, Reason: "no enemy"}
	}
	z := ZoneOf(dist)
	if u.Kind == KindAnimal && u.Boldness < RoutBoldness {
		return Decision{Kind: ActFlee, Target: t.ID, Reason: "routed"}
	}
	if v.Morale.AttackDecision(u, t, dist) {
		if InReach(u.Weapon().Class, z) {
			return Decision{Kind: ActAttack, Target: t.ID, Reason: "bold"}
		}
		return Decision{Kind: ActApproach, Target: t.ID, Reason: "closing"}
	}

	r := rng.Float64()
	switch z {
	case ZoneMelee:
		switch {
		case r < 0.5:
			return Decision{Kind: ActBlock, Target: t.ID, Reason: "wary"}
		case r < 0.75:
			return Decision{Kind: ActShove, Target: t.ID, Reason: "wary"}
		}
	case ZoneClose:
		switch {
		case r >= 0.5 && r < 0.75:
			return Decision{Kind: ActBlock, Target: t.ID, Reason: "wary"}
		case r >= 0.75:
			return Decision{Kind: ActDodge, Target: t.ID, Reason: "wary"}
		}
	}
	if d, ok := moveByVector(v, "morale"); ok {
		return d
	}
	return Decision{Kind: ActHold, Target: t.ID, Reason: "steady"}
}

func decideCompanion(v View) Decision {
	u := v.Self
	vit := u.Vitality()
	if vit < 0.3 || (vit < 0.5 && u.Boldness < 0.3) {
		if t, _, ok := nearestEnemy(v); ok {
			return Decision{Kind: ActFlee, Target: t.ID, Reason: "hurt"}
		}
		return Decision{Kind: ActHold, Reason: "hurt"}
	}

	t, reason := defendTarget(v)
	if t == nil {
		var ok bool
		if t, _, ok = nearestEnemy(v); !ok {
			return Decision{Kind: ActHold, Reason: "no enemy"}
		}
		reason = "nearest"
	}
	switch ZoneOf(v.Grid.Distance(u.ID, t.ID)) {
	case ZoneFar:
		return Decision{Kind: ActApproach, Target: t.ID, Reason: reason}
	case ZoneMid:
		if u.Boldness > 0.5 {
			return Decision{Kind: ActApproach, Target: t.ID, Reason: reason}
		}
		return Decision{Kind: ActThreaten, Target: t.ID, Reason: reason}
	default:
		if !InReach(u.Weapon().Class, v.Grid.ZoneBetween(u.ID, t.ID)) {
			return Decision{Kind: ActApproach, Target: t.ID, Reason: reason}
		}
		return Decision{Kind: ActAttack, Target: t.ID, Reason: reason}
	}
}

// DefendThreshold is the relationship an NPC needs before it steps in for
// an ally.
const DefendThreshold = 0.7

// defendTarget finds the enemy pressing closest on the ally this NPC cares
// most about, if any ally is under threat.
func defendTarget(v View) (*Unit, string) {
	u := v.Self
	var ward *Unit
	for _, a := range u.Allies {
		if !a.Active() || u.Relationship(a.ID) < DefendThreshold {
			continue
		}
		if ward == nil || u.Relationship(a.ID) > u.Relationship(ward.ID) ||
			(u.Relationship(a.ID) == u.Relationship(ward.ID) && a.ID < ward.ID) {
			ward = a
		}
	}
	if ward == nil {
		return nil, ""
	}
	var best *Unit
	bestD := Unreachable
	for _, e := range sortedActive(ward.Enemies) {
		d := v.Grid.Distance(ward.ID, e.ID)
		if ZoneOf(d) <= ZoneClose && d < bestD {
			best, bestD = e, d
		}
	}
	if best == nil {
		return nil, ""
	}
	return best, "defend " + ward.Name()
}

func nearestEnemy(v View) (*Unit, float64, bool) {
	ids := activeIDs(v.Self.Enemies)
	id, d, ok := v.Grid.Nearest(v.Self.ID, ids)
	if !ok {
		return nil, Unreachable, false
	}
	for _, e := range v.Self.Enemies {
		if e.ID == id {
			return e, d, true
		}
	}
	return nil, Unreachable, false
}

func contacts(g *Grid, from UnitID, units []*Unit) []Contact {
	out := make([]Contact, 0, len(units))
	for _, x := range sortedActive(units) {
		p, ok := g.PositionOf(x.ID)
		if !ok {
			continue
		}
		out = append(out, Contact{Unit: x, Pos: vecOf(p), Distance: g.Distance(from, x.ID)})
	}
	return out
}

// moveByVector caps the morale vector to this turn's budget and snaps it
// to a cell. ok is false when the pull rounds to standing still.
func moveByVector(v View, reason string) (Decision, bool) {
	u := v.Self
	p, ok := v.Grid.PositionOf(u.ID)
	if !ok {
		return Decision{}, false
	}
	here := vecOf(p)
	vec := v.Morale.MovementVector(u, here, contacts(v.Grid, u.ID, u.Enemies), contacts(v.Grid, u.ID, u.Allies))
	if vec.Len() < 0.05 {
		return Decision{}, false
	}
	budget := MoveBudget(u) / v.Grid.CellSize()
	step := vec.Norm().Scale(budget * math.Max(vec.Len(), 0.25)).Cap(budget)
	dst := v.Grid.Clamp(Position{
		X: p.X + int(math.Round(step.X)),
		Y: p.Y + int(math.Round(step.Y)),
	})
	if dst == p {
		return Decision{}, false
	}
	return Decision{Kind: ActMove, StepTo: &dst, Reason: reason}, true
}
