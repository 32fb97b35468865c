package combat

// PlayerPolicy chooses the player's action when nobody is at the controls.
type PlayerPolicy interface {
	Choose(e *Encounter) Action
}

// PolicyFunc adapts a plain function to PlayerPolicy.
type PolicyFunc func(e *Encounter) Action

func (f PolicyFunc) Choose(e *Encounter) Action { return f(e) }

// AutoPlayer is a cautious scripted player: it fights what is in reach,
// braces against animals working up to a charge and gets out when badly
// hurt. It keeps no state, so one value can drive many encounters at once.
type AutoPlayer struct{}

func (AutoPlayer) Choose(e *Encounter) Action {
	p := e.Player()
	if p == nil || !p.Active() {
		return Wait()
	}
	n, d, ok := e.NearestEnemy(p.ID)
	if !ok {
		return Wait()
	}
	z := ZoneOf(d)

	if p.Vitality() < 0.3 {
		switch {
		case z == ZoneFar:
			return Disengage()
		case p.Actor.HasItem(FoodItem) && n.Kind == KindAnimal:
			return Distract()
		case z == ZoneMelee && CanDefend(DefDodge, p):
			return Dodge()
		default:
			return Retreat()
		}
	}

	windingUp := n.Charging ||
		(n.Behavior != nil && n.Behavior.Current == Threatening && z <= ZoneClose)
	if windingUp && CanDefend(DefBrace, p) {
		return Brace()
	}
	if InReach(p.Weapon().Class, z) {
		return Attack(n.ID)
	}
	if throwable(p) != nil && ThrowEffective(z) {
		return Throw(n.ID)
	}
	if n.Behavior != nil && n.Behavior.Current == Circling && z <= ZoneMid {
		return Intimidate(n.ID)
	}
	if windingUp && CanDefend(DefDodge, p) {
		return Dodge()
	}
	return Advance(n.ID)
}
