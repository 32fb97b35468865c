package combat

import (
	"fmt"
	"strings"
)

// Narrator turns resolution results into prose. It never touches the random
// source; variety comes from a line counter so narration cannot change how
// a fight plays out.
type Narrator struct {
	line int
}

func (n *Narrator) pick(opts ...string) string {
	s := opts[n.line%len(opts)]
	n.line++
	return s
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (n *Narrator) Attack(att, def *Unit, r AttackResult) string {
	a, d := title(att.Name()), def.Name()
	switch r.Interrupted {
	case "out_of_reach":
		return fmt.Sprintf("%s cannot reach %s.", a, d)
	case "dodged":
		return fmt.Sprintf("%s lunges at %s, who %s.", a, d, n.pick("twists aside", "leaps clear", "ducks away"))
	case "blocked":
		return fmt.Sprintf("%s strikes, but %s %s.", a, d, n.pick("turns the blow", "blocks it", "catches it on the weapon"))
	case "impaled":
		return fmt.Sprintf("%s charges straight onto %s's braced %s.", a, d, def.Weapon().Name)
	case "missed":
		if r.Ranged {
			return fmt.Sprintf("%s throws at %s and misses.", a, d)
		}
		return fmt.Sprintf("%s %s %s.", a, n.pick("swings wide of", "misses", "lunges short of"), d)
	}
	var b strings.Builder
	verb := "hits"
	if r.Ranged {
		verb = "pelts"
	}
	if r.Charged && !r.Ranged {
		verb = "charges into"
	}
	fmt.Fprintf(&b, "%s %s %s", a, verb, d)
	if r.Damage.HitPart != "" {
		fmt.Fprintf(&b, " in the %s", r.Damage.HitPart)
	}
	fmt.Fprintf(&b, " for %.0f", r.Damage.Total)
	if r.Critical {
		b.WriteString(", a vicious blow")
	}
	if r.Counter.Total > 0 {
		fmt.Fprintf(&b, " and takes %.0f from the braced weapon", r.Counter.Total)
	}
	if r.Killed {
		fmt.Fprintf(&b, ". %s goes down", title(d))
	}
	b.WriteString(".")
	return b.String()
}

func (n *Narrator) Transition(u *Unit, s BehaviorStep) string {
	name := title(u.Name())
	switch s.To {
	case Circling:
		return fmt.Sprintf("%s %s.", name, n.pick("circles, watching", "paces sideways, keeping its distance", "slinks around you"))
	case Approaching:
		return fmt.Sprintf("%s comes on again.", name)
	case Threatening:
		if s.Cornered {
			return fmt.Sprintf("%s turns at bay, teeth bared.", name)
		}
		return fmt.Sprintf("%s %s.", name, n.pick("snarls, hackles up", "lowers its head and growls", "stamps and bares its teeth"))
	case Attacking:
		if s.Cornered {
			return fmt.Sprintf("Cornered, %s lashes out!", u.Name())
		}
		return fmt.Sprintf("%s %s!", name, n.pick("charges", "springs forward", "lunges"))
	case Recovering:
		return fmt.Sprintf("%s stumbles, off balance.", name)
	case Retreating:
		return fmt.Sprintf("%s backs away.", name)
	case Disengaging:
		return fmt.Sprintf("%s tries to break off.", name)
	default:
		return ""
	}
}

func (n *Narrator) Awareness(u *Unit) string {
	switch u.Awareness {
	case Alert:
		return fmt.Sprintf("%s lifts its head, alert.", title(u.Name()))
	case Engaged:
		return fmt.Sprintf("%s fixes on its enemies.", title(u.Name()))
	default:
		return ""
	}
}

func (n *Narrator) Arrival(u *Unit, dist float64) string {
	if dist == Unreachable {
		return fmt.Sprintf("%s joins the fight.", title(u.Name()))
	}
	return fmt.Sprintf("%s joins the fight, %s away.", title(u.Name()), ZoneOf(dist))
}

func (n *Narrator) Removal(u *Unit, r RemovalReason) string {
	if r == RemovedFled {
		return fmt.Sprintf("%s %s.", title(u.Name()), n.pick("flees", "bolts and is gone", "slips away"))
	}
	return fmt.Sprintf("%s is dead.", title(u.Name()))
}

func (n *Narrator) HoldGround(u *Unit) string {
	return fmt.Sprintf("%s %s.", title(u.Name()), n.pick("holds ground", "stands firm", "refuses to give an inch"))
}

func (n *Narrator) Shove(u, t *Unit, ok bool, pushed float64) string {
	if !ok {
		return fmt.Sprintf("%s tries to shove %s but cannot move it.", title(u.Name()), t.Name())
	}
	return fmt.Sprintf("%s shoves %s back %.0fm.", title(u.Name()), t.Name(), pushed)
}

func (n *Narrator) Intimidate(u, t *Unit, ok bool) string {
	if ok {
		return fmt.Sprintf("%s roars at %s, who flinches.", title(u.Name()), t.Name())
	}
	return fmt.Sprintf("%s shouts at %s, who is unimpressed.", title(u.Name()), t.Name())
}

func (n *Narrator) Disengage(u *Unit, z Zone, ok bool) string {
	if ok {
		return fmt.Sprintf("%s slips away from the %s fight.", title(u.Name()), z)
	}
	return fmt.Sprintf("%s tries to break away but cannot get clear.", title(u.Name()))
}

func (n *Narrator) Distract(u, t *Unit, ok bool) string {
	switch {
	case t == nil:
		return fmt.Sprintf("%s throws down food; nothing cares.", title(u.Name()))
	case ok:
		return fmt.Sprintf("%s throws down food and %s goes for it.", title(u.Name()), t.Name())
	default:
		return fmt.Sprintf("%s throws down food; %s ignores it.", title(u.Name()), t.Name())
	}
}

func (n *Narrator) Mercy(u *Unit) string {
	return fmt.Sprintf("%s sniffs at you, then loses interest and wanders off.", title(u.Name()))
}

func (n *Narrator) Outcome(o Outcome) string {
	switch o {
	case Victory:
		return "The fight is won."
	case Defeat:
		return "You fall and do not rise."
	case Escaped:
		return "You get away."
	case EnemyFled:
		return "Your enemies have fled."
	case Incapacitated:
		return "You lie broken, but alive."
	case Distracted:
		return "The animal is busy with the food. You back away."
	case Timeout:
		return "The standoff drags on until both sides drift apart."
	default:
		return ""
	}
}
