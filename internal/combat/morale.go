package combat

import "math"

type MoraleEventKind int

const (
	TookDamage MoraleEventKind = iota
	DealtDamage
	AllyDamaged
	AllyKilled
	AllyFled
	EnemyAdvanced
	EnemyRetreated
	RoundAdvanced
	Intimidated
)

var moraleEventNames = [...]string{
	"took_damage", "dealt_damage", "ally_damaged", "ally_killed", "ally_fled",
	"enemy_advanced", "enemy_retreated", "round_advanced", "intimidated",
}

func (k MoraleEventKind) String() string {
	if k < TookDamage || k > Intimidated {
		return "unknown"
	}
	return moraleEventNames[k]
}

// MoraleEvent is consumed once to move a unit's boldness.
type MoraleEvent struct {
	Kind        MoraleEventKind
	Cohesion    float64 // ally events
	EnemyThreat float64 // EnemyAdvanced
	Success     bool    // Intimidated
}

// MoraleModel is a set of pure functions over unit state. The encounter
// applies what it returns.
type MoraleModel struct {
	T Tuning
}

func NewMoraleModel(t Tuning) MoraleModel { return MoraleModel{T: t} }

// Delta is the boldness change an event causes, before clamping.
func (m MoraleModel) Delta(ev MoraleEvent) float64 {
	switch ev.Kind {
	case TookDamage:
		return m.T.TookDamage
	case DealtDamage:
		return m.T.DealtDamage
	case AllyDamaged:
		return m.T.AllyDamaged * ev.Cohesion
	case AllyKilled:
		return m.T.AllyKilled * ev.Cohesion
	case AllyFled:
		return m.T.AllyFled * ev.Cohesion
	case EnemyAdvanced:
		return m.T.EnemyAdvanced * ev.EnemyThreat
	case EnemyRetreated:
		return m.T.EnemyRetreated
	case RoundAdvanced:
		return m.T.RoundAdvanced
	case Intimidated:
		if ev.Success {
			return m.T.IntimidateSuccess
		}
		return m.T.IntimidateFailure
	default:
		return 0
	}
}

func (m MoraleModel) Threat(u *Unit) float64 {
	return u.BaseThreat * u.Vitality()
}

func (m MoraleModel) AlliesBonus(allies int) float64 {
	return math.Min(m.T.AlliesBonusMax, m.T.AlliesBonusPer*float64(allies))
}

// InitialBoldness is starting boldness plus the comfort of numbers.
func (m MoraleModel) InitialBoldness(u *Unit, allies int) float64 {
	return clamp01(u.StartingBoldness + m.AlliesBonus(allies))
}

func (m MoraleModel) Aggression(u *Unit) float64 {
	a := u.BaseAggression
	if u.JustDamaged {
		a += m.T.RetaliationBonus
	}
	return a
}

// Cohesion is how much u cares about other. Animals share a flat bond;
// people go by relationship, doubled at a full positive one.
func (m MoraleModel) Cohesion(u, other *Unit) float64 {
	if u.Kind == KindAnimal {
		return m.T.AnimalCohesion
	}
	rel := clamp01(u.Relationship(other.ID))
	return m.T.NPCCohesion * (1 + rel)
}

// PerceivedThreat fades linearly with range.
func (m MoraleModel) PerceivedThreat(other *Unit, distance float64) float64 {
	return math.Max(0, (1-distance*m.T.ThreatDropPerMeter)*m.Threat(other))
}

// AttackDecision reports whether u has the nerve to attack target.
func (m MoraleModel) AttackDecision(u, target *Unit, distance float64) bool {
	return u.Boldness > m.Aggression(u)*(1-0.5*m.PerceivedThreat(target, distance))
}

// EngagementRange is the distance inside which advancing is not discounted.
func (m MoraleModel) EngagementRange(u *Unit) float64 {
	return m.Aggression(u) * 15
}

// Contact is another unit as seen from the deciding unit.
type Contact struct {
	Unit     *Unit
	Pos      Vec2
	Distance float64
}

// MovementVector blends the pulls acting on u. It is advisory: callers cap
// and snap it before moving.
func (m MoraleModel) MovementVector(u *Unit, self Vec2, enemies, allies []Contact) Vec2 {
	var v Vec2
	engage := m.EngagementRange(u)
	for _, e := range enemies {
		if e.Distance == Unreachable {
			continue
		}
		dir := e.Pos.Sub(self).Norm()
		v = v.Add(dir.Scale(m.T.ApproachPull))

		intent := u.Boldness - m.PerceivedThreat(e.Unit, e.Distance)
		w := 1 / math.Max(1, e.Distance)
		if intent > 0 && e.Distance > engage {
			if engage <= 0 {
				w = 0
			} else {
				w *= engage / e.Distance
			}
		}
		v = v.Add(dir.Scale(intent * w))
	}
	for _, a := range allies {
		if a.Distance == Unreachable || a.Distance <= m.T.CohesionRange {
			continue
		}
		dir := a.Pos.Sub(self).Norm()
		v = v.Add(dir.Scale(m.Cohesion(u, a.Unit) * m.T.CohesionPull))
	}
	return v
}
