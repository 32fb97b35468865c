package combat

type Event struct {
	Turn    int            `json:"turn"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Rand is the only source of nondeterminism in the engine. *rand.Rand
// satisfies it; tests script it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type UnitID string

type Team int

const (
	TeamPlayer Team = iota
	TeamHostile
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamHostile:
		return "hostile"
	default:
		return "unknown"
	}
}

type UnitKind int

const (
	KindPlayer UnitKind = iota
	KindNPC
	KindAnimal
)

func (k UnitKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindNPC:
		return "npc"
	case KindAnimal:
		return "animal"
	default:
		return "unknown"
	}
}

type Awareness int

const (
	Unaware Awareness = iota
	Alert
	Engaged
)

func (a Awareness) String() string {
	switch a {
	case Unaware:
		return "unaware"
	case Alert:
		return "alert"
	case Engaged:
		return "engaged"
	default:
		return "unknown"
	}
}

// DecisionMode selects which branch of the decision layer drives a unit
// once it is engaged.
type DecisionMode int

const (
	ModeBehavior  DecisionMode = iota // per-animal state machine
	ModeSquad                         // morale-driven multi-unit AI
	ModeCompanion                     // NPC ally
	ModeManual                        // player, driven from outside
)

func (m DecisionMode) String() string {
	switch m {
	case ModeBehavior:
		return "behavior"
	case ModeSquad:
		return "squad"
	case ModeCompanion:
		return "companion"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
