package combat

import "math"

type Zone int

const (
	ZoneMelee Zone = iota
	ZoneClose
	ZoneMid
	ZoneFar
)

// Zone ceilings in meters. A distance equal to a ceiling belongs to the
// nearer zone.
const (
	MeleeCeiling = 3.0
	CloseCeiling = 8.0
	MidCeiling   = 15.0
	FarCeiling   = 20.0
)

var zoneNames = [...]string{"melee", "close", "mid", "far"}

func (z Zone) String() string {
	if z < ZoneMelee || z > ZoneFar {
		return "unknown"
	}
	return zoneNames[z]
}

// ZoneOf classifies a distance. Every input maps to exactly one zone.
func ZoneOf(d float64) Zone {
	switch {
	case math.IsNaN(d):
		return ZoneFar
	case d <= MeleeCeiling:
		return ZoneMelee
	case d <= CloseCeiling:
		return ZoneClose
	case d <= MidCeiling:
		return ZoneMid
	default:
		return ZoneFar
	}
}

// Closer returns the adjacent nearer zone; Melee has none.
func (z Zone) Closer() (Zone, bool) {
	if z <= ZoneMelee {
		return ZoneMelee, false
	}
	return z - 1, true
}

// Farther returns the adjacent farther zone; Far has none (leaving Far is a
// disengage, not a zone change).
func (z Zone) Farther() (Zone, bool) {
	if z >= ZoneFar {
		return ZoneFar, false
	}
	return z + 1, true
}

// Ceiling is the largest distance inside z. Far is open-ended; FarCeiling is
// its nominal edge.
func (z Zone) Ceiling() float64 {
	switch z {
	case ZoneMelee:
		return MeleeCeiling
	case ZoneClose:
		return CloseCeiling
	case ZoneMid:
		return MidCeiling
	default:
		return FarCeiling
	}
}

// InReach reports whether a weapon class can strike at zone z.
func InReach(class WeaponClass, z Zone) bool {
	switch class {
	case WeaponReach:
		return z <= ZoneClose
	case WeaponUnarmed, WeaponMelee, WeaponThrown:
		return z == ZoneMelee
	default:
		return false
	}
}

// ThrowEffective reports whether a thrown weapon is worth throwing at z.
func ThrowEffective(z Zone) bool {
	return z == ZoneClose || z == ZoneMid
}

// Floor is the distance at which z begins; the zone itself excludes it
// except for Melee.
func (z Zone) Floor() float64 {
	switch z {
	case ZoneClose:
		return MeleeCeiling
	case ZoneMid:
		return CloseCeiling
	case ZoneFar:
		return MidCeiling
	default:
		return 0
	}
}
