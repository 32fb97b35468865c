package util

import "math/rand"

// New returns a seeded source. Seed 0 is remapped to 1 so that an unset flag
// still yields a reproducible run.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Float64er is the slice of *rand.Rand the helpers need.
type Float64er interface {
	Float64() float64
}

// Chance reports whether a roll lands under p.
func Chance(r Float64er, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Between returns a uniform value in [lo, hi).
func Between(r Float64er, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// Derive spreads batch seeds by job index so a batch is reproducible no
// matter which worker picks up which job.
func Derive(seed int64, job int) int64 {
	return seed + int64(job)*7919
}
