package combat

import "fmt"

type RemovalReason int

const (
	RemovedDied RemovalReason = iota
	RemovedFled
)

func (r RemovalReason) String() string {
	if r == RemovedFled {
		return "fled"
	}
	return "died"
}

// link wires u into the ally/enemy lists of every active unit and theirs
// into u's.
func (e *Encounter) link(u *Unit) {
	for _, x := range e.units {
		if x == u || !x.Active() {
			continue
		}
		if x.Team == u.Team {
			x.Allies = append(x.Allies, u)
			u.Allies = append(u.Allies, x)
		} else {
			x.Enemies = append(x.Enemies, u)
			u.Enemies = append(u.Enemies, x)
		}
	}
}

// remove takes u out of play. Allies hear about it first, then every
// reference to u is cut in the same step.
func (e *Encounter) remove(u *Unit, reason RemovalReason) {
	if !u.Active() {
		return
	}
	kind := AllyKilled
	if reason == RemovedFled {
		kind = AllyFled
	}
	for _, a := range sortedActive(u.Allies) {
		e.applyMorale(a, MoraleEvent{Kind: kind, Cohesion: e.Morale.Cohesion(a, u)})
	}

	if reason == RemovedFled {
		u.Fled = true
	} else {
		u.Alive = false
	}
	u.TryingToFlee = false
	u.Charging = false
	u.clearDefenses()
	for _, x := range e.units {
		x.Allies = withoutUnit(x.Allies, u.ID)
		x.Enemies = withoutUnit(x.Enemies, u.ID)
	}
	u.Allies, u.Enemies = nil, nil
	e.Grid.Remove(u.ID)

	e.logLine("roster", string(u.ID), "%s", e.narr.Removal(u, reason))
	e.emit("Removed", map[string]any{"unit": u.ID, "reason": reason.String()})
	e.log.Debug("unit removed", "unit", u.ID, "reason", reason.String())
	if e.OnRemoved != nil {
		e.OnRemoved(u, reason)
	}
	if err := e.CheckRoster(); err != nil {
		panic(err)
	}
}

// CheckRoster verifies that back-references are symmetric and only point
// at active units on the grid.
func (e *Encounter) CheckRoster() error {
	for _, a := range e.units {
		if !a.Active() {
			if len(a.Allies) > 0 || len(a.Enemies) > 0 {
				return fmt.Errorf("%w: removed %s still holds references", ErrStaleReference, a.ID)
			}
			if e.Grid.Has(a.ID) {
				return fmt.Errorf("%w: removed %s still on grid", ErrStaleReference, a.ID)
			}
			continue
		}
		if !e.Grid.Has(a.ID) {
			return fmt.Errorf("%w: %s has no cell", ErrStaleReference, a.ID)
		}
		for _, x := range a.Allies {
			if !x.Active() || x.Team != a.Team || !containsUnit(x.Allies, a.ID) {
				return fmt.Errorf("%w: %s lists ally %s", ErrStaleReference, a.ID, x.ID)
			}
		}
		for _, x := range a.Enemies {
			if !x.Active() || x.Team == a.Team || !containsUnit(x.Enemies, a.ID) {
				return fmt.Errorf("%w: %s lists enemy %s", ErrStaleReference, a.ID, x.ID)
			}
		}
	}
	return nil
}
