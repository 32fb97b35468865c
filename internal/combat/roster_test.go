package combat

import (
	"errors"
	"testing"
)

func TestRemovePurgesReferences(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	p := newTestPlayer(testKnife())
	ally := NewUnit("ally-1", KindNPC, TeamPlayer, NewCreature("Tess", 80, 1, 1, nil))
	mustAdd(t, e, p, 20, 20)
	mustAdd(t, e, ally, 18, 20)
	for i, id := range []UnitID{"wolf-1", "wolf-2", "wolf-3"} {
		mustAdd(t, e, newTestWolf(id, ModeSquad), 30+i, 30)
	}

	var removed []string
	e.OnRemoved = func(u *Unit, r RemovalReason) {
		removed = append(removed, string(u.ID)+":"+r.String())
	}

	w2, _ := e.Unit("wolf-2")
	e.remove(w2, RemovedDied)
	e.remove(ally, RemovedFled)
	e.remove(w2, RemovedDied) // already gone

	if len(removed) != 2 || removed[0] != "wolf-2:died" || removed[1] != "ally-1:fled" {
		t.Fatalf("hooks saw %v", removed)
	}
	if err := e.CheckRoster(); err != nil {
		t.Fatalf("CheckRoster: %v", err)
	}
	for _, u := range e.Units() {
		for _, x := range append(append([]*Unit(nil), u.Allies...), u.Enemies...) {
			if x.ID == "wolf-2" || x.ID == "ally-1" {
				t.Fatalf("%s still references %s", u.ID, x.ID)
			}
		}
	}
	if got := e.ActiveEnemyCount(PlayerID); got != 2 {
		t.Fatalf("player sees %d enemies, want 2", got)
	}
	if got := e.ActiveCount(TeamPlayer); got != 1 {
		t.Fatalf("player team has %d active, want 1", got)
	}
	if e.Grid.Has("wolf-2") || e.Grid.Has("ally-1") {
		t.Fatalf("removed units must leave the grid")
	}
	if w2.Alive || !ally.Fled || !ally.Alive {
		t.Fatalf("removal flags wrong: wolf alive=%v, ally fled=%v alive=%v", w2.Alive, ally.Fled, ally.Alive)
	}
}

func TestAddUnitRejectsDuplicates(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	mustAdd(t, e, newTestPlayer(nil), 5, 5)
	err := e.AddUnit(newTestPlayer(nil), Position{X: 6, Y: 6})
	if !errors.Is(err, ErrDuplicateUnit) {
		t.Fatalf("expected ErrDuplicateUnit, got %v", err)
	}
	if err := e.Join(newTestWolf("wolf-1", ModeSquad), "nobody", 5, 0); !errors.Is(err, ErrUnitNotPlaced) {
		t.Fatalf("expected ErrUnitNotPlaced, got %v", err)
	}
}

func TestCheckRosterCatchesStaleReference(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	p := newTestPlayer(nil)
	w := newTestWolf("wolf-1", ModeSquad)
	mustAdd(t, e, p, 5, 5)
	mustAdd(t, e, w, 15, 5)
	w.Alive = false
	if err := e.CheckRoster(); !errors.Is(err, ErrStaleReference) {
		t.Fatalf("expected ErrStaleReference, got %v", err)
	}
}

func TestJoinMidEncounterLinksBothWays(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	p := newTestPlayer(nil)
	mustAdd(t, e, p, 24, 24)
	mustAdd(t, e, newTestWolf("wolf-1", ModeSquad), 40, 24)
	e.start()

	late := newTestWolf("wolf-2", ModeSquad)
	if err := e.Join(late, PlayerID, 16, 0); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !containsUnit(p.Enemies, late.ID) || !containsUnit(late.Enemies, p.ID) {
		t.Fatalf("late arrival not linked as an enemy")
	}
	first, _ := e.Unit("wolf-1")
	if !containsUnit(first.Allies, late.ID) {
		t.Fatalf("late arrival not linked as an ally")
	}
	if want := e.Morale.InitialBoldness(late, 1); !approx(late.Boldness, want) {
		t.Fatalf("late boldness %v, want %v", late.Boldness, want)
	}
	if err := e.CheckRoster(); err != nil {
		t.Fatalf("CheckRoster: %v", err)
	}
}
