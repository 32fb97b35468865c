package combat

import (
	"context"
	"testing"
)

func TestBuildLaysOutScenario(t *testing.T) {
	e, err := Build(testScenario(), testLibrary(), Options{Seed: 7, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e.Scenario != "test_pack" || e.ID == "" {
		t.Fatalf("scenario %q id %q", e.Scenario, e.ID)
	}
	if got := len(e.Units()); got != 5 {
		t.Fatalf("got %d units, want player, one ally and three hostiles", got)
	}
	if e.PrimaryTarget() != "cougar-1" {
		t.Fatalf("primary target %s", e.PrimaryTarget())
	}
	p := e.Player()
	if p == nil || p.ID != PlayerID || !p.Weapon().Armed() || !p.Actor.HasItem(RockItem) {
		t.Fatalf("player not equipped: %+v", p)
	}
	if pos, _ := e.Grid.PositionOf(PlayerID); pos != (Position{X: 24, Y: 24}) {
		t.Fatalf("player at %+v, want grid centre", pos)
	}

	ally, ok := e.Unit("ally-1")
	if !ok || ally.Mode != ModeCompanion {
		t.Fatalf("ally missing or not a companion")
	}
	if ally.Relationship(PlayerID) != 0.9 || p.Relationship("ally-1") != 0.9 {
		t.Fatalf("relationship not set both ways")
	}

	w1, _ := e.Unit("wolf-1")
	if w1.Mode != ModeSquad || w1.Behavior != nil {
		t.Fatalf("pack species should run on morale alone")
	}
	c1, _ := e.Unit("cougar-1")
	if c1.Mode != ModeBehavior || c1.Behavior == nil {
		t.Fatalf("stalkers get a behavior state machine")
	}
	if d := e.PlayerDistance("wolf-1"); d < 15 || d > 19 {
		t.Fatalf("wolf spawned %v m away", d)
	}
	if err := e.CheckRoster(); err != nil {
		t.Fatalf("CheckRoster: %v", err)
	}
}

func TestReinforcementArrivesOnSchedule(t *testing.T) {
	e, err := Build(testScenario(), testLibrary(), Options{Seed: 7, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()
	if err := e.RunRound(ctx, Wait()); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if _, ok := e.Unit("wolf-3"); ok {
		t.Fatalf("reinforcement arrived early")
	}
	if e.Outcome.Terminal() {
		t.Skipf("encounter ended on turn 1 (%s)", e.Outcome)
	}
	if err := e.RunRound(ctx, Wait()); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	late, ok := e.Unit("wolf-3")
	if !ok {
		t.Fatalf("reinforcement missing after turn 2")
	}
	if late.Active() && !containsUnit(e.Player().Enemies, late.ID) {
		t.Fatalf("reinforcement not linked to the player")
	}
}

func TestUnknownWeaponFailsBuild(t *testing.T) {
	scn := testScenario()
	scn.Player.Weapon = "trident"
	if _, err := Build(scn, testLibrary(), Options{Logger: quietLogger()}); err == nil {
		t.Fatalf("expected an error for an unknown weapon")
	}
}

func TestUnknownSpeciesFallsBack(t *testing.T) {
	scn := testScenario()
	scn.Hostiles = scn.Hostiles[:1]
	scn.Hostiles[0].Species = "dragon"
	scn.Reinforcements = nil
	e, err := Build(scn, testLibrary(), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := e.Unit("default-1"); !ok {
		t.Fatalf("unknown species should spawn the generic animal")
	}
}
