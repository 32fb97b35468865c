package combat

import (
	"context"
	"errors"
	"testing"
)

func TestDisengageFromFarAlwaysSucceeds(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		e := NewEncounter(Options{ID: "far", Seed: seed, Logger: quietLogger()})
		p := newTestPlayer(testKnife())
		creature(p).Pool().part("legs").Health = 0.5
		mustAdd(t, e, p, 4, 4)
		mustAdd(t, e, newTestWolf("wolf-1", ModeBehavior), 44, 44)

		if m := p.Capacities().Moving; !approx(m, 0.5) {
			t.Fatalf("moving capacity %v, want 0.5", m)
		}
		if DisengageChance(p, ZoneFar) != 1 {
			t.Fatalf("disengage from far must be certain")
		}
		if err := e.RunRound(context.Background(), Disengage()); err != nil {
			t.Fatalf("seed %d: RunRound: %v", seed, err)
		}
		if e.Outcome != Escaped {
			t.Fatalf("seed %d: outcome %s, want escaped", seed, e.Outcome)
		}
	}
}

func TestDisengageChanceFallsWithProximity(t *testing.T) {
	p := newTestPlayer(nil)
	prev := 2.0
	for _, z := range []Zone{ZoneFar, ZoneMid, ZoneClose, ZoneMelee} {
		c := DisengageChance(p, z)
		if c > prev {
			t.Fatalf("chance rose from %v to %v moving into %s", prev, c, z)
		}
		prev = c
	}
}

func TestValidateRejectsBeforeTurnStarts(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	p := newTestPlayer(nil)
	ally := NewUnit("ally-1", KindNPC, TeamPlayer, NewCreature("Tess", 80, 1, 1, nil))
	mustAdd(t, e, p, 10, 10)
	mustAdd(t, e, ally, 11, 10)
	mustAdd(t, e, newTestWolf("wolf-1", ModeBehavior), 30, 10)

	cases := []struct {
		act  Action
		want error
	}{
		{Action{Kind: ActAttack}, ErrNoTarget},
		{Attack("ghost"), ErrUnknownUnit},
		{Attack("ally-1"), ErrActionUnavailable},
		{Throw("wolf-1"), ErrActionUnavailable},
		{Block(), ErrActionUnavailable},
		{Distract(), ErrActionUnavailable},
		{Action{Kind: ActCircle}, ErrActionUnavailable},
	}
	for _, c := range cases {
		if err := e.RunRound(context.Background(), c.act); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.act, err, c.want)
		}
	}
	if e.Turn != 0 {
		t.Fatalf("rejected actions advanced the turn to %d", e.Turn)
	}
}

func TestThrowUsesUpRocks(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{vals: []float64{0.99}})
	p := newTestPlayer(nil)
	creature(p).GiveItem(RockItem, 1)
	mustAdd(t, e, p, 10, 10)
	mustAdd(t, e, newTestWolf("wolf-1", ModeBehavior), 20, 10)

	var attacks []AttackResult
	e.OnAttack = func(r AttackResult) { attacks = append(attacks, r) }
	if err := e.RunRound(context.Background(), Throw("wolf-1")); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if len(attacks) == 0 || attacks[0].Attacker != PlayerID || !attacks[0].Ranged {
		t.Fatalf("expected a thrown attack first, got %+v", attacks)
	}
	if p.Actor.HasItem(RockItem) {
		t.Fatalf("the rock should be gone")
	}
}

func TestIntimidateChanceShape(t *testing.T) {
	p := newTestPlayer(nil)
	w := newTestWolf("wolf-1", ModeBehavior)
	bare := IntimidateChance(p, w)
	armed := IntimidateChance(newTestPlayer(testKnife()), w)
	if armed <= bare {
		t.Fatalf("a weapon should help: %v vs %v", armed, bare)
	}
	creature(w).Pool().HP = 10
	if hurt := IntimidateChance(p, w); hurt <= bare {
		t.Fatalf("a hurt animal should give way more easily: %v vs %v", hurt, bare)
	}
}

func TestDistractEndsEncounter(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{vals: []float64{0}})
	p := newTestPlayer(nil)
	creature(p).GiveItem(FoodItem, 1)
	mustAdd(t, e, p, 10, 10)
	mustAdd(t, e, newTestWolf("wolf-1", ModeBehavior), 16, 10)

	if err := e.RunRound(context.Background(), Distract()); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if e.Outcome != Distracted {
		t.Fatalf("outcome %s", e.Outcome)
	}
	if p.Actor.HasItem(FoodItem) {
		t.Fatalf("food should be spent")
	}
}
