package combat

import (
	"context"
	"errors"
	"testing"
)

func TestRunRoundGuards(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	if err := e.RunRound(context.Background(), Wait()); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
	mustAdd(t, e, newTestPlayer(nil), 5, 5)
	e.Outcome = Victory
	if err := e.RunRound(context.Background(), Wait()); !errors.Is(err, ErrEncounterOver) {
		t.Fatalf("expected ErrEncounterOver, got %v", err)
	}
}

func TestPrimaryTargetDeathWins(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	mustAdd(t, e, newTestPlayer(nil), 10, 10)
	w1 := newTestWolf("wolf-1", ModeSquad)
	mustAdd(t, e, w1, 40, 40)
	mustAdd(t, e, newTestWolf("wolf-2", ModeSquad), 42, 40)
	if err := e.SetPrimaryTarget("wolf-1"); err != nil {
		t.Fatalf("SetPrimaryTarget: %v", err)
	}
	creature(w1).Pool().HP = 0

	if err := e.RunRound(context.Background(), Wait()); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if e.Outcome != Victory {
		t.Fatalf("outcome %s, want victory", e.Outcome)
	}
	if e.ActiveCount(TeamHostile) != 1 {
		t.Fatalf("the packmate is still out there")
	}
}

func TestPlayerDeathIsDefeat(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	p := newTestPlayer(nil)
	mustAdd(t, e, p, 10, 10)
	mustAdd(t, e, newTestWolf("wolf-1", ModeSquad), 40, 40)
	creature(p).Pool().HP = 0

	if err := e.RunRound(context.Background(), Wait()); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if e.Outcome != Defeat {
		t.Fatalf("outcome %s, want defeat", e.Outcome)
	}
}

func TestRoutedAnimalRunsDuringRound(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	mustAdd(t, e, newTestPlayer(nil), 20, 20)
	w := newTestWolf("wolf-1", ModeSquad)
	w.StartingBoldness = RoutBoldness / 3
	mustAdd(t, e, w, 25, 20)

	if err := e.RunRound(context.Background(), Wait()); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if w.LastAction != ActFlee || !w.TryingToFlee {
		t.Fatalf("wolf did %s, fleeing=%v", w.LastAction, w.TryingToFlee)
	}
	if d := e.PlayerDistance("wolf-1"); d <= 5 {
		t.Fatalf("wolf still %v m away", d)
	}
	if e.Outcome.Terminal() {
		t.Fatalf("a wolf in the middle distance has not left yet, got %s", e.Outcome)
	}
}

func TestTimeout(t *testing.T) {
	tun := DefaultTuning()
	tun.MaxTurns = 1
	e := NewEncounter(Options{ID: "t", Tuning: &tun, Rand: &scriptedRand{}, Logger: quietLogger()})
	mustAdd(t, e, newTestPlayer(nil), 5, 5)
	mustAdd(t, e, newTestWolf("wolf-1", ModeSquad), 40, 40)

	res, err := e.Run(context.Background(), PolicyFunc(func(*Encounter) Action { return Wait() }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != Timeout || res.Turns != 1 {
		t.Fatalf("got %s after %d turns", res.Outcome, res.Turns)
	}
}

func TestFleeingPrimaryEndsEncounter(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	mustAdd(t, e, newTestPlayer(nil), 5, 5)
	w := newTestWolf("wolf-1", ModeSquad)
	mustAdd(t, e, w, 40, 40)
	mustAdd(t, e, newTestWolf("wolf-2", ModeSquad), 8, 5)
	if err := e.SetPrimaryTarget(w.ID); err != nil {
		t.Fatal(err)
	}
	w.TryingToFlee = true

	if err := e.RunRound(context.Background(), Wait()); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if e.Outcome != EnemyFled {
		t.Fatalf("outcome %s, want enemy_fled", e.Outcome)
	}
	if !w.Fled || e.Grid.Has(w.ID) {
		t.Fatalf("fled unit should be off the grid")
	}
}

func TestMercyChanceShape(t *testing.T) {
	tun := DefaultTuning()
	healthy := newTestPlayer(testKnife())
	if MercyChance(tun, healthy) != 0 {
		t.Fatalf("no mercy for a healthy player")
	}

	bare := newTestPlayer(nil)
	creature(bare).Pool().HP = 20
	armed := newTestPlayer(testKnife())
	creature(armed).Pool().HP = 20
	worse := newTestPlayer(nil)
	creature(worse).Pool().HP = 5

	b, a, w := MercyChance(tun, bare), MercyChance(tun, armed), MercyChance(tun, worse)
	if b <= 0 {
		t.Fatalf("a downed player should have a chance, got %v", b)
	}
	if a >= b {
		t.Fatalf("holding a weapon should lower the chance: armed %v, bare %v", a, b)
	}
	if w < b {
		t.Fatalf("more incapacitation should not lower the chance: %v < %v", w, b)
	}
	if w > tun.MercyMax {
		t.Fatalf("chance %v above cap", w)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{})
	mustAdd(t, e, newTestPlayer(nil), 5, 5)
	mustAdd(t, e, newTestWolf("wolf-1", ModeSquad), 40, 40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx, AutoPlayer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Outcome.Terminal() {
		t.Fatalf("a cancelled run has no outcome, got %s", res.Outcome)
	}
}

func TestHooksAndEventsRecorded(t *testing.T) {
	e := newTestEncounter(t, &scriptedRand{vals: []float64{0}})
	mustAdd(t, e, newTestPlayer(testKnife()), 10, 10)
	mustAdd(t, e, newTestWolf("wolf-1", ModeSquad), 11, 10)

	hits := 0
	e.OnAttack = func(r AttackResult) {
		if r.Hit {
			hits++
		}
	}
	if err := e.RunRound(context.Background(), Attack("wolf-1")); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if hits == 0 {
		t.Fatalf("expected the hook to see a hit")
	}
	if len(e.Transcript()) == 0 || len(e.Messages()) == 0 {
		t.Fatalf("expected narration")
	}
	found := false
	for _, ev := range e.Events() {
		if ev.Type == "Attack" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no Attack event in %d events", len(e.Events()))
	}
}

func TestSameSeedSameTranscript(t *testing.T) {
	run := func() Result {
		e, err := Build(testScenario(), testLibrary(), Options{ID: "replay", Seed: 42, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		res, err := e.Run(context.Background(), AutoPlayer{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if a.Outcome != b.Outcome || a.Turns != b.Turns {
		t.Fatalf("runs diverged: %s/%d vs %s/%d", a.Outcome, a.Turns, b.Outcome, b.Turns)
	}
	if len(a.Transcript) != len(b.Transcript) {
		t.Fatalf("transcripts differ in length: %d vs %d", len(a.Transcript), len(b.Transcript))
	}
	for i := range a.Transcript {
		if a.Transcript[i] != b.Transcript[i] {
			t.Fatalf("line %d differs:\n%s\n%s", i, a.Transcript[i], b.Transcript[i])
		}
	}
	if !a.Outcome.Terminal() {
		t.Fatalf("run ended without an outcome")
	}
}
