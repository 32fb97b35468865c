package combat

import (
	"strings"
	"testing"
)

func TestNarratorRotatesWithoutRandomness(t *testing.T) {
	var a, b Narrator
	u := newTestWolf("wolf-1", ModeBehavior)
	step := BehaviorStep{From: Circling, To: Attacking}
	for i := 0; i < 5; i++ {
		if x, y := a.Transition(u, step), b.Transition(u, step); x != y {
			t.Fatalf("line %d: %q vs %q", i, x, y)
		}
	}
	first := (&Narrator{}).Transition(u, step)
	second := (&Narrator{line: 1}).Transition(u, step)
	if first == second {
		t.Fatalf("consecutive lines should vary")
	}
	if !strings.HasPrefix(first, "Wolf") {
		t.Fatalf("sentence should start with the capitalised name: %q", first)
	}
}

func TestOutcomeNames(t *testing.T) {
	var n Narrator
	for o := Victory; o <= Timeout; o++ {
		if n.Outcome(o) == "" {
			t.Errorf("%s has no closing line", o)
		}
		got, err := ParseOutcome(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOutcome(%q) = %s, %v", o.String(), got, err)
		}
		if !o.Terminal() {
			t.Errorf("%s should be terminal", o)
		}
	}
	if _, err := ParseOutcome("stalemate"); err == nil {
		t.Fatalf("expected an error for an unknown outcome")
	}
}
