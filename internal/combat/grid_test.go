package combat

import (
	"errors"
	"math"
	"testing"
)

func TestMoveTowardThenAwayReturnsToStart(t *testing.T) {
	cases := []struct {
		name  string
		start Position
	}{
		{"axis", Position{X: 34, Y: 24}},
		{"diagonal", Position{X: 34, Y: 34}},
		{"off axis", Position{X: 14, Y: 21}},
		{"steep", Position{X: 21, Y: 35}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewGrid(48, 1)
			g.Place("anchor", Position{X: 24, Y: 24})
			g.Place("mover", c.start)
			before := g.Distance("mover", "anchor")

			in := g.MoveToward("mover", "anchor", 4)
			if in <= 0 {
				t.Fatalf("expected to close in")
			}
			if g.Distance("mover", "anchor") >= before {
				t.Fatalf("distance did not shrink")
			}
			out := g.MoveAway("mover", "anchor", 4)
			if !approx(in, out) {
				t.Fatalf("moved %v in but %v out", in, out)
			}
			if p, _ := g.PositionOf("mover"); p != c.start {
				t.Fatalf("ended at %+v, want %+v", p, c.start)
			}
		})
	}
}

func TestMoveNeverOverdrawsBudget(t *testing.T) {
	g := NewGrid(48, 1)
	g.Place("m", Position{X: 10, Y: 10})
	if moved := g.MoveToCell("m", Position{X: 40, Y: 40}, 4); !approx(moved, 2*math.Sqrt2) {
		t.Fatalf("requested 4m, moved %v", moved)
	}
	if p, _ := g.PositionOf("m"); p != (Position{X: 12, Y: 12}) {
		t.Fatalf("got %+v", p)
	}

	targets := []Position{{X: 40, Y: 40}, {X: 40, Y: 17}, {X: 3, Y: 30}, {X: 24, Y: 0}}
	for _, dst := range targets {
		for m := 0.5; m <= 10; m += 0.5 {
			g.Place("m", Position{X: 20, Y: 20})
			g.Place("t", dst)
			if moved := g.MoveToCell("m", dst, m); moved > m+1e-9 {
				t.Fatalf("to %+v: requested %v, moved %v", dst, m, moved)
			}
			g.Place("m", Position{X: 20, Y: 20})
			if moved := g.MoveAway("m", "t", m); moved > m+1e-9 {
				t.Fatalf("away from %+v: requested %v, moved %v", dst, m, moved)
			}
		}
	}
}

func TestMoveTowardStopsAdjacent(t *testing.T) {
	g := NewGrid(48, 1)
	g.Place("a", Position{X: 10, Y: 10})
	g.Place("b", Position{X: 13, Y: 10})
	g.MoveToward("a", "b", 10)
	if p, _ := g.PositionOf("a"); p != (Position{X: 12, Y: 10}) {
		t.Fatalf("got %+v", p)
	}
	if g.MoveToward("a", "b", 10) != 0 {
		t.Fatalf("already adjacent, should not move")
	}
}

func TestMoveAwayCornered(t *testing.T) {
	g := NewGrid(10, 1)
	g.Place("prey", Position{X: 0, Y: 0})
	g.Place("hunter", Position{X: 1, Y: 1})
	if moved := g.MoveAway("prey", "hunter", 3); moved != 0 {
		t.Fatalf("cornered unit moved %v", moved)
	}
	if !g.AtEdge("prey") {
		t.Fatalf("expected prey at edge")
	}
}

func TestMoveLateralKeepsRange(t *testing.T) {
	g := NewGrid(48, 1)
	g.Place("c", Position{X: 24, Y: 24})
	g.Place("m", Position{X: 30, Y: 24})
	before := g.Distance("m", "c")
	if g.MoveLateral("m", "c", true) == 0 {
		t.Fatalf("expected a step")
	}
	after := g.Distance("m", "c")
	if math.Abs(after-before) > 1 {
		t.Fatalf("circling changed range from %v to %v", before, after)
	}
}

func TestPlaceAtOffset(t *testing.T) {
	g := NewGrid(48, 1)
	g.Place("ref", Position{X: 24, Y: 24})
	p, err := g.PlaceAtOffset("u", "ref", 10, 0)
	if err != nil {
		t.Fatalf("PlaceAtOffset: %v", err)
	}
	if p != (Position{X: 34, Y: 24}) {
		t.Fatalf("got %+v", p)
	}
	if _, err := g.PlaceAtOffset("v", "missing", 5, 0); !errors.Is(err, ErrUnitNotPlaced) {
		t.Fatalf("expected ErrUnitNotPlaced, got %v", err)
	}
	p, _ = g.PlaceAtOffset("w", "ref", 100, math.Pi)
	if p.X != 0 {
		t.Fatalf("offset should clamp to the grid, got %+v", p)
	}
}

func TestNearestBreaksTiesByID(t *testing.T) {
	g := NewGrid(48, 1)
	g.Place("me", Position{X: 10, Y: 10})
	g.Place("b", Position{X: 12, Y: 10})
	g.Place("a", Position{X: 8, Y: 10})
	g.Place("far", Position{X: 30, Y: 10})
	id, d, ok := g.Nearest("me", []UnitID{"far", "b", "a", "ghost"})
	if !ok || id != "a" || d != 2 {
		t.Fatalf("got %s %v %v", id, d, ok)
	}
	if g.Distance("me", "ghost") != Unreachable {
		t.Fatalf("unplaced units are unreachable")
	}
}

func TestUninitializedGridPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrGridNotInitialized) {
			t.Fatalf("expected ErrGridNotInitialized panic, got %v", r)
		}
	}()
	var g *Grid
	g.Distance("a", "b")
}
