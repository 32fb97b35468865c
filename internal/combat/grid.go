package combat

import (
	"math"
	"sort"
)

const (
	DefaultGridSize = 48
	DefaultCellSize = 1.0
)

// Unreachable is returned by distance queries for units that have no cell
// yet. AI code treats it as "very far" instead of failing during setup.
const Unreachable = math.MaxFloat64

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid maps unit identity to an integer cell. It is mutated only by the
// encounter that owns it.
type Grid struct {
	size     int
	cellSize float64
	cells    map[UnitID]Position
}

func NewGrid(size int, cellSize float64) *Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{size: size, cellSize: cellSize, cells: map[UnitID]Position{}}
}

func (g *Grid) mustInit() {
	if g == nil || g.cells == nil {
		panic(ErrGridNotInitialized)
	}
}

func (g *Grid) Size() int         { g.mustInit(); return g.size }
func (g *Grid) CellSize() float64 { g.mustInit(); return g.cellSize }

func (g *Grid) clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > g.size-1 {
		return g.size - 1
	}
	return v
}

// Clamp pulls p inside the grid.
func (g *Grid) Clamp(p Position) Position {
	g.mustInit()
	return Position{X: g.clampInt(p.X), Y: g.clampInt(p.Y)}
}

// Place puts id at cell p (clamped) and returns the cell it landed on.
func (g *Grid) Place(id UnitID, p Position) Position {
	g.mustInit()
	p = g.Clamp(p)
	g.cells[id] = p
	return p
}

// PlaceAtOffset spawns id at a polar offset from ref. Angle is in radians.
func (g *Grid) PlaceAtOffset(id, ref UnitID, meters, angle float64) (Position, error) {
	g.mustInit()
	rp, ok := g.cells[ref]
	if !ok {
		return Position{}, ErrUnitNotPlaced
	}
	cells := meters / g.cellSize
	p := Position{
		X: rp.X + int(math.Round(cells*math.Cos(angle))),
		Y: rp.Y + int(math.Round(cells*math.Sin(angle))),
	}
	return g.Place(id, p), nil
}

func (g *Grid) PositionOf(id UnitID) (Position, bool) {
	g.mustInit()
	p, ok := g.cells[id]
	return p, ok
}

func (g *Grid) Has(id UnitID) bool {
	_, ok := g.PositionOf(id)
	return ok
}

func (g *Grid) Remove(id UnitID) {
	g.mustInit()
	delete(g.cells, id)
}

func (g *Grid) cellDistance(a, b Position) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)) * g.cellSize
}

// Distance in meters between two units, or Unreachable if either is missing.
func (g *Grid) Distance(a, b UnitID) float64 {
	g.mustInit()
	pa, ok := g.cells[a]
	if !ok {
		return Unreachable
	}
	pb, ok := g.cells[b]
	if !ok {
		return Unreachable
	}
	return g.cellDistance(pa, pb)
}

func (g *Grid) ZoneBetween(a, b UnitID) Zone {
	return ZoneOf(g.Distance(a, b))
}

// Nearest returns the closest placed candidate. Ties go to the smaller ID so
// that runs are reproducible.
func (g *Grid) Nearest(from UnitID, candidates []UnitID) (UnitID, float64, bool) {
	g.mustInit()
	if _, ok := g.cells[from]; !ok {
		return "", Unreachable, false
	}
	sorted := append([]UnitID(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var best UnitID
	bestD := Unreachable
	found := false
	for _, c := range sorted {
		if c == from {
			continue
		}
		d := g.Distance(from, c)
		if d == Unreachable {
			continue
		}
		if !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, bestD, found
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func chebyshev(a, b Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// walk moves id along the straight line through (dx, dy), one cell of the
// major axis per step. Clamped steps slide along the edge. The walk ends
// before a step that would overdraw meters, after limit steps, or as soon
// as stop reports true.
func (g *Grid) walk(id UnitID, dx, dy, meters float64, limit int, stop func(Position) bool) float64 {
	start, ok := g.cells[id]
	if !ok {
		return 0
	}
	major := math.Max(math.Abs(dx), math.Abs(dy))
	if major == 0 || meters <= 0 {
		return 0
	}
	ux, uy := dx/major, dy/major
	p := start
	moved := 0.0
	for k := 1; k <= limit; k++ {
		if stop != nil && stop(p) {
			break
		}
		next := g.Clamp(Position{
			X: start.X + int(math.Round(ux*float64(k))),
			Y: start.Y + int(math.Round(uy*float64(k))),
		})
		if next == p {
			continue
		}
		cost := g.cellDistance(p, next)
		if moved+cost > meters+1e-9 {
			break
		}
		moved += cost
		p = next
	}
	g.cells[id] = p
	return moved
}

// stepTo walks id towards dst. When adjacent is set the walk ends next to
// dst instead of on it.
func (g *Grid) stepTo(id UnitID, dst Position, meters float64, adjacent bool) float64 {
	p, ok := g.cells[id]
	if !ok {
		return 0
	}
	return g.walk(id, float64(dst.X-p.X), float64(dst.Y-p.Y), meters, chebyshev(p, dst),
		func(at Position) bool { return at == dst || (adjacent && chebyshev(at, dst) <= 1) })
}

// MoveToward closes on target and returns the meters actually covered.
func (g *Grid) MoveToward(id, target UnitID, meters float64) float64 {
	g.mustInit()
	tp, ok := g.cells[target]
	if !ok {
		return 0
	}
	return g.stepTo(id, tp, meters, true)
}

// MoveToCell walks towards an absolute cell (clamped).
func (g *Grid) MoveToCell(id UnitID, cell Position, meters float64) float64 {
	g.mustInit()
	return g.stepTo(id, g.Clamp(cell), meters, false)
}

// MoveAway backs off from another unit along the line joining them, so a
// retreat retraces an approach. Near an edge the returned distance can be
// shorter than requested, down to zero when cornered.
func (g *Grid) MoveAway(id, from UnitID, meters float64) float64 {
	g.mustInit()
	p, ok := g.cells[id]
	if !ok {
		return 0
	}
	fp, ok := g.cells[from]
	if !ok {
		return 0
	}
	dx, dy := float64(p.X-fp.X), float64(p.Y-fp.Y)
	if dx == 0 && dy == 0 {
		dx = 1
	}
	return g.walk(id, dx, dy, meters, 2*g.size, nil)
}

// MoveLateral takes one step perpendicular to the line towards around,
// which is how circling keeps its distance.
func (g *Grid) MoveLateral(id, around UnitID, clockwise bool) float64 {
	g.mustInit()
	p, ok := g.cells[id]
	if !ok {
		return 0
	}
	ap, ok := g.cells[around]
	if !ok {
		return 0
	}
	side := vecOf(p).Sub(vecOf(ap)).Perp()
	if clockwise {
		side = side.Scale(-1)
	}
	step := Position{X: sign(int(side.X)), Y: sign(int(side.Y))}
	if step.X == 0 && step.Y == 0 {
		step.X = 1
	}
	next := Position{X: g.clampInt(p.X + step.X), Y: g.clampInt(p.Y + step.Y)}
	if next == p {
		return 0
	}
	g.cells[id] = next
	return g.cellDistance(p, next)
}

// AtEdge reports whether id sits on the outer ring of cells.
func (g *Grid) AtEdge(id UnitID) bool {
	g.mustInit()
	p, ok := g.cells[id]
	if !ok {
		return false
	}
	last := g.size - 1
	return p.X == 0 || p.Y == 0 || p.X == last || p.Y == last
}
