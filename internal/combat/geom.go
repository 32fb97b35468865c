package combat

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Len() float64    { return math.Hypot(a.X, a.Y) }
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Cap shortens a to at most max while keeping its direction.
func (a Vec2) Cap(max float64) Vec2 {
	l := a.Len()
	if l <= max || l == 0 {
		return a
	}
	return a.Scale(max / l)
}

// Perp is a rotated 90° counter-clockwise.
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

func vecOf(p Position) Vec2 { return Vec2{X: float64(p.X), Y: float64(p.Y)} }
