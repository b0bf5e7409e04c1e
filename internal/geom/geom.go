// Package geom provides the integer 2D geometry used by the touch pipeline:
// points, rectangles, cardinal and diagonal directions, and the stroke
// helpers the gesture classifier is built on.
package geom

import "math"

// Point represents a screen coordinate in pixels.
type Point struct {
	X int
	Y int
}

// Pt is a shorthand constructor.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the component-wise sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the displacement vector from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Div returns the point scaled down by n.
func (p Point) Div(n int) Point {
	return Point{X: p.X / n, Y: p.Y / n}
}

// Equal returns true if two points are equal.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Length returns the Euclidean length of p treated as a vector.
func (p Point) Length() float64 {
	return math.Hypot(float64(p.X), float64(p.Y))
}

// Dist returns the Euclidean distance between two points.
// Threshold comparisons (tap radius, hold jitter) use true distance rather
// than the Manhattan approximation so that diagonal jitter is not penalized.
func (p Point) Dist(other Point) float64 {
	return p.Sub(other).Length()
}

// Angle returns the angle of p treated as a vector, in radians, measured
// counter-clockwise from the positive x axis in [0, 2*pi).
// Screen y grows downward, so the y component is negated first.
func (p Point) Angle() float64 {
	a := math.Atan2(float64(-p.Y), float64(p.X))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Dir returns the dominant cardinal direction of p treated as a vector.
// Vertical wins exact diagonal ties.
func (p Point) Dir() Dir {
	ax, ay := abs(p.X), abs(p.Y)
	if ax > ay {
		if p.X > 0 {
			return East
		}
		return West
	}
	if p.Y > 0 {
		return South
	}
	return North
}

// DiagDir returns the diagonal direction of p treated as a vector.
func (p Point) DiagDir() DiagDir {
	if p.X > 0 {
		if p.Y > 0 {
			return SouthEast
		}
		return NorthEast
	}
	if p.Y > 0 {
		return SouthWest
	}
	return NorthWest
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Centroid returns the arithmetic mean of the given points.
// Returns the zero point for an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Div(len(pts))
}

// Rect is a half-open rectangle: Min is inside, Max is outside.
type Rect struct {
	Min Point
	Max Point
}

// NewRect creates a rectangle from two corner coordinates.
func NewRect(x0, y0, x1, y1 int) Rect {
	return Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Empty returns true if the rectangle contains no points.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains returns true if p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// ContainsRect returns true if other lies fully inside r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.Empty() {
		return true
	}
	return other.Min.X >= r.Min.X && other.Max.X <= r.Max.X &&
		other.Min.Y >= r.Min.Y && other.Max.Y <= r.Max.Y
}

// Overlaps returns true if the two rectangles share at least one point.
func (r Rect) Overlaps(other Rect) bool {
	return r.Min.X < other.Max.X && other.Min.X < r.Max.X &&
		r.Min.Y < other.Max.Y && other.Min.Y < r.Max.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
