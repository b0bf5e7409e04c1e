package geom

// Stroke helpers used by the gesture classifier to tell a straight drag
// from a bent one.

// Elbow returns the index of the point with the largest perpendicular
// deviation from the chord joining the first and last points.
// Returns 0 for strokes shorter than three points.
func Elbow(pts []Point) int {
	if len(pts) < 3 {
		return 0
	}
	a, b := pts[0], pts[len(pts)-1]
	best, bestDist := 0, 0.0
	for i, p := range pts {
		d := DistToSegment(p, a, b)
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// DistToSegment returns the distance from p to the segment [a, b].
func DistToSegment(p, a, b Point) float64 {
	n := NearestSegmentPoint(p, a, b)
	return p.Dist(n)
}

// NearestSegmentPoint returns the point on the segment [a, b] closest to p.
func NearestSegmentPoint(p, a, b Point) Point {
	ab := b.Sub(a)
	lenSq := float64(ab.X*ab.X + ab.Y*ab.Y)
	if lenSq == 0 {
		return a
	}
	ap := p.Sub(a)
	t := float64(ap.X*ab.X+ap.Y*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Pt(a.X+int(t*float64(ab.X)), a.Y+int(t*float64(ab.Y)))
}
