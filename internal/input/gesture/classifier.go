package gesture

import (
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/touch"
)

// Classifier turns one finalized contact history into exactly one gesture.
// Hold detection is timer-driven and lives in the input pipeline; the
// classifier only judges geometry and timing of completed strokes.
type Classifier struct {
	th Thresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

// Thresholds returns the classifier's tuning constants.
func (cl *Classifier) Thresholds() Thresholds {
	return cl.th
}

// Classify interprets a contact's motion history.
// Rules are evaluated in order; ties at a threshold resolve toward the less
// destructive kind (tap over swipe, swipe over arrow).
func (cl *Classifier) Classify(c *touch.Contact) Event {
	disp := c.Displacement()
	dist := disp.Length()

	if dist <= cl.th.TapRadius {
		return NewTap(c.StartPos, c.ID)
	}

	// A stroke whose elbow deviates markedly from the chord is a bend:
	// axis-aligned bends are arrows, diagonal bends are corners.
	if ev, ok := cl.classifyBend(c, dist); ok {
		return ev
	}

	// A straight chord closer to a diagonal than to either axis keeps its
	// diagonal identity instead of being forced onto the dominant axis.
	if cl.diagonal(disp) {
		return NewSlantedSwipe(disp.DiagDir(), c.StartPos, c.LastPos, c.ID)
	}

	dir := disp.Dir()

	// A fast, short, straight stroke is a flick, not a drag.
	if dist > cl.th.ArrowMinDistance && c.Velocity() > cl.th.ArrowVelocity {
		return NewArrow(dir, c.StartPos, c.LastPos, c.ID)
	}

	// Everything else is a swipe with literal endpoints. Below
	// SwipeThreshold consumers treat it as a scroll drag; the kind is the
	// same either way so the tie-break stays trivial.
	return NewSwipe(dir, c.StartPos, c.LastPos, c.ID)
}

// Directional reports whether a swipe clears the directional threshold, or
// should be treated as a scroll drag by consumers that care.
func (cl *Classifier) Directional(ev Event) bool {
	if ev.Kind != KindSwipe && ev.Kind != KindSlantedSwipe {
		return true
	}
	return ev.End.Dist(ev.Start) >= cl.th.SwipeThreshold
}

func (cl *Classifier) classifyBend(c *touch.Contact, chord float64) (Event, bool) {
	if len(c.Positions) < 3 {
		return Event{}, false
	}

	elbow := c.Positions[geom.Elbow(c.Positions)]
	nearest := geom.NearestSegmentPoint(elbow, c.StartPos, c.LastPos)
	dev := elbow.Sub(nearest)

	if dev.Length() <= chord*cl.th.ElbowRatio {
		return Event{}, false
	}

	if cl.diagonal(dev) {
		return NewCorner(dev.DiagDir(), c.StartPos, c.LastPos, c.ID), true
	}
	return NewArrow(dev.Dir(), c.StartPos, c.LastPos, c.ID), true
}

// diagonal reports whether a vector is closer to a diagonal than to either
// axis, per the configured ratio band.
func (cl *Classifier) diagonal(v geom.Point) bool {
	ax := float64(v.X)
	ay := float64(v.Y)
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax == 0 || ay == 0 {
		return false
	}
	g := ax / ay
	return g > cl.th.DiagonalRatio && g < 1/cl.th.DiagonalRatio
}

// HoldStill reports whether a live contact has stayed within hold jitter,
// checked at the middle and end of its history so a wiggle-and-return
// does not count as holding still.
func (cl *Classifier) HoldStill(c *touch.Contact) bool {
	if len(c.Positions) == 0 {
		return false
	}
	last := c.Positions[len(c.Positions)-1]
	mid := c.Positions[len(c.Positions)/2]
	return last.Dist(c.StartPos) < cl.th.HoldJitter &&
		mid.Dist(c.StartPos) < cl.th.HoldJitter
}
