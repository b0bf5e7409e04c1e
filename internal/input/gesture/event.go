package gesture

import (
	"fmt"

	"github.com/dshills/inkstorm/internal/geom"
)

// Event is a classified gesture. Events are immutable once constructed and
// consumed exactly once by dispatch.
//
// Which fields are meaningful depends on Kind:
//   - Tap, Hold: Start (the touch point), ContactID
//   - Swipe, Arrow: Dir, Start, End
//   - SlantedSwipe, Corner: Diag, Start, End
//   - Multi*: Dir or Diag plus Starts/Ends per constituent
//   - Pinch, Spread: Axis, Center, Factor
//   - Rotate: Center, Angle (degrees, counter-clockwise positive),
//     QuarterTurns
//   - Cross, Diamond: Center
type Event struct {
	Kind Kind

	Dir  geom.Dir
	Diag geom.DiagDir
	Axis geom.Axis

	Start geom.Point
	End   geom.Point

	Starts []geom.Point
	Ends   []geom.Point

	Center geom.Point

	// Factor is end-separation over start-separation for pinch/spread:
	// below 1 the fingers converged, above 1 they diverged.
	Factor float64

	Angle        float64
	QuarterTurns int

	// ContactID identifies the contact for single-finger gestures.
	ContactID int
}

// Origin returns the point used for region classification and dispatch.
func (e Event) Origin() geom.Point {
	switch e.Kind {
	case KindPinch, KindSpread, KindRotate, KindCross, KindDiamond, KindMultiTap:
		return e.Center
	default:
		if len(e.Starts) > 0 {
			return geom.Centroid(e.Starts)
		}
		return e.Start
	}
}

// String returns a short human-readable description, mirroring how gestures
// appear in debug logs.
func (e Event) String() string {
	switch e.Kind {
	case KindTap, KindHold, KindHoldLong:
		return fmt.Sprintf("%s (%d,%d)", e.Kind, e.Start.X, e.Start.Y)
	case KindSwipe, KindArrow, KindMultiSwipe, KindMultiArrow:
		return fmt.Sprintf("%s %s", e.Kind, e.Dir)
	case KindSlantedSwipe, KindCorner, KindMultiCorner:
		return fmt.Sprintf("%s %s", e.Kind, e.Diag)
	case KindPinch, KindSpread:
		return fmt.Sprintf("%s %s %.2f", e.Kind, e.Axis, e.Factor)
	case KindRotate:
		return fmt.Sprintf("rotate %.0f", e.Angle)
	default:
		return e.Kind.String()
	}
}

// NewTap creates a tap event at p.
func NewTap(p geom.Point, contactID int) Event {
	return Event{Kind: KindTap, Start: p, End: p, ContactID: contactID}
}

// NewHold creates a hold event at p. Long selects the second hold stage.
func NewHold(p geom.Point, contactID int, long bool) Event {
	kind := KindHold
	if long {
		kind = KindHoldLong
	}
	return Event{Kind: kind, Start: p, End: p, ContactID: contactID}
}

// NewSwipe creates a swipe event.
func NewSwipe(dir geom.Dir, start, end geom.Point, contactID int) Event {
	return Event{Kind: KindSwipe, Dir: dir, Start: start, End: end, ContactID: contactID}
}

// NewSlantedSwipe creates a diagonal drag event.
func NewSlantedSwipe(diag geom.DiagDir, start, end geom.Point, contactID int) Event {
	return Event{Kind: KindSlantedSwipe, Diag: diag, Start: start, End: end, ContactID: contactID}
}

// NewArrow creates an arrow (flick) event.
func NewArrow(dir geom.Dir, start, end geom.Point, contactID int) Event {
	return Event{Kind: KindArrow, Dir: dir, Start: start, End: end, ContactID: contactID}
}

// NewCorner creates a corner-stroke event.
func NewCorner(diag geom.DiagDir, start, end geom.Point, contactID int) Event {
	return Event{Kind: KindCorner, Diag: diag, Start: start, End: end, ContactID: contactID}
}
