// Package compound groups concurrent single-finger gesture streams into
// compound gestures: pinch/spread, rotate, cross/diamond, and the
// multi-finger tap/swipe/arrow/corner variants. Streams that fail to align
// fall back to individual dispatch in their original order.
package compound

import (
	"math"
	"time"

	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/input/touch"
)

// State is the coordinator's position in its per-group state machine.
type State uint8

const (
	// StateIdle means no contacts are live and nothing is pending.
	StateIdle State = iota
	// StateTracking means a candidate group is being collected.
	StateTracking
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Segment is one finished contact stream with its individual classification.
type Segment struct {
	Contact *touch.Contact
	Event   gesture.Event
}

// Coordinator resolves groups of concurrent contacts.
// It is not safe for concurrent use; the event loop owns it exclusively.
type Coordinator struct {
	th     gesture.Thresholds
	screen geom.Rect

	live    int
	pending []Segment
}

// NewCoordinator creates a coordinator.
// The screen rectangle is needed for the spatial separation rule of
// cross/diamond detection.
func NewCoordinator(th gesture.Thresholds, screen geom.Rect) *Coordinator {
	return &Coordinator{th: th, screen: screen}
}

// State returns the current group state.
func (co *Coordinator) State() State {
	if co.live == 0 && len(co.pending) == 0 {
		return StateIdle
	}
	return StateTracking
}

// Pending returns how many finished segments await group resolution.
func (co *Coordinator) Pending() int {
	return len(co.pending)
}

// ContactDown notes a new live contact.
func (co *Coordinator) ContactDown() {
	co.live++
}

// ContactDropped notes a contact that ended without producing a segment
// (held contacts and protocol-anomaly replacements). When the dropped
// contact was the last one live, any pending segments resolve now
// instead of waiting out the resolution window.
func (co *Coordinator) ContactDropped() []gesture.Event {
	if co.live > 0 {
		co.live--
	}
	if co.live > 0 || len(co.pending) == 0 {
		return nil
	}
	return co.resolve()
}

// ContactUp feeds a finished segment into the group. When the last live
// contact lifts, the group resolves and the resulting gesture events are
// returned in dispatch order; until then the return is nil.
func (co *Coordinator) ContactUp(seg Segment) []gesture.Event {
	if co.live > 0 {
		co.live--
	}
	// A contact a resolved group already claimed never fires its
	// individual classification, even if its segment is replayed.
	if seg.Contact == nil || !seg.Contact.Consumed {
		co.pending = append(co.pending, seg)
	}

	if co.live > 0 {
		return nil
	}
	return co.resolve()
}

// Flush abandons group resolution and returns the pending segments'
// individual gestures in arrival order. Called when the resolution window
// expires before the remaining contacts lift.
func (co *Coordinator) Flush() []gesture.Event {
	events := make([]gesture.Event, 0, len(co.pending))
	for _, seg := range co.pending {
		events = append(events, seg.Event)
	}
	co.pending = nil
	return events
}

func (co *Coordinator) resolve() []gesture.Event {
	pending := co.pending
	co.pending = nil

	switch len(pending) {
	case 0:
		return nil
	case 1:
		return []gesture.Event{pending[0].Event}
	case 2:
		if ev, ok := co.resolvePair(pending[0], pending[1]); ok {
			consume(pending)
			return []gesture.Event{ev}
		}
	default:
		if ev, ok := co.resolveMany(pending); ok {
			consume(pending)
			return []gesture.Event{ev}
		}
	}

	// No compound matched: dispatch individually, preserving order.
	events := make([]gesture.Event, 0, len(pending))
	for _, seg := range pending {
		events = append(events, seg.Event)
	}
	return events
}

func consume(segments []Segment) {
	for _, seg := range segments {
		if seg.Contact != nil {
			seg.Contact.Consumed = true
		}
	}
}

// simultaneous reports whether two contacts landed within the simultaneity
// window and coexisted for at least the debounce window.
func (co *Coordinator) simultaneous(a, b *touch.Contact) bool {
	if a == nil || b == nil {
		return false
	}
	if skew(a.StartTime, b.StartTime) > co.th.SimultaneityWindow {
		return false
	}
	overlap := minDur(a.LastTime, b.LastTime) - maxDur(a.StartTime, b.StartTime)
	return overlap >= co.th.DebounceWindow
}

// mirrored additionally requires near-simultaneous liftoff, which rotate
// and the two-handed gestures depend on.
func (co *Coordinator) mirrored(a, b *touch.Contact) bool {
	return co.simultaneous(a, b) &&
		skew(a.LastTime, b.LastTime) <= co.th.SimultaneityWindow
}

func skew(a, b time.Duration) time.Duration {
	if a > b {
		return a - b
	}
	return b - a
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDur(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

func (co *Coordinator) resolvePair(first, second Segment) (gesture.Event, bool) {
	if !co.simultaneous(first.Contact, second.Contact) {
		return gesture.Event{}, false
	}

	a, b := first.Event, second.Event

	switch {
	case a.Kind == gesture.KindTap && b.Kind == gesture.KindTap:
		return gesture.Event{
			Kind:   gesture.KindMultiTap,
			Starts: []geom.Point{a.Start, b.Start},
			Center: geom.Centroid([]geom.Point{a.Start, b.Start}),
		}, true

	case a.Kind == gesture.KindSwipe && b.Kind == gesture.KindSwipe:
		return co.resolveSwipePair(a, b)

	case a.Kind == gesture.KindSlantedSwipe && b.Kind == gesture.KindSlantedSwipe:
		return co.resolveSlantedPair(a, b)

	case a.Kind == gesture.KindArrow && b.Kind == gesture.KindArrow:
		return co.resolveArrowPair(first, second)

	case a.Kind == gesture.KindCorner && b.Kind == gesture.KindCorner && a.Diag == b.Diag:
		return gesture.Event{
			Kind:   gesture.KindMultiCorner,
			Diag:   a.Diag,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true

	case a.Kind == gesture.KindTap && isStroke(b.Kind):
		return co.resolveRotate(first, second)

	case b.Kind == gesture.KindTap && isStroke(a.Kind):
		return co.resolveRotate(second, first)
	}

	return gesture.Event{}, false
}

func isStroke(k gesture.Kind) bool {
	return k == gesture.KindSwipe || k == gesture.KindSlantedSwipe ||
		k == gesture.KindArrow || k == gesture.KindCorner
}

func (co *Coordinator) resolveSwipePair(a, b gesture.Event) (gesture.Event, bool) {
	startSep := a.Start.Dist(b.Start)
	endSep := a.End.Dist(b.End)
	if startSep == 0 {
		return gesture.Event{}, false
	}
	factor := endSep / startSep
	center := geom.Centroid([]geom.Point{a.Start, b.Start})

	if a.Dir == b.Dir.Opposite() {
		kind := gesture.KindSpread
		if factor < 1 {
			kind = gesture.KindPinch
		}
		return gesture.Event{
			Kind:   kind,
			Axis:   a.Dir.Axis(),
			Center: center,
			Factor: factor,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true
	}

	if a.Dir == b.Dir {
		return gesture.Event{
			Kind:   gesture.KindMultiSwipe,
			Dir:    a.Dir,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true
	}

	// Perpendicular strokes can still pinch or spread when the contacts
	// clearly converge on, or diverge from, their shared centroid.
	if factor > co.th.DivergenceRatio {
		return gesture.Event{
			Kind:   gesture.KindSpread,
			Axis:   geom.Diagonal,
			Center: center,
			Factor: factor,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true
	}
	if factor < 1/co.th.DivergenceRatio {
		return gesture.Event{
			Kind:   gesture.KindPinch,
			Axis:   geom.Diagonal,
			Center: center,
			Factor: factor,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true
	}

	return gesture.Event{}, false
}

// resolveSlantedPair matches opposing diagonal drags into a pinch or
// spread on the diagonal axis.
func (co *Coordinator) resolveSlantedPair(a, b gesture.Event) (gesture.Event, bool) {
	if a.Diag != b.Diag.Opposite() {
		return gesture.Event{}, false
	}
	startSep := a.Start.Dist(b.Start)
	if startSep == 0 {
		return gesture.Event{}, false
	}
	factor := a.End.Dist(b.End) / startSep

	kind := gesture.KindSpread
	if factor < 1 {
		kind = gesture.KindPinch
	}
	return gesture.Event{
		Kind:   kind,
		Axis:   geom.Diagonal,
		Center: geom.Centroid([]geom.Point{a.Start, b.Start}),
		Factor: factor,
		Starts: []geom.Point{a.Start, b.Start},
		Ends:   []geom.Point{a.End, b.End},
	}, true
}

func (co *Coordinator) resolveArrowPair(first, second Segment) (gesture.Event, bool) {
	a, b := first.Event, second.Event

	if a.Dir == b.Dir {
		return gesture.Event{
			Kind:   gesture.KindMultiArrow,
			Dir:    a.Dir,
			Starts: []geom.Point{a.Start, b.Start},
			Ends:   []geom.Point{a.End, b.End},
		}, true
	}

	if a.Dir.Axis() != geom.Horizontal || b.Dir != a.Dir.Opposite() {
		return gesture.Event{}, false
	}

	// Two-handed gestures need firm alignment in time and space: the
	// hands must land and lift together, and sit on opposite halves of
	// the screen.
	if !co.mirrored(first.Contact, second.Contact) {
		return gesture.Event{}, false
	}
	left, right := a, b
	if right.Start.X < left.Start.X {
		left, right = right, left
	}
	if right.Start.X-left.Start.X <= co.screen.Width()/2 {
		return gesture.Event{}, false
	}

	center := geom.Centroid([]geom.Point{a.Start, a.End, b.Start, b.End})
	kind := gesture.KindDiamond
	if left.Dir == geom.East {
		// Arrows point inward.
		kind = gesture.KindCross
	}
	return gesture.Event{Kind: kind, Center: center}, true
}

func (co *Coordinator) resolveRotate(pivot, sweep Segment) (gesture.Event, bool) {
	if !co.mirrored(pivot.Contact, sweep.Contact) {
		return gesture.Event{}, false
	}

	c := pivot.Event.Start
	angle := angleDegrees(sweep.Event.End.Sub(c)) - angleDegrees(sweep.Event.Start.Sub(c))
	angle = normalizeDegrees(angle)

	// Small angular changes are finger noise, not intent.
	if math.Abs(angle) < co.th.RotateMinAngle {
		return gesture.Event{}, false
	}

	return gesture.Event{
		Kind:         gesture.KindRotate,
		Center:       c,
		Angle:        angle,
		QuarterTurns: int(math.Round(angle / 90)),
	}, true
}

func angleDegrees(v geom.Point) float64 {
	return v.Angle() * 180 / math.Pi
}

// normalizeDegrees maps an angle difference into (-180, 180].
func normalizeDegrees(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a <= -180 {
		a += 360
	}
	return a
}

func (co *Coordinator) resolveMany(segments []Segment) (gesture.Event, bool) {
	first := segments[0]
	for _, seg := range segments[1:] {
		if seg.Event.Kind != first.Event.Kind {
			return gesture.Event{}, false
		}
		if !co.simultaneous(first.Contact, seg.Contact) {
			return gesture.Event{}, false
		}
	}

	starts := make([]geom.Point, 0, len(segments))
	ends := make([]geom.Point, 0, len(segments))
	for _, seg := range segments {
		starts = append(starts, seg.Event.Start)
		ends = append(ends, seg.Event.End)
	}

	switch first.Event.Kind {
	case gesture.KindTap:
		return gesture.Event{
			Kind:   gesture.KindMultiTap,
			Starts: starts,
			Center: geom.Centroid(starts),
		}, true

	case gesture.KindSwipe, gesture.KindArrow:
		kind := gesture.KindMultiSwipe
		if first.Event.Kind == gesture.KindArrow {
			kind = gesture.KindMultiArrow
		}
		for _, seg := range segments[1:] {
			if seg.Event.Dir != first.Event.Dir {
				return gesture.Event{}, false
			}
		}
		return gesture.Event{Kind: kind, Dir: first.Event.Dir, Starts: starts, Ends: ends}, true

	case gesture.KindCorner:
		for _, seg := range segments[1:] {
			if seg.Event.Diag != first.Event.Diag {
				return gesture.Event{}, false
			}
		}
		return gesture.Event{Kind: gesture.KindMultiCorner, Diag: first.Event.Diag, Starts: starts, Ends: ends}, true
	}

	return gesture.Event{}, false
}
