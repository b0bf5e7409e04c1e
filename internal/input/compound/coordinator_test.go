package compound

import (
	"testing"
	"time"

	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/input/touch"
)

var testScreen = geom.NewRect(0, 0, 1404, 1872)

func newCoordinator() *Coordinator {
	return NewCoordinator(gesture.DefaultThresholds(), testScreen)
}

func seg(id int, ev gesture.Event, start, end time.Duration) Segment {
	return Segment{
		Contact: &touch.Contact{
			ID:        id,
			StartPos:  ev.Start,
			LastPos:   ev.End,
			StartTime: start,
			LastTime:  end,
		},
		Event: ev,
	}
}

// pair runs two segments through a coordinator as one simultaneous group.
func pair(co *Coordinator, a, b Segment) []gesture.Event {
	co.ContactDown()
	co.ContactDown()
	if got := co.ContactUp(a); got != nil {
		return got
	}
	return co.ContactUp(b)
}

func TestStateTransitions(t *testing.T) {
	co := newCoordinator()

	if co.State() != StateIdle {
		t.Fatalf("initial state = %s, want idle", co.State())
	}

	co.ContactDown()
	if co.State() != StateTracking {
		t.Errorf("state after down = %s, want tracking", co.State())
	}

	tap := seg(1, gesture.NewTap(geom.Pt(10, 10), 1), 0, 80*time.Millisecond)
	events := co.ContactUp(tap)
	if len(events) != 1 || events[0].Kind != gesture.KindTap {
		t.Fatalf("single contact resolution = %v, want one tap", events)
	}
	if co.State() != StateIdle {
		t.Errorf("state after resolution = %s, want idle", co.State())
	}
}

func TestSpreadNeverTwoSwipes(t *testing.T) {
	co := newCoordinator()

	// Two contacts diverging from their shared centroid within the
	// simultaneity window must resolve to Spread, not two swipes.
	west := seg(1, gesture.NewSwipe(geom.West, geom.Pt(400, 400), geom.Pt(200, 400), 1),
		0, 150*time.Millisecond)
	east := seg(2, gesture.NewSwipe(geom.East, geom.Pt(600, 400), geom.Pt(800, 400), 2),
		50*time.Millisecond, 200*time.Millisecond)

	events := pair(co, west, east)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != gesture.KindSpread {
		t.Fatalf("Kind = %s, want spread", ev.Kind)
	}
	if ev.Axis != geom.Horizontal {
		t.Errorf("Axis = %s, want horizontal", ev.Axis)
	}
	if ev.Factor <= 1 {
		t.Errorf("Factor = %f, want > 1", ev.Factor)
	}
	if !ev.Center.Equal(geom.Pt(500, 400)) {
		t.Errorf("Center = %v, want (500,400)", ev.Center)
	}
}

func TestPinch(t *testing.T) {
	co := newCoordinator()

	left := seg(1, gesture.NewSwipe(geom.East, geom.Pt(200, 400), geom.Pt(450, 400), 1),
		0, 150*time.Millisecond)
	right := seg(2, gesture.NewSwipe(geom.West, geom.Pt(800, 400), geom.Pt(550, 400), 2),
		10*time.Millisecond, 160*time.Millisecond)

	events := pair(co, left, right)
	if len(events) != 1 || events[0].Kind != gesture.KindPinch {
		t.Fatalf("events = %v, want one pinch", events)
	}
	if events[0].Factor >= 1 {
		t.Errorf("Factor = %f, want < 1", events[0].Factor)
	}
}

func TestSlantedPairPinchesAndSpreads(t *testing.T) {
	tests := []struct {
		name string
		a, b gesture.Event
		want gesture.Kind
	}{
		{
			"converging diagonals pinch",
			gesture.NewSlantedSwipe(geom.SouthEast, geom.Pt(300, 300), geom.Pt(500, 500), 1),
			gesture.NewSlantedSwipe(geom.NorthWest, geom.Pt(900, 900), geom.Pt(700, 700), 2),
			gesture.KindPinch,
		},
		{
			"diverging diagonals spread",
			gesture.NewSlantedSwipe(geom.SouthEast, geom.Pt(700, 700), geom.Pt(900, 900), 1),
			gesture.NewSlantedSwipe(geom.NorthWest, geom.Pt(500, 500), geom.Pt(300, 300), 2),
			gesture.KindSpread,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co := newCoordinator()

			events := pair(co,
				seg(1, tt.a, 0, 150*time.Millisecond),
				seg(2, tt.b, 20*time.Millisecond, 170*time.Millisecond))
			if len(events) != 1 || events[0].Kind != tt.want {
				t.Fatalf("events = %v, want one %s", events, tt.want)
			}
			ev := events[0]
			if ev.Axis != geom.Diagonal {
				t.Errorf("Axis = %s, want diagonal", ev.Axis)
			}
			if !ev.Center.Equal(geom.Pt(600, 600)) {
				t.Errorf("Center = %v, want (600,600)", ev.Center)
			}
			if tt.want == gesture.KindPinch && ev.Factor >= 1 {
				t.Errorf("Factor = %f, want < 1", ev.Factor)
			}
			if tt.want == gesture.KindSpread && ev.Factor <= 1 {
				t.Errorf("Factor = %f, want > 1", ev.Factor)
			}
		})
	}
}

func TestSlantedPairSameDirectionFallsBack(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewSlantedSwipe(geom.SouthEast, geom.Pt(100, 100), geom.Pt(300, 300), 1),
		0, 150*time.Millisecond)
	b := seg(2, gesture.NewSlantedSwipe(geom.SouthEast, geom.Pt(600, 600), geom.Pt(800, 800), 2),
		20*time.Millisecond, 170*time.Millisecond)

	events := pair(co, a, b)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 individual slanted swipes", len(events))
	}
}

func TestPerpendicularDivergenceIsSpread(t *testing.T) {
	co := newCoordinator()

	east := seg(1, gesture.NewSwipe(geom.East, geom.Pt(100, 100), geom.Pt(400, 100), 1),
		0, 150*time.Millisecond)
	south := seg(2, gesture.NewSwipe(geom.South, geom.Pt(100, 200), geom.Pt(100, 500), 2),
		20*time.Millisecond, 170*time.Millisecond)

	events := pair(co, east, south)
	if len(events) != 1 || events[0].Kind != gesture.KindSpread {
		t.Fatalf("events = %v, want one spread", events)
	}
	if events[0].Axis != geom.Diagonal {
		t.Errorf("Axis = %s, want diagonal", events[0].Axis)
	}
}

func TestParallelSwipesResolveToMultiSwipe(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewSwipe(geom.East, geom.Pt(50, 400), geom.Pt(250, 400), 1),
		0, 150*time.Millisecond)
	b := seg(2, gesture.NewSwipe(geom.East, geom.Pt(50, 600), geom.Pt(250, 600), 2),
		30*time.Millisecond, 180*time.Millisecond)

	events := pair(co, a, b)
	if len(events) != 1 || events[0].Kind != gesture.KindMultiSwipe {
		t.Fatalf("events = %v, want one multiswipe", events)
	}
	if events[0].Dir != geom.East {
		t.Errorf("Dir = %s, want east", events[0].Dir)
	}
	if len(events[0].Starts) != 2 {
		t.Errorf("Starts = %d points, want 2", len(events[0].Starts))
	}
}

func TestMultiTap(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewTap(geom.Pt(200, 400), 1), 0, 90*time.Millisecond)
	b := seg(2, gesture.NewTap(geom.Pt(600, 400), 2), 10*time.Millisecond, 100*time.Millisecond)

	events := pair(co, a, b)
	if len(events) != 1 || events[0].Kind != gesture.KindMultiTap {
		t.Fatalf("events = %v, want one multitap", events)
	}
	if !events[0].Center.Equal(geom.Pt(400, 400)) {
		t.Errorf("Center = %v, want (400,400)", events[0].Center)
	}
}

func TestCrossAndDiamond(t *testing.T) {
	tests := []struct {
		name     string
		leftDir  geom.Dir
		rightDir geom.Dir
		want     gesture.Kind
	}{
		{"inward arrows form cross", geom.East, geom.West, gesture.KindCross},
		{"outward arrows form diamond", geom.West, geom.East, gesture.KindDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co := newCoordinator()

			leftEnd := geom.Pt(300, 900)
			if tt.leftDir == geom.West {
				leftEnd = geom.Pt(50, 900)
			}
			rightEnd := geom.Pt(1100, 900)
			if tt.rightDir == geom.East {
				rightEnd = geom.Pt(1390, 900)
			}

			left := seg(1, gesture.NewArrow(tt.leftDir, geom.Pt(150, 900), leftEnd, 1),
				0, 100*time.Millisecond)
			right := seg(2, gesture.NewArrow(tt.rightDir, geom.Pt(1250, 900), rightEnd, 2),
				20*time.Millisecond, 120*time.Millisecond)

			events := pair(co, left, right)
			if len(events) != 1 || events[0].Kind != tt.want {
				t.Fatalf("events = %v, want one %s", events, tt.want)
			}
		})
	}
}

func TestCrossRequiresSpatialSeparation(t *testing.T) {
	co := newCoordinator()

	// Opposing arrows from one hand, close together: no cross.
	left := seg(1, gesture.NewArrow(geom.East, geom.Pt(500, 900), geom.Pt(650, 900), 1),
		0, 100*time.Millisecond)
	right := seg(2, gesture.NewArrow(geom.West, geom.Pt(900, 900), geom.Pt(750, 900), 2),
		20*time.Millisecond, 120*time.Millisecond)

	events := pair(co, left, right)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 individual arrows", len(events))
	}
}

func TestRotate(t *testing.T) {
	co := newCoordinator()

	pivot := seg(1, gesture.NewTap(geom.Pt(500, 500), 1), 0, 200*time.Millisecond)
	// Sweep a quarter turn counter-clockwise around the pivot.
	sweep := seg(2, gesture.NewSwipe(geom.North, geom.Pt(700, 500), geom.Pt(500, 300), 2),
		20*time.Millisecond, 220*time.Millisecond)

	events := pair(co, pivot, sweep)
	if len(events) != 1 || events[0].Kind != gesture.KindRotate {
		t.Fatalf("events = %v, want one rotate", events)
	}
	ev := events[0]
	if ev.Angle < 85 || ev.Angle > 95 {
		t.Errorf("Angle = %f, want ~90", ev.Angle)
	}
	if ev.QuarterTurns != 1 {
		t.Errorf("QuarterTurns = %d, want 1", ev.QuarterTurns)
	}
	if !ev.Center.Equal(geom.Pt(500, 500)) {
		t.Errorf("Center = %v, want pivot", ev.Center)
	}
}

func TestRotateSweepFirst(t *testing.T) {
	co := newCoordinator()

	// Same rotation, but the sweeping finger lifts before the pivot.
	sweep := seg(2, gesture.NewSwipe(geom.North, geom.Pt(700, 500), geom.Pt(500, 300), 2),
		20*time.Millisecond, 200*time.Millisecond)
	pivot := seg(1, gesture.NewTap(geom.Pt(500, 500), 1), 0, 220*time.Millisecond)

	events := pair(co, sweep, pivot)
	if len(events) != 1 || events[0].Kind != gesture.KindRotate {
		t.Fatalf("events = %v, want one rotate", events)
	}
}

func TestRotateSuppressedBelowMinAngle(t *testing.T) {
	co := newCoordinator()

	pivot := seg(1, gesture.NewTap(geom.Pt(500, 500), 1), 0, 200*time.Millisecond)
	// A few degrees of angular change: finger noise, not a rotation.
	sweep := seg(2, gesture.NewSwipe(geom.East, geom.Pt(700, 500), geom.Pt(890, 445), 2),
		20*time.Millisecond, 220*time.Millisecond)

	events := pair(co, pivot, sweep)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 individual gestures", len(events))
	}
	// Fallback preserves lift-off order.
	if events[0].Kind != gesture.KindTap || events[1].Kind != gesture.KindSwipe {
		t.Errorf("fallback order = [%s %s], want [tap swipe]", events[0].Kind, events[1].Kind)
	}
}

func TestNonSimultaneousPairFallsBack(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewTap(geom.Pt(100, 100), 1), 0, 80*time.Millisecond)
	b := seg(2, gesture.NewTap(geom.Pt(500, 500), 2), time.Second, time.Second+80*time.Millisecond)

	events := pair(co, a, b)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ContactID != 1 || events[1].ContactID != 2 {
		t.Error("fallback did not preserve arrival order")
	}
}

func TestThreeFingerMultiSwipe(t *testing.T) {
	co := newCoordinator()

	for i := 0; i < 3; i++ {
		co.ContactDown()
	}

	var events []gesture.Event
	for i := 0; i < 3; i++ {
		s := seg(i+1,
			gesture.NewSwipe(geom.South, geom.Pt(200+300*i, 200), geom.Pt(200+300*i, 700), i+1),
			time.Duration(i*20)*time.Millisecond,
			time.Duration(200+i*20)*time.Millisecond)
		events = co.ContactUp(s)
	}

	if len(events) != 1 || events[0].Kind != gesture.KindMultiSwipe {
		t.Fatalf("events = %v, want one multiswipe", events)
	}
	if len(events[0].Starts) != 3 {
		t.Errorf("Starts = %d points, want 3", len(events[0].Starts))
	}
}

func TestMixedTrioFallsBack(t *testing.T) {
	co := newCoordinator()

	for i := 0; i < 3; i++ {
		co.ContactDown()
	}

	co.ContactUp(seg(1, gesture.NewTap(geom.Pt(100, 100), 1), 0, 80*time.Millisecond))
	co.ContactUp(seg(2, gesture.NewSwipe(geom.East, geom.Pt(200, 200), geom.Pt(500, 200), 2),
		10*time.Millisecond, 150*time.Millisecond))
	events := co.ContactUp(seg(3, gesture.NewTap(geom.Pt(300, 300), 3),
		20*time.Millisecond, 100*time.Millisecond))

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []gesture.Kind{gesture.KindTap, gesture.KindSwipe, gesture.KindTap} {
		if events[i].Kind != want {
			t.Errorf("events[%d] = %s, want %s", i, events[i].Kind, want)
		}
	}
}

func TestCompoundMarksContactsConsumed(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewTap(geom.Pt(200, 400), 1), 0, 90*time.Millisecond)
	b := seg(2, gesture.NewTap(geom.Pt(600, 400), 2), 10*time.Millisecond, 100*time.Millisecond)
	pair(co, a, b)

	if !a.Contact.Consumed || !b.Contact.Consumed {
		t.Error("compound resolution did not mark constituents consumed")
	}
}

func TestConsumedContactNeverRefires(t *testing.T) {
	co := newCoordinator()

	// A segment whose contact was already claimed by a resolved group must
	// not dispatch its individual gesture a second time.
	s := seg(1, gesture.NewTap(geom.Pt(10, 10), 1), 0, 80*time.Millisecond)
	s.Contact.Consumed = true

	co.ContactDown()
	if events := co.ContactUp(s); events != nil {
		t.Fatalf("replayed consumed contact produced %v, want nothing", events)
	}
	if co.State() != StateIdle {
		t.Errorf("state = %s, want idle", co.State())
	}
}

func TestFlush(t *testing.T) {
	co := newCoordinator()

	co.ContactDown()
	co.ContactDown()

	first := seg(1, gesture.NewSwipe(geom.East, geom.Pt(100, 100), geom.Pt(400, 100), 1),
		0, 150*time.Millisecond)
	if events := co.ContactUp(first); events != nil {
		t.Fatalf("early resolution = %v, want nil while a contact is live", events)
	}
	if co.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", co.Pending())
	}

	// The resolution window expired; the finished segment dispatches alone.
	events := co.Flush()
	if len(events) != 1 || events[0].Kind != gesture.KindSwipe {
		t.Fatalf("flushed = %v, want the individual swipe", events)
	}
	if co.Pending() != 0 {
		t.Errorf("pending after flush = %d, want 0", co.Pending())
	}
}

func TestMultiCornerPair(t *testing.T) {
	co := newCoordinator()

	a := seg(1, gesture.NewCorner(geom.NorthEast, geom.Pt(100, 400), geom.Pt(400, 700), 1),
		0, 200*time.Millisecond)
	b := seg(2, gesture.NewCorner(geom.NorthEast, geom.Pt(600, 400), geom.Pt(900, 700), 2),
		30*time.Millisecond, 230*time.Millisecond)

	events := pair(co, a, b)
	if len(events) != 1 || events[0].Kind != gesture.KindMultiCorner {
		t.Fatalf("events = %v, want one multicorner", events)
	}
	if events[0].Diag != geom.NorthEast {
		t.Errorf("Diag = %s, want northeast", events[0].Diag)
	}
}
