package input

import (
	"testing"
	"time"

	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/input/touch"
)

type harness struct {
	clock  *event.ManualClock
	sched  *event.Scheduler
	pipe   *Pipeline
	events []gesture.Event
}

func newHarness() *harness {
	h := &harness{clock: event.NewManualClock()}
	h.sched = event.NewScheduler(h.clock)
	h.pipe = NewPipeline(gesture.DefaultThresholds(), geom.NewRect(0, 0, 1404, 1872),
		h.sched, nil, func(ev gesture.Event) {
			h.events = append(h.events, ev)
		})
	return h
}

// advance moves the clock and fires every timer that came due.
func (h *harness) advance(to time.Duration) {
	h.clock.Set(to)
	for _, payload := range h.sched.Due() {
		h.pipe.HandleTimer(payload)
	}
}

func (h *harness) sample(hint int, phase touch.Phase, x, y int, at time.Duration) {
	h.advance(at)
	h.pipe.HandleSample(touch.Sample{Hint: hint, Phase: phase, Pos: geom.Pt(x, y), Time: at})
}

func (h *harness) kinds() []gesture.Kind {
	kinds := make([]gesture.Kind, 0, len(h.events))
	for _, ev := range h.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestPipelineTap(t *testing.T) {
	h := newHarness()

	h.sample(1, touch.PhaseDown, 10, 500, 0)
	h.sample(1, touch.PhaseUp, 10, 500, 80*time.Millisecond)

	if len(h.events) != 1 || h.events[0].Kind != gesture.KindTap {
		t.Fatalf("events = %v, want one tap", h.kinds())
	}

	// The cancelled hold timer must never fire.
	h.advance(2 * time.Second)
	if len(h.events) != 1 {
		t.Errorf("events after idle = %v, want unchanged", h.kinds())
	}
}

func TestPipelineHoldFiresWithoutUp(t *testing.T) {
	h := newHarness()
	th := gesture.DefaultThresholds()

	h.sample(1, touch.PhaseDown, 500, 500, 0)

	// The short stage fires at its threshold with the finger still down.
	h.advance(th.HoldDelayShort)
	if len(h.events) != 1 || h.events[0].Kind != gesture.KindHold {
		t.Fatalf("events = %v, want one hold at the short threshold", h.kinds())
	}

	h.advance(th.HoldDelayLong)
	if len(h.events) != 2 || h.events[1].Kind != gesture.KindHoldLong {
		t.Fatalf("events = %v, want a long hold as the second stage", h.kinds())
	}

	// Lift-off after both stages adds nothing.
	h.sample(1, touch.PhaseUp, 500, 500, th.HoldDelayLong+100*time.Millisecond)
	if len(h.events) != 2 {
		t.Errorf("events = %v, want no gesture from the held lift-off", h.kinds())
	}
}

func TestPipelineHoldSuppressesLaterSwipe(t *testing.T) {
	h := newHarness()
	th := gesture.DefaultThresholds()

	h.sample(1, touch.PhaseDown, 500, 500, 0)
	h.advance(th.HoldDelayShort)
	if len(h.events) != 1 || h.events[0].Kind != gesture.KindHold {
		t.Fatalf("events = %v, want one hold", h.kinds())
	}

	// Dragging away after the hold fired neither produces a swipe nor a
	// long hold; the contact is spent.
	h.sample(1, touch.PhaseMove, 500, 1200, th.HoldDelayShort+100*time.Millisecond)
	h.sample(1, touch.PhaseUp, 500, 1300, th.HoldDelayShort+250*time.Millisecond)
	h.advance(3 * time.Second)

	if len(h.events) != 1 {
		t.Errorf("events = %v, want the hold alone", h.kinds())
	}
}

func TestPipelineHoldYieldsToPendingGroupmate(t *testing.T) {
	h := newHarness()
	th := gesture.DefaultThresholds()

	// A quick tap lifts while a second finger stays planted. The still
	// finger is part of a two-finger group, not a lone press, so its hold
	// stage stays quiet while the tap awaits group resolution.
	h.sample(1, touch.PhaseDown, 300, 300, 0)
	h.sample(2, touch.PhaseDown, 700, 700, 20*time.Millisecond)
	h.sample(1, touch.PhaseUp, 300, 300, 250*time.Millisecond)

	h.advance(20*time.Millisecond + th.HoldDelayShort)
	if len(h.events) != 0 {
		t.Fatalf("events = %v, want none at the hold deadline", h.kinds())
	}

	// The resolution window expires first: the finished tap dispatches
	// alone, and the remaining finger later lifts as its own tap.
	h.advance(250*time.Millisecond + th.ResolutionWindow)
	h.sample(2, touch.PhaseUp, 700, 700, 900*time.Millisecond)

	if len(h.events) != 2 {
		t.Fatalf("events = %v, want two taps", h.kinds())
	}
	for i, ev := range h.events {
		if ev.Kind != gesture.KindTap {
			t.Errorf("events[%d] = %s, want tap", i, ev.Kind)
		}
	}
}

func TestPipelineMovementCancelsHold(t *testing.T) {
	h := newHarness()
	th := gesture.DefaultThresholds()

	h.sample(1, touch.PhaseDown, 100, 100, 0)
	h.sample(1, touch.PhaseMove, 100, 400, 100*time.Millisecond)

	h.advance(th.HoldDelayShort + time.Millisecond)
	if len(h.events) != 0 {
		t.Fatalf("events = %v, want none; movement should cancel the hold", h.kinds())
	}

	h.sample(1, touch.PhaseUp, 100, 500, 700*time.Millisecond)
	if len(h.events) != 1 || h.events[0].Kind != gesture.KindSwipe {
		t.Fatalf("events = %v, want one swipe", h.kinds())
	}
	if h.events[0].Dir != geom.South {
		t.Errorf("Dir = %s, want south", h.events[0].Dir)
	}
}

func TestPipelineSpreadEndToEnd(t *testing.T) {
	h := newHarness()

	h.sample(1, touch.PhaseDown, 400, 400, 0)
	h.sample(2, touch.PhaseDown, 600, 400, 30*time.Millisecond)
	h.sample(1, touch.PhaseMove, 200, 400, 150*time.Millisecond)
	h.sample(2, touch.PhaseMove, 800, 400, 160*time.Millisecond)
	h.sample(1, touch.PhaseUp, 200, 400, 200*time.Millisecond)
	h.sample(2, touch.PhaseUp, 800, 400, 230*time.Millisecond)

	if len(h.events) != 1 || h.events[0].Kind != gesture.KindSpread {
		t.Fatalf("events = %v, want exactly one spread", h.kinds())
	}

	// The resolution deadline was cancelled by the early resolution.
	h.advance(5 * time.Second)
	if len(h.events) != 1 {
		t.Errorf("events after idle = %v, want unchanged", h.kinds())
	}
}

func TestPipelineResolutionTimeout(t *testing.T) {
	h := newHarness()
	th := gesture.DefaultThresholds()

	h.sample(1, touch.PhaseDown, 100, 100, 0)
	h.sample(2, touch.PhaseDown, 800, 800, 50*time.Millisecond)
	h.sample(1, touch.PhaseMove, 400, 100, 100*time.Millisecond)
	h.sample(1, touch.PhaseUp, 450, 100, 150*time.Millisecond)

	if len(h.events) != 0 {
		t.Fatalf("events = %v, want none while the second finger is down", h.kinds())
	}

	// The second finger never lifts; the window expires and the finished
	// swipe dispatches alone.
	h.advance(150*time.Millisecond + th.ResolutionWindow)
	if len(h.events) != 1 || h.events[0].Kind != gesture.KindSwipe {
		t.Fatalf("events = %v, want the individual swipe", h.kinds())
	}
	if h.events[0].Dir != geom.East {
		t.Errorf("Dir = %s, want east", h.events[0].Dir)
	}
}

func TestPipelineDropsAnomalies(t *testing.T) {
	h := newHarness()

	h.sample(7, touch.PhaseUp, 100, 100, 0)
	h.sample(7, touch.PhaseMove, 100, 100, 10*time.Millisecond)

	if len(h.events) != 0 {
		t.Fatalf("events = %v, want none from orphan samples", h.kinds())
	}
	if got := h.pipe.Tracker().Stats().Anomalies; got != 2 {
		t.Errorf("anomalies = %d, want 2", got)
	}
}

func TestPipelineSlotReuseRecovers(t *testing.T) {
	h := newHarness()

	// The driver reuses slot 1 without reporting Up. The stale contact is
	// discarded and the fresh one must still classify normally.
	h.sample(1, touch.PhaseDown, 100, 100, 0)
	h.sample(1, touch.PhaseDown, 300, 300, 100*time.Millisecond)
	h.sample(1, touch.PhaseUp, 300, 300, 180*time.Millisecond)

	if len(h.events) != 1 || h.events[0].Kind != gesture.KindTap {
		t.Fatalf("events = %v, want one tap from the replacement contact", h.kinds())
	}
	if !h.events[0].Start.Equal(geom.Pt(300, 300)) {
		t.Errorf("Start = %v, want the replacement's position", h.events[0].Start)
	}
}
