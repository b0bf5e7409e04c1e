package touch

import (
	"testing"
	"time"

	"github.com/dshills/inkstorm/internal/geom"
)

func sample(hint int, phase Phase, x, y int, at time.Duration) Sample {
	return Sample{Hint: hint, Phase: phase, Pos: geom.Pt(x, y), Time: at}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseDown, "down"},
		{PhaseMove, "move"},
		{PhaseUp, "up"},
		{Phase(9), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.expected {
				t.Errorf("Phase.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker(nil)

	ev, ok := tr.Ingest(sample(3, PhaseDown, 100, 200, 0))
	if !ok || ev.Kind != Started {
		t.Fatalf("down: got (%v, %v), want Started", ev.Kind, ok)
	}
	id := ev.Contact.ID

	ev, ok = tr.Ingest(sample(3, PhaseMove, 110, 210, 10*time.Millisecond))
	if !ok || ev.Kind != Updated {
		t.Fatalf("move: got (%v, %v), want Updated", ev.Kind, ok)
	}
	if ev.Contact.ID != id {
		t.Errorf("move changed id: %d -> %d", id, ev.Contact.ID)
	}

	ev, ok = tr.Ingest(sample(3, PhaseUp, 120, 220, 20*time.Millisecond))
	if !ok || ev.Kind != Ended {
		t.Fatalf("up: got (%v, %v), want Ended", ev.Kind, ok)
	}
	if len(ev.Contact.Positions) != 3 {
		t.Errorf("history length = %d, want 3", len(ev.Contact.Positions))
	}
	if tr.Count() != 0 {
		t.Errorf("live count after up = %d, want 0", tr.Count())
	}
}

func TestTrackerNeverReportsUnknown(t *testing.T) {
	tr := NewTracker(nil)

	// Move and Up for a slot that never went Down must be dropped.
	if _, ok := tr.Ingest(sample(7, PhaseMove, 0, 0, 0)); ok {
		t.Error("move for unknown slot was not dropped")
	}
	if _, ok := tr.Ingest(sample(7, PhaseUp, 0, 0, 0)); ok {
		t.Error("up for unknown slot was not dropped")
	}
	if got := tr.Stats().Anomalies; got != 2 {
		t.Errorf("anomalies = %d, want 2", got)
	}
}

func TestTrackerSlotReuse(t *testing.T) {
	tr := NewTracker(nil)

	first, _ := tr.Ingest(sample(1, PhaseDown, 10, 10, 0))
	tr.Ingest(sample(1, PhaseUp, 10, 10, 50*time.Millisecond))

	// Same driver slot, new physical finger: must get a fresh id.
	second, _ := tr.Ingest(sample(1, PhaseDown, 500, 500, 1*time.Second))
	if second.Contact.ID == first.Contact.ID {
		t.Error("reused slot joined two physical touches")
	}
}

func TestTrackerDuplicateDown(t *testing.T) {
	tr := NewTracker(nil)

	tr.Ingest(sample(1, PhaseDown, 10, 10, 0))
	ev, ok := tr.Ingest(sample(1, PhaseDown, 20, 20, 10*time.Millisecond))
	if !ok || ev.Kind != Started {
		t.Fatal("duplicate down should start a fresh contact")
	}
	if tr.Count() != 1 {
		t.Errorf("live count = %d, want 1", tr.Count())
	}
	if tr.Stats().Anomalies != 1 {
		t.Errorf("anomalies = %d, want 1", tr.Stats().Anomalies)
	}
}

func TestTrackerOutOfOrderTimestamp(t *testing.T) {
	tr := NewTracker(nil)

	tr.Ingest(sample(1, PhaseDown, 10, 10, 100*time.Millisecond))
	if _, ok := tr.Ingest(sample(1, PhaseMove, 20, 20, 50*time.Millisecond)); ok {
		t.Error("regressing timestamp was not dropped")
	}

	// The contact is still live and usable.
	if _, ok := tr.Ingest(sample(1, PhaseMove, 20, 20, 150*time.Millisecond)); !ok {
		t.Error("valid move after anomaly was dropped")
	}
}

func TestTrackerLiveOrder(t *testing.T) {
	tr := NewTracker(nil)

	tr.Ingest(sample(2, PhaseDown, 0, 0, 0))
	tr.Ingest(sample(5, PhaseDown, 0, 0, 10*time.Millisecond))
	tr.Ingest(sample(9, PhaseDown, 0, 0, 20*time.Millisecond))
	tr.Ingest(sample(5, PhaseUp, 0, 0, 30*time.Millisecond))

	live := tr.Live()
	if len(live) != 2 {
		t.Fatalf("live = %d contacts, want 2", len(live))
	}
	if live[0].Hint != 2 || live[1].Hint != 9 {
		t.Errorf("live order = [%d %d], want [2 9]", live[0].Hint, live[1].Hint)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(nil)
	epoch := tr.Epoch()

	tr.Ingest(sample(1, PhaseDown, 0, 0, 0))
	tr.Reset()

	if tr.Count() != 0 {
		t.Error("reset did not clear live contacts")
	}
	if tr.Epoch() == epoch {
		t.Error("reset did not start a new epoch")
	}
}

func TestContactHelpers(t *testing.T) {
	tr := NewTracker(nil)
	tr.Ingest(sample(1, PhaseDown, 100, 100, 0))
	tr.Ingest(sample(1, PhaseMove, 100, 300, 100*time.Millisecond))
	ev, _ := tr.Ingest(sample(1, PhaseUp, 100, 500, 200*time.Millisecond))

	c := ev.Contact
	if got := c.Displacement(); !got.Equal(geom.Pt(0, 400)) {
		t.Errorf("Displacement = %v, want (0,400)", got)
	}
	if got := c.Duration(); got != 200*time.Millisecond {
		t.Errorf("Duration = %v, want 200ms", got)
	}
	if got := c.Velocity(); got != 2000 {
		t.Errorf("Velocity = %f px/s, want 2000", got)
	}
	if c.WithinRadius(100) {
		t.Error("WithinRadius(100) = true for a 400px stroke")
	}
	if !c.WithinRadius(500) {
		t.Error("WithinRadius(500) = false for a 400px stroke")
	}
}
