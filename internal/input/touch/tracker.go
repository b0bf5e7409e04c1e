package touch

import (
	"github.com/google/uuid"
)

// Logger is the minimal logging surface the tracker needs.
// *app.Logger satisfies it; a nil logger disables logging.
type Logger interface {
	Warn(msg string, args ...any)
}

// Stats counts tracker activity since the last reset.
type Stats struct {
	// Samples is the total number of ingested samples.
	Samples uint64
	// Anomalies counts protocol anomalies: samples for unknown contacts,
	// duplicate downs, and regressing timestamps.
	Anomalies uint64
	// Contacts is the number of contacts started.
	Contacts uint64
}

// Tracker maintains the live contact set.
// It is not safe for concurrent use; the event loop owns it exclusively.
type Tracker struct {
	epoch  string
	nextID int
	live   map[int]*Contact // keyed by driver hint
	order  []int            // hints in down order
	stats  Stats
	logger Logger
}

// NewTracker creates an empty tracker.
func NewTracker(logger Logger) *Tracker {
	return &Tracker{
		epoch:  uuid.NewString(),
		nextID: 1,
		live:   make(map[int]*Contact),
		logger: logger,
	}
}

// Epoch returns the identifier of the current tracking epoch.
// Contact ids are unique within an epoch.
func (t *Tracker) Epoch() string {
	return t.epoch
}

// Ingest processes one raw sample.
// The boolean is false when the sample was dropped as a protocol anomaly;
// anomalies are logged and counted, never propagated as failures.
func (t *Tracker) Ingest(s Sample) (LifecycleEvent, bool) {
	t.stats.Samples++

	switch s.Phase {
	case PhaseDown:
		return t.ingestDown(s)
	case PhaseMove:
		return t.ingestMove(s)
	case PhaseUp:
		return t.ingestUp(s)
	default:
		t.anomaly("sample with unknown phase %d dropped", s.Phase)
		return LifecycleEvent{}, false
	}
}

func (t *Tracker) ingestDown(s Sample) (LifecycleEvent, bool) {
	if prev, ok := t.live[s.Hint]; ok {
		// The driver reused a slot without reporting Up. Finalizing the
		// stale contact here would fabricate a lift-off the user never
		// made, so the stale record is discarded instead.
		t.anomaly("down on live slot %d drops stale contact %d", s.Hint, prev.ID)
		t.removeHint(s.Hint)
	}

	c := &Contact{
		ID:        t.nextID,
		Hint:      s.Hint,
		StartPos:  s.Pos,
		StartTime: s.Time,
		LastPos:   s.Pos,
		LastTime:  s.Time,
		Pressure:  s.Pressure,
		Positions: []Position{s.Pos},
	}
	t.nextID++
	t.stats.Contacts++
	t.live[s.Hint] = c
	t.order = append(t.order, s.Hint)

	return LifecycleEvent{Kind: Started, Contact: c}, true
}

func (t *Tracker) ingestMove(s Sample) (LifecycleEvent, bool) {
	c, ok := t.live[s.Hint]
	if !ok {
		t.anomaly("move for unknown slot %d dropped", s.Hint)
		return LifecycleEvent{}, false
	}
	if s.Time < c.LastTime {
		t.anomaly("out-of-order sample for contact %d dropped", c.ID)
		return LifecycleEvent{}, false
	}

	c.LastPos = s.Pos
	c.LastTime = s.Time
	if s.Pressure != 0 {
		c.Pressure = s.Pressure
	}
	c.Positions = append(c.Positions, s.Pos)

	return LifecycleEvent{Kind: Updated, Contact: c}, true
}

func (t *Tracker) ingestUp(s Sample) (LifecycleEvent, bool) {
	c, ok := t.live[s.Hint]
	if !ok {
		t.anomaly("up for unknown slot %d dropped", s.Hint)
		return LifecycleEvent{}, false
	}
	if s.Time < c.LastTime {
		t.anomaly("out-of-order sample for contact %d dropped", c.ID)
		return LifecycleEvent{}, false
	}

	c.LastPos = s.Pos
	c.LastTime = s.Time
	c.Positions = append(c.Positions, s.Pos)
	t.removeHint(s.Hint)

	return LifecycleEvent{Kind: Ended, Contact: c}, true
}

func (t *Tracker) removeHint(hint int) {
	delete(t.live, hint)
	for i, h := range t.order {
		if h == hint {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Get returns the live contact with the given tracker id.
func (t *Tracker) Get(id int) (*Contact, bool) {
	for _, c := range t.live {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Live returns the live contacts in down order.
func (t *Tracker) Live() []*Contact {
	contacts := make([]*Contact, 0, len(t.order))
	for _, hint := range t.order {
		if c, ok := t.live[hint]; ok {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// Count returns the number of live contacts.
func (t *Tracker) Count() int {
	return len(t.live)
}

// Stats returns a copy of the tracker counters.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// Reset drops all live contacts and starts a new epoch.
func (t *Tracker) Reset() {
	t.epoch = uuid.NewString()
	t.nextID = 1
	t.live = make(map[int]*Contact)
	t.order = nil
	t.stats = Stats{}
}

func (t *Tracker) anomaly(msg string, args ...any) {
	t.stats.Anomalies++
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
