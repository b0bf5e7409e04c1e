// Package input wires the touch tracker, gesture classifier, and
// multi-contact coordinator into one sample-to-gesture pipeline driven by
// the event loop. Hold stages and the multi-contact resolution window are
// scheduled as timers whose expirations flow back through the same loop,
// so all classification state is touched from a single goroutine.
package input

import (
	"time"

	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/compound"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/input/touch"
)

// HoldTimer is the payload of a scheduled hold stage.
type HoldTimer struct {
	ContactID int
	Long      bool
}

// ResolveTimer is the payload of the multi-contact resolution deadline.
type ResolveTimer struct{}

// Pipeline turns raw touch samples into gesture events.
// It is not safe for concurrent use; the event loop owns it exclusively.
type Pipeline struct {
	tracker *touch.Tracker
	cls     *gesture.Classifier
	coord   *compound.Coordinator
	sched   *event.Scheduler
	th      gesture.Thresholds
	emit    func(gesture.Event)

	holds        map[int]event.TimerID // pending hold stage per contact id
	live         map[int]struct{}      // contact ids this pipeline saw start
	resolveID    event.TimerID
	resolveArmed bool
}

// NewPipeline creates a pipeline. Gesture events are delivered through
// emit, on the caller's goroutine, in classification order.
func NewPipeline(th gesture.Thresholds, screen geom.Rect, sched *event.Scheduler, logger touch.Logger, emit func(gesture.Event)) *Pipeline {
	return &Pipeline{
		tracker: touch.NewTracker(logger),
		cls:     gesture.NewClassifier(th),
		coord:   compound.NewCoordinator(th, screen),
		sched:   sched,
		th:      th,
		emit:    emit,
		holds:   make(map[int]event.TimerID),
		live:    make(map[int]struct{}),
	}
}

// Tracker exposes the underlying contact tracker, for stats and resets.
func (p *Pipeline) Tracker() *touch.Tracker {
	return p.tracker
}

// HandleSample ingests one raw driver sample.
func (p *Pipeline) HandleSample(s touch.Sample) {
	ev, ok := p.tracker.Ingest(s)
	if !ok {
		return
	}

	switch ev.Kind {
	case touch.Started:
		p.reconcile()
		c := ev.Contact
		p.live[c.ID] = struct{}{}
		p.coord.ContactDown()
		p.holds[c.ID] = p.scheduleAt(c.StartTime+p.th.HoldDelayShort, HoldTimer{ContactID: c.ID})

	case touch.Updated:
		c := ev.Contact
		if id, ok := p.holds[c.ID]; ok && !c.WithinRadius(p.th.HoldJitter) {
			p.sched.Cancel(id)
			delete(p.holds, c.ID)
		}

	case touch.Ended:
		p.contactEnded(ev.Contact)
	}
}

func (p *Pipeline) contactEnded(c *touch.Contact) {
	p.cancelHold(c.ID)
	delete(p.live, c.ID)

	if c.Held {
		// The hold already consumed this contact; it produces no stroke.
		p.resolved(p.coord.ContactDropped())
		return
	}

	single := p.cls.Classify(c)
	events := p.coord.ContactUp(compound.Segment{Contact: c, Event: single})
	if events != nil {
		p.resolved(events)
		return
	}
	p.armResolve()
}

// HandleTimer processes an expired timer payload. Returns false when the
// payload is not one of the pipeline's timers.
func (p *Pipeline) HandleTimer(payload any) bool {
	switch tm := payload.(type) {
	case HoldTimer:
		p.fireHold(tm)
		return true
	case ResolveTimer:
		p.resolveArmed = false
		p.emitAll(p.coord.Flush())
		return true
	}
	return false
}

// fireHold validates and emits a hold stage. The contact must still be
// down, alone in its group, and within the hold jitter of its start.
// Finished segments awaiting resolution count as company: the contact is
// part of a multi-finger group, not a lone press.
func (p *Pipeline) fireHold(tm HoldTimer) {
	delete(p.holds, tm.ContactID)

	c, ok := p.tracker.Get(tm.ContactID)
	if !ok {
		return
	}
	if p.tracker.Count() > 1 || p.coord.Pending() > 0 || !p.cls.HoldStill(c) {
		return
	}

	c.Held = true
	p.emit(gesture.NewHold(c.StartPos, c.ID, tm.Long))

	if !tm.Long {
		p.holds[c.ID] = p.scheduleAt(c.StartTime+p.th.HoldDelayLong,
			HoldTimer{ContactID: c.ID, Long: true})
	}
}

// reconcile drops pipeline state for contacts the tracker discarded on a
// protocol anomaly, so the coordinator's live count stays honest.
func (p *Pipeline) reconcile() {
	for id := range p.live {
		if _, ok := p.tracker.Get(id); ok {
			continue
		}
		p.cancelHold(id)
		delete(p.live, id)
		p.resolved(p.coord.ContactDropped())
	}
}

// resolved cancels the resolution deadline and emits a finished group.
func (p *Pipeline) resolved(events []gesture.Event) {
	if events == nil {
		return
	}
	if p.resolveArmed {
		p.sched.Cancel(p.resolveID)
		p.resolveArmed = false
	}
	p.emitAll(events)
}

func (p *Pipeline) armResolve() {
	if p.resolveArmed {
		return
	}
	p.resolveID = p.sched.Schedule(p.th.ResolutionWindow, ResolveTimer{})
	p.resolveArmed = true
}

func (p *Pipeline) cancelHold(id int) {
	if timerID, ok := p.holds[id]; ok {
		p.sched.Cancel(timerID)
		delete(p.holds, id)
	}
}

func (p *Pipeline) emitAll(events []gesture.Event) {
	for _, ev := range events {
		p.emit(ev)
	}
}

func (p *Pipeline) scheduleAt(due time.Duration, payload any) event.TimerID {
	delay := due - p.sched.Clock().Now()
	if delay < 0 {
		delay = 0
	}
	return p.sched.Schedule(delay, payload)
}
