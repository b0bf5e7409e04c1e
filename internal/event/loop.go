package event

import (
	"context"
	"time"
)

// Handler processes one event on the loop goroutine.
type Handler func(ev any)

// Loop pumps externally posted events and scheduler expirations through a
// single handler, on a single goroutine. The live-contact set and the view
// tree are only touched from that goroutine.
type Loop struct {
	sched   *Scheduler
	handler Handler
	posts   chan any
	done    chan struct{}
}

// NewLoop creates a loop over the given scheduler.
// bufSize bounds how many posted events may queue before Post drops.
func NewLoop(sched *Scheduler, handler Handler, bufSize int) *Loop {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Loop{
		sched:   sched,
		handler: handler,
		posts:   make(chan any, bufSize),
		done:    make(chan struct{}),
	}
}

// Post queues an event from any goroutine.
// Returns false if the queue is full and the event was dropped; input
// producers treat that as a dropped sample, not an error.
func (l *Loop) Post(ev any) bool {
	select {
	case l.posts <- ev:
		return true
	default:
		return false
	}
}

// Schedule registers a timer payload; it will be handled like any other
// event when it expires. Must be called from the loop goroutine.
func (l *Loop) Schedule(delay time.Duration, payload any) TimerID {
	return l.sched.Schedule(delay, payload)
}

// Cancel removes a pending timer. Must be called from the loop goroutine.
func (l *Loop) Cancel(id TimerID) {
	l.sched.Cancel(id)
}

// Run processes events until the context is cancelled or Stop is called.
// Timer expirations are interleaved with posted events in deadline order;
// within one wakeup, all due timers fire before the next posted event.
func (l *Loop) Run(ctx context.Context) {
	idle := time.NewTimer(time.Hour)
	defer idle.Stop()

	for {
		l.fireDue()

		wait := l.resetWait(idle)

		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case ev := <-l.posts:
			l.handler(ev)
		case <-wait:
		}
	}
}

// Stop terminates Run from any goroutine.
func (l *Loop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

func (l *Loop) fireDue() {
	for _, payload := range l.sched.Due() {
		l.handler(payload)
	}
}

// resetWait arms the idle timer for the next scheduler deadline.
func (l *Loop) resetWait(idle *time.Timer) <-chan time.Time {
	if !idle.Stop() {
		select {
		case <-idle.C:
		default:
		}
	}

	deadline, ok := l.sched.NextDeadline()
	if !ok {
		// Nothing scheduled; wake occasionally anyway so a timer
		// scheduled from a handler is never missed for long.
		idle.Reset(time.Hour)
		return idle.C
	}

	delay := deadline - l.sched.Clock().Now()
	if delay < 0 {
		delay = 0
	}
	idle.Reset(delay)
	return idle.C
}
