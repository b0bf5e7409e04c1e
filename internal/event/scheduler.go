package event

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled timer for cancellation.
type TimerID uint64

// timerEntry is one pending expiration.
// seq breaks ties so that timers due at the same instant fire in the order
// they were scheduled.
type timerEntry struct {
	due     time.Duration
	seq     uint64
	id      TimerID
	payload any
	index   int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler orders timer payloads against a monotonic clock.
// It is not safe for concurrent use; the event loop owns it exclusively.
type Scheduler struct {
	clock   Clock
	heap    timerHeap
	entries map[TimerID]*timerEntry
	nextID  TimerID
	nextSeq uint64
}

// NewScheduler creates a scheduler on the given clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		entries: make(map[TimerID]*timerEntry),
		nextID:  1,
	}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Schedule registers payload to fire after delay. Returns the timer id for
// cancellation.
func (s *Scheduler) Schedule(delay time.Duration, payload any) TimerID {
	e := &timerEntry{
		due:     s.clock.Now() + delay,
		seq:     s.nextSeq,
		id:      s.nextID,
		payload: payload,
	}
	s.nextID++
	s.nextSeq++
	s.entries[e.id] = e
	heap.Push(&s.heap, e)
	return e.id
}

// Cancel removes a pending timer. Cancelling an already-fired or unknown
// timer is a no-op.
func (s *Scheduler) Cancel(id TimerID) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	delete(s.entries, id)
	heap.Remove(&s.heap, e.index)
}

// Due pops every payload whose deadline has passed, in firing order.
func (s *Scheduler) Due() []any {
	now := s.clock.Now()
	var due []any
	for len(s.heap) > 0 && s.heap[0].due <= now {
		e := heap.Pop(&s.heap).(*timerEntry)
		delete(s.entries, e.id)
		due = append(due, e.payload)
	}
	return due
}

// NextDeadline returns the earliest pending deadline.
// The boolean is false when no timers are pending.
func (s *Scheduler) NextDeadline() (time.Duration, bool) {
	if len(s.heap) == 0 {
		return 0, false
	}
	return s.heap[0].due, true
}

// Pending returns the number of timers waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.heap)
}
