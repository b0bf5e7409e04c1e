package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks input and dispatch activity.
type Metrics struct {
	samples    atomic.Uint64
	gestures   atomic.Uint64
	consumed   atomic.Uint64
	unhandled  atomic.Uint64
	frames     atomic.Uint64
	pageTurns  atomic.Uint64
	luaHooks   atomic.Uint64
	actionErrs atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordSample counts one ingested touch sample.
func (m *Metrics) RecordSample() { m.samples.Add(1) }

// RecordGesture counts one classified gesture.
func (m *Metrics) RecordGesture() { m.gestures.Add(1) }

// RecordDispatch counts a dispatch outcome.
func (m *Metrics) RecordDispatch(consumed bool) {
	if consumed {
		m.consumed.Add(1)
	} else {
		m.unhandled.Add(1)
	}
}

// RecordFrame counts one frame submitted to the render pipeline.
func (m *Metrics) RecordFrame() { m.frames.Add(1) }

// RecordPageTurn counts one page navigation.
func (m *Metrics) RecordPageTurn() { m.pageTurns.Add(1) }

// RecordHook counts one Lua hook invocation.
func (m *Metrics) RecordHook() { m.luaHooks.Add(1) }

// RecordActionError counts one failed action execution.
func (m *Metrics) RecordActionError() { m.actionErrs.Add(1) }

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Samples      uint64
	Gestures     uint64
	Consumed     uint64
	Unhandled    uint64
	Frames       uint64
	PageTurns    uint64
	LuaHooks     uint64
	ActionErrors uint64
	Uptime       time.Duration
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Samples:      m.samples.Load(),
		Gestures:     m.gestures.Load(),
		Consumed:     m.consumed.Load(),
		Unhandled:    m.unhandled.Load(),
		Frames:       m.frames.Load(),
		PageTurns:    m.pageTurns.Load(),
		LuaHooks:     m.luaHooks.Load(),
		ActionErrors: m.actionErrs.Load(),
		Uptime:       time.Since(m.startTime),
	}
}
