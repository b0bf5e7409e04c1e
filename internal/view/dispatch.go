package view

import (
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
)

// Status is the outcome of a dispatch.
type Status uint8

const (
	// StatusConsumed means a view returned an action for the gesture.
	StatusConsumed Status = iota
	// StatusUnhandled means no view in scope had a binding. Not an
	// error; most regions have no binding for most gesture kinds.
	StatusUnhandled
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusConsumed:
		return "consumed"
	case StatusUnhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Result is the outcome of dispatching one gesture.
type Result struct {
	Status Status
	Action Action
	Region string

	// Node is the consuming view, nil when unhandled.
	Node *Node
}

// Consumed reports whether a view consumed the gesture.
func (r Result) Consumed() bool {
	return r.Status == StatusConsumed
}

// Snapshot is an immutable flattening of the dispatch scope, top-down.
type Snapshot struct {
	nodes []*Node
}

// At returns the nodes covering p, topmost first.
func (s *Snapshot) At(p geom.Point) []*Node {
	var hits []*Node
	for _, n := range s.nodes {
		if n.Bounds.Contains(p) {
			hits = append(hits, n)
		}
	}
	return hits
}

// RegionAt classifies p against the region map of the topmost node
// covering it that declares one. Nodes without a layout delegate to the
// surface beneath them; points no declared region covers classify as
// RegionBody.
func (s *Snapshot) RegionAt(p geom.Point) string {
	for _, n := range s.nodes {
		if len(n.Regions) > 0 && n.Bounds.Contains(p) {
			return n.Regions.Classify(p)
		}
	}
	return RegionBody
}

// Dispatch routes a gesture through the snapshot with capture semantics:
// the walk starts at the topmost node covering the gesture origin and
// stops at the first node that accepts the gesture's kind and has a
// binding for its region. Nothing bubbles past a consumer; a gesture
// gets exactly one response or none.
func (s *Snapshot) Dispatch(ev gesture.Event) Result {
	origin := ev.Origin()
	region := s.RegionAt(origin)

	for _, n := range s.nodes {
		if !n.Bounds.Contains(origin) {
			continue
		}
		if action, ok := n.ActionFor(ev.Kind, region); ok {
			return Result{Status: StatusConsumed, Action: action, Region: region, Node: n}
		}
	}
	return Result{Status: StatusUnhandled, Region: region}
}

// Dispatch snapshots the tree, routes the gesture, and then applies any
// mutations the consumer queued. When a modal view is active the walk is
// restricted to its subtree.
func (t *Tree) Dispatch(ev gesture.Event) Result {
	snap := t.Snapshot()

	t.dispatching = true
	res := snap.Dispatch(ev)
	t.dispatching = false

	t.applyQueued()
	return res
}
