package view

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotAttached is returned when removing a node the tree does not hold.
var ErrNotAttached = errors.New("view: node is not attached")

// Logger is the slice of the application logger the tree needs for
// reporting degraded invariants.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Tree is the view hierarchy rooted at the screen. It is owned
// exclusively by the event loop; structural mutation outside a dispatch
// cycle goes through Attach/Remove, and mutation triggered by a consumed
// action goes through Queue so it lands after the current dispatch
// returns.
type Tree struct {
	root   *Node
	modals []*Node
	logger Logger

	// strict fails fast on invariant violations instead of degrading.
	strict bool

	dispatching bool
	queued      []func(*Tree)
}

// NewTree creates a tree over the given root, typically a node covering
// the whole screen.
func NewTree(root *Node) *Tree {
	return &Tree{root: root, logger: nopLogger{}}
}

// SetLogger installs the logger used for degraded-invariant reports.
func (t *Tree) SetLogger(l Logger) {
	if l != nil {
		t.logger = l
	}
}

// SetStrict makes invariant violations panic instead of degrading.
// Intended for tests and debug builds.
func (t *Tree) SetStrict(strict bool) {
	t.strict = strict
}

// Root returns the tree root.
func (t *Tree) Root() *Node {
	return t.root
}

// Modal returns the active modal node, or nil when the tree is in its
// normal state. With several modals attached the most recent wins.
func (t *Tree) Modal() *Node {
	if len(t.modals) == 0 {
		return nil
	}
	return t.modals[len(t.modals)-1]
}

// Attach places child under parent. A child whose bounds escape the
// parent must be flagged Overlay; otherwise the containment invariant is
// violated: strict trees panic, release trees log and attach anyway. A
// modal child while another modal is active degrades the same way, with
// the newcomer taking over dispatch.
func (t *Tree) Attach(parent, child *Node) {
	if !child.Overlay && !parent.Bounds.ContainsRect(child.Bounds) {
		t.violation(fmt.Sprintf("child %q bounds %v escape parent %q bounds %v",
			child.Name, child.Bounds, parent.Name, parent.Bounds))
	}
	if child.Modal && t.Modal() != nil {
		t.violation(fmt.Sprintf("modal %q attached while %q is modal",
			child.Name, t.Modal().Name))
	}

	child.parent = parent
	parent.children = append(parent.children, child)
	if child.Modal {
		t.modals = append(t.modals, child)
	}
}

// Remove detaches node from its parent. Removing the active modal
// returns the tree to the previous modal, or to normal dispatch.
func (t *Tree) Remove(node *Node) error {
	p := node.parent
	if p == nil {
		return ErrNotAttached
	}
	for i, c := range p.children {
		if c == node {
			p.children = append(p.children[:i], p.children[i+1:]...)
			node.parent = nil
			t.unmodal(node)
			return nil
		}
	}
	return ErrNotAttached
}

func (t *Tree) unmodal(node *Node) {
	for i, m := range t.modals {
		if m == node {
			t.modals = append(t.modals[:i], t.modals[i+1:]...)
			return
		}
	}
}

// Queue defers a mutation until the current dispatch cycle finishes.
// Outside a dispatch the mutation runs immediately. This is how consumed
// actions open and close views without invalidating the walk in flight.
func (t *Tree) Queue(fn func(*Tree)) {
	if t.dispatching {
		t.queued = append(t.queued, fn)
		return
	}
	fn(t)
}

func (t *Tree) applyQueued() {
	for len(t.queued) > 0 {
		queued := t.queued
		t.queued = nil
		for _, fn := range queued {
			fn(t)
		}
	}
}

func (t *Tree) violation(msg string) {
	if t.strict {
		panic("view: " + msg)
	}
	t.logger.Warn("view invariant degraded: %s", msg)
}

// Snapshot captures the current dispatch scope as a flat, top-down node
// list. The snapshot is unaffected by later tree mutation, so a dispatch
// in flight never observes a half-applied change.
func (t *Tree) Snapshot() *Snapshot {
	scope := t.root
	if m := t.Modal(); m != nil {
		scope = m
	}

	var flat []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		flat = append(flat, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(scope)

	// Reverse so that, at equal z, children and later siblings sit above
	// their parents and earlier siblings; the stable sort keeps that.
	for i, j := 0, len(flat)-1; i < j; i, j = i+1, j-1 {
		flat[i], flat[j] = flat[j], flat[i]
	}
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Z > flat[j].Z
	})

	return &Snapshot{nodes: flat}
}
