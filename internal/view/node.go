package view

import (
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
)

// Action is the opaque application-level command a view returns when it
// consumes a gesture. The dispatch tree never interprets it.
type Action string

// ActionNone is the zero action.
const ActionNone Action = ""

type binding struct {
	kind   gesture.Kind
	region string
}

// Node is one view in the dispatch tree: a bounded, z-ordered surface
// with a capability set of accepted gesture kinds and per-region action
// bindings.
type Node struct {
	Name    string
	Bounds  geom.Rect
	Z       int
	Accepts gesture.KindSet
	Regions RegionMap

	// Modal restricts dispatch to this node's subtree while attached.
	Modal bool

	// Overlay exempts the node from the parent-containment invariant
	// (popups and toasts that escape their opener's bounds).
	Overlay bool

	parent   *Node
	children []*Node
	bindings map[binding]Action
}

// NewNode creates a detached node covering bounds.
func NewNode(name string, bounds geom.Rect) *Node {
	return &Node{
		Name:     name,
		Bounds:   bounds,
		bindings: make(map[binding]Action),
	}
}

// Bind maps a gesture kind in a region to an action and marks the kind
// accepted. Use RegionAny to bind a kind regardless of region. Returns
// the node for chaining.
func (n *Node) Bind(kind gesture.Kind, region string, action Action) *Node {
	if n.bindings == nil {
		n.bindings = make(map[binding]Action)
	}
	n.bindings[binding{kind: kind, region: region}] = action
	n.Accepts = n.Accepts.With(kind)
	return n
}

// ActionFor returns the action bound to (kind, region), falling back to
// the node's RegionAny binding. The second return is false when the node
// does not consume this combination.
func (n *Node) ActionFor(kind gesture.Kind, region string) (Action, bool) {
	if !n.Accepts.Has(kind) {
		return ActionNone, false
	}
	if a, ok := n.bindings[binding{kind: kind, region: region}]; ok {
		return a, true
	}
	if a, ok := n.bindings[binding{kind: kind, region: RegionAny}]; ok {
		return a, true
	}
	return ActionNone, false
}

// Parent returns the node's parent, nil for a detached node or the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in attach order.
func (n *Node) Children() []*Node {
	return n.children
}

// Find returns the first node in this subtree with the given name,
// depth-first, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
