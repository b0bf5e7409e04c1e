// Package touch ingests raw touch-panel samples and maintains the live set
// of contacts, assigning stable identities across samples. Hardware contact
// ids may be reused between touches, so the tracker never exposes them
// directly: every physical finger gets a tracker-assigned id for its
// lifetime.
package touch

import (
	"time"

	"github.com/dshills/inkstorm/internal/geom"
)

// Phase is the lifecycle phase reported by the touch driver for a sample.
type Phase uint8

const (
	// PhaseDown is the first sample of a new contact.
	PhaseDown Phase = iota
	// PhaseMove is a position update for a live contact.
	PhaseMove
	// PhaseUp is the final sample of a contact.
	PhaseUp
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	default:
		return "unknown"
	}
}

// Sample is one raw reading from the touch panel.
// Hint is the driver's contact slot; it is only unique among concurrently
// live contacts. Time is a monotonic offset from the event loop's clock.
type Sample struct {
	Hint     int
	Phase    Phase
	Pos      Position
	Pressure int
	Time     time.Duration
}

// Position aliases the geometry point type for readability at call sites.
type Position = geom.Point

// LifecycleKind identifies what happened to a contact on ingestion.
type LifecycleKind uint8

const (
	// Started indicates a new contact was created.
	Started LifecycleKind = iota
	// Updated indicates an existing contact moved.
	Updated
	// Ended indicates a contact lifted off.
	Ended
)

// String returns a string representation of the lifecycle kind.
func (k LifecycleKind) String() string {
	switch k {
	case Started:
		return "started"
	case Updated:
		return "updated"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// LifecycleEvent is the tracker's answer to an ingested sample.
// Contact is a read-only view owned by the tracker; callers must not
// mutate it. For Ended events the contact carries its full motion history.
type LifecycleEvent struct {
	Kind    LifecycleKind
	Contact *Contact
}
