package touch

import (
	"time"

	"github.com/dshills/inkstorm/internal/geom"
)

// Contact is one physical finger's touch lifecycle from down to up.
// It is owned exclusively by the Tracker; other components receive it as a
// read-only view.
type Contact struct {
	// ID is the tracker-assigned stable identity, unique within the
	// tracker's current epoch.
	ID int

	// Hint is the driver slot the contact arrived on.
	Hint int

	// StartPos and StartTime record the initial Down sample.
	StartPos  geom.Point
	StartTime time.Duration

	// LastPos and LastTime record the most recent sample.
	LastPos  geom.Point
	LastTime time.Duration

	// Pressure is the most recent pressure/area reading.
	Pressure int

	// Positions is the full motion history, first sample included.
	Positions []geom.Point

	// Held is set once a hold gesture has fired for this contact.
	// A held contact produces no further gesture at lift-off.
	Held bool

	// Consumed is set when a compound gesture claimed this contact, so its
	// individual classification cannot also fire.
	Consumed bool
}

// Displacement returns the vector from the start position to the last one.
func (c *Contact) Displacement() geom.Point {
	return c.LastPos.Sub(c.StartPos)
}

// Duration returns how long the contact has been (or was) on the panel.
func (c *Contact) Duration() time.Duration {
	return c.LastTime - c.StartTime
}

// Velocity returns the straight-line speed in pixels per second.
// Returns 0 for zero-duration contacts.
func (c *Contact) Velocity() float64 {
	d := c.Duration()
	if d <= 0 {
		return 0
	}
	return c.Displacement().Length() / d.Seconds()
}

// WithinRadius reports whether every recorded position stayed within the
// given distance of the start position.
func (c *Contact) WithinRadius(radius float64) bool {
	for _, p := range c.Positions {
		if p.Dist(c.StartPos) > radius {
			return false
		}
	}
	return true
}
