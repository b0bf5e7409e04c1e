// Package view implements the hierarchical dispatch tree that routes
// classified gestures to consuming views. Views are rectangular, possibly
// overlapping, z-ordered nodes; each declares which gesture kinds it accepts
// and a named region layout that gives the same gesture different meaning by
// location.
package view

import "github.com/dshills/inkstorm/internal/geom"

// Well-known region names used by the default reader layout.
const (
	// RegionBody is returned when no declared region covers a point.
	RegionBody = "body"

	// RegionAny matches every region in a binding lookup.
	RegionAny = "*"

	RegionCenter     = "center"
	RegionNorthStrip = "north-strip"
	RegionSouthStrip = "south-strip"
	RegionWestStrip  = "west-strip"
	RegionEastStrip  = "east-strip"

	RegionNorthWestCorner = "northwest-corner"
	RegionNorthEastCorner = "northeast-corner"
	RegionSouthEastCorner = "southeast-corner"
	RegionSouthWestCorner = "southwest-corner"
)

// Region is one named zone of a view's surface.
type Region struct {
	Name string
	Rect geom.Rect
}

// RegionMap is an ordered list of regions. Later declarations shadow
// earlier ones, so a layout lists its broad zones first and its specific
// ones last.
type RegionMap []Region

// Add appends a region and returns the map for chaining.
func (m RegionMap) Add(name string, r geom.Rect) RegionMap {
	return append(m, Region{Name: name, Rect: r})
}

// Classify maps a point to the name of the last declared region covering
// it, or RegionBody when none does. Pure lookup, no side effects.
func (m RegionMap) Classify(p geom.Point) string {
	name := RegionBody
	for _, r := range m {
		if r.Rect.Contains(p) {
			name = r.Name
		}
	}
	return name
}

// DefaultLayout builds the reader surface layout: edge strips for page
// turns and brightness, four corner zones for shortcuts, and a center
// band. Corners are declared last so they win over the strips they
// overlap; the vertical strips win over the horizontal ones.
func DefaultLayout(screen geom.Rect, strip, corner int) RegionMap {
	x0, y0 := screen.Min.X, screen.Min.Y
	x1, y1 := screen.Max.X, screen.Max.Y

	return RegionMap{}.
		Add(RegionCenter, geom.NewRect(x0+strip, y0+strip, x1-strip, y1-strip)).
		Add(RegionNorthStrip, geom.NewRect(x0, y0, x1, y0+strip)).
		Add(RegionSouthStrip, geom.NewRect(x0, y1-strip, x1, y1)).
		Add(RegionWestStrip, geom.NewRect(x0, y0, x0+strip, y1)).
		Add(RegionEastStrip, geom.NewRect(x1-strip, y0, x1, y1)).
		Add(RegionNorthWestCorner, geom.NewRect(x0, y0, x0+corner, y0+corner)).
		Add(RegionNorthEastCorner, geom.NewRect(x1-corner, y0, x1, y0+corner)).
		Add(RegionSouthEastCorner, geom.NewRect(x1-corner, y1-corner, x1, y1)).
		Add(RegionSouthWestCorner, geom.NewRect(x0, y1-corner, x0+corner, y1))
}
