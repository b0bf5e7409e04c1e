package geom

// Dir represents a cardinal direction on the screen.
// North is toward the top of the screen (decreasing y).
type Dir uint8

const (
	// North is toward the top edge.
	North Dir = iota
	// East is toward the right edge.
	East
	// South is toward the bottom edge.
	South
	// West is toward the left edge.
	West
)

// String returns a string representation of the direction.
func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the direction pointing the other way.
func (d Dir) Opposite() Dir {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	default:
		return East
	}
}

// Axis returns the axis the direction lies on.
func (d Dir) Axis() Axis {
	if d == East || d == West {
		return Horizontal
	}
	return Vertical
}

// ParseDir parses a direction name. Returns North, false for unknown names.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "north":
		return North, true
	case "east":
		return East, true
	case "south":
		return South, true
	case "west":
		return West, true
	default:
		return North, false
	}
}

// DiagDir represents a diagonal direction, used for screen corners and
// diagonal strokes.
type DiagDir uint8

const (
	// NorthWest is the top-left quadrant.
	NorthWest DiagDir = iota
	// NorthEast is the top-right quadrant.
	NorthEast
	// SouthEast is the bottom-right quadrant.
	SouthEast
	// SouthWest is the bottom-left quadrant.
	SouthWest
)

// String returns a string representation of the diagonal direction.
func (d DiagDir) String() string {
	switch d {
	case NorthWest:
		return "northwest"
	case NorthEast:
		return "northeast"
	case SouthEast:
		return "southeast"
	case SouthWest:
		return "southwest"
	default:
		return "unknown"
	}
}

// Opposite returns the diagonal pointing the other way.
func (d DiagDir) Opposite() DiagDir {
	switch d {
	case NorthWest:
		return SouthEast
	case NorthEast:
		return SouthWest
	case SouthEast:
		return NorthWest
	default:
		return NorthEast
	}
}

// Axis identifies the orientation of a two-finger gesture.
type Axis uint8

const (
	// Horizontal is the east-west axis.
	Horizontal Axis = iota
	// Vertical is the north-south axis.
	Vertical
	// Diagonal covers both diagonal axes.
	Diagonal
)

// String returns a string representation of the axis.
func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}
