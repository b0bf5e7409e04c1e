// Package render drives the document renderer and the e-ink display.
// Rendering runs on a worker goroutine so a page render in flight never
// blocks touch classification; frames submitted while the worker is busy
// coalesce down to the most recent one.
package render

import (
	"context"
	"image"

	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
)

// RefreshMode selects the e-ink update waveform for a frame.
type RefreshMode uint8

const (
	// RefreshFull flashes the whole panel; slow, clears ghosting.
	RefreshFull RefreshMode = iota
	// RefreshPartial updates changed pixels without flashing.
	RefreshPartial
	// RefreshFast trades fidelity for latency, for scrolling and menus.
	RefreshFast
)

// String returns a string representation of the refresh mode.
func (m RefreshMode) String() string {
	switch m {
	case RefreshFull:
		return "full"
	case RefreshPartial:
		return "partial"
	case RefreshFast:
		return "fast"
	default:
		return "unknown"
	}
}

// ModeFor suggests a refresh mode for a frame triggered by the given
// gesture kind. Page turns take a clean partial update, scroll drags and
// chrome toggles want latency, and zooming or rotating relays out the
// whole page.
func ModeFor(kind gesture.Kind) RefreshMode {
	switch kind {
	case gesture.KindSwipe, gesture.KindSlantedSwipe, gesture.KindMultiSwipe,
		gesture.KindHold, gesture.KindHoldLong:
		return RefreshFast
	case gesture.KindPinch, gesture.KindSpread, gesture.KindRotate:
		return RefreshFull
	default:
		return RefreshPartial
	}
}

// Viewport describes the page area to render.
type Viewport struct {
	Bounds geom.Rect
	Scale  float64
}

// Renderer renders one document page into a bitmap.
type Renderer interface {
	Render(ctx context.Context, page int, vp Viewport) (image.Image, error)
}

// Display presents bitmaps on the panel.
type Display interface {
	Bounds() geom.Rect
	Present(img image.Image, mode RefreshMode) error
}

// Frame is one render request.
type Frame struct {
	Page     int
	Viewport Viewport
	Mode     RefreshMode
}
