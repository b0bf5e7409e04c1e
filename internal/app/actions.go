package app

import (
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/view"
)

// Built-in actions bindable to gestures.
const (
	ActionNextPage       view.Action = "next-page"
	ActionPrevPage       view.Action = "prev-page"
	ActionFirstPage      view.Action = "first-page"
	ActionLastPage       view.Action = "last-page"
	ActionSwipeNav       view.Action = "swipe-nav"
	ActionChapterNav     view.Action = "chapter-nav"
	ActionToggleBars     view.Action = "toggle-bars"
	ActionToggleBookmark view.Action = "toggle-bookmark"
	ActionGoToPage       view.Action = "go-to-page"
	ActionTableOfConts   view.Action = "table-of-contents"
	ActionOpenMenu       view.Action = "open-menu"
	ActionCloseMenu      view.Action = "close-menu"
	ActionLookup         view.Action = "lookup"
	ActionZoomIn         view.Action = "zoom-in"
	ActionZoomOut        view.Action = "zoom-out"
	ActionInvert         view.Action = "invert"
	ActionRotate         view.Action = "rotate"
	ActionLibrary        view.Action = "library"
	ActionQuit           view.Action = "quit"
)

// BuildReaderView creates the root reading surface with the default
// gesture bindings: edge strips turn pages, corners hold shortcuts, the
// center toggles the chrome, and two-finger gestures zoom and rotate.
func BuildReaderView(screen geom.Rect, strip, corner int) *view.Node {
	reader := view.NewNode("reader", screen)
	reader.Regions = view.DefaultLayout(screen, strip, corner)

	reader.
		Bind(gesture.KindTap, view.RegionWestStrip, ActionPrevPage).
		Bind(gesture.KindTap, view.RegionEastStrip, ActionNextPage).
		Bind(gesture.KindTap, view.RegionCenter, ActionToggleBars).
		Bind(gesture.KindTap, view.RegionNorthStrip, ActionToggleBars).
		Bind(gesture.KindTap, view.RegionSouthStrip, ActionToggleBars).
		Bind(gesture.KindTap, view.RegionNorthWestCorner, ActionFirstPage).
		Bind(gesture.KindTap, view.RegionNorthEastCorner, ActionToggleBookmark).
		Bind(gesture.KindTap, view.RegionSouthEastCorner, ActionGoToPage).
		Bind(gesture.KindTap, view.RegionSouthWestCorner, ActionTableOfConts).
		Bind(gesture.KindSwipe, view.RegionAny, ActionSwipeNav).
		Bind(gesture.KindSlantedSwipe, view.RegionAny, ActionSwipeNav).
		Bind(gesture.KindArrow, view.RegionAny, ActionChapterNav).
		Bind(gesture.KindHold, view.RegionAny, ActionOpenMenu).
		Bind(gesture.KindHoldLong, view.RegionAny, ActionLookup).
		Bind(gesture.KindSpread, view.RegionAny, ActionZoomIn).
		Bind(gesture.KindPinch, view.RegionAny, ActionZoomOut).
		Bind(gesture.KindMultiSwipe, view.RegionAny, ActionInvert).
		Bind(gesture.KindRotate, view.RegionAny, ActionRotate).
		Bind(gesture.KindCross, view.RegionAny, ActionQuit).
		Bind(gesture.KindDiamond, view.RegionAny, ActionLibrary)

	return reader
}

// buildMenu creates the modal reading menu opened by a hold. Every tap
// inside picks an entry; tapping the scrim dismisses it.
func buildMenu(screen geom.Rect) *view.Node {
	menu := view.NewNode("menu", screen)
	menu.Modal = true
	menu.Z = 100

	w := screen.Width()
	h := screen.Height()
	panel := geom.NewRect(screen.Min.X+w/6, screen.Min.Y+h/4,
		screen.Max.X-w/6, screen.Max.Y-h/4)

	rows := panel.Height() / 4
	menu.Regions = view.RegionMap{}.
		Add("menu-toc", geom.NewRect(panel.Min.X, panel.Min.Y, panel.Max.X, panel.Min.Y+rows)).
		Add("menu-bookmark", geom.NewRect(panel.Min.X, panel.Min.Y+rows, panel.Max.X, panel.Min.Y+2*rows)).
		Add("menu-library", geom.NewRect(panel.Min.X, panel.Min.Y+2*rows, panel.Max.X, panel.Min.Y+3*rows)).
		Add("menu-quit", geom.NewRect(panel.Min.X, panel.Min.Y+3*rows, panel.Max.X, panel.Max.Y))

	menu.
		Bind(gesture.KindTap, "menu-toc", ActionTableOfConts).
		Bind(gesture.KindTap, "menu-bookmark", ActionToggleBookmark).
		Bind(gesture.KindTap, "menu-library", ActionLibrary).
		Bind(gesture.KindTap, "menu-quit", ActionQuit).
		Bind(gesture.KindTap, view.RegionBody, ActionCloseMenu).
		Bind(gesture.KindHold, view.RegionAny, ActionCloseMenu)

	return menu
}
