// Package emulator hosts the reader on a desktop terminal. The terminal
// grid stands in for the e-ink panel and the mouse stands in for the touch
// panel: button presses become contact samples in panel coordinates, and
// presented frames are downsampled into shaded cells. Useful for working on
// gesture bindings without hardware.
package emulator

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input/touch"
	"github.com/dshills/inkstorm/internal/render"
)

// Logger is the logging surface the emulator needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}

func (nopLogger) Warn(string, ...any) {}

// shades orders terminal ink from black to white; a pixel's gray level
// indexes into it.
var shades = []rune{'█', '▓', '▒', '░', ' '}

// Emulator adapts a tcell screen into a render.Display and a source of
// touch samples. All screen access is serialized through mu; tcell events
// arrive on the Run goroutine.
type Emulator struct {
	screen tcell.Screen
	bounds geom.Rect
	clock  event.Clock
	logger Logger

	mu      sync.Mutex
	frame   image.Image
	mode    render.RefreshMode
	pressed bool
	lastPos geom.Point
}

// New opens the process's real terminal as the emulated panel.
func New(bounds geom.Rect, clock event.Clock) (*Emulator, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return attach(screen, bounds, clock)
}

// NewSimulated builds an emulator over tcell's simulation screen. Tests
// use the returned SimulationScreen to inject input and read cells back.
func NewSimulated(bounds geom.Rect, clock event.Clock) (*Emulator, tcell.SimulationScreen, error) {
	sim := tcell.NewSimulationScreen("")
	e, err := attach(sim, bounds, clock)
	if err != nil {
		return nil, nil, err
	}
	return e, sim, nil
}

func attach(screen tcell.Screen, bounds geom.Rect, clock event.Clock) (*Emulator, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return &Emulator{
		screen: screen,
		bounds: bounds,
		clock:  clock,
		logger: nopLogger{},
		mode:   render.RefreshFull,
	}, nil
}

// SetLogger replaces the discard logger. Call before Run.
func (e *Emulator) SetLogger(logger Logger) {
	e.logger = logger
}

// Close releases the terminal.
func (e *Emulator) Close() {
	e.screen.Fini()
}

// Bounds reports the emulated panel geometry, not the terminal's.
func (e *Emulator) Bounds() geom.Rect {
	return e.bounds
}

// Present implements render.Display by painting the frame into the cell
// grid. The bottom row carries a status line instead of page content.
func (e *Emulator) Present(img image.Image, mode render.RefreshMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.frame = img
	e.mode = mode
	e.redraw()
	return nil
}

// redraw repaints the whole grid from the last frame. Callers hold mu.
func (e *Emulator) redraw() {
	cols, rows := e.screen.Size()
	if rows > 1 {
		rows--
	}
	if e.frame != nil && cols > 0 && rows > 0 {
		fb := e.frame.Bounds()
		for cy := 0; cy < rows; cy++ {
			for cx := 0; cx < cols; cx++ {
				px := fb.Min.X + cx*fb.Dx()/cols
				py := fb.Min.Y + cy*fb.Dy()/rows
				g := color.GrayModel.Convert(e.frame.At(px, py)).(color.Gray)
				idx := int(g.Y) * (len(shades) - 1) / 0xff
				e.screen.SetContent(cx, cy, shades[idx], nil, tcell.StyleDefault)
			}
		}
	}

	status := fmt.Sprintf(" refresh: %-7s  mouse drags gesture, n/p turn pages, q quits", e.mode)
	style := tcell.StyleDefault.Reverse(true)
	for cx := 0; cx < cols; cx++ {
		r := ' '
		if cx < len(status) {
			r = rune(status[cx])
		}
		e.screen.SetContent(cx, rows, r, nil, style)
	}
	e.screen.Show()
}

// Run pumps terminal events until the context ends or the user quits.
// Touch samples go through post; stop is invoked on a quit key so the
// owning loop can wind down before the terminal is released.
func (e *Emulator) Run(ctx context.Context, post func(touch.Sample) bool, stop func()) error {
	go func() {
		<-ctx.Done()
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := e.screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			e.screen.Sync()
			e.mu.Lock()
			e.redraw()
			e.mu.Unlock()
		case *tcell.EventKey:
			if e.handleKey(tev, post) {
				stop()
				return nil
			}
		case *tcell.EventMouse:
			e.handleMouse(tev, post)
		}
	}
}

// handleKey reports true when the user asked to quit.
func (e *Emulator) handleKey(ev *tcell.EventKey, post func(touch.Sample) bool) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyRight, ev.Key() == tcell.KeyRune && ev.Rune() == 'n':
		e.tapAt(geom.Pt(e.bounds.Max.X-60, e.bounds.Center().Y), post)
	case ev.Key() == tcell.KeyLeft, ev.Key() == tcell.KeyRune && ev.Rune() == 'p':
		e.tapAt(geom.Pt(e.bounds.Min.X+60, e.bounds.Center().Y), post)
	}
	return false
}

// tapAt posts a synthetic down/up pair so keyboard page turns travel the
// same path as real touches.
func (e *Emulator) tapAt(p geom.Point, post func(touch.Sample) bool) {
	now := e.clock.Now()
	post(touch.Sample{Phase: touch.PhaseDown, Pos: p, Time: now})
	post(touch.Sample{Phase: touch.PhaseUp, Pos: p, Time: now + 50*time.Millisecond})
}

func (e *Emulator) handleMouse(ev *tcell.EventMouse, post func(touch.Sample) bool) {
	x, y := ev.Position()
	p := e.cellToPanel(x, y)
	held := ev.Buttons()&tcell.Button1 != 0

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case held && !e.pressed:
		e.pressed = true
		e.lastPos = p
		if !post(touch.Sample{Phase: touch.PhaseDown, Pos: p, Time: e.clock.Now()}) {
			e.logger.Warn("emulator: touch-down sample dropped")
		}
	case held && e.pressed && !p.Equal(e.lastPos):
		e.lastPos = p
		post(touch.Sample{Phase: touch.PhaseMove, Pos: p, Time: e.clock.Now()})
	case !held && e.pressed:
		e.pressed = false
		post(touch.Sample{Phase: touch.PhaseUp, Pos: p, Time: e.clock.Now()})
	}
}

// cellToPanel maps a terminal cell to panel coordinates, matching the
// projection redraw uses so touches land on what the user sees.
func (e *Emulator) cellToPanel(cx, cy int) geom.Point {
	cols, rows := e.screen.Size()
	if rows > 1 {
		rows--
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	x := e.bounds.Min.X + cx*e.bounds.Width()/cols
	y := e.bounds.Min.Y + cy*e.bounds.Height()/rows
	return geom.Pt(clamp(x, e.bounds.Min.X, e.bounds.Max.X-1), clamp(y, e.bounds.Min.Y, e.bounds.Max.Y-1))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
