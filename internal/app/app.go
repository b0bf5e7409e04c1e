package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dshills/inkstorm/internal/config"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/geom"
	"github.com/dshills/inkstorm/internal/input"
	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/input/touch"
	"github.com/dshills/inkstorm/internal/library"
	"github.com/dshills/inkstorm/internal/render"
	"github.com/dshills/inkstorm/internal/script"
	"github.com/dshills/inkstorm/internal/view"
	"github.com/dshills/inkstorm/internal/view/bindings"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the settings file.
	ConfigPath string

	// Renderer renders document pages. Required.
	Renderer render.Renderer

	// Display presents rendered pages. Required.
	Display render.Display

	// Store is the book library. Optional; without it reading state is
	// session-only.
	Store *library.Store

	// Clock overrides the monotonic clock. Platforms that stamp samples
	// themselves pass the same clock here so timestamps line up with the
	// scheduler. Nil means a fresh clock.
	Clock event.Clock

	// Debug fails fast on view-tree invariant violations and forces
	// debug logging.
	Debug bool

	// LogLevel overrides the configured logging level when non-empty.
	LogLevel string

	// WatchConfig reloads the settings file on change.
	WatchConfig bool
}

// Application is the central coordinator: one event loop owning the
// touch pipeline and the view tree, a render worker beside it.
type Application struct {
	cfg     *config.Settings
	logger  *Logger
	metrics *Metrics

	clock event.Clock
	sched *event.Scheduler
	loop  *event.Loop

	pipe    *input.Pipeline
	tree    *view.Tree
	reader  *view.Node
	screen  geom.Rect
	frames  *render.Pipeline
	scripts *script.Host
	store   *library.Store
	watcher *config.Watcher

	doc          *Document
	barsVisible  bool
	inverted     bool
	scale        float64
	partialTurns int

	running atomic.Bool
	runErr  error
	opts    Options
}

// New creates an application from the given options.
func New(opts Options) (*Application, error) {
	if opts.Renderer == nil || opts.Display == nil {
		return nil, WrapError(ErrInitialization, "renderer and display are required")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapError(err, "loading settings")
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.Logging.Level)
	if opts.LogLevel != "" {
		logCfg.Level = ParseLogLevel(opts.LogLevel)
	}
	if opts.Debug {
		logCfg.Level = LogLevelDebug
	}
	logger := NewLogger(logCfg)

	a := &Application{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
		store:   opts.Store,
		scale:   1,
		opts:    opts,
	}

	if err := a.bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// bootstrap initializes all components in dependency order.
func (a *Application) bootstrap() error {
	a.screen = geom.NewRect(0, 0, a.cfg.Screen.Width, a.cfg.Screen.Height)
	a.clock = a.opts.Clock
	if a.clock == nil {
		a.clock = event.NewClock()
	}
	a.sched = event.NewScheduler(a.clock)

	a.reader = BuildReaderView(a.screen, a.cfg.Reader.StripWidth, a.cfg.Reader.CornerSize)
	a.tree = view.NewTree(a.reader)
	a.tree.SetLogger(a.logger.WithComponent("view"))
	a.tree.SetStrict(a.opts.Debug)

	if path := a.cfg.Reader.BindingsPath; path != "" {
		set, err := bindings.Load(path)
		if err != nil {
			return WrapError(err, "loading bindings")
		}
		if err := set.Apply(a.reader); err != nil {
			return WrapError(err, "applying bindings")
		}
	}

	a.pipe = input.NewPipeline(a.cfg.Thresholds(), a.screen, a.sched,
		a.logger.WithComponent("touch"), a.handleGesture)
	a.loop = event.NewLoop(a.sched, a.handleEvent, 512)
	a.frames = render.NewPipeline(a.opts.Renderer, a.opts.Display,
		a.logger.WithComponent("render"))

	a.scripts = script.NewHost(a.logger.WithComponent("script"))
	if dir := a.cfg.Scripts.Dir; dir != "" {
		if err := a.scripts.LoadDir(dir); err != nil {
			return WrapError(err, "loading scripts")
		}
	}

	if a.opts.WatchConfig && a.opts.ConfigPath != "" {
		w, err := config.NewWatcher(a.opts.ConfigPath,
			a.logger.WithComponent("config"),
			func(s *config.Settings) { a.loop.Post(s) })
		if err != nil {
			return WrapError(err, "watching settings")
		}
		a.watcher = w
	}

	return nil
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger { return a.logger }

// Metrics returns the metrics tracker.
func (a *Application) Metrics() *Metrics { return a.metrics }

// Clock returns the monotonic clock samples should be stamped with.
func (a *Application) Clock() event.Clock { return a.clock }

// Tree returns the view tree. Only the event loop may mutate it.
func (a *Application) Tree() *view.Tree { return a.tree }

// Document returns the open reading session, or nil.
func (a *Application) Document() *Document { return a.doc }

// BarsVisible reports whether the chrome bars are shown.
func (a *Application) BarsVisible() bool { return a.barsVisible }

// Inverted reports whether night-reading inversion is on.
func (a *Application) Inverted() bool { return a.inverted }

// Scale returns the current zoom factor.
func (a *Application) Scale() float64 { return a.scale }

// OpenBook starts a reading session and renders its current page.
func (a *Application) OpenBook(book library.Book) error {
	doc, err := OpenDocument(a.store, book)
	if err != nil {
		return err
	}
	a.doc = doc
	a.logger.Info("opened %q at page %d/%d", book.Title, doc.Page()+1, doc.Pages())
	a.submitFrame(render.RefreshFull)
	return nil
}

// PostSample queues a raw touch sample from a driver goroutine.
// Returns false when the loop is saturated and the sample was dropped.
func (a *Application) PostSample(s touch.Sample) bool {
	return a.loop.Post(s)
}

// Run processes events until the context is cancelled or a quit action
// fires. Rendering and config watching run on their own goroutines; all
// classification and dispatch stays on this one.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	workers, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.frames.Run(workers)
	if a.watcher != nil {
		go a.watcher.Run(workers)
		defer a.watcher.Close()
	}
	defer a.scripts.Close()

	a.logger.Info("event loop started")
	a.loop.Run(ctx)
	a.logger.Info("event loop stopped")
	return a.runErr
}

// Stop terminates Run from any goroutine.
func (a *Application) Stop() {
	a.loop.Stop()
}

// handleEvent runs on the loop goroutine for every posted event and
// timer expiration.
func (a *Application) handleEvent(ev any) {
	switch e := ev.(type) {
	case touch.Sample:
		a.metrics.RecordSample()
		a.pipe.HandleSample(e)
	case *config.Settings:
		a.applySettings(e)
	default:
		if a.pipe.HandleTimer(e) {
			return
		}
		a.logger.Debug("unhandled event %T", ev)
	}
}

// applySettings absorbs a config reload. Gesture thresholds are fixed at
// startup; only the runtime-safe pieces change.
func (a *Application) applySettings(s *config.Settings) {
	a.cfg.Logging = s.Logging
	a.cfg.Reader.FullRefreshEvery = s.Reader.FullRefreshEvery
	a.logger.SetLevel(ParseLogLevel(s.Logging.Level))
	a.logger.Info("settings reloaded")
}

// handleGesture dispatches one classified gesture through the view tree
// and executes the resulting action.
func (a *Application) handleGesture(ev gesture.Event) {
	a.metrics.RecordGesture()

	res := a.tree.Dispatch(ev)
	a.metrics.RecordDispatch(res.Consumed())
	if !res.Consumed() {
		a.logger.Debug("gesture %s at %s unhandled", ev.Kind, res.Region)
		return
	}

	if err := a.execute(res.Action, res, ev); err != nil {
		if errors.Is(err, ErrQuit) {
			a.loop.Stop()
			return
		}
		a.metrics.RecordActionError()
		a.logger.Error("action %s: %v", res.Action, err)
	}
}

func (a *Application) execute(action view.Action, res view.Result, ev gesture.Event) error {
	if fn := script.HookName(string(action)); fn != "" {
		return a.runHook(fn, res, ev)
	}

	switch action {
	case ActionNextPage:
		return a.turnPage(ev, a.doc.NextPage)
	case ActionPrevPage:
		return a.turnPage(ev, a.doc.PrevPage)
	case ActionFirstPage:
		return a.turnPage(ev, a.doc.FirstPage)
	case ActionLastPage:
		return a.turnPage(ev, a.doc.LastPage)

	case ActionSwipeNav:
		return a.swipeNav(ev)
	case ActionChapterNav:
		return a.chapterNav(ev)

	case ActionToggleBars:
		a.barsVisible = !a.barsVisible
		a.submitFrame(render.RefreshFast)
		return nil

	case ActionToggleBookmark:
		return a.toggleBookmark()

	case ActionGoToPage, ActionTableOfConts, ActionLibrary, ActionLookup:
		// Overlay surfaces carry their own views; opening one is a
		// frame away for the caller-provided renderer.
		a.logger.Info("open surface %s", action)
		a.submitFrame(render.RefreshFast)
		return nil

	case ActionOpenMenu:
		a.tree.Queue(func(t *view.Tree) {
			t.Attach(t.Root(), buildMenu(a.screen))
		})
		a.submitFrame(render.RefreshFast)
		return nil

	case ActionCloseMenu:
		a.tree.Queue(func(t *view.Tree) {
			if menu := t.Root().Find("menu"); menu != nil {
				if err := t.Remove(menu); err != nil {
					a.logger.Warn("closing menu: %v", err)
				}
			}
		})
		a.submitFrame(render.RefreshFast)
		return nil

	case ActionZoomIn, ActionZoomOut:
		return a.zoom(ev)

	case ActionInvert:
		a.inverted = !a.inverted
		a.submitFrame(render.RefreshFull)
		return nil

	case ActionRotate:
		a.logger.Info("rotate %+d quarter turns", ev.QuarterTurns)
		a.submitFrame(render.RefreshFull)
		return nil

	case ActionQuit:
		return ErrQuit
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

type pageMove func() bool

// turnPage runs a document move and submits the resulting frame. The
// move function is never called without an open document, so method
// values like a.doc.NextPage are safe to pass even when doc is nil.
func (a *Application) turnPage(ev gesture.Event, move pageMove) error {
	if a.doc == nil {
		return ErrNoDocument
	}
	if !move() {
		// Edge of the book; nothing happened and that is fine.
		a.logger.Debug("page turn at book edge")
		return nil
	}
	a.metrics.RecordPageTurn()

	mode := render.ModeFor(ev.Kind)
	a.partialTurns++
	if every := a.cfg.Reader.FullRefreshEvery; every > 0 && a.partialTurns >= every {
		mode = render.RefreshFull
	}
	a.submitFrame(mode)
	return nil
}

// swipeNav turns pages for horizontal swipes; vertical swipes and short
// drags scroll within the page.
func (a *Application) swipeNav(ev gesture.Event) error {
	switch ev.Dir {
	case geom.West:
		return a.turnPage(ev, a.doc.NextPage)
	case geom.East:
		return a.turnPage(ev, a.doc.PrevPage)
	default:
		a.submitFrame(render.RefreshFast)
		return nil
	}
}

// chapterNav skims ten pages in the flick direction.
func (a *Application) chapterNav(ev gesture.Event) error {
	if a.doc == nil {
		return ErrNoDocument
	}
	delta := 10
	if ev.Dir == geom.East {
		delta = -10
	}
	target := a.doc.Page() + delta
	if target < 0 {
		target = 0
	}
	if target >= a.doc.Pages() {
		target = a.doc.Pages() - 1
	}
	move := func() bool { return a.doc.GoTo(target) }
	return a.turnPage(ev, move)
}

func (a *Application) toggleBookmark() error {
	if a.doc == nil {
		return ErrNoDocument
	}
	on, err := a.doc.ToggleBookmark()
	if err != nil {
		return err
	}
	a.logger.Info("bookmark page %d: %v", a.doc.Page()+1, on)
	a.submitFrame(render.RefreshFast)
	return nil
}

func (a *Application) zoom(ev gesture.Event) error {
	factor := ev.Factor
	if factor <= 0 {
		factor = 1
	}
	a.scale *= factor
	if a.scale < 0.5 {
		a.scale = 0.5
	}
	if a.scale > 4 {
		a.scale = 4
	}
	a.submitFrame(render.RefreshFull)
	return nil
}

func (a *Application) runHook(fn string, res view.Result, ev gesture.Event) error {
	a.metrics.RecordHook()

	ctx := script.Context{Gesture: ev.Kind.String(), Region: res.Region}
	if a.doc != nil {
		ctx.Page = a.doc.Page()
		ctx.Pages = a.doc.Pages()
	}

	followup, err := a.scripts.Call(fn, ctx)
	if err != nil {
		return err
	}
	if followup == "" {
		return nil
	}
	if script.HookName(followup) != "" {
		// One level only; hooks do not chain into hooks.
		return fmt.Errorf("%w: hook %s returned another hook", ErrUnknownAction, fn)
	}
	return a.execute(view.Action(followup), res, ev)
}

func (a *Application) submitFrame(mode render.RefreshMode) {
	page := 0
	if a.doc != nil {
		page = a.doc.Page()
	}
	if mode == render.RefreshFull {
		a.partialTurns = 0
	}
	a.metrics.RecordFrame()
	a.frames.Submit(render.Frame{
		Page: page,
		Viewport: render.Viewport{
			Bounds: a.screen,
			Scale:  a.scale,
		},
		Mode: mode,
	})
}
