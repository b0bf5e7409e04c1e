package render

import (
	"context"
	"sync/atomic"
)

// Logger is the logging surface the pipeline needs.
type Logger interface {
	Error(msg string, args ...any)
}

// Pipeline owns the render worker. Submit never blocks: while a frame is
// being rendered, newer submissions replace the queued one, so the
// display always converges on the latest requested state.
type Pipeline struct {
	renderer Renderer
	display  Display
	logger   Logger

	frames    chan Frame
	rendered  atomic.Uint64
	coalesced atomic.Uint64
	failed    atomic.Uint64
}

// NewPipeline creates a pipeline over a renderer and a display.
func NewPipeline(renderer Renderer, display Display, logger Logger) *Pipeline {
	return &Pipeline{
		renderer: renderer,
		display:  display,
		logger:   logger,
		frames:   make(chan Frame, 1),
	}
}

// Submit queues a frame for rendering. A frame already queued but not
// yet started is replaced.
func (p *Pipeline) Submit(f Frame) {
	for {
		select {
		case p.frames <- f:
			return
		default:
		}
		select {
		case <-p.frames:
			p.coalesced.Add(1)
		default:
		}
	}
}

// Run renders frames until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-p.frames:
			p.renderOne(ctx, f)
		}
	}
}

func (p *Pipeline) renderOne(ctx context.Context, f Frame) {
	img, err := p.renderer.Render(ctx, f.Page, f.Viewport)
	if err != nil {
		p.failed.Add(1)
		if p.logger != nil {
			p.logger.Error("render page %d: %v", f.Page, err)
		}
		return
	}
	if err := p.display.Present(img, f.Mode); err != nil {
		p.failed.Add(1)
		if p.logger != nil {
			p.logger.Error("present page %d: %v", f.Page, err)
		}
		return
	}
	p.rendered.Add(1)
}

// Rendered returns how many frames reached the display.
func (p *Pipeline) Rendered() uint64 {
	return p.rendered.Load()
}

// Coalesced returns how many queued frames were replaced before
// rendering started.
func (p *Pipeline) Coalesced() uint64 {
	return p.coalesced.Load()
}

// Failed returns how many frames failed to render or present.
func (p *Pipeline) Failed() uint64 {
	return p.failed.Load()
}
