// Package render runs dithering jobs. A Controller takes render requests, runs
// each one on its own goroutine, and hands the result of only the newest one
// to a Sink. Starting a job cancels the one before it.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/makeworld-the-better-one/ditherlab/kernel"
	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// customName is the name given to palettes passed inline in a Request.
const customName = "custom"

// Request describes one render.
type Request struct {
	// Image is the source. The controller takes ownership of it on Submit:
	// the caller must not change it afterwards.
	Image *image.NRGBA

	// Palette is the name of a palette in the controller's store. It's
	// ignored if Colors is set, and defaults to palette.Default.
	Palette string

	// Colors is an inline custom palette.
	Colors []palette.Color

	// Algorithm is one of kernel.Algorithms.
	Algorithm string

	Params kernel.Params
}

// Event reports a job changing state.
type Event struct {
	Generation uint64
	State      State
}

// Option configures a Controller.
type Option func(*Controller)

// WithListener sets a function to be called whenever a job changes state, for
// progress indicators. It's called with the controller's lock held, so it
// must not call back into the Controller.
func WithListener(f func(Event)) Option {
	return func(c *Controller) {
		c.listener = f
	}
}

// withKernels replaces how kernels are made.
func withKernels(f func(kernel.Algorithm, kernel.Params) (kernel.Kernel, error)) Option {
	return func(c *Controller) {
		c.newKernel = f
	}
}

// Controller runs render jobs, at most one at a time.
type Controller struct {
	store     *palette.Store
	sink      Sink
	listener  func(Event)
	newKernel func(kernel.Algorithm, kernel.Params) (kernel.Kernel, error)

	mu         sync.Mutex
	generation uint64
	current    *Job
}

// NewController returns a controller that reads palettes from store and
// commits output to sink.
func NewController(store *palette.Store, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		sink:      sink,
		listener:  func(Event) {},
		newKernel: kernel.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates req and starts rendering it, cancelling any job already
// running. An invalid request returns a *ConfigError and changes nothing: the
// running job carries on.
func (c *Controller) Submit(req Request) (*Job, error) {
	p, a, k, err := c.prepare(req)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.current != nil {
		c.cancelLocked(c.current)
	}
	c.generation++
	j := &Job{
		Generation: c.generation,
		c:          c,
		state:      Running,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	c.current = j
	c.listener(Event{j.Generation, Running})
	c.mu.Unlock()

	go c.run(ctx, j, k, req.Image, p, a)
	return j, nil
}

// prepare resolves everything a request needs before any pixel work.
func (c *Controller) prepare(req Request) (*palette.Palette, kernel.Algorithm, kernel.Kernel, error) {
	if req.Image == nil {
		return nil, "", nil, errors.New("no image")
	}
	if req.Image.Rect.Empty() {
		return nil, "", nil, errors.New("image is empty")
	}

	var p *palette.Palette
	var err error
	if len(req.Colors) > 0 {
		p, err = palette.New(customName, req.Colors)
	} else {
		name := req.Palette
		if name == "" {
			name = palette.Default
		}
		p, err = c.store.Get(name)
	}
	if err != nil {
		return nil, "", nil, err
	}

	a, err := kernel.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, "", nil, err
	}
	k, err := c.newKernel(a, req.Params)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%s: %w", a, err)
	}
	return p, a, k, nil
}

func (c *Controller) run(ctx context.Context, j *Job, k kernel.Kernel, src *image.NRGBA, p *palette.Palette, a kernel.Algorithm) {
	defer close(j.done)
	defer j.cancel()

	start := time.Now()
	img, err := k.Apply(ctx, src, p)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == j {
		c.current = nil
	}

	switch {
	case err != nil && ctx.Err() == nil:
		// Kernels only fail by being cancelled, but don't lose it if one does
		err = fmt.Errorf("%s: %w", a, err)
	case err != nil, ctx.Err() != nil, j.Generation != c.generation:
		err = ErrCancelled
	}
	if err != nil {
		if j.State() == Running {
			j.setState(Cancelled)
			c.listener(Event{j.Generation, Cancelled})
		}
		j.err = err
		return
	}

	j.out = Output{
		Generation: j.Generation,
		Image:      img,
		Palette:    p,
		Algorithm:  a,
		Elapsed:    time.Since(start),
	}
	c.sink.Commit(j.out)
	j.setState(Committed)
	c.listener(Event{j.Generation, Committed})
}

// cancelLocked moves a running job to Cancelled. c.mu must be held.
func (c *Controller) cancelLocked(j *Job) {
	j.cancel()
	if j.State() == Running {
		j.setState(Cancelled)
		c.listener(Event{j.Generation, Cancelled})
	}
}

// Cancel cancels the running job, if there is one. Nothing is committed.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.cancelLocked(c.current)
		c.current = nil
	}
}

// Generation returns the generation of the most recently submitted job, or 0
// if there hasn't been one.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
