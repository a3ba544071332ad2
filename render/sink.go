package render

import (
	"image"
	"sync"
	"time"

	"github.com/makeworld-the-better-one/ditherlab/kernel"
	"github.com/makeworld-the-better-one/ditherlab/palette"
)

// Output is a finished render.
type Output struct {
	// Generation of the job that made it. Newer jobs have higher numbers.
	Generation uint64

	// Image is opaque, the size of the source, and owned by the receiver.
	Image *image.NRGBA

	Palette   *palette.Palette
	Algorithm kernel.Algorithm
	Elapsed   time.Duration
}

// Sink receives committed output. Commit is called with the controller's lock
// held, so it must not call back into the Controller, and should be quick.
type Sink interface {
	Commit(Output)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Output)

func (f SinkFunc) Commit(o Output) {
	f(o)
}

// Latest is a Sink that keeps the newest output it has been given, ignoring
// any that arrive with an older generation.
type Latest struct {
	mu  sync.Mutex
	out Output
	ok  bool
}

func (l *Latest) Commit(o Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ok && o.Generation <= l.out.Generation {
		return
	}
	l.out = o
	l.ok = true
}

// Output returns the newest output, and false if there hasn't been any.
func (l *Latest) Output() (Output, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out, l.ok
}
