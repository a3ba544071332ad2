package render

import (
	"context"
	"sync"
)

// State is where a job is in its life.
//
//	Idle -> Running -> Committed
//	           \-----> Cancelled
type State int

const (
	Idle State = iota
	Running
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Job is a submitted render.
type Job struct {
	// Generation is unique to the job, and higher than that of every job
	// submitted before it to the same Controller.
	Generation uint64

	c      *Controller
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	state State

	// Set before done is closed
	out Output
	err error
}

// State returns the job's current state. A job can move to Cancelled while
// its goroutine is still finishing up; Wait waits for that too.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) setState(s State) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

// Cancel stops the job if it's still running. Its output won't be committed.
func (j *Job) Cancel() {
	j.c.mu.Lock()
	defer j.c.mu.Unlock()
	j.c.cancelLocked(j)
	if j.c.current == j {
		j.c.current = nil
	}
}

// Done returns a channel that's closed once the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait waits for the job to finish, and returns what it committed. It returns
// ErrCancelled if the job was cancelled or superseded, or ctx's error if ctx
// is done first.
func (j *Job) Wait(ctx context.Context) (Output, error) {
	select {
	case <-j.done:
		return j.out, j.err
	case <-ctx.Done():
		return Output{}, ctx.Err()
	}
}
