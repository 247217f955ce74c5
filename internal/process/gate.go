package process

import (
	"context"
	"sync"
)

// Gate carries pause/resume/stop control into a running process. Check is
// called between suspension points only, so an in-flight wait always runs to
// completion before a pause or stop takes effect.
type Gate struct {
	mu      sync.Mutex
	paused  bool
	stopped bool
	resume  chan struct{}
}

func NewGate() *Gate {
	return &Gate{resume: make(chan struct{})}
}

func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused && !g.stopped {
		g.paused = true
		g.resume = make(chan struct{})
	}
}

func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		g.paused = false
		close(g.resume)
	}
}

// Stop marks the gate stopped and releases any process blocked in Check.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	if g.paused {
		g.paused = false
		close(g.resume)
	}
}

// Check blocks while paused and returns ErrStopped once stopped.
func (g *Gate) Check(ctx context.Context) error {
	for {
		g.mu.Lock()
		if g.stopped {
			g.mu.Unlock()
			return ErrStopped
		}
		if !g.paused {
			g.mu.Unlock()
			return nil
		}
		resume := g.resume
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resume:
		}
	}
}
