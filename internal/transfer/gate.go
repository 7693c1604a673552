package transfer

import (
	"errors"
	"sync"
)

var errCancelled = errors.New("cancelled")

// gate coordinates pause and cancel across all workers of one transfer.
// Paused workers sleep on the condition variable instead of spinning; cancel
// wakes every waiter so a pause never outlives a cancellation.
type gate struct {
	mu        sync.Mutex
	cond      *sync.Cond
	paused    bool
	cancelled bool
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// pause reports whether the call changed state.
func (g *gate) pause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused || g.cancelled {
		return false
	}
	g.paused = true
	return true
}

// resume reports whether the call changed state.
func (g *gate) resume() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused || g.cancelled {
		return false
	}
	g.paused = false
	g.cond.Broadcast()
	return true
}

func (g *gate) cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = true
	g.cond.Broadcast()
}

func (g *gate) isCancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}

// wait blocks while the gate is paused and returns errCancelled once the
// transfer is cancelled. Workers call it before every read increment.
func (g *gate) wait() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.paused && !g.cancelled {
		g.cond.Wait()
	}
	if g.cancelled {
		return errCancelled
	}
	return nil
}
