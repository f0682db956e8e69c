package ui

import (
	"context"
	"sync"
)

// jobTracker hands out one generation per render. Starting a job cancels the
// previous one, and only the latest generation may update the window.
type jobTracker struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// begin cancels the running job and returns the context and generation of a new one
func (t *jobTracker) begin() (context.Context, uint64, context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.gen++
	t.cancel = cancel
	return ctx, t.gen, cancel
}

// current reports whether gen is still the latest job
func (t *jobTracker) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

// cancelRunning cancels the latest job without starting another
func (t *jobTracker) cancelRunning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}
