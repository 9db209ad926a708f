package pipeline

import "sync"

// guard is the single-flight flag for the processing stage. A worker
// that cannot acquire it abandons its run; runs are never queued.
type guard struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire claims the guard, reporting false if another run holds it.
func (g *guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release frees the guard for the next run.
func (g *guard) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
