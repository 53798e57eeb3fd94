package internal

import "sync"

// reentrantMu lets the goroutine that already holds the lock re-enter it
// (nested batch, write-during-listener-fire, spec §5 "re-entrancy
// hazards") while still blocking a genuinely different goroutine out.
// Ownership is tracked by goroutine id (goid), the same identity the
// Runtime registry is keyed on — a timer or async resolution callback
// running on its own goroutine must serialize against the owning
// goroutine's signal operations rather than corrupt the shared dirty
// queue and batch depth.
type reentrantMu struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	held  bool
	depth int
}

func newReentrantMu() *reentrantMu {
	m := &reentrantMu{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *reentrantMu) Lock() {
	gid := currentGoroutineID()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held && m.owner == gid {
		m.depth++
		return
	}
	for m.held {
		m.cond.Wait()
	}
	m.held = true
	m.owner = gid
	m.depth = 1
}

func (m *reentrantMu) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.depth--
	if m.depth == 0 {
		m.held = false
		m.cond.Signal()
	}
}
