package internal

import "fmt"

// Scheduler tracks the flush clock: a tick incremented once per propagation
// pass and readable through Tick (node versions are separate per-node
// counters and do not use it). Run also guards against runaway update loops
// (a listener that unconditionally rewrites its own transitive dependency,
// say).
type Scheduler struct {
	clock uint64
}

func newScheduler() *Scheduler { return &Scheduler{} }

func (s *Scheduler) Tick() uint64 { return s.clock }

const maxFlushPasses = 100000

// Run drains fn repeatedly while it reports more work is pending, bumping
// the clock once per pass. It returns an error instead of looping forever
// if a batch keeps re-dirtying itself, matching the teacher's
// "possible infinite update loop detected" guard.
func (s *Scheduler) Run(hasWork func() bool, pass func()) error {
	count := 0
	for hasWork() {
		count++
		if count > maxFlushPasses {
			return fmt.Errorf("rxblox: possible infinite update loop detected after %d passes", count)
		}
		s.clock++
		pass()
	}
	return nil
}
