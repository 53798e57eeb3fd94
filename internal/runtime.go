package internal

import (
	"github.com/rxblox/rxblox/internal/events"
)

// Runtime is the per-goroutine reactive engine: ambient tracker/owner,
// batch depth, the dirty queue accumulated during the current batch, and
// the devtools event ring. One Runtime is created lazily per goroutine (see
// runtime_default.go/runtime_wasm.go), matching the teacher's
// goroutine-keyed registry in internal/runtime.go. A Runtime is still
// reachable from goroutines other than the one that created it — an async
// compute's resolution or an operator's timer callback calls back into
// the same Runtime its node was built on (spec §4.3/§4.4) — so batching
// and the dirty queue are guarded by mu rather than assumed
// single-goroutine.
type Runtime struct {
	mu *reentrantMu

	tracker   *Tracker
	batcher   *Batcher
	scheduler *Scheduler
	events    *events.Ring

	nodeSeq uint64
	dirty   []*Node // nodes changed during the active batch: written mutables/notifiers, resolved async nodes, refreshed computeds
	root    *Owner
}

func newRuntime() *Runtime {
	return &Runtime{
		mu:        newReentrantMu(),
		tracker:   newTracker(),
		batcher:   newBatcher(),
		scheduler: newScheduler(),
		events:    events.NewRing(256),
	}
}

// Events returns the runtime's devtools event ring so a host can Attach a
// sink or Drain buffered events.
func (r *Runtime) Events() *events.Ring { return r.events }

// emit stamps ev with the calling goroutine's id before forwarding it to
// the event ring (spec §6 devtools contract; SPEC_FULL.md §4's goid
// wiring).
func (r *Runtime) emit(ev events.Event) {
	ev.GoroutineID = currentGoroutineID()
	r.events.Emit(ev)
}

// CurrentOwner returns the ambient owner, or nil at the process level.
func (r *Runtime) CurrentOwner() *Owner { return r.tracker.CurrentOwner() }

// registerWithAmbientOwner attaches n as a disposable resource of whichever
// owner is active at construction time (or the process-scope root owner, if
// none is), so that disposing it cascades to every signal/computed/async
// node created while it was active (spec §4.6 "every signal ... created
// while an owner is active registers with it").
func (r *Runtime) registerWithAmbientOwner(n *Node) {
	owner := r.CurrentOwner()
	if owner == nil {
		owner = r.RootOwner()
	}
	owner.Register(n)
}

// RootOwner lazily creates the implicit, program-lifetime owner that owns
// top-level declarations made with no explicit owner active (spec §4.6).
func (r *Runtime) RootOwner() *Owner {
	if r.root == nil {
		r.root = newOwner(nil)
	}
	return r.root
}

// Batch runs fn with the batch depth incremented, flushing once the
// outermost batch completes. Safe to call from any goroutine: mu
// serializes genuinely concurrent callers while letting the same
// goroutine re-enter (nested batch, write-during-listener-fire).
func (r *Runtime) Batch(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batcher.Run(fn, r.flush)
}

// enqueueDirty records that node was mutated during the active batch.
// Callers must hold r.mu (true of every current call site: Write and
// resolveAsync both route through Batch).
func (r *Runtime) enqueueDirty(node *Node) {
	for _, d := range r.dirty {
		if d == node {
			return
		}
	}
	r.dirty = append(r.dirty, node)
}

// Schedule flushes immediately if no batch is active, or defers to the
// batch's close otherwise. Write does not call it: it routes through Batch.
func (r *Runtime) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.batcher.IsBatching() {
		r.flush()
	}
}

// flush implements spec §4.2's batch-close algorithm: mark affected
// dependents stale in topological order, force-recompute only the ones with
// direct listeners (lazy sufficiency, I4), then fire listeners for every
// node whose version advanced this batch.
func (r *Runtime) flush() {
	err := r.scheduler.Run(
		func() bool { return len(r.dirty) > 0 },
		r.flushPass,
	)
	if err != nil {
		r.emit(events.Event{Kind: events.ListenerError, Err: err})
	}
}

func (r *Runtime) flushPass() {
	batch := r.dirty
	r.dirty = nil

	heap := newTopoHeap()
	visited := make(map[*Node]bool, len(batch))
	changed := make(map[*Node]bool, len(batch))
	queue := make([]*Node, 0, len(batch))

	for _, d := range batch {
		if visited[d] {
			continue
		}
		visited[d] = true
		changed[d] = true // enqueued nodes are accepted changes by construction
		heap.Insert(d)
		queue = append(queue, d)
	}

	for i := 0; i < len(queue); i++ {
		n := queue[i]
		for _, dep := range n.dependents {
			if visited[dep] {
				continue
			}
			visited[dep] = true

			if dep.kind == KindAsync {
				// Async nodes don't block a read to become fresh: a
				// dependency change fires off a new request immediately
				// (stale-while-revalidate, spec §4.3) and its own
				// resolution starts a later, independent batch rather
				// than participating in this one's listener pass.
				dep.triggerAsyncCompute()
				continue
			}

			dep.state = StateStale
			heap.Insert(dep)
			queue = append(queue, dep)
		}
	}

	ordered := heap.Drain()

	for _, n := range ordered {
		if changed[n] || len(n.listeners) == 0 {
			continue
		}
		before := n.version
		n.ensureFresh()
		if n.version != before {
			changed[n] = true
		}
	}

	for _, n := range ordered {
		if !changed[n] || len(n.listeners) == 0 {
			continue
		}
		n.fireListeners()
	}

	r.emit(events.Event{Kind: events.BatchCommitted})
}
