package internal

import "github.com/rxblox/rxblox/internal/events"

// NewComputed creates a computed node. compute takes no arguments: its
// dependencies are whatever signals it reads while it runs, recorded by the
// tracker. No declared-dependency snapshot (ctx.deps in spec parlance) is
// passed to compute, here or in the root package's generic wrapper.
func (r *Runtime) NewComputed(compute func() (any, error)) *Node {
	n := r.newNode(KindComputed)
	n.compute = compute
	n.owner = newOwner(r.CurrentOwner())
	n.state = StateStale // lazily computed on first Read (I4)
	r.registerWithAmbientOwner(n)
	r.emit(events.Event{Kind: events.SignalCreated, SignalID: n.id})
	return n
}

// ensureFresh recomputes n if it is stale. Called both from Read (lazy
// pull) and from flush (forced pull for nodes with direct listeners, so
// equality can be evaluated before deciding whether to emit). Async nodes
// never block a read to become fresh (see async.go): their resolution
// arrives out-of-band, so ensureFresh is a no-op for them.
func (n *Node) ensureFresh() {
	if n.kind == KindAsync {
		return
	}

	n.mu.Lock()
	needsRecompute := n.state == StateStale || (n.kind == KindComputed && !n.hasValue)
	n.mu.Unlock()

	if needsRecompute {
		n.recompute(false)
	}
}

// recompute runs the computed node's compute function in a fresh tracking
// frame (spec §4.1 "Computed recomputation algorithm"). When force is true
// (refresh()) the resulting version is bumped even if the value compares
// equal, per this module's documented policy on the refresh/equality Open
// Question. Never called for async nodes (see async.go).
func (n *Node) recompute(force bool) {
	n.mu.Lock()
	if n.state == StateDisposed {
		n.mu.Unlock()
		return
	}
	n.state = StateComputing
	n.mu.Unlock()

	// A fresh compute pass re-derives the dependency set from scratch
	// (spec step 1/3/4: enter a new tracking frame, evaluate, diff old vs
	// new deps by simply clearing and re-adding), and tears down whatever
	// the previous pass built under n.owner — nested signals, effects and
	// subscriptions registered via registerWithAmbientOwner, not just child
	// owners — so they don't accumulate across recomputes.
	n.clearDeps()
	n.owner.ResetChildren()

	var (
		value   any
		err     error
		aborted bool
	)

	func() {
		defer func() {
			if r := recover(); r != nil {
				if r == ErrCycle {
					// I1: compute aborted, old value retained, error
					// rethrown at the call site that detected the
					// self-dependency (not cached on this node).
					aborted = true
					return
				}
				err = &ComputeError{Name: n.name, Err: panicToError(r)}
			}
		}()
		n.runtime.tracker.RunWithOwner(n.owner, func() {
			n.runtime.tracker.RunComputing(n, func() {
				value, err = n.compute()
			})
		})
	}()

	if aborted {
		n.mu.Lock()
		n.state = StateClean
		n.mu.Unlock()
		panic(ErrCycle)
	}

	n.mu.Lock()
	oldVersion := n.version
	changed := force || err != nil || !n.hasValue || n.err != nil || !Equals(n.equalsMode, n.customEquals, n.value, value)
	if changed {
		n.value = value
		n.err = err
		n.hasValue = true
		n.version++
	}
	n.state = StateClean
	newVersion := n.version
	n.mu.Unlock()

	if changed {
		n.runtime.emit(events.Event{
			Kind: events.SignalChanged, SignalID: n.id, SignalName: n.name,
			OldVersion: oldVersion, NewVersion: newVersion, Value: value, Err: err,
		})
	}
}
