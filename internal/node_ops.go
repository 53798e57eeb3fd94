package internal

import "github.com/rxblox/rxblox/internal/events"

// Read returns the current value, registering the ambient tracker as a
// dependent and recomputing if stale (spec §4.1 "read()"). Reading a
// disposed node does not panic: per spec §4.1/§4.6 this module's read
// policy is non-strict, so it returns the last snapshot without tracking or
// recomputing further. Only Write raises Disposed (spec §4.6 "Writes to a
// disposed signal raise Disposed; reads return the last snapshot").
func (n *Node) Read() (any, error) {
	n.mu.Lock()
	state := n.state
	n.mu.Unlock()

	if state == StateDisposed {
		return n.Peek()
	}
	if state == StateComputing {
		panic(ErrCycle)
	}

	if reading, reader := n.runtime.tracker.ShouldTrack(n); reading {
		reader.addDep(n)
	}

	if n.kind != KindMutable {
		n.ensureFresh()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value, n.err
}

// Peek reads without tracking and without forcing any recompute beyond what
// staleness already demands (spec §4.1 "peek()").
func (n *Node) Peek() (any, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value, n.err
}

// Write sets a mutable/notifier signal's value (spec §4.1 "set()"). Writing
// to a computed/async node or a disposed node raises Disposed/Contract
// synchronously (spec §7: these are programming errors, not cached values).
func (n *Node) Write(newValue any) error {
	if n.kind != KindMutable {
		panic(ErrContract)
	}

	n.mu.Lock()
	if n.state == StateDisposed {
		n.mu.Unlock()
		panic(ErrDisposed)
	}

	old := n.value
	if !n.isNotifier && n.hasValue && Equals(n.equalsMode, n.customEquals, old, newValue) {
		n.mu.Unlock()
		return nil
	}

	n.value = newValue
	n.hasValue = true
	n.version++
	newVersion := n.version
	onChange := n.onChange
	n.mu.Unlock()

	n.runtime.emit(events.Event{
		Kind: events.SignalChanged, SignalID: n.id, SignalName: n.name,
		OldVersion: newVersion - 1, NewVersion: newVersion, Value: newValue,
	})

	if onChange != nil {
		onChange(newValue)
	}

	n.runtime.Batch(func() {
		n.runtime.enqueueDirty(n)
	})
	return nil
}

// Reset restores a mutable signal's initialValue via Write (spec P9).
func (n *Node) Reset() error {
	n.mu.Lock()
	initial := n.initialValue
	n.mu.Unlock()
	return n.Write(initial)
}

// Stale marks a computed signal stale without notifying listeners (used by
// the staleOn operator).
func (n *Node) Stale() {
	if n.kind == KindMutable {
		return
	}
	n.mu.Lock()
	if n.state != StateDisposed {
		n.state = StateStale
	}
	n.mu.Unlock()
}

// Refresh recomputes a computed signal immediately (it is not deferred to
// the next access) and bumps its version and notifies listeners even when
// the recomputed value is equal, bypassing the equality short-circuit (the
// documented resolution of spec §9's first Open Question). For async nodes
// this cancels any in-flight computation by bumping the version token.
func (n *Node) Refresh() {
	if n.kind == KindMutable {
		return
	}

	if n.kind == KindAsync {
		n.triggerAsyncCompute()
		return
	}

	n.mu.Lock()
	n.state = StateStale
	n.mu.Unlock()

	n.runtime.Batch(func() {
		n.recompute(true)
		n.runtime.enqueueDirty(n)
	})
}

// On attaches a listener, invoked once per batch in which this node's
// version advances. Returns an unsubscribe function (spec P3).
func (n *Node) On(fn func(ChangeEvent)) func() {
	n.mu.Lock()
	n.listenerSeq++
	id := n.listenerSeq
	n.listeners = append(n.listeners, listenerEntry{id: id, fn: fn})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, l := range n.listeners {
			if l.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// fireListeners snapshots and invokes every listener with the node's
// current version, catching panics per spec §4.8 (listener errors never
// destabilize propagation).
func (n *Node) fireListeners() {
	n.mu.Lock()
	snapshot := make([]listenerEntry, len(n.listeners))
	copy(snapshot, n.listeners)
	ev := ChangeEvent{OldVersion: n.version - 1, NewVersion: n.version, Value: n.value, Err: n.err}
	n.mu.Unlock()

	for _, l := range snapshot {
		n.runSafely(l.fn, ev)
	}
}

func (n *Node) runSafely(fn func(ChangeEvent), ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			n.runtime.emit(events.Event{
				Kind: events.ListenerError, SignalID: n.id, SignalName: n.name,
				Err: panicToError(r),
			})
		}
	}()
	fn(ev)
}

// Dispose is idempotent: it detaches from each dependency, strips itself
// out of every dependent's own deps list, runs onDispose callbacks in LIFO
// order, removes tag memberships, and (for computed nodes) disposes the
// owner that scoped its last compute (spec §4.1 "dispose()", §4.6).
func (n *Node) Dispose() {
	n.mu.Lock()
	if n.state == StateDisposed {
		n.mu.Unlock()
		return
	}
	n.state = StateDisposed
	tags := n.tags
	n.tags = nil
	owner := n.owner
	onDispose := n.onDispose
	n.onDispose = nil
	n.listeners = nil
	n.mu.Unlock()

	n.clearDeps()
	for _, dependent := range n.dependents {
		// mirror of clearDeps: strip n out of each dependent's own deps so
		// it doesn't keep listing a disposed node. The dependent itself
		// survives with its last-read value; if it later reads n again it
		// gets n's last snapshot, without an error and without tracking.
		dependent.removeDep(n)
	}
	n.dependents = nil

	for _, t := range tags {
		t.removeMember(n.id)
	}

	for i := len(onDispose) - 1; i >= 0; i-- {
		onDispose[i]()
	}

	if owner != nil {
		owner.Dispose()
	}

	n.runtime.emit(events.Event{Kind: events.SignalDisposed, SignalID: n.id, SignalName: n.name})
}

// OnDispose registers fn to run once, in LIFO order, when this node is
// disposed.
func (n *Node) OnDispose(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onDispose = append(n.onDispose, fn)
}

// panicToError normalizes a recovered panic value into a plain error,
// leaving it to the caller to decide whether to wrap it as a ComputeError,
// AsyncError, or report it bare (e.g. ListenerError).
func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errAny{r}
}

type errAny struct{ v any }

func (e errAny) Error() string { return toString(e.v) }

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ Error() string }); ok {
		return s.Error()
	}
	return "panic"
}
