package internal

import "github.com/rxblox/rxblox/internal/events"

// AsyncCompute is the shape of an async computed node's work function. It
// always runs on a background goroutine (spawned by triggerAsyncCompute),
// so it is free to block on I/O; it should poll cancelled() at suspension
// boundaries and bail out early once the token it was issued for has been
// superseded (spec §4.3's cooperative cancellation).
type AsyncCompute func(cancelled func() bool) (any, error)

// NewAsyncComputed creates an async computed node (spec §3 "Async computed
// signal", §4.3). Unlike a sync Computed, an async node's dependency set is
// declared once at construction (deps) rather than rediscovered on every
// recompute: the work function runs on its own goroutine, outside any
// tracking frame for this node, so its reads are not recorded as this
// node's dependencies and dynamic dependency capture inside the async body
// isn't meaningful the way it is for a synchronous compute. This is a
// deliberate Go-shaped reading of spec §9's "dispatch Sync vs Async at
// construction" guidance.
func (r *Runtime) NewAsyncComputed(deps []*Node, compute AsyncCompute, seed any) *Node {
	n := r.newNode(KindAsync)
	n.asyncCompute = compute
	n.owner = newOwner(r.CurrentOwner())
	n.value = seed
	n.hasValue = true
	n.state = StateClean

	for _, d := range deps {
		n.addDep(d)
	}
	r.registerWithAmbientOwner(n)

	r.emit(events.Event{Kind: events.SignalCreated, SignalID: n.id, SignalName: n.name})
	n.triggerAsyncCompute()
	return n
}

// Loading reports whether an async node's current token is still in
// flight.
func (n *Node) Loading() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loading
}

// triggerAsyncCompute allocates a fresh version token and spawns the work
// function on a new goroutine (spec §4.3: "each invocation allocates a
// fresh version token"). Any resolution whose token has since been
// superseded — by a newer trigger or by disposal — is discarded in
// resolveAsync (P7).
func (n *Node) triggerAsyncCompute() {
	n.mu.Lock()
	if n.state == StateDisposed {
		n.mu.Unlock()
		return
	}
	n.asyncVersion++
	token := n.asyncVersion
	n.loading = true
	compute := n.asyncCompute
	n.mu.Unlock()

	go func() {
		cancelled := func() bool {
			n.mu.Lock()
			defer n.mu.Unlock()
			return n.asyncVersion != token || n.state == StateDisposed
		}

		var (
			value any
			err   error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = panicToError(r)
				}
			}()
			value, err = compute(cancelled)
		}()

		n.resolveAsync(token, value, err)
	}()
}

// resolveAsync applies a completed (or rejected) async computation if, and
// only if, token is still current (spec §4.3 "same-token check").
func (n *Node) resolveAsync(token uint64, value any, err error) {
	n.mu.Lock()
	if n.asyncVersion != token || n.state == StateDisposed {
		n.mu.Unlock()
		return
	}

	oldVersion := n.version
	n.loading = false
	if err != nil {
		n.err = &AsyncError{Name: n.name, Err: err}
		n.version++
	} else if !n.hasValue || !Equals(n.equalsMode, n.customEquals, n.value, value) {
		n.value = value
		n.err = nil
		n.hasValue = true
		n.version++
	}
	changed := n.version != oldVersion
	newVersion := n.version
	n.mu.Unlock()

	if !changed {
		return
	}

	n.runtime.emit(events.Event{
		Kind: events.SignalChanged, SignalID: n.id, SignalName: n.name,
		OldVersion: oldVersion, NewVersion: newVersion, Value: value, Err: err,
	})

	n.runtime.Batch(func() {
		n.runtime.enqueueDirty(n)
	})
}
