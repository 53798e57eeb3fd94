// Package rxblox is a fine-grained reactive signal runtime: mutable and
// computed cells with automatic dependency tracking, lazy recomputation,
// glitch-free batched propagation and deterministic disposal.
package rxblox

import "github.com/rxblox/rxblox/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// ChangeEvent is delivered to a signal's On listener once per batch in
// which its version advanced.
type ChangeEvent[T any] struct {
	OldVersion uint64
	NewVersion uint64
	Value      T
	Err        error
}

func asChangeEvent[T any](ev internal.ChangeEvent) ChangeEvent[T] {
	return ChangeEvent[T]{
		OldVersion: ev.OldVersion,
		NewVersion: ev.NewVersion,
		Value:      as[T](ev.Value),
		Err:        ev.Err,
	}
}

// Signal is a mutable reactive cell (spec §3 "Mutable signal").
type Signal[T any] struct {
	n *internal.Node
}

// NewSignal creates your typical read/write signal, seeded with initial.
func NewSignal[T any](initial T, opts ...Option[T]) *Signal[T] {
	o := resolveOptions(opts)
	n := internal.GetRuntime().NewSignal(initial, false)
	applyOptions(n, o)
	return &Signal[T]{n: n}
}

// NewNotifier creates a void signal: every Write is treated as a change
// regardless of the payload's equality, so listeners always fire (spec
// §4.4's notifier semantics, the "no initial value" reading of signal()).
func NewNotifier[T any](opts ...Option[T]) *Signal[T] {
	o := resolveOptions(opts)
	var zero T
	n := internal.GetRuntime().NewSignal(zero, true)
	applyOptions(n, o)
	return &Signal[T]{n: n}
}

func (s *Signal[T]) node() *internal.Node { return s.n }

// Read the current value, tracking the dependency if within a reactive
// context.
func (s *Signal[T]) Read() T {
	v, _ := s.n.Read()
	return as[T](v)
}

// Peek reads without tracking.
func (s *Signal[T]) Peek() T {
	v, _ := s.n.Peek()
	return as[T](v)
}

// Write a new value, triggering updates to any dependents. Panics with
// ErrDisposed if the signal has been disposed.
func (s *Signal[T]) Write(v T) {
	if err := s.n.Write(v); err != nil {
		panic(err)
	}
}

// Update computes the next value from the current one and writes it.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Write(fn(s.Peek()))
}

// Reset restores the signal's initialValue (or the override set via
// WithInitialValue).
func (s *Signal[T]) Reset() {
	if err := s.n.Reset(); err != nil {
		panic(err)
	}
}

// On attaches a listener, invoked once per batch in which this signal's
// version advanced. Returns an unsubscribe function.
func (s *Signal[T]) On(fn func(ChangeEvent[T])) func() {
	return s.n.On(func(ev internal.ChangeEvent) { fn(asChangeEvent[T](ev)) })
}

// Name returns the signal's debug label, if any.
func (s *Signal[T]) Name() string { return s.n.Name() }

// Dispose is idempotent; see spec §4.6.
func (s *Signal[T]) Dispose() { s.n.Dispose() }

// IsDisposed reports whether Dispose has already run.
func (s *Signal[T]) IsDisposed() bool { return s.n.IsDisposed() }

// Computed is a read-only cell derived from other signals (spec §4.1's
// "Computed recomputation algorithm").
type Computed[T any] struct {
	n *internal.Node
}

// NewComputed creates a computed signal. compute may return an error,
// which is cached and rethrown on the next Read until a dependency change
// (or Refresh) produces a different outcome (spec §4.8 "Compute throws").
func NewComputed[T any](compute func() (T, error), opts ...Option[T]) *Computed[T] {
	o := resolveOptions(opts)
	n := internal.GetRuntime().NewComputed(func() (any, error) {
		return compute()
	})
	applyOptions(n, o)
	return &Computed[T]{n: n}
}

// Derive is NewComputed's ergonomic sibling for compute functions that
// never fail, mirroring the simpler `compute func() T` shape.
func Derive[T any](compute func() T, opts ...Option[T]) *Computed[T] {
	return NewComputed(func() (T, error) { return compute(), nil }, opts...)
}

func (c *Computed[T]) node() *internal.Node { return c.n }

// Read the current value, recomputing if stale, tracking the dependency if
// within a reactive context.
func (c *Computed[T]) Read() (T, error) {
	v, err := c.n.Read()
	return as[T](v), err
}

// Peek reads without tracking.
func (c *Computed[T]) Peek() (T, error) {
	v, err := c.n.Peek()
	return as[T](v), err
}

// Stale marks the signal stale without notifying listeners (used by
// StaleOn).
func (c *Computed[T]) Stale() { c.n.Stale() }

// Refresh recomputes immediately (not on next access) and notifies
// listeners even if the result is equal, bypassing the equality
// short-circuit (used by RefreshOn).
func (c *Computed[T]) Refresh() { c.n.Refresh() }

// On attaches a listener, invoked once per batch in which this signal's
// version advanced.
func (c *Computed[T]) On(fn func(ChangeEvent[T])) func() {
	return c.n.On(func(ev internal.ChangeEvent) { fn(asChangeEvent[T](ev)) })
}

// Name returns the signal's debug label, if any.
func (c *Computed[T]) Name() string { return c.n.Name() }

// Dispose is idempotent.
func (c *Computed[T]) Dispose() { c.n.Dispose() }

// IsDisposed reports whether Dispose has already run.
func (c *Computed[T]) IsDisposed() bool { return c.n.IsDisposed() }

// AsyncComputed is a computed signal whose compute function resolves
// deferred work on a background goroutine (spec §4.3).
type AsyncComputed[T any] struct {
	n *internal.Node
}

// Cancelled is polled by an async compute function at suspension
// boundaries; it reports true once a newer recompute has superseded the
// invocation it was handed to.
type Cancelled func() bool

// NewAsyncComputed creates an async computed signal seeded with seed.
// deps declares the signals whose changes retrigger compute; compute runs
// on a fresh goroutine per trigger and should check cancelled at
// suspension boundaries (spec §4.3 "cooperative cancellation").
func NewAsyncComputed[T any](deps []Dependency, compute func(cancelled Cancelled) (T, error), seed T, opts ...Option[T]) *AsyncComputed[T] {
	o := resolveOptions(opts)
	internalDeps := make([]*internal.Node, len(deps))
	for i, d := range deps {
		internalDeps[i] = d.node()
	}
	n := internal.GetRuntime().NewAsyncComputed(internalDeps, func(cancelled func() bool) (any, error) {
		return compute(cancelled)
	}, seed)
	applyOptions(n, o)
	return &AsyncComputed[T]{n: n}
}

func (a *AsyncComputed[T]) node() *internal.Node { return a.n }

// Read the last resolved value and error, if any. Never blocks: a
// recompute that is still in flight leaves the prior value in place
// (stale-while-revalidate).
func (a *AsyncComputed[T]) Read() (T, error) {
	v, err := a.n.Read()
	return as[T](v), err
}

// Peek reads without tracking.
func (a *AsyncComputed[T]) Peek() (T, error) {
	v, err := a.n.Peek()
	return as[T](v), err
}

// Loading reports whether the current version token is still in flight.
func (a *AsyncComputed[T]) Loading() bool { return a.n.Loading() }

// Version returns the node's current version, used by Task to detect
// whether a resolution landed since the view was last read.
func (a *AsyncComputed[T]) Version() uint64 { return a.n.Version() }

// Refresh cancels any in-flight computation (by superseding its version
// token) and triggers a new one immediately.
func (a *AsyncComputed[T]) Refresh() { a.n.Refresh() }

// On attaches a listener, invoked once per batch in which a resolution
// changed this signal's version.
func (a *AsyncComputed[T]) On(fn func(ChangeEvent[T])) func() {
	return a.n.On(func(ev internal.ChangeEvent) { fn(asChangeEvent[T](ev)) })
}

// Dispose is idempotent; disposing an async signal mid-flight makes its
// outstanding resolution a no-op (spec §5 "Explicit via owner disposal").
func (a *AsyncComputed[T]) Dispose() { a.n.Dispose() }

// Dependency is the minimal surface NewAsyncComputed/operators need to
// declare a heterogeneous dependency list without sharing a single type
// parameter.
type Dependency interface {
	node() *internal.Node
}

// NewBatch batches multiple signal writes into a single update cycle,
// instead of propagating after each write (spec §4.2).
func NewBatch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// Untrack runs fn without tracking any reactive dependencies, returning
// fn's result.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to run when the current owner is
// disposed (or the process-scope root owner, if none is active).
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// Owner is a disposable context: every signal, subscription, timer and
// operator cleanup created while it is active registers with it (spec
// §4.6).
type Owner struct {
	o *internal.Owner
}

// NewOwner creates a child of the ambient owner, or of the implicit
// process-scope root owner if none is active.
func NewOwner() *Owner {
	return &Owner{o: internal.GetRuntime().NewOwner()}
}

// Run executes fn with this owner ambient, so that every signal and
// cleanup fn creates is scoped to it.
func (o *Owner) Run(fn func()) {
	internal.GetRuntime().Run(o.o, fn)
}

// Dispose this owner and every resource registered under it, in reverse-
// registration order.
func (o *Owner) Dispose() { o.o.Dispose() }

// IsDisposed reports whether Dispose has already run.
func (o *Owner) IsDisposed() bool { return o.o.IsDisposed() }

// OnCleanup registers fn to run once when this owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.o.OnCleanup(fn) }

// OnError registers a handler invoked when a panic escapes a function
// passed to this owner's Run. Panics inside a Computed's compute function
// are cached as errors instead, and panics from cleanups run during
// Dispose are not caught.
func (o *Owner) OnError(fn func(any)) { o.o.OnError(fn) }
