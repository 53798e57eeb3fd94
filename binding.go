package rxblox

// This file is interfaces only (spec §6 "Host renderer contract" /
// "Persistence contract"): rxblox does not ship a UI layer, persistence
// adapter, transport adapter, or router integration. A host collaborator
// implements these to plug a render tree, a storage backend, or a
// devtools collector into the reactive core.

// Region is the contract a host renderer implements for each reactive
// region it owns: establish an owner for the region's lifetime, wrap the
// region's render in a tracking frame (run it as the compute function of a
// Computed or an Effect created inside Owner.Run; reads made directly in
// Owner.Run's fn are not tracked), subscribe to whatever was read with a
// listener that calls Invalidate, and dispose the owner when the region
// unmounts.
type Region interface {
	// Owner is the disposable scope backing this region.
	Owner() *Owner
	// Invalidate is called by the host's own subscriptions when a tracked
	// signal changes; the region decides how to re-render. The core makes
	// no guarantee beyond: listeners fire exactly once per batch per
	// changed signal (spec §6).
	Invalidate()
}

// Persister is the persistence-adapter contract (spec §6, "example
// adapter shape, not part of core"): an adapter subscribes to tagged
// signals and writes snapshots via OnChange-style hooks.
type Persister interface {
	Save(name string, value any) error
	Load(name string) (value any, ok bool, err error)
}

// DevtoolsCollector is the contract a devtools host implements to receive
// the event ring's stream (signal-created, signal-changed, signal-
// disposed, batch-committed, listener-error).
type DevtoolsCollector interface {
	Collect(kind string, signalID uint64, signalName string)
}
