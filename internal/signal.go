package internal

import "github.com/rxblox/rxblox/internal/events"

// NewSignal creates a mutable (or notifier, when isNotifier is true) node
// seeded with initial (spec §3 "Mutable signal", §4.4 "notify/notifier
// signal"). A notifier's Write always reports a change and runs listeners
// regardless of equality, matching spec §4.4's "void signals".
func (r *Runtime) NewSignal(initial any, isNotifier bool) *Node {
	n := r.newNode(KindMutable)
	n.value = initial
	n.hasValue = true
	n.initialValue = initial
	n.isNotifier = isNotifier
	n.owner = newOwner(r.CurrentOwner())
	r.registerWithAmbientOwner(n)

	r.emit(events.Event{Kind: events.SignalCreated, SignalID: n.id, SignalName: n.name})
	return n
}
