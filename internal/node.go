package internal

import "sync"

// TagMembership is the minimal surface internal needs from a root-package
// Tag[T] so a disposing node can unregister itself without internal having
// to know the tag's element type.
type TagMembership interface {
	removeMember(id uint64)
}

type listenerEntry struct {
	id uint64
	fn func(ChangeEvent)
}

// ChangeEvent is the payload delivered to a signal's .on(listener) callback:
// it fires once per batch in which the signal's version advanced.
type ChangeEvent struct {
	OldVersion uint64
	NewVersion uint64
	Value      any
	Err        error
}

// Node is the single underlying representation for mutable, computed and
// async-computed signals. The generic wrappers in the root package
// (Signal[T]/Computed[T]/AsyncComputed[T]) convert to/from `any` at the
// boundary, the way the teacher's sig.go wraps internal.Signal/Computed.
type Node struct {
	mu sync.Mutex

	runtime *Runtime
	id      uint64
	kind    Kind
	state   State

	name string
	tags []TagMembership

	// value / change tracking
	value    any
	hasValue bool
	version  uint64
	err      error // cached compute/async error, re-raised on Read

	equalsMode   EqualsMode
	customEquals func(a, b any) bool
	isNotifier   bool

	// mutable-only
	initialValue any
	onChange     func(any)

	// computed-only
	owner     *Owner
	height    int
	inHeap    bool
	deps      []*Node // ordered set of nodes read during the last compute
	dependents []*Node // nodes (computed/effect) that read this node
	compute   func() (any, error)

	// async-only
	asyncVersion uint64
	loading      bool
	asyncCompute AsyncCompute

	// C1 emitter: external .on() listeners
	listeners   []listenerEntry
	listenerSeq uint64

	onDispose []func()
}

// newNode allocates a bare node; callers finish initializing kind-specific
// fields.
func (r *Runtime) newNode(kind Kind) *Node {
	r.nodeSeq++
	return &Node{
		runtime: r,
		id:      r.nodeSeq,
		kind:    kind,
		state:   StateClean,
	}
}

func (n *Node) ID() uint64     { return n.id }
func (n *Node) Kind() Kind     { return n.kind }
func (n *Node) Name() string   { return n.name }
func (n *Node) Version() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.version
}
func (n *Node) IsDisposed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state == StateDisposed
}

// SetName / SetEquals / SetOnChange / AddTag / SetInitialValue are used by
// the Options struct at construction time (root package), before the node
// is shared with a reader.
func (n *Node) SetName(name string)                           { n.name = name }
func (n *Node) SetEquals(mode EqualsMode, fn func(a, b any) bool) {
	n.equalsMode = mode
	n.customEquals = fn
}
func (n *Node) SetOnChange(fn func(any)) { n.onChange = fn }
func (n *Node) SetInitialValue(v any)    { n.initialValue = v; n.hasValue = true }
func (n *Node) AddTag(t TagMembership)    { n.tags = append(n.tags, t) }
func (n *Node) MarkNotifier()            { n.isNotifier = true }

// addDependent registers sub as a reader of n, deduplicating by identity and
// preserving the order dependents first appeared in (used for both
// topological walk order and listener tie-breaking per spec §5).
func (n *Node) addDependent(sub *Node) {
	for _, d := range n.dependents {
		if d == sub {
			return
		}
	}
	n.dependents = append(n.dependents, sub)
}

func (n *Node) removeDependent(sub *Node) {
	for i, d := range n.dependents {
		if d == sub {
			n.dependents = append(n.dependents[:i:i], n.dependents[i+1:]...)
			return
		}
	}
}

// addDep registers dep as read by n during its current compute.
func (n *Node) addDep(dep *Node) {
	for _, d := range n.deps {
		if d == dep {
			return
		}
	}
	n.deps = append(n.deps, dep)
	if dep.height+1 > n.height {
		n.height = dep.height + 1
	}
	dep.addDependent(n)
}

// clearDeps detaches n from every node it previously read, in preparation
// for a fresh compute pass (step 4 of the recomputation algorithm).
func (n *Node) clearDeps() {
	for _, dep := range n.deps {
		dep.removeDependent(n)
	}
	n.deps = nil
	n.height = 0
}

// removeDep strips dep out of n.deps, the mirror of removeDependent: called
// on a dependent when one of its own dependencies is disposed, so it stops
// listing a node that no longer exists (spec §4.6 "dispose()" detachment).
// Locks n.mu since the caller is typically disposing a different node.
func (n *Node) removeDep(dep *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, d := range n.deps {
		if d == dep {
			n.deps = append(n.deps[:i:i], n.deps[i+1:]...)
			return
		}
	}
}
