package internal

// Tracker holds the ambient "current reader"/"current owner" used to
// record dependencies on read (spec C3) and to attach newly constructed
// resources to their owner (spec C4). One Tracker lives per Runtime, and
// GetRuntime hands out one Runtime per goroutine (see runtime_default.go),
// so goroutines that build independent graphs never see each other's
// ambient state, matching spec §5 ("store the tracker per thread"). A node
// always uses its own Runtime's Tracker, even when an async resolution or a
// timer callback reaches it from another goroutine (see runtime.go).
type Tracker struct {
	tracking  bool
	owner     *Owner
	computing *Node // the Node currently evaluating its compute function
}

func newTracker() *Tracker {
	return &Tracker{tracking: true}
}

func (t *Tracker) CurrentOwner() *Owner { return t.owner }
func (t *Tracker) Computing() *Node     { return t.computing }

// RunWithOwner makes owner ambient for the duration of fn, restoring the
// previous owner afterward (nesting-safe).
func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.owner
	t.owner = owner
	defer func() { t.owner = prev }()
	fn()
}

// RunComputing makes node the ambient tracked reader for the duration of fn.
// Reentrant reads of node itself while it is the active computation raise
// ErrCycle (invariant I1) at the call site that attempts the read.
func (t *Tracker) RunComputing(node *Node, fn func()) {
	prevOwner, prevComputing := t.owner, t.computing
	t.owner = node.owner
	t.computing = node
	defer func() {
		t.owner = prevOwner
		t.computing = prevComputing
	}()
	fn()
}

// RunUntracked disables dependency recording for the duration of fn (used
// by Peek and Untrack).
func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()
	fn()
}

// ShouldTrack reports whether a Read of node right now should register a
// dependency on the ambient computation.
func (t *Tracker) ShouldTrack(node *Node) (bool, *Node) {
	if !t.tracking || t.computing == nil {
		return false, nil
	}
	return true, t.computing
}
