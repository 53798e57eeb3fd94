package internal

// Kind distinguishes the three signal flavors described in the data model:
// a plain mutable cell, a computed cell, and a computed cell whose compute
// function resolves asynchronously.
type Kind int

const (
	KindMutable Kind = iota
	KindComputed
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindMutable:
		return "mutable"
	case KindComputed:
		return "computed"
	case KindAsync:
		return "computed-async"
	default:
		return "unknown"
	}
}

// State is a node's position in the clean/stale/computing/disposed lifecycle.
type State int

const (
	StateClean State = iota
	StateStale
	StateComputing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateStale:
		return "stale"
	case StateComputing:
		return "computing"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// EqualsMode selects the change predicate used by Write/recompute to decide
// whether a new value is distinct enough to bump the version and propagate.
type EqualsMode int

const (
	EqualsStrict EqualsMode = iota
	EqualsShallow
	EqualsDeep
	EqualsCustom
)
