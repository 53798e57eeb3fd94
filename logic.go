package rxblox

import "sync"

type logicEntry struct {
	owner    *Owner
	instance any
}

var (
	logicMu  sync.Mutex
	logicReg = map[string]*logicEntry{}
)

// Logic is a caching scope factory (spec §4.6 "logic factory"): the first
// call for name creates an owner, runs builder under it, and caches the
// result; subsequent calls return the cached instance without re-running
// builder.
func Logic[T any](name string, builder func() T) T {
	logicMu.Lock()
	if e, ok := logicReg[name]; ok {
		logicMu.Unlock()
		return e.instance.(T)
	}
	logicMu.Unlock()

	owner := NewOwner()
	var instance T
	owner.Run(func() { instance = builder() })

	logicMu.Lock()
	defer logicMu.Unlock()
	if e, ok := logicReg[name]; ok {
		// Lost the race to another goroutine: keep its winner, drop ours.
		owner.Dispose()
		return e.instance.(T)
	}
	logicReg[name] = &logicEntry{owner: owner, instance: instance}
	return instance
}

// LogicProvide registers instance for name directly, bypassing builder —
// used for test injection (spec §4.6 "logic.provide").
func LogicProvide[T any](name string, instance T) {
	logicMu.Lock()
	defer logicMu.Unlock()
	if e, ok := logicReg[name]; ok {
		e.instance = instance
		return
	}
	logicReg[name] = &logicEntry{instance: instance}
}

// LogicDispose disposes a single cached logic's owner and drops it from
// the registry.
func LogicDispose(name string) {
	logicMu.Lock()
	e, ok := logicReg[name]
	if ok {
		delete(logicReg, name)
	}
	logicMu.Unlock()

	if ok && e.owner != nil {
		e.owner.Dispose()
	}
}

// LogicClear disposes every cached logic's owner and drops all cached
// instances (spec §4.6 "logic.clear()").
func LogicClear() {
	logicMu.Lock()
	entries := logicReg
	logicReg = map[string]*logicEntry{}
	logicMu.Unlock()

	for _, e := range entries {
		if e.owner != nil {
			e.owner.Dispose()
		}
	}
}

// ScopedLogic runs builder under a caller-provided owner rather than the
// registry's own cache, so the resulting sub-graph is disposed along with
// that owner's lifetime (e.g. a component instance) rather than surviving
// in the named registry (spec §4.6 "scoped logic").
func ScopedLogic[T any](scope *Owner, builder func() T) T {
	var instance T
	scope.Run(func() { instance = builder() })
	return instance
}
