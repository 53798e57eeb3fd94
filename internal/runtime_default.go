//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map // goroutine id -> *Runtime

// GetRuntime returns the calling goroutine's Runtime, creating it on first
// use. Keying by goroutine id (rather than a single global runtime) is what
// makes the ambient tracker/owner stack in spec §5 genuinely per-thread: two
// goroutines building independent signal graphs never see each other's
// active reader or owner.
func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := newRuntime()
	runtimes.Store(gid, r)
	return r
}

func currentGoroutineID() int64 { return goid.Get() }
