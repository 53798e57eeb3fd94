//go:build wasm

package internal

import "sync"

// WASM hosts are single-threaded: goroutines never truly run concurrently,
// so there is no need to key a Runtime per goroutine id (goid also behaves
// oddly under some wasm schedulers). A single process-wide Runtime suffices.
var (
	once          sync.Once
	globalRuntime *Runtime
)

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = newRuntime()
	})
	return globalRuntime
}

func currentGoroutineID() int64 { return 0 }
