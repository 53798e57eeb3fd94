package rxblox

import (
	"sync"
	"time"
)

// Emitter is the common surface every operator in this file consumes: a
// signal-shaped thing that can report its current value and notify on
// change. Signal[T], Computed[T], AsyncComputed[T] and Selector[T] all
// satisfy it, so operators are agnostic to which kind of source feeds
// them (spec §4.4 "Each operator takes a source signal").
type Emitter[T any] interface {
	Dependency
	On(func(ChangeEvent[T])) func()
}

func peekValue[T any](e Emitter[T]) T {
	v, _ := e.node().Peek()
	return as[T](v)
}

// Pipe is right-to-left functional composition: Pipe(source, f, g) reads
// as g(f(source)) (spec §4.4).
func Pipe[T any](source *Signal[T], ops ...func(*Signal[T]) *Signal[T]) *Signal[T] {
	out := source
	for _, op := range ops {
		out = op(out)
	}
	return out
}

// Map emits f(x) for every source emission (spec §4.4).
func Map[S, T any](source Emitter[S], f func(S) T) *Signal[T] {
	out := NewSignal(f(peekValue(source)))
	unsub := source.On(func(ev ChangeEvent[S]) { out.Write(f(ev.Value)) })
	OnCleanup(unsub)
	return out
}

// Filter re-emits source values where p(x) holds; the initial value only
// appears if it passes (spec §4.4).
func Filter[T any](source Emitter[T], p func(T) bool) *Signal[T] {
	initial := peekValue(source)
	var seed T
	if p(initial) {
		seed = initial
	}
	out := NewSignal(seed)
	unsub := source.On(func(ev ChangeEvent[T]) {
		if p(ev.Value) {
			out.Write(ev.Value)
		}
	})
	OnCleanup(unsub)
	return out
}

// Scan emits the running fold starting from seed (spec §4.4).
func Scan[S, T any](source Emitter[S], f func(acc T, x S) T, seed T) *Signal[T] {
	acc := seed
	out := NewSignal(acc)
	unsub := source.On(func(ev ChangeEvent[S]) {
		acc = f(acc, ev.Value)
		out.Write(acc)
	})
	OnCleanup(unsub)
	return out
}

// Distinct suppresses any value whose key was ever seen, maintaining an
// unbounded set (spec §4.4).
func Distinct[T any, K comparable](source Emitter[T], key func(T) K) *Signal[T] {
	initial := peekValue(source)
	out := NewSignal(initial)
	seen := map[K]bool{key(initial): true}
	unsub := source.On(func(ev ChangeEvent[T]) {
		k := key(ev.Value)
		if seen[k] {
			return
		}
		seen[k] = true
		out.Write(ev.Value)
	})
	OnCleanup(unsub)
	return out
}

// DistinctUntilChanged suppresses consecutive duplicates under eq (spec
// §4.4).
func DistinctUntilChanged[T any](source Emitter[T], eq func(a, b T) bool) *Signal[T] {
	last := peekValue(source)
	out := NewSignal(last)
	unsub := source.On(func(ev ChangeEvent[T]) {
		if eq(last, ev.Value) {
			return
		}
		last = ev.Value
		out.Write(ev.Value)
	})
	OnCleanup(unsub)
	return out
}

// Debounce emits the most recent source value after d of quiescence; the
// pending emission is cancelled on dispose (spec §4.4).
func Debounce[T any](source Emitter[T], d time.Duration) *Signal[T] {
	out := NewSignal(peekValue(source))

	var mu sync.Mutex
	var timer *time.Timer

	unsub := source.On(func(ev ChangeEvent[T]) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		v := ev.Value
		timer = time.AfterFunc(d, func() { out.Write(v) })
	})

	OnCleanup(func() {
		unsub()
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	})
	return out
}

// Throttle emits at most one value per d window, leading edge (spec
// §4.4).
func Throttle[T any](source Emitter[T], d time.Duration) *Signal[T] {
	out := NewSignal(peekValue(source))

	var mu sync.Mutex
	var blocked bool
	var timer *time.Timer

	unsub := source.On(func(ev ChangeEvent[T]) {
		mu.Lock()
		defer mu.Unlock()
		if blocked {
			return
		}
		blocked = true
		out.Write(ev.Value)
		timer = time.AfterFunc(d, func() {
			mu.Lock()
			blocked = false
			mu.Unlock()
		})
	})

	OnCleanup(func() {
		unsub()
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	})
	return out
}

// Delay defers each emission by d, preserving order (spec §4.4).
func Delay[T any](source Emitter[T], d time.Duration) *Signal[T] {
	out := NewSignal(peekValue(source))
	unsub := source.On(func(ev ChangeEvent[T]) {
		v := ev.Value
		time.AfterFunc(d, func() { out.Write(v) })
	})
	OnCleanup(unsub)
	return out
}

// RefreshOn calls target.Refresh() on every emission of trigger that
// passes the optional filter (spec §4.4). filter may be nil.
func RefreshOn[T, U any](target *Computed[T], trigger Emitter[U], filter func(U) bool) {
	unsub := trigger.On(func(ev ChangeEvent[U]) {
		if filter != nil && !filter(ev.Value) {
			return
		}
		target.Refresh()
	})
	OnCleanup(unsub)
}

// StaleOn calls target.Stale() on every emission of trigger that passes
// the optional filter (spec §4.4). filter may be nil.
func StaleOn[T, U any](target *Computed[T], trigger Emitter[U], filter func(U) bool) {
	unsub := trigger.On(func(ev ChangeEvent[U]) {
		if filter != nil && !filter(ev.Value) {
			return
		}
		target.Stale()
	})
	OnCleanup(unsub)
}

// TaskView is the synchronous projection of an AsyncComputed usable for
// UI rendering (spec §4.3 "task(seed)").
type TaskView[T any] struct {
	Loading bool
	Value   T
	Err     error
	Version uint64
}

// Task converts an async signal into a synchronous {loading, value,
// error, version} view (spec §4.3/§4.4).
func Task[T any](a *AsyncComputed[T]) *Computed[TaskView[T]] {
	return NewComputed(func() (TaskView[T], error) {
		v, err := a.Read()
		return TaskView[T]{Loading: a.Loading(), Value: v, Err: err, Version: a.Version()}, nil
	})
}
