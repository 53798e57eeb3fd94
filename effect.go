package rxblox

// Effect is an owner-scoped side-effecting computation: it reruns whenever
// a signal it reads changes, invoking the previous run's returned cleanup
// first (spec §4.1, grounded on the teacher's EffectUser effect queue).
// Unlike Computed, an effect runs even with no external reader — it forces
// itself into every batch's listener-driven recompute pass by holding a
// permanent (no-op) listener of its own.
type Effect struct {
	c      *Computed[func()]
	unsub  func()
	cancel func()
}

// NewEffect creates a reactive effect. fn runs immediately and again after
// any dependency change; its return value, if non-nil, is invoked as a
// cleanup right before the next run (or when the effect is disposed).
func NewEffect(fn func() func()) *Effect {
	var prevCleanup func()

	c := NewComputed(func() (func(), error) {
		if prevCleanup != nil {
			prevCleanup()
			prevCleanup = nil
		}
		prevCleanup = fn()
		return prevCleanup, nil
	})

	// A bare Computed only recomputes when read or, once it has a direct
	// listener, when a dependency changes (spec I4's lazy sufficiency). An
	// effect has no natural reader, so this listener exists purely to opt
	// it into the forced-recompute pass of every batch.
	unsub := c.On(func(ChangeEvent[func()]) {})

	e := &Effect{c: c, unsub: unsub}
	if _, err := c.Read(); err != nil {
		unsub()
		panic(err)
	}

	e.cancel = func() {
		unsub()
		if prevCleanup != nil {
			prevCleanup()
			prevCleanup = nil
		}
	}
	OnCleanup(e.cancel)
	return e
}

// Dispose stops the effect and runs its pending cleanup, if any.
func (e *Effect) Dispose() {
	e.c.Dispose()
	e.cancel()
}
