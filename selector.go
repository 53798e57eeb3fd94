package rxblox

// Selector is a read-only derived signal defined by a projection over a
// parent signal (spec §4.5). It re-selects on every parent change and
// suppresses propagation when the projected result is unchanged under
// shallow equality, the spec's stated default.
type Selector[T any] struct {
	*Computed[T]
}

// NewSelector derives a Selector[T] from any Dependency (Signal, Computed
// or another Selector) by applying selectorFn to its current value on
// every recompute.
func NewSelector[S, T any](source Dependency, selectorFn func(S) T) *Selector[T] {
	c := NewComputed(func() (T, error) {
		v, err := source.node().Read()
		if err != nil {
			var zero T
			return zero, err
		}
		return selectorFn(as[S](v)), nil
	}, WithEquals[T](EqualsShallow))
	return &Selector[T]{Computed: c}
}

// Select chains a further projection off parent, yielding a Selector whose
// parent is parent itself (spec §4.5 "sel.select(child)").
func Select[S, T any](parent *Selector[S], selectorFn func(S) T) *Selector[T] {
	return NewSelector[S, T](parent, selectorFn)
}
