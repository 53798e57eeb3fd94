package rxblox

// Lens is a read-write focus into a mutable signal (spec §4.5). Reads
// evaluate the projection; writes construct a new parent value via get/set
// and call the parent's Write.
type Lens[P, T any] struct {
	parent *Signal[P]
	get    func(P) T
	set    func(P, T) P
}

// NewLens builds a Lens from an explicit projection pair.
func NewLens[P, T any](parent *Signal[P], get func(P) T, set func(P, T) P) *Lens[P, T] {
	return &Lens[P, T]{parent: parent, get: get, set: set}
}

// FieldLens derives a Lens for a single struct field via a pointer
// accessor, the Go-idiomatic rendition of spec §4.5's "typed getX/setX
// accessors from an object mapping keys to paths" (Go has no native
// string path into a struct without reflection, so the accessor plays
// the role the path string would in a dynamically-typed host).
func FieldLens[P, T any](parent *Signal[P], field func(*P) *T) *Lens[P, T] {
	return NewLens(parent,
		func(p P) T { return *field(&p) },
		func(p P, v T) P {
			np := p
			*field(&np) = v
			return np
		},
	)
}

// ComposeLens produces a deeper lens directly against the root parent P,
// without materializing an intermediate Signal[T] (spec §4.5
// "lens(lens, subPath) produces a deeper lens without re-wrapping
// intermediate values").
func ComposeLens[P, T, R any](parent *Lens[P, T], get func(T) R, set func(T, R) T) *Lens[P, R] {
	return &Lens[P, R]{
		parent: parent.parent,
		get:    func(p P) R { return get(parent.get(p)) },
		set: func(p P, r R) P {
			return parent.set(p, set(parent.get(p), r))
		},
	}
}

// Read evaluates the projection over the parent's current value, tracking
// the parent as a dependency.
func (l *Lens[P, T]) Read() T { return l.get(l.parent.Read()) }

// Peek reads without tracking.
func (l *Lens[P, T]) Peek() T { return l.get(l.parent.Peek()) }

// Write constructs a new parent value via set and writes it to the parent
// signal.
func (l *Lens[P, T]) Write(v T) {
	l.parent.Update(func(p P) P { return l.set(p, v) })
}

// Update computes the next focused value from the current one and writes
// it.
func (l *Lens[P, T]) Update(fn func(T) T) {
	l.Write(fn(l.Peek()))
}

// Map adapts a raw input (e.g. a UI event payload) into the lens's value
// type and writes it in one step (spec §4.5 "lens.map(adapterFn)").
func (l *Lens[P, T]) Map(adapt func(raw any) T) func(raw any) {
	return func(raw any) { l.Write(adapt(raw)) }
}
