package rxblox

import "github.com/rxblox/rxblox/internal"

// EqualsMode selects the change predicate used to decide whether a new
// value is distinct enough to bump version and propagate (spec §3
// "equalsMode").
type EqualsMode = internal.EqualsMode

const (
	EqualsStrict  = internal.EqualsStrict
	EqualsShallow = internal.EqualsShallow
	EqualsDeep    = internal.EqualsDeep
	EqualsCustom  = internal.EqualsCustom
)

// options holds the recognized construction options from spec §6
// ("Options recognized"). Signal/Computed/AsyncComputed constructors take
// functional Option[T] values instead of an options struct literal, which
// is the idiomatic Go rendition of the same contract.
type options[T any] struct {
	name         string
	equalsMode   EqualsMode
	customEquals func(a, b T) bool
	onChange     func(T)
	tags         []*Tag[T]
	initialValue *T
}

// Option configures a signal at construction time.
type Option[T any] func(*options[T])

// WithName attaches a debug label, surfaced on devtools events and in
// ComputeError/AsyncError messages.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) { o.name = name }
}

// WithEquals selects a built-in change predicate (Strict/Shallow/Deep).
func WithEquals[T any](mode EqualsMode) Option[T] {
	return func(o *options[T]) { o.equalsMode = mode }
}

// WithCustomEquals supplies a user-defined change predicate.
func WithCustomEquals[T any](fn func(a, b T) bool) Option[T] {
	return func(o *options[T]) {
		o.equalsMode = EqualsCustom
		o.customEquals = fn
	}
}

// WithOnChange registers a side-channel callback invoked, synchronously,
// after an accepted change (before propagation is scheduled).
func WithOnChange[T any](fn func(T)) Option[T] {
	return func(o *options[T]) { o.onChange = fn }
}

// WithTags registers the signal with one or more Tag registries on
// construction; it unregisters automatically on Dispose.
func WithTags[T any](tags ...*Tag[T]) Option[T] {
	return func(o *options[T]) { o.tags = append(o.tags, tags...) }
}

// WithInitialValue overrides the value a mutable signal's Reset restores.
func WithInitialValue[T any](v T) Option[T] {
	return func(o *options[T]) { o.initialValue = &v }
}

func resolveOptions[T any](opts []Option[T]) options[T] {
	var o options[T]
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

func applyOptions[T any](n *internal.Node, o options[T]) {
	if o.name != "" {
		n.SetName(o.name)
	}
	if o.customEquals != nil {
		n.SetEquals(EqualsCustom, func(a, b any) bool { return o.customEquals(as[T](a), as[T](b)) })
	} else if o.equalsMode != EqualsStrict {
		n.SetEquals(o.equalsMode, nil)
	}
	if o.onChange != nil {
		n.SetOnChange(func(v any) { o.onChange(as[T](v)) })
	}
	if o.initialValue != nil {
		n.SetInitialValue(*o.initialValue)
	}
	for _, t := range o.tags {
		t.addMember(n)
		n.AddTag(t)
	}
}
