package rxblox

import "github.com/rxblox/rxblox/internal"

// Context is an ambient, type-scoped value inherited down the owner tree
// (spec §4.6's "ambient Context[T]"), grounded on internal.Owner's
// Context/SetContext map and the teacher's sig.go Context wrapper. Each
// Context's identity is its own pointer, so two Context[T] values of the
// same T never collide in an owner's context map.
type Context[T any] struct {
	initial T
}

// NewContext creates a context with a default value returned by Value when
// no owner in the ambient chain has called Set.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{initial: initial}
}

// Value reads the context's value in the current owner, inheriting from
// parent owners if unset locally, or the default if no owner ever set it.
func (c *Context[T]) Value() T {
	owner := internal.GetRuntime().CurrentOwner()
	if owner == nil {
		return c.initial
	}
	v, ok := owner.Context(c)
	if !ok {
		return c.initial
	}
	return as[T](v)
}

// Set assigns the context's value in the current owner (or the process-
// scope root owner if none is active).
func (c *Context[T]) Set(value T) {
	owner := internal.GetRuntime().CurrentOwner()
	if owner == nil {
		owner = internal.GetRuntime().RootOwner()
	}
	owner.SetContext(c, value)
}
