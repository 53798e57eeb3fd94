package rxblox

import (
	"sync"

	"github.com/rxblox/rxblox/internal"
)

// Tag is an identity-only registry for signals that share a value type
// (spec §4.7). Signals opt in via WithTags at construction and unregister
// automatically on Dispose; a Tag enables bulk actions (reset all,
// validate all) without reaching for global state.
type Tag[T any] struct {
	mu      sync.Mutex
	members map[uint64]*internal.Node
}

// NewTag creates an empty tag registry.
func NewTag[T any]() *Tag[T] {
	return &Tag[T]{members: make(map[uint64]*internal.Node)}
}

func (t *Tag[T]) addMember(n *internal.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.members[n.ID()] = n
}

// removeMember implements internal.TagMembership, invoked by a node's
// Dispose.
func (t *Tag[T]) removeMember(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.members, id)
}

// Add registers d with this tag.
func (t *Tag[T]) Add(d Dependency) {
	n := d.node()
	t.addMember(n)
	n.AddTag(t)
}

// Delete unregisters d from this tag without disposing it.
func (t *Tag[T]) Delete(d Dependency) {
	t.removeMember(d.node().ID())
}

// Has reports whether d is currently a member.
func (t *Tag[T]) Has(d Dependency) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.members[d.node().ID()]
	return ok
}

// Clear drops every membership without disposing the underlying signals.
func (t *Tag[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.members = make(map[uint64]*internal.Node)
}

// Size returns the current membership count.
func (t *Tag[T]) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.members)
}

func (t *Tag[T]) snapshot() []*internal.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*internal.Node, 0, len(t.members))
	for _, n := range t.members {
		out = append(out, n)
	}
	return out
}

// Values peeks every member's current value.
func (t *Tag[T]) Values() []T {
	nodes := t.snapshot()
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		v, _ := n.Peek()
		out = append(out, as[T](v))
	}
	return out
}

// ForEach peeks and invokes cb for every member.
func (t *Tag[T]) ForEach(cb func(T)) {
	for _, n := range t.snapshot() {
		v, _ := n.Peek()
		cb(as[T](v))
	}
}

// ForEachTag iterates the deduplicated union of members across multiple
// tags (spec §4.7 "tag.forEach(tags, cb)").
func ForEachTag[T any](tags []*Tag[T], cb func(T)) {
	seen := make(map[uint64]bool)
	var nodes []*internal.Node
	for _, t := range tags {
		for _, n := range t.snapshot() {
			if !seen[n.ID()] {
				seen[n.ID()] = true
				nodes = append(nodes, n)
			}
		}
	}
	for _, n := range nodes {
		v, _ := n.Peek()
		cb(as[T](v))
	}
}
