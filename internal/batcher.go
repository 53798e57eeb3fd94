package internal

// Batcher coalesces synchronous mutations into one propagation pass (spec
// §4.2). Entering a write path opens a batch if none is active; the
// outermost write (or an explicit Batch call) closes it and triggers the
// flush.
type Batcher struct {
	depth int
}

func newBatcher() *Batcher { return &Batcher{} }

func (b *Batcher) IsBatching() bool { return b.depth > 0 }

// Run executes fn with the batch depth incremented, calling onClose once
// when the outermost batch completes. Nested calls (including the implicit
// batch-of-one a bare Write opens) simply join the active batch. onClose
// runs before the outermost depth is released, so calls made from inside it
// (a listener writing during the flush) join the batch being flushed too.
func (b *Batcher) Run(fn func(), onClose func()) {
	b.depth++
	defer func() {
		defer func() { b.depth-- }()
		if b.depth == 1 {
			onClose()
		}
	}()
	fn()
}
