package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputedLazyRecompute(t *testing.T) {
	r := newRuntime()
	a := r.NewSignal(1, false)

	calls := 0
	c := r.NewComputed(func() (any, error) {
		calls++
		v, _ := a.Read()
		return v.(int) * 2, nil
	})

	assert.Equal(t, 0, calls, "a computed must not run until first read (I4)")

	v, err := c.Read()
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, calls)

	// Reading again without a dependency change must not recompute.
	_, _ = c.Read()
	assert.Equal(t, 1, calls)
}

func TestComputedDoesNotRecomputeWithoutObserver(t *testing.T) {
	r := newRuntime()
	a := r.NewSignal(1, false)
	calls := 0
	c := r.NewComputed(func() (any, error) {
		calls++
		v, _ := a.Read()
		return v, nil
	})
	_, _ = c.Read()
	assert.Equal(t, 1, calls)

	assert.NoError(t, a.Write(2))
	// P5: no listener on c, so the dependency change alone must not force
	// a recompute.
	assert.Equal(t, 1, calls)

	_, _ = c.Read()
	assert.Equal(t, 2, calls)
}

func TestComputedGlitchFree(t *testing.T) {
	r := newRuntime()
	a := r.NewSignal(1, false)
	b := r.NewComputed(func() (any, error) {
		v, _ := a.Read()
		return v.(int) * 2, nil
	})
	c := r.NewComputed(func() (any, error) {
		v, _ := a.Read()
		return v.(int) + 100, nil
	})
	sum := r.NewComputed(func() (any, error) {
		bv, _ := b.Read()
		cv, _ := c.Read()
		return bv.(int) + cv.(int), nil
	})

	_, _ = sum.Read() // establish tracking
	var observed []any
	sum.On(func(ev ChangeEvent) { observed = append(observed, ev.Value) })

	assert.NoError(t, a.Write(2))

	v, _ := sum.Read()
	assert.Equal(t, 4+102, v)
	assert.Equal(t, []any{4 + 102}, observed, "listener must see only the fully-settled value")
}

func TestComputedCachesError(t *testing.T) {
	r := newRuntime()
	boom := errors.New("boom")
	c := r.NewComputed(func() (any, error) { return nil, boom })

	_, err := c.Read()
	assert.ErrorIs(t, err, boom)

	// Re-reading a clean node must rethrow the same cached error without
	// invoking compute again.
	calls := 0
	c2 := r.NewComputed(func() (any, error) { calls++; return nil, boom })
	_, _ = c2.Read()
	_, err2 := c2.Read()
	assert.ErrorIs(t, err2, boom)
	assert.Equal(t, 1, calls)
}

func TestComputedWrapsPanic(t *testing.T) {
	r := newRuntime()
	c := r.NewComputed(func() (any, error) { panic("kaboom") })

	_, err := c.Read()
	assert.Error(t, err)
	var ce *ComputeError
	assert.True(t, errors.As(err, &ce))
}

func TestCycleDetection(t *testing.T) {
	r := newRuntime()
	var self *Node
	self = r.NewComputed(func() (any, error) {
		return self.Read()
	})

	assert.PanicsWithValue(t, ErrCycle, func() { _, _ = self.Read() })
}

func TestRefreshBypassesEquality(t *testing.T) {
	r := newRuntime()
	c := r.NewComputed(func() (any, error) { return 1, nil })
	_, _ = c.Read()

	notified := false
	c.On(func(ChangeEvent) { notified = true })

	c.Refresh()
	assert.True(t, notified, "refresh must notify even though the recomputed value is equal")
}
