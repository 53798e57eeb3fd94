package internal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsyncComputedResolvesSeedThenResult(t *testing.T) {
	r := newRuntime()
	release := make(chan struct{})
	n := r.NewAsyncComputed(nil, func(cancelled func() bool) (any, error) {
		<-release
		return 42, nil
	}, "seed")

	v, err := n.Peek()
	assert.NoError(t, err)
	assert.Equal(t, "seed", v, "seed value is visible before the first resolution lands")
	assert.True(t, n.Loading())

	close(release)
	assert.Eventually(t, func() bool {
		v, _ := n.Peek()
		return v == 42
	}, time.Second, time.Millisecond)
	assert.False(t, n.Loading())
}

func TestAsyncComputedSupersededResolutionDiscarded(t *testing.T) {
	r := newRuntime()
	first := make(chan struct{})
	var calls int
	var mu sync.Mutex

	n := r.NewAsyncComputed(nil, func(cancelled func() bool) (any, error) {
		mu.Lock()
		calls++
		callNum := calls
		mu.Unlock()
		if callNum == 1 {
			<-first // block the first call until the second has been triggered
			return "stale", nil
		}
		return "fresh", nil
	}, nil)

	n.Refresh() // bumps the version token while call #1 is still blocked
	close(first)

	assert.Eventually(t, func() bool {
		v, _ := n.Peek()
		return v == "fresh"
	}, time.Second, time.Millisecond)

	// Give the stale goroutine a chance to land; it must not overwrite "fresh".
	time.Sleep(20 * time.Millisecond)
	v, _ := n.Peek()
	assert.Equal(t, "fresh", v)
}

func TestAsyncComputedCooperativeCancellation(t *testing.T) {
	r := newRuntime()
	observedCancelled := make(chan bool, 1)
	started := make(chan struct{})

	n := r.NewAsyncComputed(nil, func(cancelled func() bool) (any, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		observedCancelled <- cancelled()
		return "done", nil
	}, nil)

	<-started
	n.Refresh()

	select {
	case c := <-observedCancelled:
		assert.True(t, c, "a superseded token must report cancelled() == true")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first compute to observe cancellation")
	}
}

func TestAsyncComputedCachesErrorAsAsyncError(t *testing.T) {
	r := newRuntime()
	boom := errors.New("boom")
	n := r.NewAsyncComputed(nil, func(cancelled func() bool) (any, error) {
		return nil, boom
	}, nil)

	assert.Eventually(t, func() bool {
		_, err := n.Peek()
		return err != nil
	}, time.Second, time.Millisecond)

	_, err := n.Peek()
	var ae *AsyncError
	assert.True(t, errors.As(err, &ae))
	assert.ErrorIs(t, err, boom)
}

func TestAsyncComputedDependencyChangeRetriggers(t *testing.T) {
	r := newRuntime()
	a := r.NewSignal(1, false)

	var calls int
	var mu sync.Mutex
	n := r.NewAsyncComputed([]*Node{a}, func(cancelled func() bool) (any, error) {
		v, _ := a.Read()
		mu.Lock()
		calls++
		mu.Unlock()
		return v, nil
	}, nil)

	assert.Eventually(t, func() bool {
		v, _ := n.Peek()
		return v == 1
	}, time.Second, time.Millisecond)

	assert.NoError(t, a.Write(2))

	assert.Eventually(t, func() bool {
		v, _ := n.Peek()
		return v == 2
	}, time.Second, time.Millisecond, "a dependency write must proactively retrigger, not wait for a pull")
}

func TestAsyncComputedDisposeDiscardsResolution(t *testing.T) {
	r := newRuntime()
	release := make(chan struct{})
	n := r.NewAsyncComputed(nil, func(cancelled func() bool) (any, error) {
		<-release
		return 99, nil
	}, "seed")

	n.Dispose()
	close(release)
	time.Sleep(20 * time.Millisecond)

	v, _ := n.Peek()
	assert.Equal(t, "seed", v, "a resolution landing after dispose must be discarded")
}
