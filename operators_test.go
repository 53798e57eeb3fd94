package rxblox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapOperator(t *testing.T) {
	a := NewSignal(2)
	doubled := Map[int, int](a, func(v int) int { return v * 2 })
	assert.Equal(t, 4, doubled.Read())

	a.Write(5)
	assert.Eventually(t, func() bool { return doubled.Read() == 10 }, time.Second, time.Millisecond)
}

func TestFilterOperator(t *testing.T) {
	a := NewSignal(1)
	evens := Filter[int](a, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 0, evens.Read(), "initial odd value must not pass the predicate")

	a.Write(3)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, evens.Read(), "odd values are filtered out")

	a.Write(4)
	assert.Eventually(t, func() bool { return evens.Read() == 4 }, time.Second, time.Millisecond)
}

func TestScanOperator(t *testing.T) {
	a := NewSignal(0)
	sum := Scan[int, int](a, func(acc int, x int) int { return acc + x }, 0)
	assert.Equal(t, 0, sum.Read())

	a.Write(1)
	assert.Eventually(t, func() bool { return sum.Read() == 1 }, time.Second, time.Millisecond)
	a.Write(2)
	assert.Eventually(t, func() bool { return sum.Read() == 3 }, time.Second, time.Millisecond)
}

func TestDistinctOperator(t *testing.T) {
	a := NewSignal(1)
	seen := Distinct[int, int](a, func(v int) int { return v })

	values := []int{}
	seen.On(func(ev ChangeEvent[int]) { values = append(values, ev.Value) })

	a.Write(2)
	a.Write(2)
	a.Write(3)

	assert.Eventually(t, func() bool { return seen.Read() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{2, 3}, values)
}

func TestDistinctUntilChangedOperator(t *testing.T) {
	a := NewSignal(1)
	out := DistinctUntilChanged[int](a, func(x, y int) bool { return x == y })

	var emissions []int
	out.On(func(ev ChangeEvent[int]) { emissions = append(emissions, ev.Value) })

	a.Write(1)
	time.Sleep(5 * time.Millisecond)
	a.Write(2)
	assert.Eventually(t, func() bool { return out.Read() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{2}, emissions, "a consecutive duplicate must not re-emit")
}

func TestDebounceOperator(t *testing.T) {
	a := NewSignal(0)
	debounced := Debounce[int](a, 20*time.Millisecond)

	a.Write(1)
	a.Write(2)
	a.Write(3)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, debounced.Read(), "rapid writes within the window must not emit yet")

	assert.Eventually(t, func() bool { return debounced.Read() == 3 }, time.Second, 2*time.Millisecond)
}

func TestThrottleOperator(t *testing.T) {
	a := NewSignal(0)
	throttled := Throttle[int](a, 30*time.Millisecond)

	a.Write(1)
	assert.Eventually(t, func() bool { return throttled.Read() == 1 }, time.Second, time.Millisecond)

	a.Write(2)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, throttled.Read(), "a value within the throttle window must be dropped")
}

func TestRefreshOnOperator(t *testing.T) {
	trigger := NewNotifier[struct{}]()
	calls := 0
	c := NewComputed(func() (int, error) { calls++; return calls, nil })
	c.Read()
	assert.Equal(t, 1, calls)

	RefreshOn[int, struct{}](c, trigger, nil)
	trigger.Write(struct{}{})
	c.Read()
	assert.Equal(t, 2, calls)
}

func TestTaskViewReflectsAsyncState(t *testing.T) {
	release := make(chan struct{})
	a := NewAsyncComputed[int](nil, func(cancelled Cancelled) (int, error) {
		<-release
		return 7, nil
	}, 0)

	view := Task(a)
	v, _ := view.Read()
	assert.True(t, v.Loading)
	assert.Equal(t, 0, v.Value)

	close(release)
	assert.Eventually(t, func() bool {
		v, _ := view.Read()
		return !v.Loading && v.Value == 7
	}, time.Second, time.Millisecond)
}
