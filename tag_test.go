package rxblox

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagMembershipAndValues(t *testing.T) {
	tag := NewTag[int]()
	a := NewSignal(1, WithTags(tag))
	b := NewSignal(2, WithTags(tag))

	assert.Equal(t, 2, tag.Size())
	assert.True(t, tag.Has(a))
	assert.True(t, tag.Has(b))

	values := tag.Values()
	sort.Ints(values)
	assert.Equal(t, []int{1, 2}, values)
}

func TestTagDeleteAndDisposeUnregister(t *testing.T) {
	tag := NewTag[int]()
	a := NewSignal(1, WithTags(tag))
	b := NewSignal(2, WithTags(tag))

	tag.Delete(a)
	assert.False(t, tag.Has(a))
	assert.Equal(t, 1, tag.Size())

	b.Dispose()
	assert.Equal(t, 0, tag.Size(), "disposing a tagged signal must unregister it")
}

func TestTagClear(t *testing.T) {
	tag := NewTag[int]()
	NewSignal(1, WithTags(tag))
	NewSignal(2, WithTags(tag))

	tag.Clear()
	assert.Equal(t, 0, tag.Size())
}

func TestTagForEach(t *testing.T) {
	tag := NewTag[int]()
	NewSignal(1, WithTags(tag))
	NewSignal(2, WithTags(tag))

	var sum int
	tag.ForEach(func(v int) { sum += v })
	assert.Equal(t, 3, sum)
}

func TestForEachTagDeduplicatesAcrossTags(t *testing.T) {
	tagA := NewTag[int]()
	tagB := NewTag[int]()
	shared := NewSignal(5, WithTags(tagA, tagB))
	only := NewSignal(10, WithTags(tagB))

	var total int
	ForEachTag([]*Tag[int]{tagA, tagB}, func(v int) { total += v })
	assert.Equal(t, 15, total)

	_ = shared
	_ = only
}
