package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Compute(t *testing.T) {
	s := New[string, int]()

	stored := s.Compute("foo", func(cur int, ok bool) (int, bool) {
		assert.False(t, ok)
		return 42, true
	})
	assert.True(t, stored)

	val, ok := s.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	// Returning store=false leaves the value alone
	stored = s.Compute("foo", func(cur int, ok bool) (int, bool) {
		assert.True(t, ok)
		assert.Equal(t, 42, cur)
		return 0, false
	})
	assert.False(t, stored)

	val, _ = s.Get("foo")
	assert.Equal(t, 42, val)

	// Get non-existent
	_, ok = s.Get("bar")
	assert.False(t, ok)
}

func TestStore_DeleteIf(t *testing.T) {
	s := New[string, int]()
	s.Compute("key", func(int, bool) (int, bool) { return 7, true })

	assert.False(t, s.DeleteIf("key", func(v int) bool { return v == 8 }))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.DeleteIf("key", func(v int) bool { return v == 7 }))
	assert.Equal(t, 0, s.Len())

	assert.False(t, s.DeleteIf("missing", func(int) bool { return true }))
}

func TestStore_ConcurrentCompute(t *testing.T) {
	s := New[string, int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Compute("counter", func(cur int, _ bool) (int, bool) {
				return cur + 1, true
			})
		}()
	}

	wg.Wait()

	val, _ := s.Get("counter")
	assert.Equal(t, 100, val)
}
