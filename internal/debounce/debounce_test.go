package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer(t *testing.T) {
	t.Run("only the last call in a burst runs", func(t *testing.T) {
		d := New(30 * time.Millisecond)
		var calls atomic.Int32
		var last atomic.Int32

		for i := 1; i <= 5; i++ {
			d.Trigger("billboard-1", func() {
				calls.Add(1)
				last.Store(int32(i))
			})
			time.Sleep(5 * time.Millisecond)
		}

		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, int32(5), last.Load())
		assert.False(t, d.Pending("billboard-1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		d := New(20 * time.Millisecond)
		var a, b atomic.Int32

		d.Trigger("a", func() { a.Add(1) })
		d.Trigger("b", func() { b.Add(1) })

		assert.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("cancel drops the pending call", func(t *testing.T) {
		d := New(20 * time.Millisecond)
		var calls atomic.Int32

		d.Trigger("a", func() { calls.Add(1) })

		assert.True(t, d.Cancel("a"))
		assert.False(t, d.Cancel("a"))
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("flush runs immediately and only once", func(t *testing.T) {
		d := New(time.Hour)
		var calls atomic.Int32

		d.Trigger("a", func() { calls.Add(1) })

		assert.True(t, d.Flush("a"))
		assert.Equal(t, int32(1), calls.Load())
		assert.False(t, d.Flush("a"))
		assert.False(t, d.Pending("a"))
	})

	t.Run("flush all on shutdown", func(t *testing.T) {
		d := New(time.Hour)
		var calls atomic.Int32

		d.Trigger("a", func() { calls.Add(1) })
		d.Trigger("b", func() { calls.Add(1) })
		d.FlushAll()

		assert.Equal(t, int32(2), calls.Load())
	})
}
