package refcount

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount_Local(t *testing.T) {
	var c Count
	c.Init(Local, 1)

	c.Inc()
	c.Inc()
	assert.Equal(t, uint32(3), c.Load())

	assert.False(t, c.Dec())
	assert.False(t, c.Dec())
	assert.True(t, c.Dec())
	assert.Zero(t, c.Load())
}

func TestCount_ZeroValueIsLocal(t *testing.T) {
	var c Count
	assert.Equal(t, Local, c.Mode())
	assert.Zero(t, c.Load())
	assert.Panics(t, func() { c.Dec() })
}

func TestCount_AtomicExactlyOneLast(t *testing.T) {
	const n = 64

	var c Count
	c.Init(Atomic, 1)
	for range n - 1 {
		c.Inc()
	}

	var last atomic.Int32
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Dec() {
				last.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), last.Load())
	assert.Zero(t, c.Load())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "local", Local.String())
	assert.Equal(t, "atomic", Atomic.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
