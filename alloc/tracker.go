package alloc

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tracker wraps an allocator and records every live block.
//
// Each block gets a sequential id; ids of blocks not yet freed are kept in a
// roaring bitmap so leak reports stay small even after millions of blocks.
type Tracker struct {
	inner Allocator

	mu     sync.Mutex
	ids    map[uintptr]uint32
	live   *roaring.Bitmap
	nextID uint32
	allocs uint64
	frees  uint64
	bytes  int64
}

// Track wraps inner. A nil inner means Heap().
func Track(inner Allocator) *Tracker {
	if inner == nil {
		inner = Heap()
	}
	return &Tracker{
		inner: inner,
		ids:   make(map[uintptr]uint32),
		live:  roaring.New(),
	}
}

// Allocate implements Allocator.
func (t *Tracker) Allocate(size, align int) ([]byte, error) {
	b, err := t.inner.Allocate(size, align)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.ids[addr(b)] = id
	t.live.Add(id)
	t.allocs++
	t.bytes += int64(len(b))

	return b, nil
}

// Free implements Allocator. Freeing an unknown or already freed block panics.
func (t *Tracker) Free(b []byte) {
	key := addr(b)

	t.mu.Lock()
	id, ok := t.ids[key]
	if !ok {
		t.mu.Unlock()
		panic(fmt.Sprintf("alloc: free of untracked block %#x", key))
	}
	delete(t.ids, key)
	t.live.Remove(id)
	t.frees++
	t.bytes -= int64(len(b))
	t.mu.Unlock()

	t.inner.Free(b)
}

// Live returns the number of blocks allocated but not yet freed.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.live.GetCardinality())
}

// LiveIDs returns the ids of unfreed blocks in allocation order.
func (t *Tracker) LiveIDs() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.ToArray()
}

// Allocs returns the number of successful Allocate calls.
func (t *Tracker) Allocs() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs
}

// Frees returns the number of Free calls.
func (t *Tracker) Frees() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frees
}

// Bytes returns the number of bytes held by live blocks.
func (t *Tracker) Bytes() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}
