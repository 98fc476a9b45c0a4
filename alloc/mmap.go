package alloc

import (
	"fmt"
	"sync"

	"github.com/hupe1980/flexobj/internal/mmap"
)

// MmapAllocator backs each block with its own anonymous mapping, keeping block
// memory entirely outside the Go heap.
type MmapAllocator struct {
	mu   sync.Mutex
	live map[uintptr]*mmap.Pages
}

// Mmap creates an off-heap allocator.
func Mmap() *MmapAllocator {
	return &MmapAllocator{
		live: make(map[uintptr]*mmap.Pages),
	}
}

// Allocate maps a fresh zeroed region. Alignment up to the page size is free.
func (a *MmapAllocator) Allocate(size, align int) ([]byte, error) {
	if err := validate(size, align); err != nil {
		return nil, err
	}
	if align > mmap.PageSize() {
		return nil, fmt.Errorf("%w: alignment %d exceeds page size", ErrInvalidRequest, align)
	}

	m, err := mmap.Map(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	b := m.Bytes()

	a.mu.Lock()
	a.live[addr(b)] = m
	a.mu.Unlock()

	return b, nil
}

// Free unmaps the block. Freeing a block this allocator did not hand out panics.
func (a *MmapAllocator) Free(b []byte) {
	key := addr(b)

	a.mu.Lock()
	m, ok := a.live[key]
	delete(a.live, key)
	a.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("alloc: free of unknown block %#x", key))
	}
	if err := m.Unmap(); err != nil {
		panic(fmt.Sprintf("alloc: unmap block %#x: %v", key, err))
	}
}

// Live returns the number of mapped blocks.
func (a *MmapAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
