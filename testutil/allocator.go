package testutil

import (
	"sync"

	"github.com/hupe1980/flexobj/alloc"
)

// FailingAllocator delegates to an inner allocator until its budget of
// successful allocations is spent, then fails every request with ErrInjected.
type FailingAllocator struct {
	inner alloc.Allocator

	mu        sync.Mutex
	remaining int
	calls     int
}

// FailAfter allows n successful allocations from inner.
func FailAfter(inner alloc.Allocator, n int) *FailingAllocator {
	return &FailingAllocator{inner: inner, remaining: n}
}

// Allocate implements alloc.Allocator.
func (f *FailingAllocator) Allocate(size, align int) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	if f.remaining <= 0 {
		f.mu.Unlock()
		return nil, ErrInjected
	}
	f.remaining--
	f.mu.Unlock()

	return f.inner.Allocate(size, align)
}

// Free implements alloc.Allocator.
func (f *FailingAllocator) Free(b []byte) {
	f.inner.Free(b)
}

// Calls returns the number of Allocate calls, successful or not.
func (f *FailingAllocator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
