package alloc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/flexobj/internal/conv"
	"github.com/hupe1980/flexobj/internal/mem"
)

var (
	// ErrAllocationFailed is returned when a block cannot be provided.
	ErrAllocationFailed = errors.New("alloc: allocation failed")
	// ErrInvalidRequest is returned for a non-positive size or a bad alignment.
	ErrInvalidRequest = errors.New("alloc: invalid request")
)

// Allocator provides raw allocation blocks.
type Allocator interface {
	// Allocate returns size zeroed bytes whose first byte is aligned to align.
	Allocate(size, align int) ([]byte, error)
	// Free releases a block previously returned by Allocate.
	Free(b []byte)
}

func validate(size, align int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidRequest, size)
	}
	if !conv.IsPowerOfTwo(align) {
		return fmt.Errorf("%w: alignment %d", ErrInvalidRequest, align)
	}
	return nil
}

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // block identity is its base address
}

type heap struct{}

// Heap returns an allocator backed by the Go heap. Free is a no-op: the block
// becomes garbage once no pointer into it remains.
func Heap() Allocator {
	return heap{}
}

func (heap) Allocate(size, align int) ([]byte, error) {
	if err := validate(size, align); err != nil {
		return nil, err
	}
	if size > mem.MaxSize-align {
		return nil, fmt.Errorf("%w: %d bytes exceeds the heap limit of %d", ErrAllocationFailed, size, mem.MaxSize)
	}
	b := mem.AllocAligned(size, align)
	if b == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocationFailed, size)
	}
	return b, nil
}

func (heap) Free([]byte) {}
