package mem

import (
	"unsafe"

	"github.com/hupe1980/flexobj/internal/conv"
)

// DefaultAlignment is the byte alignment used when the caller asks for less.
const DefaultAlignment = 8

// MaxSize is the largest block AllocAligned will attempt: 1<<47 bytes on
// 64-bit platforms and 1<<30 on 32-bit ones. Larger lengths make the runtime
// panic in makeslice instead of failing.
const MaxSize = 1 << (30 + 17*(^uint(0)>>63))

// AllocAligned allocates a zeroed byte slice of the given size whose first byte
// sits at an address divisible by align. align must be a power of two. It
// returns nil if size is not positive or exceeds MaxSize.
//
// The returned slice has len == cap == size, so appends never spill into
// the over-allocation used for alignment. The backing array is kept alive by any
// pointer into the slice, including pointers derived with unsafe.Add.
func AllocAligned(size, align int) []byte {
	if size <= 0 || !conv.IsPowerOfTwo(align) {
		return nil
	}
	align = max(align, DefaultAlignment)
	if size > MaxSize-align {
		return nil
	}

	// Allocate size + align - 1 so that an aligned start always fits.
	buf := make([]byte, size+align-1)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1))

	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether the first byte of b is aligned to align.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0 //nolint:gosec // unsafe is required for memory alignment
}
