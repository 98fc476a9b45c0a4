package flexobj

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Header is implemented by pointer-to-header types. Handles lists the header's
// region descriptors in the order their extents are passed to Make and their
// regions are laid out in the block:
//
//	type blob struct {
//	    refs refcount.Count
//	    keys flexobj.Array[uint64]
//	    vals flexobj.Array[float32]
//	}
//
//	func (b *blob) Handles() []flexobj.Handle {
//	    return []flexobj.Handle{&b.keys, &b.vals}
//	}
//
// Every handle must be a field of the receiver, and every call must return the
// same fields in the same order.
type Header interface {
	Handles() []Handle
}

// handleOffsets validates that every handle lies inside *h and returns each
// handle's offset from h.
func handleOffsets[H any](h *H, handles []Handle) ([]uintptr, error) {
	base := uintptr(unsafe.Pointer(h))
	size := unsafe.Sizeof(*h)

	offs := make([]uintptr, len(handles))
	seen := make(map[uintptr]struct{}, len(handles))
	for i, hd := range handles {
		if hd == nil {
			return nil, fmt.Errorf("%w: handle %d is nil", ErrInvalidRegistry, i)
		}
		v := reflect.ValueOf(hd)
		if v.IsNil() {
			return nil, fmt.Errorf("%w: handle %d is a nil %T", ErrInvalidRegistry, i, hd)
		}
		p := uintptr(v.UnsafePointer())
		if p < base || p >= base+size {
			return nil, fmt.Errorf("%w: handle %d (%T) is not a field of %s", ErrInvalidRegistry, i, hd, reflect.TypeFor[H]())
		}
		off := p - base
		if _, dup := seen[off]; dup {
			return nil, fmt.Errorf("%w: handle %d is listed twice", ErrInvalidRegistry, i)
		}
		seen[off] = struct{}{}
		offs[i] = off
	}
	return offs, nil
}

func sameRegistry(probe, live []Handle, probeOffs, liveOffs []uintptr) bool {
	if len(probe) != len(live) {
		return false
	}
	for i := range probe {
		if probeOffs[i] != liveOffs[i] || reflect.TypeOf(probe[i]) != reflect.TypeOf(live[i]) {
			return false
		}
	}
	return true
}
