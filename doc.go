// Package flexobj builds composite objects that live in exactly one allocation:
// a fixed-size header followed by any number of variable-length trailing
// regions.
//
// # Overview
//
// A header is a pointer-free struct that embeds one region descriptor per
// trailing region and lists them through the Header interface. Make plans
// the block, allocates it once, constructs the header and every region in
// place, and binds the descriptors. Destroy undoes all of that in reverse
// order and frees the block.
//
//	type samples struct {
//	    refs refcount.Count
//	    data flexobj.Array[float64]
//	}
//
//	func (s *samples) Handles() []flexobj.Handle { return []flexobj.Handle{&s.data} }
//
//	s, err := flexobj.Make[samples](nil, func(s *samples) error {
//	    s.refs.Init(refcount.Local, 1)
//	    return nil
//	}, flexobj.N(1024))
//	if err != nil { ... }
//	defer flexobj.Destroy(nil, s)
//
//	s.data.Slice()[0] = 42
//
// # Block Layout
//
//	[header][pad][region 0][pad][region 1]...[region N-1]
//
// Each section starts at a multiple of its alignment. Descriptors store
// offsets, never absolute addresses, and every accessor resolves the address
// on use. An unbound descriptor reads as an empty region.
//
// # Region Views
//
//   - Array: trivially destructible elements; teardown never touches them.
//   - Range: elements whose pointer type implements Destroyer; each one is
//     destroyed, last to first.
//   - AdjacentRange: elements reached only through the owning header, for
//     headers shared across goroutines under an atomic reference count.
//
// # Memory Rules
//
// Blocks are not scanned by the garbage collector, so header and element
// types must be pointer-free. Make reports ErrPointerType otherwise. Headers
// must never be copied by value: descriptors locate their regions relative
// to their own address.
//
// # Concurrency
//
// Construction and destruction of one object are not synchronized; the
// caller guarantees a single Destroy per object, typically through a
// reference count in the header (see the refcount and shared packages).
package flexobj
