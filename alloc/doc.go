// Package alloc provides the memory sources that back allocation blocks.
//
// Every block is obtained with exactly one Allocate call and released with
// exactly one Free call carrying the same slice (same first byte, same length).
//
// # Allocators
//
//   - Heap: Go heap bytes, over-allocated to honor any power-of-two alignment
//   - Mmap: one anonymous off-heap mapping per block, unmapped on Free
//   - Budget: wraps another allocator with a resource.Controller quota
//   - Track: wraps another allocator and records live blocks
//
// Block memory is never scanned by the garbage collector. Only pointer-free
// data may be stored in it.
package alloc
