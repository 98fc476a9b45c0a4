// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides arbitrarily aligned heap allocation for allocation blocks whose
// header or regions require more than the Go allocator guarantees.
package mem
