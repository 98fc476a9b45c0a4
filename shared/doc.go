// Package shared provides reference-counted handles to flexobj blocks.
//
// Each handle owns one reference to a block whose header carries a
// refcount.Count. Clone adds a reference, Release drops one, and the block is
// destroyed exactly once, when the count goes from one to zero. Move transfers
// the reference without touching the count and leaves the source empty.
//
// Go has no copy constructors: assigning a handle value copies the pointer
// without counting it. Always use Clone to share a handle.
//
//	a, _ := shared.MakeArray[byte](100)
//	b := a.Clone()        // UseCount() == 2
//	b.Slice()[0] = 1      // visible through a
//	b.Release()           // UseCount() == 1
//	a.Release()           // block destroyed
//
// Array and Range count locally by default and must stay on one goroutine
// unless created WithMode(refcount.Atomic). Iterable counts atomically by
// default.
package shared
