// Package refcount provides a pointer-free reference counter that can be
// embedded in an allocation block header.
//
// The counting discipline is chosen once, at Init:
//
//   - Local: plain integer arithmetic. Only safe while every owning handle
//     stays on one goroutine.
//   - Atomic: every update is a single atomic operation, so any number of
//     goroutines may hold and drop owning handles concurrently.
package refcount

import (
	"fmt"
	"sync/atomic"
)

// Mode selects the counting discipline.
type Mode uint32

const (
	// Local counts without synchronization.
	Local Mode = iota
	// Atomic counts with atomic fetch-and-add.
	Atomic
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Atomic:
		return "atomic"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// Count is a reference count. The zero value is a Local count of 0.
type Count struct {
	mode Mode
	n    uint32
}

// Init sets the discipline and the starting count. It must be called before
// the count is shared.
func (c *Count) Init(mode Mode, n uint32) {
	c.mode = mode
	c.n = n
}

// Mode returns the counting discipline.
func (c *Count) Mode() Mode {
	return c.mode
}

// Inc adds one reference.
func (c *Count) Inc() {
	if c.mode == Atomic {
		atomic.AddUint32(&c.n, 1)
		return
	}
	c.n++
}

// Dec drops one reference and reports whether it was the last one, i.e. the
// value before the decrement was 1. Exactly one caller observes true.
func (c *Count) Dec() bool {
	var prev uint32
	if c.mode == Atomic {
		prev = atomic.AddUint32(&c.n, ^uint32(0)) + 1
	} else {
		prev = c.n
		c.n--
	}
	if prev == 0 {
		panic("refcount: decrement of zero count")
	}
	return prev == 1
}

// Load returns the current count.
func (c *Count) Load() uint32 {
	if c.mode == Atomic {
		return atomic.LoadUint32(&c.n)
	}
	return c.n
}
