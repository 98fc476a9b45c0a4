package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// ErrInjected is returned by generators and allocators configured to fail.
var ErrInjected = errors.New("testutil: injected failure")

var (
	ledgers    sync.Map // uint32 -> *Ledger
	nextLedger atomic.Uint32
)

// Event identifies one constructed or destroyed Probe.
type Event struct {
	Region int32
	ID     int32
}

// Ledger records Probe constructions and destructions. Probes are
// pointer-free, so they refer to their ledger by id.
type Ledger struct {
	id uint32

	mu          sync.Mutex
	constructed []Event
	destroyed   []Event
}

// NewLedger registers a ledger for the duration of the test.
func NewLedger(tb testing.TB) *Ledger {
	tb.Helper()
	l := &Ledger{id: nextLedger.Add(1)}
	ledgers.Store(l.id, l)
	tb.Cleanup(func() { ledgers.Delete(l.id) })
	return l
}

// ID returns the ledger id stored in every Probe it tracks.
func (l *Ledger) ID() uint32 { return l.id }

// Generator returns an element generator for region that fails with ErrInjected
// on element failAt. A negative failAt never fails.
func (l *Ledger) Generator(region int32, failAt int) func(i int, p *Probe) error {
	return func(i int, p *Probe) error {
		if i == failAt {
			return fmt.Errorf("%w: region %d element %d", ErrInjected, region, i)
		}
		*p = Probe{Ledger: l.id, Region: region, ID: int32(i)}
		l.record(&l.constructed, p)
		return nil
	}
}

// Constructed returns construction events in order.
func (l *Ledger) Constructed() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.constructed...)
}

// Destroyed returns destruction events in order.
func (l *Ledger) Destroyed() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.destroyed...)
}

// Alive returns the number of probes constructed but not destroyed.
func (l *Ledger) Alive() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.constructed) - len(l.destroyed)
}

func (l *Ledger) record(dst *[]Event, p *Probe) {
	l.mu.Lock()
	*dst = append(*dst, Event{Region: p.Region, ID: p.ID})
	l.mu.Unlock()
}

// Probe is a pointer-free element that reports its destruction to a Ledger.
type Probe struct {
	Ledger uint32
	Region int32
	ID     int32
}

// Destroy implements flexobj.Destroyer. A zero Probe has no ledger and is a no-op.
func (p *Probe) Destroy() {
	if p.Ledger == 0 {
		return
	}
	v, ok := ledgers.Load(p.Ledger)
	if !ok {
		panic(fmt.Sprintf("testutil: probe destroyed after ledger %d was closed", p.Ledger))
	}
	v.(*Ledger).record(&v.(*Ledger).destroyed, p)
}
