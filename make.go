package flexobj

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/hupe1980/flexobj/alloc"
	"github.com/hupe1980/flexobj/internal/layout"
)

// Make allocates a single block holding an H followed by one trailing region
// per handle, and constructs it in place:
//
//  1. The block is planned and allocated; nothing is constructed on failure.
//  2. init runs on the zeroed header. A nil init leaves the header zeroed.
//  3. Each region's elements are initialized from its extent, in Handles order.
//  4. Every descriptor is bound to its region.
//
// If init or an element generator fails, everything already constructed is
// destroyed in reverse order, the block is freed, and a *ConstructionError is
// returned. The same rollback runs before a panic is propagated, and the
// attempt is still recorded as a rollback in metrics and logs.
//
// The returned pointer is both the header and the block base. It must be
// released with exactly one call to Destroy.
func Make[H any, PH interface {
	*H
	Header
}](e *Engine, init func(*H) error, extents ...Extent) (*H, error) {
	if e == nil {
		e = Default()
	}

	start := time.Now()
	typ := typeName[H]()

	at := attempt{region: -1, index: -1}
	var (
		h   *H
		err error
	)
	returned := false
	defer func() {
		if !returned {
			err = at.panicError(typ)
		}
		e.metrics.RecordConstruct(at.size, time.Since(start), err)
		e.logger.LogConstruct(typ, len(extents), at.size, err)
	}()

	h, err = construct[H, PH](e, typ, init, extents, &at)
	returned = true

	return h, err
}

// attempt records how far construct got, so a panic can still be reported.
type attempt struct {
	size      int
	allocated bool
	region    int // -1 while the header is being initialized
	index     int
}

func (a *attempt) panicError(typ string) error {
	if !a.allocated {
		return fmt.Errorf("flexobj: construct %s: %w", typ, errPanicked)
	}
	return &ConstructionError{Type: typ, Region: a.region, Index: a.index, cause: errPanicked}
}

// Destroy tears down an object returned by Make and frees its block. Regions
// are visited in reverse Handles order; elementwise regions destroy their
// elements from last to first, trivial regions are skipped. Then the header's
// Destroy runs if *H implements Destroyer.
//
// A nil h is a no-op. Destroying the same object twice is undefined.
func Destroy[H any, PH interface {
	*H
	Header
}](e *Engine, h *H) {
	if h == nil {
		return
	}
	if e == nil {
		e = Default()
	}

	start := time.Now()
	typ := typeName[H]()
	base := unsafe.Pointer(h)

	handles := PH(h).Handles()
	size := blockSize[H](typ, handles)

	for i := len(handles) - 1; i >= 0; i-- {
		hd := handles[i]
		if hd.Policy() == PolicyTrivial || hd.Len() == 0 {
			continue
		}
		hd.destroyElems(hd.elems(base), hd.Len())
	}
	destroyHeader(h)

	e.alloc.Free(unsafe.Slice((*byte)(base), size))

	e.metrics.RecordDestroy(size, time.Since(start))
	e.logger.LogDestroy(typ, size)
}

// Size returns the size in bytes of the block backing h.
func Size[H any, PH interface {
	*H
	Header
}](h *H) int {
	return blockSize[H](typeName[H](), PH(h).Handles())
}

func construct[H any, PH interface {
	*H
	Header
}](e *Engine, typ string, init func(*H) error, extents []Extent, at *attempt) (*H, error) {
	if !layout.PointerFree[H]() {
		return nil, fmt.Errorf("%w: header %s", ErrPointerType, typ)
	}

	// The registry is discovered on a zero header before anything is allocated.
	var probe H
	handles := PH(&probe).Handles()
	offs, err := handleOffsets(&probe, handles)
	if err != nil {
		return nil, err
	}
	if len(extents) != len(handles) {
		return nil, fmt.Errorf("%w: %s declares %d regions, got %d extents", ErrRegionCount, typ, len(handles), len(extents))
	}

	regions := make([]layout.Region, len(handles))
	for i, hd := range handles {
		if layout.HasPointers(hd.elemType()) {
			return nil, fmt.Errorf("%w: region %d element %s", ErrPointerType, i, hd.elemType())
		}
		if err := hd.checkExtent(extents[i]); err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		regions[i] = layout.Region{Elem: hd.elem(), Count: extents[i].n}
	}

	plan, err := layout.Compute(layout.Of[H](), regions)
	if err != nil {
		return nil, translateError(err)
	}
	size := max(plan.Size, 1)
	at.size = size

	buf, err := e.alloc.Allocate(size, plan.Align)
	if err != nil {
		return nil, allocationError(err)
	}
	if len(buf) != size || uintptr(unsafe.Pointer(unsafe.SliceData(buf)))%uintptr(plan.Align) != 0 {
		e.alloc.Free(buf)
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d aligned to %d", ErrAllocationFailed, len(buf), size, plan.Align)
	}
	clear(buf)
	at.allocated = true

	b := &builder[H]{
		alloc:   e.alloc,
		buf:     buf,
		base:    unsafe.Pointer(unsafe.SliceData(buf)),
		plan:    plan,
		handles: handles,
		extents: extents,
	}
	committed := false
	defer func() {
		if !committed {
			b.rollback()
			if b.header {
				at.region, at.index = b.done, b.built
			}
		}
	}()

	h := (*H)(b.base)
	if init != nil {
		if err := init(h); err != nil {
			return nil, &ConstructionError{Type: typ, Region: -1, Index: -1, cause: err}
		}
	}
	b.header = true

	live := PH(h).Handles()
	liveOffs, err := handleOffsets(h, live)
	if err != nil {
		return nil, err
	}
	if !sameRegistry(handles, live, offs, liveOffs) {
		return nil, fmt.Errorf("%w: %s.Handles changed after initialization", ErrInvalidRegistry, typ)
	}

	for i, hd := range handles {
		b.built = 0
		if err := hd.construct(b.region(i), extents[i], &b.built); err != nil {
			return nil, &ConstructionError{Type: typ, Region: i, Index: b.built, cause: err}
		}
		b.done++
	}

	for i, hd := range live {
		hd.bind(b.base, uintptr(plan.Region(i)), extents[i].n)
	}

	committed = true
	return h, nil
}

// builder tracks construction progress so a failure can be unwound exactly.
// The probe handles are used for element work: it depends only on their
// element types, never on descriptor state.
type builder[H any] struct {
	alloc   alloc.Allocator
	buf     []byte
	base    unsafe.Pointer
	plan    layout.Plan
	handles []Handle
	extents []Extent

	header bool // init completed
	done   int  // regions fully constructed
	built  int  // elements constructed in region done
}

func (b *builder[H]) region(i int) unsafe.Pointer {
	if b.extents[i].n == 0 || b.handles[i].elem().Size == 0 {
		return b.base
	}
	return unsafe.Add(b.base, b.plan.Region(i))
}

func (b *builder[H]) rollback() {
	if b.done < len(b.handles) && b.built > 0 {
		b.handles[b.done].destroyElems(b.region(b.done), b.built)
	}
	for i := b.done - 1; i >= 0; i-- {
		if b.handles[i].Policy() == PolicyElementwise {
			b.handles[i].destroyElems(b.region(i), b.extents[i].n)
		}
	}
	if b.header {
		destroyHeader((*H)(b.base))
	}
	b.alloc.Free(b.buf)
}

func destroyHeader[H any](h *H) {
	if d, ok := any(h).(Destroyer); ok {
		d.Destroy()
	}
}

func blockSize[H any](typ string, handles []Handle) int {
	regions := make([]layout.Region, len(handles))
	for i, hd := range handles {
		regions[i] = layout.Region{Elem: hd.elem(), Count: hd.Len()}
	}
	plan, err := layout.Compute(layout.Of[H](), regions)
	if err != nil {
		// Bound descriptors always came from a successful plan.
		panic(fmt.Sprintf("flexobj: %s has corrupt descriptors: %v", typ, err))
	}
	return max(plan.Size, 1)
}

func typeName[H any]() string {
	return reflect.TypeFor[H]().String()
}
