package flexobj

import (
	"fmt"
	"iter"
	"reflect"
	"sync"
	"unsafe"

	"github.com/hupe1980/flexobj/internal/layout"
)

// Policy is a region's destruction policy.
type Policy uint8

const (
	// PolicyTrivial regions are released without touching their elements.
	PolicyTrivial Policy = iota
	// PolicyElementwise regions call Destroy on every element, last to first.
	PolicyElementwise
)

func (p Policy) String() string {
	switch p {
	case PolicyTrivial:
		return "trivial"
	case PolicyElementwise:
		return "elementwise"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Destroyer is implemented (on the pointer receiver) by element and header
// types that need teardown before their memory is released.
type Destroyer interface {
	Destroy()
}

// Handle is a region descriptor embedded in a header. It is implemented by
// *Array, *Range and *AdjacentRange only.
type Handle interface {
	// Len returns the number of elements in the region.
	Len() int
	// Policy returns the region's destruction policy.
	Policy() Policy

	elem() layout.Layout
	elemType() reflect.Type
	checkExtent(ext Extent) error
	// construct initializes the elements at p, advancing *built after each one.
	construct(p unsafe.Pointer, ext Extent, built *int) error
	// destroyElems tears down elements [0, n) at p in reverse order.
	destroyElems(p unsafe.Pointer, n int)
	// bind records where the region lives; off is relative to the block base.
	bind(base unsafe.Pointer, off uintptr, n int)
	// elems returns the first element address of a bound region.
	elems(base unsafe.Pointer) unsafe.Pointer
}

// noCopy makes go vet report headers copied by value; descriptors locate their
// elements relative to their own address.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// span is the bound state shared by Array and Range: the distance from the
// span itself to element 0, and the element count.
type span struct {
	rel uintptr
	n   int
}

func (s *span) bind(base unsafe.Pointer, off uintptr, n int, elemSize uintptr) {
	s.n = n
	if n == 0 || elemSize == 0 {
		// Nothing to address; zero-size elements all alias the span itself.
		s.rel = 0
		return
	}
	s.rel = uintptr(base) + off - uintptr(unsafe.Pointer(s))
}

func (s *span) at() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(s), s.rel)
}

func sliceAt[T any](p unsafe.Pointer, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}

func enumerate[T any](s []T) iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range s {
			if !yield(i, &s[i]) {
				return
			}
		}
	}
}

// Array is a fixed-length region of trivially destructible elements.
// Destroying its block never touches the elements.
type Array[T any] struct {
	_ noCopy
	span
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.n }

// Policy returns PolicyTrivial.
func (a *Array[T]) Policy() Policy { return PolicyTrivial }

// Slice returns the elements. It is nil for an empty or unbound region.
func (a *Array[T]) Slice() []T {
	return sliceAt[T](a.at(), a.n)
}

// At returns a pointer to element i. It panics if i is out of range.
func (a *Array[T]) At(i int) *T {
	return &a.Slice()[i]
}

// All iterates over index/element pointer pairs.
func (a *Array[T]) All() iter.Seq2[int, *T] {
	return enumerate(a.Slice())
}

func (a *Array[T]) elem() layout.Layout             { return layout.Of[T]() }
func (a *Array[T]) elemType() reflect.Type          { return reflect.TypeFor[T]() }
func (a *Array[T]) checkExtent(ext Extent) error    { return checkInit[T](ext) }
func (a *Array[T]) destroyElems(unsafe.Pointer, int) {}
func (a *Array[T]) elems(unsafe.Pointer) unsafe.Pointer {
	return a.at()
}

func (a *Array[T]) construct(p unsafe.Pointer, ext Extent, built *int) error {
	return constructElems[T](p, ext, built)
}

func (a *Array[T]) bind(base unsafe.Pointer, off uintptr, n int) {
	a.span.bind(base, off, n, uintptr(a.elem().Size))
}

// Range is a fixed-length region whose elements are destroyed individually.
// The second type parameter is always *T, as in Range[Conn, *Conn].
type Range[T any, PT interface {
	*T
	Destroyer
}] struct {
	_ noCopy
	span
}

// Len returns the number of elements.
func (r *Range[T, PT]) Len() int { return r.n }

// Policy returns PolicyElementwise.
func (r *Range[T, PT]) Policy() Policy { return PolicyElementwise }

// Slice returns the elements. It is nil for an empty or unbound region.
func (r *Range[T, PT]) Slice() []T {
	return sliceAt[T](r.at(), r.n)
}

// At returns a pointer to element i. It panics if i is out of range.
func (r *Range[T, PT]) At(i int) *T {
	return &r.Slice()[i]
}

// All iterates over index/element pointer pairs.
func (r *Range[T, PT]) All() iter.Seq2[int, *T] {
	return enumerate(r.Slice())
}

func (r *Range[T, PT]) elem() layout.Layout          { return layout.Of[T]() }
func (r *Range[T, PT]) elemType() reflect.Type       { return reflect.TypeFor[T]() }
func (r *Range[T, PT]) checkExtent(ext Extent) error { return checkInit[T](ext) }
func (r *Range[T, PT]) elems(unsafe.Pointer) unsafe.Pointer {
	return r.at()
}

func (r *Range[T, PT]) construct(p unsafe.Pointer, ext Extent, built *int) error {
	return constructElems[T](p, ext, built)
}

func (r *Range[T, PT]) destroyElems(p unsafe.Pointer, n int) {
	s := sliceAt[T](p, n)
	for i := len(s) - 1; i >= 0; i-- {
		PT(&s[i]).Destroy()
	}
}

func (r *Range[T, PT]) bind(base unsafe.Pointer, off uintptr, n int) {
	r.span.bind(base, off, n, uintptr(r.elem().Size))
}

// AdjacentRange is a region reached only through its owning header: every
// accessor takes the header the descriptor is embedded in and resolves the
// elements from that live address. Elements whose pointer type implements
// Destroyer are destroyed individually; all others are released trivially.
type AdjacentRange[T any] struct {
	_    noCopy
	off  uintptr // element 0, relative to the owner
	self uintptr // this descriptor, relative to the owner
	n    int
}

// Len returns the number of elements.
func (r *AdjacentRange[T]) Len() int { return r.n }

// Policy reports whether T's pointer type implements Destroyer. The answer is
// fixed per element type and computed once.
func (r *AdjacentRange[T]) Policy() Policy { return policyOf[T]() }

// Slice returns the elements of the region embedded in owner. It panics if
// owner is not the header containing r.
func (r *AdjacentRange[T]) Slice(owner Header) []T {
	if r.n == 0 {
		return nil
	}
	return sliceAt[T](r.elems(r.ownerBase(owner)), r.n)
}

// At returns a pointer to element i of the region embedded in owner.
func (r *AdjacentRange[T]) At(owner Header, i int) *T {
	return &r.Slice(owner)[i]
}

// All iterates over the region embedded in owner.
func (r *AdjacentRange[T]) All(owner Header) iter.Seq2[int, *T] {
	return enumerate(r.Slice(owner))
}

func (r *AdjacentRange[T]) ownerBase(owner Header) unsafe.Pointer {
	v := reflect.ValueOf(owner)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic(fmt.Sprintf("flexobj: adjacent range owner must be a non-nil pointer, got %T", owner))
	}
	base := v.UnsafePointer()
	if uintptr(unsafe.Pointer(r))-uintptr(base) != r.self {
		panic(fmt.Sprintf("flexobj: adjacent range accessed through foreign owner %T", owner))
	}
	return base
}

func (r *AdjacentRange[T]) elem() layout.Layout          { return layout.Of[T]() }
func (r *AdjacentRange[T]) elemType() reflect.Type       { return reflect.TypeFor[T]() }
func (r *AdjacentRange[T]) checkExtent(ext Extent) error { return checkInit[T](ext) }
func (r *AdjacentRange[T]) elems(base unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(base, r.off)
}

func (r *AdjacentRange[T]) construct(p unsafe.Pointer, ext Extent, built *int) error {
	return constructElems[T](p, ext, built)
}

func (r *AdjacentRange[T]) destroyElems(p unsafe.Pointer, n int) {
	if policyOf[T]() == PolicyTrivial {
		return
	}
	s := sliceAt[T](p, n)
	for i := len(s) - 1; i >= 0; i-- {
		any(&s[i]).(Destroyer).Destroy()
	}
}

func (r *AdjacentRange[T]) bind(base unsafe.Pointer, off uintptr, n int) {
	r.self = uintptr(unsafe.Pointer(r)) - uintptr(base)
	r.n = n
	if n == 0 || r.elem().Size == 0 {
		r.off = 0
		return
	}
	r.off = off
}

var policies sync.Map // reflect.Type -> Policy

// policyOf reports whether *T implements Destroyer, computed once per type.
func policyOf[T any]() Policy {
	t := reflect.TypeFor[T]()
	if v, ok := policies.Load(t); ok {
		return v.(Policy)
	}
	p := PolicyTrivial
	if reflect.PointerTo(t).Implements(destroyerType) {
		p = PolicyElementwise
	}
	v, _ := policies.LoadOrStore(t, p)
	return v.(Policy)
}

var destroyerType = reflect.TypeFor[Destroyer]()
