package shared

import (
	"github.com/hupe1980/flexobj"
	"github.com/hupe1980/flexobj/refcount"
)

type rangeBlock[T any, PT interface {
	*T
	flexobj.Destroyer
}] struct {
	refs refcount.Count
	data flexobj.Range[T, PT]
}

func (b *rangeBlock[T, PT]) Handles() []flexobj.Handle { return []flexobj.Handle{&b.data} }
func (b *rangeBlock[T, PT]) count() *refcount.Count    { return &b.refs }

// Range is a reference-counted handle to a fixed-length range whose elements
// are destroyed individually when the last reference is released.
type Range[T any, PT interface {
	*T
	flexobj.Destroyer
}] struct {
	handle[rangeBlock[T, PT], *rangeBlock[T, PT]]
}

// MakeRange allocates n elements initialized by init (zeroed if init is nil)
// with a count of one. The count is local unless WithMode says otherwise.
func MakeRange[T any, PT interface {
	*T
	flexobj.Destroyer
}](n int, init func(i int, e *T) error, opts ...Option) (*Range[T, PT], error) {
	o := newOptions(refcount.Local, opts)

	ext := flexobj.N(n)
	if init != nil {
		ext = flexobj.Generate(n, init)
	}

	b, err := flexobj.Make[rangeBlock[T, PT]](o.engine, func(b *rangeBlock[T, PT]) error {
		o.initCount(&b.refs)
		return nil
	}, ext)
	if err != nil {
		return nil, err
	}
	return &Range[T, PT]{handle[rangeBlock[T, PT], *rangeBlock[T, PT]]{e: o.engine, p: b}}, nil
}

// Clone returns a new handle sharing the block.
func (r *Range[T, PT]) Clone() *Range[T, PT] {
	return &Range[T, PT]{r.share()}
}

// Move returns a new handle owning this handle's reference and empties r.
func (r *Range[T, PT]) Move() *Range[T, PT] {
	return &Range[T, PT]{r.take()}
}

// Assign releases r's block and makes r share other's.
func (r *Range[T, PT]) Assign(other *Range[T, PT]) {
	r.assign(&other.handle)
}

// Len returns the number of elements, or 0 if r is empty.
func (r *Range[T, PT]) Len() int {
	if r.p == nil {
		return 0
	}
	return r.p.data.Len()
}

// Slice returns the elements.
func (r *Range[T, PT]) Slice() []T {
	if r.p == nil {
		return nil
	}
	return r.p.data.Slice()
}

// At returns a pointer to element i.
func (r *Range[T, PT]) At(i int) *T {
	return r.p.data.At(i)
}
