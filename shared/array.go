package shared

import (
	"github.com/hupe1980/flexobj"
	"github.com/hupe1980/flexobj/refcount"
)

type arrayBlock[T any] struct {
	refs refcount.Count
	data flexobj.Array[T]
}

func (b *arrayBlock[T]) Handles() []flexobj.Handle { return []flexobj.Handle{&b.data} }
func (b *arrayBlock[T]) count() *refcount.Count    { return &b.refs }

// Array is a reference-counted handle to a fixed-length array of trivially
// destructible elements stored in the same block as its count.
type Array[T any] struct {
	handle[arrayBlock[T], *arrayBlock[T]]
}

// MakeArray allocates n zeroed elements with a count of one.
// The count is local unless WithMode says otherwise.
func MakeArray[T any](n int, opts ...Option) (*Array[T], error) {
	o := newOptions(refcount.Local, opts)

	b, err := flexobj.Make[arrayBlock[T]](o.engine, func(b *arrayBlock[T]) error {
		o.initCount(&b.refs)
		return nil
	}, flexobj.N(n))
	if err != nil {
		return nil, err
	}
	return &Array[T]{handle[arrayBlock[T], *arrayBlock[T]]{e: o.engine, p: b}}, nil
}

// Clone returns a new handle sharing the block.
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{a.share()}
}

// Move returns a new handle owning this handle's reference and empties a.
func (a *Array[T]) Move() *Array[T] {
	return &Array[T]{a.take()}
}

// Assign releases a's block and makes a share other's.
func (a *Array[T]) Assign(other *Array[T]) {
	a.assign(&other.handle)
}

// Len returns the number of elements, or 0 if a is empty.
func (a *Array[T]) Len() int {
	if a.p == nil {
		return 0
	}
	return a.p.data.Len()
}

// Slice returns the elements.
func (a *Array[T]) Slice() []T {
	if a.p == nil {
		return nil
	}
	return a.p.data.Slice()
}

// At returns a pointer to element i.
func (a *Array[T]) At(i int) *T {
	return a.p.data.At(i)
}
