package shared

import (
	"iter"

	"github.com/hupe1980/flexobj"
	"github.com/hupe1980/flexobj/refcount"
)

type iterableBlock[T any] struct {
	refs refcount.Count
	data flexobj.AdjacentRange[T]
}

func (b *iterableBlock[T]) Handles() []flexobj.Handle { return []flexobj.Handle{&b.data} }
func (b *iterableBlock[T]) count() *refcount.Count    { return &b.refs }

// Iterable is a reference-counted handle to a range that is always iterated
// through the live header. Handles may be cloned and released from any
// goroutine; element access is not synchronized.
type Iterable[T any] struct {
	handle[iterableBlock[T], *iterableBlock[T]]
}

// MakeIterable allocates n elements initialized by init (zeroed if init is
// nil) with a count of one. The count is atomic unless WithMode says otherwise.
func MakeIterable[T any](n int, init func(i int, e *T) error, opts ...Option) (*Iterable[T], error) {
	o := newOptions(refcount.Atomic, opts)

	ext := flexobj.N(n)
	if init != nil {
		ext = flexobj.Generate(n, init)
	}

	b, err := flexobj.Make[iterableBlock[T]](o.engine, func(b *iterableBlock[T]) error {
		o.initCount(&b.refs)
		return nil
	}, ext)
	if err != nil {
		return nil, err
	}
	return &Iterable[T]{handle[iterableBlock[T], *iterableBlock[T]]{e: o.engine, p: b}}, nil
}

// Clone returns a new handle sharing the block.
func (it *Iterable[T]) Clone() *Iterable[T] {
	return &Iterable[T]{it.share()}
}

// Move returns a new handle owning this handle's reference and empties it.
func (it *Iterable[T]) Move() *Iterable[T] {
	return &Iterable[T]{it.take()}
}

// Assign releases it's block and makes it share other's.
func (it *Iterable[T]) Assign(other *Iterable[T]) {
	it.assign(&other.handle)
}

// Len returns the number of elements, or 0 if it is empty.
func (it *Iterable[T]) Len() int {
	if it.p == nil {
		return 0
	}
	return it.p.data.Len()
}

// All iterates over the elements. An empty handle yields nothing.
func (it *Iterable[T]) All() iter.Seq2[int, *T] {
	if it.p == nil {
		return func(func(int, *T) bool) {}
	}
	return it.p.data.All(it.p)
}

// Slice returns the elements.
func (it *Iterable[T]) Slice() []T {
	if it.p == nil {
		return nil
	}
	return it.p.data.Slice(it.p)
}
