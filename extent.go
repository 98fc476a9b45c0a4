package flexobj

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Extent is the runtime length of one region together with the policy used
// to initialize its elements. Extents are passed to Make in Handles order.
type Extent struct {
	n    int
	init any // nil, fill[T] or func(int, *T) error
}

// N is an extent of n zero-valued elements.
func N(n int) Extent {
	return Extent{n: n}
}

// Lens returns one zero-initialized extent per length.
func Lens(ns ...int) []Extent {
	exts := make([]Extent, len(ns))
	for i, n := range ns {
		exts[i] = N(n)
	}
	return exts
}

// Fill is an extent of n copies of v.
func Fill[T any](n int, v T) Extent {
	return Extent{n: n, init: fill[T]{v: v}}
}

// Generate is an extent of n elements initialized by fn. Each element is
// zeroed before fn sees it. If fn fails for element i, elements 0..i-1 are
// considered constructed and element i is not.
func Generate[T any](n int, fn func(i int, e *T) error) Extent {
	return Extent{n: n, init: fn}
}

// Len returns the number of elements.
func (e Extent) Len() int { return e.n }

type fill[T any] struct {
	v T
}

func checkInit[T any](ext Extent) error {
	switch fn := ext.init.(type) {
	case nil, fill[T]:
		return nil
	case func(int, *T) error:
		if fn == nil {
			return fmt.Errorf("%w: nil generator for %s", ErrExtentType, reflect.TypeFor[T]())
		}
		return nil
	default:
		return fmt.Errorf("%w: %T for region of %s", ErrExtentType, ext.init, reflect.TypeFor[T]())
	}
}

func constructElems[T any](p unsafe.Pointer, ext Extent, built *int) error {
	s := sliceAt[T](p, ext.n)

	switch fn := ext.init.(type) {
	case fill[T]:
		for i := range s {
			s[i] = fn.v
			*built = i + 1
		}
	case func(int, *T) error:
		var zero T
		for i := range s {
			s[i] = zero
			if err := fn(i, &s[i]); err != nil {
				return err
			}
			*built = i + 1
		}
	default:
		clear(s)
		*built = len(s)
	}
	return nil
}
