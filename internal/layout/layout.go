package layout

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/flexobj/internal/conv"
)

var (
	// ErrSizeOverflow is returned when size or offset arithmetic would overflow.
	ErrSizeOverflow = errors.New("layout: size overflow")
	// ErrNegativeCount is returned for a region with a negative element count.
	ErrNegativeCount = errors.New("layout: negative element count")
	// ErrInvalidAlignment is returned when an alignment is not a power of two.
	ErrInvalidAlignment = errors.New("layout: invalid alignment")
)

// Layout is the size and alignment of some type.
type Layout struct {
	Size, Align int
}

// Of returns the size and alignment of T.
func Of[T any]() Layout {
	var z T
	return Layout{Size: int(unsafe.Sizeof(z)), Align: int(unsafe.Alignof(z))}
}

// Region describes one trailing region: Count elements of layout Elem.
type Region struct {
	Elem  Layout
	Count int
}

// Bytes returns the number of trailing bytes the region occupies.
func (r Region) Bytes() (int, error) {
	if r.Count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, r.Count)
	}
	n, err := conv.MulInt(r.Count, r.Elem.Size)
	if err != nil {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrSizeOverflow, r.Count, r.Elem.Size)
	}
	return n, nil
}

// Plan is the computed layout of one allocation block.
type Plan struct {
	// Size is the total number of bytes to allocate.
	Size int
	// Align is the alignment the block base must satisfy.
	Align int
	// Offsets holds the header offset (always 0) followed by one offset per region.
	Offsets []int
}

// Region returns the byte offset of region i.
func (p Plan) Region(i int) int {
	return p.Offsets[i+1]
}

// Compute lays out header followed by regions, in order.
func Compute(header Layout, regions []Region) (Plan, error) {
	if !conv.IsPowerOfTwo(header.Align) {
		return Plan{}, fmt.Errorf("%w: header alignment %d", ErrInvalidAlignment, header.Align)
	}

	p := Plan{
		Align:   header.Align,
		Offsets: make([]int, 1, len(regions)+1),
	}
	cursor := header.Size

	for i, r := range regions {
		if !conv.IsPowerOfTwo(r.Elem.Align) {
			return Plan{}, fmt.Errorf("%w: region %d alignment %d", ErrInvalidAlignment, i, r.Elem.Align)
		}
		n, err := r.Bytes()
		if err != nil {
			return Plan{}, fmt.Errorf("region %d: %w", i, err)
		}
		p.Align = max(p.Align, r.Elem.Align)

		// Empty regions own no trailing bytes, so they must not add padding either.
		if n == 0 {
			p.Offsets = append(p.Offsets, cursor)
			continue
		}

		off, err := conv.AlignUp(cursor, r.Elem.Align)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: region %d offset", ErrSizeOverflow, i)
		}
		end, err := conv.AddInt(off, n)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: region %d end", ErrSizeOverflow, i)
		}
		p.Offsets = append(p.Offsets, off)
		cursor = end
	}

	p.Size = cursor
	return p, nil
}
