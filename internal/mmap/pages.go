package mmap

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hupe1980/flexobj/internal/conv"
)

// ErrInvalidSize is returned when the requested size is not positive.
var ErrInvalidSize = errors.New("mmap: invalid size")

var pageSize = sync.OnceValue(os.Getpagesize)

// PageSize returns the operating system page size.
func PageSize() int {
	return pageSize()
}

// Pages is a private, zero-filled, read-write run of whole pages.
type Pages struct {
	mapped []byte
	n      int
}

// Map maps enough pages to hold size bytes.
func Map(size int) (*Pages, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	rounded, err := conv.AlignUp(size, PageSize())
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", size, err)
	}

	mapped, err := sysMap(rounded)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", rounded, err)
	}

	return &Pages{mapped: mapped, n: size}, nil
}

// Bytes returns the first size bytes of the mapping, capped so appends can
// not reach the page tail. It returns nil after Unmap.
func (p *Pages) Bytes() []byte {
	if p.mapped == nil {
		return nil
	}
	return p.mapped[:p.n:p.n]
}

// Len returns the size requested from Map.
func (p *Pages) Len() int { return p.n }

// Mapped returns the page-rounded size actually mapped.
func (p *Pages) Mapped() int { return len(p.mapped) }

// Unmap releases the pages. Later calls are no-ops. Not safe for concurrent use.
func (p *Pages) Unmap() error {
	if p.mapped == nil {
		return nil
	}
	mapped := p.mapped
	p.mapped = nil
	return sysUnmap(mapped)
}
