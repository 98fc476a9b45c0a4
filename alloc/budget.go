package alloc

import (
	"fmt"

	"github.com/hupe1980/flexobj/internal/conv"
	"github.com/hupe1980/flexobj/resource"
)

type budgeted struct {
	inner Allocator
	rc    *resource.Controller
}

// Budget charges every block against rc. Quota failures are reported
// immediately as ErrAllocationFailed; nothing is retried.
func Budget(inner Allocator, rc *resource.Controller) Allocator {
	return &budgeted{inner: inner, rc: rc}
}

func (b *budgeted) Allocate(size, align int) ([]byte, error) {
	if err := validate(size, align); err != nil {
		return nil, err
	}
	if err := b.rc.TryAcquireAlloc(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	n := conv.IntToInt64(size)
	if err := b.rc.AcquireMemory(n); err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, size, err)
	}

	buf, err := b.inner.Allocate(size, align)
	if err != nil {
		b.rc.ReleaseMemory(n)
		return nil, err
	}
	return buf, nil
}

func (b *budgeted) Free(buf []byte) {
	b.inner.Free(buf)
	b.rc.ReleaseMemory(conv.IntToInt64(len(buf)))
}
