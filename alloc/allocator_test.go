package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flexobj/resource"
)

func aligned(b []byte, align int) bool {
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0
}

func TestHeap(t *testing.T) {
	a := Heap()

	for _, align := range []int{1, 8, 64, 256} {
		b, err := a.Allocate(100, align)
		require.NoError(t, err)
		assert.Len(t, b, 100)
		assert.True(t, aligned(b, align))
		a.Free(b)
	}

	_, err := a.Allocate(0, 8)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = a.Allocate(1<<60, 8)
	assert.ErrorIs(t, err, ErrAllocationFailed)

	_, err = a.Allocate(8, 12)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMmap(t *testing.T) {
	a := Mmap()

	b1, err := a.Allocate(100, 64)
	require.NoError(t, err)
	b2, err := a.Allocate(5000, 8)
	require.NoError(t, err)

	assert.True(t, aligned(b1, 64))
	assert.Len(t, b2, 5000)
	assert.Equal(t, 2, a.Live())

	b1[99] = 7
	assert.Equal(t, byte(7), b1[99])

	a.Free(b1)
	a.Free(b2)
	assert.Zero(t, a.Live())

	assert.Panics(t, func() { a.Free(b1) })
}

func TestMmap_AlignmentAbovePage(t *testing.T) {
	a := Mmap()
	_, err := a.Allocate(16, 1<<24)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256})
	a := Budget(Heap(), rc)

	b1, err := a.Allocate(200, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(200), rc.MemoryUsage())

	_, err = a.Allocate(100, 8)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, int64(200), rc.MemoryUsage())

	a.Free(b1)
	assert.Zero(t, rc.MemoryUsage())

	b2, err := a.Allocate(100, 8)
	require.NoError(t, err)
	a.Free(b2)
}

func TestBudget_AllocRate(t *testing.T) {
	rc := resource.NewController(resource.Config{AllocsPerSec: 0.001, AllocBurst: 1})
	a := Budget(Heap(), rc)

	b, err := a.Allocate(8, 8)
	require.NoError(t, err)
	defer a.Free(b)

	_, err = a.Allocate(8, 8)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrAllocRateExceeded)
}

func TestBudget_InnerFailureReleasesQuota(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	a := Budget(Mmap(), rc)

	_, err := a.Allocate(16, 1<<24)
	assert.Error(t, err)
	assert.Zero(t, rc.MemoryUsage())
}

func TestTracker(t *testing.T) {
	tr := Track(nil)

	b1, err := tr.Allocate(10, 8)
	require.NoError(t, err)
	b2, err := tr.Allocate(20, 8)
	require.NoError(t, err)
	b3, err := tr.Allocate(30, 8)
	require.NoError(t, err)

	assert.Equal(t, 3, tr.Live())
	assert.Equal(t, int64(60), tr.Bytes())

	tr.Free(b2)
	assert.Equal(t, []uint32{0, 2}, tr.LiveIDs())
	assert.Equal(t, uint64(3), tr.Allocs())
	assert.Equal(t, uint64(1), tr.Frees())

	tr.Free(b1)
	tr.Free(b3)
	assert.Zero(t, tr.Live())
	assert.Zero(t, tr.Bytes())

	assert.Panics(t, func() { tr.Free(b1) })
}

func TestTracker_FailedAllocationNotCounted(t *testing.T) {
	tr := Track(Heap())

	_, err := tr.Allocate(-1, 8)
	assert.Error(t, err)
	assert.Zero(t, tr.Allocs())
	assert.Zero(t, tr.Live())
}
