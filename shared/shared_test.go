package shared_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/flexobj"
	"github.com/hupe1980/flexobj/alloc"
	"github.com/hupe1980/flexobj/refcount"
	"github.com/hupe1980/flexobj/shared"
	"github.com/hupe1980/flexobj/testutil"
)

func tracked(t *testing.T) (shared.Option, *alloc.Tracker) {
	t.Helper()
	tr := alloc.Track(alloc.Heap())
	t.Cleanup(func() {
		assert.Zero(t, tr.Live(), "leaked blocks %v", tr.LiveIDs())
	})
	return shared.WithEngine(flexobj.New(flexobj.WithAllocator(tr))), tr
}

func TestArray(t *testing.T) {
	withEngine, tr := tracked(t)

	sa1, err := shared.MakeArray[byte](100, withEngine)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sa1.UseCount())
	assert.Equal(t, 100, sa1.Len())

	sa2 := sa1.Move()
	assert.Equal(t, uint32(0), sa1.UseCount())
	assert.Equal(t, 0, sa1.Len())
	assert.Nil(t, sa1.Slice())
	assert.Equal(t, uint32(1), sa2.UseCount())

	sa3 := sa2.Clone()
	assert.Equal(t, uint32(2), sa2.UseCount())
	assert.Equal(t, uint32(2), sa3.UseCount())

	for i := range sa2.Slice() {
		*sa2.At(i) = byte(i)
	}
	for i, v := range sa3.Slice() {
		assert.Equal(t, byte(i), v)
	}

	sa3.Release()
	assert.Equal(t, uint32(0), sa3.UseCount())
	assert.Equal(t, uint32(1), sa2.UseCount())
	assert.Equal(t, 1, tr.Live())

	sa2.Release()
	assert.Zero(t, tr.Live())
	assert.Equal(t, uint64(1), tr.Frees())

	sa2.Release()
	sa1.Release()
	assert.Equal(t, uint64(1), tr.Frees())
}

func TestIterable(t *testing.T) {
	withEngine, tr := tracked(t)

	sa1, err := shared.MakeIterable[uint32](100, nil, withEngine)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sa1.UseCount())

	sa2 := sa1.Move()
	assert.Equal(t, uint32(0), sa1.UseCount())
	assert.Equal(t, uint32(1), sa2.UseCount())

	n := 0
	for range sa1.All() {
		n++
	}
	assert.Zero(t, n)

	sa3 := sa2.Clone()
	assert.Equal(t, uint32(2), sa3.UseCount())

	for i, v := range sa2.All() {
		*v = uint32(i)
	}
	n = 0
	for i, v := range sa3.All() {
		assert.Equal(t, uint32(i), *v)
		n++
	}
	assert.Equal(t, 100, n)
	assert.Len(t, sa3.Slice(), 100)

	sa3.Release()
	assert.Equal(t, uint32(1), sa2.UseCount())
	sa2.Release()
	assert.Zero(t, tr.Live())
}

func TestIterable_ConcurrentCloneRelease(t *testing.T) {
	withEngine, tr := tracked(t)
	l := testutil.NewLedger(t)

	const (
		elems   = 16
		workers = 64
	)

	base, err := shared.MakeIterable(elems, l.Generator(0, -1), withEngine)
	require.NoError(t, err)

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			c := base.Clone()
			if c.Len() != elems {
				return errors.New("clone lost its elements")
			}
			c.Release()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, uint32(1), base.UseCount())
	assert.Empty(t, l.Destroyed())

	// Hand every reference, including the original, to its own goroutine.
	handles := make([]*shared.Iterable[testutil.Probe], workers)
	for i := range handles {
		handles[i] = base.Clone()
	}
	handles = append(handles, base.Move())
	assert.Equal(t, uint32(workers+1), handles[0].UseCount())

	for _, h := range handles {
		g.Go(func() error {
			h.Release()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, l.Destroyed(), elems)
	assert.Zero(t, l.Alive())
	assert.Equal(t, uint64(1), tr.Frees())
}

func TestRange(t *testing.T) {
	withEngine, _ := tracked(t)
	l := testutil.NewLedger(t)

	r, err := shared.MakeRange[testutil.Probe](3, l.Generator(7, -1), withEngine)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, int32(2), r.At(2).ID)

	elems := r.Slice()
	require.Len(t, elems, 3)
	for i, p := range elems {
		assert.Equal(t, int32(i), p.ID)
	}

	c := r.Clone()
	assert.Same(t, &r.Slice()[0], &c.Slice()[0])
	r.Release()
	assert.Empty(t, l.Destroyed())
	assert.Nil(t, r.Slice())
	assert.Zero(t, r.Len())

	moved := c.Move()
	assert.Nil(t, c.Slice())
	c = moved

	c.Release()
	assert.Equal(t, []testutil.Event{
		{Region: 7, ID: 2},
		{Region: 7, ID: 1},
		{Region: 7, ID: 0},
	}, l.Destroyed())
}

func TestRange_ZeroInit(t *testing.T) {
	withEngine, _ := tracked(t)

	r, err := shared.MakeRange[testutil.Probe](4, nil, withEngine)
	require.NoError(t, err)
	assert.Equal(t, testutil.Probe{}, *r.At(3))
	r.Release()
}

func TestRange_ConstructionFailure(t *testing.T) {
	withEngine, tr := tracked(t)
	l := testutil.NewLedger(t)

	r, err := shared.MakeRange[testutil.Probe](5, l.Generator(0, 3), withEngine)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, flexobj.ErrConstruction)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Zero(t, l.Alive())
	assert.Equal(t, uint64(1), tr.Frees())
}

func TestAssign(t *testing.T) {
	withEngine, tr := tracked(t)

	a, err := shared.MakeArray[uint64](4, withEngine)
	require.NoError(t, err)
	b, err := shared.MakeArray[uint64](8, withEngine)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Live())

	a.Assign(b)
	assert.Equal(t, 1, tr.Live(), "a's old block is released")
	assert.Equal(t, 8, a.Len())
	assert.Equal(t, uint32(2), b.UseCount())

	a.Assign(a)
	assert.Equal(t, uint32(2), a.UseCount())

	var empty shared.Array[uint64]
	a.Assign(&empty)
	assert.Equal(t, uint32(0), a.UseCount())
	assert.Equal(t, uint32(1), b.UseCount())

	b.Release()
}

func TestWithMode(t *testing.T) {
	withEngine, _ := tracked(t)

	a, err := shared.MakeArray[byte](1, withEngine, shared.WithMode(refcount.Atomic))
	require.NoError(t, err)

	var g errgroup.Group
	for range 8 {
		c := a.Clone()
		g.Go(func() error {
			c.Release()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, uint32(1), a.UseCount())
	a.Release()
}

func TestMakeArray_Errors(t *testing.T) {
	_, err := shared.MakeArray[byte](-1)
	assert.ErrorIs(t, err, flexobj.ErrNegativeLength)

	_, err = shared.MakeArray[*int](1)
	assert.ErrorIs(t, err, flexobj.ErrPointerType)
}

func TestDefaultEngine(t *testing.T) {
	a, err := shared.MakeArray[int32](2, shared.WithEngine(nil))
	require.NoError(t, err)
	a.Slice()[1] = 5
	assert.Equal(t, int32(5), *a.At(1))
	a.Release()
}
