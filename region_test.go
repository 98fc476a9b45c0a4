package flexobj

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flexobj/testutil"
)

type adjacent struct {
	refs  uint32
	items AdjacentRange[uint32]
}

func (h *adjacent) Handles() []Handle { return []Handle{&h.items} }

type adjacentProbes struct {
	items AdjacentRange[testutil.Probe]
}

func (h *adjacentProbes) Handles() []Handle { return []Handle{&h.items} }

func TestPolicies(t *testing.T) {
	var a Array[uint64]
	var r probeRange
	var plainAdj AdjacentRange[uint32]
	var probeAdj AdjacentRange[testutil.Probe]

	assert.Equal(t, PolicyTrivial, a.Policy())
	assert.Equal(t, PolicyElementwise, r.Policy())
	assert.Equal(t, PolicyTrivial, plainAdj.Policy())
	assert.Equal(t, PolicyElementwise, probeAdj.Policy())

	assert.Equal(t, "trivial", PolicyTrivial.String())
	assert.Equal(t, "elementwise", PolicyElementwise.String())
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

func TestPolicyOf_Cached(t *testing.T) {
	assert.Equal(t, PolicyElementwise, policyOf[testutil.Probe]())
	assert.Equal(t, PolicyTrivial, policyOf[uint32]())

	v, ok := policies.Load(reflect.TypeFor[testutil.Probe]())
	require.True(t, ok)
	assert.Equal(t, PolicyElementwise, v)

	var a, b AdjacentRange[testutil.Probe]
	b.n = 3
	assert.Equal(t, a.Policy(), b.Policy())
}

func TestUnboundDescriptors(t *testing.T) {
	var a Array[uint64]
	var r probeRange
	var h adjacent

	assert.Zero(t, a.Len())
	assert.Nil(t, a.Slice())
	assert.Nil(t, r.Slice())
	assert.Nil(t, h.items.Slice(&h))
	assert.Panics(t, func() { a.At(0) })
}

func TestAdjacentRange(t *testing.T) {
	e, _ := tracked(t)

	h, err := Make[adjacent](e, func(a *adjacent) error {
		a.refs = 1
		return nil
	}, N(100))
	require.NoError(t, err)
	defer Destroy(e, h)

	i := uint32(0)
	for _, c := range h.items.All(h) {
		*c = i
		i++
	}

	i = 0
	for _, c := range h.items.All(h) {
		assert.Equal(t, i, *c)
		i++
	}
	assert.Equal(t, uint32(100), i)
	assert.Equal(t, uint32(42), *h.items.At(h, 42))
	assert.Same(t, &h.items.Slice(h)[0], h.items.At(h, 0))
}

func TestAdjacentRange_ForeignOwner(t *testing.T) {
	e, _ := tracked(t)

	a, err := Make[adjacent](e, nil, N(4))
	require.NoError(t, err)
	defer Destroy(e, a)

	b, err := Make[adjacent](e, nil, N(4))
	require.NoError(t, err)
	defer Destroy(e, b)

	assert.Panics(t, func() { a.items.Slice(b) })
	assert.Panics(t, func() { a.items.Slice((*adjacent)(nil)) })
}

func TestAdjacentRange_EarlyBreak(t *testing.T) {
	e, _ := tracked(t)

	h, err := Make[adjacent](e, nil, Fill[uint32](10, 3))
	require.NoError(t, err)
	defer Destroy(e, h)

	seen := 0
	for i := range h.items.All(h) {
		if i == 4 {
			break
		}
		seen++
	}
	assert.Equal(t, 4, seen)
}

func TestAdjacentRange_DestroysElements(t *testing.T) {
	e, _ := tracked(t)
	l := testutil.NewLedger(t)

	h, err := Make[adjacentProbes](e, nil, Generate(3, l.Generator(0, -1)))
	require.NoError(t, err)
	assert.Equal(t, 3, l.Alive())

	Destroy(e, h)
	assert.Equal(t, []testutil.Event{{Region: 0, ID: 2}, {Region: 0, ID: 1}, {Region: 0, ID: 0}}, l.Destroyed())
}

func TestArray_NeverDestroysElements(t *testing.T) {
	e, _ := tracked(t)
	l := testutil.NewLedger(t)

	// Probe implements Destroyer, but an Array region releases it trivially.
	h, err := Make[trivialProbes](e, nil, Generate(3, l.Generator(0, -1)))
	require.NoError(t, err)
	Destroy(e, h)

	assert.Empty(t, l.Destroyed())
}

type trivialProbes struct {
	items Array[testutil.Probe]
}

func (h *trivialProbes) Handles() []Handle { return []Handle{&h.items} }

func TestLens(t *testing.T) {
	exts := Lens(1, 0, 7)
	require.Len(t, exts, 3)
	assert.Equal(t, 7, exts[2].Len())

	e, _ := tracked(t)
	h, err := Make[mixed](e, nil, append(Lens(2, 3), N(0), N(1))...)
	require.NoError(t, err)
	assert.Equal(t, 3, h.words.Len())
	Destroy(e, h)
}
