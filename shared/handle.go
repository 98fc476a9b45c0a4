package shared

import (
	"github.com/hupe1980/flexobj"
	"github.com/hupe1980/flexobj/refcount"
)

type options struct {
	engine *flexobj.Engine
	mode   refcount.Mode
}

// Option configures a handle at creation.
type Option func(*options)

// WithEngine sets the engine that allocates and destroys the block.
func WithEngine(e *flexobj.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithMode sets the reference-counting discipline.
func WithMode(m refcount.Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

func newOptions(mode refcount.Mode, optFns []Option) options {
	o := options{engine: flexobj.Default(), mode: mode}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.engine == nil {
		o.engine = flexobj.Default()
	}
	return o
}

func (o options) initCount(c *refcount.Count) {
	c.Init(o.mode, 1)
}

type counted interface {
	flexobj.Header
	count() *refcount.Count
}

// handle owns at most one reference to a block.
type handle[H any, PH interface {
	*H
	counted
}] struct {
	e *flexobj.Engine
	p *H
}

// UseCount returns the number of handles sharing the block, or 0 if empty.
func (h *handle[H, PH]) UseCount() uint32 {
	if h.p == nil {
		return 0
	}
	return PH(h.p).count().Load()
}

// Release drops this handle's reference and leaves it empty. The block is
// destroyed if this was the last reference. Releasing an empty handle is a no-op.
func (h *handle[H, PH]) Release() {
	p := h.p
	if p == nil {
		return
	}
	h.p = nil
	if PH(p).count().Dec() {
		flexobj.Destroy[H, PH](h.e, p)
	}
}

func (h *handle[H, PH]) share() handle[H, PH] {
	if h.p != nil {
		PH(h.p).count().Inc()
	}
	return *h
}

func (h *handle[H, PH]) take() handle[H, PH] {
	out := *h
	h.p = nil
	return out
}

// assign makes h share o's block. The new reference is taken before the old
// one is dropped, so assigning a handle to itself is safe.
func (h *handle[H, PH]) assign(o *handle[H, PH]) {
	next := o.share()
	h.Release()
	*h = next
}
