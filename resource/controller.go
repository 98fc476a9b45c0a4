package resource

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded is returned when a block would exceed the memory quota.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	// ErrAllocRateExceeded is returned when the allocation rate limit is exhausted.
	ErrAllocRateExceeded = errors.New("allocation rate exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for block memory in bytes.
	// If 0, usage is tracked but not limited.
	MemoryLimitBytes int64

	// AllocsPerSec caps how many blocks may be allocated per second.
	// If 0, unlimited.
	AllocsPerSec float64

	// AllocBurst is the token bucket size for AllocsPerSec.
	// If 0, defaults to max(1, AllocsPerSec).
	AllocBurst int
}

// Stats is a point-in-time view of a Controller.
type Stats struct {
	InUse     int64  // bytes currently reserved
	Peak      int64  // highest InUse observed
	Limit     int64  // configured limit, 0 if unlimited
	Rejected  uint64 // reservations refused by the memory limit
	Throttled uint64 // allocations refused by the rate limit
}

// Controller enforces block quotas. Every acquisition is a non-blocking try.
type Controller struct {
	limit   int64
	quota   *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited

	inUse     atomic.Int64
	peak      atomic.Int64
	rejected  atomic.Uint64
	throttled atomic.Uint64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{limit: max(cfg.MemoryLimitBytes, 0)}

	if c.limit > 0 {
		c.quota = semaphore.NewWeighted(c.limit)
	}

	if cfg.AllocsPerSec > 0 {
		burst := cfg.AllocBurst
		if burst <= 0 {
			burst = max(1, int(cfg.AllocsPerSec))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.AllocsPerSec), burst)
	}

	return c
}

// AcquireMemory reserves bytes of quota, or returns ErrMemoryLimitExceeded
// without waiting. Non-positive sizes reserve nothing.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.quota != nil && !c.quota.TryAcquire(bytes) {
		c.rejected.Add(1)
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrMemoryLimitExceeded, bytes, c.inUse.Load(), c.limit)
	}

	used := c.inUse.Add(bytes)
	for {
		p := c.peak.Load()
		if used <= p || c.peak.CompareAndSwap(p, used) {
			break
		}
	}
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	c.inUse.Add(-bytes)
	if c.quota != nil {
		c.quota.Release(bytes)
	}
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.inUse.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}

// TryAcquireAlloc takes one token from the allocation rate limiter, or
// returns ErrAllocRateExceeded without waiting.
func (c *Controller) TryAcquireAlloc() error {
	if c == nil || c.limiter == nil {
		return nil
	}
	if !c.limiter.AllowN(time.Now(), 1) {
		c.throttled.Add(1)
		return ErrAllocRateExceeded
	}
	return nil
}

// Stats returns current usage and rejection counts.
func (c *Controller) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		InUse:     c.inUse.Load(),
		Peak:      c.peak.Load(),
		Limit:     c.limit,
		Rejected:  c.rejected.Load(),
		Throttled: c.throttled.Load(),
	}
}
