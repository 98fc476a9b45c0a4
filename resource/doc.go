// Package resource implements quota control for allocation blocks.
//
// The Controller governs two resources:
//
//   - Memory: track and limit block bytes (non-blocking, fail-fast)
//   - Allocation rate: token bucket on the number of blocks allocated
//
// Blocks are never allocated on a retry loop, so every acquisition is a
// "try" that returns immediately:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	    AllocsPerSec:     10000,
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(4096)
//
// Stats reports current and peak usage along with how many requests each
// limit refused.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limiting without nil checks everywhere.
package resource
