package flexobj

import (
	"errors"
	"fmt"

	"github.com/hupe1980/flexobj/alloc"
	"github.com/hupe1980/flexobj/internal/layout"
)

var (
	// ErrAllocationFailed is returned when the allocator cannot provide a block.
	ErrAllocationFailed = alloc.ErrAllocationFailed
	// ErrSizeOverflow is returned when the block size cannot be represented.
	ErrSizeOverflow = errors.New("flexobj: size overflow")
	// ErrNegativeLength is returned for an extent with a negative length.
	ErrNegativeLength = errors.New("flexobj: negative region length")
	// ErrConstruction is matched by every *ConstructionError.
	ErrConstruction = errors.New("flexobj: construction failed")
	// ErrPointerType is returned when a header or element type contains pointers.
	ErrPointerType = errors.New("flexobj: type contains pointers")
	// ErrRegionCount is returned when the number of extents differs from the
	// number of handles the header declares.
	ErrRegionCount = errors.New("flexobj: region count mismatch")
	// ErrExtentType is returned when an extent's initializer does not match
	// the element type of its region.
	ErrExtentType = errors.New("flexobj: extent type mismatch")
	// ErrInvalidRegistry is returned when Handles returns descriptors outside
	// the header, duplicates, or a different list on each call.
	ErrInvalidRegistry = errors.New("flexobj: invalid handle registry")
)

// errPanicked is the cause recorded for a Make that panicked. The panic itself
// still propagates to the caller.
var errPanicked = errors.New("panic during construction")

// ConstructionError reports a failing header initializer or element
// generator. Everything constructed before the failure has been destroyed and
// the block has been freed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ConstructionError struct {
	// Type is the header type name.
	Type string
	// Region is the failing region, or -1 for the header.
	Region int
	// Index is the failing element within Region, or -1 for the header.
	Index int
	cause error
}

func (e *ConstructionError) Error() string {
	if e.Region < 0 {
		return fmt.Sprintf("flexobj: construct %s: header: %v", e.Type, e.cause)
	}
	return fmt.Sprintf("flexobj: construct %s: region %d element %d: %v", e.Type, e.Region, e.Index, e.cause)
}

func (e *ConstructionError) Unwrap() error { return e.cause }

// Is reports whether target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, layout.ErrSizeOverflow), errors.Is(err, layout.ErrInvalidAlignment):
		return fmt.Errorf("%w: %w", ErrSizeOverflow, err)
	case errors.Is(err, layout.ErrNegativeCount):
		return fmt.Errorf("%w: %w", ErrNegativeLength, err)
	}
	return err
}

// allocationError makes every allocator failure match ErrAllocationFailed.
func allocationError(err error) error {
	if errors.Is(err, ErrAllocationFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
}
