// Package conv provides checked integer arithmetic and conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when sizing allocation blocks and converting between signed and unsigned
// integer types. All overflow errors wrap ErrOverflow.
package conv
