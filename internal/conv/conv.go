// Package conv provides checked integer conversions.
//
// The narrowing helpers panic on overflow, since an out-of-range value here
// indicates a programming error rather than bad input. RepeatCount clamps
// instead, because repeat bounds come from user patterns.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 safely converts an int to uint16.
// Panics if n < 0 or n > math.MaxUint16.
//
//go:inline
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("integer overflow: int value out of uint16 range")
	}
	return uint16(n)
}

// RepeatCount converts a repeat bound to the node representation.
// Negative values (unbounded) and values at or above infinite map to
// infinite.
func RepeatCount(n int, infinite uint16) uint16 {
	if n < 0 || n >= int(infinite) {
		return infinite
	}
	return IntToUint16(n)
}
