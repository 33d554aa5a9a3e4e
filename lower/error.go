// Package lower translates parsed Go regular expressions into node streams.
//
// The translation is the pattern-compiler collaborator of the comparator: it
// parses pattern text with regexp/syntax and lays the result out as a flat
// node program with relative advances. It never decides containment.
package lower

import (
	"errors"
	"fmt"
)

var (
	// ErrTooComplex indicates the syntax tree nests deeper than allowed.
	ErrTooComplex = errors.New("pattern too complex")

	// ErrUnsupportedOp indicates a syntax operation with no node form.
	ErrUnsupportedOp = errors.New("unsupported regex operation")
)

// CompileError wraps lowering errors with the pattern that caused them.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("lowering failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("lowering failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}
