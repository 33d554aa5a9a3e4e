package node

import "fmt"

// ErrMalformedStream indicates a stream that violates its structural
// invariants: a zero advance where a jump is required, a target outside the
// stream, or no reachable End.
var ErrMalformedStream = &Error{
	Kind:    MalformedStream,
	Message: "malformed node stream",
	Pos:     -1,
}

// ErrUnsupported indicates a node kind, flag combination or category
// descriptor that no comparison rule covers.
var ErrUnsupported = &Error{
	Kind:    UnsupportedConstruct,
	Message: "unsupported construct",
	Pos:     -1,
}

// ErrAllocation indicates that a synthesized sub-stream could not be built.
// Callers treat it the same as ErrUnsupported.
var ErrAllocation = &Error{
	Kind:    AllocationFailure,
	Message: "cannot synthesize sub-stream",
	Pos:     -1,
}

// ErrorKind classifies stream errors into categories
type ErrorKind uint8

const (
	// MalformedStream indicates a broken stream invariant
	MalformedStream ErrorKind = iota

	// UnsupportedConstruct indicates input no rule can reason about
	UnsupportedConstruct

	// AllocationFailure indicates a synthesized stream exceeded its limit
	AllocationFailure
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case MalformedStream:
		return "MalformedStream"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case AllocationFailure:
		return "AllocationFailure"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error describes a failure while reading or synthesizing a node stream.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     int   // node index, or -1 when not tied to a node
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at node %d", e.Message, e.Pos)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is.
// Two errors match when their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Malformed returns a MalformedStream error for the node at pos.
func Malformed(pos int, format string, args ...any) error {
	return &Error{Kind: MalformedStream, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Unsupported returns an UnsupportedConstruct error for the node at pos.
func Unsupported(pos int, format string, args ...any) error {
	return &Error{Kind: UnsupportedConstruct, Message: fmt.Sprintf(format, args...), Pos: pos}
}
