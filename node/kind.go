package node

import "fmt"

// Kind identifies the type of a node and determines which payload fields are valid.
//
// The enumeration is the union of every node flavor a pattern compiler may
// emit. A compiler that has no use for a flavor simply never produces it.
type Kind uint8

const (
	// End terminates a stream.
	End Kind = iota

	// Succeed always matches (end of a sub-program).
	Succeed

	// Nothing, Tail and WhileM are zero-width passthrough markers.
	Nothing
	Tail
	WhileM

	// MinMod marks the following repeat as non-greedy.
	MinMod

	// Optimized marks nodes removed by an optimizer.
	Optimized

	// Open and Close delimit a capture group.
	Open
	Close

	// Bol matches at the start of input, MBol at the start of any line
	// and SBol only at the absolute start.
	Bol
	MBol
	SBol

	// Eos matches at the absolute end, Eol at the end or before a final
	// newline, MEol at the end of any line and SEol at the end or before a
	// final newline regardless of flags.
	Eos
	Eol
	MEol
	SEol

	// Bound and NBound are word and non-word boundaries.
	Bound
	NBound

	// RegAny matches any character except newline, SAny any character.
	RegAny
	SAny

	// AnyOf is a bitmap character class.
	AnyOf

	// Shorthand classes: \w \W \s \S \d \D \h \H \v \V.
	Alnum
	NAlnum
	Space
	NSpace
	Digit
	NDigit
	HSpace
	NHSpace
	VSpace
	NVSpace

	// Exact is a literal run, ExactF the ASCII case-folded variant and
	// ExactFU the Unicode case-folded variant.
	Exact
	ExactF
	ExactFU

	// Branch is one alternation arm.
	Branch

	// Star, Plus and the Curly family are repeats.
	Star
	Plus
	Curly
	CurlyM
	CurlyX

	// IfMatch and UnlessM are positive and negative lookahead assertions.
	IfMatch
	UnlessM

	kindCount
)

// NumKinds is the number of defined kinds.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	End:       "End",
	Succeed:   "Succeed",
	Nothing:   "Nothing",
	Tail:      "Tail",
	WhileM:    "WhileM",
	MinMod:    "MinMod",
	Optimized: "Optimized",
	Open:      "Open",
	Close:     "Close",
	Bol:       "Bol",
	MBol:      "MBol",
	SBol:      "SBol",
	Eos:       "Eos",
	Eol:       "Eol",
	MEol:      "MEol",
	SEol:      "SEol",
	Bound:     "Bound",
	NBound:    "NBound",
	RegAny:    "RegAny",
	SAny:      "SAny",
	AnyOf:     "AnyOf",
	Alnum:     "Alnum",
	NAlnum:    "NAlnum",
	Space:     "Space",
	NSpace:    "NSpace",
	Digit:     "Digit",
	NDigit:    "NDigit",
	HSpace:    "HSpace",
	NHSpace:   "NHSpace",
	VSpace:    "VSpace",
	NVSpace:   "NVSpace",
	Exact:     "Exact",
	ExactF:    "ExactF",
	ExactFU:   "ExactFU",
	Branch:    "Branch",
	Star:      "Star",
	Plus:      "Plus",
	Curly:     "Curly",
	CurlyM:    "CurlyM",
	CurlyX:    "CurlyX",
	IfMatch:   "IfMatch",
	UnlessM:   "UnlessM",
}

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k < kindCount
}

// IsTrivial reports whether k is a marker that the stream walker skips
// when looking for the real continuation of a composite.
func (k Kind) IsTrivial() bool {
	switch k {
	case Succeed, Nothing, Tail, WhileM:
		return true
	}
	return false
}

// IsPassthrough reports whether k is zero-width and carries no constraint.
func (k Kind) IsPassthrough() bool {
	switch k {
	case Succeed, Nothing, Tail, WhileM, MinMod, Optimized, Close:
		return true
	}
	return false
}

// IsStartAnchor reports whether k is one of the start anchors.
func (k Kind) IsStartAnchor() bool {
	return k == Bol || k == MBol || k == SBol
}

// IsEndAnchor reports whether k is one of the end anchors.
func (k Kind) IsEndAnchor() bool {
	switch k {
	case Eos, Eol, MEol, SEol:
		return true
	}
	return false
}

// IsBoundary reports whether k is a word or non-word boundary.
func (k Kind) IsBoundary() bool {
	return k == Bound || k == NBound
}

// IsShorthand reports whether k is a built-in shorthand class.
func (k Kind) IsShorthand() bool {
	return k >= Alnum && k <= NVSpace
}

// IsLiteral reports whether k is a literal run.
func (k Kind) IsLiteral() bool {
	return k == Exact || k == ExactF || k == ExactFU
}

// IsUnit reports whether k consumes exactly one character per step:
// wildcards, classes, shorthands and literal runs.
func (k Kind) IsUnit() bool {
	return (k >= RegAny && k <= NVSpace) || k.IsLiteral()
}

// IsCurly reports whether k is a bounded repeat.
func (k Kind) IsCurly() bool {
	return k == Curly || k == CurlyM || k == CurlyX
}

// IsRepeat reports whether k is any repeat.
func (k Kind) IsRepeat() bool {
	return k == Star || k == Plus || k.IsCurly()
}

// IsAssertion reports whether k is a lookahead assertion.
func (k Kind) IsAssertion() bool {
	return k == IfMatch || k == UnlessM
}
