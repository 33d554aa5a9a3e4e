// Package node defines the compiled pattern representation read by the
// containment checker: a flat, immutable sequence of nodes linked by relative
// advances, plus the cursor that walks it.
package node

import (
	"bytes"
	"math/bits"
	"slices"
	"unicode/utf8"
)

// Infinite is the repeat maximum meaning "no upper bound".
const Infinite uint16 = 32767

// Bitmap is a 256-bit byte membership set.
type Bitmap [32]byte

// Has reports whether b is in the set.
func (m *Bitmap) Has(b byte) bool {
	return m[b>>3]&(1<<(b&7)) != 0
}

// Set adds b to the set.
func (m *Bitmap) Set(b byte) {
	m[b>>3] |= 1 << (b & 7)
}

// SetRange adds every byte in [lo, hi].
func (m *Bitmap) SetRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		m.Set(byte(c))
	}
}

// Complement returns the inverted set.
func (m Bitmap) Complement() Bitmap {
	for i := range m {
		m[i] = ^m[i]
	}
	return m
}

// Union returns m | o.
func (m Bitmap) Union(o Bitmap) Bitmap {
	for i := range m {
		m[i] |= o[i]
	}
	return m
}

// SubsetOf reports whether every member of m is in o.
func (m *Bitmap) SubsetOf(o *Bitmap) bool {
	for i := range m {
		if m[i]&^o[i] != 0 {
			return false
		}
	}
	return true
}

// Disjoint reports whether m and o share no member.
func (m *Bitmap) Disjoint(o *Bitmap) bool {
	for i := range m {
		if m[i]&o[i] != 0 {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set has no members.
func (m *Bitmap) IsEmpty() bool {
	return *m == Bitmap{}
}

// Count returns the number of members.
func (m *Bitmap) Count() int {
	n := 0
	for _, b := range m {
		n += bits.OnesCount8(b)
	}
	return n
}

// Members returns the members in ascending order.
func (m *Bitmap) Members() []byte {
	out := make([]byte, 0, m.Count())
	for c := 0; c < 256; c++ {
		if m.Has(byte(c)) {
			out = append(out, byte(c))
		}
	}
	return out
}

// ClassFlags qualify an AnyOf node.
type ClassFlags uint8

const (
	// Invert negates the whole class, including its non-byte content.
	Invert ClassFlags = 1 << iota

	// UnicodeAll means the class matches every code point >= 0x80.
	UnicodeAll

	knownClassFlags = Invert | UnicodeAll
)

// Span is an inclusive code point range.
type Span struct {
	Lo, Hi rune
}

// Descriptor describes the part of a class that lies beyond single bytes.
// Exactly one of the forms is expected to be set; Text takes precedence,
// then Ranges, then Posix.
type Descriptor struct {
	// Text is a newline-separated list of "+utf8::Name" or "!utf8::Name"
	// tokens, a union of named categories or their complements.
	Text string

	// Ranges is a sorted list of disjoint code point ranges.
	Ranges []Span

	// Posix is a bit set of POSIX class indexes. Even indexes name a class,
	// odd indexes its complement.
	Posix uint32
}

// IsZero reports whether the descriptor carries no information.
func (d *Descriptor) IsZero() bool {
	return d == nil || (d.Text == "" && len(d.Ranges) == 0 && d.Posix == 0)
}

// Equal reports whether two descriptors carry the same information.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d.IsZero() || o.IsZero() {
		return d.IsZero() == o.IsZero()
	}
	return d.Text == o.Text && slices.Equal(d.Ranges, o.Ranges) && d.Posix == o.Posix
}

// Node is one instruction of a compiled pattern.
// Which payload fields are meaningful depends on Kind.
type Node struct {
	Kind Kind

	// Next is the relative distance to the successor. Zero means the
	// distance is implied by Kind (see ImplicitAdvance).
	Next int

	// Literal holds the bytes of Exact, ExactF and ExactFU runs.
	Literal []byte

	// Bitmap, Flags and Wide describe an AnyOf class.
	Bitmap Bitmap
	Flags  ClassFlags
	Wide   *Descriptor

	// Min and Max are the repeat counts of the Curly family.
	Min, Max uint16

	// Size is the number of nodes an assertion spans, itself included.
	Size int

	// Group is the capture index of Open and Close.
	Group int
}

// Equal reports whether two nodes are the same instruction. Capture group
// indexes are ignored.
func (n *Node) Equal(o *Node) bool {
	return n.Kind == o.Kind &&
		n.Next == o.Next &&
		bytes.Equal(n.Literal, o.Literal) &&
		n.Bitmap == o.Bitmap &&
		n.Flags == o.Flags &&
		n.Wide.Equal(o.Wide) &&
		n.Min == o.Min &&
		n.Max == o.Max &&
		n.Size == o.Size
}

// ImplicitAdvance returns the advance implied by the node's kind, used when
// Next is zero. Kinds that require an explicit jump yield a
// MalformedStream error.
func ImplicitAdvance(n *Node, pos int) (int, error) {
	switch {
	case n.Kind == AnyOf:
		if n.Flags&^knownClassFlags != 0 {
			return 0, Unsupported(pos, "unknown class flags %#x", uint8(n.Flags))
		}
		return 1, nil
	case n.Kind.IsUnit(), n.Kind.IsPassthrough():
		return 1, nil
	case n.Kind.IsStartAnchor(), n.Kind.IsEndAnchor(), n.Kind.IsBoundary():
		return 1, nil
	case n.Kind == Open, n.Kind == Close:
		return 1, nil
	case n.Kind.IsAssertion():
		if n.Size < 2 {
			return 0, Malformed(pos, "assertion size %d too small", n.Size)
		}
		return n.Size, nil
	}
	return 0, Malformed(pos, "unknown offset for %s", n.Kind)
}

// Advance returns the distance from the node to its successor.
func Advance(n *Node, pos int) (int, error) {
	if n.Next != 0 {
		if n.Next < 0 {
			return 0, Malformed(pos, "negative advance %d", n.Next)
		}
		return n.Next, nil
	}
	return ImplicitAdvance(n, pos)
}

// unitWidth returns the byte width of the literal unit starting at lit[i]:
// the length of a valid multi-byte UTF-8 sequence, else 1.
func unitWidth(lit []byte, i int) int {
	if lit[i] < utf8.RuneSelf {
		return 1
	}
	r, w := utf8.DecodeRune(lit[i:])
	if r == utf8.RuneError && w <= 1 {
		return 1
	}
	return w
}

// Unit decodes the literal unit starting at lit[i]. A valid multi-byte
// sequence yields its code point; any other byte yields itself with
// wide=false.
func Unit(lit []byte, i int) (r rune, width int, wide bool) {
	w := unitWidth(lit, i)
	if w == 1 {
		return rune(lit[i]), 1, false
	}
	r, _ = utf8.DecodeRune(lit[i:])
	return r, w, true
}
