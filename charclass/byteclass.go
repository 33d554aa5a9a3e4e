// Package charclass holds the built-in character classes and the resolver
// for extended (non-ASCII) category descriptors.
//
// Everything in this package is built once on first use and is read-only
// afterwards, so it is safe for concurrent use.
package charclass

import (
	"sync"

	"github.com/coregx/recompare/node"
)

// ByteClass is an immutable set of bytes held in four parallel forms.
type ByteClass struct {
	members []byte
	lookup  [256]bool
	bitmap  node.Bitmap
	nbitmap node.Bitmap
}

// NewByteClass builds a class from its explicit members.
func NewByteClass(members ...byte) *ByteClass {
	c := &ByteClass{}
	for _, b := range members {
		if c.lookup[b] {
			continue
		}
		c.lookup[b] = true
		c.bitmap.Set(b)
	}
	c.members = c.bitmap.Members()
	c.nbitmap = c.bitmap.Complement()
	return c
}

func rangeClass(pairs ...byte) *ByteClass {
	var m []byte
	for i := 0; i+1 < len(pairs); i += 2 {
		for b := int(pairs[i]); b <= int(pairs[i+1]); b++ {
			m = append(m, byte(b))
		}
	}
	return NewByteClass(m...)
}

// Members returns the explicit members in ascending order.
func (c *ByteClass) Members() []byte {
	return c.members
}

// Contains reports whether b is a member.
func (c *ByteClass) Contains(b byte) bool {
	return c.lookup[b]
}

// Excludes reports whether b is not a member.
func (c *ByteClass) Excludes(b byte) bool {
	return !c.lookup[b]
}

// Bitmap returns the membership bitmap.
func (c *ByteClass) Bitmap() node.Bitmap {
	return c.bitmap
}

// Complement returns the complement bitmap.
func (c *ByteClass) Complement() node.Bitmap {
	return c.nbitmap
}

// Registry is the process-wide set of built-in classes.
type Registry struct {
	Digit      *ByteClass
	Whitespace *ByteClass
	Word       *ByteClass
	HexDigit   *ByteClass
	HSpace     *ByteClass
	VSpace     *ByteClass
	Newline    *ByteClass
}

var (
	registryOnce sync.Once
	registry     *Registry
)

// Builtins returns the registry, building it on first use.
func Builtins() *Registry {
	registryOnce.Do(func() {
		registry = &Registry{
			Digit:      rangeClass('0', '9'),
			Whitespace: NewByteClass(' ', '\f', '\n', '\r', '\t'),
			Word:       rangeClass('0', '9', 'A', 'Z', '_', '_', 'a', 'z'),
			HexDigit:   rangeClass('0', '9', 'A', 'F', 'a', 'f'),
			HSpace:     NewByteClass('\t', ' '),
			VSpace:     NewByteClass('\n', '\v', '\f', '\r'),
			Newline:    NewByteClass('\n'),
		}
	})
	return registry
}

// Shorthand returns the byte class behind a shorthand kind and whether the
// kind is the negated form. Negated shorthands also match every non-ASCII
// character; positive ones match none.
func Shorthand(k node.Kind) (*ByteClass, bool) {
	r := Builtins()
	switch k {
	case node.Alnum:
		return r.Word, false
	case node.NAlnum:
		return r.Word, true
	case node.Space:
		return r.Whitespace, false
	case node.NSpace:
		return r.Whitespace, true
	case node.Digit:
		return r.Digit, false
	case node.NDigit:
		return r.Digit, true
	case node.HSpace:
		return r.HSpace, false
	case node.NHSpace:
		return r.HSpace, true
	case node.VSpace:
		return r.VSpace, false
	case node.NVSpace:
		return r.VSpace, true
	}
	return nil, false
}
