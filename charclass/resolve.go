package charclass

import (
	"bytes"
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/recompare/node"
)

// textPrefix introduces every category token in a text descriptor.
const textPrefix = "utf8::"

// textNames maps the category names accepted in text descriptors.
var textNames = map[string]Mask{
	"IsSpacePerl":    Space,
	"IsSpace":        Space,
	"IsXPosixSpace":  Space,
	"IsAlnum":        Alnum,
	"IsXPosixAlnum":  Alnum,
	"IsAlpha":        Alpha,
	"IsXPosixAlpha":  Alpha,
	"IsDigit":        Numeric,
	"IsXPosixDigit":  Numeric,
	"IsLower":        Lower,
	"IsXPosixLower":  Lower,
	"IsUpper":        Upper,
	"IsXPosixUpper":  Upper,
	"IsXDigit":       HexDigit,
	"IsXPosixXDigit": HexDigit,
	"IsHorizSpace":   HSpace,
	"IsBlank":        HSpace,
	"IsXPosixBlank":  HSpace,
	"IsVertSpace":    VSpace,
}

// posixClasses maps even POSIX indexes to categories; index+1 is the
// complement.
var posixClasses = [...]Mask{
	Alnum, Alnum,
	Space, Space,
	Numeric, Numeric,
	Alpha, Alpha,
	Lower, Lower,
	Upper, Upper,
	HexDigit, HexDigit,
	HSpace, HSpace,
	VSpace, VSpace,
}

// Every token is matched together with its line terminator, so no pattern
// is a prefix of another.
var textAutomaton = sync.OnceValues(func() (*ahocorasick.Automaton, error) {
	b := ahocorasick.NewBuilder()
	for name := range textNames {
		b.AddPattern([]byte(textPrefix + name + "\n"))
	}
	return b.Build()
})

// Resolve describes the non-ASCII content of a class, given its descriptor
// and whether the class is inverted, as a closed Mask. The second result is
// false when the content cannot be described exactly as a union of
// categories; callers then reason about the class without it or refuse.
// An unrecognized descriptor is not an error; a structurally invalid one is.
func Resolve(d *node.Descriptor, invert bool) (Mask, bool, error) {
	switch {
	case d.IsZero():
		if invert {
			return Every, true, nil
		}
		return 0, true, nil
	case d.Text != "":
		raw, ok, err := parseText(d.Text)
		if err != nil || !ok {
			return 0, false, err
		}
		return resolveRaw(raw, invert)
	case len(d.Ranges) > 0:
		s, err := NormalizeSpans(d.Ranges)
		if err != nil {
			return 0, false, err
		}
		if invert {
			s = ComplementSpans(s)
		}
		m, ok := spansMask(s)
		return m, ok, nil
	default:
		raw, err := posixMask(d.Posix)
		if err != nil {
			return 0, false, err
		}
		return resolveRaw(raw, invert)
	}
}

func parseText(text string) (Mask, bool, error) {
	auto, err := textAutomaton()
	if err != nil {
		return 0, false, &node.Error{Kind: node.AllocationFailure, Message: "category automaton", Pos: -1, Cause: err}
	}
	h := []byte(text)
	if h[len(h)-1] != '\n' {
		h = append(h, '\n')
	}
	lines := 0
	for _, line := range bytes.Split(h[:len(h)-1], []byte{'\n'}) {
		if len(line) > 0 {
			lines++
		}
	}

	var raw Mask
	matched := 0
	for at := 0; at < len(h); {
		m := auto.Find(h, at)
		if m == nil {
			break
		}
		// The sign must open the line holding the token.
		if m.Start == 0 || (m.Start > 1 && h[m.Start-2] != '\n') {
			return 0, false, nil
		}
		name := string(h[m.Start+len(textPrefix) : m.End-1])
		switch h[m.Start-1] {
		case '+':
			raw |= textNames[name]
		case '!':
			raw |= Not(textNames[name])
		default:
			return 0, false, nil
		}
		matched++
		at = m.End
	}
	if matched != lines {
		return 0, false, nil
	}
	return raw, true, nil
}

func posixMask(bits uint32) (Mask, error) {
	var raw Mask
	for i := 0; i < 32; i++ {
		if bits&(1<<i) == 0 {
			continue
		}
		if i >= len(posixClasses) {
			return 0, node.Unsupported(-1, "unknown POSIX class index %d", i)
		}
		if i%2 == 0 {
			raw |= posixClasses[i]
		} else {
			raw |= Not(posixClasses[i])
		}
	}
	return raw, nil
}

// resolveRaw turns a union of named categories into a closed mask. For an
// inverted class the content is an intersection of complements, which is
// exact only when the union is itself a single category.
func resolveRaw(raw Mask, invert bool) (Mask, bool, error) {
	closed := Close(raw)
	if !invert {
		return closed, true, nil
	}
	if closed == Every {
		return 0, true, nil
	}
	if raw == 0 {
		return Every, true, nil
	}
	for i := 0; i < 2*mirrorShift; i++ {
		b := Mask(1) << i
		if closed&b == 0 {
			continue
		}
		// b is implied by the union; if b also implies every member, the
		// union is exactly b.
		if Close(b)&raw == raw {
			return Close(Mirror(b)), true, nil
		}
	}
	return 0, false, nil
}
