package charclass

import (
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/coregx/recompare/node"
)

// WideMin is the first code point of the non-ASCII range that masks and
// descriptors describe.
const WideMin rune = 0x80

type categoryTable struct {
	table *unicode.RangeTable
	spans []node.Span // table restricted to [WideMin, MaxRune]
	compl []node.Span // its complement within the same range
}

var (
	tablesOnce sync.Once
	tables     [numCategories]categoryTable
)

func categoryTables() *[numCategories]categoryTable {
	tablesOnce.Do(func() {
		defs := [numCategories]*unicode.RangeTable{
			rangetable.Merge(unicode.L, unicode.Nd),
			unicode.L,
			unicode.Nd,
			unicode.Lu,
			unicode.Ll,
			unicode.Hex_Digit,
			unicode.White_Space,
			rangetable.Merge(unicode.Zs, rangetable.New('\t')),
			rangetable.Merge(unicode.Zl, unicode.Zp, rangetable.New('\n', '\v', '\f', '\r', 0x85)),
		}
		for i, rt := range defs {
			s := tableSpans(rt)
			tables[i] = categoryTable{table: rt, spans: s, compl: ComplementSpans(s)}
		}
	})
	return &tables
}

// tableSpans lists the non-ASCII members of rt as merged, sorted spans.
func tableSpans(rt *unicode.RangeTable) []node.Span {
	var out []node.Span
	rangetable.Visit(rt, func(r rune) {
		if r < WideMin {
			return
		}
		if n := len(out); n > 0 && out[n-1].Hi+1 == r {
			out[n-1].Hi = r
			return
		}
		out = append(out, node.Span{Lo: r, Hi: r})
	})
	return out
}

// ComplementSpans returns the spans of [WideMin, MaxRune] not covered by s.
// s must be sorted, disjoint and within that range.
func ComplementSpans(s []node.Span) []node.Span {
	var out []node.Span
	next := WideMin
	for _, sp := range s {
		if sp.Lo > next {
			out = append(out, node.Span{Lo: next, Hi: sp.Lo - 1})
		}
		next = sp.Hi + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, node.Span{Lo: next, Hi: unicode.MaxRune})
	}
	return out
}

// NormalizeSpans clips ranges to the non-ASCII range and merges adjacent
// ones. The input must be sorted and disjoint.
func NormalizeSpans(in []node.Span) ([]node.Span, error) {
	var out []node.Span
	prev := rune(-1)
	for i, sp := range in {
		if sp.Lo > sp.Hi || sp.Lo < 0 || sp.Hi > unicode.MaxRune {
			return nil, node.Unsupported(-1, "invalid range %d [%#x,%#x]", i, sp.Lo, sp.Hi)
		}
		if sp.Lo <= prev {
			return nil, node.Unsupported(-1, "ranges not sorted at %d", i)
		}
		prev = sp.Hi
		if sp.Hi < WideMin {
			continue
		}
		if sp.Lo < WideMin {
			sp.Lo = WideMin
		}
		if n := len(out); n > 0 && out[n-1].Hi+1 == sp.Lo {
			out[n-1].Hi = sp.Hi
			continue
		}
		out = append(out, sp)
	}
	return out, nil
}

// SpansEqual reports whether a and b list the same spans.
func SpansEqual(a, b []node.Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SpansCover reports whether every code point in inner is in outer. Both
// must be normalized.
func SpansCover(outer, inner []node.Span) bool {
	j := 0
	for _, sp := range inner {
		for j < len(outer) && outer[j].Hi < sp.Lo {
			j++
		}
		if j == len(outer) || outer[j].Lo > sp.Lo || outer[j].Hi < sp.Hi {
			return false
		}
	}
	return true
}

// SpansContain reports whether r falls in one of the normalized spans.
func SpansContain(s []node.Span, r rune) bool {
	lo, hi := 0, len(s)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		switch {
		case r < s[m].Lo:
			hi = m
		case r > s[m].Hi:
			lo = m + 1
		default:
			return true
		}
	}
	return false
}

// Contains reports whether the non-ASCII code point r belongs to a class
// whose content is exactly described by m.
func Contains(m Mask, r rune) bool {
	if m == Every {
		return r >= WideMin
	}
	t := categoryTables()
	for i := 0; i < numCategories; i++ {
		if m&(1<<i) != 0 && unicode.Is(t[i].table, r) {
			return true
		}
		if m&(1<<(i+mirrorShift)) != 0 && !unicode.Is(t[i].table, r) {
			return true
		}
	}
	return false
}

// spansMask matches normalized spans against the category tables. It
// returns false when the spans are not exactly one category or complement.
func spansMask(s []node.Span) (Mask, bool) {
	if len(s) == 0 {
		return 0, true
	}
	if len(s) == 1 && s[0].Lo == WideMin && s[0].Hi == unicode.MaxRune {
		return Every, true
	}
	t := categoryTables()
	for i := 0; i < numCategories; i++ {
		if SpansEqual(s, t[i].spans) {
			return Close(1 << i), true
		}
		if SpansEqual(s, t[i].compl) {
			return Close(1 << (i + mirrorShift)), true
		}
	}
	return 0, false
}

// BitSpans returns the non-ASCII members of the category, or complement,
// named by the single-bit mask b.
func BitSpans(b Mask) ([]node.Span, bool) {
	t := categoryTables()
	for i := 0; i < numCategories; i++ {
		switch b {
		case 1 << i:
			return t[i].spans, true
		case 1 << (i + mirrorShift):
			return t[i].compl, true
		}
	}
	return nil, false
}
