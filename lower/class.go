package lower

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/recompare/charclass"
	"github.com/coregx/recompare/node"
)

var shorthands = []node.Kind{
	node.Digit, node.NDigit,
	node.Space, node.NSpace,
	node.Alnum, node.NAlnum,
}

// compileCharClass appends a class given as sorted [lo, hi] rune pairs.
// Classes equal to a Perl shorthand become that shorthand, the class of all
// but newline becomes RegAny, and anything else an AnyOf with the ASCII part
// in the bitmap and the rest as code point ranges.
func (c *Compiler) compileCharClass(ranges []rune) {
	var bm node.Bitmap
	var wide []node.Span
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo < charclass.WideMin {
			bm.SetRange(byte(lo), byte(min(hi, charclass.WideMin-1)))
			lo = charclass.WideMin
		}
		if lo <= hi {
			wide = append(wide, node.Span{Lo: lo, Hi: hi})
		}
	}
	all := len(wide) == 1 && wide[0] == node.Span{Lo: charclass.WideMin, Hi: unicode.MaxRune}
	if charclass.SpansContain(wide, utf8.RuneError) {
		// Bytes that are not valid UTF-8 match as the replacement character.
		bm.SetRange(utf8.RuneSelf, 0xFF)
	}

	if k, ok := shorthandFor(bm, len(wide) == 0, all); ok {
		c.builder.AddKind(k)
		return
	}
	switch {
	case all:
		c.builder.AddClass(bm, node.UnicodeAll, nil)
	case len(wide) > 0:
		c.builder.AddClass(bm, 0, &node.Descriptor{Ranges: wide})
	default:
		c.builder.AddClass(bm, 0, nil)
	}
}

// shorthandFor finds the built-in kind with exactly this content. Positive
// shorthands match no code point >= 0x80, negated ones all of them.
func shorthandFor(bm node.Bitmap, none, all bool) (node.Kind, bool) {
	if all && bm == charclass.Builtins().Newline.Complement() {
		return node.RegAny, true
	}
	for _, k := range shorthands {
		cls, negated := charclass.Shorthand(k)
		switch {
		case !negated && none && bm == cls.Bitmap():
			return k, true
		case negated && all && bm == cls.Complement():
			return k, true
		}
	}
	return 0, false
}
