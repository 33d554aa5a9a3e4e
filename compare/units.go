package compare

import (
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/recompare/charclass"
	"github.com/coregx/recompare/node"
)

// wideForm says how the non-ASCII part of a unit set is known.
type wideForm uint8

const (
	wideNone  wideForm = iota // no code point >= 0x80
	wideAll                   // every code point >= 0x80
	wideRunes                 // an explicit list
	wideClass                 // a class descriptor
)

type wideSet struct {
	form   wideForm
	runes  []rune
	desc   *node.Descriptor
	invert bool
}

// unitSet is the set of characters a single unit-consuming node accepts:
// bytes below 0x100 in a bitmap, code points from 0x80 up in wide.
// Bytes 0x80-0xFF stand for raw bytes that are not valid UTF-8.
type unitSet struct {
	bytes node.Bitmap
	wide  wideSet
}

var allBytes = node.Bitmap{}.Complement()

// unitSetOf builds the unit set of the node, or literal character, under
// the cursor.
func unitSetOf(cur node.Cursor) (unitSet, error) {
	n := cur.Node()
	switch k := n.Kind; {
	case k == node.RegAny:
		return unitSet{
			bytes: charclass.Builtins().Newline.Complement(),
			wide:  wideSet{form: wideAll},
		}, nil
	case k == node.SAny:
		return unitSet{bytes: allBytes, wide: wideSet{form: wideAll}}, nil
	case k == node.AnyOf:
		return classSet(n, cur.Pos())
	case k.IsShorthand():
		cls, negated := charclass.Shorthand(k)
		if negated {
			return unitSet{bytes: cls.Complement(), wide: wideSet{form: wideAll}}, nil
		}
		return unitSet{bytes: cls.Bitmap()}, nil
	case k.IsLiteral():
		return literalSet(cur), nil
	}
	return unitSet{}, node.Unsupported(cur.Pos(), "%s does not consume a unit", n.Kind)
}

func classSet(n *node.Node, pos int) (unitSet, error) {
	if n.Flags&^(node.Invert|node.UnicodeAll) != 0 {
		return unitSet{}, node.Unsupported(pos, "unknown class flags %#x", uint8(n.Flags))
	}
	s := unitSet{bytes: n.Bitmap}
	switch {
	case n.Flags&node.UnicodeAll != 0:
		s.wide.form = wideAll
	case !n.Wide.IsZero():
		s.wide = wideSet{form: wideClass, desc: n.Wide}
	}
	if n.Flags&node.Invert != 0 {
		s.bytes = s.bytes.Complement()
		switch s.wide.form {
		case wideNone:
			s.wide.form = wideAll
		case wideAll:
			s.wide.form = wideNone
		default:
			s.wide.invert = true
		}
	}
	return s, nil
}

func literalSet(cur node.Cursor) unitSet {
	r, wide := cur.Unit()
	var s unitSet
	switch k := cur.Kind(); {
	case !wide && (k == node.Exact || r >= utf8.RuneSelf):
		s.bytes.Set(byte(r))
	case !wide && k == node.ExactF:
		b := byte(r)
		s.bytes.Set(b)
		if isASCIILetter(b) {
			s.bytes.Set(b ^ 0x20)
		}
	case wide && k != node.ExactFU:
		s.wide = wideSet{form: wideRunes, runes: []rune{r}}
	default:
		// Every member of the simple case-folding orbit.
		f := r
		for {
			if f < utf8.RuneSelf {
				s.bytes.Set(byte(f))
			} else {
				s.wide.runes = append(s.wide.runes, f)
			}
			if f = unicode.SimpleFold(f); f == r {
				break
			}
		}
		if len(s.wide.runes) > 0 {
			s.wide.form = wideRunes
			slices.Sort(s.wide.runes)
		}
	}
	return s
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// isEmpty reports whether the set is known to match nothing.
func (s unitSet) isEmpty() bool {
	return s.bytes.IsEmpty() && s.wide.form == wideNone
}

// wordClass classifies the set against ASCII word characters. Non-ASCII
// characters never count as word characters.
func (s unitSet) wordClass() node.WordClass {
	word := charclass.Builtins().Word.Bitmap()
	switch {
	case s.wide.form == wideNone && s.bytes.SubsetOf(&word):
		return node.WordChar
	case s.bytes.Disjoint(&word):
		return node.NonWordChar
	}
	return node.WordUnknown
}

// newlineOnly reports whether the set accepts nothing but '\n'.
func (s unitSet) newlineOnly() bool {
	nl := charclass.Builtins().Newline.Bitmap()
	return s.wide.form == wideNone && !s.bytes.IsEmpty() && s.bytes.SubsetOf(&nl)
}

// subsetOf reports whether every character of s is in o. False means the
// inclusion could not be shown.
func (s unitSet) subsetOf(o unitSet) (bool, error) {
	if !s.bytes.SubsetOf(&o.bytes) {
		return false, nil
	}
	return s.wide.subsetOf(o.wide)
}

func (w wideSet) subsetOf(o wideSet) (bool, error) {
	switch {
	case w.form == wideNone, o.form == wideAll:
		return true, nil
	case w.form == wideClass && o.form == wideClass && w.invert == o.invert && w.desc.Equal(o.desc):
		return true, nil
	case w.form == wideRunes:
		for _, r := range w.runes {
			ok, err := o.contains(r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case o.form == wideNone:
		m, exact, err := w.mask()
		return exact && m == 0, err
	}

	lsp, lok, err := w.spans()
	if err != nil {
		return false, err
	}
	rsp, rok, err := o.spans()
	if err != nil {
		return false, err
	}
	if lok && rok {
		return charclass.SpansCover(rsp, lsp), nil
	}
	if lok {
		rm, exact, err := o.mask()
		if err != nil {
			return false, err
		}
		if exact && someBitCovers(rm, lsp) {
			return true, nil
		}
	}

	lm, exact, err := w.mask()
	if err != nil || !exact {
		return false, err
	}
	if lm == 0 {
		return true, nil
	}
	if rok {
		for _, b := range bits(lm) {
			sp, ok := charclass.BitSpans(b)
			if !ok || !charclass.SpansCover(rsp, sp) {
				return false, nil
			}
		}
		return true, nil
	}
	rm, exact, err := o.mask()
	if err != nil || !exact {
		return false, err
	}
	return charclass.Covers(rm, lm), nil
}

func bits(m charclass.Mask) []charclass.Mask {
	var out []charclass.Mask
	for i := 0; i < 32; i++ {
		if b := charclass.Mask(1) << i; m&b != 0 {
			out = append(out, b)
		}
	}
	return out
}

// someBitCovers reports whether one category of m alone covers sp.
func someBitCovers(m charclass.Mask, sp []node.Span) bool {
	for _, b := range bits(m) {
		if bs, ok := charclass.BitSpans(b); ok && charclass.SpansCover(bs, sp) {
			return true
		}
	}
	return false
}

// spans returns the set as normalized code point spans, when it has that
// form.
func (w wideSet) spans() ([]node.Span, bool, error) {
	switch w.form {
	case wideNone:
		return nil, true, nil
	case wideAll:
		return []node.Span{{Lo: charclass.WideMin, Hi: unicode.MaxRune}}, true, nil
	case wideRunes:
		var out []node.Span
		for _, r := range w.runes {
			if n := len(out); n > 0 && out[n-1].Hi+1 >= r {
				out[n-1].Hi = max(out[n-1].Hi, r)
				continue
			}
			out = append(out, node.Span{Lo: r, Hi: r})
		}
		return out, true, nil
	}
	if w.desc.Text != "" || len(w.desc.Ranges) == 0 {
		return nil, false, nil
	}
	s, err := charclass.NormalizeSpans(w.desc.Ranges)
	if err != nil {
		return nil, false, err
	}
	if w.invert {
		s = charclass.ComplementSpans(s)
	}
	return s, true, nil
}

// mask returns the set as an exact category mask, when it has that form.
func (w wideSet) mask() (charclass.Mask, bool, error) {
	switch w.form {
	case wideNone:
		return 0, true, nil
	case wideAll:
		return charclass.Every, true, nil
	case wideRunes:
		return 0, false, nil
	}
	return charclass.Resolve(w.desc, w.invert)
}

// contains reports whether r is known to be in the set.
func (w wideSet) contains(r rune) (bool, error) {
	switch w.form {
	case wideNone:
		return false, nil
	case wideAll:
		return true, nil
	case wideRunes:
		_, found := slices.BinarySearch(w.runes, r)
		return found, nil
	}
	if s, ok, err := w.spans(); err != nil || ok {
		return ok && charclass.SpansContain(s, r), err
	}
	m, exact, err := w.mask()
	if err != nil || !exact {
		return false, err
	}
	return charclass.Contains(m, r), nil
}

// units compares two unit-consuming nodes: the left unit set must be
// inside the right one.
func units(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	ls, err := unitSetOf(*l)
	if err != nil {
		return false, err
	}
	rs, err := unitSetOf(*r)
	if err != nil {
		return false, err
	}
	ok, err := ls.subsetOf(rs)
	if err != nil {
		return false, err
	}
	if !ok {
		return mismatch(c, anchored, l, r)
	}
	return tails(c, anchored, l, r)
}

// multilineStart handles a left unit against a multiline start anchor,
// which holds when the left side has just consumed a newline.
func multilineStart(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	if !l.AfterNewline {
		return mismatch(c, anchored, l, r)
	}
	return satisfied(c, anchored, l, r)
}

// multilineEnd handles a left unit against a multiline end anchor, which
// holds in front of a newline.
func multilineEnd(c *comparator, anchored bool, l, r *node.Cursor) (bool, error) {
	ls, err := unitSetOf(*l)
	if err != nil {
		return false, err
	}
	if !ls.newlineOnly() {
		return mismatch(c, anchored, l, r)
	}
	return satisfied(c, anchored, l, r)
}
